// Package errors provides structured diagnostics for the graphc compiler.
// It defines error codes, categories, and formatting for both human-readable
// terminal output and machine-parseable JSON for editor tooling.
package errors

import (
	"encoding/json"
	"fmt"
	"sort"

	"github.com/conduit-lang/graphc/internal/compiler/ir"
)

// ErrorCode represents a unique error code in the graphc compiler
type ErrorCode string

// ErrorCategory represents the category of compiler error
type ErrorCategory string

const (
	// CategorySyntax represents document parse errors (SYN001-099)
	CategorySyntax ErrorCategory = "syntax"
	// CategoryClientEdge represents client edge errors (EDG100-199)
	CategoryClientEdge ErrorCategory = "client_edge"
	// CategoryValidation represents document validation errors (VAL500-599)
	CategoryValidation ErrorCategory = "validation"
	// CategoryCodeGen represents artifact generation errors (GEN600-699)
	CategoryCodeGen ErrorCategory = "codegen"
	// CategoryInternal represents compiler invariant violations (INT900-999)
	CategoryInternal ErrorCategory = "internal"
)

// ErrorSeverity indicates the severity level of an error
type ErrorSeverity string

const (
	// SeverityError indicates an error that prevents compilation
	SeverityError ErrorSeverity = "error"
	// SeverityWarning indicates a warning that suggests potential issues
	SeverityWarning ErrorSeverity = "warning"
	// SeverityInfo indicates informational messages
	SeverityInfo ErrorSeverity = "info"
)

// RelatedLocation points at a secondary source position relevant to an error
type RelatedLocation struct {
	Location ir.SourceLocation `json:"location"`
	Message  string            `json:"message"`
}

// CompilerError represents a structured compiler error with comprehensive information
// for both human-readable output and editor consumption
type CompilerError struct {
	// Code is the unique error code (e.g., "EDG102", "SYN001")
	Code ErrorCode `json:"code"`
	// Type is a machine-readable error type identifier
	Type string `json:"type"`
	// Category is the error category
	Category ErrorCategory `json:"category"`
	// Severity is the error severity level
	Severity ErrorSeverity `json:"severity"`
	// Message is the primary error message
	Message string `json:"message"`
	// Location is the source location of the error
	Location ir.SourceLocation `json:"location"`
	// Document is the name of the document the error was found in
	Document string `json:"document,omitempty"`
	// Related lists secondary locations, e.g. the enclosing client edge
	Related []RelatedLocation `json:"related,omitempty"`
	// Suggestion provides a hint for fixing the error (optional)
	Suggestion string `json:"suggestion,omitempty"`
	// Documentation is a URL to detailed error documentation
	Documentation string `json:"documentation,omitempty"`
}

// Error implements the error interface
func (e *CompilerError) Error() string {
	return e.Format()
}

// Format returns a human-readable error message for terminal output
func (e *CompilerError) Format() string {
	return FormatError(e)
}

// ToJSON returns the error as a JSON string
func (e *CompilerError) ToJSON() (string, error) {
	bytes, err := json.MarshalIndent(e, "", "  ")
	if err != nil {
		return "", err
	}
	return string(bytes), nil
}

// WithDocument sets the document name for the error
func (e *CompilerError) WithDocument(name string) *CompilerError {
	e.Document = name
	return e
}

// WithRelated appends a related location to the error
func (e *CompilerError) WithRelated(loc ir.SourceLocation, message string) *CompilerError {
	e.Related = append(e.Related, RelatedLocation{Location: loc, Message: message})
	return e
}

// WithSuggestion sets a suggestion for fixing the error
func (e *CompilerError) WithSuggestion(suggestion string) *CompilerError {
	e.Suggestion = suggestion
	return e
}

// ErrorList is a collection of compiler errors
type ErrorList []*CompilerError

// Error implements the error interface
func (el ErrorList) Error() string {
	if len(el) == 0 {
		return "no errors"
	}
	return FormatErrorList(el)
}

// HasErrors returns true if the list contains any errors (excludes warnings/info)
func (el ErrorList) HasErrors() bool {
	for _, err := range el {
		if err.Severity == SeverityError {
			return true
		}
	}
	return false
}

// ByCode returns the errors with the given code
func (el ErrorList) ByCode(code ErrorCode) ErrorList {
	var out ErrorList
	for _, err := range el {
		if err.Code == code {
			out = append(out, err)
		}
	}
	return out
}

// Sort orders errors by file, line, column and code so reports are stable
// regardless of the order workers finished in.
func (el ErrorList) Sort() {
	sort.SliceStable(el, func(i, j int) bool {
		a, b := el[i].Location, el[j].Location
		if a.File != b.File {
			return a.File < b.File
		}
		if a.Line != b.Line {
			return a.Line < b.Line
		}
		if a.Column != b.Column {
			return a.Column < b.Column
		}
		return el[i].Code < el[j].Code
	})
}

// ToJSON returns all errors as a JSON array
func (el ErrorList) ToJSON() (string, error) {
	bytes, err := json.MarshalIndent(el, "", "  ")
	if err != nil {
		return "", err
	}
	return string(bytes), nil
}

// ErrorCount returns the number of errors by severity
func (el ErrorList) ErrorCount() (errors, warnings, info int) {
	for _, err := range el {
		switch err.Severity {
		case SeverityError:
			errors++
		case SeverityWarning:
			warnings++
		case SeverityInfo:
			info++
		}
	}
	return
}

// documentationURL returns the documentation URL for an error code
func documentationURL(code ErrorCode) string {
	return fmt.Sprintf("https://docs.conduit-lang.org/graphc/errors/%s", code)
}

// newError creates a new CompilerError with the given parameters
func newError(
	code ErrorCode,
	typ string,
	category ErrorCategory,
	severity ErrorSeverity,
	message string,
	loc ir.SourceLocation,
) *CompilerError {
	return &CompilerError{
		Code:          code,
		Type:          typ,
		Category:      category,
		Severity:      severity,
		Message:       message,
		Location:      loc,
		Documentation: documentationURL(code),
	}
}
