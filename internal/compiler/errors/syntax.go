package errors

import "github.com/conduit-lang/graphc/internal/compiler/ir"

// Syntax and document validation error codes
const (
	// ErrParse indicates a document or schema that could not be parsed
	ErrParse ErrorCode = "SYN001"
	// ErrDocumentValidation indicates a document rejected by schema validation
	ErrDocumentValidation ErrorCode = "VAL500"
)

// NewParseError creates a SYN001 error
func NewParseError(loc ir.SourceLocation, message string) *CompilerError {
	return newError(
		ErrParse,
		"parse_error",
		CategorySyntax,
		SeverityError,
		message,
		loc,
	)
}

// NewDocumentValidation creates a VAL500 error
func NewDocumentValidation(loc ir.SourceLocation, rule, message string) *CompilerError {
	err := newError(
		ErrDocumentValidation,
		"document_validation",
		CategoryValidation,
		SeverityError,
		message,
		loc,
	)
	if rule != "" {
		err.Type = "document_validation:" + rule
	}
	return err
}
