package errors

import (
	"fmt"

	"github.com/conduit-lang/graphc/internal/compiler/ir"
)

// Internal error codes (INT900-999). These signal compiler defects, not user mistakes.
const (
	// ErrMalformedSyntheticQuery indicates a synthetic query that cannot compile standalone
	ErrMalformedSyntheticQuery ErrorCode = "INT900"
)

// NewMalformedSyntheticQuery creates an INT900 error
func NewMalformedSyntheticQuery(loc ir.SourceLocation, query, reason string) *CompilerError {
	return newError(
		ErrMalformedSyntheticQuery,
		"malformed_synthetic_query",
		CategoryInternal,
		SeverityError,
		fmt.Sprintf("Synthetic query '%s' is malformed: %s", query, reason),
		loc,
	).WithSuggestion("This is likely a compiler bug - please report it")
}

// IsInternal reports whether the error signals a compiler defect.
func (e *CompilerError) IsInternal() bool {
	return e.Category == CategoryInternal
}
