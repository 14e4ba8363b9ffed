package errors

import (
	"fmt"

	"github.com/conduit-lang/graphc/internal/compiler/ir"
)

// Code generation error codes (GEN600-699)
const (
	// ErrCodeGenFailed indicates a general artifact generation failure
	ErrCodeGenFailed ErrorCode = "GEN600"
)

// NewCodeGenFailed creates a GEN600 error
func NewCodeGenFailed(loc ir.SourceLocation, reason string) *CompilerError {
	return newError(
		ErrCodeGenFailed,
		"codegen_failed",
		CategoryCodeGen,
		SeverityError,
		fmt.Sprintf("Artifact generation failed: %s", reason),
		loc,
	).WithSuggestion("This is likely a compiler bug - please report it")
}
