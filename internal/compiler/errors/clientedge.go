package errors

import (
	"fmt"

	"github.com/conduit-lang/graphc/internal/compiler/ir"
)

// Client edge error codes (EDG100-199)
const (
	// ErrTargetTypeUnresolvable indicates a client edge whose target has no server-resolvable type
	ErrTargetTypeUnresolvable ErrorCode = "EDG100"
	// ErrIncompatibleDirective indicates a directive that cannot be used on a to-server client edge
	ErrIncompatibleDirective ErrorCode = "EDG101"
	// ErrUnexpectedWaterfall indicates a nested to-server client edge without @waterfall
	ErrUnexpectedWaterfall ErrorCode = "EDG102"
)

// NewTargetTypeUnresolvable creates an EDG100 error
func NewTargetTypeUnresolvable(loc ir.SourceLocation, field, target string) *CompilerError {
	return newError(
		ErrTargetTypeUnresolvable,
		"target_type_unresolvable",
		CategoryClientEdge,
		SeverityError,
		fmt.Sprintf("Client edge '%s' targets '%s', which is only defined by client schema extensions and has no server type among its members", field, target),
		loc,
	).WithSuggestion("Return a concrete client type or a server interface/union from the resolver")
}

// NewIncompatibleDirective creates an EDG101 error
func NewIncompatibleDirective(loc ir.SourceLocation, field, directive string) *CompilerError {
	return newError(
		ErrIncompatibleDirective,
		"incompatible_directive",
		CategoryClientEdge,
		SeverityError,
		fmt.Sprintf("@%s is not supported on client edge '%s' because it points at a server object", directive, field),
		loc,
	).WithSuggestion(fmt.Sprintf("Remove @%s from the client edge and apply it to fields selected inside it", directive))
}

// NewUnexpectedWaterfall creates an EDG102 error. ancestor is the location of the
// nearest enclosing to-server client edge.
func NewUnexpectedWaterfall(loc ir.SourceLocation, field string, ancestor ir.SourceLocation, ancestorField string) *CompilerError {
	return newError(
		ErrUnexpectedWaterfall,
		"unexpected_waterfall",
		CategoryClientEdge,
		SeverityError,
		fmt.Sprintf("Client edge '%s' is nested inside client edge '%s'; fetching it requires a second sequential server round trip", field, ancestorField),
		loc,
	).WithRelated(ancestor, fmt.Sprintf("enclosing client edge '%s'", ancestorField)).
		WithSuggestion("Add @waterfall to the nested client edge to acknowledge the extra round trip")
}
