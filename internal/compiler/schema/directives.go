package schema

import "github.com/vektah/gqlparser/v2/ast"

// Directive names understood by the compiler.
const (
	// DirectiveResolver marks a field definition as resolved by client code.
	DirectiveResolver = "relay_resolver"
	// DirectiveWaterfall acknowledges a nested to-server client edge.
	DirectiveWaterfall = "waterfall"
	// DirectiveRequired enforces non-nullability of a selected field.
	DirectiveRequired = "required"
	// DirectiveMatch marks a data-driven field.
	DirectiveMatch = "match"
	// DirectiveModule names the module rendering a fragment spread.
	DirectiveModule = "module"
)

// Prelude declares the compiler directives. It is loaded ahead of user SDL.
var Prelude = &ast.Source{
	Name: "graphc/prelude.graphql",
	Input: `
directive @relay_resolver(import_path: String!, import_name: String) on FIELD_DEFINITION
directive @waterfall on FIELD
directive @required(action: RequiredFieldAction!) on FIELD
directive @match(key: String) on FIELD
directive @module(name: String!) on FRAGMENT_SPREAD

enum RequiredFieldAction {
  NONE
  LOG
  THROW
}
`,
}
