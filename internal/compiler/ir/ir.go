// Package ir defines the typed intermediate representation of GraphQL documents
// handled by the graphc compiler. Documents are lowered into this form by the parser
// package after schema validation, then rewritten in place by compiler transforms.
package ir

// SourceLocation tracks the position of an IR node in source code
type SourceLocation struct {
	File   string `json:"file,omitempty"`
	Line   int    `json:"line"`   // Line number (1-indexed)
	Column int    `json:"column"` // Column number (1-indexed)
}

// Node is the base interface for all IR nodes
type Node interface {
	Location() SourceLocation
	node()
}

// Selection is a node that can appear in a selection set: a field, an inline
// fragment or a fragment spread.
type Selection interface {
	Node
	selection()
}

// TypeRef is a reference to a schema type, possibly wrapped in list and
// non-null modifiers.
type TypeRef struct {
	Named   string   // Named type; empty for list types
	Elem    *TypeRef // Element type of a list
	NonNull bool
}

// Name returns the innermost named type.
func (t *TypeRef) Name() string {
	if t == nil {
		return ""
	}
	if t.Named != "" {
		return t.Named
	}
	return t.Elem.Name()
}

// IsList reports whether the outermost wrapper is a list.
func (t *TypeRef) IsList() bool {
	return t != nil && t.Named == "" && t.Elem != nil
}

// String renders the type in GraphQL syntax, e.g. "[ID!]!".
func (t *TypeRef) String() string {
	if t == nil {
		return ""
	}
	nn := ""
	if t.NonNull {
		nn = "!"
	}
	if t.Named != "" {
		return t.Named + nn
	}
	return "[" + t.Elem.String() + "]" + nn
}

// Field represents a field selection
type Field struct {
	Alias      string
	Name       string
	Arguments  []*Argument
	Directives []*Directive
	Selections []Selection

	// ParentType is the type the field is selected on.
	ParentType string
	// Type is the declared output type of the field.
	Type *TypeRef

	// ClientEdge is set by the client edge classifier and only on client edges.
	ClientEdge *ClientEdgeMetadata
	// ModuleDependencies is set on data-driven (3D) fields.
	ModuleDependencies []ModuleDependency

	Loc SourceLocation
}

func (f *Field) node()      {}
func (f *Field) selection() {}

// Location returns the source location of the field.
func (f *Field) Location() SourceLocation {
	return f.Loc
}

// ResponseKey returns the alias if present, otherwise the field name.
func (f *Field) ResponseKey() string {
	if f.Alias != "" {
		return f.Alias
	}
	return f.Name
}

// Directive returns the first directive with the given name, or nil.
func (f *Field) Directive(name string) *Directive {
	return findDirective(f.Directives, name)
}

// Argument returns the argument with the given name, or nil.
func (f *Field) Argument(name string) *Argument {
	for _, arg := range f.Arguments {
		if arg.Name == name {
			return arg
		}
	}
	return nil
}

// InlineFragment represents an inline fragment, with or without a type condition
type InlineFragment struct {
	TypeCondition string
	Directives    []*Directive
	Selections    []Selection
	Loc           SourceLocation
}

func (f *InlineFragment) node()      {}
func (f *InlineFragment) selection() {}

// Location returns the source location of the inline fragment.
func (f *InlineFragment) Location() SourceLocation {
	return f.Loc
}

// FragmentSpread represents a named fragment spread
type FragmentSpread struct {
	Name       string
	Directives []*Directive
	Loc        SourceLocation
}

func (s *FragmentSpread) node()      {}
func (s *FragmentSpread) selection() {}

// Location returns the source location of the fragment spread.
func (s *FragmentSpread) Location() SourceLocation {
	return s.Loc
}

// Directive returns the first directive with the given name, or nil.
func (s *FragmentSpread) Directive(name string) *Directive {
	return findDirective(s.Directives, name)
}

// Argument is a named argument of a field or directive
type Argument struct {
	Name  string
	Value *Value
	// Type is the argument's declared input type, when known.
	Type *TypeRef
	Loc  SourceLocation
}

// Directive is a directive applied to a selection or document
type Directive struct {
	Name      string
	Arguments []*Argument
	Loc       SourceLocation
}

// Argument returns the directive argument with the given name, or nil.
func (d *Directive) Argument(name string) *Argument {
	for _, arg := range d.Arguments {
		if arg.Name == name {
			return arg
		}
	}
	return nil
}

// VariableDefinition declares an operation variable
type VariableDefinition struct {
	Name         string
	Type         *TypeRef
	DefaultValue *Value
	Loc          SourceLocation
}

// DocumentKind distinguishes operations from fragments
type DocumentKind int

const (
	// DocumentOperation is a query, mutation or subscription
	DocumentOperation DocumentKind = iota
	// DocumentFragment is a named fragment definition
	DocumentFragment
)

// Document is a top-level executable definition: an operation or a fragment.
type Document struct {
	Kind DocumentKind
	// Operation is "query", "mutation" or "subscription" for operations.
	Operation     string
	Name          string
	TypeCondition string
	Variables     []*VariableDefinition
	Directives    []*Directive
	Selections    []Selection

	// Synthetic marks documents generated by the compiler.
	Synthetic bool
	// Parent is the name of the document a synthetic query was split from.
	Parent string

	// ModuleDependencies is the document-level union of its 3D field dependencies.
	ModuleDependencies []ModuleDependency

	Loc SourceLocation
}

func (d *Document) node() {}

// Location returns the source location of the document.
func (d *Document) Location() SourceLocation {
	return d.Loc
}

// Variable returns the variable definition with the given name, or nil.
func (d *Document) Variable(name string) *VariableDefinition {
	for _, v := range d.Variables {
		if v.Name == name {
			return v
		}
	}
	return nil
}

// Program is the set of documents compiled together. Fragments may be spread
// across documents of the same program.
type Program struct {
	Documents []*Document
}

// Fragment returns the fragment with the given name, or nil.
func (p *Program) Fragment(name string) *Document {
	for _, doc := range p.Documents {
		if doc.Kind == DocumentFragment && doc.Name == name {
			return doc
		}
	}
	return nil
}

// Operation returns the operation with the given name, or nil.
func (p *Program) Operation(name string) *Document {
	for _, doc := range p.Documents {
		if doc.Kind == DocumentOperation && doc.Name == name {
			return doc
		}
	}
	return nil
}

func findDirective(dirs []*Directive, name string) *Directive {
	for _, d := range dirs {
		if d.Name == name {
			return d
		}
	}
	return nil
}
