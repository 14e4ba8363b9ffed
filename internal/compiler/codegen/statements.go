package codegen

import (
	"cmp"
	"fmt"
	"slices"
	"strings"
)

// ImportKind distinguishes default imports from named imports
type ImportKind int

const (
	// DefaultImport binds the module's default export: import X from 'path';
	DefaultImport ImportKind = iota
	// NamedImport binds a named export: import {name} from 'path';
	NamedImport
)

// ModuleImportName is the binding introduced by an import statement.
// Alias is only meaningful for named imports; empty means no alias.
type ModuleImportName struct {
	Kind  ImportKind
	Name  string
	Alias string
}

// Default returns a default import binding.
func Default(name string) ModuleImportName {
	return ModuleImportName{Kind: DefaultImport, Name: name}
}

// Named returns a named import binding. Pass an empty alias for none.
func Named(name, alias string) ModuleImportName {
	return ModuleImportName{Kind: NamedImport, Name: name, Alias: alias}
}

// Statement is a top-level statement of a generated artifact: either an
// ImportStatement or a VariableDefinition.
type Statement interface {
	fmt.Stringer
	rank() int
}

// ImportStatement imports a binding from a module path.
type ImportStatement struct {
	Import ModuleImportName
	Path   string
}

func (s ImportStatement) rank() int { return 0 }

// String renders the statement as a single line of JavaScript.
func (s ImportStatement) String() string {
	switch {
	case s.Import.Kind == DefaultImport:
		return fmt.Sprintf("import %s from '%s';", s.Import.Name, s.Path)
	case s.Import.Alias != "":
		return fmt.Sprintf("import {%s as %s} from '%s';", s.Import.Name, s.Import.Alias, s.Path)
	default:
		return fmt.Sprintf("import {%s} from '%s';", s.Import.Name, s.Path)
	}
}

// VariableDefinition is emitted verbatim.
type VariableDefinition string

func (s VariableDefinition) rank() int { return 1 }

func (s VariableDefinition) String() string {
	return string(s)
}

// Compare orders statements: imports before variable definitions, default
// imports before named ones, default imports by name, named imports by name
// then alias (no alias first), variable definitions by text. Import paths
// break remaining ties.
func Compare(a, b Statement) int {
	a, b = deref(a), deref(b)
	if c := cmp.Compare(a.rank(), b.rank()); c != 0 {
		return c
	}

	switch x := a.(type) {
	case ImportStatement:
		y, ok := b.(ImportStatement)
		if !ok {
			return 0
		}
		if c := cmp.Compare(x.Import.Kind, y.Import.Kind); c != 0 {
			return c
		}
		if c := cmp.Compare(x.Import.Name, y.Import.Name); c != 0 {
			return c
		}
		if c := cmp.Compare(x.Import.Alias, y.Import.Alias); c != 0 {
			return c
		}
		return cmp.Compare(x.Path, y.Path)
	case VariableDefinition:
		y, ok := b.(VariableDefinition)
		if !ok {
			return 0
		}
		return cmp.Compare(x, y)
	}
	return 0
}

// deref turns pointers to statements into the statement values they point to.
func deref(s Statement) Statement {
	switch p := s.(type) {
	case *ImportStatement:
		if p != nil {
			return *p
		}
	case *VariableDefinition:
		if p != nil {
			return *p
		}
	}
	return s
}

// TopLevelStatements maps each bound symbol to exactly one statement. It is
// built by one artifact's code generation and read once by the printer, so it
// is not safe for concurrent use.
type TopLevelStatements struct {
	symbols    []string
	statements map[string]Statement
}

// NewTopLevelStatements creates an empty collection.
func NewTopLevelStatements() *TopLevelStatements {
	return &TopLevelStatements{statements: make(map[string]Statement)}
}

// Insert binds symbol to stmt, replacing any statement already bound to it.
func (t *TopLevelStatements) Insert(symbol string, stmt Statement) {
	if _, ok := t.statements[symbol]; !ok {
		t.symbols = append(t.symbols, symbol)
	}
	t.statements[symbol] = stmt
}

// Contains reports whether symbol is bound.
func (t *TopLevelStatements) Contains(symbol string) bool {
	_, ok := t.statements[symbol]
	return ok
}

// IsEmpty reports whether no statement has been inserted.
func (t *TopLevelStatements) IsEmpty() bool {
	return len(t.statements) == 0
}

// Len returns the number of bound symbols.
func (t *TopLevelStatements) Len() int {
	return len(t.statements)
}

// Render returns the statements in Compare order, one rendered statement per
// entry. The result does not depend on insertion order.
func (t *TopLevelStatements) Render() []string {
	stmts := make([]Statement, 0, len(t.symbols))
	for _, symbol := range t.symbols {
		stmts = append(stmts, t.statements[symbol])
	}
	slices.SortStableFunc(stmts, Compare)

	lines := make([]string, 0, len(stmts))
	for _, s := range stmts {
		lines = append(lines, s.String())
	}
	return lines
}

// String renders all statements, each terminated by a newline.
func (t *TopLevelStatements) String() string {
	lines := t.Render()
	if len(lines) == 0 {
		return ""
	}
	return strings.Join(lines, "\n") + "\n"
}
