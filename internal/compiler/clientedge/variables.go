package clientedge

import (
	"github.com/conduit-lang/graphc/internal/compiler/ir"
	"github.com/conduit-lang/graphc/internal/compiler/schema"
)

// variableUse is a variable reference together with the input type expected
// at the position it was found, when known.
type variableUse struct {
	name string
	typ  *ir.TypeRef
	loc  ir.SourceLocation
}

// variableCollector finds every variable reachable from a selection set:
// field and directive arguments, nested list and object values, and the
// contents of fragments reached by spread.
type variableCollector struct {
	program *ir.Program
	schema  schema.Lookup

	uses    []*variableUse
	index   map[string]*variableUse
	visited map[string]bool
}

func collectVariables(program *ir.Program, lookup schema.Lookup, sels []ir.Selection) []*variableUse {
	c := &variableCollector{
		program: program,
		schema:  lookup,
		index:   make(map[string]*variableUse),
		visited: make(map[string]bool),
	}
	c.selections(sels)
	return c.uses
}

func (c *variableCollector) selections(sels []ir.Selection) {
	ir.Walk(sels, ir.Visitor{
		Enter: func(sel ir.Selection, _ []ir.Selection) bool {
			switch s := sel.(type) {
			case *ir.Field:
				c.arguments(s.Arguments)
				c.directives(s.Directives)
			case *ir.InlineFragment:
				c.directives(s.Directives)
			case *ir.FragmentSpread:
				c.directives(s.Directives)
				c.spread(s.Name)
			}
			return true
		},
	})
}

func (c *variableCollector) spread(name string) {
	if c.visited[name] || c.program == nil {
		return
	}
	c.visited[name] = true
	frag := c.program.Fragment(name)
	if frag == nil {
		return
	}
	c.directives(frag.Directives)
	c.selections(frag.Selections)
}

func (c *variableCollector) directives(dirs []*ir.Directive) {
	for _, d := range dirs {
		c.arguments(d.Arguments)
	}
}

func (c *variableCollector) arguments(args []*ir.Argument) {
	for _, arg := range args {
		c.value(arg.Value, arg.Type, arg.Loc)
	}
}

func (c *variableCollector) value(v *ir.Value, typ *ir.TypeRef, loc ir.SourceLocation) {
	if v == nil {
		return
	}
	switch v.Kind {
	case ir.ValueVariable:
		c.record(v.Raw, typ, loc)
	case ir.ValueList:
		elem := typ
		if typ.IsList() {
			elem = typ.Elem
		}
		for _, child := range v.Children {
			c.value(child.Value, elem, loc)
		}
	case ir.ValueObject:
		for _, child := range v.Children {
			var fieldType *ir.TypeRef
			if typ != nil {
				if info := c.schema.Field(typ.Name(), child.Name); info != nil {
					fieldType = info.Type
				}
			}
			c.value(child.Value, fieldType, loc)
		}
	}
}

func (c *variableCollector) record(name string, typ *ir.TypeRef, loc ir.SourceLocation) {
	if use, ok := c.index[name]; ok {
		if use.typ == nil {
			use.typ = typ
		}
		return
	}
	use := &variableUse{name: name, typ: typ, loc: loc}
	c.index[name] = use
	c.uses = append(c.uses, use)
}
