// Package moduledeps computes the module dependencies of data-driven (3D)
// fields: fields whose rendering code is a separately loaded module chosen at
// runtime from the returned data.
package moduledeps

import (
	"sort"

	"github.com/conduit-lang/graphc/internal/compiler/ir"
	"github.com/conduit-lang/graphc/internal/compiler/schema"
)

// Transform annotates every 3D field of doc with its module dependencies and
// stores their union on the document. Fragments reached by spread are read
// but never modified, so doc must be owned by the caller.
func Transform(program *ir.Program, doc *ir.Document) {
	ir.Walk(doc.Selections, ir.Visitor{
		Enter: func(sel ir.Selection, _ []ir.Selection) bool {
			if f, ok := sel.(*ir.Field); ok && IsDataDriven(f) {
				f.ModuleDependencies = Collect(program, f.Selections)
			}
			return true
		},
	})
	doc.ModuleDependencies = Collect(program, doc.Selections)
}

// IsDataDriven reports whether the field carries @match or directly selects
// @module fragment spreads, possibly inside inline fragments.
func IsDataDriven(f *ir.Field) bool {
	if f.Directive(schema.DirectiveMatch) != nil {
		return true
	}
	return hasModuleSpread(f.Selections)
}

func hasModuleSpread(sels []ir.Selection) bool {
	for _, sel := range sels {
		switch s := sel.(type) {
		case *ir.FragmentSpread:
			if moduleName(s) != "" {
				return true
			}
		case *ir.InlineFragment:
			if hasModuleSpread(s.Selections) {
				return true
			}
		}
	}
	return false
}

// Collect returns the modules reachable from the selections, sorted by module.
// Modules found without crossing a fragment spread are direct; modules found
// only through spreads are transitive. Direct wins when both apply.
func Collect(program *ir.Program, sels []ir.Selection) []ir.ModuleDependency {
	c := &collector{
		program: program,
		deps:    make(map[string]ir.DependencyClassification),
		visited: make(map[string]bool),
	}
	c.selections(sels, false)
	return c.sorted()
}

type collector struct {
	program *ir.Program
	deps    map[string]ir.DependencyClassification
	visited map[string]bool
}

func (c *collector) selections(sels []ir.Selection, viaSpread bool) {
	for _, sel := range sels {
		switch s := sel.(type) {
		case *ir.Field:
			c.selections(s.Selections, viaSpread)
		case *ir.InlineFragment:
			c.selections(s.Selections, viaSpread)
		case *ir.FragmentSpread:
			if name := moduleName(s); name != "" {
				c.add(name, viaSpread)
			}
			c.spread(s.Name)
		}
	}
}

func (c *collector) spread(name string) {
	if c.visited[name] || c.program == nil {
		return
	}
	c.visited[name] = true
	if frag := c.program.Fragment(name); frag != nil {
		c.selections(frag.Selections, true)
	}
}

func (c *collector) add(module string, viaSpread bool) {
	if viaSpread {
		if _, ok := c.deps[module]; !ok {
			c.deps[module] = ir.DependencyTransitive
		}
		return
	}
	c.deps[module] = ir.DependencyDirect
}

func (c *collector) sorted() []ir.ModuleDependency {
	if len(c.deps) == 0 {
		return nil
	}
	out := make([]ir.ModuleDependency, 0, len(c.deps))
	for module, class := range c.deps {
		out = append(out, ir.ModuleDependency{Module: module, Classification: class})
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].Module < out[j].Module
	})
	return out
}

func moduleName(s *ir.FragmentSpread) string {
	d := s.Directive(schema.DirectiveModule)
	if d == nil {
		return ""
	}
	arg := d.Argument("name")
	if arg == nil || arg.Value == nil {
		return ""
	}
	return arg.Value.Raw
}
