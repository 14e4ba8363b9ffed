package ir

import (
	"fmt"
	"strconv"
	"strings"
)

// Print renders a document as GraphQL text. Compiler metadata is rendered as
// pseudo-directives prefixed with "__" so transformed documents can be diffed
// against golden files.
func Print(doc *Document) string {
	var b strings.Builder

	switch doc.Kind {
	case DocumentFragment:
		fmt.Fprintf(&b, "fragment %s on %s", doc.Name, doc.TypeCondition)
	default:
		op := doc.Operation
		if op == "" {
			op = "query"
		}
		b.WriteString(op)
		if doc.Name != "" {
			b.WriteString(" " + doc.Name)
		}
		if len(doc.Variables) > 0 {
			parts := make([]string, 0, len(doc.Variables))
			for _, v := range doc.Variables {
				part := "$" + v.Name + ": " + v.Type.String()
				if v.DefaultValue != nil {
					part += " = " + v.DefaultValue.String()
				}
				parts = append(parts, part)
			}
			b.WriteString("(" + strings.Join(parts, ", ") + ")")
		}
	}
	b.WriteString(printDirectives(doc.Directives))
	if doc.Synthetic {
		fmt.Fprintf(&b, " @__synthetic(parent: %s, type: %s)",
			strconv.Quote(doc.Parent), strconv.Quote(doc.TypeCondition))
	}
	if len(doc.ModuleDependencies) > 0 {
		b.WriteString(printModules(doc.ModuleDependencies))
	}
	b.WriteString(" {\n")
	printSelections(&b, doc.Selections, 1)
	b.WriteString("}\n")
	return b.String()
}

func printSelections(b *strings.Builder, sels []Selection, depth int) {
	indent := strings.Repeat("  ", depth)
	for _, sel := range sels {
		b.WriteString(indent)
		switch s := sel.(type) {
		case *Field:
			if s.Alias != "" {
				b.WriteString(s.Alias + ": ")
			}
			b.WriteString(s.Name)
			b.WriteString(printArguments(s.Arguments))
			b.WriteString(printDirectives(s.Directives))
			if s.ClientEdge != nil {
				b.WriteString(printClientEdge(s.ClientEdge))
			}
			if len(s.ModuleDependencies) > 0 {
				b.WriteString(printModules(s.ModuleDependencies))
			}
			printBlock(b, s.Selections, depth)
		case *InlineFragment:
			b.WriteString("...")
			if s.TypeCondition != "" {
				b.WriteString(" on " + s.TypeCondition)
			}
			b.WriteString(printDirectives(s.Directives))
			printBlock(b, s.Selections, depth)
		case *FragmentSpread:
			b.WriteString("..." + s.Name)
			b.WriteString(printDirectives(s.Directives))
			b.WriteString("\n")
		}
	}
}

func printBlock(b *strings.Builder, sels []Selection, depth int) {
	if len(sels) == 0 {
		b.WriteString("\n")
		return
	}
	b.WriteString(" {\n")
	printSelections(b, sels, depth+1)
	b.WriteString(strings.Repeat("  ", depth) + "}\n")
}

func printArguments(args []*Argument) string {
	if len(args) == 0 {
		return ""
	}
	parts := make([]string, 0, len(args))
	for _, arg := range args {
		parts = append(parts, arg.Name+": "+arg.Value.String())
	}
	return "(" + strings.Join(parts, ", ") + ")"
}

func printDirectives(dirs []*Directive) string {
	var b strings.Builder
	for _, d := range dirs {
		b.WriteString(" @" + d.Name)
		b.WriteString(printArguments(d.Arguments))
	}
	return b.String()
}

func printClientEdge(m *ClientEdgeMetadata) string {
	s := fmt.Sprintf(" @__clientEdge(id: %s, kind: %s, depth: %d",
		strconv.Quote(m.EdgeID), strconv.Quote(m.Kind.String()), m.Depth)
	if m.QueryName != "" {
		s += ", query: " + strconv.Quote(m.QueryName)
	}
	return s + ")"
}

func printModules(deps []ModuleDependency) string {
	var direct, transitive []string
	for _, dep := range deps {
		if dep.Classification == DependencyDirect {
			direct = append(direct, strconv.Quote(dep.Module))
		} else {
			transitive = append(transitive, strconv.Quote(dep.Module))
		}
	}
	var parts []string
	if len(direct) > 0 {
		parts = append(parts, "direct: ["+strings.Join(direct, ", ")+"]")
	}
	if len(transitive) > 0 {
		parts = append(parts, "transitive: ["+strings.Join(transitive, ", ")+"]")
	}
	return " @__modules(" + strings.Join(parts, ", ") + ")"
}
