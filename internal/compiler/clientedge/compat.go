package clientedge

import (
	"github.com/conduit-lang/graphc/internal/compiler/errors"
	"github.com/conduit-lang/graphc/internal/compiler/ir"
	"github.com/conduit-lang/graphc/internal/compiler/schema"
)

// ValidateCompatibility checks every classified edge against the schema and
// returns all violations found. Order of edges does not matter.
func ValidateCompatibility(lookup schema.Lookup, document string, edges []*ir.Field) errors.ErrorList {
	f := newFindings(document)
	checkCompatibility(lookup, edges, f)
	return f.errs
}

func checkCompatibility(lookup schema.Lookup, edges []*ir.Field, f *findings) {
	for _, edge := range edges {
		meta := edge.ClientEdge
		if meta == nil {
			continue
		}

		if target := lookup.Type(meta.TargetType); target != nil && target.IsAbstract() &&
			len(lookup.ServerPossibleTypes(target.Name)) == 0 {
			f.add(edge, errors.NewTargetTypeUnresolvable(edge.Loc, edge.ResponseKey(), meta.TargetType))
		}

		if meta.IsToServer() {
			if d := edge.Directive(schema.DirectiveRequired); d != nil {
				f.add(edge, errors.NewIncompatibleDirective(d.Loc, edge.ResponseKey(), schema.DirectiveRequired))
			}
		}
	}
}
