package clientedge

import (
	"github.com/conduit-lang/graphc/internal/compiler/errors"
	"github.com/conduit-lang/graphc/internal/compiler/ir"
	"github.com/conduit-lang/graphc/internal/compiler/schema"
)

// ValidateWaterfalls records the waterfall depth of every classified to-server
// edge and reports each to-server edge nested under another to-server edge
// without @waterfall. The document must already be classified.
func ValidateWaterfalls(doc *ir.Document) errors.ErrorList {
	f := newFindings(doc.Name)
	checkWaterfalls(doc, f)
	return f.errs
}

func checkWaterfalls(doc *ir.Document, f *findings) {
	var open []*ir.Field

	ir.Walk(doc.Selections, ir.Visitor{
		Enter: func(sel ir.Selection, _ []ir.Selection) bool {
			field, ok := sel.(*ir.Field)
			if !ok || field.ClientEdge == nil || isPlaceholder(field) {
				return true
			}
			meta := field.ClientEdge
			if !meta.IsToServer() {
				return true
			}

			meta.Depth = len(open)
			meta.Acknowledged = field.Directive(schema.DirectiveWaterfall) != nil
			if meta.Depth >= 1 && !meta.Acknowledged {
				ancestor := open[len(open)-1]
				f.add(field, errors.NewUnexpectedWaterfall(
					field.Loc, field.ResponseKey(), ancestor.Loc, ancestor.ResponseKey()))
			}
			open = append(open, field)
			return true
		},
		Leave: func(sel ir.Selection, _ []ir.Selection) {
			if len(open) > 0 && open[len(open)-1] == sel {
				open = open[:len(open)-1]
			}
		},
	})
}

// isPlaceholder reports whether the field is the residue of an edge that was
// already split into a synthetic query.
func isPlaceholder(f *ir.Field) bool {
	return f.ClientEdge != nil && f.ClientEdge.QueryName != ""
}
