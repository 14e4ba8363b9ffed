// Package clientedge implements the client edge transform. A client edge is a
// field resolved by client code whose result is an object. Edges pointing at
// server types need a further server query; the transform validates where such
// edges may appear and splits each one into its own synthetic query.
package clientedge

import (
	"strconv"
	"strings"

	"github.com/conduit-lang/graphc/internal/compiler/ir"
	"github.com/conduit-lang/graphc/internal/compiler/schema"
)

// Classifier identifies client edge fields using schema resolver metadata.
type Classifier struct {
	schema schema.Lookup
}

// NewClassifier creates a classifier backed by the given schema.
func NewClassifier(lookup schema.Lookup) *Classifier {
	return &Classifier{schema: lookup}
}

// Classify reports whether the field is a client edge and, if so, its kind.
func (c *Classifier) Classify(f *ir.Field) (ir.ClientEdgeKind, bool) {
	info := c.schema.Field(f.ParentType, f.Name)
	if info == nil || info.Resolver == nil {
		return 0, false
	}
	target := c.schema.Type(info.Type.Name())
	if target == nil || !target.IsComposite() {
		return 0, false
	}

	if target.IsAbstract() {
		if len(c.schema.ServerPossibleTypes(target.Name)) > 0 {
			return ir.ClientEdgeToServer, true
		}
		return ir.ClientEdgeToClientObject, true
	}
	if c.schema.IsServerType(target.Name) {
		return ir.ClientEdgeToServer, true
	}
	return ir.ClientEdgeToClientObject, true
}

// ClassifyDocument attaches metadata to every client edge in the document and
// returns all client edges in document order. Fields that already carry
// metadata keep it unchanged, which makes classification idempotent.
func (c *Classifier) ClassifyDocument(doc *ir.Document) []*ir.Field {
	var edges []*ir.Field
	ids := make(map[string]int)

	ir.Walk(doc.Selections, ir.Visitor{
		Enter: func(sel ir.Selection, ancestors []ir.Selection) bool {
			f, ok := sel.(*ir.Field)
			if !ok {
				return true
			}
			if f.ClientEdge != nil {
				ids[f.ClientEdge.EdgeID]++
				edges = append(edges, f)
				return true
			}

			kind, ok := c.Classify(f)
			if !ok {
				return true
			}
			info := c.schema.Field(f.ParentType, f.Name)
			f.ClientEdge = &ir.ClientEdgeMetadata{
				EdgeID:     edgeID(doc.Name, ancestors, f, ids),
				TargetType: info.Type.Name(),
				Kind:       kind,
				Resolver:   info.Resolver,
			}
			edges = append(edges, f)
			return true
		},
	})
	return edges
}

// edgeID joins the document name and the response-key path of the field with
// "__". Colliding paths get the lowest numeric suffix that yields an id not
// yet issued in the document.
func edgeID(docName string, ancestors []ir.Selection, f *ir.Field, seen map[string]int) string {
	parts := []string{docName}
	for _, a := range ancestors {
		if af, ok := a.(*ir.Field); ok {
			parts = append(parts, af.ResponseKey())
		}
	}
	parts = append(parts, f.ResponseKey())

	base := strings.Join(parts, "__")
	id := base
	for n := 1; seen[id] > 0; {
		n++
		id = base + "_" + strconv.Itoa(n)
	}
	seen[id]++
	return id
}
