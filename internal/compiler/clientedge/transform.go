package clientedge

import (
	"fmt"

	"github.com/conduit-lang/graphc/internal/compiler/errors"
	"github.com/conduit-lang/graphc/internal/compiler/ir"
	"github.com/conduit-lang/graphc/internal/compiler/schema"
)

// QueryPrefix is prepended to the edge id to name a synthetic query.
const QueryPrefix = "ClientEdgeQuery_"

// Result is the outcome of transforming one document.
type Result struct {
	// Residual is the rewritten document. To-server edges are replaced by
	// placeholders that name their synthetic query.
	Residual *ir.Document
	// Queries holds one synthetic query per split edge, innermost first.
	Queries []*ir.Document
	// Errors holds every diagnostic found in the document.
	Errors errors.ErrorList
}

// Compilable reports whether artifacts may be generated for the document.
func (r *Result) Compilable() bool {
	return !r.Errors.HasErrors()
}

// Transform classifies, validates and splits client edges.
// It is safe for concurrent use; documents in the program are never mutated.
type Transform struct {
	schema     schema.Lookup
	classifier *Classifier
}

// New creates a Transform backed by the given schema.
func New(lookup schema.Lookup) *Transform {
	return &Transform{
		schema:     lookup,
		classifier: NewClassifier(lookup),
	}
}

// Run transforms a copy of doc. program is consulted to follow fragment
// spreads when propagating variables.
func (t *Transform) Run(program *ir.Program, doc *ir.Document) *Result {
	residual := ir.CloneDocument(doc)
	f := newFindings(doc.Name)

	edges := t.classifier.ClassifyDocument(residual)
	if len(edges) == 0 {
		return &Result{Residual: residual}
	}

	checkWaterfalls(residual, f)
	checkCompatibility(t.schema, edges, f)

	s := &splitter{
		transform: t,
		program:   program,
		doc:       residual,
		findings:  f,
	}
	residual.Selections = s.rewrite(residual.Selections)

	f.errs.Sort()
	return &Result{
		Residual: residual,
		Queries:  s.queries,
		Errors:   f.errs,
	}
}

// splitter performs the post-order rewrite of one document.
type splitter struct {
	transform *Transform
	program   *ir.Program
	doc       *ir.Document
	findings  *findings
	queries   []*ir.Document
}

func (s *splitter) rewrite(sels []ir.Selection) []ir.Selection {
	for i, sel := range sels {
		switch n := sel.(type) {
		case *ir.Field:
			n.Selections = s.rewrite(n.Selections)
			if s.splittable(n) {
				sels[i] = s.split(n)
			}
		case *ir.InlineFragment:
			n.Selections = s.rewrite(n.Selections)
		}
	}
	return sels
}

func (s *splitter) splittable(f *ir.Field) bool {
	return f.ClientEdge != nil &&
		f.ClientEdge.IsToServer() &&
		!isPlaceholder(f) &&
		!s.findings.invalid[f]
}

// split moves the edge's selections into a synthetic query and returns the
// placeholder that replaces the edge in the enclosing selection set.
func (s *splitter) split(f *ir.Field) *ir.Field {
	meta := *f.ClientEdge
	meta.QueryName = QueryPrefix + meta.EdgeID

	query := &ir.Document{
		Kind:          ir.DocumentOperation,
		Operation:     "query",
		Name:          meta.QueryName,
		TypeCondition: meta.TargetType,
		Variables:     s.variables(f, meta.QueryName),
		Selections:    f.Selections,
		Synthetic:     true,
		Parent:        s.doc.Name,
		Loc:           f.Loc,
	}
	s.queries = append(s.queries, query)

	return &ir.Field{
		Alias:      f.Alias,
		Name:       f.Name,
		Arguments:  f.Arguments,
		Directives: f.Directives,
		ParentType: f.ParentType,
		Type:       f.Type,
		ClientEdge: &meta,
		Loc:        f.Loc,
	}
}

// variables resolves the variables referenced below the edge against the
// enclosing document. Fragments have no declared variables, so their
// variables take the type of the argument position they appear in.
func (s *splitter) variables(f *ir.Field, queryName string) []*ir.VariableDefinition {
	uses := collectVariables(s.program, s.transform.schema, f.Selections)
	if len(uses) == 0 {
		return nil
	}

	defs := make([]*ir.VariableDefinition, 0, len(uses))
	for _, use := range uses {
		if def := s.doc.Variable(use.name); def != nil {
			defs = append(defs, def)
			continue
		}
		if s.doc.Kind == ir.DocumentFragment && use.typ != nil {
			defs = append(defs, &ir.VariableDefinition{
				Name: use.name,
				Type: use.typ,
				Loc:  use.loc,
			})
			continue
		}
		s.findings.add(nil, errors.NewMalformedSyntheticQuery(use.loc, queryName,
			fmt.Sprintf("variable $%s is not defined by '%s' and its type cannot be inferred", use.name, s.doc.Name)))
	}
	return defs
}
