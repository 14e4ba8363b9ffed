// Package parser turns GraphQL document sources into the graphc IR. Sources are
// parsed and validated with gqlparser as one document set, so fragments may be
// spread across files, and the typed AST is then lowered into ir.Program.
package parser

import (
	"github.com/vektah/gqlparser/v2/ast"
	"github.com/vektah/gqlparser/v2/gqlerror"
	gqlp "github.com/vektah/gqlparser/v2/parser"
	"github.com/vektah/gqlparser/v2/validator"
	"github.com/vektah/gqlparser/v2/validator/rules"

	"github.com/conduit-lang/graphc/internal/compiler/errors"
	"github.com/conduit-lang/graphc/internal/compiler/ir"
	"github.com/conduit-lang/graphc/internal/compiler/schema"
)

// Parse parses and validates document sources against the schema and lowers
// them into a Program. Syntax errors skip the offending source; validation
// errors are reported but the documents are still lowered so later passes can
// report their own diagnostics.
func Parse(s *schema.Schema, sources ...*ast.Source) (*ir.Program, errors.ErrorList) {
	var errs errors.ErrorList
	merged := &ast.QueryDocument{}

	for _, src := range sources {
		doc, err := gqlp.ParseQuery(src)
		if err != nil {
			errs = append(errs, fromGQLError(err, src.Name, func(loc ir.SourceLocation, msg, _ string) *errors.CompilerError {
				return errors.NewParseError(loc, msg)
			})...)
			continue
		}
		merged.Operations = append(merged.Operations, doc.Operations...)
		merged.Fragments = append(merged.Fragments, doc.Fragments...)
	}

	if len(merged.Operations) == 0 && len(merged.Fragments) == 0 {
		return &ir.Program{}, errs
	}

	for _, verr := range validator.ValidateWithRules(s.AST(), merged, validationRules()) {
		errs = append(errs, fromGQLError(verr, "", errors.NewDocumentValidation)...)
	}

	l := &lowerer{schema: s.AST()}
	program := &ir.Program{}
	for _, op := range merged.Operations {
		program.Documents = append(program.Documents, l.operation(op))
	}
	for _, frag := range merged.Fragments {
		program.Documents = append(program.Documents, l.fragment(frag))
	}

	errs.Sort()
	return program, errs
}

// validationRules returns gqlparser's default rules without NoUnusedFragments:
// fragments are compiled on their own and need not be spread by an operation.
func validationRules() *rules.Rules {
	r := rules.NewDefaultRules()
	r.RemoveRule(rules.NoUnusedFragmentsRule.Name)
	return r
}

type errorFactory func(loc ir.SourceLocation, message, rule string) *errors.CompilerError

func fromGQLError(err error, file string, newErr errorFactory) errors.ErrorList {
	var list gqlerror.List
	switch e := err.(type) {
	case gqlerror.List:
		list = e
	case *gqlerror.Error:
		list = gqlerror.List{e}
	default:
		return errors.ErrorList{newErr(ir.SourceLocation{File: file}, err.Error(), "")}
	}

	out := make(errors.ErrorList, 0, len(list))
	for _, e := range list {
		loc := ir.SourceLocation{File: file}
		if name, ok := e.Extensions["file"].(string); ok && name != "" {
			loc.File = name
		}
		if len(e.Locations) > 0 {
			loc.Line = e.Locations[0].Line
			loc.Column = e.Locations[0].Column
		}
		out = append(out, newErr(loc, e.Message, e.Rule))
	}
	return out
}
