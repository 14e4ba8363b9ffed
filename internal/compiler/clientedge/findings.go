package clientedge

import (
	"github.com/conduit-lang/graphc/internal/compiler/errors"
	"github.com/conduit-lang/graphc/internal/compiler/ir"
)

// findings accumulates validation errors and remembers which edges they
// invalidate. Invalid edges are left unrewritten.
type findings struct {
	document string
	errs     errors.ErrorList
	invalid  map[*ir.Field]bool
}

func newFindings(document string) *findings {
	return &findings{document: document, invalid: make(map[*ir.Field]bool)}
}

func (f *findings) add(field *ir.Field, err *errors.CompilerError) {
	f.errs = append(f.errs, err.WithDocument(f.document))
	if field != nil {
		f.invalid[field] = true
	}
}
