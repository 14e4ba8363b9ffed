// Package pipeline runs the graphc compiler passes over a program. Documents
// and the synthetic queries split from them are independent units of work,
// scheduled on a bounded worker pool. The schema lookup is the only value the
// workers share and it is never written after load.
package pipeline

import (
	"context"
	"fmt"
	"path/filepath"
	"runtime"
	"time"

	"github.com/bmatcuk/doublestar/v4"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/conduit-lang/graphc/internal/compiler/clientedge"
	"github.com/conduit-lang/graphc/internal/compiler/codegen"
	"github.com/conduit-lang/graphc/internal/compiler/errors"
	"github.com/conduit-lang/graphc/internal/compiler/ir"
	"github.com/conduit-lang/graphc/internal/compiler/moduledeps"
	"github.com/conduit-lang/graphc/internal/compiler/schema"
)

// Options configures a Compiler
type Options struct {
	// Workers bounds the number of units compiled at once. Zero means
	// runtime.NumCPU().
	Workers int
	// Include lists glob patterns of source files the client edge transform
	// runs on. An empty list enables the transform everywhere.
	Include []string
	// Logger receives per-document debug logs and a summary. Nil disables logging.
	Logger *zap.Logger
}

// Metrics tracks performance metrics for one compilation
type Metrics struct {
	TotalDocuments    int
	EligibleDocuments int
	FailedDocuments   int
	SyntheticQueries  int
	Artifacts         int
	TransformDuration time.Duration
	CodegenDuration   time.Duration
	TotalDuration     time.Duration
	StartTime         time.Time
	EndTime           time.Time
}

// DocumentResult is the outcome of compiling one source document.
type DocumentResult struct {
	Name string
	File string
	// Eligible is false when the document is outside the include patterns and
	// the client edge transform was skipped.
	Eligible bool
	Residual *ir.Document
	Queries  []*ir.Document
	Errors   errors.ErrorList
	// Artifacts holds the residual artifact followed by one artifact per
	// synthetic query. It is empty for documents with errors.
	Artifacts []*codegen.Artifact
}

// Compilable reports whether the document produced no errors.
func (r *DocumentResult) Compilable() bool {
	return !r.Errors.HasErrors()
}

// Report is the outcome of compiling a program.
type Report struct {
	Documents []*DocumentResult
	// Errors holds the diagnostics of every document, sorted by location.
	Errors  errors.ErrorList
	Metrics *Metrics
}

// HasErrors reports whether any document failed.
func (r *Report) HasErrors() bool {
	return r.Errors.HasErrors()
}

// Artifacts returns every generated artifact in document order.
func (r *Report) Artifacts() []*codegen.Artifact {
	var out []*codegen.Artifact
	for _, doc := range r.Documents {
		out = append(out, doc.Artifacts...)
	}
	return out
}

// Compiler compiles programs against one schema.
type Compiler struct {
	transform *clientedge.Transform
	generator *codegen.Generator
	include   []string
	workers   int
	logger    *zap.Logger
}

// New creates a Compiler. It fails when an include pattern is malformed.
func New(lookup schema.Lookup, opts Options) (*Compiler, error) {
	for _, pattern := range opts.Include {
		if !doublestar.ValidatePattern(filepath.ToSlash(pattern)) {
			return nil, fmt.Errorf("invalid include pattern %q", pattern)
		}
	}

	workers := opts.Workers
	if workers <= 0 {
		workers = runtime.NumCPU()
	}
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	return &Compiler{
		transform: clientedge.New(lookup),
		generator: codegen.NewGenerator(),
		include:   opts.Include,
		workers:   workers,
		logger:    logger,
	}, nil
}

// Eligible reports whether the client edge transform runs on documents from
// the given source file.
func (c *Compiler) Eligible(file string) bool {
	if len(c.include) == 0 {
		return true
	}
	name := filepath.ToSlash(file)
	for _, pattern := range c.include {
		if doublestar.MatchUnvalidated(filepath.ToSlash(pattern), name) {
			return true
		}
	}
	return false
}

// generation is one artifact to generate. Each unit writes only its own slot.
type generation struct {
	result *DocumentResult
	doc    *ir.Document
	slot   int
	err    *errors.CompilerError
}

// Compile transforms every document of the program, then generates artifacts
// for the documents that compiled cleanly. Errors found in documents are
// reported in the Report; the returned error is only set when ctx is done.
func (c *Compiler) Compile(ctx context.Context, program *ir.Program) (*Report, error) {
	metrics := &Metrics{
		TotalDocuments: len(program.Documents),
		StartTime:      time.Now(),
	}
	results := make([]*DocumentResult, len(program.Documents))

	eg, gctx := errgroup.WithContext(ctx)
	eg.SetLimit(c.workers)
	for i, doc := range program.Documents {
		eg.Go(func() error {
			select {
			case <-gctx.Done():
				return gctx.Err()
			default:
				results[i] = c.compileDocument(program, doc)
				return nil
			}
		})
	}
	if err := eg.Wait(); err != nil {
		return nil, err
	}
	metrics.TransformDuration = time.Since(metrics.StartTime)

	var units []*generation
	for _, res := range results {
		if !res.Compilable() {
			continue
		}
		res.Artifacts = make([]*codegen.Artifact, 1+len(res.Queries))
		units = append(units, &generation{result: res, doc: res.Residual, slot: 0})
		for i, q := range res.Queries {
			units = append(units, &generation{result: res, doc: q, slot: i + 1})
		}
	}

	codegenStart := time.Now()
	eg, gctx = errgroup.WithContext(ctx)
	eg.SetLimit(c.workers)
	for _, u := range units {
		eg.Go(func() error {
			select {
			case <-gctx.Done():
				return gctx.Err()
			default:
				c.generate(u)
				return nil
			}
		})
	}
	if err := eg.Wait(); err != nil {
		return nil, err
	}
	metrics.CodegenDuration = time.Since(codegenStart)

	for _, u := range units {
		if u.err != nil {
			u.result.Errors = append(u.result.Errors, u.err)
		}
	}

	report := &Report{Documents: results, Metrics: metrics}
	for _, res := range results {
		if res.Eligible {
			metrics.EligibleDocuments++
		}
		metrics.SyntheticQueries += len(res.Queries)
		if !res.Compilable() {
			res.Artifacts = nil
			metrics.FailedDocuments++
		}
		metrics.Artifacts += len(res.Artifacts)
		report.Errors = append(report.Errors, res.Errors...)
	}
	report.Errors.Sort()

	metrics.EndTime = time.Now()
	metrics.TotalDuration = metrics.EndTime.Sub(metrics.StartTime)

	c.logger.Info("compilation finished",
		zap.Int("documents", metrics.TotalDocuments),
		zap.Int("eligible", metrics.EligibleDocuments),
		zap.Int("queries", metrics.SyntheticQueries),
		zap.Int("artifacts", metrics.Artifacts),
		zap.Int("failed", metrics.FailedDocuments),
		zap.Duration("duration", metrics.TotalDuration),
	)

	return report, nil
}

// compileDocument runs the client edge transform and the 3D pass on one
// document. The program is only read.
func (c *Compiler) compileDocument(program *ir.Program, doc *ir.Document) *DocumentResult {
	res := &DocumentResult{
		Name:     doc.Name,
		File:     doc.Loc.File,
		Eligible: c.Eligible(doc.Loc.File),
	}

	if res.Eligible {
		out := c.transform.Run(program, doc)
		res.Residual = out.Residual
		res.Queries = out.Queries
		res.Errors = out.Errors
	} else {
		res.Residual = ir.CloneDocument(doc)
	}

	moduledeps.Transform(program, res.Residual)
	for _, q := range res.Queries {
		moduledeps.Transform(program, q)
	}

	c.logger.Debug("transformed document",
		zap.String("document", res.Name),
		zap.String("file", res.File),
		zap.Bool("eligible", res.Eligible),
		zap.Int("queries", len(res.Queries)),
		zap.Int("errors", len(res.Errors)),
	)
	return res
}

func (c *Compiler) generate(u *generation) {
	artifact, err := c.generator.Generate(u.doc)
	if err != nil {
		u.err = errors.NewCodeGenFailed(u.doc.Loc, err.Error()).WithDocument(u.result.Name)
		c.logger.Debug("artifact generation failed",
			zap.String("document", u.doc.Name),
			zap.Error(err),
		)
		return
	}
	u.result.Artifacts[u.slot] = artifact
}
