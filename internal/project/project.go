// Package project ties a loaded configuration to the compiler: it reads the
// schema and document sources a configuration names and runs them through
// the parser and the compile pipeline. Both the compile command and the
// language server build on it.
package project

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/vektah/gqlparser/v2/ast"
	"go.uber.org/zap"

	"github.com/conduit-lang/graphc/internal/cli/config"
	"github.com/conduit-lang/graphc/internal/compiler/errors"
	"github.com/conduit-lang/graphc/internal/compiler/parser"
	"github.com/conduit-lang/graphc/internal/compiler/pipeline"
	"github.com/conduit-lang/graphc/internal/compiler/schema"
	"github.com/conduit-lang/graphc/internal/utils"
)

// Project is a configuration with its schema loaded.
type Project struct {
	Config *config.Config
	Schema *schema.Schema
}

// New loads the schema and extensions named by cfg.
func New(cfg *config.Config) (*Project, error) {
	server, err := readSources(cfg.Root, cfg.Schema)
	if err != nil {
		return nil, fmt.Errorf("failed to load schema: %w", err)
	}

	var extensions []*ast.Source
	if len(cfg.Extensions) > 0 {
		extensions, err = readSources(cfg.Root, cfg.Extensions)
		if err != nil {
			return nil, fmt.Errorf("failed to load schema extensions: %w", err)
		}
	}

	s, err := schema.Load(server, extensions)
	if err != nil {
		return nil, err
	}
	return &Project{Config: cfg, Schema: s}, nil
}

// Documents reads every document under the src directory. Each source is
// named by its slash-separated path relative to the project root, the form
// client_edges.include patterns are matched against.
func (p *Project) Documents() ([]*ast.Source, error) {
	files, err := utils.FindGraphQLFiles(p.Config.Path(p.Config.Src), p.Config.Exclude)
	if err != nil {
		return nil, fmt.Errorf("failed to find %s files: %w", utils.DocumentExt, err)
	}
	return readFiles(p.Config.Root, files)
}

// SourceName returns the source name of a file, as Documents would name it.
func (p *Project) SourceName(path string) string {
	return sourceName(p.Config.Root, path)
}

// Build parses and validates sources, then compiles them. When any source
// fails to parse or validate the pipeline is not run and the report is nil.
// The returned diagnostics are sorted and include those of the report.
func (p *Project) Build(ctx context.Context, sources []*ast.Source, logger *zap.Logger) (*pipeline.Report, errors.ErrorList, error) {
	program, diags := parser.Parse(p.Schema, sources...)
	if diags.HasErrors() {
		return nil, diags, nil
	}

	compiler, err := pipeline.New(p.Schema, pipeline.Options{
		Workers: p.Config.Workers,
		Include: p.Config.ClientEdges.Include,
		Logger:  logger,
	})
	if err != nil {
		return nil, nil, err
	}

	report, err := compiler.Compile(ctx, program)
	if err != nil {
		return nil, nil, err
	}

	diags = append(diags, report.Errors...)
	diags.Sort()
	return report, diags, nil
}

// Absolute returns copies of diags with source names resolved to absolute
// file paths.
func (p *Project) Absolute(diags errors.ErrorList) errors.ErrorList {
	out := make(errors.ErrorList, 0, len(diags))
	for _, d := range diags {
		c := *d
		c.Location.File = p.path(c.Location.File)
		c.Related = make([]errors.RelatedLocation, len(d.Related))
		for i, rel := range d.Related {
			rel.Location.File = p.path(rel.Location.File)
			c.Related[i] = rel
		}
		out = append(out, &c)
	}
	return out
}

func (p *Project) path(name string) string {
	if name == "" {
		return ""
	}
	return p.Config.Path(filepath.FromSlash(name))
}

func readSources(root string, patterns []string) ([]*ast.Source, error) {
	files, err := utils.ExpandGlobs(root, patterns)
	if err != nil {
		return nil, err
	}
	return readFiles(root, files)
}

func readFiles(root string, files []string) ([]*ast.Source, error) {
	sources := make([]*ast.Source, 0, len(files))
	for _, file := range files {
		content, err := os.ReadFile(file)
		if err != nil {
			return nil, fmt.Errorf("failed to read %s: %w", file, err)
		}
		sources = append(sources, &ast.Source{Name: sourceName(root, file), Input: string(content)})
	}
	return sources, nil
}

func sourceName(root, file string) string {
	rel, err := filepath.Rel(root, file)
	if err != nil {
		return file
	}
	return filepath.ToSlash(rel)
}
