package lsp

import (
	"context"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"github.com/vektah/gqlparser/v2/ast"
	"go.lsp.dev/protocol"
	"go.lsp.dev/uri"
	"go.uber.org/zap"

	"github.com/conduit-lang/graphc/internal/cli/config"
	"github.com/conduit-lang/graphc/internal/compiler/errors"
	"github.com/conduit-lang/graphc/internal/project"
	"github.com/conduit-lang/graphc/internal/utils"
)

// Workspace holds the unsaved contents of open documents and compiles them
// together with the rest of the project.
type Workspace struct {
	root   string
	logger *zap.Logger

	mu       sync.Mutex
	project  *project.Project
	overlays map[string]string
}

// NewWorkspace creates a workspace for the project rooted at root.
func NewWorkspace(root string, logger *zap.Logger) *Workspace {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Workspace{
		root:     root,
		logger:   logger,
		overlays: make(map[string]string),
	}
}

// Open records the text of an open document.
func (w *Workspace) Open(doc protocol.DocumentURI, text string) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.overlays[uri.URI(doc).Filename()] = text
}

// Close forgets an open document. Its file on disk is used again.
func (w *Workspace) Close(doc protocol.DocumentURI) {
	w.mu.Lock()
	defer w.mu.Unlock()
	delete(w.overlays, uri.URI(doc).Filename())
}

// Invalidate drops the loaded configuration and schema.
func (w *Workspace) Invalidate() {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.project = nil
}

// OpenDocuments returns the URIs of open documents, sorted.
func (w *Workspace) OpenDocuments() []protocol.DocumentURI {
	w.mu.Lock()
	defer w.mu.Unlock()

	docs := make([]protocol.DocumentURI, 0, len(w.overlays))
	for path := range w.overlays {
		docs = append(docs, protocol.DocumentURI(uri.File(path)))
	}
	sort.Slice(docs, func(i, j int) bool { return docs[i] < docs[j] })
	return docs
}

// Diagnose compiles the project with open documents in place of their files
// and returns the diagnostics grouped by document URI.
func (w *Workspace) Diagnose(ctx context.Context) (map[protocol.DocumentURI][]protocol.Diagnostic, error) {
	w.mu.Lock()
	defer w.mu.Unlock()

	proj, err := w.load()
	if err != nil {
		return nil, err
	}

	sources, err := proj.Documents()
	if err != nil {
		return nil, err
	}
	sources = w.overlay(proj, sources)

	_, diags, err := proj.Build(ctx, sources, w.logger)
	if err != nil {
		return nil, err
	}
	w.logger.Debug("diagnosed workspace", zap.Int("sources", len(sources)), zap.Int("diagnostics", len(diags)))

	return errors.ToProtocolDiagnostics(proj.Absolute(diags)), nil
}

func (w *Workspace) load() (*project.Project, error) {
	if w.project != nil {
		return w.project, nil
	}
	cfg, err := config.Load(w.root)
	if err != nil {
		return nil, err
	}
	proj, err := project.New(cfg)
	if err != nil {
		return nil, err
	}
	w.project = proj
	return proj, nil
}

// overlay replaces the input of sources that are open and adds open
// documents under the src directory that are not on disk yet.
func (w *Workspace) overlay(proj *project.Project, sources []*ast.Source) []*ast.Source {
	pending := make(map[string]string, len(w.overlays))
	for path, text := range w.overlays {
		pending[proj.SourceName(path)] = text
	}

	out := make([]*ast.Source, 0, len(sources)+len(pending))
	for _, src := range sources {
		if text, ok := pending[src.Name]; ok {
			src = &ast.Source{Name: src.Name, Input: text}
			delete(pending, src.Name)
		}
		out = append(out, src)
	}

	prefix := filepath.ToSlash(filepath.Clean(proj.Config.Src)) + "/"
	names := make([]string, 0, len(pending))
	for name := range pending {
		if strings.HasPrefix(name, prefix) && filepath.Ext(name) == utils.DocumentExt {
			names = append(names, name)
		}
	}
	sort.Strings(names)
	for _, name := range names {
		out = append(out, &ast.Source{Name: name, Input: pending[name]})
	}
	return out
}
