// Package lsp implements a Language Server Protocol server for graphc.
// It recompiles the project as documents are opened and edited and
// publishes the compiler's diagnostics to the editor.
package lsp

import (
	"context"
	"encoding/json"
	"io"
	"os"

	"go.lsp.dev/jsonrpc2"
	"go.lsp.dev/protocol"
	"go.lsp.dev/uri"
	"go.uber.org/zap"
)

// Server implements the LSP server for graphc
type Server struct {
	// workspace compiles the project, nil until initialize
	workspace *Workspace

	// conn is the JSON-RPC connection
	conn jsonrpc2.Conn

	// client is the LSP client interface
	client protocol.Client

	logger *zap.Logger

	// workspaceRoot is the root directory of the workspace
	workspaceRoot string

	// Server capabilities
	capabilities protocol.ServerCapabilities

	// published holds the URIs that last received non-empty diagnostics
	published map[protocol.DocumentURI]bool

	// cancel is used to signal server shutdown
	cancel context.CancelFunc
}

// NewServer creates a new LSP server instance
func NewServer(logger *zap.Logger) *Server {
	if logger == nil {
		logger = zap.NewNop()
	}

	return &Server{
		logger:    logger,
		published: make(map[protocol.DocumentURI]bool),
		capabilities: protocol.ServerCapabilities{
			TextDocumentSync: protocol.TextDocumentSyncOptions{
				OpenClose: true,
				Change:    protocol.TextDocumentSyncKindFull,
				Save: &protocol.SaveOptions{
					IncludeText: false,
				},
			},
		},
	}
}

// Run serves the protocol over stdin and stdout
func (s *Server) Run(ctx context.Context) error {
	return s.Serve(ctx, stdrwc{})
}

// Serve serves the protocol over rwc until the client sends exit, the
// connection fails or ctx is cancelled.
func (s *Server) Serve(ctx context.Context, rwc io.ReadWriteCloser) error {
	s.logger.Info("starting graphc language server")

	ctx, cancel := context.WithCancel(ctx)
	s.cancel = cancel
	defer cancel()

	conn := jsonrpc2.NewConn(jsonrpc2.NewStream(rwc))
	s.conn = conn
	s.client = protocol.ClientDispatcher(conn, s.logger)

	conn.Go(ctx, s.handler())

	select {
	case <-ctx.Done():
	case <-conn.Done():
	}

	s.logger.Info("shutting down graphc language server")
	return conn.Close()
}

// handler returns the JSON-RPC handler function
func (s *Server) handler() jsonrpc2.Handler {
	return func(ctx context.Context, reply jsonrpc2.Replier, req jsonrpc2.Request) error {
		s.logger.Debug("received", zap.String("method", req.Method()))

		switch req.Method() {
		case protocol.MethodInitialize:
			return s.handleInitialize(ctx, reply, req)
		case protocol.MethodInitialized:
			return reply(ctx, nil, nil)
		case protocol.MethodShutdown:
			return reply(ctx, nil, nil)
		case protocol.MethodExit:
			return s.handleExit(ctx, reply, req)
		case protocol.MethodTextDocumentDidOpen:
			return s.handleTextDocumentDidOpen(ctx, reply, req)
		case protocol.MethodTextDocumentDidChange:
			return s.handleTextDocumentDidChange(ctx, reply, req)
		case protocol.MethodTextDocumentDidClose:
			return s.handleTextDocumentDidClose(ctx, reply, req)
		case protocol.MethodTextDocumentDidSave:
			return s.handleTextDocumentDidSave(ctx, reply, req)
		default:
			return reply(ctx, nil, jsonrpc2.ErrMethodNotFound)
		}
	}
}

// handleInitialize handles the initialize request
func (s *Server) handleInitialize(ctx context.Context, reply jsonrpc2.Replier, req jsonrpc2.Request) error {
	var params protocol.InitializeParams
	if err := json.Unmarshal(req.Params(), &params); err != nil {
		return s.replyWithError(ctx, reply, jsonrpc2.InvalidParams, "Failed to parse initialize params")
	}

	switch {
	case len(params.WorkspaceFolders) > 0:
		s.workspaceRoot = uri.URI(params.WorkspaceFolders[0].URI).Filename()
	case params.RootURI != "":
		s.workspaceRoot = params.RootURI.Filename()
	case params.RootPath != "":
		s.workspaceRoot = params.RootPath
	default:
		if wd, err := os.Getwd(); err == nil {
			s.workspaceRoot = wd
		}
	}
	s.logger.Info("workspace root set", zap.String("root", s.workspaceRoot))

	s.workspace = NewWorkspace(s.workspaceRoot, s.logger)

	result := protocol.InitializeResult{
		Capabilities: s.capabilities,
		ServerInfo: &protocol.ServerInfo{
			Name:    "graphc",
			Version: "0.1.0",
		},
	}

	return reply(ctx, result, nil)
}

// handleExit handles the exit notification
func (s *Server) handleExit(ctx context.Context, reply jsonrpc2.Replier, req jsonrpc2.Request) error {
	if err := reply(ctx, nil, nil); err != nil {
		s.logger.Warn("failed to reply to exit", zap.Error(err))
	}
	if s.cancel != nil {
		s.cancel()
	}
	return nil
}

// handleTextDocumentDidOpen handles document open notifications
func (s *Server) handleTextDocumentDidOpen(ctx context.Context, reply jsonrpc2.Replier, req jsonrpc2.Request) error {
	var params protocol.DidOpenTextDocumentParams
	if err := json.Unmarshal(req.Params(), &params); err != nil {
		return s.replyWithError(ctx, reply, jsonrpc2.InvalidParams, "Failed to parse didOpen params")
	}
	if s.workspace == nil {
		return s.replyWithError(ctx, reply, jsonrpc2.InvalidRequest, "Server not initialized")
	}

	s.logger.Debug("document opened", zap.String("uri", string(params.TextDocument.URI)))
	s.workspace.Open(params.TextDocument.URI, params.TextDocument.Text)
	s.publishDiagnostics(ctx)

	return reply(ctx, nil, nil)
}

// handleTextDocumentDidChange handles document change notifications
func (s *Server) handleTextDocumentDidChange(ctx context.Context, reply jsonrpc2.Replier, req jsonrpc2.Request) error {
	var params protocol.DidChangeTextDocumentParams
	if err := json.Unmarshal(req.Params(), &params); err != nil {
		return s.replyWithError(ctx, reply, jsonrpc2.InvalidParams, "Failed to parse didChange params")
	}
	if s.workspace == nil {
		return s.replyWithError(ctx, reply, jsonrpc2.InvalidRequest, "Server not initialized")
	}

	if len(params.ContentChanges) == 0 {
		return reply(ctx, nil, nil)
	}

	// Full document sync, so the last change holds the whole text
	content := params.ContentChanges[len(params.ContentChanges)-1].Text

	s.logger.Debug("document changed",
		zap.String("uri", string(params.TextDocument.URI)),
		zap.Int32("version", params.TextDocument.Version))
	s.workspace.Open(params.TextDocument.URI, content)
	s.publishDiagnostics(ctx)

	return reply(ctx, nil, nil)
}

// handleTextDocumentDidClose handles document close notifications
func (s *Server) handleTextDocumentDidClose(ctx context.Context, reply jsonrpc2.Replier, req jsonrpc2.Request) error {
	var params protocol.DidCloseTextDocumentParams
	if err := json.Unmarshal(req.Params(), &params); err != nil {
		return s.replyWithError(ctx, reply, jsonrpc2.InvalidParams, "Failed to parse didClose params")
	}
	if s.workspace == nil {
		return s.replyWithError(ctx, reply, jsonrpc2.InvalidRequest, "Server not initialized")
	}

	s.logger.Debug("document closed", zap.String("uri", string(params.TextDocument.URI)))
	s.workspace.Close(params.TextDocument.URI)
	s.publishDiagnostics(ctx)

	return reply(ctx, nil, nil)
}

// handleTextDocumentDidSave handles document save notifications. Saving
// may change the schema or configuration, so both are reloaded.
func (s *Server) handleTextDocumentDidSave(ctx context.Context, reply jsonrpc2.Replier, req jsonrpc2.Request) error {
	var params protocol.DidSaveTextDocumentParams
	if err := json.Unmarshal(req.Params(), &params); err != nil {
		return s.replyWithError(ctx, reply, jsonrpc2.InvalidParams, "Failed to parse didSave params")
	}
	if s.workspace == nil {
		return s.replyWithError(ctx, reply, jsonrpc2.InvalidRequest, "Server not initialized")
	}

	s.logger.Debug("document saved", zap.String("uri", string(params.TextDocument.URI)))
	s.workspace.Invalidate()
	s.publishDiagnostics(ctx)

	return reply(ctx, nil, nil)
}

// publishDiagnostics recompiles the workspace and publishes diagnostics for
// every document that has any, every open document, and every document
// whose diagnostics were published before and are now gone.
func (s *Server) publishDiagnostics(ctx context.Context) {
	byURI, err := s.workspace.Diagnose(ctx)
	if err != nil {
		s.logger.Warn("failed to compile workspace", zap.Error(err))
		s.showError(ctx, err)
		return
	}

	targets := make(map[protocol.DocumentURI]bool)
	for doc := range s.published {
		targets[doc] = true
	}
	for _, doc := range s.workspace.OpenDocuments() {
		targets[doc] = true
	}
	for doc := range byURI {
		targets[doc] = true
	}

	published := make(map[protocol.DocumentURI]bool, len(byURI))
	for doc := range targets {
		diagnostics := byURI[doc]
		if diagnostics == nil {
			diagnostics = []protocol.Diagnostic{}
		} else {
			published[doc] = true
		}

		params := protocol.PublishDiagnosticsParams{
			URI:         doc,
			Diagnostics: diagnostics,
		}
		if err := s.client.PublishDiagnostics(ctx, &params); err != nil {
			s.logger.Warn("failed to publish diagnostics", zap.String("uri", string(doc)), zap.Error(err))
		}
	}
	s.published = published
}

func (s *Server) showError(ctx context.Context, err error) {
	params := protocol.ShowMessageParams{
		Type:    protocol.MessageTypeError,
		Message: "graphc: " + err.Error(),
	}
	if err := s.client.ShowMessage(ctx, &params); err != nil {
		s.logger.Warn("failed to show message", zap.Error(err))
	}
}

// replyWithError sends an LSP-compliant error response
func (s *Server) replyWithError(ctx context.Context, reply jsonrpc2.Replier, code jsonrpc2.Code, message string) error {
	return reply(ctx, nil, &jsonrpc2.Error{
		Code:    code,
		Message: message,
	})
}

// stdrwc implements io.ReadWriteCloser for stdin/stdout
type stdrwc struct{}

func (stdrwc) Read(p []byte) (int, error) {
	return os.Stdin.Read(p)
}

func (stdrwc) Write(p []byte) (int, error) {
	return os.Stdout.Write(p)
}

func (stdrwc) Close() error {
	if err := os.Stdin.Close(); err != nil {
		return err
	}
	return os.Stdout.Close()
}
