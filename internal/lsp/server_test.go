package lsp

import (
	"context"
	"encoding/json"
	"net"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.lsp.dev/jsonrpc2"
	"go.lsp.dev/protocol"
	"go.lsp.dev/uri"

	"github.com/conduit-lang/graphc/internal/testutil"
)

const (
	actorDocument = `
query ActorQuery {
  actor {
    client_edge_profile_picture {
      uri
    }
  }
}`

	namedDocument = `
query NamedQuery {
  me {
    client_named {
      name
    }
  }
}`
)

func writeProject(t *testing.T, documents map[string]string) string {
	t.Helper()
	root := t.TempDir()

	files := map[string]string{
		"graphc.yml":                testutil.ProjectConfig,
		"schema.graphql":            testutil.ServerSDL,
		"client/extensions.graphql": testutil.ExtensionSDL,
	}
	for name, content := range documents {
		files[name] = content
	}
	for name, content := range files {
		path := filepath.Join(root, filepath.FromSlash(name))
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
		require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	}
	return root
}

// client is the editor side of a connection to a running server.
type client struct {
	conn        jsonrpc2.Conn
	diagnostics chan protocol.PublishDiagnosticsParams
	messages    chan protocol.ShowMessageParams
	done        chan error
}

func startServer(t *testing.T) *client {
	t.Helper()
	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)

	serverSide, clientSide := net.Pipe()

	c := &client{
		diagnostics: make(chan protocol.PublishDiagnosticsParams, 64),
		messages:    make(chan protocol.ShowMessageParams, 8),
		done:        make(chan error, 1),
	}

	go func() {
		c.done <- NewServer(nil).Serve(ctx, serverSide)
	}()

	c.conn = jsonrpc2.NewConn(jsonrpc2.NewStream(clientSide))
	c.conn.Go(ctx, func(ctx context.Context, reply jsonrpc2.Replier, req jsonrpc2.Request) error {
		switch req.Method() {
		case protocol.MethodTextDocumentPublishDiagnostics:
			var params protocol.PublishDiagnosticsParams
			if err := json.Unmarshal(req.Params(), &params); err == nil {
				c.diagnostics <- params
			}
		case protocol.MethodWindowShowMessage:
			var params protocol.ShowMessageParams
			if err := json.Unmarshal(req.Params(), &params); err == nil {
				c.messages <- params
			}
		}
		return reply(ctx, nil, nil)
	})
	t.Cleanup(func() { c.conn.Close() })

	return c
}

func (c *client) initialize(t *testing.T, root string) protocol.InitializeResult {
	t.Helper()
	var result protocol.InitializeResult
	_, err := c.conn.Call(context.Background(), protocol.MethodInitialize, protocol.InitializeParams{
		RootURI: protocol.DocumentURI(uri.File(root)),
	}, &result)
	require.NoError(t, err)
	require.NoError(t, c.conn.Notify(context.Background(), protocol.MethodInitialized, protocol.InitializedParams{}))
	return result
}

// waitFor returns the next diagnostics published for doc.
func (c *client) waitFor(t *testing.T, doc protocol.DocumentURI) []protocol.Diagnostic {
	t.Helper()
	timeout := time.After(5 * time.Second)
	for {
		select {
		case params := <-c.diagnostics:
			if params.URI == doc {
				return params.Diagnostics
			}
		case <-timeout:
			t.Fatalf("no diagnostics published for %s", doc)
			return nil
		}
	}
}

func TestServerCapabilities(t *testing.T) {
	server := NewServer(nil)
	sync, ok := server.capabilities.TextDocumentSync.(protocol.TextDocumentSyncOptions)
	require.True(t, ok)
	assert.True(t, sync.OpenClose)
	assert.Equal(t, protocol.TextDocumentSyncKindFull, sync.Change)
}

func TestServerPublishesDiagnostics(t *testing.T) {
	root := writeProject(t, map[string]string{"src/ActorQuery.graphql": actorDocument})
	c := startServer(t)

	result := c.initialize(t, root)
	require.NotNil(t, result.ServerInfo)
	assert.Equal(t, "graphc", result.ServerInfo.Name)

	doc := protocol.DocumentURI(uri.File(filepath.Join(root, "src", "NamedQuery.graphql")))
	require.NoError(t, c.conn.Notify(context.Background(), protocol.MethodTextDocumentDidOpen, protocol.DidOpenTextDocumentParams{
		TextDocument: protocol.TextDocumentItem{
			URI:        doc,
			LanguageID: "graphql",
			Version:    1,
			Text:       namedDocument,
		},
	}))

	diags := c.waitFor(t, doc)
	require.Len(t, diags, 1)
	assert.Equal(t, "EDG100", diags[0].Code)
	assert.Equal(t, "graphc", diags[0].Source)
	assert.Equal(t, protocol.DiagnosticSeverityError, diags[0].Severity)

	require.NoError(t, c.conn.Notify(context.Background(), protocol.MethodTextDocumentDidChange, protocol.DidChangeTextDocumentParams{
		TextDocument: protocol.VersionedTextDocumentIdentifier{
			TextDocumentIdentifier: protocol.TextDocumentIdentifier{URI: doc},
			Version:                2,
		},
		ContentChanges: []protocol.TextDocumentContentChangeEvent{
			{Text: "query NamedQuery { me { name } }"},
		},
	}))

	assert.Empty(t, c.waitFor(t, doc))
}

func TestServerClearsDiagnosticsOnClose(t *testing.T) {
	root := writeProject(t, map[string]string{"src/ActorQuery.graphql": actorDocument})
	c := startServer(t)
	c.initialize(t, root)

	doc := protocol.DocumentURI(uri.File(filepath.Join(root, "src", "NamedQuery.graphql")))
	require.NoError(t, c.conn.Notify(context.Background(), protocol.MethodTextDocumentDidOpen, protocol.DidOpenTextDocumentParams{
		TextDocument: protocol.TextDocumentItem{URI: doc, LanguageID: "graphql", Version: 1, Text: namedDocument},
	}))
	require.Len(t, c.waitFor(t, doc), 1)

	// The document was never saved, so closing it removes it from the project.
	require.NoError(t, c.conn.Notify(context.Background(), protocol.MethodTextDocumentDidClose, protocol.DidCloseTextDocumentParams{
		TextDocument: protocol.TextDocumentIdentifier{URI: doc},
	}))
	assert.Empty(t, c.waitFor(t, doc))
}

func TestServerReportsProjectErrors(t *testing.T) {
	root := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(root, "graphc.yml"), []byte("schema:\n  - missing.graphql\n"), 0644))

	c := startServer(t)
	c.initialize(t, root)

	doc := protocol.DocumentURI(uri.File(filepath.Join(root, "src", "Query.graphql")))
	require.NoError(t, c.conn.Notify(context.Background(), protocol.MethodTextDocumentDidOpen, protocol.DidOpenTextDocumentParams{
		TextDocument: protocol.TextDocumentItem{URI: doc, LanguageID: "graphql", Version: 1, Text: "query Q { me { name } }"},
	}))

	select {
	case msg := <-c.messages:
		assert.Equal(t, protocol.MessageTypeError, msg.Type)
		assert.Contains(t, msg.Message, "failed to load schema")
	case <-time.After(5 * time.Second):
		t.Fatal("no message shown")
	}
}

func TestServerRejectsUnknownMethods(t *testing.T) {
	c := startServer(t)

	_, err := c.conn.Call(context.Background(), protocol.MethodTextDocumentHover, protocol.HoverParams{}, nil)
	require.Error(t, err)

	var rpcErr *jsonrpc2.Error
	require.ErrorAs(t, err, &rpcErr)
	assert.Equal(t, jsonrpc2.MethodNotFound, rpcErr.Code)
}

func TestServerExits(t *testing.T) {
	root := writeProject(t, nil)
	c := startServer(t)
	c.initialize(t, root)

	_, err := c.conn.Call(context.Background(), protocol.MethodShutdown, nil, nil)
	require.NoError(t, err)
	require.NoError(t, c.conn.Notify(context.Background(), protocol.MethodExit, nil))

	select {
	case err := <-c.done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("server did not exit")
	}
}
