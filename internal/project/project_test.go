package project

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vektah/gqlparser/v2/ast"

	"github.com/conduit-lang/graphc/internal/cli/config"
	"github.com/conduit-lang/graphc/internal/testutil"
)

const actorDocument = `
query ActorQuery {
  actor {
    client_edge_profile_picture {
      uri
    }
  }
}`

func load(t *testing.T, extra string, documents map[string]string) *Project {
	t.Helper()
	root := t.TempDir()

	files := map[string]string{
		"graphc.yml":                testutil.ProjectConfig + extra,
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

	cfg, err := config.Load(root)
	require.NoError(t, err)
	proj, err := New(cfg)
	require.NoError(t, err)
	return proj
}

func TestNewLoadsSchemaAndExtensions(t *testing.T) {
	proj := load(t, "", nil)

	require.NotNil(t, proj.Schema.Type("User"))
	assert.NotNil(t, proj.Schema.Field("User", "client_edge_profile_picture"))
}

func TestNewMissingSchema(t *testing.T) {
	cfg := &config.Config{Root: t.TempDir(), Schema: []string{"schema.graphql"}}
	_, err := New(cfg)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to load schema")
}

func TestDocumentsAreNamedByRelativePath(t *testing.T) {
	proj := load(t, "", map[string]string{
		"src/feed/Story.graphql":                  "query Story { me { name } }",
		"src/ActorQuery.graphql":                  actorDocument,
		"src/__generated__/ActorQuery.graphql.js": "export default {};",
	})

	sources, err := proj.Documents()
	require.NoError(t, err)

	var names []string
	for _, src := range sources {
		names = append(names, src.Name)
	}
	assert.Equal(t, []string{"src/ActorQuery.graphql", "src/feed/Story.graphql"}, names)
	assert.Equal(t, "src/feed/Story.graphql", proj.SourceName(filepath.Join(proj.Config.Root, "src", "feed", "Story.graphql")))
}

func TestBuild(t *testing.T) {
	proj := load(t, "", nil)

	report, diags, err := proj.Build(context.Background(), []*ast.Source{
		{Name: "src/ActorQuery.graphql", Input: actorDocument},
	}, nil)
	require.NoError(t, err)
	require.NotNil(t, report)
	assert.Empty(t, diags)
	assert.Len(t, report.Artifacts(), 2)
}

func TestBuildStopsOnParseErrors(t *testing.T) {
	proj := load(t, "", nil)

	report, diags, err := proj.Build(context.Background(), []*ast.Source{
		{Name: "src/ActorQuery.graphql", Input: actorDocument},
		{Name: "src/Broken.graphql", Input: "query Broken {"},
	}, nil)
	require.NoError(t, err)
	assert.Nil(t, report)
	require.Len(t, diags, 1)
	assert.Equal(t, "SYN001", string(diags[0].Code))
}

func TestBuildHonorsIncludePatterns(t *testing.T) {
	proj := load(t, "client_edges:\n  include:\n    - src/feed/**\n", nil)

	report, _, err := proj.Build(context.Background(), []*ast.Source{
		{Name: "src/ActorQuery.graphql", Input: actorDocument},
	}, nil)
	require.NoError(t, err)
	require.Len(t, report.Documents, 1)
	assert.False(t, report.Documents[0].Eligible)
	assert.Len(t, report.Artifacts(), 1)
}

func TestAbsolute(t *testing.T) {
	proj := load(t, "", nil)

	_, diags, err := proj.Build(context.Background(), []*ast.Source{
		{Name: "src/Broken.graphql", Input: "query Broken {"},
	}, nil)
	require.NoError(t, err)
	require.Len(t, diags, 1)

	abs := proj.Absolute(diags)
	assert.Equal(t, filepath.Join(proj.Config.Root, "src", "Broken.graphql"), abs[0].Location.File)
	assert.Equal(t, "src/Broken.graphql", diags[0].Location.File)
}
