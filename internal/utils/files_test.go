package utils

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFiles(t *testing.T, root string, names ...string) {
	t.Helper()
	for _, name := range names {
		path := filepath.Join(root, filepath.FromSlash(name))
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
		require.NoError(t, os.WriteFile(path, []byte("# "+name), 0644))
	}
}

func TestFindGraphQLFiles(t *testing.T) {
	root := t.TempDir()
	writeFiles(t, root,
		"feed/Story.graphql",
		"Actor.graphql",
		"feed/Story.js",
		"__generated__/Actor.graphql",
		"feed/__generated__/Story.graphql",
	)

	files, err := FindGraphQLFiles(root, []string{"**/__generated__/**"})
	require.NoError(t, err)

	assert.Equal(t, []string{
		filepath.Join(root, "Actor.graphql"),
		filepath.Join(root, "feed", "Story.graphql"),
	}, files)
}

func TestFindGraphQLFilesMissingDir(t *testing.T) {
	_, err := FindGraphQLFiles(filepath.Join(t.TempDir(), "missing"), nil)
	assert.Error(t, err)
}

func TestExpandGlobs(t *testing.T) {
	root := t.TempDir()
	writeFiles(t, root,
		"schema.graphql",
		"client/user.graphql",
		"client/page.graphql",
	)

	files, err := ExpandGlobs(root, []string{"schema.graphql", "client/*.graphql", "schema.graphql"})
	require.NoError(t, err)
	assert.Equal(t, []string{
		filepath.Join(root, "schema.graphql"),
		filepath.Join(root, "client", "page.graphql"),
		filepath.Join(root, "client", "user.graphql"),
	}, files)

	_, err = ExpandGlobs(root, []string{"missing/*.graphql"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "matched no files")
}
