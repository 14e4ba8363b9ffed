package clientedge

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/conduit-lang/graphc/internal/compiler/ir"
	"github.com/conduit-lang/graphc/internal/testutil"
)

func TestClassify(t *testing.T) {
	s := testutil.Schema(t)
	c := NewClassifier(s)

	tests := []struct {
		parent   string
		field    string
		wantKind ir.ClientEdgeKind
		wantEdge bool
	}{
		{"User", "client_best_friend", ir.ClientEdgeToServer, true},
		{"Actor", "client_edge_profile_picture", ir.ClientEdgeToServer, true},
		{"User", "client_friends", ir.ClientEdgeToServer, true},
		{"User", "client_actor", ir.ClientEdgeToServer, true},
		{"User", "client_object", ir.ClientEdgeToClientObject, true},
		{"User", "client_named", ir.ClientEdgeToClientObject, true},
		{"User", "client_union", ir.ClientEdgeToClientObject, true},
		{"ClientUser", "best_friend_on_server", ir.ClientEdgeToServer, true},
		{"User", "client_nickname", 0, false},
		{"User", "profilePicture", 0, false},
		{"User", "name", 0, false},
		{"Query", "me", 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.parent+"."+tt.field, func(t *testing.T) {
			kind, ok := c.Classify(&ir.Field{Name: tt.field, ParentType: tt.parent})
			assert.Equal(t, tt.wantEdge, ok)
			if tt.wantEdge {
				assert.Equal(t, tt.wantKind, kind)
			}
		})
	}
}

func TestClassifyDocumentAttachesMetadataOnlyToEdges(t *testing.T) {
	s := testutil.Schema(t)
	_, doc := testutil.Document(t, s, "Q", `
query Q {
  me {
    id
    client_nickname
    client_object {
      nickname
    }
    client_best_friend {
      name
    }
  }
}`)

	edges := NewClassifier(s).ClassifyDocument(doc)
	require.Len(t, edges, 2)

	assert.Equal(t, "client_object", edges[0].Name)
	assert.Equal(t, "Q__me__client_object", edges[0].ClientEdge.EdgeID)
	assert.Equal(t, "ClientUser", edges[0].ClientEdge.TargetType)
	assert.Equal(t, ir.ClientEdgeToClientObject, edges[0].ClientEdge.Kind)

	assert.Equal(t, "Q__me__client_best_friend", edges[1].ClientEdge.EdgeID)
	assert.Equal(t, ir.ClientEdgeToServer, edges[1].ClientEdge.Kind)
	require.NotNil(t, edges[1].ClientEdge.Resolver)
	assert.Equal(t, "./resolvers/UserBestFriend", edges[1].ClientEdge.Resolver.ImportPath)
	assert.Equal(t, "bestFriend", edges[1].ClientEdge.Resolver.ImportName)

	tagged := 0
	for _, f := range ir.Fields(doc.Selections) {
		if f.ClientEdge != nil {
			tagged++
		}
	}
	assert.Equal(t, 2, tagged)
}

func TestClassifyDocumentDeduplicatesEdgeIDs(t *testing.T) {
	s := testutil.Schema(t)
	_, doc := testutil.Document(t, s, "Q", `
query Q {
  me {
    ... on User {
      client_best_friend {
        id
      }
    }
    client_best_friend {
      name
    }
  }
}`)

	edges := NewClassifier(s).ClassifyDocument(doc)
	require.Len(t, edges, 2)
	assert.Equal(t, "Q__me__client_best_friend", edges[0].ClientEdge.EdgeID)
	assert.Equal(t, "Q__me__client_best_friend_2", edges[1].ClientEdge.EdgeID)
}

func TestClassifyDocumentSuffixSkipsIssuedIDs(t *testing.T) {
	s := testutil.Schema(t)
	_, doc := testutil.Document(t, s, "Q", `
query Q {
  me {
    ... on User {
      client_best_friend {
        id
      }
    }
    client_best_friend {
      name
    }
    client_best_friend_2: client_best_friend {
      id
    }
  }
}`)

	edges := NewClassifier(s).ClassifyDocument(doc)
	require.Len(t, edges, 3)
	seen := make(map[string]bool)
	for _, e := range edges {
		id := e.ClientEdge.EdgeID
		assert.False(t, seen[id], "edge id %s issued twice", id)
		seen[id] = true
	}
	assert.Equal(t, "Q__me__client_best_friend_2_2", edges[2].ClientEdge.EdgeID)
}

func TestClassifyDocumentUsesResponseKeys(t *testing.T) {
	s := testutil.Schema(t)
	_, doc := testutil.Document(t, s, "Q", `
query Q {
  viewer: me {
    bff: client_best_friend {
      name
    }
  }
}`)

	edges := NewClassifier(s).ClassifyDocument(doc)
	require.Len(t, edges, 1)
	assert.Equal(t, "Q__viewer__bff", edges[0].ClientEdge.EdgeID)
}
