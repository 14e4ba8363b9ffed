package schema_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vektah/gqlparser/v2/ast"

	"github.com/conduit-lang/graphc/internal/compiler/schema"
	"github.com/conduit-lang/graphc/internal/testutil"
)

func TestTypeKindsAndOrigin(t *testing.T) {
	s := testutil.Schema(t)

	tests := []struct {
		name       string
		kind       schema.TypeKind
		clientOnly bool
	}{
		{"User", schema.KindObject, false},
		{"Actor", schema.KindInterface, false},
		{"UserNameRenderer", schema.KindUnion, false},
		{"ClientUser", schema.KindObject, true},
		{"ClientNamed", schema.KindInterface, true},
		{"ClientUnion", schema.KindUnion, true},
		{"RequiredFieldAction", schema.KindEnum, false},
		{"String", schema.KindScalar, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			info := s.Type(tt.name)
			require.NotNil(t, info)
			assert.Equal(t, tt.kind, info.Kind)
			assert.Equal(t, tt.clientOnly, info.ClientOnly)
			assert.Equal(t, !tt.clientOnly, s.IsServerType(tt.name))
		})
	}

	assert.Nil(t, s.Type("Missing"))
	assert.False(t, s.IsServerType("Missing"))
}

func TestAbstractAndComposite(t *testing.T) {
	s := testutil.Schema(t)

	assert.True(t, s.Type("Actor").IsAbstract())
	assert.True(t, s.Type("ClientUnion").IsAbstract())
	assert.False(t, s.Type("User").IsAbstract())
	assert.True(t, s.Type("User").IsComposite())
	assert.False(t, s.Type("String").IsComposite())
}

func TestFieldLookup(t *testing.T) {
	s := testutil.Schema(t)

	name := s.Field("User", "name")
	require.NotNil(t, name)
	assert.Equal(t, "String", name.Type.String())
	assert.False(t, name.ClientExtension)
	assert.Nil(t, name.Resolver)

	pic := s.Field("User", "profilePicture")
	require.NotNil(t, pic)
	assert.Equal(t, "Int", pic.Arguments["size"].String())

	edge := s.Field("User", "client_best_friend")
	require.NotNil(t, edge)
	assert.True(t, edge.ClientExtension)
	require.NotNil(t, edge.Resolver)
	assert.Equal(t, "./resolvers/UserBestFriend", edge.Resolver.ImportPath)
	assert.Equal(t, "bestFriend", edge.Resolver.ImportName)

	// Fields of interfaces extended by client schema
	actorEdge := s.Field("Actor", "client_edge_profile_picture")
	require.NotNil(t, actorEdge)
	assert.True(t, actorEdge.ClientExtension)
	assert.Equal(t, "Image", actorEdge.Type.Name())

	list := s.Field("User", "client_friends")
	require.NotNil(t, list)
	assert.True(t, list.Type.IsList())
	assert.Equal(t, "User", list.Type.Name())

	assert.Nil(t, s.Field("User", "missing"))
	assert.Nil(t, s.Field("Missing", "id"))
}

func TestPossibleTypes(t *testing.T) {
	s := testutil.Schema(t)

	assert.Equal(t, []string{"Page", "User"}, s.PossibleTypes("Actor"))
	assert.Equal(t, []string{"Page", "User"}, s.ServerPossibleTypes("Actor"))

	assert.Equal(t, []string{"ClientPet", "ClientRobot"}, s.PossibleTypes("ClientNamed"))
	assert.Empty(t, s.ServerPossibleTypes("ClientNamed"))
	assert.Empty(t, s.ServerPossibleTypes("ClientUnion"))

	assert.Equal(t, []string{"User"}, s.PossibleTypes("User"))
}

func TestLoadReportsInvalidSchema(t *testing.T) {
	_, err := schema.Load([]*ast.Source{{Name: "bad.graphql", Input: "type Query { me: Missing }"}}, nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to load server schema")

	_, err = schema.Load(
		[]*ast.Source{{Name: "schema.graphql", Input: testutil.ServerSDL}},
		[]*ast.Source{{Name: "ext.graphql", Input: "extend type User { broken: Missing }"}},
	)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to load schema extensions")
}
