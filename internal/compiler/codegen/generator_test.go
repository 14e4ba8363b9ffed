package codegen

import (
	"strings"
	"testing"

	"github.com/sebdah/goldie/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/conduit-lang/graphc/internal/compiler/clientedge"
	"github.com/conduit-lang/graphc/internal/compiler/ir"
	"github.com/conduit-lang/graphc/internal/compiler/moduledeps"
	"github.com/conduit-lang/graphc/internal/testutil"
)

func transformed(t *testing.T, name string, documents ...string) *clientedge.Result {
	t.Helper()
	s := testutil.Schema(t)
	program, doc := testutil.Document(t, s, name, documents...)
	res := clientedge.New(s).Run(program, doc)
	require.Empty(t, res.Errors)
	moduledeps.Transform(program, res.Residual)
	return res
}

func generate(t *testing.T, doc *ir.Document) *Artifact {
	t.Helper()
	artifact, err := NewGenerator().Generate(doc)
	require.NoError(t, err)
	return artifact
}

func TestGenerateClientEdgeArtifacts(t *testing.T) {
	res := transformed(t, "Q", `
query Q {
  me {
    client_best_friend {
      name
    }
  }
}`)
	require.Len(t, res.Queries, 1)

	g := goldie.New(t,
		goldie.WithFixtureDir("testdata/golden"),
		goldie.WithNameSuffix(".golden"),
	)

	residual := generate(t, res.Residual)
	assert.Equal(t, "Q.graphql.js", residual.FileName)
	assert.True(t, residual.Statements.Contains("ClientEdgeQuery_Q__me__client_best_friend"))
	assert.True(t, residual.Statements.Contains("User_client_best_friend_resolver"))
	g.Assert(t, "client_edge_residual", []byte(Body(residual)))

	query := generate(t, res.Queries[0])
	assert.Equal(t, "ClientEdgeQuery_Q__me__client_best_friend.graphql.js", query.FileName)
	g.Assert(t, "client_edge_query", []byte(Body(query)))
}

func TestGenerateResolverImports(t *testing.T) {
	res := transformed(t, "Q", `
query Q {
  me {
    client_object {
      nickname
    }
  }
  actor {
    client_edge_profile_picture {
      uri
    }
  }
}`)

	lines := generate(t, res.Residual).Statements.Render()
	require.Len(t, lines, 4)
	assert.Equal(t, "import ClientEdgeQuery_Q__actor__client_edge_profile_picture from './ClientEdgeQuery_Q__actor__client_edge_profile_picture.graphql';", lines[0])
	assert.Equal(t, "import User_client_object_resolver from './resolvers/UserClientObject';", lines[1])
	assert.Equal(t, "import {client_edge_profile_picture as Actor_client_edge_profile_picture_resolver} from './resolvers/ActorProfilePicture';", lines[2])
	assert.True(t, strings.HasPrefix(lines[3], "const node = {"))
}

func TestResolverImportWithoutAlias(t *testing.T) {
	stmt := resolverImport("User_x_resolver", &ir.ResolverInfo{ImportPath: "./x", ImportName: "User_x_resolver"})
	assert.Equal(t, "import {User_x_resolver} from './x';", stmt.String())
}

func TestGenerateDataDrivenDependencies(t *testing.T) {
	res := transformed(t, "DirectQuery", `
query DirectQuery {
  me {
    nameRenderer @match {
      ...PlainUserNameRenderer_name @module(name: "PlainUserNameRenderer.react")
    }
    ...UserRenderer
  }
}`, `
fragment UserRenderer on User {
  nameRenderer @match {
    ...MarkdownUserNameRenderer_name @module(name: "MarkdownUserNameRenderer.react")
  }
}`, `
fragment PlainUserNameRenderer_name on PlainUserNameRenderer {
  plaintext
}

fragment MarkdownUserNameRenderer_name on MarkdownUserNameRenderer {
  markdown
}`)

	lines := generate(t, res.Residual).Statements.Render()
	require.Len(t, lines, 2)
	assert.Equal(t, `const dataDrivenDependencies = {"direct":["PlainUserNameRenderer.react"],"transitive":["MarkdownUserNameRenderer.react"]};`, lines[0])
	assert.Contains(t, lines[1], `"modules": [`)
}

func TestGenerateRejectsResolverWithoutPath(t *testing.T) {
	doc := &ir.Document{
		Kind:          ir.DocumentOperation,
		Operation:     "query",
		Name:          "Q",
		TypeCondition: "Query",
		Selections: []ir.Selection{
			&ir.Field{
				Name:       "edge",
				ParentType: "Query",
				ClientEdge: &ir.ClientEdgeMetadata{EdgeID: "Q__edge", Resolver: &ir.ResolverInfo{}},
			},
		},
	}

	_, err := NewGenerator().Generate(doc)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Q__edge")
}

func TestPrinterSignsArtifacts(t *testing.T) {
	res := transformed(t, "Q", `query Q { me { id } }`)
	artifact := generate(t, res.Residual)

	p := NewPrinter()
	text := p.Print(artifact)

	assert.True(t, strings.HasPrefix(text, "/**\n * @generated SignedSource<<"+NewHasher().HashString(Body(artifact))+">>\n */\n\n"))
	assert.True(t, strings.HasSuffix(text, "\nexport default node;\n"))
	assert.True(t, p.Verify(text))
	assert.False(t, p.Verify(strings.Replace(text, `"id"`, `"name"`, 1)))
	assert.Equal(t, text, p.Print(generate(t, res.Residual)))
}
