// Package testutil holds the shared schema fixture used by compiler package tests.
package testutil

import (
	"strconv"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/vektah/gqlparser/v2/ast"

	"github.com/conduit-lang/graphc/internal/compiler/ir"
	"github.com/conduit-lang/graphc/internal/compiler/parser"
	"github.com/conduit-lang/graphc/internal/compiler/schema"
)

// ServerSDL is the server schema shared by compiler tests.
const ServerSDL = `
type Query {
  me: User
  actor: Actor
  node(id: ID!): Node
  user(id: ID!): User
}

interface Node {
  id: ID!
}

interface Actor {
  id: ID!
  name: String
}

type User implements Node & Actor {
  id: ID!
  name: String
  profilePicture(size: Int): Image
  friends(first: Int): [User]
  nameRenderer: UserNameRenderer
}

type Page implements Node & Actor {
  id: ID!
  name: String
}

type Image {
  uri: String
  width: Int
}

union UserNameRenderer = PlainUserNameRenderer | MarkdownUserNameRenderer

type PlainUserNameRenderer {
  plaintext: String
}

type MarkdownUserNameRenderer {
  markdown: String
}
`

// ExtensionSDL extends ServerSDL with client-only types and resolver-backed fields.
const ExtensionSDL = `
type ClientUser {
  id: ID!
  nickname: String
  best_friend_on_server: User @relay_resolver(import_path: "./resolvers/ClientUserBestFriend")
}

interface ClientNamed {
  name: String
}

type ClientPet implements ClientNamed {
  name: String
}

type ClientRobot implements ClientNamed {
  name: String
}

union ClientUnion = ClientPet | ClientRobot

extend interface Actor {
  client_edge_profile_picture: Image @relay_resolver(import_path: "./resolvers/ActorProfilePicture", import_name: "client_edge_profile_picture")
}

extend type Page {
  client_edge_profile_picture: Image @relay_resolver(import_path: "./resolvers/ActorProfilePicture", import_name: "client_edge_profile_picture")
}

extend type User {
  client_edge_profile_picture: Image @relay_resolver(import_path: "./resolvers/ActorProfilePicture", import_name: "client_edge_profile_picture")
  client_best_friend: User @relay_resolver(import_path: "./resolvers/UserBestFriend", import_name: "bestFriend")
  client_friends: [User] @relay_resolver(import_path: "./resolvers/UserFriends")
  client_actor: Actor @relay_resolver(import_path: "./resolvers/UserClientActor", import_name: "clientActor")
  client_object: ClientUser @relay_resolver(import_path: "./resolvers/UserClientObject")
  client_named: ClientNamed @relay_resolver(import_path: "./resolvers/UserClientNamed")
  client_union: ClientUnion @relay_resolver(import_path: "./resolvers/UserClientUnion")
  client_nickname: String @relay_resolver(import_path: "./resolvers/UserNickname")
}
`

// Schema loads the shared fixture schema.
func Schema(t testing.TB) *schema.Schema {
	t.Helper()
	s, err := schema.Load(
		[]*ast.Source{{Name: "schema.graphql", Input: ServerSDL}},
		[]*ast.Source{{Name: "extensions.graphql", Input: ExtensionSDL}},
	)
	require.NoError(t, err)
	return s
}

// Program parses documents against the fixture schema and fails the test on
// any parse or validation error. Each document string becomes its own source,
// named doc0.graphql, doc1.graphql and so on.
func Program(t testing.TB, s *schema.Schema, documents ...string) *ir.Program {
	t.Helper()
	sources := make([]*ast.Source, 0, len(documents))
	for i, input := range documents {
		sources = append(sources, &ast.Source{Name: SourceName(i), Input: input})
	}
	program, errs := parser.Parse(s, sources...)
	require.False(t, errs.HasErrors(), "unexpected errors: %v", errs)
	return program
}

// Document parses the documents and returns the one with the given name.
func Document(t testing.TB, s *schema.Schema, name string, documents ...string) (*ir.Program, *ir.Document) {
	t.Helper()
	program := Program(t, s, documents...)
	for _, doc := range program.Documents {
		if doc.Name == name {
			return program, doc
		}
	}
	require.FailNow(t, "document not found", name)
	return nil, nil
}

// SourceName returns the source name Program assigns to the i-th document.
func SourceName(i int) string {
	return "doc" + strconv.Itoa(i) + ".graphql"
}

// ProjectConfig is a graphc.yml body pointing at the fixture schema written as
// schema.graphql and client/extensions.graphql.
const ProjectConfig = `schema:
  - schema.graphql
extensions:
  - client/*.graphql
`
