package parser_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vektah/gqlparser/v2/ast"

	"github.com/conduit-lang/graphc/internal/compiler/errors"
	"github.com/conduit-lang/graphc/internal/compiler/ir"
	"github.com/conduit-lang/graphc/internal/compiler/parser"
	"github.com/conduit-lang/graphc/internal/testutil"
)

func source(name, input string) *ast.Source {
	return &ast.Source{Name: name, Input: input}
}

func TestParseLowersOperation(t *testing.T) {
	s := testutil.Schema(t)
	_, doc := testutil.Document(t, s, "UserQuery", `query UserQuery($id: ID!, $size: Int = 32) {
  user(id: $id) {
    id
    avatar: profilePicture(size: $size) {
      uri
    }
  }
}`)

	assert.Equal(t, ir.DocumentOperation, doc.Kind)
	assert.Equal(t, "query", doc.Operation)
	assert.Equal(t, "Query", doc.TypeCondition)
	assert.Equal(t, ir.SourceLocation{File: "doc0.graphql", Line: 1, Column: 1}, doc.Loc)

	require.Len(t, doc.Variables, 2)
	assert.Equal(t, "ID!", doc.Variables[0].Type.String())
	assert.Equal(t, "Int", doc.Variables[1].Type.String())
	assert.Equal(t, "32", doc.Variables[1].DefaultValue.String())

	fields := ir.Fields(doc.Selections)
	require.Len(t, fields, 4)

	user := fields[0]
	assert.Equal(t, "user", user.Name)
	assert.Empty(t, user.Alias)
	assert.Equal(t, "Query", user.ParentType)
	assert.Equal(t, "User", user.Type.String())
	require.Len(t, user.Arguments, 1)
	assert.Equal(t, ir.ValueVariable, user.Arguments[0].Value.Kind)
	assert.Equal(t, "ID!", user.Arguments[0].Type.String())

	avatar := fields[2]
	assert.Equal(t, "avatar", avatar.Alias)
	assert.Equal(t, "profilePicture", avatar.Name)
	assert.Equal(t, "avatar", avatar.ResponseKey())
	assert.Equal(t, "User", avatar.ParentType)
	assert.Equal(t, ir.SourceLocation{File: "doc0.graphql", Line: 4, Column: 5}, avatar.Loc)
}

func TestParseLowersFragmentsAcrossSources(t *testing.T) {
	s := testutil.Schema(t)
	program := testutil.Program(t, s, `
query FeedQuery {
  me {
    ...UserCard
  }
}`, `
fragment UserCard on User {
  name
  ... on Node {
    id
  }
}`)

	require.Len(t, program.Documents, 2)
	frag := program.Fragment("UserCard")
	require.NotNil(t, frag)
	assert.Equal(t, ir.DocumentFragment, frag.Kind)
	assert.Equal(t, "User", frag.TypeCondition)
	assert.Equal(t, "doc1.graphql", frag.Loc.File)

	inline, ok := frag.Selections[1].(*ir.InlineFragment)
	require.True(t, ok)
	assert.Equal(t, "Node", inline.TypeCondition)
	assert.Equal(t, "Node", ir.Fields(inline.Selections)[0].ParentType)

	spread, ok := program.Operation("FeedQuery").Selections[0].(*ir.Field).Selections[0].(*ir.FragmentSpread)
	require.True(t, ok)
	assert.Equal(t, "UserCard", spread.Name)
}

func TestParseKeepsUnusedFragments(t *testing.T) {
	s := testutil.Schema(t)
	program, errs := parser.Parse(s, source("Card.graphql", `fragment Card on User { name }`))

	assert.Empty(t, errs)
	require.Len(t, program.Documents, 1)
}

func TestParseDirectiveArguments(t *testing.T) {
	s := testutil.Schema(t)
	_, doc := testutil.Document(t, s, "RequiredQuery", `
query RequiredQuery {
  me @required(action: THROW) {
    id
  }
}`)

	d := ir.Fields(doc.Selections)[0].Directive("required")
	require.NotNil(t, d)
	arg := d.Argument("action")
	require.NotNil(t, arg)
	assert.Equal(t, ir.ValueEnum, arg.Value.Kind)
	assert.Equal(t, "RequiredFieldAction!", arg.Type.String())
}

func TestParseReportsSyntaxErrors(t *testing.T) {
	s := testutil.Schema(t)
	program, errs := parser.Parse(s,
		source("Broken.graphql", "query Broken {"),
		source("Fine.graphql", "query Fine { me { id } }"),
	)

	require.Len(t, errs, 1)
	assert.Equal(t, errors.ErrorCode("SYN001"), errs[0].Code)
	assert.Equal(t, "Broken.graphql", errs[0].Location.File)
	assert.Equal(t, 1, errs[0].Location.Line)

	// The other source still parses.
	require.Len(t, program.Documents, 1)
	assert.Equal(t, "Fine", program.Documents[0].Name)
}

func TestParseReportsValidationErrors(t *testing.T) {
	s := testutil.Schema(t)
	program, errs := parser.Parse(s, source("Bad.graphql", `query Bad {
  me {
    bogus
  }
}`))

	require.NotEmpty(t, errs)
	e := errs[0]
	assert.Equal(t, errors.ErrorCode("VAL500"), e.Code)
	assert.Equal(t, errors.CategoryValidation, e.Category)
	assert.True(t, strings.HasPrefix(e.Type, "document_validation:"), e.Type)
	assert.Contains(t, e.Message, "bogus")
	assert.Equal(t, ir.SourceLocation{File: "Bad.graphql", Line: 3, Column: 5}, e.Location)

	// Documents are still lowered.
	require.Len(t, program.Documents, 1)
}

func TestParseNoSources(t *testing.T) {
	program, errs := parser.Parse(testutil.Schema(t))
	assert.Empty(t, errs)
	assert.Empty(t, program.Documents)
}
