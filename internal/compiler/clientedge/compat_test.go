package clientedge

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/conduit-lang/graphc/internal/compiler/errors"
	"github.com/conduit-lang/graphc/internal/compiler/ir"
	"github.com/conduit-lang/graphc/internal/testutil"
)

func TestCompatibilityClientOnlyAbstractTargets(t *testing.T) {
	s := testutil.Schema(t)
	_, doc := testutil.Document(t, s, "Q", `
query Q {
  me {
    client_named {
      name
    }
    client_union {
      __typename
    }
    client_actor {
      id
    }
  }
}`)
	edges := NewClassifier(s).ClassifyDocument(doc)

	errs := ValidateCompatibility(s, doc.Name, edges)
	require.Len(t, errs, 2)
	for _, err := range errs {
		assert.Equal(t, errors.ErrTargetTypeUnresolvable, err.Code)
		assert.Equal(t, "Q", err.Document)
	}
	assert.Contains(t, errs[0].Message, "ClientNamed")
	assert.Contains(t, errs[1].Message, "ClientUnion")
}

func TestCompatibilityRequiredOnToServerEdge(t *testing.T) {
	s := testutil.Schema(t)
	_, doc := testutil.Document(t, s, "Q", `
query Q {
  me {
    client_best_friend @required(action: THROW) {
      name
    }
    client_object @required(action: LOG) {
      nickname
    }
  }
}`)
	edges := NewClassifier(s).ClassifyDocument(doc)

	errs := ValidateCompatibility(s, doc.Name, edges)
	require.Len(t, errs, 1)
	assert.Equal(t, errors.ErrIncompatibleDirective, errs[0].Code)
	assert.Contains(t, errs[0].Message, "client_best_friend")
}

func TestCompatibilityIsOrderIndependent(t *testing.T) {
	s := testutil.Schema(t)
	_, doc := testutil.Document(t, s, "Q", `
query Q {
  me {
    client_named {
      name
    }
    client_best_friend @required(action: THROW) {
      name
    }
  }
}`)
	edges := NewClassifier(s).ClassifyDocument(doc)

	forward := ValidateCompatibility(s, doc.Name, edges)
	reversed := ValidateCompatibility(s, doc.Name, []*ir.Field{edges[1], edges[0]})

	forward.Sort()
	reversed.Sort()
	require.Len(t, forward, 2)
	require.Len(t, reversed, 2)
	for i := range forward {
		assert.Equal(t, forward[i].Code, reversed[i].Code)
		assert.Equal(t, forward[i].Location, reversed[i].Location)
	}
}
