package codegen

import (
	"github.com/conduit-lang/graphc/internal/compiler/ir"
)

// Node kinds written to the artifact's node JSON.
const (
	kindRequest            = "Request"
	kindFragment           = "Fragment"
	kindScalarField        = "ScalarField"
	kindLinkedField        = "LinkedField"
	kindInlineFragment     = "InlineFragment"
	kindFragmentSpread     = "FragmentSpread"
	kindClientEdgeToServer = "ClientEdgeToServerObject"
	kindClientEdgeToClient = "ClientEdgeToClientObject"
	kindVariable           = "Variable"
	kindLiteral            = "Literal"
)

type node struct {
	Kind                string               `json:"kind"`
	Name                string               `json:"name"`
	Operation           string               `json:"operation,omitempty"`
	Type                string               `json:"type"`
	Metadata            *nodeMetadata        `json:"metadata,omitempty"`
	ArgumentDefinitions []argumentDefinition `json:"argumentDefinitions,omitempty"`
	Selections          []selection          `json:"selections"`
}

type nodeMetadata struct {
	Synthetic bool   `json:"synthetic"`
	Parent    string `json:"parent"`
}

type argumentDefinition struct {
	Name         string `json:"name"`
	Type         string `json:"type"`
	DefaultValue string `json:"defaultValue,omitempty"`
}

type argument struct {
	Kind         string `json:"kind"`
	Name         string `json:"name"`
	VariableName string `json:"variableName,omitempty"`
	Value        string `json:"value,omitempty"`
}

type clientEdge struct {
	ID       string `json:"id"`
	Query    string `json:"query,omitempty"`
	Resolver string `json:"resolver,omitempty"`
}

type selection struct {
	Kind       string      `json:"kind"`
	Alias      string      `json:"alias,omitempty"`
	Name       string      `json:"name,omitempty"`
	Type       string      `json:"type,omitempty"`
	Args       []argument  `json:"args,omitempty"`
	Plural     bool        `json:"plural,omitempty"`
	ClientEdge *clientEdge `json:"clientEdge,omitempty"`
	Modules    []string    `json:"modules,omitempty"`
	Selections []selection `json:"selections,omitempty"`
}

func buildNode(doc *ir.Document) node {
	n := node{
		Kind:       kindRequest,
		Name:       doc.Name,
		Operation:  doc.Operation,
		Type:       doc.TypeCondition,
		Selections: buildSelections(doc.Selections),
	}
	if doc.Kind == ir.DocumentFragment {
		n.Kind = kindFragment
		n.Operation = ""
	}
	if doc.Synthetic {
		n.Metadata = &nodeMetadata{Synthetic: true, Parent: doc.Parent}
	}
	for _, v := range doc.Variables {
		def := argumentDefinition{Name: v.Name, Type: v.Type.String()}
		if v.DefaultValue != nil {
			def.DefaultValue = v.DefaultValue.String()
		}
		n.ArgumentDefinitions = append(n.ArgumentDefinitions, def)
	}
	if n.Selections == nil {
		n.Selections = []selection{}
	}
	return n
}

func buildSelections(sels []ir.Selection) []selection {
	if len(sels) == 0 {
		return nil
	}
	out := make([]selection, 0, len(sels))
	for _, sel := range sels {
		switch s := sel.(type) {
		case *ir.Field:
			out = append(out, buildField(s))
		case *ir.InlineFragment:
			out = append(out, selection{
				Kind:       kindInlineFragment,
				Type:       s.TypeCondition,
				Selections: buildSelections(s.Selections),
			})
		case *ir.FragmentSpread:
			out = append(out, selection{
				Kind: kindFragmentSpread,
				Name: s.Name,
			})
		}
	}
	return out
}

func buildField(f *ir.Field) selection {
	s := selection{
		Kind:       kindScalarField,
		Alias:      f.Alias,
		Name:       f.Name,
		Args:       buildArguments(f.Arguments),
		Plural:     f.Type.IsList(),
		Selections: buildSelections(f.Selections),
	}
	if len(f.Selections) > 0 {
		s.Kind = kindLinkedField
	}

	if meta := f.ClientEdge; meta != nil {
		s.Kind = kindClientEdgeToClient
		if meta.IsToServer() {
			s.Kind = kindClientEdgeToServer
		}
		s.ClientEdge = &clientEdge{ID: meta.EdgeID, Query: meta.QueryName}
		if meta.Resolver != nil {
			s.ClientEdge.Resolver = resolverSymbol(f)
		}
	}

	for _, dep := range f.ModuleDependencies {
		s.Modules = append(s.Modules, dep.Module)
	}
	return s
}

func buildArguments(args []*ir.Argument) []argument {
	if len(args) == 0 {
		return nil
	}
	out := make([]argument, 0, len(args))
	for _, a := range args {
		if a.Value != nil && a.Value.Kind == ir.ValueVariable {
			out = append(out, argument{Kind: kindVariable, Name: a.Name, VariableName: a.Value.Raw})
			continue
		}
		out = append(out, argument{Kind: kindLiteral, Name: a.Name, Value: a.Value.String()})
	}
	return out
}
