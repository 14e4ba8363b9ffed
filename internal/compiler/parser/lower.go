package parser

import (
	"github.com/vektah/gqlparser/v2/ast"

	"github.com/conduit-lang/graphc/internal/compiler/ir"
	"github.com/conduit-lang/graphc/internal/compiler/schema"
)

// lowerer converts validated gqlparser AST into IR. It relies on the field and
// directive definitions the validator attached to the AST.
type lowerer struct {
	schema *ast.Schema
}

func (l *lowerer) operation(op *ast.OperationDefinition) *ir.Document {
	operation := string(op.Operation)
	if operation == "" {
		operation = string(ast.Query)
	}

	doc := &ir.Document{
		Kind:          ir.DocumentOperation,
		Operation:     operation,
		Name:          op.Name,
		TypeCondition: l.rootType(op.Operation),
		Directives:    l.directives(op.Directives),
		Loc:           location(op.Position),
	}
	for _, v := range op.VariableDefinitions {
		doc.Variables = append(doc.Variables, &ir.VariableDefinition{
			Name:         v.Variable,
			Type:         schema.TypeRefFromAST(v.Type),
			DefaultValue: value(v.DefaultValue),
			Loc:          location(v.Position),
		})
	}
	doc.Selections = l.selections(op.SelectionSet, doc.TypeCondition)
	return doc
}

func (l *lowerer) fragment(frag *ast.FragmentDefinition) *ir.Document {
	doc := &ir.Document{
		Kind:          ir.DocumentFragment,
		Name:          frag.Name,
		TypeCondition: frag.TypeCondition,
		Directives:    l.directives(frag.Directives),
		Loc:           location(frag.Position),
	}
	doc.Selections = l.selections(frag.SelectionSet, frag.TypeCondition)
	return doc
}

func (l *lowerer) rootType(op ast.Operation) string {
	var def *ast.Definition
	switch op {
	case ast.Mutation:
		def = l.schema.Mutation
	case ast.Subscription:
		def = l.schema.Subscription
	default:
		def = l.schema.Query
	}
	if def == nil {
		return ""
	}
	return def.Name
}

func (l *lowerer) selections(set ast.SelectionSet, parentType string) []ir.Selection {
	if len(set) == 0 {
		return nil
	}
	out := make([]ir.Selection, 0, len(set))
	for _, sel := range set {
		switch s := sel.(type) {
		case *ast.Field:
			out = append(out, l.field(s, parentType))
		case *ast.InlineFragment:
			typeCondition := s.TypeCondition
			inner := typeCondition
			if inner == "" {
				inner = parentType
			}
			out = append(out, &ir.InlineFragment{
				TypeCondition: typeCondition,
				Directives:    l.directives(s.Directives),
				Selections:    l.selections(s.SelectionSet, inner),
				Loc:           location(s.Position),
			})
		case *ast.FragmentSpread:
			out = append(out, &ir.FragmentSpread{
				Name:       s.Name,
				Directives: l.directives(s.Directives),
				Loc:        location(s.Position),
			})
		}
	}
	return out
}

func (l *lowerer) field(f *ast.Field, parentType string) *ir.Field {
	if f.ObjectDefinition != nil {
		parentType = f.ObjectDefinition.Name
	}

	field := &ir.Field{
		Alias:      aliasOf(f),
		Name:       f.Name,
		Directives: l.directives(f.Directives),
		ParentType: parentType,
		Loc:        location(f.Position),
	}

	var argDefs ast.ArgumentDefinitionList
	if f.Definition != nil {
		field.Type = schema.TypeRefFromAST(f.Definition.Type)
		argDefs = f.Definition.Arguments
	}
	field.Arguments = arguments(f.Arguments, argDefs)
	field.Selections = l.selections(f.SelectionSet, field.Type.Name())
	return field
}

// aliasOf drops the alias gqlparser fills in when none was written.
func aliasOf(f *ast.Field) string {
	if f.Alias == f.Name {
		return ""
	}
	return f.Alias
}

func (l *lowerer) directives(list ast.DirectiveList) []*ir.Directive {
	if len(list) == 0 {
		return nil
	}
	out := make([]*ir.Directive, 0, len(list))
	for _, d := range list {
		var argDefs ast.ArgumentDefinitionList
		if d.Definition != nil {
			argDefs = d.Definition.Arguments
		} else if def := l.schema.Directives[d.Name]; def != nil {
			argDefs = def.Arguments
		}
		out = append(out, &ir.Directive{
			Name:      d.Name,
			Arguments: arguments(d.Arguments, argDefs),
			Loc:       location(d.Position),
		})
	}
	return out
}

func arguments(list ast.ArgumentList, defs ast.ArgumentDefinitionList) []*ir.Argument {
	if len(list) == 0 {
		return nil
	}
	out := make([]*ir.Argument, 0, len(list))
	for _, a := range list {
		arg := &ir.Argument{
			Name:  a.Name,
			Value: value(a.Value),
			Loc:   location(a.Position),
		}
		if def := defs.ForName(a.Name); def != nil {
			arg.Type = schema.TypeRefFromAST(def.Type)
		}
		out = append(out, arg)
	}
	return out
}

func value(v *ast.Value) *ir.Value {
	if v == nil {
		return nil
	}
	out := &ir.Value{Kind: valueKind(v.Kind), Raw: v.Raw}
	for _, c := range v.Children {
		out.Children = append(out.Children, &ir.ChildValue{
			Name:  c.Name,
			Value: value(c.Value),
		})
	}
	return out
}

func valueKind(k ast.ValueKind) ir.ValueKind {
	switch k {
	case ast.Variable:
		return ir.ValueVariable
	case ast.IntValue:
		return ir.ValueInt
	case ast.FloatValue:
		return ir.ValueFloat
	case ast.StringValue, ast.BlockValue:
		return ir.ValueString
	case ast.BooleanValue:
		return ir.ValueBoolean
	case ast.NullValue:
		return ir.ValueNull
	case ast.EnumValue:
		return ir.ValueEnum
	case ast.ListValue:
		return ir.ValueList
	default:
		return ir.ValueObject
	}
}

func location(pos *ast.Position) ir.SourceLocation {
	if pos == nil {
		return ir.SourceLocation{}
	}
	loc := ir.SourceLocation{Line: pos.Line, Column: pos.Column}
	if pos.Src != nil {
		loc.File = pos.Src.Name
	}
	return loc
}
