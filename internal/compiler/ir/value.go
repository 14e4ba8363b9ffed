package ir

import (
	"strconv"
	"strings"
)

// ValueKind identifies the literal or variable form of a value
type ValueKind int

const (
	// ValueVariable is a $variable reference
	ValueVariable ValueKind = iota
	// ValueInt is an integer literal
	ValueInt
	// ValueFloat is a float literal
	ValueFloat
	// ValueString is a string literal
	ValueString
	// ValueBoolean is true or false
	ValueBoolean
	// ValueNull is the null literal
	ValueNull
	// ValueEnum is an enum literal
	ValueEnum
	// ValueList is a list of values
	ValueList
	// ValueObject is an input object literal
	ValueObject
)

// Value is an argument value expression
type Value struct {
	Kind ValueKind
	// Raw holds the variable name (without $) or the literal text.
	Raw      string
	Children []*ChildValue
}

// ChildValue is an element of a list value or a named field of an object value.
type ChildValue struct {
	Name  string
	Value *Value
}

// String renders the value in GraphQL syntax.
func (v *Value) String() string {
	if v == nil {
		return "null"
	}
	switch v.Kind {
	case ValueVariable:
		return "$" + v.Raw
	case ValueString:
		return strconv.Quote(v.Raw)
	case ValueList:
		parts := make([]string, 0, len(v.Children))
		for _, c := range v.Children {
			parts = append(parts, c.Value.String())
		}
		return "[" + strings.Join(parts, ", ") + "]"
	case ValueObject:
		parts := make([]string, 0, len(v.Children))
		for _, c := range v.Children {
			parts = append(parts, c.Name+": "+c.Value.String())
		}
		return "{" + strings.Join(parts, ", ") + "}"
	default:
		return v.Raw
	}
}

// Variables returns the names of all variables referenced by the value, in
// order of first appearance.
func (v *Value) Variables() []string {
	var names []string
	seen := make(map[string]bool)
	var visit func(*Value)
	visit = func(val *Value) {
		if val == nil {
			return
		}
		if val.Kind == ValueVariable {
			if !seen[val.Raw] {
				seen[val.Raw] = true
				names = append(names, val.Raw)
			}
			return
		}
		for _, c := range val.Children {
			visit(c.Value)
		}
	}
	visit(v)
	return names
}
