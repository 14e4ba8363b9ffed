package ir

// CloneSelections returns a deep copy of a selection set. Values and type
// references are immutable after lowering and are shared.
func CloneSelections(sels []Selection) []Selection {
	if sels == nil {
		return nil
	}
	out := make([]Selection, 0, len(sels))
	for _, sel := range sels {
		out = append(out, CloneSelection(sel))
	}
	return out
}

// CloneSelection returns a deep copy of a single selection.
func CloneSelection(sel Selection) Selection {
	switch s := sel.(type) {
	case *Field:
		c := *s
		c.Arguments = append([]*Argument(nil), s.Arguments...)
		c.Directives = append([]*Directive(nil), s.Directives...)
		c.Selections = CloneSelections(s.Selections)
		if s.ClientEdge != nil {
			meta := *s.ClientEdge
			c.ClientEdge = &meta
		}
		c.ModuleDependencies = append([]ModuleDependency(nil), s.ModuleDependencies...)
		return &c
	case *InlineFragment:
		c := *s
		c.Directives = append([]*Directive(nil), s.Directives...)
		c.Selections = CloneSelections(s.Selections)
		return &c
	case *FragmentSpread:
		c := *s
		c.Directives = append([]*Directive(nil), s.Directives...)
		return &c
	default:
		return sel
	}
}

// CloneDocument returns a deep copy of a document.
func CloneDocument(doc *Document) *Document {
	c := *doc
	c.Variables = append([]*VariableDefinition(nil), doc.Variables...)
	c.Directives = append([]*Directive(nil), doc.Directives...)
	c.Selections = CloneSelections(doc.Selections)
	c.ModuleDependencies = append([]ModuleDependency(nil), doc.ModuleDependencies...)
	return &c
}
