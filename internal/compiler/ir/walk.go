package ir

// Visitor receives selections in depth-first order. The ancestors slice holds
// the enclosing selections, outermost first, and is only valid for the
// duration of the call.
type Visitor struct {
	// Enter is called before a selection's children; returning false skips them.
	Enter func(sel Selection, ancestors []Selection) bool
	// Leave is called after a selection's children.
	Leave func(sel Selection, ancestors []Selection)
}

// Walk traverses the selections top-down, threading an explicit ancestor stack
// instead of relying on parent pointers.
func Walk(sels []Selection, v Visitor) {
	stack := make([]Selection, 0, 8)
	var visit func(sel Selection)
	visit = func(sel Selection) {
		descend := true
		if v.Enter != nil {
			descend = v.Enter(sel, stack)
		}
		if descend {
			stack = append(stack, sel)
			for _, child := range Children(sel) {
				visit(child)
			}
			stack = stack[:len(stack)-1]
		}
		if v.Leave != nil {
			v.Leave(sel, stack)
		}
	}
	for _, sel := range sels {
		visit(sel)
	}
}

// Children returns the child selections of a selection. Fragment spreads have
// no children of their own.
func Children(sel Selection) []Selection {
	switch s := sel.(type) {
	case *Field:
		return s.Selections
	case *InlineFragment:
		return s.Selections
	default:
		return nil
	}
}

// Fields returns every field in the selection tree, in document order.
func Fields(sels []Selection) []*Field {
	var fields []*Field
	Walk(sels, Visitor{
		Enter: func(sel Selection, _ []Selection) bool {
			if f, ok := sel.(*Field); ok {
				fields = append(fields, f)
			}
			return true
		},
	})
	return fields
}
