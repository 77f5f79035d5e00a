package treeview

// CheckState is the tri-state value of a node checkbox. Indeterminate is only
// ever derived from mixed descendants; setters accept a bool.
type CheckState int8

const (
	Unchecked CheckState = iota
	Checked
	Indeterminate
)

func stateOf(checked bool) CheckState {
	if checked {
		return Checked
	}
	return Unchecked
}

func (s CheckState) String() string {
	switch s {
	case Checked:
		return "checked"
	case Indeterminate:
		return "indeterminate"
	default:
		return "unchecked"
	}
}

// inferState folds the states of a sibling set: uniform sets yield their
// value, mixed sets yield Indeterminate. ok is false for an empty set.
func inferState[T any](nodes []*Node[T]) (state CheckState, ok bool) {
	for i, node := range nodes {
		if i == 0 {
			state = node.checked
			continue
		}
		if node.checked != state {
			return Indeterminate, true
		}
	}
	return state, len(nodes) > 0
}
