package treeview

import "reflect"

// Selection is the classification of a forest's leaves.
type Selection[T any] struct {
	CheckedItems   []*Node[T]
	UncheckedItems []*Node[T]
}

// FindItem returns the first node in pre-order whose Value equals value.
func FindItem[T any](root *Node[T], value any) (*Node[T], bool) {
	if root == nil {
		return nil, false
	}
	if valuesEqual(root.Value, value) {
		return root, true
	}
	for _, child := range root.children {
		if found, ok := FindItem(child, value); ok {
			return found, true
		}
	}
	return nil, false
}

func FindItemInList[T any](list []*Node[T], value any) (*Node[T], bool) {
	for _, item := range list {
		if found, ok := FindItem(item, value); ok {
			return found, true
		}
	}
	return nil, false
}

// FindParent returns the direct parent of node below root, comparing by
// identity.
func FindParent[T any](root, node *Node[T]) (*Node[T], bool) {
	if root == nil {
		return nil, false
	}
	for _, child := range root.children {
		if child == node {
			return root, true
		}
		if parent, ok := FindParent(child, node); ok {
			return parent, true
		}
	}
	return nil, false
}

// RemoveItem detaches node from its parent below root. An emptied parent
// becomes a leaf; otherwise only the parent's subtree is recomputed.
func RemoveItem[T any](root, node *Node[T]) bool {
	parent, ok := FindParent(root, node)
	if !ok {
		return false
	}
	children := make([]*Node[T], 0, len(parent.children))
	for _, child := range parent.children {
		if child != node {
			children = append(children, child)
		}
	}
	if len(children) == 0 {
		parent.children = nil
	} else {
		parent.children = children
		parent.CorrectChecked()
	}
	return true
}

// ConcatSelection appends the selections of nodes, in order, to copies of
// the given accumulators.
func ConcatSelection[T any](nodes []*Node[T], checked, unchecked []*Node[T]) Selection[T] {
	sel := Selection[T]{
		CheckedItems:   append([]*Node[T]{}, checked...),
		UncheckedItems: append([]*Node[T]{}, unchecked...),
	}
	for _, node := range nodes {
		s := node.Selection()
		sel.CheckedItems = append(sel.CheckedItems, s.CheckedItems...)
		sel.UncheckedItems = append(sel.UncheckedItems, s.UncheckedItems...)
	}
	return sel
}

// valuesEqual compares two values with ==, treating values of incomparable
// dynamic types as unequal instead of panicking.
func valuesEqual(a, b any) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	if !reflect.TypeOf(a).Comparable() || !reflect.TypeOf(b).Comparable() {
		return false
	}
	return a == b
}
