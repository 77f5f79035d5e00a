package treeview

import (
	"k8s.io/apimachinery/pkg/util/validation/field"
)

// Node is one entry of a checkbox tree. Leaves hold the authoritative
// checked state; an internal node's state is derived from its children.
type Node[T any] struct {
	Text  string
	Value any
	Data  T

	checked   CheckState
	disabled  bool
	collapsed bool
	children  []*Node[T]

	// source is set on filter shadows only.
	source *Node[T]
}

// NodeOption tunes node construction.
type NodeOption func(*nodeOptions)

type nodeOptions struct {
	correctChecked bool
}

// WithCorrectChecked runs CorrectChecked on every constructed root.
func WithCorrectChecked() NodeOption {
	return func(o *nodeOptions) {
		o.correctChecked = true
	}
}

// NewNode builds a tree from its description. Nothing is built when the
// description is invalid.
func NewNode[T any](item Item[T], opts ...NodeOption) (*Node[T], error) {
	if errs := validateItem(item, field.NewPath("item")); len(errs) > 0 {
		return nil, &ValidationError{Errors: errs}
	}
	node := buildNode(item, false)
	if applyNodeOptions(opts).correctChecked {
		node.CorrectChecked()
	}
	return node, nil
}

// NewForest builds a list of top-level nodes.
func NewForest[T any](items []Item[T], opts ...NodeOption) ([]*Node[T], error) {
	var errs field.ErrorList
	path := field.NewPath("items")
	for i := range items {
		errs = append(errs, validateItem(items[i], path.Index(i))...)
	}
	if len(errs) > 0 {
		return nil, &ValidationError{Errors: errs}
	}

	o := applyNodeOptions(opts)
	nodes := make([]*Node[T], 0, len(items))
	for i := range items {
		node := buildNode(items[i], false)
		if o.correctChecked {
			node.CorrectChecked()
		}
		nodes = append(nodes, node)
	}
	return nodes, nil
}

func applyNodeOptions(opts []NodeOption) nodeOptions {
	var o nodeOptions
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

func buildNode[T any](item Item[T], parentDisabled bool) *Node[T] {
	node := &Node[T]{
		Text:    item.Text,
		Value:   item.Value,
		Data:    item.Data,
		checked: Checked,
	}
	if item.Checked != nil {
		node.SetChecked(*item.Checked)
	}
	if item.Collapsed != nil {
		node.SetCollapsed(*item.Collapsed)
	}
	if parentDisabled || (item.Disabled != nil && *item.Disabled) {
		node.SetDisabled(true)
	}
	if len(item.Children) > 0 {
		children := make([]*Node[T], 0, len(item.Children))
		for _, child := range item.Children {
			children = append(children, buildNode(child, node.disabled))
		}
		node.assignChildren(children)
	}
	return node
}

func (node *Node[T]) Checked() CheckState { return node.checked }

func (node *Node[T]) Indeterminate() bool { return node.checked == Indeterminate }

// SetChecked assigns the node's own state. Disabled nodes keep their state.
func (node *Node[T]) SetChecked(checked bool) {
	node.setState(stateOf(checked))
}

func (node *Node[T]) setState(state CheckState) {
	if node.disabled {
		return
	}
	node.checked = state
}

// SetCheckedRecursive forces checked onto the node and all of its
// descendants. Only the receiver's disabled flag is honoured: descendants
// are overridden even when individually disabled.
func (node *Node[T]) SetCheckedRecursive(checked bool) {
	if node.disabled {
		return
	}
	node.forceChecked(stateOf(checked))
}

func (node *Node[T]) forceChecked(state CheckState) {
	node.checked = state
	for _, child := range node.children {
		child.forceChecked(state)
	}
}

func (node *Node[T]) Disabled() bool { return node.disabled }

// SetDisabled assigns disabled to the node and every descendant, replacing
// whatever the descendants held before.
func (node *Node[T]) SetDisabled(disabled bool) {
	if node.disabled == disabled {
		return
	}
	node.forceDisabled(disabled)
}

func (node *Node[T]) forceDisabled(disabled bool) {
	node.disabled = disabled
	for _, child := range node.children {
		child.forceDisabled(disabled)
	}
}

func (node *Node[T]) Collapsed() bool { return node.collapsed }

func (node *Node[T]) SetCollapsed(collapsed bool) {
	node.collapsed = collapsed
}

func (node *Node[T]) SetCollapsedRecursive(collapsed bool) {
	node.collapsed = collapsed
	for _, child := range node.children {
		child.SetCollapsedRecursive(collapsed)
	}
}

func (node *Node[T]) Children() []*Node[T] { return node.children }

func (node *Node[T]) IsLeaf() bool { return node.children == nil }

// SetChildren replaces the children. A nil slice turns the node into a leaf;
// an empty non-nil slice is rejected. The node's state is inferred from the
// new children only, without descending further.
func (node *Node[T]) SetChildren(children []*Node[T]) error {
	if children != nil && len(children) == 0 {
		return &ValidationError{Errors: field.ErrorList{
			field.Invalid(field.NewPath("children"), "[]", "must not be empty"),
		}}
	}
	node.assignChildren(children)
	return nil
}

func (node *Node[T]) assignChildren(children []*Node[T]) {
	node.children = children
	if state, ok := inferState(children); ok {
		node.checked = state
	}
}

// CorrectChecked recomputes the state of the whole subtree bottom-up.
func (node *Node[T]) CorrectChecked() {
	node.checked = node.correctState()
}

func (node *Node[T]) correctState() CheckState {
	if node.children == nil {
		return node.checked
	}
	for _, child := range node.children {
		child.checked = child.correctState()
	}
	state, _ := inferState(node.children)
	return state
}

// Selection classifies the leaves below the node in pre-order.
func (node *Node[T]) Selection() Selection[T] {
	if node.children == nil {
		if node.checked == Checked {
			return Selection[T]{CheckedItems: []*Node[T]{node}}
		}
		return Selection[T]{UncheckedItems: []*Node[T]{node}}
	}
	return ConcatSelection(node.children, nil, nil)
}

// Source returns the node a filter shadow stands in for, or nil.
func (node *Node[T]) Source() *Node[T] { return node.source }

func (node *Node[T]) IsShadow() bool { return node.source != nil }
