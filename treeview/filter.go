package treeview

import (
	"strings"

	"golang.org/x/text/cases"
)

// Filter returns the view of items whose text contains text, ignoring case.
// Matching nodes are returned as they are, with their whole subtree.
// Ancestors of matches that do not match themselves are replaced by shadow
// nodes holding only the matching branches. The source forest is never
// modified. An empty text returns items unchanged.
func Filter[T any](items []*Node[T], text string) []*Node[T] {
	if text == "" {
		return items
	}
	f := &filter[T]{fold: cases.Fold()}
	f.text = f.fold.String(text)

	filtered := make([]*Node[T], 0, len(items))
	for _, item := range items {
		if node := f.node(item); node != nil {
			filtered = append(filtered, node)
		}
	}
	return filtered
}

type filter[T any] struct {
	fold cases.Caser
	text string
}

func (f *filter[T]) node(item *Node[T]) *Node[T] {
	if strings.Contains(f.fold.String(item.Text), f.text) {
		return item
	}
	var children []*Node[T]
	for _, child := range item.children {
		if node := f.node(child); node != nil {
			children = append(children, node)
		}
	}
	if len(children) == 0 {
		return nil
	}
	return newShadow(item, children)
}

func newShadow[T any](source *Node[T], children []*Node[T]) *Node[T] {
	shadow := &Node[T]{
		Text:     source.Text,
		Value:    source.Value,
		Data:     source.Data,
		checked:  source.checked,
		disabled: source.disabled,
		source:   source,
	}
	shadow.assignChildren(children)
	return shadow
}

// UpdateSourceChecked writes the state of a shadow back onto its source,
// deepest shadows first. The source only becomes checked when the shadow is
// checked and every one of the source's own children is checked, so
// branches hidden by the filter are never overwritten. It does nothing on
// nodes that are not shadows.
func (node *Node[T]) UpdateSourceChecked() {
	if node.source == nil {
		return
	}
	for _, child := range node.children {
		child.UpdateSourceChecked()
	}

	state := node.checked
	if state == Checked {
		for _, child := range node.source.children {
			if child.checked != Checked {
				state = Unchecked
				break
			}
		}
	}
	node.source.setState(state)
}
