package treeview

import (
	"github.com/xlab/treeprint"
)

// Glyph returns the checkbox marker for a state.
func Glyph(state CheckState) string {
	switch state {
	case Checked:
		return "[x]"
	case Indeterminate:
		return "[-]"
	default:
		return "[ ]"
	}
}

// Label returns the line a node is rendered with: expand marker, checkbox,
// text and a disabled suffix.
func (node *Node[T]) Label() string {
	prefix := ""
	if node.children != nil {
		if node.collapsed {
			prefix = "+ "
		} else {
			prefix = "- "
		}
	}
	label := prefix + Glyph(node.checked) + " " + node.Text
	if node.disabled {
		label += " (disabled)"
	}
	return label
}

// RenderAsText draws a forest under a root line. Children of collapsed nodes
// are not drawn.
func RenderAsText[T any](root string, items []*Node[T]) string {
	tree := treeprint.NewWithRoot(root)
	for _, item := range items {
		renderNode(tree, item)
	}
	return tree.String()
}

func renderNode[T any](branch treeprint.Tree, node *Node[T]) {
	if node.children == nil || node.collapsed {
		branch.AddNode(node.Label())
		return
	}
	sub := branch.AddBranch(node.Label())
	for _, child := range node.children {
		renderNode(sub, child)
	}
}
