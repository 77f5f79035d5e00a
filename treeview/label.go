package treeview

import "fmt"

// Labeler produces the texts presentation shows around a tree.
type Labeler[T any] interface {
	Label(sel Selection[T]) string
	AllCheckboxText() string
	FilterPlaceholder() string
	NoItemsFoundText() string
	CollapseExpandTooltip(collapsed bool) string
}

// DefaultLabeler is the English Labeler.
type DefaultLabeler[T any] struct{}

// Label summarises a selection: the "All" text when everything is checked,
// the leaf text for a single checked leaf, a count otherwise.
func (l DefaultLabeler[T]) Label(sel Selection[T]) string {
	if len(sel.UncheckedItems) == 0 {
		if len(sel.CheckedItems) > 0 {
			return l.AllCheckboxText()
		}
		return ""
	}

	switch len(sel.CheckedItems) {
	case 0:
		return "Select options"
	case 1:
		return sel.CheckedItems[0].Text
	default:
		return fmt.Sprintf("%d options selected", len(sel.CheckedItems))
	}
}

func (DefaultLabeler[T]) AllCheckboxText() string { return "All" }

func (DefaultLabeler[T]) FilterPlaceholder() string { return "Filter" }

func (DefaultLabeler[T]) NoItemsFoundText() string { return "No items found" }

func (DefaultLabeler[T]) CollapseExpandTooltip(collapsed bool) string {
	if collapsed {
		return "Expand"
	}
	return "Collapse"
}
