package ui

import (
	"github.com/gdamore/tcell/v2"
	"github.com/rivo/tview"

	"checktree/treeview"
)

// View renders a controller as a checkbox tree with a filter field, an
// "All" checkbox and a status line. It only forwards user intents to the
// controller and redraws from the controller's state.
type View[T, P any] struct {
	app     *tview.Application
	ctrl    *treeview.Controller[T, P]
	labeler treeview.Labeler[T]

	filter *tview.InputField
	all    *tview.Checkbox
	tree   *tview.TreeView
	status *tview.TextView
	layout *tview.Flex

	// syncing is set while Refresh mirrors the controller onto the All
	// checkbox, whose changed callback must only see user input.
	syncing bool
}

func New[T, P any](app *tview.Application, ctrl *treeview.Controller[T, P], labeler treeview.Labeler[T]) *View[T, P] {
	v := &View[T, P]{
		app:     app,
		ctrl:    ctrl,
		labeler: labeler,
		filter: tview.NewInputField().
			SetLabel(labeler.FilterPlaceholder() + ": ").
			SetFieldWidth(0),
		all:    tview.NewCheckbox().SetLabel(ctrl.AllItem().Text + " "),
		tree:   tview.NewTreeView().SetTopLevel(1),
		status: tview.NewTextView().SetDynamicColors(false),
	}
	v.filter.SetText(ctrl.FilterText())
	v.filter.SetChangedFunc(v.ApplyFilter)
	v.filter.SetDoneFunc(func(tcell.Key) {
		app.SetFocus(v.tree)
	})
	v.all.SetChangedFunc(func(checked bool) {
		if v.syncing {
			return
		}
		ctrl.SetAllChecked(checked)
		v.Refresh()
	})
	v.tree.SetSelectedFunc(v.toggleCollapsed)
	v.tree.SetInputCapture(v.HandleKey)

	ctrl.OnSelectedChange(func([]P) {
		v.status.SetText(labeler.Label(ctrl.Selection()))
	})

	v.layout = tview.NewFlex().SetDirection(tview.FlexRow).
		AddItem(v.filter, 1, 0, false).
		AddItem(v.all, 1, 0, false).
		AddItem(v.tree, 0, 1, true).
		AddItem(v.status, 1, 0, false)
	v.Refresh()
	return v
}

// Root is the primitive to hand to the application.
func (v *View[T, P]) Root() tview.Primitive { return v.layout }

// Refresh rebuilds the tview tree from the controller's filtered view,
// keeping the cursor on the same node when it is still shown.
func (v *View[T, P]) Refresh() {
	var current *treeview.Node[T]
	if node := v.tree.GetCurrentNode(); node != nil {
		current, _ = node.GetReference().(*treeview.Node[T])
	}

	root := tview.NewTreeNode(v.ctrl.AllItem().Text).SetSelectable(false)
	var restore *tview.TreeNode
	for _, item := range v.ctrl.FilteredItems() {
		if n := addChildNode(root, item, current); n != nil {
			restore = n
		}
	}
	v.tree.SetRoot(root)
	switch {
	case restore != nil:
		v.tree.SetCurrentNode(restore)
	case len(root.GetChildren()) > 0:
		v.tree.SetCurrentNode(root.GetChildren()[0])
	}

	v.syncing = true
	v.all.SetChecked(v.ctrl.AllItem().Checked() == treeview.Checked)
	v.syncing = false
	if !v.ctrl.HasFilterItems() {
		v.status.SetText(v.labeler.NoItemsFoundText())
	} else {
		v.status.SetText(v.labeler.Label(v.ctrl.Selection()))
	}
}

// addChildNode mirrors node below parent and returns the tview node standing
// for current, if any.
func addChildNode[T any](parent *tview.TreeNode, node, current *treeview.Node[T]) *tview.TreeNode {
	color := tcell.ColorGreen
	switch {
	case node.Disabled():
		color = tcell.ColorGray
	case !node.IsLeaf():
		color = tcell.ColorYellow
	}
	newNode := tview.NewTreeNode(tview.Escape(node.Label())).
		SetReference(node).
		SetColor(color).
		SetExpanded(!node.Collapsed())
	parent.AddChild(newNode)

	var found *tview.TreeNode
	if node == current {
		found = newNode
	}
	for _, child := range node.Children() {
		if n := addChildNode(newNode, child, current); n != nil {
			found = n
		}
	}
	return found
}

// HandleKey implements the tree bindings:
//
//	space  toggle the current item
//	a      toggle all items
//	c      collapse or expand all items
//	d      remove the current item
//	/      focus the filter
//	q      quit
func (v *View[T, P]) HandleKey(event *tcell.EventKey) *tcell.EventKey {
	if event.Key() == tcell.KeyDelete {
		v.removeCurrent()
		return nil
	}
	if event.Key() != tcell.KeyRune {
		return event
	}
	switch event.Rune() {
	case ' ':
		if node := v.currentNode(); node != nil {
			v.ctrl.ToggleItem(node)
			v.Refresh()
		}
	case 'a':
		v.ctrl.ToggleAll()
		v.Refresh()
	case 'c':
		v.ctrl.ToggleAllCollapsed()
		v.Refresh()
	case 'd':
		v.removeCurrent()
	case '/':
		v.app.SetFocus(v.filter)
	case 'q':
		v.app.Stop()
	default:
		return event
	}
	return nil
}

func (v *View[T, P]) currentNode() *treeview.Node[T] {
	current := v.tree.GetCurrentNode()
	if current == nil {
		return nil
	}
	node, _ := current.GetReference().(*treeview.Node[T])
	return node
}

func (v *View[T, P]) toggleCollapsed(selected *tview.TreeNode) {
	node, ok := selected.GetReference().(*treeview.Node[T])
	if !ok || node.IsLeaf() {
		return
	}
	v.ctrl.SetItemCollapsed(node, !node.Collapsed())
	v.Refresh()
}

// removeCurrent removes the item under the cursor from the forest. Filter
// shadows stand for their source node.
func (v *View[T, P]) removeCurrent() {
	node := v.currentNode()
	if node == nil {
		return
	}
	if node.IsShadow() {
		node = node.Source()
	}
	if v.ctrl.RemoveItem(node) {
		v.Refresh()
	}
}

func (v *View[T, P]) ApplyFilter(text string) {
	v.ctrl.SetFilterText(text)
	v.Refresh()
}
