package treeview

import (
	"github.com/go-logr/logr"
	"github.com/google/uuid"
	"k8s.io/klog/v2"
)

// Controller owns a forest and the state derived from it: the filter text,
// the filtered view, the synthetic "All" node and the current selection.
// It is meant to be driven from a single goroutine.
type Controller[T, P any] struct {
	id          string
	items       []*Node[T]
	filterText  string
	filterItems []*Node[T]
	allItem     *Node[T]
	selection   Selection[T]
	payload     []P

	encoder   Encoder[T, P]
	scheduler Scheduler
	log       logr.Logger

	selectedHandlers []func([]P)
	filterHandlers   []func(string)
}

// Option configures a Controller.
type Option func(*options)

type options struct {
	scheduler Scheduler
	logger    *logr.Logger
	allText   string
}

// WithScheduler sets where selection notifications are deferred to.
func WithScheduler(s Scheduler) Option {
	return func(o *options) {
		o.scheduler = s
	}
}

func WithLogger(logger logr.Logger) Option {
	return func(o *options) {
		o.logger = &logger
	}
}

// WithAllText sets the text of the synthetic "All" node.
func WithAllText(text string) Option {
	return func(o *options) {
		o.allText = text
	}
}

// NewController builds a controller over items. The first selection
// notification is scheduled right away, so observers registered before the
// scheduler runs receive it.
func NewController[T, P any](items []*Node[T], encoder Encoder[T, P], opts ...Option) *Controller[T, P] {
	o := options{allText: "All"}
	for _, opt := range opts {
		opt(&o)
	}
	if o.scheduler == nil {
		o.scheduler = &Queue{}
	}
	logger := klog.Background().WithName("treeview")
	if o.logger != nil {
		logger = *o.logger
	}

	id := uuid.NewString()
	c := &Controller[T, P]{
		id:        id,
		encoder:   encoder,
		scheduler: o.scheduler,
		log:       logger.WithValues("session", id),
		allItem:   &Node[T]{Text: o.allText, checked: Checked},
	}
	c.log.V(2).Info("controller created", "items", len(items))
	c.SetItems(items)
	return c
}

func (c *Controller[T, P]) ID() string { return c.id }

func (c *Controller[T, P]) Items() []*Node[T] { return c.items }

func (c *Controller[T, P]) FilterText() string { return c.filterText }

// FilteredItems is the view presentation renders: the forest itself when no
// filter is set.
func (c *Controller[T, P]) FilteredItems() []*Node[T] { return c.filterItems }

func (c *Controller[T, P]) HasFilterItems() bool { return len(c.filterItems) > 0 }

func (c *Controller[T, P]) AllItem() *Node[T] { return c.allItem }

func (c *Controller[T, P]) Selection() Selection[T] { return c.selection }

// Payload is the encoding of the current selection, available as soon as a
// mutation returns and before observers are notified.
func (c *Controller[T, P]) Payload() []P { return c.payload }

// Scheduler returns the scheduler notifications are deferred to.
func (c *Controller[T, P]) Scheduler() Scheduler { return c.scheduler }

func (c *Controller[T, P]) OnSelectedChange(fn func([]P)) {
	c.selectedHandlers = append(c.selectedHandlers, fn)
}

func (c *Controller[T, P]) OnFilterChange(fn func(string)) {
	c.filterHandlers = append(c.filterHandlers, fn)
}

// SetItems replaces the forest.
func (c *Controller[T, P]) SetItems(items []*Node[T]) {
	c.items = items
	c.updateFilterItems()
	c.updateCollapsedOfAll()
	c.raiseSelectedChange()
}

// SetFilterText rebuilds the filtered view and notifies filter observers.
// Checked states are left untouched, so no selection notification follows.
func (c *Controller[T, P]) SetFilterText(text string) {
	c.filterText = text
	c.updateFilterItems()
	c.log.V(4).Info("filter changed", "text", text, "matches", len(c.filterItems))
	for _, fn := range c.filterHandlers {
		fn(text)
	}
}

// SetAllChecked checks or unchecks every item of the filtered view.
func (c *Controller[T, P]) SetAllChecked(checked bool) {
	c.allItem.checked = stateOf(checked)
	for _, item := range c.filterItems {
		item.SetCheckedRecursive(checked)
		item.UpdateSourceChecked()
	}
	c.raiseSelectedChange()
}

// ToggleAll flips the "All" checkbox.
func (c *Controller[T, P]) ToggleAll() {
	c.SetAllChecked(c.allItem.checked != Checked)
}

// SetItemChecked checks or unchecks a node of the filtered view together with
// its descendants, then brings its ancestors in the view and the source
// forest up to date. It reports false when the node is not in the view or is
// disabled.
func (c *Controller[T, P]) SetItemChecked(node *Node[T], checked bool) bool {
	path, ok := findPath(c.filterItems, node)
	if !ok || node.disabled {
		return false
	}

	node.SetChecked(checked)
	for _, child := range node.children {
		child.SetCheckedRecursive(checked)
	}
	for i := len(path) - 2; i >= 0; i-- {
		state, _ := inferState(path[i].children)
		path[i].setState(state)
	}
	path[0].UpdateSourceChecked()

	c.updateCheckedOfAll()
	c.log.V(4).Info("item checked", "text", node.Text, "checked", checked)
	c.raiseSelectedChange()
	return true
}

// ToggleItem flips the checked state of a node of the filtered view.
func (c *Controller[T, P]) ToggleItem(node *Node[T]) bool {
	return c.SetItemChecked(node, node.checked != Checked)
}

// ToggleAllCollapsed flips the collapsed state of the "All" node and applies
// it to the whole filtered view.
func (c *Controller[T, P]) ToggleAllCollapsed() {
	c.allItem.collapsed = !c.allItem.collapsed
	for _, item := range c.filterItems {
		item.SetCollapsedRecursive(c.allItem.collapsed)
	}
}

func (c *Controller[T, P]) SetItemCollapsed(node *Node[T], collapsed bool) {
	node.SetCollapsed(collapsed)
}

// RemoveItem removes a node from the forest and refreshes the derived state.
func (c *Controller[T, P]) RemoveItem(node *Node[T]) bool {
	removed := false
	for i, item := range c.items {
		if item == node {
			items := append([]*Node[T]{}, c.items[:i]...)
			c.items = append(items, c.items[i+1:]...)
			removed = true
			break
		}
		if RemoveItem(item, node) {
			removed = true
			break
		}
	}
	if !removed {
		return false
	}
	c.log.V(4).Info("item removed", "text", node.Text)
	c.SetItems(c.items)
	return true
}

func (c *Controller[T, P]) raiseSelectedChange() {
	c.selection = ConcatSelection(c.items, nil, nil)
	payload := c.encoder.Encode(c.items, c.selection)
	c.payload = payload
	c.log.V(4).Info("selection changed",
		"checked", len(c.selection.CheckedItems),
		"unchecked", len(c.selection.UncheckedItems))
	c.scheduler.Schedule(func() {
		for _, fn := range c.selectedHandlers {
			fn(payload)
		}
	})
}

func (c *Controller[T, P]) updateFilterItems() {
	c.filterItems = Filter(c.items, c.filterText)
	c.updateCheckedOfAll()
}

func (c *Controller[T, P]) updateCheckedOfAll() {
	state, ok := inferState(c.filterItems)
	if !ok || state != Checked {
		state = Unchecked
	}
	c.allItem.checked = state
}

func (c *Controller[T, P]) updateCollapsedOfAll() {
	expanded := false
	for _, item := range c.filterItems {
		if !item.collapsed {
			expanded = true
			break
		}
	}
	c.allItem.collapsed = !expanded
}

// findPath returns the chain of nodes from a top-level item down to node.
func findPath[T any](items []*Node[T], node *Node[T]) ([]*Node[T], bool) {
	for _, item := range items {
		if item == node {
			return []*Node[T]{item}, true
		}
		if path, ok := findPath(item.children, node); ok {
			return append([]*Node[T]{item}, path...), true
		}
	}
	return nil, false
}
