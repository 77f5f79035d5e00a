package treeview

// Encoder turns the current forest and its selection into the payload
// delivered to selection observers. The payload element type is fixed by the
// encoder a controller is configured with.
type Encoder[T, P any] interface {
	Encode(items []*Node[T], sel Selection[T]) []P
}

// ValuesEncoder emits the values of the checked leaves.
type ValuesEncoder[T any] struct{}

func (ValuesEncoder[T]) Encode(_ []*Node[T], sel Selection[T]) []any {
	values := make([]any, 0, len(sel.CheckedItems))
	for _, item := range sel.CheckedItems {
		values = append(values, item.Value)
	}
	return values
}

// Downline is a checked leaf linked to the chain of its ancestors. Ancestor
// links are shared between leaves and never emitted on their own.
type Downline[T any] struct {
	Node   *Node[T]
	Parent *Downline[T]
}

// Path returns the nodes from the top-level ancestor down to the leaf.
func (d *Downline[T]) Path() []*Node[T] {
	var path []*Node[T]
	for link := d; link != nil; link = link.Parent {
		path = append([]*Node[T]{link.Node}, path...)
	}
	return path
}

// DownlineEncoder emits a Downline for every checked leaf of the forest.
type DownlineEncoder[T any] struct{}

func (DownlineEncoder[T]) Encode(items []*Node[T], _ Selection[T]) []*Downline[T] {
	result := []*Downline[T]{}
	for _, item := range items {
		result = appendLinks(result, item, nil)
	}
	return result
}

func appendLinks[T any](result []*Downline[T], node *Node[T], parent *Downline[T]) []*Downline[T] {
	if node.children != nil {
		link := &Downline[T]{Node: node, Parent: parent}
		for _, child := range node.children {
			result = appendLinks(result, child, link)
		}
		return result
	}
	if node.checked == Checked {
		result = append(result, &Downline[T]{Node: node, Parent: parent})
	}
	return result
}

// OrderedDownlineEncoder emits downlines in a stable order: links that were
// already emitted keep their previous relative order, newly checked leaves
// are appended. It remembers the previous emission, so each controller needs
// its own instance.
type OrderedDownlineEncoder[T any] struct {
	downlines DownlineEncoder[T]
	current   []*Downline[T]
}

func NewOrderedDownlineEncoder[T any]() *OrderedDownlineEncoder[T] {
	return &OrderedDownlineEncoder[T]{}
}

func (e *OrderedDownlineEncoder[T]) Encode(items []*Node[T], sel Selection[T]) []*Downline[T] {
	pending := e.downlines.Encode(items, sel)
	if len(e.current) == 0 {
		e.current = pending
		return e.current
	}

	kept := make([]*Downline[T], 0, len(pending))
	for _, prev := range e.current {
		for i, link := range pending {
			if valuesEqual(prev.Node.Value, link.Node.Value) {
				kept = append(kept, link)
				pending = append(pending[:i], pending[i+1:]...)
				break
			}
		}
	}
	e.current = append(kept, pending...)
	return e.current
}

// Reset forgets the previous emission.
func (e *OrderedDownlineEncoder[T]) Reset() {
	e.current = nil
}
