package treeview

import (
	"testing"

	"github.com/go-logr/logr"
	"github.com/google/go-cmp/cmp"
	"k8s.io/utils/ptr"
)

type recorder struct {
	queue    *Queue
	payloads [][]any
	filters  []string
}

func newValuesController(t *testing.T, forest []*Node[string]) (*Controller[string, any], *recorder) {
	t.Helper()
	rec := &recorder{queue: &Queue{}}
	c := NewController[string, any](forest, ValuesEncoder[string]{},
		WithScheduler(rec.queue), WithLogger(logr.Discard()))
	c.OnSelectedChange(func(values []any) { rec.payloads = append(rec.payloads, values) })
	c.OnFilterChange(func(text string) { rec.filters = append(rec.filters, text) })
	return c, rec
}

func (r *recorder) last(t *testing.T) []any {
	t.Helper()
	if len(r.payloads) == 0 {
		t.Fatal("no selection emitted")
	}
	return r.payloads[len(r.payloads)-1]
}

func TestControllerEmitsAfterTurn(t *testing.T) {
	c, rec := newValuesController(t, produce(t))

	if len(rec.payloads) != 0 {
		t.Fatalf("emitted synchronously")
	}
	if n := rec.queue.Flush(); n != 1 {
		t.Fatalf("flushed %d emissions, want 1", n)
	}
	if diff := cmp.Diff([]any{"Apple", "Cabbage"}, rec.last(t)); diff != "" {
		t.Errorf("initial payload (-want +got):\n%s", diff)
	}
	if len(c.Selection().UncheckedItems) != 3 {
		t.Errorf("unchecked = %v", texts(c.Selection().UncheckedItems))
	}
}

func TestControllerPayloadCurrentBeforeFlush(t *testing.T) {
	c, rec := newValuesController(t, produce(t))
	if diff := cmp.Diff([]any{"Apple", "Cabbage"}, c.Payload()); diff != "" {
		t.Errorf("initial payload (-want +got):\n%s", diff)
	}

	c.SetAllChecked(false)
	if got := c.Payload(); len(got) != 0 {
		t.Errorf("payload = %v, want empty", got)
	}
	if len(rec.payloads) != 0 {
		t.Errorf("observers notified before flush")
	}
}

func TestControllerAllItem(t *testing.T) {
	tests := []struct {
		name      string
		items     []Item[string]
		checked   CheckState
		collapsed bool
	}{
		{"all checked", []Item[string]{leaf("a", true), leaf("b", true)}, Checked, false},
		{"all unchecked", []Item[string]{leaf("a", false), leaf("b", false)}, Unchecked, false},
		{"mixed", []Item[string]{leaf("a", true), leaf("b", false)}, Unchecked, false},
		{"indeterminate", []Item[string]{branch("g", leaf("a", true), leaf("b", false))}, Unchecked, false},
		{"empty", nil, Unchecked, true},
		{"collapsed", []Item[string]{
			{Text: "a", Collapsed: ptr.To(true)},
			{Text: "b", Collapsed: ptr.To(true)},
		}, Checked, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, _ := newValuesController(t, mustForest(t, tt.items...))
			all := c.AllItem()
			if all.Checked() != tt.checked {
				t.Errorf("All checked = %v, want %v", all.Checked(), tt.checked)
			}
			if all.Collapsed() != tt.collapsed {
				t.Errorf("All collapsed = %v, want %v", all.Collapsed(), tt.collapsed)
			}
			if all.Text != "All" {
				t.Errorf("All text = %q", all.Text)
			}
		})
	}
}

func TestControllerFilter(t *testing.T) {
	forest := produce(t)
	c, rec := newValuesController(t, forest)
	rec.queue.Flush()

	c.SetFilterText("apple")
	if diff := cmp.Diff([]string{"apple"}, rec.filters); diff != "" {
		t.Errorf("filter events (-want +got):\n%s", diff)
	}
	if rec.queue.Len() != 0 {
		t.Errorf("filtering scheduled a selection emission")
	}
	if diff := cmp.Diff([]string{"Root"}, texts(c.FilteredItems())); diff != "" {
		t.Errorf("filtered (-want +got):\n%s", diff)
	}
	if c.AllItem().Checked() != Checked {
		t.Errorf("All = %v, want checked for the filtered view", c.AllItem().Checked())
	}

	c.SetFilterText("nothing")
	if c.HasFilterItems() {
		t.Errorf("HasFilterItems with no match")
	}
	if c.AllItem().Checked() != Unchecked {
		t.Errorf("All = %v, want unchecked with no items", c.AllItem().Checked())
	}
}

func TestControllerFilterRoundTrip(t *testing.T) {
	forest := produce(t)
	c, rec := newValuesController(t, forest)
	before := snapshotScalars(forest)
	apricot, _ := FindItemInList(forest, "Apricot")

	c.SetFilterText("ap")
	if !c.SetItemChecked(apricot, true) {
		t.Fatal("SetItemChecked(Apricot) = false")
	}
	c.SetFilterText("")

	view := c.FilteredItems()
	if len(view) != len(forest) || &view[0] != &c.Items()[0] {
		t.Errorf("cleared filter is not the identity view")
	}
	if diff := cmp.Diff(before, snapshotScalars(forest)); diff != "" {
		t.Errorf("scalars changed (-before +after):\n%s", diff)
	}
	if apricot.Checked() != Checked {
		t.Errorf("toggle made while filtered was lost")
	}
	rec.queue.Flush()
	if diff := cmp.Diff([]any{"Apple", "Cabbage", "Apricot"}, rec.last(t)); diff != "" {
		t.Errorf("payload (-want +got):\n%s", diff)
	}
}

func TestControllerSetItemCheckedThroughShadow(t *testing.T) {
	forest := produce(t)
	c, rec := newValuesController(t, forest)
	rec.queue.Flush()
	fruits, _ := FindItemInList(forest, "Fruits")
	banana, _ := FindItemInList(forest, "Banana")

	c.SetFilterText("banana")
	shadowRoot := c.FilteredItems()[0]
	shadowFruits := shadowRoot.Children()[0]

	if !c.SetItemChecked(banana, true) {
		t.Fatal("SetItemChecked(Banana) = false")
	}
	if shadowFruits.Checked() != Checked || shadowRoot.Checked() != Checked {
		t.Errorf("view ancestors = %v/%v, want checked", shadowFruits.Checked(), shadowRoot.Checked())
	}
	if fruits.Checked() != Checked {
		t.Errorf("source Fruits = %v, want checked", fruits.Checked())
	}
	if c.AllItem().Checked() != Checked {
		t.Errorf("All = %v", c.AllItem().Checked())
	}

	if rec.queue.Flush() != 1 {
		t.Fatalf("want one emission")
	}
	if diff := cmp.Diff([]any{"Apple", "Banana", "Cabbage"}, rec.last(t)); diff != "" {
		t.Errorf("payload (-want +got):\n%s", diff)
	}
}

func TestControllerSetItemCheckedCascades(t *testing.T) {
	forest := produce(t)
	c, rec := newValuesController(t, forest)
	rec.queue.Flush()
	vegetables, _ := FindItemInList(forest, "Vegetables")
	emitted := len(rec.payloads)

	c.SetItemChecked(vegetables, true)
	if forest[0].Checked() != Indeterminate {
		t.Errorf("Root = %v, want indeterminate", forest[0].Checked())
	}
	c.SetItemChecked(vegetables, false)
	rec.queue.Flush()
	if diff := cmp.Diff([]any{"Apple"}, rec.last(t)); diff != "" {
		t.Errorf("payload (-want +got):\n%s", diff)
	}
	if len(rec.payloads)-emitted != 2 {
		t.Errorf("emissions = %d, want one per toggle", len(rec.payloads))
	}
}

func TestControllerSetItemCheckedRejects(t *testing.T) {
	forest := produce(t)
	c, _ := newValuesController(t, forest)
	carrot, _ := FindItemInList(forest, "Carrot")

	c.SetFilterText("apple")
	if c.SetItemChecked(carrot, true) {
		t.Errorf("toggled a node outside the view")
	}

	c.SetFilterText("")
	carrot.SetDisabled(true)
	if c.SetItemChecked(carrot, true) || carrot.Checked() != Unchecked {
		t.Errorf("toggled a disabled node")
	}
}

func TestControllerToggleAll(t *testing.T) {
	forest := produce(t)
	c, rec := newValuesController(t, forest)
	rec.queue.Flush()

	c.ToggleAll()
	rec.queue.Flush()
	if diff := cmp.Diff([]any{"Apple", "Banana", "Carrot", "Cabbage", "Apricot"}, rec.last(t)); diff != "" {
		t.Errorf("payload (-want +got):\n%s", diff)
	}
	if c.AllItem().Checked() != Checked {
		t.Errorf("All = %v", c.AllItem().Checked())
	}

	c.ToggleAll()
	rec.queue.Flush()
	if len(rec.last(t)) != 0 {
		t.Errorf("payload = %v, want empty", rec.last(t))
	}
}

func TestControllerSetAllCheckedFiltered(t *testing.T) {
	forest := produce(t)
	c, rec := newValuesController(t, forest)
	fruits, _ := FindItemInList(forest, "Fruits")

	c.SetFilterText("an")
	c.SetAllChecked(true)
	rec.queue.Flush()

	// Banana is checked; Carrot and Cabbage are hidden and keep their state.
	if diff := cmp.Diff([]any{"Apple", "Banana", "Cabbage"}, rec.last(t)); diff != "" {
		t.Errorf("payload (-want +got):\n%s", diff)
	}
	if fruits.Checked() != Checked {
		t.Errorf("Fruits = %v", fruits.Checked())
	}
	if forest[0].Checked() != Unchecked {
		t.Errorf("Root = %v, want unchecked while Vegetables is mixed", forest[0].Checked())
	}
}

func TestControllerToggleAllCollapsed(t *testing.T) {
	forest := produce(t)
	c, _ := newValuesController(t, forest)
	if c.AllItem().Collapsed() {
		t.Fatal("All starts collapsed")
	}

	c.ToggleAllCollapsed()
	var walk func(n *Node[string])
	walk = func(n *Node[string]) {
		if !n.Collapsed() {
			t.Errorf("%s not collapsed", n.Text)
		}
		for _, ch := range n.Children() {
			walk(ch)
		}
	}
	for _, n := range forest {
		walk(n)
	}

	c.SetItemCollapsed(forest[0], false)
	if forest[0].Collapsed() || !forest[0].Children()[0].Collapsed() {
		t.Errorf("single collapse should not cascade")
	}
}

func TestControllerRemoveItem(t *testing.T) {
	forest := produce(t)
	c, rec := newValuesController(t, forest)
	rec.queue.Flush()
	apple, _ := FindItemInList(forest, "Apple")
	apricot, _ := FindItemInList(forest, "Apricot")

	if !c.RemoveItem(apple) {
		t.Fatal("RemoveItem(Apple) = false")
	}
	if !c.RemoveItem(apricot) {
		t.Fatal("RemoveItem(Apricot) = false")
	}
	if c.RemoveItem(apple) {
		t.Errorf("removed Apple twice")
	}
	if diff := cmp.Diff([]string{"Root"}, texts(c.Items())); diff != "" {
		t.Errorf("items (-want +got):\n%s", diff)
	}
	if forest[1] != apricot {
		t.Errorf("caller's slice modified")
	}

	rec.queue.Flush()
	if diff := cmp.Diff([]any{"Cabbage"}, rec.last(t)); diff != "" {
		t.Errorf("payload (-want +got):\n%s", diff)
	}
}

func TestControllerOrderedDownline(t *testing.T) {
	forest := groups(t, "A", "B", "C")
	queue := &Queue{}
	c := NewController[string, *Downline[string]](forest, NewOrderedDownlineEncoder[string](),
		WithScheduler(queue), WithLogger(logr.Discard()), WithAllText("Everything"))
	var got [][]string
	c.OnSelectedChange(func(links []*Downline[string]) { got = append(got, linkValues(links)) })

	b, _ := FindItemInList(forest, "B")
	d, _ := FindItemInList(forest, "D")
	c.SetItemChecked(b, false)
	c.SetItemChecked(d, true)
	queue.Flush()

	want := [][]string{{"A", "B", "C"}, {"A", "C"}, {"A", "C", "D"}}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("emissions (-want +got):\n%s", diff)
	}
	if c.AllItem().Text != "Everything" {
		t.Errorf("All text = %q", c.AllItem().Text)
	}
	if c.ID() == "" {
		t.Errorf("missing session id")
	}
}

func TestSchedulerFunc(t *testing.T) {
	var ran int
	s := SchedulerFunc(func(fn func()) { fn(); ran++ })
	c := NewController[string, any](mustForest(t, leaf("x", true)), ValuesEncoder[string]{},
		WithScheduler(s), WithLogger(logr.Discard()))
	if ran != 1 || c.Scheduler() == nil {
		t.Errorf("scheduler ran %d times", ran)
	}
}
