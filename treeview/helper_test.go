package treeview

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestFindItem(t *testing.T) {
	root := sample(t)

	tests := []struct {
		value any
		want  string
		found bool
	}{
		{"Root", "Root", true},
		{"A2", "A2", true},
		{"B", "B", true},
		{"missing", "", false},
		{[]string{"incomparable"}, "", false},
	}
	for _, tt := range tests {
		got, ok := FindItem(root, tt.value)
		if ok != tt.found {
			t.Errorf("FindItem(%v) found = %v, want %v", tt.value, ok, tt.found)
			continue
		}
		if ok && got.Text != tt.want {
			t.Errorf("FindItem(%v) = %s, want %s", tt.value, got.Text, tt.want)
		}
	}

	if _, ok := FindItem[string](nil, "Root"); ok {
		t.Errorf("FindItem(nil) found something")
	}
}

func TestFindItemFirstMatchWins(t *testing.T) {
	forest := mustForest(t,
		branch("one", Item[string]{Text: "first", Value: 7}),
		Item[string]{Text: "second", Value: 7},
	)
	got, ok := FindItemInList(forest, 7)
	if !ok || got.Text != "first" {
		t.Errorf("FindItemInList = %v, %v; want first", got, ok)
	}
	if _, ok := FindItemInList(forest, 8); ok {
		t.Errorf("found a missing value")
	}
}

func TestFindParent(t *testing.T) {
	root := sample(t)
	a := root.Children()[0]
	a2 := a.Children()[1]

	if p, ok := FindParent(root, a2); !ok || p != a {
		t.Errorf("FindParent(A2) = %v, %v", p, ok)
	}
	if _, ok := FindParent(root, root); ok {
		t.Errorf("root has no parent")
	}

	// Identity, not value: a look-alike node is not found.
	twin := &Node[string]{Text: "A2", Value: "A2"}
	if _, ok := FindParent(root, twin); ok {
		t.Errorf("found parent of a node outside the tree")
	}
}

func TestRemoveItem(t *testing.T) {
	root := sample(t)
	a := root.Children()[0]
	a1, a2 := a.Children()[0], a.Children()[1]

	if !RemoveItem(root, a2) {
		t.Fatal("RemoveItem(A2) = false")
	}
	if diff := cmp.Diff([]string{"A1"}, texts(a.Children())); diff != "" {
		t.Errorf("children of A (-want +got):\n%s", diff)
	}
	if a.Checked() != Checked {
		t.Errorf("A = %v, want checked after recompute", a.Checked())
	}

	if !RemoveItem(root, a1) {
		t.Fatal("RemoveItem(A1) = false")
	}
	if a.Children() != nil || !a.IsLeaf() {
		t.Errorf("A children = %v, want nil", a.Children())
	}
	if a.Checked() != Checked {
		t.Errorf("A = %v, want previous state kept", a.Checked())
	}

	if RemoveItem(root, a1) {
		t.Errorf("removed a node twice")
	}
	if RemoveItem(root, root) {
		t.Errorf("removed the root")
	}
}

func TestConcatSelection(t *testing.T) {
	forest := mustForest(t,
		branch("g1", leaf("a", true), leaf("b", false)),
		leaf("c", false),
		branch("g2", leaf("d", true)),
	)
	pre := mustForest(t, leaf("p", true))

	sel := ConcatSelection(forest, pre, nil)
	if diff := cmp.Diff([]string{"p", "a", "d"}, texts(sel.CheckedItems)); diff != "" {
		t.Errorf("checked (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]string{"b", "c"}, texts(sel.UncheckedItems)); diff != "" {
		t.Errorf("unchecked (-want +got):\n%s", diff)
	}
	if len(pre) != 1 {
		t.Errorf("accumulator modified")
	}
}
