package grid

import (
	"slices"
	"testing"
)

func TestMoveColumn_Splice(t *testing.T) {
	tests := []struct {
		name           string
		source, target string
		want           []string
	}{
		{"later onto earlier", "D", "B", []string{"A", "D", "B", "C"}},
		{"earlier onto later", "A", "C", []string{"B", "C", "A", "D"}},
		{"onto last", "B", "D", []string{"A", "C", "D", "B"}},
		{"onto first", "C", "A", []string{"C", "A", "B", "D"}},
		{"neighbours", "B", "C", []string{"A", "C", "B", "D"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			order := []string{"A", "B", "C", "D"}
			got, changed := MoveColumn(order, tt.source, tt.target)
			if !changed {
				t.Fatal("expected a change")
			}
			if !slices.Equal(got, tt.want) {
				t.Fatalf("got %v want %v", got, tt.want)
			}
			if !slices.Equal(order, []string{"A", "B", "C", "D"}) {
				t.Fatalf("input mutated: %v", order)
			}
		})
	}
}

func TestMoveColumn_OthersKeepRelativeOrder(t *testing.T) {
	order := []string{"a", "b", "c", "d", "e", "f"}
	for _, src := range order {
		for _, dst := range order {
			got, _ := MoveColumn(order, src, dst)
			rest := slices.DeleteFunc(slices.Clone(got), func(s string) bool { return s == src })
			want := slices.DeleteFunc(slices.Clone(order), func(s string) bool { return s == src })
			if !slices.Equal(rest, want) {
				t.Fatalf("%s onto %s: others reordered %v", src, dst, got)
			}
		}
	}
}

func TestMoveColumn_Noops(t *testing.T) {
	order := []string{SelectionColumnID, "A", "B"}
	tests := []struct{ source, target string }{
		{"A", "A"},
		{SelectionColumnID, "B"},
		{"B", SelectionColumnID},
		{"Z", "A"},
		{"A", "Z"},
	}
	for _, tt := range tests {
		got, changed := MoveColumn(order, tt.source, tt.target)
		if changed || !slices.Equal(got, order) {
			t.Fatalf("%s onto %s: got %v changed=%v", tt.source, tt.target, got, changed)
		}
	}
}

func TestDragController_Gesture(t *testing.T) {
	var d DragController
	if d.BeginDrag(SelectionColumnID) {
		t.Fatal("selection column must not be draggable")
	}
	if !d.BeginDrag("D") {
		t.Fatal("BeginDrag failed")
	}
	if !d.Dragging("D") || d.Dragging("B") {
		t.Fatal("Dragging reports the wrong column")
	}
	d.DragOver("B")
	if d.Over() != "B" {
		t.Fatalf("over = %q", d.Over())
	}
	d.DragOver(SelectionColumnID)
	if d.Over() != "B" {
		t.Fatal("selection column accepted as drag target")
	}

	got, changed := d.Drop([]string{"A", "B", "C", "D"}, "B")
	if !changed || !slices.Equal(got, []string{"A", "D", "B", "C"}) {
		t.Fatalf("drop: got %v changed=%v", got, changed)
	}
	if _, active := d.Source(); active {
		t.Fatal("drag still active after drop")
	}
}

func TestDragController_CancelAndDropWithoutBegin(t *testing.T) {
	var d DragController
	d.BeginDrag("A")
	d.Cancel()
	if d.Dragging("A") {
		t.Fatal("cancel did not end the drag")
	}
	order := []string{"A", "B"}
	if got, changed := d.Drop(order, "B"); changed || !slices.Equal(got, order) {
		t.Fatalf("drop without drag changed order: %v", got)
	}
}
