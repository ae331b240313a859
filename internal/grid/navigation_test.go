package grid

import "testing"

var navColumns = []string{SelectionColumnID, "a", "b", "c"}

// newNavFixture returns a navigator over rowCount rows with a 10 row
// viewport, already rendered once.
func newNavFixture(rowCount int) (*Navigator, *Virtualizer) {
	v := NewVirtualizer(1, 10, 2)
	v.SetRowCount(rowCount)
	v.Commit()
	return NewNavigator(v), v
}

func TestNavigator_FocusAndBlur(t *testing.T) {
	n, _ := newNavFixture(100)
	if _, ok := n.Active(); ok {
		t.Fatal("expected NoActiveCell initially")
	}
	n.Focus(CellPos{Row: 2, Column: "b"}, 100, navColumns)
	pos, ok := n.Active()
	if !ok || pos != (CellPos{Row: 2, Column: "b"}) {
		t.Fatalf("active = %+v,%v", pos, ok)
	}
	if !n.Focused() {
		t.Fatal("visible cell should receive focus immediately")
	}
	n.Blur()
	if _, ok := n.Active(); ok || n.Focused() {
		t.Fatal("expected NoActiveCell after blur")
	}
}

func TestNavigator_FocusClamps(t *testing.T) {
	n, _ := newNavFixture(5)
	n.Focus(CellPos{Row: 99, Column: "hidden"}, 5, navColumns)
	pos, _ := n.Active()
	if pos.Row != 4 || pos.Column != SelectionColumnID {
		t.Fatalf("active = %+v", pos)
	}
}

func TestNavigator_EdgesAreNoops(t *testing.T) {
	tests := []struct {
		name     string
		start    CellPos
		key      Arrow
		modifier bool
	}{
		{"down on last row", CellPos{Row: 9, Column: "a"}, ArrowDown, false},
		{"ctrl down on last row", CellPos{Row: 9, Column: "a"}, ArrowDown, true},
		{"up on first row", CellPos{Row: 0, Column: "a"}, ArrowUp, false},
		{"right past last column", CellPos{Row: 3, Column: "c"}, ArrowRight, false},
		{"ctrl right on last column", CellPos{Row: 3, Column: "c"}, ArrowRight, true},
		{"left past first column", CellPos{Row: 3, Column: SelectionColumnID}, ArrowLeft, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			n, _ := newNavFixture(10)
			n.Focus(tt.start, 10, navColumns)
			if n.Move(tt.key, tt.modifier, 10, navColumns) {
				t.Fatal("Move reported a change")
			}
			if pos, _ := n.Active(); pos != tt.start {
				t.Fatalf("active moved to %+v", pos)
			}
		})
	}
}

func TestNavigator_SkipsHiddenColumns(t *testing.T) {
	n, _ := newNavFixture(10)
	visible := []string{SelectionColumnID, "a", "c"} // b hidden
	n.Focus(CellPos{Row: 1, Column: "a"}, 10, visible)
	n.Move(ArrowRight, false, 10, visible)
	if pos, _ := n.Active(); pos.Column != "c" {
		t.Fatalf("column = %s, want c", pos.Column)
	}
}

func TestNavigator_ModifierJumps(t *testing.T) {
	n, v := newNavFixture(1000)
	n.Focus(CellPos{Row: 5, Column: "b"}, 1000, navColumns)

	n.Move(ArrowDown, true, 1000, navColumns)
	if pos, _ := n.Active(); pos.Row != 999 {
		t.Fatalf("row = %d, want 999", pos.Row)
	}
	if v.ScrollOffset() != v.MaxScroll() {
		t.Fatalf("scroll = %d, want bottom", v.ScrollOffset())
	}
	n.Move(ArrowUp, true, 1000, navColumns)
	if pos, _ := n.Active(); pos.Row != 0 || v.ScrollOffset() != 0 {
		t.Fatalf("row = %d scroll = %d, want top", pos.Row, v.ScrollOffset())
	}
	n.Move(ArrowRight, true, 1000, navColumns)
	if pos, _ := n.Active(); pos.Column != "c" {
		t.Fatalf("column = %s, want c", pos.Column)
	}
	n.Move(ArrowLeft, true, 1000, navColumns)
	if pos, _ := n.Active(); pos.Column != SelectionColumnID {
		t.Fatalf("column = %s, want select", pos.Column)
	}
}

func TestNavigator_ScrollAlignment(t *testing.T) {
	n, v := newNavFixture(100)
	n.Focus(CellPos{Row: 9, Column: "a"}, 100, navColumns)

	n.Move(ArrowDown, false, 100, navColumns)
	if v.ScrollOffset() != 10 {
		t.Fatalf("down: scroll = %d, want 10 (row at top)", v.ScrollOffset())
	}
	v.Commit()
	n.Move(ArrowUp, false, 100, navColumns)
	if v.ScrollOffset() != 0 {
		t.Fatalf("up: scroll = %d, want 0 (row 9 at bottom)", v.ScrollOffset())
	}
}

func TestNavigator_FocusWaitsForMaterialization(t *testing.T) {
	n, v := newNavFixture(1000)
	var focused []CellPos
	n.OnFocus = func(p CellPos) { focused = append(focused, p) }

	n.Focus(CellPos{Row: 0, Column: "a"}, 1000, navColumns)
	if len(focused) != 1 {
		t.Fatalf("initial focus: %v", focused)
	}

	n.Move(ArrowDown, true, 1000, navColumns)
	if n.Focused() {
		t.Fatal("focus transferred before the target row was committed")
	}
	if len(focused) != 1 {
		t.Fatalf("OnFocus ran early: %v", focused)
	}
	v.Commit()
	if !n.Focused() {
		t.Fatal("focus not transferred after commit")
	}
	if want := (CellPos{Row: 999, Column: "a"}); focused[len(focused)-1] != want {
		t.Fatalf("focused %+v, want %+v", focused[len(focused)-1], want)
	}
}

func TestNavigator_SupersededMoveDoesNotFocus(t *testing.T) {
	n, v := newNavFixture(1000)
	var focused []CellPos
	n.Focus(CellPos{Row: 0, Column: "a"}, 1000, navColumns)
	n.OnFocus = func(p CellPos) { focused = append(focused, p) }

	n.Move(ArrowDown, true, 1000, navColumns)
	n.Move(ArrowUp, true, 1000, navColumns)
	v.Commit()
	if len(focused) != 1 || focused[0].Row != 0 {
		t.Fatalf("focused = %v, want only row 0", focused)
	}
	if v.Pending() != 0 {
		t.Fatalf("stale waiter left behind: %d", v.Pending())
	}
}

func TestNavigator_ColumnMoveKeepsFocus(t *testing.T) {
	n, _ := newNavFixture(100)
	n.Focus(CellPos{Row: 4, Column: "a"}, 100, navColumns)
	n.Move(ArrowRight, false, 100, navColumns)
	if !n.Focused() {
		t.Fatal("same-row move should focus immediately")
	}
}

func TestNavigator_Revalidate(t *testing.T) {
	n, _ := newNavFixture(100)
	n.Focus(CellPos{Row: 80, Column: "b"}, 100, navColumns)

	n.Revalidate(10, []string{SelectionColumnID, "a"})
	pos, ok := n.Active()
	if !ok || pos.Row != 9 || pos.Column != SelectionColumnID {
		t.Fatalf("active = %+v,%v", pos, ok)
	}
	n.Revalidate(0, navColumns)
	if _, ok := n.Active(); ok {
		t.Fatal("empty grid should drop the active cell")
	}
}

func TestNavigator_PageMoves(t *testing.T) {
	n, _ := newNavFixture(25)
	n.Focus(CellPos{Row: 20, Column: "a"}, 25, navColumns)
	if !n.MoveBy(10, 25) {
		t.Fatal("expected move")
	}
	if pos, _ := n.Active(); pos.Row != 24 {
		t.Fatalf("row = %d, want 24", pos.Row)
	}
	if n.MoveBy(10, 25) {
		t.Fatal("page down on last row should be a no-op")
	}
}
