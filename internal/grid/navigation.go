package grid

// Arrow is a navigation key.
type Arrow int

const (
	ArrowUp Arrow = iota
	ArrowDown
	ArrowLeft
	ArrowRight
)

// CellPos addresses one cell: a position in the ordered row sequence and a
// column id.
type CellPos struct {
	Row    int
	Column string
}

// Scroller is the part of the virtualization engine navigation depends on.
type Scroller interface {
	ScrollToIndex(index int, align Align) int
	WhenMaterialized(index int, fn func()) (cancel func())
}

// Navigator is the keyboard navigation state machine. It is either in
// NoActiveCell or ActiveCell(row, column). Moving to a new cell is two
// phases: the scroller is asked to bring the row into the window, and only
// once that row has been materialized is focus transferred (Focused turns
// true and the OnFocus hook runs).
type Navigator struct {
	scroller Scroller
	active   CellPos
	hasCell  bool
	focused  bool
	cancel   func()

	// OnFocus, if set, runs whenever focus lands on a cell.
	OnFocus func(CellPos)
}

// NewNavigator creates a navigator in the NoActiveCell state.
func NewNavigator(s Scroller) *Navigator {
	return &Navigator{scroller: s}
}

// Active returns the active cell, if any.
func (n *Navigator) Active() (CellPos, bool) {
	return n.active, n.hasCell
}

// Focused reports whether focus has been transferred to the active cell.
// It is false while a move is waiting for its row to materialize.
func (n *Navigator) Focused() bool { return n.hasCell && n.focused }

func (n *Navigator) stopPending() {
	if n.cancel != nil {
		n.cancel()
		n.cancel = nil
	}
}

// transfer makes pos active and arranges the focus hand-off once its row is
// materialized. align is only used when scroll is true.
func (n *Navigator) transfer(pos CellPos, scroll bool, align Align) {
	n.stopPending()
	if scroll {
		pos.Row = n.scroller.ScrollToIndex(pos.Row, align)
	}
	n.active = pos
	n.hasCell = true
	n.focused = false
	target := pos
	n.cancel = n.scroller.WhenMaterialized(pos.Row, func() {
		if !n.hasCell || n.active != target {
			return
		}
		n.focused = true
		n.cancel = nil
		if n.OnFocus != nil {
			n.OnFocus(target)
		}
	})
}

// Focus enters ActiveCell at pos (a click or tab into the grid). The
// position is clamped to the sequence and the visible columns; with no rows
// or no columns the navigator stays in NoActiveCell.
func (n *Navigator) Focus(pos CellPos, rowCount int, columns []string) {
	if rowCount <= 0 || len(columns) == 0 {
		n.Blur()
		return
	}
	pos.Row = clampIndex(pos.Row, rowCount)
	if indexOf(columns, pos.Column) < 0 {
		pos.Column = columns[0]
	}
	n.transfer(pos, true, AlignAuto)
}

// Blur returns to NoActiveCell (focus left the grid).
func (n *Navigator) Blur() {
	n.stopPending()
	n.active = CellPos{}
	n.hasCell = false
	n.focused = false
}

// Move handles an arrow key, with modifier meaning Ctrl/Cmd. columns are
// the visible column ids in render order. It returns false when the key was
// a no-op (edge of the grid, or no active cell).
func (n *Navigator) Move(key Arrow, modifier bool, rowCount int, columns []string) bool {
	if !n.hasCell || rowCount <= 0 || len(columns) == 0 {
		return false
	}
	cur := n.active
	col := indexOf(columns, cur.Column)
	if col < 0 {
		col = 0
	}

	switch key {
	case ArrowUp:
		target := cur.Row - 1
		if modifier {
			target = 0
		}
		if target < 0 || target == cur.Row {
			return false
		}
		align := AlignEnd
		if modifier {
			align = AlignStart
		}
		n.transfer(CellPos{Row: target, Column: columns[col]}, true, align)
		return true

	case ArrowDown:
		target := cur.Row + 1
		if modifier {
			target = rowCount - 1
		}
		if target > rowCount-1 || target == cur.Row {
			return false
		}
		align := AlignStart
		if modifier {
			align = AlignEnd
		}
		n.transfer(CellPos{Row: target, Column: columns[col]}, true, align)
		return true

	case ArrowLeft:
		target := col - 1
		if modifier {
			target = 0
		}
		if target < 0 || target == col {
			return false
		}
		n.transfer(CellPos{Row: cur.Row, Column: columns[target]}, false, AlignAuto)
		return true

	case ArrowRight:
		target := col + 1
		if modifier {
			target = len(columns) - 1
		}
		if target > len(columns)-1 || target == col {
			return false
		}
		n.transfer(CellPos{Row: cur.Row, Column: columns[target]}, false, AlignAuto)
		return true
	}
	return false
}

// MoveBy moves the active row by delta rows (page up/down), clamping at the
// ends. It returns false if the row did not change.
func (n *Navigator) MoveBy(delta, rowCount int) bool {
	if !n.hasCell || rowCount <= 0 || delta == 0 {
		return false
	}
	target := clampIndex(n.active.Row+delta, rowCount)
	if target == n.active.Row {
		return false
	}
	align := AlignStart
	if delta < 0 {
		align = AlignEnd
	}
	n.transfer(CellPos{Row: target, Column: n.active.Column}, true, align)
	return true
}

// Revalidate keeps the active cell addressable after the sequence or the
// visible columns changed: the row is clamped, a hidden column falls back to
// the first visible one, and an empty grid drops to NoActiveCell.
func (n *Navigator) Revalidate(rowCount int, columns []string) {
	if !n.hasCell {
		return
	}
	if rowCount <= 0 || len(columns) == 0 {
		n.Blur()
		return
	}
	pos := n.active
	pos.Row = clampIndex(pos.Row, rowCount)
	if indexOf(columns, pos.Column) < 0 {
		pos.Column = columns[0]
	}
	if pos != n.active {
		n.transfer(pos, true, AlignAuto)
	}
}

func clampIndex(i, n int) int {
	if i < 0 {
		return 0
	}
	if i > n-1 {
		return n - 1
	}
	return i
}

func indexOf(ids []string, id string) int {
	for i, v := range ids {
		if v == id {
			return i
		}
	}
	return -1
}
