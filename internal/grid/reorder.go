package grid

// DragController turns header drag gestures into column orders. It holds
// only the gesture state; the resulting order is applied to a ColumnModel
// by the caller.
type DragController struct {
	source string
	over   string
	active bool
}

// BeginDrag starts dragging id. The selection column cannot be dragged.
func (d *DragController) BeginDrag(id string) bool {
	if id == "" || id == SelectionColumnID {
		return false
	}
	d.source = id
	d.over = ""
	d.active = true
	return true
}

// DragOver records the header under the pointer. Order is not previewed.
func (d *DragController) DragOver(target string) {
	if !d.active || target == SelectionColumnID {
		return
	}
	d.over = target
}

// Source returns the dragged column id.
func (d *DragController) Source() (string, bool) { return d.source, d.active }

// Over returns the last DragOver target.
func (d *DragController) Over() string { return d.over }

// Dragging reports whether id is the column being dragged, so the header
// can be drawn dimmed.
func (d *DragController) Dragging(id string) bool {
	return d.active && d.source == id
}

// Cancel ends the gesture without changing anything.
func (d *DragController) Cancel() {
	*d = DragController{}
}

// Drop ends the gesture over target and returns the new order for order.
// changed is false for self drops, drops on the selection column and ids
// not present in order.
func (d *DragController) Drop(order []string, target string) (next []string, changed bool) {
	source, active := d.source, d.active
	d.Cancel()
	if !active {
		return order, false
	}
	return MoveColumn(order, source, target)
}

// MoveColumn removes source from order and reinserts it at the index target
// had before removal. All other ids keep their relative order.
func MoveColumn(order []string, source, target string) ([]string, bool) {
	if source == target || source == SelectionColumnID || target == SelectionColumnID {
		return order, false
	}
	from, to := indexOf(order, source), indexOf(order, target)
	if from < 0 || to < 0 {
		return order, false
	}
	next := make([]string, 0, len(order))
	next = append(next, order[:from]...)
	next = append(next, order[from+1:]...)
	rest := append([]string(nil), next[to:]...)
	next = append(append(next[:to], source), rest...)
	return next, true
}
