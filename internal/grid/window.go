package grid

// Align says where ScrollToIndex should place its target row.
type Align int

const (
	// AlignAuto scrolls only if the row is not fully visible, by the
	// smallest amount that makes it visible.
	AlignAuto Align = iota
	// AlignStart puts the row at the top of the viewport.
	AlignStart
	// AlignEnd puts the row at the bottom of the viewport.
	AlignEnd
)

// Window is the materialized index range of the row sequence. EndIndex is
// inclusive; an empty sequence yields StartIndex 0, EndIndex -1.
type Window struct {
	StartIndex int
	EndIndex   int
	// TopOffset is the scroll position of StartIndex's top edge.
	TopOffset int
}

// Len returns the number of materialized rows.
func (w Window) Len() int {
	if w.EndIndex < w.StartIndex {
		return 0
	}
	return w.EndIndex - w.StartIndex + 1
}

// Contains reports whether index is materialized.
func (w Window) Contains(index int) bool {
	return index >= w.StartIndex && index <= w.EndIndex
}

func ceilDiv(a, b int) int {
	if a <= 0 {
		return 0
	}
	return (a + b - 1) / b
}

// ComputeWindow decides which rows to materialize for a scroll position.
//
// The range is the visible rows widened by overscan on each side:
// start = floor(scroll/rowHeight) - overscan and end = the last row
// touching the viewport + overscan, clamped to the sequence. The count is
// additionally capped at ceil(viewport/rowHeight) + 2*overscan, so the cost
// of a frame depends on the viewport, never on rowCount. The cap trims
// overscan only: every row touching the viewport stays in the window, even
// when an unaligned scroll makes one more row visible than the cap allows.
func ComputeWindow(scrollOffset, rowHeight, viewportHeight, rowCount, overscan int) Window {
	if rowCount <= 0 {
		return Window{StartIndex: 0, EndIndex: -1}
	}
	if rowHeight <= 0 {
		rowHeight = 1
	}
	if overscan < 0 {
		overscan = 0
	}
	if viewportHeight < 0 {
		viewportHeight = 0
	}
	scrollOffset = clampScroll(scrollOffset, rowHeight, viewportHeight, rowCount)

	first := scrollOffset / rowHeight
	lastVisible := ceilDiv(scrollOffset+viewportHeight, rowHeight) - 1
	if lastVisible < first {
		lastVisible = first
	}

	start := first - overscan
	if start < 0 {
		start = 0
	}
	end := lastVisible + overscan
	if end > rowCount-1 {
		end = rowCount - 1
	}
	limit := max(ceilDiv(viewportHeight, rowHeight)+2*overscan, lastVisible-first+1, 1)
	if end-start+1 > limit {
		end = max(start+limit-1, lastVisible)
	}
	if end-start+1 > limit {
		start = end - limit + 1
	}
	return Window{StartIndex: start, EndIndex: end, TopOffset: start * rowHeight}
}

func clampScroll(offset, rowHeight, viewportHeight, rowCount int) int {
	maxScroll := rowCount*rowHeight - viewportHeight
	if maxScroll < 0 {
		maxScroll = 0
	}
	if offset > maxScroll {
		offset = maxScroll
	}
	if offset < 0 {
		offset = 0
	}
	return offset
}

type materializedWaiter struct {
	id    int
	index int
	fn    func()
}

// Virtualizer holds the scroll state around ComputeWindow and turns
// "this row is now rendered" into an explicit signal.
//
// The renderer calls Commit once the window it is about to draw is final,
// after the last state change of an update and before the frame renders.
// Callers that need a row on screen before acting on it (focus transfer)
// register with WhenMaterialized and run exactly when a commit includes
// that row.
type Virtualizer struct {
	rowHeight int
	viewport  int
	overscan  int
	rowCount  int
	scroll    int

	committed    Window
	hasCommitted bool
	dirty        bool

	waiters []materializedWaiter
	nextID  int
}

// NewVirtualizer creates a virtualizer with no rows.
func NewVirtualizer(rowHeight, viewportHeight, overscan int) *Virtualizer {
	if rowHeight <= 0 {
		rowHeight = 1
	}
	if overscan < 0 {
		overscan = 0
	}
	return &Virtualizer{rowHeight: rowHeight, viewport: viewportHeight, overscan: overscan, dirty: true}
}

// RowHeight returns the fixed row height.
func (v *Virtualizer) RowHeight() int { return v.rowHeight }

// Overscan returns the overscan row count.
func (v *Virtualizer) Overscan() int { return v.overscan }

// RowCount returns the current sequence length.
func (v *Virtualizer) RowCount() int { return v.rowCount }

// ViewportHeight returns the viewport height.
func (v *Virtualizer) ViewportHeight() int { return v.viewport }

// ScrollOffset returns the current scroll position.
func (v *Virtualizer) ScrollOffset() int { return v.scroll }

// TotalSize is the scrollable extent, rowCount * rowHeight.
func (v *Virtualizer) TotalSize() int { return v.rowCount * v.rowHeight }

// MaxScroll is the largest valid scroll offset.
func (v *Virtualizer) MaxScroll() int {
	return clampScroll(1<<62, v.rowHeight, v.viewport, v.rowCount)
}

// PageRows is the number of rows a full viewport shows.
func (v *Virtualizer) PageRows() int {
	n := v.viewport / v.rowHeight
	if n < 1 {
		n = 1
	}
	return n
}

// touch re-clamps the scroll position and marks the committed window stale
// if anything that feeds ComputeWindow changed.
func (v *Virtualizer) touch(changed bool) {
	old := v.scroll
	v.scroll = clampScroll(v.scroll, v.rowHeight, v.viewport, v.rowCount)
	if changed || v.scroll != old {
		v.dirty = true
	}
}

// SetViewport updates the viewport height (terminal resize).
func (v *Virtualizer) SetViewport(height int) {
	if height < 0 {
		height = 0
	}
	changed := height != v.viewport
	v.viewport = height
	v.touch(changed)
}

// SetRowCount updates the sequence length after a filter, sort or data
// change, re-clamping the scroll position.
func (v *Virtualizer) SetRowCount(n int) {
	if n < 0 {
		n = 0
	}
	changed := n != v.rowCount
	v.rowCount = n
	v.touch(changed)
}

// ScrollTo sets the scroll offset, clamped.
func (v *Virtualizer) ScrollTo(offset int) {
	old := v.scroll
	v.scroll = clampScroll(offset, v.rowHeight, v.viewport, v.rowCount)
	if v.scroll != old {
		v.dirty = true
	}
}

// ScrollBy moves the scroll offset by delta, clamped.
func (v *Virtualizer) ScrollBy(delta int) {
	v.ScrollTo(v.scroll + delta)
}

// Window computes the window for the current state. It is what the next
// Commit will materialize.
func (v *Virtualizer) Window() Window {
	return ComputeWindow(v.scroll, v.rowHeight, v.viewport, v.rowCount, v.overscan)
}

// FirstVisible returns the index of the first row in the viewport.
func (v *Virtualizer) FirstVisible() int {
	return v.scroll / v.rowHeight
}

// IsFullyVisible reports whether row index lies completely inside the
// viewport.
func (v *Virtualizer) IsFullyVisible(index int) bool {
	top := index * v.rowHeight
	return top >= v.scroll && top+v.rowHeight <= v.scroll+v.viewport
}

// ScrollToIndex scrolls so index is inside the viewport. Out-of-range
// indices are clamped to the sequence. It returns the clamped index.
func (v *Virtualizer) ScrollToIndex(index int, align Align) int {
	if v.rowCount == 0 {
		return 0
	}
	if index < 0 {
		index = 0
	}
	if index > v.rowCount-1 {
		index = v.rowCount - 1
	}
	old := v.scroll
	top := index * v.rowHeight
	bottom := top + v.rowHeight
	switch align {
	case AlignStart:
		v.scroll = top
	case AlignEnd:
		v.scroll = bottom - v.viewport
	default:
		if top < v.scroll {
			v.scroll = top
		} else if bottom > v.scroll+v.viewport {
			v.scroll = bottom - v.viewport
		}
	}
	v.scroll = clampScroll(v.scroll, v.rowHeight, v.viewport, v.rowCount)
	if v.scroll != old {
		v.dirty = true
	}
	return index
}

// Committed returns the window last reported by Commit.
func (v *Virtualizer) Committed() (Window, bool) {
	return v.committed, v.hasCommitted
}

// Commit records the current window as the one the next frame draws and
// runs every waiter whose row it contains. Waiters for rows that no longer
// exist are dropped.
func (v *Virtualizer) Commit() Window {
	w := v.Window()
	v.committed = w
	v.hasCommitted = true
	v.dirty = false

	var ready []materializedWaiter
	kept := v.waiters[:0]
	for _, wt := range v.waiters {
		switch {
		case wt.index >= v.rowCount:
			// row vanished
		case w.Contains(wt.index):
			ready = append(ready, wt)
		default:
			kept = append(kept, wt)
		}
	}
	v.waiters = kept
	for _, wt := range ready {
		wt.fn()
	}
	return w
}

// WhenMaterialized runs fn once row index is part of a committed window.
// If the last commit already contains it and nothing has moved since, fn
// runs immediately. The returned func cancels a pending call.
func (v *Virtualizer) WhenMaterialized(index int, fn func()) (cancel func()) {
	if v.hasCommitted && !v.dirty && v.committed.Contains(index) {
		fn()
		return func() {}
	}
	v.nextID++
	id := v.nextID
	v.waiters = append(v.waiters, materializedWaiter{id: id, index: index, fn: fn})
	return func() {
		for i, wt := range v.waiters {
			if wt.id == id {
				v.waiters = append(v.waiters[:i], v.waiters[i+1:]...)
				return
			}
		}
	}
}

// Pending returns the number of registered waiters.
func (v *Virtualizer) Pending() int { return len(v.waiters) }
