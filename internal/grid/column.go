package grid

import (
	"fmt"
	"strings"
)

// SelectionColumnID is the id of the leading checkbox column.
const SelectionColumnID = "select"

// Pin is the side a column is fixed to during horizontal scroll.
type Pin int

const (
	PinNone Pin = iota
	PinLeft
	PinRight
)

func (p Pin) String() string {
	switch p {
	case PinLeft:
		return "left"
	case PinRight:
		return "right"
	default:
		return "none"
	}
}

// ParsePin accepts "left", "right" and "none" (or "").
func ParsePin(s string) (Pin, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "left":
		return PinLeft, true
	case "right":
		return PinRight, true
	case "", "none":
		return PinNone, true
	}
	return PinNone, false
}

// MarshalText encodes the pin as its name.
func (p Pin) MarshalText() ([]byte, error) { return []byte(p.String()), nil }

// UnmarshalText decodes a pin name.
func (p *Pin) UnmarshalText(b []byte) error {
	v, ok := ParsePin(string(b))
	if !ok {
		return fmt.Errorf("invalid pin %q", b)
	}
	*p = v
	return nil
}

// Column describes one grid column. Widths are in whatever unit the
// renderer uses (terminal cells for the TUI).
type Column struct {
	ID         string
	Width      int
	MinWidth   int
	MaxWidth   int
	Pinned     Pin
	Visible    bool
	Sortable   bool
	Filterable bool
}

// IsSelection reports whether c is the leading selection column.
func (c Column) IsSelection() bool { return c.ID == SelectionColumnID }

func (c Column) clamp(w int) int {
	if w < c.MinWidth {
		w = c.MinWidth
	}
	if c.MaxWidth > 0 && w > c.MaxWidth {
		w = c.MaxWidth
	}
	return w
}

// ColumnDefaults are the sizes new data columns start with.
type ColumnDefaults struct {
	Width          int
	MinWidth       int
	MaxWidth       int
	SelectionWidth int
}

// DefaultColumnDefaults mirrors the web grid: 150px columns between 60 and
// 600, and a 48px checkbox column.
func DefaultColumnDefaults() ColumnDefaults {
	return ColumnDefaults{Width: 150, MinWidth: 60, MaxWidth: 600, SelectionWidth: 48}
}

// ColumnModel is the ordered set of column descriptors for one column set.
// It is a value: every command returns a new model and leaves the receiver
// untouched.
type ColumnModel struct {
	order   []string
	cols    map[string]Column
	initial []Column
}

// NewColumnModel builds a model for the given data column names, in order.
// Reserved row fields and duplicates are dropped, and the selection column
// is prepended.
func NewColumnModel(names []string, d ColumnDefaults) ColumnModel {
	sel := Column{
		ID:       SelectionColumnID,
		Width:    d.SelectionWidth,
		MinWidth: d.SelectionWidth,
		MaxWidth: d.SelectionWidth,
		Pinned:   PinLeft,
		Visible:  true,
	}
	m := ColumnModel{
		order: []string{SelectionColumnID},
		cols:  map[string]Column{SelectionColumnID: sel},
	}
	for _, name := range names {
		if name == "" || IsReservedField(name) || name == SelectionColumnID {
			continue
		}
		if _, dup := m.cols[name]; dup {
			continue
		}
		c := Column{
			ID:         name,
			MinWidth:   d.MinWidth,
			MaxWidth:   d.MaxWidth,
			Visible:    true,
			Sortable:   true,
			Filterable: true,
		}
		c.Width = c.clamp(d.Width)
		m.order = append(m.order, name)
		m.cols[name] = c
	}
	m.initial = m.Columns()
	return m
}

func (m ColumnModel) clone() ColumnModel {
	n := ColumnModel{
		order:   append([]string(nil), m.order...),
		cols:    make(map[string]Column, len(m.cols)),
		initial: m.initial,
	}
	for k, v := range m.cols {
		n.cols[k] = v
	}
	return n
}

// Len returns the number of columns including the selection column.
func (m ColumnModel) Len() int { return len(m.order) }

// Column looks up a column by id.
func (m ColumnModel) Column(id string) (Column, bool) {
	c, ok := m.cols[id]
	return c, ok
}

// Order returns the column ids in model order, selection column first.
func (m ColumnModel) Order() []string {
	return append([]string(nil), m.order...)
}

// Columns returns all columns in model order.
func (m ColumnModel) Columns() []Column {
	out := make([]Column, len(m.order))
	for i, id := range m.order {
		out[i] = m.cols[id]
	}
	return out
}

// DataColumns returns the ids of every non-selection column in model order.
func (m ColumnModel) DataColumns() []string {
	out := make([]string, 0, len(m.order))
	for _, id := range m.order {
		if id != SelectionColumnID {
			out = append(out, id)
		}
	}
	return out
}

// SameColumnSet reports whether names describes exactly this model's data
// columns, ignoring order.
func (m ColumnModel) SameColumnSet(names []string) bool {
	seen := make(map[string]bool, len(names))
	for _, n := range names {
		if IsReservedField(n) {
			continue
		}
		if _, ok := m.cols[n]; !ok || n == SelectionColumnID {
			return false
		}
		seen[n] = true
	}
	return len(seen) == len(m.order)-1
}

// SetOrder reorders columns. Unknown ids are ignored, columns missing from
// ids keep their relative order after the listed ones, and the selection
// column always stays first.
func (m ColumnModel) SetOrder(ids []string) ColumnModel {
	n := m.clone()
	order := []string{SelectionColumnID}
	placed := map[string]bool{SelectionColumnID: true}
	for _, id := range ids {
		if _, ok := n.cols[id]; !ok || placed[id] {
			continue
		}
		placed[id] = true
		order = append(order, id)
	}
	for _, id := range m.order {
		if !placed[id] {
			order = append(order, id)
		}
	}
	n.order = order
	return n
}

// Resize sets a column's width, clamped to its bounds. The selection column
// cannot be resized.
func (m ColumnModel) Resize(id string, width int) ColumnModel {
	c, ok := m.cols[id]
	if !ok || c.IsSelection() {
		return m
	}
	n := m.clone()
	c.Width = c.clamp(width)
	n.cols[id] = c
	return n
}

// SetPinned pins a column to a side, or unpins it with PinNone.
func (m ColumnModel) SetPinned(id string, side Pin) ColumnModel {
	c, ok := m.cols[id]
	if !ok || c.IsSelection() {
		return m
	}
	n := m.clone()
	c.Pinned = side
	n.cols[id] = c
	return n
}

// SetVisibility shows or hides a column. The selection column is always
// visible.
func (m ColumnModel) SetVisibility(id string, visible bool) ColumnModel {
	c, ok := m.cols[id]
	if !ok || c.IsSelection() {
		return m
	}
	n := m.clone()
	c.Visible = visible
	n.cols[id] = c
	return n
}

// ShowOnly makes exactly the listed data columns visible. An empty list
// shows everything, matching views that do not restrict their columns.
func (m ColumnModel) ShowOnly(ids []string) ColumnModel {
	n := m.clone()
	want := make(map[string]bool, len(ids))
	for _, id := range ids {
		want[id] = true
	}
	for id, c := range n.cols {
		if c.IsSelection() {
			continue
		}
		c.Visible = len(ids) == 0 || want[id]
		n.cols[id] = c
	}
	return n
}

// AutoFit sizes a column to the widest of its header and samples, plus
// padding, using measure to compute text width.
func (m ColumnModel) AutoFit(id string, samples []string, padding int, measure func(string) int) ColumnModel {
	c, ok := m.cols[id]
	if !ok || c.IsSelection() {
		return m
	}
	w := measure(id)
	for _, s := range samples {
		if sw := measure(s); sw > w {
			w = sw
		}
	}
	return m.Resize(id, w+padding)
}

// Reset restores the order, sizes, pins and visibility the model was
// created with.
func (m ColumnModel) Reset() ColumnModel {
	n := ColumnModel{
		order:   make([]string, len(m.initial)),
		cols:    make(map[string]Column, len(m.initial)),
		initial: m.initial,
	}
	for i, c := range m.initial {
		n.order[i] = c.ID
		n.cols[c.ID] = c
	}
	return n
}

// Visible returns the visible columns in render order: the selection
// column, then left-pinned columns, unpinned columns and right-pinned
// columns, each group keeping model order.
func (m ColumnModel) Visible() []Column {
	var left, center, right []Column
	for _, id := range m.order {
		c := m.cols[id]
		if !c.Visible {
			continue
		}
		switch {
		case c.IsSelection():
			left = append([]Column{c}, left...)
		case c.Pinned == PinLeft:
			left = append(left, c)
		case c.Pinned == PinRight:
			right = append(right, c)
		default:
			center = append(center, c)
		}
	}
	out := make([]Column, 0, len(left)+len(center)+len(right))
	out = append(out, left...)
	out = append(out, center...)
	return append(out, right...)
}

// VisibleIDs returns the ids of Visible().
func (m ColumnModel) VisibleIDs() []string {
	vis := m.Visible()
	ids := make([]string, len(vis))
	for i, c := range vis {
		ids[i] = c.ID
	}
	return ids
}

// SamePinGroup reports whether a and b render in the same pinned group
// (left, unpinned or right). Reordering only makes sense within a group.
func (m ColumnModel) SamePinGroup(a, b string) bool {
	ca, okA := m.cols[a]
	cb, okB := m.cols[b]
	return okA && okB && m.pinGroup(ca) == m.pinGroup(cb)
}

func (m ColumnModel) pinGroup(c Column) Pin {
	if m.isPinnedLeft(c) {
		return PinLeft
	}
	return c.Pinned
}

func (m ColumnModel) isPinnedLeft(c Column) bool {
	return c.IsSelection() || c.Pinned == PinLeft
}

// LeftOffset is the sticky left position of a left-pinned column: the sum
// of the widths of the visible left-pinned columns before it. It returns
// false for columns that are not pinned left.
func (m ColumnModel) LeftOffset(id string) (int, bool) {
	target, ok := m.cols[id]
	if !ok || !m.isPinnedLeft(target) {
		return 0, false
	}
	off := 0
	for _, c := range m.Visible() {
		if c.ID == id {
			return off, true
		}
		if m.isPinnedLeft(c) {
			off += c.Width
		}
	}
	return 0, false
}

// RightOffset is the sticky right position of a right-pinned column: the
// sum of the widths of the visible right-pinned columns after it.
func (m ColumnModel) RightOffset(id string) (int, bool) {
	target, ok := m.cols[id]
	if !ok || target.Pinned != PinRight || target.IsSelection() {
		return 0, false
	}
	vis := m.Visible()
	off := 0
	for i := len(vis) - 1; i >= 0; i-- {
		c := vis[i]
		if c.ID == id {
			return off, true
		}
		if c.Pinned == PinRight && !c.IsSelection() {
			off += c.Width
		}
	}
	return 0, false
}

// TotalWidth sums the widths of all visible columns.
func (m ColumnModel) TotalWidth() int {
	total := 0
	for _, c := range m.Visible() {
		total += c.Width
	}
	return total
}

// Layout is a column with its resolved horizontal position.
type Layout struct {
	Column
	// X is the column's start in the unscrolled table.
	X int
	// Sticky is true for pinned columns, which ignore horizontal scroll.
	Sticky bool
}

// Layouts resolves the render position of every visible column.
func (m ColumnModel) Layouts() []Layout {
	vis := m.Visible()
	out := make([]Layout, len(vis))
	x := 0
	for i, c := range vis {
		out[i] = Layout{Column: c, X: x, Sticky: m.isPinnedLeft(c) || c.Pinned == PinRight}
		x += c.Width
	}
	return out
}

// ColumnPrefs is the part of a model worth remembering between sessions
// for the same column set. Visibility is left out; views decide it.
type ColumnPrefs struct {
	Order  []string       `toml:"order"`
	Widths map[string]int `toml:"widths"`
	Pinned map[string]Pin `toml:"pinned"`
}

// Prefs extracts the order, widths and pins of the data columns.
func (m ColumnModel) Prefs() ColumnPrefs {
	p := ColumnPrefs{
		Order:  m.DataColumns(),
		Widths: make(map[string]int),
		Pinned: make(map[string]Pin),
	}
	for _, id := range p.Order {
		c := m.cols[id]
		p.Widths[id] = c.Width
		if c.Pinned != PinNone {
			p.Pinned[id] = c.Pinned
		}
	}
	return p
}

// ApplyPrefs restores saved order, widths and pins. Entries for columns the
// model does not have are ignored.
func (m ColumnModel) ApplyPrefs(p ColumnPrefs) ColumnModel {
	n := m.SetOrder(p.Order)
	for id, w := range p.Widths {
		n = n.Resize(id, w)
	}
	for id, side := range p.Pinned {
		n = n.SetPinned(id, side)
	}
	return n
}
