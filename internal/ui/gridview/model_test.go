package gridview

import (
	"context"
	"slices"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/dealflow/dealgrid/internal/config"
	"github.com/dealflow/dealgrid/internal/db"
	"github.com/dealflow/dealgrid/internal/grid"
)

// helper to build a loaded model over a memory store with n longlist rows
func newTestModel(t *testing.T, n int) (Model, *db.Memory) {
	t.Helper()
	ctx := context.Background()
	src := db.NewMemory()
	if _, err := src.CreateProject(ctx, "p", "Project"); err != nil {
		t.Fatalf("CreateProject: %v", err)
	}
	rows := make([]grid.Row, n)
	for i := range rows {
		rows[i] = grid.NewRow(string(rune('a'+i)), "", map[string]grid.Scalar{
			"name":  grid.Str(string(rune('A' + i))),
			"score": grid.Int(int64(i)),
		})
	}
	if err := src.InsertRows(ctx, "p", rows); err != nil {
		t.Fatalf("InsertRows: %v", err)
	}

	ctl := grid.NewController("p", grid.ViewLonglist, config.DefaultConfig().GridOptions())
	m := New(ctx, ctl, src, Options{})
	m = update(t, m, tea.WindowSizeMsg{Width: 100, Height: 30})
	m = update(t, m, fetchMsg(ctl.BeginFetch().Run(ctx, src)))
	return m, src
}

// helper to feed one message through Update
func update(t *testing.T, m Model, msg tea.Msg) Model {
	t.Helper()
	next, _ := m.Update(msg)
	nm, ok := next.(Model)
	if !ok {
		t.Fatalf("Update returned %T", next)
	}
	return nm
}

// helper to turn a key name into a key message
func keyMsg(k string) tea.KeyMsg {
	switch k {
	case "up":
		return tea.KeyMsg{Type: tea.KeyUp}
	case "down":
		return tea.KeyMsg{Type: tea.KeyDown}
	case "left":
		return tea.KeyMsg{Type: tea.KeyLeft}
	case "right":
		return tea.KeyMsg{Type: tea.KeyRight}
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	case "esc":
		return tea.KeyMsg{Type: tea.KeyEsc}
	case "space":
		return tea.KeyMsg{Type: tea.KeySpace, Runes: []rune{' '}}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(k)}
}

// helper to press keys in order
func press(t *testing.T, m Model, ks ...string) Model {
	t.Helper()
	for _, k := range ks {
		m = update(t, m, keyMsg(k))
	}
	return m
}

// helper to run the pending mutation and feed its outcome back
func finishPending(t *testing.T, m Model, src grid.DataSource) Model {
	t.Helper()
	p := m.ctl.Pending()
	if p == nil {
		t.Fatal("no pending mutation")
	}
	m = update(t, m, mutationMsg{m: p, err: p.Execute(context.Background(), src)})
	if err := m.ctl.Load(context.Background(), src); err != nil {
		t.Fatalf("reload: %v", err)
	}
	return m
}

func TestModel_FetchFocusesFirstDataCell(t *testing.T) {
	m, _ := newTestModel(t, 5)
	pos, ok := m.ctl.ActiveCell()
	if !ok {
		t.Fatal("no active cell after first fetch")
	}
	if pos.Row != 0 || pos.Column != "name" {
		t.Fatalf("active = %+v, want row 0 name", pos)
	}
	if m.ctl.RowCount() != 5 {
		t.Fatalf("rows = %d, want 5", m.ctl.RowCount())
	}
}

func TestModel_ArrowKeys(t *testing.T) {
	m, _ := newTestModel(t, 5)
	m = press(t, m, "down", "down", "right")
	pos, _ := m.ctl.ActiveCell()
	if pos.Row != 2 || pos.Column != "score" {
		t.Fatalf("active = %+v, want row 2 score", pos)
	}
	m = press(t, m, "G")
	if pos, _ = m.ctl.ActiveCell(); pos.Row != 4 {
		t.Fatalf("G: row = %d, want 4", pos.Row)
	}
	m = press(t, m, "down")
	if pos, _ = m.ctl.ActiveCell(); pos.Row != 4 {
		t.Fatalf("down on last row moved to %d", pos.Row)
	}
}

func TestModel_StaleFetchIgnored(t *testing.T) {
	m, src := newTestModel(t, 3)
	old := m.ctl.BeginFetch()
	m.ctl.BeginFetch()

	m = update(t, m, fetchMsg(old.Run(context.Background(), src)))
	if m.statusMsg != "" {
		t.Fatalf("stale response surfaced: %q", m.statusMsg)
	}
	if !m.ctl.Loading() {
		t.Fatal("stale response completed the newer fetch")
	}
}

func TestModel_Selection(t *testing.T) {
	m, _ := newTestModel(t, 4)
	m = press(t, m, "space", "down", "space")
	if got := m.ctl.SelectedUIDs(); !slices.Equal(got, []string{"a", "b"}) {
		t.Fatalf("selected = %v", got)
	}
	if m.ctl.AllSelectedState() != grid.SelectSome {
		t.Fatalf("header state = %v", m.ctl.AllSelectedState())
	}
	m = press(t, m, "a")
	if m.ctl.SelectedCount() != 4 {
		t.Fatalf("select all: %d", m.ctl.SelectedCount())
	}
	m = press(t, m, "esc")
	if m.ctl.SelectedCount() != 0 {
		t.Fatalf("esc left %d selected", m.ctl.SelectedCount())
	}
}

func TestModel_SearchIsDebounced(t *testing.T) {
	m, _ := newTestModel(t, 5)
	m = press(t, m, "/", "B")
	if m.mode != modeSearch {
		t.Fatalf("mode = %v, want search", m.mode)
	}
	if got := m.ctl.Filters().Global(); got != "" {
		t.Fatalf("query applied before the debounce: %q", got)
	}

	m = update(t, m, searchTickMsg{seq: m.searchSeq - 1})
	if got := m.ctl.Filters().Global(); got != "" {
		t.Fatalf("superseded tick applied %q", got)
	}

	m = update(t, m, searchTickMsg{seq: m.searchSeq})
	if got := m.ctl.Filters().Global(); got != "B" {
		t.Fatalf("query = %q, want B", got)
	}
	if m.ctl.RowCount() >= 5 {
		t.Fatalf("search did not narrow the rows: %d", m.ctl.RowCount())
	}

	m = press(t, m, "esc")
	if m.mode != modeNormal || m.ctl.Filters().Global() != "" || m.ctl.RowCount() != 5 {
		t.Fatalf("esc: mode=%v query=%q rows=%d", m.mode, m.ctl.Filters().Global(), m.ctl.RowCount())
	}
}

func TestModel_FilterPopover(t *testing.T) {
	m, _ := newTestModel(t, 5)
	m = press(t, m, "f")
	if m.mode != modeFilter || m.filter.column != "name" {
		t.Fatalf("mode=%v column=%q", m.mode, m.filter.column)
	}
	if len(m.filter.values) != 5 || !m.filter.allChecked() {
		t.Fatalf("values = %v", m.filter.values)
	}

	// uncheck everything, then keep only the second value
	m = press(t, m, "a", "down", "space", "enter")
	if m.mode != modeNormal {
		t.Fatalf("mode = %v after apply", m.mode)
	}
	vals, ok := m.ctl.Filters().Values("name")
	if !ok || !slices.Equal(vals, []string{"B"}) {
		t.Fatalf("filter = %v,%v", vals, ok)
	}
	if m.ctl.RowCount() != 1 {
		t.Fatalf("rows = %d, want 1", m.ctl.RowCount())
	}

	// reopen, check all, apply: the filter goes away
	m = press(t, m, "f", "a", "enter")
	if _, ok := m.ctl.Filters().Values("name"); ok {
		t.Fatal("all values checked should clear the filter")
	}
	if m.ctl.RowCount() != 5 {
		t.Fatalf("rows = %d, want 5", m.ctl.RowCount())
	}
}

func TestModel_FilterPopoverCancel(t *testing.T) {
	m, _ := newTestModel(t, 3)
	m = press(t, m, "f", "a", "esc")
	if _, ok := m.ctl.Filters().Values("name"); ok || m.ctl.RowCount() != 3 {
		t.Fatal("cancelled popover changed the filter")
	}
}

func TestModel_SortKey(t *testing.T) {
	m, _ := newTestModel(t, 3)
	m = press(t, m, "right", "s", "s")
	if _, dir, ok := m.ctl.Sorting().Find("score"); !ok || dir != grid.Descending {
		t.Fatalf("sorting = %+v", m.ctl.Sorting())
	}
	if r, _ := m.ctl.RowAt(0); r.UID != "c" {
		t.Fatalf("first row = %s, want c", r.UID)
	}
}

func TestModel_MoveThroughPicker(t *testing.T) {
	m, src := newTestModel(t, 4)
	m = press(t, m, "space", "down", "space", "M")
	if m.mode != modePicker {
		t.Fatalf("mode = %v, want picker", m.mode)
	}
	for _, v := range m.picker.views {
		if v.ID == grid.ViewLonglist {
			t.Fatal("active view offered as a target")
		}
	}
	if m.picker.views[0].ID != grid.ViewShortlist {
		t.Fatalf("first target = %s", m.picker.views[0].ID)
	}

	m = press(t, m, "enter")
	if p := m.ctl.Pending(); p == nil || p.Kind != grid.MutationMove || p.Target != grid.ViewShortlist {
		t.Fatalf("pending = %+v", p)
	}
	m = finishPending(t, m, src)

	if m.ctl.SelectedCount() != 0 {
		t.Fatal("selection kept after a successful move")
	}
	if !strings.Contains(m.statusMsg, "Moved 2") {
		t.Fatalf("status = %q", m.statusMsg)
	}
	if m.ctl.RowCount() != 2 {
		t.Fatalf("longlist rows = %d, want 2", m.ctl.RowCount())
	}
}

func TestModel_MoveWithoutSelection(t *testing.T) {
	m, _ := newTestModel(t, 2)
	m = press(t, m, "M")
	if m.mode != modeNormal || !m.statusErr {
		t.Fatalf("mode=%v statusErr=%v", m.mode, m.statusErr)
	}
}

func TestModel_DeleteNeedsConfirmation(t *testing.T) {
	m, src := newTestModel(t, 3)
	m = press(t, m, "space", "D")
	if m.mode != modeConfirm {
		t.Fatalf("mode = %v, want confirm", m.mode)
	}
	m = press(t, m, "n")
	if m.ctl.Pending() != nil || m.ctl.SelectedCount() != 1 {
		t.Fatal("declined delete started a mutation")
	}

	m = press(t, m, "D", "y")
	if p := m.ctl.Pending(); p == nil || p.Kind != grid.MutationDelete {
		t.Fatalf("pending = %+v", p)
	}
	m = finishPending(t, m, src)
	if m.ctl.TotalRows() != 2 {
		t.Fatalf("rows = %d, want 2", m.ctl.TotalRows())
	}
}

func TestModel_SelectionFrozenWhilePending(t *testing.T) {
	m, _ := newTestModel(t, 3)
	m = press(t, m, "space", "D", "y", "down", "space")
	if m.ctl.SelectedCount() != 1 {
		t.Fatalf("selection changed while pending: %d", m.ctl.SelectedCount())
	}
	if !m.statusErr {
		t.Fatal("expected a pending error in the status line")
	}
}

func TestModel_FailedMutationKeepsRows(t *testing.T) {
	m, src := newTestModel(t, 3)
	m = press(t, m, "space", "D", "y")
	p := m.ctl.Pending()
	m = update(t, m, mutationMsg{m: p, err: &grid.MutationError{Kind: p.Kind, Count: 1, Err: grid.ErrRowNotFound}})
	if !m.statusErr || m.ctl.Pending() != nil {
		t.Fatalf("statusErr=%v pending=%v", m.statusErr, m.ctl.Pending())
	}
	if m.ctl.SelectedCount() != 1 || m.ctl.RowCount() != 3 {
		t.Fatalf("state changed after failure: selected=%d rows=%d", m.ctl.SelectedCount(), m.ctl.RowCount())
	}
	views, _ := src.ListViews(context.Background(), "p")
	for _, v := range views {
		if v.ID == grid.ViewLonglist && v.RowCount != 3 {
			t.Fatalf("store changed: %+v", v)
		}
	}
}

func TestModel_EditCell(t *testing.T) {
	m, src := newTestModel(t, 2)
	m = press(t, m, "right", "e")
	if m.mode != modeInput {
		t.Fatalf("mode = %v, want input", m.mode)
	}
	if m.input.Value() != "0" {
		t.Fatalf("input starts at %q", m.input.Value())
	}
	m.input.SetValue("42")
	m = press(t, m, "enter")
	p := m.ctl.Pending()
	if p == nil || p.Kind != grid.MutationUpdate || !p.Updates["score"].Equal(grid.Int(42)) {
		t.Fatalf("pending = %+v", p)
	}
	m = finishPending(t, m, src)
	if r, _ := m.ctl.RowAt(0); !r.Value("score").Equal(grid.Int(42)) {
		t.Fatalf("score = %v", r.Value("score"))
	}
}

func TestModel_CreateAndDeleteView(t *testing.T) {
	m, src := newTestModel(t, 2)
	m = press(t, m, "n")
	m.input.SetValue("Hot deals")
	m = press(t, m, "enter")
	m = finishPending(t, m, src)

	var custom grid.ViewInfo
	for _, v := range m.ctl.Views() {
		if v.Kind == grid.ViewCustom {
			custom = v
		}
	}
	if custom.Name != "Hot deals" {
		t.Fatalf("views = %+v", m.ctl.Views())
	}

	// switch to it through the picker, then delete it
	m.mode = modePicker
	m.picker = picker{action: pickSwitch, views: m.ctl.Views()}
	m.picker.cursor = len(m.picker.views) - 1
	m = press(t, m, "enter")
	if m.ctl.ViewID() != custom.ID {
		t.Fatalf("view = %s, want %s", m.ctl.ViewID(), custom.ID)
	}
	if err := m.ctl.Load(context.Background(), src); err != nil {
		t.Fatal(err)
	}

	m = press(t, m, "X", "y")
	m = finishPending(t, m, src)
	if m.ctl.ViewID() != grid.ViewLonglist {
		t.Fatalf("view after delete = %s, want longlist", m.ctl.ViewID())
	}
}

func TestModel_SystemViewCannotBeDeleted(t *testing.T) {
	m, _ := newTestModel(t, 1)
	m = press(t, m, "X")
	if m.mode != modeNormal || !m.statusErr {
		t.Fatalf("mode=%v statusErr=%v", m.mode, m.statusErr)
	}
}

func TestModel_DragReorder(t *testing.T) {
	m, _ := newTestModel(t, 2)
	m = press(t, m, "o")
	if m.mode != modeDrag {
		t.Fatalf("mode = %v, want drag", m.mode)
	}
	m = press(t, m, "right", "enter")
	if got := visibleData(m.ctl); !slices.Equal(got, []string{"score", "name"}) {
		t.Fatalf("order = %v", got)
	}
	if pos, _ := m.ctl.ActiveCell(); pos.Column != "name" {
		t.Fatalf("focus left the dragged column: %+v", pos)
	}
}

func TestModel_DragSkipsOtherPinGroup(t *testing.T) {
	m, _ := newTestModel(t, 2)
	m.ctl.PinColumn("score", grid.PinLeft)
	m.ctl.FocusCell(0, "name")
	before := m.ctl.Columns().Order()

	m = press(t, m, "o")
	if src, _ := m.ctl.Drag().Source(); src != "name" {
		t.Fatalf("dragging %q, want name", src)
	}
	m = press(t, m, "left")
	if over := m.ctl.Drag().Over(); over != "name" {
		t.Fatalf("drag target moved into the pinned group: %q", over)
	}
	m = press(t, m, "enter")
	if got := m.ctl.Columns().Order(); !slices.Equal(got, before) {
		t.Fatalf("order = %v want %v", got, before)
	}
	if m.mode != modeNormal {
		t.Fatalf("mode = %v", m.mode)
	}
}

func TestModel_UpdateCommitsRenderedWindow(t *testing.T) {
	m, _ := newTestModel(t, 200)
	for range 60 {
		m = press(t, m, "down")
	}
	v := m.ctl.Virtualizer()
	w, ok := v.Committed()
	if !ok || w != v.Window() {
		t.Fatalf("committed %+v (%v), View renders %+v", w, ok, v.Window())
	}
	if pos, _ := m.ctl.ActiveCell(); !w.Contains(pos.Row) {
		t.Fatalf("active row %d outside committed window %+v", pos.Row, w)
	}
}

func TestModel_ResizeAndPin(t *testing.T) {
	m, _ := newTestModel(t, 2)
	before, _ := m.ctl.Columns().Column("name")
	m = press(t, m, "+")
	after, _ := m.ctl.Columns().Column("name")
	if after.Width <= before.Width && before.Width < before.MaxWidth {
		t.Fatalf("width %d -> %d", before.Width, after.Width)
	}
	m = press(t, m, "p")
	if c, _ := m.ctl.Columns().Column("name"); c.Pinned != grid.PinLeft {
		t.Fatalf("pin = %v", c.Pinned)
	}
	m = press(t, m, "h")
	if c, _ := m.ctl.Columns().Column("name"); c.Visible {
		t.Fatal("column still visible after hide")
	}
	m = press(t, m, "H")
	if c, _ := m.ctl.Columns().Column("name"); !c.Visible {
		t.Fatal("show all left the column hidden")
	}
}

func TestModel_ViewRendersWindow(t *testing.T) {
	m, _ := newTestModel(t, 200)
	out := m.View()
	if !strings.Contains(out, "name") || !strings.Contains(out, "score") {
		t.Fatalf("header missing:\n%s", out)
	}
	if !strings.Contains(out, "200/200 rows") {
		t.Fatalf("row count missing:\n%s", out)
	}
	if lines := strings.Count(out, "\n") + 1; lines > 30 {
		t.Fatalf("rendered %d lines into a 30 line terminal", lines)
	}
}

func TestApplyViewport(t *testing.T) {
	tests := []struct {
		name  string
		in    string
		start int
		width int
		want  string
	}{
		{"prefix", "abcdef", 0, 3, "abc"},
		{"offset", "abcdef", 2, 3, "cde"},
		{"pads", "ab", 0, 4, "ab  "},
		{"past end", "ab", 5, 2, "  "},
		{"wide rune", "日本語", 0, 4, "日本"},
		{"wide rune cut left", "日本語", 1, 4, " 本 "},
		{"styled", "\x1b[1mab\x1b[0mcd", 1, 2, "\x1b[1mb\x1b[0mc"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := applyViewport(tt.in, tt.start, tt.width); got != tt.want {
				t.Fatalf("got %q want %q", got, tt.want)
			}
		})
	}
}
