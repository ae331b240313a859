package grid

import (
	"context"
	"maps"
	"slices"
	"strings"

	"golang.org/x/sync/errgroup"
)

// Options configures a Controller.
type Options struct {
	RowHeight      int
	Overscan       int
	ViewportHeight int
	Columns        ColumnDefaults
	// SearchColumns limits the global filter; empty means all fields.
	SearchColumns []string
	// UniqueLimit caps the filter value lists; 0 means no cap.
	UniqueLimit int
	// Prefs, if set, persists column layouts across sessions.
	Prefs PrefsStore
}

// DefaultOptions returns options for a pixel-free renderer with one unit
// per row.
func DefaultOptions() Options {
	return Options{
		RowHeight:      1,
		Overscan:       14,
		ViewportHeight: 20,
		Columns:        DefaultColumnDefaults(),
		UniqueLimit:    500,
	}
}

// PrefsStore loads and saves column layouts keyed by column set.
type PrefsStore interface {
	LoadColumnPrefs(columns []string) (ColumnPrefs, bool)
	SaveColumnPrefs(columns []string, p ColumnPrefs) error
}

// Controller owns all grid state for one (project, view): the column
// model, filters, sorting, the ordered sequence, selection, scroll window,
// keyboard position and drag gesture. It is not safe for concurrent use.
// Work against the DataSource is split so it can run off the owning loop:
// BeginFetch / FetchTicket.Run / ApplyFetch for loads and
// BeginMove... / Mutation.Execute / Complete for writes.
type Controller struct {
	opts      Options
	projectID string
	viewID    string
	views     []ViewInfo

	columns      ColumnModel
	hasColumns   bool
	resetVisible bool
	session      map[string]ColumnPrefs

	filters   Filters
	sorting   Sorting
	pipeline  *Pipeline
	seq       []int
	seqUIDs   []string
	positions map[string]int

	selection *Selection
	virt      *Virtualizer
	nav       *Navigator
	drag      DragController

	generation uint64
	loading    bool
	fetchErr   error
	pending    *Mutation
}

// NewController creates a controller for a view. Nothing is loaded until
// the first fetch is applied.
func NewController(projectID, viewID string, opts Options) *Controller {
	if opts.Columns == (ColumnDefaults{}) {
		opts.Columns = DefaultColumnDefaults()
	}
	v := NewVirtualizer(opts.RowHeight, opts.ViewportHeight, opts.Overscan)
	return &Controller{
		opts:         opts,
		projectID:    projectID,
		viewID:       viewID,
		resetVisible: true,
		session:      make(map[string]ColumnPrefs),
		selection:    NewSelection(),
		virt:         v,
		nav:          NewNavigator(v),
		positions:    make(map[string]int),
	}
}

// ProjectID returns the active project.
func (c *Controller) ProjectID() string { return c.projectID }

// ViewID returns the active view.
func (c *Controller) ViewID() string { return c.viewID }

// Views returns the project's views as of the last successful fetch.
func (c *Controller) Views() []ViewInfo { return c.views }

// View returns the active view's info, if known.
func (c *Controller) View() (ViewInfo, bool) {
	for _, v := range c.views {
		if v.ID == c.viewID {
			return v, true
		}
	}
	return ViewInfo{}, false
}

// --- fetching ---------------------------------------------------------------

// FetchTicket identifies one load of a view. Only the ticket from the most
// recent BeginFetch is honored by ApplyFetch.
type FetchTicket struct {
	ProjectID  string
	ViewID     string
	Generation uint64
}

// FetchResult is what Run produced for a ticket.
type FetchResult struct {
	Ticket FetchTicket
	Data   ViewData
	Views  []ViewInfo
	Err    error
}

// Run loads the view's data and the project's view list concurrently. It
// does not touch the controller and may run on any goroutine.
func (t FetchTicket) Run(ctx context.Context, src DataSource) FetchResult {
	res := FetchResult{Ticket: t}
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		d, err := src.GetViewData(gctx, t.ProjectID, t.ViewID)
		res.Data = d
		return err
	})
	g.Go(func() error {
		v, err := src.ListViews(gctx, t.ProjectID)
		res.Views = v
		return err
	})
	if err := g.Wait(); err != nil {
		res.Err = &FetchError{ProjectID: t.ProjectID, ViewID: t.ViewID, Err: err}
	}
	return res
}

// BeginFetch starts a load of the active view and supersedes every ticket
// handed out before.
func (c *Controller) BeginFetch() FetchTicket {
	c.generation++
	c.loading = true
	return FetchTicket{ProjectID: c.projectID, ViewID: c.viewID, Generation: c.generation}
}

// ApplyFetch installs a fetch result. Results for superseded tickets are
// discarded with ErrStaleResponse. A failed fetch keeps the previous rows
// and is returned (and remembered in FetchErr) for display.
func (c *Controller) ApplyFetch(r FetchResult) error {
	t := r.Ticket
	if t.Generation != c.generation || t.ProjectID != c.projectID || t.ViewID != c.viewID {
		return ErrStaleResponse
	}
	c.loading = false
	if r.Err != nil {
		c.fetchErr = r.Err
		return r.Err
	}
	c.fetchErr = nil
	c.views = r.Views
	c.setSnapshot(r.Data)
	return nil
}

// Load fetches and applies the active view synchronously.
func (c *Controller) Load(ctx context.Context, src DataSource) error {
	return c.ApplyFetch(c.BeginFetch().Run(ctx, src))
}

// Loading reports whether a fetch is outstanding.
func (c *Controller) Loading() bool { return c.loading }

// FetchErr returns the error of the last fetch, nil if it succeeded.
func (c *Controller) FetchErr() error { return c.fetchErr }

func columnSetKey(names []string) string {
	s := slices.Clone(names)
	slices.Sort(s)
	return strings.Join(s, "\x00")
}

func inferColumns(rows []Row) []string {
	set := make(map[string]struct{})
	for _, r := range rows {
		for k := range r.Fields {
			set[k] = struct{}{}
		}
	}
	return slices.Sorted(maps.Keys(set))
}

func (c *Controller) setSnapshot(d ViewData) {
	names := d.Columns
	if len(names) == 0 {
		names = inferColumns(d.Rows)
	}
	if !c.hasColumns || !c.columns.SameColumnSet(names) {
		c.columns = c.buildColumns(names)
		c.hasColumns = true
		c.dropUnknownState()
	}
	if c.resetVisible {
		var visible []string
		if v, ok := c.View(); ok {
			visible = v.VisibleColumns
		}
		c.columns = c.columns.ShowOnly(visible)
		c.resetVisible = false
	}
	c.pipeline = NewPipeline(d.Rows, c.opts.SearchColumns, c.opts.UniqueLimit)
	c.refresh()
}

func (c *Controller) buildColumns(names []string) ColumnModel {
	m := NewColumnModel(names, c.opts.Columns)
	key := columnSetKey(m.DataColumns())
	if p, ok := c.session[key]; ok {
		return m.ApplyPrefs(p)
	}
	if c.opts.Prefs != nil {
		if p, ok := c.opts.Prefs.LoadColumnPrefs(m.DataColumns()); ok {
			return m.ApplyPrefs(p)
		}
	}
	return m
}

// dropUnknownState forgets filters and sort keys on columns that left the
// column set.
func (c *Controller) dropUnknownState() {
	for _, col := range c.filters.FilteredColumns() {
		if _, ok := c.columns.Column(col); !ok {
			c.filters = c.filters.ClearColumn(col)
		}
	}
	for _, k := range c.sorting {
		if _, ok := c.columns.Column(k.ColumnID); !ok {
			c.sorting = c.sorting.Without(k.ColumnID)
		}
	}
}

// refresh recomputes the ordered sequence and everything keyed to it.
func (c *Controller) refresh() {
	if c.pipeline == nil {
		c.seq, c.seqUIDs = nil, nil
	} else {
		c.seq = c.pipeline.Run(c.filters, c.sorting)
		c.seqUIDs = make([]string, len(c.seq))
		for i, ri := range c.seq {
			c.seqUIDs[i] = c.pipeline.Row(ri).UID
		}
	}
	clear(c.positions)
	for i, uid := range c.seqUIDs {
		c.positions[uid] = i
	}
	if c.pending == nil {
		c.selection.Prune(c.seqUIDs)
	}
	c.virt.SetRowCount(len(c.seq))
	c.nav.Revalidate(len(c.seq), c.columns.VisibleIDs())
}

// reorder refreshes after a filter or sort change and returns to the top.
// A refetch keeps its scroll position.
func (c *Controller) reorder() {
	c.refresh()
	c.virt.ScrollTo(0)
}

// --- views ------------------------------------------------------------------

func (c *Controller) resetViewState() {
	c.rememberColumns()
	c.filters = Filters{}
	c.sorting = nil
	c.pipeline = nil
	c.selection.Clear()
	c.nav.Blur()
	c.drag.Cancel()
	c.virt.ScrollTo(0)
	c.fetchErr = nil
	c.resetVisible = true
	c.refresh()
}

// SwitchView makes viewID active. Filters, sorting, selection, scroll and
// keyboard state start over; the column layout survives when the new view
// has the same column set. The returned ticket loads the view.
func (c *Controller) SwitchView(viewID string) FetchTicket {
	c.viewID = viewID
	c.resetViewState()
	return c.BeginFetch()
}

// SwitchProject makes (projectID, viewID) active.
func (c *Controller) SwitchProject(projectID, viewID string) FetchTicket {
	c.projectID = projectID
	c.viewID = viewID
	c.views = nil
	c.resetViewState()
	return c.BeginFetch()
}

// --- rows -------------------------------------------------------------------

// RowCount is the length of the ordered sequence.
func (c *Controller) RowCount() int { return len(c.seq) }

// TotalRows is the snapshot size before filtering.
func (c *Controller) TotalRows() int {
	if c.pipeline == nil {
		return 0
	}
	return c.pipeline.Len()
}

// RowAt returns the row at position i of the ordered sequence.
func (c *Controller) RowAt(i int) (Row, bool) {
	if i < 0 || i >= len(c.seq) {
		return Row{}, false
	}
	return c.pipeline.Row(c.seq[i]), true
}

// IndexOf returns the sequence position of uid.
func (c *Controller) IndexOf(uid string) (int, bool) {
	i, ok := c.positions[uid]
	return i, ok
}

// Sequence returns every row of the ordered sequence. Renderers should use
// WindowRows instead.
func (c *Controller) Sequence() []Row {
	out := make([]Row, len(c.seq))
	for i, ri := range c.seq {
		out[i] = c.pipeline.Row(ri)
	}
	return out
}

// WindowRows returns the current window and its rows.
func (c *Controller) WindowRows() (Window, []Row) {
	w := c.virt.Window()
	rows := make([]Row, 0, w.Len())
	for i := w.StartIndex; i <= w.EndIndex; i++ {
		rows = append(rows, c.pipeline.Row(c.seq[i]))
	}
	return w, rows
}

// --- filter & sort ----------------------------------------------------------

// Filters returns the active filters.
func (c *Controller) Filters() Filters { return c.filters }

// Sorting returns the active sort.
func (c *Controller) Sorting() Sorting { return c.sorting }

func (c *Controller) filterable(col string) bool {
	cm, ok := c.columns.Column(col)
	return ok && cm.Filterable
}

// SetFilter restricts col to values. An empty slice excludes every row.
func (c *Controller) SetFilter(col string, values []string) bool {
	if !c.filterable(col) {
		return false
	}
	c.filters = c.filters.SetValues(col, values)
	c.reorder()
	return true
}

// ClearFilter removes col's restriction.
func (c *Controller) ClearFilter(col string) {
	c.filters = c.filters.ClearColumn(col)
	c.reorder()
}

// ClearFilters removes every column restriction and the global query.
func (c *Controller) ClearFilters() {
	c.filters = c.filters.ClearAll()
	c.reorder()
}

// SetGlobalFilter sets the global text query.
func (c *Controller) SetGlobalFilter(q string) {
	if q == c.filters.Global() {
		return
	}
	c.filters = c.filters.SetGlobal(q)
	c.reorder()
}

// FilterValues lists the choices for col's filter over the unfiltered
// snapshot.
func (c *Controller) FilterValues(col string) []string {
	if c.pipeline == nil || !c.filterable(col) {
		return nil
	}
	return c.pipeline.UniqueValues(col)
}

// ToggleSort advances col's sort state. See Sorting.Toggle.
func (c *Controller) ToggleSort(col string, multi bool) bool {
	cm, ok := c.columns.Column(col)
	if !ok || !cm.Sortable {
		return false
	}
	c.sorting = c.sorting.Toggle(col, multi)
	c.reorder()
	return true
}

// ClearSort returns to snapshot order.
func (c *Controller) ClearSort() {
	c.sorting = nil
	c.reorder()
}

// --- columns ----------------------------------------------------------------

// Columns returns the column model.
func (c *Controller) Columns() ColumnModel { return c.columns }

func (c *Controller) setColumns(m ColumnModel) {
	c.columns = m
	c.rememberColumns()
	c.nav.Revalidate(len(c.seq), c.columns.VisibleIDs())
}

func (c *Controller) rememberColumns() {
	if !c.hasColumns {
		return
	}
	c.session[columnSetKey(c.columns.DataColumns())] = c.columns.Prefs()
}

// ResizeColumn sets id's width, clamped to its bounds.
func (c *Controller) ResizeColumn(id string, width int) {
	c.setColumns(c.columns.Resize(id, width))
}

// PinColumn pins id to side.
func (c *Controller) PinColumn(id string, side Pin) {
	c.setColumns(c.columns.SetPinned(id, side))
}

// SetColumnVisible shows or hides id.
func (c *Controller) SetColumnVisible(id string, visible bool) {
	c.setColumns(c.columns.SetVisibility(id, visible))
}

// SetColumnOrder reorders columns.
func (c *Controller) SetColumnOrder(ids []string) {
	c.setColumns(c.columns.SetOrder(ids))
}

// ResetColumns restores the layout the column set was loaded with.
func (c *Controller) ResetColumns() {
	c.setColumns(c.columns.Reset())
}

// AutoFitColumn sizes id to its header and the values in the current
// window.
func (c *Controller) AutoFitColumn(id string, padding int, measure func(string) int) {
	_, rows := c.WindowRows()
	samples := make([]string, len(rows))
	for i, r := range rows {
		samples[i] = r.Value(id).Text()
	}
	c.setColumns(c.columns.AutoFit(id, samples, padding, measure))
}

// SaveLayout writes the column layout to the prefs store, if any.
func (c *Controller) SaveLayout() error {
	if c.opts.Prefs == nil || !c.hasColumns {
		return nil
	}
	return c.opts.Prefs.SaveColumnPrefs(c.columns.DataColumns(), c.columns.Prefs())
}

// Drag returns the header drag gesture state.
func (c *Controller) Drag() *DragController { return &c.drag }

// BeginDrag starts dragging a header.
func (c *Controller) BeginDrag(id string) bool {
	if _, ok := c.columns.Column(id); !ok {
		return false
	}
	return c.drag.BeginDrag(id)
}

// DragOver records the header currently under the drag.
func (c *Controller) DragOver(id string) { c.drag.DragOver(id) }

// Drop finishes the drag over target and applies the new order. A target
// in another pinned group ends the drag without a change.
func (c *Controller) Drop(target string) bool {
	if source, ok := c.drag.Source(); ok && !c.columns.SamePinGroup(source, target) {
		c.drag.Cancel()
		return false
	}
	next, changed := c.drag.Drop(c.columns.Order(), target)
	if changed {
		c.setColumns(c.columns.SetOrder(next))
	}
	return changed
}

// CancelDrag abandons the drag.
func (c *Controller) CancelDrag() { c.drag.Cancel() }

// --- scrolling & navigation -------------------------------------------------

// Virtualizer exposes the scroll state.
func (c *Controller) Virtualizer() *Virtualizer { return c.virt }

// Navigator exposes the keyboard state machine.
func (c *Controller) Navigator() *Navigator { return c.nav }

// SetViewport updates the viewport height.
func (c *Controller) SetViewport(height int) { c.virt.SetViewport(height) }

// ScrollBy scrolls by delta units.
func (c *Controller) ScrollBy(delta int) { c.virt.ScrollBy(delta) }

// Commit tells the engine the current window has been rendered. Pending
// focus transfers for rows in it complete here.
func (c *Controller) Commit() Window { return c.virt.Commit() }

// FocusCell makes (row, col) the active cell.
func (c *Controller) FocusCell(row int, col string) {
	c.nav.Focus(CellPos{Row: row, Column: col}, len(c.seq), c.columns.VisibleIDs())
}

// Blur leaves the grid.
func (c *Controller) Blur() { c.nav.Blur() }

// Navigate handles an arrow key. It returns false for no-ops.
func (c *Controller) Navigate(key Arrow, modifier bool) bool {
	return c.nav.Move(key, modifier, len(c.seq), c.columns.VisibleIDs())
}

// PageDown moves the active row down one viewport.
func (c *Controller) PageDown() bool { return c.nav.MoveBy(c.virt.PageRows(), len(c.seq)) }

// PageUp moves the active row up one viewport.
func (c *Controller) PageUp() bool { return c.nav.MoveBy(-c.virt.PageRows(), len(c.seq)) }

// ActiveCell returns the active cell, if any.
func (c *Controller) ActiveCell() (CellPos, bool) { return c.nav.Active() }

// ActiveRow returns the row under the active cell.
func (c *Controller) ActiveRow() (Row, bool) {
	pos, ok := c.nav.Active()
	if !ok {
		return Row{}, false
	}
	return c.RowAt(pos.Row)
}

// --- selection --------------------------------------------------------------

// IsSelected reports whether uid is selected.
func (c *Controller) IsSelected(uid string) bool { return c.selection.Has(uid) }

// SelectedCount returns the number of selected rows.
func (c *Controller) SelectedCount() int { return c.selection.Count() }

// AllSelectedState is the header checkbox state over the ordered sequence.
func (c *Controller) AllSelectedState() SelectAllState { return c.selection.State(c.seqUIDs) }

// SelectedUIDs returns the selection in sequence order.
func (c *Controller) SelectedUIDs() []string { return c.selection.Ordered(c.seqUIDs) }

// ToggleRow flips uid's selection. Rows outside the sequence cannot be
// selected, and the selection is frozen while an action is pending.
func (c *Controller) ToggleRow(uid string) bool {
	if c.pending != nil {
		return false
	}
	if _, ok := c.positions[uid]; !ok {
		return false
	}
	c.selection.Toggle(uid)
	return true
}

// ToggleRowAt flips the selection of the row at sequence position i.
func (c *Controller) ToggleRowAt(i int) bool {
	if i < 0 || i >= len(c.seqUIDs) {
		return false
	}
	return c.ToggleRow(c.seqUIDs[i])
}

// ToggleAll selects the whole sequence, or clears it if it was already
// fully selected.
func (c *Controller) ToggleAll() bool {
	if c.pending != nil {
		return false
	}
	c.selection.ToggleAll(c.seqUIDs)
	return true
}

// ClearSelection deselects everything.
func (c *Controller) ClearSelection() bool {
	if c.pending != nil {
		return false
	}
	c.selection.Clear()
	return true
}

// --- mutations --------------------------------------------------------------

// Mutation is one write against the data source. It carries copies of
// everything it needs, so it can execute off the owning loop.
type Mutation struct {
	Kind      MutationKind
	ProjectID string
	ViewID    string
	// Target is the destination of move/copy or the view to delete.
	Target  string
	UIDs    []string
	UID     string
	Updates map[string]Scalar
	Name    string
	Icon    string
	Columns []string

	// Created is filled in by a successful create-view.
	Created ViewInfo
}

// Execute issues exactly one data source call.
func (m *Mutation) Execute(ctx context.Context, src DataSource) error {
	var err error
	switch m.Kind {
	case MutationMove:
		err = src.MoveRows(ctx, m.ProjectID, m.ViewID, m.UIDs, m.Target)
	case MutationCopy:
		err = src.CopyRows(ctx, m.ProjectID, m.ViewID, m.UIDs, m.Target)
	case MutationDelete:
		err = src.DeleteRows(ctx, m.ProjectID, m.UIDs)
	case MutationUpdate:
		err = src.UpdateRow(ctx, m.ProjectID, m.UID, m.Updates)
	case MutationCreateView:
		m.Created, err = src.CreateView(ctx, m.ProjectID, m.Name, m.Icon, m.Columns)
	case MutationDeleteView:
		err = src.DeleteView(ctx, m.ProjectID, m.Target)
	}
	if err != nil {
		return &MutationError{Kind: m.Kind, Count: len(m.UIDs), Err: err}
	}
	return nil
}

// Pending returns the outstanding mutation, nil if none.
func (c *Controller) Pending() *Mutation { return c.pending }

func (c *Controller) begin(m *Mutation) (*Mutation, error) {
	if c.pending != nil {
		return nil, ErrMutationPending
	}
	m.ProjectID = c.projectID
	m.ViewID = c.viewID
	c.pending = m
	return m, nil
}

func (c *Controller) beginBulk(kind MutationKind, target string) (*Mutation, error) {
	if c.pending != nil {
		return nil, ErrMutationPending
	}
	uids := c.SelectedUIDs()
	if len(uids) == 0 {
		return nil, ErrNoSelection
	}
	return c.begin(&Mutation{Kind: kind, Target: target, UIDs: uids})
}

func (c *Controller) checkTarget(target string) error {
	switch {
	case target == "":
		return ErrNoTargetView
	case target == c.viewID:
		return ErrSameView
	}
	if len(c.views) == 0 {
		return nil
	}
	for _, v := range c.views {
		if v.ID == target {
			return nil
		}
	}
	return ErrViewNotFound
}

// BeginMove prepares moving the selection to target.
func (c *Controller) BeginMove(target string) (*Mutation, error) {
	if err := c.checkTarget(target); err != nil {
		return nil, err
	}
	return c.beginBulk(MutationMove, target)
}

// BeginCopy prepares copying the selection to target.
func (c *Controller) BeginCopy(target string) (*Mutation, error) {
	if err := c.checkTarget(target); err != nil {
		return nil, err
	}
	return c.beginBulk(MutationCopy, target)
}

// BeginDelete prepares deleting the selected rows from the project. It
// refuses unless confirmed is true.
func (c *Controller) BeginDelete(confirmed bool) (*Mutation, error) {
	if !confirmed {
		return nil, ErrConfirmationRequired
	}
	return c.beginBulk(MutationDelete, "")
}

// BeginUpdate prepares editing fields of one row.
func (c *Controller) BeginUpdate(uid string, updates map[string]Scalar) (*Mutation, error) {
	for k := range updates {
		if IsReservedField(k) || k == SelectionColumnID {
			return nil, ErrReservedColumn
		}
	}
	if _, ok := c.positions[uid]; !ok {
		return nil, ErrRowNotFound
	}
	return c.begin(&Mutation{Kind: MutationUpdate, UID: uid, Updates: maps.Clone(updates)})
}

// BeginCreateView prepares creating a custom view.
func (c *Controller) BeginCreateView(name, icon string, visibleColumns []string) (*Mutation, error) {
	return c.begin(&Mutation{Kind: MutationCreateView, Name: name, Icon: icon, Columns: slices.Clone(visibleColumns)})
}

// BeginDeleteView prepares deleting a custom view.
func (c *Controller) BeginDeleteView(viewID string) (*Mutation, error) {
	if IsSystemView(viewID) {
		return nil, ErrSystemView
	}
	return c.begin(&Mutation{Kind: MutationDeleteView, Target: viewID})
}

// Complete finishes m with the outcome of Execute. On failure no state
// changes and err is returned for display. On success bulk actions clear
// the selection and the returned ticket refetches authoritative data;
// deleting the active view falls back to the longlist.
func (c *Controller) Complete(m *Mutation, err error) (FetchTicket, error) {
	if c.pending == m {
		c.pending = nil
	}
	if err != nil {
		return FetchTicket{}, err
	}
	switch m.Kind {
	case MutationMove, MutationCopy, MutationDelete:
		c.selection.Clear()
	case MutationDeleteView:
		if m.ProjectID == c.projectID && m.Target == c.viewID {
			return c.SwitchView(ViewLonglist), nil
		}
	}
	return c.BeginFetch(), nil
}

func (c *Controller) run(ctx context.Context, src DataSource, m *Mutation, err error) error {
	if err != nil {
		return err
	}
	t, err := c.Complete(m, m.Execute(ctx, src))
	if err != nil {
		return err
	}
	return c.ApplyFetch(t.Run(ctx, src))
}

// Move moves the selection to target and reloads.
func (c *Controller) Move(ctx context.Context, src DataSource, target string) error {
	m, err := c.BeginMove(target)
	return c.run(ctx, src, m, err)
}

// Copy copies the selection to target and reloads.
func (c *Controller) Copy(ctx context.Context, src DataSource, target string) error {
	m, err := c.BeginCopy(target)
	return c.run(ctx, src, m, err)
}

// Delete deletes the selected rows and reloads.
func (c *Controller) Delete(ctx context.Context, src DataSource, confirmed bool) error {
	m, err := c.BeginDelete(confirmed)
	return c.run(ctx, src, m, err)
}

// UpdateRow edits one row and reloads.
func (c *Controller) UpdateRow(ctx context.Context, src DataSource, uid string, updates map[string]Scalar) error {
	m, err := c.BeginUpdate(uid, updates)
	return c.run(ctx, src, m, err)
}

// --- snapshot ---------------------------------------------------------------

// Snapshot is a read-only summary of the controller, for status lines.
type Snapshot struct {
	ProjectID       string
	ViewID          string
	Total           int
	Visible         int
	Selected        int
	AllSelected     SelectAllState
	Active          CellPos
	HasActive       bool
	Focused         bool
	Sorting         Sorting
	FilteredColumns []string
	Global          string
	Window          Window
	Loading         bool
	FetchErr        error
	Pending         MutationKind
}

// Snapshot captures the current state.
func (c *Controller) Snapshot() Snapshot {
	active, has := c.nav.Active()
	s := Snapshot{
		ProjectID:       c.projectID,
		ViewID:          c.viewID,
		Total:           c.TotalRows(),
		Visible:         len(c.seq),
		Selected:        c.selection.Count(),
		AllSelected:     c.AllSelectedState(),
		Active:          active,
		HasActive:       has,
		Focused:         c.nav.Focused(),
		Sorting:         slices.Clone(c.sorting),
		FilteredColumns: c.filters.FilteredColumns(),
		Global:          c.filters.Global(),
		Window:          c.virt.Window(),
		Loading:         c.loading,
		FetchErr:        c.fetchErr,
	}
	if c.pending != nil {
		s.Pending = c.pending.Kind
	}
	return s
}
