// Package gridview is the interactive terminal front end of the grid
// engine. The engine owns all state; this package maps keys to engine
// operations, runs data source calls as tea commands, and renders the
// committed window.
package gridview

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/dealflow/dealgrid/internal/grid"
	"github.com/mattn/go-runewidth"
)

// mode is the input mode; every mode but modeNormal owns the keyboard.
type mode int

const (
	modeNormal mode = iota
	modeSearch
	modeFilter
	modePicker
	modeConfirm
	modeInput
	modeDrag
)

// chrome is the number of lines around the row area: title, search bar,
// header, separator, status and help.
const chrome = 6

// Options configures the viewer.
type Options struct {
	Title string
	// SearchDebounce delays applying a typed search query.
	SearchDebounce time.Duration
	// ResizeStep is the width change per resize key press.
	ResizeStep int
}

// Model is the bubbletea model of the grid view.
type Model struct {
	ctl  *grid.Controller
	src  grid.DataSource
	ctx  context.Context
	opts Options

	width  int
	height int
	ready  bool
	mode   mode

	// scrollX is the horizontal offset of the unpinned columns.
	scrollX int

	search    textinput.Model
	searchSeq int

	input   textinput.Model
	onInput func(Model, string) (Model, tea.Cmd)

	filter  filterPopover
	picker  picker
	confirm confirmation

	spinner  spinner.Model
	help     help.Model
	showHelp bool

	// Status message (flash notification)
	statusMsg   string
	statusErr   bool
	statusUntil time.Time
}

// New builds a model over a controller that has not been loaded yet; Init
// issues the first fetch.
func New(ctx context.Context, ctl *grid.Controller, src grid.DataSource, opts Options) Model {
	if opts.SearchDebounce <= 0 {
		opts.SearchDebounce = 300 * time.Millisecond
	}
	if opts.ResizeStep <= 0 {
		opts.ResizeStep = 2
	}

	si := textinput.New()
	si.Placeholder = "search..."
	si.CharLimit = 200
	si.Width = 30
	si.Prompt = "/"

	in := textinput.New()
	in.CharLimit = 500
	in.Width = 40

	sp := spinner.New()
	sp.Spinner = spinner.MiniDot

	return Model{
		ctx:     ctx,
		ctl:     ctl,
		src:     src,
		opts:    opts,
		search:  si,
		input:   in,
		spinner: sp,
		help:    help.New(),
	}
}

// Controller returns the engine behind the view.
func (m Model) Controller() *grid.Controller { return m.ctl }

// ═══════════════════════════════════════════════════════════════════════════
// Messages and commands
// ═══════════════════════════════════════════════════════════════════════════

type fetchMsg grid.FetchResult

type mutationMsg struct {
	m   *grid.Mutation
	err error
}

type searchTickMsg struct{ seq int }

type statusClearMsg struct{}

const statusDuration = 3 * time.Second

func (m Model) fetch(t grid.FetchTicket) tea.Cmd {
	ctx, src := m.ctx, m.src
	return func() tea.Msg {
		return fetchMsg(t.Run(ctx, src))
	}
}

func (m Model) mutate(mu *grid.Mutation) tea.Cmd {
	ctx, src := m.ctx, m.src
	return func() tea.Msg {
		return mutationMsg{m: mu, err: mu.Execute(ctx, src)}
	}
}

// setStatus sets a temporary status message that auto-clears.
func (m *Model) setStatus(msg string, isErr bool) tea.Cmd {
	m.statusMsg = msg
	m.statusErr = isErr
	m.statusUntil = time.Now().Add(statusDuration)
	return tea.Tick(statusDuration, func(time.Time) tea.Msg {
		return statusClearMsg{}
	})
}

func (m *Model) fail(err error) tea.Cmd {
	log.Printf("error: %v", err)
	return m.setStatus(err.Error(), true)
}

// ═══════════════════════════════════════════════════════════════════════════
// Bubble Tea Interface
// ═══════════════════════════════════════════════════════════════════════════

func (m Model) Init() tea.Cmd {
	return tea.Batch(m.fetch(m.ctl.BeginFetch()), m.spinner.Tick)
}

// Update handles one message and then commits the window that View will
// render, which completes any focus transfer waiting on it.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	next, cmd := m.update(msg)
	next.ctl.Commit()
	return next, cmd
}

func (m Model) update(msg tea.Msg) (Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.ready = true
		m.help.Width = msg.Width
		m.ctl.SetViewport(m.rowLines())
		m.ensureColumnVisible()
		return m, nil

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case statusClearMsg:
		if !m.statusUntil.IsZero() && time.Now().After(m.statusUntil) {
			m.statusMsg = ""
			m.statusUntil = time.Time{}
		}
		return m, nil

	case fetchMsg:
		return m.applyFetch(grid.FetchResult(msg))

	case mutationMsg:
		return m.completeMutation(msg)

	case searchTickMsg:
		if msg.seq == m.searchSeq {
			m.ctl.SetGlobalFilter(m.search.Value())
		}
		return m, nil

	case tea.KeyMsg:
		switch m.mode {
		case modeSearch:
			return m.updateSearch(msg)
		case modeFilter:
			return m.updateFilter(msg)
		case modePicker:
			return m.updatePicker(msg)
		case modeConfirm:
			return m.updateConfirm(msg)
		case modeInput:
			return m.updateInput(msg)
		case modeDrag:
			return m.updateDrag(msg)
		}
		return m.updateNormal(msg)
	}
	return m, nil
}

func (m Model) applyFetch(r grid.FetchResult) (Model, tea.Cmd) {
	err := m.ctl.ApplyFetch(r)
	switch {
	case errors.Is(err, grid.ErrStaleResponse):
		log.Printf("dropped stale fetch %d", r.Ticket.Generation)
		return m, nil
	case err != nil:
		return m, m.fail(err)
	}
	if _, ok := m.ctl.ActiveCell(); !ok && m.ctl.RowCount() > 0 {
		m.focusFirst()
	}
	m.ensureColumnVisible()
	return m, nil
}

func (m Model) completeMutation(msg mutationMsg) (Model, tea.Cmd) {
	t, err := m.ctl.Complete(msg.m, msg.err)
	if err != nil {
		return m, m.fail(err)
	}
	status := mutationSummary(msg.m, m.viewName(msg.m.Target))
	log.Print(status)
	return m, tea.Batch(m.setStatus(status, false), m.fetch(t))
}

func mutationSummary(mu *grid.Mutation, target string) string {
	switch mu.Kind {
	case grid.MutationMove:
		return fmt.Sprintf("Moved %d row(s) to %s", len(mu.UIDs), target)
	case grid.MutationCopy:
		return fmt.Sprintf("Copied %d row(s) to %s", len(mu.UIDs), target)
	case grid.MutationDelete:
		return fmt.Sprintf("Deleted %d row(s)", len(mu.UIDs))
	case grid.MutationUpdate:
		return "Saved"
	case grid.MutationCreateView:
		return fmt.Sprintf("Created view %s", mu.Created.Name)
	case grid.MutationDeleteView:
		return fmt.Sprintf("Deleted view %s", target)
	}
	return string(mu.Kind)
}

func (m Model) viewName(id string) string {
	for _, v := range m.ctl.Views() {
		if v.ID == id {
			return v.Name
		}
	}
	return id
}

// ═══════════════════════════════════════════════════════════════════════════
// Normal mode
// ═══════════════════════════════════════════════════════════════════════════

func (m Model) updateNormal(msg tea.KeyMsg) (Model, tea.Cmd) {
	switch {
	case key.Matches(msg, keys.Quit):
		if err := m.ctl.SaveLayout(); err != nil {
			log.Printf("save layout: %v", err)
		}
		return m, tea.Quit

	case key.Matches(msg, keys.Help):
		m.showHelp = !m.showHelp
		m.ctl.SetViewport(m.rowLines())

	case key.Matches(msg, keys.Up):
		m.navigate(grid.ArrowUp, false)
	case key.Matches(msg, keys.Down):
		m.navigate(grid.ArrowDown, false)
	case key.Matches(msg, keys.Left):
		m.navigate(grid.ArrowLeft, false)
	case key.Matches(msg, keys.Right):
		m.navigate(grid.ArrowRight, false)
	case key.Matches(msg, keys.JumpUp):
		m.navigate(grid.ArrowUp, true)
	case key.Matches(msg, keys.JumpDown):
		m.navigate(grid.ArrowDown, true)
	case key.Matches(msg, keys.JumpLeft):
		m.navigate(grid.ArrowLeft, true)
	case key.Matches(msg, keys.JumpRight):
		m.navigate(grid.ArrowRight, true)
	case key.Matches(msg, keys.PageUp):
		if !m.ensureActive() {
			m.ctl.PageUp()
		}
	case key.Matches(msg, keys.PageDown):
		if !m.ensureActive() {
			m.ctl.PageDown()
		}
	case key.Matches(msg, keys.ScrollLeft):
		m.scrollX = max(m.scrollX-m.centerWidth()/2, 0)
	case key.Matches(msg, keys.ScrollRight):
		m.scrollX = min(m.scrollX+m.centerWidth()/2, m.maxScrollX())

	case key.Matches(msg, keys.Select):
		if row, ok := m.ctl.ActiveRow(); ok {
			if !m.ctl.ToggleRow(row.UID) && m.ctl.Pending() != nil {
				return m, m.fail(grid.ErrMutationPending)
			}
		}
	case key.Matches(msg, keys.SelectAll):
		if !m.ctl.ToggleAll() && m.ctl.Pending() != nil {
			return m, m.fail(grid.ErrMutationPending)
		}
	case key.Matches(msg, keys.Clear):
		m.ctl.ClearSelection()

	case key.Matches(msg, keys.Search):
		m.mode = modeSearch
		m.search.SetValue(m.ctl.Filters().Global())
		m.search.CursorEnd()
		return m, m.search.Focus()
	case key.Matches(msg, keys.Filter):
		return m.openFilter()
	case key.Matches(msg, keys.ClearFilters):
		m.search.SetValue("")
		m.searchSeq++
		m.ctl.ClearFilters()
	case key.Matches(msg, keys.Sort), key.Matches(msg, keys.SortMulti):
		if col, ok := m.activeDataColumn(); ok {
			m.ctl.ToggleSort(col, key.Matches(msg, keys.SortMulti))
		}

	case key.Matches(msg, keys.Wider), key.Matches(msg, keys.Narrower):
		if col, ok := m.activeColumn(); ok {
			step := m.opts.ResizeStep
			if key.Matches(msg, keys.Narrower) {
				step = -step
			}
			m.ctl.ResizeColumn(col.ID, col.Width+step)
			m.ensureColumnVisible()
		}
	case key.Matches(msg, keys.AutoFit):
		if col, ok := m.activeDataColumn(); ok {
			m.ctl.AutoFitColumn(col, 1, runewidth.StringWidth)
			m.ensureColumnVisible()
		}
	case key.Matches(msg, keys.Pin):
		if col, ok := m.activeColumn(); ok && !col.IsSelection() {
			m.ctl.PinColumn(col.ID, nextPin(col.Pinned))
			m.ensureColumnVisible()
		}
	case key.Matches(msg, keys.Hide):
		if col, ok := m.activeDataColumn(); ok {
			m.ctl.SetColumnVisible(col, false)
			m.ensureColumnVisible()
		}
	case key.Matches(msg, keys.ShowAll):
		for _, c := range m.ctl.Columns().Columns() {
			if !c.Visible {
				m.ctl.SetColumnVisible(c.ID, true)
			}
		}
	case key.Matches(msg, keys.Reset):
		m.ctl.ResetColumns()
		m.scrollX = 0
		m.ensureColumnVisible()
	case key.Matches(msg, keys.Save):
		if err := m.ctl.SaveLayout(); err != nil {
			return m, m.fail(err)
		}
		return m, m.setStatus("Layout saved", false)
	case key.Matches(msg, keys.Drag):
		if col, ok := m.activeDataColumn(); ok && m.ctl.BeginDrag(col) {
			m.ctl.DragOver(col)
			m.mode = modeDrag
		}

	case key.Matches(msg, keys.Move):
		return m.openTargetPicker(grid.MutationMove)
	case key.Matches(msg, keys.Copy):
		return m.openTargetPicker(grid.MutationCopy)
	case key.Matches(msg, keys.Delete):
		return m.askDeleteRows()
	case key.Matches(msg, keys.Edit):
		return m.openEditor()
	case key.Matches(msg, keys.Views):
		return m.openViewPicker()
	case key.Matches(msg, keys.NewView):
		return m.openNewView()
	case key.Matches(msg, keys.DeleteView):
		return m.askDeleteView()
	case key.Matches(msg, keys.Reload):
		return m, m.fetch(m.ctl.BeginFetch())

	case key.Matches(msg, keys.YankCell):
		return m, m.yankCell()
	case key.Matches(msg, keys.YankRow):
		return m, m.yankRow()
	}

	return m, nil
}

// ensureActive focuses the first cell when nothing is active. It reports
// whether it did, so the triggering key is consumed.
func (m *Model) ensureActive() bool {
	if _, ok := m.ctl.ActiveCell(); ok {
		return false
	}
	m.focusFirst()
	return true
}

func (m *Model) focusFirst() {
	if m.ctl.RowCount() == 0 {
		return
	}
	col := grid.SelectionColumnID
	if ids := visibleData(m.ctl); len(ids) > 0 {
		col = ids[0]
	}
	m.ctl.FocusCell(0, col)
}

func (m *Model) navigate(a grid.Arrow, modifier bool) {
	if m.ensureActive() {
		return
	}
	if m.ctl.Navigate(a, modifier) && (a == grid.ArrowLeft || a == grid.ArrowRight) {
		m.ensureColumnVisible()
	}
}

func (m Model) activeColumn() (grid.Column, bool) {
	pos, ok := m.ctl.ActiveCell()
	if !ok {
		return grid.Column{}, false
	}
	return m.ctl.Columns().Column(pos.Column)
}

func (m Model) activeDataColumn() (string, bool) {
	c, ok := m.activeColumn()
	if !ok || c.IsSelection() {
		return "", false
	}
	return c.ID, true
}

func nextPin(p grid.Pin) grid.Pin {
	switch p {
	case grid.PinNone:
		return grid.PinLeft
	case grid.PinLeft:
		return grid.PinRight
	}
	return grid.PinNone
}

// ═══════════════════════════════════════════════════════════════════════════
// Search (debounced)
// ═══════════════════════════════════════════════════════════════════════════

func (m Model) updateSearch(msg tea.KeyMsg) (Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEsc:
		m.mode = modeNormal
		m.search.Blur()
		m.search.SetValue("")
		m.searchSeq++
		m.ctl.SetGlobalFilter("")
		return m, nil
	case tea.KeyEnter:
		m.mode = modeNormal
		m.search.Blur()
		m.searchSeq++
		m.ctl.SetGlobalFilter(m.search.Value())
		return m, nil
	}

	before := m.search.Value()
	var cmd tea.Cmd
	m.search, cmd = m.search.Update(msg)
	if m.search.Value() == before {
		return m, cmd
	}

	m.searchSeq++
	seq := m.searchSeq
	tick := tea.Tick(m.opts.SearchDebounce, func(time.Time) tea.Msg {
		return searchTickMsg{seq: seq}
	})
	return m, tea.Batch(cmd, tick)
}

// ═══════════════════════════════════════════════════════════════════════════
// Drag (keyboard column reorder)
// ═══════════════════════════════════════════════════════════════════════════

func (m Model) updateDrag(msg tea.KeyMsg) (Model, tea.Cmd) {
	source, _ := m.ctl.Drag().Source()
	cols := m.ctl.Columns()
	var ids []string
	for _, id := range cols.VisibleIDs() {
		if id != grid.SelectionColumnID && cols.SamePinGroup(source, id) {
			ids = append(ids, id)
		}
	}
	over := m.ctl.Drag().Over()
	i := indexOf(ids, over)

	switch msg.String() {
	case "left", "h":
		if i > 0 {
			m.ctl.DragOver(ids[i-1])
		}
	case "right", "l":
		if i >= 0 && i < len(ids)-1 {
			m.ctl.DragOver(ids[i+1])
		}
	case "enter", " ", "space":
		m.ctl.Drop(over)
		m.mode = modeNormal
		if pos, ok := m.ctl.ActiveCell(); ok {
			m.ctl.FocusCell(pos.Row, source)
		}
		m.ensureColumnVisible()
	case "esc", "q":
		m.ctl.CancelDrag()
		m.mode = modeNormal
	}
	return m, nil
}

func indexOf(ids []string, id string) int {
	for i, v := range ids {
		if v == id {
			return i
		}
	}
	return -1
}

// visibleData lists the visible columns without the selection column.
func visibleData(ctl *grid.Controller) []string {
	ids := ctl.Columns().VisibleIDs()
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		if id != grid.SelectionColumnID {
			out = append(out, id)
		}
	}
	return out
}
