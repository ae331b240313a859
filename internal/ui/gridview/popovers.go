package gridview

import (
	"errors"
	"fmt"
	"strings"

	"github.com/atotto/clipboard"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/dealflow/dealgrid/internal/grid"
	"github.com/dealflow/dealgrid/internal/ui/table"
)

// emptyValue labels the empty string in a filter value list.
const emptyValue = "(empty)"

// ═══════════════════════════════════════════════════════════════════════════
// Column filter popover
// ═══════════════════════════════════════════════════════════════════════════

// filterPopover is the value checklist of one column. It edits a draft;
// nothing reaches the controller until apply.
type filterPopover struct {
	column  string
	values  []string
	checked map[string]bool
	cursor  int
}

func (m Model) openFilter() (Model, tea.Cmd) {
	col, ok := m.activeDataColumn()
	if !ok {
		return m, nil
	}
	values := m.ctl.FilterValues(col)
	if len(values) == 0 {
		return m, m.setStatus(fmt.Sprintf("%s has no values to filter", col), false)
	}

	current, restricted := m.ctl.Filters().Values(col)
	checked := make(map[string]bool, len(values))
	for _, v := range values {
		checked[v] = !restricted
	}
	for _, v := range current {
		checked[v] = true
	}

	m.filter = filterPopover{column: col, values: values, checked: checked}
	m.mode = modeFilter
	return m, nil
}

func (p filterPopover) allChecked() bool {
	for _, v := range p.values {
		if !p.checked[v] {
			return false
		}
	}
	return true
}

func (p filterPopover) selected() []string {
	out := make([]string, 0, len(p.values))
	for _, v := range p.values {
		if p.checked[v] {
			out = append(out, v)
		}
	}
	return out
}

func (m Model) updateFilter(msg tea.KeyMsg) (Model, tea.Cmd) {
	p := &m.filter
	switch msg.String() {
	case "up", "k":
		if p.cursor > 0 {
			p.cursor--
		}
	case "down", "j":
		if p.cursor < len(p.values)-1 {
			p.cursor++
		}
	case "home", "g":
		p.cursor = 0
	case "end", "G":
		p.cursor = len(p.values) - 1
	case " ", "space", "x":
		v := p.values[p.cursor]
		p.checked[v] = !p.checked[v]
	case "a":
		all := !p.allChecked()
		for _, v := range p.values {
			p.checked[v] = all
		}
	case "enter":
		if p.allChecked() {
			m.ctl.ClearFilter(p.column)
		} else {
			m.ctl.SetFilter(p.column, p.selected())
		}
		m.mode = modeNormal
		m.ensureActive()
	case "esc", "q":
		m.mode = modeNormal
	}
	return m, nil
}

// ═══════════════════════════════════════════════════════════════════════════
// View picker (move, copy, switch)
// ═══════════════════════════════════════════════════════════════════════════

// pickSwitch marks a picker that switches the active view.
const pickSwitch grid.MutationKind = ""

type picker struct {
	action grid.MutationKind
	views  []grid.ViewInfo
	cursor int
}

func (m Model) openTargetPicker(kind grid.MutationKind) (Model, tea.Cmd) {
	if m.ctl.Pending() != nil {
		return m, m.fail(grid.ErrMutationPending)
	}
	if m.ctl.SelectedCount() == 0 {
		return m, m.fail(grid.ErrNoSelection)
	}
	var targets []grid.ViewInfo
	for _, v := range m.ctl.Views() {
		if v.ID != m.ctl.ViewID() {
			targets = append(targets, v)
		}
	}
	if len(targets) == 0 {
		return m, m.fail(grid.ErrNoTargetView)
	}
	m.picker = picker{action: kind, views: targets}
	m.mode = modePicker
	return m, nil
}

func (m Model) openViewPicker() (Model, tea.Cmd) {
	views := m.ctl.Views()
	if len(views) == 0 {
		return m, nil
	}
	m.picker = picker{action: pickSwitch, views: views}
	for i, v := range views {
		if v.ID == m.ctl.ViewID() {
			m.picker.cursor = i
		}
	}
	m.mode = modePicker
	return m, nil
}

func (p picker) title() string {
	switch p.action {
	case grid.MutationMove:
		return "Move selection to"
	case grid.MutationCopy:
		return "Copy selection to"
	}
	return "Switch view"
}

func (m Model) updatePicker(msg tea.KeyMsg) (Model, tea.Cmd) {
	p := &m.picker
	switch msg.String() {
	case "up", "k":
		if p.cursor > 0 {
			p.cursor--
		}
	case "down", "j":
		if p.cursor < len(p.views)-1 {
			p.cursor++
		}
	case "esc", "q":
		m.mode = modeNormal
	case "enter":
		m.mode = modeNormal
		target := p.views[p.cursor]
		switch p.action {
		case pickSwitch:
			if target.ID == m.ctl.ViewID() {
				return m, nil
			}
			m.scrollX = 0
			return m, m.fetch(m.ctl.SwitchView(target.ID))
		case grid.MutationMove:
			return m.begin(m.ctl.BeginMove(target.ID))
		case grid.MutationCopy:
			return m.begin(m.ctl.BeginCopy(target.ID))
		}
	}
	return m, nil
}

// begin dispatches a mutation the controller accepted.
func (m Model) begin(mu *grid.Mutation, err error) (Model, tea.Cmd) {
	if err != nil {
		return m, m.fail(err)
	}
	return m, tea.Batch(m.mutate(mu), m.spinner.Tick)
}

// ═══════════════════════════════════════════════════════════════════════════
// Confirmation
// ═══════════════════════════════════════════════════════════════════════════

type confirmation struct {
	prompt string
	run    func(Model) (Model, tea.Cmd)
}

func (m Model) askDeleteRows() (Model, tea.Cmd) {
	n := m.ctl.SelectedCount()
	if n == 0 {
		return m, m.fail(grid.ErrNoSelection)
	}
	if m.ctl.Pending() != nil {
		return m, m.fail(grid.ErrMutationPending)
	}
	m.confirm = confirmation{
		prompt: fmt.Sprintf("Delete %d row(s) from every view of %s?", n, m.ctl.ProjectID()),
		run: func(m Model) (Model, tea.Cmd) {
			return m.begin(m.ctl.BeginDelete(true))
		},
	}
	m.mode = modeConfirm
	return m, nil
}

func (m Model) askDeleteView() (Model, tea.Cmd) {
	v, ok := m.ctl.View()
	if !ok {
		return m, nil
	}
	if v.Kind == grid.ViewSystem {
		return m, m.fail(grid.ErrSystemView)
	}
	m.confirm = confirmation{
		prompt: fmt.Sprintf("Delete view %q? Rows stay in the project.", v.Name),
		run: func(m Model) (Model, tea.Cmd) {
			return m.begin(m.ctl.BeginDeleteView(v.ID))
		},
	}
	m.mode = modeConfirm
	return m, nil
}

func (m Model) updateConfirm(msg tea.KeyMsg) (Model, tea.Cmd) {
	switch strings.ToLower(msg.String()) {
	case "y", "enter":
		m.mode = modeNormal
		return m.confirm.run(m)
	case "n", "esc", "q":
		m.mode = modeNormal
		return m, m.setStatus("Cancelled", false)
	}
	return m, nil
}

// ═══════════════════════════════════════════════════════════════════════════
// Text input (edit cell, new view)
// ═══════════════════════════════════════════════════════════════════════════

func (m Model) openInput(prompt, value string, onSubmit func(Model, string) (Model, tea.Cmd)) (Model, tea.Cmd) {
	m.input.Prompt = prompt + ": "
	m.input.SetValue(value)
	m.input.CursorEnd()
	m.onInput = onSubmit
	m.mode = modeInput
	return m, m.input.Focus()
}

func (m Model) openEditor() (Model, tea.Cmd) {
	col, ok := m.activeDataColumn()
	if !ok {
		return m, nil
	}
	row, ok := m.ctl.ActiveRow()
	if !ok {
		return m, nil
	}
	uid := row.UID
	return m.openInput(col, row.Value(col).Text(), func(m Model, text string) (Model, tea.Cmd) {
		return m.begin(m.ctl.BeginUpdate(uid, map[string]grid.Scalar{col: grid.ParseScalar(text)}))
	})
}

func (m Model) openNewView() (Model, tea.Cmd) {
	return m.openInput("New view name", "", func(m Model, name string) (Model, tea.Cmd) {
		name = strings.TrimSpace(name)
		if name == "" {
			return m, m.fail(errors.New("view name cannot be empty"))
		}
		return m.begin(m.ctl.BeginCreateView(name, "", visibleData(m.ctl)))
	})
}

func (m Model) updateInput(msg tea.KeyMsg) (Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEsc:
		m.mode = modeNormal
		m.input.Blur()
		return m, nil
	case tea.KeyEnter:
		m.mode = modeNormal
		m.input.Blur()
		submit := m.onInput
		m.onInput = nil
		if submit == nil {
			return m, nil
		}
		return submit(m, m.input.Value())
	}
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

// ═══════════════════════════════════════════════════════════════════════════
// Clipboard (yank)
// ═══════════════════════════════════════════════════════════════════════════

// yankCell copies the active cell value to the system clipboard.
func (m *Model) yankCell() tea.Cmd {
	col, ok := m.activeDataColumn()
	if !ok {
		return nil
	}
	row, _ := m.ctl.ActiveRow()
	val := row.Value(col).Text()
	if err := clipboard.WriteAll(val); err != nil {
		return m.setStatus(fmt.Sprintf("clipboard error: %s", err), true)
	}
	return m.setStatus(fmt.Sprintf("Copied: %s", table.Truncate(val, 40)), false)
}

// yankRow copies the active row's visible cells, tab-separated.
func (m *Model) yankRow() tea.Cmd {
	row, ok := m.ctl.ActiveRow()
	if !ok {
		return nil
	}
	ids := visibleData(m.ctl)
	vals := make([]string, len(ids))
	for i, id := range ids {
		vals[i] = row.Value(id).Text()
	}
	if err := clipboard.WriteAll(strings.Join(vals, "\t")); err != nil {
		return m.setStatus(fmt.Sprintf("clipboard error: %s", err), true)
	}
	return m.setStatus(fmt.Sprintf("Copied row (%d columns)", len(vals)), false)
}
