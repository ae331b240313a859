package gridview

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/dealflow/dealgrid/internal/grid"
	"github.com/dealflow/dealgrid/internal/ui/styles"
	"github.com/dealflow/dealgrid/internal/ui/table"
	"github.com/mattn/go-runewidth"
)

// Selection column marks.
const (
	markNone = "□"
	markSome = "▣"
	markAll  = "■"
)

// rowLines is the height of the row area in terminal lines.
func (m Model) rowLines() int {
	n := m.height - chrome
	if m.showHelp {
		n -= helpHeight() - 1
	}
	return max(n, 1)
}

func helpHeight() int {
	h := 0
	for _, group := range keys.FullHelp() {
		h = max(h, len(group))
	}
	return h
}

// regions splits the visible columns into the sticky left group, the
// scrolling center and the sticky right group.
func (m Model) regions() (left, center, right []grid.Layout) {
	for _, l := range m.ctl.Columns().Layouts() {
		switch {
		case l.Sticky && l.Pinned == grid.PinRight:
			right = append(right, l)
		case l.Sticky:
			left = append(left, l)
		default:
			center = append(center, l)
		}
	}
	return left, center, right
}

func widthOf(ls []grid.Layout) int {
	w := 0
	for _, l := range ls {
		w += l.Width
	}
	return w
}

// centerWidth is the number of cells left for the unpinned columns.
func (m Model) centerWidth() int {
	left, _, right := m.regions()
	return max(m.width-widthOf(left)-widthOf(right), 0)
}

func (m Model) maxScrollX() int {
	_, center, _ := m.regions()
	return max(widthOf(center)-m.centerWidth(), 0)
}

// ensureColumnVisible scrolls horizontally until the active column is on
// screen. Pinned columns never need it.
func (m *Model) ensureColumnVisible() {
	pos, ok := m.ctl.ActiveCell()
	_, center, _ := m.regions()
	if ok {
		x := 0
		for _, l := range center {
			if l.ID != pos.Column {
				x += l.Width
				continue
			}
			view := m.centerWidth()
			end := x + l.Width
			if x < m.scrollX {
				m.scrollX = x
			} else if end > m.scrollX+view {
				if l.Width <= view {
					m.scrollX = end - view
				} else {
					m.scrollX = x
				}
			}
			break
		}
	}
	m.scrollX = min(max(m.scrollX, 0), m.maxScrollX())
}

// ═══════════════════════════════════════════════════════════════════════════
// ANSI-aware Viewport Slicing
// ═══════════════════════════════════════════════════════════════════════════

// applyViewport extracts a horizontal slice of a string, handling ANSI escape
// codes and wide runes. It returns the portion of the string from visual
// column startX with the given width, padded with spaces.
func applyViewport(s string, startX, width int) string {
	if width <= 0 {
		return ""
	}
	if startX < 0 {
		startX = 0
	}

	var result strings.Builder
	result.Grow(width + 64)

	visualPos := 0
	outputCells := 0
	stylesApplied := false
	inEscape := false
	var escapeSeq strings.Builder
	var activeStyles []string

	runes := []rune(s)
	for i := 0; i < len(runes) && outputCells < width; i++ {
		r := runes[i]

		if r == '\x1b' && i+1 < len(runes) && runes[i+1] == '[' {
			inEscape = true
			escapeSeq.Reset()
			escapeSeq.WriteRune(r)
			continue
		}

		if inEscape {
			escapeSeq.WriteRune(r)
			if (r >= 'A' && r <= 'Z') || (r >= 'a' && r <= 'z') {
				inEscape = false
				seq := escapeSeq.String()
				if r == 'm' {
					if seq == "\x1b[0m" || seq == "\x1b[m" {
						activeStyles = nil
					} else {
						activeStyles = append(activeStyles, seq)
					}
				}
				if visualPos >= startX {
					result.WriteString(seq)
				}
			}
			continue
		}

		rw := runewidth.RuneWidth(r)
		switch {
		case visualPos >= startX && outputCells+rw <= width:
			if !stylesApplied {
				for _, style := range activeStyles {
					result.WriteString(style)
				}
				stylesApplied = true
			}
			result.WriteRune(r)
			outputCells += rw
		case visualPos < startX && visualPos+rw > startX:
			// wide rune cut by the left edge
			result.WriteString(strings.Repeat(" ", visualPos+rw-startX))
			outputCells += visualPos + rw - startX
		case visualPos >= startX:
			// wide rune cut by the right edge
			result.WriteString(strings.Repeat(" ", width-outputCells))
			outputCells = width
		}
		visualPos += rw
	}

	if len(activeStyles) > 0 && outputCells > 0 {
		result.WriteString("\x1b[0m")
	}
	if outputCells < width {
		result.WriteString(strings.Repeat(" ", width-outputCells))
	}
	return result.String()
}

// ═══════════════════════════════════════════════════════════════════════════
// View
// ═══════════════════════════════════════════════════════════════════════════

func (m Model) View() string {
	if !m.ready {
		return "Loading..."
	}

	var sb strings.Builder
	sb.WriteString(m.renderTitle())
	sb.WriteString("\n")
	sb.WriteString(m.renderSearchBar())
	sb.WriteString("\n")

	switch m.mode {
	case modeFilter:
		sb.WriteString(m.renderFilter())
	case modePicker:
		sb.WriteString(m.renderPicker())
	default:
		sb.WriteString(m.renderTable())
	}

	sb.WriteString("\n")
	sb.WriteString(m.renderFooter())
	return sb.String()
}

func (m Model) renderTitle() string {
	title := m.opts.Title
	if title == "" {
		title = m.ctl.ProjectID()
	}
	var parts []string
	parts = append(parts, styles.Render(styles.Bold, title))

	for _, v := range m.ctl.Views() {
		label := fmt.Sprintf("%s (%d)", v.Name, v.RowCount)
		if v.ID == m.ctl.ViewID() {
			label = styles.Render(styles.Underline, styles.View(label, v.Kind == grid.ViewSystem))
		} else {
			label = styles.Mute(label)
		}
		parts = append(parts, label)
	}

	rows := fmt.Sprintf("%d/%d rows", m.ctl.RowCount(), m.ctl.TotalRows())
	if n := m.ctl.SelectedCount(); n > 0 {
		rows += fmt.Sprintf(", %d selected", n)
	}
	parts = append(parts, styles.Mute(rows))

	if m.ctl.Loading() || m.ctl.Pending() != nil {
		parts = append(parts, m.spinner.View())
	}
	return strings.Join(parts, "  ")
}

func (m Model) renderSearchBar() string {
	if m.mode == modeSearch {
		return m.search.View()
	}
	var parts []string
	if q := m.ctl.Filters().Global(); q != "" {
		parts = append(parts, "search: "+q)
	}
	for _, col := range m.ctl.Filters().FilteredColumns() {
		vals, _ := m.ctl.Filters().Values(col)
		parts = append(parts, fmt.Sprintf("%s %s=%d", styles.SymbolFilter, col, len(vals)))
	}
	for i, k := range m.ctl.Sorting() {
		parts = append(parts, fmt.Sprintf("%d.%s %s", i+1, k.ColumnID, k.Direction))
	}
	return styles.Mute(strings.Join(parts, "  "))
}

func (m Model) renderFooter() string {
	switch {
	case m.statusMsg != "" && time.Now().Before(m.statusUntil):
		if m.statusErr {
			return styles.ErrorMsg(m.statusMsg)
		}
		return styles.SuccessMsg(m.statusMsg)
	case m.ctl.FetchErr() != nil:
		return styles.ErrorMsg(m.ctl.FetchErr().Error())
	case m.mode == modeSearch:
		return styles.MutedMsg("enter confirm  esc clear")
	case m.mode == modeFilter:
		return styles.MutedMsg("space toggle  a all  enter apply  esc cancel")
	case m.mode == modePicker:
		return styles.MutedMsg("↑↓ choose  enter confirm  esc cancel")
	case m.mode == modeConfirm:
		return styles.WarningMsg(m.confirm.prompt + " [y/N]")
	case m.mode == modeInput:
		return m.input.View()
	case m.mode == modeDrag:
		return styles.MutedMsg("←→ choose position  enter drop  esc cancel")
	case m.showHelp:
		return m.help.FullHelpView(keys.FullHelp())
	}
	return m.help.ShortHelpView(keys.ShortHelp())
}

// ═══════════════════════════════════════════════════════════════════════════
// Render Table
// ═══════════════════════════════════════════════════════════════════════════

func (m Model) renderTable() string {
	left, center, right := m.regions()
	if len(left)+len(center)+len(right) == 0 {
		return "No columns"
	}
	centerWidth := m.centerWidth()

	line := func(render func([]grid.Layout) string) string {
		var sb strings.Builder
		sb.WriteString(render(left))
		sb.WriteString(applyViewport(render(center), m.scrollX, centerWidth))
		sb.WriteString(render(right))
		return sb.String()
	}

	var sb strings.Builder
	sb.WriteString(line(m.headerCells))
	sb.WriteString("\n")
	sb.WriteString(line(separatorCells))
	sb.WriteString("\n")

	var lines []string
	pos, active := m.ctl.ActiveCell()
	w, rows := m.ctl.WindowRows()
	h := m.ctl.Virtualizer().RowHeight()
	for i, row := range rows {
		index := w.StartIndex + i
		isActive := active && pos.Row == index
		l := line(func(ls []grid.Layout) string {
			return m.rowCells(ls, row, isActive, pos.Column)
		})
		lines = append(lines, l)
		for range h - 1 {
			lines = append(lines, "")
		}
	}

	viewport := m.rowLines()
	from := max(m.ctl.Virtualizer().ScrollOffset()-w.TopOffset, 0)
	to := min(from+viewport, len(lines))
	if from < to {
		sb.WriteString(strings.Join(lines[from:to], "\n"))
	}
	if m.ctl.RowCount() == 0 {
		sb.WriteString(styles.MutedMsg("No rows"))
	}
	for range viewport - max(to-from, 1) {
		sb.WriteString("\n")
	}
	return sb.String()
}

func (m Model) headerCells(ls []grid.Layout) string {
	var sb strings.Builder
	sorting := m.ctl.Sorting()
	filtered := m.ctl.Filters()
	active, _ := m.activeColumn()

	for _, l := range ls {
		var label string
		if l.IsSelection() {
			switch m.ctl.AllSelectedState() {
			case grid.SelectAll:
				label = markAll
			case grid.SelectSome:
				label = markSome
			default:
				label = markNone
			}
		} else {
			label = l.ID
			if i, dir, ok := sorting.Find(l.ID); ok {
				sym := styles.SymbolAsc
				if dir == grid.Descending {
					sym = styles.SymbolDesc
				}
				if len(sorting) > 1 {
					sym += fmt.Sprint(i + 1)
				}
				label += " " + sym
			}
			if _, ok := filtered.Values(l.ID); ok {
				label += " " + styles.SymbolFilter
			}
		}

		cell := table.PadOrTruncate(label, l.Width-1) + " "
		style := styles.HeaderStyle
		switch {
		case m.ctl.Drag().Dragging(l.ID):
			style = styles.DragStyle
		case m.mode == modeDrag && m.ctl.Drag().Over() == l.ID:
			style = styles.DragStyle.Underline(true)
		case l.ID == active.ID && !l.IsSelection():
			style = styles.HeaderStyle.Foreground(styles.Accent)
		case l.Pinned != grid.PinNone:
			style = styles.PinnedHeaderStyle
		}
		sb.WriteString(styles.Render(style, cell))
	}
	return sb.String()
}

func separatorCells(ls []grid.Layout) string {
	var sb strings.Builder
	for _, l := range ls {
		sb.WriteString(styles.Mute(strings.Repeat("─", max(l.Width-1, 0)) + " "))
	}
	return sb.String()
}

func (m Model) rowCells(ls []grid.Layout, row grid.Row, activeRow bool, activeCol string) string {
	var sb strings.Builder
	selected := m.ctl.IsSelected(row.UID)
	for _, l := range ls {
		var text string
		if l.IsSelection() {
			text = markNone
			if selected {
				text = markAll
			}
		} else {
			text = table.CellText(row, l.ID)
		}
		cell := table.PadOrTruncate(text, l.Width-1) + " "

		switch {
		case activeRow && l.ID == activeCol:
			sb.WriteString(styles.Render(styles.ActiveCellStyle, cell))
		case activeRow || selected:
			sb.WriteString(styles.Render(styles.SelectedStyle, cell))
		default:
			sb.WriteString(cell)
		}
	}
	return sb.String()
}

// ═══════════════════════════════════════════════════════════════════════════
// Popovers
// ═══════════════════════════════════════════════════════════════════════════

func (m Model) renderFilter() string {
	p := m.filter
	var sb strings.Builder
	sb.WriteString(styles.SectionHeader(fmt.Sprintf("Filter %s", p.column)))
	sb.WriteString("\n")

	lines := m.rowLines()
	start := max(p.cursor-lines+1, 0)
	end := min(start+lines, len(p.values))
	for i := start; i < end; i++ {
		v := p.values[i]
		box := "[ ]"
		if p.checked[v] {
			box = "[x]"
		}
		label := v
		if label == "" {
			label = emptyValue
		}
		text := fmt.Sprintf("%s %s", box, table.Truncate(label, m.width-6))
		if i == p.cursor {
			text = styles.Render(styles.SelectedStyle, text)
		}
		sb.WriteString("  " + text + "\n")
	}
	return sb.String()
}

func (m Model) renderPicker() string {
	p := m.picker
	var sb strings.Builder
	sb.WriteString(styles.SectionHeader(p.title()))
	sb.WriteString("\n")
	for i, v := range p.views {
		name := table.PadOrTruncate(v.Name, 24)
		text := styles.View(name, v.Kind == grid.ViewSystem) + " " + styles.Count(v.RowCount)
		if v.ID == m.ctl.ViewID() {
			text += styles.Mute("  (current)")
		}
		cursor := "  "
		if i == p.cursor {
			cursor = lipgloss.NewStyle().Foreground(styles.Accent).Render(styles.SymbolArrow + " ")
		}
		sb.WriteString(cursor + text + "\n")
	}
	return sb.String()
}
