// Package table renders grid rows for non-interactive output: aligned
// plain text, JSON, and raw tab-separated values. Cell widths are measured
// in terminal cells, so wide and combining characters line up.
//
// `dealgrid export`, `dealgrid views list` and `dealgrid open` on a
// non-terminal all print through here.
package table

import (
	"io"
	"os"
	"strings"

	"github.com/dealflow/dealgrid/internal/grid"
	"github.com/dealflow/dealgrid/internal/util"
	"golang.org/x/term"
)

// NullText is how a null cell is shown in plain and raw output.
const NullText = ""

// DisplayOptions controls how results are rendered.
type DisplayOptions struct {
	// JSON outputs results as a JSON array of objects.
	JSON bool
	// Raw outputs results as tab-separated values (for piping).
	Raw bool
	// MaxWidth caps plain-table columns; 0 picks a cap from the terminal
	// when stdout is one, and no cap otherwise.
	MaxWidth int
	// WithUID adds the row uid as the first column.
	WithUID bool
}

// Cells converts rows to display strings for the given columns.
func Cells(rows []grid.Row, columns []string) [][]string {
	out := make([][]string, len(rows))
	for i, r := range rows {
		cells := make([]string, len(columns))
		for j, col := range columns {
			cells[j] = CellText(r, col)
		}
		out[i] = cells
	}
	return out
}

// CellText is the display text of one cell. Nulls render as NullText.
func CellText(r grid.Row, col string) string {
	switch col {
	case grid.FieldUID:
		return r.UID
	case grid.FieldListID:
		return r.ListID
	}
	v := r.Value(col)
	if v.IsNull() {
		return NullText
	}
	return util.CleanCell(v.Text())
}

// DisplayResults picks the right output mode based on options and
// environment, then writes the given columns of rows to w.
func DisplayResults(w io.Writer, columns []string, rows []grid.Row, opts DisplayOptions) error {
	if opts.WithUID {
		columns = append([]string{grid.FieldUID}, columns...)
	}

	if opts.JSON {
		return PrintJSONResults(w, columns, rows)
	}

	cells := Cells(rows, columns)
	if opts.Raw {
		for _, row := range cells {
			if _, err := io.WriteString(w, strings.Join(row, "\t")+"\n"); err != nil {
				return err
			}
		}
		return nil
	}

	maxWidth := opts.MaxWidth
	if maxWidth == 0 && w == io.Writer(os.Stdout) {
		maxWidth = terminalCap(len(columns))
	}
	return PrintPlainTable(w, columns, cells, maxWidth)
}

// terminalCap spreads the terminal width over the columns, never going
// below a readable minimum. It returns 0 when stdout is not a terminal.
func terminalCap(columns int) int {
	fd := int(os.Stdout.Fd())
	if !term.IsTerminal(fd) || columns == 0 {
		return 0
	}
	width, _, err := term.GetSize(fd)
	if err != nil {
		return 0
	}
	return max(width/columns-2, 12)
}
