package table

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/dealflow/dealgrid/internal/grid"
	"github.com/mattn/go-runewidth"
)

// PrintJSONResults writes rows as a JSON array of objects holding the
// requested columns with their natural JSON types.
func PrintJSONResults(w io.Writer, columns []string, rows []grid.Row) error {
	results := make([]map[string]any, len(rows))

	for i, r := range rows {
		obj := make(map[string]any, len(columns))
		for _, col := range columns {
			switch col {
			case grid.FieldUID:
				obj[col] = r.UID
			case grid.FieldListID:
				obj[col] = r.ListID
			default:
				obj[col] = r.Value(col)
			}
		}
		results[i] = obj
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(results)
}

// PrintPlainTable writes an aligned table. maxWidth > 0 truncates longer
// cells; 0 shows full content.
func PrintPlainTable(w io.Writer, colNames []string, rows [][]string, maxWidth int) error {
	if len(colNames) == 0 {
		_, err := fmt.Fprintln(w, "(0 rows)")
		return err
	}

	colWidths := make([]int, len(colNames))
	for i, name := range colNames {
		colWidths[i] = runewidth.StringWidth(name)
	}
	for _, row := range rows {
		for i, val := range row {
			if i < len(colWidths) {
				colWidths[i] = max(colWidths[i], runewidth.StringWidth(val))
			}
		}
	}
	if maxWidth > 0 {
		for i := range colWidths {
			colWidths[i] = min(colWidths[i], maxWidth)
		}
	}

	var sb strings.Builder

	// Header
	for i, name := range colNames {
		if i > 0 {
			sb.WriteString("  ")
		}
		sb.WriteString(PadOrTruncate(name, colWidths[i]))
	}
	sb.WriteString("\n")

	// Separator
	for i, width := range colWidths {
		if i > 0 {
			sb.WriteString("  ")
		}
		sb.WriteString(strings.Repeat("─", width))
	}
	sb.WriteString("\n")

	for _, row := range rows {
		for i := range colNames {
			if i > 0 {
				sb.WriteString("  ")
			}
			val := ""
			if i < len(row) {
				val = row[i]
			}
			sb.WriteString(PadOrTruncate(val, colWidths[i]))
		}
		sb.WriteString("\n")
	}

	fmt.Fprintf(&sb, "\n(%d rows)\n", len(rows))
	_, err := io.WriteString(w, sb.String())
	return err
}

// Truncate shortens a string to fit width cells, ending in "…" if cut.
func Truncate(s string, width int) string {
	if width <= 0 {
		return ""
	}
	if runewidth.StringWidth(s) <= width {
		return s
	}
	if width == 1 {
		return runewidth.Truncate(s, 1, "")
	}
	return runewidth.Truncate(s, width, "…")
}

// PadOrTruncate pads or truncates to exactly width cells.
func PadOrTruncate(s string, width int) string {
	return runewidth.FillRight(Truncate(s, width), width)
}
