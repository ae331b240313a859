package repo

import (
	"context"
	"fmt"
	"slices"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/dealflow/dealgrid/internal/grid"
	"github.com/dealflow/dealgrid/internal/ui/styles"
	"github.com/dealflow/dealgrid/internal/util"
	"github.com/sergi/go-diff/diffmatchpatch"
	"golang.org/x/sync/errgroup"
)

// DiffOptions contains options for comparing two views
type DiffOptions struct {
	Context int    // Number of unchanged rows around each change
	Label   string // Column printed next to each uid (empty = first column)
}

// ViewDiff is the membership difference between two views of a project.
type ViewDiff struct {
	ProjectID string
	From, To  grid.ViewInfo
	Added     int
	Removed   int
	Common    int
	Hunks     []DiffHunk
}

// DiffHunk represents a single hunk in a diff
type DiffHunk struct {
	OldStart int
	OldCount int
	NewStart int
	NewCount int
	Lines    []DiffLine
}

// DiffLine represents a single line in a diff
type DiffLine struct {
	Type    DiffLineType
	Content string
}

// DiffLineType represents the type of a diff line
type DiffLineType int

const (
	DiffLineContext DiffLineType = iota
	DiffLineAdd
	DiffLineDelete
)

// DiffViews compares the rows of two views. Both are fetched concurrently;
// rows are listed in uid order, so the result is stable.
func (r *Repository) DiffViews(ctx context.Context, projectID, from, to string, opts DiffOptions) (*ViewDiff, error) {
	var a, b grid.ViewData
	var views []grid.ViewInfo

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		a, err = r.Store.GetViewData(gctx, projectID, from)
		return r.explain(projectID, from, err)
	})
	g.Go(func() (err error) {
		b, err = r.Store.GetViewData(gctx, projectID, to)
		return r.explain(projectID, to, err)
	})
	g.Go(func() (err error) {
		views, err = r.Store.ListViews(gctx, projectID)
		return r.explain(projectID, "", err)
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	label := opts.Label
	if label == "" && len(a.Columns) > 0 {
		label = a.Columns[0]
	}
	oldText := membershipText(a.Rows, label)
	newText := membershipText(b.Rows, label)

	d := &ViewDiff{ProjectID: projectID, From: viewInfo(views, from), To: viewInfo(views, to)}
	lines := diffLines(oldText, newText)
	for _, l := range lines {
		switch l.Type {
		case DiffLineAdd:
			d.Added++
		case DiffLineDelete:
			d.Removed++
		default:
			d.Common++
		}
	}
	d.Hunks = groupIntoHunks(lines, opts.Context)
	return d, nil
}

func viewInfo(views []grid.ViewInfo, id string) grid.ViewInfo {
	for _, v := range views {
		if v.ID == id {
			return v
		}
	}
	return grid.ViewInfo{ID: id, Name: id}
}

// membershipText renders one line per row, sorted by uid.
func membershipText(rows []grid.Row, label string) string {
	sorted := slices.Clone(rows)
	slices.SortFunc(sorted, func(x, y grid.Row) int { return strings.Compare(x.UID, y.UID) })

	var sb strings.Builder
	for _, row := range sorted {
		sb.WriteString(row.UID)
		if label != "" {
			sb.WriteString("  ")
			sb.WriteString(util.CleanCell(row.Value(label).Text()))
		}
		sb.WriteString("\n")
	}
	return sb.String()
}

// diffLines runs a line-mode diff between the two texts
func diffLines(oldText, newText string) []DiffLine {
	dmp := diffmatchpatch.New()

	// Convert to runes for proper Unicode handling
	oldRunes, newRunes, lineArray := dmp.DiffLinesToRunes(oldText, newText)
	diffs := dmp.DiffMainRunes(oldRunes, newRunes, false)
	diffs = dmp.DiffCharsToLines(diffs, lineArray)

	var lines []DiffLine
	for _, diff := range diffs {
		parts := strings.Split(diff.Text, "\n")
		for i, line := range parts {
			// Skip empty last line from split
			if i == len(parts)-1 && line == "" {
				continue
			}

			var lineType DiffLineType
			switch diff.Type {
			case diffmatchpatch.DiffEqual:
				lineType = DiffLineContext
			case diffmatchpatch.DiffInsert:
				lineType = DiffLineAdd
			case diffmatchpatch.DiffDelete:
				lineType = DiffLineDelete
			}
			lines = append(lines, DiffLine{Type: lineType, Content: line})
		}
	}
	return lines
}

// groupIntoHunks groups diff lines into hunks, keeping contextLines of
// unchanged rows around each change. Changes closer than twice the context
// share a hunk.
func groupIntoHunks(lines []DiffLine, contextLines int) []DiffHunk {
	keep := make([]bool, len(lines))
	for i, line := range lines {
		if line.Type == DiffLineContext {
			continue
		}
		for j := max(i-contextLines, 0); j <= min(i+contextLines, len(lines)-1); j++ {
			keep[j] = true
		}
	}

	var hunks []DiffHunk
	var current *DiffHunk
	oldLine, newLine := 1, 1

	for i, line := range lines {
		if keep[i] {
			if current == nil {
				current = &DiffHunk{OldStart: oldLine, NewStart: newLine}
			}
			current.Lines = append(current.Lines, line)
			switch line.Type {
			case DiffLineContext:
				current.OldCount++
				current.NewCount++
			case DiffLineAdd:
				current.NewCount++
			case DiffLineDelete:
				current.OldCount++
			}
		} else if current != nil {
			hunks = append(hunks, *current)
			current = nil
		}

		switch line.Type {
		case DiffLineContext:
			oldLine++
			newLine++
		case DiffLineAdd:
			newLine++
		case DiffLineDelete:
			oldLine++
		}
	}

	if current != nil {
		hunks = append(hunks, *current)
	}
	return hunks
}

// FormatDiff formats a view diff as a string
func FormatDiff(d *ViewDiff, noColor bool) string {
	var sb strings.Builder
	paint := func(style lipgloss.Style, s string) string {
		if noColor {
			return s
		}
		return style.Render(s)
	}

	header := fmt.Sprintf("diff --dealgrid %s/%s %s/%s", d.ProjectID, d.From.ID, d.ProjectID, d.To.ID)
	sb.WriteString(paint(styles.DiffFileHeader, header) + "\n")
	sb.WriteString(fmt.Sprintf("--- %s (%d rows)\n", d.From.Name, d.Removed+d.Common))
	sb.WriteString(fmt.Sprintf("+++ %s (%d rows)\n", d.To.Name, d.Added+d.Common))

	for _, hunk := range d.Hunks {
		sb.WriteString(paint(styles.DiffHunkHeader, fmt.Sprintf("@@ -%d,%d +%d,%d @@",
			hunk.OldStart, hunk.OldCount, hunk.NewStart, hunk.NewCount)) + "\n")

		for _, line := range hunk.Lines {
			switch line.Type {
			case DiffLineContext:
				sb.WriteString(paint(styles.DiffContextLine, " "+line.Content))
			case DiffLineAdd:
				sb.WriteString(paint(styles.DiffAddLine, "+"+line.Content))
			case DiffLineDelete:
				sb.WriteString(paint(styles.DiffRemoveLine, "-"+line.Content))
			}
			sb.WriteString("\n")
		}
	}

	sb.WriteString(fmt.Sprintf("%d only in %s, %d only in %s, %d in both\n",
		d.Removed, d.From.Name, d.Added, d.To.Name, d.Common))
	return sb.String()
}
