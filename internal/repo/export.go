package repo

import (
	"context"
	"fmt"
	"strings"

	"github.com/dealflow/dealgrid/internal/grid"
	"github.com/dealflow/dealgrid/internal/util"
)

// ColumnFilter restricts one column to a value set.
type ColumnFilter struct {
	Column string
	Values []string
}

// ExportOptions is the headless equivalent of the grid's filter, search
// and sort controls.
type ExportOptions struct {
	Filters []ColumnFilter
	Search  string
	Sort    []grid.SortKey
	// Columns limits and orders the output; empty means the view's
	// visible columns.
	Columns []string
}

// ParseFilter parses "col=a,b". "col=" keeps only empty cells.
func ParseFilter(s string) (ColumnFilter, error) {
	col, vals, ok := strings.Cut(s, "=")
	col = strings.TrimSpace(col)
	if !ok || col == "" {
		return ColumnFilter{}, fmt.Errorf("%w: filter %q, want col=value[,value]", util.ErrInvalidColumnArg, s)
	}
	values := util.SplitList(vals)
	if len(values) == 0 {
		values = []string{""}
	}
	return ColumnFilter{Column: col, Values: values}, nil
}

// ParseSort parses "col" or "col:asc" / "col:desc".
func ParseSort(s string) (grid.SortKey, error) {
	col, dir, _ := strings.Cut(s, ":")
	col = strings.TrimSpace(col)
	if col == "" {
		return grid.SortKey{}, fmt.Errorf("%w: sort %q", util.ErrInvalidColumnArg, s)
	}
	key := grid.SortKey{ColumnID: col}
	switch strings.ToLower(strings.TrimSpace(dir)) {
	case "", "asc":
	case "desc":
		key.Direction = grid.Descending
	default:
		return grid.SortKey{}, fmt.Errorf("%w: sort direction %q, want asc or desc", util.ErrInvalidColumnArg, dir)
	}
	return key, nil
}

// Export loads a view and runs it through the same pipeline the grid
// uses. It returns the output columns and the ordered rows.
func (r *Repository) Export(ctx context.Context, projectID, viewID string, opts ExportOptions) ([]string, []grid.Row, error) {
	ctl, err := r.Load(ctx, projectID, viewID)
	if err != nil {
		return nil, nil, err
	}

	for _, f := range opts.Filters {
		if !ctl.SetFilter(f.Column, f.Values) {
			return nil, nil, unknownColumn(ctl, f.Column)
		}
	}
	ctl.SetGlobalFilter(opts.Search)
	for _, k := range opts.Sort {
		if !ctl.ToggleSort(k.ColumnID, true) {
			return nil, nil, unknownColumn(ctl, k.ColumnID)
		}
		if k.Direction == grid.Descending {
			ctl.ToggleSort(k.ColumnID, true)
		}
	}

	columns := opts.Columns
	if len(columns) == 0 {
		for _, id := range ctl.Columns().VisibleIDs() {
			if id != grid.SelectionColumnID {
				columns = append(columns, id)
			}
		}
	}
	return columns, ctl.Sequence(), nil
}

func unknownColumn(ctl *grid.Controller, col string) error {
	return util.NewError(fmt.Sprintf("Unknown column '%s'", col)).
		WithMessage("Columns: " + strings.Join(ctl.Columns().DataColumns(), ", ")).
		Wrap(util.ErrInvalidColumnArg)
}
