package db

import (
	"context"
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/dealflow/dealgrid/internal/grid"
)

// Project is one independent row set with its own views.
type Project struct {
	ID        string
	Name      string
	Columns   []string
	RowCount  int
	CreatedAt time.Time
}

// Store is a grid.DataSource that can also manage projects. Both the
// Postgres DB and Memory implement it.
type Store interface {
	grid.DataSource

	CreateProject(ctx context.Context, id, name string) (Project, error)
	ListProjects(ctx context.Context) ([]Project, error)
	InsertRows(ctx context.Context, projectID string, rows []grid.Row) error
	Close()
}

var (
	_ Store = (*DB)(nil)
	_ Store = (*Memory)(nil)
)

// mergeColumns appends the field names of rows that columns does not list
// yet. New names are added in sorted order per row so seeding is stable.
func mergeColumns(columns []string, rows []grid.Row) []string {
	known := make(map[string]bool, len(columns))
	for _, c := range columns {
		known[c] = true
	}
	out := slices.Clone(columns)
	for _, r := range rows {
		var fresh []string
		for k := range r.Fields {
			if !known[k] {
				known[k] = true
				fresh = append(fresh, k)
			}
		}
		slices.Sort(fresh)
		out = append(out, fresh...)
	}
	return out
}

// checkUpdates rejects edits to the identity fields.
func checkUpdates(updates map[string]grid.Scalar) error {
	for k := range updates {
		if grid.IsReservedField(k) {
			return fmt.Errorf("%w: %s", grid.ErrReservedColumn, k)
		}
	}
	return nil
}

// uniqueUIDs drops empty and repeated uids, keeping first-seen order.
func uniqueUIDs(uids []string) []string {
	seen := make(map[string]bool, len(uids))
	out := make([]string, 0, len(uids))
	for _, uid := range uids {
		if uid == "" || seen[uid] {
			continue
		}
		seen[uid] = true
		out = append(out, uid)
	}
	return out
}

func validateViewName(name string) (string, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return "", fmt.Errorf("view name must not be empty")
	}
	return name, nil
}

// validateProjectID accepts short slug-like ids.
func validateProjectID(id string) error {
	if id == "" {
		return fmt.Errorf("project id must not be empty")
	}
	for _, r := range id {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9', r == '-', r == '_':
		default:
			return fmt.Errorf("invalid project id %q: use lowercase letters, digits, - and _", id)
		}
	}
	return nil
}
