package db

import (
	"context"

	"github.com/dealflow/dealgrid/internal/grid"
	"golang.org/x/sync/errgroup"
)

// ProjectStats summarizes one project for `dealgrid project list --stats`.
type ProjectStats struct {
	Rows        int64
	Unlisted    int64 // rows reachable only through custom views
	ListCounts  map[string]int64
	CustomViews int64
	Memberships int64

	// Size from PostgreSQL (actual disk usage, whole tables)
	RowsTableSize  int64
	TotalIndexSize int64
}

// GetProjectStats runs the independent count queries concurrently
func (db *DB) GetProjectStats(ctx context.Context, projectID string) (*ProjectStats, error) {
	if _, err := projectColumns(ctx, db.pool, projectID); err != nil {
		return nil, err
	}

	stats := &ProjectStats{ListCounts: make(map[string]int64)}
	counts := make([]int64, len(grid.SystemViews))
	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		return db.QueryRow(ctx, `
			SELECT COUNT(*), COUNT(*) FILTER (WHERE list_id IS NULL)
			FROM dg_rows WHERE project_id = $1
		`, projectID).Scan(&stats.Rows, &stats.Unlisted)
	})

	for i, v := range grid.SystemViews {
		g.Go(func() error {
			return db.QueryRow(ctx,
				"SELECT COUNT(*) FROM dg_rows WHERE project_id = $1 AND list_id = $2",
				projectID, v.ID).Scan(&counts[i])
		})
	}

	g.Go(func() error {
		return db.QueryRow(ctx, `
			SELECT (SELECT COUNT(*) FROM dg_views WHERE project_id = $1),
			       (SELECT COUNT(*) FROM dg_view_rows WHERE project_id = $1)
		`, projectID).Scan(&stats.CustomViews, &stats.Memberships)
	})

	// Table sizes are informational only
	g.Go(func() error {
		_ = db.QueryRow(ctx, "SELECT pg_relation_size('dg_rows')").Scan(&stats.RowsTableSize)
		_ = db.QueryRow(ctx, `
			SELECT COALESCE(SUM(pg_relation_size(indexrelid)), 0)
			FROM pg_index
			WHERE indrelid IN (
				'dg_rows'::regclass,
				'dg_views'::regclass,
				'dg_view_rows'::regclass
			)
		`).Scan(&stats.TotalIndexSize)
		return nil
	})

	if err := g.Wait(); err != nil {
		return nil, err
	}
	for i, v := range grid.SystemViews {
		stats.ListCounts[v.ID] = counts[i]
	}
	return stats, nil
}
