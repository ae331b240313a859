package db

import (
	"context"
	"errors"
	"fmt"

	"github.com/dealflow/dealgrid/internal/grid"
	"github.com/dealflow/dealgrid/internal/util"
	"github.com/jackc/pgx/v5"
)

// viewKind resolves a view id within a project.
func viewKind(ctx context.Context, q querier, projectID, viewID string) (grid.ViewKind, error) {
	if grid.IsSystemView(viewID) {
		return grid.ViewSystem, nil
	}
	var one int
	err := q.QueryRow(ctx, "SELECT 1 FROM dg_views WHERE project_id = $1 AND id = $2", projectID, viewID).Scan(&one)
	if errors.Is(err, pgx.ErrNoRows) {
		return "", fmt.Errorf("%w: %s", grid.ErrViewNotFound, viewID)
	}
	if err != nil {
		return "", err
	}
	return grid.ViewCustom, nil
}

// ListViews returns the system views followed by custom views in creation
// order, each with its current row count
func (db *DB) ListViews(ctx context.Context, projectID string) ([]grid.ViewInfo, error) {
	if _, err := projectColumns(ctx, db.pool, projectID); err != nil {
		return nil, err
	}

	counts := make(map[string]int)
	rows, err := db.Query(ctx, `
		SELECT list_id, COUNT(*) FROM dg_rows
		WHERE project_id = $1 AND list_id IS NOT NULL
		GROUP BY list_id
	`, projectID)
	if err != nil {
		return nil, err
	}
	for rows.Next() {
		var id string
		var n int
		if err := rows.Scan(&id, &n); err != nil {
			rows.Close()
			return nil, err
		}
		counts[id] = n
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, err
	}

	views := make([]grid.ViewInfo, 0, len(grid.SystemViews))
	for _, v := range grid.SystemViews {
		v.RowCount = counts[v.ID]
		views = append(views, v)
	}

	rows, err = db.Query(ctx, `
		SELECT v.id, v.name, v.icon, v.visible_columns, COUNT(vr.uid)
		FROM dg_views v
		LEFT JOIN dg_view_rows vr ON vr.project_id = v.project_id AND vr.view_id = v.id
		WHERE v.project_id = $1
		GROUP BY v.id, v.name, v.icon, v.visible_columns, v.created_at
		ORDER BY v.created_at, v.id
	`, projectID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		v := grid.ViewInfo{Kind: grid.ViewCustom}
		if err := rows.Scan(&v.ID, &v.Name, &v.Icon, &v.VisibleColumns, &v.RowCount); err != nil {
			return nil, err
		}
		views = append(views, v)
	}
	return views, rows.Err()
}

// CreateView adds an empty custom view
func (db *DB) CreateView(ctx context.Context, projectID, name, icon string, visibleColumns []string) (grid.ViewInfo, error) {
	name, err := validateViewName(name)
	if err != nil {
		return grid.ViewInfo{}, err
	}
	if _, err := projectColumns(ctx, db.pool, projectID); err != nil {
		return grid.ViewInfo{}, err
	}

	v := grid.ViewInfo{
		ID:             util.NewCustomViewID(),
		Name:           name,
		Icon:           icon,
		Kind:           grid.ViewCustom,
		VisibleColumns: visibleColumns,
	}
	err = db.Exec(ctx, `
		INSERT INTO dg_views (project_id, id, name, icon, visible_columns)
		VALUES ($1, $2, $3, $4, $5)
	`, projectID, v.ID, v.Name, v.Icon, v.VisibleColumns)
	if err != nil {
		return grid.ViewInfo{}, err
	}
	return v, nil
}

// DeleteView removes a custom view and its memberships. The rows stay.
func (db *DB) DeleteView(ctx context.Context, projectID, viewID string) error {
	if grid.IsSystemView(viewID) {
		return fmt.Errorf("%w: %s", grid.ErrSystemView, viewID)
	}
	tag, err := db.pool.Exec(ctx, "DELETE FROM dg_views WHERE project_id = $1 AND id = $2", projectID, viewID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%w: %s", grid.ErrViewNotFound, viewID)
	}
	return nil
}
