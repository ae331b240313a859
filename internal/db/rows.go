package db

import (
	"context"
	"encoding/json"
	"fmt"
	"maps"

	"github.com/dealflow/dealgrid/internal/grid"
	"github.com/dealflow/dealgrid/internal/util"
	"github.com/jackc/pgx/v5"
)

// GetViewData returns the project's columns and the rows of one view in
// insertion order
func (db *DB) GetViewData(ctx context.Context, projectID, viewID string) (grid.ViewData, error) {
	columns, err := projectColumns(ctx, db.pool, projectID)
	if err != nil {
		return grid.ViewData{}, err
	}
	kind, err := viewKind(ctx, db.pool, projectID, viewID)
	if err != nil {
		return grid.ViewData{}, err
	}

	var rows pgx.Rows
	if kind == grid.ViewSystem {
		rows, err = db.Query(ctx, `
			SELECT uid, list_id, data FROM dg_rows
			WHERE project_id = $1 AND list_id = $2
			ORDER BY seq
		`, projectID, viewID)
	} else {
		rows, err = db.Query(ctx, `
			SELECT r.uid, r.list_id, r.data
			FROM dg_view_rows vr
			JOIN dg_rows r ON r.project_id = vr.project_id AND r.uid = vr.uid
			WHERE vr.project_id = $1 AND vr.view_id = $2
			ORDER BY r.seq
		`, projectID, viewID)
	}
	if err != nil {
		return grid.ViewData{}, err
	}
	defer rows.Close()

	data := grid.ViewData{Columns: columns}
	for rows.Next() {
		r, err := scanRow(rows)
		if err != nil {
			return grid.ViewData{}, err
		}
		data.Rows = append(data.Rows, r)
	}
	return data, rows.Err()
}

func scanRow(rows pgx.Rows) (grid.Row, error) {
	var (
		uid    string
		listID *string
		raw    []byte
	)
	if err := rows.Scan(&uid, &listID, &raw); err != nil {
		return grid.Row{}, err
	}
	var fields map[string]grid.Scalar
	if err := json.Unmarshal(raw, &fields); err != nil {
		return grid.Row{}, fmt.Errorf("row %s: %w", uid, err)
	}
	list := ""
	if listID != nil {
		list = *listID
	}
	return grid.NewRow(uid, list, fields), nil
}

// checkRows fails with grid.ErrRowNotFound unless every uid exists.
func checkRows(ctx context.Context, q querier, projectID string, uids []string) error {
	var n int
	err := q.QueryRow(ctx,
		"SELECT COUNT(*) FROM dg_rows WHERE project_id = $1 AND uid = ANY($2)",
		projectID, uids).Scan(&n)
	if err != nil {
		return err
	}
	if n != len(uids) {
		return fmt.Errorf("%w: %d of %d rows missing", grid.ErrRowNotFound, len(uids)-n, len(uids))
	}
	return nil
}

// prepareTransfer validates a move or copy inside tx and returns the view
// kinds of source and target.
func prepareTransfer(ctx context.Context, tx pgx.Tx, projectID, viewID, targetViewID string, uids []string) (grid.ViewKind, grid.ViewKind, error) {
	if _, err := projectColumns(ctx, tx, projectID); err != nil {
		return "", "", err
	}
	src, err := viewKind(ctx, tx, projectID, viewID)
	if err != nil {
		return "", "", err
	}
	dst, err := viewKind(ctx, tx, projectID, targetViewID)
	if err != nil {
		return "", "", err
	}
	if viewID == targetViewID {
		return "", "", grid.ErrSameView
	}
	return src, dst, checkRows(ctx, tx, projectID, uids)
}

func addMembers(ctx context.Context, tx pgx.Tx, projectID, viewID string, uids []string) error {
	_, err := tx.Exec(ctx, `
		INSERT INTO dg_view_rows (project_id, view_id, uid)
		SELECT $1, $2, u FROM unnest($3::text[]) AS u
		ON CONFLICT DO NOTHING
	`, projectID, viewID, uids)
	return err
}

func removeMembers(ctx context.Context, tx pgx.Tx, projectID, viewID string, uids []string) error {
	_, err := tx.Exec(ctx,
		"DELETE FROM dg_view_rows WHERE project_id = $1 AND view_id = $2 AND uid = ANY($3)",
		projectID, viewID, uids)
	return err
}

// MoveRows takes rows out of viewID and puts them into targetViewID. A row
// moved from a system view into a custom view leaves the system lists.
func (db *DB) MoveRows(ctx context.Context, projectID, viewID string, uids []string, targetViewID string) error {
	uids = uniqueUIDs(uids)
	if len(uids) == 0 {
		return grid.ErrNoSelection
	}
	return db.WithTx(ctx, func(tx pgx.Tx) error {
		src, dst, err := prepareTransfer(ctx, tx, projectID, viewID, targetViewID, uids)
		if err != nil {
			return err
		}

		if dst == grid.ViewSystem {
			_, err = tx.Exec(ctx,
				"UPDATE dg_rows SET list_id = $3 WHERE project_id = $1 AND uid = ANY($2)",
				projectID, uids, targetViewID)
		} else {
			err = addMembers(ctx, tx, projectID, targetViewID, uids)
		}
		if err != nil {
			return err
		}

		if src == grid.ViewCustom {
			return removeMembers(ctx, tx, projectID, viewID, uids)
		}
		if dst == grid.ViewCustom {
			_, err = tx.Exec(ctx,
				"UPDATE dg_rows SET list_id = NULL WHERE project_id = $1 AND uid = ANY($2) AND list_id = $3",
				projectID, uids, viewID)
		}
		return err
	})
}

// CopyRows adds rows to targetViewID without touching viewID. A system
// list holds each row at most once, so rows that already sit in another
// system list are duplicated under a fresh uid.
func (db *DB) CopyRows(ctx context.Context, projectID, viewID string, uids []string, targetViewID string) error {
	uids = uniqueUIDs(uids)
	if len(uids) == 0 {
		return grid.ErrNoSelection
	}
	return db.WithTx(ctx, func(tx pgx.Tx) error {
		_, dst, err := prepareTransfer(ctx, tx, projectID, viewID, targetViewID, uids)
		if err != nil {
			return err
		}
		if dst == grid.ViewCustom {
			return addMembers(ctx, tx, projectID, targetViewID, uids)
		}

		_, err = tx.Exec(ctx,
			"UPDATE dg_rows SET list_id = $3 WHERE project_id = $1 AND uid = ANY($2) AND list_id IS NULL",
			projectID, uids, targetViewID)
		if err != nil {
			return err
		}

		rows, err := tx.Query(ctx,
			"SELECT uid FROM dg_rows WHERE project_id = $1 AND uid = ANY($2) AND list_id <> $3 ORDER BY seq",
			projectID, uids, targetViewID)
		if err != nil {
			return err
		}
		dups, err := pgx.CollectRows(rows, pgx.RowTo[string])
		if err != nil {
			return err
		}
		for _, uid := range dups {
			_, err := tx.Exec(ctx, `
				INSERT INTO dg_rows (project_id, uid, list_id, data)
				SELECT project_id, $3, $4, data FROM dg_rows
				WHERE project_id = $1 AND uid = $2
			`, projectID, uid, util.NewULID(), targetViewID)
			if err != nil {
				return err
			}
		}
		return nil
	})
}

// DeleteRows removes rows from the project and from every view
func (db *DB) DeleteRows(ctx context.Context, projectID string, uids []string) error {
	uids = uniqueUIDs(uids)
	if len(uids) == 0 {
		return grid.ErrNoSelection
	}
	return db.WithTx(ctx, func(tx pgx.Tx) error {
		if _, err := projectColumns(ctx, tx, projectID); err != nil {
			return err
		}
		if err := checkRows(ctx, tx, projectID, uids); err != nil {
			return err
		}
		_, err := tx.Exec(ctx,
			"DELETE FROM dg_rows WHERE project_id = $1 AND uid = ANY($2)",
			projectID, uids)
		return err
	})
}

// UpdateRow merges updates into one row. Unknown column names are added to
// the project.
func (db *DB) UpdateRow(ctx context.Context, projectID, uid string, updates map[string]grid.Scalar) error {
	if err := checkUpdates(updates); err != nil {
		return err
	}
	patch, err := json.Marshal(updates)
	if err != nil {
		return err
	}
	return db.WithTx(ctx, func(tx pgx.Tx) error {
		columns, err := projectColumns(ctx, tx, projectID)
		if err != nil {
			return err
		}
		tag, err := tx.Exec(ctx,
			"UPDATE dg_rows SET data = data || $3::jsonb WHERE project_id = $1 AND uid = $2",
			projectID, uid, patch)
		if err != nil {
			return err
		}
		if tag.RowsAffected() == 0 {
			return fmt.Errorf("%w: %s", grid.ErrRowNotFound, uid)
		}

		merged := mergeColumns(columns, []grid.Row{{Fields: maps.Clone(updates)}})
		if len(merged) == len(columns) {
			return nil
		}
		_, err = tx.Exec(ctx, "UPDATE dg_projects SET columns = $2 WHERE id = $1", projectID, merged)
		return err
	})
}

// InsertRows bulk-loads rows with COPY. Rows without a list id go to the
// longlist; rows without a uid get a fresh one.
func (db *DB) InsertRows(ctx context.Context, projectID string, rows []grid.Row) error {
	if len(rows) == 0 {
		return nil
	}
	return db.WithTx(ctx, func(tx pgx.Tx) error {
		columns, err := projectColumns(ctx, tx, projectID)
		if err != nil {
			return err
		}

		copyRows := make([][]any, len(rows))
		for i, r := range rows {
			uid := r.UID
			if uid == "" {
				uid = util.NewULID()
			}
			list := r.ListID
			if list == "" {
				list = grid.ViewLonglist
			}
			data, err := json.Marshal(r.Fields)
			if err != nil {
				return err
			}
			copyRows[i] = []any{projectID, uid, list, data}
		}

		_, err = tx.CopyFrom(
			ctx,
			pgx.Identifier{"dg_rows"},
			[]string{"project_id", "uid", "list_id", "data"},
			pgx.CopyFromRows(copyRows),
		)
		if err != nil {
			return err
		}

		merged := mergeColumns(columns, rows)
		if len(merged) == len(columns) {
			return nil
		}
		_, err = tx.Exec(ctx, "UPDATE dg_projects SET columns = $2 WHERE id = $1", projectID, merged)
		return err
	})
}
