package db

import (
	"context"
	"errors"
	"fmt"

	"github.com/dealflow/dealgrid/internal/grid"
	"github.com/dealflow/dealgrid/internal/util"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// CreateProject inserts an empty project
func (db *DB) CreateProject(ctx context.Context, id, name string) (Project, error) {
	if err := validateProjectID(id); err != nil {
		return Project{}, err
	}
	if name == "" {
		name = id
	}

	p := Project{ID: id, Name: name}
	err := db.QueryRow(ctx, `
		INSERT INTO dg_projects (id, name) VALUES ($1, $2)
		RETURNING created_at
	`, id, name).Scan(&p.CreatedAt)

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == "23505" {
		return Project{}, fmt.Errorf("%w: %s", util.ErrProjectExists, id)
	}
	if err != nil {
		return Project{}, err
	}
	return p, nil
}

// ListProjects returns all projects with their total row counts
func (db *DB) ListProjects(ctx context.Context) ([]Project, error) {
	rows, err := db.Query(ctx, `
		SELECT p.id, p.name, p.columns, p.created_at,
		       (SELECT COUNT(*) FROM dg_rows r WHERE r.project_id = p.id)
		FROM dg_projects p
		ORDER BY p.created_at, p.id
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var projects []Project
	for rows.Next() {
		var p Project
		if err := rows.Scan(&p.ID, &p.Name, &p.Columns, &p.CreatedAt, &p.RowCount); err != nil {
			return nil, err
		}
		projects = append(projects, p)
	}
	return projects, rows.Err()
}

// projectColumns returns the column order of a project, failing with
// grid.ErrProjectNotFound for unknown ids.
func projectColumns(ctx context.Context, q querier, projectID string) ([]string, error) {
	var columns []string
	err := q.QueryRow(ctx, "SELECT columns FROM dg_projects WHERE id = $1", projectID).Scan(&columns)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("%w: %s", grid.ErrProjectNotFound, projectID)
	}
	return columns, err
}

// ListColumns returns the data columns of a project in display order
func (db *DB) ListColumns(ctx context.Context, projectID string) ([]string, error) {
	return projectColumns(ctx, db.pool, projectID)
}

// querier is the subset of pgxpool.Pool and pgx.Tx the helpers need.
type querier interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}
