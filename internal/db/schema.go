package db

import (
	"context"
	"fmt"
	"strconv"
)

// Schema version for migrations
const SchemaVersion = 1

// InitSchema creates the dealgrid tables in the database
func (db *DB) InitSchema(ctx context.Context) error {
	// Create tables in order (respecting foreign keys)
	if err := db.createProjectsTable(ctx); err != nil {
		return err
	}
	if err := db.createRowsTable(ctx); err != nil {
		return err
	}
	if err := db.createViewsTable(ctx); err != nil {
		return err
	}
	if err := db.createViewRowsTable(ctx); err != nil {
		return err
	}
	if err := db.EnsureMetadataTable(ctx); err != nil {
		return err
	}

	return db.SetMetadata(ctx, MetaKeySchemaVersion, strconv.Itoa(SchemaVersion))
}

func (db *DB) createProjectsTable(ctx context.Context) error {
	// columns keeps the display order of the data fields; jsonb objects
	// do not preserve key order.
	sql := `
	CREATE TABLE IF NOT EXISTS dg_projects (
		id          TEXT PRIMARY KEY,
		name        TEXT NOT NULL,
		columns     TEXT[] NOT NULL DEFAULT '{}',
		created_at  TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`

	if err := db.Exec(ctx, sql); err != nil {
		return fmt.Errorf("failed to create dg_projects: %w", err)
	}

	return nil
}

func (db *DB) createRowsTable(ctx context.Context) error {
	// list_id is the system view the row lives in; NULL means the row is
	// only reachable through custom views.
	sql := `
	CREATE TABLE IF NOT EXISTS dg_rows (
		project_id  TEXT NOT NULL REFERENCES dg_projects(id) ON DELETE CASCADE,
		uid         TEXT NOT NULL,
		seq         BIGINT GENERATED ALWAYS AS IDENTITY,
		list_id     TEXT,
		data        JSONB NOT NULL DEFAULT '{}'::jsonb,
		PRIMARY KEY (project_id, uid)
	)`

	if err := db.Exec(ctx, sql); err != nil {
		return fmt.Errorf("failed to create dg_rows: %w", err)
	}

	_ = db.Exec(ctx, "CREATE INDEX IF NOT EXISTS idx_rows_list ON dg_rows(project_id, list_id, seq)")

	return nil
}

func (db *DB) createViewsTable(ctx context.Context) error {
	sql := `
	CREATE TABLE IF NOT EXISTS dg_views (
		project_id       TEXT NOT NULL REFERENCES dg_projects(id) ON DELETE CASCADE,
		id               TEXT NOT NULL,
		name             TEXT NOT NULL,
		icon             TEXT NOT NULL DEFAULT '',
		visible_columns  TEXT[],
		created_at       TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		PRIMARY KEY (project_id, id)
	)`

	if err := db.Exec(ctx, sql); err != nil {
		return fmt.Errorf("failed to create dg_views: %w", err)
	}

	return nil
}

func (db *DB) createViewRowsTable(ctx context.Context) error {
	sql := `
	CREATE TABLE IF NOT EXISTS dg_view_rows (
		project_id  TEXT NOT NULL,
		view_id     TEXT NOT NULL,
		uid         TEXT NOT NULL,
		PRIMARY KEY (project_id, view_id, uid),
		FOREIGN KEY (project_id, view_id) REFERENCES dg_views(project_id, id) ON DELETE CASCADE,
		FOREIGN KEY (project_id, uid) REFERENCES dg_rows(project_id, uid) ON DELETE CASCADE
	)`

	if err := db.Exec(ctx, sql); err != nil {
		return fmt.Errorf("failed to create dg_view_rows: %w", err)
	}

	return nil
}

// SchemaExists checks if the dealgrid schema exists
func (db *DB) SchemaExists(ctx context.Context) (bool, error) {
	var exists bool
	err := db.QueryRow(ctx, `
		SELECT EXISTS (
			SELECT FROM information_schema.tables
			WHERE table_name = 'dg_rows'
		)
	`).Scan(&exists)
	return exists, err
}

// DropSchema drops all dealgrid tables (use with caution!)
func (db *DB) DropSchema(ctx context.Context) error {
	tables := []string{
		"dg_metadata",
		"dg_view_rows",
		"dg_views",
		"dg_rows",
		"dg_projects",
	}

	for _, table := range tables {
		if err := db.Exec(ctx, fmt.Sprintf("DROP TABLE IF EXISTS %s CASCADE", table)); err != nil {
			return fmt.Errorf("failed to drop %s: %w", table, err)
		}
	}

	return nil
}
