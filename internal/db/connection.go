// Package db holds the data sources behind the grid: a PostgreSQL store
// built on pgxpool and an in-memory store for demos and tests.
package db

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// DB holds the database connection pool
type DB struct {
	pool     *pgxpool.Pool
	url      string
	mu       sync.RWMutex
	bulkGUCs []string // GUCs to apply to new connections during a bulk load
}

// Connect establishes a connection to the database with a full connection pool
func Connect(ctx context.Context, url string) (*DB, error) {
	config, err := pgxpool.ParseConfig(url)
	if err != nil {
		return nil, fmt.Errorf("invalid connection URL: %w", err)
	}

	// The grid issues at most two concurrent reads per refresh plus one
	// mutation, so a small pool is plenty.
	config.MaxConns = 8
	config.MinConns = 1
	config.MaxConnLifetime = time.Hour
	config.MaxConnIdleTime = 10 * time.Minute
	config.ConnConfig.RuntimeParams["application_name"] = "dealgrid"

	db := &DB{
		url: url,
	}

	// New connections opened during a bulk load pick up the same session
	// settings as the ones already in the pool.
	config.AfterConnect = func(ctx context.Context, conn *pgx.Conn) error {
		db.mu.RLock()
		gucs := db.bulkGUCs
		db.mu.RUnlock()

		for _, guc := range gucs {
			if _, err := conn.Exec(ctx, guc); err != nil {
				return fmt.Errorf("failed to set GUC %q on new connection: %w", guc, err)
			}
		}
		return nil
	}

	pool, err := pgxpool.NewWithConfig(ctx, config)
	if err != nil {
		return nil, fmt.Errorf("failed to connect: %w", err)
	}

	// Test connection
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	db.pool = pool

	return db, nil
}

// Close closes the database connection
func (db *DB) Close() {
	db.mu.Lock()
	defer db.mu.Unlock()
	if db.pool != nil {
		db.pool.Close()
		db.pool = nil
	}
}

// Pool returns the underlying connection pool
func (db *DB) Pool() *pgxpool.Pool {
	db.mu.RLock()
	defer db.mu.RUnlock()
	return db.pool
}

// Exec executes a query without returning rows
func (db *DB) Exec(ctx context.Context, sql string, args ...any) error {
	_, err := db.pool.Exec(ctx, sql, args...)
	return err
}

// Query executes a query and returns rows
func (db *DB) Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error) {
	return db.pool.Query(ctx, sql, args...)
}

// QueryRow executes a query and returns a single row
func (db *DB) QueryRow(ctx context.Context, sql string, args ...any) pgx.Row {
	return db.pool.QueryRow(ctx, sql, args...)
}

// WithTx executes a function within a transaction
func (db *DB) WithTx(ctx context.Context, fn func(tx pgx.Tx) error) error {
	tx, err := db.pool.Begin(ctx)
	if err != nil {
		return err
	}

	defer func() {
		if p := recover(); p != nil {
			_ = tx.Rollback(ctx)
			panic(p)
		}
	}()

	if err := fn(tx); err != nil {
		_ = tx.Rollback(ctx)
		return err
	}

	return tx.Commit(ctx)
}

// SetBulkGUCs relaxes commit durability on every pooled connection while
// seed data is loaded. Seeding can simply be rerun after a crash.
func (db *DB) SetBulkGUCs(ctx context.Context) error {
	gucs := []string{
		"SET synchronous_commit = off",
	}

	poolSize := int(db.pool.Stat().TotalConns())
	seen := make(map[uint32]bool)

	for i := 0; i < poolSize*2 && len(seen) < poolSize; i++ {
		err := db.pool.AcquireFunc(ctx, func(conn *pgxpool.Conn) error {
			connID := conn.Conn().PgConn().PID()
			if seen[connID] {
				return nil
			}
			seen[connID] = true
			for _, guc := range gucs {
				if _, err := conn.Exec(ctx, guc); err != nil {
					return fmt.Errorf("failed to set GUC %q: %w", guc, err)
				}
			}
			return nil
		})
		if err != nil {
			return fmt.Errorf("failed to set bulk GUCs: %w", err)
		}
	}

	db.mu.Lock()
	db.bulkGUCs = gucs
	db.mu.Unlock()

	return nil
}

// ResetBulkGUCs restores default session settings after a bulk load.
func (db *DB) ResetBulkGUCs(ctx context.Context) {
	db.mu.Lock()
	db.bulkGUCs = nil
	db.mu.Unlock()

	// Best-effort; pooled connections expire on their own.
	_ = db.Exec(ctx, "RESET synchronous_commit")
}

// URL returns the connection URL
func (db *DB) URL() string {
	return db.url
}

// Ping tests the database connection
func (db *DB) Ping(ctx context.Context) error {
	return db.pool.Ping(ctx)
}
