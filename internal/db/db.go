// Package db provides optional PostgreSQL persistence for the ingestion audit log.
package db

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
)

// DB wraps a PostgreSQL connection pool
type DB struct {
	pool *pgxpool.Pool
}

// Connect establishes a connection pool to the database
func Connect(ctx context.Context, databaseURL string) (*DB, error) {
	pool, err := pgxpool.New(ctx, databaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	// Verify connection
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return &DB{pool: pool}, nil
}

// Close closes the connection pool
func (db *DB) Close() {
	if db.pool != nil {
		db.pool.Close()
	}
}

const schemaSQL = `
CREATE TABLE IF NOT EXISTS ingestion_runs (
	id                UUID PRIMARY KEY,
	trigger           TEXT NOT NULL,
	status            TEXT NOT NULL,
	penal_code_length INTEGER NOT NULL DEFAULT 0,
	penal_code_hash   TEXT NOT NULL DEFAULT '',
	reference_length  INTEGER NOT NULL DEFAULT 0,
	reference_hash    TEXT NOT NULL DEFAULT '',
	error_message     TEXT,
	started_at        TIMESTAMPTZ NOT NULL,
	completed_at      TIMESTAMPTZ NOT NULL
);
CREATE INDEX IF NOT EXISTS ingestion_runs_started_at_idx ON ingestion_runs (started_at DESC);
`

// EnsureSchema creates the audit tables if they do not exist yet.
func (db *DB) EnsureSchema(ctx context.Context) error {
	if _, err := db.pool.Exec(ctx, schemaSQL); err != nil {
		return fmt.Errorf("failed to ensure schema: %w", err)
	}
	return nil
}
