// Package database provides the PostgreSQL pool backing the run journal.
package database

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/p-n-ai/pratico-importer/internal/platform/config"
)

// DB wraps a pgx connection pool.
type DB struct {
	Pool *pgxpool.Pool
}

// schema creates the journal tables. Statements are idempotent.
var schema = []string{
	`CREATE TABLE IF NOT EXISTS import_runs (
		run_id       TEXT PRIMARY KEY,
		dry_run      BOOLEAN     NOT NULL DEFAULT FALSE,
		started_at   TIMESTAMPTZ NOT NULL,
		finished_at  TIMESTAMPTZ NOT NULL,
		imported     INTEGER     NOT NULL DEFAULT 0,
		failed       INTEGER     NOT NULL DEFAULT 0,
		invalid      INTEGER     NOT NULL DEFAULT 0,
		topics_made  INTEGER     NOT NULL DEFAULT 0,
		error        TEXT        NOT NULL DEFAULT ''
	)`,
	`CREATE TABLE IF NOT EXISTS import_batches (
		run_id    TEXT    NOT NULL REFERENCES import_runs (run_id) ON DELETE CASCADE,
		position  INTEGER NOT NULL,
		file      TEXT    NOT NULL,
		records   INTEGER NOT NULL,
		topic     TEXT    NOT NULL DEFAULT '',
		topic_id  TEXT    NOT NULL DEFAULT '',
		status    TEXT    NOT NULL,
		accepted  INTEGER NOT NULL DEFAULT 0,
		error     TEXT    NOT NULL DEFAULT '',
		PRIMARY KEY (run_id, position)
	)`,
}

// ParseURL validates a PostgreSQL connection URL.
func ParseURL(url string) (*pgxpool.Config, error) {
	if url == "" {
		return nil, fmt.Errorf("database URL is empty")
	}
	cfg, err := pgxpool.ParseConfig(url)
	if err != nil {
		return nil, fmt.Errorf("invalid database URL: %w", err)
	}
	return cfg, nil
}

// New opens a pool sized by cfg and pings it.
func New(ctx context.Context, cfg config.DatabaseConfig) (*DB, error) {
	poolCfg, err := ParseURL(cfg.URL)
	if err != nil {
		return nil, err
	}

	if cfg.MaxConns > 0 {
		poolCfg.MaxConns = int32(cfg.MaxConns)
	}
	if cfg.MinConns > 0 {
		poolCfg.MinConns = int32(cfg.MinConns)
	}
	poolCfg.MaxConnIdleTime = time.Minute

	pool, err := pgxpool.NewWithConfig(ctx, poolCfg)
	if err != nil {
		return nil, fmt.Errorf("creating connection pool: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("pinging database: %w", err)
	}

	return &DB{Pool: pool}, nil
}

// EnsureSchema creates the journal tables if they are missing.
func (db *DB) EnsureSchema(ctx context.Context) error {
	for _, stmt := range schema {
		if _, err := db.Pool.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("applying journal schema: %w", err)
		}
	}
	return nil
}

// Close shuts down the connection pool.
func (db *DB) Close() {
	db.Pool.Close()
}
