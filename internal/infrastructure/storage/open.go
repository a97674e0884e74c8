// Package storage implements the repository ports over database/sql with a
// driver switch between sqlite (modernc.org/sqlite) and Postgres (lib/pq).
package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/lib/pq"
	_ "modernc.org/sqlite"

	"BlogPublisher/internal/config"
)

// DB bundles the sql handle with the driver-specific pieces the
// repositories share: the placeholder format for squirrel and the
// unique-violation test backing slug allocation.
type DB struct {
	sql               *sql.DB
	builder           sq.StatementBuilderType
	isUniqueViolation func(error) bool
}

// Open initializes the configured store and applies migrations.
func Open(cfg config.DatabaseConfig) (*DB, error) {
	switch strings.ToLower(strings.TrimSpace(cfg.Driver)) {
	case "", "sqlite", "sqlite3":
		return openSQLite(cfg.DSN)
	case "postgres", "postgresql":
		return openPostgres(cfg.DSN)
	default:
		return nil, fmt.Errorf("unknown database driver %q", cfg.Driver)
	}
}

func openSQLite(path string) (*DB, error) {
	if strings.TrimSpace(path) == "" {
		return nil, errors.New("sqlite path is required")
	}
	if dir := filepath.Dir(path); dir != "." && !strings.HasPrefix(path, ":") {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, err
		}
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	// SQLite prefers a single writer.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	_, _ = db.Exec("PRAGMA journal_mode = WAL")
	_, _ = db.Exec("PRAGMA busy_timeout = 5000")
	_, _ = db.Exec("PRAGMA foreign_keys = ON")

	store := &DB{
		sql:               db,
		builder:           sq.StatementBuilder.PlaceholderFormat(sq.Question),
		isUniqueViolation: sqliteUniqueViolation,
	}
	if err := store.migrate(context.Background(), migrationsSQLite); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("migrate sqlite: %w", err)
	}
	return store, nil
}

func openPostgres(dsn string) (*DB, error) {
	if strings.TrimSpace(dsn) == "" {
		return nil, errors.New("postgres dsn is required")
	}

	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("open postgres: %w", err)
	}

	store := &DB{
		sql:               db,
		builder:           sq.StatementBuilder.PlaceholderFormat(sq.Dollar),
		isUniqueViolation: pgUniqueViolation,
	}
	if err := store.migrate(context.Background(), migrationsPostgres); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("migrate postgres: %w", err)
	}
	return store, nil
}

func (d *DB) migrate(ctx context.Context, schema string) error {
	_, err := d.sql.ExecContext(ctx, schema)
	return err
}

// Close releases the underlying handle.
func (d *DB) Close() error {
	if d == nil || d.sql == nil {
		return nil
	}
	return d.sql.Close()
}

func sqliteUniqueViolation(err error) bool {
	return err != nil && strings.Contains(err.Error(), "UNIQUE constraint failed")
}

func pgUniqueViolation(err error) bool {
	var pqErr *pq.Error
	return errors.As(err, &pqErr) && pqErr.Code == "23505"
}

// Timestamps are stored as unix milliseconds in both dialects.

func toMillis(t time.Time) int64 {
	return t.UTC().UnixMilli()
}

func fromMillis(ms int64) time.Time {
	return time.UnixMilli(ms).UTC()
}

func nullMillis(t *time.Time) any {
	if t == nil {
		return nil
	}
	return toMillis(*t)
}
