// Package store is the durable, transactional substrate underneath the
// content-addressed layer: three relations (snapshots, contents, files)
// plus an operations audit trail, persisted in SQLite with ACID semantics.
package store

import (
	"context"
	"database/sql"
	"fmt"

	_ "github.com/mattn/go-sqlite3" // registers the "sqlite3" driver

	"backupctl/internal/model"
	"backupctl/internal/store/migrations"
)

// Store wraps a single SQLite database file holding the full three-relation
// schema from the persisted state layout, plus the operations audit trail.
// A Store is instantiated per invocation; it holds no package-level state.
type Store struct {
	db   *sql.DB
	path string
}

// Open opens or creates a database at path, idempotently installing the
// schema and indices on first creation. path may be ":memory:" for a
// transient in-memory store (used by tests).
func Open(path string) (*Store, error) {
	db, err := sql.Open("sqlite3", dsn(path))
	if err != nil {
		return nil, fmt.Errorf("opening database: %w: %v", model.ErrStoreIO, err)
	}

	if err := configure(db); err != nil {
		db.Close()
		return nil, err
	}

	if err := migrations.MigrateUp(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("installing schema: %w: %v", model.ErrSchema, err)
	}

	if err := migrations.CheckStatus(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("checking schema version: %w: %v", model.ErrSchema, err)
	}

	return &Store{db: db, path: path}, nil
}

// dsn appends query parameters SQLite needs for single-writer, WAL-backed
// local use. ":memory:" is passed through unchanged.
func dsn(path string) string {
	if path == ":memory:" {
		return path
	}
	return path + "?_foreign_keys=on&_journal_mode=WAL&_busy_timeout=5000"
}

func configure(db *sql.DB) error {
	// Foreign keys default OFF in SQLite for backward compatibility; the
	// three-relation schema depends on them being enforced.
	if _, err := db.Exec("PRAGMA foreign_keys = ON"); err != nil {
		return fmt.Errorf("enabling foreign keys: %w: %v", model.ErrStoreIO, err)
	}
	if _, err := db.Exec("PRAGMA journal_mode = WAL"); err != nil {
		return fmt.Errorf("setting journal mode: %w: %v", model.ErrStoreIO, err)
	}
	if _, err := db.Exec("PRAGMA busy_timeout = 5000"); err != nil {
		return fmt.Errorf("setting busy timeout: %w: %v", model.ErrStoreIO, err)
	}
	// Single-writer, single-process by contract (see concurrency model);
	// one connection keeps SQLite's own locking straightforward.
	db.SetMaxOpenConns(1)
	return nil
}

// Path returns the database file path, or ":memory:" for in-memory stores.
func (s *Store) Path() string {
	return s.path
}

// IntegrityCheck runs SQLite's own structural check (page-level, index-level),
// distinct from the semantic verification performed by the engine's Check
// operation, which recomputes content hashes.
func (s *Store) IntegrityCheck(ctx context.Context) error {
	row := s.db.QueryRowContext(ctx, "PRAGMA integrity_check")
	var result string
	if err := row.Scan(&result); err != nil {
		return fmt.Errorf("running integrity check: %w: %v", model.ErrStoreIO, err)
	}
	if result != "ok" {
		return fmt.Errorf("database failed integrity check: %s: %w", result, model.ErrStoreIO)
	}
	return nil
}

// Close closes the underlying database connection.
func (s *Store) Close() error {
	if s.db == nil {
		return nil
	}
	return s.db.Close()
}

// Begin starts a write transaction. The caller must defer Rollback on every
// exit path; calling Commit releases the need for Rollback to do anything.
func (s *Store) Begin(ctx context.Context) (*Tx, error) {
	sqlTx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("beginning transaction: %w: %v", model.ErrStoreIO, err)
	}
	return &Tx{tx: sqlTx}, nil
}
