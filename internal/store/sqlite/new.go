// Package sqlite is a durable Store on modernc.org/sqlite (pure Go, no cgo).
package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	"value-added-framework/internal/store"
	"value-added-framework/pkg/log"

	_ "modernc.org/sqlite"
)

type implStore struct {
	db *sql.DB
	l  log.Logger
}

// New opens (or creates) the database at dsn and applies migrations.
// Use ":memory:" for a throwaway database.
func New(ctx context.Context, dsn string, l log.Logger) (store.Store, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// One connection: writes are serialized and ":memory:" stays a single database.
	db.SetMaxOpenConns(1)

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("database ping failed: %w", err)
	}

	if _, err := db.ExecContext(ctx, "PRAGMA foreign_keys = ON"); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to enable foreign keys: %w", err)
	}

	s := &implStore{db: db, l: l}
	if err := s.migrate(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}

	return s, nil
}

func (s *implStore) migrate(ctx context.Context) error {
	migrations := []string{
		`CREATE TABLE IF NOT EXISTS sessions (
			id TEXT PRIMARY KEY,
			number INTEGER NOT NULL,
			profile_id TEXT NOT NULL DEFAULT '',
			started_at INTEGER NOT NULL,
			duration_ns INTEGER NOT NULL,
			ended_at INTEGER
		)`,
		`CREATE TABLE IF NOT EXISTS turns (
			session_id TEXT NOT NULL,
			sequence INTEGER NOT NULL,
			raw_text TEXT NOT NULL,
			payload TEXT NOT NULL,
			response TEXT NOT NULL,
			notes TEXT NOT NULL,
			provider TEXT NOT NULL DEFAULT '',
			model TEXT NOT NULL DEFAULT '',
			input_tokens INTEGER NOT NULL DEFAULT 0,
			output_tokens INTEGER NOT NULL DEFAULT 0,
			total_tokens INTEGER NOT NULL DEFAULT 0,
			created_at INTEGER NOT NULL,
			PRIMARY KEY (session_id, sequence),
			FOREIGN KEY (session_id) REFERENCES sessions(id)
		)`,
		`CREATE TABLE IF NOT EXISTS profiles (
			id TEXT PRIMARY KEY,
			data TEXT NOT NULL,
			updated_at INTEGER NOT NULL
		)`,
	}

	for _, m := range migrations {
		if _, err := s.db.ExecContext(ctx, m); err != nil {
			return fmt.Errorf("migration failed: %w\n%s", err, m)
		}
	}
	return nil
}

func (s *implStore) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

func (s *implStore) Close() error {
	return s.db.Close()
}

func (s *implStore) op(method string) string {
	return fmt.Sprintf("store/sqlite.%s", method)
}
