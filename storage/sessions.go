package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/jmoiron/sqlx"
)

// Sessions is a sqlite-backed session store holding a single document id
// under a fixed key.
type Sessions struct {
	db  *sqlx.DB
	key string
}

// NewSessions creates a new Sessions storage
func NewSessions(db *sqlx.DB, key string) (*Sessions, error) {
	createSessionsTable := `
	CREATE TABLE IF NOT EXISTS sessions (
		name TEXT PRIMARY KEY,
		value TEXT NOT NULL,
		timestamp DATETIME DEFAULT CURRENT_TIMESTAMP
	)
	`
	if _, err := db.Exec(createSessionsTable); err != nil {
		return nil, fmt.Errorf("failed to create sessions table: %w", err)
	}

	return &Sessions{db: db, key: key}, nil
}

// Get returns the stored document id, or an empty string if none was saved
func (s *Sessions) Get(ctx context.Context) (string, error) {
	var id string
	err := s.db.GetContext(ctx, &id, "SELECT value FROM sessions WHERE name = ?", s.key)
	if errors.Is(err, sql.ErrNoRows) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("failed to get session for key %s: %w", s.key, err)
	}

	slog.Debug("read session",
		slog.String("key", s.key),
		slog.String("id", id),
	)
	return id, nil
}

// Set overwrites the stored document id
func (s *Sessions) Set(ctx context.Context, id string) error {
	upsertQuery := `
	INSERT INTO sessions (name, value, timestamp) VALUES (?, ?, ?)
	ON CONFLICT(name) DO UPDATE SET value = excluded.value, timestamp = excluded.timestamp
	`
	if _, err := s.db.ExecContext(ctx, upsertQuery, s.key, id, time.Now()); err != nil {
		return fmt.Errorf("failed to save session %s: %w", id, err)
	}

	slog.Debug("session saved",
		slog.String("key", s.key),
		slog.String("id", id),
	)
	return nil
}
