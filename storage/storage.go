package storage

import (
	"fmt"

	"github.com/jmoiron/sqlx"
	_ "modernc.org/sqlite" // sqlite driver
)

// NewSqliteDB opens the sqlite database at file, creating it if needed
func NewSqliteDB(file string) (*sqlx.DB, error) {
	db, err := sqlx.Connect("sqlite", file+"?_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("failed to open sqlite database %s: %w", file, err)
	}
	// a single writer keeps sqlite from returning SQLITE_BUSY
	db.SetMaxOpenConns(1)
	return db, nil
}
