package shared

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	_ "github.com/mattn/go-sqlite3"
)

// sqliteParams are appended to file paths.
const sqliteParams = "?_journal_mode=WAL&_busy_timeout=5000&_foreign_keys=on"

// OpenDatabase opens the SQLite database described by c, creating its parent directory, and verifies the connection.
//
// A path of ":memory:" opens a private in-memory database; pair it with MaxOpenConns = 1 so every query sees the
// same one.
func OpenDatabase(ctx context.Context, c DatabaseConfig) (*sql.DB, error) {
	if c.Path == "" {
		return nil, fmt.Errorf("%w: database path", ErrMissingConfig)
	}

	dsn := c.Path
	if c.Path != ":memory:" {
		if dir := filepath.Dir(c.Path); dir != "." {
			if err := os.MkdirAll(dir, 0o755); err != nil {
				return nil, fmt.Errorf("failed to create database directory: %w", err)
			}
		}
		dsn = "file:" + c.Path + sqliteParams
	}

	db, err := sql.Open("sqlite3", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if c.MaxOpenConns > 0 {
		db.SetMaxOpenConns(c.MaxOpenConns)
	}
	if c.MaxIdleConns > 0 {
		db.SetMaxIdleConns(c.MaxIdleConns)
	}

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping database %s: %w", c.Path, err)
	}

	return db, nil
}
