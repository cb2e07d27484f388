// Package database implements the document store backing plando: ordered
// range queries with opaque cursors, single-record CRUD, and atomic batched
// updates, all on top of a local SQLite file.
package database

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	_ "modernc.org/sqlite"
)

// InitDB opens (creating if needed) the plando database under dataDir and
// prepares it for use.
func InitDB(ctx context.Context, dataDir string) (*sql.DB, error) {
	if err := os.MkdirAll(dataDir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create data directory: %w", err)
	}

	dbPath := filepath.Join(dataDir, "plando.db")
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// Foreign keys are required for CASCADE deletion of a project's tasks
	pragmas := []string{
		"PRAGMA foreign_keys = ON",
		"PRAGMA journal_mode = WAL",
		"PRAGMA busy_timeout = 5000",
	}
	for _, pragma := range pragmas {
		if _, err := db.ExecContext(ctx, pragma); err != nil {
			slog.Error("failed to apply pragma", "pragma", pragma, "error", err)
			if closeErr := db.Close(); closeErr != nil {
				slog.Error("error closing db", "error", closeErr)
			}
			return nil, err
		}
	}

	if err := db.PingContext(ctx); err != nil {
		if closeErr := db.Close(); closeErr != nil {
			slog.Error("error closing db", "error", closeErr)
		}
		return nil, fmt.Errorf("database ping failed: %w", err)
	}

	// SQLite benefits from a single writer connection
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	if err := Migrate(ctx, db); err != nil {
		if closeErr := db.Close(); closeErr != nil {
			slog.Error("error closing db", "error", closeErr)
		}
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	return db, nil
}
