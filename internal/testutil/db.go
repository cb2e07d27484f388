// Package testutil provides shared test fixtures.
package testutil

import (
	"context"
	"database/sql"
	"sync"
	"testing"
	"time"

	_ "modernc.org/sqlite"

	"plando/internal/database"
)

// SetupTestDB creates an in-memory database with the full schema.
func SetupTestDB(t *testing.T) *sql.DB {
	t.Helper()

	db, err := sql.Open("sqlite", ":memory:")
	if err != nil {
		t.Fatalf("Failed to create test database: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	ctx := context.Background()
	if _, err := db.ExecContext(ctx, "PRAGMA foreign_keys = ON"); err != nil {
		t.Fatalf("Failed to enable foreign keys: %v", err)
	}

	if err := database.Migrate(ctx, db); err != nil {
		t.Fatalf("Failed to create schema: %v", err)
	}

	return db
}

// NewTestRepository creates an in-memory repository whose clock advances one
// second per timestamp request, so records created back to back have
// distinct, strictly increasing creation times.
func NewTestRepository(t *testing.T) *database.Repository {
	t.Helper()
	return database.NewRepository(SetupTestDB(t), database.WithClock(TickingClock()))
}

// TickingClock returns a clock that starts at a fixed instant and advances
// one second per call.
func TickingClock() func() time.Time {
	var mu sync.Mutex
	current := time.Date(2026, 1, 2, 15, 0, 0, 0, time.UTC)
	return func() time.Time {
		mu.Lock()
		defer mu.Unlock()
		current = current.Add(time.Second)
		return current
	}
}
