package database

import (
	"database/sql"
	"time"
)

// Repository provides a unified interface to all data operations.
// It composes the domain-specific repositories using struct embedding.
type Repository struct {
	*ProjectRepo
	*TaskRepo
}

// Option configures a Repository.
type Option func(*Repository)

// WithClock overrides the timestamp source. Used by tests that need
// deterministic creation order.
func WithClock(now func() time.Time) Option {
	return func(r *Repository) {
		r.ProjectRepo.now = now
		r.TaskRepo.now = now
	}
}

// NewRepository creates a new Repository wrapping the given database
// connection.
func NewRepository(db *sql.DB, opts ...Option) *Repository {
	r := &Repository{
		ProjectRepo: &ProjectRepo{db: db, now: time.Now},
		TaskRepo:    &TaskRepo{db: db, now: time.Now},
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Compile-time verification that *Repository satisfies DataStore
var _ DataStore = (*Repository)(nil)
