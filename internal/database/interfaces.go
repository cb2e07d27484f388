package database

import (
	"context"
	"time"

	"plando/internal/models"
)

// DataStore is the unified interface the service layer depends on. It mirrors
// the capabilities of a hosted document database: ordered range queries with
// limit and start-after cursor, single-record CRUD, and an atomic batched
// multi-record update. Depending on the interface rather than *Repository
// keeps the services mockable in tests.
type DataStore interface {
	ProjectStore
	TaskStore
}

// ProjectStore covers the user-scoped project collection.
type ProjectStore interface {
	// ListProjects returns up to limit projects owned by ownerID, newest
	// first, starting after the given cursor (empty cursor = from the top).
	// The returned cursor marks the last record of the page.
	ListProjects(ctx context.Context, ownerID string, limit int, after Cursor) ([]*models.Project, Cursor, error)
	CountProjects(ctx context.Context, ownerID string) (int, error)
	CreateProject(ctx context.Context, ownerID, title, description string, dueDate time.Time) (*models.Project, error)
	GetProjectByID(ctx context.Context, ownerID, id string) (*models.Project, error)
	UpdateProject(ctx context.Context, ownerID, id string, upd models.ProjectUpdate) error
	DeleteProject(ctx context.Context, ownerID, id string) error
}

// TaskStore covers the per-project task collection.
type TaskStore interface {
	// ListTasks returns the project's tasks ordered by rank ascending.
	ListTasks(ctx context.Context, projectID string) ([]*models.Task, error)
	CountTasks(ctx context.Context, projectID string) (int, error)
	CreateTask(ctx context.Context, projectID, title string, completed bool, order int) (*models.Task, error)
	UpdateTask(ctx context.Context, projectID, taskID string, upd models.TaskUpdate) error
	DeleteTask(ctx context.Context, projectID, taskID string) error
	// ReorderTasks assigns rank i to orderedIDs[i] in a single transaction.
	// Either every task gets its new rank or none do.
	ReorderTasks(ctx context.Context, projectID string, orderedIDs []string) error
}
