package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"plando/internal/models"
)

// ProjectRepo handles all project-related database operations.
type ProjectRepo struct {
	db  *sql.DB
	now func() time.Time
}

const projectColumns = "id, owner_id, title, description, due_date, created_at, updated_at"

// CreateProject inserts a new project owned by ownerID with store-assigned
// id and timestamps.
func (r *ProjectRepo) CreateProject(ctx context.Context, ownerID, title, description string, dueDate time.Time) (*models.Project, error) {
	now := r.now().UTC()
	project := &models.Project{
		ID:          uuid.NewString(),
		OwnerID:     ownerID,
		Title:       title,
		Description: description,
		DueDate:     dueDate,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	var due string
	if !dueDate.IsZero() {
		due = dueDate.Format(models.DueDateLayout)
	}

	_, err := r.db.ExecContext(ctx,
		`INSERT INTO projects (id, owner_id, title, description, due_date, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		project.ID, ownerID, title, description, due, now.UnixNano(), now.UnixNano(),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to insert project '%s': %w", title, err)
	}

	return project, nil
}

// ListProjects returns up to limit projects owned by ownerID ordered newest
// first, starting after the given cursor. The returned cursor marks the last
// record of the page and is empty when the page is empty.
func (r *ProjectRepo) ListProjects(ctx context.Context, ownerID string, limit int, after Cursor) ([]*models.Project, Cursor, error) {
	var rows *sql.Rows
	var err error

	if after == "" {
		rows, err = r.db.QueryContext(ctx,
			`SELECT `+projectColumns+`
			 FROM projects
			 WHERE owner_id = ?
			 ORDER BY created_at DESC, id DESC
			 LIMIT ?`,
			ownerID, limit,
		)
	} else {
		key, decodeErr := decodeCursor(after)
		if decodeErr != nil {
			return nil, "", decodeErr
		}
		rows, err = r.db.QueryContext(ctx,
			`SELECT `+projectColumns+`
			 FROM projects
			 WHERE owner_id = ?
			   AND (created_at < ? OR (created_at = ? AND id < ?))
			 ORDER BY created_at DESC, id DESC
			 LIMIT ?`,
			ownerID, key.CreatedAt, key.CreatedAt, key.ID, limit,
		)
	}
	if err != nil {
		return nil, "", err
	}
	defer rows.Close()

	var projects []*models.Project
	for rows.Next() {
		project, err := scanProject(rows)
		if err != nil {
			return nil, "", err
		}
		projects = append(projects, project)
	}
	if err := rows.Err(); err != nil {
		return nil, "", err
	}

	var next Cursor
	if len(projects) > 0 {
		last := projects[len(projects)-1]
		next = encodeCursor(last.CreatedAt, last.ID)
	}

	return projects, next, nil
}

// CountProjects returns the number of projects owned by ownerID.
func (r *ProjectRepo) CountProjects(ctx context.Context, ownerID string) (int, error) {
	var count int
	err := r.db.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM projects WHERE owner_id = ?", ownerID,
	).Scan(&count)
	return count, err
}

// GetProjectByID retrieves a single project, scoped to its owner.
func (r *ProjectRepo) GetProjectByID(ctx context.Context, ownerID, id string) (*models.Project, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+projectColumns+` FROM projects WHERE id = ? AND owner_id = ?`,
		id, ownerID,
	)
	project, err := scanProject(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, models.ErrProjectNotFound
	}
	if err != nil {
		return nil, err
	}
	return project, nil
}

// UpdateProject applies the non-nil fields of upd and bumps updated_at.
func (r *ProjectRepo) UpdateProject(ctx context.Context, ownerID, id string, upd models.ProjectUpdate) error {
	project, err := r.GetProjectByID(ctx, ownerID, id)
	if err != nil {
		return err
	}

	if upd.Title != nil {
		project.Title = *upd.Title
	}
	if upd.Description != nil {
		project.Description = *upd.Description
	}
	if upd.DueDate != nil {
		project.DueDate = *upd.DueDate
	}

	var due string
	if !project.DueDate.IsZero() {
		due = project.DueDate.Format(models.DueDateLayout)
	}

	_, err = r.db.ExecContext(ctx,
		`UPDATE projects
		 SET title = ?, description = ?, due_date = ?, updated_at = ?
		 WHERE id = ? AND owner_id = ?`,
		project.Title, project.Description, due, r.now().UTC().UnixNano(), id, ownerID,
	)
	return err
}

// DeleteProject removes a project and, via cascade, its tasks.
func (r *ProjectRepo) DeleteProject(ctx context.Context, ownerID, id string) error {
	result, err := r.db.ExecContext(ctx,
		"DELETE FROM projects WHERE id = ? AND owner_id = ?", id, ownerID,
	)
	if err != nil {
		return err
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return models.ErrProjectNotFound
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanProject(row rowScanner) (*models.Project, error) {
	var (
		project        models.Project
		due            string
		created, updat int64
	)
	err := row.Scan(
		&project.ID, &project.OwnerID, &project.Title, &project.Description,
		&due, &created, &updat,
	)
	if err != nil {
		return nil, err
	}
	if due != "" {
		d, err := time.Parse(models.DueDateLayout, due)
		if err != nil {
			return nil, fmt.Errorf("corrupt due date %q: %w", due, err)
		}
		project.DueDate = d
	}
	project.CreatedAt = time.Unix(0, created).UTC()
	project.UpdatedAt = time.Unix(0, updat).UTC()
	return &project, nil
}
