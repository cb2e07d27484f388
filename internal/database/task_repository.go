package database

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"plando/internal/models"
)

// TaskRepo handles all task-related database operations.
type TaskRepo struct {
	db  *sql.DB
	now func() time.Time
}

const taskColumns = "id, project_id, title, completed, ord, created_at, updated_at"

// CreateTask inserts a new task under the given project.
func (r *TaskRepo) CreateTask(ctx context.Context, projectID, title string, completed bool, order int) (*models.Task, error) {
	now := r.now().UTC()
	task := &models.Task{
		ID:        uuid.NewString(),
		ProjectID: projectID,
		Title:     title,
		Completed: completed,
		Order:     order,
		CreatedAt: now,
		UpdatedAt: now,
	}

	_, err := r.db.ExecContext(ctx,
		`INSERT INTO tasks (id, project_id, title, completed, ord, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		task.ID, projectID, title, completed, order, now.UnixNano(), now.UnixNano(),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to insert task '%s': %w", title, err)
	}

	return task, nil
}

// ListTasks retrieves all tasks for a project ordered by rank.
func (r *TaskRepo) ListTasks(ctx context.Context, projectID string) ([]*models.Task, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+taskColumns+`
		 FROM tasks
		 WHERE project_id = ?
		 ORDER BY ord`,
		projectID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var tasks []*models.Task
	for rows.Next() {
		var (
			task           models.Task
			created, updat int64
		)
		if err := rows.Scan(
			&task.ID, &task.ProjectID, &task.Title, &task.Completed,
			&task.Order, &created, &updat,
		); err != nil {
			return nil, err
		}
		task.CreatedAt = time.Unix(0, created).UTC()
		task.UpdatedAt = time.Unix(0, updat).UTC()
		tasks = append(tasks, &task)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return tasks, nil
}

// CountTasks returns the number of tasks in a project.
func (r *TaskRepo) CountTasks(ctx context.Context, projectID string) (int, error) {
	var count int
	err := r.db.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM tasks WHERE project_id = ?", projectID,
	).Scan(&count)
	return count, err
}

// UpdateTask applies the non-nil fields of upd and bumps updated_at.
func (r *TaskRepo) UpdateTask(ctx context.Context, projectID, taskID string, upd models.TaskUpdate) error {
	var (
		task models.Task
	)
	err := r.db.QueryRowContext(ctx,
		"SELECT title, completed FROM tasks WHERE id = ? AND project_id = ?",
		taskID, projectID,
	).Scan(&task.Title, &task.Completed)
	if err == sql.ErrNoRows {
		return models.ErrTaskNotFound
	}
	if err != nil {
		return err
	}

	if upd.Title != nil {
		task.Title = *upd.Title
	}
	if upd.Completed != nil {
		task.Completed = *upd.Completed
	}

	_, err = r.db.ExecContext(ctx,
		`UPDATE tasks
		 SET title = ?, completed = ?, updated_at = ?
		 WHERE id = ? AND project_id = ?`,
		task.Title, task.Completed, r.now().UTC().UnixNano(), taskID, projectID,
	)
	return err
}

// DeleteTask removes a task from the project.
func (r *TaskRepo) DeleteTask(ctx context.Context, projectID, taskID string) error {
	result, err := r.db.ExecContext(ctx,
		"DELETE FROM tasks WHERE id = ? AND project_id = ?", taskID, projectID,
	)
	if err != nil {
		return err
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return models.ErrTaskNotFound
	}
	return nil
}

// ReorderTasks assigns rank i to orderedIDs[i] inside a single transaction.
// Partial application would leave duplicate or missing ranks, so any failure
// rolls the whole batch back.
func (r *TaskRepo) ReorderTasks(ctx context.Context, projectID string, orderedIDs []string) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin reorder transaction: %w", err)
	}
	defer func() {
		if err := tx.Rollback(); err != nil && err != sql.ErrTxDone {
			slog.Error("failed to rollback reorder transaction", "error", err)
		}
	}()

	now := r.now().UTC().UnixNano()
	for i, id := range orderedIDs {
		result, err := tx.ExecContext(ctx,
			`UPDATE tasks SET ord = ?, updated_at = ? WHERE id = ? AND project_id = ?`,
			i, now, id, projectID,
		)
		if err != nil {
			return fmt.Errorf("failed to set rank %d: %w", i, err)
		}
		affected, err := result.RowsAffected()
		if err != nil {
			return err
		}
		if affected == 0 {
			return fmt.Errorf("reorder task %s: %w", id, models.ErrTaskNotFound)
		}
	}

	return tx.Commit()
}
