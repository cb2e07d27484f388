package task

import "plando/internal/models"

// Validation errors raised before any store interaction
var (
	// ErrEmptyTitle rejects titles that are empty after trimming
	ErrEmptyTitle = &models.ValidationError{Field: "title", Reason: "cannot be empty"}

	// ErrTitleTooLong rejects titles longer than the cap after trimming
	ErrTitleTooLong = &models.ValidationError{Field: "title", Reason: "cannot exceed 100 characters"}

	// ErrTaskLimit rejects additions to a project already at the task cap
	ErrTaskLimit = &models.LimitExceededError{Resource: "task", Limit: models.MaxTasksPerProject}
)
