package project

import "errors"

// Domain errors for the project pager
var (
	// Validation errors
	ErrEmptyTitle   = errors.New("project title cannot be empty")
	ErrTitleTooLong = errors.New("project title cannot exceed 100 characters")

	// ErrPageOutOfRange is returned by LoadPage when the requested page is
	// outside [1, totalPages]. ChangePage treats the same condition as a
	// guarded no-op.
	ErrPageOutOfRange = errors.New("page out of range")
)
