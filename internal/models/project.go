package models

import "time"

// Project is the top-level unit of organization. Every project is owned by
// exactly one user and holds an ordered list of tasks.
type Project struct {
	ID          string
	OwnerID     string
	Title       string
	Description string
	DueDate     time.Time // calendar date, zero time means no due date
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// ProjectUpdate carries the editable fields of a project.
// Nil pointers mean "leave unchanged".
type ProjectUpdate struct {
	Title       *string
	Description *string
	DueDate     *time.Time
}
