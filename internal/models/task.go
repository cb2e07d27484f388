package models

import "time"

// Task is a single line item inside a project. Order is a dense zero-based
// rank within the owning project; after a reorder the stored ranks are
// exactly 0..len-1.
type Task struct {
	ID        string
	ProjectID string
	Title     string
	Completed bool
	Order     int
	CreatedAt time.Time
	UpdatedAt time.Time
}

// TaskUpdate carries the editable fields of a task.
// Nil pointers mean "leave unchanged".
type TaskUpdate struct {
	Title     *string
	Completed *bool
}
