package models

import (
	"errors"
	"fmt"
)

// Sentinel errors shared across the service layer
var (
	// ErrAuthRequired indicates an operation needing ownership context was
	// invoked with no signed-in user
	ErrAuthRequired = errors.New("no signed-in user")

	// ErrStaleCursor indicates a page load that depends on a cursor the
	// cache does not hold. This is a contract violation (a missed rebuild),
	// not a user-facing condition.
	ErrStaleCursor = errors.New("pagination cursor cache is stale")

	// ErrProjectNotFound indicates the project does not exist or is not
	// owned by the requesting user
	ErrProjectNotFound = errors.New("project not found")

	// ErrTaskNotFound indicates the task does not exist within the project
	ErrTaskNotFound = errors.New("task not found")
)

// ValidationError reports input rejected before any store interaction.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

// LimitExceededError reports an operation that would exceed a hard cap.
type LimitExceededError struct {
	Resource string
	Limit    int
}

func (e *LimitExceededError) Error() string {
	return fmt.Sprintf("%s limit of %d reached", e.Resource, e.Limit)
}

// StoreError wraps a failure from the backing store with the high-level
// operation that triggered it.
type StoreError struct {
	Op  string
	Err error
}

func (e *StoreError) Error() string {
	return fmt.Sprintf("store %s: %v", e.Op, e.Err)
}

func (e *StoreError) Unwrap() error {
	return e.Err
}
