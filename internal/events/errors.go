package events

import (
	"errors"
	"os"
	"syscall"
)

// ErrBusClosed is returned by operations on a closed publisher.
var ErrBusClosed = errors.New("event bus is closed")

// ErrNotConnected is returned when an event is sent before Connect.
var ErrNotConnected = errors.New("event client is not connected")

// ErrorCode represents daemon-related error types.
type ErrorCode int

const (
	ErrSocketNotFound ErrorCode = iota
	ErrSocketPermission
	ErrDaemonNotRunning
	ErrConnectionRefused
)

// DaemonError represents a structured daemon error with context.
type DaemonError struct {
	Code    ErrorCode
	Message string
	Hint    string
}

// Error implements the error interface.
func (e *DaemonError) Error() string {
	if e.Hint != "" {
		return e.Message + ". " + e.Hint
	}
	return e.Message
}

// ClassifyDaemonError maps common connection errors to structured
// DaemonError values so the caller can decide whether to fall back to the
// in-process bus.
func ClassifyDaemonError(err error) *DaemonError {
	if err == nil {
		return nil
	}

	if os.IsNotExist(err) {
		return &DaemonError{
			Code:    ErrSocketNotFound,
			Message: "Socket file not found",
			Hint:    "Start the daemon: plando-daemon",
		}
	}

	if os.IsPermission(err) {
		return &DaemonError{
			Code:    ErrSocketPermission,
			Message: "Permission denied",
			Hint:    "Check ~/.plando/ permissions: chmod 700 ~/.plando/",
		}
	}

	var errno syscall.Errno
	if errors.As(err, &errno) && errno == syscall.ECONNREFUSED {
		return &DaemonError{
			Code:    ErrConnectionRefused,
			Message: "Connection refused",
			Hint:    "The daemon may have crashed; restart plando-daemon",
		}
	}

	return &DaemonError{
		Code:    ErrDaemonNotRunning,
		Message: "Daemon not running",
		Hint:    "Start the daemon: plando-daemon",
	}
}
