package events

import "context"

// Publisher defines the interface for sending and receiving change
// notifications. Depending on behavior rather than a concrete transport
// keeps the services testable and lets a single-process run substitute an
// in-memory bus for the daemon socket.
type Publisher interface {
	// Connect establishes the underlying transport
	Connect(ctx context.Context) error

	// SendEvent delivers an event to all current listeners
	SendEvent(event Event) error

	// Listen registers a listener. The returned channel receives events
	// until ctx is cancelled or the publisher closes; it is closed on
	// teardown so consumers can range over it.
	Listen(ctx context.Context) (<-chan Event, error)

	// Subscribe narrows delivery to a specific project ("" = all)
	Subscribe(projectID string) error

	// Close tears down the transport and all listener channels
	Close() error
}

// Compile-time verification of the implementations
var (
	_ Publisher = (*Client)(nil)
	_ Publisher = (*LocalBus)(nil)
)
