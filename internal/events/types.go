package events

import "time"

// EventType indicates what kind of notification occurred
type EventType string

const (
	EventChanged EventType = "changed"
	EventPing    EventType = "ping"
	EventPong    EventType = "pong"
)

// Event represents a store change notification. ProjectID is empty for
// changes to the project collection itself and set for task-level changes
// within a project.
type Event struct {
	Type       EventType
	OwnerID    string    // Which user's data changed
	ProjectID  string    // Which project's task list changed, if any
	Timestamp  time.Time // When the event occurred
	SequenceID int64     // Monotonically increasing sequence number for ordering
}

// SubscribeMessage is sent by clients to narrow delivery to one project.
type SubscribeMessage struct {
	ProjectID string // "" = all projects, otherwise a specific project id
}

// Message wraps events and control messages for the socket wire protocol
type Message struct {
	Type      string            // "event", "subscribe", "ping", "pong"
	Event     *Event            `json:",omitempty"`
	Subscribe *SubscribeMessage `json:",omitempty"`
}
