package daemon

import (
	"sync/atomic"
	"time"
)

// Metrics tracks daemon statistics using atomic counters.
type Metrics struct {
	EventsReceived   atomic.Int64
	EventsBroadcast  atomic.Int64
	DroppedSends     atomic.Int64
	ConnectedClients atomic.Int32
	StartTime        time.Time
}

// NewMetrics creates a new Metrics instance.
func NewMetrics() *Metrics {
	return &Metrics{StartTime: time.Now()}
}

// IncEventsReceived increments the events received counter.
func (m *Metrics) IncEventsReceived() {
	m.EventsReceived.Add(1)
}

// IncEventsBroadcast increments the events broadcast counter.
func (m *Metrics) IncEventsBroadcast() {
	m.EventsBroadcast.Add(1)
}

// IncDroppedSends increments the dropped-send counter.
func (m *Metrics) IncDroppedSends() {
	m.DroppedSends.Add(1)
}

// SetConnectedClients records the current connected client count.
func (m *Metrics) SetConnectedClients(count int32) {
	m.ConnectedClients.Store(count)
}

// Uptime returns how long the daemon has been running.
func (m *Metrics) Uptime() time.Duration {
	return time.Since(m.StartTime)
}
