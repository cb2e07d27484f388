package events

import (
	"context"
	"sync"
	"sync/atomic"
	"time"
)

// LocalBus is an in-process Publisher. It backs single-process runs and
// tests, where the store and its subscribers live in the same binary and
// the daemon socket would be overkill.
type LocalBus struct {
	mu        sync.Mutex
	listeners map[chan Event]struct{}
	filter    string
	closed    bool
	seq       atomic.Int64
}

// NewLocalBus creates an in-process event bus.
func NewLocalBus() *LocalBus {
	return &LocalBus{listeners: make(map[chan Event]struct{})}
}

// Connect is a no-op for the in-process bus.
func (b *LocalBus) Connect(ctx context.Context) error {
	return nil
}

// SendEvent delivers the event to every listener whose subscription matches.
// Slow listeners are skipped rather than blocked on; a dropped notification
// only delays a refresh until the next event.
func (b *LocalBus) SendEvent(event Event) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.closed {
		return ErrBusClosed
	}

	event.SequenceID = b.seq.Add(1)
	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now()
	}

	if b.filter != "" && event.ProjectID != "" && event.ProjectID != b.filter {
		return nil
	}

	for ch := range b.listeners {
		select {
		case ch <- event:
		default:
		}
	}
	return nil
}

// Listen registers a listener channel that receives events until ctx is
// cancelled or the bus is closed.
func (b *LocalBus) Listen(ctx context.Context) (<-chan Event, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.closed {
		return nil, ErrBusClosed
	}

	ch := make(chan Event, 16)
	b.listeners[ch] = struct{}{}

	go func() {
		<-ctx.Done()
		b.mu.Lock()
		defer b.mu.Unlock()
		if _, ok := b.listeners[ch]; ok {
			delete(b.listeners, ch)
			close(ch)
		}
	}()

	return ch, nil
}

// Subscribe narrows delivery to one project's task changes.
func (b *LocalBus) Subscribe(projectID string) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.closed {
		return ErrBusClosed
	}
	b.filter = projectID
	return nil
}

// Close tears down all listener channels.
func (b *LocalBus) Close() error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.closed {
		return nil
	}
	b.closed = true
	for ch := range b.listeners {
		delete(b.listeners, ch)
		close(ch)
	}
	return nil
}
