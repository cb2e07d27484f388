package events

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net"
	"sync"
)

// Client represents a connection to the plando daemon for receiving live
// updates across processes. It implements Publisher over a Unix domain
// socket with JSON-framed messages.
type Client struct {
	socketPath string

	mu        sync.Mutex
	conn      net.Conn
	encoder   *json.Encoder
	decoder   *json.Decoder
	listeners map[chan Event]struct{}
	closed    bool

	// Event tracking
	lastSequence int64

	ctx    context.Context
	cancel context.CancelFunc
}

// NewClient creates a new event client but does not connect.
// The socket path should be the full path to the Unix domain socket.
func NewClient(socketPath string) *Client {
	ctx, cancel := context.WithCancel(context.Background())
	return &Client{
		socketPath: socketPath,
		listeners:  make(map[chan Event]struct{}),
		ctx:        ctx,
		cancel:     cancel,
	}
}

// Connect establishes a connection to the daemon socket and sends an
// initial subscription for all projects.
func (c *Client) Connect(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	dialer := net.Dialer{}
	conn, err := dialer.DialContext(ctx, "unix", c.socketPath)
	if err != nil {
		return fmt.Errorf("failed to dial daemon socket: %w", err)
	}

	c.conn = conn
	c.encoder = json.NewEncoder(conn)
	c.decoder = json.NewDecoder(conn)

	msg := Message{
		Type:      "subscribe",
		Subscribe: &SubscribeMessage{ProjectID: ""},
	}
	if err := c.encoder.Encode(msg); err != nil {
		conn.Close()
		c.conn = nil
		return fmt.Errorf("failed to send initial subscription: %w", err)
	}

	go c.readLoop()

	return nil
}

// SendEvent delivers an event to the daemon for broadcast.
func (c *Client) SendEvent(event Event) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return ErrBusClosed
	}
	if c.conn == nil {
		return ErrNotConnected
	}
	return c.encoder.Encode(Message{Type: "event", Event: &event})
}

// Listen registers a listener channel fed by the daemon's broadcasts.
func (c *Client) Listen(ctx context.Context) (<-chan Event, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return nil, ErrBusClosed
	}

	ch := make(chan Event, 16)
	c.listeners[ch] = struct{}{}

	go func() {
		select {
		case <-ctx.Done():
		case <-c.ctx.Done():
		}
		c.mu.Lock()
		defer c.mu.Unlock()
		if _, ok := c.listeners[ch]; ok {
			delete(c.listeners, ch)
			close(ch)
		}
	}()

	return ch, nil
}

// Subscribe narrows the daemon-side delivery to one project.
func (c *Client) Subscribe(projectID string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return ErrBusClosed
	}
	if c.conn == nil {
		return ErrNotConnected
	}
	return c.encoder.Encode(Message{
		Type:      "subscribe",
		Subscribe: &SubscribeMessage{ProjectID: projectID},
	})
}

// Close closes the connection and all listener channels.
func (c *Client) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return nil
	}
	c.closed = true
	c.cancel()
	for ch := range c.listeners {
		delete(c.listeners, ch)
		close(ch)
	}
	if c.conn != nil {
		return c.conn.Close()
	}
	return nil
}

// readLoop decodes daemon messages and fans events out to listeners.
// It exits when the connection drops or the client closes.
func (c *Client) readLoop() {
	for {
		var msg Message
		if err := c.decoder.Decode(&msg); err != nil {
			c.mu.Lock()
			closed := c.closed
			c.mu.Unlock()
			if !closed {
				slog.Debug("event stream closed", "error", err)
			}
			return
		}

		switch msg.Type {
		case "event":
			if msg.Event == nil {
				continue
			}
			c.dispatch(*msg.Event)
		case "ping":
			c.mu.Lock()
			if c.encoder != nil {
				if err := c.encoder.Encode(Message{Type: "pong"}); err != nil {
					slog.Debug("failed to answer ping", "error", err)
				}
			}
			c.mu.Unlock()
		}
	}
}

func (c *Client) dispatch(event Event) {
	c.mu.Lock()
	defer c.mu.Unlock()

	// Drop duplicates and reordered deliveries
	if event.SequenceID != 0 && event.SequenceID <= c.lastSequence {
		return
	}
	c.lastSequence = event.SequenceID

	for ch := range c.listeners {
		select {
		case ch <- event:
		default:
		}
	}
}
