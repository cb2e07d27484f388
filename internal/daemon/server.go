// Package daemon implements the change-notification broadcast server.
// Clients connect over a Unix domain socket, optionally narrow their
// subscription to one project, and receive every store change event other
// clients publish.
package daemon

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net"
	"os"
	"path/filepath"
	"sync"
	"sync/atomic"
	"time"

	"plando/internal/events"
)

// client represents one connected subscriber.
type client struct {
	conn         net.Conn
	send         chan events.Message
	subscription events.SubscribeMessage
	lastPong     time.Time
	mu           sync.Mutex // protects subscription and lastPong
	closeOnce    sync.Once
}

// Server broadcasts change events between connected plando processes.
type Server struct {
	socketPath       string
	listener         net.Listener
	clients          map[*client]bool
	mu               sync.RWMutex
	broadcast        chan events.Event
	metrics          *Metrics
	sequenceCounter  atomic.Int64
	clientBufferSize int
	shutdownOnce     sync.Once
	cancel           context.CancelFunc
}

// NewServer creates a daemon server listening on socketPath. A stale socket
// file from a previous run is removed first.
func NewServer(socketPath string) (*Server, error) {
	dir := filepath.Dir(socketPath)
	if dir != "" {
		if err := os.MkdirAll(dir, 0o700); err != nil {
			return nil, fmt.Errorf("failed to create socket directory: %w", err)
		}
	}

	if _, err := os.Stat(socketPath); err == nil {
		if err := os.Remove(socketPath); err != nil {
			return nil, fmt.Errorf("failed to remove stale socket: %w", err)
		}
	}

	lc := net.ListenConfig{}
	listener, err := lc.Listen(context.Background(), "unix", socketPath)
	if err != nil {
		return nil, fmt.Errorf("failed to create socket listener: %w", err)
	}

	return &Server{
		socketPath:       socketPath,
		listener:         listener,
		clients:          make(map[*client]bool),
		broadcast:        make(chan events.Event, 100),
		metrics:          NewMetrics(),
		clientBufferSize: 10,
	}, nil
}

// Metrics exposes the daemon's counters.
func (s *Server) Metrics() *Metrics {
	return s.metrics
}

// Start runs the accept, broadcast, and health loops until ctx is cancelled.
func (s *Server) Start(ctx context.Context) error {
	slog.Info("daemon starting", "socket_path", s.socketPath)

	runCtx, cancel := context.WithCancel(ctx)
	defer cancel()
	s.cancel = cancel

	acceptErr := make(chan error, 1)
	go func() {
		acceptErr <- s.acceptLoop(runCtx)
	}()

	go s.broadcastLoop(runCtx)
	go s.monitorHealth(runCtx)

	select {
	case <-runCtx.Done():
		slog.Info("daemon context cancelled, shutting down")
	case err := <-acceptErr:
		if err != nil {
			slog.Error("accept loop failed", "error", err)
		}
	}

	return s.Shutdown()
}

// Shutdown closes the listener, disconnects all clients, and removes the
// socket file.
func (s *Server) Shutdown() error {
	var err error
	s.shutdownOnce.Do(func() {
		if s.cancel != nil {
			s.cancel()
		}
		err = s.listener.Close()

		s.mu.Lock()
		for c := range s.clients {
			c.close()
			delete(s.clients, c)
		}
		s.mu.Unlock()

		if removeErr := os.Remove(s.socketPath); removeErr != nil && !os.IsNotExist(removeErr) {
			slog.Error("failed to remove socket file", "error", removeErr)
		}
	})
	return err
}

func (s *Server) acceptLoop(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			return nil
		default:
		}

		// Deadline lets the loop observe context cancellation
		if err := s.listener.(*net.UnixListener).SetDeadline(time.Now().Add(time.Second)); err != nil {
			slog.Error("failed to set listener deadline", "error", err)
		}

		conn, err := s.listener.Accept()
		if err != nil {
			if netErr, ok := err.(net.Error); ok && netErr.Timeout() {
				continue
			}
			return fmt.Errorf("accept error: %w", err)
		}

		c := &client{
			conn:     conn,
			send:     make(chan events.Message, s.clientBufferSize),
			lastPong: time.Now(),
		}

		s.mu.Lock()
		s.clients[c] = true
		count := len(s.clients)
		s.mu.Unlock()
		s.metrics.SetConnectedClients(int32(count))

		slog.Info("client connected", "total_clients", count)

		go s.handleClient(c)
		go s.clientWriter(c)
	}
}

// broadcastLoop stamps each event with a sequence number and fans it out to
// every client whose subscription matches.
func (s *Server) broadcastLoop(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return

		case event := <-s.broadcast:
			event.SequenceID = s.sequenceCounter.Add(1)
			s.metrics.IncEventsBroadcast()

			s.mu.RLock()
			for c := range s.clients {
				c.mu.Lock()
				// Deliver when the event is collection-wide, the client
				// subscribed to everything, or the project ids match
				matched := event.ProjectID == "" ||
					c.subscription.ProjectID == "" ||
					c.subscription.ProjectID == event.ProjectID
				c.mu.Unlock()

				if !matched {
					continue
				}
				msg := events.Message{Type: "event", Event: &event}
				if !s.sendToClient(c, msg) {
					s.metrics.IncDroppedSends()
					slog.Warn("client send queue full, event dropped")
				}
			}
			s.mu.RUnlock()
		}
	}
}

func (s *Server) handleClient(c *client) {
	defer func() {
		s.removeClient(c)
	}()

	decoder := json.NewDecoder(c.conn)
	for {
		var msg events.Message
		if err := decoder.Decode(&msg); err != nil {
			return
		}

		switch msg.Type {
		case "event":
			if msg.Event != nil {
				s.metrics.IncEventsReceived()
				select {
				case s.broadcast <- *msg.Event:
				default:
					slog.Warn("broadcast channel full, event dropped")
				}
			}

		case "subscribe":
			if msg.Subscribe != nil {
				c.mu.Lock()
				c.subscription = *msg.Subscribe
				c.mu.Unlock()
				slog.Debug("client subscription changed", "project_id", msg.Subscribe.ProjectID)
			}

		case "pong":
			c.mu.Lock()
			c.lastPong = time.Now()
			c.mu.Unlock()
		}
	}
}

func (s *Server) clientWriter(c *client) {
	encoder := json.NewEncoder(c.conn)
	for msg := range c.send {
		if err := encoder.Encode(msg); err != nil {
			return
		}
	}
}

// monitorHealth pings clients and drops those that stop answering.
func (s *Server) monitorHealth(ctx context.Context) {
	pingTicker := time.NewTicker(30 * time.Second)
	defer pingTicker.Stop()

	healthTicker := time.NewTicker(60 * time.Second)
	defer healthTicker.Stop()

	for {
		select {
		case <-ctx.Done():
			return

		case <-pingTicker.C:
			pingMsg := events.Message{
				Type:  "ping",
				Event: &events.Event{Type: events.EventPing},
			}
			for _, c := range s.clientList() {
				if !s.sendToClient(c, pingMsg) {
					slog.Debug("failed to send ping, queue full")
				}
			}

		case <-healthTicker.C:
			cutoff := time.Now().Add(-90 * time.Second)
			for _, c := range s.clientList() {
				c.mu.Lock()
				stale := c.lastPong.Before(cutoff)
				c.mu.Unlock()
				if stale {
					slog.Info("removing unresponsive client")
					s.removeClient(c)
				}
			}
		}
	}
}

func (s *Server) clientList() []*client {
	s.mu.RLock()
	defer s.mu.RUnlock()
	list := make([]*client, 0, len(s.clients))
	for c := range s.clients {
		list = append(list, c)
	}
	return list
}

// sendToClient queues a message without blocking; false means the queue was
// full.
func (s *Server) sendToClient(c *client, msg events.Message) bool {
	select {
	case c.send <- msg:
		return true
	default:
		return false
	}
}

func (s *Server) removeClient(c *client) {
	s.mu.Lock()
	if _, ok := s.clients[c]; !ok {
		s.mu.Unlock()
		return
	}
	delete(s.clients, c)
	count := len(s.clients)
	s.mu.Unlock()

	c.close()
	s.metrics.SetConnectedClients(int32(count))
	slog.Info("client disconnected", "total_clients", count)
}

func (c *client) close() {
	c.closeOnce.Do(func() {
		close(c.send)
		if err := c.conn.Close(); err != nil {
			slog.Debug("error closing client connection", "error", err)
		}
	})
}
