package daemon_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"plando/internal/daemon"
	"plando/internal/events"
)

func startServer(t *testing.T) (*daemon.Server, string) {
	t.Helper()
	socketPath := filepath.Join(t.TempDir(), "plando.sock")

	srv, err := daemon.NewServer(socketPath)
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		defer close(done)
		_ = srv.Start(ctx)
	}()
	t.Cleanup(func() {
		cancel()
		<-done
	})

	return srv, socketPath
}

func connectClient(t *testing.T, socketPath string) *events.Client {
	t.Helper()
	client := events.NewClient(socketPath)
	require.NoError(t, client.Connect(context.Background()))
	t.Cleanup(func() { _ = client.Close() })
	return client
}

func waitForEvent(t *testing.T, ch <-chan events.Event) events.Event {
	t.Helper()
	select {
	case ev := <-ch:
		return ev
	case <-time.After(3 * time.Second):
		t.Fatal("timed out waiting for event")
		return events.Event{}
	}
}

func TestBroadcastBetweenClients(t *testing.T) {
	srv, socketPath := startServer(t)

	receiver := connectClient(t, socketPath)
	sender := connectClient(t, socketPath)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	ch, err := receiver.Listen(ctx)
	require.NoError(t, err)

	// Give the server a moment to register the receiver's subscription
	time.Sleep(100 * time.Millisecond)

	require.NoError(t, sender.SendEvent(events.Event{
		Type:      events.EventChanged,
		OwnerID:   "alice",
		ProjectID: "p1",
	}))

	ev := waitForEvent(t, ch)
	assert.Equal(t, events.EventChanged, ev.Type)
	assert.Equal(t, "p1", ev.ProjectID)
	assert.Positive(t, ev.SequenceID, "server stamps a sequence number")

	assert.GreaterOrEqual(t, srv.Metrics().EventsReceived.Load(), int64(1))
	assert.GreaterOrEqual(t, srv.Metrics().EventsBroadcast.Load(), int64(1))
}

func TestSubscriptionNarrowsDelivery(t *testing.T) {
	_, socketPath := startServer(t)

	receiver := connectClient(t, socketPath)
	sender := connectClient(t, socketPath)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	ch, err := receiver.Listen(ctx)
	require.NoError(t, err)

	require.NoError(t, receiver.Subscribe("p1"))
	time.Sleep(100 * time.Millisecond)

	require.NoError(t, sender.SendEvent(events.Event{Type: events.EventChanged, ProjectID: "p2"}))
	require.NoError(t, sender.SendEvent(events.Event{Type: events.EventChanged, ProjectID: "p1"}))
	// Collection-wide events bypass the project filter
	require.NoError(t, sender.SendEvent(events.Event{Type: events.EventChanged, ProjectID: ""}))

	assert.Equal(t, "p1", waitForEvent(t, ch).ProjectID)
	assert.Empty(t, waitForEvent(t, ch).ProjectID)
	select {
	case ev := <-ch:
		t.Fatalf("unexpected event for project %q", ev.ProjectID)
	case <-time.After(100 * time.Millisecond):
	}
}

func TestNewServerRemovesStaleSocket(t *testing.T) {
	socketPath := filepath.Join(t.TempDir(), "plando.sock")
	require.NoError(t, os.WriteFile(socketPath, nil, 0o600))

	srv, err := daemon.NewServer(socketPath)
	require.NoError(t, err)
	require.NoError(t, srv.Shutdown())

	_, err = os.Stat(socketPath)
	assert.True(t, os.IsNotExist(err), "shutdown removes the socket file")
}

func TestShutdownIsIdempotent(t *testing.T) {
	srv, _ := startServer(t)
	require.NoError(t, srv.Shutdown())
	require.NoError(t, srv.Shutdown())
}
