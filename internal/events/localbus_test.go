package events

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func recv(t *testing.T, ch <-chan Event) Event {
	t.Helper()
	select {
	case ev := <-ch:
		return ev
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for event")
		return Event{}
	}
}

func TestLocalBusDeliversToListeners(t *testing.T) {
	bus := NewLocalBus()
	defer bus.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	ch, err := bus.Listen(ctx)
	require.NoError(t, err)

	require.NoError(t, bus.SendEvent(Event{Type: EventChanged, OwnerID: "alice", ProjectID: "p1"}))

	ev := recv(t, ch)
	assert.Equal(t, EventChanged, ev.Type)
	assert.Equal(t, "p1", ev.ProjectID)
	assert.False(t, ev.Timestamp.IsZero())
}

func TestLocalBusStampsIncreasingSequence(t *testing.T) {
	bus := NewLocalBus()
	defer bus.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	ch, err := bus.Listen(ctx)
	require.NoError(t, err)

	require.NoError(t, bus.SendEvent(Event{Type: EventChanged}))
	require.NoError(t, bus.SendEvent(Event{Type: EventChanged}))

	first := recv(t, ch)
	second := recv(t, ch)
	assert.Greater(t, second.SequenceID, first.SequenceID)
}

func TestLocalBusFilterDropsOtherProjects(t *testing.T) {
	bus := NewLocalBus()
	defer bus.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	ch, err := bus.Listen(ctx)
	require.NoError(t, err)

	require.NoError(t, bus.Subscribe("p1"))
	require.NoError(t, bus.SendEvent(Event{Type: EventChanged, ProjectID: "p2"}))
	require.NoError(t, bus.SendEvent(Event{Type: EventChanged, ProjectID: "p1"}))
	// Project-collection events pass any filter
	require.NoError(t, bus.SendEvent(Event{Type: EventChanged, ProjectID: ""}))

	assert.Equal(t, "p1", recv(t, ch).ProjectID)
	assert.Empty(t, recv(t, ch).ProjectID)
	select {
	case ev := <-ch:
		t.Fatalf("unexpected event for project %q", ev.ProjectID)
	default:
	}
}

func TestLocalBusListenStopsOnContextCancel(t *testing.T) {
	bus := NewLocalBus()
	defer bus.Close()

	ctx, cancel := context.WithCancel(context.Background())
	ch, err := bus.Listen(ctx)
	require.NoError(t, err)

	cancel()
	select {
	case _, ok := <-ch:
		assert.False(t, ok, "channel should be closed, not deliver")
	case <-time.After(time.Second):
		t.Fatal("channel was not closed after cancel")
	}
}

func TestLocalBusClose(t *testing.T) {
	bus := NewLocalBus()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	ch, err := bus.Listen(ctx)
	require.NoError(t, err)

	require.NoError(t, bus.Close())
	_, ok := <-ch
	assert.False(t, ok)

	assert.ErrorIs(t, bus.SendEvent(Event{Type: EventChanged}), ErrBusClosed)
	_, err = bus.Listen(context.Background())
	assert.ErrorIs(t, err, ErrBusClosed)
	assert.NoError(t, bus.Close(), "close is idempotent")
}
