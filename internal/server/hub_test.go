package server

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestHubRoutesMessages(t *testing.T) {
	hub := NewHub()
	a := hub.Register("alice")
	b := hub.Register("bob")

	hub.Broadcast("state", 1)
	require.Equal(t, Message{Type: "state", Payload: 1}, <-a)
	require.Equal(t, Message{Type: "state", Payload: 1}, <-b)

	hub.SendTo("alice", "hand_dealt", 2)
	require.Len(t, a, 1)
	require.Len(t, b, 0)
}

func TestHubReconnectReplacesQueue(t *testing.T) {
	hub := NewHub()
	first := hub.Register("alice")
	second := hub.Register("alice")

	if _, ok := <-first; ok {
		t.Fatalf("stale queue should be closed")
	}

	hub.SendTo("alice", "state", nil)
	require.Len(t, second, 1)

	// Unregistering the stale handle must not close the live queue.
	hub.Unregister("alice", first)
	hub.SendTo("alice", "state", nil)
	require.Len(t, second, 2)

	hub.Unregister("alice", second)
	hub.SendTo("alice", "state", nil)
}

func TestHubDropsWhenQueueFull(t *testing.T) {
	hub := NewHub()
	ch := hub.Register("alice")
	for i := 0; i < cap(ch)+10; i++ {
		hub.SendTo("alice", "state", i)
	}
	require.Len(t, ch, cap(ch))
}
