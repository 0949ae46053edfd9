package server

import "sync"

// Message is the wire envelope every client receives.
type Message struct {
	Type    string `json:"type"`
	Payload any    `json:"payload,omitempty"`
}

// Hub fans room messages out to the websocket connections of one room.
// It implements room.Sender; writes go through buffered channels so a
// slow client never blocks the room's state machine.
type Hub struct {
	mu    sync.Mutex
	conns map[string]chan Message
}

func NewHub() *Hub {
	return &Hub{conns: make(map[string]chan Message)}
}

// Register attaches a player connection and returns its outbound queue.
// A reconnect replaces the previous queue.
func (h *Hub) Register(playerID string) chan Message {
	h.mu.Lock()
	defer h.mu.Unlock()
	if old, ok := h.conns[playerID]; ok {
		close(old)
	}
	ch := make(chan Message, 32)
	h.conns[playerID] = ch
	return ch
}

// Unregister detaches a connection. The queue is only closed if it is
// still the registered one, so a reconnect race cannot close the fresh
// channel.
func (h *Hub) Unregister(playerID string, ch chan Message) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.conns[playerID] == ch {
		delete(h.conns, playerID)
		close(ch)
	}
}

func (h *Hub) Broadcast(kind string, payload any) {
	h.mu.Lock()
	defer h.mu.Unlock()
	for _, ch := range h.conns {
		offer(ch, Message{Type: kind, Payload: payload})
	}
}

func (h *Hub) SendTo(playerID string, kind string, payload any) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if ch, ok := h.conns[playerID]; ok {
		offer(ch, Message{Type: kind, Payload: payload})
	}
}

// offer drops the message when the queue is full rather than stalling
// the room. The next state snapshot resynchronizes the client.
func offer(ch chan Message, msg Message) {
	select {
	case ch <- msg:
	default:
	}
}
