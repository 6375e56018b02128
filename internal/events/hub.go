// Package events fans registry changes out to live subscribers such as the
// /events WebSocket stream.
package events

import (
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/smartkuk/simple-flask/internal/users"
)

// Kind names what happened to a record.
type Kind string

const (
	KindCreated Kind = "user.created"
	KindDeleted Kind = "user.deleted"
)

// Event describes a single registry change.
type Event struct {
	ID   string     `json:"event_id"`
	Kind Kind       `json:"type"`
	User users.View `json:"user"`
	At   time.Time  `json:"at"`
}

// Hub is a thread-safe, in-memory publish/subscribe hub. Publishing never
// blocks: a subscriber whose buffer is full misses the event.
type Hub struct {
	mu     sync.RWMutex
	subs   map[string]chan Event
	buffer int
	closed bool
}

// NewHub creates a hub whose subscriber channels hold up to buffer events.
func NewHub(buffer int) *Hub {
	if buffer < 1 {
		buffer = 1
	}
	return &Hub{
		subs:   make(map[string]chan Event),
		buffer: buffer,
	}
}

// Subscribe registers a new subscriber and returns its id and channel. The
// channel is closed by Unsubscribe or Close. Subscribing to a closed hub
// returns an already closed channel.
func (h *Hub) Subscribe() (string, <-chan Event) {
	id := uuid.New().String()
	ch := make(chan Event, h.buffer)

	h.mu.Lock()
	defer h.mu.Unlock()

	if h.closed {
		close(ch)
		return id, ch
	}
	h.subs[id] = ch
	return id, ch
}

// Unsubscribe removes a subscriber and closes its channel. Unknown ids are
// ignored.
func (h *Hub) Unsubscribe(id string) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if ch, ok := h.subs[id]; ok {
		delete(h.subs, id)
		close(ch)
	}
}

// Publish delivers an event for u to every subscriber and returns how many
// received it.
func (h *Hub) Publish(kind Kind, u users.User) int {
	evt := Event{
		ID:   uuid.New().String(),
		Kind: kind,
		User: u.View(),
		At:   time.Now().UTC(),
	}

	h.mu.RLock()
	defer h.mu.RUnlock()

	delivered := 0
	for _, ch := range h.subs {
		select {
		case ch <- evt:
			delivered++
		default:
		}
	}
	return delivered
}

// Subscribers returns the number of active subscribers.
func (h *Hub) Subscribers() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.subs)
}

// Close closes every subscriber channel. Later subscriptions get a closed
// channel and later publishes reach nobody.
func (h *Hub) Close() {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.closed {
		return
	}
	h.closed = true
	for id, ch := range h.subs {
		delete(h.subs, id)
		close(ch)
	}
}
