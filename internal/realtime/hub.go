package realtime

import (
	"sync"
	"time"

	"github.com/rs/zerolog"
)

// subscriberBuffer is the per-subscriber channel capacity. A subscriber
// that falls this far behind starts losing events, which is acceptable
// because consumers refetch full state on every event anyway.
const subscriberBuffer = 16

// Hub fans out change events to all subscribed listeners
type Hub struct {
	mu          sync.RWMutex
	subscribers map[chan *Event]bool
	logger      zerolog.Logger
}

// NewHub creates a new Hub instance
func NewHub(logger zerolog.Logger) *Hub {
	return &Hub{
		subscribers: make(map[chan *Event]bool),
		logger:      logger,
	}
}

// Subscribe registers a new listener and returns its event channel
func (h *Hub) Subscribe() chan *Event {
	ch := make(chan *Event, subscriberBuffer)

	h.mu.Lock()
	h.subscribers[ch] = true
	count := len(h.subscribers)
	h.mu.Unlock()

	h.logger.Debug().Int("subscribers", count).Msg("Listener subscribed")
	return ch
}

// Unsubscribe removes a listener and closes its channel
func (h *Hub) Unsubscribe(ch chan *Event) {
	h.mu.Lock()
	if _, ok := h.subscribers[ch]; ok {
		delete(h.subscribers, ch)
		close(ch)
	}
	count := len(h.subscribers)
	h.mu.Unlock()

	h.logger.Debug().Int("subscribers", count).Msg("Listener unsubscribed")
}

// Publish delivers an event to every subscriber without blocking
func (h *Hub) Publish(event *Event) {
	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now()
	}

	h.mu.RLock()
	defer h.mu.RUnlock()

	for ch := range h.subscribers {
		select {
		case ch <- event:
		default:
			// Subscriber is slow, drop the event for it
			h.logger.Warn().
				Str("table", event.Table).
				Str("type", event.Type).
				Msg("Skipped slow event listener")
		}
	}

	h.logger.Debug().
		Str("table", event.Table).
		Str("type", event.Type).
		Int64("recordID", event.RecordID).
		Int("subscribers", len(h.subscribers)).
		Msg("Event published")
}

// SubscriberCount returns the number of active listeners
func (h *Hub) SubscriberCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.subscribers)
}
