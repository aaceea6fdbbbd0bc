// Package telemetry reports what the frame loop does: Prometheus metrics,
// OpenTelemetry spans per frame, and an in-process event hub that tools
// and tests can subscribe to.
package telemetry

import (
	"sync"
	"time"
)

// EventType identifies the kind of telemetry event.
type EventType string

const (
	EventAppStarted     EventType = "app.started"
	EventAppStopped     EventType = "app.stopped"
	EventFrameRendered  EventType = "frame.rendered"
	EventMessageStale   EventType = "message.stale"
	EventActionDropped  EventType = "action.dropped"
	EventAsyncWake      EventType = "async.wake"
	EventAnimationFrame EventType = "animation.frame"
)

// Event describes one thing the frame loop did.
type Event struct {
	Type      EventType      `json:"type"`
	Timestamp time.Time      `json:"timestamp"`
	Frame     uint64         `json:"frame,omitempty"`
	Path      string         `json:"path,omitempty"`
	Data      map[string]any `json:"data,omitempty"`
}

// subscriberBuffer is the channel capacity of each subscriber.
const subscriberBuffer = 64

// Hub fans events out to any number of subscribers. A nil *Hub accepts
// and drops everything.
type Hub struct {
	mu          sync.RWMutex
	subscribers map[chan Event]struct{}
	closed      bool
}

// NewHub constructs a telemetry hub.
func NewHub() *Hub {
	return &Hub{subscribers: make(map[chan Event]struct{})}
}

// Publish notifies all subscribers. It never blocks: a subscriber whose
// buffer is full misses the event.
func (h *Hub) Publish(event Event) {
	if h == nil {
		return
	}
	h.mu.RLock()
	defer h.mu.RUnlock()
	if h.closed {
		return
	}
	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now()
	}
	for ch := range h.subscribers {
		select {
		case ch <- event:
		default:
		}
	}
}

// Subscribe returns a channel receiving future events and a function that
// ends the subscription and closes the channel.
func (h *Hub) Subscribe() (<-chan Event, func()) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.closed {
		empty := make(chan Event)
		close(empty)
		return empty, func() {}
	}
	ch := make(chan Event, subscriberBuffer)
	h.subscribers[ch] = struct{}{}
	unsubscribe := func() {
		h.mu.Lock()
		defer h.mu.Unlock()
		if _, ok := h.subscribers[ch]; ok {
			delete(h.subscribers, ch)
			close(ch)
		}
	}
	return ch, unsubscribe
}

// Close ends every subscription and drops later publications.
func (h *Hub) Close() {
	if h == nil {
		return
	}
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.closed {
		return
	}
	h.closed = true
	for ch := range h.subscribers {
		close(ch)
		delete(h.subscribers, ch)
	}
}
