package view

import (
	"sync"

	"github.com/odvcencio/trellis/pkg/ui/id"
)

// WakeQueue collects wake-up requests from any goroutine for the single
// frame loop that drains it. Push never blocks.
type WakeQueue struct {
	mu      sync.Mutex
	pending []id.Path
	ready   chan struct{}
}

// NewWakeQueue creates an empty queue.
func NewWakeQueue() *WakeQueue {
	return &WakeQueue{ready: make(chan struct{}, 1)}
}

// Push enqueues a wake for path.
func (q *WakeQueue) Push(path id.Path) {
	q.mu.Lock()
	q.pending = append(q.pending, path.Clone())
	q.mu.Unlock()

	select {
	case q.ready <- struct{}{}:
	default:
	}
}

// Ready is signalled after one or more pushes.
func (q *WakeQueue) Ready() <-chan struct{} { return q.ready }

// Drain returns and clears every pending wake in push order.
func (q *WakeQueue) Drain() []id.Path {
	q.mu.Lock()
	defer q.mu.Unlock()
	out := q.pending
	q.pending = nil
	return out
}

// Len returns the number of pending wakes.
func (q *WakeQueue) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.pending)
}

// Waker wakes the frame loop on behalf of one view node. It may be copied
// and called from any goroutine.
type Waker struct {
	path  id.Path
	queue *WakeQueue
}

// Wake enqueues an AsyncWake for the node. A zero Waker does nothing.
func (w Waker) Wake() {
	if w.queue == nil {
		return
	}
	w.queue.Push(w.path)
}

// Path returns the address the waker delivers to.
func (w Waker) Path() id.Path { return w.path.Clone() }
