package view

import (
	"context"
	"time"

	"github.com/odvcencio/trellis/pkg/logging"
	"github.com/odvcencio/trellis/pkg/ui/id"
)

// Cx is threaded through Build and Rebuild. It tracks the id path of the
// node being reconciled and gives views access to the frame loop's
// services.
type Cx struct {
	path      id.Path
	ctx       context.Context
	wakes     *WakeQueue
	scheduler *Scheduler
	logger    *logging.Logger

	sinceLast time.Duration
	animate   bool
}

// NewCx creates a reconciliation context.
func NewCx(ctx context.Context, wakes *WakeQueue, scheduler *Scheduler, logger *logging.Logger) *Cx {
	if logger == nil {
		logger = logging.Discard()
	}
	return &Cx{ctx: ctx, wakes: wakes, scheduler: scheduler, logger: logger}
}

// WithId runs f with i pushed onto the path.
func (cx *Cx) WithId(i id.Id, f func()) {
	cx.path = append(cx.path, i)
	defer cx.pop()
	f()
}

// WithNewId allocates an id and runs f with it pushed onto the path.
func (cx *Cx) WithNewId(f func()) id.Id {
	i := id.Next()
	cx.WithId(i, f)
	return i
}

func (cx *Cx) pop() {
	cx.path = cx.path[:len(cx.path)-1]
}

// IdPath returns a copy of the current path. Inside WithId it ends with
// the id of the node being built.
func (cx *Cx) IdPath() id.Path { return cx.path.Clone() }

// Depth returns the current path length.
func (cx *Cx) Depth() int { return len(cx.path) }

// Waker returns a waker addressed to the current path.
func (cx *Cx) Waker() Waker {
	return Waker{path: cx.IdPath(), queue: cx.wakes}
}

// Scheduler returns the async task scheduler.
func (cx *Cx) Scheduler() *Scheduler { return cx.scheduler }

// Context returns the context of the running app.
func (cx *Cx) Context() context.Context { return cx.ctx }

// Logger returns the app logger.
func (cx *Cx) Logger() *logging.Logger { return cx.logger }

// TimeSinceLastRender returns the time elapsed between the previous frame
// and the one being reconciled.
func (cx *Cx) TimeSinceLastRender() time.Duration { return cx.sinceLast }

// BeginFrame starts a reconciliation pass dt after the previous one.
func (cx *Cx) BeginFrame(dt time.Duration) {
	cx.sinceLast = dt
	cx.animate = false
}

// RequestAnimationFrame asks the driver to reconcile again on the next
// animation tick even without input.
func (cx *Cx) RequestAnimationFrame() { cx.animate = true }

// AnimationRequested reports whether any view asked for another frame
// during the current pass.
func (cx *Cx) AnimationRequested() bool { return cx.animate }
