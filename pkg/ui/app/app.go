// Package app runs a view tree against a terminal backend.
//
// The frame loop owns the application state, the view tree and the widget
// tree; nothing else may touch them while Run is active. Each frame asks
// the application for a fresh view tree, reconciles it against the
// previous one, lays out and paints the retained widgets, and flushes the
// changed cells. Between frames the loop waits for terminal input, posted
// messages, async wake-ups or animation ticks.
package app

import (
	"context"
	"fmt"
	"slices"
	"sync/atomic"
	"time"

	"github.com/petermattis/goid"
	"golang.org/x/time/rate"

	"github.com/odvcencio/trellis/pkg/config"
	"github.com/odvcencio/trellis/pkg/errors"
	"github.com/odvcencio/trellis/pkg/logging"
	"github.com/odvcencio/trellis/pkg/telemetry"
	"github.com/odvcencio/trellis/pkg/ui/backend"
	"github.com/odvcencio/trellis/pkg/ui/geom"
	"github.com/odvcencio/trellis/pkg/ui/id"
	"github.com/odvcencio/trellis/pkg/ui/render"
	"github.com/odvcencio/trellis/pkg/ui/terminal"
	"github.com/odvcencio/trellis/pkg/ui/view"
	"github.com/odvcencio/trellis/pkg/ui/widget"
)

// Options tune the frame loop. Zero fields take their defaults; empty
// QuitKeys means ctrl+c.
type Options struct {
	MaxFPS        int
	AnimationFPS  int
	MessageBuffer int
	DisableMouse  bool
	QuitKeys      []string
	Workers       int
}

// OptionsFromConfig takes the loop settings from a loaded configuration.
func OptionsFromConfig(cfg *config.Config) Options {
	return Options{
		MaxFPS:        cfg.UI.MaxFPS,
		AnimationFPS:  cfg.UI.AnimationFPS,
		MessageBuffer: cfg.UI.MessageBuffer,
		DisableMouse:  !cfg.UI.Mouse,
		QuitKeys:      slices.Clone(cfg.UI.QuitKeys),
		Workers:       cfg.Scheduler.Workers,
	}
}

// DefaultOptions returns the options of the default configuration.
func DefaultOptions() Options {
	return OptionsFromConfig(config.DefaultConfig())
}

// Config configures an App for state T and actions A.
type Config[T, A any] struct {
	Backend backend.Backend
	State   *T

	// View builds the view tree from the current state. It runs once per
	// frame on the loop goroutine.
	View func(state *T) view.View[T, A]

	// Update receives actions that reach the root of the tree. Optional.
	Update func(state *T, action A)

	// OnKey receives key presses that are not quit keys and reports
	// whether the state changed. Keys are not routed through the widget
	// tree. Optional.
	OnKey func(state *T, key terminal.KeyEvent) bool

	Options Options
	Logger  *logging.Logger
	Metrics *telemetry.Metrics
	Tracer  *telemetry.Tracer
	Hub     *telemetry.Hub
}

// App drives one view tree.
type App[T, A any] struct {
	be      backend.Backend
	state   *T
	viewFn  func(*T) view.View[T, A]
	update  func(*T, A)
	onKey   func(*T, terminal.KeyEvent) bool
	opts    Options
	logger  *logging.Logger
	metrics *telemetry.Metrics
	tracer  *telemetry.Tracer
	hub     *telemetry.Hub
	limiter *rate.Limiter
	wakes   *view.WakeQueue
	posted  chan widget.Message
	running atomic.Bool

	// Owned by the loop goroutine.
	owner     int64
	cx        *view.Cx
	sched     *view.Scheduler
	renderer  *render.Terminal
	root      view.View[T, A]
	rootId    id.Id
	rootState view.State
	pod       *widget.Pod
	rootWS    widget.WidgetState
	cxState   *widget.CxState
	mouse     geom.Point
	hasMouse  bool
	frame     uint64
	lastFrame time.Time
	changes   widget.ChangeFlags
	dirty     bool
	animating bool
	quit      bool
}

// New validates cfg and creates an App. Zero options take their defaults.
func New[T, A any](cfg Config[T, A]) (*App[T, A], error) {
	if cfg.Backend == nil {
		return nil, errors.New(errors.ErrCodeInvalidInput, "backend is required")
	}
	if cfg.View == nil {
		return nil, errors.New(errors.ErrCodeInvalidInput, "view function is required")
	}
	if cfg.State == nil {
		cfg.State = new(T)
	}

	opts := cfg.Options
	def := DefaultOptions()
	if opts.MaxFPS <= 0 {
		opts.MaxFPS = def.MaxFPS
	}
	if opts.AnimationFPS <= 0 {
		opts.AnimationFPS = def.AnimationFPS
	}
	if opts.MessageBuffer <= 0 {
		opts.MessageBuffer = def.MessageBuffer
	}
	if opts.Workers <= 0 {
		opts.Workers = def.Workers
	}
	if len(opts.QuitKeys) == 0 {
		opts.QuitKeys = def.QuitKeys
	}

	logger := cfg.Logger
	if logger == nil {
		logger = logging.Discard()
	}

	return &App[T, A]{
		be:      cfg.Backend,
		state:   cfg.State,
		viewFn:  cfg.View,
		update:  cfg.Update,
		onKey:   cfg.OnKey,
		opts:    opts,
		logger:  logger.WithComponent("app"),
		metrics: cfg.Metrics,
		tracer:  cfg.Tracer,
		hub:     cfg.Hub,
		limiter: rate.NewLimiter(rate.Limit(opts.MaxFPS), 1),
		wakes:   view.NewWakeQueue(),
		posted:  make(chan widget.Message, opts.MessageBuffer),
		cxState: widget.NewCxState(),
	}, nil
}

// Post queues msg for the view node at path. It is safe to call from any
// goroutine and never blocks; it reports false when the queue is full.
func (a *App[T, A]) Post(path id.Path, msg any) bool {
	select {
	case a.posted <- widget.Message{Path: path.Clone(), Body: msg}:
		return true
	default:
		return false
	}
}

// Run executes the frame loop until a quit key is pressed, ctx is done or
// the backend fails. The terminal is restored on every exit path.
func (a *App[T, A]) Run(ctx context.Context) (err error) {
	if !a.running.CompareAndSwap(false, true) {
		return errors.New(errors.ErrCodeInvalidInput, "app is already running")
	}
	defer a.running.Store(false)

	if err := a.be.Init(); err != nil {
		a.be.Fini()
		return errors.Wrap(err, errors.ErrCodeBackendInit, "init backend")
	}

	runCtx, cancel := context.WithCancel(ctx)
	a.start(runCtx)
	defer func() {
		r := recover()
		cancel()
		a.stop()
		if r != nil {
			a.logger.Error("frame loop panicked", "panic", fmt.Sprint(r))
			panic(r)
		}
	}()

	events := make(chan terminal.Event, a.opts.MessageBuffer)
	go a.pollEvents(runCtx, events)

	ticker := time.NewTicker(a.animationTick())
	defer ticker.Stop()

	for {
		if a.quit {
			return nil
		}
		if a.dirty {
			if err := a.limiter.Wait(runCtx); err != nil {
				return ctx.Err()
			}
			if err := a.renderFrame(runCtx); err != nil {
				return err
			}
		}

		var anim <-chan time.Time
		if a.animating {
			anim = ticker.C
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		case ev, ok := <-events:
			if !ok {
				return errors.New(errors.ErrCodeBackendIO, "terminal event source closed")
			}
			a.handleEvent(ev)
			for n := len(events); n > 0 && !a.quit; n-- {
				a.handleEvent(<-events)
			}
		case m := <-a.posted:
			a.deliver(m)
		case <-a.wakes.Ready():
			a.handleWakes()
		case <-anim:
			a.dirty = true
			a.hub.Publish(telemetry.Event{Type: telemetry.EventAnimationFrame, Frame: a.frame})
		}
	}
}

// start prepares the per-run state once the backend is up.
func (a *App[T, A]) start(ctx context.Context) {
	a.owner = goid.Get()
	a.be.HideCursor()
	a.sched = view.NewScheduler(ctx, a.opts.Workers, a.logger)
	a.cx = view.NewCx(ctx, a.wakes, a.sched, a.logger)
	a.renderer = render.NewTerminal(a.be)
	a.dirty = true
	a.quit = false

	w, h := a.be.Size()
	a.logger.Info("app started",
		"width", w,
		"height", h,
		"max_fps", a.opts.MaxFPS,
		"workers", a.opts.Workers,
	)
	a.hub.Publish(telemetry.Event{Type: telemetry.EventAppStarted})
}

// stop tears the tree down, waits for async tasks and restores the
// terminal.
func (a *App[T, A]) stop() {
	view.Dispose(a.rootState)
	a.root, a.rootState, a.pod = nil, nil, nil
	a.sched.Close()
	a.renderer.Close()
	a.be.Fini()
	a.metrics.SetAnimating(false)

	a.logger.Info("app stopped", "frames", a.frame)
	a.hub.Publish(telemetry.Event{Type: telemetry.EventAppStopped, Frame: a.frame})
}

// pollEvents forwards backend input to the loop until the backend shuts
// down.
func (a *App[T, A]) pollEvents(ctx context.Context, out chan<- terminal.Event) {
	defer close(out)
	for {
		ev := a.be.PollEvent()
		if ev == nil {
			return
		}
		select {
		case out <- ev:
		case <-ctx.Done():
			return
		}
	}
}

// assertOwner panics when the tree is touched off the loop goroutine.
func (a *App[T, A]) assertOwner() {
	if g := goid.Get(); g != a.owner {
		panic(errors.Invariantf("view tree accessed from goroutine %d, owned by %d", g, a.owner))
	}
}

// animationTick is the interval between frames while animating.
func (a *App[T, A]) animationTick() time.Duration {
	return time.Second / time.Duration(a.opts.AnimationFPS)
}
