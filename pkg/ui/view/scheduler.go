package view

import (
	"context"
	stdliberrors "errors"
	"fmt"
	"sync"

	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/semaphore"

	"github.com/odvcencio/trellis/pkg/errors"
	"github.com/odvcencio/trellis/pkg/logging"
)

// Scheduler runs async work for views off the UI goroutine. At most
// workers tasks run at once; the rest wait for a slot.
type Scheduler struct {
	ctx    context.Context
	cancel context.CancelFunc
	sem    *semaphore.Weighted
	group  errgroup.Group
	logger *logging.Logger
}

// NewScheduler creates a scheduler whose tasks are canceled with ctx or
// on Close.
func NewScheduler(ctx context.Context, workers int, logger *logging.Logger) *Scheduler {
	if workers < 1 {
		workers = 1
	}
	if logger == nil {
		logger = logging.Discard()
	}
	ctx, cancel := context.WithCancel(ctx)
	return &Scheduler{
		ctx:    ctx,
		cancel: cancel,
		sem:    semaphore.NewWeighted(int64(workers)),
		logger: logger.WithComponent("scheduler"),
	}
}

// Close cancels outstanding tasks and waits for their goroutines. The
// first task failure is logged; each task also reports its own error
// through its handle.
func (s *Scheduler) Close() {
	s.cancel()
	if err := s.group.Wait(); err != nil && !stdliberrors.Is(err, context.Canceled) {
		s.logger.Warn("async task failed before close", "error", err)
	}
}

func (s *Scheduler) run(ctx context.Context, f func(ctx context.Context) error) {
	s.group.Go(func() error {
		if err := s.sem.Acquire(ctx, 1); err != nil {
			return f(ctx)
		}
		defer s.sem.Release(1)
		return f(ctx)
	})
}

// Task is the handle of an async computation producing a V.
type Task[V any] struct {
	mu       sync.Mutex
	done     bool
	canceled bool
	value    V
	err      error
	waker    Waker
	cancel   context.CancelFunc
}

// Spawn starts f on s. A panic in f is recovered and reported as a
// TASK_FAILED error.
func Spawn[V any](s *Scheduler, f func(ctx context.Context) (V, error)) *Task[V] {
	ctx, cancel := context.WithCancel(s.ctx)
	t := &Task[V]{cancel: cancel}
	s.run(ctx, func(ctx context.Context) (err error) {
		var v V
		defer func() {
			if r := recover(); r != nil {
				err = errors.New(errors.ErrCodeTaskFailed, fmt.Sprintf("task panicked: %v", r))
				s.logger.Error("async task panicked", "panic", fmt.Sprint(r))
			}
			t.finish(v, err)
		}()
		if err = ctx.Err(); err != nil {
			return err
		}
		v, err = f(ctx)
		if err != nil {
			err = errors.Wrap(err, errors.ErrCodeTaskFailed, "async task failed")
		}
		return err
	})
	return t
}

// Poll returns the result if the task finished. Otherwise w is registered
// and woken once the task finishes.
func (t *Task[V]) Poll(w Waker) (V, bool, error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.done {
		return t.value, true, t.err
	}
	t.waker = w
	var zero V
	return zero, false, nil
}

// Result returns the result if the task finished without registering a
// waker.
func (t *Task[V]) Result() (V, bool, error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	var zero V
	if !t.done {
		return zero, false, nil
	}
	return t.value, true, t.err
}

// Cancel releases the task. Its waker will not fire.
func (t *Task[V]) Cancel() {
	t.mu.Lock()
	t.canceled = true
	t.waker = Waker{}
	t.mu.Unlock()
	t.cancel()
}

func (t *Task[V]) finish(v V, err error) {
	t.mu.Lock()
	if t.done {
		t.mu.Unlock()
		return
	}
	t.done = true
	t.value, t.err = v, err
	w, canceled := t.waker, t.canceled
	t.mu.Unlock()

	t.cancel()
	if !canceled {
		w.Wake()
	}
}
