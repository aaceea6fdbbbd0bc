package view

import (
	"context"

	"github.com/odvcencio/trellis/pkg/logging"
	"github.com/odvcencio/trellis/pkg/ui/id"
	"github.com/odvcencio/trellis/pkg/ui/widget"
)

// DeferredView shows a placeholder until an async computation yields the
// view to show instead. Once resolved, the subtree is installed and never
// rebuilt again. If the computation fails the placeholder stays.
type DeferredView[T, A any] struct {
	future      func(ctx context.Context) (View[T, A], error)
	placeholder View[T, A]
}

// Deferred starts future when the node is built.
func Deferred[T, A any](future func(ctx context.Context) (View[T, A], error), placeholder View[T, A]) DeferredView[T, A] {
	return DeferredView[T, A]{future: future, placeholder: placeholder}
}

type deferredState[T, A any] struct {
	task     *Task[View[T, A]]
	resolved bool
	failed   bool
	view     View[T, A]
	childId  id.Id
	child    State
	logger   *logging.Logger
	path     id.Path
}

func (s *deferredState[T, A]) Dispose() {
	if s.task != nil {
		s.task.Cancel()
		s.task = nil
	}
	Dispose(s.child)
	s.child = nil
}

func (s *deferredState[T, A]) fail(err error) {
	if s.failed {
		return
	}
	s.failed = true
	s.logger.LogTaskFailed(s.path, err)
}

func (v DeferredView[T, A]) Build(cx *Cx) (id.Id, State, widget.Widget) {
	st := &deferredState[T, A]{view: v.placeholder}
	var w widget.Widget
	vid := cx.WithNewId(func() {
		st.path = cx.IdPath()
		st.logger = cx.Logger().WithComponent("view.deferred")
		st.task = Spawn(cx.Scheduler(), v.future)
		res, ready, err := st.task.Poll(cx.Waker())
		switch {
		case ready && err == nil:
			st.view, st.resolved = res, true
		case ready:
			st.fail(err)
		}
		st.childId, st.child, w = st.view.Build(cx)
	})
	return vid, st, w
}

func (v DeferredView[T, A]) Rebuild(cx *Cx, _ View[T, A], vid *id.Id, state *State, pod *widget.Pod) widget.ChangeFlags {
	st := mustState[*deferredState[T, A]](*state)
	if st.resolved {
		return 0
	}

	var changed widget.ChangeFlags
	cx.WithId(*vid, func() {
		res, ready, err := st.task.Result()
		switch {
		case ready && err == nil:
			Dispose(st.child)
			var w widget.Widget
			st.childId, st.child, w = res.Build(cx)
			pod.Replace(w)
			st.view, st.resolved = res, true
			changed = replaceFlags
			return
		case ready:
			st.fail(err)
		}
		changed = Reconcile(cx, v.placeholder, st.view, &st.childId, &st.child, pod)
		st.view = v.placeholder
	})
	return changed
}

func (v DeferredView[T, A]) Message(path id.Path, state State, msg any, app *T) MessageResult[A] {
	st := mustState[*deferredState[T, A]](state)
	head, tail, ok := path.Split()
	if !ok {
		if _, wake := msg.(AsyncWake); !wake || st.resolved || st.task == nil {
			return Stale[A](msg)
		}
		_, ready, err := st.task.Result()
		switch {
		case !ready:
			return Nop[A]()
		case err != nil:
			st.fail(err)
			return Nop[A]()
		}
		return RequestRebuild[A]()
	}
	if head != st.childId {
		return Stale[A](msg)
	}
	return st.view.Message(tail, st.child, msg, app)
}
