package view

import (
	"github.com/odvcencio/trellis/pkg/ui/id"
	"github.com/odvcencio/trellis/pkg/ui/widget"
)

// MemoView caches the subtree produced by a view function. The function
// runs again only when data changes, or after a message below it asked
// for a rebuild.
type MemoView[T, A any, D comparable] struct {
	data D
	fn   func(D) View[T, A]
}

// Memoize creates a memoized view of data.
func Memoize[T, A any, D comparable](data D, fn func(D) View[T, A]) MemoView[T, A, D] {
	return MemoView[T, A, D]{data: data, fn: fn}
}

type memoState[T, A any] struct {
	view  View[T, A]
	child State
	dirty bool
}

func (s *memoState[T, A]) Dispose() {
	Dispose(s.child)
	s.child = nil
}

func (v MemoView[T, A, D]) Build(cx *Cx) (id.Id, State, widget.Widget) {
	inner := v.fn(v.data)
	vid, child, w := inner.Build(cx)
	return vid, &memoState[T, A]{view: inner, child: child}, w
}

func (v MemoView[T, A, D]) Rebuild(cx *Cx, prev View[T, A], vid *id.Id, state *State, pod *widget.Pod) widget.ChangeFlags {
	p := mustPrev[MemoView[T, A, D]](prev)
	st := mustState[*memoState[T, A]](*state)
	if p.data == v.data && !st.dirty {
		return 0
	}
	inner := v.fn(v.data)
	changed := Reconcile(cx, inner, st.view, vid, &st.child, pod)
	st.view, st.dirty = inner, false
	return changed
}

func (v MemoView[T, A, D]) Message(path id.Path, state State, msg any, app *T) MessageResult[A] {
	st := mustState[*memoState[T, A]](state)
	r := st.view.Message(path, st.child, msg, app)
	if r.Kind == ResultRequestRebuild {
		st.dirty = true
	}
	return r
}
