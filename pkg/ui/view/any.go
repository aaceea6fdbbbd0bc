package view

import (
	"github.com/odvcencio/trellis/pkg/ui/id"
	"github.com/odvcencio/trellis/pkg/ui/widget"
)

// AnyView erases the concrete type of a view so that branches producing
// different view types fit one slot. It shares the id and state of the
// wrapped view. When the wrapped type changes between frames the subtree
// is rebuilt.
type AnyView[T, A any] struct {
	inner View[T, A]
}

// Any wraps v.
func Any[T, A any](v View[T, A]) AnyView[T, A] {
	return AnyView[T, A]{inner: v}
}

func (v AnyView[T, A]) Build(cx *Cx) (id.Id, State, widget.Widget) {
	return v.inner.Build(cx)
}

func (v AnyView[T, A]) Rebuild(cx *Cx, prev View[T, A], vid *id.Id, state *State, pod *widget.Pod) widget.ChangeFlags {
	p := mustPrev[AnyView[T, A]](prev)
	return Reconcile(cx, v.inner, p.inner, vid, state, pod)
}

func (v AnyView[T, A]) Message(path id.Path, state State, msg any, app *T) MessageResult[A] {
	return v.inner.Message(path, state, msg, app)
}

// OneOfView selects one of several mutually exclusive variants. Rebuilding
// with the same variant reconciles in place; switching variant tears the
// subtree down and builds the new one.
type OneOfView[T, A any] struct {
	variant int
	view    View[T, A]
}

// OneOf creates variant number variant, displayed by v.
func OneOf[T, A any](variant int, v View[T, A]) OneOfView[T, A] {
	return OneOfView[T, A]{variant: variant, view: v}
}

// Variant returns the discriminant.
func (v OneOfView[T, A]) Variant() int { return v.variant }

type oneOfState struct {
	variant int
	child   State
}

func (s *oneOfState) Dispose() {
	Dispose(s.child)
	s.child = nil
}

func (v OneOfView[T, A]) Build(cx *Cx) (id.Id, State, widget.Widget) {
	vid, child, w := v.view.Build(cx)
	return vid, &oneOfState{variant: v.variant, child: child}, w
}

func (v OneOfView[T, A]) Rebuild(cx *Cx, prev View[T, A], vid *id.Id, state *State, pod *widget.Pod) widget.ChangeFlags {
	p := mustPrev[OneOfView[T, A]](prev)
	st := mustState[*oneOfState](*state)
	if st.variant == v.variant {
		return Reconcile(cx, v.view, p.view, vid, &st.child, pod)
	}
	Dispose(st.child)
	nid, child, w := v.view.Build(cx)
	pod.Replace(w)
	*vid = nid
	st.variant, st.child = v.variant, child
	return replaceFlags
}

func (v OneOfView[T, A]) Message(path id.Path, state State, msg any, app *T) MessageResult[A] {
	st := mustState[*oneOfState](state)
	if st.variant != v.variant {
		return Stale[A](msg)
	}
	return v.view.Message(path, st.child, msg, app)
}
