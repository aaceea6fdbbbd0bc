package view

import (
	"github.com/odvcencio/trellis/pkg/ui/id"
	"github.com/odvcencio/trellis/pkg/ui/widget"
)

// Local gives a component both the app state and its own state. The
// component state lives in the view tree and survives rebuilds.
type Local[T, S any] struct {
	App   *T
	State *S
}

// UseStateView attaches local state of type S to a subtree.
type UseStateView[T, A, S any] struct {
	init func() S
	fn   func(s *S) View[Local[T, S], A]
}

// UseState creates the state with init when the node is built and
// renders fn against it on every frame.
func UseState[T, A, S any](init func() S, fn func(s *S) View[Local[T, S], A]) UseStateView[T, A, S] {
	return UseStateView[T, A, S]{init: init, fn: fn}
}

type useState[T, A, S any] struct {
	local S
	view  View[Local[T, S], A]
	child State
}

func (s *useState[T, A, S]) Dispose() {
	Dispose(s.child)
	s.child = nil
}

func (v UseStateView[T, A, S]) Build(cx *Cx) (id.Id, State, widget.Widget) {
	st := &useState[T, A, S]{local: v.init()}
	st.view = v.fn(&st.local)
	vid, child, w := st.view.Build(cx)
	st.child = child
	return vid, st, w
}

func (v UseStateView[T, A, S]) Rebuild(cx *Cx, _ View[T, A], vid *id.Id, state *State, pod *widget.Pod) widget.ChangeFlags {
	st := mustState[*useState[T, A, S]](*state)
	inner := v.fn(&st.local)
	changed := Reconcile(cx, inner, st.view, vid, &st.child, pod)
	st.view = inner
	return changed
}

func (v UseStateView[T, A, S]) Message(path id.Path, state State, msg any, app *T) MessageResult[A] {
	st := mustState[*useState[T, A, S]](state)
	return st.view.Message(path, st.child, msg, &Local[T, S]{App: app, State: &st.local})
}

// MapActionView converts the actions of a child view.
type MapActionView[T, A, B any] struct {
	inner View[T, A]
	fn    func(app *T, a A) B
}

// MapAction wraps v so that its actions pass through fn.
func MapAction[T, A, B any](v View[T, A], fn func(app *T, a A) B) MapActionView[T, A, B] {
	return MapActionView[T, A, B]{inner: v, fn: fn}
}

func (v MapActionView[T, A, B]) Build(cx *Cx) (id.Id, State, widget.Widget) {
	return v.inner.Build(cx)
}

func (v MapActionView[T, A, B]) Rebuild(cx *Cx, prev View[T, B], vid *id.Id, state *State, pod *widget.Pod) widget.ChangeFlags {
	p := mustPrev[MapActionView[T, A, B]](prev)
	return Reconcile(cx, v.inner, p.inner, vid, state, pod)
}

func (v MapActionView[T, A, B]) Message(path id.Path, state State, msg any, app *T) MessageResult[B] {
	r := v.inner.Message(path, state, msg, app)
	return MapResult(r, func(a A) B { return v.fn(app, a) })
}

// LensView runs a child written against a part U of the app state.
type LensView[T, U, A any] struct {
	get   func(app *T) *U
	inner View[U, A]
}

// Lens focuses v on the part of the app state returned by get.
func Lens[T, U, A any](get func(app *T) *U, v View[U, A]) LensView[T, U, A] {
	return LensView[T, U, A]{get: get, inner: v}
}

func (v LensView[T, U, A]) Build(cx *Cx) (id.Id, State, widget.Widget) {
	return v.inner.Build(cx)
}

func (v LensView[T, U, A]) Rebuild(cx *Cx, prev View[T, A], vid *id.Id, state *State, pod *widget.Pod) widget.ChangeFlags {
	p := mustPrev[LensView[T, U, A]](prev)
	return Reconcile(cx, v.inner, p.inner, vid, state, pod)
}

func (v LensView[T, U, A]) Message(path id.Path, state State, msg any, app *T) MessageResult[A] {
	return v.inner.Message(path, state, msg, v.get(app))
}
