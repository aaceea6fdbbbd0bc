package animation

import (
	"github.com/odvcencio/trellis/pkg/errors"
	"github.com/odvcencio/trellis/pkg/ui/id"
	"github.com/odvcencio/trellis/pkg/ui/view"
	"github.com/odvcencio/trellis/pkg/ui/widget"
)

// AnimatedView hosts an animatable in the view tree. Every rebuild
// advances the animatable and renders its current value through render.
// While the animatable is running the view requests animation frames, so
// the app keeps rebuilding even when nothing else happens.
type AnimatedView[T, A, V any] struct {
	anim   Animatable[V]
	render func(V) view.View[T, A]
}

// Animated renders anim's value with render.
func Animated[T, A, V any](anim Animatable[V], render func(V) view.View[T, A]) AnimatedView[T, A, V] {
	return AnimatedView[T, A, V]{anim: anim, render: render}
}

type animatedState[T, A, V any] struct {
	animId    id.Id
	animState view.State
	value     V
	view      view.View[T, A]
	childId   id.Id
	child     view.State
}

func (s *animatedState[T, A, V]) Dispose() {
	view.Dispose(s.animState)
	view.Dispose(s.child)
}

func (v AnimatedView[T, A, V]) Build(cx *view.Cx) (id.Id, view.State, widget.Widget) {
	st := &animatedState[T, A, V]{}
	var w widget.Widget
	vid := cx.WithNewId(func() {
		st.animId, st.animState, st.value = v.anim.Build(cx)
		st.view = v.render(st.value)
		st.childId, st.child, w = st.view.Build(cx)
	})
	cx.RequestAnimationFrame()
	return vid, st, w
}

func (v AnimatedView[T, A, V]) Rebuild(cx *view.Cx, prev view.View[T, A], vid *id.Id, state *view.State, pod *widget.Pod) widget.ChangeFlags {
	p, ok := prev.(AnimatedView[T, A, V])
	if !ok {
		panic(errors.Invariantf("animated view rebuilt against %T", prev))
	}
	st, ok := (*state).(*animatedState[T, A, V])
	if !ok {
		panic(errors.Invariantf("animated view state is %T", *state))
	}

	var changed widget.ChangeFlags
	cx.WithId(*vid, func() {
		if reconcile(cx, v.anim, p.anim, &st.animId, &st.animState, &st.value).Has(widget.ChangeUpdate) {
			cx.RequestAnimationFrame()
		}
		next := v.render(st.value)
		changed = view.Reconcile(cx, next, st.view, &st.childId, &st.child, pod)
		st.view = next
	})
	return changed
}

func (v AnimatedView[T, A, V]) Message(path id.Path, state view.State, msg any, app *T) view.MessageResult[A] {
	st := state.(*animatedState[T, A, V])
	head, tail, ok := path.Split()
	switch {
	case !ok:
		return view.Stale[A](msg)
	case head == st.animId:
		if v.anim.Message(tail, st.animState, msg) == view.ResultRequestRebuild {
			return view.RequestRebuild[A]()
		}
		return view.Stale[A](msg)
	case head == st.childId:
		return st.view.Message(tail, st.child, msg, app)
	default:
		return view.Stale[A](msg)
	}
}
