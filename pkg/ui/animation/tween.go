package animation

import (
	"reflect"
	"time"

	"github.com/odvcencio/trellis/pkg/ui/id"
	"github.com/odvcencio/trellis/pkg/ui/view"
	"github.com/odvcencio/trellis/pkg/ui/widget"
)

// Tweenable produces a value from a ratio in [0, 1].
type Tweenable[V any] interface {
	BuildTween(cx *view.Cx, ratio float64) (view.State, V)
	RebuildTween(cx *view.Cx, prev Tweenable[V], ratio float64, state *view.State, value *V) widget.ChangeFlags
	MessageTween(path id.Path, state view.State, msg any) view.ResultKind
}

func reconcileTween[V any](cx *view.Cx, cur, prev Tweenable[V], ratio float64, state *view.State, value *V) widget.ChangeFlags {
	if prev != nil && reflect.TypeOf(cur) == reflect.TypeOf(prev) {
		return cur.RebuildTween(cx, prev, ratio, state, value)
	}
	view.Dispose(*state)
	*state, *value = cur.BuildTween(cx, ratio)
	return widget.ChangeUpdate | widget.ChangePaint
}

// Restart rewinds a Tween to the start of its current play direction.
type Restart struct{}

// Seek moves a Tween to Ratio.
type Seek struct {
	Ratio float64
}

// TweenAnim runs a clock from 0 to its duration and feeds the elapsed
// fraction to a Tweenable.
type TweenAnim[V any] struct {
	duration time.Duration
	speed    float64
	inner    Tweenable[V]
}

// Tween plays inner over duration at normal speed.
func Tween[V any](duration time.Duration, inner Tweenable[V]) TweenAnim[V] {
	return TweenAnim[V]{duration: duration, speed: 1, inner: inner}
}

// Speed sets the play speed. Negative speeds play backwards, zero pauses.
func (t TweenAnim[V]) Speed(speed float64) TweenAnim[V] {
	t.speed = speed
	return t
}

type tweenState struct {
	elapsed time.Duration
	inner   view.State
}

func (s *tweenState) Dispose() {
	view.Dispose(s.inner)
}

func (t TweenAnim[V]) ratio(elapsed time.Duration) float64 {
	if t.duration <= 0 {
		return 0
	}
	return float64(elapsed) / float64(t.duration)
}

func (t TweenAnim[V]) running(elapsed time.Duration) bool {
	switch {
	case t.duration <= 0:
		return false
	case t.speed > 0:
		return elapsed < t.duration
	case t.speed < 0:
		return elapsed > 0
	default:
		return false
	}
}

func (t TweenAnim[V]) Build(cx *view.Cx) (id.Id, view.State, V) {
	st := &tweenState{}
	var v V
	aid := cx.WithNewId(func() {
		st.inner, v = t.inner.BuildTween(cx, 0)
	})
	return aid, st, v
}

func (t TweenAnim[V]) Rebuild(cx *view.Cx, prev Animatable[V], aid *id.Id, state *view.State, value *V) widget.ChangeFlags {
	p := prev.(TweenAnim[V])
	st := (*state).(*tweenState)

	step := time.Duration(t.speed * float64(cx.TimeSinceLastRender()))
	st.elapsed = min(max(st.elapsed+step, 0), max(t.duration, 0))

	var changed widget.ChangeFlags
	cx.WithId(*aid, func() {
		changed = reconcileTween(cx, t.inner, p.inner, t.ratio(st.elapsed), &st.inner, value)
	})
	if t.running(st.elapsed) {
		changed |= widget.ChangeUpdate
	}
	return changed
}

func (t TweenAnim[V]) Message(path id.Path, state view.State, msg any) view.ResultKind {
	st := state.(*tweenState)
	if len(path) != 0 {
		return t.inner.MessageTween(path, st.inner, msg)
	}
	switch m := msg.(type) {
	case Restart:
		if t.speed < 0 {
			st.elapsed = t.duration
		} else {
			st.elapsed = 0
		}
	case Seek:
		r := min(max(m.Ratio, 0), 1)
		st.elapsed = time.Duration(r * float64(t.duration))
	default:
		return view.ResultStale
	}
	return view.ResultRequestRebuild
}

// LerpTween interpolates linearly between two animatable endpoints.
type LerpTween[V Float] struct {
	from Animatable[V]
	to   Animatable[V]
}

// Lerp interpolates from from at ratio 0 to to at ratio 1.
func Lerp[V Float](from, to Animatable[V]) LerpTween[V] {
	return LerpTween[V]{from: from, to: to}
}

type lerpState[V Float] struct {
	fromId    id.Id
	toId      id.Id
	fromState view.State
	toState   view.State
	from      V
	to        V
}

func (s *lerpState[V]) Dispose() {
	view.Dispose(s.fromState)
	view.Dispose(s.toState)
}

func (s *lerpState[V]) at(ratio float64) V {
	return s.from + V(ratio*float64(s.to-s.from))
}

func (l LerpTween[V]) BuildTween(cx *view.Cx, ratio float64) (view.State, V) {
	st := &lerpState[V]{}
	st.fromId, st.fromState, st.from = l.from.Build(cx)
	st.toId, st.toState, st.to = l.to.Build(cx)
	return st, st.at(ratio)
}

func (l LerpTween[V]) RebuildTween(cx *view.Cx, prev Tweenable[V], ratio float64, state *view.State, value *V) widget.ChangeFlags {
	p := prev.(LerpTween[V])
	st := (*state).(*lerpState[V])

	changed := reconcile(cx, l.from, p.from, &st.fromId, &st.fromState, &st.from)
	changed |= reconcile(cx, l.to, p.to, &st.toId, &st.toState, &st.to)
	changed &= widget.ChangeUpdate

	if v := st.at(ratio); v != *value {
		*value = v
		changed |= widget.ChangePaint
	}
	return changed
}

func (l LerpTween[V]) MessageTween(path id.Path, state view.State, msg any) view.ResultKind {
	st := state.(*lerpState[V])
	head, tail, ok := path.Split()
	switch {
	case !ok:
		return view.ResultStale
	case head == st.fromId:
		return l.from.Message(tail, st.fromState, msg)
	case head == st.toId:
		return l.to.Message(tail, st.toState, msg)
	default:
		return view.ResultStale
	}
}
