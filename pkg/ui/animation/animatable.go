// Package animation drives values that keep changing across frames while
// application state stays put: low-pass filters chasing a target, tweens
// running on a clock, and easing curves shaping them.
//
// Animatable nodes reconcile like views (build once, rebuild every frame,
// route messages by id) but produce a value instead of a widget. Rebuild
// reports ChangeUpdate while the node must be evaluated again on the next
// frame and ChangePaint when its value moved. The Animated view hosts an
// animatable in the view tree and asks the app for animation frames while
// it is running.
package animation

import (
	"math"
	"reflect"

	"github.com/odvcencio/trellis/pkg/ui/id"
	"github.com/odvcencio/trellis/pkg/ui/view"
	"github.com/odvcencio/trellis/pkg/ui/widget"
)

// Float is the value type filters and interpolation work on.
type Float interface {
	~float32 | ~float64
}

// Animatable produces a value of type V that may evolve with time.
type Animatable[V any] interface {
	Build(cx *view.Cx) (id.Id, view.State, V)

	// Rebuild advances the node by cx.TimeSinceLastRender and reconciles
	// it against prev, which has the receiver's dynamic type.
	Rebuild(cx *view.Cx, prev Animatable[V], aid *id.Id, state *view.State, value *V) widget.ChangeFlags

	// Message routes msg by path relative to the node. Handled messages
	// report ResultRequestRebuild so the app renders another frame.
	Message(path id.Path, state view.State, msg any) view.ResultKind
}

// reconcile rebuilds cur against prev or, on a type change, replaces the
// node. A replaced node is evaluated again on the next frame.
func reconcile[V any](cx *view.Cx, cur, prev Animatable[V], aid *id.Id, state *view.State, value *V) widget.ChangeFlags {
	if prev != nil && reflect.TypeOf(cur) == reflect.TypeOf(prev) {
		return cur.Rebuild(cx, prev, aid, state, value)
	}
	view.Dispose(*state)
	*aid, *state, *value = cur.Build(cx)
	return widget.ChangeUpdate | widget.ChangePaint
}

// ConstAnim is a value that never changes on its own.
type ConstAnim[V comparable] struct {
	value V
}

// Const creates a constant animatable.
func Const[V comparable](v V) ConstAnim[V] {
	return ConstAnim[V]{value: v}
}

func (c ConstAnim[V]) Build(*view.Cx) (id.Id, view.State, V) {
	return id.Next(), nil, c.value
}

func (c ConstAnim[V]) Rebuild(_ *view.Cx, _ Animatable[V], _ *id.Id, _ *view.State, value *V) widget.ChangeFlags {
	if *value == c.value {
		return 0
	}
	*value = c.value
	return widget.ChangePaint
}

func (c ConstAnim[V]) Message(id.Path, view.State, any) view.ResultKind {
	return view.ResultStale
}

// Snap makes a LowPass jump to its target.
type Snap struct{}

// convergence is the distance below which a LowPass lands on its target.
const convergence = 1e-4

// framesPerSecond scales decay so that it is the fraction of the remaining
// distance covered per frame at 60 fps, whatever the actual frame rate.
const framesPerSecond = 60

// LowPassAnim approaches its target exponentially.
type LowPassAnim[V Float] struct {
	target  V
	decay   float64
	start   V
	hasFrom bool
}

// LowPass follows target, covering the fraction decay of the remaining
// distance per 1/60 s. It starts at the target unless From is used.
func LowPass[V Float](target V, decay float64) LowPassAnim[V] {
	return LowPassAnim[V]{target: target, decay: decay}
}

// From sets the value the filter starts at when first built.
func (l LowPassAnim[V]) From(v V) LowPassAnim[V] {
	l.start, l.hasFrom = v, true
	return l
}

// Target returns the value the filter converges to.
func (l LowPassAnim[V]) Target() V { return l.target }

type lowPassState struct {
	snap bool
}

func (l LowPassAnim[V]) Build(*view.Cx) (id.Id, view.State, V) {
	v := l.target
	if l.hasFrom {
		v = l.start
	}
	return id.Next(), &lowPassState{}, v
}

func (l LowPassAnim[V]) Rebuild(cx *view.Cx, _ Animatable[V], _ *id.Id, state *view.State, value *V) widget.ChangeFlags {
	st := (*state).(*lowPassState)
	old := *value
	next := old
	if st.snap {
		next, st.snap = l.target, false
	} else {
		dt := cx.TimeSinceLastRender().Seconds()
		k := 1 - math.Pow(1-l.decay, dt*framesPerSecond)
		next += V(k * float64(l.target-old))
	}
	if math.Abs(float64(l.target-next)) < convergence {
		next = l.target
	}

	var changed widget.ChangeFlags
	if next != old {
		*value = next
		changed |= widget.ChangePaint
	}
	if next != l.target {
		changed |= widget.ChangeUpdate
	}
	return changed
}

func (l LowPassAnim[V]) Message(path id.Path, state view.State, msg any) view.ResultKind {
	if len(path) != 0 {
		return view.ResultStale
	}
	if _, ok := msg.(Snap); !ok {
		return view.ResultStale
	}
	state.(*lowPassState).snap = true
	return view.ResultRequestRebuild
}
