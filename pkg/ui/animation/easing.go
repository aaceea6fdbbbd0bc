package animation

import (
	"math"

	"github.com/odvcencio/trellis/pkg/ui/id"
	"github.com/odvcencio/trellis/pkg/ui/view"
	"github.com/odvcencio/trellis/pkg/ui/widget"
)

// Curve remaps a ratio in [0, 1]. Every curve maps 0 and 1 onto 0 and 1
// (Reverse swaps them).
type Curve uint8

const (
	Linear Curve = iota
	Reverse
	QuadIn
	QuadOut
	QuadInOut
	ElasticInOut
)

var curveNames = [...]string{
	Linear:       "linear",
	Reverse:      "reverse",
	QuadIn:       "quad_in",
	QuadOut:      "quad_out",
	QuadInOut:    "quad_in_out",
	ElasticInOut: "elastic_in_out",
}

func (c Curve) String() string {
	if int(c) < len(curveNames) {
		return curveNames[c]
	}
	return "unknown"
}

// elasticPeriod sets the oscillation frequency of ElasticInOut.
const elasticPeriod = 2 * math.Pi / 4.5

// Apply maps r through the curve.
func (c Curve) Apply(r float64) float64 {
	switch c {
	case Reverse:
		return 1 - r
	case QuadIn:
		return r * r
	case QuadOut:
		return 1 - (1-r)*(1-r)
	case QuadInOut:
		if r < 0.5 {
			return 2 * r * r
		}
		return 1 - math.Pow(-2*r+2, 2)/2
	case ElasticInOut:
		switch {
		case r <= 0:
			return 0
		case r >= 1:
			return 1
		case r < 0.5:
			return -(math.Pow(2, 20*r-10) * math.Sin((20*r-11.125)*elasticPeriod)) / 2
		default:
			return math.Pow(2, -20*r+10)*math.Sin((20*r-11.125)*elasticPeriod)/2 + 1
		}
	default:
		return r
	}
}

// EaseTween remaps the ratio before it reaches the wrapped tweenable.
type EaseTween[V any] struct {
	curve Curve
	inner Tweenable[V]
}

// Ease wraps inner so it sees curve.Apply(ratio). Wrappers compose.
func Ease[V any](curve Curve, inner Tweenable[V]) EaseTween[V] {
	return EaseTween[V]{curve: curve, inner: inner}
}

// Reversed plays inner backwards.
func Reversed[V any](inner Tweenable[V]) EaseTween[V] { return Ease(Reverse, inner) }

func EaseQuadIn[V any](inner Tweenable[V]) EaseTween[V]       { return Ease(QuadIn, inner) }
func EaseQuadOut[V any](inner Tweenable[V]) EaseTween[V]      { return Ease(QuadOut, inner) }
func EaseQuadInOut[V any](inner Tweenable[V]) EaseTween[V]    { return Ease(QuadInOut, inner) }
func EaseElasticInOut[V any](inner Tweenable[V]) EaseTween[V] { return Ease(ElasticInOut, inner) }

func (e EaseTween[V]) BuildTween(cx *view.Cx, ratio float64) (view.State, V) {
	return e.inner.BuildTween(cx, e.curve.Apply(ratio))
}

func (e EaseTween[V]) RebuildTween(cx *view.Cx, prev Tweenable[V], ratio float64, state *view.State, value *V) widget.ChangeFlags {
	p := prev.(EaseTween[V])
	return reconcileTween(cx, e.inner, p.inner, e.curve.Apply(ratio), state, value)
}

func (e EaseTween[V]) MessageTween(path id.Path, state view.State, msg any) view.ResultKind {
	return e.inner.MessageTween(path, state, msg)
}
