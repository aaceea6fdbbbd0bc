package main

import (
	"context"
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/odvcencio/trellis/pkg/ui/animation"
	"github.com/odvcencio/trellis/pkg/ui/backend"
	"github.com/odvcencio/trellis/pkg/ui/terminal"
	"github.com/odvcencio/trellis/pkg/ui/view"
)

const barWidth = 20

type demoState struct {
	count    int
	reversed bool
}

type demoAction int

const (
	actionIncrement demoAction = iota
	actionDecrement
	actionReset
	actionToggle
)

var actionNames = [...]string{"increment", "decrement", "reset", "toggle"}

func (a demoAction) String() string {
	if int(a) < len(actionNames) {
		return actionNames[a]
	}
	return "unknown"
}

var (
	titleStyle  = backend.DefaultStyle().Bold(true)
	barStyle    = backend.DefaultStyle().Foreground(backend.ColorGreen)
	pulseStyle  = backend.DefaultStyle().Foreground(backend.ColorCyan)
	dimStyle    = backend.DefaultStyle().Dim(true)
	borderStyle = backend.DefaultStyle().Foreground(backend.ColorBlue)
)

type (
	demoView = view.View[demoState, demoAction]
	greeter  = func(ctx context.Context) (string, error)
)

// demo wires the demo screen. quitKeys only feed the footer.
type demo struct {
	greet    greeter
	quitKeys []string
}

func (d demo) view(s *demoState) demoView {
	return view.Column[demoState, demoAction](
		view.Text[demoState, demoAction]("trellis demo").Styled(titleStyle),
		view.Row[demoState, demoAction](
			view.Button[demoState, demoAction]("-", func(*demoState) demoAction { return actionDecrement }),
			view.Text[demoState, demoAction](fmt.Sprintf("%3d", s.count)),
			view.Button[demoState, demoAction]("+", func(*demoState) demoAction { return actionIncrement }),
			view.Button[demoState, demoAction]("reset", func(*demoState) demoAction { return actionReset }),
		).WithGap(1),
		countBar(s.count),
		status(s.count),
		view.Row[demoState, demoAction](
			pulse(s.reversed),
			view.Button[demoState, demoAction](direction(s.reversed), func(*demoState) demoAction { return actionToggle }),
		).WithGap(1),
		view.Deferred[demoState, demoAction](d.greeting, view.Text[demoState, demoAction]("loading greeting...").Styled(dimStyle)),
		view.Memoize[demoState, demoAction](d.quitHint(), footer),
	).WithGap(1).WithBorder(borderStyle)
}

func (d demo) quitHint() string {
	if len(d.quitKeys) == 0 {
		return "ctrl+c"
	}
	return strings.Join(d.quitKeys, ", ")
}

func (d demo) greeting(ctx context.Context) (view.View[demoState, demoAction], error) {
	msg, err := d.greet(ctx)
	if err != nil {
		return nil, err
	}
	return view.Text[demoState, demoAction](msg), nil
}

// countBar eases toward the current count.
func countBar(count int) demoView {
	target := float64(min(max(count, 0), barWidth))
	return animation.Animated[demoState, demoAction, float64](
		animation.LowPass(target, 0.15),
		func(v float64) demoView {
			return view.Text[demoState, demoAction](bar(v, barWidth)).Styled(barStyle)
		},
	)
}

// pulse sweeps a marker across a track and back when reversed.
func pulse(reversed bool) demoView {
	speed := 1.0
	if reversed {
		speed = -1
	}
	sweep := animation.Tween[float64](2*time.Second,
		animation.EaseQuadInOut[float64](animation.Lerp[float64](animation.Const(0.0), animation.Const(float64(barWidth-1)))),
	).Speed(speed)
	return animation.Animated[demoState, demoAction, float64](sweep, func(v float64) demoView {
		return view.Text[demoState, demoAction](track(v, barWidth)).Styled(pulseStyle)
	})
}

func status(count int) demoView {
	switch {
	case count <= 0:
		return view.OneOf[demoState, demoAction](0, view.Text[demoState, demoAction]("idle").Styled(dimStyle))
	case count >= barWidth:
		return view.OneOf[demoState, demoAction](1, view.Text[demoState, demoAction]("full"))
	default:
		return view.OneOf[demoState, demoAction](2, view.Row[demoState, demoAction](
			view.Text[demoState, demoAction]("filling"),
			view.Text[demoState, demoAction](fmt.Sprintf("%d%%", count*100/barWidth)).Styled(dimStyle),
		).WithGap(1))
	}
}

func footer(keys string) demoView {
	return view.Text[demoState, demoAction]("+/- keys adjust, r resets, " + keys + " quits").Styled(dimStyle)
}

func direction(reversed bool) string {
	if reversed {
		return "forward"
	}
	return "reverse"
}

func bar(v float64, width int) string {
	n := min(max(int(math.Round(v)), 0), width)
	return strings.Repeat("#", n) + strings.Repeat(".", width-n)
}

func track(v float64, width int) string {
	pos := min(max(int(math.Round(v)), 0), width-1)
	return strings.Repeat("-", pos) + "o" + strings.Repeat("-", width-1-pos)
}

func update(s *demoState, a demoAction) {
	switch a {
	case actionIncrement:
		s.count++
	case actionDecrement:
		if s.count > 0 {
			s.count--
		}
	case actionReset:
		s.count = 0
	case actionToggle:
		s.reversed = !s.reversed
	}
}

func onKey(s *demoState, k terminal.KeyEvent) bool {
	if k.Key != terminal.KeyRune {
		return false
	}
	switch k.Rune {
	case '+', '=':
		update(s, actionIncrement)
	case '-':
		update(s, actionDecrement)
	case 'r':
		update(s, actionReset)
	default:
		return false
	}
	return true
}

func slowGreeting(delay time.Duration) greeter {
	return func(ctx context.Context) (string, error) {
		select {
		case <-time.After(delay):
			return "hello from a background task", nil
		case <-ctx.Done():
			return "", ctx.Err()
		}
	}
}
