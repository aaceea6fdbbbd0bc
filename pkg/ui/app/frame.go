package app

import (
	"context"
	"strings"
	"time"

	"github.com/odvcencio/trellis/pkg/errors"
	"github.com/odvcencio/trellis/pkg/telemetry"
	"github.com/odvcencio/trellis/pkg/ui/geom"
	"github.com/odvcencio/trellis/pkg/ui/view"
	"github.com/odvcencio/trellis/pkg/ui/widget"
)

// renderFrame rebuilds the view tree from the current state, lays out and
// paints the widget tree and flushes the result.
func (a *App[T, A]) renderFrame(ctx context.Context) error {
	a.assertOwner()

	start := time.Now()
	var dt time.Duration
	switch {
	case a.lastFrame.IsZero():
	case a.animating:
		dt = start.Sub(a.lastFrame)
	default:
		// Time spent idle does not advance animations; one started now
		// gets a single tick.
		dt = a.animationTick()
	}
	a.lastFrame = start
	a.frame++

	size := a.renderer.Size()
	ctx, span := a.tracer.StartFrame(ctx, a.frame, size.Width, size.Height)
	defer span.End()

	a.cx.BeginFrame(dt)
	a.changes = a.reconcile()
	telemetry.SetChanges(ctx, a.changes.String())
	a.metrics.CountChanges(strings.Split(a.changes.String(), "|"))
	rebuilt := time.Now()
	a.phase(ctx, telemetry.PhaseRebuild, rebuilt.Sub(start))

	lc := widget.NewLifeCycleCx(a.cxState, &a.rootWS)
	a.pod.Lifecycle(lc, widget.TreeUpdate{})

	lcx := widget.NewLayoutCx(a.cxState, &a.rootWS)
	a.pod.Layout(lcx, geom.Tight(size))
	a.pod.SetOrigin(lcx, geom.Point{})
	if a.rootWS.Flags().Has(widget.ContextChanged) {
		a.pod.Lifecycle(lc, widget.ViewContextChanged{Mouse: a.mouse, HasMouse: a.hasMouse})
	}
	laidOut := time.Now()
	a.phase(ctx, telemetry.PhaseLayout, laidOut.Sub(rebuilt))

	a.renderer.Clear()
	a.pod.Paint(widget.NewPaintCx(a.cxState, &a.rootWS, a.renderer))
	painted := time.Now()
	a.phase(ctx, telemetry.PhasePaint, painted.Sub(laidOut))

	if err := a.renderer.Flush(); err != nil {
		span.RecordError(err)
		return errors.Wrap(err, errors.ErrCodeBackendIO, "flush frame").
			WithContext("frame", a.frame)
	}
	a.phase(ctx, telemetry.PhaseFlush, time.Since(painted))

	a.rootWS.Clear(^widget.PodFlags(0))
	a.dirty = false
	a.animating = a.cx.AnimationRequested()
	a.metrics.SetAnimating(a.animating)
	a.metrics.ObserveFrame(time.Since(start))
	a.logger.LogFrame(a.frame, rebuilt.Sub(start), laidOut.Sub(rebuilt), painted.Sub(laidOut))
	a.hub.Publish(telemetry.Event{
		Type:  telemetry.EventFrameRendered,
		Frame: a.frame,
		Data: map[string]any{
			"changes":   a.changes.String(),
			"animating": a.animating,
		},
	})

	// Hot changes found while settling geometry may have produced
	// messages; they are handled before the loop waits again.
	for _, m := range a.cxState.TakeMessages() {
		a.deliver(m)
	}
	return nil
}

// reconcile builds the tree on the first frame and rebuilds it after.
func (a *App[T, A]) reconcile() widget.ChangeFlags {
	next := a.viewFn(a.state)
	var changes widget.ChangeFlags
	if a.pod == nil {
		var w widget.Widget
		a.rootId, a.rootState, w = next.Build(a.cx)
		a.pod = widget.NewPod(w)
		changes = widget.ChangeTree | widget.ChangeLayout | widget.ChangePaint
	} else {
		changes = a.pod.Mark(view.Reconcile(a.cx, next, a.root, &a.rootId, &a.rootState, a.pod))
	}
	a.root = next

	if d := a.cx.Depth(); d != 0 {
		panic(errors.Invariantf("id path not balanced after reconcile: depth %d", d))
	}
	return changes
}

func (a *App[T, A]) phase(ctx context.Context, name string, d time.Duration) {
	telemetry.PhaseDone(ctx, name, d)
	a.metrics.ObservePhase(name, d)
}
