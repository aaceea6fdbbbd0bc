package app

import (
	"fmt"
	"strings"

	"github.com/odvcencio/trellis/pkg/telemetry"
	"github.com/odvcencio/trellis/pkg/ui/geom"
	"github.com/odvcencio/trellis/pkg/ui/terminal"
	"github.com/odvcencio/trellis/pkg/ui/view"
	"github.com/odvcencio/trellis/pkg/ui/widget"
)

// handleEvent translates one terminal event, dispatches it into the
// widget tree and delivers the messages widgets emitted.
func (a *App[T, A]) handleEvent(ev terminal.Event) {
	a.assertOwner()

	switch e := ev.(type) {
	case terminal.KeyEvent:
		if a.isQuitKey(e) {
			a.logger.Info("quit key pressed", "key", e.Chord())
			a.quit = true
			return
		}
		if a.onKey != nil && a.onKey(a.state, e) {
			a.dirty = true
		}
		return
	case terminal.ResizeEvent:
		a.renderer.Resize(e.Width, e.Height)
		a.dirty = true
	case terminal.MouseEvent:
		if a.opts.DisableMouse {
			return
		}
		a.mouse, a.hasMouse = geom.Point{X: e.X, Y: e.Y}, true
	case terminal.FocusEvent:
		if !e.Focused {
			a.hasMouse = false
		}
	}

	wev, ok := widget.FromTerminal(ev)
	if !ok || a.pod == nil {
		return
	}
	a.pod.Event(widget.NewEventCx(a.cxState, &a.rootWS), wev)
	if a.rootWS.Flags()&(widget.RequestLayout|widget.RequestPaint) != 0 {
		a.dirty = true
	}
	for _, m := range a.cxState.TakeMessages() {
		a.deliver(m)
	}
}

func (a *App[T, A]) isQuitKey(e terminal.KeyEvent) bool {
	chord := e.Chord()
	for _, k := range a.opts.QuitKeys {
		if strings.EqualFold(strings.TrimSpace(k), chord) {
			return true
		}
	}
	return false
}

// handleWakes delivers an AsyncWake to every node whose task finished.
func (a *App[T, A]) handleWakes() {
	for _, path := range a.wakes.Drain() {
		a.logger.LogWake(path)
		a.metrics.CountWake()
		a.hub.Publish(telemetry.Event{Type: telemetry.EventAsyncWake, Frame: a.frame, Path: path.String()})
		a.deliver(widget.Message{Path: path, Body: view.AsyncWake{}})
	}
}

// deliver routes one message into the view tree and acts on the result.
func (a *App[T, A]) deliver(m widget.Message) {
	a.assertOwner()
	if a.pod == nil {
		return
	}

	r := view.Route(a.root, a.rootId, a.rootState, m.Path, m.Body, a.state)
	a.metrics.CountMessage(r.Kind.String())

	switch r.Kind {
	case view.ResultAction:
		if a.update != nil {
			a.update(a.state, r.Action)
		} else {
			a.logger.Debug("root action dropped",
				"path", m.Path.String(),
				"action_type", fmt.Sprintf("%T", r.Action),
			)
			a.hub.Publish(telemetry.Event{Type: telemetry.EventActionDropped, Frame: a.frame, Path: m.Path.String()})
		}
		a.dirty = true
	case view.ResultRequestRebuild:
		a.dirty = true
	case view.ResultStale:
		a.logger.LogStaleMessage(m.Path, r.Message)
		a.hub.Publish(telemetry.Event{Type: telemetry.EventMessageStale, Frame: a.frame, Path: m.Path.String()})
	}
}
