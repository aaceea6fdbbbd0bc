package view

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/odvcencio/trellis/pkg/logging"
	"github.com/odvcencio/trellis/pkg/ui/backend"
	"github.com/odvcencio/trellis/pkg/ui/id"
	"github.com/odvcencio/trellis/pkg/ui/widget"
)

type appState struct {
	count int
	name  string
}

type action string

type V = View[appState, action]

// tree holds a built root the way the app driver does.
type tree struct {
	t     *testing.T
	cx    *Cx
	view  V
	id    id.Id
	state State
	pod   *widget.Pod
}

func newCx(t *testing.T) *Cx {
	t.Helper()
	sched := NewScheduler(context.Background(), 2, logging.Discard())
	t.Cleanup(sched.Close)
	return NewCx(context.Background(), NewWakeQueue(), sched, logging.Discard())
}

func mount(t *testing.T, cx *Cx, v V) *tree {
	t.Helper()
	vid, st, w := v.Build(cx)
	require.Zero(t, cx.Depth(), "path must be balanced after build")
	return &tree{t: t, cx: cx, view: v, id: vid, state: st, pod: widget.NewPod(w)}
}

func (tr *tree) update(v V) widget.ChangeFlags {
	tr.t.Helper()
	flags := tr.pod.Mark(Reconcile(tr.cx, v, tr.view, &tr.id, &tr.state, tr.pod))
	require.Zero(tr.t, tr.cx.Depth(), "path must be balanced after rebuild")
	tr.view = v
	return flags
}

func (tr *tree) send(path id.Path, msg any, app *appState) MessageResult[action] {
	return Route(tr.view, tr.id, tr.state, path, msg, app)
}

// counts records how often a countView was built and how often a rebuild
// actually changed it.
type counts struct {
	builds   int
	rebuilds int
}

type countView struct {
	text string
	c    *counts
}

func (v countView) Build(*Cx) (id.Id, State, widget.Widget) {
	v.c.builds++
	return id.Next(), nil, widget.NewText(v.text, backend.DefaultStyle())
}

func (v countView) Rebuild(_ *Cx, prev V, _ *id.Id, _ *State, pod *widget.Pod) widget.ChangeFlags {
	p := prev.(countView)
	if p.text == v.text {
		return 0
	}
	v.c.rebuilds++
	return widget.MustAs[*widget.Text](pod).SetText(v.text)
}

func (v countView) Message(_ id.Path, _ State, msg any, _ *appState) MessageResult[action] {
	return Stale[action](msg)
}

// pathSpy records the id path it sees on every build and rebuild.
type pathSpy struct {
	seen *[]id.Path
}

func (v pathSpy) Build(cx *Cx) (id.Id, State, widget.Widget) {
	vid := cx.WithNewId(func() {
		*v.seen = append(*v.seen, cx.IdPath())
	})
	return vid, nil, widget.NewText("spy", backend.DefaultStyle())
}

func (v pathSpy) Rebuild(cx *Cx, _ V, vid *id.Id, _ *State, _ *widget.Pod) widget.ChangeFlags {
	cx.WithId(*vid, func() {
		*v.seen = append(*v.seen, cx.IdPath())
	})
	return 0
}

func (v pathSpy) Message(_ id.Path, _ State, msg any, _ *appState) MessageResult[action] {
	return Stale[action](msg)
}

// disposeSpy counts disposals of its state.
type disposeSpy struct {
	disposed *int
}

type disposeState struct {
	disposed *int
}

func (s *disposeState) Dispose() { *s.disposed++ }

func (v disposeSpy) Build(*Cx) (id.Id, State, widget.Widget) {
	return id.Next(), &disposeState{disposed: v.disposed}, widget.NewText("d", backend.DefaultStyle())
}

func (v disposeSpy) Rebuild(*Cx, V, *id.Id, *State, *widget.Pod) widget.ChangeFlags {
	return 0
}

func (v disposeSpy) Message(_ id.Path, _ State, msg any, _ *appState) MessageResult[action] {
	return Stale[action](msg)
}

// rebuildRequester answers every message addressed to it with
// RequestRebuild.
type rebuildRequester struct{}

func (rebuildRequester) Build(cx *Cx) (id.Id, State, widget.Widget) {
	var path id.Path
	vid := cx.WithNewId(func() { path = cx.IdPath() })
	return vid, path, widget.NewText("r", backend.DefaultStyle())
}

func (rebuildRequester) Rebuild(*Cx, V, *id.Id, *State, *widget.Pod) widget.ChangeFlags {
	return 0
}

func (rebuildRequester) Message(path id.Path, _ State, msg any, _ *appState) MessageResult[action] {
	if len(path) != 0 {
		return Stale[action](msg)
	}
	return RequestRebuild[action]()
}

func boxOf(t *testing.T, p *widget.Pod) *widget.Box {
	t.Helper()
	b, ok := widget.As[*widget.Box](p)
	require.True(t, ok, "want *widget.Box, got %T", p.Widget())
	return b
}

func textOf(t *testing.T, p *widget.Pod) string {
	t.Helper()
	w, ok := widget.As[*widget.Text](p)
	require.True(t, ok, "want *widget.Text, got %T", p.Widget())
	return w.Text()
}

func buttonPath(t *testing.T, p *widget.Pod) id.Path {
	t.Helper()
	b, ok := widget.As[*widget.Button](p)
	require.True(t, ok, "want *widget.Button, got %T", p.Widget())
	return b.Path()
}

func inc(a *appState) action {
	a.count++
	return "inc"
}
