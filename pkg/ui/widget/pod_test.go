package widget

import (
	"testing"

	"github.com/odvcencio/trellis/pkg/errors"
	"github.com/odvcencio/trellis/pkg/ui/backend"
	"github.com/odvcencio/trellis/pkg/ui/geom"
	"github.com/odvcencio/trellis/pkg/ui/id"
	"github.com/odvcencio/trellis/pkg/ui/terminal"
)

// recorder is a leaf widget that logs what reaches it.
type recorder struct {
	size       geom.Size
	handle     bool
	events     []Event
	lifecycles []LifeCycle
}

func (r *recorder) Event(cx *EventCx, ev Event) {
	r.events = append(r.events, ev)
	if r.handle {
		cx.SetHandled()
	}
}

func (r *recorder) Lifecycle(cx *LifeCycleCx, ev LifeCycle) {
	r.lifecycles = append(r.lifecycles, ev)
}

func (r *recorder) Layout(_ *LayoutCx, bc geom.BoxConstraints) geom.Size {
	return bc.Constrain(r.size)
}

func (r *recorder) Paint(*PaintCx) {}

// placed lays out p under a fresh root at origin and settles its window
// geometry the way the app driver does after layout.
func placed(t *testing.T, p *Pod, origin geom.Point) (*CxState, *WidgetState) {
	t.Helper()
	cs := NewCxState()
	root := &WidgetState{}
	lcx := NewLayoutCx(cs, root)
	p.Layout(lcx, geom.UnboundedConstraints())
	p.SetOrigin(lcx, origin)
	p.Lifecycle(NewLifeCycleCx(cs, root), ViewContextChanged{})
	p.State().Clear(^PodFlags(0) &^ (IsHot | IsActive | HasActive))
	root.Clear(^PodFlags(0))
	return cs, root
}

func mouse(x, y int, action terminal.MouseAction) MouseEvent {
	p := geom.Point{X: x, Y: y}
	ev := MouseEvent{Pos: p, Window: p, Action: action}
	if action == terminal.MousePress {
		ev.Button = terminal.MouseLeft
	}
	return ev
}

func TestChangeFlags_Upwards(t *testing.T) {
	all := ChangeUpdate | ChangeLayout | ChangePaint | ChangeTree
	if got := all.Upwards(); got != ChangeLayout|ChangePaint|ChangeTree {
		t.Errorf("Upwards() = %v", got)
	}
	if got := all.String(); got != "UPDATE|LAYOUT|PAINT|TREE" {
		t.Errorf("String() = %q", got)
	}
	if got := ChangeFlags(0).String(); got != "NONE" {
		t.Errorf("String() = %q", got)
	}
}

func TestPodFlags_Upwards(t *testing.T) {
	all := PodFlags(0x1ff)
	want := RequestLayout | RequestPaint | TreeChanged | ContextChanged | HasActive
	if got := all.Upwards(); got != want {
		t.Errorf("Upwards() = %09b, want %09b", got, want)
	}
	if FromChange(ChangeTree|ChangeUpdate) != TreeChanged|RequestUpdate {
		t.Error("FromChange did not map TREE and UPDATE")
	}
}

func TestPod_NewRequestsEveryPass(t *testing.T) {
	p := NewPod(&recorder{})
	if !p.State().Flags().Has(RequestUpdate | RequestLayout | RequestPaint | TreeChanged) {
		t.Errorf("new pod flags = %09b", p.State().Flags())
	}
}

func TestPod_Mark(t *testing.T) {
	p := NewPod(&recorder{})
	p.State().Clear(^PodFlags(0))

	up := p.Mark(ChangeUpdate | ChangePaint)

	if up != ChangePaint {
		t.Errorf("Mark returned %v, want PAINT", up)
	}
	if !p.State().Flags().Has(RequestUpdate | RequestPaint) {
		t.Errorf("flags = %09b", p.State().Flags())
	}
}

func TestPod_Layout(t *testing.T) {
	p := NewPod(&recorder{size: geom.Size{Width: 4, Height: 2}})
	root := &WidgetState{}
	lcx := NewLayoutCx(NewCxState(), root)

	size := p.Layout(lcx, geom.Loose(geom.Size{Width: 10, Height: 10}))

	if size != (geom.Size{Width: 4, Height: 2}) {
		t.Errorf("size = %+v", size)
	}
	f := p.State().Flags()
	if !f.Has(ContextChanged|NeedsSetOrigin) || f.Has(RequestLayout) {
		t.Errorf("pod flags after layout = %09b", f)
	}
	if !root.Flags().Has(ContextChanged|RequestPaint|TreeChanged) || root.Flags().Has(NeedsSetOrigin) {
		t.Errorf("parent flags after layout = %09b", root.Flags())
	}

	p.State().Clear(ContextChanged)
	p.Layout(lcx, geom.Loose(geom.Size{Width: 10, Height: 10}))
	if p.State().Flags().Has(ContextChanged) {
		t.Error("unchanged size should not flag a view context change")
	}
}

func TestPod_MeasuringKeepsGeometry(t *testing.T) {
	p := NewPod(&recorder{size: geom.Size{Width: 4, Height: 2}})
	lcx := NewLayoutCx(NewCxState(), &WidgetState{})
	p.Layout(lcx, geom.UnboundedConstraints())
	p.State().Clear(^PodFlags(0))

	got := p.Layout(lcx.Measuring(), geom.Tight(geom.Size{Width: 1, Height: 1}))
	p.SetOrigin(lcx.Measuring(), geom.Point{X: 9, Y: 9})

	if got != (geom.Size{Width: 1, Height: 1}) {
		t.Errorf("probe size = %+v", got)
	}
	if p.State().Size() != (geom.Size{Width: 4, Height: 2}) || p.State().Origin() != (geom.Point{}) {
		t.Errorf("probe changed geometry: %+v at %+v", p.State().Size(), p.State().Origin())
	}
	if p.State().Flags() != 0 {
		t.Errorf("probe set flags %09b", p.State().Flags())
	}
}

func TestPod_SetOrigin(t *testing.T) {
	p := NewPod(&recorder{})
	root := &WidgetState{}
	lcx := NewLayoutCx(NewCxState(), root)
	p.Layout(lcx, geom.UnboundedConstraints())
	p.State().Clear(^PodFlags(0))
	root.Clear(^PodFlags(0))
	p.State().Request(NeedsSetOrigin)

	p.SetOrigin(lcx, geom.Point{X: 3, Y: 1})

	if !p.State().Flags().Has(ContextChanged) || p.State().Flags().Has(NeedsSetOrigin) {
		t.Errorf("pod flags = %09b", p.State().Flags())
	}
	if !root.Flags().Has(RequestPaint) {
		t.Error("moving a child should repaint the parent")
	}
	if p.State().Flags().Has(RequestPaint) {
		t.Error("moving a child should not repaint the child itself")
	}

	root.Clear(^PodFlags(0))
	p.SetOrigin(lcx, geom.Point{X: 3, Y: 1})
	if root.Flags() != 0 {
		t.Errorf("same origin flagged parent %09b", root.Flags())
	}
}

func TestPod_ButtonInteraction(t *testing.T) {
	path := id.Path{id.Next(), id.Next()}
	p := NewPod(NewButton(path, "ok", backend.DefaultStyle()))
	cs, root := placed(t, p, geom.Point{X: 2, Y: 1})
	dispatch := func(ev Event) *EventCx {
		cx := NewEventCx(cs, root)
		p.Event(cx, ev)
		return cx
	}

	// Button occupies columns 2..7 of row 1.
	dispatch(mouse(0, 0, terminal.MousePress))
	if p.IsHot() || p.IsActive() {
		t.Fatal("press outside should leave the button idle")
	}

	dispatch(mouse(3, 1, terminal.MouseMove))
	if !p.IsHot() {
		t.Fatal("move over the button should make it hot")
	}

	dispatch(mouse(3, 1, terminal.MousePress))
	if !p.IsActive() || !root.Flags().Has(HasActive) {
		t.Fatalf("press while hot should activate: pod %09b root %09b", p.State().Flags(), root.Flags())
	}

	cx := dispatch(mouse(3, 1, terminal.MouseRelease))
	if p.IsActive() {
		t.Error("release should deactivate")
	}
	if !cx.IsHandled() {
		t.Error("completed click should be handled")
	}
	msgs := cs.TakeMessages()
	if len(msgs) != 1 || !msgs[0].Path.Equal(path) {
		t.Fatalf("messages = %+v", msgs)
	}
	if _, ok := msgs[0].Body.(Clicked); !ok {
		t.Errorf("body = %T, want Clicked", msgs[0].Body)
	}

	// Press, drag away, release outside: no click.
	dispatch(mouse(3, 1, terminal.MousePress))
	dispatch(mouse(20, 5, terminal.MouseDrag))
	if p.IsHot() || !p.IsActive() {
		t.Fatalf("drag out: hot=%v active=%v", p.IsHot(), p.IsActive())
	}
	cx = dispatch(mouse(20, 5, terminal.MouseRelease))
	if p.IsActive() || !cx.IsHandled() {
		t.Errorf("release outside: active=%v handled=%v", p.IsActive(), cx.IsHandled())
	}
	if msgs := cs.TakeMessages(); len(msgs) != 0 {
		t.Errorf("release outside emitted %+v", msgs)
	}
}

func TestPod_PressHitTestsFirst(t *testing.T) {
	p := NewPod(NewButton(id.Path{id.Next()}, "ok", backend.DefaultStyle()))
	cs, root := placed(t, p, geom.Point{})

	// A press arriving without a prior move still hit-tests first.
	p.Event(NewEventCx(cs, root), mouse(1, 0, terminal.MousePress))
	if !p.IsActive() {
		t.Error("press inside should hit-test and activate")
	}

	p.Event(NewEventCx(cs, root), mouse(30, 0, terminal.MouseRelease))
	p.Event(NewEventCx(cs, root), mouse(30, 0, terminal.MousePress))
	if p.IsActive() {
		t.Error("press outside must not activate")
	}
}

func TestPod_HotChangedBeforeEvent(t *testing.T) {
	r := &recorder{size: geom.Size{Width: 2, Height: 1}}
	p := NewPod(r)
	cs, root := placed(t, p, geom.Point{})
	r.lifecycles = nil

	p.Event(NewEventCx(cs, root), mouse(1, 0, terminal.MouseMove))

	if len(r.lifecycles) != 1 || r.lifecycles[0] != (HotChanged{Hot: true}) {
		t.Fatalf("lifecycles = %+v", r.lifecycles)
	}
	if len(r.events) != 1 {
		t.Fatalf("events = %+v", r.events)
	}

	// Leaving on a move is still forwarded so the widget sees it.
	p.Event(NewEventCx(cs, root), mouse(5, 0, terminal.MouseMove))
	if len(r.lifecycles) != 2 || r.lifecycles[1] != (HotChanged{Hot: false}) {
		t.Errorf("lifecycles = %+v", r.lifecycles)
	}
	if len(r.events) != 2 {
		t.Errorf("leave move not forwarded: %+v", r.events)
	}

	// A move that stays outside is not forwarded.
	p.Event(NewEventCx(cs, root), mouse(6, 0, terminal.MouseMove))
	if len(r.events) != 2 {
		t.Errorf("outside move forwarded: %+v", r.events)
	}
}

func TestPod_MouseTranslatedToLocal(t *testing.T) {
	r := &recorder{size: geom.Size{Width: 4, Height: 4}}
	p := NewPod(r)
	cs, root := placed(t, p, geom.Point{X: 10, Y: 5})

	p.Event(NewEventCx(cs, root), mouse(12, 7, terminal.MouseMove))

	if len(r.events) != 1 {
		t.Fatalf("events = %+v", r.events)
	}
	got := r.events[0].(MouseEvent)
	if got.Pos != (geom.Point{X: 2, Y: 2}) || got.Window != (geom.Point{X: 12, Y: 7}) {
		t.Errorf("forwarded Pos=%+v Window=%+v", got.Pos, got.Window)
	}
}

func TestPod_HandledSkipsDispatch(t *testing.T) {
	first := &recorder{size: geom.Size{Width: 2, Height: 1}, handle: true}
	second := &recorder{size: geom.Size{Width: 2, Height: 1}}
	a, b := NewPod(first), NewPod(second)
	cs, root := placed(t, a, geom.Point{})
	placed(t, b, geom.Point{})

	cx := NewEventCx(cs, root)
	a.Event(cx, mouse(0, 0, terminal.MouseMove))
	b.Event(cx, mouse(0, 0, terminal.MouseMove))

	if len(first.events) != 1 {
		t.Errorf("first saw %d events", len(first.events))
	}
	if len(second.events) != 0 || b.IsHot() {
		t.Errorf("handled event still reached second pod")
	}
}

func TestPod_ResizeRequestsLayout(t *testing.T) {
	r := &recorder{}
	p := NewPod(r)
	cs, root := placed(t, p, geom.Point{})

	p.Event(NewEventCx(cs, root), ResizeEvent{Size: geom.Size{Width: 80, Height: 24}})

	if !p.State().Flags().Has(RequestLayout | RequestPaint) {
		t.Errorf("flags = %09b", p.State().Flags())
	}
	if !root.Flags().Has(RequestLayout) {
		t.Error("resize should reach the parent")
	}
	if len(r.events) != 1 {
		t.Errorf("resize not forwarded")
	}
}

func TestPod_KeyEventsNotRouted(t *testing.T) {
	r := &recorder{}
	p := NewPod(r)
	cs, root := placed(t, p, geom.Point{})

	p.Event(NewEventCx(cs, root), KeyEvent{KeyEvent: terminal.KeyEvent{Key: terminal.KeyRune, Rune: 'x'}})

	if len(r.events) != 0 {
		t.Errorf("key reached widget: %+v", r.events)
	}
}

func TestPod_FocusLostClearsPointerState(t *testing.T) {
	p := NewPod(NewButton(id.Path{id.Next()}, "ok", backend.DefaultStyle()))
	cs, root := placed(t, p, geom.Point{})
	p.Event(NewEventCx(cs, root), mouse(1, 0, terminal.MousePress))
	if !p.IsHot() || !p.IsActive() {
		t.Fatal("setup: expected hot and active")
	}

	p.Event(NewEventCx(cs, root), FocusLost{})

	if p.IsHot() || p.IsActive() || p.State().Flags().Has(HasActive) {
		t.Errorf("flags after focus lost = %09b", p.State().Flags())
	}
}

func TestPod_ViewContextChanged(t *testing.T) {
	r := &recorder{size: geom.Size{Width: 4, Height: 1}}
	p := NewPod(r)
	cs, root := placed(t, p, geom.Point{X: 5})
	r.lifecycles = nil

	p.Lifecycle(NewLifeCycleCx(cs, root), ViewContextChanged{
		WindowOrigin: geom.Point{Y: 2},
		Mouse:        geom.Point{X: 6, Y: 2},
		HasMouse:     true,
	})

	if !p.IsHot() {
		t.Error("pointer under the moved node should make it hot")
	}
	if p.State().WindowOrigin() != (geom.Point{X: 5, Y: 2}) {
		t.Errorf("WindowOrigin = %+v", p.State().WindowOrigin())
	}
	if len(r.lifecycles) != 2 {
		t.Fatalf("lifecycles = %+v", r.lifecycles)
	}
	if r.lifecycles[0] != (HotChanged{Hot: true}) {
		t.Errorf("first lifecycle = %+v", r.lifecycles[0])
	}
	fwd := r.lifecycles[1].(ViewContextChanged)
	if fwd.WindowOrigin != (geom.Point{X: 5, Y: 2}) {
		t.Errorf("forwarded origin = %+v", fwd.WindowOrigin)
	}
}

func TestPod_TreeUpdateOnlyWhenChanged(t *testing.T) {
	r := &recorder{}
	p := NewPod(r)
	cs, root := placed(t, p, geom.Point{})
	r.lifecycles = nil

	p.Lifecycle(NewLifeCycleCx(cs, root), TreeUpdate{})
	if len(r.lifecycles) != 0 {
		t.Errorf("clean subtree visited: %+v", r.lifecycles)
	}

	p.Mark(ChangeTree)
	p.Lifecycle(NewLifeCycleCx(cs, root), TreeUpdate{})
	if len(r.lifecycles) != 1 {
		t.Errorf("changed subtree not visited: %+v", r.lifecycles)
	}
	if p.State().Flags().Has(TreeChanged) {
		t.Error("TreeChanged should be consumed")
	}
}

func TestPod_HotChangedNotRecursed(t *testing.T) {
	r := &recorder{}
	p := NewPod(r)
	cs, root := placed(t, p, geom.Point{})
	r.lifecycles = nil

	p.Lifecycle(NewLifeCycleCx(cs, root), HotChanged{Hot: true})

	if len(r.lifecycles) != 0 {
		t.Errorf("HotChanged was forwarded: %+v", r.lifecycles)
	}
}

func TestPod_ReplaceAndMustAs(t *testing.T) {
	p := NewPod(NewText("a", backend.DefaultStyle()))
	if got := MustAs[*Text](p).Text(); got != "a" {
		t.Errorf("MustAs text = %q", got)
	}

	p.Replace(&recorder{})
	if _, ok := As[*Text](p); ok {
		t.Error("As should fail after Replace")
	}
	if !p.State().Flags().Has(TreeChanged | RequestLayout) {
		t.Errorf("replaced pod flags = %09b", p.State().Flags())
	}

	defer func() {
		v := recover()
		err, ok := v.(*errors.Error)
		if !ok || err.Code != errors.ErrCodeInvariant {
			t.Errorf("recovered %v, want INVARIANT error", v)
		}
	}()
	MustAs[*Text](p)
}
