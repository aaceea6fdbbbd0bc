package widget

import (
	"github.com/odvcencio/trellis/pkg/errors"
	"github.com/odvcencio/trellis/pkg/ui/geom"
	"github.com/odvcencio/trellis/pkg/ui/terminal"
)

// WidgetState is the geometry and flag set a Pod keeps for its widget.
type WidgetState struct {
	origin             geom.Point
	parentWindowOrigin geom.Point
	size               geom.Size
	flags              PodFlags
}

// Flags returns the current flag set.
func (s *WidgetState) Flags() PodFlags { return s.flags }

// Request sets flags.
func (s *WidgetState) Request(f PodFlags) { s.flags |= f }

// Clear unsets flags.
func (s *WidgetState) Clear(f PodFlags) { s.flags &^= f }

// Size returns the last laid-out size.
func (s *WidgetState) Size() geom.Size { return s.size }

// Origin returns the offset within the parent.
func (s *WidgetState) Origin() geom.Point { return s.origin }

// WindowOrigin returns the absolute position of the node.
func (s *WidgetState) WindowOrigin() geom.Point {
	return s.parentWindowOrigin.Add(s.origin)
}

func (s *WidgetState) windowRect() geom.Rect {
	return geom.NewRect(s.WindowOrigin(), s.size)
}

func (s *WidgetState) set(f PodFlags, on bool) {
	if on {
		s.flags |= f
	} else {
		s.flags &^= f
	}
}

func (s *WidgetState) merge(child *WidgetState) {
	s.flags |= child.flags.Upwards()
}

// Pod wraps a widget with the state the framework tracks for it.
type Pod struct {
	state  WidgetState
	widget Widget
}

// NewPod wraps w. A new pod requests every pass.
func NewPod(w Widget) *Pod {
	return &Pod{widget: w, state: WidgetState{flags: initFlags}}
}

// Widget returns the wrapped widget.
func (p *Pod) Widget() Widget { return p.widget }

// State exposes the pod's geometry and flags.
func (p *Pod) State() *WidgetState { return &p.state }

// IsHot reports whether the pointer is over the pod.
func (p *Pod) IsHot() bool { return p.state.flags.Has(IsHot) }

// IsActive reports whether the pod holds the pointer.
func (p *Pod) IsActive() bool { return p.state.flags.Has(IsActive) }

// As returns the wrapped widget as W.
func As[W Widget](p *Pod) (W, bool) {
	w, ok := p.widget.(W)
	return w, ok
}

// MustAs returns the wrapped widget as W. A view only ever downcasts the
// widget it built itself, so a mismatch is a broken invariant and panics.
func MustAs[W Widget](p *Pod) W {
	w, ok := p.widget.(W)
	if !ok {
		var want W
		panic(errors.Invariantf("pod holds %T, want %T", p.widget, want))
	}
	return w
}

// Replace swaps in a widget of a possibly different type. The pod starts
// over as if freshly created, keeping only its position.
func (p *Pod) Replace(w Widget) {
	p.widget = w
	p.state = WidgetState{
		origin:             p.state.origin,
		parentWindowOrigin: p.state.parentWindowOrigin,
		flags:              initFlags,
	}
}

// Mark records the work a rebuild produced and returns what the parent
// view should report upward.
func (p *Pod) Mark(flags ChangeFlags) ChangeFlags {
	p.state.flags |= FromChange(flags)
	return flags.Upwards()
}

// Layout lays out the widget within bc. Under a measuring context only the
// size is returned.
func (p *Pod) Layout(cx *LayoutCx, bc geom.BoxConstraints) geom.Size {
	child := &LayoutCx{state: cx.state, widget: &p.state, measuring: cx.measuring}
	size := p.widget.Layout(child, bc)
	if cx.measuring {
		return size
	}
	if size != p.state.size {
		p.state.size = size
		p.state.flags |= ContextChanged
	}
	p.state.flags |= NeedsSetOrigin
	p.state.flags &^= RequestLayout
	cx.widget.merge(&p.state)
	return size
}

// SetOrigin places the pod within its parent. A move invalidates the
// window geometry of the subtree and the parent's painting.
func (p *Pod) SetOrigin(cx *LayoutCx, origin geom.Point) {
	if cx.measuring {
		return
	}
	if origin != p.state.origin {
		p.state.origin = origin
		p.state.flags |= ContextChanged
		cx.widget.flags |= RequestPaint | ContextChanged
	}
	p.state.flags &^= NeedsSetOrigin
}

// Paint paints the widget into its own box.
func (p *Pod) Paint(cx *PaintCx) {
	p.widget.Paint(cx.child(&p.state))
	p.state.flags &^= RequestPaint
}

// Event dispatches ev to the widget. Nothing happens once an earlier
// sibling or descendant has handled the event.
func (p *Pod) Event(cx *EventCx, ev Event) {
	if cx.isHandled {
		return
	}
	hadActive := p.state.flags.Has(HasActive)
	recurse := false
	forward := ev

	switch e := ev.(type) {
	case MouseEvent:
		changed := p.setHot(cx.state, e.Window, true)
		hot := p.state.flags.Has(IsHot)
		moving := e.Action == terminal.MouseMove || e.Action == terminal.MouseDrag
		recurse = hadActive || hot || (changed && moving)
		if recurse {
			e.Pos = e.Window.Sub(p.state.WindowOrigin())
			forward = e
		}
	case ResizeEvent:
		p.state.flags |= RequestLayout | RequestPaint
		recurse = true
	case FocusLost:
		if p.state.flags.Has(IsHot) {
			p.state.flags &^= IsHot
			p.notifyHot(cx.state, false)
		}
		p.state.flags &^= IsActive | HasActive
		recurse = true
	}

	if recurse {
		p.state.flags &^= HasActive
		child := &EventCx{state: cx.state, widget: &p.state}
		p.widget.Event(child, forward)
		cx.isHandled = cx.isHandled || child.isHandled
		if p.state.flags.Has(IsActive) {
			p.state.flags |= HasActive
		}
	}
	cx.widget.merge(&p.state)
}

// Lifecycle delivers a structural notification.
func (p *Pod) Lifecycle(cx *LifeCycleCx, ev LifeCycle) {
	recurse := true
	forward := ev

	switch e := ev.(type) {
	case HotChanged:
		recurse = false
	case ViewContextChanged:
		p.state.parentWindowOrigin = e.WindowOrigin
		p.setHot(cx.state, e.Mouse, e.HasMouse)
		e.WindowOrigin = p.state.WindowOrigin()
		forward = e
		p.state.flags &^= ContextChanged
	case TreeUpdate:
		recurse = p.state.flags.Has(TreeChanged)
	}

	if recurse {
		child := &LifeCycleCx{state: cx.state, widget: &p.state}
		p.widget.Lifecycle(child, forward)
	}
	if _, ok := ev.(TreeUpdate); ok {
		p.state.flags &^= TreeChanged
	}
	cx.widget.merge(&p.state)
}

// setHot re-evaluates hot state against a pointer position and notifies
// the widget if it changed. Without a known position the node is not hot.
func (p *Pod) setHot(state *CxState, pos geom.Point, known bool) bool {
	hot := known && p.state.windowRect().Contains(pos)
	if hot == p.state.flags.Has(IsHot) {
		return false
	}
	p.state.set(IsHot, hot)
	p.notifyHot(state, hot)
	return true
}

func (p *Pod) notifyHot(state *CxState, hot bool) {
	child := &LifeCycleCx{state: state, widget: &p.state}
	p.widget.Lifecycle(child, HotChanged{Hot: hot})
}
