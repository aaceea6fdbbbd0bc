package widget

import (
	"github.com/mattn/go-runewidth"

	"github.com/odvcencio/trellis/pkg/ui/backend"
	"github.com/odvcencio/trellis/pkg/ui/geom"
	"github.com/odvcencio/trellis/pkg/ui/render"
)

// CxState is shared by every context of a pass. It collects the messages
// widgets emit.
type CxState struct {
	messages []Message
}

// NewCxState creates empty shared pass state.
func NewCxState() *CxState {
	return &CxState{}
}

// TakeMessages returns and clears the collected messages.
func (s *CxState) TakeMessages() []Message {
	msgs := s.messages
	s.messages = nil
	return msgs
}

// EventCx is the context of an event pass.
type EventCx struct {
	state     *CxState
	widget    *WidgetState
	isHandled bool
}

// NewEventCx starts an event pass whose results merge into parent.
func NewEventCx(state *CxState, parent *WidgetState) *EventCx {
	return &EventCx{state: state, widget: parent}
}

// AddMessage queues an outbound message.
func (cx *EventCx) AddMessage(m Message) {
	cx.state.messages = append(cx.state.messages, m)
}

// SetActive marks the widget as capturing the pointer.
func (cx *EventCx) SetActive(active bool) {
	cx.widget.set(IsActive, active)
}

// IsHot reports whether the pointer is over the widget.
func (cx *EventCx) IsHot() bool { return cx.widget.flags.Has(IsHot) }

// IsActive reports whether the widget holds the pointer.
func (cx *EventCx) IsActive() bool { return cx.widget.flags.Has(IsActive) }

// SetHandled stops dispatch to any node not yet visited.
func (cx *EventCx) SetHandled() { cx.isHandled = true }

// IsHandled reports whether some widget claimed the event.
func (cx *EventCx) IsHandled() bool { return cx.isHandled }

// RequestPaint asks for a repaint.
func (cx *EventCx) RequestPaint() { cx.widget.flags |= RequestPaint }

// RequestLayout asks for a relayout and repaint.
func (cx *EventCx) RequestLayout() { cx.widget.flags |= RequestLayout | RequestPaint }

// LifeCycleCx is the context of a lifecycle pass.
type LifeCycleCx struct {
	state  *CxState
	widget *WidgetState
}

// NewLifeCycleCx starts a lifecycle pass whose results merge into parent.
func NewLifeCycleCx(state *CxState, parent *WidgetState) *LifeCycleCx {
	return &LifeCycleCx{state: state, widget: parent}
}

// IsHot reports whether the pointer is over the widget.
func (cx *LifeCycleCx) IsHot() bool { return cx.widget.flags.Has(IsHot) }

// RequestPaint asks for a repaint.
func (cx *LifeCycleCx) RequestPaint() { cx.widget.flags |= RequestPaint }

// RequestLayout asks for a relayout and repaint.
func (cx *LifeCycleCx) RequestLayout() { cx.widget.flags |= RequestLayout | RequestPaint }

// LayoutCx is the context of a layout pass.
type LayoutCx struct {
	state     *CxState
	widget    *WidgetState
	measuring bool
}

// NewLayoutCx starts a layout pass whose results merge into parent.
func NewLayoutCx(state *CxState, parent *WidgetState) *LayoutCx {
	return &LayoutCx{state: state, widget: parent}
}

// RequestPaint asks for a repaint.
func (cx *LayoutCx) RequestPaint() { cx.widget.flags |= RequestPaint }

// Measuring returns a context for sizing probes. Pods laid out through it
// report a size but keep their recorded geometry, so a container can ask
// its children for intrinsic sizes before committing the final layout.
func (cx *LayoutCx) Measuring() *LayoutCx {
	return &LayoutCx{state: cx.state, widget: cx.widget, measuring: true}
}

// IsMeasuring reports whether this is a sizing probe.
func (cx *LayoutCx) IsMeasuring() bool { return cx.measuring }

// PaintCx is the context of a paint pass. Coordinates are local to the
// widget being painted; writes outside its box are clipped.
type PaintCx struct {
	state  *CxState
	widget *WidgetState
	r      render.Renderer
	origin geom.Point
	clip   geom.Rect
	patch  backend.StylePatch
}

// NewPaintCx starts a paint pass over the whole renderer.
func NewPaintCx(state *CxState, parent *WidgetState, r render.Renderer) *PaintCx {
	return &PaintCx{
		state:  state,
		widget: parent,
		r:      r,
		clip:   geom.NewRect(geom.Point{}, r.Size()),
	}
}

func (cx *PaintCx) child(ws *WidgetState) *PaintCx {
	origin := cx.origin.Add(ws.origin)
	return &PaintCx{
		state:  cx.state,
		widget: ws,
		r:      cx.r,
		origin: origin,
		clip:   cx.clip.Intersection(geom.NewRect(origin, ws.size)),
		patch:  cx.patch,
	}
}

// Size returns the widget's laid-out size.
func (cx *PaintCx) Size() geom.Size { return cx.widget.size }

// IsHot reports whether the pointer is over the widget.
func (cx *PaintCx) IsHot() bool { return cx.widget.flags.Has(IsHot) }

// IsActive reports whether the widget holds the pointer.
func (cx *PaintCx) IsActive() bool { return cx.widget.flags.Has(IsActive) }

// Style returns style with the inherited overrides applied.
func (cx *PaintCx) Style(style backend.Style) backend.Style {
	return cx.patch.Apply(style)
}

// SetCell writes one glyph.
func (cx *PaintCx) SetCell(x, y int, r rune, style backend.Style) {
	p := cx.origin.Add(geom.Point{X: x, Y: y})
	if !cx.clip.Contains(p) {
		return
	}
	cx.r.SetCell(p.X, p.Y, r, cx.patch.Apply(style))
}

// DrawText writes s on row y starting at column x and returns the number
// of columns it spans. Glyphs not wholly inside the clip are skipped.
func (cx *PaintCx) DrawText(x, y int, s string, style backend.Style) int {
	col := x
	for _, r := range s {
		w := runewidth.RuneWidth(r)
		if w == 0 {
			continue
		}
		first := cx.origin.Add(geom.Point{X: col, Y: y})
		last := first.Add(geom.Point{X: w - 1})
		if cx.clip.Contains(first) && cx.clip.Contains(last) {
			cx.r.SetCell(first.X, first.Y, r, cx.patch.Apply(style))
			if w == 2 {
				cx.r.SetCell(last.X, last.Y, 0, cx.patch.Apply(style))
			}
		}
		col += w
	}
	return col - x
}

// Fill sets every cell of rect to ch.
func (cx *PaintCx) Fill(rect geom.Rect, ch rune, style backend.Style) {
	for y := rect.Y; y < rect.Y+rect.Height; y++ {
		for x := rect.X; x < rect.X+rect.Width; x++ {
			cx.SetCell(x, y, ch, style)
		}
	}
}

// DrawBox draws a single-line border around rect.
func (cx *PaintCx) DrawBox(rect geom.Rect, style backend.Style) {
	render.DrawBox(cellWriter{cx}, rect, style)
}

// PatchStyle restyles already painted cells in rect.
func (cx *PaintCx) PatchStyle(rect geom.Rect, patch backend.StylePatch) {
	abs := rect.Translate(cx.origin).Intersection(cx.clip)
	if abs.Empty() {
		return
	}
	cx.r.PatchStyle(abs, patch)
}

// WithPatch paints f with patch layered over the inherited overrides. The
// inner patch wins where both set the same attribute.
func (cx *PaintCx) WithPatch(patch backend.StylePatch, f func(cx *PaintCx)) {
	inner := *cx
	inner.patch = cx.patch.Then(patch)
	f(&inner)
}

// FillBoundary paints f without any inherited overrides. Widgets that
// paint their own background use it so ancestor overrides stop at them.
func (cx *PaintCx) FillBoundary(f func(cx *PaintCx)) {
	inner := *cx
	inner.patch = backend.StylePatch{}
	f(&inner)
}

// cellWriter adapts a PaintCx to render.DrawBox.
type cellWriter struct{ cx *PaintCx }

func (w cellWriter) Size() geom.Size { return w.cx.Size() }

func (w cellWriter) SetCell(x, y int, r rune, s backend.Style) { w.cx.SetCell(x, y, r, s) }

func (w cellWriter) PatchStyle(rect geom.Rect, p backend.StylePatch) { w.cx.PatchStyle(rect, p) }

func (w cellWriter) Clear() {}

func (w cellWriter) Flush() error { return nil }
