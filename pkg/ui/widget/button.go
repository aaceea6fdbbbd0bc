package widget

import (
	"github.com/mattn/go-runewidth"

	"github.com/odvcencio/trellis/pkg/ui/backend"
	"github.com/odvcencio/trellis/pkg/ui/geom"
	"github.com/odvcencio/trellis/pkg/ui/id"
	"github.com/odvcencio/trellis/pkg/ui/terminal"
)

// Button is a clickable label. A press arms it while the pointer is over
// it; releasing over it sends Clicked to the owning view.
type Button struct {
	path  id.Path
	label string
	style backend.Style
}

// NewButton creates a button whose messages are addressed to path.
func NewButton(path id.Path, label string, style backend.Style) *Button {
	return &Button{path: path.Clone(), label: label, style: style}
}

// Path returns the address of the view that owns the button.
func (b *Button) Path() id.Path { return b.path.Clone() }

// Label returns the button text.
func (b *Button) Label() string { return b.label }

// SetLabel replaces the button text.
func (b *Button) SetLabel(label string) ChangeFlags {
	if label == b.label {
		return 0
	}
	b.label = label
	return ChangeLayout | ChangePaint
}

// SetStyle replaces the base style.
func (b *Button) SetStyle(style backend.Style) ChangeFlags {
	if style == b.style {
		return 0
	}
	b.style = style
	return ChangePaint
}

func (b *Button) Event(cx *EventCx, ev Event) {
	e, ok := ev.(MouseEvent)
	if !ok {
		return
	}
	switch e.Action {
	case terminal.MousePress:
		if e.Button == terminal.MouseLeft && cx.IsHot() {
			cx.SetActive(true)
			cx.RequestPaint()
		}
	case terminal.MouseRelease:
		if !cx.IsActive() {
			return
		}
		if cx.IsHot() {
			cx.AddMessage(Message{Path: b.path.Clone(), Body: Clicked{}})
		}
		cx.SetActive(false)
		cx.RequestPaint()
		cx.SetHandled()
	}
}

func (b *Button) Lifecycle(cx *LifeCycleCx, ev LifeCycle) {
	if _, ok := ev.(HotChanged); ok {
		cx.RequestPaint()
	}
}

func (b *Button) Layout(_ *LayoutCx, bc geom.BoxConstraints) geom.Size {
	return bc.Constrain(geom.Size{Width: runewidth.StringWidth(b.label) + 4, Height: 1})
}

func (b *Button) Paint(cx *PaintCx) {
	cx.DrawText(0, 0, "[ "+b.label+" ]", b.style)
	full := geom.NewRect(geom.Point{}, cx.Size())
	switch {
	case cx.IsActive():
		cx.PatchStyle(full, backend.Patch().WithAdd(backend.AttrReverse|backend.AttrBold))
	case cx.IsHot():
		cx.PatchStyle(full, backend.Patch().WithAdd(backend.AttrReverse))
	}
}
