package widget

import (
	"strings"

	"github.com/mattn/go-runewidth"

	"github.com/odvcencio/trellis/pkg/ui/backend"
	"github.com/odvcencio/trellis/pkg/ui/geom"
)

// Text displays static, possibly multi-line text.
type Text struct {
	text  string
	lines []string
	style backend.Style
}

// NewText creates a text widget.
func NewText(text string, style backend.Style) *Text {
	return &Text{text: text, lines: strings.Split(text, "\n"), style: style}
}

// Text returns the displayed text.
func (t *Text) Text() string { return t.text }

// SetText replaces the text.
func (t *Text) SetText(text string) ChangeFlags {
	if text == t.text {
		return 0
	}
	t.text = text
	t.lines = strings.Split(text, "\n")
	return ChangeLayout | ChangePaint
}

// SetStyle replaces the style.
func (t *Text) SetStyle(style backend.Style) ChangeFlags {
	if style == t.style {
		return 0
	}
	t.style = style
	return ChangePaint
}

func (t *Text) Event(*EventCx, Event) {}

func (t *Text) Lifecycle(*LifeCycleCx, LifeCycle) {}

func (t *Text) Layout(_ *LayoutCx, bc geom.BoxConstraints) geom.Size {
	w := 0
	for _, line := range t.lines {
		w = max(w, runewidth.StringWidth(line))
	}
	return bc.Constrain(geom.Size{Width: w, Height: len(t.lines)})
}

func (t *Text) Paint(cx *PaintCx) {
	for y, line := range t.lines {
		cx.DrawText(0, y, line, t.style)
	}
}
