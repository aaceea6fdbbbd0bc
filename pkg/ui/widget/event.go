package widget

import (
	"github.com/odvcencio/trellis/pkg/ui/geom"
	"github.com/odvcencio/trellis/pkg/ui/terminal"
)

// Event is an input event dispatched through the retained tree.
type Event interface {
	isEvent()
}

// MouseEvent is a pointer event. Window is the position on screen; Pos is
// the same point in the receiving widget's local coordinates.
type MouseEvent struct {
	Pos    geom.Point
	Window geom.Point
	Button terminal.MouseButton
	Action terminal.MouseAction
	Alt    bool
	Ctrl   bool
	Shift  bool
}

// KeyEvent is a key press. Pods do not route keys into the tree.
type KeyEvent struct {
	terminal.KeyEvent
}

// PasteEvent carries bracketed-paste text.
type PasteEvent struct {
	Text string
}

// ResizeEvent reports a new viewport size.
type ResizeEvent struct {
	Size geom.Size
}

// FocusGained reports the terminal window gaining focus.
type FocusGained struct{}

// FocusLost reports the terminal window losing focus.
type FocusLost struct{}

func (MouseEvent) isEvent()  {}
func (KeyEvent) isEvent()    {}
func (PasteEvent) isEvent()  {}
func (ResizeEvent) isEvent() {}
func (FocusGained) isEvent() {}
func (FocusLost) isEvent()   {}

// FromTerminal translates a backend event. It returns false for events
// with no widget-level meaning.
func FromTerminal(ev terminal.Event) (Event, bool) {
	switch e := ev.(type) {
	case terminal.MouseEvent:
		p := geom.Point{X: e.X, Y: e.Y}
		return MouseEvent{
			Pos:    p,
			Window: p,
			Button: e.Button,
			Action: e.Action,
			Alt:    e.Alt,
			Ctrl:   e.Ctrl,
			Shift:  e.Shift,
		}, true
	case terminal.KeyEvent:
		return KeyEvent{KeyEvent: e}, true
	case terminal.PasteEvent:
		return PasteEvent{Text: e.Text}, true
	case terminal.ResizeEvent:
		return ResizeEvent{Size: geom.Size{Width: e.Width, Height: e.Height}}, true
	case terminal.FocusEvent:
		if e.Focused {
			return FocusGained{}, true
		}
		return FocusLost{}, true
	}
	return nil, false
}

// LifeCycle is a structural notification delivered to widgets.
type LifeCycle interface {
	isLifeCycle()
}

// HotChanged tells a widget the pointer entered or left it. Pods deliver it
// directly to their own widget and never forward it further.
type HotChanged struct {
	Hot bool
}

// ViewContextChanged carries a node's window origin after geometry moved,
// plus the last known pointer position so hot state can be re-evaluated.
type ViewContextChanged struct {
	WindowOrigin geom.Point
	Mouse        geom.Point
	HasMouse     bool
}

// TreeUpdate visits subtrees whose structure changed.
type TreeUpdate struct{}

func (HotChanged) isLifeCycle()         {}
func (ViewContextChanged) isLifeCycle() {}
func (TreeUpdate) isLifeCycle()         {}
