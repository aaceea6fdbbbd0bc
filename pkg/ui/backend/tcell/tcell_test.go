package tcell

import (
	"testing"

	"github.com/gdamore/tcell/v2"
	"github.com/muesli/termenv"

	"github.com/odvcencio/trellis/pkg/ui/backend"
	"github.com/odvcencio/trellis/pkg/ui/terminal"
)

func TestMouseAction(t *testing.T) {
	tests := []struct {
		name      string
		prev, cur tcell.ButtonMask
		want      terminal.MouseAction
	}{
		{"move", tcell.ButtonNone, tcell.ButtonNone, terminal.MouseMove},
		{"press", tcell.ButtonNone, tcell.Button1, terminal.MousePress},
		{"drag", tcell.Button1, tcell.Button1, terminal.MouseDrag},
		{"release", tcell.Button1, tcell.ButtonNone, terminal.MouseRelease},
		{"scroll", tcell.ButtonNone, tcell.WheelUp, terminal.MouseScroll},
	}
	for _, tc := range tests {
		if got := mouseAction(tc.prev, tc.cur); got != tc.want {
			t.Errorf("%s: mouseAction = %v, want %v", tc.name, got, tc.want)
		}
	}
}

func TestConvertKey_RoundTrip(t *testing.T) {
	for _, k := range []terminal.Key{terminal.KeyEnter, terminal.KeyEscape, terminal.KeyCtrlC, terminal.KeyF5} {
		if got := convertKey(reverseKey(k)); got != k {
			t.Errorf("round trip of %v gave %v", k, got)
		}
	}
	if convertKey(tcell.KeyCtrlQ) != terminal.KeyNone {
		t.Error("unmapped key should convert to KeyNone")
	}
}

func TestDowngrade(t *testing.T) {
	c := backend.ColorRGB(255, 0, 0)
	if got := downgrade(termenv.TrueColor, c); got != c {
		t.Errorf("true color profile changed color: %v", got)
	}
	if got := downgrade(termenv.ANSI256, c); got.IsRGB() {
		t.Errorf("256-color profile kept RGB color: %v", got)
	}
	if got := downgrade(termenv.Ascii, c); got != backend.ColorDefault {
		t.Errorf("ascii profile should drop color, got %v", got)
	}
	if got := downgrade(termenv.ANSI, backend.ColorBlue); got != backend.ColorBlue {
		t.Errorf("palette colors pass through, got %v", got)
	}
}

func TestReverseConvertEvent(t *testing.T) {
	if reverseConvertEvent(terminal.PasteEvent{Text: "x"}) != nil {
		t.Error("paste events cannot be posted")
	}
	if _, ok := reverseConvertEvent(terminal.FocusEvent{Focused: true}).(*tcell.EventFocus); !ok {
		t.Error("expected focus event")
	}
	ev, ok := reverseConvertEvent(terminal.MouseEvent{X: 3, Y: 4, Button: terminal.MouseLeft, Action: terminal.MousePress}).(*tcell.EventMouse)
	if !ok {
		t.Fatal("expected mouse event")
	}
	if x, y := ev.Position(); x != 3 || y != 4 {
		t.Errorf("position = %d,%d", x, y)
	}
	if ev.Buttons() != tcell.Button1 {
		t.Errorf("buttons = %v", ev.Buttons())
	}
}
