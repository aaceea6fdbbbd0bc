// Package tcell provides a Backend implementation using tcell.
package tcell

import (
	"fmt"
	"strings"
	"sync"

	"github.com/gdamore/tcell/v2"
	"github.com/muesli/termenv"

	"github.com/odvcencio/trellis/pkg/ui/backend"
	"github.com/odvcencio/trellis/pkg/ui/terminal"
)

// Backend implements backend.Backend using tcell.
type Backend struct {
	screen  tcell.Screen
	profile termenv.Profile

	mu          sync.Mutex
	lastButtons tcell.ButtonMask

	inPaste     bool
	pasteBuffer strings.Builder
}

// New creates a tcell backend for the controlling terminal. Colors are
// downgraded to what the environment's color profile supports.
func New() (*Backend, error) {
	screen, err := tcell.NewScreen()
	if err != nil {
		return nil, err
	}
	return &Backend{screen: screen, profile: termenv.EnvColorProfile()}, nil
}

// NewWithScreen creates a backend with an existing tcell screen (for testing).
// True colors are passed through unchanged.
func NewWithScreen(screen tcell.Screen) *Backend {
	return &Backend{screen: screen, profile: termenv.TrueColor}
}

// Init initializes the backend.
func (b *Backend) Init() error {
	if err := b.screen.Init(); err != nil {
		return err
	}
	b.screen.EnableMouse()
	b.screen.EnableFocus()
	b.screen.EnablePaste()
	return nil
}

// Fini cleans up the backend.
func (b *Backend) Fini() {
	b.screen.Fini()
}

// Size returns the terminal dimensions.
func (b *Backend) Size() (width, height int) {
	return b.screen.Size()
}

// SetContent sets a cell at position (x, y).
func (b *Backend) SetContent(x, y int, mainc rune, comb []rune, style backend.Style) {
	b.screen.SetContent(x, y, mainc, comb, b.convertStyle(style))
}

// Show synchronizes the buffer to the terminal.
func (b *Backend) Show() {
	b.screen.Show()
}

// Clear clears the screen.
func (b *Backend) Clear() {
	b.screen.Clear()
}

// HideCursor hides the cursor.
func (b *Backend) HideCursor() {
	b.screen.HideCursor()
}

// Sync forces a full redraw.
func (b *Backend) Sync() {
	b.screen.Sync()
}

// PollEvent blocks until an event is available.
func (b *Backend) PollEvent() terminal.Event {
	for {
		ev := b.screen.PollEvent()
		if ev == nil {
			return nil
		}

		switch e := ev.(type) {
		case *tcell.EventPaste:
			if e.Start() {
				b.inPaste = true
				b.pasteBuffer.Reset()
				continue
			}
			if e.End() {
				b.inPaste = false
				text := b.pasteBuffer.String()
				b.pasteBuffer.Reset()
				if text != "" {
					return terminal.PasteEvent{Text: text}
				}
				continue
			}
		case *tcell.EventKey:
			if b.inPaste {
				switch e.Key() {
				case tcell.KeyRune:
					b.pasteBuffer.WriteRune(e.Rune())
				case tcell.KeyEnter:
					b.pasteBuffer.WriteRune('\n')
				case tcell.KeyTab:
					b.pasteBuffer.WriteRune('\t')
				}
				continue
			}
		}

		if out := b.convertEvent(ev); out != nil {
			return out
		}
	}
}

// PostEvent injects an event into the queue.
func (b *Backend) PostEvent(ev terminal.Event) error {
	tev := reverseConvertEvent(ev)
	if tev == nil {
		return fmt.Errorf("tcell backend: cannot post %T", ev)
	}
	return b.screen.PostEvent(tev)
}

func (b *Backend) convertStyle(s backend.Style) tcell.Style {
	fg, bg, attrs := s.Decompose()
	style := tcell.StyleDefault.
		Foreground(b.convertColor(fg)).
		Background(b.convertColor(bg))

	return style.
		Bold(attrs&backend.AttrBold != 0).
		Italic(attrs&backend.AttrItalic != 0).
		Underline(attrs&backend.AttrUnderline != 0).
		Dim(attrs&backend.AttrDim != 0).
		Blink(attrs&backend.AttrBlink != 0).
		Reverse(attrs&backend.AttrReverse != 0).
		StrikeThrough(attrs&backend.AttrStrikeThrough != 0)
}

func (b *Backend) convertColor(c backend.Color) tcell.Color {
	if c == backend.ColorDefault {
		return tcell.ColorDefault
	}
	c = downgrade(b.profile, c)
	if c == backend.ColorDefault {
		return tcell.ColorDefault
	}
	if c.IsRGB() {
		r, g, bl := c.RGB()
		return tcell.NewRGBColor(int32(r), int32(g), int32(bl))
	}
	return tcell.PaletteColor(int(c))
}

// downgrade maps a true color onto the closest color the profile supports.
func downgrade(profile termenv.Profile, c backend.Color) backend.Color {
	if !c.IsRGB() || profile == termenv.TrueColor {
		return c
	}
	r, g, b := c.RGB()
	switch tc := profile.Convert(termenv.RGBColor(fmt.Sprintf("#%02x%02x%02x", r, g, b))).(type) {
	case termenv.ANSI256Color:
		return backend.Color(tc)
	case termenv.ANSIColor:
		return backend.Color(tc)
	default:
		return backend.ColorDefault
	}
}

func (b *Backend) convertEvent(ev tcell.Event) terminal.Event {
	switch e := ev.(type) {
	case *tcell.EventKey:
		return terminal.KeyEvent{
			Key:   convertKey(e.Key()),
			Rune:  e.Rune(),
			Alt:   e.Modifiers()&tcell.ModAlt != 0,
			Ctrl:  e.Modifiers()&tcell.ModCtrl != 0,
			Shift: e.Modifiers()&tcell.ModShift != 0,
		}
	case *tcell.EventResize:
		w, h := e.Size()
		return terminal.ResizeEvent{Width: w, Height: h}
	case *tcell.EventFocus:
		return terminal.FocusEvent{Focused: e.Focused}
	case *tcell.EventMouse:
		x, y := e.Position()
		mods := e.Modifiers()
		buttons := e.Buttons()

		b.mu.Lock()
		action := mouseAction(b.lastButtons, buttons)
		button := convertMouseButton(buttons)
		if action == terminal.MouseRelease {
			button = convertMouseButton(b.lastButtons)
		}
		if action != terminal.MouseScroll {
			b.lastButtons = buttons &^ (tcell.WheelUp | tcell.WheelDown)
		}
		b.mu.Unlock()

		return terminal.MouseEvent{
			X:      x,
			Y:      y,
			Button: button,
			Action: action,
			Alt:    mods&tcell.ModAlt != 0,
			Ctrl:   mods&tcell.ModCtrl != 0,
			Shift:  mods&tcell.ModShift != 0,
		}
	default:
		return nil
	}
}

// mouseAction derives the transition from the previous and current button
// state, since tcell only reports which buttons are currently held.
func mouseAction(prev, cur tcell.ButtonMask) terminal.MouseAction {
	if cur&(tcell.WheelUp|tcell.WheelDown) != 0 {
		return terminal.MouseScroll
	}
	cur &= tcell.Button1 | tcell.Button2 | tcell.Button3
	switch {
	case prev == tcell.ButtonNone && cur == tcell.ButtonNone:
		return terminal.MouseMove
	case cur == tcell.ButtonNone:
		return terminal.MouseRelease
	case prev == tcell.ButtonNone:
		return terminal.MousePress
	default:
		return terminal.MouseDrag
	}
}

var keyMap = map[tcell.Key]terminal.Key{
	tcell.KeyRune:       terminal.KeyRune,
	tcell.KeyUp:         terminal.KeyUp,
	tcell.KeyDown:       terminal.KeyDown,
	tcell.KeyRight:      terminal.KeyRight,
	tcell.KeyLeft:       terminal.KeyLeft,
	tcell.KeyPgUp:       terminal.KeyPageUp,
	tcell.KeyPgDn:       terminal.KeyPageDown,
	tcell.KeyHome:       terminal.KeyHome,
	tcell.KeyEnd:        terminal.KeyEnd,
	tcell.KeyInsert:     terminal.KeyInsert,
	tcell.KeyDelete:     terminal.KeyDelete,
	tcell.KeyBackspace:  terminal.KeyBackspace,
	tcell.KeyBackspace2: terminal.KeyBackspace,
	tcell.KeyTab:        terminal.KeyTab,
	tcell.KeyEnter:      terminal.KeyEnter,
	tcell.KeyEscape:     terminal.KeyEscape,
	tcell.KeyCtrlC:      terminal.KeyCtrlC,
	tcell.KeyCtrlD:      terminal.KeyCtrlD,
	tcell.KeyCtrlZ:      terminal.KeyCtrlZ,
	tcell.KeyF1:         terminal.KeyF1,
	tcell.KeyF2:         terminal.KeyF2,
	tcell.KeyF3:         terminal.KeyF3,
	tcell.KeyF4:         terminal.KeyF4,
	tcell.KeyF5:         terminal.KeyF5,
	tcell.KeyF6:         terminal.KeyF6,
	tcell.KeyF7:         terminal.KeyF7,
	tcell.KeyF8:         terminal.KeyF8,
	tcell.KeyF9:         terminal.KeyF9,
	tcell.KeyF10:        terminal.KeyF10,
	tcell.KeyF11:        terminal.KeyF11,
	tcell.KeyF12:        terminal.KeyF12,
}

func convertKey(k tcell.Key) terminal.Key {
	if out, ok := keyMap[k]; ok {
		return out
	}
	return terminal.KeyNone
}

func reverseKey(k terminal.Key) tcell.Key {
	for tk, key := range keyMap {
		if key == k && tk != tcell.KeyBackspace {
			return tk
		}
	}
	return tcell.KeyNUL
}

func convertMouseButton(buttons tcell.ButtonMask) terminal.MouseButton {
	switch {
	case buttons&tcell.WheelUp != 0:
		return terminal.MouseWheelUp
	case buttons&tcell.WheelDown != 0:
		return terminal.MouseWheelDown
	case buttons&tcell.Button1 != 0:
		return terminal.MouseLeft
	case buttons&tcell.Button2 != 0:
		return terminal.MouseMiddle
	case buttons&tcell.Button3 != 0:
		return terminal.MouseRight
	default:
		return terminal.MouseNone
	}
}

func reverseMouseButton(e terminal.MouseEvent) tcell.ButtonMask {
	if e.Action == terminal.MouseRelease || e.Action == terminal.MouseMove {
		return tcell.ButtonNone
	}
	switch e.Button {
	case terminal.MouseLeft:
		return tcell.Button1
	case terminal.MouseMiddle:
		return tcell.Button2
	case terminal.MouseRight:
		return tcell.Button3
	case terminal.MouseWheelUp:
		return tcell.WheelUp
	case terminal.MouseWheelDown:
		return tcell.WheelDown
	default:
		return tcell.ButtonNone
	}
}

func reverseMods(alt, ctrl, shift bool) tcell.ModMask {
	var mods tcell.ModMask
	if alt {
		mods |= tcell.ModAlt
	}
	if ctrl {
		mods |= tcell.ModCtrl
	}
	if shift {
		mods |= tcell.ModShift
	}
	return mods
}

// reverseConvertEvent converts terminal.Event to tcell.Event for PostEvent.
func reverseConvertEvent(ev terminal.Event) tcell.Event {
	switch e := ev.(type) {
	case terminal.ResizeEvent:
		return tcell.NewEventResize(e.Width, e.Height)
	case terminal.KeyEvent:
		return tcell.NewEventKey(reverseKey(e.Key), e.Rune, reverseMods(e.Alt, e.Ctrl, e.Shift))
	case terminal.MouseEvent:
		return tcell.NewEventMouse(e.X, e.Y, reverseMouseButton(e), reverseMods(e.Alt, e.Ctrl, e.Shift))
	case terminal.FocusEvent:
		return tcell.NewEventFocus(e.Focused)
	default:
		return nil
	}
}

var _ backend.Backend = (*Backend)(nil)
