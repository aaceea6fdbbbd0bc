// Package backend defines the terminal backend the renderer and the app
// driver talk to. The tcell backend drives real terminals; the sim backend
// runs against tcell's simulation screen so whole frames can be asserted in
// tests.
package backend

import "github.com/odvcencio/trellis/pkg/ui/terminal"

// Backend is the terminal abstraction layer.
type Backend interface {
	// Init enters raw mode and the alternate screen and enables mouse and
	// focus reporting.
	Init() error

	// Fini restores the terminal. Safe to call after a failed Init.
	Fini()

	// Size returns the current terminal dimensions in cells.
	Size() (width, height int)

	// SetContent sets a cell at position (x, y) with the given rune and style.
	// The comb parameter contains combining characters (can be nil).
	SetContent(x, y int, mainc rune, comb []rune, style Style)

	// Show presents pending cell changes.
	Show()

	// Clear clears the screen.
	Clear()

	// HideCursor hides the terminal cursor.
	HideCursor()

	// PollEvent blocks until an event is available and returns it.
	// Returns nil once the backend is shutting down.
	PollEvent() terminal.Event

	// PostEvent injects an event into the event queue.
	PostEvent(ev terminal.Event) error

	// Sync forces a full redraw on next Show().
	Sync()
}
