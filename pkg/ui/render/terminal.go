package render

import (
	"sync"

	"github.com/odvcencio/trellis/pkg/errors"
	"github.com/odvcencio/trellis/pkg/ui/backend"
	"github.com/odvcencio/trellis/pkg/ui/geom"
)

// Terminal is a double-buffered Renderer over a backend. Paint writes go to
// the back buffer; Flush sends the cells that differ from the front buffer
// and presents them.
type Terminal struct {
	mu     sync.Mutex
	be     backend.Backend
	back   *Buffer
	front  *Buffer
	full   bool
	closed bool
}

var _ Renderer = (*Terminal)(nil)

// NewTerminal creates a renderer sized to the backend.
func NewTerminal(be backend.Backend) *Terminal {
	w, h := be.Size()
	return &Terminal{
		be:    be,
		back:  NewBuffer(w, h),
		front: NewBuffer(w, h),
		full:  true,
	}
}

// Size returns the grid dimensions.
func (t *Terminal) Size() geom.Size {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.back.Size()
}

// Resize adopts new dimensions. The next Flush redraws every cell.
func (t *Terminal) Resize(w, h int) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.back.Resize(w, h)
	t.front.Resize(w, h)
	t.full = true
	t.be.Sync()
}

// SetCell writes into the back buffer.
func (t *Terminal) SetCell(x, y int, r rune, style backend.Style) {
	t.mu.Lock()
	t.back.SetCell(x, y, r, style)
	t.mu.Unlock()
}

// PatchStyle restyles a region of the back buffer.
func (t *Terminal) PatchStyle(rect geom.Rect, patch backend.StylePatch) {
	t.mu.Lock()
	t.back.PatchStyle(rect, patch)
	t.mu.Unlock()
}

// Clear blanks the back buffer.
func (t *Terminal) Clear() {
	t.mu.Lock()
	t.back.Clear()
	t.mu.Unlock()
}

// Back exposes the back buffer for inspection.
func (t *Terminal) Back() *Buffer {
	return t.back
}

// Flush pushes changed cells to the backend and presents them.
func (t *Terminal) Flush() error {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.closed {
		return errors.New(errors.ErrCodeBackendIO, "flush on closed renderer")
	}

	put := func(x, y int, c Cell) {
		t.front.set(x, y, c)
		if c.Rune == 0 {
			return
		}
		t.be.SetContent(x, y, c.Rune, nil, c.Style)
	}

	if t.full {
		size := t.back.Size()
		for y := 0; y < size.Height; y++ {
			for x := 0; x < size.Width; x++ {
				put(x, y, t.back.Get(x, y))
			}
		}
		t.full = false
	} else {
		t.back.ForEachDirtyCell(func(x, y int, c Cell) {
			if t.front.Get(x, y) != c {
				put(x, y, c)
			}
		})
	}
	t.back.ClearDirty()
	t.front.ClearDirty()
	t.be.Show()
	return nil
}

// Close makes further flushes fail.
func (t *Terminal) Close() {
	t.mu.Lock()
	t.closed = true
	t.mu.Unlock()
}
