// Package render provides the character-cell renderer widgets paint into.
//
// Widgets write into a back buffer through the Renderer interface. The
// Terminal renderer diffs that buffer against what is already on screen and
// pushes only the changed cells to the backend when the frame is flushed.
package render

import (
	"github.com/odvcencio/trellis/pkg/ui/backend"
	"github.com/odvcencio/trellis/pkg/ui/geom"
)

//go:generate mockgen -destination=mocks/mock_renderer.go -package=mocks github.com/odvcencio/trellis/pkg/ui/render Renderer

// Renderer is a character-cell grid.
type Renderer interface {
	// Size returns the grid dimensions in cells.
	Size() geom.Size

	// SetCell writes a glyph at (x, y). Out-of-bounds writes are dropped.
	SetCell(x, y int, r rune, style backend.Style)

	// PatchStyle applies patch to every cell in rect, keeping the glyphs.
	PatchStyle(rect geom.Rect, patch backend.StylePatch)

	// Clear resets every cell to a blank with the default style.
	Clear()

	// Flush presents the frame.
	Flush() error
}
