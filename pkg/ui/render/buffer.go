package render

import (
	"strings"

	"github.com/mattn/go-runewidth"

	"github.com/odvcencio/trellis/pkg/ui/backend"
	"github.com/odvcencio/trellis/pkg/ui/geom"
)

// Cell is a single character cell. A zero Rune marks the trailing half of a
// wide glyph written into the cell to its left.
type Cell struct {
	Rune  rune
	Style backend.Style
}

func blank() Cell {
	return Cell{Rune: ' ', Style: backend.DefaultStyle()}
}

// Buffer is a 2D grid of cells with dirty-region tracking.
// It satisfies Renderer, so widgets can paint into it directly in tests.
type Buffer struct {
	cells  []Cell
	width  int
	height int

	dirty      []bool
	dirtyCount int
	dirtyRect  geom.Rect
}

var _ Renderer = (*Buffer)(nil)

// NewBuffer creates a blank buffer with the given dimensions.
func NewBuffer(w, h int) *Buffer {
	b := &Buffer{
		cells:  make([]Cell, w*h),
		dirty:  make([]bool, w*h),
		width:  w,
		height: h,
	}
	for i := range b.cells {
		b.cells[i] = blank()
	}
	return b
}

// Size returns the buffer dimensions.
func (b *Buffer) Size() geom.Size {
	return geom.Size{Width: b.width, Height: b.height}
}

// Resize changes the buffer dimensions, preserving content where possible.
func (b *Buffer) Resize(w, h int) {
	if w == b.width && h == b.height {
		return
	}
	cells := make([]Cell, w*h)
	for i := range cells {
		cells[i] = blank()
	}
	for y := 0; y < min(h, b.height); y++ {
		for x := 0; x < min(w, b.width); x++ {
			cells[y*w+x] = b.cells[y*b.width+x]
		}
	}
	b.cells = cells
	b.dirty = make([]bool, w*h)
	b.width = w
	b.height = h
	b.MarkAllDirty()
}

// Clear fills the buffer with blanks.
func (b *Buffer) Clear() {
	b.Fill(geom.Rect{Width: b.width, Height: b.height}, ' ', backend.DefaultStyle())
}

// Flush clears the dirty set. A bare buffer has nothing to present.
func (b *Buffer) Flush() error {
	b.ClearDirty()
	return nil
}

// Get returns the cell at (x, y), or a blank when out of bounds.
func (b *Buffer) Get(x, y int) Cell {
	if x < 0 || x >= b.width || y < 0 || y >= b.height {
		return blank()
	}
	return b.cells[y*b.width+x]
}

// SetCell writes a rune with style at (x, y).
func (b *Buffer) SetCell(x, y int, r rune, s backend.Style) {
	b.set(x, y, Cell{Rune: r, Style: s})
}

func (b *Buffer) set(x, y int, c Cell) {
	if x < 0 || x >= b.width || y < 0 || y >= b.height {
		return
	}
	idx := y*b.width + x
	if b.cells[idx] != c {
		b.cells[idx] = c
		b.markCellDirty(x, y, idx)
	}
}

// SetString writes s starting at (x, y), giving wide glyphs two cells.
// It returns the number of columns advanced.
func (b *Buffer) SetString(x, y int, s string, style backend.Style) int {
	col := x
	for _, r := range s {
		w := runewidth.RuneWidth(r)
		if w == 0 {
			continue
		}
		if col+w > b.width {
			break
		}
		b.SetCell(col, y, r, style)
		if w == 2 {
			b.set(col+1, y, Cell{Rune: 0, Style: style})
		}
		col += w
	}
	return col - x
}

// Fill fills a rectangular region with a rune and style.
func (b *Buffer) Fill(r geom.Rect, ch rune, s backend.Style) {
	c := Cell{Rune: ch, Style: s}
	clip := r.Intersection(geom.Rect{Width: b.width, Height: b.height})
	for y := clip.Y; y < clip.Y+clip.Height; y++ {
		for x := clip.X; x < clip.X+clip.Width; x++ {
			b.set(x, y, c)
		}
	}
}

// PatchStyle restyles every cell in rect, keeping the glyphs.
func (b *Buffer) PatchStyle(r geom.Rect, patch backend.StylePatch) {
	if patch.IsEmpty() {
		return
	}
	clip := r.Intersection(geom.Rect{Width: b.width, Height: b.height})
	for y := clip.Y; y < clip.Y+clip.Height; y++ {
		for x := clip.X; x < clip.X+clip.Width; x++ {
			c := b.cells[y*b.width+x]
			c.Style = patch.Apply(c.Style)
			b.set(x, y, c)
		}
	}
}

// DrawBox draws a border around r using box-drawing characters.
func (b *Buffer) DrawBox(r geom.Rect, s backend.Style) {
	DrawBox(b, r, s)
}

// DrawBox draws a border around r on any renderer.
func DrawBox(dst Renderer, r geom.Rect, s backend.Style) {
	if r.Width < 2 || r.Height < 2 {
		return
	}
	right, bottom := r.X+r.Width-1, r.Y+r.Height-1
	dst.SetCell(r.X, r.Y, '┌', s)
	dst.SetCell(right, r.Y, '┐', s)
	dst.SetCell(r.X, bottom, '└', s)
	dst.SetCell(right, bottom, '┘', s)
	for x := r.X + 1; x < right; x++ {
		dst.SetCell(x, r.Y, '─', s)
		dst.SetCell(x, bottom, '─', s)
	}
	for y := r.Y + 1; y < bottom; y++ {
		dst.SetCell(r.X, y, '│', s)
		dst.SetCell(right, y, '│', s)
	}
}

// Row returns the glyphs of row y as a string, skipping wide-glyph tails.
func (b *Buffer) Row(y int) string {
	if y < 0 || y >= b.height {
		return ""
	}
	var sb strings.Builder
	for x := 0; x < b.width; x++ {
		if r := b.cells[y*b.width+x].Rune; r != 0 {
			sb.WriteRune(r)
		}
	}
	return sb.String()
}

// String renders the buffer as newline-separated rows.
func (b *Buffer) String() string {
	rows := make([]string, b.height)
	for y := range rows {
		rows[y] = b.Row(y)
	}
	return strings.Join(rows, "\n")
}

func (b *Buffer) markCellDirty(x, y, idx int) {
	if b.dirty[idx] {
		return
	}
	b.dirty[idx] = true
	b.dirtyCount++
	if b.dirtyCount == 1 {
		b.dirtyRect = geom.Rect{X: x, Y: y, Width: 1, Height: 1}
		return
	}
	if x < b.dirtyRect.X {
		b.dirtyRect.Width += b.dirtyRect.X - x
		b.dirtyRect.X = x
	} else if x >= b.dirtyRect.X+b.dirtyRect.Width {
		b.dirtyRect.Width = x - b.dirtyRect.X + 1
	}
	if y < b.dirtyRect.Y {
		b.dirtyRect.Height += b.dirtyRect.Y - y
		b.dirtyRect.Y = y
	} else if y >= b.dirtyRect.Y+b.dirtyRect.Height {
		b.dirtyRect.Height = y - b.dirtyRect.Y + 1
	}
}

// MarkAllDirty marks the entire buffer as dirty.
func (b *Buffer) MarkAllDirty() {
	for i := range b.dirty {
		b.dirty[i] = true
	}
	b.dirtyCount = len(b.dirty)
	b.dirtyRect = geom.Rect{Width: b.width, Height: b.height}
}

// ClearDirty resets all dirty flags.
func (b *Buffer) ClearDirty() {
	clear(b.dirty)
	b.dirtyCount = 0
	b.dirtyRect = geom.Rect{}
}

// IsDirty reports whether any cell changed since the last ClearDirty.
func (b *Buffer) IsDirty() bool {
	return b.dirtyCount > 0
}

// DirtyCount returns the number of dirty cells.
func (b *Buffer) DirtyCount() int {
	return b.dirtyCount
}

// DirtyRect returns the bounding box of dirty cells.
func (b *Buffer) DirtyRect() geom.Rect {
	return b.dirtyRect
}

// ForEachDirtyCell calls fn for each dirty cell.
func (b *Buffer) ForEachDirtyCell(fn func(x, y int, cell Cell)) {
	if b.dirtyCount == 0 {
		return
	}
	// Mostly dirty: a linear scan beats walking the bounding box.
	if b.dirtyCount > b.width*b.height/2 {
		for idx, d := range b.dirty {
			if d {
				fn(idx%b.width, idx/b.width, b.cells[idx])
			}
		}
		return
	}
	r := b.dirtyRect
	for y := r.Y; y < r.Y+r.Height && y < b.height; y++ {
		for x := r.X; x < r.X+r.Width && x < b.width; x++ {
			idx := y*b.width + x
			if b.dirty[idx] {
				fn(x, y, b.cells[idx])
			}
		}
	}
}
