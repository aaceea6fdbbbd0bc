// Package geom holds the cell-grid geometry shared by layout, paint and
// hit-testing: points, sizes, rectangles and box constraints.
package geom

// Unbounded marks a constraint axis with no upper limit. Widgets asked to
// lay out along an unbounded axis report their intrinsic extent.
const Unbounded = int(^uint(0) >> 1)

// Point is a cell position.
type Point struct {
	X, Y int
}

// Add returns p translated by q.
func (p Point) Add(q Point) Point {
	return Point{X: p.X + q.X, Y: p.Y + q.Y}
}

// Sub returns p translated by -q.
func (p Point) Sub(q Point) Point {
	return Point{X: p.X - q.X, Y: p.Y - q.Y}
}

// Size is a measured extent in cells.
type Size struct {
	Width, Height int
}

// Zero reports whether both dimensions are zero.
func (s Size) Zero() bool {
	return s.Width == 0 && s.Height == 0
}

// Rect is a positioned rectangle.
type Rect struct {
	X, Y, Width, Height int
}

// NewRect creates a rect from an origin and a size.
func NewRect(origin Point, size Size) Rect {
	return Rect{X: origin.X, Y: origin.Y, Width: size.Width, Height: size.Height}
}

// Origin returns the top-left corner.
func (r Rect) Origin() Point {
	return Point{X: r.X, Y: r.Y}
}

// Size returns the rect's dimensions.
func (r Rect) Size() Size {
	return Size{Width: r.Width, Height: r.Height}
}

// Empty reports whether the rect covers no cells.
func (r Rect) Empty() bool {
	return r.Width <= 0 || r.Height <= 0
}

// Contains reports whether p lies inside the rect.
func (r Rect) Contains(p Point) bool {
	return p.X >= r.X && p.X < r.X+r.Width && p.Y >= r.Y && p.Y < r.Y+r.Height
}

// Translate moves the rect by d.
func (r Rect) Translate(d Point) Rect {
	r.X += d.X
	r.Y += d.Y
	return r
}

// Intersection returns the overlapping area of two rects.
func (r Rect) Intersection(other Rect) Rect {
	x := max(r.X, other.X)
	y := max(r.Y, other.Y)
	x2 := min(r.X+r.Width, other.X+other.Width)
	y2 := min(r.Y+r.Height, other.Y+other.Height)
	if x2 <= x || y2 <= y {
		return Rect{}
	}
	return Rect{X: x, Y: y, Width: x2 - x, Height: y2 - y}
}

// Inset returns the rect shrunk by the given amounts.
func (r Rect) Inset(top, right, bottom, left int) Rect {
	return Rect{
		X:      r.X + left,
		Y:      r.Y + top,
		Width:  max(0, r.Width-left-right),
		Height: max(0, r.Height-top-bottom),
	}
}

// BoxConstraints bound the size a widget may choose during layout.
type BoxConstraints struct {
	Min, Max Size
}

// Tight forces an exact size.
func Tight(s Size) BoxConstraints {
	return BoxConstraints{Min: s, Max: s}
}

// Loose allows any size up to s.
func Loose(s Size) BoxConstraints {
	return BoxConstraints{Max: s}
}

// UnboundedConstraints places no limit on either axis.
func UnboundedConstraints() BoxConstraints {
	return BoxConstraints{Max: Size{Width: Unbounded, Height: Unbounded}}
}

// Constrain clamps s into the constraints.
func (c BoxConstraints) Constrain(s Size) Size {
	return Size{
		Width:  clamp(s.Width, c.Min.Width, c.Max.Width),
		Height: clamp(s.Height, c.Min.Height, c.Max.Height),
	}
}

// IsTight reports whether only a single size satisfies the constraints.
func (c BoxConstraints) IsTight() bool {
	return c.Min == c.Max
}

// BoundedWidth reports whether the width axis has a finite maximum.
func (c BoxConstraints) BoundedWidth() bool {
	return c.Max.Width != Unbounded
}

// BoundedHeight reports whether the height axis has a finite maximum.
func (c BoxConstraints) BoundedHeight() bool {
	return c.Max.Height != Unbounded
}

// Shrink removes a fixed amount from both bounds, flooring at zero.
func (c BoxConstraints) Shrink(dw, dh int) BoxConstraints {
	return BoxConstraints{
		Min: Size{Width: max(0, c.Min.Width-dw), Height: max(0, c.Min.Height-dh)},
		Max: Size{Width: shrinkAxis(c.Max.Width, dw), Height: shrinkAxis(c.Max.Height, dh)},
	}
}

func shrinkAxis(v, d int) int {
	if v == Unbounded {
		return v
	}
	return max(0, v-d)
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
