// Package layout computes box positions for trees of styled nodes.
//
// Widgets that arrange children describe them as engine nodes: containers
// carry a Style, leaves additionally carry a MeasureFunc reporting their
// intrinsic size. After Compute, every node has a position relative to its
// parent and a size.
package layout

import "github.com/odvcencio/trellis/pkg/ui/geom"

// Direction is the main axis of a container.
type Direction int

const (
	Row    Direction = iota // children left to right
	Column                  // children top to bottom
)

// Wrap controls whether children may flow onto additional lines.
type Wrap int

const (
	NoWrap Wrap = iota
	WrapLines
)

// DimensionKind selects how a Dimension resolves.
type DimensionKind int

const (
	DimAuto DimensionKind = iota
	DimLength
	DimPercent
)

// Dimension is a width or height specification.
type Dimension struct {
	Kind  DimensionKind
	Value float64
}

// Auto sizes from content.
func Auto() Dimension { return Dimension{} }

// Length is a fixed number of cells.
func Length(cells int) Dimension { return Dimension{Kind: DimLength, Value: float64(cells)} }

// Percent is a share of the parent's inner extent, 0-100. It falls back to
// auto when the parent's extent is unbounded.
func Percent(p float64) Dimension { return Dimension{Kind: DimPercent, Value: p} }

func (d Dimension) resolve(parent int) (int, bool) {
	switch d.Kind {
	case DimLength:
		return max(0, int(d.Value)), true
	case DimPercent:
		if parent == geom.Unbounded {
			return 0, false
		}
		return max(0, int(float64(parent)*d.Value/100)), true
	}
	return 0, false
}

// Insets are padding amounts per edge.
type Insets struct {
	Top, Right, Bottom, Left int
}

// Uniform pads every edge by n.
func Uniform(n int) Insets {
	return Insets{Top: n, Right: n, Bottom: n, Left: n}
}

func (i Insets) horizontal() int { return i.Left + i.Right }
func (i Insets) vertical() int   { return i.Top + i.Bottom }

// Style holds the box-model attributes of a node.
type Style struct {
	Direction Direction
	Wrap      Wrap
	Padding   Insets
	Width     Dimension
	Height    Dimension
	// Grow is the node's share of free main-axis space in its parent.
	Grow float64
	// Gap separates adjacent children and adjacent lines.
	Gap int
}

// MeasureFunc reports a leaf's intrinsic size within the given constraints.
type MeasureFunc func(c geom.BoxConstraints) geom.Size

// Node is an opaque handle to a node owned by an Engine.
type Node uint64

// Result is a node's computed box, relative to its parent's origin.
type Result struct {
	Origin geom.Point
	Size   geom.Size
}

// Rect returns the result as a rectangle.
func (r Result) Rect() geom.Rect {
	return geom.NewRect(r.Origin, r.Size)
}

// Engine computes layouts over a retained node tree.
type Engine interface {
	// NewLeaf creates a childless node sized by measure.
	NewLeaf(style Style, measure MeasureFunc) Node
	// NewNode creates a container with the given children.
	NewNode(style Style, children []Node) Node
	// SetStyle replaces a node's style.
	SetStyle(n Node, style Style) error
	// SetChildren replaces a container's children in place.
	SetChildren(n Node, children []Node) error
	// Children returns a node's children.
	Children(n Node) ([]Node, error)
	// MarkDirty drops cached measurements for n and its ancestors.
	MarkDirty(n Node) error
	// Remove deletes a node, detaching it from its parent.
	Remove(n Node) error
	// Compute lays out the tree under root. An Unbounded maximum on an axis
	// asks for intrinsic sizing along it.
	Compute(root Node, available geom.BoxConstraints) error
	// Layout returns a node's computed box.
	Layout(n Node) (Result, error)
}
