package widget

import (
	"github.com/odvcencio/trellis/pkg/ui/backend"
	"github.com/odvcencio/trellis/pkg/ui/geom"
	"github.com/odvcencio/trellis/pkg/ui/layout"
)

// Box arranges child pods with a flex layout engine. It can draw a border
// and fill its background; a filled box is a style-override boundary.
type Box struct {
	style       layout.Style
	border      bool
	borderStyle backend.Style
	fill        *backend.Style

	children []*Pod
	engine   *layout.Flex
	root     layout.Node
	nodes    map[*Pod]layout.Node
}

// NewBox creates a box over children.
func NewBox(style layout.Style, children []*Pod) *Box {
	b := &Box{
		style:  style,
		engine: layout.NewFlex(),
		nodes:  make(map[*Pod]layout.Node),
	}
	b.root = b.engine.NewNode(style, nil)
	b.SetChildren(children)
	return b
}

// LayoutStyle returns the box style. A parent box takes the sizing fields
// (Width, Height, Grow) from it.
func (b *Box) LayoutStyle() layout.Style { return b.style }

// Children returns the child pods in order.
func (b *Box) Children() []*Pod { return b.children }

// SetChildren replaces the child list. Pods that stay keep their layout
// nodes; departed pods release theirs.
func (b *Box) SetChildren(children []*Pod) {
	keep := make(map[*Pod]bool, len(children))
	order := make([]layout.Node, 0, len(children))
	for _, c := range children {
		keep[c] = true
		n, ok := b.nodes[c]
		if !ok {
			n = b.engine.NewLeaf(childStyle(c), nil)
			b.nodes[c] = n
		}
		order = append(order, n)
	}
	for c, n := range b.nodes {
		if !keep[c] {
			_ = b.engine.Remove(n)
			delete(b.nodes, c)
		}
	}
	_ = b.engine.SetChildren(b.root, order)
	b.children = children
}

// SetStyle replaces the layout style.
func (b *Box) SetStyle(style layout.Style) ChangeFlags {
	if style == b.style {
		return 0
	}
	b.style = style
	return ChangeLayout | ChangePaint
}

// SetBorder toggles the border.
func (b *Box) SetBorder(on bool, style backend.Style) ChangeFlags {
	if on == b.border && style == b.borderStyle {
		return 0
	}
	changed := ChangePaint
	if on != b.border {
		changed |= ChangeLayout
	}
	b.border, b.borderStyle = on, style
	return changed
}

// SetFill sets the background fill, nil for none.
func (b *Box) SetFill(fill *backend.Style) ChangeFlags {
	switch {
	case fill == nil && b.fill == nil:
		return 0
	case fill != nil && b.fill != nil && *fill == *b.fill:
		return 0
	}
	b.fill = fill
	return ChangePaint
}

// childStyle picks up a child's own sizing if its widget declares one.
func childStyle(c *Pod) layout.Style {
	s, ok := c.widget.(interface{ LayoutStyle() layout.Style })
	if !ok {
		return layout.Style{}
	}
	st := s.LayoutStyle()
	return layout.Style{Width: st.Width, Height: st.Height, Grow: st.Grow}
}

func (b *Box) Event(cx *EventCx, ev Event) {
	for _, c := range b.children {
		c.Event(cx, ev)
	}
}

func (b *Box) Lifecycle(cx *LifeCycleCx, ev LifeCycle) {
	if _, ok := ev.(HotChanged); ok {
		return
	}
	for _, c := range b.children {
		c.Lifecycle(cx, ev)
	}
}

func (b *Box) Layout(cx *LayoutCx, bc geom.BoxConstraints) geom.Size {
	st := b.style
	if b.border {
		st.Padding.Top++
		st.Padding.Right++
		st.Padding.Bottom++
		st.Padding.Left++
	}
	// The box itself is sized by its parent; only its inner arrangement
	// matters here.
	st.Width, st.Height, st.Grow = layout.Auto(), layout.Auto(), 0
	_ = b.engine.SetStyle(b.root, st)

	probe := cx.Measuring()
	for _, c := range b.children {
		n := b.nodes[c]
		_ = b.engine.SetStyle(n, childStyle(c))
		_ = b.engine.SetMeasure(n, func(lc geom.BoxConstraints) geom.Size {
			return c.Layout(probe, lc)
		})
	}
	if err := b.engine.Compute(b.root, bc); err != nil {
		return bc.Constrain(geom.Size{})
	}
	for _, c := range b.children {
		r, err := b.engine.Layout(b.nodes[c])
		if err != nil {
			continue
		}
		c.Layout(cx, geom.Tight(r.Size))
		c.SetOrigin(cx, r.Origin)
	}
	r, _ := b.engine.Layout(b.root)
	return r.Size
}

func (b *Box) Paint(cx *PaintCx) {
	paint := func(cx *PaintCx) {
		full := geom.NewRect(geom.Point{}, cx.Size())
		if b.fill != nil {
			cx.Fill(full, ' ', *b.fill)
		}
		if b.border {
			cx.DrawBox(full, b.borderStyle)
		}
		for _, c := range b.children {
			c.Paint(cx)
		}
	}
	if b.fill != nil {
		cx.FillBoundary(paint)
		return
	}
	paint(cx)
}
