package layout

import (
	"github.com/odvcencio/trellis/pkg/errors"
	"github.com/odvcencio/trellis/pkg/ui/geom"
)

type measureKey struct {
	c      geom.BoxConstraints
	parent geom.Size
}

type node struct {
	style     Style
	measure   MeasureFunc
	children  []Node
	parent    Node
	hasParent bool

	cache  map[measureKey]geom.Size
	result Result
}

// Flex is a flexbox-style Engine: children run along the container's main
// axis, grow into free space by their Grow share, wrap onto new lines when
// asked to, and stretch across the cross axis when the container's cross
// extent is fixed.
type Flex struct {
	nodes map[Node]*node
	next  Node
}

var _ Engine = (*Flex)(nil)

// NewFlex creates an empty engine.
func NewFlex() *Flex {
	return &Flex{nodes: make(map[Node]*node)}
}

func (f *Flex) add(n *node) Node {
	f.next++
	f.nodes[f.next] = n
	return f.next
}

func (f *Flex) get(n Node) (*node, error) {
	nd, ok := f.nodes[n]
	if !ok {
		return nil, errors.New(errors.ErrCodeInvalidInput, "unknown layout node").WithContext("node", uint64(n))
	}
	return nd, nil
}

// NewLeaf creates a childless node sized by measure.
func (f *Flex) NewLeaf(style Style, measure MeasureFunc) Node {
	return f.add(&node{style: style, measure: measure})
}

// NewNode creates a container with the given children. Unknown children
// are skipped.
func (f *Flex) NewNode(style Style, children []Node) Node {
	id := f.add(&node{style: style})
	_ = f.SetChildren(id, children)
	return id
}

// SetStyle replaces a node's style.
func (f *Flex) SetStyle(n Node, style Style) error {
	nd, err := f.get(n)
	if err != nil {
		return err
	}
	if nd.style != style {
		nd.style = style
		f.markDirty(nd)
	}
	return nil
}

// SetMeasure replaces a leaf's measure function.
func (f *Flex) SetMeasure(n Node, measure MeasureFunc) error {
	nd, err := f.get(n)
	if err != nil {
		return err
	}
	nd.measure = measure
	f.markDirty(nd)
	return nil
}

// SetChildren replaces a container's children in place. A child already
// attached elsewhere is moved.
func (f *Flex) SetChildren(n Node, children []Node) error {
	nd, err := f.get(n)
	if err != nil {
		return err
	}
	for _, c := range nd.children {
		if cn, ok := f.nodes[c]; ok && cn.parent == n {
			cn.hasParent = false
		}
	}
	kept := make([]Node, 0, len(children))
	for _, c := range children {
		cn, ok := f.nodes[c]
		if !ok {
			continue
		}
		if cn.hasParent && cn.parent != n {
			f.detach(c, cn)
		}
		cn.parent, cn.hasParent = n, true
		kept = append(kept, c)
	}
	nd.children = kept
	f.markDirty(nd)
	return nil
}

// Children returns a copy of a node's children.
func (f *Flex) Children(n Node) ([]Node, error) {
	nd, err := f.get(n)
	if err != nil {
		return nil, err
	}
	return append([]Node(nil), nd.children...), nil
}

// MarkDirty drops cached measurements for n and its ancestors.
func (f *Flex) MarkDirty(n Node) error {
	nd, err := f.get(n)
	if err != nil {
		return err
	}
	f.markDirty(nd)
	return nil
}

func (f *Flex) markDirty(nd *node) {
	for {
		nd.cache = nil
		if !nd.hasParent {
			return
		}
		p, ok := f.nodes[nd.parent]
		if !ok {
			return
		}
		nd = p
	}
}

// Remove deletes a node. Its children stay in the engine, unparented.
func (f *Flex) Remove(n Node) error {
	nd, err := f.get(n)
	if err != nil {
		return err
	}
	if nd.hasParent {
		f.detach(n, nd)
	}
	for _, c := range nd.children {
		if cn, ok := f.nodes[c]; ok {
			cn.hasParent = false
		}
	}
	delete(f.nodes, n)
	return nil
}

func (f *Flex) detach(n Node, nd *node) {
	p, ok := f.nodes[nd.parent]
	nd.hasParent = false
	if !ok {
		return
	}
	for i, c := range p.children {
		if c == n {
			p.children = append(p.children[:i:i], p.children[i+1:]...)
			break
		}
	}
	f.markDirty(p)
}

// Len returns the number of live nodes.
func (f *Flex) Len() int {
	return len(f.nodes)
}

// Compute lays out the tree under root.
func (f *Flex) Compute(root Node, available geom.BoxConstraints) error {
	nd, err := f.get(root)
	if err != nil {
		return err
	}
	size := f.measure(nd, available, available.Max)
	f.arrange(nd, geom.Point{}, size, percentBase(constrain(nd.style, available, available.Max).Max, size))
	return nil
}

// Layout returns a node's computed box.
func (f *Flex) Layout(n Node) (Result, error) {
	nd, err := f.get(n)
	if err != nil {
		return Result{}, err
	}
	return nd.result, nil
}

// constrain narrows c to the node's own fixed or percentage dimensions.
func constrain(st Style, c geom.BoxConstraints, parent geom.Size) geom.BoxConstraints {
	if w, ok := st.Width.resolve(parent.Width); ok {
		w = clamp(w, c.Min.Width, c.Max.Width)
		c.Min.Width, c.Max.Width = w, w
	}
	if h, ok := st.Height.resolve(parent.Height); ok {
		h = clamp(h, c.Min.Height, c.Max.Height)
		c.Min.Height, c.Max.Height = h, h
	}
	return c
}

func (f *Flex) measure(nd *node, c geom.BoxConstraints, parent geom.Size) geom.Size {
	key := measureKey{c: c, parent: parent}
	if s, ok := nd.cache[key]; ok {
		return s
	}
	c = constrain(nd.style, c, parent)

	var size geom.Size
	if len(nd.children) == 0 {
		pad := nd.style.Padding
		var content geom.Size
		if nd.measure != nil {
			content = nd.measure(c.Shrink(pad.horizontal(), pad.vertical()))
		}
		size = c.Constrain(geom.Size{
			Width:  content.Width + pad.horizontal(),
			Height: content.Height + pad.vertical(),
		})
	} else {
		size, _ = f.flow(nd, c, c.Max)
	}

	if nd.cache == nil {
		nd.cache = make(map[measureKey]geom.Size)
	}
	nd.cache[key] = size
	return size
}

// arrange places nd and its subtree. base is the extent nd's children
// resolve percentages against; an axis that was unbounded while measuring
// stays unbounded here so both passes agree.
func (f *Flex) arrange(nd *node, origin geom.Point, size, base geom.Size) {
	nd.result = Result{Origin: origin, Size: size}
	if len(nd.children) == 0 {
		return
	}
	_, placed := f.flow(nd, geom.Tight(size), base)
	for _, p := range placed {
		f.arrange(p.node, p.origin, p.size, p.base)
	}
}

// percentBase keeps size on the axes where limit was bounded.
func percentBase(limit, size geom.Size) geom.Size {
	if limit.Width == geom.Unbounded {
		size.Width = geom.Unbounded
	}
	if limit.Height == geom.Unbounded {
		size.Height = geom.Unbounded
	}
	return size
}

type placement struct {
	node   *node
	origin geom.Point
	size   geom.Size
	base   geom.Size
}

// axes maps sizes and points onto main/cross for a direction.
type axes Direction

func (a axes) main(s geom.Size) int {
	if Direction(a) == Column {
		return s.Height
	}
	return s.Width
}

func (a axes) cross(s geom.Size) int {
	if Direction(a) == Column {
		return s.Width
	}
	return s.Height
}

func (a axes) size(main, cross int) geom.Size {
	if Direction(a) == Column {
		return geom.Size{Width: cross, Height: main}
	}
	return geom.Size{Width: main, Height: cross}
}

func (a axes) point(main, cross int) geom.Point {
	if Direction(a) == Column {
		return geom.Point{X: cross, Y: main}
	}
	return geom.Point{X: main, Y: cross}
}

type line struct {
	items []int
	main  int
	cross int
}

// flow measures the children of a container under constraints c (already
// narrowed by constrain) and returns the container size and child boxes.
// Child percentages resolve against base less padding.
func (f *Flex) flow(nd *node, c geom.BoxConstraints, base geom.Size) (geom.Size, []placement) {
	st := nd.style
	ax := axes(st.Direction)
	pad := st.Padding
	inner := c.Shrink(pad.horizontal(), pad.vertical())
	innerMax := inner.Max
	mainMax, crossMax := ax.main(innerMax), ax.cross(innerMax)
	crossTight := ax.cross(inner.Min) == crossMax
	parent := geom.BoxConstraints{Max: base}.Shrink(pad.horizontal(), pad.vertical()).Max

	children := make([]*node, 0, len(nd.children))
	for _, id := range nd.children {
		if cn, ok := f.nodes[id]; ok {
			children = append(children, cn)
		}
	}

	childC := geom.BoxConstraints{Max: ax.size(geom.Unbounded, crossMax)}
	sizes := make([]geom.Size, len(children))
	for i, cn := range children {
		sizes[i] = f.measure(cn, childC, parent)
	}

	var lines []line
	cur := line{}
	for i := range children {
		m := ax.main(sizes[i])
		next := cur.main + m
		if len(cur.items) > 0 {
			next += st.Gap
		}
		if st.Wrap == WrapLines && mainMax != geom.Unbounded && len(cur.items) > 0 && next > mainMax {
			lines = append(lines, cur)
			cur = line{}
			next = m
		}
		cur.items = append(cur.items, i)
		cur.main = next
		cur.cross = max(cur.cross, ax.cross(sizes[i]))
	}
	if len(cur.items) > 0 {
		lines = append(lines, cur)
	}
	if len(lines) == 1 && crossTight && crossMax != geom.Unbounded {
		lines[0].cross = crossMax
	}

	mains := make([]int, len(children))
	for i := range children {
		mains[i] = ax.main(sizes[i])
	}
	contentMain := 0
	for li := range lines {
		ln := &lines[li]
		if mainMax != geom.Unbounded && ln.main < mainMax {
			ln.main += grow(children, ln.items, mains, mainMax-ln.main)
		}
		contentMain = max(contentMain, ln.main)
	}
	contentCross := 0
	for li, ln := range lines {
		if li > 0 {
			contentCross += st.Gap
		}
		contentCross += ln.cross
	}

	content := ax.size(contentMain, contentCross)
	size := c.Constrain(geom.Size{
		Width:  content.Width + pad.horizontal(),
		Height: content.Height + pad.vertical(),
	})

	start := geom.Point{X: pad.Left, Y: pad.Top}
	placed := make([]placement, 0, len(children))
	crossOff := 0
	for li, ln := range lines {
		if li > 0 {
			crossOff += st.Gap
		}
		mainOff := 0
		for k, i := range ln.items {
			if k > 0 {
				mainOff += st.Gap
			}
			cross := ax.cross(sizes[i])
			if children[i].autoCross(ax) {
				cross = ln.cross
			}
			box := ax.size(mains[i], cross)
			limit := constrain(children[i].style, geom.BoxConstraints{Max: ax.size(geom.Unbounded, ax.cross(parent))}, parent).Max
			placed = append(placed, placement{
				node:   children[i],
				origin: start.Add(ax.point(mainOff, crossOff)),
				size:   box,
				base:   percentBase(limit, box),
			})
			mainOff += mains[i]
		}
		crossOff += ln.cross
	}
	return size, placed
}

// autoCross reports whether the node stretches along the cross axis.
func (nd *node) autoCross(ax axes) bool {
	if Direction(ax) == Column {
		return nd.style.Width.Kind == DimAuto
	}
	return nd.style.Height.Kind == DimAuto
}

// grow distributes free main-axis space among growing items in proportion
// to their Grow factor and returns the amount handed out. Rounding
// leftovers go to the last grower.
func grow(children []*node, items []int, mains []int, free int) int {
	total := 0.0
	last := -1
	for _, i := range items {
		if g := children[i].style.Grow; g > 0 {
			total += g
			last = i
		}
	}
	if total == 0 {
		return 0
	}
	given := 0
	for _, i := range items {
		g := children[i].style.Grow
		if g <= 0 {
			continue
		}
		share := int(float64(free) * g / total)
		if i == last {
			share = free - given
		}
		mains[i] += share
		given += share
	}
	return given
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
