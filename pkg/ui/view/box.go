package view

import (
	"slices"

	"github.com/odvcencio/trellis/pkg/ui/backend"
	"github.com/odvcencio/trellis/pkg/ui/id"
	"github.com/odvcencio/trellis/pkg/ui/layout"
	"github.com/odvcencio/trellis/pkg/ui/widget"
)

// BoxView lays out a sequence of children with a flex box.
type BoxView[T, A any] struct {
	style       layout.Style
	children    Sequence[T, A]
	border      bool
	borderStyle backend.Style
	fill        *backend.Style
}

// Box creates a box over children.
func Box[T, A any](style layout.Style, children Sequence[T, A]) BoxView[T, A] {
	return BoxView[T, A]{style: style, children: children}
}

// Row lays children out left to right.
func Row[T, A any](children ...View[T, A]) BoxView[T, A] {
	return Box[T, A](layout.Style{Direction: layout.Row}, Views[T, A](children))
}

// Column lays children out top to bottom.
func Column[T, A any](children ...View[T, A]) BoxView[T, A] {
	return Box[T, A](layout.Style{Direction: layout.Column}, Views[T, A](children))
}

// WithBorder draws a border in style.
func (v BoxView[T, A]) WithBorder(style backend.Style) BoxView[T, A] {
	v.border, v.borderStyle = true, style
	return v
}

// WithFill paints the background with style.
func (v BoxView[T, A]) WithFill(style backend.Style) BoxView[T, A] {
	v.fill = &style
	return v
}

// WithGrow sets the share of free space the box takes in its parent.
func (v BoxView[T, A]) WithGrow(grow float64) BoxView[T, A] {
	v.style.Grow = grow
	return v
}

// WithGap separates children by n cells.
func (v BoxView[T, A]) WithGap(n int) BoxView[T, A] {
	v.style.Gap = n
	return v
}

// WithPadding sets the inner padding.
func (v BoxView[T, A]) WithPadding(p layout.Insets) BoxView[T, A] {
	v.style.Padding = p
	return v
}

// WithSize sets fixed or percentage dimensions.
func (v BoxView[T, A]) WithSize(width, height layout.Dimension) BoxView[T, A] {
	v.style.Width, v.style.Height = width, height
	return v
}

type boxState struct {
	pods []*widget.Pod
	seq  State
}

func (s *boxState) Dispose() {
	Dispose(s.seq)
	s.seq = nil
}

func (v BoxView[T, A]) Build(cx *Cx) (id.Id, State, widget.Widget) {
	st := &boxState{}
	vid := cx.WithNewId(func() {
		st.seq, st.pods = v.children.BuildSeq(cx)
	})
	b := widget.NewBox(v.style, st.pods)
	b.SetBorder(v.border, v.borderStyle)
	b.SetFill(v.fill)
	return vid, st, b
}

func (v BoxView[T, A]) Rebuild(cx *Cx, prev View[T, A], vid *id.Id, state *State, pod *widget.Pod) widget.ChangeFlags {
	p := mustPrev[BoxView[T, A]](prev)
	st := mustState[*boxState](*state)
	b := widget.MustAs[*widget.Box](pod)

	var changed widget.ChangeFlags
	cx.WithId(*vid, func() {
		var pods []*widget.Pod
		pods, changed = rebuildSeqOrReplace(cx, v.children, p.children, &st.seq, st.pods)
		if !slices.Equal(pods, st.pods) {
			b.SetChildren(pods)
			changed |= widget.ChangeLayout | widget.ChangePaint
		}
		st.pods = pods
	})
	changed |= b.SetStyle(v.style)
	changed |= b.SetBorder(v.border, v.borderStyle)
	changed |= b.SetFill(v.fill)
	return changed
}

func (v BoxView[T, A]) Message(path id.Path, state State, msg any, app *T) MessageResult[A] {
	st := mustState[*boxState](state)
	if len(path) == 0 {
		return Stale[A](msg)
	}
	return v.children.MessageSeq(path, st.seq, msg, app)
}
