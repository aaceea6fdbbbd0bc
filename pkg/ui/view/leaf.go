package view

import (
	"github.com/odvcencio/trellis/pkg/ui/backend"
	"github.com/odvcencio/trellis/pkg/ui/id"
	"github.com/odvcencio/trellis/pkg/ui/widget"
)

// TextView displays a string.
type TextView[T, A any] struct {
	text  string
	style backend.Style
}

// Text creates a text view with the default style.
func Text[T, A any](text string) TextView[T, A] {
	return TextView[T, A]{text: text, style: backend.DefaultStyle()}
}

// Styled returns a copy using style.
func (v TextView[T, A]) Styled(style backend.Style) TextView[T, A] {
	v.style = style
	return v
}

func (v TextView[T, A]) Build(*Cx) (id.Id, State, widget.Widget) {
	return id.Next(), nil, widget.NewText(v.text, v.style)
}

func (v TextView[T, A]) Rebuild(_ *Cx, prev View[T, A], _ *id.Id, _ *State, pod *widget.Pod) widget.ChangeFlags {
	p := mustPrev[TextView[T, A]](prev)
	if p == v {
		return 0
	}
	t := widget.MustAs[*widget.Text](pod)
	return t.SetText(v.text) | t.SetStyle(v.style)
}

func (v TextView[T, A]) Message(_ id.Path, _ State, msg any, _ *T) MessageResult[A] {
	return Stale[A](msg)
}

// ButtonView is a clickable label whose callback runs against the app
// state when it is clicked.
type ButtonView[T, A any] struct {
	label   string
	style   backend.Style
	onClick func(app *T) A
}

// Button creates a button that produces the action returned by onClick.
func Button[T, A any](label string, onClick func(app *T) A) ButtonView[T, A] {
	return ButtonView[T, A]{label: label, style: backend.DefaultStyle(), onClick: onClick}
}

// Styled returns a copy using style.
func (v ButtonView[T, A]) Styled(style backend.Style) ButtonView[T, A] {
	v.style = style
	return v
}

func (v ButtonView[T, A]) Build(cx *Cx) (id.Id, State, widget.Widget) {
	var path id.Path
	vid := cx.WithNewId(func() {
		path = cx.IdPath()
	})
	return vid, nil, widget.NewButton(path, v.label, v.style)
}

func (v ButtonView[T, A]) Rebuild(_ *Cx, prev View[T, A], _ *id.Id, _ *State, pod *widget.Pod) widget.ChangeFlags {
	p := mustPrev[ButtonView[T, A]](prev)
	if p.label == v.label && p.style == v.style {
		return 0
	}
	b := widget.MustAs[*widget.Button](pod)
	return b.SetLabel(v.label) | b.SetStyle(v.style)
}

func (v ButtonView[T, A]) Message(path id.Path, _ State, msg any, app *T) MessageResult[A] {
	if len(path) != 0 {
		return Stale[A](msg)
	}
	if _, ok := msg.(widget.Clicked); !ok {
		return Stale[A](msg)
	}
	if v.onClick == nil {
		return Nop[A]()
	}
	return Action(v.onClick(app))
}
