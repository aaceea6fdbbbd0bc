// Package widget implements the retained half of the UI: widgets wrapped in
// Pods that track geometry, interaction state and dirty flags.
//
// A Pod sits between a container and each child widget. It hit-tests and
// translates pointer events, keeps hot and active state the widget author
// never has to manage, and merges the child's pending work into its parent
// after every pass. Widgets talk to the rest of the framework only through
// the context passed to each pass.
package widget

import (
	"github.com/odvcencio/trellis/pkg/ui/geom"
	"github.com/odvcencio/trellis/pkg/ui/id"
)

// Widget is a retained UI element.
type Widget interface {
	// Event handles input. Containers forward it to their child pods.
	Event(cx *EventCx, ev Event)

	// Lifecycle handles structural notifications. Containers forward
	// everything except HotChanged to their child pods.
	Lifecycle(cx *LifeCycleCx, ev LifeCycle)

	// Layout returns a size satisfying bc on its bounded axes. Containers
	// lay out their child pods here and place them with SetOrigin.
	Layout(cx *LayoutCx, bc geom.BoxConstraints) geom.Size

	// Paint draws the widget in local coordinates.
	Paint(cx *PaintCx)
}

// Message is an outbound notification addressed to the view node that
// owns the emitting widget.
type Message struct {
	Path id.Path
	Body any
}

// Clicked is the message body a Button emits.
type Clicked struct{}
