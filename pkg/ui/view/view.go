// Package view implements the declarative half of the UI.
//
// An application describes its screen as a tree of View values, produced
// fresh from application state on every frame. The framework keeps the
// per-node State and the retained widget from the first Build and, on each
// later frame, reconciles the new tree against the previous one with
// Rebuild, which patches widgets in place and reports ChangeFlags.
//
// Every node has an id.Id that stays fixed across rebuilds. Messages from
// widgets and async wake-ups carry the id path of the node they belong to
// and are routed back down the tree by Message, one path segment per level.
package view

import (
	"reflect"

	"github.com/odvcencio/trellis/pkg/errors"
	"github.com/odvcencio/trellis/pkg/ui/id"
	"github.com/odvcencio/trellis/pkg/ui/widget"
)

// State is the data a view node persists between frames. Views that keep
// mutable data use pointer states so Message can update them in place.
type State = any

// View describes one node of the UI for application state T and actions A.
type View[T, A any] interface {
	// Build creates the node: its id, its state and its widget. Views with
	// children push their own id with Cx.WithNewId while building them.
	Build(cx *Cx) (id.Id, State, widget.Widget)

	// Rebuild reconciles the node against prev, which is the view that
	// produced vid, state and the widget in pod on the previous frame and
	// always has the same dynamic type as the receiver. It returns the work
	// the change requires.
	Rebuild(cx *Cx, prev View[T, A], vid *id.Id, state *State, pod *widget.Pod) widget.ChangeFlags

	// Message delivers msg to the node addressed by path, which is relative
	// to the receiver: an empty path means the receiver itself, otherwise
	// the head names one of its children.
	Message(path id.Path, state State, msg any, app *T) MessageResult[A]
}

// Route delivers msg, addressed by an absolute path, to the tree whose
// root view was built with id rootId.
func Route[T, A any](root View[T, A], rootId id.Id, state State, path id.Path, msg any, app *T) MessageResult[A] {
	head, tail, ok := path.Split()
	if !ok || head != rootId {
		return Stale[A](msg)
	}
	return root.Message(tail, state, msg, app)
}

// Disposer is implemented by states that hold resources, such as pending
// async tasks, which must be released when the node leaves the tree.
type Disposer interface {
	Dispose()
}

// Dispose releases s if it holds resources.
func Dispose(s State) {
	if d, ok := s.(Disposer); ok {
		d.Dispose()
	}
}

// AsyncWake is the message body delivered to a node whose Waker fired.
type AsyncWake struct{}

// replaceFlags is what a subtree replacement reports.
const replaceFlags = widget.ChangeTree | widget.ChangeLayout | widget.ChangePaint

// Reconcile rebuilds cur against prev when both have the same dynamic
// type. Otherwise the old subtree is torn down and cur is built into the
// same pod. Callers mark the returned flags on pod.
func Reconcile[T, A any](cx *Cx, cur, prev View[T, A], vid *id.Id, state *State, pod *widget.Pod) widget.ChangeFlags {
	if prev != nil && reflect.TypeOf(cur) == reflect.TypeOf(prev) {
		return cur.Rebuild(cx, prev, vid, state, pod)
	}
	Dispose(*state)
	nid, nstate, w := cur.Build(cx)
	pod.Replace(w)
	*vid, *state = nid, nstate
	return replaceFlags
}

// mustPrev recovers the concrete previous view. Rebuild is only ever called
// with a prev of the receiver's own type.
func mustPrev[V any](prev any) V {
	p, ok := prev.(V)
	if !ok {
		var want V
		panic(errors.Invariantf("rebuild against %T, want %T", prev, want))
	}
	return p
}

// mustState recovers the concrete state a view built.
func mustState[S any](state State) S {
	s, ok := state.(S)
	if !ok {
		var want S
		panic(errors.Invariantf("view state is %T, want %T", state, want))
	}
	return s
}
