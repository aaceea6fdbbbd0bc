package view

import (
	"reflect"

	"github.com/odvcencio/trellis/pkg/ui/id"
	"github.com/odvcencio/trellis/pkg/ui/widget"
)

// Sequence is an ordered, variable-length list of child views. Each child
// owns one pod of the enclosing container.
type Sequence[T, A any] interface {
	BuildSeq(cx *Cx) (State, []*widget.Pod)

	// RebuildSeq reconciles against prev, which built state and pods. It
	// returns the pods in their new order.
	RebuildSeq(cx *Cx, prev Sequence[T, A], state *State, pods []*widget.Pod) ([]*widget.Pod, widget.ChangeFlags)

	// MessageSeq routes a message whose path head names one of the children.
	MessageSeq(path id.Path, state State, msg any, app *T) MessageResult[A]
}

// rebuildSeqOrReplace reconciles seq against prev, rebuilding every child
// if the sequence kind changed.
func rebuildSeqOrReplace[T, A any](cx *Cx, seq, prev Sequence[T, A], state *State, pods []*widget.Pod) ([]*widget.Pod, widget.ChangeFlags) {
	if prev != nil && reflect.TypeOf(seq) == reflect.TypeOf(prev) {
		return seq.RebuildSeq(cx, prev, state, pods)
	}
	Dispose(*state)
	st, fresh := seq.BuildSeq(cx)
	*state = st
	return fresh, replaceFlags
}

type child struct {
	id    id.Id
	state State
}

// Views is a positional sequence: the child at index i is reconciled with
// the previous child at index i. Growth builds new children at the tail,
// shrinkage disposes the surplus.
type Views[T, A any] []View[T, A]

type viewsState struct {
	children []child
}

func (s *viewsState) Dispose() {
	for _, c := range s.children {
		Dispose(c.state)
	}
	s.children = nil
}

func (vs Views[T, A]) BuildSeq(cx *Cx) (State, []*widget.Pod) {
	st := &viewsState{children: make([]child, 0, len(vs))}
	pods := make([]*widget.Pod, 0, len(vs))
	for _, v := range vs {
		vid, s, w := v.Build(cx)
		st.children = append(st.children, child{id: vid, state: s})
		pods = append(pods, widget.NewPod(w))
	}
	return st, pods
}

func (vs Views[T, A]) RebuildSeq(cx *Cx, prev Sequence[T, A], state *State, pods []*widget.Pod) ([]*widget.Pod, widget.ChangeFlags) {
	p := mustPrev[Views[T, A]](prev)
	st := mustState[*viewsState](*state)

	var changed widget.ChangeFlags
	out := make([]*widget.Pod, 0, len(vs))
	n := min(len(vs), len(p))
	for i := 0; i < n; i++ {
		c := &st.children[i]
		changed |= pods[i].Mark(Reconcile(cx, vs[i], p[i], &c.id, &c.state, pods[i]))
		out = append(out, pods[i])
	}
	if len(p) > len(vs) {
		for _, c := range st.children[n:] {
			Dispose(c.state)
		}
		st.children = st.children[:n]
		changed |= replaceFlags
	}
	for _, v := range vs[n:] {
		vid, s, w := v.Build(cx)
		st.children = append(st.children, child{id: vid, state: s})
		out = append(out, widget.NewPod(w))
		changed |= replaceFlags
	}
	return out, changed
}

func (vs Views[T, A]) MessageSeq(path id.Path, state State, msg any, app *T) MessageResult[A] {
	st := mustState[*viewsState](state)
	head, tail, ok := path.Split()
	if !ok {
		return Stale[A](msg)
	}
	for i, c := range st.children {
		if c.id == head && i < len(vs) {
			return vs[i].Message(tail, c.state, msg, app)
		}
	}
	return Stale[A](msg)
}

// KeyedItem is one entry of a Keyed sequence.
type KeyedItem[T, A any, K comparable] struct {
	Key  K
	View View[T, A]
}

// Key pairs a view with its key.
func Key[T, A any, K comparable](k K, v View[T, A]) KeyedItem[T, A, K] {
	return KeyedItem[T, A, K]{Key: k, View: v}
}

// Keyed is a sequence whose children are matched by key, so reordering
// moves retained pods instead of rebuilding them. A key repeated within
// one frame is treated as a new child.
type Keyed[T, A any, K comparable] []KeyedItem[T, A, K]

type keyedEntry[K comparable] struct {
	key   K
	id    id.Id
	state State
	pod   *widget.Pod
}

type keyedMatch[T, A any, K comparable] struct {
	entry keyedEntry[K]
	view  View[T, A]
}

type keyedState[K comparable] struct {
	entries []keyedEntry[K]
}

func (s *keyedState[K]) Dispose() {
	for _, e := range s.entries {
		Dispose(e.state)
	}
	s.entries = nil
}

func (ks Keyed[T, A, K]) BuildSeq(cx *Cx) (State, []*widget.Pod) {
	st := &keyedState[K]{entries: make([]keyedEntry[K], 0, len(ks))}
	pods := make([]*widget.Pod, 0, len(ks))
	for _, item := range ks {
		e := buildEntry(cx, item)
		st.entries = append(st.entries, e)
		pods = append(pods, e.pod)
	}
	return st, pods
}

func buildEntry[T, A any, K comparable](cx *Cx, item KeyedItem[T, A, K]) keyedEntry[K] {
	vid, s, w := item.View.Build(cx)
	return keyedEntry[K]{key: item.Key, id: vid, state: s, pod: widget.NewPod(w)}
}

func (ks Keyed[T, A, K]) RebuildSeq(cx *Cx, prev Sequence[T, A], state *State, _ []*widget.Pod) ([]*widget.Pod, widget.ChangeFlags) {
	p := mustPrev[Keyed[T, A, K]](prev)
	st := mustState[*keyedState[K]](*state)

	// Entries line up with the items of prev. Only the first occurrence of
	// a key can be matched.
	old := make(map[K]keyedMatch[T, A, K], len(st.entries))
	var leftover []keyedEntry[K]
	for i, e := range st.entries {
		if _, dup := old[e.key]; dup || i >= len(p) {
			leftover = append(leftover, e)
			continue
		}
		old[e.key] = keyedMatch[T, A, K]{entry: e, view: p[i].View}
	}

	var changed widget.ChangeFlags
	entries := make([]keyedEntry[K], 0, len(ks))
	pods := make([]*widget.Pod, 0, len(ks))
	reordered := false
	for i, item := range ks {
		m, ok := old[item.Key]
		if !ok {
			e := buildEntry(cx, item)
			entries = append(entries, e)
			pods = append(pods, e.pod)
			changed |= replaceFlags
			continue
		}
		delete(old, item.Key)
		e := m.entry
		changed |= e.pod.Mark(Reconcile(cx, item.View, m.view, &e.id, &e.state, e.pod))
		if i >= len(st.entries) || st.entries[i].pod != e.pod {
			reordered = true
		}
		entries = append(entries, e)
		pods = append(pods, e.pod)
	}
	for _, m := range old {
		leftover = append(leftover, m.entry)
	}
	for _, e := range leftover {
		Dispose(e.state)
		changed |= replaceFlags
	}
	if reordered {
		changed |= widget.ChangeLayout | widget.ChangePaint
	}
	st.entries = entries
	return pods, changed
}

func (ks Keyed[T, A, K]) MessageSeq(path id.Path, state State, msg any, app *T) MessageResult[A] {
	st := mustState[*keyedState[K]](state)
	head, tail, ok := path.Split()
	if !ok {
		return Stale[A](msg)
	}
	for i, e := range st.entries {
		if e.id == head && i < len(ks) {
			return ks[i].View.Message(tail, e.state, msg, app)
		}
	}
	return Stale[A](msg)
}
