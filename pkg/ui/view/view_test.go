package view

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/odvcencio/trellis/pkg/ui/id"
	"github.com/odvcencio/trellis/pkg/ui/layout"
	"github.com/odvcencio/trellis/pkg/ui/widget"
)

func nestedTree(seen *[]id.Path, label string) V {
	spy := pathSpy{seen: seen}
	return Column[appState, action](
		spy,
		Row[appState, action](Text[appState, action]("count"), Button(label, inc)),
		Any[appState, action](spy),
		OneOf[appState, action](0, spy),
		Memoize[appState, action](label, func(string) V { return spy }),
		Box[appState, action](layout.Style{}, Keyed[appState, action, int]{Key[appState, action](1, V(spy))}),
	)
}

func TestPathBalance(t *testing.T) {
	cx := newCx(t)
	var seen []id.Path
	tr := mount(t, cx, nestedTree(&seen, "+"))

	require.Len(t, seen, 5)
	for i, p := range seen {
		head, ok := p.Head()
		require.True(t, ok)
		assert.Equal(t, tr.id, head, "spy %d is addressed under the root", i)
	}
	assert.Len(t, seen[0], 2)
	assert.Len(t, seen[1], 2, "Any shares the id of its child")
	assert.Len(t, seen[2], 2, "OneOf shares the id of its child")
	assert.Len(t, seen[3], 2, "Memoize shares the id of its child")
	assert.Len(t, seen[4], 3, "keyed children sit under the box id")

	tr.update(nestedTree(&seen, "-"))
	assert.Len(t, seen, 10)
}

func TestIdentityStability(t *testing.T) {
	cx := newCx(t)
	var seen []id.Path
	tr := mount(t, cx, nestedTree(&seen, "+"))
	rootID := tr.id
	built := append([]id.Path(nil), seen...)

	seen = seen[:0]
	flags := tr.update(nestedTree(&seen, "-"))

	assert.Equal(t, rootID, tr.id)
	if diff := cmp.Diff(built, seen); diff != "" {
		t.Errorf("rebuild changed ids (-built +rebuilt):\n%s", diff)
	}
	assert.False(t, flags.Has(widget.ChangeTree), "flags %s", flags)
	assert.True(t, flags.Has(widget.ChangeLayout|widget.ChangePaint), "the button label changed")
}

func TestStaleDrop(t *testing.T) {
	cx := newCx(t)
	app := &appState{}
	tr := mount(t, cx, Column[appState, action](Button("a", inc), Button("b", inc)))

	second := buttonPath(t, boxOf(t, tr.pod).Children()[1])
	r := tr.send(second, widget.Clicked{}, app)
	require.Equal(t, ResultAction, r.Kind)
	assert.Equal(t, action("inc"), r.Action)
	assert.Equal(t, 1, app.count)

	flags := tr.update(Column[appState, action](Button("a", inc)))
	assert.True(t, flags.Has(widget.ChangeTree|widget.ChangeLayout))
	assert.Len(t, boxOf(t, tr.pod).Children(), 1)

	r = tr.send(second, widget.Clicked{}, app)
	assert.Equal(t, ResultStale, r.Kind)
	assert.Equal(t, widget.Clicked{}, r.Message)
	assert.Equal(t, 1, app.count, "a stale message must not touch state")

	t.Run("foreign root", func(t *testing.T) {
		r := tr.send(id.Path{id.Next()}, widget.Clicked{}, app)
		assert.Equal(t, ResultStale, r.Kind)
	})
	t.Run("empty path", func(t *testing.T) {
		r := tr.send(nil, widget.Clicked{}, app)
		assert.Equal(t, ResultStale, r.Kind)
	})
	t.Run("path to the box itself", func(t *testing.T) {
		r := tr.send(id.Path{tr.id}, widget.Clicked{}, app)
		assert.Equal(t, ResultStale, r.Kind)
	})
}

func TestBoxRebuild_ContentOnly(t *testing.T) {
	cx := newCx(t)
	tr := mount(t, cx, Column[appState, action](Text[appState, action]("a")))
	child := boxOf(t, tr.pod).Children()[0]
	child.State().Clear(child.State().Flags())

	flags := tr.update(Column[appState, action](Text[appState, action]("bb")))

	assert.Equal(t, widget.ChangeLayout|widget.ChangePaint, flags)
	assert.Same(t, child, boxOf(t, tr.pod).Children()[0], "the pod is retained")
	assert.Equal(t, "bb", textOf(t, child))
	assert.True(t, child.State().Flags().Has(widget.RequestLayout|widget.RequestPaint))

	flags = tr.update(Column[appState, action](Text[appState, action]("bb")))
	assert.Zero(t, flags)
}

func TestBoxRebuild_StyleAndBorder(t *testing.T) {
	cx := newCx(t)
	tr := mount(t, cx, Column[appState, action](Text[appState, action]("a")))

	flags := tr.update(Column[appState, action](Text[appState, action]("a")).WithGap(1))
	assert.Equal(t, widget.ChangeLayout|widget.ChangePaint, flags)
	assert.Equal(t, 1, boxOf(t, tr.pod).LayoutStyle().Gap)
}

func TestSequence_KeyedReorderReusesPods(t *testing.T) {
	cx := newCx(t)
	names := []string{"a", "b", "c", "d"}
	cs := map[string]*counts{}
	for _, n := range names {
		cs[n] = &counts{}
	}
	list := func(order ...string) V {
		items := Keyed[appState, action, string]{}
		for _, n := range order {
			items = append(items, Key[appState, action](n, V(countView{text: n, c: cs[n]})))
		}
		return Box[appState, action](layout.Style{Direction: layout.Column}, items)
	}

	tr := mount(t, cx, list("a", "b", "c", "d"))
	before := append([]*widget.Pod(nil), boxOf(t, tr.pod).Children()...)

	flags := tr.update(list("d", "a", "b", "c"))

	for _, n := range names {
		assert.Equal(t, 1, cs[n].builds, "%s built once", n)
		assert.Zero(t, cs[n].rebuilds, "%s not rebuilt", n)
	}
	after := boxOf(t, tr.pod).Children()
	require.Len(t, after, 4)
	assert.Same(t, before[3], after[0])
	assert.Same(t, before[0], after[1])
	assert.Same(t, before[1], after[2])
	assert.Same(t, before[2], after[3])
	assert.True(t, flags.Has(widget.ChangeLayout))
	assert.False(t, flags.Has(widget.ChangeTree), "flags %s", flags)
}

func TestSequence_PositionalRebuildsOnlyShiftedViews(t *testing.T) {
	cx := newCx(t)
	cs := map[string]*counts{}
	for _, n := range []string{"a", "b", "c", "d"} {
		cs[n] = &counts{}
	}
	list := func(order ...string) V {
		var vs Views[appState, action]
		for _, n := range order {
			vs = append(vs, countView{text: n, c: cs[n]})
		}
		return Box[appState, action](layout.Style{}, vs)
	}

	tr := mount(t, cx, list("a", "b", "c", "d"))
	before := append([]*widget.Pod(nil), boxOf(t, tr.pod).Children()...)

	flags := tr.update(list("a", "c", "b", "d"))

	assert.Zero(t, cs["a"].rebuilds)
	assert.Zero(t, cs["d"].rebuilds)
	assert.Equal(t, 1, cs["b"].rebuilds)
	assert.Equal(t, 1, cs["c"].rebuilds)
	for n, c := range cs {
		assert.Equal(t, 1, c.builds, "%s built once", n)
	}
	assert.Equal(t, before, boxOf(t, tr.pod).Children(), "positional pods stay in place")
	assert.Equal(t, "c", textOf(t, before[1]))
	assert.False(t, flags.Has(widget.ChangeTree))
}

func TestSequence_GrowAndShrink(t *testing.T) {
	cx := newCx(t)
	tr := mount(t, cx, Column[appState, action](Text[appState, action]("a")))

	flags := tr.update(Column[appState, action](Text[appState, action]("a"), Text[appState, action]("b")))
	assert.True(t, flags.Has(widget.ChangeTree|widget.ChangeLayout))
	children := boxOf(t, tr.pod).Children()
	require.Len(t, children, 2)
	assert.True(t, children[1].State().Flags().Has(widget.TreeChanged), "new pods start with a pending tree update")

	flags = tr.update(Column[appState, action]())
	assert.True(t, flags.Has(widget.ChangeLayout))
	assert.Empty(t, boxOf(t, tr.pod).Children())
}

func TestSequence_KindChangeRebuildsChildren(t *testing.T) {
	cx := newCx(t)
	tr := mount(t, cx, Column[appState, action](Text[appState, action]("a")))

	keyed := Keyed[appState, action, int]{Key[appState, action](1, V(Text[appState, action]("a")))}
	flags := tr.update(Box[appState, action](layout.Style{Direction: layout.Column}, keyed))

	assert.True(t, flags.Has(widget.ChangeTree))
	require.Len(t, boxOf(t, tr.pod).Children(), 1)
	assert.Equal(t, "a", textOf(t, boxOf(t, tr.pod).Children()[0]))
}

func TestSequence_KeyedDuplicatesAreNew(t *testing.T) {
	cx := newCx(t)
	disposed := 0
	d := V(disposeSpy{disposed: &disposed})
	list := func(keys ...int) V {
		items := Keyed[appState, action, int]{}
		for _, k := range keys {
			items = append(items, Key(k, d))
		}
		return Box[appState, action](layout.Style{}, items)
	}

	tr := mount(t, cx, list(1, 2))
	tr.update(list(1, 1, 2))
	assert.Len(t, boxOf(t, tr.pod).Children(), 3)
	assert.Zero(t, disposed)

	tr.update(list(2))
	assert.Equal(t, 2, disposed, "both entries keyed 1 are released")
}

func TestDisposeExactlyOnce(t *testing.T) {
	cx := newCx(t)
	disposed := 0
	d := V(disposeSpy{disposed: &disposed})

	tr := mount(t, cx, Column[appState, action](d, d, d))
	tr.update(Column[appState, action](d))
	assert.Equal(t, 2, disposed)

	tr.update(Column[appState, action](Text[appState, action]("x")))
	assert.Equal(t, 3, disposed, "replacing a child by a different type disposes it")

	tr.update(Column[appState, action]())
	assert.Equal(t, 3, disposed)

	tr2 := mount(t, cx, OneOf[appState, action](0, Column[appState, action](d, d)))
	tr2.update(OneOf[appState, action](1, Text[appState, action]("gone")))
	assert.Equal(t, 5, disposed)
	tr2.update(OneOf[appState, action](2, Text[appState, action]("again")))
	assert.Equal(t, 5, disposed)
}

func TestAny(t *testing.T) {
	cx := newCx(t)
	app := &appState{}
	tr := mount(t, cx, Any[appState, action](Text[appState, action]("a")))
	first := tr.id

	flags := tr.update(Any[appState, action](Text[appState, action]("b")))
	assert.False(t, flags.Has(widget.ChangeTree))
	assert.Equal(t, first, tr.id)
	assert.Equal(t, "b", textOf(t, tr.pod))

	flags = tr.update(Any[appState, action](Button("go", inc)))
	assert.True(t, flags.Has(widget.ChangeTree))
	assert.NotEqual(t, first, tr.id)

	r := tr.send(buttonPath(t, tr.pod), widget.Clicked{}, app)
	assert.Equal(t, ResultAction, r.Kind)
	assert.Equal(t, 1, app.count)
}

func TestOneOf(t *testing.T) {
	cx := newCx(t)
	tr := mount(t, cx, OneOf[appState, action](0, Text[appState, action]("a")))
	first := tr.id

	flags := tr.update(OneOf[appState, action](0, Text[appState, action]("b")))
	assert.False(t, flags.Has(widget.ChangeTree))
	assert.Equal(t, first, tr.id)

	flags = tr.update(OneOf[appState, action](1, Text[appState, action]("b")))
	assert.True(t, flags.Has(widget.ChangeTree), "a variant switch rebuilds even with equal content")
	assert.NotEqual(t, first, tr.id)
	assert.Equal(t, 1, tr.view.(OneOfView[appState, action]).Variant())
}

func TestMemoize(t *testing.T) {
	cx := newCx(t)
	calls := 0
	render := func(n int) V {
		calls++
		return Text[appState, action](string(rune('0' + n)))
	}

	tr := mount(t, cx, Memoize[appState, action](1, render))
	assert.Equal(t, 1, calls)

	flags := tr.update(Memoize[appState, action](1, render))
	assert.Zero(t, flags)
	assert.Equal(t, 1, calls, "equal data skips the view function")

	flags = tr.update(Memoize[appState, action](2, render))
	assert.Equal(t, 2, calls)
	assert.True(t, flags.Has(widget.ChangePaint))
	assert.Equal(t, "2", textOf(t, tr.pod))
}

func TestMemoize_RebuildRequestInvalidates(t *testing.T) {
	cx := newCx(t)
	app := &appState{}
	calls := 0
	render := func(int) V {
		calls++
		return rebuildRequester{}
	}

	tr := mount(t, cx, Memoize[appState, action](7, render))
	r := tr.send(id.Path{tr.id}, "ping", app)
	require.Equal(t, ResultRequestRebuild, r.Kind)

	tr.update(Memoize[appState, action](7, render))
	assert.Equal(t, 2, calls)

	tr.update(Memoize[appState, action](7, render))
	assert.Equal(t, 2, calls, "the dirty mark is consumed")
}

type counterLocal struct {
	n int
}

type LC = Local[appState, counterLocal]

func localCounter() V {
	return UseState[appState, action](
		func() counterLocal { return counterLocal{} },
		func(s *counterLocal) View[LC, action] {
			return Column[LC, action](
				Text[LC, action](string(rune('0'+s.n))),
				Button("+", func(l *LC) action {
					l.State.n++
					l.App.count += 10
					return "local"
				}),
			)
		},
	)
}

func TestUseState(t *testing.T) {
	cx := newCx(t)
	app := &appState{}
	tr := mount(t, cx, localCounter())
	children := boxOf(t, tr.pod).Children()
	assert.Equal(t, "0", textOf(t, children[0]))

	path := buttonPath(t, children[1])
	r := tr.send(path, widget.Clicked{}, app)
	require.Equal(t, ResultAction, r.Kind)
	assert.Equal(t, action("local"), r.Action)
	assert.Equal(t, 10, app.count)

	tr.update(localCounter())
	assert.Equal(t, "1", textOf(t, children[0]))

	tr.send(path, widget.Clicked{}, app)
	tr.update(localCounter())
	assert.Equal(t, "2", textOf(t, children[0]), "local state survives rebuilds")
	assert.Equal(t, 20, app.count)
}

func TestMapAction(t *testing.T) {
	cx := newCx(t)
	app := &appState{}
	v := MapAction[appState, int, action](
		Button("five", func(*appState) int { return 5 }),
		func(a *appState, n int) action {
			a.count += n
			return "mapped"
		},
	)
	tr := mount(t, cx, v)

	r := tr.send(buttonPath(t, tr.pod), widget.Clicked{}, app)
	require.Equal(t, ResultAction, r.Kind)
	assert.Equal(t, action("mapped"), r.Action)
	assert.Equal(t, 5, app.count)

	r = tr.send(id.Path{id.Next()}, widget.Clicked{}, app)
	assert.Equal(t, ResultStale, r.Kind)
}

func TestLens(t *testing.T) {
	cx := newCx(t)
	app := &appState{}
	v := Lens[appState, string, action](
		func(a *appState) *string { return &a.name },
		Button("name", func(s *string) action {
			*s = "set"
			return "named"
		}),
	)
	tr := mount(t, cx, v)

	r := tr.send(buttonPath(t, tr.pod), widget.Clicked{}, app)
	require.Equal(t, ResultAction, r.Kind)
	assert.Equal(t, "set", app.name)
}

func TestMapResult(t *testing.T) {
	r := MapResult(Action(2), func(n int) string { return string(rune('a' + n)) })
	assert.Equal(t, ResultAction, r.Kind)
	assert.Equal(t, "c", r.Action)

	s := MapResult(Stale[int]("m"), func(int) string { return "x" })
	assert.Equal(t, ResultStale, s.Kind)
	assert.Equal(t, "m", s.Message)
	assert.Empty(t, s.Action)

	assert.Equal(t, "request_rebuild", RequestRebuild[int]().Kind.String())
}

func TestReconcile_InvariantPanics(t *testing.T) {
	cx := newCx(t)
	tr := mount(t, cx, Text[appState, action]("a"))
	assert.Panics(t, func() {
		Text[appState, action]("b").Rebuild(cx, Button("x", inc), &tr.id, &tr.state, tr.pod)
	})
}
