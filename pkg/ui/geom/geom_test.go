package geom

import "testing"

func TestRect_Contains(t *testing.T) {
	r := Rect{X: 2, Y: 3, Width: 4, Height: 2}
	tests := []struct {
		p    Point
		want bool
	}{
		{Point{2, 3}, true},
		{Point{5, 4}, true},
		{Point{6, 4}, false},
		{Point{5, 5}, false},
		{Point{1, 3}, false},
	}
	for _, tt := range tests {
		if got := r.Contains(tt.p); got != tt.want {
			t.Errorf("Contains(%v) = %v, want %v", tt.p, got, tt.want)
		}
	}
}

func TestRect_Intersection(t *testing.T) {
	a := Rect{X: 0, Y: 0, Width: 10, Height: 10}
	b := Rect{X: 5, Y: 5, Width: 10, Height: 10}
	got := a.Intersection(b)
	want := Rect{X: 5, Y: 5, Width: 5, Height: 5}
	if got != want {
		t.Errorf("Intersection = %+v, want %+v", got, want)
	}
	if got := a.Intersection(Rect{X: 20, Y: 20, Width: 1, Height: 1}); !got.Empty() {
		t.Errorf("disjoint Intersection = %+v, want empty", got)
	}
}

func TestRect_Translate(t *testing.T) {
	r := NewRect(Point{1, 1}, Size{3, 3}).Translate(Point{2, -1})
	if r.Origin() != (Point{3, 0}) || r.Size() != (Size{3, 3}) {
		t.Errorf("Translate = %+v", r)
	}
}

func TestBoxConstraints_Constrain(t *testing.T) {
	c := BoxConstraints{Min: Size{2, 1}, Max: Size{10, 5}}
	if got := c.Constrain(Size{20, 0}); got != (Size{10, 1}) {
		t.Errorf("Constrain = %+v, want {10 1}", got)
	}
	if !Tight(Size{3, 3}).IsTight() {
		t.Error("Tight should be tight")
	}
	if Loose(Size{3, 3}).IsTight() {
		t.Error("Loose should not be tight")
	}
}

func TestBoxConstraints_ShrinkKeepsUnbounded(t *testing.T) {
	c := UnboundedConstraints().Shrink(2, 2)
	if c.BoundedWidth() || c.BoundedHeight() {
		t.Errorf("Shrink lost unbounded axes: %+v", c)
	}
	c = Tight(Size{5, 1}).Shrink(2, 2)
	if c.Max != (Size{3, 0}) || c.Min != (Size{3, 0}) {
		t.Errorf("Shrink = %+v", c)
	}
}
