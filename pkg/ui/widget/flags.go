package widget

import "strings"

// ChangeFlags describe what downstream work a reconciliation step requires.
type ChangeFlags uint8

const (
	// ChangeUpdate asks the node itself to run its update step again. It is
	// consumed locally and never reaches an ancestor.
	ChangeUpdate ChangeFlags = 1 << iota
	ChangeLayout
	ChangePaint
	// ChangeTree reports that a retained subtree was replaced.
	ChangeTree
)

// Upwards filters the flags an ancestor should see.
func (f ChangeFlags) Upwards() ChangeFlags {
	return f &^ ChangeUpdate
}

// Has reports whether all bits of g are set.
func (f ChangeFlags) Has(g ChangeFlags) bool {
	return f&g == g
}

func (f ChangeFlags) String() string {
	if f == 0 {
		return "NONE"
	}
	var parts []string
	for _, n := range []struct {
		bit  ChangeFlags
		name string
	}{
		{ChangeUpdate, "UPDATE"},
		{ChangeLayout, "LAYOUT"},
		{ChangePaint, "PAINT"},
		{ChangeTree, "TREE"},
	} {
		if f&n.bit != 0 {
			parts = append(parts, n.name)
		}
	}
	return strings.Join(parts, "|")
}

// PodFlags is the per-node flag set a Pod tracks.
type PodFlags uint16

const (
	RequestUpdate PodFlags = 1 << iota
	RequestLayout
	RequestPaint
	TreeChanged
	ContextChanged
	IsHot
	IsActive
	HasActive
	NeedsSetOrigin
)

// initFlags are set on a freshly created or replaced pod.
const initFlags = RequestUpdate | RequestLayout | RequestPaint | TreeChanged

// Upwards filters the flags merged into a parent after a pass.
func (f PodFlags) Upwards() PodFlags {
	return f & (RequestLayout | RequestPaint | TreeChanged | ContextChanged | HasActive)
}

// Has reports whether all bits of g are set.
func (f PodFlags) Has(g PodFlags) bool {
	return f&g == g
}

// FromChange maps reconciliation flags onto pod requests.
func FromChange(c ChangeFlags) PodFlags {
	var f PodFlags
	if c&ChangeUpdate != 0 {
		f |= RequestUpdate
	}
	if c&ChangeLayout != 0 {
		f |= RequestLayout
	}
	if c&ChangePaint != 0 {
		f |= RequestPaint
	}
	if c&ChangeTree != 0 {
		f |= TreeChanged
	}
	return f
}
