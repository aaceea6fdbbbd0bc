// Package id allocates the identities that address nodes of the view tree.
//
// An Id is handed out once when a node is built and stays attached to that
// node across rebuilds. A Path is the root-to-node sequence of ids and is the
// only thing used to route messages and async wake-ups back to a node.
package id

import (
	"strconv"
	"strings"
	"sync/atomic"
)

// Id is a process-unique node identity. The zero value is never allocated.
type Id uint64

var counter atomic.Uint64

// Next returns an id that differs from every id returned before.
// Safe for concurrent use.
func Next() Id {
	return Id(counter.Add(1))
}

// String renders the id as a decimal number.
func (i Id) String() string {
	return strconv.FormatUint(uint64(i), 10)
}

// Path addresses a node from the root of the tree.
type Path []Id

// Head returns the first id of the path.
func (p Path) Head() (Id, bool) {
	if len(p) == 0 {
		return 0, false
	}
	return p[0], true
}

// Tail returns the path without its first element.
func (p Path) Tail() Path {
	if len(p) == 0 {
		return nil
	}
	return p[1:]
}

// Split returns head and tail in one call.
func (p Path) Split() (Id, Path, bool) {
	if len(p) == 0 {
		return 0, nil, false
	}
	return p[0], p[1:], true
}

// Last returns the final id of the path, which is the addressed node itself.
func (p Path) Last() (Id, bool) {
	if len(p) == 0 {
		return 0, false
	}
	return p[len(p)-1], true
}

// Clone returns a copy that does not alias p.
func (p Path) Clone() Path {
	if p == nil {
		return nil
	}
	out := make(Path, len(p))
	copy(out, p)
	return out
}

// Equal reports whether both paths hold the same ids in the same order.
func (p Path) Equal(other Path) bool {
	if len(p) != len(other) {
		return false
	}
	for i := range p {
		if p[i] != other[i] {
			return false
		}
	}
	return true
}

// HasPrefix reports whether prefix addresses p or one of its ancestors.
func (p Path) HasPrefix(prefix Path) bool {
	if len(prefix) > len(p) {
		return false
	}
	return p[:len(prefix)].Equal(prefix)
}

// String renders the path as ids joined by slashes.
func (p Path) String() string {
	if len(p) == 0 {
		return "/"
	}
	var b strings.Builder
	for _, i := range p {
		b.WriteByte('/')
		b.WriteString(i.String())
	}
	return b.String()
}
