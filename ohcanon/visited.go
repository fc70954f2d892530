package ohcanon

import (
	"slices"

	"objhash.org/objhash/ohvalue"
)

// VisitedSet is an insertion ordered list of the composite Values encountered during a
// traversal.  Composites are compared by identity.
//
// The zero value is an empty set.
type VisitedSet struct {
	nodes []ohvalue.Value
}

// IndexOf returns the position at which v was pushed, or -1.
func (vs *VisitedSet) IndexOf(v ohvalue.Value) int {
	for i, x := range vs.nodes {
		if x == v {
			return i
		}
	}
	return -1
}

// Push appends v.  v must be a pointer to a composite.
func (vs *VisitedSet) Push(v ohvalue.Value) {
	vs.nodes = append(vs.nodes, v)
}

func (vs *VisitedSet) Len() int {
	return len(vs.nodes)
}

// Clone returns a copy which can be extended independently.
func (vs VisitedSet) Clone() VisitedSet {
	return VisitedSet{nodes: slices.Clone(vs.nodes)}
}
