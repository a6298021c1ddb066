package rtree

import "github.com/gospatial/rtree/geom"

// Entry pairs an opaque value with the geometry it is indexed by. The value
// is never inspected by the tree except for equality during deletion;
// equality on the geometry is exact on coordinates, not approximate, so
// floating-point callers that want fuzzy matching must round before
// constructing an Entry.
type Entry[T comparable] struct {
	Value    T
	Geometry geom.Rectangle
}

// equal reports whether two entries match on both value and geometry, the
// match rule Delete uses to find candidates to remove.
func (e Entry[T]) equal(other Entry[T]) bool {
	if e.Value != other.Value {
		return false
	}
	if e.Geometry.Dimensions() != other.Geometry.Dimensions() {
		return false
	}
	for i := 0; i < e.Geometry.Dimensions(); i++ {
		if e.Geometry.Min(i) != other.Geometry.Min(i) || e.Geometry.Max(i) != other.Geometry.Max(i) {
			return false
		}
	}
	return true
}
