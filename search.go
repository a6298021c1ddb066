package rtree

import (
	"iter"

	"github.com/gospatial/rtree/geom"
)

// Predicate decides whether an entry's geometry is accepted by a search.
// mbr is the bounding rectangle of the node being considered — for a leaf
// entry it is the entry's own geometry, for an inner node it is that node's
// cached MBR, which lets Search prune whole subtrees without visiting them.
type Predicate func(mbr geom.Rectangle) bool

// Intersects returns a Predicate accepting any geometry that overlaps r,
// boundary inclusive.
func Intersects(r geom.Rectangle) Predicate {
	return func(mbr geom.Rectangle) bool { return mbr.Intersects(r) }
}

// Within returns a Predicate accepting any geometry within maxDistance of r.
func Within(r geom.Rectangle, maxDistance float64) Predicate {
	return func(mbr geom.Rectangle) bool { return mbr.Distance(r) <= maxDistance }
}

// Search returns a lazy, single-pass sequence over every entry whose
// geometry satisfies predicate. Subtrees whose MBR fails predicate are
// pruned without being descended into. The sequence must be consumed with a
// range-over-func for loop; breaking out of that loop stops the traversal
// immediately rather than materialising the rest of the result set.
func (t *Tree[T]) Search(predicate Predicate) iter.Seq[Entry[T]] {
	return func(yield func(Entry[T]) bool) {
		if t.root == nil {
			return
		}
		searchNode(t.root, predicate, yield)
	}
}

// SearchIntersects is a convenience wrapper for Search(Intersects(r)).
func (t *Tree[T]) SearchIntersects(r geom.Rectangle) iter.Seq[Entry[T]] {
	return t.Search(Intersects(r))
}

// SearchWithin is a convenience wrapper for Search(Within(r, maxDistance)).
func (t *Tree[T]) SearchWithin(r geom.Rectangle, maxDistance float64) iter.Seq[Entry[T]] {
	return t.Search(Within(r, maxDistance))
}

func searchNode[T comparable](n node[T], predicate Predicate, yield func(Entry[T]) bool) bool {
	if !predicate(n.mbr()) {
		return true
	}
	switch nd := n.(type) {
	case *leafNode[T]:
		for _, e := range nd.entries {
			if !predicate(e.Geometry) {
				continue
			}
			if !yield(e) {
				return false
			}
		}
		return true
	case *innerNode[T]:
		for _, c := range nd.children {
			if !searchNode(c, predicate, yield) {
				return false
			}
		}
		return true
	}
	return true
}
