package rtree

import (
	"container/heap"
	"sort"

	"github.com/gospatial/rtree/geom"
)

// Nearest returns up to k entries within maxDistance of r, ordered by
// ascending distance. It is a two-stage search, not a best-first traversal:
// it first runs a bounded-distance Search, then keeps only the k closest
// matches in a fixed-capacity max-heap, evicting the current farthest match
// whenever a closer one arrives. This mirrors the original library, which
// likewise builds k-nearest on top of its ordinary distance search rather
// than maintaining a dedicated best-first node queue.
func (t *Tree[T]) Nearest(r geom.Rectangle, maxDistance float64, k int) []Entry[T] {
	if k <= 0 || t.root == nil {
		return nil
	}
	pq := &boundedNearest[T]{capacity: k}
	for e := range t.SearchWithin(r, maxDistance) {
		pq.offer(e, e.Geometry.Distance(r))
	}
	return pq.sorted()
}

type distanceEntry[T comparable] struct {
	entry    Entry[T]
	distance float64
}

// boundedNearest keeps at most capacity entries, the ones with the smallest
// distance seen so far, backed by a max-heap on distance so the current
// worst kept match is always the O(1) eviction candidate.
type boundedNearest[T comparable] struct {
	capacity int
	items    []distanceEntry[T]
}

func (b *boundedNearest[T]) offer(e Entry[T], distance float64) {
	if len(b.items) < b.capacity {
		heap.Push(b, distanceEntry[T]{entry: e, distance: distance})
		return
	}
	if len(b.items) == 0 || distance >= b.items[0].distance {
		return
	}
	b.items[0] = distanceEntry[T]{entry: e, distance: distance}
	heap.Fix(b, 0)
}

func (b *boundedNearest[T]) sorted() []Entry[T] {
	out := make([]Entry[T], len(b.items))
	items := append([]distanceEntry[T]{}, b.items...)
	sort.Slice(items, func(i, j int) bool { return items[i].distance < items[j].distance })
	for i, it := range items {
		out[i] = it.entry
	}
	return out
}

func (b *boundedNearest[T]) Len() int { return len(b.items) }
func (b *boundedNearest[T]) Less(i, j int) bool {
	return b.items[i].distance > b.items[j].distance // max-heap: farthest at root
}
func (b *boundedNearest[T]) Swap(i, j int) { b.items[i], b.items[j] = b.items[j], b.items[i] }
func (b *boundedNearest[T]) Push(x any)    { b.items = append(b.items, x.(distanceEntry[T])) }
func (b *boundedNearest[T]) Pop() any {
	n := len(b.items)
	item := b.items[n-1]
	b.items = b.items[:n-1]
	return item
}
