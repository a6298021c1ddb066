package rtree

import (
	"fmt"
	"iter"

	"github.com/gospatial/rtree/geom"
)

// Tree is an immutable R-tree mapping geometries to values of type T. Every
// mutating method (Add, AddAll, Delete, DeleteAll) returns a new Tree that
// shares untouched subtrees with its receiver via path copying — the
// receiver itself is never modified, so a Tree can be read concurrently from
// multiple goroutines while new versions are built from it.
//
// The zero value is not usable; construct one with New or Load.
type Tree[T comparable] struct {
	cfg  *Context
	root node[T]
	size int
}

// Context returns the configuration this tree was built with.
func (t *Tree[T]) Context() *Context { return t.cfg }

// Size returns the number of entries in the tree.
func (t *Tree[T]) Size() int { return t.size }

// IsEmpty reports whether the tree holds no entries.
func (t *Tree[T]) IsEmpty() bool { return t.size == 0 }

// Depth returns the number of node layers from the root down to, and
// including, the leaves. An empty tree has depth 0.
func (t *Tree[T]) Depth() int {
	if t.root == nil {
		return 0
	}
	return nodeDepth[T](t.root)
}

// MBR returns the minimum bounding rectangle of every entry in the tree. The
// second return value is false for an empty tree, in which case the
// rectangle is the zero value and must not be used.
func (t *Tree[T]) MBR() (geom.Rectangle, bool) {
	if t.root == nil {
		return geom.Rectangle{}, false
	}
	return t.root.mbr(), true
}

// Entries returns a lazy, single-pass sequence over every entry in the tree,
// in depth-first pre-order. It never materialises the full result set, so it
// is the cheapest way to walk an entire tree.
func (t *Tree[T]) Entries() iter.Seq[Entry[T]] {
	return func(yield func(Entry[T]) bool) {
		if t.root == nil {
			return
		}
		walkEntries(t.root, yield)
	}
}

// walkEntries visits every entry reachable from n in depth-first pre-order,
// stopping as soon as yield returns false. It reports whether the walk
// should continue, so callers composing it (Entries, flattenEntries) can
// short-circuit a whole subtree without a sentinel error.
func walkEntries[T comparable](n node[T], yield func(Entry[T]) bool) bool {
	switch nd := n.(type) {
	case *leafNode[T]:
		for _, e := range nd.entries {
			if !yield(e) {
				return false
			}
		}
		return true
	case *innerNode[T]:
		for _, c := range nd.children {
			if !walkEntries(c, yield) {
				return false
			}
		}
		return true
	}
	return true
}

// flattenEntries collects every entry reachable from n, in no particular
// order. Used when an underflowing subtree is dissolved and its contents
// must be reinserted individually from the root.
func flattenEntries[T comparable](n node[T]) []Entry[T] {
	var out []Entry[T]
	walkEntries(n, func(e Entry[T]) bool {
		out = append(out, e)
		return true
	})
	return out
}

func (t *Tree[T]) checkDimensions(box geom.Rectangle) error {
	if box.Dimensions() != t.cfg.Dimensions() {
		return fmt.Errorf("%w: entry has %d dimensions, tree has %d", ErrDimensionMismatch, box.Dimensions(), t.cfg.Dimensions())
	}
	return nil
}
