/*
Package rtree implements an immutable, in-memory, multi-dimensional R-tree.

An R-tree indexes points and axis-aligned rectangles in k-dimensional
Euclidean space (k >= 2) by nesting their minimum bounding rectangles
(MBRs). This package supports incremental insertion and deletion, bulk
loading via Sort-Tile-Recursive (STR) packing, intersection and
within-distance range search, and bounded k-nearest-neighbour search, with
pluggable node-selection and node-splitting heuristics — the classic
Guttman quadratic split plus minimal-volume-increase selection, and the
R*-tree variant (overlap-minimising selection at the leaf level,
perimeter-minimising axis choice, and forced reinsertion).

Every mutating operation (Add, Delete, Load) returns a new *Tree sharing
untouched subtrees with its predecessor by reference — a Tree value, once
built, is never mutated in place, so any number of goroutines may safely
hold and traverse different Tree values (or the same one) concurrently.
There is no mutex anywhere in this package because there is nothing to
protect.

# Building a tree

	b := rtree.NewBuilder().Dimensions(2).Star()
	tree, err := rtree.New[string](b)
	tree, err = tree.Add("sydney", geom.NewPoint(-33.86, 151.21))

# Bulk loading

	tree, err := rtree.Load[string](b, entries)

See geom for the Point/Rectangle geometry primitives entries are indexed by.
*/
package rtree

import (
	"github.com/npillmayer/schuko/gtrace"
	"github.com/npillmayer/schuko/tracing"
)

// tracer returns the package's global core-tracer, following the same
// package-level-function convention cords uses for T().
func tracer() tracing.Trace {
	return gtrace.CoreTracer
}
