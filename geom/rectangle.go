// Package geom provides the axis-aligned geometry primitives the tree
// indexes: k-dimensional points and rectangles, and the small set of
// operations (intersection, Euclidean distance, MBR union, volume)
// the engine needs to route and bound entries.
//
// A point is represented as the degenerate rectangle mins == maxes; there is
// no separate point type. All operations require operands of equal
// dimensionality — a mismatch is a programming error and panics rather than
// returning an error, since it can only happen if a caller mixed entries
// from trees of different dimensionality.
package geom

import (
	"fmt"
	"math"
)

// Rectangle is an axis-aligned k-dimensional box, given by its minimum and
// maximum coordinate along each of k dimensions. Rectangle is immutable:
// every operation that would change it returns a new value.
type Rectangle struct {
	mins  []float64
	maxes []float64
}

// NewPoint creates the degenerate rectangle representing a single point.
func NewPoint(coords ...float64) Rectangle {
	mins := append([]float64(nil), coords...)
	maxes := append([]float64(nil), coords...)
	return Rectangle{mins: mins, maxes: maxes}
}

// NewRectangle creates a rectangle from paired min/max coordinate vectors.
//
// It returns an error if mins and maxes have different lengths, if either is
// empty, or if mins[i] > maxes[i] for some dimension i.
func NewRectangle(mins, maxes []float64) (Rectangle, error) {
	if len(mins) == 0 || len(maxes) == 0 {
		return Rectangle{}, fmt.Errorf("geom: rectangle requires at least one dimension")
	}
	if len(mins) != len(maxes) {
		return Rectangle{}, fmt.Errorf("geom: mins has %d dimensions, maxes has %d", len(mins), len(maxes))
	}
	for i := range mins {
		if mins[i] > maxes[i] {
			return Rectangle{}, fmt.Errorf("geom: dimension %d: min %v > max %v", i, mins[i], maxes[i])
		}
	}
	return Rectangle{
		mins:  append([]float64(nil), mins...),
		maxes: append([]float64(nil), maxes...),
	}, nil
}

// Dimensions returns k, the number of coordinate axes.
func (r Rectangle) Dimensions() int { return len(r.mins) }

// Mins returns a copy of the minimum coordinate vector.
func (r Rectangle) Mins() []float64 { return append([]float64(nil), r.mins...) }

// Maxes returns a copy of the maximum coordinate vector.
func (r Rectangle) Maxes() []float64 { return append([]float64(nil), r.maxes...) }

// Min returns the minimum coordinate along dimension i.
func (r Rectangle) Min(i int) float64 { return r.mins[i] }

// Max returns the maximum coordinate along dimension i.
func (r Rectangle) Max(i int) float64 { return r.maxes[i] }

// MBR returns the rectangle itself: a rectangle is its own minimum bounding
// rectangle. This method exists so that Rectangle satisfies the same access
// pattern as a tree node's cached bound.
func (r Rectangle) MBR() Rectangle { return r }

// IsPoint reports whether the rectangle is degenerate (mins == maxes on
// every axis), i.e. represents a single point.
func (r Rectangle) IsPoint() bool {
	for i := range r.mins {
		if r.mins[i] != r.maxes[i] {
			return false
		}
	}
	return true
}

func checkDimensions(a, b Rectangle) {
	if len(a.mins) != len(b.mins) {
		panic(fmt.Sprintf("geom: dimension mismatch: %d vs %d", len(a.mins), len(b.mins)))
	}
}

// Intersects reports whether r and other overlap (boundary-inclusive): for
// every dimension i, r.mins[i] <= other.maxes[i] and r.maxes[i] >= other.mins[i].
func (r Rectangle) Intersects(other Rectangle) bool {
	checkDimensions(r, other)
	for i := range r.mins {
		if r.mins[i] > other.maxes[i] || r.maxes[i] < other.mins[i] {
			return false
		}
	}
	return true
}

// Distance returns the Euclidean distance between r and other: zero if they
// intersect, otherwise the length of the gap vector across every separated
// dimension.
func (r Rectangle) Distance(other Rectangle) float64 {
	checkDimensions(r, other)
	var sumSquares float64
	for i := range r.mins {
		gap := axialGap(r.mins[i], r.maxes[i], other.mins[i], other.maxes[i])
		sumSquares += gap * gap
	}
	return math.Sqrt(sumSquares)
}

// axialGap returns the separation between two intervals along one axis, or
// zero if they overlap.
func axialGap(aMin, aMax, bMin, bMax float64) float64 {
	if aMax < bMin {
		return bMin - aMax
	}
	if bMax < aMin {
		return aMin - bMax
	}
	return 0
}

// Volume returns the product of side lengths. It is zero for a point and is
// meaningful only as a relative measure between rectangles of the same
// dimensionality, per the R-tree splitting/selection heuristics.
func (r Rectangle) Volume() float64 {
	volume := 1.0
	for i := range r.mins {
		volume *= r.maxes[i] - r.mins[i]
	}
	return volume
}

// Perimeter returns the sum of side lengths, generalising the notion of
// "perimeter" to k dimensions. Used by the R* splitter's axis-choice step.
func (r Rectangle) Perimeter() float64 {
	var perimeter float64
	for i := range r.mins {
		perimeter += r.maxes[i] - r.mins[i]
	}
	return perimeter
}

// Center returns the midpoint coordinate vector, used by the R* splitter's
// forced-reinsertion step to rank entries by distance from a node's centre.
func (r Rectangle) Center() []float64 {
	center := make([]float64, len(r.mins))
	for i := range r.mins {
		center[i] = (r.mins[i] + r.maxes[i]) / 2
	}
	return center
}

// Add returns the union (minimum bounding rectangle) of r and other.
func (r Rectangle) Add(other Rectangle) Rectangle {
	checkDimensions(r, other)
	mins := make([]float64, len(r.mins))
	maxes := make([]float64, len(r.maxes))
	for i := range r.mins {
		mins[i] = math.Min(r.mins[i], other.mins[i])
		maxes[i] = math.Max(r.maxes[i], other.maxes[i])
	}
	return Rectangle{mins: mins, maxes: maxes}
}

// Union returns the minimum bounding rectangle of a non-empty slice of
// rectangles. It panics if boxes is empty; callers are expected to guard
// against the zero-child case themselves (the tree never builds empty
// nodes, so this is only ever called with at least one box).
func Union(boxes []Rectangle) Rectangle {
	if len(boxes) == 0 {
		panic("geom: Union of zero rectangles")
	}
	union := boxes[0]
	for _, box := range boxes[1:] {
		union = union.Add(box)
	}
	return union
}

// EnlargementVolume returns the increase in volume that would result from
// enlarging box to also cover other: Volume(box.Add(other)) - Volume(box).
func EnlargementVolume(box, other Rectangle) float64 {
	return box.Add(other).Volume() - box.Volume()
}

// OverlapVolume returns the volume of the intersection of a and b, or zero
// if they do not overlap.
func OverlapVolume(a, b Rectangle) float64 {
	checkDimensions(a, b)
	volume := 1.0
	for i := range a.mins {
		lo := math.Max(a.mins[i], b.mins[i])
		hi := math.Min(a.maxes[i], b.maxes[i])
		if hi <= lo {
			return 0
		}
		volume *= hi - lo
	}
	return volume
}

// String implements fmt.Stringer for diagnostic output.
func (r Rectangle) String() string {
	return fmt.Sprintf("Rectangle%v-%v", r.mins, r.maxes)
}
