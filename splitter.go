package rtree

import (
	"fmt"
	"sort"

	"github.com/gospatial/rtree/geom"
)

// Splitter partitions an overflowed group of geometries — leaf entries or
// child nodes, the caller doesn't matter to the splitter, only their MBRs
// do — into two groups. items holds at least maxChildren+1 boxes (one past
// capacity); minChildren is the lower occupancy bound each resulting group
// must respect. Split returns, for each index into items, which group (0 or
// 1) that item was assigned to.
type Splitter interface {
	Split(items []geom.Rectangle, minChildren int) ([]int, error)
}

// QuadraticSplitter is Guttman's quadratic-cost split: pick the most
// wasteful seed pair, then repeatedly assign the remaining item with the
// strongest preference for one group over the other, until occupancy rules
// force the rest into a single group.
type QuadraticSplitter struct{}

func (QuadraticSplitter) Split(items []geom.Rectangle, minChildren int) ([]int, error) {
	n := len(items)
	if n < 2 {
		return nil, fmt.Errorf("rtree: quadratic split needs at least 2 items, got %d", n)
	}
	group := make([]int, n)
	for i := range group {
		group[i] = -1
	}

	seedA, seedB := pickQuadraticSeeds(items)
	group[seedA] = 0
	group[seedB] = 1
	g1Box, g2Box := items[seedA], items[seedB]
	g1Count, g2Count := 1, 1

	remaining := make([]int, 0, n-2)
	for i := 0; i < n; i++ {
		if i != seedA && i != seedB {
			remaining = append(remaining, i)
		}
	}

	for len(remaining) > 0 {
		// Forced assignment: if one group can only just reach minChildren by
		// taking every remaining item, it must. With the usual
		// maxChildren+1 items this is the moment the other group holds
		// maxChildren-minChildren+1 items: giving it one more would leave
		// this group below minChildren.
		if g1Count+len(remaining) == minChildren {
			for _, idx := range remaining {
				group[idx] = 0
			}
			break
		}
		if g2Count+len(remaining) == minChildren {
			for _, idx := range remaining {
				group[idx] = 1
			}
			break
		}

		bestPos := 0
		bestPreference := -1.0
		for pos, idx := range remaining {
			d1 := geom.EnlargementVolume(g1Box, items[idx])
			d2 := geom.EnlargementVolume(g2Box, items[idx])
			preference := d1 - d2
			if preference < 0 {
				preference = -preference
			}
			if preference > bestPreference {
				bestPreference, bestPos = preference, pos
			}
		}
		idx := remaining[bestPos]
		remaining = append(remaining[:bestPos], remaining[bestPos+1:]...)

		d1 := geom.EnlargementVolume(g1Box, items[idx])
		d2 := geom.EnlargementVolume(g2Box, items[idx])
		assignToG1 := d1 < d2
		if d1 == d2 {
			if g1Box.Volume() != g2Box.Volume() {
				assignToG1 = g1Box.Volume() < g2Box.Volume()
			} else {
				assignToG1 = g1Count <= g2Count
			}
		}
		if assignToG1 {
			group[idx] = 0
			g1Box = g1Box.Add(items[idx])
			g1Count++
		} else {
			group[idx] = 1
			g2Box = g2Box.Add(items[idx])
			g2Count++
		}
	}
	return group, nil
}

// pickQuadraticSeeds picks the pair of items whose combined MBR wastes the
// most space: Volume(union) - Volume(a) - Volume(b).
func pickQuadraticSeeds(items []geom.Rectangle) (int, int) {
	bestA, bestB := 0, 1
	bestWaste := -1.0
	for i := 0; i < len(items); i++ {
		for j := i + 1; j < len(items); j++ {
			waste := items[i].Add(items[j]).Volume() - items[i].Volume() - items[j].Volume()
			if waste > bestWaste {
				bestWaste, bestA, bestB = waste, i, j
			}
		}
	}
	return bestA, bestB
}

// RStarSplitter implements the R*-tree split: choose the axis (and sort
// order along that axis) minimising total margin across all valid
// distributions, then along that axis pick the distribution minimising
// overlap volume between the two resulting groups, breaking ties by
// smaller combined volume.
type RStarSplitter struct{}

func (RStarSplitter) Split(items []geom.Rectangle, minChildren int) ([]int, error) {
	n := len(items)
	if n < 2 {
		return nil, fmt.Errorf("rtree: r* split needs at least 2 items, got %d", n)
	}
	if n-minChildren < minChildren {
		return nil, fmt.Errorf("rtree: r* split cannot satisfy minChildren=%d with n=%d items", minChildren, n)
	}
	dims := items[0].Dimensions()

	bestAxis := 0
	bestOrderByMax := false
	bestSum := 0.0
	first := true
	for axis := 0; axis < dims; axis++ {
		byMin := sortedIndices(items, axis, false)
		byMax := sortedIndices(items, axis, true)
		sumMin := marginSum(items, byMin, minChildren)
		sumMax := marginSum(items, byMax, minChildren)
		total := sumMin + sumMax
		if first || total < bestSum {
			first = false
			bestSum = total
			bestAxis = axis
			bestOrderByMax = sumMax < sumMin
		}
	}

	order := sortedIndices(items, bestAxis, bestOrderByMax)

	bestSplit := minChildren
	bestOverlap := -1.0
	bestCombinedVolume := 0.0
	for k := minChildren; k <= n-minChildren; k++ {
		g1Box := geom.Union(boxesAt(items, order[:k]))
		g2Box := geom.Union(boxesAt(items, order[k:]))
		overlap := geom.OverlapVolume(g1Box, g2Box)
		combined := g1Box.Volume() + g2Box.Volume()
		if bestOverlap < 0 || overlap < bestOverlap || (overlap == bestOverlap && combined < bestCombinedVolume) {
			bestOverlap, bestCombinedVolume, bestSplit = overlap, combined, k
		}
	}

	group := make([]int, n)
	for pos, idx := range order {
		if pos < bestSplit {
			group[idx] = 0
		} else {
			group[idx] = 1
		}
	}
	return group, nil
}

// sortedIndices returns item indices sorted ascending by the min (or max, if
// byMax) coordinate along axis.
func sortedIndices(items []geom.Rectangle, axis int, byMax bool) []int {
	idx := make([]int, len(items))
	for i := range idx {
		idx[i] = i
	}
	sort.SliceStable(idx, func(a, b int) bool {
		if byMax {
			return items[idx[a]].Max(axis) < items[idx[b]].Max(axis)
		}
		return items[idx[a]].Min(axis) < items[idx[b]].Min(axis)
	})
	return idx
}

// marginSum computes the sum of perimeters of the two-group MBRs across
// every valid split position of order (the R* "S" statistic for one axis
// and sort criterion).
func marginSum(items []geom.Rectangle, order []int, minChildren int) float64 {
	n := len(order)
	var sum float64
	for k := minChildren; k <= n-minChildren; k++ {
		g1Box := geom.Union(boxesAt(items, order[:k]))
		g2Box := geom.Union(boxesAt(items, order[k:]))
		sum += g1Box.Perimeter() + g2Box.Perimeter()
	}
	return sum
}

func boxesAt(items []geom.Rectangle, indices []int) []geom.Rectangle {
	boxes := make([]geom.Rectangle, len(indices))
	for i, idx := range indices {
		boxes[i] = items[idx]
	}
	return boxes
}
