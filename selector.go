package rtree

import "github.com/gospatial/rtree/geom"

// Selector chooses which child of a non-leaf node to descend into when
// inserting an entry whose minimum bounding rectangle is entry. children
// gives the MBRs of the node's children in order; leafLevel reports whether
// those children are themselves leaves (as opposed to inner nodes) — the R*
// selector needs this to decide which cost function applies. Select returns
// the index of the chosen child.
type Selector interface {
	Select(children []geom.Rectangle, leafLevel bool, entry geom.Rectangle) int
}

// MinimalVolumeIncreaseSelector is the classic Guttman ChooseLeaf rule: pick
// the child whose MBR would enlarge the least to accommodate entry, breaking
// ties by smaller current volume, then by insertion order (first found).
type MinimalVolumeIncreaseSelector struct{}

func (MinimalVolumeIncreaseSelector) Select(children []geom.Rectangle, _ bool, entry geom.Rectangle) int {
	return selectMinimalVolumeIncrease(children, entry)
}

func selectMinimalVolumeIncrease(children []geom.Rectangle, entry geom.Rectangle) int {
	best := 0
	bestEnlargement := geom.EnlargementVolume(children[0], entry)
	bestVolume := children[0].Volume()
	for i := 1; i < len(children); i++ {
		enlargement := geom.EnlargementVolume(children[i], entry)
		if enlargement < bestEnlargement {
			best, bestEnlargement, bestVolume = i, enlargement, children[i].Volume()
			continue
		}
		if enlargement == bestEnlargement {
			volume := children[i].Volume()
			if volume < bestVolume {
				best, bestVolume = i, volume
			}
		}
	}
	return best
}

// RStarSelector implements the R*-tree ChooseSubtree rule: at the leaf
// level, minimise the increase in total pairwise overlap with siblings that
// would result from enlarging a child to cover entry (ties broken by
// minimal volume enlargement, then by smaller current volume); one level up
// and above, fall back to minimal-volume-increase, since overlap
// minimisation is only worth its extra cost where it directly affects query
// fan-out at the leaves.
type RStarSelector struct{}

func (RStarSelector) Select(children []geom.Rectangle, leafLevel bool, entry geom.Rectangle) int {
	if !leafLevel {
		return selectMinimalVolumeIncrease(children, entry)
	}
	best := 0
	bestOverlapDelta := overlapEnlargement(children, 0, entry)
	bestVolumeEnlargement := geom.EnlargementVolume(children[0], entry)
	bestVolume := children[0].Volume()
	for i := 1; i < len(children); i++ {
		overlapDelta := overlapEnlargement(children, i, entry)
		if overlapDelta < bestOverlapDelta {
			best = i
			bestOverlapDelta = overlapDelta
			bestVolumeEnlargement = geom.EnlargementVolume(children[i], entry)
			bestVolume = children[i].Volume()
			continue
		}
		if overlapDelta == bestOverlapDelta {
			volumeEnlargement := geom.EnlargementVolume(children[i], entry)
			if volumeEnlargement < bestVolumeEnlargement {
				best, bestVolumeEnlargement, bestVolume = i, volumeEnlargement, children[i].Volume()
				continue
			}
			if volumeEnlargement == bestVolumeEnlargement {
				volume := children[i].Volume()
				if volume < bestVolume {
					best, bestVolume = i, volume
				}
			}
		}
	}
	return best
}

// overlapEnlargement returns the increase in total pairwise MBR overlap
// between children[index] and every other sibling that would result from
// enlarging children[index] to also cover entry.
func overlapEnlargement(children []geom.Rectangle, index int, entry geom.Rectangle) float64 {
	enlarged := children[index].Add(entry)
	var before, after float64
	for i, sibling := range children {
		if i == index {
			continue
		}
		before += geom.OverlapVolume(children[index], sibling)
		after += geom.OverlapVolume(enlarged, sibling)
	}
	return after - before
}
