package rtree

import (
	"sort"

	"github.com/gospatial/rtree/geom"
)

// Add returns a new Tree with value indexed under box, sharing every subtree
// of the receiver untouched by the insertion path.
func (t *Tree[T]) Add(value T, box geom.Rectangle) (*Tree[T], error) {
	if err := t.checkDimensions(box); err != nil {
		return nil, err
	}
	return t.addEntry(Entry[T]{Value: value, Geometry: box})
}

// AddAll returns a new Tree with every entry added, in order. It is
// equivalent to calling Add in a loop: each entry's dimensionality is
// checked before it is inserted, and the first mismatch stops the loop and
// returns the error.
func (t *Tree[T]) AddAll(entries []Entry[T]) (*Tree[T], error) {
	result := t
	for _, e := range entries {
		if err := result.checkDimensions(e.Geometry); err != nil {
			return nil, err
		}
		var err error
		result, err = result.addEntry(e)
		if err != nil {
			return nil, err
		}
	}
	return result, nil
}

func (t *Tree[T]) addEntry(entry Entry[T]) (*Tree[T], error) {
	if t.root == nil {
		return &Tree[T]{cfg: t.cfg, root: newLeaf([]Entry[T]{entry}), size: 1}, nil
	}
	guard := newReinsertGuard(t.cfg.IsStar())
	newRoot := t.insertFromRoot(guard, t.root, entry)
	return &Tree[T]{cfg: t.cfg, root: newRoot, size: t.size + 1}, nil
}

// insertFromRoot inserts entry into root, resolving any split into a new
// root, then drains any forced-reinsertion overflow by feeding each orphaned
// entry back through the same call — guard ensures no level reinserts more
// than once per top-level Add, so this always terminates.
func (t *Tree[T]) insertFromRoot(guard *reinsertGuard, root node[T], entry Entry[T]) node[T] {
	result := insert(t.cfg, guard, root, entry, nodeDepth[T](root)-1)
	newRoot := resolveSplit(result)
	for _, overflow := range result.overflow {
		sub := insert(t.cfg, guard, newRoot, overflow, nodeDepth[T](newRoot)-1)
		newRoot = resolveSplit(sub)
		// guard already marked every level this Add call may reinsert at,
		// so sub.overflow is always empty here; nothing more to drain.
	}
	return newRoot
}

func resolveSplit[T comparable](r addResult[T]) node[T] {
	if r.split == nil {
		return r.node
	}
	tracer().Debugf("root split: new root with 2 children")
	return newInner([]node[T]{r.node, r.split})
}

// addResult is what inserting a single entry into one node produces: the
// node's replacement, a sibling if the node had to split, and any entries
// pulled out for forced reinsertion (R*-tree only, and only ever raw leaf
// entries — forced reinsertion is scoped to leaf-level overflow, see
// reinsertGuard).
type addResult[T comparable] struct {
	node     node[T]
	split    node[T]
	overflow []Entry[T]
}

// reinsertGuard tracks which tree levels have already been through forced
// reinsertion during the current top-level Add call, per the R*-tree rule
// that a level may reinsert at most once per insertion to guarantee
// termination. Implementation note: this engine only ever triggers forced
// reinsertion at level 0 (leaf overflow) rather than at every level — doing
// it above the leaves would require reinserting whole subtrees rather than
// individual entries, which the original R* paper supports but which adds
// substantial machinery for comparatively little benefit over leaf-only
// reinsertion in practice.
type reinsertGuard struct {
	star bool
	used map[int]bool
}

func newReinsertGuard(star bool) *reinsertGuard {
	return &reinsertGuard{star: star, used: map[int]bool{}}
}

func (g *reinsertGuard) tryMark(level int) bool {
	if !g.star || g.used[level] {
		return false
	}
	g.used[level] = true
	return true
}

func insert[T comparable](ctx *Context, guard *reinsertGuard, n node[T], entry Entry[T], level int) addResult[T] {
	switch nd := n.(type) {
	case *leafNode[T]:
		return insertLeaf(ctx, guard, level, nd, entry)
	case *innerNode[T]:
		return insertInner(ctx, guard, level, nd, entry)
	}
	panic("rtree: insert called on unknown node type")
}

func insertLeaf[T comparable](ctx *Context, guard *reinsertGuard, level int, n *leafNode[T], entry Entry[T]) addResult[T] {
	entries := make([]Entry[T], 0, len(n.entries)+1)
	entries = append(entries, n.entries...)
	entries = append(entries, entry)
	if len(entries) <= ctx.MaxChildren() {
		return addResult[T]{node: newLeaf(entries)}
	}
	if guard.tryMark(level) {
		keep, removed := pickForcedReinsertion(entries, ctx.MaxChildren())
		tracer().Debugf("r*: forced reinsertion at level %d, %d entries evicted", level, len(removed))
		return addResult[T]{node: newLeaf(keep), overflow: removed}
	}
	groups, err := ctx.Splitter().Split(boxesOf(entries, func(e Entry[T]) geom.Rectangle { return e.Geometry }), ctx.MinChildren())
	assert(err == nil, "leaf splitter failed on overflow")
	g1, g2 := partitionEntries(entries, groups)
	return addResult[T]{node: newLeaf(g1), split: newLeaf(g2)}
}

func insertInner[T comparable](ctx *Context, guard *reinsertGuard, level int, n *innerNode[T], entry Entry[T]) addResult[T] {
	leafLevel := childrenAreLeaves(n)
	boxes := childBoxes(n)
	idx := ctx.Selector().Select(boxes, leafLevel, entry.Geometry)

	childResult := insert(ctx, guard, n.children[idx], entry, level-1)

	newChildren := make([]node[T], 0, len(n.children)+1)
	newChildren = append(newChildren, n.children[:idx]...)
	newChildren = append(newChildren, childResult.node)
	if childResult.split != nil {
		newChildren = append(newChildren, childResult.split)
	}
	newChildren = append(newChildren, n.children[idx+1:]...)

	if len(newChildren) <= ctx.MaxChildren() {
		return addResult[T]{node: newInner(newChildren), overflow: childResult.overflow}
	}
	groups, err := ctx.Splitter().Split(boxesOf(newChildren, func(c node[T]) geom.Rectangle { return c.mbr() }), ctx.MinChildren())
	assert(err == nil, "inner splitter failed on overflow")
	g1, g2 := partitionNodes(newChildren, groups)
	return addResult[T]{node: newInner(g1), split: newInner(g2), overflow: childResult.overflow}
}

// pickForcedReinsertion removes the p entries farthest from the centre of
// entries' combined MBR, for reinsertion from the root — the R*-tree
// ReInsert step. p = round(0.3 * maxChildren), at least 1.
func pickForcedReinsertion[T comparable](entries []Entry[T], maxChildren int) (keep, removed []Entry[T]) {
	p := int(roundHalfAwayFromZero(0.3 * float64(maxChildren)))
	if p < 1 {
		p = 1
	}
	if p >= len(entries) {
		p = len(entries) - 1
	}

	boxes := make([]geom.Rectangle, len(entries))
	for i, e := range entries {
		boxes[i] = e.Geometry
	}
	center := geom.Union(boxes).Center()

	order := make([]int, len(entries))
	for i := range order {
		order[i] = i
	}
	sort.Slice(order, func(a, b int) bool {
		return centerDistance(entries[order[a]].Geometry, center) > centerDistance(entries[order[b]].Geometry, center)
	})

	removedIdx := make(map[int]bool, p)
	for _, idx := range order[:p] {
		removedIdx[idx] = true
	}
	keep = make([]Entry[T], 0, len(entries)-p)
	removed = make([]Entry[T], 0, p)
	for i, e := range entries {
		if removedIdx[i] {
			removed = append(removed, e)
		} else {
			keep = append(keep, e)
		}
	}
	return keep, removed
}

// centerDistance returns the distance between box's own centre and center,
// the R* paper's ranking key for forced reinsertion.
func centerDistance(box geom.Rectangle, center []float64) float64 {
	return geom.NewPoint(box.Center()...).Distance(geom.NewPoint(center...))
}

func boxesOf[S any](items []S, box func(S) geom.Rectangle) []geom.Rectangle {
	boxes := make([]geom.Rectangle, len(items))
	for i, item := range items {
		boxes[i] = box(item)
	}
	return boxes
}

func partitionEntries[T comparable](entries []Entry[T], groups []int) (g1, g2 []Entry[T]) {
	for i, e := range entries {
		if groups[i] == 0 {
			g1 = append(g1, e)
		} else {
			g2 = append(g2, e)
		}
	}
	return g1, g2
}

func partitionNodes[T comparable](nodes []node[T], groups []int) (g1, g2 []node[T]) {
	for i, n := range nodes {
		if groups[i] == 0 {
			g1 = append(g1, n)
		} else {
			g2 = append(g2, n)
		}
	}
	return g1, g2
}

// Delete returns a new Tree with the entry matching both value and box
// removed, sharing every subtree untouched by the deletion path. The second
// return value reports whether a matching entry was found. Only the first
// matching entry is removed; further entries with the same value and box
// stay in the tree.
func (t *Tree[T]) Delete(value T, box geom.Rectangle) (*Tree[T], bool, error) {
	if err := t.checkDimensions(box); err != nil {
		return nil, false, err
	}
	if t.root == nil {
		return t, false, nil
	}
	target := Entry[T]{Value: value, Geometry: box}

	newRoot, removed, orphans := deleteFrom(t.cfg, t.root, target, true)
	if !removed {
		return t, false, nil
	}
	result := &Tree[T]{cfg: t.cfg, root: newRoot, size: t.size - 1}
	for _, orphan := range orphans {
		var err error
		result, err = result.addEntry(orphan)
		if err != nil {
			return nil, false, err
		}
	}
	// orphans were already counted in t.size; re-adding them must not
	// count them again.
	result.size = t.size - 1
	result.root = collapseRoot[T](result.root)
	return result, true, nil
}

// DeleteAll returns a new Tree with every entry in entries removed, if
// present. Entries not found in the tree are silently skipped.
func (t *Tree[T]) DeleteAll(entries []Entry[T]) (*Tree[T], error) {
	result := t
	for _, e := range entries {
		newResult, _, err := result.Delete(e.Value, e.Geometry)
		if err != nil {
			return nil, err
		}
		result = newResult
	}
	return result, nil
}

// deleteFrom removes target from within n, if present. It returns the
// replacement for n (nil if n's contents are now empty or were dissolved
// for reinsertion), whether target was found, and any entries that must be
// reinserted from the root because their containing node fell below
// minChildren. isRoot suppresses the minChildren check on n itself — the
// root is exempt from the minimum-occupancy invariant.
func deleteFrom[T comparable](ctx *Context, n node[T], target Entry[T], isRoot bool) (node[T], bool, []Entry[T]) {
	switch nd := n.(type) {
	case *leafNode[T]:
		return deleteFromLeaf(ctx, nd, target, isRoot)
	case *innerNode[T]:
		return deleteFromInner(ctx, nd, target, isRoot)
	}
	panic("rtree: deleteFrom called on unknown node type")
}

func deleteFromLeaf[T comparable](ctx *Context, n *leafNode[T], target Entry[T], isRoot bool) (node[T], bool, []Entry[T]) {
	for i, e := range n.entries {
		if !e.equal(target) {
			continue
		}
		remaining := make([]Entry[T], 0, len(n.entries)-1)
		remaining = append(remaining, n.entries[:i]...)
		remaining = append(remaining, n.entries[i+1:]...)
		if len(remaining) == 0 {
			return nil, true, nil
		}
		if !isRoot && len(remaining) < ctx.MinChildren() {
			return nil, true, remaining
		}
		return newLeaf(remaining), true, nil
	}
	return n, false, nil
}

func deleteFromInner[T comparable](ctx *Context, n *innerNode[T], target Entry[T], isRoot bool) (node[T], bool, []Entry[T]) {
	for i, child := range n.children {
		if !child.mbr().Intersects(target.Geometry) {
			continue
		}
		newChild, removed, childOrphans := deleteFrom(ctx, child, target, false)
		if !removed {
			continue
		}

		newChildren := make([]node[T], 0, len(n.children))
		newChildren = append(newChildren, n.children[:i]...)
		if newChild != nil {
			newChildren = append(newChildren, newChild)
		}
		newChildren = append(newChildren, n.children[i+1:]...)

		if len(newChildren) == 0 {
			return nil, true, childOrphans
		}
		if !isRoot && len(newChildren) < ctx.MinChildren() {
			orphans := append([]Entry[T]{}, childOrphans...)
			for _, c := range newChildren {
				orphans = append(orphans, flattenEntries[T](c)...)
			}
			tracer().Debugf("delete: node underflowed, dissolving %d orphan entries for reinsertion", len(orphans))
			return nil, true, orphans
		}
		return newInner(newChildren), true, childOrphans
	}
	return n, false, nil
}

// collapseRoot shortens the tree by replacing a chain of single-child inner
// nodes at the root with the lone descendant that actually branches (or a
// leaf), so depth tracks real fan-out rather than leftover structure from
// deletions.
func collapseRoot[T comparable](n node[T]) node[T] {
	for {
		inner, ok := n.(*innerNode[T])
		if !ok || len(inner.children) != 1 {
			return n
		}
		n = inner.children[0]
	}
}
