package rtree

import (
	"testing"

	"github.com/gospatial/rtree/geom"
)

func buildGridTree(t *testing.T, n int) *Tree[int] {
	tree, err := New[int](NewBuilder().MaxChildren(4).MinChildren(2))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	for i := 0; i < n; i++ {
		tree, err = tree.Add(i, point(float64(i), float64(i)))
		if err != nil {
			t.Fatalf("unexpected error adding %d: %v", i, err)
		}
	}
	return tree
}

func TestSearchIntersectsFindsOnlyOverlapping(t *testing.T) {
	setupTracing(t)
	tree := buildGridTree(t, 20)
	query := rect([]float64{4, 4}, []float64{8, 8})
	found := map[int]bool{}
	for e := range tree.SearchIntersects(query) {
		found[e.Value] = true
	}
	for i := 4; i <= 8; i++ {
		if !found[i] {
			t.Errorf("expected to find point %d within query box", i)
		}
	}
	if found[3] || found[9] {
		t.Errorf("expected points outside the query box to be excluded")
	}
}

func TestSearchWithinFindsNearbyEntries(t *testing.T) {
	setupTracing(t)
	tree := buildGridTree(t, 20)
	query := point(10, 10)
	found := map[int]bool{}
	for e := range tree.SearchWithin(query, 0.01) {
		found[e.Value] = true
	}
	if !found[10] {
		t.Errorf("expected to find the exact point at distance 0")
	}
	if found[9] || found[11] {
		t.Errorf("expected neighbours at distance > 0.01 to be excluded")
	}
}

func TestSearchEarlyBreakStopsTraversal(t *testing.T) {
	setupTracing(t)
	tree := buildGridTree(t, 50)
	count := 0
	for range tree.Search(func(_ geom.Rectangle) bool { return true }) {
		count++
		if count == 5 {
			break
		}
	}
	if count != 5 {
		t.Errorf("expected to stop after 5 entries, got %d", count)
	}
}

func TestSearchOnEmptyTreeYieldsNothing(t *testing.T) {
	setupTracing(t)
	tree, _ := New[int](NewBuilder())
	count := 0
	for range tree.SearchIntersects(point(0, 0)) {
		count++
	}
	if count != 0 {
		t.Errorf("expected no results on empty tree, got %d", count)
	}
}
