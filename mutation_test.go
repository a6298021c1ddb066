package rtree

import (
	"fmt"
	"testing"

	"github.com/gospatial/rtree/geom"
)

func point(x, y float64) geom.Rectangle {
	return geom.NewPoint(x, y)
}

func collectValues[T comparable](tree *Tree[T]) map[T]int {
	out := map[T]int{}
	for e := range tree.Entries() {
		out[e.Value]++
	}
	return out
}

func TestAddSingleEntryBuildsOneLeaf(t *testing.T) {
	setupTracing(t)
	tree, err := New[string](NewBuilder())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	tree, err = tree.Add("a", point(1, 1))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if tree.Size() != 1 {
		t.Errorf("expected size 1, got %d", tree.Size())
	}
	if tree.Depth() != 1 {
		t.Errorf("expected depth 1, got %d", tree.Depth())
	}
}

func TestAddRejectsWrongDimensions(t *testing.T) {
	setupTracing(t)
	tree, _ := New[string](NewBuilder().Dimensions(2))
	_, err := tree.Add("a", geom.NewPoint(1, 1, 1))
	if err == nil {
		t.Fatalf("expected dimension mismatch error")
	}
}

func TestAddBeyondCapacityTriggersSplit(t *testing.T) {
	setupTracing(t)
	tree, _ := New[int](NewBuilder().MaxChildren(4).MinChildren(2))
	for i := 0; i < 9; i++ {
		var err error
		tree, err = tree.Add(i, point(float64(i), float64(i)))
		if err != nil {
			t.Fatalf("unexpected error adding %d: %v", i, err)
		}
	}
	if tree.Size() != 9 {
		t.Fatalf("expected size 9, got %d", tree.Size())
	}
	if tree.Depth() <= 1 {
		t.Fatalf("expected tree to have split into multiple levels, depth=%d", tree.Depth())
	}
	values := collectValues(tree)
	if len(values) != 9 {
		t.Fatalf("expected 9 distinct values retrievable, got %d", len(values))
	}
	for i := 0; i < 9; i++ {
		if values[i] != 1 {
			t.Errorf("expected value %d to appear exactly once, got %d", i, values[i])
		}
	}
}

func TestAddDoesNotMutateOriginalTree(t *testing.T) {
	setupTracing(t)
	t1, _ := New[string](NewBuilder())
	t1, _ = t1.Add("a", point(0, 0))
	t2, err := t1.Add("b", point(1, 1))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if t1.Size() != 1 {
		t.Errorf("expected original tree untouched, size=%d", t1.Size())
	}
	if t2.Size() != 2 {
		t.Errorf("expected new tree to have 2 entries, got %d", t2.Size())
	}
}

func TestAddAllThenDeleteAll(t *testing.T) {
	setupTracing(t)
	tree, _ := New[int](NewBuilder().MaxChildren(4).MinChildren(2))
	entries := make([]Entry[int], 0, 20)
	for i := 0; i < 20; i++ {
		entries = append(entries, Entry[int]{Value: i, Geometry: point(float64(i), float64(-i))})
	}
	tree, err := tree.AddAll(entries)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if tree.Size() != 20 {
		t.Fatalf("expected size 20, got %d", tree.Size())
	}

	tree, err = tree.DeleteAll(entries[:15])
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if tree.Size() != 5 {
		t.Fatalf("expected size 5 after deleting 15, got %d", tree.Size())
	}
	values := collectValues(tree)
	for i := 15; i < 20; i++ {
		if values[i] != 1 {
			t.Errorf("expected remaining value %d present, got count %d", i, values[i])
		}
	}
}

func TestDeleteMissingEntryReportsNotFound(t *testing.T) {
	setupTracing(t)
	tree, _ := New[string](NewBuilder())
	tree, _ = tree.Add("a", point(0, 0))
	result, removed, err := tree.Delete("b", point(5, 5))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if removed {
		t.Errorf("expected removed=false for missing entry")
	}
	if result.Size() != 1 {
		t.Errorf("expected unchanged tree, size=%d", result.Size())
	}
}

func TestDeleteFromEmptyTree(t *testing.T) {
	setupTracing(t)
	tree, _ := New[string](NewBuilder())
	result, removed, err := tree.Delete("a", point(0, 0))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if removed {
		t.Errorf("expected removed=false for empty tree")
	}
	if result != tree {
		t.Errorf("expected same tree value returned for no-op delete")
	}
}

func TestDeleteLastEntryEmptiesTree(t *testing.T) {
	setupTracing(t)
	tree, _ := New[string](NewBuilder())
	tree, _ = tree.Add("a", point(0, 0))
	tree, removed, err := tree.Delete("a", point(0, 0))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !removed {
		t.Fatalf("expected removed=true")
	}
	if !tree.IsEmpty() {
		t.Errorf("expected tree to be empty, size=%d", tree.Size())
	}
	if _, ok := tree.MBR(); ok {
		t.Errorf("expected no MBR for empty tree")
	}
}

func TestDeleteTriggersUnderflowReinsertion(t *testing.T) {
	setupTracing(t)
	tree, _ := New[int](NewBuilder().MaxChildren(4).MinChildren(2))
	for i := 0; i < 30; i++ {
		var err error
		tree, err = tree.Add(i, point(float64(i), float64(i)))
		if err != nil {
			t.Fatalf("unexpected error adding %d: %v", i, err)
		}
	}
	// delete most entries, which should force repeated underflow handling
	for i := 0; i < 27; i++ {
		var removed bool
		var err error
		tree, removed, err = tree.Delete(i, point(float64(i), float64(i)))
		if err != nil {
			t.Fatalf("unexpected error deleting %d: %v", i, err)
		}
		if !removed {
			t.Fatalf("expected to remove entry %d", i)
		}
	}
	if tree.Size() != 3 {
		t.Fatalf("expected size 3 after deletions, got %d", tree.Size())
	}
	values := collectValues(tree)
	for i := 27; i < 30; i++ {
		if values[i] != 1 {
			t.Errorf("expected surviving value %d, got count %d", i, values[i])
		}
	}
}

func TestStarBuilderInsertionProducesValidTree(t *testing.T) {
	setupTracing(t)
	tree, _ := New[int](NewBuilder().Star().MaxChildren(4).MinChildren(2))
	for i := 0; i < 40; i++ {
		var err error
		tree, err = tree.Add(i, point(float64(i%7), float64(i%5)))
		if err != nil {
			t.Fatalf("unexpected error adding %d: %v", i, err)
		}
	}
	if tree.Size() != 40 {
		t.Fatalf("expected size 40, got %d", tree.Size())
	}
	values := collectValues(tree)
	if len(values) != 40 {
		t.Fatalf("expected 40 distinct entries retrievable after star insertion with forced reinsertion, got %d", len(values))
	}
}

func TestCollapseRootShortensTreeAfterDeletes(t *testing.T) {
	setupTracing(t)
	tree, _ := New[int](NewBuilder().MaxChildren(3).MinChildren(2))
	for i := 0; i < 12; i++ {
		var err error
		tree, err = tree.Add(i, point(float64(i), float64(i)))
		if err != nil {
			t.Fatalf(fmt.Sprintf("unexpected error: %v", err))
		}
	}
	deepDepth := tree.Depth()
	for i := 0; i < 10; i++ {
		var err error
		tree, _, err = tree.Delete(i, point(float64(i), float64(i)))
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	}
	if tree.Depth() > deepDepth {
		t.Errorf("expected depth to not grow after deletes, before=%d after=%d", deepDepth, tree.Depth())
	}
	if tree.Size() != 2 {
		t.Fatalf("expected size 2, got %d", tree.Size())
	}
}
