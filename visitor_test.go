package rtree

import (
	"bytes"
	"testing"

	"github.com/gospatial/rtree/geom"
)

type countingVisitor struct {
	leaves    int
	nonLeaves int
	entries   int
}

func (v *countingVisitor) OnLeaf(_ geom.Rectangle, entries []Entry[int], _ int) {
	v.leaves++
	v.entries += len(entries)
}

func (v *countingVisitor) OnNonLeaf(_ geom.Rectangle, _ int, _ int) {
	v.nonLeaves++
}

func TestVisitCountsEveryEntryExactlyOnce(t *testing.T) {
	setupTracing(t)
	tree, _ := New[int](NewBuilder().MaxChildren(4).MinChildren(2))
	for i := 0; i < 25; i++ {
		var err error
		tree, err = tree.Add(i, point(float64(i), float64(i)))
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	}
	v := &countingVisitor{}
	tree.Visit(v)
	if v.entries != 25 {
		t.Errorf("expected 25 entries visited, got %d", v.entries)
	}
	if v.leaves == 0 {
		t.Errorf("expected at least one leaf visited")
	}
	if tree.Depth() > 1 && v.nonLeaves == 0 {
		t.Errorf("expected at least one inner node visited for a multi-level tree")
	}
}

func TestVisitOnEmptyTreeVisitsNothing(t *testing.T) {
	setupTracing(t)
	tree, _ := New[int](NewBuilder())
	v := &countingVisitor{}
	tree.Visit(v)
	if v.leaves != 0 || v.nonLeaves != 0 {
		t.Errorf("expected no nodes visited on an empty tree")
	}
}

func TestDumpWritesWithoutPanicking(t *testing.T) {
	setupTracing(t)
	tree, _ := New[int](NewBuilder())
	tree, _ = tree.Add(1, point(0, 0))
	tree, _ = tree.Add(2, point(5, 5))
	var buf bytes.Buffer
	tree.Dump(&buf)
	if buf.Len() == 0 {
		t.Errorf("expected Dump to write output")
	}
}

func TestDumpOnEmptyTree(t *testing.T) {
	setupTracing(t)
	tree, _ := New[int](NewBuilder())
	var buf bytes.Buffer
	tree.Dump(&buf)
	if buf.Len() == 0 {
		t.Errorf("expected Dump to note the tree is empty")
	}
}
