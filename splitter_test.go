package rtree

import (
	"testing"

	"github.com/gospatial/rtree/geom"
)

func TestQuadraticSplitterProducesTwoNonEmptyGroups(t *testing.T) {
	setupTracing(t)
	boxes := []geom.Rectangle{
		rect([]float64{0, 0}, []float64{1, 1}),
		rect([]float64{0, 1}, []float64{1, 2}),
		rect([]float64{20, 20}, []float64{21, 21}),
		rect([]float64{20, 21}, []float64{21, 22}),
		rect([]float64{20, 22}, []float64{21, 23}),
	}
	groups, err := QuadraticSplitter{}.Split(boxes, 2)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	counts := map[int]int{}
	for _, g := range groups {
		counts[g]++
	}
	if counts[0] < 2 || counts[1] < 2 {
		t.Fatalf("expected both groups to satisfy minChildren=2, got counts %v", counts)
	}
	// the two well-separated clusters should land in different groups
	if groups[0] == groups[2] {
		t.Errorf("expected the two far-apart clusters to be split into different groups")
	}
}

func TestQuadraticSplitterRejectsTooFewItems(t *testing.T) {
	setupTracing(t)
	_, err := QuadraticSplitter{}.Split([]geom.Rectangle{rect([]float64{0}, []float64{1})}, 2)
	if err == nil {
		t.Fatalf("expected error for single-item split")
	}
}

func TestRStarSplitterProducesValidGroupSizes(t *testing.T) {
	setupTracing(t)
	boxes := []geom.Rectangle{
		rect([]float64{0, 0}, []float64{1, 1}),
		rect([]float64{2, 0}, []float64{3, 1}),
		rect([]float64{4, 0}, []float64{5, 1}),
		rect([]float64{6, 0}, []float64{7, 1}),
		rect([]float64{8, 0}, []float64{9, 1}),
	}
	groups, err := RStarSplitter{}.Split(boxes, 2)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	counts := map[int]int{}
	for _, g := range groups {
		counts[g]++
	}
	if counts[0] < 2 || counts[1] < 2 {
		t.Fatalf("expected both groups >= minChildren=2, got %v", counts)
	}
	if counts[0]+counts[1] != len(boxes) {
		t.Fatalf("expected every item assigned, got %v", counts)
	}
}

func TestRStarSplitterRejectsUnsatisfiableMinChildren(t *testing.T) {
	setupTracing(t)
	boxes := []geom.Rectangle{
		rect([]float64{0, 0}, []float64{1, 1}),
		rect([]float64{1, 0}, []float64{2, 1}),
		rect([]float64{2, 0}, []float64{3, 1}),
	}
	_, err := RStarSplitter{}.Split(boxes, 2)
	if err == nil {
		t.Fatalf("expected error: 3 items cannot form two groups of >= 2")
	}
}
