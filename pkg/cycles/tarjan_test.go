package cycles

import (
	"slices"
	"testing"

	"gonum.org/v1/gonum/graph/simple"
)

func TestStronglyConnected(t *testing.T) {
	g := simple.NewDirectedGraph()
	for id := int64(0); id < 6; id++ {
		g.AddNode(simple.Node(id))
	}
	// 0 <-> 1, 2 -> 3 -> 4 -> 2, 5 alone
	for _, e := range [][2]int64{{0, 1}, {1, 0}, {2, 3}, {3, 4}, {4, 2}, {1, 2}} {
		g.SetEdge(g.NewEdge(simple.Node(e[0]), simple.Node(e[1])))
	}

	sccs := StronglyConnected(g)
	if len(sccs) != 2 {
		t.Fatalf("Expected 2 components, got %d: %v", len(sccs), sccs)
	}

	slices.SortFunc(sccs, func(a, b []int64) int { return int(a[0] - b[0]) })
	if !slices.Equal(sccs[0], []int64{0, 1}) {
		t.Errorf("Expected [0 1], got %v", sccs[0])
	}
	if !slices.Equal(sccs[1], []int64{2, 3, 4}) {
		t.Errorf("Expected [2 3 4], got %v", sccs[1])
	}
}

func TestStronglyConnected_Empty(t *testing.T) {
	if sccs := StronglyConnected(simple.NewDirectedGraph()); len(sccs) != 0 {
		t.Errorf("Expected no components, got %v", sccs)
	}
}
