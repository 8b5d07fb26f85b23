package graph

import (
	"slices"
	"testing"

	"gonum.org/v1/gonum/graph/topo"
)

func TestDirected(t *testing.T) {
	g := newTestGraph(t, LinkMap{
		"A.md": {"B.md", "A.md"},
		"B.md": {"C.md"},
	}, "A.md", "B.md", "C.md")

	view := g.Directed()

	if got := view.Nodes().Len(); got != 3 {
		t.Errorf("Expected 3 nodes, got %d", got)
	}
	// The self link on A has no gonum edge
	if got := view.Edges().Len(); got != 2 {
		t.Errorf("Expected 2 edges, got %d", got)
	}
	if !view.HasEdgeFromTo(0, 1) {
		t.Error("Expected edge A -> B")
	}
	if view.HasEdgeFromTo(1, 0) {
		t.Error("Did not expect edge B -> A")
	}
	if node := view.NodeFor(2); node == nil || node.ID != "C.md" {
		t.Errorf("Expected gonum node 2 to be C.md, got %v", node)
	}
	if view.NodeFor(7) != nil {
		t.Error("Expected nil for an id outside the graph")
	}
}

func TestIsAcyclicAgreesWithTopoSort(t *testing.T) {
	tests := []struct {
		name    string
		linkMap LinkMap
	}{
		{"chain", LinkMap{"A.md": {"B.md"}, "B.md": {"C.md"}}},
		{"triangle", LinkMap{"A.md": {"B.md"}, "B.md": {"C.md"}, "C.md": {"A.md"}}},
		{"diamond", LinkMap{"A.md": {"B.md", "C.md"}, "B.md": {"D.md"}, "C.md": {"D.md"}}},
		{"mutual", LinkMap{"A.md": {"B.md"}, "B.md": {"A.md"}}},
		{"disconnected loop", LinkMap{"C.md": {"D.md"}, "D.md": {"C.md"}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g := newTestGraph(t, tt.linkMap, "A.md", "B.md", "C.md", "D.md")

			_, err := topo.Sort(g.Directed())
			sortable := err == nil

			if g.IsAcyclic() != sortable {
				t.Errorf("IsAcyclic() = %v but topological sort succeeded = %v", g.IsAcyclic(), sortable)
			}
		})
	}
}

func TestIsForest(t *testing.T) {
	tests := []struct {
		name    string
		linkMap LinkMap
		want    bool
	}{
		{"no links", LinkMap{}, true},
		{"chain", LinkMap{"A.md": {"B.md"}, "B.md": {"C.md"}}, true},
		{"star", LinkMap{"A.md": {"B.md", "C.md", "D.md"}}, true},
		{"triangle", LinkMap{"A.md": {"B.md"}, "B.md": {"C.md"}, "C.md": {"A.md"}}, false},
		{"diamond", LinkMap{"A.md": {"B.md", "C.md"}, "B.md": {"D.md"}, "C.md": {"D.md"}}, false},
		{"mutual", LinkMap{"A.md": {"B.md"}, "B.md": {"A.md"}}, false},
		{"self link", LinkMap{"A.md": {"A.md"}}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g := newTestGraph(t, tt.linkMap, "A.md", "B.md", "C.md", "D.md")
			if got := g.IsForest(); got != tt.want {
				t.Errorf("IsForest() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestIsAcyclicAndIsForestDiffer(t *testing.T) {
	// Converging links are a cycle only when direction is ignored
	g := newTestGraph(t, LinkMap{
		"A.md": {"B.md", "C.md"},
		"B.md": {"D.md"},
		"C.md": {"D.md"},
	}, "A.md", "B.md", "C.md", "D.md")

	if !g.IsAcyclic() {
		t.Error("Expected diamond to be acyclic following direction")
	}
	if g.IsForest() {
		t.Error("Expected diamond not to be a forest")
	}
}

func TestShortestPath(t *testing.T) {
	g := newTestGraph(t, LinkMap{
		"A.md": {"B.md"},
		"B.md": {"C.md"},
		"D.md": {"C.md"},
	}, "A.md", "B.md", "C.md", "D.md", "E.md")

	tests := []struct {
		name     string
		from, to string
		want     []string
	}{
		{"against link direction", "D.md", "A.md", []string{"D.md", "C.md", "B.md", "A.md"}},
		{"same node", "B.md", "B.md", []string{"B.md"}},
		{"adjacent", "A.md", "B.md", []string{"A.md", "B.md"}},
		{"unreachable", "A.md", "E.md", nil},
		{"unknown", "A.md", "nope.md", nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := g.ShortestPath(tt.from, tt.to)

			got := make([]string, 0, len(path))
			for _, n := range path {
				got = append(got, n.ID)
			}
			if tt.want == nil {
				if path != nil {
					t.Errorf("Expected no path, got %v", got)
				}
				return
			}
			if !slices.Equal(got, tt.want) {
				t.Errorf("Expected path %v, got %v", tt.want, got)
			}
		})
	}
}
