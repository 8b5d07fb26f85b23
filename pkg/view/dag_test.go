package view

import (
	"errors"
	"testing"

	"github.com/ritzau/notegraph/pkg/graph"
)

func TestParseDagOrientation(t *testing.T) {
	for _, o := range DagOrientations {
		got, err := ParseDagOrientation(string(o))
		if err != nil || got != o {
			t.Errorf("ParseDagOrientation(%q) = (%q, %v)", o, got, err)
		}
	}

	if got, err := ParseDagOrientation(""); err != nil || got != DagNone {
		t.Errorf("Expected empty value to mean DagNone, got (%q, %v)", got, err)
	}

	if _, err := ParseDagOrientation("diagonal"); !errors.Is(err, ErrUnknownDagOrientation) {
		t.Errorf("Expected ErrUnknownDagOrientation, got %v", err)
	}
}

func TestResolveDagOrientation(t *testing.T) {
	acyclic := newGraph(t, graph.LinkMap{"A.md": {"B.md"}, "B.md": {"C.md"}}, "A.md", "B.md", "C.md")
	cyclic := newGraph(t, graph.LinkMap{"A.md": {"B.md"}, "B.md": {"A.md"}}, "A.md", "B.md")

	tests := []struct {
		name           string
		g              *graph.Graph
		requested      DagOrientation
		want           DagOrientation
		wantDowngraded bool
	}{
		{"acyclic keeps orientation", acyclic, DagLeftRight, DagLeftRight, false},
		{"cyclic falls back", cyclic, DagTopDown, DagNone, true},
		{"none stays none", cyclic, DagNone, DagNone, false},
		{"empty graph", graph.Empty(), DagRadialOut, DagRadialOut, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, downgraded := ResolveDagOrientation(tt.g, tt.requested)
			if got != tt.want || downgraded != tt.wantDowngraded {
				t.Errorf("ResolveDagOrientation() = (%q, %v), want (%q, %v)", got, downgraded, tt.want, tt.wantDowngraded)
			}
		})
	}
}
