package view

import (
	"fmt"

	"github.com/ritzau/notegraph/pkg/graph"
)

// DagOrientation is the layout direction of a graph drawn as a DAG
type DagOrientation string

const (
	DagTopDown   DagOrientation = "td"
	DagBottomUp  DagOrientation = "bu"
	DagLeftRight DagOrientation = "lr"
	DagRightLeft DagOrientation = "rl"
	DagZOut      DagOrientation = "zout"
	DagZIn       DagOrientation = "zin"
	DagRadialOut DagOrientation = "radialout"
	DagRadialIn  DagOrientation = "radialin"
	DagNone      DagOrientation = "null" // Force layout, no DAG
)

// DagOrientations lists every orientation in menu order
var DagOrientations = []DagOrientation{
	DagTopDown, DagBottomUp, DagLeftRight, DagRightLeft,
	DagZOut, DagZIn, DagRadialOut, DagRadialIn, DagNone,
}

// ParseDagOrientation converts a setting value. An empty value means DagNone.
func ParseDagOrientation(s string) (DagOrientation, error) {
	if s == "" {
		return DagNone, nil
	}
	for _, o := range DagOrientations {
		if string(o) == s {
			return o, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownDagOrientation, s)
}

// ResolveDagOrientation returns the orientation to lay g out with. A DAG
// layout needs an acyclic graph, so a cyclic g gets DagNone and downgraded
// is true.
func ResolveDagOrientation(g *graph.Graph, requested DagOrientation) (orientation DagOrientation, downgraded bool) {
	if requested == DagNone || requested == "" {
		return DagNone, false
	}
	if !g.IsAcyclic() {
		return DagNone, true
	}
	return requested, false
}
