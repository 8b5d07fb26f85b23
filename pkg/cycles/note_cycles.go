// Package cycles reports groups of notes that link to each other in a loop.
package cycles

import (
	"sort"

	"github.com/ritzau/notegraph/pkg/graph"
)

// NoteCycle is a set of notes where every note can reach every other by
// following links in their direction
type NoteCycle struct {
	Paths []string `json:"paths"` // Sorted vault paths in the cycle
}

// FindNoteCycles returns the link cycles of g. A note of g that links to
// itself, either in g or in resolved, is reported as a cycle of one. Base
// graphs drop self links, so resolved is where they are found for a vault.
// Cycles are ordered by their first path.
func FindNoteCycles(g *graph.Graph, resolved graph.ResolvedLinkCache) []NoteCycle {
	view := g.Directed()

	cycles := make([]NoteCycle, 0)
	for _, scc := range StronglyConnected(view) {
		paths := make([]string, 0, len(scc))
		for _, id := range scc {
			if node := view.NodeFor(id); node != nil {
				paths = append(paths, node.Path)
			}
		}
		sort.Strings(paths)
		cycles = append(cycles, NoteCycle{Paths: paths})
	}

	// Self links never reach gonum, pick them up directly
	selfLinked := make(map[string]bool)
	for _, link := range g.Links() {
		if link.Source == link.Target {
			selfLinked[link.Source.Path] = true
		}
	}
	for source, targets := range resolved {
		if _, ok := targets[source]; ok && g.NodeByPath(source) != nil {
			selfLinked[source] = true
		}
	}
	for p := range selfLinked {
		cycles = append(cycles, NoteCycle{Paths: []string{p}})
	}

	sort.Slice(cycles, func(i, j int) bool {
		return cycles[i].Paths[0] < cycles[j].Paths[0]
	})
	return cycles
}
