package view

import (
	"github.com/ritzau/notegraph/pkg/graph"
)

// Global derives the global graph: attachment and search filters first, then
// the orphan filter, so nodes orphaned by the first pass can be hidden.
func Global(base *graph.Graph, settings FilterSettings, result SearchResult) *graph.Graph {
	return base.
		Filter(And(
			AttachmentPredicate(settings.ShowAttachments),
			SearchPredicate(settings.SearchQuery, result),
		), nil).
		Filter(OrphanPredicate(settings.ShowOrphans), nil)
}

// Local derives the local graph around centerPath. The traversal picks the
// neighborhood, then the global filters are applied with the center always
// kept. An empty or unknown center yields an empty graph.
func Local(base *graph.Graph, centerPath string, settings LocalFilterSettings, result SearchResult) *graph.Graph {
	if centerPath == "" || base.NodeByPath(centerPath) == nil {
		return graph.Empty()
	}

	nb := graph.Traverse(base, centerPath, settings.Depth, settings.LinkType)
	visited := nb.NodeIDs()
	kept := make(map[string]bool, len(nb.Links))
	for _, link := range nb.Links {
		kept[graph.LinkKey(link.Source.ID, link.Target.ID)] = true
	}

	return base.
		Filter(
			ForceVisible(centerPath, func(n *graph.Node) bool { return visited[n.ID] }),
			func(l *graph.Link) bool { return kept[graph.LinkKey(l.Source.ID, l.Target.ID)] },
		).
		Filter(ForceVisible(centerPath, And(
			AttachmentPredicate(settings.ShowAttachments),
			SearchPredicate(settings.SearchQuery, result),
		)), nil).
		Filter(ForceVisible(centerPath, OrphanPredicate(settings.ShowOrphans)), nil)
}

// ApplyNodeLimit replaces a graph with more than maxNodes nodes by an empty one
// and reports whether it did. A limit of zero or less disables the limit.
func ApplyNodeLimit(g *graph.Graph, maxNodes int) (*graph.Graph, bool) {
	if maxNodes > 0 && g.NodeCount() > maxNodes {
		return graph.Empty(), true
	}
	return g, false
}
