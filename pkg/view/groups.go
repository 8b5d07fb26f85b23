package view

import (
	"strings"

	"github.com/ritzau/notegraph/pkg/graph"
)

// Group colors the nodes matching Query
type Group struct {
	Query string `json:"query"`
	Color string `json:"color"`
}

// SanitizeGroupQuery trims a group query and drops a leading "./"
func SanitizeGroupQuery(query string) string {
	query = strings.TrimSpace(query)
	return strings.TrimPrefix(query, "./")
}

// GroupMatches reports whether node lies under the path prefix query
func GroupMatches(query string, node *graph.Node) bool {
	return strings.HasPrefix(node.Path, SanitizeGroupQuery(query))
}

// GroupColors maps node ids of g to the color of the last group matching
// them. Blank queries are skipped. Matches come from searcher when it is
// set, otherwise groups are treated as path prefixes.
func GroupColors(g *graph.Graph, groups []Group, searcher Searcher) map[string]string {
	colors := make(map[string]string)

	for _, group := range groups {
		query := SanitizeGroupQuery(group.Query)
		if query == "" {
			continue
		}

		if searcher != nil {
			for _, p := range searcher.Search(query) {
				if node := g.NodeByPath(p); node != nil {
					colors[node.ID] = group.Color
				}
			}
			continue
		}

		for _, node := range g.Nodes() {
			if GroupMatches(query, node) {
				colors[node.ID] = group.Color
			}
		}
	}

	return colors
}
