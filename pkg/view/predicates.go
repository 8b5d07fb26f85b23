package view

import (
	"strings"

	"github.com/ritzau/notegraph/pkg/graph"
)

// And combines predicates; a node is kept only if every predicate keeps it
func And(predicates ...graph.NodePredicate) graph.NodePredicate {
	return func(n *graph.Node) bool {
		for _, p := range predicates {
			if !p(n) {
				return false
			}
		}
		return true
	}
}

// IsAttachment reports whether path is not a markdown note
func IsAttachment(path string) bool {
	return !strings.HasSuffix(path, ".md")
}

// AttachmentPredicate drops non-markdown files unless show is set
func AttachmentPredicate(show bool) graph.NodePredicate {
	return func(n *graph.Node) bool {
		return show || !IsAttachment(n.Path)
	}
}

// SearchPredicate keeps the nodes in result. When no search is active, that
// is both query and result are empty, every node is kept.
func SearchPredicate(query string, result SearchResult) graph.NodePredicate {
	return func(n *graph.Node) bool {
		if result.Len() == 0 && query == "" {
			return true
		}
		return result.Contains(n.Path)
	}
}

// OrphanPredicate drops nodes without links unless show is set. Links are
// counted in the graph the predicate is applied to.
func OrphanPredicate(show bool) graph.NodePredicate {
	return func(n *graph.Node) bool {
		return show || len(n.Links()) > 0
	}
}

// ForceVisible keeps the node at centerPath regardless of p
func ForceVisible(centerPath string, p graph.NodePredicate) graph.NodePredicate {
	return func(n *graph.Node) bool {
		return n.Path == centerPath || p(n)
	}
}
