package graph

import (
	"fmt"
)

// Link represents a directed connection from Source to Target
type Link struct {
	Source *Node
	Target *Node
}

// NewLink creates a link from source to target
func NewLink(source, target *Node) *Link {
	return &Link{Source: source, Target: target}
}

// Equal reports whether l and other connect the same node ids in the same direction.
// Instance identity is not considered.
func (l *Link) Equal(other *Link) bool {
	return l.Source.ID == other.Source.ID && l.Target.ID == other.Target.ID
}

// String returns "source -> target"
func (l *Link) String() string {
	return l.Source.ID + " -> " + l.Target.ID
}

// LinkIndex maps source id -> target id -> position in a link slice
type LinkIndex map[string]map[string]int

// LinkMap maps a source id to the ids it links to. It is the interchange
// format used to rebuild a graph from a set of links.
type LinkMap map[string][]string

// CreateLinkIndex builds the two-level index for links.
// A repeated (source, target) pair overwrites the earlier position; callers
// that need to reject duplicates must run CheckLinksValid first.
func CreateLinkIndex(links []*Link) LinkIndex {
	index := make(LinkIndex)
	for i, link := range links {
		targets, ok := index[link.Source.ID]
		if !ok {
			targets = make(map[string]int)
			index[link.Source.ID] = targets
		}
		targets[link.Target.ID] = i
	}
	return index
}

// CheckLinksValid fails if any two distinct links connect the same pair.
// The check is quadratic, so it belongs in tests and debug paths.
func CheckLinksValid(links []*Link) error {
	for i, a := range links {
		for j, b := range links {
			if i != j && a.Equal(b) {
				return fmt.Errorf("%w: %s", ErrDuplicateLink, a)
			}
		}
	}
	return nil
}

// CreateLinkMap folds links into a LinkMap, keeping target order per source
func CreateLinkMap(links []*Link) LinkMap {
	linkMap := make(LinkMap)
	for _, link := range links {
		linkMap[link.Source.ID] = append(linkMap[link.Source.ID], link.Target.ID)
	}
	return linkMap
}
