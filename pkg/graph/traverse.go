package graph

import (
	"fmt"
)

// LinkType restricts which links a local-graph traversal may follow
type LinkType string

const (
	LinkTypeBoth     LinkType = "both"     // Follow links in either direction
	LinkTypeInlinks  LinkType = "inlinks"  // Only follow links pointing at the current node
	LinkTypeOutlinks LinkType = "outlinks" // Only follow links leaving the current node
)

// ParseLinkType converts a setting value into a LinkType
func ParseLinkType(s string) (LinkType, error) {
	switch LinkType(s) {
	case LinkTypeBoth, LinkTypeInlinks, LinkTypeOutlinks:
		return LinkType(s), nil
	case "":
		return LinkTypeBoth, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownLinkType, s)
}

// Neighborhood is the result of a local-graph traversal. Nodes and Links
// belong to the traversed graph.
type Neighborhood struct {
	Nodes []*Node
	Links []*Link
}

// NodeIDs returns the set of node ids in the neighborhood
func (nb Neighborhood) NodeIDs() map[string]bool {
	ids := make(map[string]bool, len(nb.Nodes))
	for _, node := range nb.Nodes {
		ids[node.ID] = true
	}
	return ids
}

// HasLink reports whether the neighborhood holds a link from sourceID to targetID
func (nb Neighborhood) HasLink(sourceID, targetID string) bool {
	for _, link := range nb.Links {
		if link.Source.ID == sourceID && link.Target.ID == targetID {
			return true
		}
	}
	return false
}

// traversalItem is an entry in the BFS queue
type traversalItem struct {
	node  *Node
	depth int
}

// Traverse walks g breadth-first from centerID, following at most depth links
// and only those allowed by linkType.
//
// A node counts as visited when it is dequeued, and every link is examined at
// most once. With LinkTypeInlinks or LinkTypeOutlinks a link into an already
// visited node is not kept, so the returned links never form a cycle. With
// LinkTypeBoth every followed link is kept.
//
// An unknown center yields an empty neighborhood.
func Traverse(g *Graph, centerID string, depth int, linkType LinkType) Neighborhood {
	var result Neighborhood

	center := g.NodeByID(centerID)
	if center == nil {
		return result
	}

	visited := make(map[string]bool)
	examined := make(map[*Link]bool)
	kept := make(map[*Link]bool)

	queue := []traversalItem{{node: center, depth: 0}}
	for len(queue) > 0 {
		current := queue[0]
		queue = queue[1:]

		node := current.node
		if !visited[node.ID] {
			visited[node.ID] = true
			result.Nodes = append(result.Nodes, node)
		}

		if current.depth >= depth {
			continue
		}

		for _, link := range node.Links() {
			if examined[link] {
				continue
			}

			isOutlink := link.Source == node
			isInlink := link.Target == node
			neighbor := link.Source
			if isOutlink {
				neighbor = link.Target
			}

			admitted := linkType == LinkTypeBoth ||
				(linkType == LinkTypeOutlinks && isOutlink) ||
				(linkType == LinkTypeInlinks && isInlink)
			if !admitted {
				continue
			}
			examined[link] = true

			valid := linkType == LinkTypeBoth || !visited[neighbor.ID]
			if !valid {
				continue
			}
			if !kept[link] {
				kept[link] = true
				result.Links = append(result.Links, link)
			}
			if !visited[neighbor.ID] {
				queue = append(queue, traversalItem{node: neighbor, depth: current.depth + 1})
			}
		}
	}

	return result
}
