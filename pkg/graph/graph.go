// Package graph holds the in-memory note graph: nodes, links, their indexes
// and the derivations (filter, clone, traversal) every view is built from.
//
// A Graph is never modified after construction. Every derivation returns a new
// Graph with fresh Node and Link instances, so views derived from the same
// base graph never share mutable state.
package graph

import (
	"fmt"
	"slices"
)

// NodePredicate decides whether a node is kept by Filter
type NodePredicate func(*Node) bool

// LinkPredicate decides whether a link is kept by Filter
type LinkPredicate func(*Link) bool

// Graph is an immutable set of nodes and links with O(1) lookup indexes
type Graph struct {
	nodes     []*Node
	links     []*Link
	nodeIndex map[string]int
	linkIndex LinkIndex
}

// Empty returns a graph with no nodes and no links
func Empty() *Graph {
	return &Graph{
		nodes:     make([]*Node, 0),
		links:     make([]*Link, 0),
		nodeIndex: make(map[string]int),
		linkIndex: make(LinkIndex),
	}
}

// CreateFromLinkMap builds a graph from candidate nodes and a source -> targets map.
//
// Fresh nodes are created for every input node, so the result never aliases the
// caller's instances. Pairs that reference an unknown id are dropped, and a pair
// listed more than once yields a single link. Duplicate node ids in the input
// fail with ErrDuplicateNode.
func CreateFromLinkMap(linkMap LinkMap, nodes []*Node) (*Graph, error) {
	seen := make(map[string]bool, len(nodes))
	for _, node := range nodes {
		if seen[node.ID] {
			return nil, fmt.Errorf("building graph: %w: %s", ErrDuplicateNode, node.ID)
		}
		seen[node.ID] = true
	}
	return build(linkMap, nodes), nil
}

// build assumes node ids are unique
func build(linkMap LinkMap, nodes []*Node) *Graph {
	newNodes := make([]*Node, 0, len(nodes))
	byID := make(map[string]*Node, len(nodes))
	for _, node := range nodes {
		fresh := &Node{
			ID:   node.ID,
			Name: node.Name,
			Path: node.Path,
			Val:  node.Val,
		}
		newNodes = append(newNodes, fresh)
		byID[fresh.ID] = fresh
	}

	links := make([]*Link, 0)
	linkIndex := make(LinkIndex)

	// Walk sources in node order so construction is deterministic
	for _, source := range newNodes {
		for _, targetID := range linkMap[source.ID] {
			target, ok := byID[targetID]
			if !ok {
				continue
			}
			if _, exists := linkIndex[source.ID][targetID]; exists {
				continue
			}

			link := NewLink(source, target)
			if linkIndex[source.ID] == nil {
				linkIndex[source.ID] = make(map[string]int)
			}
			linkIndex[source.ID][targetID] = len(links)
			links = append(links, link)

			source.AddNeighbor(target)
			source.AddLink(link)
			target.AddLink(link)
		}
	}

	return &Graph{
		nodes:     newNodes,
		links:     links,
		nodeIndex: CreateNodeIndex(newNodes),
		linkIndex: linkIndex,
	}
}

// Nodes returns the nodes in graph order
func (g *Graph) Nodes() []*Node {
	return slices.Clone(g.nodes)
}

// Links returns the links in graph order
func (g *Graph) Links() []*Link {
	return slices.Clone(g.links)
}

// NodeCount returns the number of nodes
func (g *Graph) NodeCount() int {
	return len(g.nodes)
}

// LinkCount returns the number of links
func (g *Graph) LinkCount() int {
	return len(g.links)
}

// NodeByPath returns the node for a vault path, or nil if the graph has none
func (g *Graph) NodeByPath(path string) *Node {
	return g.NodeByID(path)
}

// NodeByID returns the node with the given id, or nil if the graph has none
func (g *Graph) NodeByID(id string) *Node {
	i, ok := g.nodeIndex[id]
	if !ok || i >= len(g.nodes) {
		return nil
	}
	return g.nodes[i]
}

// LinkByIDs returns the link from sourceID to targetID, or nil
func (g *Graph) LinkByIDs(sourceID, targetID string) *Link {
	targets, ok := g.linkIndex[sourceID]
	if !ok {
		return nil
	}
	i, ok := targets[targetID]
	if !ok || i >= len(g.links) {
		return nil
	}
	return g.links[i]
}

// LinksFromNode returns all links whose source is sourceID, in graph order
func (g *Graph) LinksFromNode(sourceID string) []*Link {
	targets, ok := g.linkIndex[sourceID]
	if !ok {
		return nil
	}

	positions := make([]int, 0, len(targets))
	for _, i := range targets {
		positions = append(positions, i)
	}
	slices.Sort(positions)

	links := make([]*Link, 0, len(positions))
	for _, i := range positions {
		if i < len(g.links) {
			links = append(links, g.links[i])
		}
	}
	return links
}

// LinksWithNode returns every link that has nodeID as source or target.
// It scans all links; callers on hot paths should cache the result.
func (g *Graph) LinksWithNode(nodeID string) []*Link {
	var links []*Link
	for _, link := range g.links {
		if link.Source.ID == nodeID || link.Target.ID == nodeID {
			links = append(links, link)
		}
	}
	return links
}

// Clone returns a deep copy that shares no nodes, links or indexes with g
func (g *Graph) Clone() *Graph {
	nodeCopies := make(map[*Node]*Node, len(g.nodes))
	nodes := make([]*Node, len(g.nodes))
	for i, node := range g.nodes {
		c := &Node{
			ID:   node.ID,
			Name: node.Name,
			Path: node.Path,
			Val:  node.Val,
		}
		nodes[i] = c
		nodeCopies[node] = c
	}

	linkCopies := make(map[*Link]*Link, len(g.links))
	links := make([]*Link, len(g.links))
	for i, link := range g.links {
		c := NewLink(nodeCopies[link.Source], nodeCopies[link.Target])
		links[i] = c
		linkCopies[link] = c
	}

	for i, node := range g.nodes {
		c := nodes[i]
		c.neighbors = make([]*Node, 0, len(node.neighbors))
		for _, neighbor := range node.neighbors {
			c.neighbors = append(c.neighbors, nodeCopies[neighbor])
		}
		c.links = make([]*Link, 0, len(node.links))
		for _, link := range node.links {
			c.links = append(c.links, linkCopies[link])
		}
	}

	nodeIndex := make(map[string]int, len(g.nodeIndex))
	for id, i := range g.nodeIndex {
		nodeIndex[id] = i
	}
	linkIndex := make(LinkIndex, len(g.linkIndex))
	for sourceID, targets := range g.linkIndex {
		t := make(map[string]int, len(targets))
		for targetID, i := range targets {
			t[targetID] = i
		}
		linkIndex[sourceID] = t
	}

	return &Graph{
		nodes:     nodes,
		links:     links,
		nodeIndex: nodeIndex,
		linkIndex: linkIndex,
	}
}

// Filter returns a new graph with the nodes accepted by keep and the links
// whose endpoints both survived and that keepLink accepts. A nil predicate
// keeps everything it would have judged.
//
// Predicates see the nodes and links of g, not of the result.
func (g *Graph) Filter(keep NodePredicate, keepLink LinkPredicate) *Graph {
	if keep == nil {
		keep = func(*Node) bool { return true }
	}

	nodes := make([]*Node, 0, len(g.nodes))
	kept := make(map[string]bool, len(g.nodes))
	for _, node := range g.nodes {
		if keep(node) {
			nodes = append(nodes, node)
			kept[node.ID] = true
		}
	}

	links := make([]*Link, 0, len(g.links))
	for _, link := range g.links {
		if !kept[link.Source.ID] || !kept[link.Target.ID] {
			continue
		}
		if keepLink != nil && !keepLink(link) {
			continue
		}
		links = append(links, link)
	}

	return build(CreateLinkMap(links), nodes)
}

// Equal reports whether a and b have the same node ids and the same
// (source, target) link pairs. Node attributes are not compared.
func Equal(a, b *Graph) bool {
	if len(a.nodes) != len(b.nodes) || len(a.links) != len(b.links) {
		return false
	}

	for _, node := range a.nodes {
		other := b.NodeByID(node.ID)
		if other == nil || other.ID != node.ID {
			return false
		}
	}

	for _, link := range a.links {
		other := b.LinkByIDs(link.Source.ID, link.Target.ID)
		if other == nil || !other.Equal(link) {
			return false
		}
	}

	return true
}

// IsAcyclic reports whether following links from source to target can never
// return to a node already on the current path. The result is not cached.
func (g *Graph) IsAcyclic() bool {
	visited := make(map[string]bool, len(g.nodes))
	onStack := make(map[string]bool)

	for _, node := range g.nodes {
		if g.hasCycleFrom(node.ID, visited, onStack) {
			return false
		}
	}
	return true
}

func (g *Graph) hasCycleFrom(nodeID string, visited, onStack map[string]bool) bool {
	if visited[nodeID] {
		return false
	}
	visited[nodeID] = true
	onStack[nodeID] = true

	for _, link := range g.LinksFromNode(nodeID) {
		next := link.Target.ID
		if onStack[next] {
			return true
		}
		if !visited[next] && g.hasCycleFrom(next, visited, onStack) {
			return true
		}
	}

	onStack[nodeID] = false
	return false
}
