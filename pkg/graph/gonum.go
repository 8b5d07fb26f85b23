package graph

import (
	"gonum.org/v1/gonum/graph/path"
	"gonum.org/v1/gonum/graph/simple"
	"gonum.org/v1/gonum/graph/topo"
)

// DirectedView is a gonum directed graph mirroring a Graph.
// Gonum node ids are the positions of the nodes in the source graph.
type DirectedView struct {
	*simple.DirectedGraph
	graph *Graph
}

// Directed returns a gonum view of g. Self links are left out because gonum
// simple graphs cannot hold them.
func (g *Graph) Directed() *DirectedView {
	dg := simple.NewDirectedGraph()
	for i := range g.nodes {
		dg.AddNode(simple.Node(int64(i)))
	}
	for _, link := range g.links {
		from := int64(g.nodeIndex[link.Source.ID])
		to := int64(g.nodeIndex[link.Target.ID])
		if from == to || dg.HasEdgeFromTo(from, to) {
			continue
		}
		dg.SetEdge(dg.NewEdge(dg.Node(from), dg.Node(to)))
	}
	return &DirectedView{DirectedGraph: dg, graph: g}
}

// NodeFor returns the note node behind a gonum node id, or nil
func (v *DirectedView) NodeFor(id int64) *Node {
	if id < 0 || id >= int64(len(v.graph.nodes)) {
		return nil
	}
	return v.graph.nodes[id]
}

// undirected builds a gonum undirected graph over g and reports whether g
// has a self link or a pair of opposite links, which collapse in gonum.
func (g *Graph) undirected() (*simple.UndirectedGraph, bool) {
	ug := simple.NewUndirectedGraph()
	for i := range g.nodes {
		ug.AddNode(simple.Node(int64(i)))
	}

	collapsed := false
	for _, link := range g.links {
		from := int64(g.nodeIndex[link.Source.ID])
		to := int64(g.nodeIndex[link.Target.ID])
		if from == to || ug.HasEdgeBetween(from, to) {
			collapsed = true
			continue
		}
		ug.SetEdge(ug.NewEdge(ug.Node(from), ug.Node(to)))
	}
	return ug, collapsed
}

// IsForest reports whether the links, with direction ignored, contain no
// cycle. A self link or two links between the same pair count as a cycle.
// This is stricter than IsAcyclic, which follows link direction.
func (g *Graph) IsForest() bool {
	ug, collapsed := g.undirected()
	if collapsed {
		return false
	}

	components := topo.ConnectedComponents(ug)
	edges := ug.Edges().Len()
	return edges == len(g.nodes)-len(components)
}

// ShortestPath returns the nodes on a fewest-hop path between two nodes,
// ignoring link direction. It returns nil when either node is missing or no
// path exists.
func (g *Graph) ShortestPath(fromID, toID string) []*Node {
	from, ok := g.nodeIndex[fromID]
	if !ok {
		return nil
	}
	to, ok := g.nodeIndex[toID]
	if !ok {
		return nil
	}
	if from == to {
		return []*Node{g.nodes[from]}
	}

	ug, _ := g.undirected()
	shortest := path.DijkstraFrom(ug.Node(int64(from)), ug)
	steps, _ := shortest.To(int64(to))
	if len(steps) == 0 {
		return nil
	}

	nodes := make([]*Node, 0, len(steps))
	for _, step := range steps {
		nodes = append(nodes, g.nodes[step.ID()])
	}
	return nodes
}
