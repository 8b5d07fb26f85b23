package cycles

import (
	"slices"

	"gonum.org/v1/gonum/graph"
)

// tarjan holds the bookkeeping for one run of Tarjan's SCC algorithm
type tarjan struct {
	graph   graph.Directed
	index   int
	stack   []int64
	onStack map[int64]bool
	indices map[int64]int
	lowLink map[int64]int
	sccs    [][]int64
}

// StronglyConnected returns every strongly connected component of g with more
// than one node. Nodes are visited in ascending id order so the result does not
// depend on gonum's map iteration order. Each component is sorted by id.
func StronglyConnected(g graph.Directed) [][]int64 {
	t := &tarjan{
		graph:   g,
		onStack: make(map[int64]bool),
		indices: make(map[int64]int),
		lowLink: make(map[int64]int),
		sccs:    make([][]int64, 0),
	}

	for _, id := range sortedIDs(g.Nodes()) {
		if _, visited := t.indices[id]; !visited {
			t.strongConnect(id)
		}
	}
	return t.sccs
}

func (t *tarjan) strongConnect(nodeID int64) {
	t.indices[nodeID] = t.index
	t.lowLink[nodeID] = t.index
	t.index++

	t.stack = append(t.stack, nodeID)
	t.onStack[nodeID] = true

	for _, next := range sortedIDs(t.graph.From(nodeID)) {
		if _, visited := t.indices[next]; !visited {
			t.strongConnect(next)
			t.lowLink[nodeID] = min(t.lowLink[nodeID], t.lowLink[next])
		} else if t.onStack[next] {
			t.lowLink[nodeID] = min(t.lowLink[nodeID], t.indices[next])
		}
	}

	if t.lowLink[nodeID] != t.indices[nodeID] {
		return
	}

	// nodeID is the root of a component; pop it off the stack
	var scc []int64
	for {
		w := t.stack[len(t.stack)-1]
		t.stack = t.stack[:len(t.stack)-1]
		t.onStack[w] = false
		scc = append(scc, w)
		if w == nodeID {
			break
		}
	}
	if len(scc) > 1 {
		slices.Sort(scc)
		t.sccs = append(t.sccs, scc)
	}
}

func sortedIDs(nodes graph.Nodes) []int64 {
	ids := make([]int64, 0, nodes.Len())
	for nodes.Next() {
		ids = append(ids, nodes.Node().ID())
	}
	slices.Sort(ids)
	return ids
}
