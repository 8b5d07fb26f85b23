package graph

import (
	"fmt"
)

// DefaultNodeVal is the weight given to every node. Scaling by weight is not
// used by the renderer yet, so it stays constant.
const DefaultNodeVal = 10

// File is the minimal file record a node is built from.
type File struct {
	Name string `json:"name"` // Base name including extension (e.g., "Note.md")
	Path string `json:"path"` // Vault-relative path (e.g., "dir/Note.md")
}

// Node represents a single file in the note graph.
// ID and Path are always equal; two nodes with the same path are the same entity.
type Node struct {
	ID   string
	Name string
	Path string
	Val  int

	neighbors []*Node
	links     []*Link
}

// NewNode creates a node for the file at path with the default weight
func NewNode(name, path string) *Node {
	return &Node{
		ID:   path,
		Name: name,
		Path: path,
		Val:  DefaultNodeVal,
	}
}

// NodesFromFiles creates one node per file, in input order
func NodesFromFiles(files []File) []*Node {
	nodes := make([]*Node, 0, len(files))
	for _, f := range files {
		nodes = append(nodes, NewNode(f.Name, f.Path))
	}
	return nodes
}

// Neighbors returns the nodes adjacent to n, ignoring link direction.
// The returned slice must not be modified.
func (n *Node) Neighbors() []*Node {
	return n.neighbors
}

// Links returns the links n takes part in, as source or target.
// The returned slice must not be modified.
func (n *Node) Links() []*Link {
	return n.links
}

// AddNeighbor makes n and other neighbors of each other.
// Calling it again for the same pair is a no-op.
func (n *Node) AddNeighbor(other *Node) {
	if n.IsNeighborOf(other) {
		return
	}
	n.neighbors = append(n.neighbors, other)
	if !other.IsNeighborOf(n) {
		other.neighbors = append(other.neighbors, n)
	}
}

// AddLink records link on n unless a link with the same source and target is already there
func (n *Node) AddLink(link *Link) {
	for _, l := range n.links {
		if l.Source == link.Source && l.Target == link.Target {
			return
		}
	}
	n.links = append(n.links, link)
}

// IsNeighborOf reports whether other is one of n's neighbors (by reference)
func (n *Node) IsNeighborOf(other *Node) bool {
	for _, neighbor := range n.neighbors {
		if neighbor == other {
			return true
		}
	}
	return false
}

// IsNeighborOfID reports whether a neighbor of n has the given id
func (n *Node) IsNeighborOfID(id string) bool {
	for _, neighbor := range n.neighbors {
		if neighbor.ID == id {
			return true
		}
	}
	return false
}

// String returns the node path
func (n *Node) String() string {
	return n.Path
}

// CreateNodeIndex maps each node id to its position in nodes
func CreateNodeIndex(nodes []*Node) map[string]int {
	index := make(map[string]int, len(nodes))
	for i, node := range nodes {
		index[node.ID] = i
	}
	return index
}

// CheckNodesValid fails if nodes contains the same node twice or if any node
// lists the same neighbor twice. It is meant for tests and debug checks.
func CheckNodesValid(nodes []*Node) error {
	seen := make(map[*Node]bool, len(nodes))
	for _, node := range nodes {
		if seen[node] {
			return fmt.Errorf("%w: %s", ErrDuplicateNode, node.Path)
		}
		seen[node] = true
	}

	for _, node := range nodes {
		neighbors := make(map[*Node]bool, len(node.neighbors))
		for _, neighbor := range node.neighbors {
			if neighbors[neighbor] {
				return fmt.Errorf("%w for node %s", ErrDuplicateNeighbor, node.Name)
			}
			neighbors[neighbor] = true
		}
	}

	return nil
}
