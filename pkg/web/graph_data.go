package web

import (
	"path"

	"github.com/ritzau/notegraph/pkg/graph"
	"github.com/ritzau/notegraph/pkg/view"
)

// GraphNode represents a node in the note graph
type GraphNode struct {
	ID         string `json:"id"`
	Name       string `json:"name"`
	Path       string `json:"path"`
	Val        int    `json:"val"`
	Color      string `json:"color,omitempty"` // Group color, empty for the default color
	Attachment bool   `json:"attachment"`
	Degree     int    `json:"degree"` // Number of neighbors in the returned graph
}

// GraphLink represents a link in the note graph
type GraphLink struct {
	Source string `json:"source"`
	Target string `json:"target"`
}

// GraphData holds a derived graph for visualization
type GraphData struct {
	Nodes          []GraphNode         `json:"nodes"`
	Links          []GraphLink         `json:"links"`
	Center         string              `json:"center,omitempty"` // Center path of a local graph
	TooLarge       bool                `json:"tooLarge"`         // The graph exceeded the node limit and was emptied
	Acyclic        bool                `json:"acyclic"`
	DagOrientation view.DagOrientation `json:"dagOrientation"`
	DagDowngraded  bool                `json:"dagDowngraded"` // The requested orientation was dropped for a cyclic graph
	Version        int                 `json:"version"`       // Base graph version the view was derived from
}

// NodeDetail is the hover and selection data of a single note
type NodeDetail struct {
	Node       GraphNode   `json:"node"`
	Title      string      `json:"title,omitempty"`
	Tags       []string    `json:"tags"`
	Aliases    []string    `json:"aliases"`
	Neighbors  []string    `json:"neighbors"` // Neighbor paths, regardless of direction
	Links      []GraphLink `json:"links"`     // Every link the node takes part in
	Unresolved []string    `json:"unresolved"`
}

// PathData is a shortest path between two notes
type PathData struct {
	From  string      `json:"from"`
	To    string      `json:"to"`
	Found bool        `json:"found"`
	Nodes []string    `json:"nodes"`
	Links []GraphLink `json:"links"`
}

// buildGraphData converts a derived graph to its wire format
func buildGraphData(g *graph.Graph, colors map[string]string) *GraphData {
	graphData := &GraphData{
		Nodes: make([]GraphNode, 0, g.NodeCount()),
		Links: make([]GraphLink, 0, g.LinkCount()),
	}

	for _, node := range g.Nodes() {
		graphData.Nodes = append(graphData.Nodes, toGraphNode(node, colors[node.Path]))
	}
	for _, link := range g.Links() {
		graphData.Links = append(graphData.Links, toGraphLink(link))
	}

	return graphData
}

func toGraphNode(node *graph.Node, color string) GraphNode {
	return GraphNode{
		ID:         node.ID,
		Name:       node.Name,
		Path:       node.Path,
		Val:        node.Val,
		Color:      color,
		Attachment: view.IsAttachment(node.Path),
		Degree:     len(node.Neighbors()),
	}
}

func toGraphLink(link *graph.Link) GraphLink {
	return GraphLink{
		Source: link.Source.ID,
		Target: link.Target.ID,
	}
}

// buildPathData lists the nodes and the connecting links of a path. Links
// are reported in their stored direction.
func buildPathData(base *graph.Graph, from, to string, nodes []*graph.Node) *PathData {
	data := &PathData{
		From:  from,
		To:    to,
		Found: len(nodes) > 0,
		Nodes: make([]string, 0, len(nodes)),
		Links: make([]GraphLink, 0),
	}

	for i, node := range nodes {
		data.Nodes = append(data.Nodes, node.Path)
		if i == 0 {
			continue
		}
		prev := nodes[i-1]
		if link := base.LinkByIDs(prev.ID, node.ID); link != nil {
			data.Links = append(data.Links, toGraphLink(link))
		} else if link := base.LinkByIDs(node.ID, prev.ID); link != nil {
			data.Links = append(data.Links, toGraphLink(link))
		}
	}

	return data
}

// displayName returns the name shown for a note without a title
func displayName(p string) string {
	base := path.Base(p)
	return base[:len(base)-len(path.Ext(base))]
}
