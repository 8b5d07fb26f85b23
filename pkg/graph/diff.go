package graph

import (
	"crypto/sha256"
	"fmt"
	"sort"
)

// GraphDiff describes how a graph changed between two builds
type GraphDiff struct {
	AddedNodes   []string `json:"addedNodes"`   // Node ids
	RemovedNodes []string `json:"removedNodes"` // Node ids
	AddedLinks   []string `json:"addedLinks"`   // Link keys (source|target)
	RemovedLinks []string `json:"removedLinks"` // Link keys (source|target)
	FullGraph    bool     `json:"fullGraph"`    // True when there was no previous graph
}

// Empty reports whether the diff holds no changes
func (d GraphDiff) Empty() bool {
	return !d.FullGraph &&
		len(d.AddedNodes) == 0 && len(d.RemovedNodes) == 0 &&
		len(d.AddedLinks) == 0 && len(d.RemovedLinks) == 0
}

// LinkKey identifies a link by its endpoint ids
func LinkKey(sourceID, targetID string) string {
	return sourceID + "|" + targetID
}

// Diff compares two graphs by node id and link endpoints. A nil old graph
// reports every node and link of next as added.
func Diff(old, next *Graph) GraphDiff {
	diff := GraphDiff{
		AddedNodes:   make([]string, 0),
		RemovedNodes: make([]string, 0),
		AddedLinks:   make([]string, 0),
		RemovedLinks: make([]string, 0),
	}

	if old == nil {
		diff.FullGraph = true
		old = Empty()
	}

	for _, node := range next.nodes {
		if old.NodeByID(node.ID) == nil {
			diff.AddedNodes = append(diff.AddedNodes, node.ID)
		}
	}
	for _, node := range old.nodes {
		if next.NodeByID(node.ID) == nil {
			diff.RemovedNodes = append(diff.RemovedNodes, node.ID)
		}
	}
	for _, link := range next.links {
		if old.LinkByIDs(link.Source.ID, link.Target.ID) == nil {
			diff.AddedLinks = append(diff.AddedLinks, LinkKey(link.Source.ID, link.Target.ID))
		}
	}
	for _, link := range old.links {
		if next.LinkByIDs(link.Source.ID, link.Target.ID) == nil {
			diff.RemovedLinks = append(diff.RemovedLinks, LinkKey(link.Source.ID, link.Target.ID))
		}
	}

	return diff
}

// Fingerprint returns a hash of the node ids and link keys of g, independent
// of their order. Structurally equal graphs share a fingerprint.
func (g *Graph) Fingerprint() string {
	keys := make([]string, 0, len(g.nodes)+len(g.links))
	for _, node := range g.nodes {
		keys = append(keys, "n:"+node.ID)
	}
	for _, link := range g.links {
		keys = append(keys, "l:"+LinkKey(link.Source.ID, link.Target.ID))
	}
	sort.Strings(keys)

	h := sha256.New()
	for _, key := range keys {
		h.Write([]byte(key))
		h.Write([]byte{0})
	}
	return fmt.Sprintf("%x", h.Sum(nil))
}
