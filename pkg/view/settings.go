// Package view derives the graphs that are shown to the user from the base
// graph: the global graph, local graphs around a center note, node colors
// from groups and the layout mode.
package view

import (
	"errors"
	"fmt"

	"github.com/ritzau/notegraph/pkg/graph"
)

var (
	// ErrInvalidDepth is returned for a local graph depth below one
	ErrInvalidDepth = errors.New("depth must be at least 1")

	// ErrUnknownDagOrientation is returned for an orientation name that is not recognized
	ErrUnknownDagOrientation = errors.New("unknown dag orientation")
)

// FilterSettings controls which nodes the global graph shows
type FilterSettings struct {
	SearchQuery     string `json:"searchQuery"`
	ShowOrphans     bool   `json:"showOrphans"`
	ShowAttachments bool   `json:"showAttachments"`
}

// LocalFilterSettings adds the traversal bounds of a local graph
type LocalFilterSettings struct {
	FilterSettings
	Depth    int            `json:"depth"`
	LinkType graph.LinkType `json:"linkType"`
}

// DefaultFilterSettings returns the settings of a new global graph
func DefaultFilterSettings() FilterSettings {
	return FilterSettings{
		SearchQuery:     "",
		ShowOrphans:     true,
		ShowAttachments: false,
	}
}

// DefaultLocalFilterSettings returns the settings of a new local graph
func DefaultLocalFilterSettings() LocalFilterSettings {
	return LocalFilterSettings{
		FilterSettings: DefaultFilterSettings(),
		Depth:          1,
		LinkType:       graph.LinkTypeBoth,
	}
}

// Validate checks the traversal bounds
func (s LocalFilterSettings) Validate() error {
	if s.Depth < 1 {
		return fmt.Errorf("%w: got %d", ErrInvalidDepth, s.Depth)
	}
	if _, err := graph.ParseLinkType(string(s.LinkType)); err != nil {
		return err
	}
	return nil
}

// SearchResult is the set of paths matching a search query
type SearchResult struct {
	Query string
	Paths map[string]struct{}
}

// NewSearchResult collects paths into a SearchResult for query
func NewSearchResult(query string, paths []string) SearchResult {
	set := make(map[string]struct{}, len(paths))
	for _, p := range paths {
		set[p] = struct{}{}
	}
	return SearchResult{Query: query, Paths: set}
}

// Contains reports whether path is part of the result
func (r SearchResult) Contains(path string) bool {
	_, ok := r.Paths[path]
	return ok
}

// Len returns the number of matching paths
func (r SearchResult) Len() int {
	return len(r.Paths)
}

// Searcher runs a search query over the vault
type Searcher interface {
	Search(query string) []string
}

// RunSearch searches for query, returning an empty result for a blank query
// or a nil searcher
func RunSearch(s Searcher, query string) SearchResult {
	if s == nil || query == "" {
		return NewSearchResult(query, nil)
	}
	return NewSearchResult(query, s.Search(query))
}
