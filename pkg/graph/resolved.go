package graph

import (
	"sort"
	"strings"
)

// ResolvedLinkCache maps a source path to the target paths it links to.
// The count per target is carried along but not used by the graph.
type ResolvedLinkCache map[string]map[string]int

// LinkMapFromResolved converts a resolved-link snapshot into a LinkMap.
// Self links are removed and targets are sorted so the result is stable.
func LinkMapFromResolved(resolved ResolvedLinkCache) LinkMap {
	linkMap := make(LinkMap, len(resolved))
	for source, targets := range resolved {
		ids := make([]string, 0, len(targets))
		for target := range targets {
			if target == source {
				continue
			}
			ids = append(ids, target)
		}
		sort.Strings(ids)
		linkMap[source] = ids
	}
	return linkMap
}

// IsExcluded reports whether path lies under one of the excluded prefixes
func IsExcluded(path string, excluded []string) bool {
	for _, prefix := range excluded {
		if prefix != "" && strings.HasPrefix(path, prefix) {
			return true
		}
	}
	return false
}

// CreateFromResolvedLinks builds the base graph from a vault file listing and a
// resolved-link snapshot. Files under an excluded prefix get no node, which
// also drops every link to or from them.
func CreateFromResolvedLinks(resolved ResolvedLinkCache, files []File, excluded []string) (*Graph, error) {
	kept := files
	if len(excluded) > 0 {
		kept = make([]File, 0, len(files))
		for _, f := range files {
			if !IsExcluded(f.Path, excluded) {
				kept = append(kept, f)
			}
		}
	}

	return CreateFromLinkMap(LinkMapFromResolved(resolved), NodesFromFiles(kept))
}
