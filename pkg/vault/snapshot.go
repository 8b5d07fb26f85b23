package vault

import (
	"sort"
	"time"

	"github.com/ritzau/notegraph/pkg/graph"
)

// Snapshot is the result of one vault scan. It is never modified after Scan
// returns it.
type Snapshot struct {
	Files      []graph.File            // Every vault file, in path order
	Notes      map[string]*Note        // Parsed notes by path
	Resolved   graph.ResolvedLinkCache // Source path -> target path -> link count
	Unresolved map[string][]string     // Source path -> link targets with no file
	ScannedAt  time.Time
}

// EmptySnapshot returns a snapshot of an empty vault
func EmptySnapshot() *Snapshot {
	return &Snapshot{
		Files:      make([]graph.File, 0),
		Notes:      make(map[string]*Note),
		Resolved:   make(graph.ResolvedLinkCache),
		Unresolved: make(map[string][]string),
	}
}

// Graph builds the base graph of the snapshot
func (s *Snapshot) Graph(excluded []string) (*graph.Graph, error) {
	return graph.CreateFromResolvedLinks(s.Resolved, s.Files, excluded)
}

// NoteList returns the notes in path order
func (s *Snapshot) NoteList() []*Note {
	notes := make([]*Note, 0, len(s.Notes))
	for _, n := range s.Notes {
		notes = append(notes, n)
	}
	sort.Slice(notes, func(i, j int) bool {
		return notes[i].Path < notes[j].Path
	})
	return notes
}

// Equal reports whether s and other would produce the same graph: the same
// file paths and the same resolved (source, target) pairs. Link counts and
// note content are not compared.
func (s *Snapshot) Equal(other *Snapshot) bool {
	if s == nil || other == nil {
		return s == other
	}

	if len(s.Files) != len(other.Files) {
		return false
	}
	for i := range s.Files {
		if s.Files[i].Path != other.Files[i].Path {
			return false
		}
	}

	if len(s.Resolved) != len(other.Resolved) {
		return false
	}
	for source, targets := range s.Resolved {
		otherTargets, ok := other.Resolved[source]
		if !ok || len(targets) != len(otherTargets) {
			return false
		}
		for target := range targets {
			if _, ok := otherTargets[target]; !ok {
				return false
			}
		}
	}

	return true
}
