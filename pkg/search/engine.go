package search

import (
	"path"
	"sort"
	"strings"

	"github.com/ritzau/notegraph/pkg/graph"
	"github.com/ritzau/notegraph/pkg/vault"
)

// entry is the lowercase searchable form of one file
type entry struct {
	path      string // Original path, returned in results
	lowerPath string
	lowerName string
	extension string
	text      string // Title and body of a note
	tags      []string
}

// Engine answers queries over one vault snapshot. It is safe for concurrent
// use since it is never modified after construction.
type Engine struct {
	entries []entry
}

// NewEngine indexes files, taking tags and text from the matching notes
func NewEngine(files []graph.File, notes map[string]*vault.Note) *Engine {
	e := &Engine{entries: make([]entry, 0, len(files))}

	for _, f := range files {
		en := entry{
			path:      f.Path,
			lowerPath: strings.ToLower(f.Path),
			lowerName: strings.ToLower(f.Name),
			extension: strings.TrimPrefix(strings.ToLower(path.Ext(f.Name)), "."),
		}
		if note, ok := notes[f.Path]; ok {
			en.text = strings.ToLower(note.Title + "\n" + note.Body)
			for _, tag := range note.Tags {
				en.tags = append(en.tags, strings.ToLower(tag))
			}
		}
		e.entries = append(e.entries, en)
	}

	return e
}

// NewEngineFromSnapshot indexes every file of a vault snapshot
func NewEngineFromSnapshot(s *vault.Snapshot) *Engine {
	return NewEngine(s.Files, s.Notes)
}

// Search returns the sorted paths of files matching every term of query.
// An empty query matches nothing.
func (e *Engine) Search(query string) []string {
	return e.SearchConfig(Parse(query))
}

// SearchConfig is Search for an already parsed query
func (e *Engine) SearchConfig(config Config) []string {
	paths := make([]string, 0)
	if config.Empty() {
		return paths
	}

	for _, en := range e.entries {
		if en.matchesAll(config.Terms) {
			paths = append(paths, en.path)
		}
	}

	sort.Strings(paths)
	return paths
}

func (en entry) matchesAll(terms []Term) bool {
	for _, term := range terms {
		if en.matches(term) == term.Negate {
			return false
		}
	}
	return true
}

func (en entry) matches(term Term) bool {
	switch term.Field {
	case FieldPath:
		return strings.Contains(en.lowerPath, term.Value)
	case FieldFile:
		return strings.Contains(en.lowerName, term.Value)
	case FieldExtension:
		return en.extension == term.Value
	case FieldTag:
		for _, tag := range en.tags {
			if tag == term.Value || strings.HasPrefix(tag, term.Value+"/") {
				return true
			}
		}
		return false
	default:
		return strings.Contains(en.lowerPath, term.Value) || strings.Contains(en.text, term.Value)
	}
}
