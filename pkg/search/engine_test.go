package search

import (
	"slices"
	"testing"

	"github.com/ritzau/notegraph/pkg/graph"
	"github.com/ritzau/notegraph/pkg/vault"
)

func TestParse(t *testing.T) {
	tests := []struct {
		query string
		want  []Term
	}{
		{"", nil},
		{"   ", nil},
		{"Hello", []Term{{Value: "hello"}}},
		{"path:Notes file:plan", []Term{{Field: FieldPath, Value: "notes"}, {Field: FieldFile, Value: "plan"}}},
		{"ext:.PNG extension:md", []Term{{Field: FieldExtension, Value: "png"}, {Field: FieldExtension, Value: "md"}}},
		{"tag:#Project", []Term{{Field: FieldTag, Value: "project"}}},
		{`"two words" path:"my folder"`, []Term{{Value: "two words"}, {Field: FieldPath, Value: "my folder"}}},
		{"-tag:draft", []Term{{Field: FieldTag, Value: "draft", Negate: true}}},
		{"note:x", []Term{{Value: "note:x"}}},
		{"path:", nil},
		{"-", []Term{{Value: "-"}}},
	}

	for _, tt := range tests {
		t.Run(tt.query, func(t *testing.T) {
			got := Parse(tt.query)
			if got.Query != tt.query {
				t.Errorf("Expected query %q, got %q", tt.query, got.Query)
			}
			if !slices.Equal(got.Terms, tt.want) {
				t.Errorf("Parse(%q) terms = %+v, want %+v", tt.query, got.Terms, tt.want)
			}
		})
	}
}

func newTestEngine() *Engine {
	files := []graph.File{
		{Name: "Plan.md", Path: "work/Plan.md"},
		{Name: "Ideas.md", Path: "work/Ideas.md"},
		{Name: "Journal.md", Path: "Journal.md"},
		{Name: "diagram.png", Path: "work/diagram.png"},
	}
	notes := map[string]*vault.Note{
		"work/Plan.md": {
			Path:  "work/Plan.md",
			Title: "Quarterly Plan",
			Body:  "Ship the graph viewer.",
			Tags:  []string{"project/active"},
		},
		"work/Ideas.md": {
			Path: "work/Ideas.md",
			Body: "A graph of ideas.",
			Tags: []string{"project", "draft"},
		},
		"Journal.md": {
			Path: "Journal.md",
			Body: "Dear diary",
			Tags: []string{"projects"},
		},
	}
	return NewEngine(files, notes)
}

func TestSearch(t *testing.T) {
	engine := newTestEngine()

	tests := []struct {
		name  string
		query string
		want  []string
	}{
		{"empty query", "", []string{}},
		{"text", "graph", []string{"work/Ideas.md", "work/Plan.md"}},
		{"title", "quarterly", []string{"work/Plan.md"}},
		{"case insensitive", "DIARY", []string{"Journal.md"}},
		{"path", "path:work", []string{"work/Ideas.md", "work/Plan.md", "work/diagram.png"}},
		{"file", "file:plan", []string{"work/Plan.md"}},
		{"extension", "ext:png", []string{"work/diagram.png"}},
		{"nested tag matches parent", "tag:project", []string{"work/Ideas.md", "work/Plan.md"}},
		{"exact nested tag", "tag:project/active", []string{"work/Plan.md"}},
		{"terms are and-ed", "graph tag:draft", []string{"work/Ideas.md"}},
		{"negation", "path:work -tag:draft", []string{"work/Plan.md", "work/diagram.png"}},
		{"phrase", `"graph viewer"`, []string{"work/Plan.md"}},
		{"no match", "nothing-here", []string{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := engine.Search(tt.query)
			if !slices.Equal(got, tt.want) {
				t.Errorf("Search(%q) = %v, want %v", tt.query, got, tt.want)
			}
		})
	}
}

func TestNewEngineFromSnapshot(t *testing.T) {
	snapshot := vault.EmptySnapshot()
	snapshot.Files = []graph.File{{Name: "a.md", Path: "a.md"}}
	snapshot.Notes["a.md"] = &vault.Note{Path: "a.md", Body: "hello"}

	engine := NewEngineFromSnapshot(snapshot)
	if got := engine.Search("hello"); !slices.Equal(got, []string{"a.md"}) {
		t.Errorf("Expected [a.md], got %v", got)
	}
}
