package vault

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func writeFile(t *testing.T, root, rel, content string) {
	t.Helper()

	full := filepath.Join(root, filepath.FromSlash(rel))
	if err := os.MkdirAll(filepath.Dir(full), 0o755); err != nil {
		t.Fatalf("MkdirAll() error = %v", err)
	}
	if err := os.WriteFile(full, []byte(content), 0o644); err != nil {
		t.Fatalf("WriteFile() error = %v", err)
	}
}

// newTestVault creates A -> B -> C with an attachment, a dangling link and
// an excluded folder
func newTestVault(t *testing.T) string {
	t.Helper()

	root := t.TempDir()
	writeFile(t, root, "A.md", "# A\n\nLinks to [[B]] and [[B|again]] and [[Missing]].\n")
	writeFile(t, root, "notes/B.md", "---\ntags: [middle]\n---\nOn to [C](../C.md) with ![[pic.png]]\n")
	writeFile(t, root, "C.md", "Back to [[private/Secret]] and myself [[C]].\n")
	writeFile(t, root, "assets/pic.png", "png")
	writeFile(t, root, "private/Secret.md", "[[A]]")
	writeFile(t, root, ".obsidian/app.json", "{}")
	return root
}

func TestScan(t *testing.T) {
	root := newTestVault(t)
	scanner := NewScanner(Options{Root: root, Excluded: []string{"private/"}, Workers: 2})

	snapshot, err := scanner.Scan(context.Background())
	if err != nil {
		t.Fatalf("Scan() error = %v", err)
	}

	if len(snapshot.Files) != 4 {
		t.Errorf("Expected 4 files, got %d: %v", len(snapshot.Files), snapshot.Files)
	}
	if len(snapshot.Notes) != 3 {
		t.Errorf("Expected 3 notes, got %d", len(snapshot.Notes))
	}

	if got := snapshot.Resolved["A.md"]["notes/B.md"]; got != 2 {
		t.Errorf("Expected A.md to link notes/B.md twice, got %d", got)
	}
	if _, ok := snapshot.Resolved["notes/B.md"]["C.md"]; !ok {
		t.Error("Expected notes/B.md -> C.md")
	}
	if _, ok := snapshot.Resolved["notes/B.md"]["assets/pic.png"]; !ok {
		t.Error("Expected notes/B.md -> assets/pic.png")
	}
	if _, ok := snapshot.Resolved["C.md"]["private/Secret.md"]; ok {
		t.Error("Excluded note should not be a link target")
	}

	if missing := snapshot.Unresolved["A.md"]; len(missing) != 1 || missing[0] != "Missing" {
		t.Errorf("Expected A.md to have unresolved [Missing], got %v", missing)
	}

	b := snapshot.Notes["notes/B.md"]
	if b == nil || len(b.Tags) != 1 || b.Tags[0] != "middle" {
		t.Errorf("Expected notes/B.md to carry tag middle, got %+v", b)
	}
}

func TestScan_Graph(t *testing.T) {
	root := newTestVault(t)
	scanner := NewScanner(Options{Root: root, Excluded: []string{"private/"}})

	snapshot, err := scanner.Scan(context.Background())
	if err != nil {
		t.Fatalf("Scan() error = %v", err)
	}

	g, err := snapshot.Graph(scanner.Excluded())
	if err != nil {
		t.Fatalf("Graph() error = %v", err)
	}

	if g.NodeCount() != 4 {
		t.Errorf("Expected 4 nodes, got %d", g.NodeCount())
	}
	// A->B, B->C, B->pic; the self link on C is dropped
	if g.LinkCount() != 3 {
		t.Errorf("Expected 3 links, got %d", g.LinkCount())
	}
	if g.LinkByIDs("C.md", "C.md") != nil {
		t.Error("Expected self link to be dropped")
	}
}

func TestScan_Unchanged(t *testing.T) {
	root := newTestVault(t)
	scanner := NewScanner(Options{Root: root})

	first, err := scanner.Scan(context.Background())
	if err != nil {
		t.Fatalf("Scan() error = %v", err)
	}
	second, err := scanner.Scan(context.Background())
	if err != nil {
		t.Fatalf("Scan() error = %v", err)
	}

	if !first.Equal(second) {
		t.Error("Expected scans of an unchanged vault to be equal")
	}
	if first.Notes["A.md"] != second.Notes["A.md"] {
		t.Error("Expected unchanged note to come from the cache")
	}
}

func TestScan_DetectsChanges(t *testing.T) {
	root := newTestVault(t)
	scanner := NewScanner(Options{Root: root})

	first, err := scanner.Scan(context.Background())
	if err != nil {
		t.Fatalf("Scan() error = %v", err)
	}

	// Content with a new size so the cache cannot match
	writeFile(t, root, "C.md", "Now linking [[A]] instead.\n")
	later := time.Now().Add(time.Minute)
	if err := os.Chtimes(filepath.Join(root, "C.md"), later, later); err != nil {
		t.Fatalf("Chtimes() error = %v", err)
	}

	second, err := scanner.Scan(context.Background())
	if err != nil {
		t.Fatalf("Scan() error = %v", err)
	}

	if first.Equal(second) {
		t.Error("Expected a changed link to make snapshots differ")
	}
	if _, ok := second.Resolved["C.md"]["A.md"]; !ok {
		t.Error("Expected the new C.md -> A.md link")
	}
}

func TestScan_ContentOnlyChange(t *testing.T) {
	root := newTestVault(t)
	scanner := NewScanner(Options{Root: root})

	first, err := scanner.Scan(context.Background())
	if err != nil {
		t.Fatalf("Scan() error = %v", err)
	}

	writeFile(t, root, "A.md", "# A\n\nMore words here. Links to [[B]] and [[B|again]] and [[Missing]].\n")

	second, err := scanner.Scan(context.Background())
	if err != nil {
		t.Fatalf("Scan() error = %v", err)
	}

	if !first.Equal(second) {
		t.Error("Expected a text-only edit to keep snapshots equal")
	}
}

func TestScan_Cancelled(t *testing.T) {
	root := newTestVault(t)
	scanner := NewScanner(Options{Root: root, Workers: 1})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if _, err := scanner.Scan(ctx); err == nil {
		t.Error("Expected an error from a cancelled scan")
	}
}

func TestScan_MissingVault(t *testing.T) {
	scanner := NewScanner(Options{Root: filepath.Join(t.TempDir(), "nope")})

	if _, err := scanner.Scan(context.Background()); err == nil {
		t.Error("Expected an error for a missing vault")
	}
}

func TestSnapshotEqual(t *testing.T) {
	if !EmptySnapshot().Equal(EmptySnapshot()) {
		t.Error("Expected empty snapshots to be equal")
	}

	var nilSnapshot *Snapshot
	if nilSnapshot.Equal(EmptySnapshot()) {
		t.Error("Expected nil snapshot to differ from an empty one")
	}
}
