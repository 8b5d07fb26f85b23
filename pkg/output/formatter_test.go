package output

import (
	"bytes"
	"strings"
	"testing"

	"github.com/fatih/color"

	"github.com/ritzau/notegraph/pkg/graph"
	"github.com/ritzau/notegraph/pkg/vault"
	"github.com/ritzau/notegraph/pkg/view"
)

func testReport(t *testing.T) Report {
	t.Helper()

	snapshot := vault.EmptySnapshot()
	snapshot.Files = []graph.File{
		{Name: "A.md", Path: "A.md"},
		{Name: "B.md", Path: "B.md"},
		{Name: "C.md", Path: "C.md"},
		{Name: "pic.png", Path: "pic.png"},
	}
	for _, p := range []string{"A.md", "B.md", "C.md"} {
		snapshot.Notes[p] = &vault.Note{Path: p}
	}
	snapshot.Resolved = graph.ResolvedLinkCache{
		"A.md": {"B.md": 1},
		"B.md": {"A.md": 1},
	}
	snapshot.Unresolved["A.md"] = []string{"Nowhere"}

	base, err := snapshot.Graph(nil)
	if err != nil {
		t.Fatal(err)
	}

	settings := view.DefaultLocalFilterSettings()
	return Report{
		Vault:    "/vault",
		Snapshot: snapshot,
		Base:     base,
		View:     view.Global(base, settings.FilterSettings, view.NewSearchResult("", nil)),
		Settings: settings,
		Dag:      view.DagTopDown,
	}
}

func TestPrintGraphReport(t *testing.T) {
	color.NoColor = true

	var buf bytes.Buffer
	PrintGraphReport(&buf, testReport(t))
	out := buf.String()

	for _, want := range []string{
		"Vault: /vault",
		"Scanned: 4 files (3 notes, 1 attachments)",
		"Graph: 4 nodes, 2 links",
		"Global graph",
		"Showing 3 nodes, 2 links",
		"td requested, but the view has cycles",
		"UNRESOLVED LINKS: 1",
		"A.md -> [Nowhere]",
		"ORPHANS: 2",
		"  C.md\n",
		"LINK CYCLES: 1",
		"[A.md B.md]",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("Expected %q in report:\n%s", want, out)
		}
	}
}

func TestPrintGraphReport_Local(t *testing.T) {
	color.NoColor = true

	r := testReport(t)
	r.Center = "A.md"
	r.Settings.Depth = 2
	r.View = view.Local(r.Base, "A.md", r.Settings, view.NewSearchResult("", nil))

	var buf bytes.Buffer
	PrintGraphReport(&buf, r)
	out := buf.String()

	if !strings.Contains(out, "Local graph of A.md (depth 2, both)") {
		t.Errorf("Expected local header in report:\n%s", out)
	}
	if !strings.Contains(out, "  * A.md\n") || !strings.Contains(out, "    B.md\n") {
		t.Errorf("Expected the local nodes with the center marked:\n%s", out)
	}
}

func TestPrintGraphReport_TooLarge(t *testing.T) {
	color.NoColor = true

	r := testReport(t)
	r.View, r.TooLarge = view.ApplyNodeLimit(r.View, 1)

	var buf bytes.Buffer
	PrintGraphReport(&buf, r)

	if !strings.Contains(buf.String(), "Too many nodes to display") {
		t.Errorf("Expected too large notice:\n%s", buf.String())
	}
}

func TestMostLinked(t *testing.T) {
	r := testReport(t)

	hubs := mostLinked(r.Base, 1)
	if len(hubs) != 1 || hubs[0].Path != "A.md" {
		t.Errorf("Expected A.md first by degree then path, got %v", hubs)
	}
}
