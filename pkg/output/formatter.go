package output

import (
	"fmt"
	"io"
	"sort"

	"github.com/fatih/color"

	"github.com/ritzau/notegraph/pkg/cycles"
	"github.com/ritzau/notegraph/pkg/graph"
	"github.com/ritzau/notegraph/pkg/vault"
	"github.com/ritzau/notegraph/pkg/view"
)

// topNotes is how many of the most linked notes the report lists
const topNotes = 10

// Report is everything PrintGraphReport shows
type Report struct {
	Vault    string
	Snapshot *vault.Snapshot
	Base     *graph.Graph
	View     *graph.Graph // Global or local view derived from Base
	Center   string       // Center note of a local view, empty for the global view
	Settings view.LocalFilterSettings
	TooLarge bool
	Dag      view.DagOrientation
}

// PrintGraphReport prints a nicely formatted graph report with colors
func PrintGraphReport(w io.Writer, r Report) {
	// Color definitions
	bold := color.New(color.Bold)
	red := color.New(color.FgRed)
	green := color.New(color.FgGreen)
	yellow := color.New(color.FgYellow)
	cyan := color.New(color.FgCyan)

	// Header
	bold.Fprintln(w, "Note Graph Report")
	bold.Fprintln(w, "=================")
	fmt.Fprintf(w, "Vault: %s\n", r.Vault)
	fmt.Fprintf(w, "Scanned: %d files (%d notes, %d attachments)\n",
		len(r.Snapshot.Files), len(r.Snapshot.Notes), len(r.Snapshot.Files)-len(r.Snapshot.Notes))
	fmt.Fprintf(w, "Graph: %d nodes, %d links\n", r.Base.NodeCount(), r.Base.LinkCount())
	fmt.Fprintln(w)

	// Derived view
	if r.Center != "" {
		cyan.Fprintf(w, "Local graph of %s (depth %d, %s)\n", r.Center, r.Settings.Depth, r.Settings.LinkType)
	} else {
		cyan.Fprintln(w, "Global graph")
	}
	if r.Settings.SearchQuery != "" {
		fmt.Fprintf(w, "  Query: %s\n", r.Settings.SearchQuery)
	}
	fmt.Fprintf(w, "  Orphans: %s, attachments: %s\n", shown(r.Settings.ShowOrphans), shown(r.Settings.ShowAttachments))
	if r.TooLarge {
		red.Fprintln(w, "  Too many nodes to display, narrow the view")
	} else {
		fmt.Fprintf(w, "  Showing %d nodes, %d links\n", r.View.NodeCount(), r.View.LinkCount())
	}

	orientation, downgraded := view.ResolveDagOrientation(r.View, r.Dag)
	switch {
	case downgraded:
		yellow.Fprintf(w, "  Layout: %s requested, but the view has cycles; using force layout\n", r.Dag)
	case orientation != view.DagNone:
		fmt.Fprintf(w, "  Layout: DAG %s\n", orientation)
	}
	if r.Center != "" && !r.TooLarge {
		for _, node := range sortedNodes(r.View) {
			marker := " "
			if node.Path == r.Center {
				marker = "*"
			}
			fmt.Fprintf(w, "  %s %s\n", marker, node.Path)
		}
	}
	fmt.Fprintln(w)

	// Most linked notes
	if hubs := mostLinked(r.Base, topNotes); len(hubs) > 0 {
		bold.Fprintln(w, "MOST LINKED:")
		for _, node := range hubs {
			fmt.Fprintf(w, "  %-40s %d\n", node.Path, len(node.Neighbors()))
		}
		fmt.Fprintln(w)
	}

	// Unresolved links
	unresolved := unresolvedCount(r.Snapshot)
	if unresolved > 0 {
		yellow.Fprintf(w, "UNRESOLVED LINKS: %d\n", unresolved)
		sources := make([]string, 0, len(r.Snapshot.Unresolved))
		for source := range r.Snapshot.Unresolved {
			sources = append(sources, source)
		}
		sort.Strings(sources)
		for _, source := range sources {
			fmt.Fprintf(w, "  %s -> %v\n", source, r.Snapshot.Unresolved[source])
		}
		fmt.Fprintln(w)
	}

	// Orphans
	orphans := orphanPaths(r.Base)
	if len(orphans) > 0 {
		yellow.Fprintf(w, "ORPHANS: %d\n", len(orphans))
		for _, p := range orphans {
			fmt.Fprintf(w, "  %s\n", p)
		}
		fmt.Fprintln(w)
	}

	// Cycles
	noteCycles := cycles.FindNoteCycles(r.Base, r.Snapshot.Resolved)
	if len(noteCycles) == 0 {
		green.Fprintln(w, "✓ No link cycles")
	} else {
		red.Fprintf(w, "LINK CYCLES: %d\n", len(noteCycles))
		for _, c := range noteCycles {
			fmt.Fprintf(w, "  %v\n", c.Paths)
		}
	}
}

func shown(b bool) string {
	if b {
		return "shown"
	}
	return "hidden"
}

func sortedNodes(g *graph.Graph) []*graph.Node {
	nodes := g.Nodes()
	sort.Slice(nodes, func(i, j int) bool {
		return nodes[i].Path < nodes[j].Path
	})
	return nodes
}

// mostLinked returns up to n linked nodes by neighbor count, then path
func mostLinked(g *graph.Graph, n int) []*graph.Node {
	nodes := make([]*graph.Node, 0)
	for _, node := range g.Nodes() {
		if len(node.Neighbors()) > 0 {
			nodes = append(nodes, node)
		}
	}
	sort.Slice(nodes, func(i, j int) bool {
		di, dj := len(nodes[i].Neighbors()), len(nodes[j].Neighbors())
		if di != dj {
			return di > dj
		}
		return nodes[i].Path < nodes[j].Path
	})
	if len(nodes) > n {
		nodes = nodes[:n]
	}
	return nodes
}

func orphanPaths(g *graph.Graph) []string {
	var paths []string
	for _, node := range sortedNodes(g) {
		if len(node.Links()) == 0 {
			paths = append(paths, node.Path)
		}
	}
	return paths
}

func unresolvedCount(s *vault.Snapshot) int {
	count := 0
	for _, targets := range s.Unresolved {
		count += len(targets)
	}
	return count
}
