package watcher

import (
	"slices"

	"github.com/ritzau/notegraph/pkg/finder"
)

// ChangeAnalysis describes what changed and whether the vault needs a rescan
type ChangeAnalysis struct {
	NeedRescan   bool
	NotesChanged bool // At least one markdown note is among ChangedFiles
	ChangedFiles []string
}

// AnalyzeChanges decides whether a batch of changes can affect the graph
func AnalyzeChanges(event ChangeEvent) *ChangeAnalysis {
	analysis := &ChangeAnalysis{
		ChangedFiles: event.Paths,
		NotesChanged: slices.ContainsFunc(event.Paths, finder.IsNote),
	}

	switch event.Type {
	case ChangeTypeStructure:
		// Files appeared or disappeared, so nodes and link resolution may change
		analysis.NeedRescan = true

	case ChangeTypeNote:
		// Note content changed, links or tags may have been edited
		analysis.NeedRescan = true

	case ChangeTypeAttachment:
		// Attachment content is never read, the node set is unchanged
		analysis.NeedRescan = false
	}

	return analysis
}
