package analysis

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/ritzau/notegraph/pkg/graph"
	"github.com/ritzau/notegraph/pkg/logging"
	"github.com/ritzau/notegraph/pkg/pubsub"
	"github.com/ritzau/notegraph/pkg/search"
	"github.com/ritzau/notegraph/pkg/vault"
	"github.com/ritzau/notegraph/pkg/watcher"
)

// State is one consistent result of a vault scan. A State is never modified;
// each scan that changes anything stores a new one.
type State struct {
	Snapshot *vault.Snapshot
	Graph    *graph.Graph   // Base graph, filtered views are derived from it
	Engine   *search.Engine // Search index over Snapshot
	Version  int            // Incremented whenever Graph is replaced
}

// AnalysisRunner orchestrates vault scans and keeps the latest base graph
type AnalysisRunner struct {
	scanner   *vault.Scanner
	publisher pubsub.Publisher // May be nil
	mu        sync.Mutex       // Prevent concurrent scans
	state     atomic.Pointer[State]
}

// AnalysisOptions configures a single run
type AnalysisOptions struct {
	Reason string // e.g., "initial scan", "3 note changes"
	Force  bool   // Replace and publish the graph even if the vault looks unchanged
}

// NewAnalysisRunner creates a new analysis runner
func NewAnalysisRunner(scanner *vault.Scanner, publisher pubsub.Publisher) *AnalysisRunner {
	return &AnalysisRunner{
		scanner:   scanner,
		publisher: publisher,
	}
}

// State returns the latest scan result, or nil before the first successful run
func (ar *AnalysisRunner) State() *State {
	return ar.state.Load()
}

// Run scans the vault and replaces the base graph if the set of files or
// resolved links changed. It reports whether the graph was replaced.
func (ar *AnalysisRunner) Run(ctx context.Context, opts AnalysisOptions) (bool, error) {
	ar.mu.Lock()
	defer ar.mu.Unlock()

	start := time.Now()
	logging.Info("starting vault scan", "reason", opts.Reason)
	ar.publishStatus(pubsub.VaultStatus{State: pubsub.EventScanning, Message: "Scanning vault..."})

	snapshot, err := ar.scanner.Scan(ctx)
	if err != nil {
		ar.publishStatus(pubsub.VaultStatus{
			State:   pubsub.EventFailed,
			Message: fmt.Sprintf("Error scanning vault: %v", err),
		})
		scansTotal.WithLabelValues(resultFailed).Inc()
		return false, fmt.Errorf("vault scan failed: %w", err)
	}

	engine := search.NewEngineFromSnapshot(snapshot)
	prev := ar.state.Load()

	// Same files and links: keep the graph, but tags and text may have changed
	if prev != nil && !opts.Force && prev.Snapshot.Equal(snapshot) {
		ar.state.Store(&State{
			Snapshot: snapshot,
			Graph:    prev.Graph,
			Engine:   engine,
			Version:  prev.Version,
		})
		status := statusFor(snapshot, prev.Graph, "Vault unchanged")
		ar.publishStatus(status)
		unresolvedLinks.Set(float64(status.Unresolved))
		scansTotal.WithLabelValues(resultUnchanged).Inc()
		scanDuration.Observe(time.Since(start).Seconds())
		logging.Debug("graph unchanged", "reason", opts.Reason, "duration", time.Since(start))
		return false, nil
	}

	g, err := snapshot.Graph(ar.scanner.Excluded())
	if err != nil {
		ar.publishStatus(pubsub.VaultStatus{
			State:   pubsub.EventFailed,
			Message: fmt.Sprintf("Error building graph: %v", err),
		})
		scansTotal.WithLabelValues(resultFailed).Inc()
		return false, fmt.Errorf("building graph: %w", err)
	}

	// Excluded files and self links change the snapshot but not the graph
	if prev != nil && !opts.Force && graph.Equal(prev.Graph, g) {
		ar.state.Store(&State{
			Snapshot: snapshot,
			Graph:    prev.Graph,
			Engine:   engine,
			Version:  prev.Version,
		})
		status := statusFor(snapshot, prev.Graph, "Graph unchanged")
		ar.publishStatus(status)
		unresolvedLinks.Set(float64(status.Unresolved))
		scansTotal.WithLabelValues(resultUnchanged).Inc()
		scanDuration.Observe(time.Since(start).Seconds())
		logging.Debug("rebuilt graph is unchanged", "reason", opts.Reason, "duration", time.Since(start))
		return false, nil
	}

	var prevGraph *graph.Graph
	version := 1
	if prev != nil {
		prevGraph = prev.Graph
		version = prev.Version + 1
	}
	diff := graph.Diff(prevGraph, g)

	ar.state.Store(&State{
		Snapshot: snapshot,
		Graph:    g,
		Engine:   engine,
		Version:  version,
	})

	status := statusFor(snapshot, g, "Vault scanned")
	ar.publishStatus(status)
	ar.publishGraph(pubsub.GraphUpdate{
		Reason:       opts.Reason,
		Nodes:        g.NodeCount(),
		Links:        g.LinkCount(),
		AddedNodes:   len(diff.AddedNodes),
		RemovedNodes: len(diff.RemovedNodes),
		AddedLinks:   len(diff.AddedLinks),
		RemovedLinks: len(diff.RemovedLinks),
		FullGraph:    diff.FullGraph,
		Fingerprint:  g.Fingerprint(),
	})

	graphNodes.Set(float64(g.NodeCount()))
	graphLinks.Set(float64(g.LinkCount()))
	unresolvedLinks.Set(float64(status.Unresolved))
	scansTotal.WithLabelValues(resultChanged).Inc()
	scanDuration.Observe(time.Since(start).Seconds())

	logging.Info("graph updated",
		"reason", opts.Reason,
		"nodes", g.NodeCount(),
		"links", g.LinkCount(),
		"added", len(diff.AddedNodes),
		"removed", len(diff.RemovedNodes),
		"duration", time.Since(start))

	return true, nil
}

// Watch runs a scan for every change event that can affect the graph. It
// returns when ctx is cancelled or events is closed.
func (ar *AnalysisRunner) Watch(ctx context.Context, events <-chan watcher.ChangeEvent) {
	for {
		select {
		case <-ctx.Done():
			return

		case event, ok := <-events:
			if !ok {
				return
			}

			analysis := watcher.AnalyzeChanges(event)
			if !analysis.NeedRescan {
				logging.Debug("ignoring change", "type", event.Type, "files", len(analysis.ChangedFiles))
				continue
			}

			reason := fmt.Sprintf("%d %s change(s)", len(analysis.ChangedFiles), event.Type)
			if _, err := ar.Run(ctx, AnalysisOptions{Reason: reason}); err != nil {
				if ctx.Err() != nil {
					return
				}
				logging.Error("rescan failed", "reason", reason, "error", err)
			}
		}
	}
}

func statusFor(snapshot *vault.Snapshot, g *graph.Graph, message string) pubsub.VaultStatus {
	unresolved := 0
	for _, targets := range snapshot.Unresolved {
		unresolved += len(targets)
	}
	return pubsub.VaultStatus{
		State:      pubsub.EventReady,
		Message:    message,
		Files:      len(snapshot.Files),
		Notes:      len(snapshot.Notes),
		Links:      g.LinkCount(),
		Unresolved: unresolved,
	}
}

func (ar *AnalysisRunner) publishStatus(status pubsub.VaultStatus) {
	if ar.publisher == nil {
		return
	}
	if err := ar.publisher.Publish(pubsub.TopicVaultStatus, status.State, status); err != nil {
		logging.Warn("failed to publish vault status", "state", status.State, "error", err)
	}
}

func (ar *AnalysisRunner) publishGraph(update pubsub.GraphUpdate) {
	if ar.publisher == nil {
		return
	}
	if err := ar.publisher.Publish(pubsub.TopicGraph, pubsub.EventGraphUpdated, update); err != nil {
		logging.Warn("failed to publish graph update", "error", err)
	}
}

// Base returns the current base graph, or nil before the first successful run
func (ar *AnalysisRunner) Base() *graph.Graph {
	if state := ar.state.Load(); state != nil {
		return state.Graph
	}
	return nil
}

// Snapshot returns the latest vault snapshot, or nil before the first successful run
func (ar *AnalysisRunner) Snapshot() *vault.Snapshot {
	if state := ar.state.Load(); state != nil {
		return state.Snapshot
	}
	return nil
}

// Engine returns the search index of the latest snapshot, or nil before the first successful run
func (ar *AnalysisRunner) Engine() *search.Engine {
	if state := ar.state.Load(); state != nil {
		return state.Engine
	}
	return nil
}
