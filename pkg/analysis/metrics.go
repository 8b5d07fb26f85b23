package analysis

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	scansTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "notegraph_scans_total",
		Help: "Vault scans by result (changed, unchanged, failed)",
	}, []string{"result"})

	scanDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "notegraph_scan_duration_seconds",
		Help:    "Time spent scanning the vault and rebuilding the graph",
		Buckets: []float64{0.01, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
	})

	graphNodes = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "notegraph_graph_nodes",
		Help: "Nodes in the current base graph",
	})

	graphLinks = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "notegraph_graph_links",
		Help: "Links in the current base graph",
	})

	unresolvedLinks = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "notegraph_unresolved_links",
		Help: "Wikilinks that point at no file",
	})
)

const (
	resultChanged   = "changed"
	resultUnchanged = "unchanged"
	resultFailed    = "failed"
)
