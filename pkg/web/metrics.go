package web

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	viewsServed = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "notegraph_views_served_total",
		Help: "Derived graph views served by kind (global, local)",
	}, []string{"kind"})

	viewsTruncated = promauto.NewCounter(prometheus.CounterOpts{
		Name: "notegraph_views_truncated_total",
		Help: "Views that exceeded the node limit and were served empty",
	})

	viewNodes = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "notegraph_view_nodes",
		Help:    "Nodes per derived view before the node limit",
		Buckets: []float64{1, 10, 50, 100, 500, 1000, 5000, 10000},
	})
)
