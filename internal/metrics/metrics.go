package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Collectors are registered on the default registry through promauto.

var (
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "borderroute_http_requests_total",
			Help: "Total number of HTTP requests processed",
		},
		[]string{"method", "path", "status"},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "borderroute_http_request_duration_seconds",
			Help:    "Duration of HTTP requests in seconds",
			Buckets: []float64{0.0005, 0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1},
		},
		[]string{"method", "path"},
	)

	// RouteCacheLookups counts route lookups by result: hit or miss.
	RouteCacheLookups = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "borderroute_route_cache_lookups_total",
			Help: "Route cache lookups by result",
		},
		[]string{"result"},
	)

	// RouteOutcomes counts answered lookups by outcome: found or not_found.
	RouteOutcomes = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "borderroute_route_outcomes_total",
			Help: "Route lookups by outcome",
		},
		[]string{"outcome"},
	)

	SearchExploredNodes = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "borderroute_search_explored_nodes",
			Help:    "Nodes settled by one route search",
			Buckets: prometheus.ExponentialBuckets(1, 2, 9),
		},
	)

	// GraphBuilds counts successful border graph builds; at most one per process.
	GraphBuilds = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "borderroute_graph_builds_total",
			Help: "Successful border graph builds",
		},
	)

	GraphNodes = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "borderroute_graph_nodes",
			Help: "Countries in the loaded border graph",
		},
	)
)
