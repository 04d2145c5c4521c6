package algo

import (
	"fmt"
	"strings"

	"github.com/atharv3903/borderroute/internal/geo"
	"github.com/atharv3903/borderroute/internal/graph"
)

// Metric selects what a route minimises.
type Metric string

const (
	// MetricDistance minimises the summed great-circle length of the borders crossed.
	MetricDistance Metric = "distance"
	// MetricHops minimises the number of borders crossed.
	MetricHops Metric = "hops"
)

// ParseMetric accepts "distance" or "hops", case-insensitively. The empty
// string selects MetricDistance.
func ParseMetric(s string) (Metric, error) {
	switch Metric(strings.ToLower(strings.TrimSpace(s))) {
	case "", MetricDistance:
		return MetricDistance, nil
	case MetricHops:
		return MetricHops, nil
	}
	return "", fmt.Errorf("algo: unknown metric %q", s)
}

// Options configures FindRoute.
type Options struct {
	Metric Metric
	// Heuristic enables A* ordering with the great-circle distance to the
	// destination. Ignored for MetricHops and for graphs with fallback edges.
	Heuristic bool
}

// GraphCtx binds a border graph to the cost and heuristic of one search.
type GraphCtx struct {
	Graph *graph.BorderGraph
	Cost  func(e graph.Edge) float64
	// Estimate returns an admissible lower bound of the remaining cost, or nil.
	Estimate func(from string) float64
}

// NewGraphCtx derives the search context for opts and destination dst.
func NewGraphCtx(g *graph.BorderGraph, dst string, opts Options) GraphCtx {
	gctx := GraphCtx{Graph: g, Cost: distanceCost}
	if opts.Metric == MetricHops {
		gctx.Cost = hopCost
		return gctx
	}

	if !opts.Heuristic || g.FallbackEdges() > 0 {
		return gctx
	}
	target, ok := g.Coordinates(dst)
	if !ok {
		return gctx
	}
	gctx.Estimate = func(from string) float64 {
		p, ok := g.Coordinates(from)
		if !ok {
			return 0
		}
		return geo.Haversine(p, target)
	}
	return gctx
}

func distanceCost(e graph.Edge) float64 { return e.WeightKm }

func hopCost(graph.Edge) float64 { return 1 }

func (g GraphCtx) Neighbors(n string) []graph.Edge {
	return g.Graph.Neighbors(n)
}

func (g GraphCtx) estimate(n string) float64 {
	if g.Estimate == nil {
		return 0
	}
	return g.Estimate(n)
}
