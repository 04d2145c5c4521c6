// Package graph builds the weighted border graph used for overland routing.
//
// Every country record becomes a node keyed by its code. Each border listed
// by a record becomes a directed edge to the neighbouring node, weighted by
// the great-circle distance between the two countries' coordinates.
//
// Construction degrades instead of failing:
//
//   - a border code that is not a node is dropped (the dataset lists some
//     overseas-territory neighbours that are not modelled);
//   - an edge whose endpoints lack usable coordinates gets FallbackWeight,
//     which behaves like an unweighted hop.
//
// The only hard failure is an empty record set (ErrNoRecords).
//
// A BorderGraph is immutable once built and safe for concurrent readers.
package graph

import (
	"errors"
	"sort"

	"github.com/atharv3903/borderroute/internal/geo"
	"github.com/atharv3903/borderroute/internal/model"
)

// DefaultFallbackWeight is the weight of an edge with a missing coordinate.
const DefaultFallbackWeight = 1.0

// ErrNoRecords is returned by Build when there is nothing to build from.
var ErrNoRecords = errors.New("graph: no country records")

// Edge is a land border from one node to a neighbour.
type Edge struct {
	To       string
	WeightKm float64
	// Fallback is set when the weight is FallbackWeight rather than a distance.
	Fallback bool
}

type node struct {
	name      string
	coords    geo.Point
	hasCoords bool
	edges     []Edge
	index     map[string]int
}

// BorderGraph maps country codes to their coordinates and weighted borders.
type BorderGraph struct {
	nodes          map[string]*node
	codes          []string
	edgeCount      int
	fallbackEdges  int
	droppedBorders int
}

type options struct {
	symmetric      bool
	fallbackWeight float64
}

// Option configures Build.
type Option func(*options)

// WithSymmetricWeights controls whether the weight of a border is computed
// once per unordered pair and reused for the opposite direction (true, the
// default) or computed independently for each direction.
func WithSymmetricWeights(on bool) Option {
	return func(o *options) { o.symmetric = on }
}

// WithFallbackWeight sets the weight used when an endpoint has no usable
// coordinates. Negative values are ignored.
func WithFallbackWeight(w float64) Option {
	return func(o *options) {
		if w >= 0 {
			o.fallbackWeight = w
		}
	}
}

// Build constructs a BorderGraph from records. Records sharing a code are
// collapsed, the later one wins.
func Build(records []model.CountryRecord, opts ...Option) (*BorderGraph, error) {
	if len(records) == 0 {
		return nil, ErrNoRecords
	}

	cfg := options{symmetric: true, fallbackWeight: DefaultFallbackWeight}
	for _, opt := range opts {
		opt(&cfg)
	}

	g := &BorderGraph{nodes: make(map[string]*node, len(records))}

	// register nodes first so borders can be checked against the full set
	byCode := make(map[string]model.CountryRecord, len(records))
	order := make([]string, 0, len(records))
	for _, r := range records {
		if _, seen := byCode[r.Code]; !seen {
			order = append(order, r.Code)
		}
		byCode[r.Code] = r
		p, ok := geo.PointFromSlice(r.LatLng)
		g.nodes[r.Code] = &node{name: r.Name.Common, coords: p, hasCoords: ok}
	}

	pairWeights := map[[2]string]float64{}

	for _, code := range order {
		r := byCode[code]
		from := g.nodes[code]
		from.index = make(map[string]int, len(r.Borders))

		for _, nb := range r.Borders {
			to, ok := g.nodes[nb]
			if !ok {
				g.droppedBorders++
				continue
			}
			if _, dup := from.index[nb]; dup {
				continue
			}

			e := Edge{To: nb}
			switch {
			case !from.hasCoords || !to.hasCoords:
				e.WeightKm = cfg.fallbackWeight
				e.Fallback = true
				g.fallbackEdges++
			case cfg.symmetric:
				key := pairKey(code, nb)
				w, cached := pairWeights[key]
				if !cached {
					w = geo.Haversine(g.nodes[key[0]].coords, g.nodes[key[1]].coords)
					pairWeights[key] = w
				}
				e.WeightKm = w
			default:
				e.WeightKm = geo.Haversine(from.coords, to.coords)
			}

			from.index[nb] = len(from.edges)
			from.edges = append(from.edges, e)
			g.edgeCount++
		}
	}

	g.codes = make([]string, 0, len(g.nodes))
	for code := range g.nodes {
		g.codes = append(g.codes, code)
	}
	sort.Strings(g.codes)

	return g, nil
}

func pairKey(a, b string) [2]string {
	if a < b {
		return [2]string{a, b}
	}
	return [2]string{b, a}
}

// CountryExists reports whether code is a node of the graph.
func (g *BorderGraph) CountryExists(code string) bool {
	_, ok := g.nodes[code]
	return ok
}

// Neighbors returns the edges leaving code in the order the record listed
// its borders. The returned slice must not be modified.
func (g *BorderGraph) Neighbors(code string) []Edge {
	if n, ok := g.nodes[code]; ok {
		return n.edges
	}
	return nil
}

// Weight returns the weight of the edge from -> to.
func (g *BorderGraph) Weight(from, to string) (float64, bool) {
	n, ok := g.nodes[from]
	if !ok {
		return 0, false
	}
	i, ok := n.index[to]
	if !ok {
		return 0, false
	}
	return n.edges[i].WeightKm, true
}

// Coordinates returns the coordinates of code, if it has usable ones.
func (g *BorderGraph) Coordinates(code string) (geo.Point, bool) {
	n, ok := g.nodes[code]
	if !ok || !n.hasCoords {
		return geo.Point{}, false
	}
	return n.coords, true
}

// Name returns the common name of code, or "" when unknown.
func (g *BorderGraph) Name(code string) string {
	if n, ok := g.nodes[code]; ok {
		return n.name
	}
	return ""
}

// Codes returns all node codes in ascending order.
func (g *BorderGraph) Codes() []string {
	out := make([]string, len(g.codes))
	copy(out, g.codes)
	return out
}

// Len is the number of countries.
func (g *BorderGraph) Len() int { return len(g.nodes) }

// EdgeCount is the number of directed edges; a mutual border counts twice.
func (g *BorderGraph) EdgeCount() int { return g.edgeCount }

// FallbackEdges is the number of edges weighted with the fallback constant.
func (g *BorderGraph) FallbackEdges() int { return g.fallbackEdges }

// DroppedBorders is the number of border references to unknown codes.
func (g *BorderGraph) DroppedBorders() int { return g.droppedBorders }
