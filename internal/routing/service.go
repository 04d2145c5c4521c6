// Package routing answers overland route requests between two countries.
// It validates the endpoints against the border graph and serves routes
// through the route cache, so every pair is searched at most once.
package routing

import (
	"context"
	"log/slog"
	"strings"

	"github.com/atharv3903/borderroute/internal/algo"
	"github.com/atharv3903/borderroute/internal/cache"
	"github.com/atharv3903/borderroute/internal/graph"
	"github.com/atharv3903/borderroute/internal/metrics"
	"github.com/atharv3903/borderroute/internal/model"
)

// Route is an answered lookup.
type Route struct {
	Path []string
	// Cost is kilometres for the distance metric and borders crossed for hops.
	Cost     float64
	CacheHit bool
}

type Service struct {
	graphs *cache.GraphCache
	routes *cache.RouteCache
	opts   algo.Options
	log    *slog.Logger
}

func New(graphs *cache.GraphCache, routes *cache.RouteCache, opts algo.Options, log *slog.Logger) *Service {
	if log == nil {
		log = slog.Default()
	}
	return &Service{graphs: graphs, routes: routes, opts: opts, log: log}
}

// Normalize upper-cases and trims a country code.
func Normalize(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}

// Graph returns the border graph, building it on first use.
func (s *Service) Graph(ctx context.Context) (*graph.BorderGraph, error) {
	g, err := s.graphs.Get(ctx)
	if err != nil {
		return nil, err
	}
	metrics.GraphNodes.Set(float64(g.Len()))
	return g, nil
}

func (s *Service) CountryExists(ctx context.Context, code string) (bool, error) {
	g, err := s.Graph(ctx)
	if err != nil {
		return false, err
	}
	return g.CountryExists(Normalize(code)), nil
}

// Countries lists every country of the graph ordered by code.
func (s *Service) Countries(ctx context.Context) ([]model.CountrySummary, error) {
	g, err := s.Graph(ctx)
	if err != nil {
		return nil, err
	}
	codes := g.Codes()
	out := make([]model.CountrySummary, 0, len(codes))
	for _, code := range codes {
		borders := []string{}
		for _, e := range g.Neighbors(code) {
			borders = append(borders, e.To)
		}
		out = append(out, model.CountrySummary{Code: code, Name: g.Name(code), Borders: borders})
	}
	return out, nil
}

// Route returns the overland route from origin to destination.
//
// Errors, in the order they are checked: *UnknownCountryError for the
// origin then the destination, ErrIdenticalEndpoints, and *NoRouteError
// when the countries are not connected. Graph load failures and context
// errors are returned unchanged.
func (s *Service) Route(ctx context.Context, origin, destination string) (Route, error) {
	origin, destination = Normalize(origin), Normalize(destination)

	g, err := s.Graph(ctx)
	if err != nil {
		return Route{}, err
	}
	if !g.CountryExists(origin) {
		return Route{}, &UnknownCountryError{Code: origin}
	}
	if !g.CountryExists(destination) {
		return Route{}, &UnknownCountryError{Code: destination}
	}
	if origin == destination {
		return Route{}, ErrIdenticalEndpoints
	}

	key := cache.RouteKey{Origin: origin, Destination: destination}
	entry, hit, err := s.routes.Lookup(ctx, key, func(ctx context.Context) (cache.Entry, error) {
		res, err := algo.FindRoute(ctx, g, origin, destination, s.opts)
		if err != nil {
			return cache.Entry{}, err
		}
		metrics.SearchExploredNodes.Observe(float64(res.Explored))
		s.log.Debug("route computed",
			"key", key.String(),
			"found", res.Found,
			"explored", res.Explored,
			"cost", res.Cost,
		)
		return cache.Entry{Path: res.Path, Found: res.Found, Cost: res.Cost}, nil
	})
	if err != nil {
		return Route{}, err
	}

	if hit {
		metrics.RouteCacheLookups.WithLabelValues("hit").Inc()
	} else {
		metrics.RouteCacheLookups.WithLabelValues("miss").Inc()
	}

	if !entry.Found {
		metrics.RouteOutcomes.WithLabelValues("not_found").Inc()
		return Route{CacheHit: hit}, &NoRouteError{Origin: origin, Destination: destination}
	}
	metrics.RouteOutcomes.WithLabelValues("found").Inc()
	return Route{Path: entry.Path, Cost: entry.Cost, CacheHit: hit}, nil
}

// Stats reports route cache counters and the size of the loaded graph.
func (s *Service) Stats() model.CacheStats {
	gets, hits, puts := s.routes.Stats()
	st := model.CacheStats{Gets: gets, Hits: hits, Puts: puts, Entries: s.routes.Len()}
	if g, ok := s.graphs.Peek(); ok {
		st.GraphBuilt = true
		st.Nodes = g.Len()
		st.Edges = g.EdgeCount()
	}
	return st
}
