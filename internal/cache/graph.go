package cache

import (
	"context"
	"fmt"
	"sync"

	"github.com/atharv3903/borderroute/internal/dataset"
	"github.com/atharv3903/borderroute/internal/graph"
	"github.com/atharv3903/borderroute/internal/metrics"
)

// GraphCache is the process-wide slot holding the built border graph.
// The graph is built at most once; a failed load leaves the slot empty so
// the next Get retries.
type GraphCache struct {
	mu     sync.Mutex
	src    dataset.Source
	opts   []graph.Option
	g      *graph.BorderGraph
	builds int
}

func NewGraphCache(src dataset.Source, opts ...graph.Option) *GraphCache {
	return &GraphCache{src: src, opts: opts}
}

// Get returns the cached graph, loading and building it on first use.
func (c *GraphCache) Get(ctx context.Context) (*graph.BorderGraph, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.g != nil {
		return c.g, nil
	}

	records, err := c.src.Load(ctx)
	if err != nil {
		return nil, err
	}
	g, err := graph.Build(records, c.opts...)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", dataset.ErrLoad, err)
	}

	c.g = g
	c.builds++
	metrics.GraphBuilds.Inc()
	return g, nil
}

// Peek returns the graph without building it.
func (c *GraphCache) Peek() (*graph.BorderGraph, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.g, c.g != nil
}

// Builds is the number of successful builds; at most one.
func (c *GraphCache) Builds() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.builds
}
