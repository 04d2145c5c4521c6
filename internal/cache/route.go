package cache

import (
	"context"
	"errors"
	"slices"
	"sync"

	"golang.org/x/sync/singleflight"
)

// RouteKey is directional: (A, B) and (B, A) are distinct entries.
type RouteKey struct{ Origin, Destination string }

// String is the ordered concatenation of the two codes.
func (k RouteKey) String() string { return k.Origin + ":" + k.Destination }

func (k RouteKey) Reverse() RouteKey {
	return RouteKey{Origin: k.Destination, Destination: k.Origin}
}

// Entry is a computed route. Found == false records that no route exists,
// which is distinct from a key that was never computed.
type Entry struct {
	Path  []string
	Found bool
	Cost  float64
}

func (e Entry) clone() Entry {
	e.Path = slices.Clone(e.Path)
	return e
}

func (e Entry) reversed() Entry {
	e = e.clone()
	slices.Reverse(e.Path)
	return e
}

// ComputeFunc produces the entry for a key on a cache miss.
type ComputeFunc func(ctx context.Context) (Entry, error)

// RouteCache memoises route lookups for the lifetime of the process. Every
// computed entry is stored together with its mirror under the reverse key.
// It's safe for concurrent use; concurrent misses on one key share a single
// computation.
type RouteCache struct {
	mu    sync.RWMutex
	m     map[RouteKey]Entry
	group singleflight.Group
	// stats
	gets int
	hits int
	puts int
}

func NewRouteCache() *RouteCache {
	return &RouteCache{m: make(map[RouteKey]Entry)}
}

// Lookup returns the entry for k, running compute on a miss. hit reports
// whether the entry was already cached. Errors from compute are not cached.
//
// Concurrent misses on k join one computation, which runs under the context
// of the caller that started it. A caller that joined a computation cancelled
// by someone else's context retries under its own.
func (c *RouteCache) Lookup(ctx context.Context, k RouteKey, compute ComputeFunc) (e Entry, hit bool, err error) {
	c.mu.Lock()
	c.gets++
	v, ok := c.m[k]
	if ok {
		c.hits++
	}
	c.mu.Unlock()
	if ok {
		return v.clone(), true, nil
	}

	for {
		ch := c.group.DoChan(k.String(), func() (any, error) {
			// a flight for the reverse key may have filled k meanwhile
			if v, ok := c.Peek(k); ok {
				return v, nil
			}
			v, err := compute(ctx)
			if err != nil {
				return nil, err
			}
			return c.putPair(k, v), nil
		})

		select {
		case <-ctx.Done():
			return Entry{}, false, ctx.Err()
		case res := <-ch:
			if res.Err != nil {
				if isContextErr(res.Err) && ctx.Err() == nil {
					continue
				}
				return Entry{}, false, res.Err
			}
			return res.Val.(Entry).clone(), false, nil
		}
	}
}

func isContextErr(err error) bool {
	return errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded)
}

// putPair stores v under k and its mirror under the reverse key. Entries
// already present win, so a racing reverse computation cannot make the two
// directions disagree.
func (c *RouteCache) putPair(k RouteKey, v Entry) Entry {
	c.mu.Lock()
	defer c.mu.Unlock()

	if existing, ok := c.m[k]; ok {
		return existing
	}
	v = v.clone()
	c.m[k] = v
	c.puts++

	rk := k.Reverse()
	if _, ok := c.m[rk]; !ok && rk != k {
		c.m[rk] = v.reversed()
		c.puts++
	}
	return v
}

// Peek returns a copy of the entry for k without counting a lookup.
func (c *RouteCache) Peek(k RouteKey) (Entry, bool) {
	c.mu.RLock()
	v, ok := c.m[k]
	c.mu.RUnlock()
	if !ok {
		return Entry{}, false
	}
	return v.clone(), true
}

func (c *RouteCache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.m)
}

// Stats returns (gets, hits, puts).
func (c *RouteCache) Stats() (gets, hits, puts int) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.gets, c.hits, c.puts
}
