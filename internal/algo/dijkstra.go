package algo

import (
	"container/heap"
	"context"

	"github.com/atharv3903/borderroute/internal/graph"
)

// cancelCheckEvery is how many settled nodes pass between context checks.
const cancelCheckEvery = 64

type pqItem struct {
	node     string
	cost     float64
	priority float64
	seq      uint64
}

type pq []pqItem

func (p pq) Len() int { return len(p) }
func (p pq) Less(i, j int) bool {
	if p[i].priority != p[j].priority {
		return p[i].priority < p[j].priority
	}
	return p[i].seq < p[j].seq
}
func (p pq) Swap(i, j int) { p[i], p[j] = p[j], p[i] }

func (p *pq) Push(x any) {
	*p = append(*p, x.(pqItem))
}

func (p *pq) Pop() any {
	old := *p
	n := len(old)
	item := old[n-1]
	*p = old[:n-1]
	return item
}

// Result is the outcome of one search. Found is false when the destination
// cannot be reached; that is not an error.
type Result struct {
	Path     []string
	Found    bool
	Cost     float64
	Explored int
}

// FindRoute returns the lowest-cost path from origin to destination.
// Callers reject origin == destination and unknown codes beforehand.
func FindRoute(ctx context.Context, g *graph.BorderGraph, origin, destination string, opts Options) (Result, error) {
	return Dijkstra(ctx, NewGraphCtx(g, destination, opts), origin, destination)
}

// Dijkstra runs a uniform-cost search from src, ordered by cost plus the
// context's estimate. Equal priorities are popped in insertion order, so the
// result is deterministic for a given graph.
func Dijkstra(ctx context.Context, gctx GraphCtx, src, dst string) (Result, error) {
	if err := ctx.Err(); err != nil {
		return Result{}, err
	}

	dist := map[string]float64{src: 0}
	prev := map[string]string{}
	settled := map[string]bool{}
	var seq uint64

	pq := &pq{}
	heap.Push(pq, pqItem{node: src, cost: 0, priority: gctx.estimate(src), seq: seq})
	explored := 0

	for pq.Len() > 0 {
		cur := heap.Pop(pq).(pqItem)
		u := cur.node

		if u == dst {
			return Result{
				Path:     reconstruct(prev, src, dst),
				Found:    true,
				Cost:     cur.cost,
				Explored: explored,
			}, nil
		}

		if settled[u] {
			continue
		}
		settled[u] = true
		explored++

		if explored%cancelCheckEvery == 0 {
			if err := ctx.Err(); err != nil {
				return Result{Explored: explored}, err
			}
		}

		for _, e := range gctx.Neighbors(u) {
			if settled[e.To] {
				continue
			}
			nd := cur.cost + gctx.Cost(e)

			if old, found := dist[e.To]; found && nd >= old {
				continue
			}
			dist[e.To] = nd
			prev[e.To] = u
			seq++
			heap.Push(pq, pqItem{node: e.To, cost: nd, priority: nd + gctx.estimate(e.To), seq: seq})
		}
	}

	return Result{Explored: explored}, nil
}

func reconstruct(prev map[string]string, src, dst string) []string {
	path := []string{}
	cur := dst

	for cur != src {
		path = append(path, cur)
		cur = prev[cur]
	}
	path = append(path, src)

	for i, j := 0, len(path)-1; i < j; i, j = i+1, j-1 {
		path[i], path[j] = path[j], path[i]
	}

	return path
}
