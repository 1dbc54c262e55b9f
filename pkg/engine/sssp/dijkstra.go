package sssp

import (
	"context"
	"fmt"
	"math"
	"time"

	"github.com/bits-and-blooms/bitset"
	"github.com/lintang-b-s/roaddist/pkg/datastructure"
	"github.com/rs/zerolog"
)

const defaultCancelCheckInterval = 4096

type Option func(*Engine)

func WithLogger(log zerolog.Logger) Option {
	return func(e *Engine) {
		e.log = log
	}
}

// WithCancelCheckInterval. poll ctx every n settled vertices.
func WithCancelCheckInterval(n int) Option {
	return func(e *Engine) {
		if n > 0 {
			e.cancelCheckInterval = n
		}
	}
}

// Engine. single source shortest path over an immutable graph.
// one Engine can serve many concurrent Run calls, every run owns its frontier & distance table.
type Engine struct {
	g                   *datastructure.Graph
	log                 zerolog.Logger
	cancelCheckInterval int
}

func NewEngine(g *datastructure.Graph, opts ...Option) *Engine {
	e := &Engine{
		g:                   g,
		log:                 zerolog.Nop(),
		cancelCheckInterval: defaultCancelCheckInterval,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

func (e *Engine) Graph() *datastructure.Graph {
	return e.g
}

/*
Run. dijkstra from source to every vertex of the graph.

all edge weights must be non-negative (the loader rejects negative weights), this is not checked here.

frontier is a binary min heap without decrease-key: an improved vertex is pushed again and the
stale entry is skipped when it is extracted (its rank is larger than the known distance or the vertex is already settled).
tentative distances start at +Inf, +Inf + w stays +Inf so an unreached vertex can never be improved by overflow.
finite distance + finite weight can still overflow to +Inf: if a vertex is only reachable that way the run
fails with DistanceOverflowError instead of reporting it unreachable.

O((V+E) logV)
*/
func (e *Engine) Run(ctx context.Context, source datastructure.VertexID) (*datastructure.DistanceTable, error) {
	n := e.g.NumVertices()
	if source < 0 || int(source) >= n {
		return nil, &datastructure.OutOfRangeError{Vertex: int64(source), NumVertices: n}
	}

	start := time.Now()

	dist := make([]float64, n)
	for i := range dist {
		dist[i] = math.Inf(1)
	}
	settled := bitset.New(uint(n))
	stats := datastructure.RunStats{}

	// edges whose relaxation overflowed to +Inf, an error only if the target stays unreached
	var overflows []overflowEdge

	pq := datastructure.NewMinHeapWithCap[datastructure.VertexID](64)
	dist[source] = 0
	pq.Insert(datastructure.PriorityQueueNode[datastructure.VertexID]{Rank: 0, Item: source})
	stats.Pushes++

	for !pq.IsEmpty() {
		node, _ := pq.ExtractMin()
		u := node.Item

		if settled.Test(uint(u)) || node.Rank > dist[u] {
			stats.StalePops++
			continue
		}
		settled.Set(uint(u))
		stats.Settled++

		if stats.Settled%e.cancelCheckInterval == 0 {
			select {
			case <-ctx.Done():
				return nil, fmt.Errorf("sssp from %d cancelled after %d settled vertices: %w", source, stats.Settled, ctx.Err())
			default:
			}
		}

		heads, weights := e.g.OutEdges(u)
		du := dist[u]
		for i, v := range heads {
			newDist := du + weights[i]
			if math.IsInf(newDist, 1) {
				overflows = append(overflows, overflowEdge{from: u, to: v, dist: du, weight: weights[i]})
				continue
			}
			if newDist < dist[v] {
				// relax edge
				dist[v] = newDist
				pq.Insert(datastructure.PriorityQueueNode[datastructure.VertexID]{Rank: newDist, Item: v})
				stats.Relaxed++
				stats.Pushes++
			}
		}
	}

	// every settled vertex has a finite distance & every vertex with a finite distance is settled
	// once the frontier is empty, so the settled set is exactly the reachable set.
	for _, o := range overflows {
		if !settled.Test(uint(o.to)) {
			return nil, &datastructure.DistanceOverflowError{
				From:     e.g.Denormalize(o.from),
				To:       e.g.Denormalize(o.to),
				Distance: o.dist,
				Weight:   o.weight,
			}
		}
	}
	stats.Duration = time.Since(start)

	e.log.Debug().
		Int32("source", source).
		Int("settled", stats.Settled).
		Int("relaxed", stats.Relaxed).
		Int("pushes", stats.Pushes).
		Int("stale_pops", stats.StalePops).
		Dur("took", stats.Duration).
		Msg("sssp done")

	return datastructure.NewDistanceTable(source, dist, settled, stats), nil
}

type overflowEdge struct {
	from, to     datastructure.VertexID
	dist, weight float64
}

// RunRaw. Run from an externally numbered source vertex.
func (e *Engine) RunRaw(ctx context.Context, source datastructure.RawVertexID) (*datastructure.DistanceTable, error) {
	v, err := e.g.Normalize(source)
	if err != nil {
		return nil, err
	}
	return e.Run(ctx, v)
}
