package service

import (
	"context"
	"strconv"
	"time"

	"github.com/lintang-b-s/roaddist/pkg/datastructure"
	"github.com/lintang-b-s/roaddist/pkg/resultview"
	"github.com/rs/zerolog"
	"github.com/tidwall/tinylru"
	"golang.org/x/sync/singleflight"
)

const DefaultCacheSize = 64

type Option func(*SsspService)

func WithCacheSize(n int) Option {
	return func(s *SsspService) {
		if n > 0 {
			s.cacheSize = n
		}
	}
}

func WithObserver(o RunObserver) Option {
	return func(s *SsspService) {
		s.obs = o
	}
}

func WithLogger(log zerolog.Logger) Option {
	return func(s *SsspService) {
		s.log = log
	}
}

/*
SsspService. shortest path queries by externally numbered source vertex.

distance tables of recent sources are kept in an lru cache (tables are never mutated after a run, so cached
tables are shared between requests). concurrent misses for the same source share a single run, which keeps going
when a caller gives up and still fills the cache.
*/
type SsspService struct {
	engine    SsspEngine
	graph     *datastructure.Graph
	cacheSize int
	cache     tinylru.LRU
	group     singleflight.Group
	obs       RunObserver
	log       zerolog.Logger
}

func NewSsspService(engine SsspEngine, opts ...Option) *SsspService {
	s := &SsspService{
		engine:    engine,
		graph:     engine.Graph(),
		cacheSize: DefaultCacheSize,
		obs:       nopObserver{},
		log:       zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.cache.Resize(s.cacheSize)
	return s
}

func (s *SsspService) Graph() *datastructure.Graph {
	return s.graph
}

// View. result view for the externally numbered source, computing the distance table on a cache miss.
func (s *SsspService) View(ctx context.Context, source int64) (*resultview.View, error) {
	v, err := s.graph.Normalize(source)
	if err != nil {
		return nil, err
	}

	if cached, ok := s.cache.Get(v); ok {
		s.obs.CacheHit()
		return resultview.New(cached.(*datastructure.DistanceTable), s.graph.BaseOffset), nil
	}
	s.obs.CacheMiss()

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	// the shared run ignores caller cancellation, each caller stops waiting on its own ctx.
	runCtx := context.WithoutCancel(ctx)
	ch := s.group.DoChan(strconv.FormatInt(int64(v), 10), func() (interface{}, error) {
		if cached, ok := s.cache.Get(v); ok {
			return cached, nil
		}
		start := time.Now()
		table, err := s.engine.Run(runCtx, v)
		if err != nil {
			return nil, err
		}
		s.obs.ObserveRun(time.Since(start))
		s.cache.Set(v, table)
		return table, nil
	})

	var res singleflight.Result
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case res = <-ch:
	}
	if res.Err != nil {
		return nil, res.Err
	}

	table := res.Val.(*datastructure.DistanceTable)
	s.log.Debug().Int64("source", source).Bool("shared", res.Shared).Int("reachable", table.ReachableCount()).
		Msg("sssp table ready")
	return resultview.New(table, s.graph.BaseOffset), nil
}

func (s *SsspService) Nearest(ctx context.Context, source int64, k int, excludeSource bool) ([]resultview.Record, error) {
	view, err := s.View(ctx, source)
	if err != nil {
		return nil, err
	}
	var entries []resultview.Entry
	if excludeSource {
		entries, err = view.NearestExcludingSource(k)
	} else {
		entries, err = view.Nearest(k)
	}
	if err != nil {
		return nil, err
	}
	return view.ToExternal(entries), nil
}

func (s *SsspService) Farthest(ctx context.Context, source int64, k int) ([]resultview.Record, error) {
	view, err := s.View(ctx, source)
	if err != nil {
		return nil, err
	}
	entries, err := view.Farthest(k)
	if err != nil {
		return nil, err
	}
	return view.ToExternal(entries), nil
}

func (s *SsspService) Reachable(ctx context.Context, source int64) (int, error) {
	view, err := s.View(ctx, source)
	if err != nil {
		return 0, err
	}
	return view.ReachableCount(), nil
}

// Export. every reachable vertex in ascending external id.
func (s *SsspService) Export(ctx context.Context, source int64) ([]resultview.Record, error) {
	view, err := s.View(ctx, source)
	if err != nil {
		return nil, err
	}
	return view.Records(), nil
}
