package service

import (
	"context"
	"time"

	"github.com/lintang-b-s/roaddist/pkg/datastructure"
)

type SsspEngine interface {
	Run(ctx context.Context, source datastructure.VertexID) (*datastructure.DistanceTable, error)
	Graph() *datastructure.Graph
}

// RunObserver. receives run & cache events, implemented by the prometheus metrics of the rest package.
type RunObserver interface {
	ObserveRun(d time.Duration)
	CacheHit()
	CacheMiss()
}

type nopObserver struct{}

func (nopObserver) ObserveRun(time.Duration) {}
func (nopObserver) CacheHit()                {}
func (nopObserver) CacheMiss()               {}
