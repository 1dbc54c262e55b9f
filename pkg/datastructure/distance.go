package datastructure

import (
	"time"

	"github.com/bits-and-blooms/bitset"
)

// RunStats. counters of one shortest path run.
type RunStats struct {
	Settled   int
	Relaxed   int
	Pushes    int
	StalePops int
	Duration  time.Duration
}

/*
DistanceTable. result of one single source shortest path run.

reached marks the vertices with a finite distance. dist[v] is meaningless when v is not reached,
so callers always go through Distance / IsReachable and never see a numeric "infinite" value.
*/
type DistanceTable struct {
	source  VertexID
	dist    []float64
	reached *bitset.BitSet
	stats   RunStats
}

// NewDistanceTable. the table takes ownership of dist & reached.
func NewDistanceTable(source VertexID, dist []float64, reached *bitset.BitSet, stats RunStats) *DistanceTable {
	return &DistanceTable{
		source:  source,
		dist:    dist,
		reached: reached,
		stats:   stats,
	}
}

func (t *DistanceTable) Source() VertexID {
	return t.source
}

// Len. number of vertices covered by the table (N of the graph).
func (t *DistanceTable) Len() int {
	return len(t.dist)
}

func (t *DistanceTable) IsReachable(v VertexID) bool {
	if v < 0 || int(v) >= len(t.dist) {
		return false
	}
	return t.reached.Test(uint(v))
}

// Distance. return the shortest path distance from the source to v, false if v is unreachable.
func (t *DistanceTable) Distance(v VertexID) (float64, bool) {
	if !t.IsReachable(v) {
		return 0, false
	}
	return t.dist[v], true
}

func (t *DistanceTable) ReachableCount() int {
	return int(t.reached.Count())
}

// NextReachable. return the smallest reachable vertex >= from.
func (t *DistanceTable) NextReachable(from VertexID) (VertexID, bool) {
	if from < 0 {
		from = 0
	}
	next, ok := t.reached.NextSet(uint(from))
	if !ok || next >= uint(len(t.dist)) {
		return 0, false
	}
	return VertexID(next), true
}

func (t *DistanceTable) Stats() RunStats {
	return t.stats
}

// Equal. same source, same reachable set & same distances.
func (t *DistanceTable) Equal(other *DistanceTable) bool {
	if other == nil || t.source != other.source || len(t.dist) != len(other.dist) {
		return false
	}
	if !t.reached.Equal(other.reached) {
		return false
	}
	for v, ok := t.reached.NextSet(0); ok; v, ok = t.reached.NextSet(v + 1) {
		if t.dist[v] != other.dist[v] {
			return false
		}
	}
	return true
}
