package resultview

import (
	"cmp"
	"errors"
	"fmt"
	"iter"

	"github.com/lintang-b-s/roaddist/pkg/datastructure"
	"golang.org/x/exp/slices"
)

var ErrNegativeK = errors.New("k must be >= 0")

// Entry. reachable vertex (internal id) & its distance from the source.
type Entry struct {
	Vertex   datastructure.VertexID
	Distance float64
}

// Record. reachable vertex with an externally numbered id, ready for export.
type Record struct {
	Vertex   datastructure.RawVertexID
	Distance float64
}

/*
View. read only queries over one distance table.

baseOffset is the offset the graph builder subtracted from the input ids, Records adds it back.
nothing in here mutates the table or does I/O.
*/
type View struct {
	table      *datastructure.DistanceTable
	baseOffset int64
}

func New(table *datastructure.DistanceTable, baseOffset int64) *View {
	return &View{
		table:      table,
		baseOffset: baseOffset,
	}
}

func (v *View) Table() *datastructure.DistanceTable {
	return v.table
}

func (v *View) Source() datastructure.VertexID {
	return v.table.Source()
}

// ExternalSource. source vertex in the input numbering.
func (v *View) ExternalSource() datastructure.RawVertexID {
	return datastructure.RawVertexID(v.table.Source()) + v.baseOffset
}

func (v *View) BaseOffset() int64 {
	return v.baseOffset
}

// Reachable. lazy sequence of (vertex, distance) in ascending vertex id, unreachable vertices skipped.
// the sequence can be ranged over any number of times.
func (v *View) Reachable() iter.Seq2[datastructure.VertexID, float64] {
	return func(yield func(datastructure.VertexID, float64) bool) {
		for u, ok := v.table.NextReachable(0); ok; u, ok = v.table.NextReachable(u + 1) {
			d, _ := v.table.Distance(u)
			if !yield(u, d) {
				return
			}
		}
	}
}

func (v *View) ReachableCount() int {
	return v.table.ReachableCount()
}

func (v *View) entries(skipSource bool) []Entry {
	entries := make([]Entry, 0, v.table.ReachableCount())
	for u, d := range v.Reachable() {
		if skipSource && u == v.table.Source() {
			continue
		}
		entries = append(entries, Entry{Vertex: u, Distance: d})
	}
	return entries
}

func ascending(a, b Entry) int {
	if c := cmp.Compare(a.Distance, b.Distance); c != 0 {
		return c
	}
	return cmp.Compare(a.Vertex, b.Vertex)
}

func descending(a, b Entry) int {
	if c := cmp.Compare(b.Distance, a.Distance); c != 0 {
		return c
	}
	return cmp.Compare(a.Vertex, b.Vertex)
}

func topK(entries []Entry, k int, compare func(a, b Entry) int) ([]Entry, error) {
	if k < 0 {
		return nil, fmt.Errorf("%w: got %d", ErrNegativeK, k)
	}
	slices.SortFunc(entries, compare)
	if k < len(entries) {
		entries = entries[:k:k]
	}
	return entries, nil
}

// Nearest. k reachable vertices with the smallest distance (the source itself included), ties by ascending vertex id.
// k larger than the reachable count returns all reachable vertices.
func (v *View) Nearest(k int) ([]Entry, error) {
	return topK(v.entries(false), k, ascending)
}

// NearestExcludingSource. like Nearest but without the source vertex.
func (v *View) NearestExcludingSource(k int) ([]Entry, error) {
	return topK(v.entries(true), k, ascending)
}

// Farthest. k reachable vertices with the largest distance, ties by ascending vertex id.
func (v *View) Farthest(k int) ([]Entry, error) {
	return topK(v.entries(false), k, descending)
}

// ToRecords. reachable entries in ascending vertex id with ids shifted by offset.
func (v *View) ToRecords(offset int64) []Record {
	records := make([]Record, 0, v.table.ReachableCount())
	for u, d := range v.Reachable() {
		records = append(records, Record{Vertex: datastructure.RawVertexID(u) + offset, Distance: d})
	}
	return records
}

// Records. ToRecords with the inverse of the load time normalization.
func (v *View) Records() []Record {
	return v.ToRecords(v.baseOffset)
}

// ToExternal. convert ranked entries to externally numbered records.
func (v *View) ToExternal(entries []Entry) []Record {
	records := make([]Record, len(entries))
	for i, e := range entries {
		records[i] = Record{Vertex: datastructure.RawVertexID(e.Vertex) + v.baseOffset, Distance: e.Distance}
	}
	return records
}
