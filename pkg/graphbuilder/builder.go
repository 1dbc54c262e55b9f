package graphbuilder

import (
	"errors"
	"fmt"
	"io"
	"math"
	"time"

	"github.com/lintang-b-s/roaddist/pkg/datastructure"
	"github.com/rs/zerolog"
)

// EdgeSource. stream of edge records, io.EOF at the end. *loader.EdgeLoader satisfies it.
type EdgeSource interface {
	Next() (datastructure.EdgeRecord, error)
}

// SliceSource. EdgeSource over an in-memory slice.
type SliceSource struct {
	records []datastructure.EdgeRecord
	pos     int
}

func NewSliceSource(records []datastructure.EdgeRecord) *SliceSource {
	return &SliceSource{records: records}
}

func (s *SliceSource) Next() (datastructure.EdgeRecord, error) {
	if s.pos >= len(s.records) {
		return datastructure.EdgeRecord{}, io.EOF
	}
	rec := s.records[s.pos]
	s.pos++
	return rec, nil
}

type Option func(*Builder)

// WithBaseOffset. offset subtracted from every raw vertex id (1 for one-based input).
func WithBaseOffset(offset int64) Option {
	return func(b *Builder) {
		b.baseOffset = offset
	}
}

// WithMaxVertices. upper bound of the vertex count before the build fails with ErrResourceExhausted.
func WithMaxVertices(n int) Option {
	return func(b *Builder) {
		if n > 0 {
			b.maxVertices = n
		}
	}
}

func WithLogger(log zerolog.Logger) Option {
	return func(b *Builder) {
		b.log = log
	}
}

type Builder struct {
	baseOffset  int64
	maxVertices int
	log         zerolog.Logger
}

func NewBuilder(opts ...Option) *Builder {
	b := &Builder{
		baseOffset:  0,
		maxVertices: math.MaxInt32 - 1,
		log:         zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(b)
	}
	if b.maxVertices > math.MaxInt32-1 {
		b.maxVertices = math.MaxInt32 - 1
	}
	return b
}

/*
Build. build the csr graph with one pass over the edge source.

for every record: normalize both endpoints (raw - baseOffset), grow the adjacency so it covers
the larger endpoint, append (to, weight) to the adjacency list of from.
N = 1 + max normalized id, vertices only referenced as destination are counted too.
after the pass the adjacency lists are packed into FirstOut/Head/Weight.

any error aborts the build, no partial graph is returned.
*/
func (b *Builder) Build(src EdgeSource) (*datastructure.Graph, error) {
	start := time.Now()

	adj := make([][]datastructure.EdgePair, 0)
	numVertices := 0
	numEdges := 0

	for {
		rec, err := src.Next()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("build graph: %w", err)
		}

		from, err := b.normalize(rec, rec.From)
		if err != nil {
			return nil, err
		}
		to, err := b.normalize(rec, rec.To)
		if err != nil {
			return nil, err
		}

		// normalize already bounds both endpoints by maxVertices
		if need := int(max(from, to)) + 1; need > numVertices {
			adj = growAdjacency(adj, need)
			numVertices = need
		}

		if numEdges == math.MaxInt32 {
			return nil, fmt.Errorf("build graph: row %d: %w", rec.Row,
				&datastructure.ResourceError{What: "edge count", Requested: int64(numEdges) + 1, Limit: math.MaxInt32})
		}

		adj[from] = append(adj[from], datastructure.EdgePair{ToNodeID: to, Weight: rec.Weight})
		numEdges++
	}

	g := pack(adj, numEdges, b.baseOffset)

	b.log.Info().
		Int("vertices", g.NumVertices()).
		Int("edges", g.NumEdges()).
		Int64("base_offset", b.baseOffset).
		Dur("took", time.Since(start)).
		Msg("graph built")

	return g, nil
}

// BuildFromRecords. Build over an in-memory slice.
func (b *Builder) BuildFromRecords(records []datastructure.EdgeRecord) (*datastructure.Graph, error) {
	return b.Build(NewSliceSource(records))
}

func (b *Builder) normalize(rec datastructure.EdgeRecord, raw datastructure.RawVertexID) (datastructure.VertexID, error) {
	// compare before subtracting, raw - baseOffset wraps around near the int64 limits
	if raw < b.baseOffset {
		return 0, datastructure.NewDataError(rec.Row, recordFields(rec),
			fmt.Sprintf("vertex id %d is below the base offset %d", raw, b.baseOffset), nil)
	}
	v := raw - b.baseOffset
	if v < 0 || v >= int64(b.maxVertices) {
		requested := v + 1
		if v < 0 || requested < 0 {
			requested = math.MaxInt64
		}
		return 0, fmt.Errorf("build graph: row %d: %w", rec.Row,
			&datastructure.ResourceError{What: "vertex count", Requested: requested, Limit: int64(b.maxVertices)})
	}
	return datastructure.VertexID(v), nil
}

func recordFields(rec datastructure.EdgeRecord) []string {
	return []string{
		fmt.Sprint(rec.From),
		fmt.Sprint(rec.To),
		fmt.Sprint(rec.Weight),
	}
}

// growAdjacency. extend adj to n lists, amortized doubling like append.
func growAdjacency(adj [][]datastructure.EdgePair, n int) [][]datastructure.EdgePair {
	if n <= cap(adj) {
		return adj[:n]
	}
	grown := make([][]datastructure.EdgePair, n, max(n, 2*cap(adj)))
	copy(grown, adj)
	return grown
}

func pack(adj [][]datastructure.EdgePair, numEdges int, baseOffset int64) *datastructure.Graph {
	firstOut := make([]int32, len(adj)+1)
	head := make([]datastructure.VertexID, 0, numEdges)
	weight := make([]float64, 0, numEdges)

	for v, edges := range adj {
		for _, e := range edges {
			head = append(head, e.ToNodeID)
			weight = append(weight, e.Weight)
		}
		firstOut[v+1] = int32(len(head))
	}

	return datastructure.NewGraph(firstOut, head, weight, baseOffset)
}
