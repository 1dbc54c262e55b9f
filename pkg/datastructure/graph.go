package datastructure

// VertexID is a normalized, dense vertex id in [0, N).
type VertexID = int32

// RawVertexID is a vertex id as it appears in the input data (before normalization).
type RawVertexID = int64

// EdgeRecord. one directed edge parsed from the edge list.
// Row is the 1-based input line the record came from, only used to build error messages.
type EdgeRecord struct {
	From   RawVertexID
	To     RawVertexID
	Weight float64
	Row    int
}

func NewEdgeRecord(from, to RawVertexID, weight float64, row int) EdgeRecord {
	return EdgeRecord{
		From:   from,
		To:     to,
		Weight: weight,
		Row:    row,
	}
}

// EdgePair. outgoing edge of a vertex, (neighbor, weight).
type EdgePair struct {
	ToNodeID VertexID
	Weight   float64
}

/*
Graph. directed weighted graph in compressed sparse row (csr) format.

outgoing edges of vertex v are Head[FirstOut[v]:FirstOut[v+1]] with weights Weight[FirstOut[v]:FirstOut[v+1]].
len(FirstOut) == N+1.

Graph is immutable after construction, so it can be shared by many concurrent shortest path runs.
BaseOffset is the offset subtracted from the raw input ids during normalization.
*/
type Graph struct {
	FirstOut   []int32
	Head       []VertexID
	Weight     []float64
	BaseOffset int64
}

func NewGraph(firstOut []int32, head []VertexID, weight []float64, baseOffset int64) *Graph {
	if len(firstOut) == 0 {
		firstOut = []int32{0}
	}
	return &Graph{
		FirstOut:   firstOut,
		Head:       head,
		Weight:     weight,
		BaseOffset: baseOffset,
	}
}

func (g *Graph) NumVertices() int {
	return len(g.FirstOut) - 1
}

func (g *Graph) NumEdges() int {
	return len(g.Head)
}

// OutEdges. return the neighbors & weights of the outgoing edges of v. the returned slices must not be modified.
func (g *Graph) OutEdges(v VertexID) ([]VertexID, []float64) {
	start, end := g.FirstOut[v], g.FirstOut[v+1]
	return g.Head[start:end], g.Weight[start:end]
}

func (g *Graph) OutDegree(v VertexID) int {
	return int(g.FirstOut[v+1] - g.FirstOut[v])
}

// GetNodeOutEdges. return the outgoing edges of v as EdgePair.
func (g *Graph) GetNodeOutEdges(v VertexID) []EdgePair {
	heads, weights := g.OutEdges(v)
	edges := make([]EdgePair, len(heads))
	for i := range heads {
		edges[i] = EdgePair{ToNodeID: heads[i], Weight: weights[i]}
	}
	return edges
}

func (g *Graph) HasVertex(v int64) bool {
	return v >= 0 && v < int64(g.NumVertices())
}

// Normalize. map an externally numbered id to the internal id space.
func (g *Graph) Normalize(raw RawVertexID) (VertexID, error) {
	v := raw - g.BaseOffset
	if !g.HasVertex(v) {
		return 0, &OutOfRangeError{Vertex: raw, NumVertices: g.NumVertices(), BaseOffset: g.BaseOffset}
	}
	return VertexID(v), nil
}

// Denormalize. inverse of Normalize.
func (g *Graph) Denormalize(v VertexID) RawVertexID {
	return RawVertexID(v) + g.BaseOffset
}
