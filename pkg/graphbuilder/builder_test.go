package graphbuilder

import (
	"errors"
	"math"
	"strings"
	"testing"

	"github.com/lintang-b-s/roaddist/pkg/datastructure"
	"github.com/lintang-b-s/roaddist/pkg/loader"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func rec(from, to int64, w float64) datastructure.EdgeRecord {
	return datastructure.NewEdgeRecord(from, to, w, 0)
}

func TestBuildOneBased(t *testing.T) {
	g, err := NewBuilder(WithBaseOffset(1)).BuildFromRecords([]datastructure.EdgeRecord{
		rec(1, 2, 10),
	})
	require.NoError(t, err)

	assert.Equal(t, 2, g.NumVertices())
	assert.Equal(t, 1, g.NumEdges())
	assert.Equal(t, int64(1), g.BaseOffset)

	heads, weights := g.OutEdges(0)
	assert.Equal(t, []datastructure.VertexID{1}, heads)
	assert.Equal(t, []float64{10}, weights)

	heads, _ = g.OutEdges(1)
	assert.Empty(t, heads)
}

func TestBuildDirectedParallelEdges(t *testing.T) {
	g, err := NewBuilder().BuildFromRecords([]datastructure.EdgeRecord{
		rec(2, 0, 3),
		rec(0, 1, 5),
		rec(0, 1, 4),
		rec(1, 0, 6),
	})
	require.NoError(t, err)

	assert.Equal(t, 3, g.NumVertices())
	assert.Equal(t, 4, g.NumEdges())

	assert.Equal(t, []datastructure.EdgePair{{ToNodeID: 1, Weight: 5}, {ToNodeID: 1, Weight: 4}}, g.GetNodeOutEdges(0))
	assert.Equal(t, []datastructure.EdgePair{{ToNodeID: 0, Weight: 6}}, g.GetNodeOutEdges(1))
	assert.Equal(t, []datastructure.EdgePair{{ToNodeID: 0, Weight: 3}}, g.GetNodeOutEdges(2))
	assert.Equal(t, []int32{0, 2, 3, 4}, g.FirstOut)
}

func TestBuildCountsUnreferencedIdsBelowMax(t *testing.T) {
	// vertex 3 & 4 never appear but N is still 1 + max id
	g, err := NewBuilder().BuildFromRecords([]datastructure.EdgeRecord{
		rec(0, 5, 1),
	})
	require.NoError(t, err)
	assert.Equal(t, 6, g.NumVertices())
	assert.Equal(t, 0, g.OutDegree(4))
	assert.Equal(t, 0, g.OutDegree(5))
}

func TestBuildEmpty(t *testing.T) {
	g, err := NewBuilder().BuildFromRecords(nil)
	require.NoError(t, err)
	assert.Equal(t, 0, g.NumVertices())
	assert.Equal(t, 0, g.NumEdges())
}

func TestBuildRejectsNegativeNormalizedId(t *testing.T) {
	records := []datastructure.EdgeRecord{
		datastructure.NewEdgeRecord(1, 2, 1, 2),
		datastructure.NewEdgeRecord(0, 2, 1, 3),
	}
	g, err := NewBuilder(WithBaseOffset(1)).BuildFromRecords(records)
	assert.Nil(t, g)
	assert.ErrorIs(t, err, datastructure.ErrData)

	var dataErr *datastructure.DataError
	require.True(t, errors.As(err, &dataErr))
	assert.Equal(t, 3, dataErr.Row)
	assert.Contains(t, dataErr.Reason, "vertex id 0 is below the base offset 1")
}

func TestBuildIdsNearInt64Limits(t *testing.T) {
	// MinInt64 - 1 wraps to MaxInt64
	_, err := NewBuilder(WithBaseOffset(1)).BuildFromRecords([]datastructure.EdgeRecord{rec(math.MinInt64, 2, 1)})
	assert.ErrorIs(t, err, datastructure.ErrData)
	assert.NotErrorIs(t, err, datastructure.ErrResourceExhausted)

	// MaxInt64 - (-1) wraps to MinInt64
	_, err = NewBuilder(WithBaseOffset(-1)).BuildFromRecords([]datastructure.EdgeRecord{rec(math.MaxInt64, 2, 1)})
	assert.ErrorIs(t, err, datastructure.ErrResourceExhausted)
	assert.NotErrorIs(t, err, datastructure.ErrData)

	_, err = NewBuilder().BuildFromRecords([]datastructure.EdgeRecord{rec(math.MaxInt64, 2, 1)})
	var resErr *datastructure.ResourceError
	require.True(t, errors.As(err, &resErr))
	assert.Equal(t, int64(math.MaxInt64), resErr.Requested)
}

func TestBuildResourceLimit(t *testing.T) {
	g, err := NewBuilder(WithMaxVertices(10)).BuildFromRecords([]datastructure.EdgeRecord{
		rec(0, 9, 1),
		rec(0, 10, 1),
	})
	assert.Nil(t, g)
	assert.ErrorIs(t, err, datastructure.ErrResourceExhausted)
	assert.NotErrorIs(t, err, datastructure.ErrData)
}

func TestBuildFromLoader(t *testing.T) {
	input := "src,dst,length\n1,2,10\n2,3,5\n3,1,-2\n"
	l, err := loader.NewEdgeLoader(strings.NewReader(input))
	require.NoError(t, err)

	g, err := NewBuilder(WithBaseOffset(1)).Build(l)
	assert.Nil(t, g)
	assert.ErrorIs(t, err, datastructure.ErrData)
	assert.Contains(t, err.Error(), "row 4")

	l, err = loader.NewEdgeLoader(strings.NewReader("src,dst,length\n1,2,10\n2,3,5\n"))
	require.NoError(t, err)
	g, err = NewBuilder(WithBaseOffset(1)).Build(l)
	require.NoError(t, err)
	assert.Equal(t, 3, g.NumVertices())
	assert.Equal(t, 2, g.NumEdges())
}

func TestNormalizationRoundTrip(t *testing.T) {
	raw := []int64{1, 7, 3, 12, 5}
	records := make([]datastructure.EdgeRecord, 0)
	for i := 0; i+1 < len(raw); i++ {
		records = append(records, rec(raw[i], raw[i+1], 1))
	}

	g, err := NewBuilder(WithBaseOffset(1)).BuildFromRecords(records)
	require.NoError(t, err)

	for _, id := range raw {
		v, err := g.Normalize(id)
		require.NoError(t, err)
		assert.Equal(t, id, g.Denormalize(v))
	}
}
