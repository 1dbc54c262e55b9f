package resultview

import (
	"context"
	"testing"

	"github.com/lintang-b-s/roaddist/pkg/datastructure"
	"github.com/lintang-b-s/roaddist/pkg/engine/sssp"
	"github.com/lintang-b-s/roaddist/pkg/graphbuilder"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/exp/slices"
)

func runView(t *testing.T, offset int64, source datastructure.VertexID, edges ...datastructure.EdgeRecord) *View {
	t.Helper()
	g, err := graphbuilder.NewBuilder(graphbuilder.WithBaseOffset(offset)).BuildFromRecords(edges)
	require.NoError(t, err)
	table, err := sssp.NewEngine(g).Run(context.Background(), source)
	require.NoError(t, err)
	return New(table, g.BaseOffset)
}

func e(from, to int64, w float64) datastructure.EdgeRecord {
	return datastructure.NewEdgeRecord(from, to, w, 0)
}

func collect(v *View) []Entry {
	out := []Entry{}
	for u, d := range v.Reachable() {
		out = append(out, Entry{Vertex: u, Distance: d})
	}
	return out
}

func TestReachableExcludesUnreached(t *testing.T) {
	view := runView(t, 0, 0, e(0, 1, 5), e(2, 2, 1))

	want := []Entry{{0, 0}, {1, 5}}
	assert.Equal(t, want, collect(view))
	// restartable
	assert.Equal(t, want, collect(view))
	assert.Equal(t, 2, view.ReachableCount())
}

func TestReachableEarlyBreak(t *testing.T) {
	view := runView(t, 0, 0, e(0, 1, 1), e(0, 2, 2), e(0, 3, 3))

	seen := 0
	for range view.Reachable() {
		seen++
		if seen == 2 {
			break
		}
	}
	assert.Equal(t, 2, seen)
}

func TestNearestExcludingSource(t *testing.T) {
	view := runView(t, 0, 0, e(0, 2, 100), e(0, 1, 10), e(1, 2, 20))

	nearest, err := view.NearestExcludingSource(2)
	require.NoError(t, err)
	assert.Equal(t, []Entry{{1, 10}, {2, 30}}, nearest)

	nearest, err = view.Nearest(2)
	require.NoError(t, err)
	assert.Equal(t, []Entry{{0, 0}, {1, 10}}, nearest)
}

func TestNearestFarthestTies(t *testing.T) {
	view := runView(t, 0, 0, e(0, 3, 4), e(0, 1, 4), e(0, 2, 1), e(0, 4, 9), e(0, 5, 9))

	nearest, err := view.Nearest(4)
	require.NoError(t, err)
	assert.Equal(t, []Entry{{0, 0}, {2, 1}, {1, 4}, {3, 4}}, nearest)

	farthest, err := view.Farthest(3)
	require.NoError(t, err)
	assert.Equal(t, []Entry{{4, 9}, {5, 9}, {1, 4}}, farthest)
}

func TestNearestFarthestBounds(t *testing.T) {
	view := runView(t, 0, 0, e(0, 1, 1), e(0, 2, 2), e(3, 3, 0))

	got, err := view.Nearest(0)
	require.NoError(t, err)
	assert.Empty(t, got)

	got, err = view.Farthest(0)
	require.NoError(t, err)
	assert.Empty(t, got)

	got, err = view.Nearest(100)
	require.NoError(t, err)
	assert.Len(t, got, 3)

	got, err = view.Farthest(100)
	require.NoError(t, err)
	assert.Len(t, got, 3)

	_, err = view.Nearest(-1)
	assert.ErrorIs(t, err, ErrNegativeK)
	_, err = view.Farthest(-5)
	assert.ErrorIs(t, err, ErrNegativeK)
}

func TestNearestFarthestInverseOrder(t *testing.T) {
	view := runView(t, 0, 0,
		e(0, 1, 7), e(0, 2, 3), e(2, 3, 3), e(1, 4, 0.5), e(3, 5, 10), e(5, 6, 1))

	k := view.ReachableCount()
	nearest, err := view.Nearest(k)
	require.NoError(t, err)
	farthest, err := view.Farthest(k)
	require.NoError(t, err)

	slices.SortFunc(nearest, ascending)
	slices.SortFunc(farthest, descending)
	slices.Reverse(farthest)

	distN := make([]float64, len(nearest))
	distF := make([]float64, len(farthest))
	for i := range nearest {
		distN[i] = nearest[i].Distance
		distF[i] = farthest[i].Distance
	}
	assert.Equal(t, distN, distF)
}

func TestToRecordsRoundTrip(t *testing.T) {
	// one-based input ids 1..4
	view := runView(t, 1, 0, e(1, 2, 10), e(2, 4, 5), e(3, 3, 0))

	records := view.Records()
	assert.Equal(t, []Record{{1, 0}, {2, 10}, {4, 15}}, records)
	assert.Equal(t, int64(1), view.ExternalSource())

	// shifting does not touch the table
	assert.Equal(t, []Record{{0, 0}, {1, 10}, {3, 15}}, view.ToRecords(0))
	assert.Equal(t, []Record{{1, 0}, {2, 10}, {4, 15}}, view.Records())

	nearest, err := view.NearestExcludingSource(1)
	require.NoError(t, err)
	assert.Equal(t, []Record{{2, 10}}, view.ToExternal(nearest))
}
