package query

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tgrcode.com/transitgraph/common"
	"tgrcode.com/transitgraph/gtfsload"
	"tgrcode.com/transitgraph/osmload"
	"tgrcode.com/transitgraph/tdgraph"
)

// TestODMatrixDeterministic covers spec.md §8 S5: the OD matrix is
// computed concurrently across sources, but must be written into the
// same per-source map regardless of goroutine scheduling order, so
// repeated runs against the same inputs compare equal.
func TestODMatrixDeterministic(t *testing.T) {
	g, err := tdgraph.Build(threeNodeStreet(), &gtfsload.Data{}, common.StdSink{})
	require.NoError(t, err)

	points := []ODPoint{
		{ID: "a", Lat: 0, Lon: 0},
		{ID: "b", Lat: 0, Lon: 0.0009},
		{ID: "c", Lat: 0, Lon: 0.0027},
	}

	first, err := ODMatrix(g, 0, points)
	require.NoError(t, err)

	for i := 0; i < 10; i++ {
		again, err := ODMatrix(g, 0, points)
		require.NoError(t, err)
		assert.Equal(t, first, again, "repeated OD-matrix runs must be identical regardless of worker scheduling")
	}
}

// TestODMatrixDiagonalIsZero covers spec.md §8 S5: M[i][i] must be 0,
// including for a point that does not sit exactly on a street node's
// own coordinate (where the entry and exit walk penalties would
// otherwise double-count instead of cancelling).
func TestODMatrixDiagonalIsZero(t *testing.T) {
	g, err := tdgraph.Build(threeNodeStreet(), &gtfsload.Data{}, common.StdSink{})
	require.NoError(t, err)

	points := []ODPoint{
		{ID: "a", Lat: 0, Lon: 0},
		{ID: "b", Lat: 0, Lon: 0.0009},
		{ID: "c", Lat: 0, Lon: 0.0027},
		{ID: "off-node", Lat: 0.0001, Lon: 0.0001},
	}

	m, err := ODMatrix(g, 0, points)
	require.NoError(t, err)
	for _, p := range points {
		assert.Equal(t, 0.0, m[p.ID][p.ID])
	}
}

// TestODMatrixMatchesIndependentSPWeight covers spec.md §8 S5:
// M[i][j] must match an independent sp_weight(i -> j) call.
func TestODMatrixMatchesIndependentSPWeight(t *testing.T) {
	g, err := tdgraph.Build(threeNodeStreet(), &gtfsload.Data{}, common.StdSink{})
	require.NoError(t, err)

	a := ODPoint{ID: "a", Lat: 0, Lon: 0}
	c := ODPoint{ID: "c", Lat: 0, Lon: 0.0027}

	m, err := ODMatrix(g, 0, []ODPoint{a, c})
	require.NoError(t, err)

	direct, err := SPWeight(g, 0, a.Lat, a.Lon, c.Lat, c.Lon)
	require.NoError(t, err)

	assert.InDelta(t, direct, m[a.ID][c.ID], 1e-9)
}

func TestODMatrixUnreachableTargetOmitted(t *testing.T) {
	osm := &osmload.Graph{
		Nodes: []osmload.Node{
			{OSMID: 1, Lat: 0, Lon: 0},
			{OSMID: 2, Lat: 10, Lon: 10},
		},
	}
	g, err := tdgraph.Build(osm, &gtfsload.Data{}, common.StdSink{})
	require.NoError(t, err)

	points := []ODPoint{
		{ID: "near", Lat: 0, Lon: 0},
		{ID: "far", Lat: 10, Lon: 10},
	}

	m, err := ODMatrix(g, 0, points)
	require.NoError(t, err)
	_, ok := m["near"]["far"]
	assert.False(t, ok, "an unreachable target must be omitted, not reported as NoPath")
}
