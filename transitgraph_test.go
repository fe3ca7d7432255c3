package transitgraph

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tgrcode.com/transitgraph/common"
	"tgrcode.com/transitgraph/gtfsload"
	"tgrcode.com/transitgraph/osmload"
	"tgrcode.com/transitgraph/tdgraph"
)

// newTestGraph builds a Graph directly from in-memory fixtures,
// bypassing CreateGraph's file I/O, mirroring spec.md §8 S1's 3-node
// street graph (A-B=100m, B-C=200m).
func newTestGraph(t *testing.T) *Graph {
	t.Helper()
	osmGraph := &osmload.Graph{
		Nodes: []osmload.Node{
			{OSMID: 1, Lat: 0, Lon: 0},
			{OSMID: 2, Lat: 0, Lon: 0.0009},
			{OSMID: 3, Lat: 0, Lon: 0.0027},
		},
		Edges: []osmload.Edge{
			{A: 0, B: 1, Meters: 100},
			{A: 1, B: 2, Meters: 200},
		},
	}
	g, err := tdgraph.Build(osmGraph, &gtfsload.Data{}, common.StdSink{})
	require.NoError(t, err)
	return &Graph{g: g}
}

func TestSPWeightDelegatesToQueryEngine(t *testing.T) {
	graph := newTestGraph(t)

	w, err := SPWeight(graph, 0, 0, 0, 0, 0.0027)
	require.NoError(t, err)
	assert.InDelta(t, 300/1.39, w, 0.01)
}

func TestGetNodeReturnsKindAndCoordinates(t *testing.T) {
	graph := newTestGraph(t)

	n, ok := GetNode(graph, 0)
	require.True(t, ok)
	assert.Equal(t, tdgraph.NodeStreet, n.Kind)
	assert.Equal(t, 0.0, n.Lat)
	assert.Equal(t, 0.0, n.Lon)
}

func TestGetNodeOutOfRange(t *testing.T) {
	graph := newTestGraph(t)

	_, ok := GetNode(graph, 999)
	assert.False(t, ok)
}

func TestODMatrixViaRootPackage(t *testing.T) {
	graph := newTestGraph(t)

	points := []ODPoint{
		{ID: "a", Lat: 0, Lon: 0},
		{ID: "c", Lat: 0, Lon: 0.0027},
		{ID: "off-node", Lat: 0.0001, Lon: 0.0001},
	}
	m, err := ODMatrix(graph, 0, points)
	require.NoError(t, err)
	assert.Equal(t, 0.0, m["a"]["a"])
	assert.Equal(t, 0.0, m["off-node"]["off-node"])
	assert.InDelta(t, 300/1.39, m["a"]["c"], 0.01)
}
