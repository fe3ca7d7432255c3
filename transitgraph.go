// Package transitgraph is the root orchestration package: it wires the
// OSM walking-layer loader, the GTFS loader, the graph assembler and
// the query engine into the seven operations of spec.md §6, the way
// the teacher's own package.go wires its scraper/geocoder/server
// sub-packages behind a single ChinaGTFSServer facade.
package transitgraph

import (
	"tgrcode.com/transitgraph/common"
	"tgrcode.com/transitgraph/gtfsload"
	"tgrcode.com/transitgraph/osmload"
	"tgrcode.com/transitgraph/query"
	"tgrcode.com/transitgraph/tdgraph"
)

// Graph is the opaque handle returned by CreateGraph, per spec.md §6.
type Graph struct {
	g *tdgraph.Graph
}

// Node mirrors tdgraph.Node for external callers, keeping tdgraph's
// internal types out of this package's public surface.
type Node struct {
	Kind tdgraph.NodeKind
	ID   string
	Lat  float64
	Lon  float64
}

// ODPoint is a labeled query point for ODMatrix.
type ODPoint = query.ODPoint

// NoPath is the sentinel weight SPWeight returns for an unreachable
// destination, per spec.md §4.3's failure semantics.
const NoPath = query.NoPath

// CreateGraph parses gtfsPath and pbfPath, filters GTFS trips to
// weekday and the window [departure, departure+duration), and
// assembles a fresh Graph, per spec.md §6's create_graph operation.
func CreateGraph(gtfsPath, pbfPath string, departure, duration int, weekday string, sink common.Sink) (*Graph, error) {
	if sink == nil {
		sink = common.DefaultSink
	}

	osmGraph, err := osmload.Load(pbfPath, sink)
	if err != nil {
		return nil, err
	}

	window := gtfsload.Window{DepartureS: departure, DurationS: duration}
	gtfsData, err := gtfsload.Load(gtfsPath, window, weekday, sink)
	if err != nil {
		return nil, err
	}

	g, err := tdgraph.Build(osmGraph, gtfsData, sink)
	if err != nil {
		return nil, err
	}
	return &Graph{g: g}, nil
}

// ExtendWithTransit reuses graph's existing street layer and stops,
// adding only new Transit edges and any new Stop nodes required by the
// GTFS feed at gtfsPath, per spec.md §6's extend_with_transit
// operation. Prior node indices are preserved.
func ExtendWithTransit(graph *Graph, gtfsPath string, departure, duration int, weekday string, sink common.Sink) error {
	if sink == nil {
		sink = common.DefaultSink
	}

	window := gtfsload.Window{DepartureS: departure, DurationS: duration}
	gtfsData, err := gtfsload.Load(gtfsPath, window, weekday, sink)
	if err != nil {
		return err
	}
	return tdgraph.ExtendWithTransit(graph.g, gtfsData, sink)
}

// SSSPWeights computes the earliest arrival delay, in seconds, from
// (lat, lon) departing at t0 to every reachable node, per spec.md §6's
// sssp_weights operation.
func SSSPWeights(graph *Graph, t0 float64, lat, lon float64) (map[int]float64, error) {
	return query.SSSPWeights(graph.g, t0, lat, lon)
}

// SPWeight computes the travel time in seconds from (srcLat, srcLon) to
// (dstLat, dstLon) departing at t0, or NoPath if unreachable, per
// spec.md §6's sp_weight operation.
func SPWeight(graph *Graph, t0 float64, srcLat, srcLon, dstLat, dstLon float64) (float64, error) {
	return query.SPWeight(graph.g, t0, srcLat, srcLon, dstLat, dstLon)
}

// SPPath reconstructs the ordered node-index path from (srcLat,
// srcLon) to (dstLat, dstLon), or an empty sequence if unreachable,
// per spec.md §6's sp_path operation.
func SPPath(graph *Graph, t0 float64, srcLat, srcLon, dstLat, dstLon float64) ([]int, error) {
	return query.SPPath(graph.g, t0, srcLat, srcLon, dstLat, dstLon)
}

// ODMatrix runs sssp_weights for every point in points (each acting as
// both a source and a target) and collects the results into
// {source_id: {target_id: seconds}}, per spec.md §6's od_matrix
// operation.
func ODMatrix(graph *Graph, t0 float64, points []ODPoint) (map[string]map[string]float64, error) {
	return query.ODMatrix(graph.g, t0, points)
}

// GetNode returns the node at index, per spec.md §6's get_node
// operation.
func GetNode(graph *Graph, index int) (Node, bool) {
	n, ok := graph.g.GetNode(index)
	if !ok {
		return Node{}, false
	}
	return Node{Kind: n.Kind, ID: n.ID, Lat: n.Lat, Lon: n.Lon}, true
}
