// Package tdgraph holds the time-dependent multimodal graph's data
// model and the Assembler that builds it from a walking street graph
// and filtered GTFS data.
package tdgraph

import (
	"fmt"
	"sort"
	"strconv"

	"tgrcode.com/transitgraph/common"
	"tgrcode.com/transitgraph/gtfsload"
	"tgrcode.com/transitgraph/osmload"
	"tgrcode.com/transitgraph/spatial"
)

// Build assembles a fresh Graph from a walking street graph and a
// filtered GTFS feed, per spec.md §4.2.
func Build(osmGraph *osmload.Graph, gtfsData *gtfsload.Data, sink common.Sink) (*Graph, error) {
	if sink == nil {
		sink = common.DefaultSink
	}

	g := newGraph()

	// Step 1+2: insert street nodes, then two directed Walk edges per
	// undirected OSM edge.
	for _, n := range osmGraph.Nodes {
		g.addNode(Node{Kind: NodeStreet, ID: strconv.FormatInt(int64(n.OSMID), 10), Lat: n.Lat, Lon: n.Lon})
	}
	for _, e := range osmGraph.Edges {
		seconds := common.WalkSeconds(e.Meters)
		g.addWalkEdge(int32(e.A), int32(e.B), seconds)
		g.addWalkEdge(int32(e.B), int32(e.A), seconds)
	}

	points := make([]spatial.Point, len(osmGraph.Nodes))
	for i, n := range osmGraph.Nodes {
		points[i] = spatial.Point{Lat: n.Lat, Lon: n.Lon}
	}
	g.streetIndex = spatial.Build(points)

	if err := mergeTransit(g, gtfsData, sink); err != nil {
		return nil, err
	}
	return g, nil
}

// ExtendWithTransit reuses g's existing street layer and previously
// inserted stops, adding only new Transit edges and any new Stop nodes
// required by gtfsData. Prior node indices are never changed. Per
// spec.md §4.2, this may only add edges, never remove.
func ExtendWithTransit(g *Graph, gtfsData *gtfsload.Data, sink common.Sink) error {
	if sink == nil {
		sink = common.DefaultSink
	}
	return mergeTransit(g, gtfsData, sink)
}

// mergeTransit implements steps 3-5 of spec.md §4.2, shared by Build
// (against a freshly street-populated graph) and ExtendWithTransit
// (against an already-assembled one).
func mergeTransit(g *Graph, gtfsData *gtfsload.Data, sink common.Sink) error {
	if err := snapStops(g, gtfsData.Stops, sink); err != nil {
		return err
	}

	pending := make(map[edgeKey][]SchedulePair)
	for _, trip := range gtfsData.Trips {
		for i := 0; i+1 < len(trip.StopTimes); i++ {
			a, b := trip.StopTimes[i], trip.StopTimes[i+1]
			fromIdx, ok := g.stopIndex[a.StopID]
			if !ok {
				return common.InternalInvariant(fmt.Sprintf("trip %s references unknown stop %s", trip.ID, a.StopID))
			}
			toIdx, ok := g.stopIndex[b.StopID]
			if !ok {
				return common.InternalInvariant(fmt.Sprintf("trip %s references unknown stop %s", trip.ID, b.StopID))
			}

			key := edgeKey{fromIdx, toIdx}
			pending[key] = append(pending[key], SchedulePair{DepS: int64(a.DepartureS), ArrS: int64(b.ArrivalS)})
		}
	}

	for key, pairs := range pending {
		if err := mergeEdgeSchedule(g, key, pairs); err != nil {
			return err
		}
	}
	return nil
}

// snapStops inserts any stop in stops not already present in g.stopIndex
// as a new Stop node, connected both ways to its nearest street node by
// a Walk edge.
func snapStops(g *Graph, stops []gtfsload.Stop, sink common.Sink) error {
	for _, s := range stops {
		if _, ok := g.stopIndex[s.ID]; ok {
			continue
		}

		streetIdx, distMeters, ok := g.streetIndex.NearestOne(s.Lat, s.Lon)
		if !ok {
			return common.DisconnectedStop(s.ID)
		}

		stopIdx := g.addNode(Node{Kind: NodeStop, ID: s.ID, Lat: s.Lat, Lon: s.Lon})
		seconds := common.WalkSeconds(distMeters)
		g.addWalkEdge(stopIdx, int32(streetIdx), seconds)
		g.addWalkEdge(int32(streetIdx), stopIdx, seconds)

		g.stopIndex[s.ID] = stopIdx
	}
	_ = sink
	return nil
}

// mergeEdgeSchedule appends newPairs to the Transit edge (key.From ->
// key.To), creating it if absent, merging with any pairs it already
// carries, then re-sorting and re-validating the whole schedule. The
// merged schedule is written to the tail of the arena and the edge's
// (offset, length) is updated — the old region, if any, is left behind
// as dead arena space rather than moved in place, which keeps the
// arena append-only.
func mergeEdgeSchedule(g *Graph, key edgeKey, newPairs []SchedulePair) error {
	loc, exists := g.transitEdgeLoc[key]

	var merged []SchedulePair
	if exists {
		existing := g.Adj[loc.node][loc.pos]
		merged = append(merged, g.ScheduleOf(existing)...)
	}
	merged = append(merged, newPairs...)

	sort.Slice(merged, func(i, j int) bool { return merged[i].DepS < merged[j].DepS })
	for _, p := range merged {
		if p.DepS > p.ArrS {
			return common.InternalInvariant(fmt.Sprintf("schedule pair dep_t=%d > arr_t=%d on edge %d->%d", p.DepS, p.ArrS, key.From, key.To))
		}
	}

	offset := int32(len(g.Schedule))
	g.Schedule = append(g.Schedule, merged...)
	newEdge := Edge{To: key.To, Kind: EdgeTransit, SchedOffset: offset, SchedLen: int32(len(merged))}

	if exists {
		g.Adj[loc.node][loc.pos] = newEdge
	} else {
		pos := len(g.Adj[key.From])
		g.Adj[key.From] = append(g.Adj[key.From], newEdge)
		g.transitEdgeLoc[key] = edgeLoc{node: key.From, pos: pos}
	}
	return nil
}
