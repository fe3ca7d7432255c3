package tdgraph

import "tgrcode.com/transitgraph/spatial"

type edgeKey struct {
	From, To int32
}

type edgeLoc struct {
	node int32 // source node index
	pos  int   // position within Adj[node]
}

// Graph is the immutable (except for extend_with_transit) transit
// graph: V = Stop ∪ Street nodes, E partitioned into Walk and Transit
// edges. Adjacency is a vector-of-adjacency-lists (Adj[i] holds every
// edge leaving node i); Transit edges reference a shared schedule
// arena via (offset, length) so a schedule's binary search touches one
// contiguous, cache-friendly region.
type Graph struct {
	Nodes    []Node
	Adj      [][]Edge
	Schedule []SchedulePair

	streetIndex *spatial.Index

	stopIndex      map[string]int32
	transitEdgeLoc map[edgeKey]edgeLoc
}

// NumNodes reports |V|.
func (g *Graph) NumNodes() int {
	return len(g.Nodes)
}

// GetNode returns the node at index, per the external get_node
// operation (spec.md §6).
func (g *Graph) GetNode(index int) (Node, bool) {
	if index < 0 || index >= len(g.Nodes) {
		return Node{}, false
	}
	return g.Nodes[index], true
}

// StreetIndexNearestOne snaps (lat, lon) to the nearest street node,
// returning its index and the haversine distance in meters. ok is
// false when the graph has no street nodes to snap to.
func (g *Graph) StreetIndexNearestOne(lat, lon float64) (int, float64, bool) {
	if g.streetIndex == nil {
		return 0, 0, false
	}
	return g.streetIndex.NearestOne(lat, lon)
}

// ScheduleOf returns the (read-only) schedule slice for a Transit edge.
func (g *Graph) ScheduleOf(e Edge) []SchedulePair {
	if e.Kind != EdgeTransit {
		return nil
	}
	return g.Schedule[e.SchedOffset : e.SchedOffset+e.SchedLen]
}

func newGraph() *Graph {
	return &Graph{
		stopIndex:      make(map[string]int32),
		transitEdgeLoc: make(map[edgeKey]edgeLoc),
	}
}

func (g *Graph) addNode(n Node) int32 {
	idx := int32(len(g.Nodes))
	g.Nodes = append(g.Nodes, n)
	g.Adj = append(g.Adj, nil)
	return idx
}

func (g *Graph) addWalkEdge(from, to int32, seconds float64) {
	g.Adj[from] = append(g.Adj[from], Edge{To: to, Kind: EdgeWalk, WalkSeconds: seconds})
}
