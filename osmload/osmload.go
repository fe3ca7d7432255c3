// Package osmload parses an OpenStreetMap PBF extract into a walking
// road graph: nodes with (lat, lon), undirected edges with length in
// meters. It does not re-filter way tags beyond the presence of a
// "highway" key; a pre-filtered extract is recommended but not required.
package osmload

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/paulmach/osm"
	"github.com/paulmach/osm/osmpbf"

	"tgrcode.com/transitgraph/common"
)

// Node is a street-network vertex, as read from the PBF.
type Node struct {
	OSMID osm.NodeID
	Lat   float64
	Lon   float64
}

// Edge is an undirected street segment connecting two nodes by index
// into Graph.Nodes, with its length in meters.
type Edge struct {
	A, B   int
	Meters float64
}

// Graph is the raw walking-layer output of the OSM loader, before the
// assembler folds it into the transit graph.
type Graph struct {
	Nodes []Node
	Edges []Edge
}

type wayInfo struct {
	nodeIDs []osm.NodeID
}

// Load parses a PBF file at path into a walking Graph. Nodes not
// referenced by any retained edge are dropped, per the spec.
func Load(path string, sink common.Sink) (*Graph, error) {
	if sink == nil {
		sink = common.DefaultSink
	}

	rs, err := os.Open(path)
	if err != nil {
		return nil, common.IoError(fmt.Sprintf("opening %s", path), err)
	}
	defer rs.Close()

	ctx := context.Background()

	// Pass 1: scan ways, keep only those carrying a "highway" tag (any
	// value), collect the set of node IDs they reference.
	referenced := make(map[osm.NodeID]struct{})
	var ways []wayInfo

	scanner := osmpbf.New(ctx, rs, 1)
	scanner.SkipNodes = true
	scanner.SkipRelations = true

	for scanner.Scan() {
		obj := scanner.Object()
		w, ok := obj.(*osm.Way)
		if !ok {
			continue
		}
		if w.Tags.Find("highway") == "" {
			continue
		}
		if len(w.Nodes) < 2 {
			continue
		}

		ids := make([]osm.NodeID, len(w.Nodes))
		for i, wn := range w.Nodes {
			ids[i] = wn.ID
			referenced[wn.ID] = struct{}{}
		}
		ways = append(ways, wayInfo{nodeIDs: ids})
	}
	if err := scanner.Err(); err != nil {
		scanner.Close()
		return nil, common.InvalidPbf(fmt.Errorf("pass 1 (ways): %w", err))
	}
	scanner.Close()

	sink.Infof("osmload: pass 1 complete, %d highway ways, %d referenced nodes", len(ways), len(referenced))

	// Pass 2: rewind and scan nodes, keeping only coordinates for
	// referenced node IDs.
	if _, err := rs.Seek(0, io.SeekStart); err != nil {
		return nil, common.IoError("seeking for pass 2", err)
	}

	nodeIndex := make(map[osm.NodeID]int, len(referenced))
	nodes := make([]Node, 0, len(referenced))

	scanner = osmpbf.New(ctx, rs, 1)
	scanner.SkipWays = true
	scanner.SkipRelations = true

	for scanner.Scan() {
		obj := scanner.Object()
		n, ok := obj.(*osm.Node)
		if !ok {
			continue
		}
		if _, needed := referenced[n.ID]; !needed {
			continue
		}
		nodeIndex[n.ID] = len(nodes)
		nodes = append(nodes, Node{OSMID: n.ID, Lat: n.Lat, Lon: n.Lon})
	}
	if err := scanner.Err(); err != nil {
		scanner.Close()
		return nil, common.InvalidPbf(fmt.Errorf("pass 2 (nodes): %w", err))
	}
	scanner.Close()

	sink.Infof("osmload: pass 2 complete, %d node coordinates collected", len(nodes))

	edges, skipped := buildEdges(ways, nodes, nodeIndex)
	if skipped > 0 {
		sink.Warnf("osmload: skipped %d way segments with missing node coordinates", skipped)
	}

	nodes, edges, dropped := dropOrphanNodes(nodes, edges)
	if dropped > 0 {
		sink.Warnf("osmload: dropped %d nodes with no retained incident edge", dropped)
	}

	return &Graph{Nodes: nodes, Edges: edges}, nil
}

// buildEdges turns each way's consecutive node pairs into undirected
// edges, summing Haversine distance between hops so a shaped way's
// length reflects its geometry, not just its endpoints. Way segments
// referencing a node with no known coordinate are skipped and counted.
func buildEdges(ways []wayInfo, nodes []Node, nodeIndex map[osm.NodeID]int) ([]Edge, int) {
	var edges []Edge
	var skipped int
	for _, w := range ways {
		for i := 0; i < len(w.nodeIDs)-1; i++ {
			aIdx, aOK := nodeIndex[w.nodeIDs[i]]
			bIdx, bOK := nodeIndex[w.nodeIDs[i+1]]
			if !aOK || !bOK {
				skipped++
				continue
			}
			a, b := nodes[aIdx], nodes[bIdx]
			meters := common.HaversineMeters(a.Lat, a.Lon, b.Lat, b.Lon)
			edges = append(edges, Edge{A: aIdx, B: bIdx, Meters: meters})
		}
	}
	return edges, skipped
}

// dropOrphanNodes removes nodes with no incident edge and remaps edges'
// A/B indices to the compacted node slice, per the Load doc comment's
// "nodes not referenced by any retained edge are dropped" contract.
func dropOrphanNodes(nodes []Node, edges []Edge) ([]Node, []Edge, int) {
	incident := make([]bool, len(nodes))
	for _, e := range edges {
		incident[e.A] = true
		incident[e.B] = true
	}

	remap := make([]int, len(nodes))
	kept := make([]Node, 0, len(nodes))
	dropped := 0
	for i, n := range nodes {
		if !incident[i] {
			remap[i] = -1
			dropped++
			continue
		}
		remap[i] = len(kept)
		kept = append(kept, n)
	}
	if dropped == 0 {
		return nodes, edges, 0
	}

	remappedEdges := make([]Edge, len(edges))
	for i, e := range edges {
		remappedEdges[i] = Edge{A: remap[e.A], B: remap[e.B], Meters: e.Meters}
	}
	return kept, remappedEdges, dropped
}
