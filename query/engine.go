// Package query implements the time-dependent Dijkstra engine
// (spec.md §4.3) and the OD-matrix driver (spec.md §4.4).
package query

import (
	"container/heap"
	"math"
	"sort"

	"tgrcode.com/transitgraph/common"
	"tgrcode.com/transitgraph/tdgraph"
)

// NoPath is the sentinel weight returned for an unreachable destination.
const NoPath = math.MaxFloat64

// scratch holds one query's working state: a min-heap keyed on
// tentative arrival time, the best-known arrival per node, and the
// predecessor used to reconstruct a path. Allocated per query; ODMatrix
// allocates a fresh one for every source rather than reusing one per
// worker.
type scratch struct {
	best []float64
	pred []int32
	h    arrivalHeap
}

func newScratch(n int) *scratch {
	best := make([]float64, n)
	pred := make([]int32, n)
	for i := range best {
		best[i] = NoPath
		pred[i] = -1
	}
	return &scratch{best: best, pred: pred}
}

func (s *scratch) reset() {
	for i := range s.best {
		s.best[i] = NoPath
		s.pred[i] = -1
	}
	s.h = s.h[:0]
}

// entryNode resolves an arbitrary (lat, lon) query point to the nearest
// street node and returns the adjusted departure time t0 plus the
// resolved node index, per spec.md §4.3's entry-node resolution.
func entryNode(g *tdgraph.Graph, lat, lon float64, t0 float64) (int32, float64, error) {
	idx, distMeters, ok := g.StreetIndexNearestOne(lat, lon)
	if !ok {
		return 0, 0, common.NoEntryPoint()
	}
	return int32(idx), t0 + common.WalkSeconds(distMeters), nil
}

// runDijkstra runs time-dependent Dijkstra from src at startT, relaxing
// edges per spec.md §4.3, optionally stopping early once target is
// settled (target < 0 disables early stop: run to exhaustion).
func runDijkstra(g *tdgraph.Graph, s *scratch, src int32, startT float64, target int32) {
	s.reset()
	s.best[src] = startT
	heap.Push(&s.h, heapItem{node: src, arrival: startT})

	for s.h.Len() > 0 {
		top := heap.Pop(&s.h).(heapItem)
		if top.arrival > s.best[top.node] {
			continue // stale entry, lazily deleted
		}
		if target >= 0 && top.node == target {
			return // EarlyStop: destination settled
		}

		for _, e := range g.Adj[top.node] {
			candidate, ok := relax(g, e, top.arrival)
			if !ok {
				continue
			}
			if candidate < s.best[e.To] {
				s.best[e.To] = candidate
				s.pred[e.To] = top.node
				heap.Push(&s.h, heapItem{node: e.To, arrival: candidate})
			}
		}
	}
}

// relax computes the candidate arrival time at e.To given the current
// arrival time tU at e's tail, per the edge-kind semantics of
// spec.md §3/§4.3. ok is false when a Transit edge has no valid
// departure at or after tU.
func relax(g *tdgraph.Graph, e tdgraph.Edge, tU float64) (float64, bool) {
	switch e.Kind {
	case tdgraph.EdgeWalk:
		return tU + e.WalkSeconds, true
	case tdgraph.EdgeTransit:
		sched := g.ScheduleOf(e)
		i := sort.Search(len(sched), func(i int) bool { return float64(sched[i].DepS) >= tU })
		if i == len(sched) {
			return 0, false
		}
		return float64(sched[i].ArrS), true
	default:
		return 0, false
	}
}

// SSSPWeights computes dist[v] = earliest arrival at v starting from
// (lat, lon) at t0, minus t0, for every reachable v. Only reachable
// nodes are present in the result, per spec.md §4.3.
func SSSPWeights(g *tdgraph.Graph, t0 float64, lat, lon float64) (map[int]float64, error) {
	src, adjustedT0, err := entryNode(g, lat, lon, t0)
	if err != nil {
		return nil, err
	}

	s := newScratch(g.NumNodes())
	runDijkstra(g, s, src, adjustedT0, -1)

	out := make(map[int]float64)
	for i, arrival := range s.best {
		if arrival == NoPath {
			continue
		}
		out[i] = arrival - t0
	}
	return out, nil
}

// SPWeight returns the travel time in seconds from (srcLat, srcLon) to
// (dstLat, dstLon) departing at t0, or NoPath if unreachable, per
// spec.md §4.3.
func SPWeight(g *tdgraph.Graph, t0 float64, srcLat, srcLon, dstLat, dstLon float64) (float64, error) {
	src, adjustedT0, err := entryNode(g, srcLat, srcLon, t0)
	if err != nil {
		return 0, err
	}
	if srcLat == dstLat && srcLon == dstLon {
		// A query point against itself needs no walking and no graph
		// traversal at all, regardless of how far it sits from the
		// nearest street node: the entry and exit legs would otherwise
		// double-count the same walk, since runDijkstra's early-stop
		// fires on the very first pop before src is ever relaxed.
		return 0, nil
	}
	dst, exitDelay, err := entryNode(g, dstLat, dstLon, 0)
	if err != nil {
		return 0, err
	}

	s := newScratch(g.NumNodes())
	runDijkstra(g, s, src, adjustedT0, dst)

	if s.best[dst] == NoPath {
		return NoPath, nil
	}
	return (s.best[dst] + exitDelay) - t0, nil
}

// SPPath reconstructs the ordered sequence of node indices from
// (srcLat, srcLon) to (dstLat, dstLon), or an empty sequence if
// unreachable.
func SPPath(g *tdgraph.Graph, t0 float64, srcLat, srcLon, dstLat, dstLon float64) ([]int, error) {
	src, adjustedT0, err := entryNode(g, srcLat, srcLon, t0)
	if err != nil {
		return nil, err
	}
	dst, _, err := entryNode(g, dstLat, dstLon, 0)
	if err != nil {
		return nil, err
	}

	s := newScratch(g.NumNodes())
	runDijkstra(g, s, src, adjustedT0, dst)

	if s.best[dst] == NoPath {
		return nil, nil
	}

	var path []int
	for n := dst; ; {
		path = append(path, int(n))
		if n == src {
			break
		}
		n = s.pred[n]
	}
	for i, j := 0, len(path)-1; i < j; i, j = i+1, j-1 {
		path[i], path[j] = path[j], path[i]
	}
	return path, nil
}
