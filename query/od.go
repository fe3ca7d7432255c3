package query

import (
	"runtime"

	"golang.org/x/sync/errgroup"

	"tgrcode.com/transitgraph/tdgraph"
)

// ODPoint is one labeled point of an OD-matrix request: an arbitrary
// (lat, lon) query location tagged with the id it should be reported
// under in the result.
type ODPoint struct {
	ID       string
	Lat, Lon float64
}

// ODMatrix runs one sssp_weights per point in points, treating every
// point as both a source and a target, per spec.md §4.4. The result is
// `{source_id: {target_id: seconds}}`; an unreachable (source, target)
// pair is omitted from the inner map rather than reported as NoPath,
// matching sssp_weights' "only reachable nodes present" contract.
// Sources are resolved and searched concurrently with a worker pool
// bounded to runtime.NumCPU(); target snap points are precomputed once
// before fan-out. The result is written into one map per source keyed
// by id, so it is independent of goroutine completion order.
func ODMatrix(g *tdgraph.Graph, t0 float64, points []ODPoint) (map[string]map[string]float64, error) {
	targetNodes := make([]int32, len(points))
	exitDelays := make([]float64, len(points))
	for j, p := range points {
		idx, delay, err := entryNode(g, p.Lat, p.Lon, 0)
		if err != nil {
			return nil, err
		}
		targetNodes[j] = idx
		exitDelays[j] = delay
	}

	rows := make([]map[string]float64, len(points))

	var eg errgroup.Group
	eg.SetLimit(runtime.NumCPU())

	for i, src := range points {
		i, src := i, src
		eg.Go(func() error {
			srcNode, adjustedT0, err := entryNode(g, src.Lat, src.Lon, t0)
			if err != nil {
				return err
			}

			s := newScratch(g.NumNodes())
			runDijkstra(g, s, srcNode, adjustedT0, -1)

			row := make(map[string]float64, len(points))
			for j, tgtNode := range targetNodes {
				if points[j].Lat == src.Lat && points[j].Lon == src.Lon {
					// Same point as both source and target: no walking
					// and no graph traversal needed, regardless of how
					// far it sits from the nearest street node. s.best
					// at the source's own node never improves on its
					// seed value, so the generic formula below would
					// otherwise double-count the entry/exit walk.
					row[points[j].ID] = 0
					continue
				}
				if s.best[tgtNode] == NoPath {
					continue
				}
				row[points[j].ID] = (s.best[tgtNode] + exitDelays[j]) - t0
			}
			rows[i] = row
			return nil
		})
	}

	if err := eg.Wait(); err != nil {
		return nil, err
	}

	result := make(map[string]map[string]float64, len(points))
	for i, p := range points {
		result[p.ID] = rows[i]
	}
	return result, nil
}
