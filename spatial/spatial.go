// Package spatial provides an immutable nearest-neighbor index over
// (lat, lon) points, used both to snap GTFS stops onto the street graph
// during assembly and to snap arbitrary query points at query time.
package spatial

import (
	"math"

	"github.com/tidwall/rtree"

	"tgrcode.com/transitgraph/common"
)

// Index is an R-tree over the (lat, lon) of a fixed set of points,
// identified by their position in the slice passed to Build. It is
// immutable after construction: no Insert/Delete is exposed.
type Index struct {
	tree   rtree.RTreeG[int]
	points []Point
}

// Point is a (lat, lon) coordinate. Its position in the slice passed to
// Build is the index NearestOne reports for it.
type Point struct {
	Lat, Lon float64
}

// Build constructs an Index over points. The index of each point in the
// returned Index corresponds to its index in the input slice.
func Build(points []Point) *Index {
	idx := &Index{points: points}
	for i, p := range points {
		box := [2]float64{p.Lat, p.Lon}
		idx.tree.Insert(box, box, i)
	}
	return idx
}

// Len reports how many points the index holds.
func (idx *Index) Len() int {
	return len(idx.points)
}

// NearestOne returns the index (into the slice passed to Build) of the
// point closest to (lat, lon), its Haversine distance in meters, and
// whether the index is non-empty. Candidate ranking inside the tree
// uses planar (lat, lon) Euclidean distance; the final reported
// distance is recomputed with Haversine, per spec.md §4.5 — the two
// metrics can disagree for very close candidates but the resulting
// spatial error is bounded well below one node spacing.
func (idx *Index) NearestOne(lat, lon float64) (int, float64, bool) {
	if len(idx.points) == 0 {
		return 0, 0, false
	}

	best := -1
	var bestDist float64

	algo := func(min, max [2]float64, data int, item bool) float64 {
		// Planar squared distance from (lat, lon) to the box: zero inside
		// it, exact for the degenerate point boxes of items.
		dLat := math.Max(0, math.Max(min[0]-lat, lat-max[0]))
		dLon := math.Max(0, math.Max(min[1]-lon, lon-max[1]))
		return dLat*dLat + dLon*dLon
	}

	idx.tree.Nearby(algo, func(min, max [2]float64, data int, item bool) bool {
		if !item {
			return true
		}
		p := idx.points[data]
		d := common.HaversineMeters(lat, lon, p.Lat, p.Lon)
		if best == -1 || d < bestDist {
			best = data
			bestDist = d
		}
		// The planar-ranked first candidate is the nearest under the
		// tree's own metric; take it and stop, per spec.md §4.5's
		// expected O(log n) nearest_one contract.
		return false
	})

	if best == -1 {
		return 0, 0, false
	}
	return best, bestDist, true
}
