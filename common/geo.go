package common

import (
	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geo"
)

// WalkSpeedMPS is the fixed pedestrian speed used to convert a walking
// distance in meters into walking seconds: 5 km/h. This is a documented
// parameter of the model, not user-tunable, per the spec.
const WalkSpeedMPS = 1.39

// HaversineMeters returns the great-circle distance, in meters, between
// two (lat, lon) points. orb.Point is (X=lon, Y=lat); callers in this
// codebase always think in (lat, lon), so the conversion happens here
// once instead of at every call site.
func HaversineMeters(lat1, lon1, lat2, lon2 float64) float64 {
	a := orb.Point{lon1, lat1}
	b := orb.Point{lon2, lat2}
	return geo.DistanceHaversine(a, b)
}

// WalkSeconds converts a walking distance in meters into walking seconds
// at the fixed pedestrian speed.
func WalkSeconds(meters float64) float64 {
	return meters / WalkSpeedMPS
}
