package common

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestWalkSeconds(t *testing.T) {
	for _, tc := range []struct {
		name   string
		meters float64
		want   float64
	}{
		{"hundred_meters", 100, 100 / 1.39},
		{"zero", 0, 0},
	} {
		t.Run(tc.name, func(t *testing.T) {
			assert.InDelta(t, tc.want, WalkSeconds(tc.meters), 1e-9)
		})
	}
}

func TestHaversineMetersSamePoint(t *testing.T) {
	d := HaversineMeters(39.9, 116.4, 39.9, 116.4)
	assert.InDelta(t, 0, d, 1e-6)
}

func TestHaversineMetersKnownDistance(t *testing.T) {
	// Roughly 1 degree of latitude is ~111.2km near the equator.
	d := HaversineMeters(0, 0, 1, 0)
	assert.InDelta(t, 111195, d, 500)
}
