package geo

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBoxAroundContainsCenter(t *testing.T) {
	box := BoxAround(40.4168, -3.7038, 5)
	assert.True(t, box.Contains(40.4168, -3.7038))
}

func TestBoxAroundExcludesFarPoints(t *testing.T) {
	// A point well outside radius × 1.5 must fall outside the box.
	box := BoxAround(40.0, -3.0, 5)
	farLat := 40.0 + (5*1.5)/111.0*2
	assert.False(t, box.Contains(farLat, -3.0))
}

func TestBoxAroundWidensWithLatitude(t *testing.T) {
	equator := BoxAround(0, 0, 10)
	north := BoxAround(60, 0, 10)
	// One longitude degree shrinks toward the poles, so the box must span
	// more degrees at 60°N than at the equator.
	assert.Greater(t,
		north.MaxLng-north.MinLng,
		equator.MaxLng-equator.MinLng)
}

func TestBoxAroundNearPole(t *testing.T) {
	box := BoxAround(90, 0, 10)
	assert.True(t, box.Contains(89.99, 179.0))
	assert.True(t, box.Contains(89.99, -179.0))
}

func TestDistanceKm(t *testing.T) {
	assert.InDelta(t, 0, DistanceKm(40.0, -3.0, 40.0, -3.0), 1e-9)

	// One degree of latitude is about 111 km.
	assert.InDelta(t, 111.2, DistanceKm(40.0, -3.0, 41.0, -3.0), 0.5)

	// Madrid to Barcelona, roughly 505 km.
	assert.InDelta(t, 505, DistanceKm(40.4168, -3.7038, 41.3874, 2.1686), 5)
}

func TestDistanceSymmetric(t *testing.T) {
	d1 := DistanceKm(40.4, -3.7, 48.85, 2.35)
	d2 := DistanceKm(48.85, 2.35, 40.4, -3.7)
	assert.InDelta(t, d1, d2, 1e-9)
}
