package geo_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/careseeker/careseeker-backend/pkg/geo"
)

func TestDistance_Symmetry(t *testing.T) {
	// London and Manchester city centres
	d1 := geo.Distance(51.5074, -0.1278, 53.4808, -2.2426)
	d2 := geo.Distance(53.4808, -2.2426, 51.5074, -0.1278)

	assert.Equal(t, d1, d2)
}

func TestDistance_SamePointIsZero(t *testing.T) {
	assert.Equal(t, 0.0, geo.Distance(51.5074, -0.1278, 51.5074, -0.1278))
}

func TestDistance_KnownValue(t *testing.T) {
	// London to Manchester is roughly 262 km great-circle
	d := geo.Distance(51.5074, -0.1278, 53.4808, -2.2426)
	assert.InDelta(t, 262.0, d, 2.0)
}

func TestDistance_OneDegreeLatitude(t *testing.T) {
	// One degree of latitude is ~111.19 km on a 6371 km sphere
	d := geo.Distance(50.0, 0.0, 51.0, 0.0)
	assert.InDelta(t, 111.19, d, 0.05)
}

func TestMilesToKm(t *testing.T) {
	assert.InDelta(t, 16.0934, geo.MilesToKm(10), 1e-9)
	assert.Equal(t, 0.0, geo.MilesToKm(0))
}
