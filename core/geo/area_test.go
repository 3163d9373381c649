package geo

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/agromw/missiond/core/model"
)

func square(lat, lon, delta float64) []model.Position {
	return []model.Position{
		{Latitude: lat, Longitude: lon},
		{Latitude: lat, Longitude: lon + delta},
		{Latitude: lat + delta, Longitude: lon + delta},
		{Latitude: lat + delta, Longitude: lon},
	}
}

func TestAreaEquatorialSquare(t *testing.T) {
	// 0.01 degree sides near the equator, roughly 1.11 km each.
	perimeter := square(0, 0, 0.01)
	got := Area(perimeter)

	const metersPerDegree = 111319.49
	want := 0.01 * metersPerDegree * 0.01 * metersPerDegree
	assert.InEpsilon(t, want, got, 0.02)
}

func TestAreaMidLatitudeSquare(t *testing.T) {
	perimeter := square(40.0, -3.7, 0.01)
	got := math.Abs(Area(perimeter))

	// Longitude degrees shrink with cos(latitude).
	const metersPerDegree = 111319.49
	want := 0.01 * metersPerDegree * 0.01 * metersPerDegree * math.Cos(40.0*math.Pi/180)
	assert.InEpsilon(t, want, got, 0.02)
}

func TestAreaSignFollowsWinding(t *testing.T) {
	ccw := square(10, 10, 0.02)
	cw := []model.Position{ccw[3], ccw[2], ccw[1], ccw[0]}

	a1 := Area(ccw)
	a2 := Area(cw)
	assert.Positive(t, a1)
	assert.Negative(t, a2)
	assert.InDelta(t, a1, -a2, 1e-6)
}

func TestAreaClosedRingEqualsOpenRing(t *testing.T) {
	open := square(48.1, 11.5, 0.005)
	closed := append(append([]model.Position{}, open...), open[0])
	assert.InDelta(t, Area(open), Area(closed), 1e-9)
}

func TestAreaDegenerate(t *testing.T) {
	assert.Zero(t, Area(nil))
	assert.Zero(t, Area(square(0, 0, 0.01)[:2]))
	// Collinear points enclose nothing.
	line := []model.Position{
		{Latitude: 1, Longitude: 1},
		{Latitude: 2, Longitude: 1},
		{Latitude: 3, Longitude: 1},
	}
	assert.InDelta(t, 0, Area(line), 1e-3)
}

func TestRegionAreaRoundsAbsolute(t *testing.T) {
	region := model.Region{Area: square(0, 0, 0.001)}
	reversed := model.Region{Area: []model.Position{
		region.Area[3], region.Area[2], region.Area[1], region.Area[0],
	}}
	a := RegionArea(region)
	b := RegionArea(reversed)
	assert.Equal(t, a, b)
	assert.Greater(t, a, int64(0))
}
