// Package geo provides geographic area computation on the WGS84 ellipsoid.
package geo

import (
	"math"

	"github.com/agromw/missiond/core/model"
)

// WGS84 reference ellipsoid.
const (
	wgs84A = 6378137.0
	wgs84F = 1.0 / 298.257223563
)

var (
	e2 = wgs84F * (2 - wgs84F)
	e1 = math.Sqrt(e2)
	// q at the pole and the derived authalic radius squared.
	qPolar     = authalicQ(math.Pi / 2)
	authalicR2 = wgs84A * wgs84A * qPolar / 2
)

func authalicQ(phi float64) float64 {
	s := math.Sin(phi)
	return (1 - e2) * (s/(1-e2*s*s) - math.Log((1-e1*s)/(1+e1*s))/(2*e1))
}

// authalicLatitude maps a geodetic latitude to the equal-area sphere.
func authalicLatitude(phi float64) float64 {
	return math.Asin(authalicQ(phi) / qPolar)
}

// Area returns the signed area in square meters of the closed polygon
// described by perimeter. Vertices are taken in order; the closing edge back
// to the first vertex is implicit, so a ring may be given open or closed.
// Counterclockwise rings yield a positive area.
//
// The polygon is projected onto the authalic sphere of the WGS84 ellipsoid
// and evaluated with the spherical excess line integral. Simple closed
// perimeters are assumed; self-intersecting rings produce meaningless
// results.
func Area(perimeter []model.Position) float64 {
	if len(perimeter) < 3 {
		return 0
	}

	var sum float64
	n := len(perimeter)
	for i := 0; i < n; i++ {
		p1 := perimeter[i]
		p2 := perimeter[(i+1)%n]

		dLambda := radians(p2.Longitude) - radians(p1.Longitude)
		// Take the short way around the antimeridian.
		if dLambda > math.Pi {
			dLambda -= 2 * math.Pi
		} else if dLambda < -math.Pi {
			dLambda += 2 * math.Pi
		}

		phi1 := authalicLatitude(radians(p1.Latitude))
		phi2 := authalicLatitude(radians(p2.Latitude))
		sum += dLambda * (2 + math.Sin(phi1) + math.Sin(phi2))
	}

	return -sum * authalicR2 / 2
}

// RegionArea returns the absolute area of a region's perimeter rounded to the
// nearest square meter.
func RegionArea(region model.Region) int64 {
	return int64(math.Round(math.Abs(Area(region.Area))))
}

func radians(deg float64) float64 { return deg * math.Pi / 180 }
