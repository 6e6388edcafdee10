package geo

import (
	"math"

	"github.com/paulmach/orb"
)

const CircleSegments = 64

// Destination returns the point reached by travelling distanceKm from origin
// along the initial bearing (degrees clockwise from north).
func Destination(origin orb.Point, bearing, distanceKm float64) orb.Point {
	delta := distanceKm / EarthRadiusKm
	theta := toRadians(bearing)
	phi1 := toRadians(origin.Lat())
	lambda1 := toRadians(origin.Lon())

	sinPhi2 := math.Sin(phi1)*math.Cos(delta) + math.Cos(phi1)*math.Sin(delta)*math.Cos(theta)
	phi2 := math.Asin(sinPhi2)
	lambda2 := lambda1 + math.Atan2(
		math.Sin(theta)*math.Sin(delta)*math.Cos(phi1),
		math.Cos(delta)-math.Sin(phi1)*sinPhi2,
	)

	return orb.Point{normalizeLon(toDegrees(lambda2)), toDegrees(phi2)}
}

// Circle approximates the buffer of radiusKm around center with a regular
// polygon of the given number of vertices (CircleSegments when fewer than 3).
// The ring is closed and counter-clockwise. It is meant for display only;
// containment decisions use Within.
func Circle(center orb.Point, radiusKm float64, segments int) orb.Polygon {
	if segments < 3 {
		segments = CircleSegments
	}

	ring := make(orb.Ring, 0, segments+1)
	for i := 0; i < segments; i++ {
		bearing := -360 * float64(i) / float64(segments)
		ring = append(ring, Destination(center, bearing, radiusKm))
	}
	ring = append(ring, ring[0])

	return orb.Polygon{ring}
}

func normalizeLon(lon float64) float64 {
	if lon >= -180 && lon <= 180 {
		return lon
	}
	return math.Mod(math.Mod(lon+180, 360)+360, 360) - 180
}
