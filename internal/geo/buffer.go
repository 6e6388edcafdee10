package geo

import (
	"math"

	"github.com/paulmach/orb"
)

// Buffer is a circular area around a center point.
type Buffer interface {
	Center() orb.Point
	Radius() float64 // km
}

// boundPad widens circle bounds so rounding never drops a boundary point.
const boundPad = 1e-6 // degrees

// FirstContaining returns the first buffer, in slice order, whose circle
// contains p, along with its index. It is a first-match lookup: when buffers
// overlap, an earlier one wins even if a later one is closer.
func FirstContaining[B Buffer](p orb.Point, buffers []B) (B, int, bool) {
	precheck := validPoint(p)
	for i, b := range buffers {
		if precheck {
			if bound, ok := CircleBound(b.Center(), b.Radius()); ok && !bound.Contains(p) {
				continue
			}
		}
		if Within(b.Center(), p, b.Radius()) {
			return b, i, true
		}
	}
	var zero B
	return zero, -1, false
}

// CircleBound returns a lon/lat box enclosing the circle of radiusKm around
// center. ok is false when no such box exists without wrapping: the circle
// reaches a pole or the antimeridian, or the input is out of range.
func CircleBound(center orb.Point, radiusKm float64) (orb.Bound, bool) {
	if !validPoint(center) || !(radiusKm >= 0) {
		return orb.Bound{}, false
	}

	delta := radiusKm / EarthRadiusKm
	dLat := toDegrees(delta)
	if center.Lat()+dLat >= 90 || center.Lat()-dLat <= -90 {
		return orb.Bound{}, false
	}

	ratio := math.Sin(delta) / math.Cos(toRadians(center.Lat()))
	if delta >= math.Pi/2 || ratio >= 1 {
		return orb.Bound{}, false
	}
	dLon := toDegrees(math.Asin(ratio))
	if center.Lon()+dLon >= 180 || center.Lon()-dLon <= -180 {
		return orb.Bound{}, false
	}

	return orb.Bound{
		Min: orb.Point{center.Lon() - dLon - boundPad, center.Lat() - dLat - boundPad},
		Max: orb.Point{center.Lon() + dLon + boundPad, center.Lat() + dLat + boundPad},
	}, true
}

func validPoint(p orb.Point) bool {
	return p.Lat() >= -90 && p.Lat() <= 90 && p.Lon() >= -180 && p.Lon() <= 180
}
