// Package nearby narrows a candidate point set to the ones around the active
// reference location.
//
// An explicit search location always wins over the user's device location.
// With neither present every candidate is returned, so an empty reference
// state never hides the map.
package nearby

import (
	"github.com/paulmach/orb"

	"github.com/mr1hm/go-seaglass-map/internal/geo"
)

const (
	SearchRadiusKm = 50.0
	UserRadiusKm   = 2000.0
)

type Locatable interface {
	Location() orb.Point
}

type ReferenceKind string

const (
	ReferenceNone   ReferenceKind = "none"
	ReferenceSearch ReferenceKind = "search"
	ReferenceUser   ReferenceKind = "user"
)

// References holds the optional reference points. Nil means absent.
type References struct {
	Search *orb.Point
	User   *orb.Point
}

// Active returns the reference point in effect, its radius and its kind.
func (r References) Active() (orb.Point, float64, ReferenceKind) {
	switch {
	case r.Search != nil:
		return *r.Search, SearchRadiusKm, ReferenceSearch
	case r.User != nil:
		return *r.User, UserRadiusKm, ReferenceUser
	default:
		return orb.Point{}, 0, ReferenceNone
	}
}

// Filter returns the candidates within range of the active reference, in
// input order. The result never aliases candidates.
func Filter[T Locatable](candidates []T, refs References) []T {
	center, radius, kind := refs.Active()
	if kind == ReferenceNone {
		out := make([]T, len(candidates))
		copy(out, candidates)
		return out
	}
	return WithinRadius(candidates, center, radius)
}

// WithinRadius returns the candidates whose distance to center is at most
// radiusKm, in input order.
func WithinRadius[T Locatable](candidates []T, center orb.Point, radiusKm float64) []T {
	out := make([]T, 0, len(candidates))
	for _, c := range candidates {
		if geo.Within(center, c.Location(), radiusKm) {
			out = append(out, c)
		}
	}
	return out
}
