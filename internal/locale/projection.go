package locale

import (
	"github.com/paulmach/orb"

	"github.com/mr1hm/go-seaglass-map/internal/models"
	"github.com/mr1hm/go-seaglass-map/internal/scoring"
)

// Display records carry plain strings, so they cannot be projected again.

type Zone struct {
	ID             string
	Name           string
	Description    string
	Category       models.Category
	Coordinates    orb.Point
	Subscores      models.Subscores
	Score          float64
	Classification scoring.Classification
	Rank           int
}

type ProtectedArea struct {
	ID          string
	Name        string
	Description string
	Coordinates orb.Point
	RadiusKm    float64
	Status      models.AreaStatus
}

type RiverMouth struct {
	ID          string
	Name        string
	Description string
	Coordinates orb.Point
}

func ProjectZone(z scoring.Zone, l, fallback models.Locale) Zone {
	l, fallback = resolvePair(l, fallback)
	return Zone{
		ID:             z.ID,
		Name:           z.Name.Get(l, fallback),
		Description:    z.Description.Get(l, fallback),
		Category:       z.Category,
		Coordinates:    z.Coordinates,
		Subscores:      z.Subscores,
		Score:          z.Score(),
		Classification: z.Classification(),
		Rank:           z.Rank(),
	}
}

func ProjectZones(zones []scoring.Zone, l, fallback models.Locale) []Zone {
	out := make([]Zone, 0, len(zones))
	for _, z := range zones {
		out = append(out, ProjectZone(z, l, fallback))
	}
	return out
}

func ProjectArea(a models.ProtectedArea, l, fallback models.Locale) ProtectedArea {
	l, fallback = resolvePair(l, fallback)
	return ProtectedArea{
		ID:          a.ID,
		Name:        a.Name.Get(l, fallback),
		Description: a.Description.Get(l, fallback),
		Coordinates: a.Coordinates,
		RadiusKm:    a.RadiusKm,
		Status:      a.Status,
	}
}

func ProjectAreas(areas []models.ProtectedArea, l, fallback models.Locale) []ProtectedArea {
	out := make([]ProtectedArea, 0, len(areas))
	for _, a := range areas {
		out = append(out, ProjectArea(a, l, fallback))
	}
	return out
}

func ProjectRiver(r models.RiverMouth, l, fallback models.Locale) RiverMouth {
	l, fallback = resolvePair(l, fallback)
	return RiverMouth{
		ID:          r.ID,
		Name:        r.Name.Get(l, fallback),
		Description: r.Description.Get(l, fallback),
		Coordinates: r.Coordinates,
	}
}

func ProjectRivers(rivers []models.RiverMouth, l, fallback models.Locale) []RiverMouth {
	out := make([]RiverMouth, 0, len(rivers))
	for _, r := range rivers {
		out = append(out, ProjectRiver(r, l, fallback))
	}
	return out
}

// resolvePair resolves the fallback to a supported locale and replaces an
// unsupported l with it.
func resolvePair(l, fallback models.Locale) (models.Locale, models.Locale) {
	fallback = Resolve(fallback)
	if !IsSupported(l) {
		l = fallback
	}
	return l, fallback
}
