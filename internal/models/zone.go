package models

import "github.com/paulmach/orb"

type Category string

const (
	CategoryRiverDelta     Category = "river_delta"
	CategoryIndustrialZone Category = "industrial_zone"
	CategoryUrbanCoast     Category = "urban_coast"
	CategoryIsland         Category = "island"
	CategoryRiverMouth     Category = "river_mouth"
	CategoryNaturalArea    Category = "natural_area"
)

var categories = map[Category]bool{
	CategoryRiverDelta:     true,
	CategoryIndustrialZone: true,
	CategoryUrbanCoast:     true,
	CategoryIsland:         true,
	CategoryRiverMouth:     true,
	CategoryNaturalArea:    true,
}

func (c Category) Valid() bool {
	return categories[c]
}

// Subscores are the five independent indicators of a zone, each expected in [0, 1].
type Subscores struct {
	Historical float64 `json:"historical"`
	Morphology float64 `json:"morphology"`
	River      float64 `json:"river"`
	Ocean      float64 `json:"ocean"`
	Population float64 `json:"population"`
}

// ZoneRecord is a zone as produced by the data-preparation step. It carries no
// score: score and classification are always derived by the scoring package.
type ZoneRecord struct {
	ID          string
	Coordinates orb.Point // [lon, lat]
	Category    Category
	Subscores   Subscores
	Name        Text
	Description Text
}

func (z ZoneRecord) Location() orb.Point {
	return z.Coordinates
}
