package models

import (
	"time"

	"github.com/paulmach/orb"
)

// Spot is a community-submitted find location. Only the position takes part
// in spatial filtering.
type Spot struct {
	ID        string    `json:"id"`
	Latitude  float64   `json:"latitude"`
	Longitude float64   `json:"longitude"`
	CreatedAt time.Time `json:"created_at"`
}

func (s Spot) Location() orb.Point {
	return orb.Point{s.Longitude, s.Latitude}
}
