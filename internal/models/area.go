package models

import "github.com/paulmach/orb"

type AreaStatus string

const (
	AreaStatusProhibited AreaStatus = "prohibited"
	AreaStatusRestricted AreaStatus = "restricted"
)

func (s AreaStatus) Valid() bool {
	return s == AreaStatusProhibited || s == AreaStatusRestricted
}

// ProtectedArea is a circular great-circle buffer where collecting is
// prohibited or restricted.
type ProtectedArea struct {
	ID          string
	Coordinates orb.Point // center, [lon, lat]
	RadiusKm    float64
	Status      AreaStatus
	Name        Text
	Description Text
}

func (a ProtectedArea) Center() orb.Point {
	return a.Coordinates
}

func (a ProtectedArea) Radius() float64 {
	return a.RadiusKm
}

type RiverMouth struct {
	ID          string
	Coordinates orb.Point
	Name        Text
	Description Text
}

func (r RiverMouth) Location() orb.Point {
	return r.Coordinates
}
