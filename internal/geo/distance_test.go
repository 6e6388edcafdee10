package geo

import (
	"math"
	"testing"

	"github.com/paulmach/orb"
)

var (
	bangkok = orb.Point{100.5018, 13.7563}
	phuket  = orb.Point{98.3923, 7.8804}
)

func TestDistance_SamePointIsZero(t *testing.T) {
	points := []orb.Point{
		{0, 0},
		bangkok,
		{-179.9, 89.9},
		{180, -90},
	}
	for _, p := range points {
		if d := Distance(p, p); d != 0 {
			t.Errorf("Distance(%v, %v) = %v, want 0", p, p, d)
		}
	}
}

func TestDistance_Symmetric(t *testing.T) {
	pairs := [][2]orb.Point{
		{bangkok, phuket},
		{{0, 0}, {10, 10}},
		{{-73.9857, 40.7484}, {2.2945, 48.8584}},
		{{179.5, 0}, {-179.5, 0}},
	}
	for _, p := range pairs {
		ab := Distance(p[0], p[1])
		ba := Distance(p[1], p[0])
		if ab != ba {
			t.Errorf("Distance not symmetric for %v: %v vs %v", p, ab, ba)
		}
	}
}

func TestHaversine_BangkokPhuket(t *testing.T) {
	d := Haversine(13.7563, 100.5018, 7.8804, 98.3923)
	if math.Abs(d-692.77) > 1 {
		t.Errorf("Bangkok-Phuket distance = %.2f km, want ~692.77", d)
	}
	if got := Distance(bangkok, phuket); got != d {
		t.Errorf("Distance = %v, Haversine = %v", got, d)
	}
}

func TestHaversine_MonotonicWithSeparation(t *testing.T) {
	prev := 0.0
	for lat := 0.5; lat <= 180; lat += 0.5 {
		d := Haversine(-90, 0, -90+lat, 0)
		if d < prev {
			t.Fatalf("distance decreased at separation %v: %v < %v", lat, d, prev)
		}
		prev = d
	}
	if math.Abs(prev-math.Pi*EarthRadiusKm) > 1e-6 {
		t.Errorf("pole to pole = %v, want %v", prev, math.Pi*EarthRadiusKm)
	}
}

func TestHaversine_OneDegreeOfLatitude(t *testing.T) {
	want := EarthRadiusKm * math.Pi / 180
	if d := Haversine(10, 20, 11, 20); math.Abs(d-want) > 1e-9 {
		t.Errorf("one degree of latitude = %v, want %v", d, want)
	}
}

func TestHaversine_NonFiniteInputDoesNotPanic(t *testing.T) {
	if d := Haversine(math.NaN(), 0, 0, 0); !math.IsNaN(d) {
		t.Errorf("expected NaN distance, got %v", d)
	}
	// out of range is garbage in, garbage out, but still a number
	if d := Haversine(200, 500, -300, 0); math.IsNaN(d) || d < 0 {
		t.Errorf("expected a finite non-negative distance, got %v", d)
	}
}

func TestWithin_BoundaryIsInclusive(t *testing.T) {
	center := orb.Point{100.0, 13.0}
	p := orb.Point{100.3, 13.2}
	r := Distance(center, p)

	if !Within(center, p, r) {
		t.Error("point exactly on the radius should be within")
	}
	if Within(center, p, math.Nextafter(r, 0)) {
		t.Error("point just outside the radius should not be within")
	}
}
