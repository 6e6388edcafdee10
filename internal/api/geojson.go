package api

import (
	"github.com/paulmach/orb/geojson"

	"github.com/mr1hm/go-seaglass-map/internal/geo"
	"github.com/mr1hm/go-seaglass-map/internal/locale"
	"github.com/mr1hm/go-seaglass-map/internal/models"
)

// zoneFeature renders a scored zone. area is the first protected area
// containing the zone, if any.
func zoneFeature(z locale.Zone, area *models.ProtectedArea) *geojson.Feature {
	f := geojson.NewFeature(z.Coordinates)
	f.ID = z.ID
	f.Properties = geojson.Properties{
		"id":             z.ID,
		"name":           z.Name,
		"description":    z.Description,
		"category":       z.Category,
		"subscores":      z.Subscores,
		"score":          z.Score,
		"classification": z.Classification,
		"rank":           z.Rank,
	}
	if area != nil {
		f.Properties["protected_area_id"] = area.ID
		f.Properties["protected_status"] = area.Status
	}
	return f
}

func toZoneGeoJSON(zones []locale.Zone, areas []models.ProtectedArea) *geojson.FeatureCollection {
	fc := geojson.NewFeatureCollection()
	for _, z := range zones {
		var area *models.ProtectedArea
		if a, _, ok := geo.FirstContaining(z.Coordinates, areas); ok {
			area = &a
		}
		fc.Append(zoneFeature(z, area))
	}
	return fc
}

// areaFeature renders a protected area as its circle polygon.
func areaFeature(a locale.ProtectedArea) *geojson.Feature {
	f := geojson.NewFeature(geo.Circle(a.Coordinates, a.RadiusKm, geo.CircleSegments))
	f.ID = a.ID
	f.Properties = geojson.Properties{
		"id":          a.ID,
		"name":        a.Name,
		"description": a.Description,
		"status":      a.Status,
		"radius_km":   a.RadiusKm,
		"center":      []float64{a.Coordinates.Lon(), a.Coordinates.Lat()},
	}
	return f
}

func toAreaGeoJSON(areas []locale.ProtectedArea) *geojson.FeatureCollection {
	fc := geojson.NewFeatureCollection()
	for _, a := range areas {
		fc.Append(areaFeature(a))
	}
	return fc
}

func toRiverGeoJSON(rivers []locale.RiverMouth) *geojson.FeatureCollection {
	fc := geojson.NewFeatureCollection()
	for _, r := range rivers {
		f := geojson.NewFeature(r.Coordinates)
		f.ID = r.ID
		f.Properties = geojson.Properties{
			"id":          r.ID,
			"name":        r.Name,
			"description": r.Description,
		}
		fc.Append(f)
	}
	return fc
}

func toSpotGeoJSON(spots []models.Spot) *geojson.FeatureCollection {
	fc := geojson.NewFeatureCollection()
	for _, s := range spots {
		f := geojson.NewFeature(s.Location())
		f.ID = s.ID
		f.Properties = geojson.Properties{
			"id":         s.ID,
			"created_at": s.CreatedAt,
		}
		fc.Append(f)
	}
	return fc
}
