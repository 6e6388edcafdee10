package dataset

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"

	"github.com/mr1hm/go-seaglass-map/internal/models"
)

var (
	errMissingID    = errors.New("missing id")
	errNotPoint     = errors.New("geometry is not a point")
	errBadCategory  = errors.New("unknown category")
	errBadStatus    = errors.New("unknown status")
	errBadRadius    = errors.New("radius_km must be positive")
	errMissingScore = errors.New("missing subscore")
	errDuplicateID  = errors.New("duplicate id")
)

// DecodeZones parses a zone FeatureCollection. Features that fail validation
// are logged and skipped; only a malformed collection is an error.
func DecodeZones(data []byte) ([]models.ZoneRecord, error) {
	fc, err := geojson.UnmarshalFeatureCollection(data)
	if err != nil {
		return nil, fmt.Errorf("error decoding zones: %w", err)
	}

	zones := make([]models.ZoneRecord, 0, len(fc.Features))
	seen := make(firstSeen, len(fc.Features))
	for i, f := range fc.Features {
		z, err := zoneFromFeature(f)
		if err == nil {
			err = seen.claim(z.ID, i)
		}
		if err != nil {
			slog.Warn("skipping zone feature", "index", i, "id", featureID(f), "error", err)
			continue
		}
		zones = append(zones, z)
	}
	return zones, nil
}

func DecodeProtectedAreas(data []byte) ([]models.ProtectedArea, error) {
	fc, err := geojson.UnmarshalFeatureCollection(data)
	if err != nil {
		return nil, fmt.Errorf("error decoding protected areas: %w", err)
	}

	areas := make([]models.ProtectedArea, 0, len(fc.Features))
	seen := make(firstSeen, len(fc.Features))
	for i, f := range fc.Features {
		a, err := areaFromFeature(f)
		if err == nil {
			err = seen.claim(a.ID, i)
		}
		if err != nil {
			slog.Warn("skipping protected area feature", "index", i, "id", featureID(f), "error", err)
			continue
		}
		areas = append(areas, a)
	}
	return areas, nil
}

func DecodeRivers(data []byte) ([]models.RiverMouth, error) {
	fc, err := geojson.UnmarshalFeatureCollection(data)
	if err != nil {
		return nil, fmt.Errorf("error decoding rivers: %w", err)
	}

	rivers := make([]models.RiverMouth, 0, len(fc.Features))
	seen := make(firstSeen, len(fc.Features))
	for i, f := range fc.Features {
		id, point, err := identify(f)
		if err == nil {
			err = seen.claim(id, i)
		}
		if err != nil {
			slog.Warn("skipping river feature", "index", i, "id", featureID(f), "error", err)
			continue
		}
		rivers = append(rivers, models.RiverMouth{
			ID:          id,
			Coordinates: point,
			Name:        text(f.Properties, "name"),
			Description: text(f.Properties, "description"),
		})
	}
	return rivers, nil
}

// firstSeen maps a record id to the index of the first valid feature that
// used it. Later features with the same id are rejected.
type firstSeen map[string]int

func (s firstSeen) claim(id string, index int) error {
	if first, ok := s[id]; ok {
		return fmt.Errorf("%w: first seen at index %d", errDuplicateID, first)
	}
	s[id] = index
	return nil
}

func zoneFromFeature(f *geojson.Feature) (models.ZoneRecord, error) {
	id, point, err := identify(f)
	if err != nil {
		return models.ZoneRecord{}, err
	}

	category := models.Category(f.Properties.MustString("category", ""))
	if !category.Valid() {
		return models.ZoneRecord{}, fmt.Errorf("%w: %q", errBadCategory, category)
	}

	subscores, err := subscores(f.Properties)
	if err != nil {
		return models.ZoneRecord{}, err
	}

	return models.ZoneRecord{
		ID:          id,
		Coordinates: point,
		Category:    category,
		Subscores:   subscores,
		Name:        text(f.Properties, "name"),
		Description: text(f.Properties, "description"),
	}, nil
}

func areaFromFeature(f *geojson.Feature) (models.ProtectedArea, error) {
	id, point, err := identify(f)
	if err != nil {
		return models.ProtectedArea{}, err
	}

	radius := f.Properties.MustFloat64("radius_km", 0)
	if !(radius > 0) {
		return models.ProtectedArea{}, fmt.Errorf("%w: %v", errBadRadius, radius)
	}

	status := models.AreaStatus(f.Properties.MustString("status", ""))
	if !status.Valid() {
		return models.ProtectedArea{}, fmt.Errorf("%w: %q", errBadStatus, status)
	}

	return models.ProtectedArea{
		ID:          id,
		Coordinates: point,
		RadiusKm:    radius,
		Status:      status,
		Name:        text(f.Properties, "name"),
		Description: text(f.Properties, "description"),
	}, nil
}

func identify(f *geojson.Feature) (string, orb.Point, error) {
	id := featureID(f)
	if id == "" {
		return "", orb.Point{}, errMissingID
	}
	point, ok := f.Geometry.(orb.Point)
	if !ok {
		return "", orb.Point{}, errNotPoint
	}
	return id, point, nil
}

// featureID prefers the feature-level id and falls back to properties.id.
func featureID(f *geojson.Feature) string {
	switch v := f.ID.(type) {
	case string:
		if v != "" {
			return v
		}
	case float64:
		return fmt.Sprintf("%d", int64(v))
	}
	return f.Properties.MustString("id", "")
}

var subscoreKeys = []string{"historical", "morphology", "river", "ocean", "population"}

// subscores reads either a nested "subscores" object or flat
// "<name>_score" properties.
func subscores(props geojson.Properties) (models.Subscores, error) {
	values := make([]float64, len(subscoreKeys))

	nested, _ := props["subscores"].(map[string]any)
	for i, key := range subscoreKeys {
		var (
			v  float64
			ok bool
		)
		if nested != nil {
			v, ok = nested[key].(float64)
		} else {
			v, ok = props[key+"_score"].(float64)
		}
		if !ok {
			return models.Subscores{}, fmt.Errorf("%w: %s", errMissingScore, key)
		}
		values[i] = v
	}

	return models.Subscores{
		Historical: values[0],
		Morphology: values[1],
		River:      values[2],
		Ocean:      values[3],
		Population: values[4],
	}, nil
}

// text reads a translatable field stored either as a locale map
// ("name": {"en": ..., "th": ...}) or as parallel "name_en"/"name_th" keys.
func text(props geojson.Properties, key string) models.Text {
	t := models.Text{}
	if m, ok := props[key].(map[string]any); ok {
		for l, v := range m {
			if s, ok := v.(string); ok && s != "" {
				t[models.Locale(l)] = s
			}
		}
		return t
	}
	if s, ok := props[key].(string); ok && s != "" {
		t[models.LocaleEnglish] = s
	}
	for _, l := range []models.Locale{models.LocaleEnglish, models.LocaleThai} {
		if s := props.MustString(key+"_"+string(l), ""); s != "" {
			t[l] = s
		}
	}
	return t
}
