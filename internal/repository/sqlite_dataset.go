package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/paulmach/orb"

	"github.com/mr1hm/go-seaglass-map/internal/models"
)

func (s *SQLiteDB) UpsertZone(ctx context.Context, z models.ZoneRecord, position int) error {
	name, err := encodeText(z.Name)
	if err != nil {
		return err
	}
	desc, err := encodeText(z.Description)
	if err != nil {
		return err
	}

	query := `
		INSERT INTO zones (id, position, longitude, latitude, category,
			historical, morphology, river, ocean, population, name, description)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			position = excluded.position,
			longitude = excluded.longitude,
			latitude = excluded.latitude,
			category = excluded.category,
			historical = excluded.historical,
			morphology = excluded.morphology,
			river = excluded.river,
			ocean = excluded.ocean,
			population = excluded.population,
			name = excluded.name,
			description = excluded.description`

	_, err = s.db.ExecContext(ctx, query,
		z.ID, position, z.Coordinates.Lon(), z.Coordinates.Lat(), string(z.Category),
		z.Subscores.Historical, z.Subscores.Morphology, z.Subscores.River,
		z.Subscores.Ocean, z.Subscores.Population, name, desc,
	)
	if err != nil {
		return fmt.Errorf("error upserting zone %s: %w", z.ID, err)
	}
	return nil
}

const zoneColumns = `id, longitude, latitude, category,
	historical, morphology, river, ocean, population, name, description`

func scanZone(row interface{ Scan(...any) error }) (models.ZoneRecord, error) {
	var (
		z          models.ZoneRecord
		lon, lat   float64
		category   string
		name, desc string
	)
	err := row.Scan(&z.ID, &lon, &lat, &category,
		&z.Subscores.Historical, &z.Subscores.Morphology, &z.Subscores.River,
		&z.Subscores.Ocean, &z.Subscores.Population, &name, &desc)
	if err != nil {
		return z, err
	}

	z.Coordinates = orb.Point{lon, lat}
	z.Category = models.Category(category)
	if z.Name, err = decodeText(name); err != nil {
		return z, err
	}
	if z.Description, err = decodeText(desc); err != nil {
		return z, err
	}
	return z, nil
}

func (s *SQLiteDB) GetZone(ctx context.Context, id string) (*models.ZoneRecord, error) {
	row := s.db.QueryRowContext(ctx, "SELECT "+zoneColumns+" FROM zones WHERE id = ?", id)
	z, err := scanZone(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("error getting zone %s: %w", id, err)
	}
	return &z, nil
}

func (s *SQLiteDB) ListZones(ctx context.Context) ([]models.ZoneRecord, error) {
	rows, err := s.db.QueryContext(ctx, "SELECT "+zoneColumns+" FROM zones ORDER BY position, id")
	if err != nil {
		return nil, fmt.Errorf("error listing zones: %w", err)
	}
	defer rows.Close()

	zones := []models.ZoneRecord{}
	for rows.Next() {
		z, err := scanZone(rows)
		if err != nil {
			return nil, fmt.Errorf("error scanning zone: %w", err)
		}
		zones = append(zones, z)
	}
	return zones, rows.Err()
}

func (s *SQLiteDB) PruneZones(ctx context.Context, keep []string) (int64, error) {
	return s.prune(ctx, "zones", keep)
}

func (s *SQLiteDB) UpsertProtectedArea(ctx context.Context, a models.ProtectedArea, position int) error {
	name, err := encodeText(a.Name)
	if err != nil {
		return err
	}
	desc, err := encodeText(a.Description)
	if err != nil {
		return err
	}

	query := `
		INSERT INTO protected_areas (id, position, longitude, latitude, radius_km, status, name, description)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			position = excluded.position,
			longitude = excluded.longitude,
			latitude = excluded.latitude,
			radius_km = excluded.radius_km,
			status = excluded.status,
			name = excluded.name,
			description = excluded.description`

	_, err = s.db.ExecContext(ctx, query,
		a.ID, position, a.Coordinates.Lon(), a.Coordinates.Lat(), a.RadiusKm, string(a.Status), name, desc,
	)
	if err != nil {
		return fmt.Errorf("error upserting protected area %s: %w", a.ID, err)
	}
	return nil
}

func (s *SQLiteDB) ListProtectedAreas(ctx context.Context) ([]models.ProtectedArea, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, longitude, latitude, radius_km, status, name, description
		FROM protected_areas ORDER BY position, id`)
	if err != nil {
		return nil, fmt.Errorf("error listing protected areas: %w", err)
	}
	defer rows.Close()

	areas := []models.ProtectedArea{}
	for rows.Next() {
		var (
			a          models.ProtectedArea
			lon, lat   float64
			status     string
			name, desc string
		)
		if err := rows.Scan(&a.ID, &lon, &lat, &a.RadiusKm, &status, &name, &desc); err != nil {
			return nil, fmt.Errorf("error scanning protected area: %w", err)
		}
		a.Coordinates = orb.Point{lon, lat}
		a.Status = models.AreaStatus(status)
		if a.Name, err = decodeText(name); err != nil {
			return nil, err
		}
		if a.Description, err = decodeText(desc); err != nil {
			return nil, err
		}
		areas = append(areas, a)
	}
	return areas, rows.Err()
}

func (s *SQLiteDB) PruneProtectedAreas(ctx context.Context, keep []string) (int64, error) {
	return s.prune(ctx, "protected_areas", keep)
}

func (s *SQLiteDB) UpsertRiver(ctx context.Context, r models.RiverMouth, position int) error {
	name, err := encodeText(r.Name)
	if err != nil {
		return err
	}
	desc, err := encodeText(r.Description)
	if err != nil {
		return err
	}

	query := `
		INSERT INTO river_mouths (id, position, longitude, latitude, name, description)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			position = excluded.position,
			longitude = excluded.longitude,
			latitude = excluded.latitude,
			name = excluded.name,
			description = excluded.description`

	_, err = s.db.ExecContext(ctx, query, r.ID, position, r.Coordinates.Lon(), r.Coordinates.Lat(), name, desc)
	if err != nil {
		return fmt.Errorf("error upserting river %s: %w", r.ID, err)
	}
	return nil
}

func (s *SQLiteDB) ListRivers(ctx context.Context) ([]models.RiverMouth, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, longitude, latitude, name, description
		FROM river_mouths ORDER BY position, id`)
	if err != nil {
		return nil, fmt.Errorf("error listing rivers: %w", err)
	}
	defer rows.Close()

	rivers := []models.RiverMouth{}
	for rows.Next() {
		var (
			r          models.RiverMouth
			lon, lat   float64
			name, desc string
		)
		if err := rows.Scan(&r.ID, &lon, &lat, &name, &desc); err != nil {
			return nil, fmt.Errorf("error scanning river: %w", err)
		}
		r.Coordinates = orb.Point{lon, lat}
		if r.Name, err = decodeText(name); err != nil {
			return nil, err
		}
		if r.Description, err = decodeText(desc); err != nil {
			return nil, err
		}
		rivers = append(rivers, r)
	}
	return rivers, rows.Err()
}

func (s *SQLiteDB) PruneRivers(ctx context.Context, keep []string) (int64, error) {
	return s.prune(ctx, "river_mouths", keep)
}
