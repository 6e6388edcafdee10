package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/mr1hm/go-seaglass-map/internal/models"
)

func (s *SQLiteDB) AddSpot(ctx context.Context, sp *models.Spot) error {
	_, err := s.db.ExecContext(ctx,
		"INSERT INTO spots (id, latitude, longitude, created_at) VALUES (?, ?, ?, ?)",
		sp.ID, sp.Latitude, sp.Longitude, sp.CreatedAt.UTC(),
	)
	if err != nil {
		return fmt.Errorf("error adding spot %s: %w", sp.ID, err)
	}
	return nil
}

func (s *SQLiteDB) GetSpot(ctx context.Context, id string) (*models.Spot, error) {
	var sp models.Spot
	err := s.db.QueryRowContext(ctx,
		"SELECT id, latitude, longitude, created_at FROM spots WHERE id = ?", id,
	).Scan(&sp.ID, &sp.Latitude, &sp.Longitude, &sp.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("error getting spot %s: %w", id, err)
	}
	return &sp, nil
}

func (s *SQLiteDB) ListSpots(ctx context.Context, opts Filter) ([]models.Spot, error) {
	query := "SELECT id, latitude, longitude, created_at FROM spots"
	var args []any

	if opts.Since != nil {
		query += " WHERE created_at >= ?"
		args = append(args, opts.Since.UTC())
	}
	query += " ORDER BY created_at, id"

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("error listing spots: %w", err)
	}
	defer rows.Close()

	spots := []models.Spot{}
	for rows.Next() {
		var sp models.Spot
		if err := rows.Scan(&sp.ID, &sp.Latitude, &sp.Longitude, &sp.CreatedAt); err != nil {
			return nil, fmt.Errorf("error scanning spot: %w", err)
		}
		spots = append(spots, sp)
	}
	return spots, rows.Err()
}

func (s *SQLiteDB) DeleteSpot(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, "DELETE FROM spots WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("error deleting spot %s: %w", id, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}
