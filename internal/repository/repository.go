package repository

import (
	"context"
	"errors"
	"time"

	"github.com/mr1hm/go-seaglass-map/internal/models"
)

var ErrNotFound = errors.New("not found")

// Filter narrows spot listings. Nil Since means no lower bound.
type Filter struct {
	Since *time.Time
}

// Dataset records keep the position they had in their source file so that
// lists come back in authored order; protected area lookups depend on it.

type ZoneRepository interface {
	UpsertZone(ctx context.Context, z models.ZoneRecord, position int) error
	GetZone(ctx context.Context, id string) (*models.ZoneRecord, error)
	ListZones(ctx context.Context) ([]models.ZoneRecord, error)
	PruneZones(ctx context.Context, keep []string) (int64, error)
}

type ProtectedAreaRepository interface {
	UpsertProtectedArea(ctx context.Context, a models.ProtectedArea, position int) error
	ListProtectedAreas(ctx context.Context) ([]models.ProtectedArea, error)
	PruneProtectedAreas(ctx context.Context, keep []string) (int64, error)
}

type RiverRepository interface {
	UpsertRiver(ctx context.Context, r models.RiverMouth, position int) error
	ListRivers(ctx context.Context) ([]models.RiverMouth, error)
	PruneRivers(ctx context.Context, keep []string) (int64, error)
}

type DatasetRepository interface {
	ZoneRepository
	ProtectedAreaRepository
	RiverRepository
}

type SpotRepository interface {
	AddSpot(ctx context.Context, s *models.Spot) error
	GetSpot(ctx context.Context, id string) (*models.Spot, error)
	ListSpots(ctx context.Context, opts Filter) ([]models.Spot, error)
	DeleteSpot(ctx context.Context, id string) error
}
