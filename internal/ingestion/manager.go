package ingestion

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/mr1hm/go-seaglass-map/internal/config"
	"github.com/mr1hm/go-seaglass-map/internal/dataset"
	"github.com/mr1hm/go-seaglass-map/internal/metrics"
	"github.com/mr1hm/go-seaglass-map/internal/repository"
	"github.com/mr1hm/go-seaglass-map/internal/scoring"
	"github.com/mr1hm/go-seaglass-map/internal/worker"
)

const (
	KindZones          = "zones"
	KindProtectedAreas = "protected_areas"
	KindRivers         = "rivers"
)

// job stores a single dataset record at its source position.
type job struct {
	kind  string
	id    string
	apply func(ctx context.Context) error
	batch *batch
}

// batch tracks the jobs of one source load so pruning only happens after
// every record of the load has been written.
type batch struct {
	mu        sync.Mutex
	remaining int
	failed    int
	done      chan struct{}
}

func newBatch(n int) *batch {
	b := &batch{remaining: n, done: make(chan struct{})}
	if n == 0 {
		close(b.done)
	}
	return b
}

func (b *batch) finish(err error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if err != nil {
		b.failed++
	}
	b.remaining--
	if b.remaining == 0 {
		close(b.done)
	}
}

func (b *batch) wait(ctx context.Context) (int, error) {
	select {
	case <-b.done:
		b.mu.Lock()
		defer b.mu.Unlock()
		return b.failed, nil
	case <-ctx.Done():
		return 0, ctx.Err()
	}
}

type Manager struct {
	cfg     *config.Config
	repo    repository.DatasetRepository
	reader  *dataset.Reader
	model   *scoring.Model
	metrics *metrics.Collector
	pool    *worker.Pool[*job]
	wg      sync.WaitGroup
}

func NewManager(cfg *config.Config, repo repository.DatasetRepository, reader *dataset.Reader, model *scoring.Model, collector *metrics.Collector) *Manager {
	return &Manager{
		cfg:     cfg,
		repo:    repo,
		reader:  reader,
		model:   model,
		metrics: collector,
	}
}

func (m *Manager) Start(ctx context.Context) {
	m.startPool(ctx)

	m.wg.Add(1)
	go m.runPoller(ctx)
}

func (m *Manager) startPool(ctx context.Context) {
	processor := func(ctx context.Context, j *job) error {
		err := j.apply(ctx)
		if err != nil {
			slog.Error("error storing record", "kind", j.kind, "id", j.id, "error", err)
		}
		j.batch.finish(err)
		return err
	}

	m.pool = worker.NewPool[*job](m.cfg.Worker.Count, m.cfg.Worker.BufferSize, processor)
	m.pool.Start(ctx)
}

func (m *Manager) runPoller(ctx context.Context) {
	defer m.wg.Done()

	// Initial load
	if err := m.Load(ctx); err != nil {
		slog.Error("dataset load failed", "error", err)
	}

	if !m.cfg.Dataset.ReloadEnabled {
		return
	}

	slog.Info("starting dataset reloader", "interval", m.cfg.Dataset.ReloadInterval)
	ticker := time.NewTicker(m.cfg.Dataset.ReloadInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			slog.Info("dataset reloader shutting down")
			return
		case <-ticker.C:
			if err := m.Load(ctx); err != nil {
				slog.Error("dataset reload failed", "error", err)
			}
		}
	}
}

// Load reads all three datasets and stores them. A source that cannot be
// read or decoded leaves its stored records untouched; the others still load.
func (m *Manager) Load(ctx context.Context) error {
	if m.pool == nil {
		return errors.New("ingestion manager not started")
	}

	var errs []error
	if err := m.loadZones(ctx); err != nil {
		errs = append(errs, err)
	}
	if err := m.loadProtectedAreas(ctx); err != nil {
		errs = append(errs, err)
	}
	if err := m.loadRivers(ctx); err != nil {
		errs = append(errs, err)
	}
	return errors.Join(errs...)
}

func (m *Manager) loadZones(ctx context.Context) error {
	data, err := m.reader.Read(ctx, m.cfg.Dataset.ZonesSource)
	if err != nil {
		return fmt.Errorf("zones: %w", err)
	}
	records, err := dataset.DecodeZones(data)
	if err != nil {
		return fmt.Errorf("zones: %w", err)
	}

	jobs := make([]*job, len(records))
	for i, rec := range records {
		jobs[i] = &job{
			kind: KindZones,
			id:   rec.ID,
			apply: func(ctx context.Context) error {
				if err := m.repo.UpsertZone(ctx, rec, i); err != nil {
					return err
				}
				zone := m.model.Zone(rec)
				m.metrics.ObserveZoneScored(string(zone.Classification()))
				slog.Debug("zone scored", "id", zone.ID, "score", zone.Score(), "classification", zone.Classification())
				return nil
			},
		}
	}

	return m.store(ctx, KindZones, jobs, m.repo.PruneZones)
}

func (m *Manager) loadProtectedAreas(ctx context.Context) error {
	data, err := m.reader.Read(ctx, m.cfg.Dataset.AreasSource)
	if err != nil {
		return fmt.Errorf("protected areas: %w", err)
	}
	records, err := dataset.DecodeProtectedAreas(data)
	if err != nil {
		return fmt.Errorf("protected areas: %w", err)
	}

	jobs := make([]*job, len(records))
	for i, rec := range records {
		jobs[i] = &job{
			kind: KindProtectedAreas,
			id:   rec.ID,
			apply: func(ctx context.Context) error {
				return m.repo.UpsertProtectedArea(ctx, rec, i)
			},
		}
	}

	return m.store(ctx, KindProtectedAreas, jobs, m.repo.PruneProtectedAreas)
}

func (m *Manager) loadRivers(ctx context.Context) error {
	data, err := m.reader.Read(ctx, m.cfg.Dataset.RiversSource)
	if err != nil {
		return fmt.Errorf("rivers: %w", err)
	}
	records, err := dataset.DecodeRivers(data)
	if err != nil {
		return fmt.Errorf("rivers: %w", err)
	}

	jobs := make([]*job, len(records))
	for i, rec := range records {
		jobs[i] = &job{
			kind: KindRivers,
			id:   rec.ID,
			apply: func(ctx context.Context) error {
				return m.repo.UpsertRiver(ctx, rec, i)
			},
		}
	}

	return m.store(ctx, KindRivers, jobs, m.repo.PruneRivers)
}

// store runs jobs through the worker pool and, once all of them succeed,
// removes records that are no longer in the source.
func (m *Manager) store(ctx context.Context, kind string, jobs []*job, prune func(context.Context, []string) (int64, error)) error {
	b := newBatch(len(jobs))
	keep := make([]string, 0, len(jobs))

	for _, j := range jobs {
		j.batch = b
		keep = append(keep, j.id)
		if err := m.pool.Submit(ctx, j); err != nil {
			return fmt.Errorf("%s: %w", kind, err)
		}
	}

	failed, err := b.wait(ctx)
	if err != nil {
		return fmt.Errorf("%s: %w", kind, err)
	}
	if failed > 0 {
		return fmt.Errorf("%s: %d of %d records failed to store", kind, failed, len(jobs))
	}

	removed, err := prune(ctx, keep)
	if err != nil {
		return fmt.Errorf("%s: error pruning: %w", kind, err)
	}

	m.metrics.SetDatasetRecords(kind, len(jobs))
	slog.Info("dataset loaded", "kind", kind, "count", len(jobs), "pruned", removed)
	return nil
}

func (m *Manager) Stop() {
	m.wg.Wait()
	if m.pool != nil {
		m.pool.Stop()
	}
	slog.Info("ingestion manager stopped")
}
