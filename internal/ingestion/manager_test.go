package ingestion

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"sort"
	"sync"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"go.uber.org/goleak"

	"github.com/mr1hm/go-seaglass-map/internal/config"
	"github.com/mr1hm/go-seaglass-map/internal/dataset"
	"github.com/mr1hm/go-seaglass-map/internal/metrics"
	"github.com/mr1hm/go-seaglass-map/internal/models"
	"github.com/mr1hm/go-seaglass-map/internal/repository"
	"github.com/mr1hm/go-seaglass-map/internal/scoring"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

type positioned[T any] struct {
	record   T
	position int
}

// mockDatasetRepo implements repository.DatasetRepository for testing
type mockDatasetRepo struct {
	mu        sync.Mutex
	zones     map[string]positioned[models.ZoneRecord]
	areas     map[string]positioned[models.ProtectedArea]
	rivers    map[string]positioned[models.RiverMouth]
	failZone  string
	pruneCall int
}

func newMockRepo() *mockDatasetRepo {
	return &mockDatasetRepo{
		zones:  make(map[string]positioned[models.ZoneRecord]),
		areas:  make(map[string]positioned[models.ProtectedArea]),
		rivers: make(map[string]positioned[models.RiverMouth]),
	}
}

func (m *mockDatasetRepo) UpsertZone(ctx context.Context, z models.ZoneRecord, position int) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if z.ID == m.failZone {
		return errors.New("disk full")
	}
	m.zones[z.ID] = positioned[models.ZoneRecord]{z, position}
	return nil
}

func (m *mockDatasetRepo) GetZone(ctx context.Context, id string) (*models.ZoneRecord, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	z, ok := m.zones[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return &z.record, nil
}

func (m *mockDatasetRepo) ListZones(ctx context.Context) ([]models.ZoneRecord, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return ordered(m.zones), nil
}

func (m *mockDatasetRepo) PruneZones(ctx context.Context, keep []string) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.pruneCall++
	return prune(m.zones, keep), nil
}

func (m *mockDatasetRepo) UpsertProtectedArea(ctx context.Context, a models.ProtectedArea, position int) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.areas[a.ID] = positioned[models.ProtectedArea]{a, position}
	return nil
}

func (m *mockDatasetRepo) ListProtectedAreas(ctx context.Context) ([]models.ProtectedArea, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return ordered(m.areas), nil
}

func (m *mockDatasetRepo) PruneProtectedAreas(ctx context.Context, keep []string) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.pruneCall++
	return prune(m.areas, keep), nil
}

func (m *mockDatasetRepo) UpsertRiver(ctx context.Context, r models.RiverMouth, position int) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.rivers[r.ID] = positioned[models.RiverMouth]{r, position}
	return nil
}

func (m *mockDatasetRepo) ListRivers(ctx context.Context) ([]models.RiverMouth, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return ordered(m.rivers), nil
}

func (m *mockDatasetRepo) PruneRivers(ctx context.Context, keep []string) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.pruneCall++
	return prune(m.rivers, keep), nil
}

func ordered[T any](records map[string]positioned[T]) []T {
	items := make([]positioned[T], 0, len(records))
	for _, r := range records {
		items = append(items, r)
	}
	sort.Slice(items, func(i, j int) bool { return items[i].position < items[j].position })

	out := make([]T, len(items))
	for i, it := range items {
		out[i] = it.record
	}
	return out
}

func prune[T any](records map[string]positioned[T], keep []string) int64 {
	wanted := make(map[string]bool, len(keep))
	for _, id := range keep {
		wanted[id] = true
	}
	var removed int64
	for id := range records {
		if !wanted[id] {
			delete(records, id)
			removed++
		}
	}
	return removed
}

const zonesJSON = `{"type": "FeatureCollection", "features": [
  {"type": "Feature", "id": "a", "geometry": {"type": "Point", "coordinates": [100.9, 13.4]},
   "properties": {"category": "river_mouth", "name_en": "A", "subscores": {"historical": 0.8, "morphology": 0.8, "river": 0.6, "ocean": 0.4, "population": 0.4}}},
  {"type": "Feature", "id": "b", "geometry": {"type": "Point", "coordinates": [100.8, 12.9]},
   "properties": {"category": "island", "name_en": "B", "subscores": {"historical": 0.1, "morphology": 0.1, "river": 0.1, "ocean": 0.1, "population": 0.1}}},
  {"type": "Feature", "id": "c", "geometry": {"type": "Point", "coordinates": [100.7, 12.8]},
   "properties": {"category": "urban_coast", "name_en": "C", "subscores": {"historical": 0.9, "morphology": 0.9, "river": 0.9, "ocean": 0.9, "population": 0.9}}}
]}`

const areasJSON = `{"type": "FeatureCollection", "features": [
  {"type": "Feature", "id": "first", "geometry": {"type": "Point", "coordinates": [100.78, 12.70]},
   "properties": {"radius_km": 5, "status": "prohibited"}},
  {"type": "Feature", "id": "second", "geometry": {"type": "Point", "coordinates": [100.92, 12.66]},
   "properties": {"radius_km": 12, "status": "restricted"}}
]}`

const riversJSON = `{"type": "FeatureCollection", "features": [
  {"type": "Feature", "id": "chao-phraya", "geometry": {"type": "Point", "coordinates": [100.58, 13.54]},
   "properties": {"name": "Chao Phraya"}}
]}`

func writeFixture(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("failed to write %s: %v", name, err)
	}
	return path
}

func testConfig(t *testing.T) *config.Config {
	dir := t.TempDir()
	return &config.Config{
		Worker: config.WorkerConfig{
			Count:      2,
			BufferSize: 10,
		},
		Dataset: config.DatasetConfig{
			ZonesSource:    writeFixture(t, dir, "zones.geojson", zonesJSON),
			AreasSource:    writeFixture(t, dir, "areas.geojson", areasJSON),
			RiversSource:   writeFixture(t, dir, "rivers.geojson", riversJSON),
			ReloadEnabled:  false,
			ReloadInterval: time.Minute,
		},
	}
}

func newTestManager(t *testing.T, cfg *config.Config, repo *mockDatasetRepo) (*Manager, *metrics.Collector) {
	collector, err := metrics.NewCollector(prometheus.NewRegistry())
	if err != nil {
		t.Fatalf("NewCollector: %v", err)
	}
	return NewManager(cfg, repo, dataset.NewReader(), scoring.DefaultModel(), collector), collector
}

func TestManager_StartStop(t *testing.T) {
	cfg := testConfig(t)
	cfg.Dataset.ReloadEnabled = true

	repo := newMockRepo()
	mgr, _ := newTestManager(t, cfg, repo)

	ctx, cancel := context.WithCancel(context.Background())

	// Start should not block
	mgr.Start(ctx)

	time.Sleep(50 * time.Millisecond)

	cancel()
	mgr.Stop()
}

func TestManager_Load(t *testing.T) {
	cfg := testConfig(t)
	repo := newMockRepo()
	mgr, collector := newTestManager(t, cfg, repo)

	ctx, cancel := context.WithCancel(context.Background())
	defer func() {
		cancel()
		mgr.Stop()
	}()
	mgr.startPool(ctx)

	if err := mgr.Load(ctx); err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	zones, _ := repo.ListZones(ctx)
	if len(zones) != 3 || zones[0].ID != "a" || zones[2].ID != "c" {
		t.Errorf("expected zones in source order, got %v", zones)
	}

	areas, _ := repo.ListProtectedAreas(ctx)
	if len(areas) != 2 || areas[0].ID != "first" || areas[1].ID != "second" {
		t.Errorf("expected areas in source order, got %v", areas)
	}

	rivers, _ := repo.ListRivers(ctx)
	if len(rivers) != 1 {
		t.Errorf("expected 1 river, got %d", len(rivers))
	}

	if got := testutil.ToFloat64(collector.DatasetRecords.WithLabelValues(KindZones)); got != 3 {
		t.Errorf("expected zones gauge 3, got %v", got)
	}
	if got := testutil.ToFloat64(collector.DatasetRecords.WithLabelValues(KindProtectedAreas)); got != 2 {
		t.Errorf("expected areas gauge 2, got %v", got)
	}
}

func TestManager_LoadObservesScores(t *testing.T) {
	cfg := testConfig(t)
	repo := newMockRepo()
	mgr, collector := newTestManager(t, cfg, repo)

	ctx, cancel := context.WithCancel(context.Background())
	defer func() {
		cancel()
		mgr.Stop()
	}()
	mgr.startPool(ctx)

	if err := mgr.Load(ctx); err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	tiers := map[scoring.Classification]float64{
		scoring.VeryHigh: 1,
		scoring.High:     1,
		scoring.Medium:   0,
		scoring.Low:      0,
		scoring.VeryLow:  1,
	}
	for tier, want := range tiers {
		if got := testutil.ToFloat64(collector.ZonesScored.WithLabelValues(string(tier))); got != want {
			t.Errorf("expected %v zones scored %s, got %v", want, tier, got)
		}
	}
}

func TestManager_ReloadPrunesRemovedRecords(t *testing.T) {
	cfg := testConfig(t)
	repo := newMockRepo()
	mgr, _ := newTestManager(t, cfg, repo)

	ctx, cancel := context.WithCancel(context.Background())
	defer func() {
		cancel()
		mgr.Stop()
	}()
	mgr.startPool(ctx)

	if err := mgr.Load(ctx); err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	cfg.Dataset.AreasSource = writeFixture(t, t.TempDir(), "areas.geojson", `{"type": "FeatureCollection", "features": [
  {"type": "Feature", "id": "second", "geometry": {"type": "Point", "coordinates": [100.92, 12.66]},
   "properties": {"radius_km": 12, "status": "restricted"}}
]}`)

	if err := mgr.Load(ctx); err != nil {
		t.Fatalf("reload failed: %v", err)
	}

	areas, _ := repo.ListProtectedAreas(ctx)
	if len(areas) != 1 || areas[0].ID != "second" {
		t.Errorf("expected only the remaining area, got %v", areas)
	}
}

func TestManager_DuplicateIDsStoreFirstOccurrence(t *testing.T) {
	cfg := testConfig(t)
	cfg.Worker.Count = 4
	cfg.Dataset.AreasSource = writeFixture(t, t.TempDir(), "areas.geojson", `{"type": "FeatureCollection", "features": [
  {"type": "Feature", "id": "dup", "geometry": {"type": "Point", "coordinates": [100.78, 12.70]},
   "properties": {"radius_km": 5, "status": "prohibited"}},
  {"type": "Feature", "id": "other", "geometry": {"type": "Point", "coordinates": [100.92, 12.66]},
   "properties": {"radius_km": 12, "status": "restricted"}},
  {"type": "Feature", "id": "dup", "geometry": {"type": "Point", "coordinates": [99.00, 10.00]},
   "properties": {"radius_km": 40, "status": "restricted"}}
]}`)

	repo := newMockRepo()
	mgr, collector := newTestManager(t, cfg, repo)

	ctx, cancel := context.WithCancel(context.Background())
	defer func() {
		cancel()
		mgr.Stop()
	}()
	mgr.startPool(ctx)

	// Repeat the load so a racing duplicate write would show up.
	for i := 0; i < 20; i++ {
		if err := mgr.Load(ctx); err != nil {
			t.Fatalf("Load failed: %v", err)
		}

		areas, _ := repo.ListProtectedAreas(ctx)
		if len(areas) != 2 || areas[0].ID != "dup" || areas[1].ID != "other" {
			t.Fatalf("expected dup then other, got %v", areas)
		}
		if areas[0].RadiusKm != 5 || areas[0].Status != models.AreaStatusProhibited {
			t.Fatalf("expected the first occurrence of dup, got %+v", areas[0])
		}
	}

	if got := testutil.ToFloat64(collector.DatasetRecords.WithLabelValues(KindProtectedAreas)); got != 2 {
		t.Errorf("expected areas gauge 2, got %v", got)
	}
}

func TestManager_BadSourceKeepsStoredRecords(t *testing.T) {
	cfg := testConfig(t)
	repo := newMockRepo()
	mgr, _ := newTestManager(t, cfg, repo)

	ctx, cancel := context.WithCancel(context.Background())
	defer func() {
		cancel()
		mgr.Stop()
	}()
	mgr.startPool(ctx)

	if err := mgr.Load(ctx); err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	cfg.Dataset.ZonesSource = writeFixture(t, t.TempDir(), "zones.geojson", `{"type": "FeatureCollection", "features": [`)
	cfg.Dataset.RiversSource = filepath.Join(t.TempDir(), "missing.geojson")

	if err := mgr.Load(ctx); err == nil {
		t.Fatal("expected error from broken sources")
	}

	zones, _ := repo.ListZones(ctx)
	if len(zones) != 3 {
		t.Errorf("expected stored zones to survive a bad reload, got %d", len(zones))
	}
	rivers, _ := repo.ListRivers(ctx)
	if len(rivers) != 1 {
		t.Errorf("expected stored rivers to survive a missing source, got %d", len(rivers))
	}
}

func TestManager_FailedWriteSkipsPrune(t *testing.T) {
	cfg := testConfig(t)
	repo := newMockRepo()
	repo.failZone = "b"
	repo.zones["stale"] = positioned[models.ZoneRecord]{models.ZoneRecord{ID: "stale"}, 99}
	mgr, _ := newTestManager(t, cfg, repo)

	ctx, cancel := context.WithCancel(context.Background())
	defer func() {
		cancel()
		mgr.Stop()
	}()
	mgr.startPool(ctx)

	if err := mgr.Load(ctx); err == nil {
		t.Fatal("expected error when a zone fails to store")
	}

	if z, _ := repo.GetZone(ctx, "stale"); z == nil {
		t.Error("stale zone should not be pruned after a failed load")
	}
}

func TestManager_LoadBeforeStart(t *testing.T) {
	mgr, _ := newTestManager(t, testConfig(t), newMockRepo())
	if err := mgr.Load(context.Background()); err == nil {
		t.Error("expected error when loading before Start")
	}
}

func TestManager_GracefulShutdown(t *testing.T) {
	cfg := testConfig(t)
	cfg.Dataset.ReloadEnabled = true

	repo := newMockRepo()
	mgr, _ := newTestManager(t, cfg, repo)

	ctx, cancel := context.WithCancel(context.Background())
	mgr.Start(ctx)

	// Immediately cancel
	cancel()

	done := make(chan struct{})
	go func() {
		mgr.Stop()
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("manager.Stop() timed out - possible goroutine leak")
	}
}
