package locale

import (
	"testing"

	"github.com/paulmach/orb"

	"github.com/mr1hm/go-seaglass-map/internal/models"
	"github.com/mr1hm/go-seaglass-map/internal/scoring"
)

func bilingualZone() scoring.Zone {
	return scoring.DefaultModel().Zone(models.ZoneRecord{
		ID:          "bangpakong",
		Coordinates: orb.Point{100.95, 13.49},
		Category:    models.CategoryRiverMouth,
		Subscores:   models.Subscores{Historical: 0.8, Morphology: 0.8, River: 0.6, Ocean: 0.4, Population: 0.4},
		Name:        models.Text{models.LocaleEnglish: "Bang Pakong estuary", models.LocaleThai: "ปากแม่น้ำบางปะกง"},
		Description: models.Text{models.LocaleEnglish: "Former glassworks upstream"},
	})
}

func TestProjectZone(t *testing.T) {
	z := bilingualZone()

	en := ProjectZone(z, models.LocaleEnglish, Default)
	if en.Name != "Bang Pakong estuary" {
		t.Errorf("expected english name, got %q", en.Name)
	}

	th := ProjectZone(z, models.LocaleThai, Default)
	if th.Name != "ปากแม่น้ำบางปะกง" {
		t.Errorf("expected thai name, got %q", th.Name)
	}
	// missing thai description falls back to english
	if th.Description != "Former glassworks upstream" {
		t.Errorf("expected fallback description, got %q", th.Description)
	}

	if th.Score != z.Score() || th.Classification != z.Classification() || th.Rank != z.Rank() {
		t.Errorf("derived fields changed: %+v", th)
	}
	if th.Coordinates != z.Coordinates || th.Subscores != z.Subscores || th.Category != z.Category {
		t.Errorf("pass-through fields changed: %+v", th)
	}
}

func TestProjectZone_UnsupportedLocaleFallsBack(t *testing.T) {
	z := bilingualZone()

	got := ProjectZone(z, "ja", Default)
	want := ProjectZone(z, Default, Default)
	if got != want {
		t.Errorf("expected default projection, got %+v", got)
	}
}

func TestProjectArea(t *testing.T) {
	a := models.ProtectedArea{
		ID:          "khao-sam-roi-yot",
		Coordinates: orb.Point{99.95, 12.2},
		RadiusKm:    8,
		Status:      models.AreaStatusProhibited,
		Name:        models.Text{models.LocaleEnglish: "Khao Sam Roi Yot", models.LocaleThai: "เขาสามร้อยยอด"},
	}

	got := ProjectArea(a, models.LocaleThai, Default)
	if got.Name != "เขาสามร้อยยอด" || got.RadiusKm != 8 || got.Status != models.AreaStatusProhibited {
		t.Errorf("unexpected projection: %+v", got)
	}
	if got.Description != "" {
		t.Errorf("expected empty description, got %q", got.Description)
	}
}

func TestProjectRivers(t *testing.T) {
	rivers := []models.RiverMouth{
		{ID: "chao-phraya", Name: models.Text{models.LocaleThai: "เจ้าพระยา", models.LocaleEnglish: "Chao Phraya"}},
		{ID: "tha-chin", Name: models.Text{models.LocaleEnglish: "Tha Chin"}},
	}

	got := ProjectRivers(rivers, models.LocaleThai, Default)
	if len(got) != 2 {
		t.Fatalf("expected 2 rivers, got %d", len(got))
	}
	if got[0].Name != "เจ้าพระยา" || got[1].Name != "Tha Chin" {
		t.Errorf("unexpected names: %q, %q", got[0].Name, got[1].Name)
	}
	if len(ProjectRivers(nil, models.LocaleThai, Default)) != 0 {
		t.Error("expected empty projection for no rivers")
	}
}

func TestProjectRiver_ConfiguredFallback(t *testing.T) {
	r := models.RiverMouth{
		ID:   "bang-pakong",
		Name: models.Text{models.LocaleThai: "บางปะกง"},
	}

	if got := ProjectRiver(r, models.LocaleEnglish, models.LocaleThai); got.Name != "บางปะกง" {
		t.Errorf("expected thai fallback, got %q", got.Name)
	}
	if got := ProjectRiver(r, models.LocaleEnglish, models.LocaleEnglish); got.Name != "" {
		t.Errorf("expected empty name without an english entry, got %q", got.Name)
	}
}

func TestProjectZone_UnsupportedLocaleUsesFallback(t *testing.T) {
	z := bilingualZone()

	if got := ProjectZone(z, "ja", models.LocaleThai); got.Name != "ปากแม่น้ำบางปะกง" {
		t.Errorf("expected configured fallback locale, got %q", got.Name)
	}
	// an unsupported fallback resolves to Default
	if got := ProjectZone(z, "ja", "fr"); got.Name != "Bang Pakong estuary" {
		t.Errorf("expected default locale, got %q", got.Name)
	}
}
