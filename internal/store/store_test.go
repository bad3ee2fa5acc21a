package store

import (
	"errors"
	"path/filepath"
	"testing"

	"github.com/ayusman/pinchvaders/internal/control"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()

	dbPath := filepath.Join(t.TempDir(), "test.db")
	s, err := New(dbPath)
	if err != nil {
		t.Fatalf("failed to create store: %v", err)
	}
	t.Cleanup(func() { s.Close() })

	return s
}

func TestScores_AddAndTop(t *testing.T) {
	s := newTestStore(t)
	repo := s.Scores()

	for _, v := range []int{120, 560, 340} {
		if _, err := repo.Add(v, 1+v/200); err != nil {
			t.Fatalf("add score %d: %v", v, err)
		}
	}

	top, err := repo.Top(2)
	if err != nil {
		t.Fatalf("top: %v", err)
	}
	if len(top) != 2 {
		t.Fatalf("expected 2 scores, got %d", len(top))
	}
	if top[0].Value != 560 || top[1].Value != 340 {
		t.Errorf("expected scores ordered best first, got %d, %d", top[0].Value, top[1].Value)
	}
	if top[0].ID == "" {
		t.Error("expected a generated score ID")
	}
}

func TestScores_Best(t *testing.T) {
	s := newTestStore(t)
	repo := s.Scores()

	// Empty table: best is 0, not an error.
	best, err := repo.Best()
	if err != nil {
		t.Fatalf("best on empty table: %v", err)
	}
	if best != 0 {
		t.Errorf("expected 0 with no scores, got %d", best)
	}

	repo.Add(210, 2)
	repo.Add(90, 1)

	best, err = repo.Best()
	if err != nil {
		t.Fatalf("best: %v", err)
	}
	if best != 210 {
		t.Errorf("expected best 210, got %d", best)
	}
}

func TestSettings_GetSet(t *testing.T) {
	s := newTestStore(t)
	repo := s.Settings()

	if _, err := repo.Get("missing"); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound for a missing key, got %v", err)
	}

	if err := repo.Set("camera", "1"); err != nil {
		t.Fatalf("set: %v", err)
	}
	if err := repo.Set("camera", "2"); err != nil {
		t.Fatalf("overwrite: %v", err)
	}

	v, err := repo.Get("camera")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if v != "2" {
		t.Errorf("expected upserted value 2, got %q", v)
	}
}

func TestSettings_TuningRoundTrip(t *testing.T) {
	s := newTestStore(t)
	repo := s.Settings()

	if _, err := repo.LoadTuning(); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound before any tuning is saved, got %v", err)
	}

	cfg := control.DefaultConfig()
	cfg.Alpha = 0.5
	cfg.DeadzoneThreshold = 0.07
	if err := repo.SaveTuning(cfg); err != nil {
		t.Fatalf("save tuning: %v", err)
	}

	loaded, err := repo.LoadTuning()
	if err != nil {
		t.Fatalf("load tuning: %v", err)
	}
	if loaded.Alpha != 0.5 || loaded.DeadzoneThreshold != 0.07 {
		t.Errorf("tuning did not round-trip: %+v", loaded)
	}
	if err := loaded.Validate(); err != nil {
		t.Errorf("round-tripped tuning should stay valid: %v", err)
	}
}
