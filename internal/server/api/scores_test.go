package api

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/ayusman/pinchvaders/internal/store"
)

func newTestStore(t *testing.T) *store.Store {
	t.Helper()
	s, err := store.New(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("failed to create store: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func TestScoresHandler_List(t *testing.T) {
	s := newTestStore(t)
	if _, err := s.Scores().Add(100, 2); err != nil {
		t.Fatalf("failed to add score: %v", err)
	}
	if _, err := s.Scores().Add(250, 4); err != nil {
		t.Fatalf("failed to add score: %v", err)
	}

	handler := NewScoresHandler(s)
	req := httptest.NewRequest(http.MethodGet, "/api/scores", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	var resp listScoresResponse
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if len(resp.Scores) != 2 {
		t.Fatalf("expected 2 scores, got %d", len(resp.Scores))
	}
	if resp.Scores[0].Value != 250 {
		t.Errorf("expected highest score first, got %d", resp.Scores[0].Value)
	}
	if resp.Scores[0].Level != 4 {
		t.Errorf("expected level 4, got %d", resp.Scores[0].Level)
	}
}

func TestScoresHandler_ListLimit(t *testing.T) {
	s := newTestStore(t)
	for i := 0; i < 5; i++ {
		if _, err := s.Scores().Add(10*(i+1), 1); err != nil {
			t.Fatalf("failed to add score: %v", err)
		}
	}

	handler := NewScoresHandler(s)
	req := httptest.NewRequest(http.MethodGet, "/api/scores?limit=3", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	var resp listScoresResponse
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if len(resp.Scores) != 3 {
		t.Errorf("expected 3 scores, got %d", len(resp.Scores))
	}
}

func TestScoresHandler_ListBadLimit(t *testing.T) {
	handler := NewScoresHandler(newTestStore(t))

	for _, raw := range []string{"abc", "0", "-2"} {
		req := httptest.NewRequest(http.MethodGet, "/api/scores?limit="+raw, nil)
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)

		if rec.Code != http.StatusBadRequest {
			t.Errorf("limit=%q: expected 400, got %d", raw, rec.Code)
		}
	}
}

func TestScoresHandler_Best(t *testing.T) {
	s := newTestStore(t)
	if _, err := s.Scores().Add(130, 3); err != nil {
		t.Fatalf("failed to add score: %v", err)
	}
	if _, err := s.Scores().Add(90, 2); err != nil {
		t.Fatalf("failed to add score: %v", err)
	}

	handler := NewScoresHandler(s)
	req := httptest.NewRequest(http.MethodGet, "/api/scores/best", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	var resp bestScoreResponse
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if resp.Best != 130 {
		t.Errorf("expected best 130, got %d", resp.Best)
	}
}

func TestScoresHandler_BestEmpty(t *testing.T) {
	handler := NewScoresHandler(newTestStore(t))
	req := httptest.NewRequest(http.MethodGet, "/api/scores/best", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	var resp bestScoreResponse
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if resp.Best != 0 {
		t.Errorf("expected best 0 on empty store, got %d", resp.Best)
	}
}

func TestScoresHandler_MethodNotAllowed(t *testing.T) {
	handler := NewScoresHandler(newTestStore(t))
	req := httptest.NewRequest(http.MethodPost, "/api/scores", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusMethodNotAllowed {
		t.Errorf("expected 405, got %d", rec.Code)
	}
}
