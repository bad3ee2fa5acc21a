// Package api provides the JSON HTTP handlers for scores and tuning.
package api

import (
	"encoding/json"
	"net/http"
	"strconv"
	"strings"

	"github.com/ayusman/pinchvaders/internal/store"
)

// defaultScoreLimit caps the scoreboard length when no limit is given.
const defaultScoreLimit = 10

// ScoresHandler handles HTTP requests for recorded scores.
type ScoresHandler struct {
	store *store.Store
}

// NewScoresHandler creates a new ScoresHandler with the given store.
func NewScoresHandler(s *store.Store) *ScoresHandler {
	return &ScoresHandler{store: s}
}

type scoreResponse struct {
	ID        string `json:"id"`
	Value     int    `json:"value"`
	Level     int    `json:"level"`
	CreatedAt string `json:"created_at"`
}

type listScoresResponse struct {
	Scores []scoreResponse `json:"scores"`
}

type bestScoreResponse struct {
	Best int `json:"best"`
}

type errorResponse struct {
	Error string `json:"error"`
}

// ServeHTTP routes /api/scores and /api/scores/best.
func (h *ScoresHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	path := strings.TrimPrefix(r.URL.Path, "/api/scores")
	path = strings.TrimPrefix(path, "/")

	switch path {
	case "":
		h.list(w, r)
	case "best":
		h.best(w, r)
	default:
		writeError(w, http.StatusNotFound, "not found")
	}
}

func (h *ScoresHandler) list(w http.ResponseWriter, r *http.Request) {
	limit := defaultScoreLimit
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n <= 0 {
			writeError(w, http.StatusBadRequest, "limit must be a positive integer")
			return
		}
		limit = n
	}

	scores, err := h.store.Scores().Top(limit)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to list scores")
		return
	}

	resp := listScoresResponse{Scores: make([]scoreResponse, 0, len(scores))}
	for _, s := range scores {
		resp.Scores = append(resp.Scores, scoreResponse{
			ID:        s.ID,
			Value:     s.Value,
			Level:     s.Level,
			CreatedAt: s.CreatedAt.Format("2006-01-02T15:04:05Z07:00"),
		})
	}

	writeJSON(w, http.StatusOK, resp)
}

func (h *ScoresHandler) best(w http.ResponseWriter, r *http.Request) {
	best, err := h.store.Scores().Best()
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to read best score")
		return
	}
	writeJSON(w, http.StatusOK, bestScoreResponse{Best: best})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, errorResponse{Error: msg})
}
