// Package server provides the HTTP surface: game-state and control
// websocket feeds, the MJPEG camera preview, and the scores/tuning APIs.
package server

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/ayusman/pinchvaders/internal/control"
	"github.com/ayusman/pinchvaders/internal/game"
	"github.com/ayusman/pinchvaders/internal/server/api"
	"github.com/ayusman/pinchvaders/internal/store"
)

// Broadcast intervals for the websocket feeds.
const (
	stateInterval    = 33 * time.Millisecond // ~30 Hz, matches what a browser can draw
	controlsInterval = 66 * time.Millisecond // camera rate; finer adds nothing
)

// Config holds the server configuration. Nil/empty fields disable the
// corresponding routes.
type Config struct {
	StaticDir string
	Store     *store.Store
	Game      *game.Loop

	// Controls returns the latest control vector for the debug feed.
	Controls func() control.Vector

	// Preview is the shared camera preview buffer written by the app.
	Preview *Preview

	// ApplyTuning swaps the live pipeline configuration; called by the
	// tuning API after validation.
	ApplyTuning func(control.Config) error

	// CurrentTuning returns the live pipeline configuration.
	CurrentTuning func() control.Config
}

// Server represents the HTTP server.
type Server struct {
	config Config
	mux    *http.ServeMux
	start  time.Time
}

// New creates a new Server with the given configuration.
func New(config Config) *Server {
	s := &Server{
		config: config,
		mux:    http.NewServeMux(),
		start:  time.Now(),
	}
	s.setupRoutes()
	return s
}

// setupRoutes configures all HTTP routes for the server.
func (s *Server) setupRoutes() {
	s.mux.HandleFunc("/api/health", s.handleHealth)

	if s.config.Store != nil {
		scoresHandler := api.NewScoresHandler(s.config.Store)
		s.mux.Handle("/api/scores", scoresHandler)
		s.mux.Handle("/api/scores/", scoresHandler)
	}

	if s.config.CurrentTuning != nil && s.config.ApplyTuning != nil {
		tuningHandler := api.NewTuningHandler(s.config.Store, s.config.CurrentTuning, s.config.ApplyTuning)
		s.mux.Handle("/api/tuning", tuningHandler)
	}

	if s.config.Game != nil {
		s.mux.Handle("/api/state", NewFeedHandler(stateInterval, func() any {
			return s.config.Game.Snapshot()
		}))
	}

	if s.config.Controls != nil {
		s.mux.Handle("/api/controls", NewFeedHandler(controlsInterval, func() any {
			return s.config.Controls()
		}))
	}

	if s.config.Preview != nil {
		s.mux.Handle("/api/stream", NewStreamHandler(s.config.Preview))
	}

	if s.config.StaticDir != "" {
		fs := http.FileServer(http.Dir(s.config.StaticDir))
		s.mux.Handle("/", fs)
	}
}

// ServeHTTP implements the http.Handler interface.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.mux.ServeHTTP(w, r)
}

// handleHealth handles GET requests to /api/health.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	uptime := time.Since(s.start)

	response := map[string]interface{}{
		"status": "ok",
		"uptime": uptime.String(),
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(response); err != nil {
		http.Error(w, "Failed to encode response", http.StatusInternalServerError)
		return
	}
}

// ListenAndServe starts the HTTP server on the given address.
func (s *Server) ListenAndServe(addr string) error {
	return http.ListenAndServe(addr, s)
}
