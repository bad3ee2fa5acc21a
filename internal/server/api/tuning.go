package api

import (
	"encoding/json"
	"log"
	"net/http"

	"github.com/ayusman/pinchvaders/internal/control"
	"github.com/ayusman/pinchvaders/internal/store"
)

// TuningHandler exposes the live pipeline configuration: GET returns
// it, PUT validates, applies, and persists a replacement. Validation is
// all-or-nothing; a bad config is rejected with 400 and the running
// pipeline is untouched.
type TuningHandler struct {
	store   *store.Store
	current func() control.Config
	apply   func(control.Config) error
}

// NewTuningHandler creates a TuningHandler. The store may be nil, in
// which case accepted configs apply to the live pipeline only.
func NewTuningHandler(s *store.Store, current func() control.Config, apply func(control.Config) error) *TuningHandler {
	return &TuningHandler{store: s, current: current, apply: apply}
}

// ServeHTTP routes /api/tuning.
func (h *TuningHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		writeJSON(w, http.StatusOK, h.current())
	case http.MethodPut:
		h.update(w, r)
	default:
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
	}
}

func (h *TuningHandler) update(w http.ResponseWriter, r *http.Request) {
	var cfg control.Config
	if err := json.NewDecoder(r.Body).Decode(&cfg); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	if err := cfg.Validate(); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	if err := h.apply(cfg); err != nil {
		writeError(w, http.StatusInternalServerError, "failed to apply tuning")
		return
	}

	if h.store != nil {
		if err := h.store.Settings().SaveTuning(cfg); err != nil {
			// The live pipeline already runs the new config; losing the
			// persisted copy only costs the override across a restart.
			log.Printf("failed to persist tuning: %v", err)
		}
	}

	writeJSON(w, http.StatusOK, cfg)
}
