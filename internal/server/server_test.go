package server

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"

	"github.com/ayusman/pinchvaders/internal/control"
)

func TestServer_Health(t *testing.T) {
	srv := New(Config{})

	req := httptest.NewRequest(http.MethodGet, "/api/health", nil)
	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	var resp map[string]interface{}
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if resp["status"] != "ok" {
		t.Errorf("expected status ok, got %v", resp["status"])
	}
	if _, ok := resp["uptime"]; !ok {
		t.Error("expected uptime in health response")
	}
}

func TestServer_HealthMethodNotAllowed(t *testing.T) {
	srv := New(Config{})

	req := httptest.NewRequest(http.MethodPost, "/api/health", nil)
	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, req)

	if rec.Code != http.StatusMethodNotAllowed {
		t.Errorf("expected 405, got %d", rec.Code)
	}
}

func TestServer_DisabledRoutes(t *testing.T) {
	// No store, game, controls, or preview configured: those routes
	// should not exist.
	srv := New(Config{})

	for _, path := range []string{"/api/scores", "/api/tuning", "/api/stream"} {
		req := httptest.NewRequest(http.MethodGet, path, nil)
		rec := httptest.NewRecorder()
		srv.ServeHTTP(rec, req)

		if rec.Code != http.StatusNotFound {
			t.Errorf("%s: expected 404 when unconfigured, got %d", path, rec.Code)
		}
	}
}

func TestPreview_UpdateAndLatest(t *testing.T) {
	p := NewPreview()

	if _, ok := p.Latest(); ok {
		t.Error("expected no frame before first update")
	}

	frame := []byte{0xFF, 0xD8, 0x01, 0x02}
	p.Update(frame)

	got, ok := p.Latest()
	if !ok {
		t.Fatal("expected a frame after update")
	}
	if len(got) != len(frame) || got[0] != 0xFF || got[3] != 0x02 {
		t.Errorf("unexpected frame contents: %v", got)
	}

	// Mutating the returned slice must not touch the buffer.
	got[0] = 0x00
	again, _ := p.Latest()
	if again[0] != 0xFF {
		t.Error("Latest must return a copy, not the internal buffer")
	}
}

func TestPreview_UpdateReplaces(t *testing.T) {
	p := NewPreview()
	p.Update([]byte{1, 2, 3, 4})
	p.Update([]byte{9, 8})

	got, _ := p.Latest()
	if len(got) != 2 || got[0] != 9 {
		t.Errorf("expected latest frame {9 8}, got %v", got)
	}
}

func TestFeedHandler_Broadcast(t *testing.T) {
	vec := control.Vector{TargetShipX: 450, FireTrigger: true}
	handler := NewFeedHandler(10*time.Millisecond, func() any { return vec })

	ts := httptest.NewServer(handler)
	defer ts.Close()

	url := "ws" + strings.TrimPrefix(ts.URL, "http")
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		t.Fatalf("failed to dial websocket: %v", err)
	}
	defer conn.Close()

	conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	_, msg, err := conn.ReadMessage()
	if err != nil {
		t.Fatalf("failed to read broadcast: %v", err)
	}

	var got control.Vector
	if err := json.Unmarshal(msg, &got); err != nil {
		t.Fatalf("failed to decode broadcast: %v", err)
	}
	if got.TargetShipX != 450 {
		t.Errorf("expected target x 450, got %g", got.TargetShipX)
	}
	if !got.FireTrigger {
		t.Error("expected fire trigger in broadcast")
	}
}
