package server

import (
	"encoding/json"
	"log"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		return true // Allow local connections
	},
}

// FeedHandler broadcasts a JSON snapshot from a source function to all
// connected websocket clients on a fixed interval. Both the game-state
// feed and the control-vector feed are instances of it.
type FeedHandler struct {
	source  func() any
	clients map[*websocket.Conn]bool
	mu      sync.RWMutex
}

// NewFeedHandler creates a FeedHandler polling source every interval.
func NewFeedHandler(interval time.Duration, source func() any) *FeedHandler {
	h := &FeedHandler{
		source:  source,
		clients: make(map[*websocket.Conn]bool),
	}
	go h.broadcast(interval)
	return h
}

// ServeHTTP handles WebSocket upgrade requests.
func (h *FeedHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("websocket upgrade error: %v", err)
		return
	}
	defer conn.Close()

	h.mu.Lock()
	h.clients[conn] = true
	h.mu.Unlock()

	defer func() {
		h.mu.Lock()
		delete(h.clients, conn)
		h.mu.Unlock()
	}()

	// Keep connection alive by reading messages
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			break
		}
	}
}

// broadcast sends the current snapshot to all connected clients.
func (h *FeedHandler) broadcast(interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for range ticker.C {
		h.mu.RLock()
		idle := len(h.clients) == 0
		h.mu.RUnlock()
		if idle {
			continue
		}

		msg, err := json.Marshal(h.source())
		if err != nil {
			log.Printf("marshal feed snapshot: %v", err)
			continue
		}

		h.mu.RLock()
		for conn := range h.clients {
			conn.WriteMessage(websocket.TextMessage, msg)
		}
		h.mu.RUnlock()
	}
}
