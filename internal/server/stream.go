package server

import (
	"fmt"
	"net/http"
	"sync"
	"time"
)

// Preview is the shared camera preview buffer. The app writes one
// encoded JPEG per capture tick; stream clients read the latest. A
// single buffer keeps the camera with exactly one reader.
type Preview struct {
	mu   sync.RWMutex
	jpeg []byte
}

// NewPreview creates an empty preview buffer.
func NewPreview() *Preview {
	return &Preview{}
}

// Update replaces the buffered frame. The buffer keeps its own copy.
func (p *Preview) Update(jpeg []byte) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.jpeg = append(p.jpeg[:0], jpeg...)
}

// Latest returns a copy of the buffered frame, or false when no frame
// has been written yet.
func (p *Preview) Latest() ([]byte, bool) {
	p.mu.RLock()
	defer p.mu.RUnlock()
	if len(p.jpeg) == 0 {
		return nil, false
	}
	return append([]byte(nil), p.jpeg...), true
}

// StreamHandler serves MJPEG frames from the preview buffer.
type StreamHandler struct {
	preview *Preview
}

// NewStreamHandler creates a new StreamHandler over the given buffer.
func NewStreamHandler(preview *Preview) *StreamHandler {
	return &StreamHandler{preview: preview}
}

// ServeHTTP streams MJPEG frames to connected clients.
func (h *StreamHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	w.Header().Set("Content-Type", "multipart/x-mixed-replace; boundary=frame")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")

	for {
		select {
		case <-r.Context().Done():
			return
		default:
		}

		frame, ok := h.preview.Latest()
		if !ok {
			time.Sleep(100 * time.Millisecond)
			continue
		}

		fmt.Fprintf(w, "--frame\r\n")
		fmt.Fprintf(w, "Content-Type: image/jpeg\r\n")
		fmt.Fprintf(w, "Content-Length: %d\r\n\r\n", len(frame))
		w.Write(frame)
		fmt.Fprintf(w, "\r\n")

		if f, ok := w.(http.Flusher); ok {
			f.Flush()
		}

		time.Sleep(66 * time.Millisecond) // ~15 FPS
	}
}
