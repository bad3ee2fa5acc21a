package app

import (
	"log"
	"time"

	"gocv.io/x/gocv"

	"github.com/ayusman/pinchvaders/internal/capture"
	"github.com/ayusman/pinchvaders/internal/detector"
)

// runCapture is the camera-side loop. Each tick it reads one frame,
// checks for operator presence, runs hand detection, feeds the control
// pipeline, and publishes the frame to the preview buffer.
//
// The game loop runs at 60 Hz while this loop runs at the camera's 15
// FPS; the game side latches fire pulses between capture ticks, so
// nothing here needs to run faster than the camera.
func (a *App) runCapture(stopCh chan struct{}) {
	interval := time.Second / time.Duration(capture.DefaultFPS)

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-stopCh:
			return
		case <-ticker.C:
			a.tick()
		}
	}
}

// tick processes a single camera frame end to end.
func (a *App) tick() {
	a.mu.RLock()
	camera := a.camera
	det := a.detector
	enabled := a.enabled
	a.mu.RUnlock()

	frame, err := camera.ReadFrame()
	if err != nil {
		log.Printf("Error reading frame: %v", err)
		return
	}
	defer frame.Close()

	a.observePresence(frame)

	var out detector.Frame
	out.Seq = a.nextSeq()
	out.TimestampMs = time.Now().UnixMilli()

	if enabled && det != nil {
		hands, err := det.Detect(frame)
		if err != nil {
			log.Printf("Error detecting hands: %v", err)
		} else if hand, ok := detector.BestHand(hands, a.detCfg.MinConfidence); ok {
			out.Detected = true
			out.Hand = hand
		}
	}

	a.mu.Lock()
	vector := a.pipeline.Tick(&out)
	a.lastVector = vector
	a.mu.Unlock()

	a.loop.SetControls(vector)

	a.publishPreview(frame)
}

// observePresence feeds the presence monitor and drives auto-pause.
// Only pauses taken here are undone here; a pause set through the tray
// or the game itself stays put.
func (a *App) observePresence(frame *gocv.Mat) {
	active, _ := a.presence.Observe(frame)

	if a.config.IdlePause <= 0 {
		return
	}

	a.mu.Lock()
	defer a.mu.Unlock()

	if active && a.autoPaused {
		a.autoPaused = false
		a.loop.SetPaused(false)
		log.Println("Activity detected, resuming game")
		return
	}

	if !a.autoPaused && !a.loop.IsPaused() && a.presence.IdleFor() > a.config.IdlePause {
		a.autoPaused = true
		a.loop.SetPaused(true)
		log.Println("No activity, pausing game")
	}
}

// publishPreview encodes the frame as JPEG into the shared buffer.
func (a *App) publishPreview(frame *gocv.Mat) {
	buf, err := gocv.IMEncode(".jpg", *frame)
	if err != nil {
		log.Printf("Error encoding preview frame: %v", err)
		return
	}
	defer buf.Close()

	a.preview.Update(buf.GetBytes())
}

func (a *App) nextSeq() int64 {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.seq++
	return a.seq
}
