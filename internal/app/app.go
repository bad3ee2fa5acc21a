// Package app wires the capture, detection, control, and game layers
// into the running application.
package app

import (
	"log"
	"sync"
	"time"

	"github.com/ayusman/pinchvaders/internal/capture"
	"github.com/ayusman/pinchvaders/internal/control"
	"github.com/ayusman/pinchvaders/internal/detector"
	"github.com/ayusman/pinchvaders/internal/game"
	"github.com/ayusman/pinchvaders/internal/server"
)

// Config holds configuration options for the application.
type Config struct {
	CameraID int
	Tuning   control.Config

	// PresenceThresh is the percentage of changed pixels that counts as
	// operator activity. Zero picks the capture default.
	PresenceThresh float64

	// IdlePause auto-pauses the game after this long without any camera
	// activity. Zero disables auto-pause.
	IdlePause time.Duration
}

// App owns the capture loop: it reads camera frames, runs hand
// detection, folds the result through the control pipeline, and feeds
// the game loop. One goroutine, one camera reader.
type App struct {
	config   Config
	camera   capture.Camera
	presence *capture.Presence
	detector detector.Detector
	detCfg   detector.Config
	pipeline *control.Pipeline
	loop     *game.Loop
	preview  *server.Preview

	enabled    bool
	autoPaused bool
	seq        int64
	lastVector control.Vector
	mu         sync.RWMutex
	stopCh     chan struct{}
}

// New creates a new App. The tuning config is validated up front; a bad
// config is a startup error, not something to limp along with.
func New(config Config) (*App, error) {
	pipeline, err := control.NewPipeline(config.Tuning)
	if err != nil {
		return nil, err
	}

	a := &App{
		config:   config,
		camera:   capture.NewCamera(config.CameraID),
		presence: capture.NewPresence(config.PresenceThresh),
		detCfg:   detector.DefaultConfig(),
		pipeline: pipeline,
		loop:     game.NewLoop(game.NewWorld(time.Now().UnixNano())),
		preview:  server.NewPreview(),
		enabled:  true,
	}
	a.lastVector = pipeline.Tick(nil)

	// Try MediaPipe first, fall back to the scripted detector so the
	// rest of the stack still comes up on machines without Python.
	if mp, err := detector.NewMediaPipeDetector(a.detCfg); err == nil {
		a.detector = mp
		log.Println("Using MediaPipe hand detection")
	} else {
		log.Printf("MediaPipe not available (%v), using mock detector", err)
		a.detector = detector.NewMockDetector()
	}

	return a, nil
}

// SetEnabled enables or disables gesture control. While disabled the
// camera keeps running for the preview, but the pipeline only sees
// no-hand frames: gestures release and the ship freezes at the last
// emitted position, or rests at neutral if no hand was ever tracked.
func (a *App) SetEnabled(enabled bool) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.enabled = enabled
}

// IsEnabled returns whether gesture control is currently enabled.
func (a *App) IsEnabled() bool {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.enabled
}

// SetDetector sets the hand detector implementation to use.
func (a *App) SetDetector(d detector.Detector) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.detector = d
}

// SetCamera sets the camera implementation to use. Only effective
// before Start.
func (a *App) SetCamera(c capture.Camera) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.camera = c
}

// Tuning returns the live pipeline configuration.
func (a *App) Tuning() control.Config {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.pipeline.Config()
}

// SetTuning swaps in a new pipeline built from cfg. The old pipeline's
// smoothing and gesture state is discarded; the next frame reseeds.
func (a *App) SetTuning(cfg control.Config) error {
	pipeline, err := control.NewPipeline(cfg)
	if err != nil {
		return err
	}

	a.mu.Lock()
	defer a.mu.Unlock()
	a.pipeline = pipeline
	return nil
}

// Start opens the camera, starts the game loop, and begins capturing.
func (a *App) Start() error {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.stopCh != nil {
		return nil
	}

	if err := a.camera.Open(); err != nil {
		return err
	}
	a.camera.SetFPS(capture.DefaultFPS)

	a.loop.Start()

	a.stopCh = make(chan struct{})
	go a.runCapture(a.stopCh)

	log.Println("Capture pipeline started")
	return nil
}

// Stop halts the capture loop and the game, and releases resources.
func (a *App) Stop() {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.stopCh != nil {
		close(a.stopCh)
		a.stopCh = nil
	}

	a.loop.Stop()

	if err := a.camera.Close(); err != nil {
		log.Printf("Error closing camera: %v", err)
	}

	a.presence.Close()

	if a.detector != nil {
		if err := a.detector.Close(); err != nil {
			log.Printf("Error closing detector: %v", err)
		}
	}

	log.Println("Capture pipeline stopped")
}

// Game returns the game loop.
func (a *App) Game() *game.Loop {
	return a.loop
}

// Preview returns the shared camera preview buffer.
func (a *App) Preview() *server.Preview {
	return a.preview
}

// Controls returns the most recent control vector.
func (a *App) Controls() control.Vector {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.lastVector
}

// Camera returns the camera instance.
func (a *App) Camera() capture.Camera {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.camera
}
