package app

import (
	"testing"
	"time"

	"gocv.io/x/gocv"

	"github.com/ayusman/pinchvaders/internal/capture"
	"github.com/ayusman/pinchvaders/internal/control"
	"github.com/ayusman/pinchvaders/internal/detector"
)

func solidFrame(t *testing.T, value float64) *gocv.Mat {
	t.Helper()
	mat := gocv.NewMatWithSizeFromScalar(gocv.NewScalar(value, value, value, 0), 240, 320, gocv.MatTypeCV8UC3)
	t.Cleanup(func() { mat.Close() })
	return &mat
}

// newTestApp builds an app around a looping mock camera and a scripted
// detector, ready for ticks to be driven by hand.
func newTestApp(t *testing.T, config Config) (*App, *detector.MockDetector) {
	t.Helper()

	if config.Tuning.Alpha == 0 {
		config.Tuning = control.DefaultConfig()
	}

	a, err := New(config)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	mock := detector.NewMockDetector()
	a.SetDetector(mock)
	a.SetCamera(capture.NewMockCamera([]*gocv.Mat{solidFrame(t, 128)}, true))

	if err := a.camera.Open(); err != nil {
		t.Fatalf("failed to open mock camera: %v", err)
	}
	t.Cleanup(func() { a.camera.Close() })

	return a, mock
}

func TestApp_TickMapsHandPosition(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}

	a, mock := newTestApp(t, Config{})
	mock.SetHands([]detector.Hand{detector.OpenHand(0.5)})

	a.tick()

	got := a.Controls()
	if got.TargetShipX != 450 {
		t.Errorf("expected centered hand to map to 450, got %g", got.TargetShipX)
	}
	if got.FireTrigger {
		t.Error("open hand must not fire")
	}
	if got.ShieldActive {
		t.Error("open hand must not raise the shield")
	}
}

func TestApp_TickPinchFiresOnce(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}

	a, mock := newTestApp(t, Config{})
	mock.QueueHands(
		[]detector.Hand{detector.OpenHand(0.5)},
		[]detector.Hand{detector.PinchedHand(0.5)},
		[]detector.Hand{detector.PinchedHand(0.5)},
	)

	a.tick()
	if a.Controls().FireTrigger {
		t.Fatal("no fire expected before the pinch")
	}

	a.tick()
	if !a.Controls().FireTrigger {
		t.Fatal("expected fire pulse on pinch engage")
	}

	a.tick()
	if a.Controls().FireTrigger {
		t.Error("held pinch must not fire again")
	}
}

func TestApp_TickFirePulseReachesGame(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}

	a, mock := newTestApp(t, Config{})
	mock.QueueHands(
		[]detector.Hand{detector.OpenHand(0.5)},
		[]detector.Hand{detector.PinchedHand(0.5)},
	)

	a.tick()
	a.tick()

	before := len(a.Game().Snapshot().Bullets)
	a.Game().Advance(1.0 / 60.0)
	after := len(a.Game().Snapshot().Bullets)

	if after != before+1 {
		t.Errorf("expected one player bullet after pinch, got %d -> %d", before, after)
	}
}

func TestApp_DisabledFeedsNoHandFrames(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}

	a, mock := newTestApp(t, Config{})
	mock.SetHands([]detector.Hand{detector.PinchedHand(0.2)})
	a.SetEnabled(false)

	a.tick()

	got := a.Controls()
	if got.FireTrigger {
		t.Error("disabled control must not fire")
	}
	if got.TargetShipX != 450 {
		t.Errorf("expected neutral position while disabled, got %g", got.TargetShipX)
	}
}

func TestApp_SetTuningRejectsInvalid(t *testing.T) {
	a, _ := newTestApp(t, Config{})

	bad := control.DefaultConfig()
	bad.Alpha = -1
	if err := a.SetTuning(bad); err == nil {
		t.Error("expected error for invalid tuning")
	}

	good := control.DefaultConfig()
	good.Alpha = 0.5
	if err := a.SetTuning(good); err != nil {
		t.Fatalf("SetTuning() error = %v", err)
	}
	if a.Tuning().Alpha != 0.5 {
		t.Errorf("expected live alpha 0.5, got %g", a.Tuning().Alpha)
	}
}

func TestApp_TickPublishesPreview(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}

	a, _ := newTestApp(t, Config{})

	if _, ok := a.Preview().Latest(); ok {
		t.Fatal("expected empty preview before first tick")
	}

	a.tick()

	jpeg, ok := a.Preview().Latest()
	if !ok {
		t.Fatal("expected a preview frame after tick")
	}
	// JPEG SOI marker.
	if len(jpeg) < 2 || jpeg[0] != 0xFF || jpeg[1] != 0xD8 {
		t.Errorf("preview frame is not a JPEG (starts %x)", jpeg[:2])
	}
}

func TestApp_AutoPauseAndResume(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}

	a, _ := newTestApp(t, Config{IdlePause: time.Nanosecond})

	// Identical frames: the first sets the baseline, the second shows
	// zero change and trips the idle pause.
	a.tick()
	a.tick()

	if !a.Game().IsPaused() {
		t.Fatal("expected auto-pause after idle frames")
	}

	// A frame that differs everywhere reads as activity and resumes.
	cam := capture.NewMockCamera([]*gocv.Mat{solidFrame(t, 255)}, true)
	cam.Open()
	a.SetCamera(cam)

	a.tick()

	if a.Game().IsPaused() {
		t.Error("expected resume on activity")
	}
}
