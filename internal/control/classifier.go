package control

import (
	"github.com/ayusman/pinchvaders/internal/detector"
)

// minPalmScale guards the distance normalization against a collapsed
// palm measurement. Below this the frame carries no reliable gesture
// reading and both gestures release.
const minPalmScale = 1e-3

// GestureState is the discrete gesture reading for one frame. The
// JustPressed/JustReleased flags are true for exactly one frame per
// transition.
type GestureState struct {
	PinchActive       bool `json:"pinchActive"`
	PinchJustPressed  bool `json:"pinchJustPressed"`
	PinchJustReleased bool `json:"pinchJustReleased"`

	SecondaryActive       bool `json:"secondaryActive"`
	SecondaryJustPressed  bool `json:"secondaryJustPressed"`
	SecondaryJustReleased bool `json:"secondaryJustReleased"`
}

// Classifier derives gesture levels and edges from landmark distances.
// Each gesture follows the same two-threshold lifecycle: idle until the
// normalized distance drops below the on threshold, engaged until it
// rises above the off threshold. The band between the two prevents
// chatter when the distance hovers at the boundary.
type Classifier struct {
	cfg       Config
	pinch     bool
	secondary bool
}

// NewClassifier creates a Classifier with both gestures idle.
func NewClassifier(cfg Config) *Classifier {
	return &Classifier{cfg: cfg}
}

// Classify consumes one frame and returns the new gesture state.
// A frame with no detected hand forces both gestures to released; a
// held pinch never stays stuck firing across a tracking loss.
func (c *Classifier) Classify(f *detector.Frame) GestureState {
	var pinchNow, secondaryNow bool

	if f != nil && f.Detected {
		scale := f.Hand.PalmScale()
		if scale >= minPalmScale {
			pinchDist := detector.Distance(f.Hand.Points[detector.ThumbTip], f.Hand.Points[detector.IndexTip]) / scale
			pinchNow = nextLevel(c.pinch, pinchDist, c.cfg.PinchOnThreshold, c.cfg.PinchOffThreshold)

			secondaryDist := detector.Distance(f.Hand.Points[detector.IndexTip], f.Hand.Points[detector.MiddleTip]) / scale
			secondaryNow = nextLevel(c.secondary, secondaryDist, c.cfg.SecondaryOnThreshold, c.cfg.SecondaryOffThreshold)
		}
	}

	state := GestureState{
		PinchActive:           pinchNow,
		PinchJustPressed:      pinchNow && !c.pinch,
		PinchJustReleased:     !pinchNow && c.pinch,
		SecondaryActive:       secondaryNow,
		SecondaryJustPressed:  secondaryNow && !c.secondary,
		SecondaryJustReleased: !secondaryNow && c.secondary,
	}

	c.pinch = pinchNow
	c.secondary = secondaryNow

	return state
}

// Reset returns both gestures to idle without emitting release edges.
func (c *Classifier) Reset() {
	c.pinch = false
	c.secondary = false
}

// nextLevel applies the hysteresis band: an idle gesture engages below
// on, an engaged gesture releases above off, anything in between holds
// the current level.
func nextLevel(engaged bool, dist, on, off float64) bool {
	if engaged {
		return dist <= off
	}
	return dist < on
}
