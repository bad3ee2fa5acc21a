// Package detector provides hand detection interfaces and types for the
// gesture control pipeline.
package detector

import "math"

// Hand landmark indices following MediaPipe convention.
// See: https://developers.google.com/mediapipe/solutions/vision/hand_landmarker
const (
	Wrist        = 0
	ThumbCMC     = 1
	ThumbMCP     = 2
	ThumbIP      = 3
	ThumbTip     = 4
	IndexMCP     = 5
	IndexPIP     = 6
	IndexDIP     = 7
	IndexTip     = 8
	MiddleMCP    = 9
	MiddlePIP    = 10
	MiddleDIP    = 11
	MiddleTip    = 12
	RingMCP      = 13
	RingPIP      = 14
	RingDIP      = 15
	RingTip      = 16
	PinkyMCP     = 17
	PinkyPIP     = 18
	PinkyDIP     = 19
	PinkyTip     = 20
	NumLandmarks = 21
)

// Point represents a 2D landmark position in normalized [0,1] image
// coordinates.
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Distance calculates the Euclidean distance between two points.
func Distance(a, b Point) float64 {
	return math.Hypot(a.X-b.X, a.Y-b.Y)
}

// Hand represents the 21 hand landmarks detected for a single hand.
type Hand struct {
	Points     [NumLandmarks]Point `json:"points"`
	Handedness string              `json:"handedness"` // "Left" or "Right"
	Score      float64             `json:"score"`
}

// PalmScale returns the wrist to middle-MCP distance, used as a stable
// reference length to keep landmark distances scale-invariant across
// distance from the camera. A value near zero means the measurement is
// unreliable this frame.
func (h *Hand) PalmScale() float64 {
	return Distance(h.Points[Wrist], h.Points[MiddleMCP])
}

// Frame is one tick of landmark input for the control pipeline. Exactly
// one Frame is produced per camera frame; when Detected is false the
// Hand field is zero and must not be read.
type Frame struct {
	Seq         int64 `json:"seq"`
	TimestampMs int64 `json:"timestampMs"`
	Detected    bool  `json:"detected"`
	Hand        Hand  `json:"hand"`
}

// BestHand picks the single tracked hand from a detection result: the
// highest-scoring hand at or above minConfidence. Returns false when no
// hand qualifies, which callers treat the same as no detection.
func BestHand(hands []Hand, minConfidence float64) (Hand, bool) {
	best := -1
	for i := range hands {
		if hands[i].Score < minConfidence {
			continue
		}
		if best < 0 || hands[i].Score > hands[best].Score {
			best = i
		}
	}
	if best < 0 {
		return Hand{}, false
	}
	return hands[best], true
}
