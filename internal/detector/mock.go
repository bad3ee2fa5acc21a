package detector

import (
	"gocv.io/x/gocv"
)

// MockDetector is a test implementation of the Detector interface.
// It allows tests to control the detection results, either as a fixed
// result or as a scripted per-frame sequence.
type MockDetector struct {
	hands  []Hand
	script [][]Hand
	err    error
}

// NewMockDetector creates a new MockDetector instance.
func NewMockDetector() *MockDetector {
	return &MockDetector{}
}

// SetHands sets the hands that will be returned by every Detect call.
func (m *MockDetector) SetHands(hands []Hand) {
	m.hands = hands
}

// SetError sets the error that will be returned by Detect.
func (m *MockDetector) SetError(err error) {
	m.err = err
}

// QueueHands appends per-frame results; each Detect call consumes one
// entry before falling back to the fixed result from SetHands.
func (m *MockDetector) QueueHands(batches ...[]Hand) {
	m.script = append(m.script, batches...)
}

// Detect returns the next scripted result, or the fixed hands/error.
func (m *MockDetector) Detect(frame *gocv.Mat) ([]Hand, error) {
	if m.err != nil {
		return nil, m.err
	}
	if len(m.script) > 0 {
		next := m.script[0]
		m.script = m.script[1:]
		return next, nil
	}
	return m.hands, nil
}

// Close is a no-op for the mock detector.
func (m *MockDetector) Close() error {
	return nil
}

// baseHand returns an upright open hand centered horizontally at x.
// Wrist sits at (x, 0.8) and the middle MCP at (x, 0.6), giving a palm
// scale of 0.2 for distance normalization in tests.
func baseHand(x float64) Hand {
	h := Hand{
		Handedness: "Right",
		Score:      0.95,
	}

	h.Points[Wrist] = Point{X: x, Y: 0.8}

	// Thumb extended to the side
	h.Points[ThumbCMC] = Point{X: x + 0.05, Y: 0.75}
	h.Points[ThumbMCP] = Point{X: x + 0.10, Y: 0.68}
	h.Points[ThumbIP] = Point{X: x + 0.13, Y: 0.62}
	h.Points[ThumbTip] = Point{X: x + 0.15, Y: 0.55}

	// Index finger extended upward
	h.Points[IndexMCP] = Point{X: x - 0.04, Y: 0.62}
	h.Points[IndexPIP] = Point{X: x - 0.05, Y: 0.52}
	h.Points[IndexDIP] = Point{X: x - 0.05, Y: 0.43}
	h.Points[IndexTip] = Point{X: x - 0.05, Y: 0.35}

	// Middle finger extended upward
	h.Points[MiddleMCP] = Point{X: x, Y: 0.6}
	h.Points[MiddlePIP] = Point{X: x + 0.02, Y: 0.48}
	h.Points[MiddleDIP] = Point{X: x + 0.05, Y: 0.38}
	h.Points[MiddleTip] = Point{X: x + 0.08, Y: 0.30}

	// Ring finger extended upward
	h.Points[RingMCP] = Point{X: x + 0.05, Y: 0.62}
	h.Points[RingPIP] = Point{X: x + 0.07, Y: 0.52}
	h.Points[RingDIP] = Point{X: x + 0.09, Y: 0.44}
	h.Points[RingTip] = Point{X: x + 0.11, Y: 0.38}

	// Pinky finger extended upward
	h.Points[PinkyMCP] = Point{X: x + 0.09, Y: 0.65}
	h.Points[PinkyPIP] = Point{X: x + 0.11, Y: 0.57}
	h.Points[PinkyDIP] = Point{X: x + 0.13, Y: 0.51}
	h.Points[PinkyTip] = Point{X: x + 0.14, Y: 0.46}

	return h
}

// OpenHand returns a preset Hand with all fingers spread, centered at x.
// Neither the pinch nor the two-finger gesture is engaged.
func OpenHand(x float64) Hand {
	return baseHand(x)
}

// PinchedHand returns a preset Hand with thumb tip and index tip brought
// together, centered at x. Engages the pinch gesture.
func PinchedHand(x float64) Hand {
	h := baseHand(x)
	h.Points[ThumbTip] = Point{X: x - 0.048, Y: 0.352}
	h.Points[IndexTip] = Point{X: x - 0.05, Y: 0.35}
	return h
}

// TwoFingerHand returns a preset Hand with index and middle tips held
// together, centered at x. Engages the secondary gesture while the
// thumb stays clear of the index tip.
func TwoFingerHand(x float64) Hand {
	h := baseHand(x)
	h.Points[IndexTip] = Point{X: x - 0.01, Y: 0.35}
	h.Points[MiddleTip] = Point{X: x + 0.01, Y: 0.35}
	h.Points[MiddleDIP] = Point{X: x + 0.01, Y: 0.43}
	return h
}
