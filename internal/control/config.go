// Package control converts noisy per-frame hand landmark estimates into
// stable, low-latency control signals for the game loop: a smoothed,
// deadzone-gated horizontal ship position, a one-frame fire pulse per
// pinch, and a shield level held while the two-finger gesture is held.
package control

import "fmt"

// Range is a linear interval used for position remapping.
type Range struct {
	Min float64 `json:"min"`
	Max float64 `json:"max"`
}

// Span returns the width of the range.
func (r Range) Span() float64 {
	return r.Max - r.Min
}

// Mid returns the midpoint of the range.
func (r Range) Mid() float64 {
	return (r.Min + r.Max) / 2
}

// Config holds the tuning parameters for the control pipeline. All
// gesture thresholds are palm-scale normalized distances, so they stay
// stable as the hand moves toward or away from the camera.
type Config struct {
	// Alpha is the exponential smoothing responsiveness in (0,1].
	// Higher is more responsive, lower is more stable.
	Alpha float64 `json:"alpha"`

	// DeadzoneThreshold is the minimum normalized displacement of the
	// smoothed position required to register movement.
	DeadzoneThreshold float64 `json:"deadzoneThreshold"`

	// PinchOnThreshold engages the pinch when the normalized thumb-index
	// distance falls below it; PinchOffThreshold releases it when the
	// distance rises above. Off must exceed on (hysteresis band).
	PinchOnThreshold  float64 `json:"pinchOnThreshold"`
	PinchOffThreshold float64 `json:"pinchOffThreshold"`

	// SecondaryOnThreshold and SecondaryOffThreshold form the hysteresis
	// band for the two-finger shield gesture (index-middle distance).
	SecondaryOnThreshold  float64 `json:"secondaryOnThreshold"`
	SecondaryOffThreshold float64 `json:"secondaryOffThreshold"`

	// TrackingLossGraceFrames is how many consecutive no-hand frames the
	// smoother holds its last value before freezing the ship position.
	TrackingLossGraceFrames int `json:"trackingLossGraceFrames"`

	// InputRange is the hand-tracking coordinate interval mapped onto
	// OutputRange, the game's playable horizontal interval.
	InputRange  Range `json:"inputRange"`
	OutputRange Range `json:"outputRange"`
}

// DefaultConfig returns the tuning used by the stock game. Alpha and the
// deadzone follow the values the controller shipped with; the gesture
// bands bracket a thumb-index engage distance of roughly a third of the
// palm width.
func DefaultConfig() Config {
	return Config{
		Alpha:                   0.35,
		DeadzoneThreshold:       0.03,
		PinchOnThreshold:        0.25,
		PinchOffThreshold:       0.35,
		SecondaryOnThreshold:    0.20,
		SecondaryOffThreshold:   0.30,
		TrackingLossGraceFrames: 6,
		InputRange:              Range{Min: 0.0, Max: 1.0},
		OutputRange:             Range{Min: 20, Max: 880},
	}
}

// Validate checks the configuration and returns a descriptive error for
// the first violation found. Invalid values are never clamped; a tuning
// mistake should fail at startup, not be silently masked.
func (c Config) Validate() error {
	if c.Alpha <= 0 || c.Alpha > 1 {
		return fmt.Errorf("alpha must be in (0,1], got %g", c.Alpha)
	}
	if c.DeadzoneThreshold < 0 {
		return fmt.Errorf("deadzoneThreshold must be >= 0, got %g", c.DeadzoneThreshold)
	}
	if c.PinchOnThreshold <= 0 {
		return fmt.Errorf("pinchOnThreshold must be > 0, got %g", c.PinchOnThreshold)
	}
	if c.PinchOffThreshold <= c.PinchOnThreshold {
		return fmt.Errorf("pinchOffThreshold (%g) must exceed pinchOnThreshold (%g)",
			c.PinchOffThreshold, c.PinchOnThreshold)
	}
	if c.SecondaryOnThreshold <= 0 {
		return fmt.Errorf("secondaryOnThreshold must be > 0, got %g", c.SecondaryOnThreshold)
	}
	if c.SecondaryOffThreshold <= c.SecondaryOnThreshold {
		return fmt.Errorf("secondaryOffThreshold (%g) must exceed secondaryOnThreshold (%g)",
			c.SecondaryOffThreshold, c.SecondaryOnThreshold)
	}
	if c.TrackingLossGraceFrames < 0 {
		return fmt.Errorf("trackingLossGraceFrames must be >= 0, got %d", c.TrackingLossGraceFrames)
	}
	if c.InputRange.Span() <= 0 {
		return fmt.Errorf("inputRange must have max > min, got [%g, %g]",
			c.InputRange.Min, c.InputRange.Max)
	}
	if c.OutputRange.Span() <= 0 {
		return fmt.Errorf("outputRange must have max > min, got [%g, %g]",
			c.OutputRange.Min, c.OutputRange.Max)
	}
	return nil
}
