package control

import "math"

// Gate suppresses position changes below the deadzone threshold.
// Smoothing alone still lets the filtered signal creep under sensor
// noise while the hand is stationary; the gate holds the previously
// emitted value bit-identical until the smoothed signal has moved at
// least the threshold away from it, so an idle hand provably produces a
// constant ship position.
type Gate struct {
	threshold float64
	last      float64
	primed    bool
}

// NewGate creates an unprimed Gate; the first emission passes through.
func NewGate(cfg Config) *Gate {
	return &Gate{threshold: cfg.DeadzoneThreshold}
}

// Emit returns the new output position: the smoothed input when it has
// moved at least the threshold from the last emitted value, otherwise
// the last emitted value unchanged.
func (g *Gate) Emit(smoothed float64) float64 {
	if !g.primed {
		g.last = smoothed
		g.primed = true
		return g.last
	}
	if math.Abs(smoothed-g.last) >= g.threshold {
		g.last = smoothed
	}
	return g.last
}

// Last returns the most recently emitted value, and false if nothing
// has been emitted yet.
func (g *Gate) Last() (float64, bool) {
	return g.last, g.primed
}

// Reset unprimes the gate.
func (g *Gate) Reset() {
	g.last = 0
	g.primed = false
}
