package control

// Smoother low-pass filters the raw horizontal position with an
// exponential moving average. It owns the only persistent signal state
// in the pipeline: the running average and a counter of consecutive
// missed frames.
type Smoother struct {
	alpha  float64
	grace  int
	value  float64
	seeded bool
	missed int
}

// NewSmoother creates a Smoother in the unseeded state; the first
// observation passes through unfiltered.
func NewSmoother(cfg Config) *Smoother {
	return &Smoother{
		alpha: cfg.Alpha,
		grace: cfg.TrackingLossGraceFrames,
	}
}

// Observe folds one raw position sample into the average and returns
// the smoothed value. The step never moves the output farther than the
// input moved: |out - prev| = alpha * |raw - prev| <= |raw - prev|.
func (s *Smoother) Observe(raw float64) float64 {
	s.missed = 0
	if !s.seeded {
		s.value = raw
		s.seeded = true
		return s.value
	}
	s.value = s.alpha*raw + (1-s.alpha)*s.value
	return s.value
}

// Coast advances one tick with no detected hand. Within the grace
// window it holds the last smoothed value so brief tracking dropouts
// pass unnoticed; once the window is exhausted the smoother resets and
// reports unavailable, and the caller freezes the ship in place.
func (s *Smoother) Coast() (float64, bool) {
	if !s.seeded {
		return 0, false
	}
	s.missed++
	if s.missed > s.grace {
		s.Reset()
		return 0, false
	}
	return s.value, true
}

// Reset discards the accumulator; the next Observe reseeds from its raw
// value, so recovery never snaps from stale state.
func (s *Smoother) Reset() {
	s.value = 0
	s.seeded = false
	s.missed = 0
}
