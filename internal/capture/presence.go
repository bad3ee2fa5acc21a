package capture

import (
	"image"
	"sync"
	"time"

	"gocv.io/x/gocv"
)

// Presence monitoring constants.
const (
	// presenceBlurSize is the kernel size for Gaussian blur (21x21),
	// which suppresses sensor noise before differencing.
	presenceBlurSize = 21
	// presenceDiffThreshold is the binary threshold for per-pixel change.
	presenceDiffThreshold = 25
)

// Presence watches consecutive camera frames for operator activity
// using frame differencing. The game auto-pauses when the seat has been
// empty for a while and resumes on the next sign of movement; hand
// tracking alone cannot distinguish "hand out of frame" from "player
// walked away".
type Presence struct {
	threshold   float64
	prevGray    gocv.Mat
	initialized bool
	lastActive  time.Time
	mu          sync.Mutex

	now func() time.Time
}

// NewPresence creates a Presence monitor. The threshold is the
// percentage of pixels that must change between frames to count as
// activity; 1.0 means 1%.
func NewPresence(threshold float64) *Presence {
	if threshold <= 0 {
		threshold = 1.0
	}
	return &Presence{
		threshold:  threshold,
		prevGray:   gocv.NewMat(),
		lastActive: time.Now(),
		now:        time.Now,
	}
}

// Observe compares a frame against the previous one and reports whether
// activity was seen, along with the percentage of pixels that changed.
// The first frame establishes the baseline and reports no activity.
func (p *Presence) Observe(frame *gocv.Mat) (bool, float64) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if frame == nil || frame.Empty() {
		return false, 0
	}

	gray := gocv.NewMat()
	defer gray.Close()

	if frame.Channels() > 1 {
		gocv.CvtColor(*frame, &gray, gocv.ColorBGRToGray)
	} else {
		frame.CopyTo(&gray)
	}

	blurred := gocv.NewMat()
	defer blurred.Close()
	gocv.GaussianBlur(gray, &blurred, image.Point{X: presenceBlurSize, Y: presenceBlurSize}, 0, 0, gocv.BorderDefault)

	if !p.initialized {
		blurred.CopyTo(&p.prevGray)
		p.initialized = true
		return false, 0
	}

	diff := gocv.NewMat()
	defer diff.Close()
	gocv.AbsDiff(blurred, p.prevGray, &diff)

	thresh := gocv.NewMat()
	defer thresh.Close()
	gocv.Threshold(diff, &thresh, presenceDiffThreshold, 255, gocv.ThresholdBinary)

	nonZero := gocv.CountNonZero(thresh)
	totalPixels := thresh.Rows() * thresh.Cols()
	changePercent := float64(nonZero) / float64(totalPixels) * 100.0

	blurred.CopyTo(&p.prevGray)

	active := changePercent > p.threshold
	if active {
		p.lastActive = p.now()
	}
	return active, changePercent
}

// IdleFor returns how long it has been since activity was last seen.
func (p *Presence) IdleFor() time.Duration {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.now().Sub(p.lastActive)
}

// Reset clears the baseline; the next Observe starts fresh.
func (p *Presence) Reset() {
	p.mu.Lock()
	defer p.mu.Unlock()

	if !p.prevGray.Empty() {
		p.prevGray.Close()
		p.prevGray = gocv.NewMat()
	}
	p.initialized = false
	p.lastActive = p.now()
}

// Close releases resources held by the monitor.
func (p *Presence) Close() {
	p.mu.Lock()
	defer p.mu.Unlock()

	if !p.prevGray.Empty() {
		p.prevGray.Close()
		p.prevGray = gocv.NewMat()
	}
	p.initialized = false
}

// SetThreshold adjusts the activity threshold.
// Values less than or equal to 0 are ignored.
func (p *Presence) SetThreshold(threshold float64) {
	if threshold <= 0 {
		return
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	p.threshold = threshold
}
