package control

import (
	"github.com/ayusman/pinchvaders/internal/detector"
)

// Pipeline runs the full gesture-to-control conversion for one frame
// per tick: classify gestures, smooth the raw horizontal position, gate
// it through the deadzone, and map the result into a Vector. It is
// single-threaded by contract; each tick completes fully before the
// next frame is fed in.
type Pipeline struct {
	cfg        Config
	classifier *Classifier
	smoother   *Smoother
	gate       *Gate
	mapper     Mapper
}

// NewPipeline validates the configuration and builds the pipeline.
func NewPipeline(cfg Config) (*Pipeline, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &Pipeline{
		cfg:        cfg,
		classifier: NewClassifier(cfg),
		smoother:   NewSmoother(cfg),
		gate:       NewGate(cfg),
		mapper:     NewMapper(cfg),
	}, nil
}

// Config returns the pipeline's tuning.
func (p *Pipeline) Config() Config {
	return p.cfg
}

// Tick processes one landmark frame and returns the control vector.
//
// The middle-finger MCP x coordinate is the position reference; it sits
// at the center of the palm and moves far less under finger articulation
// than any fingertip. On tracking loss the smoother coasts through the
// grace window and the gate then keeps emitting the frozen position, so
// the ship never snaps to center. A lost hand also forces both gestures
// released, which keeps the fire trigger from sticking.
func (p *Pipeline) Tick(f *detector.Frame) Vector {
	state := p.classifier.Classify(f)

	if f != nil && f.Detected {
		smoothed := p.smoother.Observe(f.Hand.Points[detector.MiddleMCP].X)
		return p.mapper.Map(state, p.gate.Emit(smoothed))
	}

	if held, ok := p.smoother.Coast(); ok {
		return p.mapper.Map(state, p.gate.Emit(held))
	}

	// Grace exhausted (or nothing seen yet): hold the last emitted
	// position if there is one, otherwise rest at neutral.
	if last, ok := p.gate.Last(); ok {
		return p.mapper.Map(state, last)
	}

	return Vector{
		TargetShipX:  p.mapper.Neutral(),
		FireTrigger:  state.PinchJustPressed,
		ShieldActive: state.SecondaryActive,
	}
}

// Reset returns every stage to its initial state.
func (p *Pipeline) Reset() {
	p.classifier.Reset()
	p.smoother.Reset()
	p.gate.Reset()
}
