package control

// Vector is the per-tick control output consumed by the game loop.
// FireTrigger is a pulse, true for exactly one tick per pinch press;
// ShieldActive is a level, held while the two-finger gesture is held.
type Vector struct {
	TargetShipX  float64 `json:"targetShipX"`
	FireTrigger  bool    `json:"fireTrigger"`
	ShieldActive bool    `json:"shieldActive"`
}

// Mapper combines the gesture state and the gated position into one
// Vector. It is a pure function of its inputs; all debouncing lives
// upstream in the classifier's hysteresis and the gate's deadzone.
type Mapper struct {
	in  Range
	out Range
}

// NewMapper creates a Mapper remapping cfg.InputRange onto cfg.OutputRange.
func NewMapper(cfg Config) Mapper {
	return Mapper{in: cfg.InputRange, out: cfg.OutputRange}
}

// Map builds the control vector for one tick from the gated position in
// input-range units.
func (m Mapper) Map(state GestureState, position float64) Vector {
	return Vector{
		TargetShipX:  m.Remap(position),
		FireTrigger:  state.PinchJustPressed,
		ShieldActive: state.SecondaryActive,
	}
}

// Remap linearly maps a position from the input range to the output
// range, clamped to the output bounds at both ends.
func (m Mapper) Remap(position float64) float64 {
	t := (position - m.in.Min) / m.in.Span()
	if t < 0 {
		t = 0
	} else if t > 1 {
		t = 1
	}
	return m.out.Min + t*m.out.Span()
}

// Neutral returns the position emitted before any hand has been seen:
// the center of the playable range.
func (m Mapper) Neutral() float64 {
	return m.out.Mid()
}
