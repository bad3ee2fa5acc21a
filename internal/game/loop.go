package game

import (
	"sync"
	"time"

	"github.com/ayusman/pinchvaders/internal/control"
)

// TickRate is the simulation frequency in steps per second.
const TickRate = 60

// Snapshot is the JSON-ready view of the game handed to websocket
// subscribers each broadcast.
type Snapshot struct {
	Ship         Ship      `json:"ship"`
	Bullets      []Bullet  `json:"bullets"`
	EnemyBullets []Bullet  `json:"enemyBullets"`
	Invaders     []Invader `json:"invaders"`

	Score     int  `json:"score"`
	HighScore int  `json:"highScore"`
	Level     int  `json:"level"`
	ShieldUp  bool `json:"shieldUp"`
	Paused    bool `json:"paused"`
	GameOver  bool `json:"gameOver"`

	ServerTime int64 `json:"serverTime"`
}

// Loop drives the world at a fixed tick rate. The control pipeline
// latches its latest vector here; each fire pulse is consumed by at
// most one step even though the simulation runs faster than the camera.
type Loop struct {
	mu        sync.Mutex
	world     *World
	controls  control.Vector
	paused    bool
	highScore int
	stopCh    chan struct{}

	onGameOver func(score, level int)
}

// NewLoop creates a loop around the given world.
func NewLoop(w *World) *Loop {
	return &Loop{world: w}
}

// OnGameOver registers a callback invoked once per game over with the
// final score and level.
func (l *Loop) OnGameOver(fn func(score, level int)) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.onGameOver = fn
}

// SetControls latches the most recent control vector from the pipeline.
func (l *Loop) SetControls(v control.Vector) {
	l.mu.Lock()
	defer l.mu.Unlock()
	// Merge rather than overwrite the pending fire pulse: the pipeline
	// may produce and clear a pulse between two simulation steps.
	fire := l.controls.FireTrigger || v.FireTrigger
	l.controls = v
	l.controls.FireTrigger = fire
}

// SetPaused pauses or resumes the simulation.
func (l *Loop) SetPaused(paused bool) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.paused = paused
}

// IsPaused reports whether the simulation is paused.
func (l *Loop) IsPaused() bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.paused
}

// SetHighScore sets the best score shown in snapshots.
func (l *Loop) SetHighScore(score int) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.highScore = score
}

// Reset restarts the game.
func (l *Loop) Reset() {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.world.Reset()
	l.controls = control.Vector{TargetShipX: l.world.Ship.X}
	l.paused = false
}

// Start launches the simulation goroutine. Calling Start on a running
// loop is a no-op.
func (l *Loop) Start() {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.stopCh != nil {
		return
	}
	l.stopCh = make(chan struct{})
	go l.run(l.stopCh)
}

// Stop halts the simulation goroutine.
func (l *Loop) Stop() {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.stopCh != nil {
		close(l.stopCh)
		l.stopCh = nil
	}
}

func (l *Loop) run(stopCh chan struct{}) {
	ticker := time.NewTicker(time.Second / TickRate)
	defer ticker.Stop()

	last := time.Now()
	for {
		select {
		case <-stopCh:
			return
		case now := <-ticker.C:
			dt := now.Sub(last).Seconds()
			last = now
			l.Advance(dt)
		}
	}
}

// Advance runs one simulation step. Exposed so tests can drive the loop
// deterministically without the ticker.
func (l *Loop) Advance(dt float64) {
	l.mu.Lock()

	if l.paused || l.world.Over {
		l.mu.Unlock()
		return
	}

	v := l.controls
	l.controls.FireTrigger = false // pulse consumed

	wasOver := l.world.Over
	l.world.Step(dt, v)

	var done func(score, level int)
	var score, level int
	if !wasOver && l.world.Over {
		if l.world.Score > l.highScore {
			l.highScore = l.world.Score
		}
		done = l.onGameOver
		score, level = l.world.Score, l.world.Level
	}
	l.mu.Unlock()

	if done != nil {
		done(score, level)
	}
}

// Snapshot returns a deep copy of the current game state for broadcast.
func (l *Loop) Snapshot() Snapshot {
	l.mu.Lock()
	defer l.mu.Unlock()

	s := Snapshot{
		Ship:         l.world.Ship,
		Bullets:      append([]Bullet(nil), l.world.Bullets...),
		EnemyBullets: append([]Bullet(nil), l.world.EnemyBullets...),
		Invaders:     append([]Invader(nil), l.world.Invaders...),
		Score:        l.world.Score,
		HighScore:    l.highScore,
		Level:        l.world.Level,
		ShieldUp:     l.world.ShieldUp,
		Paused:       l.paused,
		GameOver:     l.world.Over,
		ServerTime:   time.Now().UnixMilli(),
	}
	return s
}
