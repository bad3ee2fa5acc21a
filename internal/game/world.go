// Package game implements the headless Space Invaders simulation. It
// consumes one control vector per step and owns all entity, score, and
// level state; rendering happens in the browser client off snapshots.
package game

import (
	"math/rand"

	"github.com/ayusman/pinchvaders/internal/control"
)

// Playfield and entity dimensions (pixels). The control pipeline's
// output range maps onto the ship's clamped horizontal span.
const (
	Width  = 900.0
	Height = 700.0

	ShipWidth  = 100.0
	ShipHeight = 66.0
	ShipMinX   = 20.0
	ShipMaxX   = Width - 20.0
	shipBottom = Height - 30.0

	InvaderWidth  = 44.0
	InvaderHeight = 34.0

	BulletWidth  = 4.0
	BulletHeight = 12.0

	// Bullet speeds in px/s.
	playerBulletSpeed = -420.0
	enemyBulletSpeed  = 240.0

	// FireCooldown is the minimum time between player shots in seconds.
	FireCooldown = 0.32

	// MaxDT caps the per-step delta time so a stalled frame cannot
	// teleport the simulation.
	MaxDT = 0.05

	// maxMarchPerStep clamps per-step invader movement in pixels.
	maxMarchPerStep = 12.0

	startLives = 3
	killPoints = 10
)

// Ship is the player's vessel. X is the center of the sprite.
type Ship struct {
	X     float64 `json:"x"`
	Lives int     `json:"lives"`

	cooldown float64
}

// Bullet is a projectile; X,Y is its center, VY its vertical speed in px/s.
type Bullet struct {
	X  float64 `json:"x"`
	Y  float64 `json:"y"`
	VY float64 `json:"vy"`
}

// Invader is one enemy in the marching grid. X,Y is the top-left corner.
type Invader struct {
	X     float64 `json:"x"`
	Y     float64 `json:"y"`
	Alive bool    `json:"alive"`
}

// World owns the full game state. It is not safe for concurrent use;
// the Loop serializes access.
type World struct {
	Ship         Ship
	Bullets      []Bullet
	EnemyBullets []Bullet
	Invaders     []Invader

	Score int
	Level int
	Over  bool

	// ShieldUp mirrors the control vector's shield level for rendering.
	ShieldUp bool

	marchDir   float64
	marchSpeed float64
	rng        *rand.Rand
}

// NewWorld creates a world at level 1 with the first wave spawned.
// The seed drives enemy fire and wave jitter; fixed seeds give
// deterministic simulations for tests.
func NewWorld(seed int64) *World {
	w := &World{rng: rand.New(rand.NewSource(seed))}
	w.Reset()
	return w
}

// Reset returns the world to a fresh level-1 state.
func (w *World) Reset() {
	w.Ship = Ship{X: Width / 2, Lives: startLives}
	w.Bullets = w.Bullets[:0]
	w.EnemyBullets = w.EnemyBullets[:0]
	w.Score = 0
	w.Level = 1
	w.Over = false
	w.ShieldUp = false
	w.spawnWave()
}

// spawnWave fills the invader grid for the current level. Rows grow
// every other level; march speed grows linearly.
func (w *World) spawnWave() {
	rows := 3 + (w.Level-1)/2
	const cols = 7
	const x0, y0 = 80.0, 50.0
	const spacingX, spacingY = 70.0, 55.0

	w.Invaders = w.Invaders[:0]
	for r := 0; r < rows; r++ {
		for c := 0; c < cols; c++ {
			// Small jitter keeps the grid from hitting the edge check
			// in perfect unison.
			jitter := (w.rng.Float64() - 0.5) * 3
			w.Invaders = append(w.Invaders, Invader{
				X:     x0 + float64(c)*spacingX + jitter,
				Y:     y0 + float64(r)*spacingY,
				Alive: true,
			})
		}
	}
	w.marchDir = 1
	w.marchSpeed = 45 + float64(w.Level-1)*8
}

// AliveInvaders returns the number of invaders still alive.
func (w *World) AliveInvaders() int {
	n := 0
	for i := range w.Invaders {
		if w.Invaders[i].Alive {
			n++
		}
	}
	return n
}

// Step advances the simulation by dt seconds under the given controls.
// FireTrigger is consumed by this single step; the caller must not
// replay it.
func (w *World) Step(dt float64, c control.Vector) {
	if w.Over {
		return
	}
	if dt > MaxDT {
		dt = MaxDT
	}

	w.ShieldUp = c.ShieldActive

	// Ship tracks the target position directly; smoothing and deadzone
	// filtering already happened upstream.
	w.Ship.X = clamp(c.TargetShipX, ShipMinX, ShipMaxX)

	if w.Ship.cooldown > 0 {
		w.Ship.cooldown -= dt
	}
	if c.FireTrigger && w.Ship.cooldown <= 0 {
		w.Ship.cooldown = FireCooldown
		w.Bullets = append(w.Bullets, Bullet{
			X:  w.Ship.X,
			Y:  shipBottom - ShipHeight - 6,
			VY: playerBulletSpeed,
		})
	}

	w.advanceBullets(dt)
	w.marchInvaders(dt)
	w.resolveCollisions()

	if !w.Over && w.AliveInvaders() == 0 {
		w.Level++
		w.spawnWave()
	}
}

// advanceBullets moves all projectiles and drops the ones that left the
// playfield.
func (w *World) advanceBullets(dt float64) {
	keep := w.Bullets[:0]
	for _, b := range w.Bullets {
		b.Y += b.VY * dt
		if b.Y+BulletHeight/2 > 0 {
			keep = append(keep, b)
		}
	}
	w.Bullets = keep

	keepEnemy := w.EnemyBullets[:0]
	for _, b := range w.EnemyBullets {
		b.Y += b.VY * dt
		if b.Y-BulletHeight/2 < Height {
			keepEnemy = append(keepEnemy, b)
		}
	}
	w.EnemyBullets = keepEnemy
}

// marchInvaders moves the grid sideways, bouncing off the playfield
// edges with a fixed downward drop, and rolls for enemy fire.
func (w *World) marchInvaders(dt float64) {
	if w.AliveInvaders() == 0 {
		return
	}

	movePx := w.marchSpeed * dt * w.marchDir
	movePx = clamp(movePx, -maxMarchPerStep, maxMarchPerStep)

	hitEdge := false
	for i := range w.Invaders {
		if !w.Invaders[i].Alive {
			continue
		}
		newX := w.Invaders[i].X + movePx
		if newX+InvaderWidth >= Width-10 || newX <= 10 {
			hitEdge = true
			break
		}
	}

	if hitEdge {
		w.marchDir *= -1
		for i := range w.Invaders {
			if w.Invaders[i].Alive {
				w.Invaders[i].Y += 12
			}
		}
	} else {
		for i := range w.Invaders {
			if w.Invaders[i].Alive {
				w.Invaders[i].X += movePx
			}
		}
	}

	// Occasional enemy fire from a random living invader.
	if w.rng.Float64() < 0.012+float64(w.Level)*0.002 {
		if shooter := w.randomAliveInvader(); shooter != nil {
			w.EnemyBullets = append(w.EnemyBullets, Bullet{
				X:  shooter.X + InvaderWidth/2,
				Y:  shooter.Y + InvaderHeight + 8,
				VY: enemyBulletSpeed,
			})
		}
	}
}

func (w *World) randomAliveInvader() *Invader {
	alive := w.AliveInvaders()
	if alive == 0 {
		return nil
	}
	n := w.rng.Intn(alive)
	for i := range w.Invaders {
		if !w.Invaders[i].Alive {
			continue
		}
		if n == 0 {
			return &w.Invaders[i]
		}
		n--
	}
	return nil
}

// resolveCollisions handles bullet/invader and bullet/ship hits. The
// shield absorbs enemy bullets without costing a life.
func (w *World) resolveCollisions() {
	keep := w.Bullets[:0]
	for _, b := range w.Bullets {
		hit := false
		for i := range w.Invaders {
			inv := &w.Invaders[i]
			if inv.Alive && rectsOverlap(
				b.X-BulletWidth/2, b.Y-BulletHeight/2, BulletWidth, BulletHeight,
				inv.X, inv.Y, InvaderWidth, InvaderHeight,
			) {
				inv.Alive = false
				w.Score += killPoints
				hit = true
				break
			}
		}
		if !hit {
			keep = append(keep, b)
		}
	}
	w.Bullets = keep

	shipX := w.Ship.X - ShipWidth/2
	shipY := shipBottom - ShipHeight

	keepEnemy := w.EnemyBullets[:0]
	for _, b := range w.EnemyBullets {
		if rectsOverlap(
			b.X-BulletWidth/2, b.Y-BulletHeight/2, BulletWidth, BulletHeight,
			shipX, shipY, ShipWidth, ShipHeight,
		) {
			if !w.ShieldUp {
				w.Ship.Lives--
				if w.Ship.Lives <= 0 {
					w.Over = true
				}
			}
			continue
		}
		keepEnemy = append(keepEnemy, b)
	}
	w.EnemyBullets = keepEnemy
}

func rectsOverlap(ax, ay, aw, ah, bx, by, bw, bh float64) bool {
	return ax < bx+bw && ax+aw > bx && ay < by+bh && ay+ah > by
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
