package game

import (
	"testing"

	"github.com/ayusman/pinchvaders/internal/control"
)

func steadyControls(x float64) control.Vector {
	return control.Vector{TargetShipX: x}
}

func TestNewWorld_FirstWave(t *testing.T) {
	w := NewWorld(1)

	// Level 1: 3 rows x 7 columns.
	if len(w.Invaders) != 21 {
		t.Errorf("expected 21 invaders at level 1, got %d", len(w.Invaders))
	}
	if w.AliveInvaders() != 21 {
		t.Errorf("expected all invaders alive, got %d", w.AliveInvaders())
	}
	if w.Ship.Lives != 3 {
		t.Errorf("expected 3 lives, got %d", w.Ship.Lives)
	}
	if w.Level != 1 || w.Score != 0 || w.Over {
		t.Errorf("unexpected initial state: level=%d score=%d over=%v", w.Level, w.Score, w.Over)
	}
}

func TestWorld_ShipTracksAndClamps(t *testing.T) {
	w := NewWorld(1)

	w.Step(0.016, steadyControls(300))
	if w.Ship.X != 300 {
		t.Errorf("ship should track the target directly, got %f", w.Ship.X)
	}

	w.Step(0.016, steadyControls(-500))
	if w.Ship.X != ShipMinX {
		t.Errorf("ship should clamp at the left bound, got %f", w.Ship.X)
	}

	w.Step(0.016, steadyControls(5000))
	if w.Ship.X != ShipMaxX {
		t.Errorf("ship should clamp at the right bound, got %f", w.Ship.X)
	}
}

func TestWorld_FireCooldown(t *testing.T) {
	w := NewWorld(1)

	v := steadyControls(450)
	v.FireTrigger = true
	w.Step(0.016, v)
	if len(w.Bullets) != 1 {
		t.Fatalf("expected one bullet after fire pulse, got %d", len(w.Bullets))
	}

	// A second pulse inside the cooldown window is ignored.
	w.Step(0.016, v)
	if len(w.Bullets) != 1 {
		t.Errorf("cooldown should suppress rapid refire, got %d bullets", len(w.Bullets))
	}

	// After the cooldown elapses the next pulse fires again.
	for i := 0; i < 25; i++ {
		w.Step(0.016, steadyControls(450))
	}
	w.Bullets = w.Bullets[:0]
	w.Step(0.016, v)
	if len(w.Bullets) != 1 {
		t.Errorf("expected fire after cooldown, got %d bullets", len(w.Bullets))
	}
}

func TestWorld_BulletKillsInvader(t *testing.T) {
	w := NewWorld(1)
	w.Invaders = []Invader{{X: 400, Y: 200, Alive: true}}
	w.Bullets = []Bullet{{X: 422, Y: 217, VY: 0}}

	w.Step(0.016, steadyControls(450))

	// The hit kills the invader, removes the bullet, scores, and the
	// cleared wave immediately advances the level.
	if w.Score != killPoints {
		t.Errorf("expected %d points for a kill, got %d", killPoints, w.Score)
	}
	if len(w.Bullets) != 0 {
		t.Errorf("bullet should be consumed by the hit, got %d", len(w.Bullets))
	}
	if w.Level != 2 {
		t.Errorf("clearing the wave should advance to level 2, got %d", w.Level)
	}
	if w.AliveInvaders() == 0 {
		t.Error("the next wave should have spawned")
	}
}

func TestWorld_WaveScaling(t *testing.T) {
	w := NewWorld(1)
	w.Level = 5
	w.spawnWave()

	// Level 5: 3+(5-1)/2 = 5 rows x 7 columns.
	if len(w.Invaders) != 35 {
		t.Errorf("expected 35 invaders at level 5, got %d", len(w.Invaders))
	}
	if want := 45 + 4*8.0; w.marchSpeed != want {
		t.Errorf("expected march speed %f at level 5, got %f", want, w.marchSpeed)
	}
}

func TestWorld_EnemyBulletHitsShip(t *testing.T) {
	w := NewWorld(1)
	w.Invaders = nil // keep the step free of random enemy fire
	w.EnemyBullets = []Bullet{{X: 450, Y: shipBottom - ShipHeight/2, VY: 0}}

	w.Step(0.016, steadyControls(450))

	if w.Ship.Lives != 2 {
		t.Errorf("expected a life lost, got %d", w.Ship.Lives)
	}
	if len(w.EnemyBullets) != 0 {
		t.Errorf("enemy bullet should be consumed, got %d", len(w.EnemyBullets))
	}
}

func TestWorld_ShieldAbsorbsEnemyBullet(t *testing.T) {
	w := NewWorld(1)
	w.Invaders = nil
	w.EnemyBullets = []Bullet{{X: 450, Y: shipBottom - ShipHeight/2, VY: 0}}

	v := steadyControls(450)
	v.ShieldActive = true
	w.Step(0.016, v)

	if w.Ship.Lives != 3 {
		t.Errorf("shield should absorb the hit, lives=%d", w.Ship.Lives)
	}
	if len(w.EnemyBullets) != 0 {
		t.Errorf("absorbed bullet should still be consumed, got %d", len(w.EnemyBullets))
	}
	if !w.ShieldUp {
		t.Error("shield level should mirror the control vector")
	}
}

func TestWorld_GameOver(t *testing.T) {
	w := NewWorld(1)
	w.Ship.Lives = 1
	w.EnemyBullets = []Bullet{{X: 450, Y: shipBottom - ShipHeight/2, VY: 0}}

	w.Step(0.016, steadyControls(450))
	if !w.Over {
		t.Fatal("expected game over at zero lives")
	}

	// Further steps are no-ops.
	score := w.Score
	v := steadyControls(100)
	v.FireTrigger = true
	w.Step(0.016, v)
	if w.Ship.X != 450 || len(w.Bullets) != 0 || w.Score != score {
		t.Error("a finished game must not advance")
	}
}

func TestWorld_MarchBounceAndDrop(t *testing.T) {
	w := NewWorld(1)
	w.Invaders = []Invader{{X: Width - 10 - InvaderWidth - 0.2, Y: 100, Alive: true}}
	w.marchDir = 1
	w.marchSpeed = 60

	w.Step(0.016, steadyControls(450))

	if w.marchDir != -1 {
		t.Error("expected the march direction to reverse at the edge")
	}
	if w.Invaders[0].Y != 112 {
		t.Errorf("expected a 12px drop on bounce, got y=%f", w.Invaders[0].Y)
	}
}

func TestWorld_DTCap(t *testing.T) {
	w := NewWorld(1)
	w.Invaders = []Invader{{X: 400, Y: 100, Alive: true}}
	w.marchDir = 1
	w.marchSpeed = 100

	// A 2-second stall must not teleport the grid: dt caps at 50ms and
	// the per-step march is further clamped.
	w.Step(2.0, steadyControls(450))

	moved := w.Invaders[0].X - 400
	if moved > maxMarchPerStep {
		t.Errorf("invader moved %f px in one step, cap is %f", moved, maxMarchPerStep)
	}
}

func TestWorld_PlayerBulletLeavesField(t *testing.T) {
	w := NewWorld(1)
	w.Invaders = nil
	w.Bullets = []Bullet{{X: 450, Y: 5, VY: playerBulletSpeed}}

	w.Step(0.05, steadyControls(450))

	if len(w.Bullets) != 0 {
		t.Errorf("off-screen bullet should be dropped, got %d", len(w.Bullets))
	}
}
