package physics

import (
	"math"
	"testing"

	"github.com/vovakirdan/minigolf/internal/core"
)

const eps = 1e-9

// boxWalls returns four walls enclosing [100,500] x [100,500].
func boxWalls(p Params) []Wall {
	return []Wall{
		NewWall(core.V(100, 100), core.V(500, 100), p),
		NewWall(core.V(100, 500), core.V(500, 500), p),
		NewWall(core.V(100, 100), core.V(100, 500), p),
		NewWall(core.V(500, 100), core.V(500, 500), p),
	}
}

// roll steps the ball until it rests, calling check after every tick.
func roll(t *testing.T, b *Ball, walls []Wall, check func(tick int)) int {
	t.Helper()
	ticks := 0
	for b.IsMoving() {
		b.Step(walls)
		ticks++
		if check != nil {
			check(ticks)
		}
		if ticks > 10000 {
			t.Fatalf("ball still moving after %d ticks (vel=%v)", ticks, b.Vel)
		}
	}
	return ticks
}

func TestBallStateTransitions(t *testing.T) {
	b := NewBall(300, 500, 8, DefaultParams())

	if b.IsMoving() {
		t.Fatal("new ball should be resting")
	}

	b.Hit(300, 100)
	if !b.IsMoving() {
		t.Fatal("ball should be moving after Hit")
	}
	if b.Vel.X != 0 || math.Abs(b.Vel.Y+32) > eps {
		t.Errorf("Hit velocity = %v, expected (0, -32)", b.Vel)
	}

	b.Step(nil)
	if b.Pos == b.Start() {
		t.Error("Step should move the ball")
	}

	b.Stop()
	if b.IsMoving() {
		t.Error("Stop should zero velocity")
	}

	b.Hit(0, 0)
	b.Step(nil)
	b.Reset()
	if b.IsMoving() || b.Pos != core.V(300, 500) {
		t.Errorf("Reset should restore start at rest, got pos=%v vel=%v", b.Pos, b.Vel)
	}
}

func TestBallCanFall(t *testing.T) {
	b := NewBall(0, 0, 8, DefaultParams())

	b.Vel = core.V(2, 2) // speed ~2.83
	if !b.CanFall() {
		t.Error("ball at speed 2.83 should be able to fall")
	}

	b.Vel = core.V(3, 0)
	if b.CanFall() {
		t.Error("ball at falling speed should lip out")
	}
}

func TestBallInCup(t *testing.T) {
	p := DefaultParams()
	cup := NewBall(300, 100, 20, p)
	b := NewBall(310, 105, 8, p)

	if !b.InCup(cup) {
		t.Error("resting ball inside cup radius should be holed")
	}

	b.Vel = core.V(0, -10)
	if b.InCup(cup) {
		t.Error("fast ball over the cup should not be holed")
	}

	far := NewBall(300, 130, 8, p)
	if far.InCup(cup) {
		t.Error("ball outside cup radius should not be holed")
	}
}

func TestBallFrictionAndStopClamp(t *testing.T) {
	p := DefaultParams()
	b := NewBall(0, 0, 8, p)
	b.Vel = core.V(10, 0.26)

	b.Step(nil)

	if math.Abs(b.Vel.X-9.5) > eps {
		t.Errorf("Vel.X after friction = %v, expected 9.5", b.Vel.X)
	}
	// 0.26 * 0.95 = 0.247 < 0.25 -> clamped
	if b.Vel.Y != 0 {
		t.Errorf("Vel.Y should clamp to exactly 0, got %v", b.Vel.Y)
	}
	if b.Pos != core.V(10, 0.26) {
		t.Errorf("Pos = %v, expected (10, 0.26)", b.Pos)
	}
}

func TestBallTerminates(t *testing.T) {
	p := DefaultParams()
	speeds := []float64{0.5, 5, 32, 80}

	for _, v0 := range speeds {
		b := NewBall(0, 0, 8, p)
		b.Vel = core.V(v0, -v0/2)

		ticks := roll(t, b, nil, nil)

		// |v| shrinks by the friction factor each tick, so the stop clamp is
		// reached after at most log(threshold/v0)/log(friction) + 1 ticks.
		bound := int(math.Ceil(math.Log(p.StopThreshold/v0)/math.Log(p.Friction))) + 1
		if ticks > bound {
			t.Errorf("v0=%v: stopped after %d ticks, expected at most %d", v0, ticks, bound)
		}

		again := NewBall(0, 0, 8, p)
		again.Vel = core.V(v0, -v0/2)
		if got := roll(t, again, nil, nil); got != ticks || again.Pos != b.Pos {
			t.Errorf("v0=%v: rerun gave %d ticks at %v, first run %d ticks at %v", v0, got, again.Pos, ticks, b.Pos)
		}
	}
}

func TestBallSpeedNeverIncreases(t *testing.T) {
	p := DefaultParams()
	walls := boxWalls(p)
	targets := []core.Vec2{
		core.V(100, 100), core.V(500, 100), core.V(100, 500), core.V(500, 500),
		core.V(300, 120), core.V(480, 300), core.V(150, 420),
	}

	for _, target := range targets {
		b := NewBall(300, 300, 8, p)
		b.Hit(target.X, target.Y)
		prev := b.Speed()

		roll(t, b, walls, func(tick int) {
			if s := b.Speed(); s > prev+eps {
				t.Errorf("aim %v tick %d: speed rose from %v to %v", target, tick, prev, s)
			}
			prev = b.Speed()
		})
	}
}

func TestHorizontalWallReflection(t *testing.T) {
	p := DefaultParams()
	wall := NewWall(core.V(0, 150), core.V(200, 150), p)
	walls := []Wall{wall}

	b := NewBall(100, 300, 8, p)
	b.Hit(100, 0)
	if b.Vel.Y >= 0 {
		t.Fatalf("ball should start moving up, vel=%v", b.Vel)
	}

	reflected := false
	roll(t, b, walls, func(tick int) {
		if b.Vel.Y > 0 {
			reflected = true
		}
		if b.Pos.Y > 148 && b.Pos.Y < 152 {
			t.Errorf("tick %d: ball centre %v inside the wall band", tick, b.Pos)
		}
		if b.Pos.Y < 150 {
			t.Errorf("tick %d: ball crossed the wall to y=%v", tick, b.Pos.Y)
		}
	})

	if !reflected {
		t.Error("vertical velocity never changed sign")
	}
	if b.Vel.X != 0 || b.Pos.X != 100 {
		t.Errorf("pure vertical shot drifted sideways: pos=%v", b.Pos)
	}
}

func TestWallContainmentAfterCollision(t *testing.T) {
	p := DefaultParams()
	half := p.HalfThickness()

	tests := []struct {
		name  string
		wall  Wall
		start core.Vec2
		vel   core.Vec2
	}{
		{"horizontal from below", NewWall(core.V(0, 150), core.V(200, 150), p), core.V(100, 170), core.V(0, -15)},
		{"horizontal from above", NewWall(core.V(0, 150), core.V(200, 150), p), core.V(100, 130), core.V(0, 15)},
		{"vertical from right", NewWall(core.V(100, 0), core.V(100, 300), p), core.V(120, 100), core.V(-15, 3)},
		{"vertical from left", NewWall(core.V(100, 0), core.V(100, 300), p), core.V(80, 100), core.V(15, -3)},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			b := NewBall(tc.start.X, tc.start.Y, 8, p)
			b.Vel = tc.vel
			b.Step([]Wall{tc.wall})

			var gap float64
			if tc.wall.Type == Horizontal {
				gap = math.Abs(b.Pos.Y - tc.wall.A.Y)
			} else {
				gap = math.Abs(b.Pos.X - tc.wall.A.X)
			}
			if gap < half+b.Radius-eps {
				t.Errorf("ball centre %v only %v from wall line, expected at least %v", b.Pos, gap, half+b.Radius)
			}
			if tc.wall.DistanceTo(b.Pos) < b.Radius-eps {
				t.Errorf("ball still overlaps wall after correction: distance %v", tc.wall.DistanceTo(b.Pos))
			}
		})
	}
}

func TestHalfStepLookAhead(t *testing.T) {
	p := DefaultParams()
	wall := NewWall(core.V(0, 150), core.V(200, 150), p)

	// End of step lands at y=165 (clear of the wall); the half-step point
	// at y=155 is inside the collision distance.
	b := NewBall(100, 185, 8, p)
	b.Vel = core.V(0, -20)
	b.Step([]Wall{wall})

	if b.Vel.Y <= 0 {
		t.Errorf("look-ahead collision should reflect the ball, vel=%v", b.Vel)
	}
	if math.Abs(b.Pos.Y-160) > eps {
		t.Errorf("Pos.Y = %v, expected snap to 160", b.Pos.Y)
	}
}

func TestCornerCollision(t *testing.T) {
	p := DefaultParams()
	walls := boxWalls(p)
	lo, hi := 110.0, 490.0 // wall line +/- (half thickness + radius)

	targets := []core.Vec2{
		core.V(100, 100), core.V(500, 100), core.V(100, 500), core.V(500, 500),
		core.V(60, 60), core.V(540, 540),
	}

	for _, target := range targets {
		b := NewBall(300, 300, 8, p)
		b.Hit(target.X, target.Y)

		roll(t, b, walls, func(tick int) {
			if b.Pos.X < lo-eps || b.Pos.X > hi+eps || b.Pos.Y < lo-eps || b.Pos.Y > hi+eps {
				t.Fatalf("aim %v tick %d: ball at %v escaped the box", target, tick, b.Pos)
			}
		})

		cup := core.V(200, 200)
		if d := b.Pos.Dist(cup); d > 400 {
			t.Errorf("aim %v: ball ended %v from the cup", target, d)
		}
	}
}

func TestSlantedWallPassThrough(t *testing.T) {
	p := DefaultParams()
	slant := NewWall(core.V(0, 250), core.V(200, 150), p)

	b := NewBall(100, 300, 8, p)
	b.Hit(100, 100)

	roll(t, b, []Wall{slant}, func(tick int) {
		if b.Vel.Y > 0 {
			t.Fatalf("tick %d: slanted wall reflected the ball", tick)
		}
	})
	if b.Pos.Y >= 200 {
		t.Errorf("ball should roll through the slanted wall, ended at %v", b.Pos)
	}
}
