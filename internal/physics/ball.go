package physics

import (
	"fmt"
	"math"

	"github.com/vovakirdan/minigolf/internal/core"
)

// Ball is a ball (or cup) on the course. A ball rests while its velocity is
// exactly zero and moves otherwise; Hit is the only way to start it moving.
// A Ball is not safe for concurrent use.
type Ball struct {
	Pos    core.Vec2
	Vel    core.Vec2
	Radius float64

	start  core.Vec2
	params Params
}

// NewBall creates a resting ball at (x, y). A radius of 0 marks a ball that
// has not been configured yet; it must not be simulated.
func NewBall(x, y, r float64, p Params) *Ball {
	return &Ball{
		Pos:    core.V(x, y),
		Radius: r,
		start:  core.V(x, y),
		params: p,
	}
}

// Start returns the position the ball resets to.
func (b *Ball) Start() core.Vec2 {
	return b.start
}

// Params returns the physics parameters the ball was created with.
func (b *Ball) Params() Params {
	return b.params
}

// Reset puts the ball back on its starting position at rest.
func (b *Ball) Reset() {
	b.Pos = b.start
	b.Stop()
}

// Stop zeroes the velocity.
func (b *Ball) Stop() {
	b.Vel = core.Vec2{}
}

// IsMoving reports whether either velocity component is non-zero.
func (b *Ball) IsMoving() bool {
	return !b.Vel.IsZero()
}

// Speed returns the magnitude of the velocity.
func (b *Ball) Speed() float64 {
	return b.Vel.Len()
}

// CanFall reports whether the ball is slow enough to drop into a cup
// instead of lipping out.
func (b *Ball) CanFall() bool {
	return b.Speed() < b.params.FallingSpeed
}

// InCup reports whether the ball has been holed: its centre lies within the
// cup radius and it is slow enough to fall.
func (b *Ball) InCup(cup *Ball) bool {
	return b.Pos.Dist(cup.Pos) < cup.Radius && b.CanFall()
}

// Hit strikes the ball toward the absolute target (x, y). The aim vector is
// scaled by the contact dampener to give the initial velocity.
func (b *Ball) Hit(x, y float64) {
	b.Vel = core.V(x, y).Sub(b.Pos).Scale(b.params.ContactDampener)
}

// Step advances the ball by one tick: move, collide against walls, apply
// friction and clamp crawling velocity components to zero.
func (b *Ball) Step(walls []Wall) {
	b.Pos = b.Pos.Add(b.Vel)

	for i := range walls {
		if b.touches(&walls[i]) {
			b.bounce(&walls[i])
		}
	}

	b.Vel = b.Vel.Scale(b.params.Friction)

	if b.Vel.X != 0 && math.Abs(b.Vel.X) < b.params.StopThreshold {
		b.Vel.X = 0
	}
	if b.Vel.Y != 0 && math.Abs(b.Vel.Y) < b.params.StopThreshold {
		b.Vel.Y = 0
	}
}

// touches tests the end-of-step position and the half-step position so a
// fast ball does not skip over a thin wall inside a single tick.
func (b *Ball) touches(w *Wall) bool {
	if w.DistanceTo(b.Pos) < b.Radius {
		return true
	}
	return w.DistanceTo(b.Pos.Add(b.Vel.Scale(0.5))) < b.Radius
}

// bounce reflects the velocity off w and places the ball one
// half-thickness-plus-radius from the wall's centre line, on the side it is
// now heading to.
func (b *Ball) bounce(w *Wall) {
	half := w.Thickness() / 2
	clearance := half + b.Radius

	switch w.Type {
	case Horizontal:
		line := w.TopLeft.Y + half
		b.Vel.Y = -b.Vel.Y
		if b.Vel.Y > 0 {
			b.Pos.Y = line + clearance
		}
		if b.Vel.Y < 0 {
			b.Pos.Y = line - clearance
		}
	case Vertical:
		line := w.TopLeft.X + half
		b.Vel.X = -b.Vel.X
		if b.Vel.X > 0 {
			b.Pos.X = line + clearance
		}
		if b.Vel.X < 0 {
			b.Pos.X = line - clearance
		}
	}
}

// String returns the starting position as "x y".
func (b *Ball) String() string {
	return fmt.Sprintf("%s %s", fmtCoord(b.start.X), fmtCoord(b.start.Y))
}
