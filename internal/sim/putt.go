// Package sim runs putts: a single shot from the tee, and a parallel sweep
// that fires a grid of putts across the whole aim space.
package sim

import (
	"errors"

	"github.com/vovakirdan/minigolf/internal/core"
	"github.com/vovakirdan/minigolf/internal/course"
	"github.com/vovakirdan/minigolf/internal/physics"
)

// ErrTickLimit is returned when a putt is still rolling after Params.MaxTicks.
var ErrTickLimit = errors.New("sim: putt exceeded tick limit")

// Outcome is where a putt came to rest. Limited marks a putt cut off by
// Params.MaxTicks; Final is then where the ball was when it was stopped.
type Outcome struct {
	Target   core.Vec2
	Final    core.Vec2
	Distance float64
	Holed    bool
	Limited  bool
	Ticks    int
}

// Putt hits a fresh ball from the hole's tee toward target and rolls it
// until it rests or drops. Distance is 0 for a holed putt. Putt does not
// report errors: an invalid hole gives an Outcome with only Target set and a putt over the
// tick limit comes back with Limited set. Use PuttChecked to get the error.
func Putt(h *course.Hole, walls []physics.Wall, target core.Vec2, p physics.Params) Outcome {
	o, _ := PuttChecked(h, walls, target, p)
	return o
}

// PuttChecked is Putt with errors: a *course.LayoutError for a hole that
// cannot be simulated and ErrTickLimit for a putt cut off by MaxTicks.
// A MaxTicks of 0 or less disables the limit.
func PuttChecked(h *course.Hole, walls []physics.Wall, target core.Vec2, p physics.Params) (Outcome, error) {
	if err := h.Validate(); err != nil {
		return Outcome{Target: target}, err
	}
	return roll(h, walls, target, p)
}

// roll is PuttChecked without the layout check; the sweep validates once.
func roll(h *course.Hole, walls []physics.Wall, target core.Vec2, p physics.Params) (Outcome, error) {
	start := h.Ball.Start()
	ball := physics.NewBall(start.X, start.Y, h.Ball.Radius, p)
	cup := h.Cup
	ball.Hit(target.X, target.Y)

	o := Outcome{Target: target}
	for ball.IsMoving() {
		if p.MaxTicks > 0 && o.Ticks >= p.MaxTicks {
			o.Final = ball.Pos
			o.Distance = ball.Pos.Dist(cup.Pos)
			o.Limited = true
			return o, ErrTickLimit
		}

		ball.Step(walls)
		o.Ticks++

		if ball.InCup(cup) {
			ball.Stop()
			ball.Pos = cup.Pos
			o.Holed = true
		}
	}

	o.Final = ball.Pos
	if !o.Holed {
		o.Distance = ball.Pos.Dist(cup.Pos)
	}
	return o, nil
}
