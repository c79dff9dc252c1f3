// Package physics implements the hole physics: axis-aligned walls with a
// point-to-wall distance test, and the ball state machine that integrates,
// collides, applies friction and comes to rest.
//
// Slanted walls are accepted but never collide; a ball passes straight
// through them.
package physics

import (
	"errors"
	"fmt"
	"math"
)

// MaxDistance is returned by Wall.DistanceTo when a point can never collide
// with the wall.
const MaxDistance = math.MaxFloat64

// Params holds the physics tunables. Every wall, ball and tick takes its
// constants from a Params value so tests can vary them freely.
type Params struct {
	ContactDampener float64 `yaml:"contact_dampener"` // aim vector -> initial velocity
	Friction        float64 `yaml:"friction"`         // velocity multiplier per tick, (0,1)
	FallingSpeed    float64 `yaml:"falling_speed"`    // max speed at which a ball drops into the cup
	StopThreshold   float64 `yaml:"stop_threshold"`   // velocity components below this snap to 0
	WallThickness   float64 `yaml:"wall_thickness"`   // full wall thickness
	BallRadius      float64 `yaml:"ball_radius"`
	CupRadius       float64 `yaml:"cup_radius"`
	MaxTicks        int     `yaml:"max_ticks"` // safety bound for a single putt
}

// DefaultParams returns the stock physics tuning.
func DefaultParams() Params {
	return Params{
		ContactDampener: 0.08,
		Friction:        0.95,
		FallingSpeed:    3.0,
		StopThreshold:   0.25,
		WallThickness:   4.0,
		BallRadius:      8.0,
		CupRadius:       20.0,
		MaxTicks:        100000,
	}
}

// HalfThickness returns half of the wall thickness.
func (p Params) HalfThickness() float64 {
	return p.WallThickness / 2
}

// ErrInvalidParams is wrapped by every Validate failure.
var ErrInvalidParams = errors.New("physics: invalid parameters")

// Validate checks that the parameters describe a ball that always stops.
func (p Params) Validate() error {
	switch {
	case !(p.Friction > 0 && p.Friction < 1):
		return fmt.Errorf("%w: friction %v must be in (0, 1)", ErrInvalidParams, p.Friction)
	case p.ContactDampener <= 0:
		return fmt.Errorf("%w: contact_dampener %v must be positive", ErrInvalidParams, p.ContactDampener)
	case p.StopThreshold <= 0:
		return fmt.Errorf("%w: stop_threshold %v must be positive", ErrInvalidParams, p.StopThreshold)
	case p.FallingSpeed < 0:
		return fmt.Errorf("%w: falling_speed %v must not be negative", ErrInvalidParams, p.FallingSpeed)
	case p.WallThickness < 0:
		return fmt.Errorf("%w: wall_thickness %v must not be negative", ErrInvalidParams, p.WallThickness)
	case p.BallRadius <= 0:
		return fmt.Errorf("%w: ball_radius %v must be positive", ErrInvalidParams, p.BallRadius)
	case p.CupRadius <= 0:
		return fmt.Errorf("%w: cup_radius %v must be positive", ErrInvalidParams, p.CupRadius)
	case p.MaxTicks <= 0:
		return fmt.Errorf("%w: max_ticks %d must be positive", ErrInvalidParams, p.MaxTicks)
	}
	return nil
}
