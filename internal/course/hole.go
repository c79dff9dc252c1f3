// Package course holds hole layouts: the ball start, the cup and the walls,
// validated and ready to simulate.
package course

import (
	"fmt"

	"github.com/cespare/xxhash/v2"

	"github.com/vovakirdan/minigolf/internal/core"
	"github.com/vovakirdan/minigolf/internal/course/formats"
	"github.com/vovakirdan/minigolf/internal/physics"
)

// Hole is one course hole. Walls keep their authored order; order does not
// affect physics, only serialisation.
type Hole struct {
	Name   string
	Ball   *physics.Ball
	Cup    *physics.Ball
	Walls  []physics.Wall
	Params physics.Params
}

// LayoutError reports a hole that cannot be simulated.
type LayoutError struct {
	Hole   string
	Field  string
	Reason string
}

func (e *LayoutError) Error() string {
	if e.Hole != "" {
		return fmt.Sprintf("course: hole %q: %s %s", e.Hole, e.Field, e.Reason)
	}
	return fmt.Sprintf("course: %s %s", e.Field, e.Reason)
}

// Default returns an empty practice hole: ball at (300,500), cup at (300,100).
func Default(p physics.Params) *Hole {
	return &Hole{
		Name:   "practice",
		Ball:   physics.NewBall(300, 500, p.BallRadius, p),
		Cup:    physics.NewBall(300, 100, p.CupRadius, p),
		Params: p,
	}
}

// New builds a validated hole from already constructed parts.
func New(name string, ball, cup *physics.Ball, walls []physics.Wall, p physics.Params) (*Hole, error) {
	h := &Hole{Name: name, Ball: ball, Cup: cup, Walls: walls, Params: p}
	if err := h.Validate(); err != nil {
		return nil, err
	}
	return h, nil
}

// FromLayout builds and validates a hole from a parsed layout. An undeclared
// ball or cup keeps the unset radius 0 and is rejected by Validate.
func FromLayout(l formats.Layout, p physics.Params) (*Hole, error) {
	h := &Hole{Name: l.Name, Params: p}

	h.Ball = physics.NewBall(l.Ball.X, l.Ball.Y, 0, p)
	if l.HasBall {
		h.Ball = physics.NewBall(l.Ball.X, l.Ball.Y, p.BallRadius, p)
	}
	h.Cup = physics.NewBall(l.Cup.X, l.Cup.Y, 0, p)
	if l.HasCup {
		h.Cup = physics.NewBall(l.Cup.X, l.Cup.Y, p.CupRadius, p)
	}

	h.Walls = make([]physics.Wall, 0, len(l.Walls))
	for _, s := range l.Walls {
		h.Walls = append(h.Walls, physics.NewWall(s.A, s.B, p))
	}

	if err := h.Validate(); err != nil {
		return nil, err
	}
	return h, nil
}

// Validate fails when the ball or cup is missing or has no radius.
func (h *Hole) Validate() error {
	if h.Ball == nil {
		return &LayoutError{Hole: h.Name, Field: "ball", Reason: "not defined"}
	}
	if h.Ball.Radius <= 0 {
		return &LayoutError{Hole: h.Name, Field: "ball", Reason: "not defined (radius unset)"}
	}
	if h.Cup == nil {
		return &LayoutError{Hole: h.Name, Field: "cup", Reason: "not defined"}
	}
	if h.Cup.Radius <= 0 {
		return &LayoutError{Hole: h.Name, Field: "cup", Reason: "not defined (radius unset)"}
	}
	if err := h.Params.Validate(); err != nil {
		return &LayoutError{Hole: h.Name, Field: "params", Reason: err.Error()}
	}
	return nil
}

// WithParams rebuilds the hole under other physics parameters: walls get the
// new thickness, the ball and cup the new radii.
func (h *Hole) WithParams(p physics.Params) (*Hole, error) {
	if err := h.Validate(); err != nil {
		return nil, err
	}
	return FromLayout(h.Layout(), p)
}

// WallsCopy returns an independent copy of the wall list for a worker.
func (h *Hole) WallsCopy() []physics.Wall {
	walls := make([]physics.Wall, len(h.Walls))
	copy(walls, h.Walls)
	return walls
}

// NewBall returns a fresh resting ball on the hole's starting position.
func (h *Hole) NewBall() *physics.Ball {
	start := h.Ball.Start()
	return physics.NewBall(start.X, start.Y, h.Ball.Radius, h.Params)
}

// CupPos returns the cup centre.
func (h *Hole) CupPos() core.Vec2 {
	return h.Cup.Pos
}

// Layout converts the hole back to its file form.
func (h *Hole) Layout() formats.Layout {
	l := formats.Layout{Name: h.Name}
	if h.Ball != nil && h.Ball.Radius > 0 {
		l.Ball, l.HasBall = h.Ball.Start(), true
	}
	if h.Cup != nil && h.Cup.Radius > 0 {
		l.Cup, l.HasCup = h.Cup.Start(), true
	}
	for _, w := range h.Walls {
		l.Walls = append(l.Walls, formats.Segment{A: w.A, B: w.B})
	}
	return l
}

// Fingerprint identifies the hole geometry and physics. Two holes with the
// same ball, cup, walls and params share a fingerprint regardless of name.
func (h *Hole) Fingerprint() uint64 {
	l := h.Layout()
	l.Name = ""
	d := xxhash.New()
	_, _ = d.Write(formats.EncodeText(l))
	_, _ = fmt.Fprintf(d, "params %v\n", h.Params)
	return d.Sum64()
}
