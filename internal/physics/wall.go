package physics

import (
	"fmt"
	"math"

	"github.com/vovakirdan/minigolf/internal/core"
)

// WallType is the orientation of a wall segment.
type WallType int

const (
	Horizontal WallType = iota
	Vertical
	Slanted
)

// String returns a human-readable name for the wall type.
func (t WallType) String() string {
	switch t {
	case Horizontal:
		return "horizontal"
	case Vertical:
		return "vertical"
	case Slanted:
		return "slanted"
	default:
		return "unknown"
	}
}

// ClassifyWall returns the orientation of the segment a-b. Exact equality
// of a coordinate pair decides; x is tested first.
func ClassifyWall(a, b core.Vec2) WallType {
	if a.X == b.X {
		return Vertical
	}
	if a.Y == b.Y {
		return Horizontal
	}
	return Slanted
}

// Wall is an immutable wall segment. Copying a Wall (or a []Wall) gives an
// independent value that is safe to hand to another goroutine.
type Wall struct {
	A, B       core.Vec2 // endpoints as authored
	Type       WallType
	TopLeft    core.Vec2 // top-left of the thickness-inflated rectangle
	Dimensions core.Vec2 // width, height of the rectangle
	Length     float64   // signed span along the long axis
	thickness  float64
}

// NewWall builds a wall from an anchor and an opposite point.
// Slanted walls get a zero rectangle and zero length and never collide.
func NewWall(a, b core.Vec2, p Params) Wall {
	w := Wall{A: a, B: b, Type: ClassifyWall(a, b), thickness: p.WallThickness}
	half := p.HalfThickness()

	switch w.Type {
	case Horizontal:
		w.TopLeft = core.V(math.Min(a.X, b.X), a.Y-half)
		w.Dimensions = core.V(math.Abs(b.X-a.X), p.WallThickness)
		w.Length = b.X - a.X
	case Vertical:
		w.TopLeft = core.V(a.X-half, math.Min(a.Y, b.Y))
		w.Dimensions = core.V(p.WallThickness, math.Abs(b.Y-a.Y))
		w.Length = b.Y - a.Y
	}
	return w
}

// Thickness returns the full wall thickness the wall was built with.
func (w Wall) Thickness() float64 {
	return w.thickness
}

// inBand reports whether p lies along the wall's run, widened by one wall
// thickness at each end. Outside the band the wall's infinite extension
// must not collide.
func (w Wall) inBand(p core.Vec2) bool {
	switch w.Type {
	case Horizontal:
		lo, hi := math.Min(w.A.X, w.B.X), math.Max(w.A.X, w.B.X)
		return p.X > lo-w.thickness && p.X < hi+w.thickness
	case Vertical:
		lo, hi := math.Min(w.A.Y, w.B.Y), math.Max(w.A.Y, w.B.Y)
		return p.Y > lo-w.thickness && p.Y < hi+w.thickness
	default:
		return false
	}
}

// DistanceTo returns the distance from p to the wall surface: the
// point-to-line distance through A and B minus half the wall thickness.
// Returns MaxDistance for slanted walls and for points outside the wall's run.
func (w Wall) DistanceTo(p core.Vec2) float64 {
	if !w.inBand(p) || w.Length == 0 {
		return MaxDistance
	}

	// https://en.wikipedia.org/wiki/Distance_from_a_point_to_a_line
	num := math.Abs((w.B.Y-w.A.Y)*p.X - (w.B.X-w.A.X)*p.Y + w.B.X*w.A.Y - w.B.Y*w.A.X)
	return num/math.Abs(w.Length) - w.thickness/2
}

// String returns the wall in hole-file form: "wall x1 y1 x2 y2".
func (w Wall) String() string {
	return fmt.Sprintf("wall %s %s %s %s", fmtCoord(w.A.X), fmtCoord(w.A.Y), fmtCoord(w.B.X), fmtCoord(w.B.Y))
}

// fmtCoord prints a coordinate without trailing zeros.
func fmtCoord(v float64) string {
	return fmt.Sprintf("%g", v)
}
