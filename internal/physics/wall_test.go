package physics

import (
	"math"
	"testing"

	"github.com/vovakirdan/minigolf/internal/core"
)

func TestClassifyWall(t *testing.T) {
	tests := []struct {
		name     string
		a, b     core.Vec2
		expected WallType
	}{
		{"horizontal", core.V(0, 150), core.V(200, 150), Horizontal},
		{"horizontal reversed", core.V(200, 150), core.V(0, 150), Horizontal},
		{"vertical", core.V(100, 50), core.V(100, 250), Vertical},
		{"slanted", core.V(0, 0), core.V(100, 100), Slanted},
		{"degenerate point is vertical", core.V(5, 5), core.V(5, 5), Vertical},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := ClassifyWall(tc.a, tc.b); got != tc.expected {
				t.Errorf("ClassifyWall(%v, %v) = %v, expected %v", tc.a, tc.b, got, tc.expected)
			}
		})
	}
}

func TestNewWallGeometry(t *testing.T) {
	p := DefaultParams()

	tests := []struct {
		name    string
		a, b    core.Vec2
		topLeft core.Vec2
		dims    core.Vec2
		length  float64
	}{
		{"horizontal", core.V(0, 150), core.V(200, 150), core.V(0, 148), core.V(200, 4), 200},
		{"horizontal reversed", core.V(200, 150), core.V(0, 150), core.V(0, 148), core.V(200, 4), -200},
		{"vertical", core.V(100, 50), core.V(100, 250), core.V(98, 50), core.V(4, 200), 200},
		{"slanted", core.V(0, 0), core.V(100, 100), core.V(0, 0), core.V(0, 0), 0},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			w := NewWall(tc.a, tc.b, p)
			if w.TopLeft != tc.topLeft {
				t.Errorf("TopLeft = %v, expected %v", w.TopLeft, tc.topLeft)
			}
			if w.Dimensions != tc.dims {
				t.Errorf("Dimensions = %v, expected %v", w.Dimensions, tc.dims)
			}
			if w.Length != tc.length {
				t.Errorf("Length = %v, expected %v", w.Length, tc.length)
			}
			if w.A != tc.a || w.B != tc.b {
				t.Errorf("endpoints changed: got %v-%v", w.A, w.B)
			}
		})
	}
}

func TestWallDistanceTo(t *testing.T) {
	p := DefaultParams()
	horiz := NewWall(core.V(0, 150), core.V(200, 150), p)
	horizRev := NewWall(core.V(200, 150), core.V(0, 150), p)
	vert := NewWall(core.V(100, 50), core.V(100, 250), p)
	slant := NewWall(core.V(0, 0), core.V(100, 100), p)

	tests := []struct {
		name     string
		wall     Wall
		p        core.Vec2
		expected float64
	}{
		{"below horizontal", horiz, core.V(100, 160), 8},
		{"above horizontal", horiz, core.V(100, 140), 8},
		{"on horizontal line", horiz, core.V(100, 150), -2},
		{"inside end band", horiz, core.V(-3, 160), 8},
		{"past segment end inside band", horiz, core.V(203.5, 150), -2},
		{"beyond left end", horiz, core.V(-5, 150), MaxDistance},
		{"beyond right end", horiz, core.V(300, 150), MaxDistance},
		{"band edge is exclusive", horiz, core.V(-4, 150), MaxDistance},
		{"reversed horizontal", horizRev, core.V(100, 160), 8},
		{"right of vertical", vert, core.V(110, 100), 8},
		{"left of vertical", vert, core.V(80, 100), 18},
		{"below vertical end", vert, core.V(110, 260), MaxDistance},
		{"slanted never collides", slant, core.V(50, 50), MaxDistance},
		{"slanted far point", slant, core.V(500, 0), MaxDistance},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got := tc.wall.DistanceTo(tc.p)
			if tc.expected == MaxDistance {
				if got != MaxDistance {
					t.Errorf("DistanceTo(%v) = %v, expected MaxDistance", tc.p, got)
				}
				return
			}
			if math.Abs(got-tc.expected) > 1e-9 {
				t.Errorf("DistanceTo(%v) = %v, expected %v", tc.p, got, tc.expected)
			}
		})
	}
}

func TestWallDistanceDegenerate(t *testing.T) {
	w := NewWall(core.V(5, 5), core.V(5, 5), DefaultParams())
	if got := w.DistanceTo(core.V(5, 5)); got != MaxDistance {
		t.Errorf("zero-length wall DistanceTo = %v, expected MaxDistance", got)
	}
}

func TestWallString(t *testing.T) {
	w := NewWall(core.V(10, 20.5), core.V(110, 20.5), DefaultParams())
	if got := w.String(); got != "wall 10 20.5 110 20.5" {
		t.Errorf("String() = %q", got)
	}
}
