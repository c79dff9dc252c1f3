package course

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/vovakirdan/minigolf/internal/core"
	"github.com/vovakirdan/minigolf/internal/physics"
)

func testdataPath() string {
	return filepath.Join("testdata", "holes")
}

func TestDefaultHole(t *testing.T) {
	h := Default(physics.DefaultParams())
	if err := h.Validate(); err != nil {
		t.Fatalf("default hole invalid: %v", err)
	}
	if h.Ball.Pos != core.V(300, 500) {
		t.Errorf("ball at %v, want (300,500)", h.Ball.Pos)
	}
	if h.Cup.Pos != core.V(300, 100) {
		t.Errorf("cup at %v, want (300,100)", h.Cup.Pos)
	}
	if len(h.Walls) != 0 {
		t.Errorf("expected no walls, got %d", len(h.Walls))
	}
}

func TestValidateMissingParts(t *testing.T) {
	p := physics.DefaultParams()
	tests := []struct {
		name  string
		ball  *physics.Ball
		cup   *physics.Ball
		field string
	}{
		{"no ball", nil, physics.NewBall(1, 1, 20, p), "ball"},
		{"unset ball radius", physics.NewBall(1, 1, 0, p), physics.NewBall(1, 1, 20, p), "ball"},
		{"no cup", physics.NewBall(1, 1, 8, p), nil, "cup"},
		{"unset cup radius", physics.NewBall(1, 1, 8, p), physics.NewBall(1, 1, 0, p), "cup"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := New("h", tt.ball, tt.cup, nil, p)
			var le *LayoutError
			if !errors.As(err, &le) {
				t.Fatalf("expected LayoutError, got %v", err)
			}
			if le.Field != tt.field {
				t.Errorf("field = %q, want %q", le.Field, tt.field)
			}
		})
	}
}

func TestValidateBadParams(t *testing.T) {
	p := physics.DefaultParams()
	p.Friction = 1.5
	h := Default(physics.DefaultParams())
	h.Params = p

	var le *LayoutError
	if err := h.Validate(); !errors.As(err, &le) || le.Field != "params" {
		t.Fatalf("expected params LayoutError, got %v", err)
	}
}

func TestWallsCopyIsIndependent(t *testing.T) {
	h, err := LoadFile(filepath.Join(testdataPath(), "box.hole"), physics.DefaultParams())
	if err != nil {
		t.Fatalf("LoadFile failed: %v", err)
	}

	walls := h.WallsCopy()
	walls[0].TopLeft = core.V(-1, -1)
	if h.Walls[0].TopLeft == walls[0].TopLeft {
		t.Error("modifying the copy changed the hole")
	}
}

func TestFingerprint(t *testing.T) {
	p := physics.DefaultParams()
	a := Default(p)
	b := Default(p)
	b.Name = "renamed"

	if a.Fingerprint() != b.Fingerprint() {
		t.Error("name should not affect the fingerprint")
	}

	b.Walls = append(b.Walls, physics.NewWall(core.V(0, 200), core.V(600, 200), p))
	if a.Fingerprint() == b.Fingerprint() {
		t.Error("adding a wall should change the fingerprint")
	}

	c := Default(p)
	c.Params.Friction = 0.97
	if a.Fingerprint() == c.Fingerprint() {
		t.Error("changing friction should change the fingerprint")
	}
}

func TestWithParams(t *testing.T) {
	p := physics.DefaultParams()
	h := Default(p)
	h.Name = "walled"
	h.Walls = append(h.Walls, physics.NewWall(core.V(0, 300), core.V(600, 300), p))

	q := p
	q.WallThickness = 10
	q.BallRadius = 5
	q.CupRadius = 12
	r, err := h.WithParams(q)
	if err != nil {
		t.Fatalf("WithParams failed: %v", err)
	}
	if r.Name != "walled" || r.Params != q {
		t.Errorf("rebuilt hole %q params %+v", r.Name, r.Params)
	}
	if r.Walls[0].Thickness() != 10 || r.Walls[0].TopLeft != core.V(0, 295) {
		t.Errorf("wall not rebuilt: %+v", r.Walls[0])
	}
	if r.Ball.Radius != 5 || r.Cup.Radius != 12 || r.Ball.Start() != h.Ball.Start() {
		t.Errorf("ball %v r=%g cup r=%g", r.Ball.Start(), r.Ball.Radius, r.Cup.Radius)
	}
	if h.Walls[0].Thickness() != p.WallThickness {
		t.Error("WithParams changed the original hole")
	}

	h.Cup = nil
	var le *LayoutError
	if _, err := h.WithParams(q); !errors.As(err, &le) {
		t.Errorf("expected LayoutError, got %v", err)
	}
}

func TestNewBallStartsAtTee(t *testing.T) {
	h := Default(physics.DefaultParams())
	h.Ball.Hit(300, 0)
	h.Ball.Step(nil)

	b := h.NewBall()
	if b.Pos != core.V(300, 500) || b.IsMoving() {
		t.Errorf("fresh ball = %v moving=%v", b.Pos, b.IsMoving())
	}
}

func TestLoaderLoadAll(t *testing.T) {
	loader := NewLoader(testdataPath(), physics.DefaultParams())

	holes, err := loader.LoadAll()
	if err != nil {
		t.Fatalf("LoadAll failed: %v", err)
	}

	// broken.hole has no cup and is skipped.
	if len(holes) != 2 {
		t.Fatalf("expected 2 holes, got %d", len(holes))
	}
	for i := 1; i < len(holes); i++ {
		if holes[i-1].Name >= holes[i].Name {
			t.Errorf("holes not sorted: %s >= %s", holes[i-1].Name, holes[i].Name)
		}
	}
}

func TestLoaderLoadByName(t *testing.T) {
	loader := NewLoader(testdataPath(), physics.DefaultParams())

	h, err := loader.LoadByName("dogleg")
	if err != nil {
		t.Fatalf("LoadByName failed: %v", err)
	}
	if len(h.Walls) != 5 {
		t.Errorf("expected 5 walls, got %d", len(h.Walls))
	}
	if h.Cup.Pos != core.V(500, 100) {
		t.Errorf("cup at %v", h.Cup.Pos)
	}

	if _, err := loader.LoadByName("missing"); err == nil {
		t.Error("expected error for unknown hole")
	}
}

func TestLoaderNames(t *testing.T) {
	loader := NewLoader(testdataPath(), physics.DefaultParams())

	names, err := loader.Names()
	if err != nil {
		t.Fatalf("Names failed: %v", err)
	}
	if len(names) != 2 || names[0] != "box" || names[1] != "dogleg" {
		t.Errorf("names = %v", names)
	}
}

func TestLoadFileMissingCup(t *testing.T) {
	_, err := LoadFile(filepath.Join(testdataPath(), "broken.hole"), physics.DefaultParams())

	var le *LayoutError
	if !errors.As(err, &le) {
		t.Fatalf("expected LayoutError, got %v", err)
	}
	if le.Field != "cup" || le.Hole != "broken" {
		t.Errorf("got field %q hole %q", le.Field, le.Hole)
	}
}

func TestSaveFileRoundTrip(t *testing.T) {
	p := physics.DefaultParams()
	h, err := LoadFile(filepath.Join(testdataPath(), "dogleg.yaml"), p)
	if err != nil {
		t.Fatalf("LoadFile failed: %v", err)
	}

	out := filepath.Join(t.TempDir(), "dogleg.hole")
	if err := SaveFile(out, h); err != nil {
		t.Fatalf("SaveFile failed: %v", err)
	}
	if _, err := os.Stat(out); err != nil {
		t.Fatalf("file not written: %v", err)
	}

	back, err := LoadFile(out, p)
	if err != nil {
		t.Fatalf("reload failed: %v", err)
	}
	if back.Fingerprint() != h.Fingerprint() {
		t.Error("geometry changed across yaml -> text")
	}
	if back.Name != "dogleg" {
		t.Errorf("name = %q", back.Name)
	}
}
