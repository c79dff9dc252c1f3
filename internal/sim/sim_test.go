package sim

import (
	"context"
	"errors"
	"io"
	"math"
	"testing"

	"github.com/charmbracelet/log"

	"github.com/vovakirdan/minigolf/internal/core"
	"github.com/vovakirdan/minigolf/internal/course"
	"github.com/vovakirdan/minigolf/internal/physics"
)

func quietLogger() *log.Logger {
	return log.New(io.Discard)
}

func boxHole(t *testing.T, p physics.Params) *course.Hole {
	t.Helper()
	walls := []physics.Wall{
		physics.NewWall(core.V(20, 20), core.V(180, 20), p),
		physics.NewWall(core.V(20, 180), core.V(180, 180), p),
		physics.NewWall(core.V(20, 20), core.V(20, 180), p),
		physics.NewWall(core.V(180, 20), core.V(180, 180), p),
	}
	h, err := course.New("box",
		physics.NewBall(100, 150, p.BallRadius, p),
		physics.NewBall(100, 50, p.CupRadius, p),
		walls, p)
	if err != nil {
		t.Fatalf("building hole: %v", err)
	}
	return h
}

func TestPuttStraightIntoCup(t *testing.T) {
	// With the dampener matched to the friction loss the ball stops on
	// the aim point, so aiming at the cup holes it.
	p := physics.DefaultParams()
	p.ContactDampener = 1 - p.Friction
	h := course.Default(p)

	o, err := PuttChecked(h, nil, h.Cup.Pos, p)
	if err != nil {
		t.Fatalf("PuttChecked failed: %v", err)
	}
	if !o.Holed {
		t.Fatalf("expected holed putt, final %v after %d ticks", o.Final, o.Ticks)
	}
	if o.Distance != 0 {
		t.Errorf("holed distance = %g, want 0", o.Distance)
	}
	if o.Final != h.Cup.Pos {
		t.Errorf("final = %v, want cup centre %v", o.Final, h.Cup.Pos)
	}
}

func TestPuttStockConstantsOvershootCup(t *testing.T) {
	// Aimed straight at the cup, the stock dampener sends the ball 1.6
	// times the aim distance: it rolls over the cup too fast to drop.
	p := physics.DefaultParams()
	h := course.Default(p)

	o, err := PuttChecked(h, nil, h.Cup.Pos, p)
	if err != nil {
		t.Fatalf("PuttChecked failed: %v", err)
	}
	if o.Holed {
		t.Fatal("expected the ball to roll past the cup")
	}
	if o.Final.X != 300 || math.Abs(o.Final.Y-(-135.103)) > 1e-3 {
		t.Errorf("final = %v, want (300, -135.103)", o.Final)
	}
	if math.Abs(o.Distance-235.103) > 1e-3 {
		t.Errorf("distance = %g, want 235.103", o.Distance)
	}
	if o.Ticks != 95 {
		t.Errorf("ticks = %d, want 95", o.Ticks)
	}
}

func TestPuttDefaultsShortAimHoles(t *testing.T) {
	p := physics.DefaultParams()
	h := course.Default(p)

	o := Putt(h, nil, core.V(300, 250), p)
	if !o.Holed {
		t.Fatalf("expected holed putt, final %v", o.Final)
	}
}

func TestPuttZeroAimStaysOnTee(t *testing.T) {
	p := physics.DefaultParams()
	h := course.Default(p)

	o := Putt(h, nil, h.Ball.Start(), p)
	if o.Holed || o.Ticks != 0 {
		t.Fatalf("unexpected outcome %+v", o)
	}
	if math.Abs(o.Distance-400) > 1e-9 {
		t.Errorf("distance = %g, want 400", o.Distance)
	}
}

func TestPuttTickLimit(t *testing.T) {
	p := physics.DefaultParams()
	p.MaxTicks = 3
	h := course.Default(p)

	o, err := PuttChecked(h, nil, core.V(300, 0), p)
	if !errors.Is(err, ErrTickLimit) {
		t.Fatalf("expected ErrTickLimit, got %v", err)
	}
	if !o.Limited || o.Ticks != 3 {
		t.Errorf("limited = %v ticks = %d, want true 3", o.Limited, o.Ticks)
	}

	if o := Putt(h, nil, core.V(300, 0), p); !o.Limited {
		t.Error("Putt should mark a cut-off putt as Limited")
	}
}

func TestPuttRejectsInvalidHole(t *testing.T) {
	p := physics.DefaultParams()

	tests := []struct {
		name  string
		hole  *course.Hole
		field string
	}{
		{"zero cup radius", &course.Hole{
			Ball:   physics.NewBall(300, 500, p.BallRadius, p),
			Cup:    physics.NewBall(300, 100, 0, p),
			Params: p,
		}, "cup"},
		{"missing ball", &course.Hole{
			Cup:    physics.NewBall(300, 100, p.CupRadius, p),
			Params: p,
		}, "ball"},
		{"missing cup", &course.Hole{
			Ball:   physics.NewBall(300, 500, p.BallRadius, p),
			Params: p,
		}, "cup"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			o, err := PuttChecked(tt.hole, nil, core.V(300, 250), p)
			var le *course.LayoutError
			if !errors.As(err, &le) {
				t.Fatalf("expected LayoutError, got %v", err)
			}
			if le.Field != tt.field {
				t.Errorf("field = %q, want %q", le.Field, tt.field)
			}
			if o.Ticks != 0 || o.Holed {
				t.Errorf("invalid hole was simulated: %+v", o)
			}
		})
	}
}

func TestPuttStaysInsideBox(t *testing.T) {
	p := physics.DefaultParams()
	h := boxHole(t, p)

	for _, target := range []core.Vec2{core.V(0, 0), core.V(200, 0), core.V(0, 200), core.V(200, 200), core.V(100, 0)} {
		o := Putt(h, h.WallsCopy(), target, p)
		if o.Final.X < 20 || o.Final.X > 180 || o.Final.Y < 20 || o.Final.Y > 180 {
			t.Errorf("aim %v ended outside the box at %v", target, o.Final)
		}
	}
}

func sequential(h *course.Hole, g Grid, p physics.Params) []float64 {
	walls := h.WallsCopy()
	out := make([]float64, 0, g.Len())
	for i := 0; i < g.Len(); i++ {
		out = append(out, Putt(h, walls, g.Point(i), p).Distance)
	}
	return out
}

func TestSweepMatchesSequentialRowMajor(t *testing.T) {
	p := physics.DefaultParams()
	h := boxHole(t, p)

	tests := []struct {
		name    string
		grid    Grid
		workers int
	}{
		{"two bands", Grid{Size: 200, Step: 20}, 2},
		{"step does not divide band", Grid{Size: 300, Step: 40}, 3},
		{"default workers", Grid{Size: 200, Step: 25}, 0},
		{"more bands than rows", Grid{Size: 100, Step: 60}, 3},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res, err := Sweep(context.Background(), h, SweepOptions{
				Grid:    tt.grid,
				Workers: tt.workers,
				Logger:  quietLogger(),
			})
			if err != nil {
				t.Fatalf("Sweep failed: %v", err)
			}

			want := sequential(h, tt.grid, p)
			if len(res.Distances) != len(want) {
				t.Fatalf("got %d samples, want %d", len(res.Distances), len(want))
			}
			made := 0
			for i := range want {
				if res.Distances[i] != want[i] {
					t.Errorf("sample %d (aim %v): got %g, want %g", i, tt.grid.Point(i), res.Distances[i], want[i])
				}
				if want[i] == 0 {
					made++
				}
			}
			if res.Made != made {
				t.Errorf("Made = %d, want %d", res.Made, made)
			}
			if res.ID == "" {
				t.Error("expected sweep ID")
			}
		})
	}
}

func TestSweepTwoHundredByTwenty(t *testing.T) {
	p := physics.DefaultParams()
	res, err := Sweep(context.Background(), course.Default(p), SweepOptions{
		Grid:    Grid{Size: 200, Step: 20},
		Workers: 2,
		Logger:  quietLogger(),
	})
	if err != nil {
		t.Fatalf("Sweep failed: %v", err)
	}
	if len(res.Distances) != 100 {
		t.Fatalf("got %d samples, want 100", len(res.Distances))
	}
	if res.At(3, 4) != res.Distances[34] {
		t.Error("At does not index row-major")
	}
	if res.Point(34) != core.V(80, 60) {
		t.Errorf("Point(34) = %v", res.Point(34))
	}
}

func TestSweepPanicNamesBand(t *testing.T) {
	p := physics.DefaultParams()
	_, err := Sweep(context.Background(), course.Default(p), SweepOptions{
		Grid:    Grid{Size: 200, Step: 20},
		Workers: 2,
		Logger:  quietLogger(),
		putt: func(h *course.Hole, walls []physics.Wall, target core.Vec2, p physics.Params) (Outcome, error) {
			if target.Y >= 100 {
				panic("boom")
			}
			return roll(h, walls, target, p)
		},
	})

	var se *SweepError
	if !errors.As(err, &se) {
		t.Fatalf("expected SweepError, got %v", err)
	}
	if len(se.Failed) != 1 {
		t.Fatalf("expected 1 failed band, got %d", len(se.Failed))
	}
	if se.Failed[0].Band != 1 || se.Failed[0].YStart != 100 || se.Failed[0].YEnd != 200 {
		t.Errorf("unexpected band error %+v", se.Failed[0])
	}
}

func TestSweepCollectsAllFailedBands(t *testing.T) {
	p := physics.DefaultParams()
	_, err := Sweep(context.Background(), course.Default(p), SweepOptions{
		Grid:    Grid{Size: 300, Step: 50},
		Workers: 3,
		Logger:  quietLogger(),
		putt: func(*course.Hole, []physics.Wall, core.Vec2, physics.Params) (Outcome, error) {
			return Outcome{}, ErrTickLimit
		},
	})

	var se *SweepError
	if !errors.As(err, &se) {
		t.Fatalf("expected SweepError, got %v", err)
	}
	if len(se.Failed) != 3 {
		t.Errorf("expected 3 failed bands, got %d", len(se.Failed))
	}
	for i, b := range se.Failed {
		if b.Band != i {
			t.Errorf("failed bands out of order: position %d has band %d", i, b.Band)
		}
	}
	if !errors.Is(err, ErrTickLimit) {
		t.Error("SweepError should unwrap to ErrTickLimit")
	}
}

func TestSweepParamsRebuildHole(t *testing.T) {
	p := physics.DefaultParams()
	h := boxHole(t, p)
	grid := Grid{Size: 200, Step: 20}

	base, err := Sweep(context.Background(), h, SweepOptions{Grid: grid, Workers: 2, Logger: quietLogger()})
	if err != nil {
		t.Fatalf("Sweep failed: %v", err)
	}

	thick := p
	thick.WallThickness = 30
	thick.BallRadius = 2
	over, err := Sweep(context.Background(), h, SweepOptions{Grid: grid, Params: thick, Workers: 2, Logger: quietLogger()})
	if err != nil {
		t.Fatalf("Sweep with params failed: %v", err)
	}

	differ := 0
	for i := range base.Distances {
		if base.Distances[i] != over.Distances[i] {
			differ++
		}
	}
	if differ == 0 {
		t.Error("thicker walls and a smaller ball should change some outcomes")
	}

	want := sequential(boxHole(t, thick), grid, thick)
	for i := range want {
		if over.Distances[i] != want[i] {
			t.Fatalf("sample %d: got %g, want %g from a hole built with the same params", i, over.Distances[i], want[i])
		}
	}
	if over.Fingerprint != boxHole(t, thick).Fingerprint() {
		t.Error("fingerprint should describe the rebuilt hole")
	}
	if base.Fingerprint != h.Fingerprint() {
		t.Error("fingerprint without override should match the hole")
	}
	if h.Walls[0].Thickness() != p.WallThickness {
		t.Error("sweep modified the caller's hole")
	}
}

func TestSweepCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	p := physics.DefaultParams()
	_, err := Sweep(ctx, course.Default(p), SweepOptions{
		Grid:   Grid{Size: 200, Step: 20},
		Logger: quietLogger(),
	})
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
}

func TestSweepRejectsBadInput(t *testing.T) {
	p := physics.DefaultParams()

	if _, err := Sweep(context.Background(), course.Default(p), SweepOptions{Grid: Grid{Size: 200}}); err == nil {
		t.Error("expected error for zero step")
	}

	h := course.Default(p)
	h.Cup.Radius = 0
	var le *course.LayoutError
	if _, err := Sweep(context.Background(), h, SweepOptions{Grid: Grid{Size: 200, Step: 20}}); !errors.As(err, &le) {
		t.Errorf("expected LayoutError, got %v", err)
	}
}
