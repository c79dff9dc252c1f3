package sim

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/vovakirdan/minigolf/internal/core"
	"github.com/vovakirdan/minigolf/internal/course"
	"github.com/vovakirdan/minigolf/internal/physics"
)

// puttFunc fires one putt of a sweep.
type puttFunc func(h *course.Hole, walls []physics.Wall, target core.Vec2, p physics.Params) (Outcome, error)

// SweepOptions configures a sweep. A zero Params means the hole's own
// parameters; other Params rebuild the hole's walls, ball and cup under
// them. Workers <= 0 means Workers(Grid.Size).
type SweepOptions struct {
	Grid    Grid
	Params  physics.Params
	Workers int
	Logger  *log.Logger

	putt puttFunc // nil means roll
}

// Result is a completed sweep. Distances is in row-major order over the
// grid; a holed putt has distance 0.
type Result struct {
	ID          string
	Hole        string
	Fingerprint uint64
	Grid        Grid
	Workers     int
	Distances   []float64
	Made        int
	Elapsed     time.Duration
	CreatedAt   time.Time
}

// At returns the distance recorded for the putt aimed at (col*Step, row*Step).
func (r *Result) At(row, col int) float64 {
	return r.Distances[r.Grid.Index(row, col)]
}

// Point returns the aim point of sample i.
func (r *Result) Point(i int) core.Vec2 {
	return r.Grid.Point(i)
}

// MakeRate is the fraction of holed putts.
func (r *Result) MakeRate() float64 {
	if len(r.Distances) == 0 {
		return 0
	}
	return float64(r.Made) / float64(len(r.Distances))
}

// BandError is a failure inside one band of a sweep.
type BandError struct {
	Band   int
	YStart float64
	YEnd   float64
	Err    error
}

func (e *BandError) Error() string {
	return fmt.Sprintf("band %d [y %g-%g): %v", e.Band, e.YStart, e.YEnd, e.Err)
}

func (e *BandError) Unwrap() error {
	return e.Err
}

// SweepError collects every failed band of a sweep.
type SweepError struct {
	Failed []*BandError
}

func (e *SweepError) Error() string {
	parts := make([]string, len(e.Failed))
	for i, b := range e.Failed {
		parts[i] = b.Error()
	}
	return fmt.Sprintf("sim: sweep failed in %d band(s): %s", len(e.Failed), strings.Join(parts, "; "))
}

func (e *SweepError) Unwrap() []error {
	errs := make([]error, len(e.Failed))
	for i, b := range e.Failed {
		errs[i] = b
	}
	return errs
}

// bandResult is the slot a band writes into; one per band index.
type bandResult struct {
	distances []float64
	made      int
	err       *BandError
}

// Sweep fires one putt at every grid point and returns the final distances
// in row-major order. The surface is cut into horizontal bands that run
// concurrently, each with its own copy of the walls; results are merged in
// band order no matter which band finishes first. If any band fails the
// whole sweep fails with a *SweepError naming every failed band.
func Sweep(ctx context.Context, h *course.Hole, opts SweepOptions) (*Result, error) {
	if err := h.Validate(); err != nil {
		return nil, err
	}
	if err := opts.Grid.Validate(); err != nil {
		return nil, err
	}
	if opts.Params == (physics.Params{}) {
		opts.Params = h.Params
	}
	if err := opts.Params.Validate(); err != nil {
		return nil, err
	}
	if opts.Params != h.Params {
		rebuilt, err := h.WithParams(opts.Params)
		if err != nil {
			return nil, err
		}
		h = rebuilt
	}
	if opts.putt == nil {
		opts.putt = roll
	}
	if opts.Workers <= 0 {
		opts.Workers = Workers(opts.Grid.Size)
	}
	logger := opts.Logger
	if logger == nil {
		logger = log.Default()
	}

	id := uuid.NewString()
	logger = logger.With("sweep", id[:8], "hole", h.Name)
	started := time.Now()

	bands := splitBands(opts.Grid, opts.Workers)
	slots := make([]bandResult, len(bands))

	var g errgroup.Group
	g.SetLimit(opts.Workers)
	for i := range bands {
		b := bands[i]
		g.Go(func() error {
			logger.Debug("band started", "band", b.index, "rows", b.rowEnd-b.rowStart)
			slots[b.index] = runBand(ctx, h, opts.Grid, opts.Params, opts.putt, b)
			if berr := slots[b.index].err; berr != nil {
				logger.Debug("band failed", "band", b.index, "err", berr.Err)
				return berr
			}
			logger.Debug("band finished", "band", b.index, "samples", len(slots[b.index].distances))
			return nil
		})
	}
	// The group has no context, so a failed band does not stop the others;
	// every failure is collected from the slots below.
	waitErr := g.Wait()

	var failed []*BandError
	res := &Result{
		ID:          id,
		Hole:        h.Name,
		Fingerprint: h.Fingerprint(),
		Grid:        opts.Grid,
		Workers:     opts.Workers,
		Distances:   make([]float64, 0, opts.Grid.Len()),
		CreatedAt:   started,
	}
	for _, s := range slots {
		if s.err != nil {
			failed = append(failed, s.err)
			continue
		}
		res.Distances = append(res.Distances, s.distances...)
		res.Made += s.made
	}
	if waitErr != nil {
		err := &SweepError{Failed: failed}
		logger.Error("sweep failed", "failed_bands", len(failed))
		return nil, err
	}

	res.Elapsed = time.Since(started)
	logger.Info("sweep complete",
		"samples", len(res.Distances),
		"made", res.Made,
		"workers", res.Workers,
		"elapsed", res.Elapsed.Round(time.Millisecond))
	return res, nil
}

// runBand putts every grid point of one band, x fastest. A panic in the
// band is turned into a BandError so the other bands keep running.
func runBand(ctx context.Context, h *course.Hole, g Grid, p physics.Params, putt puttFunc, b band) (out bandResult) {
	fail := func(err error) bandResult {
		return bandResult{err: &BandError{Band: b.index, YStart: b.yStart, YEnd: b.yEnd, Err: err}}
	}
	defer func() {
		if r := recover(); r != nil {
			out = fail(fmt.Errorf("panic: %v", r))
		}
	}()

	walls := h.WallsCopy()
	n := g.PointsPerRow()
	out.distances = make([]float64, 0, (b.rowEnd-b.rowStart)*n)

	for row := b.rowStart; row < b.rowEnd; row++ {
		for col := 0; col < n; col++ {
			if err := ctx.Err(); err != nil {
				return fail(err)
			}
			o, err := putt(h, walls, g.Point(g.Index(row, col)), p)
			if err != nil {
				return fail(fmt.Errorf("putt at row %d col %d: %w", row, col, err))
			}
			if o.Holed {
				out.made++
			}
			out.distances = append(out.distances, o.Distance)
		}
	}
	return out
}
