package heatmap

import (
	"bufio"
	"fmt"
	"image"
	"image/png"
	"io"
	"math"

	"github.com/vovakirdan/minigolf/internal/core"
	"github.com/vovakirdan/minigolf/internal/sim"
)

// Image builds the heat map with one Step x Step block per sample.
func Image(res *sim.Result, ramp Ramp) *image.RGBA {
	n := res.Grid.PointsPerRow()
	cell := max(1, int(math.Round(res.Grid.Step)))
	img := image.NewRGBA(image.Rect(0, 0, n*cell, n*cell))

	for i, d := range res.Distances {
		row, col := i/n, i%n
		c := ramp.Color(d)
		for y := row * cell; y < (row+1)*cell; y++ {
			for x := col * cell; x < (col+1)*cell; x++ {
				img.Set(x, y, c)
			}
		}
	}
	return img
}

// WritePNG encodes the heat map as PNG.
func WritePNG(w io.Writer, res *sim.Result, ramp Ramp) error {
	if err := png.Encode(w, Image(res, ramp)); err != nil {
		return fmt.Errorf("heatmap: encoding png: %w", err)
	}
	return nil
}

// WriteText writes one "y x distance" line per sample in sample order.
func WriteText(w io.Writer, res *sim.Result) error {
	bw := bufio.NewWriter(w)
	for i, d := range res.Distances {
		p := res.Point(i)
		if _, err := fmt.Fprintf(bw, "%g %g %g\n", p.Y, p.X, d); err != nil {
			return fmt.Errorf("heatmap: writing text: %w", err)
		}
	}
	if err := bw.Flush(); err != nil {
		return fmt.Errorf("heatmap: writing text: %w", err)
	}
	return nil
}

// Aim is one sample: where the putt was aimed and how far from the cup it
// finished.
type Aim struct {
	Point    core.Vec2
	Distance float64
}

// Summary describes a sweep in a few numbers.
type Summary struct {
	Samples  int
	Made     int
	MakeRate float64
	Mean     float64
	Best     Aim
	Worst    Aim
}

// Summarize computes the summary of a sweep. Ties keep the first sample in
// row-major order.
func Summarize(res *sim.Result) Summary {
	s := Summary{Samples: len(res.Distances)}
	if s.Samples == 0 {
		return s
	}

	sum := 0.0
	best, worst := 0, 0
	for i, d := range res.Distances {
		sum += d
		if d == 0 {
			s.Made++
		}
		if d < res.Distances[best] {
			best = i
		}
		if d > res.Distances[worst] {
			worst = i
		}
	}

	s.MakeRate = float64(s.Made) / float64(s.Samples)
	s.Mean = sum / float64(s.Samples)
	s.Best = Aim{Point: res.Point(best), Distance: res.Distances[best]}
	s.Worst = Aim{Point: res.Point(worst), Distance: res.Distances[worst]}
	return s
}

// String formats the summary for the terminal.
func (s Summary) String() string {
	return fmt.Sprintf("%d putts, %d made (%.1f%%), mean %.1f, best aim (%g,%g) %.1f, worst aim (%g,%g) %.1f",
		s.Samples, s.Made, s.MakeRate*100, s.Mean,
		s.Best.Point.X, s.Best.Point.Y, s.Best.Distance,
		s.Worst.Point.X, s.Worst.Point.Y, s.Worst.Distance)
}
