package sim

import (
	"fmt"
	"math"

	"github.com/vovakirdan/minigolf/internal/core"
)

// Grid is the square aim space [0, Size) x [0, Size) sampled every Step.
type Grid struct {
	Size float64
	Step float64
}

// Validate checks that the grid has at least one sample.
func (g Grid) Validate() error {
	if g.Size <= 0 {
		return fmt.Errorf("sim: surface size must be positive, got %g", g.Size)
	}
	if g.Step <= 0 {
		return fmt.Errorf("sim: step must be positive, got %g", g.Step)
	}
	return nil
}

// PointsPerRow is the number of k >= 0 with k*Step < Size.
func (g Grid) PointsPerRow() int {
	if g.Size <= 0 || g.Step <= 0 {
		return 0
	}
	n := int(math.Ceil(g.Size / g.Step))
	for n > 0 && float64(n-1)*g.Step >= g.Size {
		n--
	}
	for float64(n)*g.Step < g.Size {
		n++
	}
	return n
}

// Rows equals PointsPerRow: the grid is square.
func (g Grid) Rows() int {
	return g.PointsPerRow()
}

// Len is the total number of samples.
func (g Grid) Len() int {
	n := g.PointsPerRow()
	return n * n
}

// Index returns the row-major sample index of (row, col).
func (g Grid) Index(row, col int) int {
	return row*g.PointsPerRow() + col
}

// Point returns the aim point of a row-major sample index.
func (g Grid) Point(index int) core.Vec2 {
	n := g.PointsPerRow()
	row, col := index/n, index%n
	return core.V(float64(col)*g.Step, float64(row)*g.Step)
}

// Workers is the default parallelism for a surface: one band per 100 units.
func Workers(size float64) int {
	return max(1, int(size/100))
}

// band is a horizontal strip of the surface and the grid rows inside it.
type band struct {
	index    int
	yStart   float64
	yEnd     float64
	rowStart int
	rowEnd   int
}

// splitBands assigns every grid row to exactly one band. Band k covers
// y in [k*h, (k+1)*h) with h = Size/workers; row r goes to the band that
// contains r*Step, so concatenating bands in order keeps global row-major
// order even when Step does not divide h.
func splitBands(g Grid, workers int) []band {
	height := g.Size / float64(workers)
	bands := make([]band, workers)
	for k := range bands {
		bands[k] = band{
			index:  k,
			yStart: float64(k) * height,
			yEnd:   float64(k+1) * height,
		}
	}

	rows := g.Rows()
	next := 0
	for k := range bands {
		bands[k].rowStart = next
		for next < rows && (k == workers-1 || float64(next)*g.Step < bands[k].yEnd) {
			next++
		}
		bands[k].rowEnd = next
	}
	return bands
}
