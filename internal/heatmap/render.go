package heatmap

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/vovakirdan/minigolf/internal/core"
	"github.com/vovakirdan/minigolf/internal/sim"
)

const block = '█'

// sampleAt returns the distance of the sample nearest to course point p.
func sampleAt(res *sim.Result, p core.Vec2) float64 {
	n := res.Grid.PointsPerRow()
	col := core.Clamp(int(p.X/res.Grid.Step), 0, n-1)
	row := core.Clamp(int(p.Y/res.Grid.Step), 0, n-1)
	return res.At(row, col)
}

// DistanceAt returns the distance recorded for the aim point nearest p.
func DistanceAt(res *sim.Result, p core.Vec2) float64 {
	return sampleAt(res, p)
}

// Paint fills the viewport area of scr with the heat map, one cell per
// viewport cell, sampled at the cell centre. Cells get a coloured
// background and a blank rune so markers can be drawn on top.
func Paint(scr *core.Screen, vp core.Viewport, res *sim.Result, ramp Ramp) {
	for y := 0; y < vp.Rows; y++ {
		for x := 0; x < vp.Cols; x++ {
			d := sampleAt(res, vp.ToCourse(x, y))
			scr.SetRGB(x, y, ' ', ramp.Hex(d))
		}
	}
}

// Render draws the heat map as a coloured string of cols x rows cells.
func Render(res *sim.Result, cols, rows int, ramp Ramp) string {
	if cols <= 0 || rows <= 0 || len(res.Distances) == 0 {
		return ""
	}

	styles := make(map[string]lipgloss.Style)
	var sb strings.Builder
	for y := 0; y < rows; y++ {
		for x := 0; x < cols; x++ {
			p := core.V(
				(float64(x)+0.5)*res.Grid.Size/float64(cols),
				(float64(y)+0.5)*res.Grid.Size/float64(rows),
			)
			hex := ramp.Hex(sampleAt(res, p))
			st, ok := styles[hex]
			if !ok {
				st = lipgloss.NewStyle().Foreground(lipgloss.Color(hex))
				styles[hex] = st
			}
			sb.WriteString(st.Render(string(block)))
		}
		if y < rows-1 {
			sb.WriteByte('\n')
		}
	}
	return sb.String()
}

// Legend draws a width-cell bar from a made putt to Farthest.
func Legend(ramp Ramp, width int) string {
	if width <= 0 {
		return ""
	}
	var sb strings.Builder
	for x := 0; x < width; x++ {
		d := ramp.Farthest * float64(x) / float64(max(1, width-1))
		sb.WriteString(lipgloss.NewStyle().Foreground(lipgloss.Color(ramp.Hex(d))).Render(string(block)))
	}
	return sb.String()
}
