package core

// RuntimeConfig contains configuration passed to the play view at start-up.
type RuntimeConfig struct {
	ScreenW     int     // Terminal width in characters
	ScreenH     int     // Terminal height in characters
	TickRate    int     // Physics ticks per second (default 60)
	SurfaceSize float64 // Course surface edge length in course units (square)
}

// DefaultConfig returns a RuntimeConfig with sensible defaults.
func DefaultConfig() RuntimeConfig {
	return RuntimeConfig{
		ScreenW:     80,
		ScreenH:     24,
		TickRate:    60,
		SurfaceSize: 600,
	}
}

// Viewport maps course coordinates onto a screen of cells. Terminal cells
// are roughly twice as tall as wide, so the surface is drawn with twice as
// many columns as rows.
type Viewport struct {
	Size float64 // course surface edge length
	Cols int     // cells across
	Rows int     // cells down
}

// NewViewport fits a square surface of the given size into screenW x screenH
// cells, reserving hudRows rows for status text.
func NewViewport(size float64, screenW, screenH, hudRows int) Viewport {
	rows := screenH - hudRows
	if rows < 1 {
		rows = 1
	}
	cols := rows * 2
	if cols > screenW {
		cols = screenW
		rows = cols / 2
		if rows < 1 {
			rows = 1
		}
	}
	if cols < 1 {
		cols = 1
	}
	return Viewport{Size: size, Cols: cols, Rows: rows}
}

// ToCell converts a course position to a cell coordinate.
func (v Viewport) ToCell(p Vec2) (int, int) {
	cx := int(p.X / v.Size * float64(v.Cols))
	cy := int(p.Y / v.Size * float64(v.Rows))
	return cx, cy
}

// ToCourse converts a cell coordinate to the course position at the cell centre.
func (v Viewport) ToCourse(cx, cy int) Vec2 {
	return Vec2{
		X: (float64(cx) + 0.5) * v.Size / float64(v.Cols),
		Y: (float64(cy) + 0.5) * v.Size / float64(v.Rows),
	}
}
