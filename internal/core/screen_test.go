package core

import (
	"strings"
	"testing"
)

func TestNewScreen(t *testing.T) {
	s := NewScreen(80, 24)

	if s.Width() != 80 {
		t.Errorf("Width() = %d, expected 80", s.Width())
	}
	if s.Height() != 24 {
		t.Errorf("Height() = %d, expected 24", s.Height())
	}

	for y := 0; y < s.Height(); y++ {
		for x := 0; x < s.Width(); x++ {
			if s.Get(x, y) != ' ' {
				t.Fatalf("New screen should be filled with spaces, got %q at (%d, %d)", s.Get(x, y), x, y)
			}
		}
	}
}

func TestScreenSetGet(t *testing.T) {
	s := NewScreen(10, 10)

	s.Set(5, 5, 'o', ColorWhite)
	cell := s.GetCell(5, 5)
	if cell.Rune != 'o' || cell.Color != ColorWhite {
		t.Errorf("GetCell(5, 5) = %+v, expected white 'o'", cell)
	}

	// Out of bounds should be silent
	s.Set(-1, 0, 'A', ColorDefault)
	s.Set(100, 0, 'A', ColorDefault)
	s.Set(0, -1, 'A', ColorDefault)
	s.Set(0, 100, 'A', ColorDefault)

	if s.Get(-1, 0) != ' ' {
		t.Error("Out of bounds Get should return space")
	}
	if s.Get(100, 0) != ' ' {
		t.Error("Out of bounds Get should return space")
	}
}

func TestScreenSetRGB(t *testing.T) {
	s := NewScreen(4, 4)
	s.SetRGB(1, 2, ' ', "#ff0000")

	cell := s.GetCell(1, 2)
	if cell.Color != ColorRGB || cell.RGB != "#ff0000" {
		t.Errorf("SetRGB stored %+v", cell)
	}
}

func TestScreenFillAndClear(t *testing.T) {
	s := NewScreen(5, 5)
	s.Fill('.', ColorGreen)

	for y := 0; y < 5; y++ {
		for x := 0; x < 5; x++ {
			if c := s.GetCell(x, y); c.Rune != '.' || c.Color != ColorGreen {
				t.Fatalf("After Fill, expected green '.' at (%d, %d), got %+v", x, y, c)
			}
		}
	}

	s.Clear()
	if s.Get(2, 2) != ' ' {
		t.Error("Clear should reset cells to spaces")
	}
}

func TestScreenDrawText(t *testing.T) {
	s := NewScreen(20, 5)
	s.DrawText(2, 1, "Hello", ColorYellow)

	for i, ch := range "Hello" {
		if s.Get(2+i, 1) != ch {
			t.Errorf("DrawText: expected %q at (%d, 1), got %q", ch, 2+i, s.Get(2+i, 1))
		}
	}

	// Text should be clipped at boundaries
	s.DrawText(18, 0, "Hello", ColorYellow)
	if s.Get(18, 0) != 'H' || s.Get(19, 0) != 'e' {
		t.Error("Text should be clipped at right boundary")
	}
}

func TestScreenDrawRect(t *testing.T) {
	s := NewScreen(10, 10)
	s.DrawRect(NewRect(2, 2, 3, 3), '#', ColorBrown)

	for y := 2; y < 5; y++ {
		for x := 2; x < 5; x++ {
			if s.Get(x, y) != '#' {
				t.Errorf("DrawRect: expected '#' at (%d, %d), got %q", x, y, s.Get(x, y))
			}
		}
	}
	if s.Get(1, 1) != ' ' || s.Get(5, 5) != ' ' {
		t.Error("DrawRect should not affect outside area")
	}
}

func TestScreenResize(t *testing.T) {
	s := NewScreen(4, 4)
	s.Resize(8, 3)

	if s.Width() != 8 || s.Height() != 3 {
		t.Errorf("Resize() = %dx%d, expected 8x3", s.Width(), s.Height())
	}
	lines := strings.Split(s.String(), "\n")
	if len(lines) != 3 || len(lines[0]) != 8 {
		t.Errorf("String() after resize has wrong shape: %q", s.String())
	}
}

func TestViewportRoundTrip(t *testing.T) {
	vp := NewViewport(600, 80, 24, 2)

	if vp.Rows != 22 || vp.Cols != 44 {
		t.Fatalf("NewViewport() = %+v, expected 44x22", vp)
	}

	cx, cy := vp.ToCell(V(300, 300))
	p := vp.ToCourse(cx, cy)
	back, backY := vp.ToCell(p)
	if back != cx || backY != cy {
		t.Errorf("ToCourse/ToCell round trip moved cell (%d,%d) -> (%d,%d)", cx, cy, back, backY)
	}
}
