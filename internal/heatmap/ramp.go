// Package heatmap turns sweep results into pictures: a hue ramp over final
// distance, terminal rendering, PNG export and a plain text dump.
package heatmap

import (
	"math"

	"github.com/lucasb-eyer/go-colorful"
)

// Ramp maps a final distance to a colour. Distance 0 (a made putt) is white;
// otherwise hue grows with distance up to MaxHue at Farthest and beyond.
type Ramp struct {
	Farthest   float64 `yaml:"farthest_distance"`
	MaxHue     float64 `yaml:"max_hue"`
	Saturation float64 `yaml:"saturation"`
	Lightness  float64 `yaml:"lightness"`
}

// DefaultRamp returns the red-to-magenta ramp over a 600 unit surface.
func DefaultRamp() Ramp {
	return Ramp{
		Farthest:   600,
		MaxHue:     300,
		Saturation: 1.0,
		Lightness:  0.5,
	}
}

var white = colorful.Color{R: 1, G: 1, B: 1}

// Hue returns the hue in degrees for a distance.
func (r Ramp) Hue(d float64) float64 {
	if r.Farthest <= 0 {
		return r.MaxHue
	}
	return math.Min(d/r.Farthest*r.MaxHue, r.MaxHue)
}

// Color returns the colour for a distance.
func (r Ramp) Color(d float64) colorful.Color {
	if d == 0 {
		return white
	}
	return colorful.Hsl(r.Hue(d), r.Saturation, r.Lightness).Clamped()
}

// Hex returns the colour for a distance as #rrggbb.
func (r Ramp) Hex(d float64) string {
	return r.Color(d).Hex()
}
