package config

import "fmt"

// GreenSpeed is a named friction preset.
type GreenSpeed string

const (
	GreenSlow   GreenSpeed = "slow"
	GreenNormal GreenSpeed = "normal"
	GreenFast   GreenSpeed = "fast"
	GreenFixed  GreenSpeed = "fixed" // keep the configured friction
)

// ParseGreen validates a preset name. Empty means fixed.
func ParseGreen(s string) (GreenSpeed, error) {
	switch g := GreenSpeed(s); g {
	case GreenSlow, GreenNormal, GreenFast, GreenFixed:
		return g, nil
	case "":
		return GreenFixed, nil
	default:
		return "", fmt.Errorf("config: unknown green speed %q (slow, normal, fast, fixed)", s)
	}
}

// FrictionForGreen returns the per-tick friction of a preset, and false for
// the fixed preset.
func FrictionForGreen(g GreenSpeed) (float64, bool) {
	switch g {
	case GreenSlow:
		return 0.92, true
	case GreenNormal:
		return 0.95, true
	case GreenFast:
		return 0.97, true
	default:
		return 0, false
	}
}

// ApplyGreen modifies the config based on a green-speed preset.
func ApplyGreen(cfg *Config, g GreenSpeed) {
	if f, ok := FrictionForGreen(g); ok {
		cfg.Physics.Friction = f
	}
}
