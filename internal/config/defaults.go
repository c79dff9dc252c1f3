package config

import (
	_ "embed"

	"github.com/vovakirdan/minigolf/internal/heatmap"
	"github.com/vovakirdan/minigolf/internal/physics"
)

//go:embed defaults/config.yaml
var defaultYAML []byte

// Default returns the hard-coded configuration. It matches the embedded
// defaults/config.yaml.
func Default() Config {
	return Config{
		Physics: physics.DefaultParams(),
		Sweep: SweepConfig{
			SurfaceSize: 600,
			Step:        10,
			Workers:     0,
		},
		Heatmap: heatmap.DefaultRamp(),
		Play: PlayConfig{
			TickRate:   60,
			CursorStep: 5,
			HolesDir:   "holes",
		},
	}
}

// DefaultYAML returns the embedded default configuration file.
func DefaultYAML() []byte {
	return defaultYAML
}
