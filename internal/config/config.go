// Package config provides YAML-based configuration loading and green-speed
// presets for minigolf.
package config

import (
	"fmt"

	"github.com/vovakirdan/minigolf/internal/heatmap"
	"github.com/vovakirdan/minigolf/internal/physics"
	"github.com/vovakirdan/minigolf/internal/sim"
)

// Config is the whole minigolf configuration.
type Config struct {
	Physics physics.Params `yaml:"physics"`
	Sweep   SweepConfig    `yaml:"sweep"`
	Heatmap heatmap.Ramp   `yaml:"heatmap"`
	Play    PlayConfig     `yaml:"play"`
}

// SweepConfig defines the aim grid and parallelism of a sweep.
type SweepConfig struct {
	SurfaceSize float64 `yaml:"surface_size"`
	Step        float64 `yaml:"step"`
	Workers     int     `yaml:"workers"` // 0 = one per 100 units
}

// Grid returns the sweep grid.
func (s SweepConfig) Grid() sim.Grid {
	return sim.Grid{Size: s.SurfaceSize, Step: s.Step}
}

// PlayConfig defines play mode settings.
type PlayConfig struct {
	TickRate   int     `yaml:"tick_rate"`
	CursorStep float64 `yaml:"cursor_step"` // course units per arrow key press
	HolesDir   string  `yaml:"holes_dir"`
}

// Validate checks every section.
func (c Config) Validate() error {
	if err := c.Physics.Validate(); err != nil {
		return err
	}
	if err := c.Sweep.Grid().Validate(); err != nil {
		return err
	}
	if c.Sweep.Workers < 0 {
		return fmt.Errorf("config: sweep workers %d must not be negative", c.Sweep.Workers)
	}
	if c.Heatmap.Farthest <= 0 {
		return fmt.Errorf("config: heatmap farthest_distance %v must be positive", c.Heatmap.Farthest)
	}
	if c.Play.TickRate <= 0 {
		return fmt.Errorf("config: play tick_rate %d must be positive", c.Play.TickRate)
	}
	return nil
}
