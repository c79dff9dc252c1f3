// minigolf plays mini-golf holes in the terminal and maps how good every
// possible putt is.
//
// Usage:
//
//	minigolf play [hole]              - Putt on a hole (menu when omitted)
//	minigolf putt <hole> <x> <y>      - Simulate one putt and print where it stops
//	minigolf simulate <hole>          - Sweep every aim point and draw the heat map
//	minigolf history                  - Browse stored sweeps
//	minigolf scores <hole>            - Show best rounds for a hole
//	minigolf holes [dir]              - List hole files
//	minigolf convert <in> <out>       - Convert between .hole and .yaml
//	minigolf serve                    - Start SSH server for remote play
//
// Global flags:
//
//	--config <path>     - Config file (default: search path, then embedded)
//	--db <path>         - Database path (default: ~/.minigolf/minigolf.db)
//	--holes <dir>       - Hole directory (default: config play.holes_dir)
//	--green <preset>    - Green speed: slow, normal, fast, fixed
//	--log-level <lvl>   - debug, info, warn, error
package main

import (
	"fmt"
	"os"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/vovakirdan/minigolf/internal/config"
	"github.com/vovakirdan/minigolf/internal/core"
	"github.com/vovakirdan/minigolf/internal/course"
)

var (
	// Global flags
	flagConfig   string
	flagDBPath   string
	flagHolesDir string
	flagGreen    string
	flagLogLevel string
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "minigolf",
	Short: "Mini-golf in your terminal, with putt heat maps",
	Long: `minigolf simulates mini-golf holes: walls, a ball and a cup.

Play a hole yourself, or sweep a grid of putts across the whole green to
see which aim points drop and how far the misses finish.

Examples:
  minigolf play holes/box.hole
  minigolf putt box 300 250
  minigolf simulate box --step 5 --png box.png
  minigolf history
  minigolf serve --ssh :2222`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&flagConfig, "config", "", "Path to config YAML")
	rootCmd.PersistentFlags().StringVar(&flagDBPath, "db", "~/.minigolf/minigolf.db", "Path to database")
	rootCmd.PersistentFlags().StringVar(&flagHolesDir, "holes", "", "Directory of hole files (default from config)")
	rootCmd.PersistentFlags().StringVar(&flagGreen, "green", "", "Green speed preset: slow, normal, fast, fixed")
	rootCmd.PersistentFlags().StringVar(&flagLogLevel, "log-level", "info", "Log level: debug, info, warn, error")

	rootCmd.AddCommand(playCmd)
	rootCmd.AddCommand(puttCmd)
	rootCmd.AddCommand(simulateCmd)
	rootCmd.AddCommand(historyCmd)
	rootCmd.AddCommand(scoresCmd)
	rootCmd.AddCommand(holesCmd)
	rootCmd.AddCommand(convertCmd)
	rootCmd.AddCommand(serveCmd)
}

// fail prints an error and exits.
func fail(format string, args ...any) {
	fmt.Fprintf(os.Stderr, "Error: "+format+"\n", args...)
	os.Exit(1)
}

// newLogger returns the command logger at the --log-level level.
func newLogger() *log.Logger {
	logger := log.NewWithOptions(os.Stderr, log.Options{
		ReportTimestamp: true,
		Prefix:          "minigolf",
	})
	level, err := log.ParseLevel(flagLogLevel)
	if err != nil {
		logger.Warn("unknown log level, using info", "level", flagLogLevel)
		level = log.InfoLevel
	}
	logger.SetLevel(level)
	return logger
}

// loadConfig loads the config and applies the green preset.
func loadConfig() config.Config {
	cfg, err := config.Load(flagConfig)
	if err != nil {
		fail("%v", err)
	}
	green, err := config.ParseGreen(flagGreen)
	if err != nil {
		fail("%v", err)
	}
	config.ApplyGreen(&cfg, green)
	return cfg
}

// holesDir returns the hole directory from the flag or config.
func holesDir(cfg config.Config) string {
	if flagHolesDir != "" {
		return flagHolesDir
	}
	return cfg.Play.HolesDir
}

// resolveHole loads a hole by file path, by name in the hole directory, or
// the built-in practice hole.
func resolveHole(arg string, cfg config.Config) (*course.Hole, error) {
	if _, err := os.Stat(arg); err == nil {
		return course.LoadFile(arg, cfg.Physics)
	}
	if arg == "practice" {
		return course.Default(cfg.Physics), nil
	}
	h, err := course.NewLoader(holesDir(cfg), cfg.Physics).LoadByName(arg)
	if err != nil {
		return nil, fmt.Errorf("%w (looked for a file and in %s)", err, holesDir(cfg))
	}
	return h, nil
}

// runtimeConfig builds the play runtime config from the terminal size.
func runtimeConfig(cfg config.Config) core.RuntimeConfig {
	rc := core.DefaultConfig()
	if w, h, err := term.GetSize(int(os.Stdout.Fd())); err == nil {
		rc.ScreenW = w
		rc.ScreenH = h
	}
	rc.TickRate = cfg.Play.TickRate
	rc.SurfaceSize = cfg.Sweep.SurfaceSize
	return rc
}

// isTerminal reports whether stdout is interactive.
func isTerminal() bool {
	return term.IsTerminal(int(os.Stdout.Fd()))
}
