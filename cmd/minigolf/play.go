package main

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/minigolf/internal/course"
	"github.com/vovakirdan/minigolf/internal/platform/tui"
	"github.com/vovakirdan/minigolf/internal/storage"
)

var playCmd = &cobra.Command{
	Use:   "play [hole]",
	Short: "Putt on a hole",
	Long: `Play a hole in the terminal. The hole is a file path, a hole name in
the hole directory, or "practice". Without an argument a hole menu opens.

Controls:
  Arrows/WASD   - Move the aim cursor (shift for fine steps)
  Mouse         - Aim; left click hits
  Space/Enter   - Hit toward the cursor (only while the ball rests)
  R             - Reset the ball to the tee
  Esc/B         - Back
  Q/Ctrl+C      - Quit

Examples:
  minigolf play
  minigolf play holes/box.hole
  minigolf play box --green fast`,
	Args: cobra.MaximumNArgs(1),
	Run:  runPlay,
}

func runPlay(_ *cobra.Command, args []string) {
	cfg := loadConfig()
	logger := newLogger()
	rc := runtimeConfig(cfg)

	var h *course.Hole
	if len(args) == 1 {
		var err error
		h, err = resolveHole(args[0], cfg)
		if err != nil {
			fail("%v", err)
		}
	} else {
		holes, err := course.NewLoader(holesDir(cfg), cfg.Physics).LoadAll()
		if err != nil {
			logger.Warn("could not load holes", "dir", holesDir(cfg), "error", err)
		}
		holes = append(holes, course.Default(cfg.Physics))

		h, rc, err = tui.RunMenu(holes, rc)
		if err != nil {
			fail("%v", err)
		}
		if h == nil {
			return
		}
	}

	store, err := storage.Open(flagDBPath)
	if err != nil {
		logger.Warn("could not open database, strokes will not be saved", "error", err)
		store = nil
	} else {
		defer store.Close()
	}

	opts := tui.PlayOptions{
		Config:     rc,
		CursorStep: cfg.Play.CursorStep,
		Player:     currentUser(),
		Store:      store,
	}
	if err := tui.RunPlay(h, opts); err != nil {
		fail("%v", err)
	}
}

func currentUser() string {
	if u := os.Getenv("USER"); u != "" {
		return u
	}
	return "local"
}
