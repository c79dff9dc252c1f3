package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/minigolf/internal/heatmap"
	"github.com/vovakirdan/minigolf/internal/platform/tui"
	"github.com/vovakirdan/minigolf/internal/sim"
	"github.com/vovakirdan/minigolf/internal/storage"
)

var (
	flagStep    float64
	flagSize    float64
	flagWorkers int
	flagPNG     string
	flagText    string
	flagNoCache bool
	flagView    bool
)

var simulateCmd = &cobra.Command{
	Use:   "simulate <hole>",
	Short: "Sweep every aim point and draw the heat map",
	Long: `Fire one putt at every point of a grid laid over the green and record how
far from the cup each one stops. Holed putts count as distance 0.

The grid is cut into horizontal bands that run in parallel. Finished
sweeps are stored in the database; rerunning an unchanged hole with the
same grid reuses the stored result unless --no-cache is given.

Examples:
  minigolf simulate practice
  minigolf simulate box --step 5 --png box.png
  minigolf simulate dogleg --text dogleg.txt --view=false
  minigolf simulate box --green fast --workers 8`,
	Args: cobra.ExactArgs(1),
	Run:  runSimulate,
}

func init() {
	simulateCmd.Flags().Float64Var(&flagStep, "step", 0, "Grid spacing (default from config)")
	simulateCmd.Flags().Float64Var(&flagSize, "size", 0, "Surface size (default from config)")
	simulateCmd.Flags().IntVar(&flagWorkers, "workers", 0, "Parallel bands (0: one per 100 units of surface)")
	simulateCmd.Flags().StringVar(&flagPNG, "png", "", "Write the heat map as a PNG image")
	simulateCmd.Flags().StringVar(&flagText, "text", "", "Write samples as 'y x distance' lines")
	simulateCmd.Flags().BoolVar(&flagNoCache, "no-cache", false, "Always run a fresh sweep")
	simulateCmd.Flags().BoolVar(&flagView, "view", true, "Open the interactive viewer when attached to a terminal")
}

func runSimulate(_ *cobra.Command, args []string) {
	cfg := loadConfig()
	logger := newLogger()

	h, err := resolveHole(args[0], cfg)
	if err != nil {
		fail("%v", err)
	}

	grid := cfg.Sweep.Grid()
	if flagStep > 0 {
		grid.Step = flagStep
	}
	if flagSize > 0 {
		grid.Size = flagSize
	}
	workers := cfg.Sweep.Workers
	if flagWorkers > 0 {
		workers = flagWorkers
	}

	store, err := storage.Open(flagDBPath)
	if err != nil {
		logger.Warn("could not open database, sweep will not be saved", "error", err)
		store = nil
	} else {
		defer store.Close()
	}

	var res *sim.Result
	if store != nil && !flagNoCache {
		res, err = store.LatestSweep(h.Fingerprint(), grid)
		if err != nil {
			logger.Warn("cache lookup failed", "error", err)
		}
		if res != nil {
			logger.Info("using stored sweep", "id", res.ID, "created", res.CreatedAt.Format("2006-01-02 15:04"))
		}
	}

	if res == nil {
		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
		defer stop()

		res, err = sim.Sweep(ctx, h, sim.SweepOptions{
			Grid:    grid,
			Workers: workers,
			Logger:  logger,
		})
		if err != nil {
			var se *sim.SweepError
			if errors.As(err, &se) {
				for _, be := range se.Failed {
					fmt.Fprintf(os.Stderr, "  %v\n", be)
				}
			}
			fail("%v", err)
		}
		if store != nil {
			if err := store.SaveSweep(res); err != nil {
				logger.Warn("could not save sweep", "error", err)
			}
		}
	}

	if flagPNG != "" {
		if err := writeFile(flagPNG, func(f *os.File) error { return heatmap.WritePNG(f, res, cfg.Heatmap) }); err != nil {
			fail("%v", err)
		}
		logger.Info("wrote image", "path", flagPNG)
	}
	if flagText != "" {
		if err := writeFile(flagText, func(f *os.File) error { return heatmap.WriteText(f, res) }); err != nil {
			fail("%v", err)
		}
		logger.Info("wrote samples", "path", flagText)
	}

	if flagView && isTerminal() {
		rc := runtimeConfig(cfg)
		if err := tui.RunViewer(res, h, cfg.Heatmap, rc.ScreenW, rc.ScreenH); err != nil {
			fail("%v", err)
		}
		return
	}

	cols := 60
	if rc := runtimeConfig(cfg); rc.ScreenW < cols {
		cols = rc.ScreenW
	}
	fmt.Println(heatmap.Render(res, cols, cols/2, cfg.Heatmap))
	fmt.Println(heatmap.Legend(cfg.Heatmap, cols))
	fmt.Printf("%s: %s\n", h.Name, heatmap.Summarize(res))
}

// writeFile creates path and hands it to write, closing it afterwards.
func writeFile(path string, write func(*os.File) error) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := write(f); err != nil {
		f.Close()
		return fmt.Errorf("write %s: %w", path, err)
	}
	return f.Close()
}
