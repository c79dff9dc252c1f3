package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/minigolf/internal/config"
	"github.com/vovakirdan/minigolf/internal/course"
	"github.com/vovakirdan/minigolf/internal/platform/tui"
	"github.com/vovakirdan/minigolf/internal/storage"
)

var (
	flagLimit int
	flagPlain bool
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Browse stored sweeps",
	Long: `List the most recent sweeps. In a terminal the list is interactive:
press enter on a row to open its heat map.

Examples:
  minigolf history
  minigolf history --limit 5 --plain`,
	Args: cobra.NoArgs,
	Run:  runHistory,
}

func init() {
	historyCmd.Flags().IntVar(&flagLimit, "limit", 50, "Number of sweeps to show")
	historyCmd.Flags().BoolVar(&flagPlain, "plain", false, "Print a plain table instead of the browser")
}

func runHistory(_ *cobra.Command, _ []string) {
	cfg := loadConfig()

	store, err := storage.Open(flagDBPath)
	if err != nil {
		fail("opening database: %v", err)
	}
	defer store.Close()

	sweeps, err := store.RecentSweeps(flagLimit)
	if err != nil {
		fail("retrieving sweeps: %v", err)
	}

	if len(sweeps) == 0 {
		fmt.Println("No sweeps recorded yet.")
		fmt.Println()
		fmt.Println("Run 'minigolf simulate <hole>' to make one.")
		return
	}

	if flagPlain || !isTerminal() {
		fmt.Printf("  %-8s  %-16s  %6s  %6s  %6s  %8s  %s\n", "ID", "Hole", "Step", "Putts", "Made", "Time", "Date")
		fmt.Printf("  %-8s  %-16s  %6s  %6s  %6s  %8s  %s\n", "--", "----", "----", "-----", "----", "----", "----")
		for _, row := range tui.HistoryRows(sweeps) {
			fmt.Printf("  %-8s  %-16s  %6s  %6s  %6s  %8s  %s\n", row[0], row[1], row[2], row[3], row[4], row[5], row[6])
		}
		return
	}

	rc := runtimeConfig(cfg)
	id, err := tui.RunHistory(store, sweeps, rc.ScreenW, rc.ScreenH)
	if err != nil {
		fail("%v", err)
	}
	if id == "" {
		return
	}

	res, err := store.SweepByID(id)
	if err != nil {
		fail("loading sweep: %v", err)
	}
	if res == nil {
		fail("sweep %s not found", id)
	}

	// Stored sweeps keep the samples but not the layout; find the hole by
	// fingerprint so the viewer can draw tee and cup.
	h := findHole(cfg, res.Fingerprint, res.Hole)
	if err := tui.RunViewer(res, h, cfg.Heatmap, rc.ScreenW, rc.ScreenH); err != nil {
		fail("%v", err)
	}
}

// findHole returns the hole with the given fingerprint from the hole
// directory, falling back to a hole of the same name, or nil.
func findHole(cfg config.Config, fp uint64, name string) *course.Hole {
	holes, _ := course.NewLoader(holesDir(cfg), cfg.Physics).LoadAll()
	holes = append(holes, course.Default(cfg.Physics))
	var byName *course.Hole
	for _, h := range holes {
		if h.Fingerprint() == fp {
			return h
		}
		if h.Name == name {
			byName = h
		}
	}
	return byName
}
