package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/minigolf/internal/storage"
)

var scoresCmd = &cobra.Command{
	Use:   "scores <hole>",
	Short: "Show best rounds for a hole",
	Long: `Display the ten best holed rounds for a hole, fewest strokes first,
with a summary of every round played on it.

Examples:
  minigolf scores box
  minigolf scores practice`,
	Args: cobra.ExactArgs(1),
	Run:  runScores,
}

func runScores(_ *cobra.Command, args []string) {
	hole := args[0]

	store, err := storage.Open(flagDBPath)
	if err != nil {
		fail("opening database: %v", err)
	}
	defer store.Close()

	best, err := store.BestStrokes(hole, 10)
	if err != nil {
		fail("retrieving rounds: %v", err)
	}

	fmt.Printf("Best Rounds - %s\n", hole)
	fmt.Println()

	if len(best) == 0 {
		fmt.Println("Nobody has holed out here yet.")
		fmt.Println()
		fmt.Printf("Play 'minigolf play %s' to set the first score!\n", hole)
		return
	}

	fmt.Printf("  %-4s  %-7s  %-16s  %s\n", "Rank", "Strokes", "Player", "Date")
	fmt.Printf("  %-4s  %-7s  %-16s  %s\n", "----", "-------", "------", "----")
	for i, e := range best {
		fmt.Printf("  %-4d  %-7d  %-16s  %s\n", i+1, e.Strokes, e.Player, e.CreatedAt.Format("2006-01-02 15:04"))
	}

	stats, err := store.HoleStats(hole)
	if err != nil || stats == nil {
		return
	}
	fmt.Println()
	fmt.Printf("Rounds: %d  Holed: %d  Average: %.1f strokes  Last played: %s\n",
		stats.Rounds, stats.Holed, stats.AvgStrokes, stats.LastPlayed.Format("2006-01-02"))
}
