package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/minigolf/internal/course"
)

var holesCmd = &cobra.Command{
	Use:   "holes [dir]",
	Short: "List hole files",
	Long: `Shows the holes found in a directory (default: the configured hole
directory). Files that fail to parse or validate are skipped with a warning.`,
	Args: cobra.MaximumNArgs(1),
	Run:  runHoles,
}

func runHoles(_ *cobra.Command, args []string) {
	cfg := loadConfig()
	logger := newLogger()

	dir := holesDir(cfg)
	if len(args) == 1 {
		dir = args[0]
	}

	holes, err := course.NewLoader(dir, cfg.Physics).LoadAll()
	if err != nil {
		logger.Warn("some holes were skipped", "dir", dir, "error", err)
	}
	if len(holes) == 0 {
		fmt.Printf("No holes found in %s.\n", dir)
		return
	}

	maxName := 4 // "Name" header
	for _, h := range holes {
		if len(h.Name) > maxName {
			maxName = len(h.Name)
		}
	}

	fmt.Printf("Holes in %s:\n", dir)
	fmt.Println()
	fmt.Printf("  %-*s  %5s  %-12s  %-12s  %s\n", maxName, "Name", "Walls", "Tee", "Cup", "Fingerprint")
	fmt.Printf("  %-*s  %5s  %-12s  %-12s  %s\n", maxName, "----", "-----", "---", "---", "-----------")
	for _, h := range holes {
		tee, cup := h.Ball.Start(), h.CupPos()
		fmt.Printf("  %-*s  %5d  %-12s  %-12s  %016x\n", maxName, h.Name, len(h.Walls),
			fmt.Sprintf("(%g,%g)", tee.X, tee.Y), fmt.Sprintf("(%g,%g)", cup.X, cup.Y), h.Fingerprint())
	}
	fmt.Println()
	fmt.Println("Use 'minigolf play <name>' to play a hole.")
}
