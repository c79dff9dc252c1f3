package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/minigolf/internal/course"
)

var convertCmd = &cobra.Command{
	Use:   "convert <in> <out>",
	Short: "Convert a hole between .hole and .yaml",
	Long: `Read a hole file and write it in the format given by the output
extension. The hole is validated before it is written.

Examples:
  minigolf convert holes/box.hole box.yaml
  minigolf convert dogleg.yaml holes/dogleg.hole`,
	Args: cobra.ExactArgs(2),
	Run:  runConvert,
}

func runConvert(_ *cobra.Command, args []string) {
	cfg := loadConfig()

	h, err := course.LoadFile(args[0], cfg.Physics)
	if err != nil {
		fail("%v", err)
	}
	if err := course.SaveFile(args[1], h); err != nil {
		fail("%v", err)
	}
	fmt.Printf("Wrote %s (%d walls) to %s\n", h.Name, len(h.Walls), args[1])
}
