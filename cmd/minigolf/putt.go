package main

import (
	"errors"
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/minigolf/internal/core"
	"github.com/vovakirdan/minigolf/internal/sim"
)

var puttCmd = &cobra.Command{
	Use:   "putt <hole> <x> <y>",
	Short: "Simulate one putt aimed at a point",
	Long: `Hit the ball once toward (x, y) and report where it stops.

The aim point sets both direction and power: the farther it is from the
ball, the harder the hit.

Examples:
  minigolf putt practice 300 250
  minigolf putt holes/dogleg.yaml 480 120`,
	Args: cobra.ExactArgs(3),
	Run:  runPutt,
}

func runPutt(_ *cobra.Command, args []string) {
	cfg := loadConfig()

	h, err := resolveHole(args[0], cfg)
	if err != nil {
		fail("%v", err)
	}
	x, err := strconv.ParseFloat(args[1], 64)
	if err != nil {
		fail("invalid x %q", args[1])
	}
	y, err := strconv.ParseFloat(args[2], 64)
	if err != nil {
		fail("invalid y %q", args[2])
	}

	out, err := sim.PuttChecked(h, h.WallsCopy(), core.V(x, y), h.Params)
	if errors.Is(err, sim.ErrTickLimit) {
		fail("ball still rolling after %d ticks", out.Ticks)
	} else if err != nil {
		fail("%v", err)
	}

	fmt.Printf("Hole:     %s\n", h.Name)
	fmt.Printf("Aim:      (%g, %g)\n", x, y)
	fmt.Printf("Stopped:  (%.2f, %.2f) after %d ticks\n", out.Final.X, out.Final.Y, out.Ticks)
	if out.Holed {
		fmt.Println("Result:   in the hole!")
		return
	}
	fmt.Printf("Result:   %.2f from the cup\n", out.Distance)
}
