package formats

import (
	"bufio"
	"bytes"
	"fmt"
	"strconv"
	"strings"

	"github.com/vovakirdan/minigolf/internal/core"
)

// ParseText parses the plain-text hole format:
//
//	ball x y
//	cup x y
//	wall x1 y1 x2 y2
//
// Blank lines are ignored. A later ball or cup line replaces an earlier one.
func ParseText(data []byte) (Layout, error) {
	var l Layout
	sc := bufio.NewScanner(bytes.NewReader(data))
	lineNo := 0

	for sc.Scan() {
		lineNo++
		fields := strings.Fields(sc.Text())
		if len(fields) == 0 {
			continue
		}

		switch fields[0] {
		case "ball", "cup":
			if len(fields) != 3 {
				return Layout{}, &ParseError{Line: lineNo, Msg: fmt.Sprintf("expected '%s x y'", fields[0])}
			}
			nums, err := parseNums(fields[1:], fields[0], []string{"x", "y"}, lineNo)
			if err != nil {
				return Layout{}, err
			}
			if fields[0] == "ball" {
				l.Ball, l.HasBall = core.V(nums[0], nums[1]), true
			} else {
				l.Cup, l.HasCup = core.V(nums[0], nums[1]), true
			}
		case "wall":
			if len(fields) != 5 {
				return Layout{}, &ParseError{Line: lineNo, Msg: "expected 'wall x1 y1 x2 y2'"}
			}
			nums, err := parseNums(fields[1:], "wall", []string{"x1", "y1", "x2", "y2"}, lineNo)
			if err != nil {
				return Layout{}, err
			}
			l.Walls = append(l.Walls, Segment{A: core.V(nums[0], nums[1]), B: core.V(nums[2], nums[3])})
		case "name":
			l.Name = strings.TrimSpace(strings.TrimPrefix(strings.TrimSpace(sc.Text()), "name"))
		default:
			return Layout{}, &ParseError{Line: lineNo, Msg: fmt.Sprintf("unknown directive %q", fields[0])}
		}
	}
	if err := sc.Err(); err != nil {
		return Layout{}, fmt.Errorf("reading hole: %w", err)
	}

	return l, nil
}

func parseNums(fields []string, what string, names []string, lineNo int) ([]float64, error) {
	out := make([]float64, len(fields))
	for i, f := range fields {
		v, err := strconv.ParseFloat(f, 64)
		if err != nil {
			return nil, &ParseError{Line: lineNo, Msg: fmt.Sprintf("unable to parse %s of %s: %q", names[i], what, f)}
		}
		out[i] = v
	}
	return out, nil
}

// EncodeText writes a layout in the plain-text hole format: optional name,
// ball, cup, then walls in order. Undeclared ball or cup lines are omitted.
func EncodeText(l Layout) []byte {
	var buf bytes.Buffer
	if l.Name != "" {
		fmt.Fprintf(&buf, "name %s\n", l.Name)
	}
	if l.HasBall {
		fmt.Fprintf(&buf, "ball %s %s\n", formatFloat(l.Ball.X), formatFloat(l.Ball.Y))
	}
	if l.HasCup {
		fmt.Fprintf(&buf, "cup %s %s\n", formatFloat(l.Cup.X), formatFloat(l.Cup.Y))
	}
	for _, w := range l.Walls {
		fmt.Fprintf(&buf, "wall %s %s %s %s\n",
			formatFloat(w.A.X), formatFloat(w.A.Y), formatFloat(w.B.X), formatFloat(w.B.Y))
	}
	return buf.Bytes()
}
