// Package formats provides hole file parsers and writers. Parsers produce a
// Layout of plain points so they stay independent of physics tuning.
package formats

import (
	"fmt"
	"strconv"

	"github.com/vovakirdan/minigolf/internal/core"
)

// Segment is a wall as authored: anchor and opposite point.
type Segment struct {
	A, B core.Vec2
}

// Layout is a parsed hole file. HasBall and HasCup are false when the file
// never declared them, which later validation reports by field name.
type Layout struct {
	Name    string
	Ball    core.Vec2
	Cup     core.Vec2
	HasBall bool
	HasCup  bool
	Walls   []Segment
}

// ParseError reports a malformed line of a hole file.
type ParseError struct {
	Line int
	Msg  string
}

func (e *ParseError) Error() string {
	if e.Line > 0 {
		return fmt.Sprintf("line %d: %s", e.Line, e.Msg)
	}
	return e.Msg
}

// FormatExtensions returns supported file extensions.
func FormatExtensions() []string {
	return []string{".hole", ".yaml", ".yml"}
}

// Parse routes data to the parser for the given extension.
func Parse(data []byte, ext string) (Layout, error) {
	switch ext {
	case ".hole":
		return ParseText(data)
	case ".yaml", ".yml":
		return ParseYAML(data)
	default:
		return Layout{}, fmt.Errorf("unsupported extension: %s", ext)
	}
}

// Encode routes a layout to the writer for the given extension.
func Encode(l Layout, ext string) ([]byte, error) {
	switch ext {
	case ".hole":
		return EncodeText(l), nil
	case ".yaml", ".yml":
		return EncodeYAML(l)
	default:
		return nil, fmt.Errorf("unsupported extension: %s", ext)
	}
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'g', -1, 64)
}
