package formats

import (
	"fmt"

	"gopkg.in/yaml.v3"

	"github.com/vovakirdan/minigolf/internal/core"
)

// YAMLHole represents the YAML structure for a hole file.
type YAMLHole struct {
	Name  string     `yaml:"name,omitempty"`
	Ball  *core.Vec2 `yaml:"ball,omitempty"`
	Cup   *core.Vec2 `yaml:"cup,omitempty"`
	Walls []YAMLWall `yaml:"walls,omitempty"`
}

// YAMLWall is one wall segment in YAML form.
type YAMLWall struct {
	X1 float64 `yaml:"x1"`
	Y1 float64 `yaml:"y1"`
	X2 float64 `yaml:"x2"`
	Y2 float64 `yaml:"y2"`
}

// ParseYAML parses a YAML hole file.
func ParseYAML(data []byte) (Layout, error) {
	var yh YAMLHole
	if err := yaml.Unmarshal(data, &yh); err != nil {
		return Layout{}, fmt.Errorf("yaml unmarshal: %w", err)
	}

	l := Layout{Name: yh.Name}
	if yh.Ball != nil {
		l.Ball, l.HasBall = *yh.Ball, true
	}
	if yh.Cup != nil {
		l.Cup, l.HasCup = *yh.Cup, true
	}
	for _, w := range yh.Walls {
		l.Walls = append(l.Walls, Segment{A: core.V(w.X1, w.Y1), B: core.V(w.X2, w.Y2)})
	}
	return l, nil
}

// EncodeYAML writes a layout as YAML.
func EncodeYAML(l Layout) ([]byte, error) {
	yh := YAMLHole{Name: l.Name}
	if l.HasBall {
		ball := l.Ball
		yh.Ball = &ball
	}
	if l.HasCup {
		cup := l.Cup
		yh.Cup = &cup
	}
	for _, w := range l.Walls {
		yh.Walls = append(yh.Walls, YAMLWall{X1: w.A.X, Y1: w.A.Y, X2: w.B.X, Y2: w.B.Y})
	}

	data, err := yaml.Marshal(&yh)
	if err != nil {
		return nil, fmt.Errorf("yaml marshal: %w", err)
	}
	return data, nil
}
