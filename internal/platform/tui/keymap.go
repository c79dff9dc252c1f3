package tui

import "github.com/charmbracelet/bubbles/key"

// PlayKeyMap defines the key bindings for play mode and the heat-map viewer.
type PlayKeyMap struct {
	Up    key.Binding
	Down  key.Binding
	Left  key.Binding
	Right key.Binding
	Fine  key.Binding
	Hit   key.Binding
	Reset key.Binding
	Back  key.Binding
	Quit  key.Binding
}

// ShortHelp returns key bindings for the short help view.
func (k PlayKeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Up, k.Hit, k.Reset, k.Back, k.Quit}
}

// FullHelp returns key bindings for the full help view.
func (k PlayKeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Up, k.Down, k.Left, k.Right, k.Fine},
		{k.Hit, k.Reset, k.Back, k.Quit},
	}
}

// DefaultPlayKeyMap returns default key bindings.
func DefaultPlayKeyMap() PlayKeyMap {
	return PlayKeyMap{
		Up: key.NewBinding(
			key.WithKeys("up", "k", "w"),
			key.WithHelp("arrows", "aim"),
		),
		Down: key.NewBinding(
			key.WithKeys("down", "j", "s"),
			key.WithHelp("down", "aim down"),
		),
		Left: key.NewBinding(
			key.WithKeys("left", "h", "a"),
			key.WithHelp("left", "aim left"),
		),
		Right: key.NewBinding(
			key.WithKeys("right", "l", "d"),
			key.WithHelp("right", "aim right"),
		),
		Fine: key.NewBinding(
			key.WithKeys("shift+up", "shift+down", "shift+left", "shift+right"),
			key.WithHelp("shift+arrows", "fine aim"),
		),
		Hit: key.NewBinding(
			key.WithKeys(" ", "enter"),
			key.WithHelp("space", "hit"),
		),
		Reset: key.NewBinding(
			key.WithKeys("r"),
			key.WithHelp("r", "reset"),
		),
		Back: key.NewBinding(
			key.WithKeys("esc", "b"),
			key.WithHelp("esc", "back"),
		),
		Quit: key.NewBinding(
			key.WithKeys("q", "ctrl+c"),
			key.WithHelp("q", "quit"),
		),
	}
}

// aimDelta returns the cursor movement for an aim key, in course units.
func (k PlayKeyMap) aimDelta(msg string, step float64) (dx, dy float64, ok bool) {
	fine := step / 5
	switch msg {
	case "shift+up":
		return 0, -fine, true
	case "shift+down":
		return 0, fine, true
	case "shift+left":
		return -fine, 0, true
	case "shift+right":
		return fine, 0, true
	}
	switch {
	case key.Matches(keyString(msg), k.Up):
		return 0, -step, true
	case key.Matches(keyString(msg), k.Down):
		return 0, step, true
	case key.Matches(keyString(msg), k.Left):
		return -step, 0, true
	case key.Matches(keyString(msg), k.Right):
		return step, 0, true
	}
	return 0, 0, false
}

// keyString adapts a plain key name to key.Matches.
type keyString string

func (k keyString) String() string { return string(k) }
