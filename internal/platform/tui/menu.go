package tui

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/vovakirdan/minigolf/internal/core"
	"github.com/vovakirdan/minigolf/internal/course"
)

// MenuModel is the Bubble Tea model for the hole picker.
type MenuModel struct {
	holes    []*course.Hole
	cursor   int
	width    int
	height   int
	config   core.RuntimeConfig
	quitting bool
	selected *course.Hole

	// duels enables the duel keys; set for SSH sessions.
	duels    bool
	hostDuel *course.Hole
	joinDuel bool
}

// NewMenuModel creates a new menu model.
func NewMenuModel(holes []*course.Hole, cfg core.RuntimeConfig) MenuModel {
	return MenuModel{
		holes:  holes,
		width:  cfg.ScreenW,
		height: cfg.ScreenH,
		config: cfg,
	}
}

// Init initializes the menu model.
func (m MenuModel) Init() tea.Cmd {
	return nil
}

// Update handles messages for the menu.
func (m MenuModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.config.ScreenW = msg.Width
		m.config.ScreenH = msg.Height
		return m, nil
	}

	return m, nil
}

// handleKey processes keyboard input for menu navigation.
func (m MenuModel) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+c", "q":
		m.quitting = true
		return m, tea.Quit

	case "w", "up", "k":
		if m.cursor > 0 {
			m.cursor--
		}

	case "s", "down", "j":
		if m.cursor < len(m.holes)-1 {
			m.cursor++
		}

	case "enter", " ":
		if len(m.holes) > 0 {
			m.selected = m.holes[m.cursor]
			return m, tea.Quit
		}

	case "d":
		if m.duels && len(m.holes) > 0 {
			m.hostDuel = m.holes[m.cursor]
		}

	case "c":
		if m.duels {
			m.joinDuel = true
		}
	}

	return m, nil
}

// View renders the menu.
func (m MenuModel) View() string {
	if m.quitting {
		return ""
	}

	var b strings.Builder

	b.WriteString("\n")
	b.WriteString(centerText("  M I N I G O L F  ", m.width))
	b.WriteString("\n\n")

	if len(m.holes) == 0 {
		b.WriteString(centerText("No holes found.", m.width))
		b.WriteString("\n")
	} else {
		b.WriteString(centerText("Select a hole", m.width))
		b.WriteString("\n\n")
	}

	for i, h := range m.holes {
		cursor := "  "
		if i == m.cursor {
			cursor = "> "
		}
		line := fmt.Sprintf("%s%-16s %2d walls", cursor, h.Name, len(h.Walls))
		b.WriteString(centerText(line, m.width))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(centerText("Up/Down: Navigate  |  Enter: Play  |  Q: Quit", m.width))
	b.WriteString("\n")
	if m.duels {
		b.WriteString(centerText("D: Host a duel on this hole  |  C: Join a duel", m.width))
		b.WriteString("\n")
	}

	return b.String()
}

// Selected returns the chosen hole, or nil if none selected.
func (m MenuModel) Selected() *course.Hole {
	return m.selected
}

// HostDuel returns the hole to host a duel on, or nil.
func (m MenuModel) HostDuel() *course.Hole {
	return m.hostDuel
}

// JoinDuel reports whether the user asked to join a duel.
func (m MenuModel) JoinDuel() bool {
	return m.joinDuel
}

// IsQuitting returns true if user requested to quit.
func (m MenuModel) IsQuitting() bool {
	return m.quitting
}

// Config returns the current runtime config (may have been updated by resize).
func (m MenuModel) Config() core.RuntimeConfig {
	return m.config
}

// RunMenu runs the hole picker and returns the chosen hole, or nil on quit.
func RunMenu(holes []*course.Hole, cfg core.RuntimeConfig) (*course.Hole, core.RuntimeConfig, error) {
	p := tea.NewProgram(
		NewMenuModel(holes, cfg),
		tea.WithAltScreen(),
	)

	finalModel, err := p.Run()
	if err != nil {
		return nil, cfg, err
	}

	m, ok := finalModel.(MenuModel)
	if !ok {
		return nil, cfg, nil
	}
	return m.Selected(), m.Config(), nil
}
