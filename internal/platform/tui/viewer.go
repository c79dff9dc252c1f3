package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/vovakirdan/minigolf/internal/core"
	"github.com/vovakirdan/minigolf/internal/course"
	"github.com/vovakirdan/minigolf/internal/heatmap"
	"github.com/vovakirdan/minigolf/internal/sim"
)

// ViewerModel shows a sweep result as a heat map with a crosshair readout.
type ViewerModel struct {
	result   *sim.Result
	hole     *course.Hole // optional, marks tee and cup
	ramp     heatmap.Ramp
	summary  heatmap.Summary
	cursorX  int
	cursorY  int
	screen   *core.Screen
	viewport core.Viewport
	keys     PlayKeyMap
	quitting bool
}

// NewViewerModel creates a viewer for res. h may be nil.
func NewViewerModel(res *sim.Result, h *course.Hole, ramp heatmap.Ramp, width, height int) ViewerModel {
	m := ViewerModel{
		result:  res,
		hole:    h,
		ramp:    ramp,
		summary: heatmap.Summarize(res),
		keys:    DefaultPlayKeyMap(),
	}
	m.resize(width, height)
	m.cursorX, m.cursorY = m.viewport.Cols/2, m.viewport.Rows/2
	return m
}

func (m *ViewerModel) resize(w, h int) {
	m.viewport = core.NewViewport(m.result.Grid.Size, w, h, hudRows+1)
	if m.screen == nil {
		m.screen = core.NewScreen(m.viewport.Cols, m.viewport.Rows)
	} else {
		m.screen.Resize(m.viewport.Cols, m.viewport.Rows)
	}
	m.cursorX = core.Clamp(m.cursorX, 0, m.viewport.Cols-1)
	m.cursorY = core.Clamp(m.cursorY, 0, m.viewport.Rows-1)
}

// Init initializes the viewer.
func (m ViewerModel) Init() tea.Cmd {
	return nil
}

// Update handles messages for the viewer.
func (m ViewerModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.keys.Quit), key.Matches(msg, m.keys.Back):
			m.quitting = true
			return m, tea.Quit
		case key.Matches(msg, m.keys.Up):
			m.cursorY--
		case key.Matches(msg, m.keys.Down):
			m.cursorY++
		case key.Matches(msg, m.keys.Left):
			m.cursorX--
		case key.Matches(msg, m.keys.Right):
			m.cursorX++
		}
		m.cursorX = core.Clamp(m.cursorX, 0, m.viewport.Cols-1)
		m.cursorY = core.Clamp(m.cursorY, 0, m.viewport.Rows-1)

	case tea.MouseMsg:
		if msg.X < m.viewport.Cols && msg.Y < m.viewport.Rows {
			m.cursorX, m.cursorY = msg.X, msg.Y
		}

	case tea.WindowSizeMsg:
		m.resize(msg.Width, msg.Height)
	}
	return m, nil
}

// Aim returns the course point under the crosshair and its distance.
func (m ViewerModel) Aim() (core.Vec2, float64) {
	p := m.viewport.ToCourse(m.cursorX, m.cursorY)
	return p, heatmap.DistanceAt(m.result, p)
}

// View renders the heat map.
func (m ViewerModel) View() string {
	if m.quitting {
		return ""
	}

	heatmap.Paint(m.screen, m.viewport, m.result, m.ramp)
	if m.hole != nil {
		x, y := m.viewport.ToCell(m.hole.Ball.Start())
		m.overlay(x, y, '●')
		x, y = m.viewport.ToCell(m.hole.Cup.Pos)
		m.overlay(x, y, 'O')
	}
	m.overlay(m.cursorX, m.cursorY, '+')

	aim, d := m.Aim()
	readout := fmt.Sprintf("aim (%.0f,%.0f)  distance %.1f", aim.X, aim.Y, d)
	if d == 0 {
		readout = fmt.Sprintf("aim (%.0f,%.0f)  made", aim.X, aim.Y)
	}

	var b strings.Builder
	b.WriteString(RenderScreen(m.screen))
	b.WriteString("\n")
	statusStyle := lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("229"))
	b.WriteString(statusStyle.Render(fmt.Sprintf("%s  |  %s  |  made %d/%d",
		m.result.Hole, readout, m.summary.Made, m.summary.Samples)))
	b.WriteString("\n")
	b.WriteString(heatmap.Legend(m.ramp, min(m.viewport.Cols, 40)))
	b.WriteString(lipgloss.NewStyle().Foreground(lipgloss.Color("241")).
		Render(fmt.Sprintf(" 0 .. %.0f", m.ramp.Farthest)))
	b.WriteString("\n")
	b.WriteString(lipgloss.NewStyle().Foreground(lipgloss.Color("241")).
		Render("arrows: move  |  q/esc: close"))
	return b.String()
}

// overlay draws r on top of the heat-map cell, keeping its colour.
func (m ViewerModel) overlay(x, y int, r rune) {
	c := m.screen.GetCell(x, y)
	m.screen.SetRGB(x, y, r, c.RGB)
}

// RunViewer opens the heat-map viewer.
func RunViewer(res *sim.Result, h *course.Hole, ramp heatmap.Ramp, width, height int) error {
	p := tea.NewProgram(
		NewViewerModel(res, h, ramp, width, height),
		tea.WithAltScreen(),
		tea.WithMouseCellMotion(),
	)
	_, err := p.Run()
	return err
}
