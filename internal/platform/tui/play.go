package tui

import (
	"fmt"
	"math"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/vovakirdan/minigolf/internal/core"
	"github.com/vovakirdan/minigolf/internal/course"
	"github.com/vovakirdan/minigolf/internal/physics"
	"github.com/vovakirdan/minigolf/internal/storage"
)

// hudRows is the number of screen rows below the course.
const hudRows = 2

// PlayOptions configures a play session.
type PlayOptions struct {
	Config     core.RuntimeConfig
	CursorStep float64 // course units per aim key press
	Player     string  // recorded with strokes
	Store      *storage.Store
}

// PlayModel is the Bubble Tea model for putting on a single hole.
type PlayModel struct {
	hole       *course.Hole
	walls      []physics.Wall
	ball       *physics.Ball
	cursor     core.Vec2
	strokes    int
	holed      bool
	saved      bool
	message    string
	opts       PlayOptions
	screen     *core.Screen
	viewport   core.Viewport
	keys       PlayKeyMap
	help       help.Model
	quitting   bool
	backToMenu bool
}

// NewPlayModel creates a play model for the given hole.
func NewPlayModel(h *course.Hole, opts PlayOptions) PlayModel {
	if opts.CursorStep <= 0 {
		opts.CursorStep = 5
	}
	if opts.Config.SurfaceSize <= 0 {
		opts.Config.SurfaceSize = core.DefaultConfig().SurfaceSize
	}

	m := PlayModel{
		hole:   h,
		walls:  h.WallsCopy(),
		ball:   h.NewBall(),
		cursor: h.Cup.Pos,
		opts:   opts,
		keys:   DefaultPlayKeyMap(),
		help:   help.New(),
	}
	m.resize(opts.Config.ScreenW, opts.Config.ScreenH)
	return m
}

func (m *PlayModel) resize(w, h int) {
	m.opts.Config.ScreenW = w
	m.opts.Config.ScreenH = h
	m.viewport = core.NewViewport(m.opts.Config.SurfaceSize, w, h, hudRows)
	if m.screen == nil {
		m.screen = core.NewScreen(m.viewport.Cols, m.viewport.Rows)
	} else {
		m.screen.Resize(m.viewport.Cols, m.viewport.Rows)
	}
	m.help.Width = w
}

// Init starts the tick loop.
func (m PlayModel) Init() tea.Cmd {
	return tickCmd(m.opts.Config.TickRate)
}

// Update handles messages and updates the model state.
func (m PlayModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.MouseMsg:
		return m.handleMouse(msg)

	case tea.WindowSizeMsg:
		m.resize(msg.Width, msg.Height)
		return m, nil

	case TickMsg:
		m.step()
		return m, tickCmd(m.opts.Config.TickRate)
	}

	return m, nil
}

// handleKey processes keyboard input.
func (m PlayModel) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		m.record()
		m.quitting = true
		return m, tea.Quit

	case key.Matches(msg, m.keys.Back):
		m.record()
		m.backToMenu = true
		return m, nil

	case key.Matches(msg, m.keys.Hit):
		m.hit()
		return m, nil

	case key.Matches(msg, m.keys.Reset):
		m.reset()
		return m, nil
	}

	if dx, dy, ok := m.keys.aimDelta(msg.String(), m.opts.CursorStep); ok {
		m.moveCursor(m.cursor.Add(core.V(dx, dy)))
	}
	return m, nil
}

// handleMouse aims with motion and hits with a left click.
func (m PlayModel) handleMouse(msg tea.MouseMsg) (tea.Model, tea.Cmd) {
	if msg.X >= m.viewport.Cols || msg.Y >= m.viewport.Rows {
		return m, nil
	}
	m.moveCursor(m.viewport.ToCourse(msg.X, msg.Y))
	if msg.Action == tea.MouseActionPress && msg.Button == tea.MouseButtonLeft {
		m.hit()
	}
	return m, nil
}

func (m *PlayModel) moveCursor(p core.Vec2) {
	size := m.opts.Config.SurfaceSize
	m.cursor = core.V(core.ClampF(p.X, 0, size), core.ClampF(p.Y, 0, size))
}

// hit strikes the ball toward the cursor. Only a resting ball can be hit.
func (m *PlayModel) hit() {
	if m.ball.IsMoving() || m.holed {
		return
	}
	m.ball.Hit(m.cursor.X, m.cursor.Y)
	if !m.ball.IsMoving() {
		return
	}
	m.strokes++
	m.message = ""
}

// reset puts the ball back on the tee. An unfinished round is recorded.
func (m *PlayModel) reset() {
	m.record()
	m.ball.Reset()
	m.strokes = 0
	m.holed = false
	m.saved = false
	m.message = ""
}

// step advances the ball by one tick and checks for the cup.
func (m *PlayModel) step() {
	if !m.ball.IsMoving() {
		return
	}
	m.ball.Step(m.walls)
	if m.ball.InCup(m.hole.Cup) {
		m.ball.Stop()
		m.ball.Pos = m.hole.Cup.Pos
		m.holed = true
		m.message = "It's in the hole!"
		m.record()
	}
}

// record saves the round once. Attempts without a stroke are not saved.
func (m *PlayModel) record() {
	if m.saved || m.strokes == 0 || m.opts.Store == nil {
		return
	}
	//nolint:errcheck // Best-effort save, play continues regardless
	m.opts.Store.SaveStrokes(storage.StrokeEntry{
		HoleName: m.hole.Name,
		Player:   m.opts.Player,
		Strokes:  m.strokes,
		Holed:    m.holed,
	})
	m.saved = true
}

// draw renders the course into the screen buffer.
func (m PlayModel) draw() {
	m.screen.Fill('·', core.ColorGreen)
	drawWalls(m.screen, m.viewport, m.walls)

	cx, cy := m.viewport.ToCell(m.hole.Cup.Pos)
	m.screen.Set(cx, cy, 'O', core.ColorBlack)

	if !m.ball.IsMoving() && !m.holed {
		drawAimLine(m.screen, m.viewport, m.ball.Pos, m.cursor)
		ax, ay := m.viewport.ToCell(m.cursor)
		m.screen.Set(ax, ay, '+', core.ColorYellow)
	}

	bx, by := m.viewport.ToCell(m.ball.Pos)
	m.screen.Set(bx, by, '●', core.ColorWhite)
}

// drawWalls marks every cell a wall passes through.
func drawWalls(scr *core.Screen, vp core.Viewport, walls []physics.Wall) {
	for _, w := range walls {
		length := w.A.Dist(w.B)
		steps := max(1, int(math.Ceil(length/(vp.Size/float64(2*vp.Cols)))))
		for i := 0; i <= steps; i++ {
			p := w.A.Add(w.B.Sub(w.A).Scale(float64(i) / float64(steps)))
			x, y := vp.ToCell(p)
			scr.Set(x, y, '█', core.ColorBrown)
		}
	}
}

// drawAimLine dots the path from the ball toward the cursor.
func drawAimLine(scr *core.Screen, vp core.Viewport, from, to core.Vec2) {
	const dots = 8
	for i := 1; i < dots; i++ {
		p := from.Add(to.Sub(from).Scale(float64(i) / dots))
		x, y := vp.ToCell(p)
		scr.Set(x, y, '.', core.ColorGray)
	}
}

// status returns the HUD line.
func (m PlayModel) status() string {
	power := m.cursor.Sub(m.ball.Pos).Len() * m.ball.Params().ContactDampener
	parts := []string{
		m.hole.Name,
		fmt.Sprintf("strokes %d", m.strokes),
		fmt.Sprintf("aim (%.0f,%.0f) power %.1f", m.cursor.X, m.cursor.Y, power),
	}
	if m.message != "" {
		parts = append(parts, m.message)
	}
	return strings.Join(parts, "  |  ")
}

// View renders the current state to a string for display.
func (m PlayModel) View() string {
	if m.quitting {
		return ""
	}

	m.draw()

	var b strings.Builder
	b.WriteString(RenderScreen(m.screen))
	b.WriteString("\n")
	statusStyle := lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("229"))
	b.WriteString(statusStyle.Render(m.status()))
	b.WriteString("\n")
	helpStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
	b.WriteString(helpStyle.Render(m.help.View(m.keys)))
	return b.String()
}

// Strokes returns the strokes played on the current attempt.
func (m PlayModel) Strokes() int {
	return m.strokes
}

// Holed reports whether the ball has dropped.
func (m PlayModel) Holed() bool {
	return m.holed
}

// IsQuitting returns true if user requested to quit entirely.
func (m PlayModel) IsQuitting() bool {
	return m.quitting
}

// BackToMenu returns true if user requested to go back to the hole menu.
func (m PlayModel) BackToMenu() bool {
	return m.backToMenu
}

// RunPlay starts the Bubble Tea program for one hole.
func RunPlay(h *course.Hole, opts PlayOptions) error {
	p := tea.NewProgram(
		NewPlayModel(h, opts),
		tea.WithAltScreen(),
		tea.WithMouseCellMotion(),
	)

	_, err := p.Run()
	return err
}
