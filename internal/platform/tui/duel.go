package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/vovakirdan/minigolf/internal/core"
	"github.com/vovakirdan/minigolf/internal/course"
	"github.com/vovakirdan/minigolf/internal/multiplayer"
	"github.com/vovakirdan/minigolf/internal/physics"
)

// DuelPhase is where a session is in the duel flow.
type DuelPhase int

const (
	DuelHosting   DuelPhase = iota // lobby open, waiting for a guest
	DuelEnterCode                  // typing a join code
	DuelJoining                    // join sent, waiting for the duel
	DuelPlaying                    // duel running
	DuelOver                       // result shown
)

const joinCodeLen = 6

// DuelModel plays one head-to-head hole through a Coordinator. The duel's
// ball state is authoritative; this model only aims and sends strokes.
type DuelModel struct {
	phase   DuelPhase
	coord   *multiplayer.Coordinator
	session *multiplayer.ChannelSession

	hole      *course.Hole
	walls     []physics.Wall
	code      string
	codeInput string
	errMsg    string

	matchID  multiplayer.MatchID
	seat     multiplayer.Seat
	opponent string
	state    multiplayer.DuelState
	ended    *multiplayer.DuelEndedEvent

	cursor     core.Vec2
	opts       PlayOptions
	screen     *core.Screen
	viewport   core.Viewport
	keys       PlayKeyMap
	help       help.Model
	quitting   bool
	backToMenu bool
}

// NewHostDuelModel opens a lobby on h when started.
func NewHostDuelModel(coord *multiplayer.Coordinator, session *multiplayer.ChannelSession, h *course.Hole, opts PlayOptions) DuelModel {
	m := newDuelModel(coord, session, opts)
	m.phase = DuelHosting
	m.setHole(h)
	return m
}

// NewJoinDuelModel asks for a join code when started.
func NewJoinDuelModel(coord *multiplayer.Coordinator, session *multiplayer.ChannelSession, opts PlayOptions) DuelModel {
	m := newDuelModel(coord, session, opts)
	m.phase = DuelEnterCode
	return m
}

func newDuelModel(coord *multiplayer.Coordinator, session *multiplayer.ChannelSession, opts PlayOptions) DuelModel {
	if opts.CursorStep <= 0 {
		opts.CursorStep = 5
	}
	if opts.Config.SurfaceSize <= 0 {
		opts.Config.SurfaceSize = core.DefaultConfig().SurfaceSize
	}
	keys := DefaultPlayKeyMap()
	keys.Reset.SetEnabled(false)
	m := DuelModel{
		coord:   coord,
		session: session,
		opts:    opts,
		keys:    keys,
		help:    help.New(),
	}
	m.resize(opts.Config.ScreenW, opts.Config.ScreenH)
	return m
}

func (m *DuelModel) setHole(h *course.Hole) {
	m.hole = h
	m.walls = h.WallsCopy()
	m.cursor = h.Cup.Pos
	tee := h.Ball.Start()
	m.state = multiplayer.DuelState{Balls: [2]core.Vec2{tee, tee}, Turn: multiplayer.Seat1}
}

func (m *DuelModel) resize(w, h int) {
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

// Init opens the lobby for a host and starts listening for events.
func (m DuelModel) Init() tea.Cmd {
	if m.phase == DuelHosting {
		m.coord.Send(multiplayer.CreateLobbyMsg{SessionID: m.session.ID(), Hole: m.hole})
	}
	return m.waitForEvent()
}

// waitForEvent turns the next coordinator event into a Bubble Tea message.
func (m DuelModel) waitForEvent() tea.Cmd {
	events, done := m.session.Events(), m.session.Done()
	return func() tea.Msg {
		select {
		case evt := <-events:
			return evt
		case <-done:
			return nil
		}
	}
}

// Update handles messages.
func (m DuelModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.MouseMsg:
		if m.phase == DuelPlaying && msg.X < m.viewport.Cols && msg.Y < m.viewport.Rows {
			m.moveCursor(m.viewport.ToCourse(msg.X, msg.Y))
			if msg.Action == tea.MouseActionPress && msg.Button == tea.MouseButtonLeft {
				m.stroke()
			}
		}
		return m, nil

	case tea.WindowSizeMsg:
		m.resize(msg.Width, msg.Height)
		return m, nil

	case multiplayer.Event:
		m.handleEvent(msg)
		return m, m.waitForEvent()
	}
	return m, nil
}

func (m *DuelModel) handleEvent(evt multiplayer.Event) {
	switch e := evt.(type) {
	case multiplayer.LobbyCreatedEvent:
		m.code = e.Code
	case multiplayer.LobbyErrorEvent:
		m.errMsg = e.Message
		if m.phase == DuelJoining {
			m.phase = DuelEnterCode
		}
	case multiplayer.LobbyLeftEvent:
		m.errMsg = "Opponent left the lobby"
	case multiplayer.DuelStartedEvent:
		m.matchID = e.MatchID
		m.code = e.Code
		m.seat = e.Seat
		m.opponent = e.Opponent
		m.setHole(e.Hole)
		m.errMsg = ""
		m.phase = DuelPlaying
	case multiplayer.DuelStateEvent:
		if e.MatchID == m.matchID {
			m.state = e.State
		}
	case multiplayer.DuelEndedEvent:
		if e.MatchID == m.matchID || e.MatchID == "" {
			m.ended = &e
			m.phase = DuelOver
		}
	}
}

func (m DuelModel) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.Type == tea.KeyCtrlC {
		m.leave()
		m.quitting = true
		return m, tea.Quit
	}

	// Join codes use letters, so only esc leaves the code prompt.
	if m.phase == DuelEnterCode {
		return m.handleCodeKey(msg)
	}

	switch {
	case key.Matches(msg, m.keys.Quit):
		m.leave()
		m.quitting = true
		return m, tea.Quit

	case key.Matches(msg, m.keys.Back):
		if m.phase == DuelJoining {
			m.phase = DuelEnterCode
			return m, nil
		}
		m.leave()
		m.backToMenu = true
		return m, nil
	}

	switch m.phase {
	case DuelPlaying:
		if key.Matches(msg, m.keys.Hit) {
			m.stroke()
			return m, nil
		}
		if dx, dy, ok := m.keys.aimDelta(msg.String(), m.opts.CursorStep); ok {
			m.moveCursor(m.cursor.Add(core.V(dx, dy)))
		}
	case DuelOver:
		if key.Matches(msg, m.keys.Hit) {
			m.backToMenu = true
		}
	}
	return m, nil
}

func (m DuelModel) handleCodeKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEsc:
		m.backToMenu = true
	case tea.KeyEnter:
		if len(m.codeInput) == joinCodeLen {
			m.phase = DuelJoining
			m.errMsg = ""
			m.coord.Send(multiplayer.JoinLobbyMsg{SessionID: m.session.ID(), Code: m.codeInput})
		}
	case tea.KeyBackspace:
		if m.codeInput != "" {
			m.codeInput = m.codeInput[:len(m.codeInput)-1]
		}
	case tea.KeyRunes:
		for _, r := range strings.ToUpper(string(msg.Runes)) {
			if len(m.codeInput) < joinCodeLen && (r >= 'A' && r <= 'Z' || r >= '2' && r <= '7') {
				m.codeInput += string(r)
			}
		}
	}
	return m, nil
}

// leave tells the coordinator this session is done with the lobby or duel.
func (m *DuelModel) leave() {
	switch m.phase {
	case DuelHosting:
		if m.code != "" {
			m.coord.Send(multiplayer.CancelLobbyMsg{SessionID: m.session.ID(), Code: m.code})
		}
	case DuelPlaying:
		m.coord.Send(multiplayer.LeaveDuelMsg{SessionID: m.session.ID(), MatchID: m.matchID})
	}
}

func (m *DuelModel) moveCursor(p core.Vec2) {
	size := m.opts.Config.SurfaceSize
	m.cursor = core.V(core.ClampF(p.X, 0, size), core.ClampF(p.Y, 0, size))
}

// myTurn reports whether this seat may putt now.
func (m DuelModel) myTurn() bool {
	return m.phase == DuelPlaying && m.state.Turn == m.seat && !m.state.Moving
}

// stroke sends a stroke toward the cursor when it is this seat's turn.
func (m *DuelModel) stroke() {
	if !m.myTurn() {
		return
	}
	m.coord.Send(multiplayer.StrokeMsg{MatchID: m.matchID, Seat: m.seat, Target: m.cursor})
}

// seatIndex returns the per-seat array index of a seat.
func seatIndex(s multiplayer.Seat) int {
	return int(s) - 1
}

func (m DuelModel) draw() {
	m.screen.Fill('·', core.ColorGreen)
	drawWalls(m.screen, m.viewport, m.walls)

	cx, cy := m.viewport.ToCell(m.hole.Cup.Pos)
	m.screen.Set(cx, cy, 'O', core.ColorBlack)

	me, them := seatIndex(m.seat), seatIndex(m.seat.Other())
	if m.myTurn() {
		drawAimLine(m.screen, m.viewport, m.state.Balls[me], m.cursor)
		ax, ay := m.viewport.ToCell(m.cursor)
		m.screen.Set(ax, ay, '+', core.ColorYellow)
	}

	if !m.state.Holed[them] {
		ox, oy := m.viewport.ToCell(m.state.Balls[them])
		m.screen.Set(ox, oy, '●', core.ColorYellow)
	}
	if !m.state.Holed[me] {
		bx, by := m.viewport.ToCell(m.state.Balls[me])
		m.screen.Set(bx, by, '●', core.ColorWhite)
	}
}

func (m DuelModel) status() string {
	me, them := seatIndex(m.seat), seatIndex(m.seat.Other())
	turn := fmt.Sprintf("%s's turn", m.opponent)
	switch {
	case m.state.Turn == m.seat:
		turn = "your turn"
	case m.state.Turn == multiplayer.SeatNone:
		turn = "finished"
	}
	return strings.Join([]string{
		m.hole.Name,
		fmt.Sprintf("you %d%s", m.state.Strokes[me], holedMark(m.state.Holed[me])),
		fmt.Sprintf("%s %d%s", m.opponent, m.state.Strokes[them], holedMark(m.state.Holed[them])),
		turn,
	}, "  |  ")
}

func holedMark(holed bool) string {
	if holed {
		return " ✓"
	}
	return ""
}

// View renders the current phase.
func (m DuelModel) View() string {
	if m.quitting {
		return ""
	}

	w := m.opts.Config.ScreenW
	var b strings.Builder
	b.WriteString("\n")

	switch m.phase {
	case DuelHosting:
		b.WriteString(centerText("HOSTING DUEL", w))
		b.WriteString("\n\n")
		b.WriteString(centerText(fmt.Sprintf("Hole: %s", m.hole.Name), w))
		b.WriteString("\n\n")
		if m.code == "" {
			b.WriteString(centerText("Opening lobby...", w))
		} else {
			b.WriteString(centerText("Share this code with your opponent:", w))
			b.WriteString("\n\n")
			b.WriteString(centerText(fmt.Sprintf("[ %s ]", m.code), w))
		}
		b.WriteString("\n\n")
		b.WriteString(centerText("Esc: Cancel  |  Q: Quit", w))

	case DuelEnterCode, DuelJoining:
		b.WriteString(centerText("JOIN DUEL", w))
		b.WriteString("\n\n")
		input := m.codeInput + strings.Repeat("_", joinCodeLen-len(m.codeInput))
		b.WriteString(centerText(fmt.Sprintf("Code: [ %s ]", input), w))
		b.WriteString("\n\n")
		if m.phase == DuelJoining {
			b.WriteString(centerText("Joining...", w))
			b.WriteString("\n\n")
		}
		b.WriteString(centerText("Enter: Join  |  Esc: Back", w))

	case DuelPlaying:
		m.draw()
		b.Reset()
		b.WriteString(RenderScreen(m.screen))
		b.WriteString("\n")
		statusStyle := lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("229"))
		b.WriteString(statusStyle.Render(m.status()))
		b.WriteString("\n")
		helpStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
		b.WriteString(helpStyle.Render(m.help.View(m.keys)))
		return b.String()

	case DuelOver:
		b.WriteString(centerText("DUEL OVER", w))
		b.WriteString("\n\n")
		b.WriteString(centerText(m.resultText(), w))
		b.WriteString("\n\n")
		b.WriteString(centerText("Enter/Esc: Back to menu", w))
	}

	if m.errMsg != "" {
		b.WriteString("\n\n")
		b.WriteString(centerText("Error: "+m.errMsg, w))
	}
	return b.String()
}

// resultText summarises the ended duel from this seat's point of view.
func (m DuelModel) resultText() string {
	e := m.ended
	if e == nil {
		return ""
	}
	if e.Reason == multiplayer.EndExpired {
		return e.Reason.String()
	}

	var outcome string
	switch e.Winner {
	case multiplayer.SeatNone:
		outcome = "It's a tie"
	case m.seat:
		outcome = "You win!"
	default:
		outcome = fmt.Sprintf("%s wins", m.opponent)
	}
	me, them := seatIndex(m.seat), seatIndex(m.seat.Other())
	score := fmt.Sprintf("%d strokes to %d", e.Strokes[me], e.Strokes[them])
	if e.Reason != multiplayer.EndCompleted {
		return fmt.Sprintf("%s (%s), %s", outcome, e.Reason, score)
	}
	return fmt.Sprintf("%s, %s", outcome, score)
}

// Phase returns the current phase.
func (m DuelModel) Phase() DuelPhase {
	return m.phase
}

// IsQuitting returns true if user requested to quit entirely.
func (m DuelModel) IsQuitting() bool {
	return m.quitting
}

// BackToMenu returns true if user requested to go back to the hole menu.
func (m DuelModel) BackToMenu() bool {
	return m.backToMenu
}
