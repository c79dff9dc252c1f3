package tui

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"
	"github.com/charmbracelet/ssh"
	"github.com/charmbracelet/wish"
	"github.com/charmbracelet/wish/bubbletea"
	"github.com/google/uuid"

	"github.com/vovakirdan/minigolf/internal/core"
	"github.com/vovakirdan/minigolf/internal/course"
	"github.com/vovakirdan/minigolf/internal/multiplayer"
	"github.com/vovakirdan/minigolf/internal/storage"
)

// SSHServerConfig holds configuration for the SSH server.
type SSHServerConfig struct {
	// Address is the host:port to listen on (e.g., ":23234").
	Address string

	// HostKeyPath is the path to the host key file.
	// If empty, a key will be auto-generated at ~/.minigolf/host_key.
	HostKeyPath string

	// IdleTimeout is how long to wait before closing idle connections.
	IdleTimeout time.Duration

	// Holes are offered in the session menu.
	Holes []*course.Hole

	// Play carries tick rate, cursor step and surface size for sessions.
	Play PlayOptions

	// Store records strokes; may be nil.
	Store *storage.Store

	// Duels configures head-to-head play between sessions.
	Duels multiplayer.CoordinatorConfig

	Logger *log.Logger
}

// DefaultSSHServerConfig returns a config with sensible defaults.
func DefaultSSHServerConfig() SSHServerConfig {
	return SSHServerConfig{
		Address:     ":23234",
		IdleTimeout: 30 * time.Minute,
		Play: PlayOptions{
			Config:     core.DefaultConfig(),
			CursorStep: 5,
		},
		Duels: multiplayer.DefaultCoordinatorConfig(),
	}
}

// SSHServer wraps a Wish SSH server that serves play sessions.
type SSHServer struct {
	config   SSHServerConfig
	server   *ssh.Server
	sessions *multiplayer.SessionRegistry
	coord    *multiplayer.Coordinator
	logger   *log.Logger
}

// NewSSHServer creates a new SSH server with the given configuration.
func NewSSHServer(cfg SSHServerConfig) (*SSHServer, error) {
	logger := cfg.Logger
	if logger == nil {
		logger = log.NewWithOptions(os.Stderr, log.Options{
			ReportTimestamp: true,
			Prefix:          "minigolf-ssh",
		})
	}
	if len(cfg.Holes) == 0 {
		return nil, errors.New("no holes to serve")
	}

	if cfg.Duels.TickRate <= 0 {
		cfg.Duels = multiplayer.DefaultCoordinatorConfig()
	}

	srv := &SSHServer{
		config:   cfg,
		sessions: multiplayer.NewSessionRegistry(),
		logger:   logger,
	}
	srv.coord = multiplayer.NewCoordinator(cfg.Duels, srv.sessions, logger.WithPrefix("duel"))
	if cfg.Store != nil {
		srv.coord.SetResultSaver(duelRecorder{store: cfg.Store})
	}

	hostKeyPath := cfg.HostKeyPath
	if hostKeyPath == "" {
		home, homeErr := os.UserHomeDir()
		if homeErr != nil {
			return nil, fmt.Errorf("cannot get home directory: %w", homeErr)
		}
		hostKeyPath = filepath.Join(home, ".minigolf", "host_key")
	}

	hostKeyDir := filepath.Dir(hostKeyPath)
	if mkdirErr := os.MkdirAll(hostKeyDir, 0o700); mkdirErr != nil {
		return nil, fmt.Errorf("cannot create host key directory: %w", mkdirErr)
	}

	opts := []ssh.Option{
		wish.WithAddress(cfg.Address),
		wish.WithHostKeyPath(hostKeyPath),
		wish.WithIdleTimeout(cfg.IdleTimeout),
		wish.WithMiddleware(
			bubbletea.Middleware(srv.teaHandler),
			srv.loggingMiddleware,
		),
	}

	server, err := wish.NewServer(opts...)
	if err != nil {
		return nil, fmt.Errorf("cannot create SSH server: %w", err)
	}

	srv.server = server
	srv.coord.Start()
	return srv, nil
}

// teaHandler creates a Bubble Tea program for each SSH session.
func (s *SSHServer) teaHandler(sshSession ssh.Session) (tea.Model, []tea.ProgramOption) {
	pty, _, ok := sshSession.Pty()
	if !ok {
		s.logger.Warn("no PTY requested", "user", sshSession.User())
		return nil, nil
	}

	opts := s.config.Play
	opts.Config.ScreenW = pty.Window.Width
	opts.Config.ScreenH = pty.Window.Height
	opts.Player = sshSession.User()
	opts.Store = s.config.Store

	link := multiplayer.NewChannelSession(multiplayer.SessionID(uuid.NewString()), sshSession.User(), 256)
	s.sessions.Register(link)
	go func() {
		<-sshSession.Context().Done()
		link.Close()
		s.sessions.Unregister(link.ID())
		s.coord.Send(multiplayer.SessionDisconnectedMsg{SessionID: link.ID()})
	}()

	model := NewSessionModel(s.config.Holes, opts).WithDuels(s.coord, link)

	return model, []tea.ProgramOption{
		tea.WithAltScreen(),
		tea.WithMouseCellMotion(),
	}
}

// loggingMiddleware logs SSH session events.
func (s *SSHServer) loggingMiddleware(next ssh.Handler) ssh.Handler {
	return func(sshSession ssh.Session) {
		s.logger.Info("session started",
			"user", sshSession.User(),
			"remote", sshSession.RemoteAddr().String(),
		)
		next(sshSession)
		s.logger.Info("session ended",
			"user", sshSession.User(),
			"remote", sshSession.RemoteAddr().String(),
		)
	}
}

// ListenAndServe starts the SSH server and blocks until shutdown.
func (s *SSHServer) ListenAndServe() error {
	s.logger.Info("starting SSH server", "address", s.config.Address, "holes", len(s.config.Holes))

	done := make(chan os.Signal, 1)
	signal.Notify(done, os.Interrupt, syscall.SIGTERM)

	go func() {
		if err := s.server.ListenAndServe(); err != nil && !errors.Is(err, ssh.ErrServerClosed) {
			s.logger.Error("server error", "error", err)
		}
	}()

	<-done
	s.logger.Info("shutting down...")
	return s.Shutdown()
}

// Shutdown gracefully stops the server.
func (s *SSHServer) Shutdown() error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	s.coord.Stop()
	return s.server.Shutdown(ctx)
}

// Addr returns the server's listen address string.
func (s *SSHServer) Addr() string {
	return s.config.Address
}

// duelRecorder stores each duel player's round in the strokes table.
type duelRecorder struct {
	store *storage.Store
}

// SaveDuelResult records one stroke entry per player who putted.
func (r duelRecorder) SaveDuelResult(res multiplayer.DuelResult) error {
	var errs []error
	for i, player := range res.Players {
		if res.Strokes[i] == 0 {
			continue
		}
		_, err := r.store.SaveStrokes(storage.StrokeEntry{
			HoleName: res.Hole,
			Player:   player,
			Strokes:  res.Strokes[i],
			Holed:    res.Holed[i],
		})
		if err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// SessionModel manages a full session: hole menu -> play or duel -> menu.
// This is the top-level model used for SSH sessions.
type SessionModel struct {
	holes    []*course.Hole
	opts     PlayOptions
	menu     MenuModel
	play     *PlayModel
	duel     *DuelModel
	coord    *multiplayer.Coordinator
	link     *multiplayer.ChannelSession
	quitting bool
}

// NewSessionModel creates a new session model.
func NewSessionModel(holes []*course.Hole, opts PlayOptions) SessionModel {
	return SessionModel{
		holes: holes,
		opts:  opts,
		menu:  NewMenuModel(holes, opts.Config),
	}
}

// WithDuels enables duels through coord, using link as this session's
// handle.
func (m SessionModel) WithDuels(coord *multiplayer.Coordinator, link *multiplayer.ChannelSession) SessionModel {
	m.coord = coord
	m.link = link
	m.menu.duels = coord != nil && link != nil
	return m
}

// Init initializes the session.
func (m SessionModel) Init() tea.Cmd {
	return m.menu.Init()
}

// Update handles messages for the session.
func (m SessionModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if wsm, ok := msg.(tea.WindowSizeMsg); ok {
		m.opts.Config.ScreenW = wsm.Width
		m.opts.Config.ScreenH = wsm.Height
	}

	switch {
	case m.play != nil:
		return m.updatePlay(msg)
	case m.duel != nil:
		return m.updateDuel(msg)
	}
	return m.updateMenu(msg)
}

// backToMenu returns to a fresh hole menu.
func (m SessionModel) backToMenu() (tea.Model, tea.Cmd) {
	m.play = nil
	m.duel = nil
	m.menu = NewMenuModel(m.holes, m.opts.Config)
	m.menu.duels = m.coord != nil && m.link != nil
	return m, m.menu.Init()
}

// updateMenu handles updates when in menu mode. Selecting a hole quits the
// menu model, so its command is dropped and play starts instead.
func (m SessionModel) updateMenu(msg tea.Msg) (tea.Model, tea.Cmd) {
	newMenu, cmd := m.menu.Update(msg)
	if menuModel, ok := newMenu.(MenuModel); ok {
		m.menu = menuModel
	}

	if m.menu.IsQuitting() {
		m.quitting = true
		return m, tea.Quit
	}

	if h := m.menu.Selected(); h != nil {
		m.opts.Config = m.menu.Config()
		play := NewPlayModel(h, m.opts)
		m.play = &play
		return m, m.play.Init()
	}

	if h := m.menu.HostDuel(); h != nil {
		m.opts.Config = m.menu.Config()
		duel := NewHostDuelModel(m.coord, m.link, h, m.opts)
		m.duel = &duel
		return m, m.duel.Init()
	}

	if m.menu.JoinDuel() {
		m.opts.Config = m.menu.Config()
		duel := NewJoinDuelModel(m.coord, m.link, m.opts)
		m.duel = &duel
		return m, m.duel.Init()
	}

	return m, cmd
}

// updatePlay handles updates when playing a hole.
func (m SessionModel) updatePlay(msg tea.Msg) (tea.Model, tea.Cmd) {
	newModel, cmd := m.play.Update(msg)
	if play, ok := newModel.(PlayModel); ok {
		m.play = &play
	}

	if m.play.BackToMenu() {
		return m.backToMenu()
	}

	if m.play.IsQuitting() {
		m.quitting = true
		return m, tea.Quit
	}

	return m, cmd
}

// updateDuel handles updates during a duel. Coordinator events that arrive
// after returning to the menu are ignored by the menu.
func (m SessionModel) updateDuel(msg tea.Msg) (tea.Model, tea.Cmd) {
	newModel, cmd := m.duel.Update(msg)
	if duel, ok := newModel.(DuelModel); ok {
		m.duel = &duel
	}

	if m.duel.BackToMenu() {
		return m.backToMenu()
	}

	if m.duel.IsQuitting() {
		m.quitting = true
		return m, tea.Quit
	}

	return m, cmd
}

// View renders the current view.
func (m SessionModel) View() string {
	if m.quitting {
		return ""
	}
	switch {
	case m.play != nil:
		return m.play.View()
	case m.duel != nil:
		return m.duel.View()
	}
	return m.menu.View()
}
