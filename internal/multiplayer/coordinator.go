package multiplayer

import (
	"crypto/rand"
	"encoding/base32"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"

	"github.com/vovakirdan/minigolf/internal/course"
)

// Lobby is a hosted duel waiting for a guest.
type Lobby struct {
	Code      string
	Hole      *course.Hole
	Host      SessionHandle
	CreatedAt time.Time
}

// CoordinatorConfig holds configuration for the coordinator.
type CoordinatorConfig struct {
	LobbyTimeout  time.Duration // how long a lobby waits for a guest
	TickRate      int           // duel ticks per second
	CleanupPeriod time.Duration // how often expired lobbies are swept
	MaxStrokes    int           // per-player stroke cap in a duel
}

// DefaultCoordinatorConfig returns sensible defaults.
func DefaultCoordinatorConfig() CoordinatorConfig {
	return CoordinatorConfig{
		LobbyTimeout:  5 * time.Minute,
		TickRate:      60,
		CleanupPeriod: 30 * time.Second,
		MaxStrokes:    DefaultMaxStrokes,
	}
}

// ResultSaver persists finished duels. The coordinator does not depend on
// the storage package directly.
type ResultSaver interface {
	SaveDuelResult(res DuelResult) error
}

// Coordinator pairs sessions into duels. All lobby and duel bookkeeping
// happens on the coordinator's own goroutine; sessions talk to it with Send.
type Coordinator struct {
	config   CoordinatorConfig
	sessions *SessionRegistry
	saver    ResultSaver
	logger   *log.Logger

	mu      sync.RWMutex
	lobbies map[string]*Lobby
	duels   map[MatchID]*Duel

	sessionLobby map[SessionID]string
	sessionDuel  map[SessionID]MatchID

	msgChan  chan Message
	done     chan struct{}
	stopOnce sync.Once
}

// NewCoordinator creates a coordinator. A nil logger means log.Default().
func NewCoordinator(cfg CoordinatorConfig, sessions *SessionRegistry, logger *log.Logger) *Coordinator {
	if logger == nil {
		logger = log.Default()
	}
	return &Coordinator{
		config:       cfg,
		sessions:     sessions,
		logger:       logger,
		lobbies:      make(map[string]*Lobby),
		duels:        make(map[MatchID]*Duel),
		sessionLobby: make(map[SessionID]string),
		sessionDuel:  make(map[SessionID]MatchID),
		msgChan:      make(chan Message, 256),
		done:         make(chan struct{}),
	}
}

// SetResultSaver sets where finished duels are recorded.
func (c *Coordinator) SetResultSaver(saver ResultSaver) {
	c.saver = saver
}

// Start begins background processing.
func (c *Coordinator) Start() {
	go c.processMessages()
	go c.cleanupLoop()
}

// Stop shuts the coordinator down and stops every running duel.
func (c *Coordinator) Stop() {
	c.stopOnce.Do(func() {
		close(c.done)
		c.mu.Lock()
		defer c.mu.Unlock()
		for _, d := range c.duels {
			d.Stop()
		}
	})
}

// Send queues a message for the coordinator.
func (c *Coordinator) Send(msg Message) {
	select {
	case c.msgChan <- msg:
	case <-c.done:
	}
}

func (c *Coordinator) processMessages() {
	for {
		select {
		case msg := <-c.msgChan:
			c.handleMessage(msg)
		case <-c.done:
			return
		}
	}
}

func (c *Coordinator) handleMessage(msg Message) {
	switch m := msg.(type) {
	case CreateLobbyMsg:
		c.handleCreateLobby(m)
	case JoinLobbyMsg:
		c.handleJoinLobby(m)
	case CancelLobbyMsg:
		c.handleCancelLobby(m)
	case LeaveLobbyMsg:
		c.handleLeaveLobby(m)
	case LeaveDuelMsg:
		c.handleLeaveDuel(m)
	case StrokeMsg:
		c.handleStroke(m)
	case SessionDisconnectedMsg:
		c.handleSessionDisconnected(m)
	}
}

func (c *Coordinator) handleCreateLobby(msg CreateLobbyMsg) {
	session, ok := c.sessions.Get(msg.SessionID)
	if !ok {
		return
	}
	if msg.Hole == nil {
		session.Send(LobbyErrorEvent{Message: "No hole selected"})
		return
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if c.busy(msg.SessionID) {
		session.Send(LobbyErrorEvent{Message: "Already in a lobby"})
		return
	}

	code := c.uniqueCode()
	c.lobbies[code] = &Lobby{
		Code:      code,
		Hole:      msg.Hole,
		Host:      session,
		CreatedAt: time.Now(),
	}
	c.sessionLobby[msg.SessionID] = code

	c.logger.Info("lobby created", "code", code, "hole", msg.Hole.Name, "host", session.Name())
	session.Send(LobbyCreatedEvent{Code: code, Hole: msg.Hole.Name})
}

func (c *Coordinator) handleJoinLobby(msg JoinLobbyMsg) {
	session, ok := c.sessions.Get(msg.SessionID)
	if !ok {
		return
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if c.busy(msg.SessionID) {
		session.Send(LobbyErrorEvent{Message: "Already in a lobby"})
		return
	}

	code := strings.ToUpper(strings.TrimSpace(msg.Code))
	lobby, exists := c.lobbies[code]
	switch {
	case !exists:
		session.Send(LobbyErrorEvent{Message: "Lobby not found"})
		return
	case lobby.Host.ID() == msg.SessionID:
		session.Send(LobbyErrorEvent{Message: "Cannot join your own lobby"})
		return
	}

	c.startDuel(lobby, session)
}

// startDuel turns a lobby into a running duel. Must be called with c.mu held.
func (c *Coordinator) startDuel(lobby *Lobby, guest SessionHandle) {
	id := MatchID(uuid.NewString())
	d := NewDuel(id, lobby.Code, lobby.Hole, lobby.Host, guest, c.config.TickRate, c.config.MaxStrokes)

	c.duels[id] = d
	delete(c.lobbies, lobby.Code)
	delete(c.sessionLobby, lobby.Host.ID())
	c.sessionDuel[lobby.Host.ID()] = id
	c.sessionDuel[guest.ID()] = id

	c.logger.Info("duel started", "match", string(id)[:8], "hole", lobby.Hole.Name,
		"host", lobby.Host.Name(), "guest", guest.Name())

	lobby.Host.Send(DuelStartedEvent{MatchID: id, Code: lobby.Code, Seat: Seat1, Hole: lobby.Hole, Opponent: guest.Name()})
	guest.Send(DuelStartedEvent{MatchID: id, Code: lobby.Code, Seat: Seat2, Hole: lobby.Hole, Opponent: lobby.Host.Name()})

	go d.Run(func(res DuelResult) {
		c.handleDuelEnded(res)
	})
}

func (c *Coordinator) handleDuelEnded(res DuelResult) {
	c.mu.Lock()
	d, exists := c.duels[res.MatchID]
	if !exists {
		c.mu.Unlock()
		return
	}
	delete(c.duels, res.MatchID)
	for _, seat := range []Seat{Seat1, Seat2} {
		delete(c.sessionDuel, d.Session(seat).ID())
	}
	c.mu.Unlock()

	c.logger.Info("duel ended", "match", string(res.MatchID)[:8], "reason", res.Reason,
		"winner", res.Winner, "strokes", fmt.Sprintf("%d-%d", res.Strokes[0], res.Strokes[1]))

	if c.saver != nil {
		go func() {
			if err := c.saver.SaveDuelResult(res); err != nil {
				c.logger.Warn("could not save duel", "match", string(res.MatchID)[:8], "error", err)
			}
		}()
	}

	evt := DuelEndedEvent{
		MatchID: res.MatchID,
		Reason:  res.Reason,
		Winner:  res.Winner,
		Strokes: res.Strokes,
		Holed:   res.Holed,
	}
	d.Session(Seat1).Send(evt)
	d.Session(Seat2).Send(evt)
}

func (c *Coordinator) handleCancelLobby(msg CancelLobbyMsg) {
	c.mu.Lock()
	defer c.mu.Unlock()

	lobby, exists := c.lobbies[msg.Code]
	if !exists || lobby.Host.ID() != msg.SessionID {
		return
	}
	delete(c.lobbies, msg.Code)
	delete(c.sessionLobby, msg.SessionID)
}

// handleLeaveLobby withdraws a session from a lobby it hosts. Guests never
// sit in a lobby: joining starts the duel at once.
func (c *Coordinator) handleLeaveLobby(msg LeaveLobbyMsg) {
	c.handleCancelLobby(CancelLobbyMsg(msg))
}

func (c *Coordinator) handleLeaveDuel(msg LeaveDuelMsg) {
	c.mu.RLock()
	d, exists := c.duels[msg.MatchID]
	c.mu.RUnlock()
	if exists {
		d.PlayerLeft(msg.SessionID)
	}
}

func (c *Coordinator) handleStroke(msg StrokeMsg) {
	c.mu.RLock()
	d, exists := c.duels[msg.MatchID]
	c.mu.RUnlock()
	if exists {
		d.SendStroke(msg.Seat, msg.Target)
	}
}

func (c *Coordinator) handleSessionDisconnected(msg SessionDisconnectedMsg) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if code, ok := c.sessionLobby[msg.SessionID]; ok {
		delete(c.lobbies, code)
		delete(c.sessionLobby, msg.SessionID)
	}
	if id, ok := c.sessionDuel[msg.SessionID]; ok {
		if d, exists := c.duels[id]; exists {
			d.PlayerLeft(msg.SessionID)
		}
	}
}

// busy reports whether a session already hosts a lobby or plays a duel.
// Must be called with c.mu held.
func (c *Coordinator) busy(id SessionID) bool {
	_, inLobby := c.sessionLobby[id]
	_, inDuel := c.sessionDuel[id]
	return inLobby || inDuel
}

func (c *Coordinator) cleanupLoop() {
	ticker := time.NewTicker(c.config.CleanupPeriod)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			c.expireLobbies(time.Now())
		case <-c.done:
			return
		}
	}
}

func (c *Coordinator) expireLobbies(now time.Time) {
	c.mu.Lock()
	defer c.mu.Unlock()

	for code, lobby := range c.lobbies {
		if now.Sub(lobby.CreatedAt) > c.config.LobbyTimeout {
			lobby.Host.Send(DuelEndedEvent{Reason: EndExpired})
			delete(c.sessionLobby, lobby.Host.ID())
			delete(c.lobbies, code)
		}
	}
}

// uniqueCode returns a join code not used by an open lobby. Must be called
// with c.mu held.
func (c *Coordinator) uniqueCode() string {
	for {
		code := newJoinCode()
		if _, exists := c.lobbies[code]; !exists {
			return code
		}
	}
}

// newJoinCode returns six characters from the base32 alphabet (A-Z, 2-7).
func newJoinCode() string {
	b := make([]byte, 4)
	if _, err := rand.Read(b); err != nil {
		return fmt.Sprintf("%06X", time.Now().UnixNano()&0xFFFFFF)
	}
	return base32.StdEncoding.EncodeToString(b)[:6]
}

// Lobby returns an open lobby by code.
func (c *Coordinator) Lobby(code string) (*Lobby, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	l, ok := c.lobbies[strings.ToUpper(code)]
	return l, ok
}

// Duel returns a running duel.
func (c *Coordinator) Duel(id MatchID) (*Duel, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	d, ok := c.duels[id]
	return d, ok
}

// LobbyCount returns the number of open lobbies.
func (c *Coordinator) LobbyCount() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.lobbies)
}

// DuelCount returns the number of running duels.
func (c *Coordinator) DuelCount() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.duels)
}
