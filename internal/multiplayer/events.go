package multiplayer

import (
	"github.com/vovakirdan/minigolf/internal/core"
	"github.com/vovakirdan/minigolf/internal/course"
)

// Event is sent from the coordinator or a duel to a session.
type Event interface {
	duelEvent()
}

// LobbyCreatedEvent tells the host its join code.
type LobbyCreatedEvent struct {
	Code string
	Hole string
}

// LobbyErrorEvent reports a failed lobby operation.
type LobbyErrorEvent struct {
	Message string
}

// LobbyLeftEvent tells the host the guest left before the duel started.
type LobbyLeftEvent struct {
	Code string
}

// DuelStartedEvent is sent to both players when the guest joins.
type DuelStartedEvent struct {
	MatchID  MatchID
	Code     string
	Seat     Seat
	Hole     *course.Hole
	Opponent string
}

// DuelStateEvent carries the state after a tick that changed it.
type DuelStateEvent struct {
	MatchID MatchID
	Tick    uint64
	State   DuelState
}

// DuelEndedEvent is sent to both players when the duel is over.
type DuelEndedEvent struct {
	MatchID MatchID
	Reason  EndReason
	Winner  Seat // SeatNone on a tie or when nobody played
	Strokes [2]int
	Holed   [2]bool
}

func (LobbyCreatedEvent) duelEvent() {}
func (LobbyErrorEvent) duelEvent()   {}
func (LobbyLeftEvent) duelEvent()    {}
func (DuelStartedEvent) duelEvent()  {}
func (DuelStateEvent) duelEvent()    {}
func (DuelEndedEvent) duelEvent()    {}

// EndReason describes why a duel ended.
type EndReason int

const (
	EndCompleted  EndReason = iota // both players finished the hole
	EndDisconnect                  // a player's session closed
	EndForfeit                     // a player left the duel
	EndExpired                     // nobody joined in time
)

func (r EndReason) String() string {
	switch r {
	case EndCompleted:
		return "Hole completed"
	case EndDisconnect:
		return "Opponent disconnected"
	case EndForfeit:
		return "Opponent forfeited"
	case EndExpired:
		return "Lobby expired"
	default:
		return "Unknown"
	}
}

// Message is sent from a session to the coordinator.
type Message interface {
	coordinatorMessage()
}

// CreateLobbyMsg opens a lobby on a hole.
type CreateLobbyMsg struct {
	SessionID SessionID
	Hole      *course.Hole
}

// JoinLobbyMsg joins the lobby with the given code.
type JoinLobbyMsg struct {
	SessionID SessionID
	Code      string
}

// CancelLobbyMsg closes a lobby the session hosts.
type CancelLobbyMsg struct {
	SessionID SessionID
	Code      string
}

// LeaveLobbyMsg withdraws a guest from a lobby.
type LeaveLobbyMsg struct {
	SessionID SessionID
	Code      string
}

// LeaveDuelMsg forfeits a running duel.
type LeaveDuelMsg struct {
	SessionID SessionID
	MatchID   MatchID
}

// StrokeMsg hits the seat's ball toward Target.
type StrokeMsg struct {
	MatchID MatchID
	Seat    Seat
	Target  core.Vec2
}

// SessionDisconnectedMsg is sent when a session goes away.
type SessionDisconnectedMsg struct {
	SessionID SessionID
}

func (CreateLobbyMsg) coordinatorMessage()         {}
func (JoinLobbyMsg) coordinatorMessage()           {}
func (CancelLobbyMsg) coordinatorMessage()         {}
func (LeaveLobbyMsg) coordinatorMessage()          {}
func (LeaveDuelMsg) coordinatorMessage()           {}
func (StrokeMsg) coordinatorMessage()              {}
func (SessionDisconnectedMsg) coordinatorMessage() {}
