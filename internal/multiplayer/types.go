// Package multiplayer runs head-to-head duels between two sessions on the
// same hole. A Coordinator pairs sessions through short join codes; each
// Duel owns the authoritative ball state and streams it to both players.
package multiplayer

// SessionID uniquely identifies a connected player (e.g., an SSH session).
type SessionID string

// MatchID uniquely identifies a duel.
type MatchID string

// Seat is a player's place in a duel. Seat1 is the host and putts first.
type Seat int

const (
	SeatNone Seat = iota
	Seat1
	Seat2
)

// String returns a short label for the seat.
func (s Seat) String() string {
	switch s {
	case Seat1:
		return "P1"
	case Seat2:
		return "P2"
	default:
		return "-"
	}
}

// Other returns the opposing seat.
func (s Seat) Other() Seat {
	switch s {
	case Seat1:
		return Seat2
	case Seat2:
		return Seat1
	default:
		return SeatNone
	}
}

// index maps Seat1/Seat2 to 0/1 for per-seat arrays.
func (s Seat) index() int {
	return int(s) - 1
}

func (s Seat) valid() bool {
	return s == Seat1 || s == Seat2
}
