package multiplayer

import (
	"sync"
	"time"

	"github.com/vovakirdan/minigolf/internal/core"
	"github.com/vovakirdan/minigolf/internal/course"
	"github.com/vovakirdan/minigolf/internal/physics"
)

// DefaultMaxStrokes caps a player's strokes on one hole.
const DefaultMaxStrokes = 10

// DuelState is the shared view both players render.
type DuelState struct {
	Balls   [2]core.Vec2
	Strokes [2]int
	Holed   [2]bool
	Turn    Seat // SeatNone once both players are finished
	Moving  bool
}

// DuelResult is the outcome of a finished duel.
type DuelResult struct {
	MatchID MatchID
	Hole    string
	Players [2]string
	Reason  EndReason
	Winner  Seat
	Strokes [2]int
	Holed   [2]bool
	Ticks   uint64
}

type stroke struct {
	seat   Seat
	target core.Vec2
}

// Duel is one hole played by two sessions taking turns. Each seat has its
// own ball; balls do not collide with each other. A player is finished
// when holed or out of strokes, and finished players are skipped.
type Duel struct {
	id         MatchID
	code       string
	hole       *course.Hole
	walls      []physics.Wall
	balls      [2]*physics.Ball
	strokes    [2]int
	holed      [2]bool
	turn       Seat
	maxStrokes int
	seats      [2]SessionHandle

	strokeChan     chan stroke
	disconnectChan chan SessionID
	tick           uint64
	tickRate       int
	last           DuelState
	done           chan struct{}
	doneOnce       sync.Once
}

// NewDuel creates a duel between host (Seat1) and guest (Seat2).
func NewDuel(id MatchID, code string, h *course.Hole, host, guest SessionHandle, tickRate, maxStrokes int) *Duel {
	if tickRate <= 0 {
		tickRate = 60
	}
	if maxStrokes <= 0 {
		maxStrokes = DefaultMaxStrokes
	}
	return &Duel{
		id:             id,
		code:           code,
		hole:           h,
		walls:          h.WallsCopy(),
		balls:          [2]*physics.Ball{h.NewBall(), h.NewBall()},
		turn:           Seat1,
		maxStrokes:     maxStrokes,
		seats:          [2]SessionHandle{host, guest},
		strokeChan:     make(chan stroke, 16),
		disconnectChan: make(chan SessionID, 2),
		tickRate:       tickRate,
		done:           make(chan struct{}),
	}
}

// ID returns the match identifier.
func (d *Duel) ID() MatchID {
	return d.id
}

// Code returns the join code the duel was created from.
func (d *Duel) Code() string {
	return d.code
}

// Session returns the handle sitting in seat.
func (d *Duel) Session(seat Seat) SessionHandle {
	if !seat.valid() {
		return nil
	}
	return d.seats[seat.index()]
}

// SeatOf returns the seat of a session, or SeatNone.
func (d *Duel) SeatOf(id SessionID) Seat {
	for i, s := range d.seats {
		if s.ID() == id {
			return Seat(i + 1)
		}
	}
	return SeatNone
}

// SendStroke queues a stroke for the next tick. Strokes out of turn are
// ignored when applied.
func (d *Duel) SendStroke(seat Seat, target core.Vec2) {
	select {
	case d.strokeChan <- stroke{seat: seat, target: target}:
	default:
	}
}

// PlayerLeft ends the duel in favour of the other seat.
func (d *Duel) PlayerLeft(id SessionID) {
	select {
	case d.disconnectChan <- id:
	default:
	}
}

// State returns the current shared state.
func (d *Duel) State() DuelState {
	st := DuelState{
		Strokes: d.strokes,
		Holed:   d.holed,
		Turn:    d.turn,
	}
	for i, b := range d.balls {
		st.Balls[i] = b.Pos
		if b.IsMoving() {
			st.Moving = true
		}
	}
	return st
}

// Over reports whether both players are finished.
func (d *Duel) Over() bool {
	return d.turn == SeatNone
}

// Run drives the duel at the tick rate until it finishes, a player leaves,
// or Stop is called. onComplete is not called after Stop.
func (d *Duel) Run(onComplete func(DuelResult)) {
	defer d.Stop()

	ticker := time.NewTicker(time.Second / time.Duration(d.tickRate))
	defer ticker.Stop()

	go d.watchSessions()
	d.broadcast()

	for {
		select {
		case <-ticker.C:
			d.drainStrokes()
			d.advance()
			d.broadcast()
			if d.Over() {
				if onComplete != nil {
					onComplete(d.result(EndCompleted, d.winner()))
				}
				return
			}

		case id := <-d.disconnectChan:
			reason := EndDisconnect
			select {
			case <-d.sessionDone(id):
			default:
				reason = EndForfeit
			}
			if onComplete != nil {
				onComplete(d.result(reason, d.SeatOf(id).Other()))
			}
			return

		case <-d.done:
			return
		}
	}
}

// Stop ends the duel loop without reporting a result.
func (d *Duel) Stop() {
	d.doneOnce.Do(func() {
		close(d.done)
	})
}

func (d *Duel) drainStrokes() {
	for {
		select {
		case s := <-d.strokeChan:
			d.applyStroke(s.seat, s.target)
		default:
			return
		}
	}
}

// applyStroke hits the seat's ball if it is that seat's turn and no ball
// is rolling. A zero-length aim is not a stroke.
func (d *Duel) applyStroke(seat Seat, target core.Vec2) bool {
	if seat != d.turn || !seat.valid() {
		return false
	}
	b := d.balls[seat.index()]
	if b.IsMoving() {
		return false
	}
	b.Hit(target.X, target.Y)
	if !b.IsMoving() {
		return false
	}
	d.strokes[seat.index()]++
	return true
}

// advance steps the rolling ball one tick and hands the turn over once it
// comes to rest.
func (d *Duel) advance() {
	d.tick++
	if d.Over() {
		return
	}
	i := d.turn.index()
	b := d.balls[i]
	if !b.IsMoving() {
		return
	}
	b.Step(d.walls)
	if b.InCup(d.hole.Cup) {
		b.Stop()
		b.Pos = d.hole.Cup.Pos
		d.holed[i] = true
	}
	if !b.IsMoving() {
		d.nextTurn()
	}
}

func (d *Duel) finished(seat Seat) bool {
	i := seat.index()
	return d.holed[i] || d.strokes[i] >= d.maxStrokes
}

func (d *Duel) nextTurn() {
	switch {
	case !d.finished(d.turn.Other()):
		d.turn = d.turn.Other()
	case !d.finished(d.turn):
		// opponent is done; keep putting
	default:
		d.turn = SeatNone
	}
}

// score is the seat's strokes, with an unholed ball counting one over the cap.
func (d *Duel) score(seat Seat) int {
	i := seat.index()
	if d.holed[i] {
		return d.strokes[i]
	}
	return d.maxStrokes + 1
}

func (d *Duel) winner() Seat {
	s1, s2 := d.score(Seat1), d.score(Seat2)
	switch {
	case s1 < s2:
		return Seat1
	case s2 < s1:
		return Seat2
	default:
		return SeatNone
	}
}

func (d *Duel) result(reason EndReason, winner Seat) DuelResult {
	return DuelResult{
		MatchID: d.id,
		Hole:    d.hole.Name,
		Players: [2]string{d.seats[0].Name(), d.seats[1].Name()},
		Reason:  reason,
		Winner:  winner,
		Strokes: d.strokes,
		Holed:   d.holed,
		Ticks:   d.tick,
	}
}

// broadcast sends the state to both seats when it changed since the last
// broadcast.
func (d *Duel) broadcast() {
	st := d.State()
	if st == d.last && d.tick > 0 {
		return
	}
	d.last = st
	evt := DuelStateEvent{MatchID: d.id, Tick: d.tick, State: st}
	for _, s := range d.seats {
		s.Send(evt)
	}
}

func (d *Duel) sessionDone(id SessionID) <-chan struct{} {
	if seat := d.SeatOf(id); seat.valid() {
		return d.seats[seat.index()].Done()
	}
	return nil
}

func (d *Duel) watchSessions() {
	select {
	case <-d.seats[0].Done():
		d.PlayerLeft(d.seats[0].ID())
	case <-d.seats[1].Done():
		d.PlayerLeft(d.seats[1].ID())
	case <-d.done:
	}
}
