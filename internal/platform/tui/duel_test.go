package tui

import (
	"path/filepath"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/vovakirdan/minigolf/internal/course"
	"github.com/vovakirdan/minigolf/internal/multiplayer"
	"github.com/vovakirdan/minigolf/internal/physics"
	"github.com/vovakirdan/minigolf/internal/storage"
)

type duelRig struct {
	coord *multiplayer.Coordinator
	host  *multiplayer.ChannelSession
	guest *multiplayer.ChannelSession
}

func newDuelRig(t *testing.T) duelRig {
	t.Helper()
	sessions := multiplayer.NewSessionRegistry()
	cfg := multiplayer.DefaultCoordinatorConfig()
	cfg.TickRate = 1000
	r := duelRig{
		coord: multiplayer.NewCoordinator(cfg, sessions, nil),
		host:  multiplayer.NewChannelSession("host", "alice", 256),
		guest: multiplayer.NewChannelSession("guest", "bob", 256),
	}
	sessions.Register(r.host)
	sessions.Register(r.guest)
	r.coord.Start()
	t.Cleanup(r.coord.Stop)
	return r
}

// pump feeds coordinator events into m until done reports true.
func pump(t *testing.T, m DuelModel, done func(DuelModel) bool) DuelModel {
	t.Helper()
	deadline := time.After(3 * time.Second)
	for !done(m) {
		msgs := make(chan tea.Msg, 1)
		go func(cmd tea.Cmd) { msgs <- cmd() }(m.waitForEvent())
		select {
		case msg := <-msgs:
			next, _ := m.Update(msg)
			m = next.(DuelModel)
		case <-deadline:
			t.Fatalf("timed out in phase %d, state %+v", m.phase, m.state)
		}
	}
	return m
}

func TestDuelCodeEntry(t *testing.T) {
	r := newDuelRig(t)
	var m tea.Model = NewJoinDuelModel(r.coord, r.guest, testPlayOptions(nil))

	m = send(t, m, keyMsg("abc2"), tea.KeyMsg{Type: tea.KeyBackspace}, keyMsg("q"), keyMsg("9"))
	d := m.(DuelModel)
	if d.codeInput != "ABCQ" {
		t.Fatalf("code = %q, want ABCQ", d.codeInput)
	}
	if d.IsQuitting() || d.BackToMenu() {
		t.Fatal("letters must not leave the prompt")
	}

	m = send(t, m, keyMsg("enter"))
	if m.(DuelModel).Phase() != DuelEnterCode {
		t.Fatal("short code should not be sent")
	}

	m = send(t, m, keyMsg("xyz"), keyMsg("enter"))
	if d := m.(DuelModel); d.codeInput != "ABCQXY" || d.Phase() != DuelJoining {
		t.Fatalf("code = %q phase = %d", d.codeInput, d.Phase())
	}

	m = send(t, m, keyMsg("esc"))
	if m.(DuelModel).Phase() != DuelEnterCode {
		t.Error("esc while joining should return to the prompt")
	}
	m = send(t, m, keyMsg("esc"))
	if !m.(DuelModel).BackToMenu() {
		t.Error("esc at the prompt should go back")
	}
}

func TestDuelHostAndJoin(t *testing.T) {
	r := newDuelRig(t)
	h := course.Default(physics.DefaultParams())

	host := NewHostDuelModel(r.coord, r.host, h, testPlayOptions(nil))
	host.Init()
	host = pump(t, host, func(m DuelModel) bool { return m.code != "" })
	if !strings.Contains(host.View(), host.code) {
		t.Error("host view should show the join code")
	}

	var g tea.Model = NewJoinDuelModel(r.coord, r.guest, testPlayOptions(nil))
	g = send(t, g, keyMsg(strings.ToLower(host.code)), keyMsg("enter"))
	guest := pump(t, g.(DuelModel), func(m DuelModel) bool { return m.Phase() == DuelPlaying })
	host = pump(t, host, func(m DuelModel) bool { return m.Phase() == DuelPlaying })

	if host.seat != multiplayer.Seat1 || guest.seat != multiplayer.Seat2 || guest.opponent != "alice" {
		t.Fatalf("host seat %v, guest seat %v vs %q", host.seat, guest.seat, guest.opponent)
	}
	if guest.myTurn() || !host.myTurn() {
		t.Fatal("host putts first")
	}

	// Guest cannot putt out of turn; the stroke is never sent.
	g = send(t, guest, keyMsg(" "))
	guest = g.(DuelModel)

	// Cursor starts on the cup at (300,100); aim at (300,250).
	var hm tea.Model = host
	for i := 0; i < 30; i++ {
		hm = send(t, hm, keyMsg("down"))
	}
	hm = send(t, hm, keyMsg(" "))
	host = pump(t, hm.(DuelModel), func(m DuelModel) bool { return m.state.Holed[0] && !m.state.Moving })
	if host.state.Strokes != [2]int{1, 0} || host.state.Turn != multiplayer.Seat2 {
		t.Fatalf("state = %+v", host.state)
	}
	if !strings.Contains(host.View(), "bob's turn") {
		t.Error("host status should show the opponent's turn")
	}

	guest = pump(t, guest, func(m DuelModel) bool { return m.myTurn() })
	g = send(t, guest, keyMsg("esc"))
	if !g.(DuelModel).BackToMenu() {
		t.Fatal("guest should leave to the menu")
	}

	host = pump(t, host, func(m DuelModel) bool { return m.Phase() == DuelOver })
	if !strings.Contains(host.View(), "You win!") {
		t.Errorf("host result = %q", host.resultText())
	}
}

func TestDuelRecorder(t *testing.T) {
	store, err := storage.Open(filepath.Join(t.TempDir(), "duel.db"))
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	defer store.Close()

	err = duelRecorder{store: store}.SaveDuelResult(multiplayer.DuelResult{
		Hole:    "box",
		Players: [2]string{"alice", "bob"},
		Strokes: [2]int{3, 0},
		Holed:   [2]bool{true, false},
	})
	if err != nil {
		t.Fatalf("SaveDuelResult() failed: %v", err)
	}

	stats, err := store.HoleStats("box")
	if err != nil {
		t.Fatalf("HoleStats() failed: %v", err)
	}
	if stats.Rounds != 1 || stats.BestStrokes != 3 {
		t.Errorf("stats = %+v, want one round of 3", stats)
	}
}

func TestSessionMenuToDuel(t *testing.T) {
	r := newDuelRig(t)
	holes := []*course.Hole{course.Default(physics.DefaultParams())}

	var m tea.Model = NewSessionModel(holes, testPlayOptions(nil))
	m = send(t, m, keyMsg("d"))
	if m.(SessionModel).duel != nil {
		t.Fatal("duels are off without a coordinator")
	}

	m = NewSessionModel(holes, testPlayOptions(nil)).WithDuels(r.coord, r.host)
	if !strings.Contains(m.View(), "Host a duel") {
		t.Error("menu should offer duels")
	}
	m = send(t, m, keyMsg("c"))
	s := m.(SessionModel)
	if s.duel == nil || s.duel.Phase() != DuelEnterCode {
		t.Fatal("expected join prompt")
	}

	m = send(t, m, keyMsg("esc"))
	if m.(SessionModel).duel != nil {
		t.Error("expected back to menu")
	}
}
