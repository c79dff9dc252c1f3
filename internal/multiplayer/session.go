package multiplayer

import "sync"

// SessionHandle is how the coordinator and duels talk to a player without
// knowing about SSH or Bubble Tea.
type SessionHandle interface {
	// ID returns the unique session identifier.
	ID() SessionID

	// Name is the player name shown to the opponent.
	Name() string

	// Send delivers an event without blocking.
	Send(evt Event)

	// Done closes when the session ends.
	Done() <-chan struct{}
}

// ChannelSession is a SessionHandle backed by a buffered channel. The TUI
// reads Events and turns them into Bubble Tea messages.
type ChannelSession struct {
	id        SessionID
	name      string
	events    chan Event
	done      chan struct{}
	closeOnce sync.Once
}

// NewChannelSession creates a session with room for buffer pending events.
func NewChannelSession(id SessionID, name string, buffer int) *ChannelSession {
	if buffer < 1 {
		buffer = 64
	}
	return &ChannelSession{
		id:     id,
		name:   name,
		events: make(chan Event, buffer),
		done:   make(chan struct{}),
	}
}

// ID returns the session identifier.
func (s *ChannelSession) ID() SessionID {
	return s.id
}

// Name returns the player name.
func (s *ChannelSession) Name() string {
	return s.name
}

// Send queues an event. When the buffer is full the oldest event is
// dropped; state events supersede each other so only the newest matters.
func (s *ChannelSession) Send(evt Event) {
	select {
	case <-s.done:
		return
	default:
	}

	for range 2 {
		select {
		case s.events <- evt:
			return
		default:
		}
		select {
		case <-s.events:
		default:
		}
	}
}

// Events returns the channel the TUI reads from.
func (s *ChannelSession) Events() <-chan Event {
	return s.events
}

// Done returns a channel closed by Close.
func (s *ChannelSession) Done() <-chan struct{} {
	return s.done
}

// Close ends the session. Safe to call more than once.
func (s *ChannelSession) Close() {
	s.closeOnce.Do(func() {
		close(s.done)
	})
}

// SessionRegistry tracks connected sessions by ID.
type SessionRegistry struct {
	mu       sync.RWMutex
	sessions map[SessionID]SessionHandle
}

// NewSessionRegistry creates an empty registry.
func NewSessionRegistry() *SessionRegistry {
	return &SessionRegistry{sessions: make(map[SessionID]SessionHandle)}
}

// Register adds or replaces a session.
func (r *SessionRegistry) Register(s SessionHandle) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.sessions[s.ID()] = s
}

// Unregister removes a session.
func (r *SessionRegistry) Unregister(id SessionID) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.sessions, id)
}

// Get looks up a session.
func (r *SessionRegistry) Get(id SessionID) (SessionHandle, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	s, ok := r.sessions[id]
	return s, ok
}

// Count returns the number of registered sessions.
func (r *SessionRegistry) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.sessions)
}
