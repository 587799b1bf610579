package session

import (
	"sync"

	"seatd/internal/seatreply"
)

// MemSession is an in-memory Session used by seatd's own daemon. A real
// deployment's sessions are authenticated and tracked by a separate
// privileged process; seatd only needs to be able to construct one to run
// end to end, and this is deliberately minimal: it holds exactly the
// fields the core interface exposes, nothing more.
type MemSession struct {
	id                  string
	typ                 string
	displayDevice       string
	x11DisplayDevice    string
	creationTime        string
	displayTemplateName string
	displayVariables    map[string]string

	mu           sync.Mutex
	active       bool
	open         bool
	everOpen     bool
	underRequest bool
	seatID       string

	listenersMu sync.Mutex
	listeners   []func(reply *seatreply.Reply)
}

// Config is the immutable configuration of a MemSession, supplied at
// construction.
type Config struct {
	ID                  string
	Type                string
	DisplayDevice       string
	X11DisplayDevice    string
	CreationTime        string
	DisplayTemplateName string
	DisplayVariables    map[string]string
}

// New constructs a MemSession from cfg. The session starts closed,
// inactive, with EverOpen and UnderRequest both false.
func New(cfg Config) *MemSession {
	vars := cfg.DisplayVariables
	if vars == nil {
		vars = map[string]string{}
	}
	return &MemSession{
		id:                  cfg.ID,
		typ:                 cfg.Type,
		displayDevice:       cfg.DisplayDevice,
		x11DisplayDevice:    cfg.X11DisplayDevice,
		creationTime:        cfg.CreationTime,
		displayTemplateName: cfg.DisplayTemplateName,
		displayVariables:    vars,
	}
}

func (s *MemSession) ID() string                         { return s.id }
func (s *MemSession) Type() string                       { return s.typ }
func (s *MemSession) DisplayDevice() string              { return s.displayDevice }
func (s *MemSession) X11DisplayDevice() string           { return s.x11DisplayDevice }
func (s *MemSession) CreationTime() string               { return s.creationTime }
func (s *MemSession) DisplayTemplateName() string        { return s.displayTemplateName }
func (s *MemSession) DisplayVariables() map[string]string { return s.displayVariables }

func (s *MemSession) IsOpen() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.open
}

func (s *MemSession) IsActive() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.active
}

func (s *MemSession) EverOpen() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.everOpen
}

func (s *MemSession) UnderRequest() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.underRequest
}

func (s *MemSession) SeatID() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.seatID
}

func (s *MemSession) SetActive(v bool) {
	s.mu.Lock()
	s.active = v
	s.mu.Unlock()
}

func (s *MemSession) SetSeatID(id string) {
	s.mu.Lock()
	s.seatID = id
	s.mu.Unlock()
}

func (s *MemSession) SetEverOpen(v bool) {
	s.mu.Lock()
	s.everOpen = v
	s.mu.Unlock()
}

func (s *MemSession) SetUnderRequest(v bool) {
	s.mu.Lock()
	s.underRequest = v
	s.mu.Unlock()
}

// SetOpen is not part of the Session interface the core depends on: a
// real manager reports open/close out of band (e.g. by calling back into
// seatd's transport). Exposed here so seatd's own glue code and tests can
// simulate the manager actually opening this session.
func (s *MemSession) SetOpen(v bool) {
	s.mu.Lock()
	s.open = v
	s.mu.Unlock()
}

// OnActivateRequest registers handler to be called when this session
// raises activate-request, e.g. when a lock-screen's "switch back" action
// fires. Returns an unsubscribe function.
func (s *MemSession) OnActivateRequest(handler func(reply *seatreply.Reply)) (unsubscribe func()) {
	s.listenersMu.Lock()
	s.listeners = append(s.listeners, handler)
	idx := len(s.listeners) - 1
	s.listenersMu.Unlock()

	return func() {
		s.listenersMu.Lock()
		defer s.listenersMu.Unlock()
		if idx < len(s.listeners) {
			s.listeners[idx] = nil
		}
	}
}

// RaiseActivateRequest simulates the session emitting activate-request,
// e.g. for tests exercising Seat.ActivateOpenSession via the session
// -initiated path rather than a direct method call.
func (s *MemSession) RaiseActivateRequest(reply *seatreply.Reply) {
	s.listenersMu.Lock()
	handlers := make([]func(reply *seatreply.Reply), len(s.listeners))
	copy(handlers, s.listeners)
	s.listenersMu.Unlock()

	for _, h := range handlers {
		if h != nil {
			h(reply)
		}
	}
}

var _ Session = (*MemSession)(nil)
