// Package seat implements the Seat state machine: the hard core of the
// seat coordinator. A Seat owns a set of sessions, tracks which one is
// active, coordinates with an external display manager over a
// Transport, and reacts to VT changes on Static seats. This file holds
// the struct and the pure-read operations.
package seat

import (
	"sort"
	"sync"

	"seatd/internal/displaytemplate"
	"seatd/internal/seatderr"
	"seatd/internal/seatlog"
	"seatd/internal/session"
	"seatd/internal/transport"
	"seatd/internal/vtmonitor"
)

// Kind distinguishes a Static seat (single fixed local seat, VT-driven)
// from a Dynamic seat (transient, e.g. remote, no VT semantics). Only a
// Static seat may have a VT Monitor (invariant 3).
type Kind int

const (
	Static Kind = iota
	Dynamic
)

func (k Kind) String() string {
	if k == Static {
		return "static"
	}
	return "dynamic"
}

// Device is an exclusively-owned piece of seat hardware: a class
// ("input", "drm", ...) and a platform-specific identifier.
type Device struct {
	Class string
	ID    string
}

// Listener receives the in-process ("full") tier of the seat's two
// signal tiers: these fire before the corresponding broadcast signal is
// emitted over the Transport, so a local consumer (the enclosing
// Manager, dumping a debug database or running callout scripts)
// observes state changes strictly before any remote peer does.
type Listener interface {
	SessionAddedFull(sess session.Session)
	SessionRemovedFull(sess session.Session)
	ActiveSessionChangedFull(oldSess, newSess session.Session)
}

// Seat is the seat coordinator's state machine. All exported methods are
// safe for concurrent use; the struct's own concurrency model is a
// single mutex around an otherwise single-threaded-cooperative state
// machine, not fine-grained per-field locking.
type Seat struct {
	id   string
	kind Kind
	typ  string

	templates *displaytemplate.Registry
	transport transport.Transport
	vt        vtmonitor.Monitor // nil unless kind == Static
	log       *seatlog.Logger

	mu            sync.Mutex
	devices       []Device
	sessionIDs    []string // iteration order, stable (insertion order)
	sessions      map[string]session.Session
	sessionUnsubs map[string]func()
	activeSession session.Session // nil means no active session

	managerPeer        string
	managerCancelWatch func()

	vtUnsub func() // unsubscribed when the seat is discarded

	listeners []Listener
}

// Config supplies a Seat's fixed collaborators at construction.
type Config struct {
	ID        string
	Kind      Kind
	Type      string
	Templates *displaytemplate.Registry
	Transport transport.Transport
	VT        vtmonitor.Monitor // required iff Kind == Static
	Log       *seatlog.Logger   // Nop() used if nil
}

// New constructs a Seat. It panics if cfg violates invariant 3 (a Dynamic
// seat given a VT Monitor, or a Static seat given none) — this is a
// wiring bug in the caller, not a runtime contract violation a remote
// peer can trigger, so it is not reported as a seatderr.Error.
func New(cfg Config) *Seat {
	if cfg.Kind == Static && cfg.VT == nil {
		panic("seat: Static seat requires a VT Monitor")
	}
	if cfg.Kind == Dynamic && cfg.VT != nil {
		panic("seat: Dynamic seat must not have a VT Monitor")
	}
	l := cfg.Log
	if l == nil {
		l = seatlog.Nop()
	}
	s := &Seat{
		id:            cfg.ID,
		kind:          cfg.Kind,
		typ:           cfg.Type,
		templates:     cfg.Templates,
		transport:     cfg.Transport,
		vt:            cfg.VT,
		log:           l,
		sessions:      make(map[string]session.Session),
		sessionUnsubs: make(map[string]func()),
	}
	if cfg.Kind == Static {
		s.vtUnsub = cfg.VT.Subscribe(s.onVTChanged)
	}
	return s
}

// Close releases the seat's VT subscription. It does not touch
// sessions: the Seat only releases its references, it never destroys
// sessions.
func (s *Seat) Close() {
	if s.vtUnsub != nil {
		s.vtUnsub()
	}
}

// AddListener registers l to receive the full-tier signals, in
// registration order, before the corresponding broadcast signal fires.
func (s *Seat) AddListener(l Listener) {
	s.mu.Lock()
	s.listeners = append(s.listeners, l)
	s.mu.Unlock()
}

func (s *Seat) ID() string   { return s.id }
func (s *Seat) Kind() Kind   { return s.kind }
func (s *Seat) Type() string { return s.typ }

// CanActivateSessions reports whether this seat supports ActivateSession
// against an already-open session: true iff Kind == Static.
func (s *Seat) CanActivateSessions() bool {
	return s.kind == Static
}

// Sessions returns a snapshot of session ids in stable iteration order.
// It never aliases internal storage.
func (s *Seat) Sessions() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]string, len(s.sessionIDs))
	copy(out, s.sessionIDs)
	return out
}

// Devices returns a snapshot of the seat's devices, in the order they
// were added. It never aliases internal storage.
func (s *Seat) Devices() []Device {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]Device, len(s.devices))
	copy(out, s.devices)
	return out
}

// AddDevice appends dev if it is not already present, broadcasting
// DeviceAdded on a real change.
func (s *Seat) AddDevice(dev Device) {
	s.mu.Lock()
	for _, d := range s.devices {
		if d == dev {
			s.mu.Unlock()
			return
		}
	}
	s.devices = append(s.devices, dev)
	s.mu.Unlock()

	s.emitDeviceAdded(dev)
}

// RemoveDevice removes the first device equal to dev, if present,
// broadcasting DeviceRemoved on a real change.
func (s *Seat) RemoveDevice(dev Device) {
	s.mu.Lock()
	removed := false
	for i, d := range s.devices {
		if d == dev {
			s.devices = append(s.devices[:i], s.devices[i+1:]...)
			removed = true
			break
		}
	}
	s.mu.Unlock()

	if removed {
		s.emitDeviceRemoved(dev)
	}
}

func (s *Seat) emitDeviceAdded(dev Device) {
	if err := s.transport.EmitBroadcast("DeviceAdded", dev.Class, dev.ID); err != nil {
		s.log.EmitFailed("DeviceAdded", "", err)
	}
}

func (s *Seat) emitDeviceRemoved(dev Device) {
	if err := s.transport.EmitBroadcast("DeviceRemoved", dev.Class, dev.ID); err != nil {
		s.log.EmitFailed("DeviceRemoved", "", err)
	}
}

// GetActiveSession returns the active session's id, or a General error
// if the seat has none.
func (s *Seat) GetActiveSession() (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.activeSession == nil {
		return "", seatderr.New("Seat has no active session")
	}
	return s.activeSession.ID(), nil
}

// IsManaged reports whether a manager is currently bound (invariant 4).
func (s *Seat) IsManaged() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.managerPeer != ""
}

// activeSessionIDLocked returns the current active session's id, or "",
// the convention used on the wire and in signal arguments. Callers must
// hold s.mu.
func (s *Seat) activeSessionIDLocked() string {
	if s.activeSession == nil {
		return ""
	}
	return s.activeSession.ID()
}

// sessionByDevice returns the oldest (by lexicographically smallest
// CreationTime) session whose DisplayDevice or X11DisplayDevice equals
// dev, preferring neither over the other — either match counts — used by
// the active-session selection logic.
func (s *Seat) sessionByDevice(dev string) (session.Session, bool) {
	var matches []session.Session
	for _, id := range s.sessionIDs {
		sess := s.sessions[id]
		if sess.DisplayDevice() == dev || sess.X11DisplayDevice() == dev {
			matches = append(matches, sess)
		}
	}
	if len(matches) == 0 {
		return nil, false
	}
	sort.Slice(matches, func(i, j int) bool {
		return matches[i].CreationTime() < matches[j].CreationTime()
	})
	return matches[0], true
}
