package seat

import (
	"seatd/internal/seatderr"
	"seatd/internal/seatreply"
	"seatd/internal/session"
)

// AddSession inserts sess into the seat if its id is not already present.
// A duplicate id is rejected outright — no re-subscription, no signal, no
// active-session recomputation, no reference taken beyond the lookup.
// added reports whether the insertion happened.
func (s *Seat) AddSession(sess session.Session) (added bool) {
	id := sess.ID()

	s.mu.Lock()
	if _, exists := s.sessions[id]; exists {
		s.mu.Unlock()
		return false
	}
	s.sessions[id] = sess
	s.sessionIDs = append(s.sessionIDs, id)
	unsub := sess.OnActivateRequest(func(reply *seatreply.Reply) {
		s.ActivateOpenSession(sess, reply)
	})
	s.sessionUnsubs[id] = unsub
	managed := s.managerPeer != ""
	s.mu.Unlock()

	sess.SetSeatID(s.id)
	s.log.SessionAdded(id)
	s.emitSessionAddedFull(sess)
	s.emitSessionAdded(id)
	s.maybeUpdateActiveSession()
	if managed {
		s.requestOpenSession(sess)
	}
	return true
}

// RemoveSession removes sess from the seat. sess must currently be owned
// by this seat (the same object present under its id); otherwise it
// returns a General error and the seat is left unchanged.
func (s *Seat) RemoveSession(sess session.Session) error {
	id := sess.ID()

	s.mu.Lock()
	existing, ok := s.sessions[id]
	if !ok || existing != sess {
		s.mu.Unlock()
		return seatderr.New("Session %q is not owned by this seat", id)
	}
	unsub := s.sessionUnsubs[id]
	delete(s.sessions, id)
	delete(s.sessionUnsubs, id)
	for i, sid := range s.sessionIDs {
		if sid == id {
			s.sessionIDs = append(s.sessionIDs[:i], s.sessionIDs[i+1:]...)
			break
		}
	}
	s.mu.Unlock()

	if unsub != nil {
		unsub()
	}
	s.log.SessionRemoved(id)
	s.emitSessionRemovedFull(sess)
	s.emitSessionRemoved(id)
	s.maybeUpdateActiveSession()
	return nil
}

func (s *Seat) emitSessionAddedFull(sess session.Session) {
	for _, l := range s.snapshotListeners() {
		l.SessionAddedFull(sess)
	}
}

func (s *Seat) emitSessionAdded(id string) {
	if err := s.transport.EmitBroadcast("SessionAdded", id); err != nil {
		s.log.EmitFailed("SessionAdded", "", err)
	}
}

func (s *Seat) emitSessionRemovedFull(sess session.Session) {
	for _, l := range s.snapshotListeners() {
		l.SessionRemovedFull(sess)
	}
}

func (s *Seat) emitSessionRemoved(id string) {
	if err := s.transport.EmitBroadcast("SessionRemoved", id); err != nil {
		s.log.EmitFailed("SessionRemoved", "", err)
	}
}

func (s *Seat) snapshotListeners() []Listener {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]Listener, len(s.listeners))
	copy(out, s.listeners)
	return out
}
