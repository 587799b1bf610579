package seat

import (
	"seatd/internal/seatderr"
	"seatd/internal/seatreply"
	"seatd/internal/session"
)

// ActivateSession handles the ActivateSession method call: an unknown id
// fails immediately; a known but not-yet-open session gets an open
// request and an immediate success reply, and no VT switch is attempted
// for it, then or when the session later opens; an open session is
// handed to ActivateOpenSession, whose reply may complete later.
func (s *Seat) ActivateSession(ssid string, reply *seatreply.Reply) {
	s.mu.Lock()
	sess, ok := s.sessions[ssid]
	s.mu.Unlock()
	if !ok {
		reply.Complete(seatderr.New("Unknown session id"))
		return
	}
	if !sess.IsOpen() {
		s.requestOpenSession(sess)
		reply.Complete(nil)
		return
	}
	s.ActivateOpenSession(sess, reply)
}

// ActivateOpenSession drives a VT switch to an already-open session's
// display device on a Static seat. It is also the delegate for a
// Session's own activate-request signal (wired up in AddSession).
func (s *Seat) ActivateOpenSession(sess session.Session, reply *seatreply.Reply) {
	if s.Kind() != Static {
		reply.Complete(seatderr.New("Activation not supported for this kind of seat"))
		return
	}

	device := sess.X11DisplayDevice()
	if device == "" {
		device = sess.DisplayDevice()
	}
	n, ok := deviceToVT(device)
	if !ok {
		reply.Complete(seatderr.New("Unable to activate session"))
		return
	}

	// One-shot observer for the VT Monitor's next active-changed event.
	// It unsubscribes the moment it fires, whatever the outcome —
	// concurrent ActivateSession calls each get their own observer, and
	// only the one that sees a matching VT wins.
	var unsub func()
	unsub = s.vt.Subscribe(func(got uint32) {
		unsub()
		if got == n {
			s.log.VTSwitch(sess.ID(), n, true)
			reply.Complete(nil)
			return
		}
		s.log.VTSwitch(sess.ID(), n, false)
		reply.Complete(seatderr.New("Another session was activated while waiting"))
	})

	if err := s.vt.SetActive(n); err != nil {
		unsub()
		reply.Complete(err)
	}
}

// onVTChanged is the seat-wide (non-one-shot) VT Monitor subscription
// installed for every Static seat at construction: any foreground VT
// change may change which session should be active.
func (s *Seat) onVTChanged(uint32) {
	s.maybeUpdateActiveSession()
}

// chooseActiveSession implements the active-session selection logic: it
// returns (sess, true, nil) when a definite choice is made (either a
// VT-matched session on a Static seat, or the first open session in
// iteration order); it returns (nil, false, prime) for the no-match
// branch, where prime is a LoginWindow session to issue an open request
// for (nil if there is none) — and the caller must leave the active
// session exactly as it is in that case.
func (s *Seat) chooseActiveSession() (chosen session.Session, hasChoice bool, prime session.Session) {
	if s.kind == Static {
		if n, err := s.vt.GetActive(); err == nil {
			if sess, ok := s.sessionByDevice(vtDevice(n)); ok {
				return sess, true, nil
			}
		}
	}

	for _, id := range s.sessionIDs {
		sess := s.sessions[id]
		if sess.IsOpen() {
			return sess, true, nil
		}
	}

	for _, id := range s.sessionIDs {
		sess := s.sessions[id]
		if sess.Type() == "LoginWindow" {
			return nil, false, sess
		}
	}
	return nil, false, nil
}

// maybeUpdateActiveSession recomputes and, if needed, transitions the
// seat's active session. It is invoked after every event that could
// change the answer: VT change, session add, session remove.
func (s *Seat) maybeUpdateActiveSession() {
	s.mu.Lock()
	chosen, hasChoice, prime := s.chooseActiveSession()
	old := s.activeSession

	var newSess session.Session
	transition := false
	switch {
	case hasChoice:
		newSess = chosen
		transition = newSess != old
	case old != nil:
		if _, stillPresent := s.sessions[old.ID()]; !stillPresent {
			// The previously active session is gone; the seat must
			// never point to a session it no longer owns, even though
			// the no-match branch otherwise leaves active-session alone.
			transition = true
		}
	}

	if !transition {
		s.mu.Unlock()
		if prime != nil {
			s.requestOpenSession(prime)
		}
		return
	}
	s.activeSession = newSess
	s.mu.Unlock()

	if old != nil {
		old.SetActive(false)
	}
	if newSess != nil {
		newSess.SetActive(true)
	}

	oldID, newID := "", ""
	if old != nil {
		oldID = old.ID()
	}
	if newSess != nil {
		newID = newSess.ID()
	}
	s.log.ActiveSessionChanged(oldID, newID)
	s.emitActiveSessionChangedFull(old, newSess)
	s.emitActiveSessionChanged(newID)

	if prime != nil {
		s.requestOpenSession(prime)
	}
}

func (s *Seat) emitActiveSessionChangedFull(old, newSess session.Session) {
	for _, l := range s.snapshotListeners() {
		l.ActiveSessionChangedFull(old, newSess)
	}
}

func (s *Seat) emitActiveSessionChanged(newID string) {
	if err := s.transport.EmitBroadcast("ActiveSessionChanged", newID); err != nil {
		s.log.EmitFailed("ActiveSessionChanged", "", err)
	}
}
