package seat

import (
	"seatd/internal/seatderr"
	"seatd/internal/seatreply"
	"seatd/internal/session"
)

// Manage binds callerPeer as the seat's manager, installs a liveness
// watch, resets every session's ever-open/under-request flags, and
// reissues an open-session request for each — giving a freshly attached
// display manager the chance to bring every session up from scratch.
func (s *Seat) Manage(reply *seatreply.Reply, callerPeer string) {
	s.mu.Lock()
	if s.managerPeer != "" {
		held := s.managerPeer
		s.mu.Unlock()
		reply.Complete(seatderr.New("Seat already managed (by '%s')", held))
		return
	}
	s.managerPeer = callerPeer
	toReopen := make([]session.Session, 0, len(s.sessionIDs))
	for _, id := range s.sessionIDs {
		sess := s.sessions[id]
		sess.SetEverOpen(false)
		sess.SetUnderRequest(false)
		toReopen = append(toReopen, sess)
	}
	s.mu.Unlock()

	cancel, err := s.transport.WatchPeer(callerPeer, s.onManagerDisappeared)
	if err != nil {
		s.mu.Lock()
		s.managerPeer = ""
		s.mu.Unlock()
		reply.Complete(seatderr.Wrap(err, "Unable to watch manager"))
		return
	}

	s.mu.Lock()
	s.managerCancelWatch = cancel
	s.mu.Unlock()

	s.log.ManagerAttached(callerPeer)
	for _, sess := range toReopen {
		s.requestOpenSession(sess)
	}
	reply.Complete(nil)
}

// Unmanage handles the unmanage method call: only the bound manager may
// release the binding.
func (s *Seat) Unmanage(reply *seatreply.Reply, callerPeer string) {
	s.mu.Lock()
	held := s.managerPeer
	s.mu.Unlock()

	if held == "" {
		reply.Complete(seatderr.New("Seat not managed"))
		return
	}
	if held != callerPeer {
		reply.Complete(seatderr.New("Seat managed by '%s' not '%s'", held, callerPeer))
		return
	}
	s.detachManager("unmanaged")
	reply.Complete(nil)
}

// onManagerDisappeared is the liveness-watch callback: it never resets
// sessions and never emits a user-visible signal.
func (s *Seat) onManagerDisappeared() {
	s.detachManager("disappeared")
}

func (s *Seat) detachManager(reason string) {
	s.mu.Lock()
	peer := s.managerPeer
	cancel := s.managerCancelWatch
	s.managerPeer = ""
	s.managerCancelWatch = nil
	s.mu.Unlock()

	if cancel != nil {
		cancel()
	}
	if peer != "" {
		s.log.ManagerDetached(peer, reason)
	}
}

// RequestOpenSession is the public form of open-session-request
// construction; it is also invoked internally after add_session and
// after manage, and from the active-session selection's LoginWindow
// priming path.
func (s *Seat) RequestOpenSession(sess session.Session) {
	s.requestOpenSession(sess)
}

// RequestCloseSession handles request_close_session, which requires the
// seat to be managed.
func (s *Seat) RequestCloseSession(sess session.Session) error {
	peer, err := s.requireManagerPeer()
	if err != nil {
		return err
	}
	if err := s.transport.EmitDirected(peer, "CloseSessionRequest", sess.ID()); err != nil {
		s.log.EmitFailed("CloseSessionRequest", peer, err)
	}
	return nil
}

// NoRespawn handles no_respawn, which requires the seat to be managed.
func (s *Seat) NoRespawn(sess session.Session) error {
	peer, err := s.requireManagerPeer()
	if err != nil {
		return err
	}
	if err := s.transport.EmitDirected(peer, "NoRespawn", sess.ID()); err != nil {
		s.log.EmitFailed("NoRespawn", peer, err)
	}
	return nil
}

// RequestRemoval handles request_removal, which requires the seat to be
// managed.
func (s *Seat) RequestRemoval() error {
	peer, err := s.requireManagerPeer()
	if err != nil {
		return err
	}
	if err := s.transport.EmitDirected(peer, "RemoveRequest"); err != nil {
		s.log.EmitFailed("RemoveRequest", peer, err)
	}
	return nil
}

func (s *Seat) requireManagerPeer() (string, error) {
	s.mu.Lock()
	peer := s.managerPeer
	s.mu.Unlock()
	if peer == "" {
		return "", seatderr.New("Seat not managed")
	}
	return peer, nil
}

// requestOpenSession builds and emits an OpenSessionRequest directed at
// the bound manager. Every step short-circuits to a logged skip rather
// than an error: a failed or skipped open request never fails the
// caller's operation (add_session, manage, or the LoginWindow-priming
// branch of maybeUpdateActiveSession).
func (s *Seat) requestOpenSession(sess session.Session) {
	s.mu.Lock()
	peer := s.managerPeer
	if peer == "" {
		s.mu.Unlock()
		s.log.OpenRequestSkipped(sess.ID(), "seat not managed")
		return
	}

	var reason string
	switch {
	case sess.IsOpen():
		reason = "already open"
	case sess.UnderRequest():
		reason = "already pending"
	case sess.DisplayTemplateName() == "":
		reason = "no display template configured"
	case sess.Type() == "":
		reason = "no session type"
	}
	if reason != "" {
		s.mu.Unlock()
		s.log.OpenRequestSkipped(sess.ID(), reason)
		return
	}
	// Marked pending before the template lookup, matching ck_seat's own
	// ordering: an unresolvable template still counts as "a request was
	// made" and must not let a concurrent caller start a second one.
	sess.SetUnderRequest(true)
	s.mu.Unlock()

	tmpl, ok := s.templates.Get(sess.DisplayTemplateName())
	if !ok {
		s.log.OpenRequestSkipped(sess.ID(), "display template not found")
		return
	}

	vars := map[string]string{}
	displayVars := sess.DisplayVariables()
	if !sess.EverOpen() {
		vars = displayVars
	}
	params := tmpl.Evaluate(vars)

	if err := s.transport.EmitDirected(peer, "OpenSessionRequest",
		sess.ID(), sess.Type(), tmpl.Name, displayVars, tmpl.Type, params); err != nil {
		s.log.EmitFailed("OpenSessionRequest", peer, err)
	}
}
