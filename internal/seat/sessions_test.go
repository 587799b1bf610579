package seat

import (
	"testing"

	"seatd/internal/session"
	"seatd/internal/transport"
)

// The open question in spec.md §9 is resolved as: reject a duplicate id
// outright, never silently hold an extra reference.
func TestAddSessionRejectsDuplicateID(t *testing.T) {
	s, _, _ := newTestSeat(t, Dynamic, nil)
	a := newMemSession("/seat0/SessionA", "x11", "", "", "2020-01-01T00:00:00Z")
	b := newMemSession("/seat0/SessionA", "x11", "", "", "2020-01-01T00:00:01Z")

	if !s.AddSession(a) {
		t.Fatal("first AddSession should succeed")
	}
	if s.AddSession(b) {
		t.Fatal("second AddSession with the same id should be rejected")
	}
	if ids := s.Sessions(); len(ids) != 1 {
		t.Fatalf("Sessions() = %+v, want exactly one entry", ids)
	}
}

func TestRemoveSessionRejectsForeignSession(t *testing.T) {
	s, _, _ := newTestSeat(t, Dynamic, nil)
	other, _, _ := newTestSeat(t, Dynamic, nil)
	x := newMemSession("/seat0/SessionX", "x11", "", "", "2020-01-01T00:00:00Z")
	other.AddSession(x)

	if err := s.RemoveSession(x); err == nil {
		t.Fatal("expected RemoveSession to reject a session owned by a different seat")
	}
}

// Invariant 2 (active-session = bottom or active-session in sessions):
// removing the active session clears active-session rather than leaving
// it dangling, even though §4.4.2's no-match branch otherwise says "don't
// change it".
func TestRemovingActiveSessionClearsActiveSession(t *testing.T) {
	s, _, _ := newTestSeat(t, Dynamic, nil)
	x := newMemSession("/seat0/SessionX", "x11", "", "", "2020-01-01T00:00:00Z")
	x.SetOpen(true)
	s.AddSession(x)

	if active, err := s.GetActiveSession(); err != nil || active != x.ID() {
		t.Fatalf("GetActiveSession() = %q, %v, want X to have become active", active, err)
	}

	if err := s.RemoveSession(x); err != nil {
		t.Fatalf("RemoveSession: %v", err)
	}
	if _, err := s.GetActiveSession(); err == nil {
		t.Fatal("expected no active session after removing the only (and active) session")
	}
}

type recordingListener struct {
	events []string

	// tr, if set, lets SessionAddedFull record how many transport
	// emissions had already happened when it fired.
	tr                 *transport.Fake
	emissionsAtAddFull []int
}

func (l *recordingListener) SessionAddedFull(sess session.Session) {
	l.events = append(l.events, "added-full:"+sess.ID())
	if l.tr != nil {
		l.emissionsAtAddFull = append(l.emissionsAtAddFull, len(l.tr.Emissions))
	}
}
func (l *recordingListener) SessionRemovedFull(sess session.Session) {
	l.events = append(l.events, "removed-full:"+sess.ID())
}
func (l *recordingListener) ActiveSessionChangedFull(oldSess, newSess session.Session) {
	id := "<none>"
	if newSess != nil {
		id = newSess.ID()
	}
	l.events = append(l.events, "active-full:"+id)
}

// §4.4.5: the "-full" tier fires synchronously before the corresponding
// broadcast, so an in-process listener never observes a stale view.
func TestFullTierFiresBeforeBroadcast(t *testing.T) {
	s, tr, _ := newTestSeat(t, Dynamic, nil)
	l := &recordingListener{tr: tr}
	s.AddListener(l)

	x := newMemSession("/seat0/SessionX", "x11", "", "", "2020-01-01T00:00:00Z")
	s.AddSession(x)

	if len(l.events) == 0 || l.events[0] != "added-full:"+x.ID() {
		t.Fatalf("listener events = %+v, want added-full first", l.events)
	}
	if len(l.emissionsAtAddFull) != 1 || l.emissionsAtAddFull[0] != 0 {
		t.Fatalf("emissions already recorded when added-full fired = %+v, want [0]", l.emissionsAtAddFull)
	}
	if len(tr.Emissions) == 0 || tr.Emissions[0].Signal != "SessionAdded" {
		t.Fatalf("broadcast emissions = %+v, want SessionAdded", tr.Emissions)
	}
}
