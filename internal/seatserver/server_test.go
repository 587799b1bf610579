package seatserver

import (
	"encoding/json"
	"net"
	"path/filepath"
	"testing"
	"time"

	"seatd/internal/displaytemplate"
	"seatd/internal/seat"
	"seatd/internal/seatlog"
	"seatd/internal/seatproto"
	"seatd/internal/session"
	"seatd/internal/transport"
)

func newTestServer(t *testing.T) (*Server, *seat.Seat, string) {
	t.Helper()
	s := seat.New(seat.Config{
		ID:        "/org/freedesktop/login1/seat/seat0",
		Kind:      seat.Dynamic,
		Type:      "seat",
		Templates: displaytemplate.NewRegistry(t.TempDir()),
		Transport: transport.NewFake(),
		Log:       seatlog.Nop(),
	})
	sockPath := filepath.Join(t.TempDir(), "seat.seat0.sock")
	srv, err := Listen(sockPath, "seat0", s)
	if err != nil {
		t.Fatalf("Listen: %v", err)
	}
	go srv.Serve()
	t.Cleanup(func() { srv.Close() })
	return srv, s, sockPath
}

func roundTrip(t *testing.T, sockPath string, req *seatproto.Request) *seatproto.Response {
	t.Helper()
	conn, err := net.DialTimeout("unix", sockPath, 2*time.Second)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	defer conn.Close()
	conn.SetDeadline(time.Now().Add(2 * time.Second))

	if err := seatproto.WriteRequest(conn, req); err != nil {
		t.Fatalf("write request: %v", err)
	}
	resp, err := seatproto.ReadResponse(conn)
	if err != nil {
		t.Fatalf("read response: %v", err)
	}
	return resp
}

func TestSeatShowReflectsSeatState(t *testing.T) {
	_, s, sockPath := newTestServer(t)
	x := session.New(session.Config{ID: "/seat0/SessionX", Type: "x11", CreationTime: "2020-01-01T00:00:00Z"})
	x.SetOpen(true)
	s.AddSession(x)

	resp := roundTrip(t, sockPath, &seatproto.Request{Op: "seat_show"})
	if !resp.OK {
		t.Fatalf("seat_show failed: %s", resp.Error)
	}
	var info seatproto.SeatInfo
	if err := decode(resp, &info); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if info.ActiveSession != x.ID() || len(info.Sessions) != 1 {
		t.Fatalf("SeatInfo = %+v", info)
	}
}

func TestListSessions(t *testing.T) {
	_, s, sockPath := newTestServer(t)
	x := session.New(session.Config{ID: "/seat0/SessionX", Type: "x11", CreationTime: "2020-01-01T00:00:00Z"})
	s.AddSession(x)

	resp := roundTrip(t, sockPath, &seatproto.Request{Op: "list_sessions"})
	if !resp.OK {
		t.Fatalf("list_sessions failed: %s", resp.Error)
	}
	var ids []string
	if err := decode(resp, &ids); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(ids) != 1 || ids[0] != x.ID() {
		t.Fatalf("ids = %+v", ids)
	}
}

func TestSessionAddMintsDynamicSession(t *testing.T) {
	_, s, sockPath := newTestServer(t)

	resp := roundTrip(t, sockPath, &seatproto.Request{
		Op:   "session_add",
		Args: map[string]string{"type": "LoginWindow"},
	})
	if !resp.OK {
		t.Fatalf("session_add failed: %s", resp.Error)
	}
	var id string
	if err := decode(resp, &id); err != nil {
		t.Fatalf("decode: %v", err)
	}
	found := false
	for _, sid := range s.Sessions() {
		if sid == id {
			found = true
		}
	}
	if !found {
		t.Fatalf("minted session %q not present on seat, have %+v", id, s.Sessions())
	}
}

func TestSessionAddRequiresType(t *testing.T) {
	_, _, sockPath := newTestServer(t)
	resp := roundTrip(t, sockPath, &seatproto.Request{Op: "session_add"})
	if resp.OK {
		t.Fatal("expected session_add without a type to fail")
	}
}

func TestActivateUnknownSession(t *testing.T) {
	_, _, sockPath := newTestServer(t)
	resp := roundTrip(t, sockPath, &seatproto.Request{Op: "activate", SessionID: "/seat0/nope"})
	if resp.OK {
		t.Fatal("expected activate on an unknown session to fail")
	}
}

func TestUnknownOp(t *testing.T) {
	_, _, sockPath := newTestServer(t)
	resp := roundTrip(t, sockPath, &seatproto.Request{Op: "bogus"})
	if resp.OK {
		t.Fatal("expected an unknown op to fail")
	}
}

func decode(resp *seatproto.Response, v any) error {
	return json.Unmarshal(resp.Data, v)
}
