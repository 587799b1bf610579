// Package seatserver listens on a seat's Unix socket (internal/seatsock)
// and answers seatctl's seatproto requests by calling straight into the
// seat core — it is the thinnest possible bridge between the CLI
// transport and package seat, with no business logic of its own.
package seatserver

import (
	"encoding/json"
	"errors"
	"net"
	"strings"
	"time"

	"seatd/internal/seat"
	"seatd/internal/seatderr"
	"seatd/internal/seatfactory"
	"seatd/internal/seatfile"
	"seatd/internal/seatproto"
	"seatd/internal/seatreply"
)

// Server answers seatproto requests for one seat.
type Server struct {
	basename string
	seat     *seat.Seat
	ln       net.Listener
}

// Listen starts listening on the Unix socket at path for s's requests.
// basename identifies the seat for operations (like "session_add") that
// need to derive a deterministic or dynamic session id. The caller is
// responsible for arranging path's containing directory to exist and for
// removing a stale socket file left by a crashed process.
func Listen(path, basename string, s *seat.Seat) (*Server, error) {
	ln, err := net.Listen("unix", path)
	if err != nil {
		return nil, err
	}
	return &Server{basename: basename, seat: s, ln: ln}, nil
}

// Close stops accepting new connections.
func (srv *Server) Close() error {
	return srv.ln.Close()
}

// Serve accepts connections until Close is called, handling each on its
// own goroutine. It returns the listener's terminal error, except that
// the net.ErrClosed error Accept returns after Close is treated as a
// clean shutdown and reported as nil.
func (srv *Server) Serve() error {
	for {
		conn, err := srv.ln.Accept()
		if err != nil {
			if errors.Is(err, net.ErrClosed) {
				return nil
			}
			return err
		}
		go srv.handle(conn)
	}
}

func (srv *Server) handle(conn net.Conn) {
	defer conn.Close()
	conn.SetDeadline(time.Now().Add(30 * time.Second))

	req, err := seatproto.ReadRequest(conn)
	if err != nil {
		return
	}
	seatproto.WriteResponse(conn, srv.dispatch(req))
}

func (srv *Server) dispatch(req *Request) *seatproto.Response {
	switch req.Op {
	case "seat_show":
		return srv.seatShow()
	case "list_sessions":
		return seatproto.OKResponse(srv.seat.Sessions())
	case "activate":
		return srv.activate(req.SessionID)
	case "session_add":
		return srv.sessionAdd(req.Args)
	default:
		return seatproto.ErrResponse(seatderr.New("unknown op %q", req.Op))
	}
}

// Request is a local alias so this package doesn't force every caller to
// import seatproto just to name the type in dispatch's signature.
type Request = seatproto.Request

func (srv *Server) seatShow() *seatproto.Response {
	active, _ := srv.seat.GetActiveSession()
	info := seatproto.SeatInfo{
		ID:            srv.seat.ID(),
		Kind:          srv.seat.Kind().String(),
		Sessions:      srv.seat.Sessions(),
		ActiveSession: active,
		Managed:       srv.seat.IsManaged(),
	}
	return seatproto.OKResponse(info)
}

// sessionAdd mints a dynamic session (one with no backing definition
// file) and adds it to the seat, then requests it be opened if the seat
// currently has a manager attached. Recognized args: "type",
// "display_device", "x11_display_device", "display_template_name", and
// "display_variables" (semicolon-separated "k=v" pairs, same grammar as
// a session definition file's DisplayVariables key).
func (srv *Server) sessionAdd(args map[string]string) *seatproto.Response {
	if args["type"] == "" {
		return seatproto.ErrResponse(seatderr.New("session_add requires type"))
	}
	vars := map[string]string{}
	for _, pair := range strings.Split(args["display_variables"], ";") {
		pair = strings.TrimSpace(pair)
		if pair == "" {
			continue
		}
		k, v, ok := strings.Cut(pair, "=")
		if !ok {
			continue
		}
		vars[k] = v
	}

	def := seatfile.SessionDef{
		Type:                args["type"],
		DisplayDevice:       args["display_device"],
		X11DisplayDevice:    args["x11_display_device"],
		DisplayTemplateName: args["display_template_name"],
		DisplayVariables:    vars,
	}
	sess := seatfactory.NewDynamicSession(srv.basename, def)
	if !srv.seat.AddSession(sess) {
		return seatproto.ErrResponse(seatderr.New("session %s already exists", sess.ID()))
	}
	return seatproto.OKResponse(sess.ID())
}

func (srv *Server) activate(sessionID string) *seatproto.Response {
	if sessionID == "" {
		return seatproto.ErrResponse(seatderr.New("activate requires session_id"))
	}
	result := make(chan error, 1)
	reply := seatreply.New(func(err error) { result <- err })
	srv.seat.ActivateSession(sessionID, reply)

	select {
	case err := <-result:
		if err != nil {
			return seatproto.ErrResponse(err)
		}
		return seatproto.OKResponse(json.RawMessage("null"))
	case <-time.After(10 * time.Second):
		return seatproto.ErrResponse(seatderr.New("activate timed out waiting for VT switch"))
	}
}
