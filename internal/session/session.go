// Package session defines the Session accessor interface the seat core
// depends on, plus one concrete implementation seatd uses to be a
// runnable daemon. Everything about a session beyond these accessors —
// authentication, idle tracking, property storage — is out of the core's
// scope and lives elsewhere (or nowhere, in seatd's case).
package session

import "seatd/internal/seatreply"

// Session is the fixed accessor interface the seat core uses. The core
// never constructs a Session; it receives one via Seat.AddSession and
// treats its internals as opaque beyond these methods.
type Session interface {
	// ID is the session's identifier, stable for the life of the session.
	ID() string
	// Type is the session type, e.g. "x11", "wayland", "LoginWindow", "tty".
	Type() string
	// DisplayDevice is the session's text display device (e.g. a VT tty
	// path), or "" if none.
	DisplayDevice() string
	// X11DisplayDevice is the session's X11 display device, or "" if
	// none. Preferred over DisplayDevice when activating on a Static
	// seat.
	X11DisplayDevice() string
	// CreationTime is an ISO-8601 timestamp, fixed precision, compared
	// lexically by the oldest-wins tie-break used to pick among sessions
	// sharing a display device.
	CreationTime() string

	// IsOpen reports whether the manager has actually opened this
	// session (as opposed to merely requested).
	IsOpen() bool
	// IsActive reports the session's current active flag.
	IsActive() bool
	// EverOpen reports whether an open request has ever succeeded for
	// this session since the current manager attached.
	EverOpen() bool
	// UnderRequest reports whether an OpenSessionRequest is currently
	// outstanding for this session.
	UnderRequest() bool

	// DisplayTemplateName names the DisplayTemplate describing how to
	// start this session's display, or "" if none is configured.
	DisplayTemplateName() string
	// DisplayVariables supplies the variable map used to evaluate the
	// display template's parameters on first open.
	DisplayVariables() map[string]string

	// SetActive, SetSeatID, SetEverOpen, and SetUnderRequest are the only
	// fields the seat core writes; everything else about a session is
	// set once at construction and read-only to the core afterward.
	SetActive(bool)
	SetSeatID(string)
	SetEverOpen(bool)
	SetUnderRequest(bool)

	// OnActivateRequest registers a handler for the session's own
	// activate-request signal, delegated by the seat to
	// Seat.ActivateOpenSession. It returns an unsubscribe function.
	// A Session implementation that never raises activate-request (most
	// won't — it models e.g. a lock-screen "switch back to me" button)
	// may implement this as a no-op that returns a no-op unsubscribe.
	OnActivateRequest(handler func(reply *seatreply.Reply)) (unsubscribe func())
}
