// Package transport defines the Transport interface the seat core uses
// to talk to the outside world: directed signals to the seat's
// manager, broadcast signals to anyone listening, and a peer-liveness
// watch used to detect manager disappearance. The core never parses or
// constructs wire messages itself; a concrete Transport (e.g. the dbus
// adapter) owns that.
package transport

// Transport is the narrow interface the seat core depends on for
// outbound IPC. All methods must return promptly; None of them may block
// on a reply (that is the deferred-reply model of package seatreply).
type Transport interface {
	// EmitDirected sends signal, with the given arguments, to peer only
	// (never broadcast). Used for OpenSessionRequest, CloseSessionRequest,
	// NoRespawn, and RemoveRequest, all addressed to the seat's current
	// manager.
	EmitDirected(peer, signal string, args ...any) error

	// EmitBroadcast sends signal, with the given arguments, to every
	// listener on the transport. Used for SessionAdded, SessionRemoved,
	// ActiveSessionChanged, DeviceAdded, and DeviceRemoved — the
	// non-"-full" tier of the seat's two signal tiers.
	EmitBroadcast(signal string, args ...any) error

	// WatchPeer arranges for onDisappear to be invoked (at most once)
	// when peer is observed to leave the bus. The returned cancel
	// function stops the watch; it is safe to call after onDisappear has
	// already fired.
	WatchPeer(peer string, onDisappear func()) (cancel func(), err error)
}
