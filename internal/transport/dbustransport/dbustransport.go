// Package dbustransport adapts the seat core's Transport interface onto
// the system message bus, in the shape logind-compatible tooling
// expects: seats live under org.freedesktop.login1, broadcast signals are
// ordinary bus signals, and directed signals are unicast to the manager's
// well-known bus name via an explicit Destination header (the bus itself
// has no "point-to-point signal" primitive, so this adapter builds one).
package dbustransport

import (
	"fmt"
	"sync"

	"github.com/godbus/dbus/v5"
)

const (
	// Iface is the logind-compatible seat interface name directed and
	// broadcast signals are emitted under.
	Iface = "org.freedesktop.login1.Seat"

	busIface  = "org.freedesktop.DBus"
	nameOwner = "NameOwnerChanged"
)

// Transport is the production adapter: a seat's bus object path plus a
// shared connection.
type Transport struct {
	conn *dbus.Conn
	path dbus.ObjectPath

	mu       sync.Mutex
	watchers map[string][]chan<- struct{} // peer -> channels closed on disappearance
	sigCh    chan *dbus.Signal
	started  bool
}

// New returns a Transport for the seat object at path, sharing conn with
// any other seats' transports (matching logind's single bus connection
// serving every seat object).
func New(conn *dbus.Conn, path dbus.ObjectPath) *Transport {
	return &Transport{conn: conn, path: path, watchers: map[string][]chan<- struct{}{}}
}

// EmitDirected sends signal to peer only, via an explicit Destination
// header — the bus delivers it to nobody else.
func (t *Transport) EmitDirected(peer, signal string, args ...any) error {
	msg := &dbus.Message{
		Type:  dbus.TypeSignal,
		Flags: dbus.FlagNoReplyExpected,
		Headers: map[dbus.HeaderField]dbus.Variant{
			dbus.FieldPath:        dbus.MakeVariant(t.path),
			dbus.FieldInterface:   dbus.MakeVariant(Iface),
			dbus.FieldMember:      dbus.MakeVariant(signal),
			dbus.FieldDestination: dbus.MakeVariant(peer),
		},
		Body: toSlice(args),
	}
	return t.conn.Send(msg, nil).Err
}

// EmitBroadcast sends signal to every bus listener subscribed to it.
func (t *Transport) EmitBroadcast(signal string, args ...any) error {
	return t.conn.Emit(t.path, Iface+"."+signal, toSlice(args)...)
}

// WatchPeer subscribes to org.freedesktop.DBus's NameOwnerChanged signal
// and invokes onDisappear the first time peer's owner goes empty.
func (t *Transport) WatchPeer(peer string, onDisappear func()) (cancel func(), err error) {
	call := t.conn.BusObject().Call(busIface+".AddMatch", 0,
		fmt.Sprintf("type='signal',interface='%s',member='%s',arg0='%s'", busIface, nameOwner, peer))
	if call.Err != nil {
		return nil, call.Err
	}

	t.mu.Lock()
	if !t.started {
		t.sigCh = make(chan *dbus.Signal, 16)
		t.conn.Signal(t.sigCh)
		go t.dispatch()
		t.started = true
	}
	done := make(chan struct{})
	t.watchers[peer] = append(t.watchers[peer], done)
	t.mu.Unlock()

	fired := make(chan struct{})
	go func() {
		select {
		case <-done:
			select {
			case <-fired:
			default:
				close(fired)
				onDisappear()
			}
		}
	}()

	return func() {
		t.mu.Lock()
		handlers := t.watchers[peer]
		for i, ch := range handlers {
			if ch == done {
				handlers[i] = handlers[len(handlers)-1]
				t.watchers[peer] = handlers[:len(handlers)-1]
				break
			}
		}
		t.mu.Unlock()
	}, nil
}

func (t *Transport) dispatch() {
	for sig := range t.sigCh {
		if sig.Name != busIface+"."+nameOwner || len(sig.Body) != 3 {
			continue
		}
		name, _ := sig.Body[0].(string)
		newOwner, _ := sig.Body[2].(string)
		if newOwner != "" {
			continue
		}
		t.mu.Lock()
		handlers := t.watchers[name]
		delete(t.watchers, name)
		t.mu.Unlock()
		for _, ch := range handlers {
			close(ch)
		}
	}
}

func toSlice(args []any) []any {
	if args == nil {
		return []any{}
	}
	return args
}
