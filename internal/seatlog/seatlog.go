// Package seatlog provides the JSON-lines activity logger seatd uses for
// its own diagnostics: one object per line, appended to a file, with a
// disabled/no-op mode for tests and for embedding the core in another
// process that does its own logging.
package seatlog

import (
	"encoding/json"
	"log"
	"os"
	"sync"
	"time"
)

// Logger appends structured events for one seat to a JSONL file.
type Logger struct {
	enabled bool
	seatID  string

	mu   sync.Mutex
	file *os.File
}

// New opens (creating if necessary) the log file at path and returns a
// Logger that tags every line with seatID. If enabled is false, New
// returns a Logger that performs no I/O and never creates path.
func New(enabled bool, path, seatID string) *Logger {
	l := &Logger{enabled: enabled, seatID: seatID}
	if !enabled {
		return l
	}
	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o600)
	if err != nil {
		log.Printf("seatlog: open %s: %v", path, err)
		l.enabled = false
		return l
	}
	l.file = f
	return l
}

// Nop returns a Logger that discards everything, for tests and for
// components that have no configured log path.
func Nop() *Logger {
	return &Logger{enabled: false}
}

// Close closes the underlying file, if any.
func (l *Logger) Close() error {
	if l.file == nil {
		return nil
	}
	return l.file.Close()
}

func (l *Logger) write(event string, fields map[string]any) {
	if !l.enabled {
		return
	}
	entry := map[string]any{
		"ts":    time.Now().UTC().Format(time.RFC3339Nano),
		"seat":  l.seatID,
		"event": event,
	}
	for k, v := range fields {
		entry[k] = v
	}
	data, err := json.Marshal(entry)
	if err != nil {
		log.Printf("seatlog: marshal %s: %v", event, err)
		return
	}
	data = append(data, '\n')

	l.mu.Lock()
	defer l.mu.Unlock()
	if _, err := l.file.Write(data); err != nil {
		log.Printf("seatlog: write %s: %v", event, err)
	}
}

// SessionAdded logs that a session was inserted into the seat.
func (l *Logger) SessionAdded(sessionID string) {
	l.write("session_added", map[string]any{"session": sessionID})
}

// SessionRemoved logs that a session was removed from the seat.
func (l *Logger) SessionRemoved(sessionID string) {
	l.write("session_removed", map[string]any{"session": sessionID})
}

// ActiveSessionChanged logs an active-session transition. Either id may be
// empty to denote "no session".
func (l *Logger) ActiveSessionChanged(fromID, toID string) {
	l.write("active_session_changed", map[string]any{"from": fromID, "to": toID})
}

// ManagerAttached logs a successful Manage call.
func (l *Logger) ManagerAttached(peer string) {
	l.write("manager_attached", map[string]any{"peer": peer})
}

// ManagerDetached logs Unmanage or peer disappearance.
func (l *Logger) ManagerDetached(peer, reason string) {
	l.write("manager_detached", map[string]any{"peer": peer, "reason": reason})
}

// OpenRequestSkipped logs why an OpenSessionRequest was not emitted.
func (l *Logger) OpenRequestSkipped(sessionID, reason string) {
	l.write("open_request_skipped", map[string]any{"session": sessionID, "reason": reason})
}

// EmitFailed logs a directed or broadcast signal that the transport failed
// to deliver; peer is "" for a broadcast.
// A failed emit never rolls back seat state; this is diagnostics only.
func (l *Logger) EmitFailed(signal, peer string, err error) {
	l.write("emit_failed", map[string]any{"signal": signal, "peer": peer, "error": err.Error()})
}

// VTSwitch logs the outcome of a VT activation attempt.
func (l *Logger) VTSwitch(sessionID string, vt uint32, ok bool) {
	l.write("vt_switch", map[string]any{"session": sessionID, "vt": vt, "ok": ok})
}
