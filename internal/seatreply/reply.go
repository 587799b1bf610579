// Package seatreply models the deferred method reply the seat
// coordinator needs for ActivateSession against an already-open session
// and for Session's activate-request signal: a reply whose result isn't
// known until a later VT-switch notification completes it.
package seatreply

import "sync"

// Reply is an opaque, exactly-once-completable handle for a method call
// whose result is not known until a later event (the VT Monitor's next
// active-changed notification). Completing it twice is a programming
// error and is reported via the ok return value rather than a panic, so a
// defensive caller can log and move on instead of crashing the seat's
// single-threaded event loop.
type Reply struct {
	once sync.Once
	done func(error)
}

// New wraps done, a callback invoked exactly once with the call's final
// error (nil on success).
func New(done func(error)) *Reply {
	return &Reply{done: done}
}

// Complete invokes the wrapped callback with err, exactly once. The second
// and later calls are no-ops; ok reports whether this call was the one
// that completed the reply.
func (r *Reply) Complete(err error) (ok bool) {
	ok = false
	r.once.Do(func() {
		ok = true
		r.done(err)
	})
	return ok
}
