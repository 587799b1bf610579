// Package vtmonitor defines the VT Monitor interface and its
// implementations: a Linux ioctl-backed monitor for the real daemon, and
// an in-memory fake for tests.
package vtmonitor

// Monitor is the narrow interface the seat core depends on for
// virtual-terminal switching. A single producer drives it: whenever the
// platform's foreground VT changes, every subscriber registered via
// Subscribe is notified with the new VT number.
//
// SetActive returns promptly; completion of the switch is signaled later
// through the active-changed notification, and is not guaranteed to
// report the requested VT — the user or another process may switch again
// before the requested switch lands.
type Monitor interface {
	// GetActive returns the platform's current foreground VT.
	GetActive() (uint32, error)
	// SetActive asks the platform to switch to VT n. A non-nil error
	// means the platform refused outright; it says nothing about
	// whether a previously requested switch will still complete.
	SetActive(n uint32) error
	// Subscribe registers handler to be called on every active-changed
	// notification. It returns an unsubscribe function. Handlers are
	// invoked synchronously, on whatever goroutine observes the platform
	// event; the order among handlers is not defined.
	Subscribe(handler func(n uint32)) (unsubscribe func())
}
