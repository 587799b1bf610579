package vtmonitor

import "sync"

// Fake is an in-memory Monitor for tests: SetActive only records the
// request, and active-changed fires only when the test calls Activate, so
// a seat test decides when (and to which VT) a switch completes. Activate
// notifies subscribers in no defined order.
type Fake struct {
	mu        sync.Mutex
	active    uint32
	listeners map[int]func(uint32)
	nextID    int

	// SetActiveErr, if non-nil, is returned by SetActive instead of
	// performing the switch.
	SetActiveErr error

	// Calls records every n passed to SetActive, in order.
	Calls []uint32
}

// NewFake returns a Fake reporting initial as the current VT.
func NewFake(initial uint32) *Fake {
	return &Fake{active: initial, listeners: map[int]func(uint32){}}
}

func (f *Fake) GetActive() (uint32, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.active, nil
}

func (f *Fake) SetActive(n uint32) error {
	f.mu.Lock()
	f.Calls = append(f.Calls, n)
	err := f.SetActiveErr
	f.mu.Unlock()
	return err
}

func (f *Fake) Subscribe(handler func(n uint32)) (unsubscribe func()) {
	f.mu.Lock()
	id := f.nextID
	f.nextID++
	f.listeners[id] = handler
	f.mu.Unlock()

	return func() {
		f.mu.Lock()
		delete(f.listeners, id)
		f.mu.Unlock()
	}
}

// Activate sets the current VT and notifies every subscriber, simulating
// the platform completing a switch (whether or not anyone asked for it).
func (f *Fake) Activate(n uint32) {
	f.mu.Lock()
	f.active = n
	handlers := make([]func(uint32), 0, len(f.listeners))
	for _, h := range f.listeners {
		handlers = append(handlers, h)
	}
	f.mu.Unlock()

	for _, h := range handlers {
		h(n)
	}
}
