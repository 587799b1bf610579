package transport

import "sync"

// Emission is one recorded call to EmitDirected or EmitBroadcast, in the
// order observed. Peer is "" for a broadcast.
type Emission struct {
	Peer   string
	Signal string
	Args   []any
}

// Fake is an in-memory Transport for tests: it records every emission in
// order (so tests can assert on the full-tier-before-broadcast ordering)
// and lets a test simulate peer disappearance directly.
type Fake struct {
	mu         sync.Mutex
	Emissions  []Emission
	watches    map[string][]func()
	EmitErr    error // if set, every Emit* call fails with this error
}

// NewFake returns an empty Fake transport.
func NewFake() *Fake {
	return &Fake{watches: map[string][]func(){}}
}

func (f *Fake) EmitDirected(peer, signal string, args ...any) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.EmitErr != nil {
		return f.EmitErr
	}
	f.Emissions = append(f.Emissions, Emission{Peer: peer, Signal: signal, Args: args})
	return nil
}

func (f *Fake) EmitBroadcast(signal string, args ...any) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.EmitErr != nil {
		return f.EmitErr
	}
	f.Emissions = append(f.Emissions, Emission{Signal: signal, Args: args})
	return nil
}

func (f *Fake) WatchPeer(peer string, onDisappear func()) (cancel func(), err error) {
	f.mu.Lock()
	f.watches[peer] = append(f.watches[peer], onDisappear)
	idx := len(f.watches[peer]) - 1
	f.mu.Unlock()

	return func() {
		f.mu.Lock()
		if handlers, ok := f.watches[peer]; ok && idx < len(handlers) {
			handlers[idx] = nil
		}
		f.mu.Unlock()
	}, nil
}

// Disappear simulates peer leaving the bus, firing every handler watching
// it.
func (f *Fake) Disappear(peer string) {
	f.mu.Lock()
	handlers := append([]func(){}, f.watches[peer]...)
	f.mu.Unlock()

	for _, h := range handlers {
		if h != nil {
			h()
		}
	}
}

var _ Transport = (*Fake)(nil)
