//go:build linux

package vtmonitor

import (
	"fmt"
	"os"
	"sync"
	"time"
	"unsafe"

	"golang.org/x/sys/unix"
)

// Linux VT ioctl numbers, from linux/vt.h. golang.org/x/sys/unix doesn't
// name these (they're not syscalls, just ioctl request codes), so they're
// spelled out here the way snapd's low-level Linux helpers do for ioctls
// x/sys leaves unwrapped.
const (
	vtGetState = 0x5603
	vtActivate = 0x5606

	consoleDevice = "/dev/tty0"
)

// vtStat mirrors struct vt_stat from linux/vt.h.
type vtStat struct {
	VActive uint16
	VSignal uint16
	VState  uint16
}

// pollInterval is how often the watcher goroutine polls VT_GETSTATE for
// a foreground VT change. VT_WAITACTIVE takes the VT to wait for, not a
// "wait for any switch" wildcard, so a monitor that doesn't know in
// advance which VT session will come next has no blocking ioctl to wait
// on and must poll instead.
const pollInterval = 250 * time.Millisecond

// Linux is the production VT Monitor, backed by ioctls against
// /dev/tty0. A single background goroutine polls VT_GETSTATE for the
// foreground VT and fans each change out to subscribers — the one
// producer every subscriber's notification passes through.
type Linux struct {
	f *os.File

	mu        sync.Mutex
	listeners map[int]func(uint32)
	nextID    int

	stop chan struct{}
}

// OpenLinux opens the console device and starts the watcher goroutine.
func OpenLinux() (*Linux, error) {
	f, err := os.OpenFile(consoleDevice, os.O_RDWR, 0)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", consoleDevice, err)
	}
	l := &Linux{f: f, listeners: map[int]func(uint32){}, stop: make(chan struct{})}
	go l.watch()
	return l, nil
}

// Close stops the watcher goroutine and closes the console device.
func (l *Linux) Close() error {
	close(l.stop)
	return l.f.Close()
}

func (l *Linux) GetActive() (uint32, error) {
	var st vtStat
	_, _, errno := unix.Syscall(unix.SYS_IOCTL, l.f.Fd(), vtGetState, uintptr(unsafe.Pointer(&st)))
	if errno != 0 {
		return 0, fmt.Errorf("VT_GETSTATE: %w", errno)
	}
	return uint32(st.VActive), nil
}

func (l *Linux) SetActive(n uint32) error {
	_, _, errno := unix.Syscall(unix.SYS_IOCTL, l.f.Fd(), vtActivate, uintptr(n))
	if errno != 0 {
		return fmt.Errorf("VT_ACTIVATE: %w", errno)
	}
	return nil
}

func (l *Linux) Subscribe(handler func(n uint32)) (unsubscribe func()) {
	l.mu.Lock()
	id := l.nextID
	l.nextID++
	l.listeners[id] = handler
	l.mu.Unlock()

	return func() {
		l.mu.Lock()
		delete(l.listeners, id)
		l.mu.Unlock()
	}
}

// watch polls VT_GETSTATE for the foreground VT to change, then reports
// the new value to every subscriber.
func (l *Linux) watch() {
	ticker := time.NewTicker(pollInterval)
	defer ticker.Stop()

	last, _ := l.GetActive()
	for {
		select {
		case <-l.stop:
			return
		case <-ticker.C:
		}
		n, err := l.GetActive()
		if err != nil || n == last {
			continue
		}
		last = n

		l.mu.Lock()
		handlers := make([]func(uint32), 0, len(l.listeners))
		for _, h := range l.listeners {
			handlers = append(handlers, h)
		}
		l.mu.Unlock()
		for _, h := range handlers {
			h(n)
		}
	}
}

var _ Monitor = (*Linux)(nil)
