package seatfile

import (
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/gofrs/flock"
)

var debounceDelay = 200 * time.Millisecond

// Watcher watches a seat/session definition directory and calls onChange,
// debounced, whenever something under it is created, written, renamed, or
// removed. Watching the directory rather than individual files handles
// editors that save via a rename-swap.
type Watcher struct {
	w *fsnotify.Watcher
}

// Watch starts watching dir. If the underlying platform watcher cannot be
// created, it returns a nil *Watcher and the error; callers should degrade
// to a periodic rescan rather than fail the daemon outright.
func Watch(dir string, onChange func()) (*Watcher, error) {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	if err := w.Add(dir); err != nil {
		w.Close()
		return nil, err
	}

	go func() {
		var debounce *time.Timer
		for {
			select {
			case _, ok := <-w.Events:
				if !ok {
					return
				}
				if debounce != nil {
					debounce.Stop()
				}
				debounce = time.AfterFunc(debounceDelay, onChange)
			case _, ok := <-w.Errors:
				if !ok {
					return
				}
			}
		}
	}()

	return &Watcher{w: w}, nil
}

// Close stops the watch.
func (w *Watcher) Close() error {
	return w.w.Close()
}

// WithRescanLock runs fn while holding an exclusive advisory lock on
// lockPath, so two processes that both take the lock never run their fn
// at the same time. fn does not run, and a non-nil error is returned, if
// the lock cannot be acquired.
func WithRescanLock(lockPath string, fn func() error) error {
	fl := flock.New(lockPath)
	if err := fl.Lock(); err != nil {
		return err
	}
	defer fl.Unlock()
	return fn()
}
