package seatfile

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/gofrs/flock"
)

func TestParseSeatDefFull(t *testing.T) {
	src := strings.NewReader("[Seat Entry]\nID=seat0\nHidden=false\nSessions=console;login\nDevices=input:event3;drm:card0\n")
	def, ok := ParseSeatDef(src)
	if !ok {
		t.Fatal("ParseSeatDef returned ok=false")
	}
	if def.ID != "seat0" || def.Hidden {
		t.Errorf("ID/Hidden = %q/%v", def.ID, def.Hidden)
	}
	if len(def.Sessions) != 2 || def.Sessions[0] != "console" || def.Sessions[1] != "login" {
		t.Errorf("Sessions = %+v", def.Sessions)
	}
	want := []DeviceDef{{Class: "input", ID: "event3"}, {Class: "drm", ID: "card0"}}
	if len(def.Devices) != 2 || def.Devices[0] != want[0] || def.Devices[1] != want[1] {
		t.Errorf("Devices = %+v", def.Devices)
	}
}

func TestParseSeatDefHidden(t *testing.T) {
	src := strings.NewReader("[Seat Entry]\nID=seat1\nHidden=true\n")
	def, ok := ParseSeatDef(src)
	if !ok || !def.Hidden {
		t.Fatalf("expected hidden seat, got %+v ok=%v", def, ok)
	}
}

func TestParseSeatDefMissingIDFails(t *testing.T) {
	src := strings.NewReader("[Seat Entry]\nHidden=false\n")
	if _, ok := ParseSeatDef(src); ok {
		t.Fatal("expected ok=false when ID is missing")
	}
}

func TestParseSeatDefMissingGroupFails(t *testing.T) {
	src := strings.NewReader("[Something Else]\nID=seat0\n")
	if _, ok := ParseSeatDef(src); ok {
		t.Fatal("expected ok=false when [Seat Entry] group is missing")
	}
}

func TestParseSessionDefFull(t *testing.T) {
	src := strings.NewReader("[Session Entry]\nType=x11\nDisplayDevice=/dev/tty7\nX11DisplayDevice=:0\nDisplayTemplateName=x11-default\nDisplayVariables=vt=7;display=:0\n")
	def, ok := ParseSessionDef(src)
	if !ok {
		t.Fatal("ParseSessionDef returned ok=false")
	}
	if def.Type != "x11" || def.DisplayDevice != "/dev/tty7" || def.X11DisplayDevice != ":0" {
		t.Errorf("def = %+v", def)
	}
	if def.DisplayTemplateName != "x11-default" {
		t.Errorf("DisplayTemplateName = %q", def.DisplayTemplateName)
	}
	if def.DisplayVariables["vt"] != "7" || def.DisplayVariables["display"] != ":0" {
		t.Errorf("DisplayVariables = %+v", def.DisplayVariables)
	}
}

func TestParseSessionDefMissingGroupFails(t *testing.T) {
	src := strings.NewReader("[Display]\nType=x11\n")
	if _, ok := ParseSessionDef(src); ok {
		t.Fatal("expected ok=false when [Session Entry] group is missing")
	}
}

func TestWatchFiresOnChange(t *testing.T) {
	dir := t.TempDir()
	fired := make(chan struct{}, 1)
	w, err := Watch(dir, func() {
		select {
		case fired <- struct{}{}:
		default:
		}
	})
	if err != nil {
		t.Skipf("fsnotify unavailable in this environment: %v", err)
	}
	defer w.Close()

	debounceDelay = 10 * time.Millisecond
	if err := os.WriteFile(filepath.Join(dir, "seat0"), []byte("[Seat Entry]\nID=seat0\n"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}

	select {
	case <-fired:
	case <-time.After(2 * time.Second):
		t.Fatal("onChange never fired")
	}
}

func TestWithRescanLockExcludesConcurrentCaller(t *testing.T) {
	dir := t.TempDir()
	lockPath := filepath.Join(dir, "rescan.lock")

	entered := make(chan struct{})
	release := make(chan struct{})
	done := make(chan error, 1)
	go func() {
		done <- WithRescanLock(lockPath, func() error {
			close(entered)
			<-release
			return nil
		})
	}()
	<-entered

	fl := flock.New(lockPath)
	locked, err := fl.TryLock()
	if err != nil {
		t.Fatalf("TryLock: %v", err)
	}
	if locked {
		fl.Unlock()
		t.Fatal("expected lock to be held by the first caller")
	}

	close(release)
	if err := <-done; err != nil {
		t.Fatalf("WithRescanLock: %v", err)
	}
}
