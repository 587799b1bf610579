package seat

import (
	"os"
	"path/filepath"
	"testing"

	"seatd/internal/displaytemplate"
	"seatd/internal/seatlog"
	"seatd/internal/session"
	"seatd/internal/transport"
	"seatd/internal/vtmonitor"
)

func writeTemplate(t *testing.T, dir, name, body string) {
	t.Helper()
	if err := os.WriteFile(filepath.Join(dir, name+".display"), []byte(body), 0o644); err != nil {
		t.Fatalf("write template: %v", err)
	}
}

func newTestSeat(t *testing.T, kind Kind, vt vtmonitor.Monitor) (*Seat, *transport.Fake, *displaytemplate.Registry) {
	t.Helper()
	tr := transport.NewFake()
	templates := displaytemplate.NewRegistry(t.TempDir())
	s := New(Config{
		ID:        "/org/freedesktop/login1/seat/seat0",
		Kind:      kind,
		Type:      "seat",
		Templates: templates,
		Transport: tr,
		VT:        vt,
		Log:       seatlog.Nop(),
	})
	return s, tr, templates
}

func newMemSession(id, typ, device, x11device, ctime string) *session.MemSession {
	return session.New(session.Config{
		ID:                  id,
		Type:                typ,
		DisplayDevice:       device,
		X11DisplayDevice:    x11device,
		CreationTime:        ctime,
		DisplayTemplateName: "default",
		DisplayVariables:    map[string]string{"vt": "1"},
	})
}

func TestNewPanicsOnKindVTMismatch(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Fatal("expected panic for Static seat without VT monitor")
		}
	}()
	New(Config{Kind: Static, Templates: displaytemplate.NewRegistry(t.TempDir()), Log: seatlog.Nop()})
}

func TestNewPanicsOnDynamicSeatWithVT(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Fatal("expected panic for Dynamic seat given a VT monitor")
		}
	}()
	New(Config{Kind: Dynamic, VT: vtmonitor.NewFake(1), Templates: displaytemplate.NewRegistry(t.TempDir()), Log: seatlog.Nop()})
}

func TestDevicesAddRemoveDedup(t *testing.T) {
	s, _, _ := newTestSeat(t, Dynamic, nil)
	dev := Device{Class: "input", ID: "event3"}
	s.AddDevice(dev)
	s.AddDevice(dev)
	if devs := s.Devices(); len(devs) != 1 {
		t.Fatalf("Devices() = %+v, want one entry after duplicate add", devs)
	}
	s.RemoveDevice(dev)
	if devs := s.Devices(); len(devs) != 0 {
		t.Fatalf("Devices() = %+v, want empty after remove", devs)
	}
}

func TestDeviceAddRemoveBroadcastsOnRealChangeOnly(t *testing.T) {
	s, tr, _ := newTestSeat(t, Dynamic, nil)
	dev := Device{Class: "input", ID: "event3"}

	s.AddDevice(dev)
	s.AddDevice(dev) // duplicate: must not emit a second time

	s.RemoveDevice(dev)
	s.RemoveDevice(dev) // already gone: must not emit

	if len(tr.Emissions) != 2 {
		t.Fatalf("Emissions = %+v, want exactly one DeviceAdded and one DeviceRemoved", tr.Emissions)
	}
	added, removed := tr.Emissions[0], tr.Emissions[1]
	if added.Signal != "DeviceAdded" || added.Args[0] != dev.Class || added.Args[1] != dev.ID {
		t.Fatalf("first emission = %+v, want DeviceAdded(%s, %s)", added, dev.Class, dev.ID)
	}
	if removed.Signal != "DeviceRemoved" || removed.Args[0] != dev.Class || removed.Args[1] != dev.ID {
		t.Fatalf("second emission = %+v, want DeviceRemoved(%s, %s)", removed, dev.Class, dev.ID)
	}
}

func TestCanActivateSessionsOnlyOnStatic(t *testing.T) {
	dyn, _, _ := newTestSeat(t, Dynamic, nil)
	if dyn.CanActivateSessions() {
		t.Error("Dynamic seat reports CanActivateSessions")
	}
	stat, _, _ := newTestSeat(t, Static, vtmonitor.NewFake(1))
	if !stat.CanActivateSessions() {
		t.Error("Static seat reports !CanActivateSessions")
	}
}

func TestGetActiveSessionErrorsWhenNone(t *testing.T) {
	s, _, _ := newTestSeat(t, Dynamic, nil)
	if _, err := s.GetActiveSession(); err == nil {
		t.Fatal("expected error for seat with no active session")
	}
}
