// Package seatfactory builds a *seat.Seat and its initial
// sessions/devices from on-disk definition files.
package seatfactory

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"seatd/internal/displaytemplate"
	"seatd/internal/seatfile"
	"seatd/internal/seatlog"
	"seatd/internal/session"
	"seatd/internal/transport"
	"seatd/internal/vtmonitor"

	"seatd/internal/seat"
)

// busPathPrefix mirrors the logind-compatible object path convention
// dbustransport registers seats under.
const busPathPrefix = "/org/freedesktop/login1/seat"

// BusPath returns the D-Bus object path a seat with the given basename is
// registered at.
func BusPath(seatBasename string) string {
	return busPathPrefix + "/" + seatBasename
}

// SessionID returns the deterministic session id convention:
// "<bus-path>/Session<seat-basename><session-name>".
func SessionID(seatBasename, sessionName string) string {
	return BusPath(seatBasename) + "/Session" + seatBasename + sessionName
}

// Factory constructs seats from definition files under dir and hands
// templates to every seat it builds. Build itself never looks a template
// up: a session naming a missing template is still built, and the
// template is resolved only at open-request time.
type Factory struct {
	dir         string
	templates   *displaytemplate.Registry
	transportFor func(seatBasename string) transport.Transport
	vtFor       func(seatBasename string) vtmonitor.Monitor
	log         *seatlog.Logger
}

// Config supplies a Factory's collaborators.
type Config struct {
	Dir       string
	Templates *displaytemplate.Registry
	// TransportFor returns the Transport a seat named seatBasename should
	// use. Called once per Build.
	TransportFor func(seatBasename string) transport.Transport
	// VTFor is called once per Build with the definition's ID and decides
	// the seat's kind: a non-nil Monitor makes the seat Static with that
	// monitor, nil makes it Dynamic. When VTFor itself is nil every seat
	// is Dynamic. seatd returns a monitor only for its configured default
	// seat.
	VTFor func(seatBasename string) vtmonitor.Monitor
	Log   *seatlog.Logger
}

// New returns a Factory reading seat and session definition files from
// cfg.Dir.
func New(cfg Config) *Factory {
	return &Factory{
		dir:          cfg.Dir,
		templates:    cfg.Templates,
		transportFor: cfg.TransportFor,
		vtFor:        cfg.VTFor,
		log:          cfg.Log,
	}
}

// Build parses the seat definition file named basename (without
// extension) under the factory's directory and constructs the seat, its
// devices, and its sessions. A hidden seat yields (nil, nil, false) — not
// an error. A missing or malformed seat definition file is an error;
// missing session definition files are logged and skipped.
func (f *Factory) Build(basename string) (*seat.Seat, []session.Session, bool, error) {
	path := filepath.Join(f.dir, basename)
	file, err := os.Open(path)
	if err != nil {
		return nil, nil, false, fmt.Errorf("seatfactory: open %s: %w", path, err)
	}
	defer file.Close()

	def, ok := seatfile.ParseSeatDef(file)
	if !ok {
		return nil, nil, false, fmt.Errorf("seatfactory: %s is not a valid seat definition file", path)
	}
	if def.Hidden {
		return nil, nil, false, nil
	}

	var vt vtmonitor.Monitor
	kind := seat.Dynamic
	if f.vtFor != nil {
		if m := f.vtFor(def.ID); m != nil {
			vt = m
			kind = seat.Static
		}
	}

	var tr transport.Transport
	if f.transportFor != nil {
		tr = f.transportFor(def.ID)
	}

	s := seat.New(seat.Config{
		ID:        BusPath(def.ID),
		Kind:      kind,
		Type:      "seat",
		Templates: f.templates,
		Transport: tr,
		VT:        vt,
		Log:       f.log,
	})

	for _, dev := range def.Devices {
		s.AddDevice(seat.Device{Class: dev.Class, ID: dev.ID})
	}

	var sessions []session.Session
	for _, name := range def.Sessions {
		sess, err := f.buildSession(def.ID, name)
		if err != nil {
			f.log.OpenRequestSkipped(SessionID(def.ID, name), err.Error())
			continue
		}
		sessions = append(sessions, sess)
		s.AddSession(sess)
	}

	return s, sessions, true, nil
}

func (f *Factory) buildSession(seatBasename, name string) (session.Session, error) {
	path := filepath.Join(f.dir, name)
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("missing session definition file %s", path)
	}
	defer file.Close()

	def, ok := seatfile.ParseSessionDef(file)
	if !ok {
		return nil, fmt.Errorf("%s is not a valid session definition file", path)
	}

	return session.New(session.Config{
		ID:                  SessionID(seatBasename, name),
		Type:                def.Type,
		DisplayDevice:       def.DisplayDevice,
		X11DisplayDevice:    def.X11DisplayDevice,
		CreationTime:        time.Now().UTC().Format("2006-01-02T15:04:05.000000000Z07:00"),
		DisplayTemplateName: def.DisplayTemplateName,
		DisplayVariables:    def.DisplayVariables,
	}), nil
}
