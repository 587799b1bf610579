// Package seatfile parses the seat and session definition files the seat
// factory reads, and watches the directory they live in, reporting
// on-disk changes to a callback without polling.
package seatfile

import (
	"io"
	"strings"

	"seatd/internal/iniscan"
)

// SeatDef is one parsed "Seat Entry" group:
// "ID=<basename>, Hidden=<bool>, Sessions=<name1>;<name2>;…,
// Devices=<class1>:<id1>;…" format.
type SeatDef struct {
	ID       string
	Hidden   bool
	Sessions []string
	Devices  []DeviceDef
}

// DeviceDef is one "class:identifier" entry of a Seat Entry's Devices list.
type DeviceDef struct {
	Class string
	ID    string
}

// SessionDef is one parsed "Session Entry" group: the per-session
// definition file a Seat Entry's Sessions list names by basename.
type SessionDef struct {
	Type                string
	DisplayDevice       string
	X11DisplayDevice    string
	DisplayTemplateName string
	DisplayVariables    map[string]string
}

// ParseSeatDef reads a seat definition file from r.
func ParseSeatDef(r io.Reader) (*SeatDef, bool) {
	groups, err := iniscan.ParseGroups(r)
	if err != nil {
		return nil, false
	}
	entry := iniscan.FindGroup(groups, "Seat Entry")
	if entry == nil {
		return nil, false
	}
	id, ok := entry.Get("ID")
	if !ok || id == "" {
		return nil, false
	}
	def := &SeatDef{ID: id}
	if h, ok := entry.Get("Hidden"); ok {
		def.Hidden = iniscan.ParseBool(h)
	}
	if s, ok := entry.Get("Sessions"); ok {
		def.Sessions = splitNonEmpty(s, ";")
	}
	if d, ok := entry.Get("Devices"); ok {
		for _, item := range splitNonEmpty(d, ";") {
			class, id, ok := strings.Cut(item, ":")
			if !ok {
				continue
			}
			def.Devices = append(def.Devices, DeviceDef{Class: class, ID: id})
		}
	}
	return def, true
}

// ParseSessionDef reads a session definition file from r.
func ParseSessionDef(r io.Reader) (*SessionDef, bool) {
	groups, err := iniscan.ParseGroups(r)
	if err != nil {
		return nil, false
	}
	entry := iniscan.FindGroup(groups, "Session Entry")
	if entry == nil {
		return nil, false
	}
	def := &SessionDef{DisplayVariables: map[string]string{}}
	def.Type, _ = entry.Get("Type")
	def.DisplayDevice, _ = entry.Get("DisplayDevice")
	def.X11DisplayDevice, _ = entry.Get("X11DisplayDevice")
	def.DisplayTemplateName, _ = entry.Get("DisplayTemplateName")
	if v, ok := entry.Get("DisplayVariables"); ok {
		for _, item := range splitNonEmpty(v, ";") {
			k, val, ok := strings.Cut(item, "=")
			if !ok {
				continue
			}
			def.DisplayVariables[k] = val
		}
	}
	return def, true
}

func splitNonEmpty(s, sep string) []string {
	var out []string
	for _, part := range strings.Split(s, sep) {
		part = strings.TrimSpace(part)
		if part != "" {
			out = append(out, part)
		}
	}
	return out
}
