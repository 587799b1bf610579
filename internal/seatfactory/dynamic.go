package seatfactory

import (
	"time"

	"github.com/google/uuid"

	"seatd/internal/seatfile"
	"seatd/internal/session"
)

// NewDynamicSession mints a session with no backing definition file, for
// seatctl's "session add" command. Since there is no on-disk session
// name to derive the deterministic id from, it suffixes with a random
// UUID instead.
func NewDynamicSession(seatBasename string, def seatfile.SessionDef) session.Session {
	id := BusPath(seatBasename) + "/Session" + seatBasename + uuid.New().String()
	return session.New(session.Config{
		ID:                  id,
		Type:                def.Type,
		DisplayDevice:       def.DisplayDevice,
		X11DisplayDevice:    def.X11DisplayDevice,
		CreationTime:        time.Now().UTC().Format("2006-01-02T15:04:05.000000000Z07:00"),
		DisplayTemplateName: def.DisplayTemplateName,
		DisplayVariables:    def.DisplayVariables,
	})
}
