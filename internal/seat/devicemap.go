package seat

import (
	"fmt"
	"strconv"
	"strings"
)

// vtDevice returns the canonical text display device for VT n, e.g.
// vtDevice(2) == "/dev/tty2". Static seats bind sessions to VTs through
// this device naming convention, exactly as the kernel does.
func vtDevice(n uint32) string {
	return fmt.Sprintf("/dev/tty%d", n)
}

// deviceToVT parses a VT number back out of a text display device path.
// It returns ok == false for anything that isn't "/dev/tty<digits>" —
// notably X11 display devices, which are never VT-addressable directly.
func deviceToVT(device string) (uint32, bool) {
	const prefix = "/dev/tty"
	if !strings.HasPrefix(device, prefix) {
		return 0, false
	}
	digits := device[len(prefix):]
	if digits == "" {
		return 0, false
	}
	n, err := strconv.ParseUint(digits, 10, 32)
	if err != nil {
		return 0, false
	}
	return uint32(n), true
}
