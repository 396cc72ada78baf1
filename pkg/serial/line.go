package serial

import (
	"fmt"
	"strings"

	"github.com/robotalks/rn487x.go/pkg/rn487x"
)

// Modem control lines usable as module pins.
const (
	LineRTS  = "rts"
	LineDTR  = "dtr"
	LineNone = "none"
)

// LinePin drives a module pin from a modem control line. An asserted line
// pulls the TTL output low, so High releases the line unless Invert is set.
type LinePin struct {
	Invert bool

	set func(bool) error
}

// High implements rn487x.Pin.
func (p *LinePin) High() error {
	return p.set(p.Invert)
}

// Low implements rn487x.Pin.
func (p *LinePin) Low() error {
	return p.set(!p.Invert)
}

// Pin maps a line name to a pin. "none" or empty gives a nil Pin.
func (p *Port) Pin(line string, invert bool) (rn487x.Pin, error) {
	switch strings.ToLower(line) {
	case LineRTS:
		return &LinePin{Invert: invert, set: p.dev.SetRTS}, nil
	case LineDTR:
		return &LinePin{Invert: invert, set: p.dev.SetDTR}, nil
	case LineNone, "":
		return nil, nil
	}
	return nil, fmt.Errorf("unknown control line %q", line)
}
