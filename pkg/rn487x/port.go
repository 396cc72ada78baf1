package rn487x

import (
	"io"
	"time"
)

// Port is the serial link to the module.
type Port interface {
	io.ByteReader
	io.Writer
	// Buffered returns the number of received bytes ready for ReadByte.
	Buffered() int
}

// Pin is a digital output driving a module control line.
type Pin interface {
	High() error
	Low() error
}

// Clock provides time to the polling loops.
type Clock interface {
	Now() time.Time
	Sleep(time.Duration)
}

type systemClock struct{}

func (systemClock) Now() time.Time        { return time.Now() }
func (systemClock) Sleep(d time.Duration) { time.Sleep(d) }

// SystemClock is the wall clock.
var SystemClock Clock = systemClock{}
