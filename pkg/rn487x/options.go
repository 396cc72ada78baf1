package rn487x

import (
	"flag"
	"time"
)

// Options configures timing and sizing of a Driver.
type Options struct {
	Timeout      time.Duration
	ResetTimeout time.Duration
	ListTimeout  time.Duration
	CommandDelay time.Duration
	PollInterval time.Duration
	BufferSize   int
	Capacity     int
	// Layout of the "LS" listing, DefaultListingLayout when nil.
	Layout *ListingLayout
}

var defaultOptions = Options{
	Timeout:      DefaultTimeout,
	ResetTimeout: DefaultResetTimeout,
	ListTimeout:  DefaultListTimeout,
	CommandDelay: DefaultCommandDelay,
	PollInterval: DefaultPollInterval,
	BufferSize:   BufferSize,
	Capacity:     MaxCharacteristics,
}

// SetupFlags sets command line flags.
func SetupFlags() {
	flag.DurationVar(&defaultOptions.Timeout, "timeout", defaultOptions.Timeout, "Reply timeout.")
	flag.DurationVar(&defaultOptions.ResetTimeout, "reset-timeout", defaultOptions.ResetTimeout, "Reboot timeout.")
	flag.DurationVar(&defaultOptions.ListTimeout, "list-timeout", defaultOptions.ListTimeout, "Characteristic listing timeout.")
	flag.DurationVar(&defaultOptions.CommandDelay, "cmd-delay", defaultOptions.CommandDelay, "Guard time before entering command mode.")
	flag.IntVar(&defaultOptions.BufferSize, "line-buffer", defaultOptions.BufferSize, "Line buffer size in bytes.")
	flag.IntVar(&defaultOptions.Capacity, "max-characteristics", defaultOptions.Capacity, "Handle table capacity.")
	flag.Func("listing", "Characteristic listing layout: 128, 16 or auto.", defaultOptions.SetListing)
}

// SetListing sets Layout from a layout name.
func (o *Options) SetListing(name string) error {
	l, err := ParseListingLayout(name)
	if err != nil {
		return err
	}
	o.Layout = &l
	return nil
}

// DefaultOptions gets the default options.
func DefaultOptions() *Options {
	return &defaultOptions
}

// NewOptions creates options with defaults.
func NewOptions() *Options {
	opts := defaultOptions
	return &opts
}

// NewDriver creates a Driver using the options. Zero values fall back to
// the defaults.
func (o *Options) NewDriver(port Port) *Driver {
	capacity := o.Capacity
	if capacity <= 0 {
		capacity = MaxCharacteristics
	}
	d := NewWithCapacity(port, capacity)
	if o.BufferSize > 0 {
		d.buf = make([]byte, 0, o.BufferSize)
		d.bufSize = o.BufferSize
	}
	setDuration(&d.Timeout, o.Timeout)
	setDuration(&d.ResetTimeout, o.ResetTimeout)
	setDuration(&d.ListTimeout, o.ListTimeout)
	setDuration(&d.CommandDelay, o.CommandDelay)
	setDuration(&d.PollInterval, o.PollInterval)
	if o.Layout != nil {
		d.Layout = *o.Layout
	}
	return d
}

func setDuration(dst *time.Duration, v time.Duration) {
	if v > 0 {
		*dst = v
	}
}
