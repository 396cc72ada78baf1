package serial

import (
	"flag"
	"os"
	"strconv"

	"github.com/robotalks/rn487x.go/pkg/rn487x"
)

// Config defines the serial link to the module.
type Config struct {
	Port      string
	BaudRate  int
	ResetLine string
	WakeLine  string
	RxBuffer  int
	Invert    bool
}

var defaultConfig = Config{
	BaudRate:  rn487x.DefaultBaudRate,
	ResetLine: LineRTS,
	WakeLine:  LineNone,
	RxBuffer:  4096,
}

func init() {
	if port := os.Getenv("RN487X_PORT"); port != "" {
		defaultConfig.Port = port
	}
	if baud, err := strconv.Atoi(os.Getenv("RN487X_BAUD")); err == nil && baud > 0 {
		defaultConfig.BaudRate = baud
	}
}

// SetupFlags sets command line flags.
func SetupFlags() {
	flag.StringVar(&defaultConfig.Port, "port", defaultConfig.Port, "Serial device, e.g. /dev/ttyUSB0.")
	flag.IntVar(&defaultConfig.BaudRate, "baud", defaultConfig.BaudRate, "Baud rate.")
	flag.StringVar(&defaultConfig.ResetLine, "reset-line", defaultConfig.ResetLine, "Modem line wired to RST_N: rts, dtr or none.")
	flag.StringVar(&defaultConfig.WakeLine, "wake-line", defaultConfig.WakeLine, "Modem line wired to the wake pin: rts, dtr or none.")
	flag.IntVar(&defaultConfig.RxBuffer, "rx-buffer", defaultConfig.RxBuffer, "Receive buffer size in bytes.")
	flag.BoolVar(&defaultConfig.Invert, "invert-lines", defaultConfig.Invert, "Invert the polarity of reset and wake lines.")
}

// Default gets default config.
func Default() *Config {
	return &defaultConfig
}

// NewConfig creates a config with defaults.
func NewConfig() *Config {
	conf := defaultConfig
	return &conf
}

// Open opens the port and maps the configured control lines.
func (c *Config) Open() (*Port, error) {
	return Open(c.Port, c.BaudRate, c.RxBuffer)
}

// Attach sets the reset and wake pins of d from the configured lines.
func (c *Config) Attach(p *Port, d *rn487x.Driver) error {
	reset, err := p.Pin(c.ResetLine, c.Invert)
	if err != nil {
		return err
	}
	wake, err := p.Pin(c.WakeLine, c.Invert)
	if err != nil {
		return err
	}
	d.Reset, d.Wake = reset, wake
	return nil
}
