package rn487x

import (
	"strings"
	"time"

	"github.com/golang/glog"
)

// Mode is the command grammar the module currently accepts.
type Mode int

// Operation modes.
const (
	ModeUnknown Mode = iota
	ModeResetting
	ModeData
	ModeCommand
)

// String implements fmt.Stringer.
func (m Mode) String() string {
	switch m {
	case ModeResetting:
		return "resetting"
	case ModeData:
		return "data"
	case ModeCommand:
		return "command"
	}
	return "unknown"
}

// Identity holds the identity strings last accepted by the module.
type Identity struct {
	SerializedName string
	DeviceName     string
	ManufName      string
}

// Driver speaks the command protocol over a Port.
type Driver struct {
	Port  Port
	Reset Pin // optional, active low
	Wake  Pin // optional, active low
	Clock Clock

	Timeout      time.Duration
	ResetTimeout time.Duration
	ListTimeout  time.Duration
	CommandDelay time.Duration
	PollInterval time.Duration
	Layout       ListingLayout

	buf      []byte
	bufSize  int
	handles  handleTable
	mode     Mode
	identity Identity
}

// New creates a Driver with default timing, buffer size and table capacity.
func New(port Port) *Driver {
	return NewWithCapacity(port, MaxCharacteristics)
}

// NewWithCapacity creates a Driver whose handle table holds up to capacity
// characteristics.
func NewWithCapacity(port Port, capacity int) *Driver {
	return &Driver{
		Port:         port,
		Clock:        SystemClock,
		Timeout:      DefaultTimeout,
		ResetTimeout: DefaultResetTimeout,
		ListTimeout:  DefaultListTimeout,
		CommandDelay: DefaultCommandDelay,
		PollInterval: DefaultPollInterval,
		Layout:       DefaultListingLayout,
		buf:          make([]byte, 0, BufferSize),
		bufSize:      BufferSize,
		handles:      newHandleTable(capacity),
	}
}

// Mode returns the tracked operation mode.
func (d *Driver) Mode() Mode {
	return d.mode
}

// Identity returns the identity strings set through this driver.
func (d *Driver) Identity() Identity {
	return d.identity
}

// SendCommand writes a raw command followed by the terminator.
func (d *Driver) SendCommand(cmd string) error {
	d.buf = append(d.buf[:0], cmd...)
	return d.send()
}

// Exec sends a raw command and returns the first reply line.
func (d *Driver) Exec(cmd string) (string, error) {
	if err := d.SendCommand(cmd); err != nil {
		return "", err
	}
	line := d.readLine(d.Timeout)
	if line == "" {
		return "", &ReplyError{Command: cmd, Err: ErrTimeout}
	}
	return line, nil
}

// SendData writes raw bytes without a terminator, e.g. payload in data mode.
func (d *Driver) SendData(p []byte) error {
	_, err := d.Port.Write(p)
	return err
}

// begin starts a new command in the line buffer.
func (d *Driver) begin(prefix string) {
	d.buf = append(d.buf[:0], prefix...)
}

// send writes the command in the line buffer, drops stale input and then
// writes the terminator. The buffer is left empty.
func (d *Driver) send() error {
	defer d.clearBuffer()
	if len(d.buf) > d.bufSize {
		return &ReplyError{Command: string(d.buf), Err: ErrCommandTooLong}
	}
	glog.V(2).Infof("SEND %q", d.buf)
	if _, err := d.Port.Write(d.buf); err != nil {
		return err
	}
	d.flush()
	_, err := d.Port.Write([]byte{cr})
	return err
}

// expect reads one line and checks that it contains token.
func (d *Driver) expect(cmd, token string, timeout time.Duration) (string, error) {
	line := d.readLine(timeout)
	if line == "" {
		glog.V(2).Infof("RECV timeout, expecting %q", token)
		return "", &ReplyError{Command: cmd, Err: ErrTimeout}
	}
	glog.V(2).Infof("RECV %q", line)
	if !strings.Contains(line, token) {
		return line, &ReplyError{Command: cmd, Reply: line, Err: ErrMismatch}
	}
	return line, nil
}

// do sends the command in the line buffer and waits for token.
func (d *Driver) do(token string, timeout time.Duration) error {
	cmd := string(d.buf)
	if err := d.send(); err != nil {
		return err
	}
	_, err := d.expect(cmd, token, timeout)
	return err
}

// doAOK runs the request/ack exchange used by all setters.
func (d *Driver) doAOK() error {
	return d.do(tokenAOK, d.Timeout)
}

// TruncateName cuts name to max bytes and reports whether it was cut.
func TruncateName(name string, max int) (string, bool) {
	if len(name) > max {
		return name[:max], true
	}
	return name, false
}

func (d *Driver) setName(prefix, name string, max int) (string, bool, error) {
	name, truncated := TruncateName(name, max)
	if truncated {
		glog.Warningf("%s name truncated to %q", strings.TrimSuffix(prefix, ","), name)
	}
	d.begin(prefix)
	d.buf = append(d.buf, name...)
	return name, truncated, d.doAOK()
}
