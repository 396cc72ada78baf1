package serial

import (
	"bytes"
	"io"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/robotalks/rn487x.go/pkg/rn487x"
)

type fakeDevice struct {
	rx     chan []byte
	lock   sync.Mutex
	tx     bytes.Buffer
	lines  []string
	closed bool
}

func newFakeDevice() *fakeDevice {
	return &fakeDevice{rx: make(chan []byte, 4)}
}

func (d *fakeDevice) Read(p []byte) (int, error) {
	b, ok := <-d.rx
	if !ok {
		return 0, io.EOF
	}
	return copy(p, b), nil
}

func (d *fakeDevice) Write(p []byte) (int, error) {
	d.lock.Lock()
	defer d.lock.Unlock()
	return d.tx.Write(p)
}

func (d *fakeDevice) Close() error {
	d.lock.Lock()
	defer d.lock.Unlock()
	if !d.closed {
		d.closed = true
		close(d.rx)
	}
	return nil
}

func (d *fakeDevice) SetRTS(v bool) error {
	d.record("rts", v)
	return nil
}

func (d *fakeDevice) SetDTR(v bool) error {
	d.record("dtr", v)
	return nil
}

func (d *fakeDevice) record(line string, v bool) {
	d.lock.Lock()
	defer d.lock.Unlock()
	if v {
		line += "+"
	} else {
		line += "-"
	}
	d.lines = append(d.lines, line)
}

func TestPortBuffersInput(t *testing.T) {
	dev := newFakeDevice()
	p := NewPort(dev, 16)
	dev.rx <- []byte("AOK\r")
	require.Eventually(t, func() bool { return p.Buffered() == 4 }, time.Second, time.Millisecond)
	var got []byte
	for p.Buffered() > 0 {
		c, err := p.ReadByte()
		require.NoError(t, err)
		got = append(got, c)
	}
	require.Equal(t, "AOK\r", string(got))
	_, err := p.ReadByte()
	require.Error(t, err)

	n, err := p.Write([]byte("GK\r"))
	require.NoError(t, err)
	require.Equal(t, 3, n)
	require.Equal(t, "GK\r", dev.tx.String())

	require.NoError(t, p.Close())
	require.Equal(t, io.EOF, p.Err())
	_, err = p.ReadByte()
	require.Equal(t, ErrClosed, err)
}

func TestPortDropsOverflow(t *testing.T) {
	dev := newFakeDevice()
	p := NewPort(dev, 4)
	dev.rx <- []byte("Rebooting\r")
	dev.rx <- []byte("x")
	require.NoError(t, p.Close())
	require.Equal(t, 4, p.Buffered())
}

func TestPortDrivesModule(t *testing.T) {
	dev := newFakeDevice()
	p := NewPort(dev, 64)
	defer p.Close()
	d := rn487x.New(p)
	d.Timeout = time.Second
	dev.rx <- []byte("RN4871 V1.40 7/9/2019\r")
	require.Eventually(t, func() bool { return p.Buffered() > 0 }, time.Second, time.Millisecond)
	// stale input is dropped before the reply is awaited
	go func() {
		for {
			dev.lock.Lock()
			sent := bytes.HasSuffix(dev.tx.Bytes(), []byte("V\r"))
			dev.lock.Unlock()
			if sent {
				dev.rx <- []byte("RN4871 V1.41\r")
				return
			}
			time.Sleep(time.Millisecond)
		}
	}()
	version, err := d.FirmwareVersion()
	require.NoError(t, err)
	require.Equal(t, "RN4871 V1.41", version)
}

func TestPins(t *testing.T) {
	dev := newFakeDevice()
	p := NewPort(dev, 4)
	defer p.Close()

	pin, err := p.Pin("RTS", false)
	require.NoError(t, err)
	require.NoError(t, pin.Low())
	require.NoError(t, pin.High())

	pin, err = p.Pin(LineDTR, true)
	require.NoError(t, err)
	require.NoError(t, pin.Low())

	require.Equal(t, []string{"rts+", "rts-", "dtr-"}, dev.lines)

	pin, err = p.Pin(LineNone, false)
	require.NoError(t, err)
	require.Nil(t, pin)

	_, err = p.Pin("cts", false)
	require.Error(t, err)
}

func TestConfigAttach(t *testing.T) {
	dev := newFakeDevice()
	p := NewPort(dev, 4)
	defer p.Close()
	conf := NewConfig()
	conf.ResetLine, conf.WakeLine = LineDTR, LineNone
	d := rn487x.New(p)
	require.NoError(t, conf.Attach(p, d))
	require.NotNil(t, d.Reset)
	require.Nil(t, d.Wake)

	conf.WakeLine = "ri"
	require.Error(t, conf.Attach(p, d))
}

func TestOpenRequiresName(t *testing.T) {
	_, err := Open("", 115200, 16)
	require.Error(t, err)
}
