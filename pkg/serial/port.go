// Package serial connects the driver to a module over a host serial port.
package serial

import (
	"errors"
	"fmt"
	"io"
	"sync"

	"github.com/golang/glog"
	"github.com/smallnest/ringbuffer"
	bugst "go.bug.st/serial"
)

// Device is the subset of the go.bug.st serial port used here.
type Device interface {
	io.ReadWriteCloser
	SetRTS(bool) error
	SetDTR(bool) error
}

// ErrClosed is returned by ReadByte once the device stopped delivering
// bytes and the buffer is drained.
var ErrClosed = errors.New("serial port closed")

const readChunk = 256

// Port buffers received bytes so they can be polled without blocking.
type Port struct {
	dev Device
	rb  *ringbuffer.RingBuffer

	lock sync.Mutex
	err  error
	done chan struct{}
}

// Open opens a serial device with 8N1 framing.
func Open(name string, baudRate, bufferSize int) (*Port, error) {
	if name == "" {
		return nil, errors.New("serial port not specified")
	}
	dev, err := bugst.Open(name, &bugst.Mode{
		BaudRate: baudRate,
		DataBits: 8,
		Parity:   bugst.NoParity,
		StopBits: bugst.OneStopBit,
	})
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", name, err)
	}
	glog.V(1).Infof("opened %s at %d baud", name, baudRate)
	return NewPort(dev, bufferSize), nil
}

// NewPort wraps dev and starts pumping its input into a buffer of
// bufferSize bytes.
func NewPort(dev Device, bufferSize int) *Port {
	p := &Port{
		dev:  dev,
		rb:   ringbuffer.New(bufferSize),
		done: make(chan struct{}),
	}
	go p.readLoop()
	return p
}

func (p *Port) readLoop() {
	defer close(p.done)
	buf := make([]byte, readChunk)
	for {
		n, err := p.dev.Read(buf)
		if n > 0 {
			if written, werr := p.rb.Write(buf[:n]); werr != nil {
				glog.Warningf("receive buffer full, %d bytes dropped", n-written)
			}
		}
		if err != nil {
			p.lock.Lock()
			p.err = err
			p.lock.Unlock()
			if err != io.EOF {
				glog.V(1).Infof("serial read stopped: %v", err)
			}
			return
		}
	}
}

// ReadByte implements io.ByteReader.
func (p *Port) ReadByte() (byte, error) {
	c, err := p.rb.ReadByte()
	if err == nil {
		return c, nil
	}
	if err := p.Err(); err != nil {
		return 0, ErrClosed
	}
	return 0, err
}

// Buffered returns the number of received bytes not read yet.
func (p *Port) Buffered() int {
	return p.rb.Length()
}

// Write implements io.Writer.
func (p *Port) Write(b []byte) (int, error) {
	return p.dev.Write(b)
}

// Err returns the error which stopped the receiver, if any.
func (p *Port) Err() error {
	p.lock.Lock()
	defer p.lock.Unlock()
	return p.err
}

// Done is closed when the receiver stops.
func (p *Port) Done() <-chan struct{} {
	return p.done
}

// Close closes the device and waits for the receiver to stop.
func (p *Port) Close() error {
	err := p.dev.Close()
	<-p.done
	return err
}
