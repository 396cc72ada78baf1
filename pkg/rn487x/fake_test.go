package rn487x

import (
	"io"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

// exchange is one scripted command and the bytes the module answers.
type exchange struct {
	cmd   string
	reply string
}

type fakePort struct {
	t       *testing.T
	rx      []byte
	pending []byte
	script  []exchange
	sent    []string
}

func newFakePort(t *testing.T, script ...exchange) *fakePort {
	return &fakePort{t: t, script: script}
}

func (p *fakePort) ReadByte() (byte, error) {
	if len(p.rx) == 0 {
		return 0, io.EOF
	}
	c := p.rx[0]
	p.rx = p.rx[1:]
	return c, nil
}

func (p *fakePort) Buffered() int {
	return len(p.rx)
}

func (p *fakePort) Write(b []byte) (int, error) {
	for _, c := range b {
		p.pending = append(p.pending, c)
		if c == '\r' || string(p.pending) == cmdEnterCommand {
			p.complete(strings.TrimSuffix(string(p.pending), "\r"))
			p.pending = p.pending[:0]
		}
	}
	return len(b), nil
}

func (p *fakePort) complete(cmd string) {
	p.sent = append(p.sent, cmd)
	if len(p.script) == 0 {
		p.t.Errorf("unexpected command %q", cmd)
		return
	}
	ex := p.script[0]
	p.script = p.script[1:]
	require.Equal(p.t, ex.cmd, cmd)
	p.rx = append(p.rx, ex.reply...)
}

func (p *fakePort) inject(s string) {
	p.rx = append(p.rx, s...)
}

func (p *fakePort) done() {
	require.Empty(p.t, p.script, "commands not sent")
}

// fakeClock advances a fixed step on every Now.
type fakeClock struct {
	now   time.Time
	step  time.Duration
	slept time.Duration
}

func (c *fakeClock) Now() time.Time {
	c.now = c.now.Add(c.step)
	return c.now
}

func (c *fakeClock) Sleep(d time.Duration) {
	c.now = c.now.Add(d)
	c.slept += d
}

type fakePin struct {
	name string
	log  *[]string
}

func (p *fakePin) High() error {
	*p.log = append(*p.log, p.name+":high")
	return nil
}

func (p *fakePin) Low() error {
	*p.log = append(*p.log, p.name+":low")
	return nil
}

func newTestDriver(t *testing.T, script ...exchange) (*Driver, *fakePort) {
	port := newFakePort(t, script...)
	d := New(port)
	d.Clock = &fakeClock{now: time.Unix(0, 0), step: time.Millisecond}
	return d, port
}

func withHandles(d *Driver, handles ...uint16) {
	copy(d.handles.handles, handles)
	d.handles.found = len(handles)
}
