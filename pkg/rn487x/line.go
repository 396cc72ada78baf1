package rn487x

import "time"

// flush discards all received bytes.
func (d *Driver) flush() {
	for d.Port.Buffered() > 0 {
		if _, err := d.Port.ReadByte(); err != nil {
			return
		}
	}
}

// readLine collects bytes until CR, a full buffer or timeout. The CR is
// not part of the line. An empty line means nothing arrived in time.
func (d *Driver) readLine(timeout time.Duration) string {
	d.buf = d.buf[:0]
	defer d.clearBuffer()
	start := d.Clock.Now()
	for len(d.buf) < d.bufSize && d.Clock.Now().Sub(start) < timeout {
		if d.Port.Buffered() == 0 {
			d.Clock.Sleep(d.PollInterval)
			continue
		}
		c, err := d.Port.ReadByte()
		if err != nil {
			continue
		}
		if c == cr {
			break
		}
		d.buf = append(d.buf, c)
	}
	return string(d.buf)
}

func (d *Driver) clearBuffer() {
	d.buf = d.buf[:0]
}
