package rn487x

import (
	"fmt"
	"strings"
)

func (d *Driver) beginHandle(prefix string, c Characteristic) error {
	handle, ok := d.handles.lookup(c.Index)
	if !ok {
		return &ReplyError{Command: fmt.Sprintf("%s(characteristic %d)", prefix, c.Index), Err: ErrHandleUnknown}
	}
	d.begin(prefix)
	d.buf = AppendHex(d.buf, uint32(handle), 4)
	return nil
}

// WriteLocal sets the value of a local characteristic. The value must hold
// between 1 and c.Length bytes.
func (d *Driver) WriteLocal(c Characteristic, value []byte) error {
	if len(value) == 0 || len(value) > c.Length {
		return &ReplyError{Command: cmdWriteLocalCharact, Err: ErrLength}
	}
	if err := d.beginHandle(cmdWriteLocalCharact, c); err != nil {
		return err
	}
	d.buf = append(d.buf, ',')
	d.buf = AppendHexBytes(d.buf, value)
	return d.doAOK()
}

// ReadLocal reads the value of a local characteristic. A nil value with a
// nil error means the module has no value yet (N/A).
func (d *Driver) ReadLocal(c Characteristic) ([]byte, error) {
	if err := d.beginHandle(cmdReadLocalCharact, c); err != nil {
		return nil, err
	}
	cmd := string(d.buf)
	if err := d.send(); err != nil {
		return nil, err
	}
	line := d.readLine(d.Timeout)
	switch {
	case line == "":
		return nil, &ReplyError{Command: cmd, Err: ErrTimeout}
	case line == tokenNotAvailable:
		return nil, nil
	case strings.EqualFold(line, tokenError):
		return nil, &ReplyError{Command: cmd, Reply: line, Err: ErrModule}
	case len(line) != 2*c.Length:
		return nil, &ReplyError{Command: cmd, Reply: line, Err: ErrLength}
	}
	return DecodeHexBytes(make([]byte, 0, c.Length), []byte(line)), nil
}
