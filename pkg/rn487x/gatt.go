package rn487x

import (
	"errors"

	"github.com/golang/glog"
)

// Characteristic is a locally defined characteristic. Index is its
// position in definition order and keys the handle table.
type Characteristic struct {
	Index      int
	UUID       string
	Properties Property
	Length     int
	Clamped    bool // requested length was out of range
}

type handleTable struct {
	defined []Characteristic
	handles []uint16
	found   int // write cursor of the last listing
}

func newHandleTable(capacity int) handleTable {
	return handleTable{handles: make([]uint16, capacity)}
}

// slot maps a definition index to its position in the listing. Notify and
// indicate characteristics have no slot.
func (t *handleTable) slot(index int) int {
	if index >= len(t.defined) {
		return index
	}
	if !Listed(t.defined[index].Properties) {
		return -1
	}
	n := 0
	for _, c := range t.defined[:index] {
		if Listed(c.Properties) {
			n++
		}
	}
	return n
}

func (t *handleTable) lookup(index int) (uint16, bool) {
	if index < 0 {
		return 0, false
	}
	i := t.slot(index)
	if i < 0 || i >= t.found {
		return 0, false
	}
	return t.handles[i], true
}

// ClampLength limits a value length to 1-20 bytes.
func ClampLength(n int) (int, bool) {
	switch {
	case n < MinValueLen:
		return MinValueLen, true
	case n > MaxValueLen:
		return MaxValueLen, true
	}
	return n, false
}

// ValidUUID checks a UUID is 4 or 32 digits long.
func ValidUUID(uuid string) error {
	switch len(uuid) {
	case PrivateUUIDLen, PublicUUIDLen:
		return nil
	}
	return ErrInvalidUUID
}

// ClearAllServices removes all user services and characteristics. The
// module needs a reboot for this to take effect. The handle table is
// emptied as well.
func (d *Driver) ClearAllServices() error {
	d.begin(cmdClearAllServices)
	if err := d.doAOK(); err != nil {
		return err
	}
	d.handles.defined = nil
	d.handles.found = 0
	return nil
}

// DefineService starts a public (4 digit) or private (32 digit) service.
// Characteristics defined next belong to it.
func (d *Driver) DefineService(uuid string) error {
	if err := ValidUUID(uuid); err != nil {
		return &ReplyError{Command: cmdDefineService + uuid, Err: err}
	}
	d.begin(cmdDefineService)
	d.buf = append(d.buf, uuid...)
	return d.doAOK()
}

// DefineCharacteristic adds a characteristic to the current service and
// appends it to the handle table. Its handle stays unknown until
// RefreshHandles.
func (d *Driver) DefineCharacteristic(uuid string, props Property, length int) (Characteristic, error) {
	length, clamped := ClampLength(length)
	if clamped {
		glog.Warningf("characteristic %s: length clamped to %d", uuid, length)
	}
	if err := ValidUUID(uuid); err != nil {
		return Characteristic{}, &ReplyError{Command: cmdDefineCharact + uuid, Err: err}
	}
	if len(d.handles.defined) >= len(d.handles.handles) {
		return Characteristic{}, ErrOverflow
	}
	d.begin(cmdDefineCharact)
	d.buf = append(d.buf, uuid...)
	d.buf = append(d.buf, ',')
	d.buf = AppendHex(d.buf, uint32(props), 2)
	d.buf = append(d.buf, ',')
	d.buf = AppendHex(d.buf, uint32(length), 2)
	if err := d.doAOK(); err != nil {
		return Characteristic{}, err
	}
	c := Characteristic{
		Index:      len(d.handles.defined),
		UUID:       uuid,
		Properties: props,
		Length:     length,
		Clamped:    clamped,
	}
	d.handles.defined = append(d.handles.defined, c)
	return c, nil
}

// Characteristics returns the characteristics defined so far.
func (d *Driver) Characteristics() []Characteristic {
	return append([]Characteristic(nil), d.handles.defined...)
}

// Handle returns the discovered handle of c. Notify and indicate
// characteristics are not listed and have no handle.
func (d *Driver) Handle(c Characteristic) (uint16, bool) {
	return d.handles.lookup(c.Index)
}

// Capacity is the number of characteristics the handle table holds.
func (d *Driver) Capacity() int {
	return len(d.handles.handles)
}

// ListingLayout is the layout used to parse the "LS" listing.
func (d *Driver) ListingLayout() ListingLayout {
	return d.Layout
}

// Handles returns the handles discovered by the last listing.
func (d *Driver) Handles() []uint16 {
	return append([]uint16(nil), d.handles.handles[:d.handles.found]...)
}

// RefreshHandles lists the characteristics and rebuilds the handle table in
// listing order, skipping notify and indicate records. It returns the
// number of handles stored. When the listing times out before END,
// ErrListingIncomplete is returned along with the handles seen.
func (d *Driver) RefreshHandles() (int, error) {
	d.begin(cmdListCharacts)
	if err := d.send(); err != nil {
		return 0, err
	}
	defer d.clearBuffer()
	t := &d.handles
	t.found = 0
	p := NewListingParser(d.Layout, d.buf[:0:d.bufSize])
	start := d.Clock.Now()
	for d.Clock.Now().Sub(start) < d.ListTimeout {
		if d.Port.Buffered() == 0 {
			d.Clock.Sleep(d.PollInterval)
			continue
		}
		c, err := d.Port.ReadByte()
		if err != nil {
			return t.found, err
		}
		r := p.Parse(c)
		switch r.Kind {
		case RecordEnd:
			glog.V(2).Infof("listing done, %d handles", t.found)
			return t.found, nil
		case RecordHandle:
			if t.found >= len(t.handles) {
				return t.found, ErrOverflow
			}
			glog.V(4).Infof("handle[%d] = %04X (property %02X)", t.found, r.Handle, r.Property)
			t.handles[t.found] = r.Handle
			t.found++
		case RecordSkipped:
			glog.V(4).Infof("skip handle, property %02X", r.Property)
		}
	}
	glog.Warningf("listing timed out after %d handles", t.found)
	return t.found, &ReplyError{Command: cmdListCharacts, Err: ErrListingIncomplete}
}

// IsIncomplete reports whether err is a timed out listing.
func IsIncomplete(err error) bool {
	return errors.Is(err, ErrListingIncomplete)
}
