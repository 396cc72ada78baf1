package rn487x

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
)

func listing(lines ...string) string {
	s := testUUID + "\r\n"
	for _, l := range lines {
		s += "  " + testUUID + "," + l + "\r\n"
	}
	return s
}

func TestDefineCharacteristic(t *testing.T) {
	d, port := newTestDriver(t,
		exchange{"PC,2A19,02,01", "AOK\r"},
		exchange{"PC,2A1A,0A,01", "AOK\r"},
		exchange{"PC,2A1B,08,14", "AOK\r"},
	)
	c, err := d.DefineCharacteristic("2A19", PropertyRead, 1)
	require.NoError(t, err)
	require.Equal(t, Characteristic{Index: 0, UUID: "2A19", Properties: PropertyRead, Length: 1}, c)

	c, err = d.DefineCharacteristic("2A1A", PropertyRead|PropertyWrite, 0)
	require.NoError(t, err)
	require.Equal(t, 1, c.Index)
	require.Equal(t, 1, c.Length)
	require.True(t, c.Clamped)

	c, err = d.DefineCharacteristic("2A1B", PropertyWrite, 30)
	require.NoError(t, err)
	require.Equal(t, 20, c.Length)
	require.True(t, c.Clamped)

	require.Len(t, d.Characteristics(), 3)
	_, ok := d.Handle(c)
	require.False(t, ok)
	port.done()
}

func TestDefineCharacteristicRejected(t *testing.T) {
	d, port := newTestDriver(t, exchange{"PC,2A19,02,01", "Err\r"})
	_, err := d.DefineCharacteristic("2A19", PropertyRead, 1)
	require.True(t, errors.Is(err, ErrMismatch))
	require.Empty(t, d.Characteristics())
	port.done()
}

func TestInvalidUUID(t *testing.T) {
	d, port := newTestDriver(t)
	_, err := d.DefineCharacteristic("2A1", PropertyRead, 1)
	require.True(t, errors.Is(err, ErrInvalidUUID))
	require.True(t, errors.Is(d.DefineService("180F0"), ErrInvalidUUID))
	require.Empty(t, port.sent)
	port.done()
}

func TestDefineService(t *testing.T) {
	d, port := newTestDriver(t,
		exchange{"PS," + testUUID, "AOK\r"},
		exchange{"PS,180F", "AOK\r"},
	)
	require.NoError(t, d.DefineService(testUUID))
	require.NoError(t, d.DefineService("180F"))
	port.done()
}

func TestDefineOverflow(t *testing.T) {
	port := newFakePort(t, exchange{"PC,2A19,02,01", "AOK\r"})
	d := NewWithCapacity(port, 1)
	d.Clock = &fakeClock{step: 1}
	_, err := d.DefineCharacteristic("2A19", PropertyRead, 1)
	require.NoError(t, err)
	_, err = d.DefineCharacteristic("2A1A", PropertyRead, 1)
	require.True(t, errors.Is(err, ErrOverflow))
	port.done()
}

func TestClearAllServices(t *testing.T) {
	d, port := newTestDriver(t,
		exchange{"PC,2A19,02,01", "AOK\r"},
		exchange{"PZ", "AOK\r"},
	)
	c, err := d.DefineCharacteristic("2A19", PropertyRead, 1)
	require.NoError(t, err)
	withHandles(d, 0x72)
	require.NoError(t, d.ClearAllServices())
	require.Empty(t, d.Characteristics())
	_, ok := d.Handle(c)
	require.False(t, ok)
	port.done()
}

func TestRefreshHandles(t *testing.T) {
	d, port := newTestDriver(t, exchange{"LS", listing("0072,02", "0074,10", "0075,0A") + "END\r\n"})
	port.inject("stale")
	n, err := d.RefreshHandles()
	require.NoError(t, err)
	require.Equal(t, 2, n)
	require.Equal(t, []uint16{0x72, 0x75}, d.Handles())
	h, ok := d.Handle(Characteristic{Index: 1})
	require.True(t, ok)
	require.Equal(t, uint16(0x75), h)
	port.done()
}

func TestRefreshHandlesIncomplete(t *testing.T) {
	d, port := newTestDriver(t, exchange{"LS", listing("0072,02", "0075,0A")})
	n, err := d.RefreshHandles()
	require.True(t, IsIncomplete(err))
	require.Equal(t, 2, n)
	require.Equal(t, []uint16{0x72, 0x75}, d.Handles())
	port.done()
}

func TestRefreshHandlesOverflow(t *testing.T) {
	port := newFakePort(t, exchange{"LS", listing("0072,02", "0075,0A") + "END\r\n"})
	d := NewWithCapacity(port, 1)
	d.Clock = &fakeClock{step: 1}
	n, err := d.RefreshHandles()
	require.True(t, errors.Is(err, ErrOverflow))
	require.Equal(t, 1, n)
	require.Equal(t, []uint16{0x72}, d.Handles())
	port.done()
}

func TestRefreshHandlesRebuild(t *testing.T) {
	d, port := newTestDriver(t,
		exchange{"LS", listing("0072,02", "0075,0A", "0077,08") + "END\r\n"},
		exchange{"LS", listing("0090,02") + "END\r\n"},
	)
	n, err := d.RefreshHandles()
	require.NoError(t, err)
	require.Equal(t, 3, n)
	n, err = d.RefreshHandles()
	require.NoError(t, err)
	require.Equal(t, 1, n)
	require.Equal(t, []uint16{0x90}, d.Handles())
	_, ok := d.Handle(Characteristic{Index: 1})
	require.False(t, ok)
	port.done()
}

func TestHandleSkipsNotify(t *testing.T) {
	d, port := newTestDriver(t,
		exchange{"PC," + testUUID + ",12,01", "AOK\r"},
		exchange{"PC," + testUUID + ",0A,01", "AOK\r"},
		exchange{"LS", listing("0072,12", "0073,10", "0075,0A") + "END\r\n"},
	)
	notify, err := d.DefineCharacteristic(testUUID, PropertyRead|PropertyNotify, 1)
	require.NoError(t, err)
	rw, err := d.DefineCharacteristic(testUUID, PropertyRead|PropertyWrite, 1)
	require.NoError(t, err)
	n, err := d.RefreshHandles()
	require.NoError(t, err)
	require.Equal(t, 1, n)

	_, ok := d.Handle(notify)
	require.False(t, ok)
	h, ok := d.Handle(rw)
	require.True(t, ok)
	require.Equal(t, uint16(0x75), h)
	port.done()
}

func TestRefreshHandlesShortUUID(t *testing.T) {
	d, port := newTestDriver(t,
		exchange{"PC,2A19,02,01", "AOK\r"},
		exchange{"LS", "180F\r\n  2A19,0072,02\r\nEND\r\n"},
	)
	d.Layout = ShortListingLayout
	c, err := d.DefineCharacteristic("2A19", PropertyRead, 1)
	require.NoError(t, err)
	n, err := d.RefreshHandles()
	require.NoError(t, err)
	require.Equal(t, 1, n)
	h, ok := d.Handle(c)
	require.True(t, ok)
	require.Equal(t, uint16(0x72), h)
	port.done()
}
