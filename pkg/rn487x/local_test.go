package rn487x

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestWriteLocal(t *testing.T) {
	d, port := newTestDriver(t, exchange{"SHW,0010,0AFF", "AOK\r"})
	withHandles(d, 0x0010)
	c := Characteristic{Index: 0, Length: 2}
	require.NoError(t, d.WriteLocal(c, []byte{0x0A, 0xFF}))
	require.True(t, errors.Is(d.WriteLocal(c, nil), ErrLength))
	require.True(t, errors.Is(d.WriteLocal(c, []byte{1, 2, 3}), ErrLength))
	port.done()
}

func TestWriteLocalShortValue(t *testing.T) {
	d, port := newTestDriver(t, exchange{"SHW,0010,01", "AOK\r"})
	withHandles(d, 0x0010)
	require.NoError(t, d.WriteLocal(Characteristic{Length: 2}, []byte{1}))
	port.done()
}

func TestLocalUnknownHandle(t *testing.T) {
	d, port := newTestDriver(t)
	withHandles(d, 0x0010)
	c := Characteristic{Index: 1, Length: 2}
	require.True(t, errors.Is(d.WriteLocal(c, []byte{1}), ErrHandleUnknown))
	_, err := d.ReadLocal(c)
	require.True(t, errors.Is(err, ErrHandleUnknown))
	require.Contains(t, err.Error(), "characteristic 1")
	require.Empty(t, port.sent)
}

func TestReadLocal(t *testing.T) {
	c := Characteristic{Index: 0, Length: 2}
	t.Run("value", func(t *testing.T) {
		d, port := newTestDriver(t, exchange{"SHR,0010", "0AFF\r"})
		withHandles(d, 0x0010)
		v, err := d.ReadLocal(c)
		require.NoError(t, err)
		require.Equal(t, []byte{0x0A, 0xFF}, v)
		port.done()
	})
	t.Run("no data", func(t *testing.T) {
		d, port := newTestDriver(t, exchange{"SHR,0010", "N/A\r"})
		withHandles(d, 0x0010)
		v, err := d.ReadLocal(c)
		require.NoError(t, err)
		require.Nil(t, v)
		port.done()
	})
	t.Run("error", func(t *testing.T) {
		d, port := newTestDriver(t, exchange{"SHR,0010", "Err\r"})
		withHandles(d, 0x0010)
		_, err := d.ReadLocal(c)
		require.True(t, errors.Is(err, ErrModule))
		port.done()
	})
	t.Run("wrong length", func(t *testing.T) {
		d, port := newTestDriver(t, exchange{"SHR,0010", "0AFF01\r"})
		withHandles(d, 0x0010)
		_, err := d.ReadLocal(c)
		require.True(t, errors.Is(err, ErrLength))
		var re *ReplyError
		require.True(t, errors.As(err, &re))
		require.Equal(t, "0AFF01", re.Reply)
		port.done()
	})
	t.Run("timeout", func(t *testing.T) {
		d, port := newTestDriver(t, exchange{"SHR,0010", ""})
		withHandles(d, 0x0010)
		_, err := d.ReadLocal(c)
		require.True(t, errors.Is(err, ErrTimeout))
		port.done()
	})
}
