package device

import (
	"errors"
	"os"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var errFakeTimeout = errors.New("timeout")

type fakeHandle struct {
	reports chan []byte
	closes  atomic.Int32
	written [][]byte
}

func (h *fakeHandle) Read(p []byte) (int, error) {
	return h.ReadWithTimeout(p, -1)
}

func (h *fakeHandle) ReadWithTimeout(p []byte, timeout time.Duration) (int, error) {
	select {
	case r := <-h.reports:
		return copy(p, r), nil
	case <-time.After(timeout):
		return 0, errFakeTimeout
	}
}

func (h *fakeHandle) Write(p []byte) (int, error) {
	h.written = append(h.written, p)
	return len(p), nil
}

func (h *fakeHandle) Close() error {
	h.closes.Add(1)
	return nil
}

func TestPollingDevice(t *testing.T) {
	h := &fakeHandle{reports: make(chan []byte, 1)}
	d := newPollingDevice(h, func(err error) bool { return errors.Is(err, errFakeTimeout) })

	buf := make([]byte, 4)
	n, err := d.Read(buf)
	require.NoError(t, err)
	assert.Zero(t, n)

	h.reports <- []byte{0x01, 0x02}
	n, err = d.Read(buf)
	require.NoError(t, err)
	assert.Equal(t, []byte{0x01, 0x02}, buf[:n])

	_, err = d.Write([]byte{0x00, 0x01})
	require.NoError(t, err)
	assert.Len(t, h.written, 1)

	require.NoError(t, d.Close())
	require.NoError(t, d.Close())
	assert.Equal(t, int32(1), h.closes.Load())

	_, err = d.Read(buf)
	assert.ErrorIs(t, err, os.ErrClosed)
	_, err = d.Write([]byte{0x00})
	assert.ErrorIs(t, err, os.ErrClosed)
}
