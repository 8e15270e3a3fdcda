package device

import (
	"io"
	"os"
	"sync"
	"sync/atomic"
	"time"
)

// readPollInterval bounds how long Close waits for a pending read.
const readPollInterval = 100 * time.Millisecond

type timeoutReadWriteCloser interface {
	io.ReadWriteCloser
	ReadWithTimeout(p []byte, timeout time.Duration) (int, error)
}

// pollingDevice reads with a timeout so that Close never races a blocking read.
// An expired read is reported as (0, nil).
type pollingDevice struct {
	dev       timeoutReadWriteCloser
	isTimeout func(error) bool

	readMu sync.Mutex
	closed atomic.Bool
}

func newPollingDevice(dev timeoutReadWriteCloser, isTimeout func(error) bool) *pollingDevice {
	return &pollingDevice{
		dev:       dev,
		isTimeout: isTimeout,
	}
}

func (d *pollingDevice) Read(p []byte) (int, error) {
	d.readMu.Lock()
	defer d.readMu.Unlock()

	if d.closed.Load() {
		return 0, os.ErrClosed
	}

	n, err := d.dev.ReadWithTimeout(p, readPollInterval)
	if err != nil && d.isTimeout(err) {
		return 0, nil
	}

	return n, err
}

func (d *pollingDevice) Write(p []byte) (int, error) {
	if d.closed.Load() {
		return 0, os.ErrClosed
	}

	return d.dev.Write(p)
}

func (d *pollingDevice) Close() error {
	if d.closed.Swap(true) {
		return nil
	}

	d.readMu.Lock()
	defer d.readMu.Unlock()

	return d.dev.Close()
}
