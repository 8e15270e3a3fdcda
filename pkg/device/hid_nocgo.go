//go:build !cgo && !windows

package device

import (
	"context"
	"io"
	"iter"

	ghid "github.com/go-ctap/hid"
)

// Enumerate is unavailable without cgo outside of windows.
func Enumerate(_ context.Context, _ uint16) iter.Seq2[*ghid.DeviceInfo, error] {
	return func(yield func(*ghid.DeviceInfo, error) bool) {
		yield(nil, newErrorMessage(ErrNotSupported, "built without cgo"))
	}
}

func OpenPath(_ context.Context, _ string) (io.ReadWriteCloser, error) {
	return nil, newErrorMessage(ErrNotSupported, "built without cgo")
}

func Exit() error { return nil }
