//go:build cgo && !windows

package device

import (
	"context"
	"errors"
	"io"
	"iter"

	ghid "github.com/go-ctap/hid"
	"github.com/sstallion/go-hid"
)

// Enumerate yields the HID devices of the given vendor, zero matches any vendor.
func Enumerate(ctx context.Context, vid uint16) iter.Seq2[*ghid.DeviceInfo, error] {
	return func(yield func(*ghid.DeviceInfo, error) bool) {
		if useFlag(ctx.Value(CtxKeyUseNamedPipe)) {
			yield(nil, newErrorMessage(ErrNotSupported, "named pipe proxy is only available on windows"))
			return
		}
		if useFlag(ctx.Value(CtxKeyUseCgoFreeHID)) {
			yield(nil, newErrorMessage(ErrNotSupported, "cgo-free backend is only available on windows"))
			return
		}

		breakErr := errors.New("break")

		if err := hid.Enumerate(vid, hid.ProductIDAny, func(info *hid.DeviceInfo) error {
			if !yield(&ghid.DeviceInfo{
				Path:         info.Path,
				VendorID:     info.VendorID,
				ProductID:    info.ProductID,
				SerialNbr:    info.SerialNbr,
				ReleaseNbr:   info.ReleaseNbr,
				MfrStr:       info.MfrStr,
				ProductStr:   info.ProductStr,
				UsagePage:    info.UsagePage,
				Usage:        info.Usage,
				InterfaceNbr: info.InterfaceNbr,
			}, nil) {
				return breakErr
			}

			return nil
		}); err != nil && !errors.Is(err, breakErr) {
			yield(nil, err)
			return
		}
	}
}

// OpenPath opens the HID device at path for report I/O.
func OpenPath(ctx context.Context, path string) (io.ReadWriteCloser, error) {
	if useFlag(ctx.Value(CtxKeyUseNamedPipe)) || useFlag(ctx.Value(CtxKeyUseCgoFreeHID)) {
		return nil, ErrNotSupported
	}

	dev, err := hid.OpenPath(path)
	if err != nil {
		return nil, newErrorMessage(err, path)
	}

	return newPollingDevice(dev, isHIDTimeout), nil
}

func isHIDTimeout(err error) bool {
	return errors.Is(err, hid.ErrTimeout)
}

// Exit releases the resources of the HID library.
func Exit() error { return hid.Exit() }
