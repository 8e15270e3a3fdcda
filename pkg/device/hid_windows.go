package device

import (
	"context"
	"errors"
	"io"
	"iter"

	"github.com/Microsoft/go-winio"
	"github.com/sstallion/go-hid"

	"github.com/go-ctap/apduhid/pkg/hidproxy"
	ghid "github.com/go-ctap/hid"
)

// Enumerate yields the HID devices of the given vendor, zero matches any vendor.
func Enumerate(ctx context.Context, vid uint16) iter.Seq2[*ghid.DeviceInfo, error] {
	return func(yield func(*ghid.DeviceInfo, error) bool) {
		if useFlag(ctx.Value(CtxKeyUseNamedPipe)) {
			devInfos, err := enumerateNamedPipe(ctx, vid)
			if err != nil {
				yield(nil, err)
				return
			}

			for _, info := range devInfos {
				if !yield(info, nil) {
					return
				}
			}
			return
		}

		if useFlag(ctx.Value(CtxKeyUseCgoFreeHID)) {
			for devInfo, err := range ghid.Enumerate() {
				if err != nil {
					yield(nil, err)
					return
				}
				if !matchesVendor(devInfo.VendorID, vid) {
					continue
				}
				if !yield(&ghid.DeviceInfo{
					Path:       devInfo.Path,
					VendorID:   devInfo.VendorID,
					ProductID:  devInfo.ProductID,
					SerialNbr:  devInfo.SerialNbr,
					MfrStr:     devInfo.MfrStr,
					ProductStr: devInfo.ProductStr,
					UsagePage:  devInfo.UsagePage,
					Usage:      devInfo.Usage,
				}, nil) {
					return
				}
			}
			return
		}

		breakErr := errors.New("break")

		if err := hid.Enumerate(vid, hid.ProductIDAny, func(info *hid.DeviceInfo) error {
			if !yield(&ghid.DeviceInfo{
				Path:       info.Path,
				VendorID:   info.VendorID,
				ProductID:  info.ProductID,
				SerialNbr:  info.SerialNbr,
				MfrStr:     info.MfrStr,
				ProductStr: info.ProductStr,
				UsagePage:  info.UsagePage,
				Usage:      info.Usage,
			}, nil) {
				return breakErr
			}

			return nil
		}); err != nil && !errors.Is(err, breakErr) {
			yield(nil, err)
		}
	}
}

func enumerateNamedPipe(ctx context.Context, vid uint16) ([]*ghid.DeviceInfo, error) {
	pipe, err := winio.DialPipeContext(ctx, hidproxy.NamedPipePath)
	if err != nil {
		return nil, err
	}
	defer func() {
		_ = pipe.Close()
	}()

	msg, err := hidproxy.NewMessage(hidproxy.CommandEnumerate, &hidproxy.EnumerateRequest{VendorID: vid})
	if err != nil {
		return nil, err
	}

	if _, err := msg.WriteTo(pipe); err != nil {
		return nil, err
	}

	msg, err = hidproxy.ParseMessage(pipe)
	if err != nil {
		return nil, err
	}

	devInfos := make([]*ghid.DeviceInfo, 0)
	if err := msg.Decode(&devInfos); err != nil {
		return nil, err
	}

	return devInfos, nil
}

// OpenPath opens the HID device at path for report I/O.
func OpenPath(ctx context.Context, path string) (io.ReadWriteCloser, error) {
	if useFlag(ctx.Value(CtxKeyUseNamedPipe)) {
		pipe, err := winio.DialPipeContext(ctx, hidproxy.NamedPipePath)
		if err != nil {
			return nil, err
		}

		msg, err := hidproxy.NewMessage(hidproxy.CommandStart, path)
		if err != nil {
			_ = pipe.Close()
			return nil, err
		}

		if _, err := msg.WriteTo(pipe); err != nil {
			_ = pipe.Close()
			return nil, err
		}

		return pipe, nil
	}

	if useFlag(ctx.Value(CtxKeyUseCgoFreeHID)) {
		return ghid.OpenPath(path)
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
