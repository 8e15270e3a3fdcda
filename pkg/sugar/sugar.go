package sugar

import (
	"slices"

	"github.com/samber/lo"

	"github.com/go-ctap/apduhid/pkg/device"
	"github.com/go-ctap/apduhid/pkg/hidlink"
	"github.com/go-ctap/apduhid/pkg/options"
	"github.com/go-ctap/apduhid/pkg/transport"
	ghid "github.com/go-ctap/hid"
)

var enumerate = device.Enumerate

// List returns the connected devices of the configured vendor and usage page.
func List(opts ...options.Option) ([]*device.Model, error) {
	oo := options.NewOptions(opts...)

	devInfos := make([]*ghid.DeviceInfo, 0)
	for devInfo, err := range enumerate(oo.DeviceContext(), oo.VendorID) {
		if err != nil {
			return nil, err
		}

		if !device.MatchesUsagePage(uint16(devInfo.UsagePage), oo.UsagePage) {
			continue
		}

		devInfos = append(devInfos, devInfo)
	}

	return lo.Map(devInfos, func(devInfo *ghid.DeviceInfo, _ int) *device.Model {
		return device.ModelFromInfo(devInfo)
	}), nil
}

// Open opens the device described by model and returns a transport bound to it.
func Open(model *device.Model, opts ...options.Option) (*transport.Transport, error) {
	oo := options.NewOptions(opts...)

	dev, err := device.OpenPath(oo.DeviceContext(), model.Path)
	if err != nil {
		return nil, err
	}

	// Channel is resolved once so the link and the transport agree on it.
	opts = append(slices.Clip(opts), options.WithChannel(oo.Channel))
	if oo.DeviceModel == nil {
		opts = append(opts, options.WithDeviceModel(model))
	}

	link := hidlink.New(dev, opts...)
	t, err := transport.New(link, opts...)
	if err != nil {
		_ = link.Close()
		return nil, err
	}

	return t, nil
}

// OpenConnected opens the first configured path, or the first connected
// device of the configured vendor. It fails with transport.ErrUserCancelled
// when there is nothing to open.
func OpenConnected(opts ...options.Option) (*transport.Transport, error) {
	oo := options.NewOptions(opts...)

	if len(oo.Paths) > 0 {
		return Open(&device.Model{Path: oo.Paths[0], VendorID: oo.VendorID}, opts...)
	}

	models, err := List(opts...)
	if err != nil {
		return nil, err
	}

	model, ok := lo.First(models)
	if !ok {
		return nil, transport.ErrUserCancelled
	}

	return Open(model, opts...)
}
