package options

import (
	"context"
	"log/slog"
	"math/rand/v2"

	"github.com/go-ctap/apduhid/pkg/device"
)

// DefaultPacketSize is the HID report size used by the devices.
const DefaultPacketSize = 64

type Options struct {
	Logger        *slog.Logger
	Context       context.Context
	Paths         []string
	UseNamedPipe  bool
	UseCgoFreeHID bool
	VendorID      uint16
	UsagePage     uint16
	Channel       uint16
	PacketSize    int
	DeviceModel   *device.Model
}

type Option func(*Options)

func WithLogger(logger *slog.Logger) Option {
	return func(opts *Options) {
		opts.Logger = logger
	}
}

func WithContext(ctx context.Context) Option {
	return func(opts *Options) {
		opts.Context = ctx
	}
}

func WithPaths(paths ...string) Option {
	return func(opts *Options) {
		opts.Paths = paths
	}
}

func WithUseNamedPipes() Option {
	return func(opts *Options) {
		opts.UseNamedPipe = true
	}
}

func WithUseCgoFreeHID() Option {
	return func(opts *Options) {
		opts.UseCgoFreeHID = true
	}
}

// WithVendorID restricts discovery to one USB vendor. Zero matches any vendor.
func WithVendorID(vid uint16) Option {
	return func(opts *Options) {
		opts.VendorID = vid
	}
}

// WithUsagePage restricts discovery to one HID usage page. Zero matches the
// vendor-defined range used by APDU devices, so keyboards, mice and FIDO
// tokens are never picked up.
func WithUsagePage(page uint16) Option {
	return func(opts *Options) {
		opts.UsagePage = page
	}
}

// WithChannel overrides the randomly chosen channel.
func WithChannel(channel uint16) Option {
	return func(opts *Options) {
		opts.Channel = channel
	}
}

func WithPacketSize(size int) Option {
	return func(opts *Options) {
		opts.PacketSize = size
	}
}

func WithDeviceModel(model *device.Model) Option {
	return func(opts *Options) {
		opts.DeviceModel = model
	}
}

func NewOptions(opts ...Option) *Options {
	oo := &Options{
		Logger:  slog.Default(),
		Context: context.Background(),
		// Picked per instance to avoid collisions between hosts sharing a device.
		Channel:    rand.N[uint16](0xffff),
		PacketSize: DefaultPacketSize,
	}

	for _, opt := range opts {
		opt(oo)
	}

	return oo
}

// DeviceContext returns the configured context carrying the HID backend selection.
func (o *Options) DeviceContext() context.Context {
	ctx := context.WithValue(o.Context, device.CtxKeyUseNamedPipe, o.UseNamedPipe)
	return context.WithValue(ctx, device.CtxKeyUseCgoFreeHID, o.UseCgoFreeHID)
}
