package options

import (
	"context"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/go-ctap/apduhid/pkg/device"
)

func TestNewOptions_Defaults(t *testing.T) {
	oo := NewOptions()

	assert.Equal(t, DefaultPacketSize, oo.PacketSize)
	assert.Less(t, oo.Channel, uint16(0xffff))
	assert.Same(t, slog.Default(), oo.Logger)
	assert.NotNil(t, oo.Context)
	assert.Nil(t, oo.DeviceModel)
}

func TestNewOptions_Overrides(t *testing.T) {
	model := &device.Model{VendorID: 0x1209, ProductID: 0x0001}
	oo := NewOptions(
		WithChannel(0x1234),
		WithPacketSize(32),
		WithVendorID(0x1209),
		WithDeviceModel(model),
		WithPaths("a", "b"),
		WithUseNamedPipes(),
	)

	assert.Equal(t, uint16(0x1234), oo.Channel)
	assert.Equal(t, 32, oo.PacketSize)
	assert.Equal(t, uint16(0x1209), oo.VendorID)
	assert.Same(t, model, oo.DeviceModel)
	assert.Equal(t, []string{"a", "b"}, oo.Paths)

	ctx := oo.DeviceContext()
	assert.Equal(t, true, ctx.Value(device.CtxKeyUseNamedPipe))
	assert.Equal(t, false, ctx.Value(device.CtxKeyUseCgoFreeHID))
}

func TestDeviceContext_KeepsParent(t *testing.T) {
	type key struct{}
	parent := context.WithValue(context.Background(), key{}, "v")

	ctx := NewOptions(WithContext(parent)).DeviceContext()
	assert.Equal(t, "v", ctx.Value(key{}))
}
