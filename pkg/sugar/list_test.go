package sugar

import (
	"context"
	"iter"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/go-ctap/apduhid/pkg/options"
	"github.com/go-ctap/apduhid/pkg/transport"
	ghid "github.com/go-ctap/hid"
)

var (
	keyboard = &ghid.DeviceInfo{Path: "kbd", VendorID: 0x046d, ProductID: 0xc31c, UsagePage: 0x01, Usage: 0x06}
	fidoKey  = &ghid.DeviceInfo{Path: "fido", VendorID: 0x1050, ProductID: 0x0407, UsagePage: 0xf1d0, Usage: 0x01}
	apduKey  = &ghid.DeviceInfo{Path: "apdu", VendorID: 0x1209, ProductID: 0x0001, UsagePage: 0xffa0, Usage: 0x01}
)

func fakeEnumerate(t *testing.T, infos ...*ghid.DeviceInfo) {
	t.Helper()

	orig := enumerate
	t.Cleanup(func() {
		enumerate = orig
	})

	enumerate = func(_ context.Context, vid uint16) iter.Seq2[*ghid.DeviceInfo, error] {
		return func(yield func(*ghid.DeviceInfo, error) bool) {
			for _, info := range infos {
				if vid != 0 && info.VendorID != vid {
					continue
				}
				if !yield(info, nil) {
					return
				}
			}
		}
	}
}

func TestList_SkipsNonVendorUsagePages(t *testing.T) {
	fakeEnumerate(t, keyboard, fidoKey, apduKey)

	models, err := List()
	require.NoError(t, err)
	require.Len(t, models, 1)
	assert.Equal(t, "apdu", models[0].Path)
}

func TestList_UsagePageOverride(t *testing.T) {
	fakeEnumerate(t, keyboard, fidoKey, apduKey)

	models, err := List(options.WithUsagePage(0xf1d0))
	require.NoError(t, err)
	require.Len(t, models, 1)
	assert.Equal(t, "fido", models[0].Path)
}

func TestOpenConnected_NoMatchingDevice(t *testing.T) {
	fakeEnumerate(t, keyboard, fidoKey)

	_, err := OpenConnected()
	assert.ErrorIs(t, err, transport.ErrUserCancelled)
}
