//go:build !windows

package sugar

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/go-ctap/apduhid/pkg/device"
	"github.com/go-ctap/apduhid/pkg/options"
)

func TestList_NamedPipeUnsupported(t *testing.T) {
	_, err := List(options.WithUseNamedPipes())
	assert.ErrorIs(t, err, device.ErrNotSupported)
}

func TestOpenConnected_PathUnsupportedBackend(t *testing.T) {
	_, err := OpenConnected(
		options.WithPaths("/dev/hidraw0"),
		options.WithUseCgoFreeHID(),
	)
	assert.ErrorIs(t, err, device.ErrNotSupported)
}
