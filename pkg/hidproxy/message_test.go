package hidproxy

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	ghid "github.com/go-ctap/hid"
)

func TestMessage_WriteToParse(t *testing.T) {
	msg, err := NewMessage(CommandEnumerate, &EnumerateRequest{VendorID: 0x1209})
	require.NoError(t, err)

	buf := bytes.NewBuffer(nil)
	n, err := msg.WriteTo(buf)
	require.NoError(t, err)
	assert.Equal(t, int64(3+len(msg.Data)), n)
	assert.Equal(t, byte(CommandEnumerate), buf.Bytes()[0])

	parsed, err := ParseMessage(buf)
	require.NoError(t, err)
	assert.Equal(t, CommandEnumerate, parsed.Command)

	var req EnumerateRequest
	require.NoError(t, parsed.Decode(&req))
	assert.Equal(t, uint16(0x1209), req.VendorID)
}

func TestNewMessage_NoData(t *testing.T) {
	msg, err := NewMessage(CommandStart, nil)
	require.NoError(t, err)

	buf := bytes.NewBuffer(nil)
	_, err = msg.WriteTo(buf)
	require.NoError(t, err)
	assert.Equal(t, []byte{byte(CommandStart), 0x00, 0x00}, buf.Bytes())
}

func TestParseMessage_Errors(t *testing.T) {
	_, err := ParseMessage(bytes.NewReader([]byte{0x7f, 0x00, 0x00}))
	assert.ErrorIs(t, err, ErrInvalidCommand)

	_, err = ParseMessage(bytes.NewReader([]byte{byte(CommandStart), 0x00, 0x05, 0x01}))
	assert.Error(t, err)
}

func TestMessage_DecodeEnumerateResponse(t *testing.T) {
	infos := []*ghid.DeviceInfo{
		{Path: "\\\\?\\hid#vid_1209&pid_0001", VendorID: 0x1209, ProductID: 0x0001, UsagePage: 0xffa0, Usage: 0x01},
	}

	msg, err := NewMessage(CommandEnumerate, infos)
	require.NoError(t, err)

	buf := bytes.NewBuffer(nil)
	_, err = msg.WriteTo(buf)
	require.NoError(t, err)

	parsed, err := ParseMessage(buf)
	require.NoError(t, err)

	decoded := make([]*ghid.DeviceInfo, 0)
	require.NoError(t, parsed.Decode(&decoded))
	assert.Equal(t, infos, decoded)
}
