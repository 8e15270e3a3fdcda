package hidproxy

import (
	"encoding/binary"
	"errors"
	"io"

	"github.com/fxamacker/cbor/v2"
)

var encMode, _ = cbor.CTAP2EncOptions().EncMode()

const NamedPipePath = "\\\\.\\pipe\\apduhid"

var ErrInvalidCommand = errors.New("hidproxy: invalid command")

type Command byte

const (
	CommandEnumerate Command = iota + 1
	CommandStart
)

// EnumerateRequest is the payload of CommandEnumerate.
type EnumerateRequest struct {
	VendorID uint16 `cbor:"1,keyasint"`
}

// Message is one request or response exchanged with the proxy:
// command (1 byte), length (2 bytes, big-endian), CBOR data.
type Message struct {
	Command Command
	length  uint16
	Data    []byte
}

func ParseMessage(pipe io.Reader) (*Message, error) {
	cmd := make([]byte, 1)
	if _, err := io.ReadFull(pipe, cmd); err != nil {
		return nil, err
	}
	if Command(cmd[0]) != CommandEnumerate && Command(cmd[0]) != CommandStart {
		return nil, ErrInvalidCommand
	}

	bLen := make([]byte, 2)
	if _, err := io.ReadFull(pipe, bLen); err != nil {
		return nil, err
	}
	length := binary.BigEndian.Uint16(bLen)

	bData := make([]byte, length)
	if length > 0 {
		if _, err := io.ReadFull(pipe, bData); err != nil {
			return nil, err
		}
	}

	return &Message{
		Command: Command(cmd[0]),
		length:  length,
		Data:    bData,
	}, nil
}

func NewMessage(cmd Command, data any) (*Message, error) {
	msg := &Message{
		Command: cmd,
	}

	b := make([]byte, 0)
	var err error
	if data != nil {
		b, err = encMode.Marshal(data)
		if err != nil {
			return nil, err
		}
	}

	msg.length = uint16(len(b))
	msg.Data = b

	return msg, nil
}

// Decode unmarshals the CBOR data of the message into v.
func (m *Message) Decode(v any) error {
	return cbor.Unmarshal(m.Data, v)
}

func (m *Message) WriteTo(w io.Writer) (n int64, err error) {
	buf := make([]byte, 3, 3+len(m.Data))
	buf[0] = byte(m.Command)
	binary.BigEndian.PutUint16(buf[1:3], m.length)
	buf = append(buf, m.Data...)

	written, err := w.Write(buf)
	if err != nil {
		return 0, err
	}

	return int64(written), nil
}
