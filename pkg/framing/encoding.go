package framing

import (
	"encoding/binary"

	"github.com/samber/lo"
)

// New creates a framing for the given channel and packet size.
// The packet size must leave room for at least one payload byte in the first packet.
func New(channel uint16, packetSize int) (*Framing, error) {
	if packetSize <= InitHeaderSize {
		return nil, ErrPacketSizeTooSmall
	}

	return &Framing{
		channel:    channel,
		packetSize: packetSize,
	}, nil
}

// MakeBlocks splits an APDU into packets of exactly PacketSize bytes.
//
//	CID:   offset 0; length 2
//	TAG:   offset 2; length 1
//	INDEX: offset 3; length 2
//	LEN:   offset 5; length 2 (first packet only)
//	DATA:  offset 7 (first packet) or 5, zero-padded
func (f *Framing) MakeBlocks(apdu []byte) ([][]byte, error) {
	if len(apdu) > MaxMessageLength {
		return nil, ErrMessageTooLarge
	}

	// The length prefix travels as the first bytes of the payload stream,
	// so every packet has the same header and capacity.
	data := make([]byte, LengthSize, LengthSize+len(apdu))
	binary.BigEndian.PutUint16(data, uint16(len(apdu)))
	data = append(data, apdu...)

	chunks := lo.Chunk[byte](data, f.packetSize-HeaderSize)
	blocks := make([][]byte, 0, len(chunks))
	for i, chunk := range chunks {
		block := make([]byte, f.packetSize)
		binary.BigEndian.PutUint16(block[0:2], f.channel)
		block[2] = Tag
		binary.BigEndian.PutUint16(block[3:5], uint16(i))
		copy(block[HeaderSize:], chunk)

		blocks = append(blocks, block)
	}

	return blocks, nil
}
