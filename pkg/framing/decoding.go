package framing

import (
	"encoding/binary"

	"github.com/samber/lo"
	"github.com/samber/mo"
)

// ReduceResponse validates one received packet against the accumulator and
// returns a new accumulator with its payload appended. The accumulator passed
// in is left untouched, nil starts a new message.
//
// Only the header length of a packet is checked, not the full packet size:
// some HID backends deliver input reports without trailing padding.
func (f *Framing) ReduceResponse(acc *Accumulator, packet []byte) (*Accumulator, error) {
	first := acc == nil

	headerSize := HeaderSize
	if first {
		headerSize = InitHeaderSize
	}
	if len(packet) < headerSize {
		return nil, newFrameError(ErrPacketTooShort, headerSize, len(packet))
	}

	var next Accumulator
	if !first {
		next = *acc
	}

	if cid := binary.BigEndian.Uint16(packet[0:2]); cid != f.channel {
		return nil, newFrameError(ErrInvalidChannel, int(f.channel), int(cid))
	}
	if tag := packet[2]; tag != Tag {
		return nil, newFrameError(ErrInvalidTag, int(Tag), int(tag))
	}
	// Drops, duplicates and reordering all show up as an unexpected index.
	if seq := binary.BigEndian.Uint16(packet[3:5]); seq != next.Sequence {
		return nil, newFrameError(ErrInvalidSequence, int(next.Sequence), int(seq))
	}

	payload := packet[HeaderSize:]
	if first {
		next.DataLength = int(binary.BigEndian.Uint16(packet[5:7]))
		payload = packet[InitHeaderSize:]
	}

	// Padding of the last packet must not leak into the message.
	payload = lo.Slice(payload, 0, next.DataLength-len(next.Data))

	// A fresh buffer keeps the previous accumulator intact, and an empty
	// message reassembles to an empty slice rather than nil.
	data := make([]byte, len(next.Data), next.DataLength)
	copy(data, next.Data)
	next.Data = append(data, payload...)
	next.Sequence++

	return &next, nil
}

// GetReducedResult returns the reassembled APDU once the accumulator holds
// exactly the declared number of bytes.
func (f *Framing) GetReducedResult(acc *Accumulator) mo.Option[[]byte] {
	if acc == nil || len(acc.Data) != acc.DataLength {
		return mo.None[[]byte]()
	}

	return mo.Some(acc.Data)
}
