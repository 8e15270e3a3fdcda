package framing

// Framing splits APDUs into packets and joins packets back into APDUs
// for one channel and one packet size.
type Framing struct {
	channel    uint16
	packetSize int
}

// Accumulator is the reassembly state threaded through ReduceResponse calls.
// A nil accumulator means no packet of the message has been seen yet.
type Accumulator struct {
	// Data holds the payload collected so far, never longer than DataLength.
	Data []byte
	// DataLength is the total length declared by the first packet.
	DataLength int
	// Sequence is the index expected for the next packet.
	Sequence uint16
}

// Channel returns the channel the framing is bound to.
func (f *Framing) Channel() uint16 {
	return f.channel
}

// PacketSize returns the size of every packet produced or expected.
func (f *Framing) PacketSize() int {
	return f.packetSize
}
