package framing

// Tag marks a packet as carrying an APDU fragment.
const Tag byte = 0x05

const (
	// HeaderSize is the size of the channel, tag and index fields present in every packet.
	HeaderSize = 5
	// LengthSize is the size of the total APDU length field carried by the first packet only.
	LengthSize = 2
	// InitHeaderSize is the header size of the first packet of a message.
	InitHeaderSize = HeaderSize + LengthSize
)

// MaxMessageLength is the largest APDU representable by the 16-bit length field.
const MaxMessageLength = 0xffff
