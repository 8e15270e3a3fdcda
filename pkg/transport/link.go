package transport

import (
	"context"
)

// Link is the packet-level capability set an exchange needs from the physical transport.
type Link interface {
	// Send transmits exactly one packet.
	Send(ctx context.Context, packet []byte) error
	// Receive returns the next packet in arrival order, including packets that
	// arrived while nobody was waiting. It returns early when ctx is done.
	Receive(ctx context.Context) ([]byte, error)
	// Disconnected is closed once when the physical link is lost.
	Disconnected() <-chan struct{}
	Close() error
}
