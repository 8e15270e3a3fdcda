package transport

import (
	"context"
	"encoding/hex"
	"log/slog"
	"sync"

	"github.com/google/uuid"

	"github.com/go-ctap/apduhid/pkg/device"
	"github.com/go-ctap/apduhid/pkg/framing"
	"github.com/go-ctap/apduhid/pkg/options"
)

// Transport exchanges APDUs with one device over a packet Link. Concurrent
// exchanges are serialized, so packets of different requests never interleave.
type Transport struct {
	link    Link
	framing *framing.Framing
	model   *device.Model
	logger  *slog.Logger

	// busy is held for the whole send/receive cycle of one exchange.
	busy chan struct{}

	mu             sync.Mutex
	closed         bool
	done           chan struct{}
	disconnected   chan struct{}
	disconnectOnce sync.Once
}

// New creates a transport on top of link. Channel, packet size and device
// model are taken from the options.
func New(link Link, opts ...options.Option) (*Transport, error) {
	oo := options.NewOptions(opts...)

	f, err := framing.New(oo.Channel, oo.PacketSize)
	if err != nil {
		return nil, err
	}

	t := &Transport{
		link:         link,
		framing:      f,
		model:        oo.DeviceModel,
		logger:       oo.Logger,
		busy:         make(chan struct{}, 1),
		done:         make(chan struct{}),
		disconnected: make(chan struct{}),
	}
	go t.watchDisconnect()

	return t, nil
}

// Channel returns the channel id the transport tags its packets with.
func (t *Transport) Channel() uint16 {
	return t.framing.Channel()
}

func (t *Transport) PacketSize() int {
	return t.framing.PacketSize()
}

// DeviceModel returns the model metadata supplied at construction, may be nil.
func (t *Transport) DeviceModel() *device.Model {
	return t.model
}

// Disconnected is closed once the device is known to be gone.
func (t *Transport) Disconnected() <-chan struct{} {
	return t.disconnected
}

// Exchange sends an APDU and returns the device response.
//
// Only waiting for a previous exchange honours ctx: once the first packet is
// written, the exchange runs until the response is complete, a protocol error
// occurs or the device disconnects.
func (t *Transport) Exchange(ctx context.Context, apdu []byte) ([]byte, error) {
	select {
	case t.busy <- struct{}{}:
	case <-ctx.Done():
		return nil, ctx.Err()
	}
	defer func() {
		<-t.busy
	}()

	if err := t.state(); err != nil {
		return nil, err
	}

	return t.exchange(context.WithoutCancel(ctx), apdu)
}

func (t *Transport) exchange(ctx context.Context, apdu []byte) ([]byte, error) {
	logger := t.logger.With("exchange", uuid.New().String(), "channel", t.Channel())
	logger.Debug("APDU request", "hex", "=> "+hex.EncodeToString(apdu))

	blocks, err := t.framing.MakeBlocks(apdu)
	if err != nil {
		return nil, err
	}

	for _, block := range blocks {
		if err := t.link.Send(ctx, block); err != nil {
			logger.Warn("cannot send packet", "err", err)
			t.markDisconnected()
			return nil, &DisconnectedError{Cause: err}
		}
	}

	// The receive wait is cut short by the disconnect signal only.
	rctx, cancel := context.WithCancel(ctx)
	defer cancel()
	go func() {
		select {
		case <-t.link.Disconnected():
			cancel()
		case <-rctx.Done():
		}
	}()

	var acc *framing.Accumulator
	for {
		if result, ok := t.framing.GetReducedResult(acc).Get(); ok {
			logger.Debug("APDU response", "hex", "<= "+hex.EncodeToString(result))
			return result, nil
		}

		packet, err := t.link.Receive(rctx)
		if err != nil {
			if t.linkLost() {
				logger.Warn("device disconnected while waiting for response", "err", err)
				t.markDisconnected()
				return nil, &DisconnectedError{Cause: err}
			}
			return nil, err
		}

		acc, err = t.framing.ReduceResponse(acc, packet)
		if err != nil {
			logger.Debug("invalid response packet", "err", err, "hex", hex.EncodeToString(packet))
			return nil, err
		}
	}
}

// Close waits for the exchange in flight, if any, and releases the link.
func (t *Transport) Close() error {
	t.busy <- struct{}{}
	defer func() {
		<-t.busy
	}()

	t.mu.Lock()
	if t.closed {
		t.mu.Unlock()
		return nil
	}
	t.closed = true
	t.mu.Unlock()
	close(t.done)

	return t.link.Close()
}

func (t *Transport) state() error {
	t.mu.Lock()
	closed := t.closed
	t.mu.Unlock()

	if closed {
		return ErrClosed
	}

	if t.linkLost() {
		t.markDisconnected()
	}

	select {
	case <-t.disconnected:
		return ErrDisconnected
	default:
		return nil
	}
}

func (t *Transport) linkLost() bool {
	select {
	case <-t.link.Disconnected():
		return true
	default:
		return false
	}
}

func (t *Transport) watchDisconnect() {
	select {
	case <-t.link.Disconnected():
		t.logger.Warn("device disconnected", "device", t.model.String())
		t.markDisconnected()
	case <-t.disconnected:
	case <-t.done:
	}
}

func (t *Transport) markDisconnected() {
	t.disconnectOnce.Do(func() {
		close(t.disconnected)
	})
}
