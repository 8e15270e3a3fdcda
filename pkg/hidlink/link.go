package hidlink

import (
	"context"
	"io"
	"log/slog"
	"sync"

	"github.com/go-ctap/apduhid/pkg/options"
	"github.com/go-ctap/apduhid/pkg/transport"
)

// Link is a transport.Link over an opened HID handle. Input reports are read
// by a background goroutine and queued until Receive asks for them.
type Link struct {
	dev        io.ReadWriteCloser
	packetSize int
	logger     *slog.Logger

	writeMu sync.Mutex

	mu     sync.Mutex
	inputs [][]byte
	closed bool
	notify chan struct{}

	disconnected   chan struct{}
	disconnectOnce sync.Once
	done           chan struct{}
}

var _ transport.Link = (*Link)(nil)

// New starts reading input reports from dev.
func New(dev io.ReadWriteCloser, opts ...options.Option) *Link {
	oo := options.NewOptions(opts...)

	l := &Link{
		dev:          dev,
		packetSize:   oo.PacketSize,
		logger:       oo.Logger,
		notify:       make(chan struct{}, 1),
		disconnected: make(chan struct{}),
		done:         make(chan struct{}),
	}
	go l.readLoop()

	return l
}

// Send writes one output report. Report ID in our case is always 0.
func (l *Link) Send(_ context.Context, packet []byte) error {
	if l.isClosed() {
		return transport.ErrClosed
	}

	report := make([]byte, 0, len(packet)+1)
	report = append(report, 0x00)
	report = append(report, packet...)

	l.writeMu.Lock()
	defer l.writeMu.Unlock()

	n, err := l.dev.Write(report)
	if err != nil {
		return err
	}
	if n != len(report) {
		return io.ErrShortWrite
	}

	return nil
}

// Receive pops the oldest queued input report, waiting for one if the queue is empty.
func (l *Link) Receive(ctx context.Context) ([]byte, error) {
	for {
		l.mu.Lock()
		if len(l.inputs) > 0 {
			p := l.inputs[0]
			l.inputs[0] = nil
			l.inputs = l.inputs[1:]
			l.mu.Unlock()
			return p, nil
		}
		closed := l.closed
		l.mu.Unlock()

		if closed {
			return nil, transport.ErrClosed
		}

		select {
		case <-l.notify:
		case <-l.disconnected:
			return nil, transport.ErrDisconnected
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
}

func (l *Link) Disconnected() <-chan struct{} {
	return l.disconnected
}

// Close stops the reader and closes the underlying handle.
func (l *Link) Close() error {
	l.mu.Lock()
	if l.closed {
		l.mu.Unlock()
		return nil
	}
	l.closed = true
	l.mu.Unlock()

	l.signal()
	err := l.dev.Close()
	<-l.done

	return err
}

func (l *Link) readLoop() {
	defer close(l.done)

	for {
		buf := make([]byte, l.packetSize)
		n, err := l.dev.Read(buf)
		if err != nil {
			if l.isClosed() {
				return
			}

			l.logger.Warn("HID read failed, treating device as disconnected", "err", err)
			l.disconnectOnce.Do(func() {
				close(l.disconnected)
			})
			return
		}
		if l.isClosed() {
			return
		}
		// Polling handles report an empty read when nothing arrived in time.
		if n == 0 {
			continue
		}

		l.push(buf[:n])
	}
}

func (l *Link) push(p []byte) {
	l.mu.Lock()
	l.inputs = append(l.inputs, p)
	l.mu.Unlock()

	l.signal()
}

func (l *Link) signal() {
	select {
	case l.notify <- struct{}{}:
	default:
	}
}

func (l *Link) isClosed() bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	return l.closed
}
