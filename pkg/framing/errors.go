package framing

import (
	"errors"
	"fmt"
)

var (
	ErrPacketSizeTooSmall = errors.New("framing: packet size too small for header")
	ErrMessageTooLarge    = errors.New("framing: message payload too large")
	ErrPacketTooShort     = errors.New("framing: packet too short")
	ErrInvalidChannel     = errors.New("framing: invalid channel")
	ErrInvalidTag         = errors.New("framing: invalid tag")
	ErrInvalidSequence    = errors.New("framing: invalid sequence")
)

// FrameError describes a packet rejected during reassembly.
type FrameError struct {
	Err      error
	Expected int
	Got      int
}

func newFrameError(err error, expected, got int) *FrameError {
	return &FrameError{
		Err:      err,
		Expected: expected,
		Got:      got,
	}
}

func (e *FrameError) Error() string {
	return fmt.Sprintf("%s (expected %#x, got %#x)", e.Err, e.Expected, e.Got)
}

func (e *FrameError) Unwrap() error {
	return e.Err
}
