package transport

import (
	"errors"
)

var (
	ErrDisconnected = errors.New("transport: device disconnected")
	ErrClosed       = errors.New("transport: closed")
	// ErrUserCancelled is returned by discovery when no device was selected or permitted.
	ErrUserCancelled = errors.New("transport: no device selected")
)

// ErrDisconnectedDuringOperation is returned by an exchange interrupted by
// the loss of the device. It matches ErrDisconnected as well.
var ErrDisconnectedDuringOperation = &DisconnectedError{}

// DisconnectedError reports a link lost while an exchange was in flight.
type DisconnectedError struct {
	Cause error
}

func (e *DisconnectedError) Error() string {
	if e.Cause != nil {
		return "transport: device disconnected during operation (" + e.Cause.Error() + ")"
	}
	return "transport: device disconnected during operation"
}

func (e *DisconnectedError) Is(target error) bool {
	return target == ErrDisconnected || target == ErrDisconnectedDuringOperation
}

func (e *DisconnectedError) Unwrap() error {
	return e.Cause
}
