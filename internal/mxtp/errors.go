package mxtp

import (
	"errors"
	"fmt"
)

// Sentinel errors for MXTP decode failures. These enable callers to
// programmatically distinguish failure modes using errors.Is, matching the
// error-kind taxonomy of the protocol (BadMagic, BadMessageType, and so on
// are not aborting conditions — they are locally recovered by the caller at
// the smallest applicable scope: item, frame, fragment, or datagram).
var (
	ErrBadMagic           = errors.New("mxtp: bad magic")
	ErrBadMessageType     = errors.New("mxtp: bad message type")
	ErrLengthMismatch     = errors.New("mxtp: payload_size does not match available bytes")
	ErrMisalignedPayload  = errors.New("mxtp: payload length not a multiple of item stride")
	ErrSegmentOutOfRange  = errors.New("mxtp: segment id out of range")
	ErrInconsistentFragment = errors.New("mxtp: fragment inconsistent with partial frame header")
)

// DecodeError wraps a failure to decode a specific field or payload,
// recording which one was being parsed when the underlying error occurred.
type DecodeError struct {
	Field string
	Err   error
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("mxtp: decode %s: %v", e.Field, e.Err)
}

func (e *DecodeError) Unwrap() error {
	return e.Err
}
