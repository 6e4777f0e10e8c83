package mxtp

import (
	"errors"
	"testing"

	"github.com/axonmocap/mxtpd/internal/wire"
)

func TestDecodeHeaderTruncatedBuffer(t *testing.T) {
	t.Parallel()
	_, _, err := DecodeHeader([]byte{0x4D, 0x58}, true, false)
	if !errors.Is(err, wire.ErrTruncated) {
		t.Fatalf("err = %v, want wire.ErrTruncated", err)
	}
}

func TestDecodeHeaderBadMagicStrict(t *testing.T) {
	t.Parallel()
	buf := EncodeHeader(Header{MessageType: MsgPoseEuler})
	buf[0] = 'X'
	_, _, err := DecodeHeader(buf, true, false)
	if !errors.Is(err, ErrBadMagic) {
		t.Fatalf("err = %v, want ErrBadMagic", err)
	}
}

func TestDecodeHeaderBadMagicLenient(t *testing.T) {
	t.Parallel()
	buf := EncodeHeader(Header{MessageType: MsgPoseEuler})
	buf[0] = 'X'
	h, _, err := DecodeHeader(buf, false, false)
	if err != nil {
		t.Fatalf("unexpected error with strictMagic=false: %v", err)
	}
	if h.MessageType != MsgPoseEuler {
		t.Fatalf("MessageType = %d, want decoding to still proceed correctly", h.MessageType)
	}
}

func TestDecodeHeaderBadMessageType(t *testing.T) {
	t.Parallel()
	buf := EncodeHeader(Header{MessageType: MsgPoseEuler})
	buf[4] = 'X' // corrupt the first ASCII digit of the type field
	_, _, err := DecodeHeader(buf, true, false)
	if !errors.Is(err, ErrBadMessageType) {
		t.Fatalf("err = %v, want ErrBadMessageType", err)
	}
}

func TestDecodeHeaderStrictLengthMismatchErrors(t *testing.T) {
	t.Parallel()
	buf := EncodeHeader(Header{MessageType: MsgPoseEuler, PayloadSize: 10})
	_, _, err := DecodeHeader(buf, true, true) // no payload bytes follow, strict length
	if !errors.Is(err, ErrLengthMismatch) {
		t.Fatalf("err = %v, want ErrLengthMismatch", err)
	}
}

func TestDecodeHeaderLenientLengthClampsAndRecordsDeclared(t *testing.T) {
	t.Parallel()
	buf := EncodeHeader(Header{MessageType: MsgPoseEuler, PayloadSize: 10})
	h, rest, err := DecodeHeader(buf, true, false) // 0 bytes follow, declared 10
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if h.PayloadSize != 0 {
		t.Errorf("PayloadSize = %d, want clamped to 0", h.PayloadSize)
	}
	if h.DeclaredPayloadSize != 10 {
		t.Errorf("DeclaredPayloadSize = %d, want 10 (unclamped)", h.DeclaredPayloadSize)
	}
	if len(rest) != 0 {
		t.Errorf("rest has %d bytes, want 0", len(rest))
	}
}
