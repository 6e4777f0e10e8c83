package mxtp

import (
	"fmt"

	"github.com/axonmocap/mxtpd/internal/wire"
)

const idStringPrefix = "MXTP"

// DecodeHeader parses the fixed 24-byte MXTP header from the front of buf.
// It requires len(buf) >= HeaderSize (else ErrTruncated), validates the
// two-ASCII-digit message type (else ErrBadMessageType), and returns the
// header plus the payload bytes that follow it (buf[HeaderSize:]).
//
// When strictMagic is true, an id_string prefix other than "MXTP" yields
// ErrBadMagic and the datagram is rejected outright. When false, a bad
// prefix does not abort decoding: the rest of the header is decoded as
// usual, and nothing in the returned values indicates that the prefix
// was wrong.
//
// When strictLength is true, a payload_size that disagrees with
// len(buf)-HeaderSize yields ErrLengthMismatch. When false (lenient mode),
// the header's PayloadSize field is clamped to the smaller of the declared
// and available lengths and decoding proceeds; callers can compare
// Header.DeclaredPayloadSize against the bytes actually available to
// detect and report this case even though clamping already succeeded.
func DecodeHeader(buf []byte, strictMagic, strictLength bool) (Header, []byte, error) {
	if len(buf) < HeaderSize {
		return Header{}, nil, fmt.Errorf("%w: header", wire.ErrTruncated)
	}

	c := wire.NewCursor(buf)

	magic, _ := c.ReadASCII(4)
	if magic != idStringPrefix && strictMagic {
		return Header{}, nil, fmt.Errorf("%w: got %q", ErrBadMagic, magic)
	}

	typeDigits, _ := c.ReadASCII(2)
	mt, ok := parseMessageTypeDigits(typeDigits)
	if !ok {
		return Header{}, nil, fmt.Errorf("%w: id string type field %q", ErrBadMessageType, typeDigits)
	}

	sampleCounter, _ := c.ReadU32BE()
	datagramCounter, _ := c.ReadU8()
	itemCount, _ := c.ReadU8()
	timeCode, _ := c.ReadU32BE()
	characterID, _ := c.ReadU8()
	bodySegments, _ := c.ReadU8()
	propCount, _ := c.ReadU8()
	fingerSegments, _ := c.ReadU8()
	_, _ = c.ReadU16BE() // reserved, ignored on read
	payloadSize, _ := c.ReadU16BE()

	h := Header{
		MessageType:         mt,
		SampleCounter:       sampleCounter,
		DatagramCounter:     datagramCounter,
		ItemCount:           itemCount,
		TimeCodeMs:          timeCode,
		CharacterID:         characterID,
		BodySegments:        bodySegments,
		PropCount:           propCount,
		FingerSegments:      fingerSegments,
		PayloadSize:         payloadSize,
		DeclaredPayloadSize: payloadSize,
	}

	rest := buf[HeaderSize:]
	available := len(rest)

	if int(h.PayloadSize) != available {
		if strictLength {
			return h, nil, fmt.Errorf("%w: header declares %d, buffer has %d", ErrLengthMismatch, h.PayloadSize, available)
		}
		clamped := available
		if int(h.PayloadSize) < available {
			clamped = int(h.PayloadSize)
		}
		h.PayloadSize = uint16(clamped)
		rest = rest[:clamped]
	}

	return h, rest, nil
}

// parseMessageTypeDigits parses two ASCII decimal digits into a
// MessageType. Non-digit bytes are rejected.
func parseMessageTypeDigits(s string) (MessageType, bool) {
	if len(s) != 2 {
		return 0, false
	}
	hi, lo := s[0], s[1]
	if hi < '0' || hi > '9' || lo < '0' || lo > '9' {
		return 0, false
	}
	return MessageType((hi-'0')*10 + (lo - '0')), true
}

// EncodeHeader serializes h as the 24-byte MXTP header, writing zero into
// the two reserved bytes.
func EncodeHeader(h Header) []byte {
	w := wire.NewWriter(HeaderSize)
	w.WriteBytes([]byte(idStringPrefix))
	w.WriteU8('0' + byte(h.MessageType/10))
	w.WriteU8('0' + byte(h.MessageType%10))
	w.WriteU32BE(h.SampleCounter)
	w.WriteU8(h.DatagramCounter)
	w.WriteU8(h.ItemCount)
	w.WriteU32BE(h.TimeCodeMs)
	w.WriteU8(h.CharacterID)
	w.WriteU8(h.BodySegments)
	w.WriteU8(h.PropCount)
	w.WriteU8(h.FingerSegments)
	w.WriteU16BE(0) // reserved
	w.WriteU16BE(h.PayloadSize)
	return w.Bytes()
}
