// Package wire provides bounds-checked big-endian primitives for decoding
// the MXTP wire format. Every read fails with ErrTruncated rather than
// panicking when the declared width exceeds the remaining buffer; callers
// are expected to treat a Cursor error as fatal to the current datagram,
// not to the receiver.
package wire

import (
	"encoding/binary"
	"errors"
	"fmt"
	"math"
)

// ErrTruncated is returned by every Cursor read when fewer bytes remain
// than the read requires.
var ErrTruncated = errors.New("wire: truncated")

// Cursor reads sequentially from an immutable byte slice. It never mutates
// or retains slices beyond aliasing into buf, and never reads past len(buf).
type Cursor struct {
	buf []byte
	pos int
}

// NewCursor returns a Cursor reading from the start of buf.
func NewCursor(buf []byte) *Cursor {
	return &Cursor{buf: buf}
}

// Pos returns the current read offset.
func (c *Cursor) Pos() int {
	return c.pos
}

// Remaining returns the number of unread bytes.
func (c *Cursor) Remaining() int {
	return len(c.buf) - c.pos
}

func (c *Cursor) require(n int) error {
	if c.Remaining() < n {
		return fmt.Errorf("%w: need %d bytes, have %d at offset %d", ErrTruncated, n, c.Remaining(), c.pos)
	}
	return nil
}

// ReadU8 reads one unsigned byte.
func (c *Cursor) ReadU8() (uint8, error) {
	if err := c.require(1); err != nil {
		return 0, err
	}
	v := c.buf[c.pos]
	c.pos++
	return v, nil
}

// ReadU16BE reads a big-endian uint16.
func (c *Cursor) ReadU16BE() (uint16, error) {
	if err := c.require(2); err != nil {
		return 0, err
	}
	v := binary.BigEndian.Uint16(c.buf[c.pos:])
	c.pos += 2
	return v, nil
}

// ReadU32BE reads a big-endian uint32.
func (c *Cursor) ReadU32BE() (uint32, error) {
	if err := c.require(4); err != nil {
		return 0, err
	}
	v := binary.BigEndian.Uint32(c.buf[c.pos:])
	c.pos += 4
	return v, nil
}

// ReadI32BE reads a big-endian int32.
func (c *Cursor) ReadI32BE() (int32, error) {
	v, err := c.ReadU32BE()
	if err != nil {
		return 0, err
	}
	return int32(v), nil
}

// ReadF32BE reads a big-endian IEEE-754 single-precision float.
func (c *Cursor) ReadF32BE() (float32, error) {
	v, err := c.ReadU32BE()
	if err != nil {
		return 0, err
	}
	return math.Float32frombits(v), nil
}

// ReadBytes reads the next n bytes verbatim. The returned slice is a copy;
// callers may retain it beyond the Cursor's lifetime.
func (c *Cursor) ReadBytes(n int) ([]byte, error) {
	if n < 0 {
		return nil, fmt.Errorf("%w: negative length %d", ErrTruncated, n)
	}
	if err := c.require(n); err != nil {
		return nil, err
	}
	out := make([]byte, n)
	copy(out, c.buf[c.pos:c.pos+n])
	c.pos += n
	return out, nil
}

// ReadASCII reads n bytes and returns them as a string without validating
// that every byte is within the ASCII range; callers that need strict
// ASCII validation should check the returned string themselves.
func (c *Cursor) ReadASCII(n int) (string, error) {
	b, err := c.ReadBytes(n)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// ReadLenPrefixedString reads a 4-byte big-endian signed length L followed
// by L bytes decoded as UTF-8. The string is not null-terminated. L must be
// non-negative and must fit within the remaining buffer.
func (c *Cursor) ReadLenPrefixedString() (string, error) {
	l, err := c.ReadI32BE()
	if err != nil {
		return "", fmt.Errorf("wire: read string length: %w", err)
	}
	if l < 0 {
		return "", fmt.Errorf("%w: negative string length %d", ErrTruncated, l)
	}
	b, err := c.ReadBytes(int(l))
	if err != nil {
		return "", fmt.Errorf("wire: read string body: %w", err)
	}
	return string(b), nil
}
