package wire

import (
	"encoding/binary"
	"math"
)

// Writer accumulates big-endian encoded fields into a growing byte buffer.
// It mirrors Cursor's read primitives so encoders and decoders stay
// structurally symmetric.
type Writer struct {
	buf []byte
}

// NewWriter returns an empty Writer. size is a capacity hint.
func NewWriter(size int) *Writer {
	return &Writer{buf: make([]byte, 0, size)}
}

// Bytes returns the accumulated buffer.
func (w *Writer) Bytes() []byte {
	return w.buf
}

// Len returns the number of bytes written so far.
func (w *Writer) Len() int {
	return len(w.buf)
}

// WriteU8 appends one byte.
func (w *Writer) WriteU8(v uint8) {
	w.buf = append(w.buf, v)
}

// WriteU16BE appends a big-endian uint16.
func (w *Writer) WriteU16BE(v uint16) {
	var tmp [2]byte
	binary.BigEndian.PutUint16(tmp[:], v)
	w.buf = append(w.buf, tmp[:]...)
}

// WriteU32BE appends a big-endian uint32.
func (w *Writer) WriteU32BE(v uint32) {
	var tmp [4]byte
	binary.BigEndian.PutUint32(tmp[:], v)
	w.buf = append(w.buf, tmp[:]...)
}

// WriteI32BE appends a big-endian int32.
func (w *Writer) WriteI32BE(v int32) {
	w.WriteU32BE(uint32(v))
}

// WriteF32BE appends a big-endian IEEE-754 single-precision float.
func (w *Writer) WriteF32BE(v float32) {
	w.WriteU32BE(math.Float32bits(v))
}

// WriteBytes appends b verbatim.
func (w *Writer) WriteBytes(b []byte) {
	w.buf = append(w.buf, b...)
}

// WriteLenPrefixedString appends a 4-byte big-endian length followed by the
// UTF-8 bytes of s.
func (w *Writer) WriteLenPrefixedString(s string) {
	w.WriteI32BE(int32(len(s)))
	w.buf = append(w.buf, s...)
}
