package mxtp

import "github.com/axonmocap/mxtpd/internal/wire"

// DecodeCenterOfMass decodes a type-24 payload: a single 12-byte position.
func DecodeCenterOfMass(payload []byte) (*CenterOfMass, error) {
	c := wire.NewCursor(payload)
	pos, err := readPosition(c)
	if err != nil {
		return nil, &DecodeError{Field: "position", Err: err}
	}
	return &CenterOfMass{Position: pos}, nil
}

// EncodeCenterOfMass serializes com as a type-24 payload.
func EncodeCenterOfMass(com *CenterOfMass) []byte {
	w := wire.NewWriter(12)
	writePosition(w, com.Position)
	return w.Bytes()
}
