package mxtp

import (
	"fmt"

	"github.com/axonmocap/mxtpd/internal/wire"
)

const (
	strideEuler      = 28 // u32 segment_id + 3×f32 position + 3×f32 euler
	strideQuaternion = 32 // u32 segment_id + 3×f32 position + 4×f32 quat
)

// DecodeEulerPose decodes a type-01 payload (Y-up, right-handed). Items
// whose segment ID falls outside [1, maxSegmentIndex+1] are reported via
// tel.SegmentOutOfRange and dropped; decoding continues.
func DecodeEulerPose(payload []byte, key FrameKey, maxSegmentIndex int, tel Telemetry) ([]SegmentEuler, error) {
	items, err := decodeStridedItems(payload, strideEuler, func(c *wire.Cursor) (SegmentEuler, uint32, error) {
		segID, err := c.ReadU32BE()
		if err != nil {
			return SegmentEuler{}, 0, err
		}
		pos, err := readPosition(c)
		if err != nil {
			return SegmentEuler{}, 0, err
		}
		eul, err := readEuler(c)
		if err != nil {
			return SegmentEuler{}, 0, err
		}
		return SegmentEuler{SegmentID: segID, Position: pos, Euler: eul}, segID, nil
	}, maxSegmentIndex, key, tel)
	return items, err
}

// EncodeEulerPose serializes items as a type-01 payload.
func EncodeEulerPose(items []SegmentEuler) []byte {
	w := wire.NewWriter(len(items) * strideEuler)
	for _, it := range items {
		w.WriteU32BE(it.SegmentID)
		writePosition(w, it.Position)
		writeEuler(w, it.Euler)
	}
	return w.Bytes()
}

// DecodeQuaternionPose decodes a type-02 payload (Z-up, right-handed).
func DecodeQuaternionPose(payload []byte, key FrameKey, maxSegmentIndex int, tel Telemetry) ([]SegmentQuaternion, error) {
	return decodeStridedItems(payload, strideQuaternion, func(c *wire.Cursor) (SegmentQuaternion, uint32, error) {
		segID, err := c.ReadU32BE()
		if err != nil {
			return SegmentQuaternion{}, 0, err
		}
		pos, err := readPosition(c)
		if err != nil {
			return SegmentQuaternion{}, 0, err
		}
		q, err := readQuaternion(c)
		if err != nil {
			return SegmentQuaternion{}, 0, err
		}
		return SegmentQuaternion{SegmentID: segID, Position: pos, Quat: q}, segID, nil
	}, maxSegmentIndex, key, tel)
}

// EncodeQuaternionPose serializes items as a type-02 payload.
func EncodeQuaternionPose(items []SegmentQuaternion) []byte {
	return encodeSegmentQuaternions(items)
}

// DecodeUnity3DPose decodes a type-05 payload (Y-up, left-handed). Unlike
// the other pose types, segment IDs are validated against the fixed
// Unity3D body-segment count plus props; there is no finger support.
func DecodeUnity3DPose(payload []byte, key FrameKey, propCount uint8, tel Telemetry) ([]SegmentQuaternion, error) {
	maxSegmentIndex := MaxSegmentIndex(OrderUnity3D, propCount, 0)
	return decodeStridedItems(payload, strideQuaternion, func(c *wire.Cursor) (SegmentQuaternion, uint32, error) {
		segID, err := c.ReadU32BE()
		if err != nil {
			return SegmentQuaternion{}, 0, err
		}
		pos, err := readPosition(c)
		if err != nil {
			return SegmentQuaternion{}, 0, err
		}
		q, err := readQuaternion(c)
		if err != nil {
			return SegmentQuaternion{}, 0, err
		}
		return SegmentQuaternion{SegmentID: segID, Position: pos, Quat: q}, segID, nil
	}, maxSegmentIndex, key, tel)
}

// EncodeUnity3DPose serializes items as a type-05 payload.
func EncodeUnity3DPose(items []SegmentQuaternion) []byte {
	return encodeSegmentQuaternions(items)
}

func encodeSegmentQuaternions(items []SegmentQuaternion) []byte {
	w := wire.NewWriter(len(items) * strideQuaternion)
	for _, it := range items {
		w.WriteU32BE(it.SegmentID)
		writePosition(w, it.Position)
		writeQuaternion(w, it.Quat)
	}
	return w.Bytes()
}

// decodeStridedItems is the shared shape behind every fixed-stride payload
// decoder: validate the payload length is a whole multiple of stride
// (MisalignedPayload otherwise), then decode each item with decodeOne,
// dropping items whose segment/point ID (as reported by decodeOne) falls
// outside [1, maxIndex+1].
func decodeStridedItems[T any](payload []byte, stride int, decodeOne func(*wire.Cursor) (T, uint32, error), maxIndex int, key FrameKey, tel Telemetry) ([]T, error) {
	if len(payload)%stride != 0 {
		return nil, fmt.Errorf("%w: length %d not a multiple of %d", ErrMisalignedPayload, len(payload), stride)
	}
	n := len(payload) / stride
	out := make([]T, 0, n)
	c := wire.NewCursor(payload)
	for i := 0; i < n; i++ {
		item, wireID, err := decodeOne(c)
		if err != nil {
			return nil, &DecodeError{Field: "item", Err: err}
		}
		if wireID < 1 || int(wireID) > maxIndex+1 {
			tel.SegmentOutOfRange(key, wireID)
			continue
		}
		out = append(out, item)
	}
	return out, nil
}

func readPosition(c *wire.Cursor) (Position, error) {
	x, err := c.ReadF32BE()
	if err != nil {
		return Position{}, err
	}
	y, err := c.ReadF32BE()
	if err != nil {
		return Position{}, err
	}
	z, err := c.ReadF32BE()
	if err != nil {
		return Position{}, err
	}
	return Position{X: x, Y: y, Z: z}, nil
}

func writePosition(w *wire.Writer, p Position) {
	w.WriteF32BE(p.X)
	w.WriteF32BE(p.Y)
	w.WriteF32BE(p.Z)
}

func readEuler(c *wire.Cursor) (Euler, error) {
	x, err := c.ReadF32BE()
	if err != nil {
		return Euler{}, err
	}
	y, err := c.ReadF32BE()
	if err != nil {
		return Euler{}, err
	}
	z, err := c.ReadF32BE()
	if err != nil {
		return Euler{}, err
	}
	return Euler{X: x, Y: y, Z: z}, nil
}

func writeEuler(w *wire.Writer, e Euler) {
	w.WriteF32BE(e.X)
	w.WriteF32BE(e.Y)
	w.WriteF32BE(e.Z)
}

func readQuaternion(c *wire.Cursor) (Quaternion, error) {
	w, err := c.ReadF32BE()
	if err != nil {
		return Quaternion{}, err
	}
	x, err := c.ReadF32BE()
	if err != nil {
		return Quaternion{}, err
	}
	y, err := c.ReadF32BE()
	if err != nil {
		return Quaternion{}, err
	}
	z, err := c.ReadF32BE()
	if err != nil {
		return Quaternion{}, err
	}
	return Quaternion{W: w, X: x, Y: y, Z: z}, nil
}

func writeQuaternion(w *wire.Writer, q Quaternion) {
	w.WriteF32BE(q.W)
	w.WriteF32BE(q.X)
	w.WriteF32BE(q.Y)
	w.WriteF32BE(q.Z)
}
