package mxtp

import (
	"github.com/axonmocap/mxtpd/internal/wire"
)

const stridePoint = 16 // u32 point_id + 3×f32 position

// DecodePoints decodes a type-03 payload. Each item's wire point ID is
// decomposed into a segment ID and local point ID using mult; items whose
// decomposed segment ID falls outside [1, maxSegmentIndex+1] are reported
// via tel.SegmentOutOfRange and dropped.
func DecodePoints(payload []byte, key FrameKey, maxSegmentIndex int, mult PointIDMultiplier, tel Telemetry) ([]PointPosition, error) {
	return decodeStridedItems(payload, stridePoint, func(c *wire.Cursor) (PointPosition, uint32, error) {
		pointID, err := c.ReadU32BE()
		if err != nil {
			return PointPosition{}, 0, err
		}
		pos, err := readPosition(c)
		if err != nil {
			return PointPosition{}, 0, err
		}
		segID, _ := DecomposePointID(pointID, mult)
		return PointPosition{PointID: pointID, Position: pos}, segID, nil
	}, maxSegmentIndex, key, tel)
}

// EncodePoints serializes items as a type-03 payload.
func EncodePoints(items []PointPosition) []byte {
	w := wire.NewWriter(len(items) * stridePoint)
	for _, it := range items {
		w.WriteU32BE(it.PointID)
		writePosition(w, it.Position)
	}
	return w.Bytes()
}
