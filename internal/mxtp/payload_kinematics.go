package mxtp

import (
	"fmt"

	"github.com/axonmocap/mxtpd/internal/wire"
)

const (
	strideJointAngle       = 20 // u32 parent point + u32 child point + 3×f32 euler
	strideLinearKin        = 40 // u32 segment_id + position12 + velocity12 + accel12
	strideAngularKin       = 44 // u32 segment_id + quat16 + angvel12 + angaccel12
	strideTrackerKin       = 44 // u32 segment_id + quat16 + free_accel12 + mag_field12
)

// DecodeJointAngles decodes a type-20 payload. Joint items are identified by
// parent/child point ID, not by segment index, so no range filtering
// applies here.
func DecodeJointAngles(payload []byte) ([]JointAngle, error) {
	if len(payload)%strideJointAngle != 0 {
		return nil, fmt.Errorf("%w: length %d not a multiple of %d", ErrMisalignedPayload, len(payload), strideJointAngle)
	}
	n := len(payload) / strideJointAngle
	out := make([]JointAngle, 0, n)
	c := wire.NewCursor(payload)
	for i := 0; i < n; i++ {
		parent, err := c.ReadU32BE()
		if err != nil {
			return nil, &DecodeError{Field: "parent_point_id", Err: err}
		}
		child, err := c.ReadU32BE()
		if err != nil {
			return nil, &DecodeError{Field: "child_point_id", Err: err}
		}
		rot, err := readEuler(c)
		if err != nil {
			return nil, &DecodeError{Field: "rotation", Err: err}
		}
		out = append(out, JointAngle{ParentPointID: parent, ChildPointID: child, RotationDeg: rot})
	}
	return out, nil
}

// EncodeJointAngles serializes items as a type-20 payload.
func EncodeJointAngles(items []JointAngle) []byte {
	w := wire.NewWriter(len(items) * strideJointAngle)
	for _, it := range items {
		w.WriteU32BE(it.ParentPointID)
		w.WriteU32BE(it.ChildPointID)
		writeEuler(w, it.RotationDeg)
	}
	return w.Bytes()
}

// DecodeLinearKinematics decodes a type-21 payload.
func DecodeLinearKinematics(payload []byte, key FrameKey, maxSegmentIndex int, tel Telemetry) ([]LinearKinematics, error) {
	return decodeStridedItems(payload, strideLinearKin, func(c *wire.Cursor) (LinearKinematics, uint32, error) {
		segID, err := c.ReadU32BE()
		if err != nil {
			return LinearKinematics{}, 0, err
		}
		pos, err := readPosition(c)
		if err != nil {
			return LinearKinematics{}, 0, err
		}
		vel, err := readVelocity(c)
		if err != nil {
			return LinearKinematics{}, 0, err
		}
		acc, err := readAcceleration(c)
		if err != nil {
			return LinearKinematics{}, 0, err
		}
		return LinearKinematics{SegmentID: segID, Position: pos, Velocity: vel, Acceleration: acc}, segID, nil
	}, maxSegmentIndex, key, tel)
}

// EncodeLinearKinematics serializes items as a type-21 payload.
func EncodeLinearKinematics(items []LinearKinematics) []byte {
	w := wire.NewWriter(len(items) * strideLinearKin)
	for _, it := range items {
		w.WriteU32BE(it.SegmentID)
		writePosition(w, it.Position)
		writeVelocity(w, it.Velocity)
		writeAcceleration(w, it.Acceleration)
	}
	return w.Bytes()
}

// DecodeAngularKinematics decodes a type-22 payload.
func DecodeAngularKinematics(payload []byte, key FrameKey, maxSegmentIndex int, tel Telemetry) ([]AngularKinematics, error) {
	return decodeStridedItems(payload, strideAngularKin, func(c *wire.Cursor) (AngularKinematics, uint32, error) {
		segID, err := c.ReadU32BE()
		if err != nil {
			return AngularKinematics{}, 0, err
		}
		q, err := readQuaternion(c)
		if err != nil {
			return AngularKinematics{}, 0, err
		}
		av, err := readAngularVelocity(c)
		if err != nil {
			return AngularKinematics{}, 0, err
		}
		aa, err := readAngularAcceleration(c)
		if err != nil {
			return AngularKinematics{}, 0, err
		}
		return AngularKinematics{SegmentID: segID, Quat: q, AngularVelocity: av, AngularAcceleration: aa}, segID, nil
	}, maxSegmentIndex, key, tel)
}

// EncodeAngularKinematics serializes items as a type-22 payload.
func EncodeAngularKinematics(items []AngularKinematics) []byte {
	w := wire.NewWriter(len(items) * strideAngularKin)
	for _, it := range items {
		w.WriteU32BE(it.SegmentID)
		writeQuaternion(w, it.Quat)
		writeAngularVelocity(w, it.AngularVelocity)
		writeAngularAcceleration(w, it.AngularAcceleration)
	}
	return w.Bytes()
}

// DecodeTrackerKinematics decodes a type-23 payload. Only segments with a
// physical tracker are present, in arbitrary order, so segment IDs are not
// range-checked against the body/prop/finger counts — any value on the
// wire is accepted verbatim, matching the reference receiver.
func DecodeTrackerKinematics(payload []byte) ([]TrackerKinematics, error) {
	if len(payload)%strideTrackerKin != 0 {
		return nil, fmt.Errorf("%w: length %d not a multiple of %d", ErrMisalignedPayload, len(payload), strideTrackerKin)
	}
	n := len(payload) / strideTrackerKin
	out := make([]TrackerKinematics, 0, n)
	c := wire.NewCursor(payload)
	for i := 0; i < n; i++ {
		segID, err := c.ReadU32BE()
		if err != nil {
			return nil, &DecodeError{Field: "segment_id", Err: err}
		}
		q, err := readQuaternion(c)
		if err != nil {
			return nil, &DecodeError{Field: "quaternion", Err: err}
		}
		freeAcc, err := readAcceleration(c)
		if err != nil {
			return nil, &DecodeError{Field: "free_acceleration", Err: err}
		}
		mag, err := readPosition(c)
		if err != nil {
			return nil, &DecodeError{Field: "magnetic_field", Err: err}
		}
		out = append(out, TrackerKinematics{
			SegmentID:        segID,
			Quat:             q,
			FreeAcceleration: Acceleration(freeAcc),
			MagneticField:    mag,
		})
	}
	return out, nil
}

// EncodeTrackerKinematics serializes items as a type-23 payload.
func EncodeTrackerKinematics(items []TrackerKinematics) []byte {
	w := wire.NewWriter(len(items) * strideTrackerKin)
	for _, it := range items {
		w.WriteU32BE(it.SegmentID)
		writeQuaternion(w, it.Quat)
		writeAcceleration(w, it.FreeAcceleration)
		writePosition(w, it.MagneticField)
	}
	return w.Bytes()
}

func readVelocity(c *wire.Cursor) (Velocity, error) {
	p, err := readPosition(c)
	return Velocity(p), err
}

func writeVelocity(w *wire.Writer, v Velocity) {
	writePosition(w, Position(v))
}

func readAcceleration(c *wire.Cursor) (Acceleration, error) {
	p, err := readPosition(c)
	return Acceleration(p), err
}

func writeAcceleration(w *wire.Writer, a Acceleration) {
	writePosition(w, Position(a))
}

func readAngularVelocity(c *wire.Cursor) (AngularVelocity, error) {
	p, err := readPosition(c)
	return AngularVelocity(p), err
}

func writeAngularVelocity(w *wire.Writer, v AngularVelocity) {
	writePosition(w, Position(v))
}

func readAngularAcceleration(c *wire.Cursor) (AngularAcceleration, error) {
	p, err := readPosition(c)
	return AngularAcceleration(p), err
}

func writeAngularAcceleration(w *wire.Writer, a AngularAcceleration) {
	writePosition(w, Position(a))
}
