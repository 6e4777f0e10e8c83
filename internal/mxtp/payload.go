package mxtp

import "fmt"

// DecodePayload dispatches payload to the decoder matching h.MessageType,
// using h's segment/prop/finger counts to bound segment ID range checks and
// cfg to select decode leniency. It returns ErrBadMessageType for any
// message type outside the closed set in §3.2 — callers should treat that
// as "skip this datagram", not as a fatal stream error.
func DecodePayload(h Header, payload []byte, key FrameKey, cfg Config, tel Telemetry) (Payload, error) {
	switch h.MessageType {
	case MsgPoseEuler:
		maxIdx := MaxSegmentIndex(OrderDefault, h.PropCount, h.FingerSegments)
		items, err := DecodeEulerPose(payload, key, maxIdx, tel)
		if err != nil {
			return Payload{}, err
		}
		return Payload{EulerPose: items}, nil

	case MsgPoseQuaternion:
		maxIdx := MaxSegmentIndex(OrderDefault, h.PropCount, h.FingerSegments)
		items, err := DecodeQuaternionPose(payload, key, maxIdx, tel)
		if err != nil {
			return Payload{}, err
		}
		return Payload{QuaternionPose: items}, nil

	case MsgPosePoints:
		maxIdx := MaxSegmentIndex(OrderDefault, h.PropCount, h.FingerSegments)
		items, err := DecodePoints(payload, key, maxIdx, cfg.PointIDMultiplier, tel)
		if err != nil {
			return Payload{}, err
		}
		return Payload{Points: items}, nil

	case MsgPoseUnity3D:
		items, err := DecodeUnity3DPose(payload, key, h.PropCount, tel)
		if err != nil {
			return Payload{}, err
		}
		return Payload{Unity3DPose: items}, nil

	case MsgMetaData:
		md, err := DecodeMetaData(payload)
		if err != nil {
			return Payload{}, err
		}
		return Payload{Meta: md}, nil

	case MsgScaleInfo:
		info, err := DecodeScaleInfo(payload)
		if err != nil {
			return Payload{}, err
		}
		return Payload{Scale: info}, nil

	case MsgJointAngles:
		items, err := DecodeJointAngles(payload)
		if err != nil {
			return Payload{}, err
		}
		return Payload{JointAngles: items}, nil

	case MsgLinearKin:
		maxIdx := MaxSegmentIndex(OrderDefault, h.PropCount, h.FingerSegments)
		items, err := DecodeLinearKinematics(payload, key, maxIdx, tel)
		if err != nil {
			return Payload{}, err
		}
		return Payload{LinearKin: items}, nil

	case MsgAngularKin:
		maxIdx := MaxSegmentIndex(OrderDefault, h.PropCount, h.FingerSegments)
		items, err := DecodeAngularKinematics(payload, key, maxIdx, tel)
		if err != nil {
			return Payload{}, err
		}
		return Payload{AngularKin: items}, nil

	case MsgTrackerKin:
		items, err := DecodeTrackerKinematics(payload)
		if err != nil {
			return Payload{}, err
		}
		return Payload{TrackerKin: items}, nil

	case MsgCenterOfMass:
		com, err := DecodeCenterOfMass(payload)
		if err != nil {
			return Payload{}, err
		}
		return Payload{CenterOfMass: com}, nil

	case MsgTimeCode:
		tc, err := DecodeTimeCode(payload)
		if err != nil {
			return Payload{}, err
		}
		return Payload{TimeCode: tc}, nil

	default:
		tel.UnknownMessageType(h.MessageType)
		return Payload{}, fmt.Errorf("%w: %d", ErrBadMessageType, h.MessageType)
	}
}
