// Package mxtp implements the MXTP motion-capture network streaming
// protocol: a 24-byte datagram header, a polymorphic payload dispatched by
// a two-digit message-type code, a closed set of typed payload decoders,
// and the segment-identity tables needed to resolve the segment and point
// IDs carried on the wire. The package is pure decode-and-assemble over
// opaque byte buffers; it owns no sockets and performs no I/O.
package mxtp

// MessageType identifies the payload shape carried by a datagram, decoded
// from the two ASCII digits following "MXTP" in the header's id_string.
type MessageType uint8

// Recognized message types. 04 (MotionGrid tags), 10 (character scale,
// superseded by 13), and 11 (prop info, superseded by 13) are deprecated
// and always decode as ErrBadMessageType.
const (
	MsgPoseEuler       MessageType = 1
	MsgPoseQuaternion  MessageType = 2
	MsgPosePoints      MessageType = 3
	MsgPoseUnity3D     MessageType = 5
	MsgMetaData        MessageType = 12
	MsgScaleInfo       MessageType = 13
	MsgJointAngles     MessageType = 20
	MsgLinearKin       MessageType = 21
	MsgAngularKin      MessageType = 22
	MsgTrackerKin      MessageType = 23
	MsgCenterOfMass    MessageType = 24
	MsgTimeCode        MessageType = 25
)

// knownMessageTypes is the closed enumeration from §3.2 of the protocol
// specification. Any code not present here is reported as
// ErrBadMessageType; the datagram is skipped using its payload_size, never
// treated as a fatal stream error.
var knownMessageTypes = map[MessageType]bool{
	MsgPoseEuler:      true,
	MsgPoseQuaternion: true,
	MsgPosePoints:     true,
	MsgPoseUnity3D:    true,
	MsgMetaData:       true,
	MsgScaleInfo:      true,
	MsgJointAngles:    true,
	MsgLinearKin:      true,
	MsgAngularKin:     true,
	MsgTrackerKin:     true,
	MsgCenterOfMass:   true,
	MsgTimeCode:       true,
}

// IsKnown reports whether mt is one of the twelve recognized message types.
func (mt MessageType) IsKnown() bool {
	return knownMessageTypes[mt]
}

// HeaderSize is the fixed size in bytes of the MXTP datagram header.
const HeaderSize = 24

// Header is the decoded 24-byte MXTP datagram header (§3.1).
type Header struct {
	MessageType     MessageType
	SampleCounter   uint32
	DatagramCounter uint8
	ItemCount       uint8
	TimeCodeMs      uint32
	CharacterID     uint8
	BodySegments    uint8
	PropCount       uint8
	FingerSegments  uint8
	PayloadSize     uint16

	// DeclaredPayloadSize is the payload_size field exactly as read off the
	// wire, before any lenient-mode clamping. Compare it against the bytes
	// actually available to detect a mismatch even after PayloadSize has
	// been clamped for decoding to proceed.
	DeclaredPayloadSize uint16
}

// IsLast reports whether the high bit of DatagramCounter (the
// last-fragment bit) is set.
func (h Header) IsLast() bool {
	return h.DatagramCounter&0x80 != 0
}

// FragmentIndex returns the low 7 bits of DatagramCounter.
func (h Header) FragmentIndex() uint8 {
	return h.DatagramCounter & 0x7F
}

// Position is a 3D position vector, in centimeters.
type Position struct{ X, Y, Z float32 }

// Velocity is a 3D velocity vector, in meters/second.
type Velocity struct{ X, Y, Z float32 }

// Acceleration is a 3D acceleration vector, in meters/second².
type Acceleration struct{ X, Y, Z float32 }

// AngularVelocity is a 3D angular velocity vector, in degrees/second.
type AngularVelocity struct{ X, Y, Z float32 }

// AngularAcceleration is a 3D angular acceleration vector, in
// degrees/second².
type AngularAcceleration struct{ X, Y, Z float32 }

// Euler holds Euler angle rotation components in degrees.
type Euler struct{ X, Y, Z float32 }

// Quaternion is a rotation quaternion; not sign-canonical.
type Quaternion struct{ W, X, Y, Z float32 }

// SegmentEuler is one item of a type-01 Euler pose payload.
type SegmentEuler struct {
	SegmentID uint32
	Position  Position
	Euler     Euler
}

// SegmentQuaternion is one item of a type-02 or type-05 pose payload.
type SegmentQuaternion struct {
	SegmentID uint32
	Position  Position
	Quat      Quaternion
}

// PointPosition is one item of a type-03 points payload.
type PointPosition struct {
	PointID  uint32
	Position Position
}

// JointAngle is one item of a type-20 joint-angle payload.
type JointAngle struct {
	ParentPointID uint32
	ChildPointID  uint32
	RotationDeg   Euler
}

// LinearKinematics is one item of a type-21 payload.
type LinearKinematics struct {
	SegmentID    uint32
	Position     Position
	Velocity     Velocity
	Acceleration Acceleration
}

// AngularKinematics is one item of a type-22 payload.
type AngularKinematics struct {
	SegmentID              uint32
	Quat                   Quaternion
	AngularVelocity        AngularVelocity
	AngularAcceleration    AngularAcceleration
}

// TrackerKinematics is one item of a type-23 payload. Only segments
// equipped with a physical tracker appear; item order does not necessarily
// match segment index order.
type TrackerKinematics struct {
	SegmentID        uint32
	Quat             Quaternion
	FreeAcceleration Acceleration
	MagneticField    Position
}

// MetaData is the decoded type-12 payload: known tags plus any unrecognized
// tag:value lines.
type MetaData struct {
	Name  string
	XMID  string
	Color string
	Extra map[string]string
}

// ScaleSegment is one entry of a type-13 "segments" sub-packet.
type ScaleSegment struct {
	Name   string
	Origin Position
}

// ScalePoint is one entry of a type-13 "points" sub-packet.
type ScalePoint struct {
	SegmentID uint16
	PointID   uint16
	Name      string
	Flags     uint32
	Offset    Position
}

// ScaleInfo is one decoded type-13 packet. A logical scale transmission
// spans multiple packets with no sequence identifier beyond sample_counter;
// callers must merge Segments and Points across packets as they arrive —
// the core emits per-packet deltas and does not aggregate them itself.
type ScaleInfo struct {
	Segments []ScaleSegment
	Points   []ScalePoint
}

// CenterOfMass is the decoded type-24 payload.
type CenterOfMass struct {
	Position Position
}

// TimeCode is the decoded type-25 payload, format HH:MM:SS.mmm or the
// short form HH:MM:SS.
type TimeCode struct {
	Value string
}

// Payload is the typed decode result for one message type. Exactly one
// field is non-nil, selected by MessageType — the same "tagged union via
// nil-checked fields" shape used throughout this codebase for polymorphic
// decode results.
type Payload struct {
	EulerPose      []SegmentEuler
	QuaternionPose []SegmentQuaternion
	Points         []PointPosition
	Unity3DPose    []SegmentQuaternion
	Meta           *MetaData
	Scale          *ScaleInfo
	JointAngles    []JointAngle
	LinearKin      []LinearKinematics
	AngularKin     []AngularKinematics
	TrackerKin     []TrackerKinematics
	CenterOfMass   *CenterOfMass
	TimeCode       *TimeCode
}

// Frame is a fully reassembled, decoded sampling instance for one
// character, handed to sinks by the reassembler.
type Frame struct {
	CharacterID   uint8
	SampleCounter uint32
	TimeCodeMs    uint32
	MessageType   MessageType
	Payload       Payload
}
