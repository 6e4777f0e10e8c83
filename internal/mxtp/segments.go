package mxtp

import "fmt"

// Segment count constants (§3.3).
const (
	BodySegmentCount    = 23
	MaxPropCount        = 4
	FingersPerHand      = 20
	TotalFingerSegments = 2 * FingersPerHand

	propIndexBase       = BodySegmentCount + 1 // index 23 reserved; Prop1 starts at 24
	leftFingerIndexBase = propIndexBase + MaxPropCount
)

// defaultOrderNames holds the 23 body segment names in default-order index
// 0..22, used by message types 01, 02, 03, 20, 21, 22, 23.
var defaultOrderNames = [BodySegmentCount]string{
	"Pelvis", "L5", "L3", "T12", "T8", "Neck", "Head",
	"Right Shoulder", "Right Upper Arm", "Right Forearm", "Right Hand",
	"Left Shoulder", "Left Upper Arm", "Left Forearm", "Left Hand",
	"Right Upper Leg", "Right Lower Leg", "Right Foot", "Right Toe",
	"Left Upper Leg", "Left Lower Leg", "Left Foot", "Left Toe",
}

// unity3DOrderNames holds the 23 body segment names in Unity3D-order index
// 0..22, used by message type 05.
var unity3DOrderNames = [BodySegmentCount]string{
	"Pelvis",
	"Right Upper Leg", "Right Lower Leg", "Right Foot", "Right Toe",
	"Left Upper Leg", "Left Lower Leg", "Left Foot", "Left Toe",
	"L5", "L3", "T12", "T8",
	"Left Shoulder", "Left Upper Arm", "Left Forearm", "Left Hand",
	"Right Shoulder", "Right Upper Arm", "Right Forearm", "Right Hand",
	"Neck", "Head",
}

// leftFingerNames and rightFingerNames hold the 20 finger segment names per
// hand, in the order they appear on the wire.
var leftFingerNames = [FingersPerHand]string{
	"Left Carpus",
	"Left First Metacarpal", "Left First Proximal Phalange", "Left First Distal Phalange",
	"Left Second Metacarpal", "Left Second Proximal Phalange", "Left Second Middle Phalange", "Left Second Distal Phalange",
	"Left Third Metacarpal", "Left Third Proximal Phalange", "Left Third Middle Phalange", "Left Third Distal Phalange",
	"Left Fourth Metacarpal", "Left Fourth Proximal Phalange", "Left Fourth Middle Phalange", "Left Fourth Distal Phalange",
	"Left Fifth Metacarpal", "Left Fifth Proximal Phalange", "Left Fifth Middle Phalange", "Left Fifth Distal Phalange",
}

var rightFingerNames = [FingersPerHand]string{
	"Right Carpus",
	"Right First Metacarpal", "Right First Proximal Phalange", "Right First Distal Phalange",
	"Right Second Metacarpal", "Right Second Proximal Phalange", "Right Second Middle Phalange", "Right Second Distal Phalange",
	"Right Third Metacarpal", "Right Third Proximal Phalange", "Right Third Middle Phalange", "Right Third Distal Phalange",
	"Right Fourth Metacarpal", "Right Fourth Proximal Phalange", "Right Fourth Middle Phalange", "Right Fourth Distal Phalange",
	"Right Fifth Metacarpal", "Right Fifth Proximal Phalange", "Right Fifth Middle Phalange", "Right Fifth Distal Phalange",
}

// SegmentOrder selects which of the two segment-index permutations (§3.3)
// applies to a payload.
type SegmentOrder uint8

const (
	// OrderDefault is used by message types 01, 02, 03, 20, 21, 22, 23.
	OrderDefault SegmentOrder = iota
	// OrderUnity3D is used by message type 05; it does not support finger
	// segments.
	OrderUnity3D
)

// SegmentName resolves a 0-based segment index to its human-readable name
// under the given order, accounting for props (both orders, mapped
// sparsely starting at index 24 per §9) and finger segments (default order
// only). It returns false for an index with no known name.
func SegmentName(order SegmentOrder, index int) (string, bool) {
	if index < 0 {
		return "", false
	}
	if index < BodySegmentCount {
		if order == OrderUnity3D {
			return unity3DOrderNames[index], true
		}
		return defaultOrderNames[index], true
	}
	if order == OrderUnity3D {
		if index >= propIndexBase && index < propIndexBase+MaxPropCount {
			return fmt.Sprintf("Prop%d", index-propIndexBase+1), true
		}
		return "", false
	}
	switch {
	case index >= propIndexBase && index < propIndexBase+MaxPropCount:
		return fmt.Sprintf("Prop%d", index-propIndexBase+1), true
	case index >= leftFingerIndexBase && index < leftFingerIndexBase+FingersPerHand:
		return leftFingerNames[index-leftFingerIndexBase], true
	case index >= leftFingerIndexBase+FingersPerHand && index < leftFingerIndexBase+2*FingersPerHand:
		return rightFingerNames[index-leftFingerIndexBase-FingersPerHand], true
	default:
		return "", false
	}
}

// MaxSegmentIndex returns the highest valid 0-based segment index for a
// header's counts under order, following the layout SegmentName uses: body
// segments at 0..22, props from index 24, and (default order only) finger
// segments from index 28. Indices in the gaps below that bound (index 23,
// unused prop slots) are not excluded.
func MaxSegmentIndex(order SegmentOrder, propCount, fingerSegments uint8) int {
	max := BodySegmentCount - 1
	if propCount > 0 {
		max = propIndexBase + int(propCount) - 1
	}
	if order == OrderDefault && fingerSegments > 0 {
		max = leftFingerIndexBase + int(fingerSegments) - 1
	}
	return max
}

// PointIDMultiplier selects how a type-03 point's wire ID decomposes into
// segment ID and local point ID (§3.4, §9): the protocol text and its
// worked example disagree, so the multiplier is configurable. 256 matches
// the worked example and is the default; 100 matches the prose.
type PointIDMultiplier uint32

const (
	// PointIDMultiplier100 matches §2.5.10's prose description.
	PointIDMultiplier100 PointIDMultiplier = 100
	// PointIDMultiplier256 matches §2.5.10's worked example; this is the
	// default used throughout this module.
	PointIDMultiplier256 PointIDMultiplier = 256
)

// DecomposePointID splits a wire point ID into its segment ID and local
// point ID components using the given multiplier.
func DecomposePointID(wireID uint32, mult PointIDMultiplier) (segmentID, localPointID uint32) {
	m := uint32(mult)
	return wireID / m, wireID % m
}

// ComposePointID builds a wire point ID from a segment ID and local point
// ID using the given multiplier — the inverse of DecomposePointID.
func ComposePointID(segmentID, localPointID uint32, mult PointIDMultiplier) uint32 {
	return uint32(mult)*segmentID + localPointID
}
