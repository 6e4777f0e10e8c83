package mxtp

import "testing"

func TestSegmentNameBodyTable(t *testing.T) {
	t.Parallel()
	for i := 0; i < BodySegmentCount; i++ {
		if _, ok := SegmentName(OrderDefault, i); !ok {
			t.Errorf("OrderDefault index %d: not found", i)
		}
		if _, ok := SegmentName(OrderUnity3D, i); !ok {
			t.Errorf("OrderUnity3D index %d: not found", i)
		}
	}
}

func TestSegmentNamePelvisBothOrders(t *testing.T) {
	t.Parallel()
	name, ok := SegmentName(OrderDefault, 0)
	if !ok || name != "Pelvis" {
		t.Errorf("OrderDefault[0] = %q, %v", name, ok)
	}
	name, ok = SegmentName(OrderUnity3D, 0)
	if !ok || name != "Pelvis" {
		t.Errorf("OrderUnity3D[0] = %q, %v", name, ok)
	}
}

func TestSegmentNameProps(t *testing.T) {
	t.Parallel()
	name, ok := SegmentName(OrderDefault, 24)
	if !ok || name != "Prop1" {
		t.Errorf("Prop1 at index 24 = %q, %v", name, ok)
	}
	if _, ok := SegmentName(OrderDefault, 23); ok {
		t.Error("index 23 should be the reserved gap, not a valid segment")
	}
}

func TestSegmentNameFingers(t *testing.T) {
	t.Parallel()
	name, ok := SegmentName(OrderDefault, leftFingerIndexBase)
	if !ok || name != "Left Carpus" {
		t.Errorf("left finger base = %q, %v", name, ok)
	}
	name, ok = SegmentName(OrderDefault, leftFingerIndexBase+FingersPerHand)
	if !ok || name != "Right Carpus" {
		t.Errorf("right finger base = %q, %v", name, ok)
	}
}

func TestSegmentNameUnity3DNoFingers(t *testing.T) {
	t.Parallel()
	if _, ok := SegmentName(OrderUnity3D, leftFingerIndexBase); ok {
		t.Error("Unity3D order should not resolve finger indices")
	}
}

func TestDecomposePointIDWorkedExample(t *testing.T) {
	t.Parallel()
	// Sacrum (local id 13) on Pelvis (segment id 1): wire ID 269 with
	// multiplier 256, 113 with multiplier 100 (§8 S6).
	seg, local := DecomposePointID(269, PointIDMultiplier256)
	if seg != 1 || local != 13 {
		t.Errorf("multiplier 256: seg=%d local=%d, want 1,13", seg, local)
	}
	seg, local = DecomposePointID(113, PointIDMultiplier100)
	if seg != 1 || local != 13 {
		t.Errorf("multiplier 100: seg=%d local=%d, want 1,13", seg, local)
	}
}

func TestComposePointIDRoundTrip(t *testing.T) {
	t.Parallel()
	id := ComposePointID(1, 13, PointIDMultiplier256)
	if id != 269 {
		t.Errorf("ComposePointID = %d, want 269", id)
	}
	seg, local := DecomposePointID(id, PointIDMultiplier256)
	if seg != 1 || local != 13 {
		t.Errorf("round trip: seg=%d local=%d", seg, local)
	}
}
