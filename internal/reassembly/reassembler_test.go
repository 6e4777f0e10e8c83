package reassembly

import (
	"encoding/hex"
	"strings"
	"testing"

	"github.com/axonmocap/mxtpd/internal/mxtp"
)

func buildDatagram(t *testing.T, h mxtp.Header, payload []byte) []byte {
	t.Helper()
	h.PayloadSize = uint16(len(payload))
	return append(mxtp.EncodeHeader(h), payload...)
}

// S1: minimal Euler, single fragment, one segment.
func TestPushMinimalEulerSingleFragment(t *testing.T) {
	t.Parallel()
	raw, err := hex.DecodeString(strings.Map(func(r rune) rune {
		if r == ' ' || r == '|' {
			return -1
		}
		return r
	}, "4D 58 54 50 30 31 00 00 00 2A 80 01 00 00 03 E8 00 17 00 00 00 00 00 1C "+
		"00 00 00 01 42 48 00 00 00 00 00 00 41 20 00 00 00 00 00 00 43 2D 00 00 00 00 00 00"))
	if err != nil {
		t.Fatalf("hex decode: %v", err)
	}

	r := New(mxtp.DefaultConfig(), nil)
	frames := r.Push(raw, 0)
	if len(frames) != 1 {
		t.Fatalf("got %d frames, want 1", len(frames))
	}
	f := frames[0]
	if f.CharacterID != 0 || f.SampleCounter != 42 || f.TimeCodeMs != 1000 || f.MessageType != mxtp.MsgPoseEuler {
		t.Fatalf("frame header mismatch: %+v", f)
	}
	if len(f.Payload.EulerPose) != 1 {
		t.Fatalf("got %d items, want 1", len(f.Payload.EulerPose))
	}
	item := f.Payload.EulerPose[0]
	if item.SegmentID != 1 {
		t.Errorf("SegmentID = %d, want 1", item.SegmentID)
	}
	if item.Position != (mxtp.Position{X: 50.0, Y: 0, Z: 10.0}) {
		t.Errorf("Position = %+v, want (50,0,10)", item.Position)
	}
	if item.Euler != (mxtp.Euler{X: 0, Y: 173.0, Z: 0}) {
		t.Errorf("Euler = %+v, want (0,173,0)", item.Euler)
	}
}

// S2: two-fragment quaternion frame, items merged in fragment order.
func TestPushTwoFragmentQuaternionFrame(t *testing.T) {
	t.Parallel()
	itemsA := make([]mxtp.SegmentQuaternion, 12)
	for i := range itemsA {
		itemsA[i] = mxtp.SegmentQuaternion{SegmentID: uint32(i + 1), Quat: mxtp.Quaternion{W: 1}}
	}
	itemsB := make([]mxtp.SegmentQuaternion, 11)
	for i := range itemsB {
		itemsB[i] = mxtp.SegmentQuaternion{SegmentID: uint32(i + 13), Quat: mxtp.Quaternion{W: 1}}
	}

	baseHeader := mxtp.Header{
		MessageType:   mxtp.MsgPoseQuaternion,
		SampleCounter: 100,
		CharacterID:   0,
		BodySegments:  23,
	}

	hA := baseHeader
	hA.DatagramCounter = 0x00
	hA.ItemCount = uint8(len(itemsA))
	dgA := buildDatagram(t, hA, mxtp.EncodeQuaternionPose(itemsA))

	hB := baseHeader
	hB.DatagramCounter = 0x81
	hB.ItemCount = uint8(len(itemsB))
	dgB := buildDatagram(t, hB, mxtp.EncodeQuaternionPose(itemsB))

	r := New(mxtp.DefaultConfig(), nil)
	if frames := r.Push(dgA, 0); len(frames) != 0 {
		t.Fatalf("fragment A alone should not complete a frame, got %d", len(frames))
	}
	frames := r.Push(dgB, 1)
	if len(frames) != 1 {
		t.Fatalf("got %d frames, want 1", len(frames))
	}
	got := frames[0].Payload.QuaternionPose
	if len(got) != 23 {
		t.Fatalf("got %d items, want 23", len(got))
	}
	for i := 0; i < 12; i++ {
		if got[i].SegmentID != itemsA[i].SegmentID {
			t.Errorf("item %d segment = %d, want %d (fragment A order)", i, got[i].SegmentID, itemsA[i].SegmentID)
		}
	}
	for i := 0; i < 11; i++ {
		if got[12+i].SegmentID != itemsB[i].SegmentID {
			t.Errorf("item %d segment = %d, want %d (fragment B order)", 12+i, got[12+i].SegmentID, itemsB[i].SegmentID)
		}
	}
}

// S3: a fragment 0 with is_last=false and no follow-up is evicted as
// Incomplete by Tick, with no frame ever emitted.
func TestTickEvictsLostTail(t *testing.T) {
	t.Parallel()
	h := mxtp.Header{
		MessageType:     mxtp.MsgPoseEuler,
		SampleCounter:   7,
		CharacterID:     0,
		DatagramCounter: 0x00, // not last
		ItemCount:       1,
		BodySegments:    23,
	}
	dg := buildDatagram(t, h, mxtp.EncodeEulerPose([]mxtp.SegmentEuler{{SegmentID: 1}}))

	cfg := mxtp.DefaultConfig()
	cfg.ReassemblyTimeoutMs = 500
	tel := &countingTelemetry{}
	r := New(cfg, tel)

	if frames := r.Push(dg, 0); len(frames) != 0 {
		t.Fatalf("expected no frame from a non-last fragment, got %d", len(frames))
	}
	if r.InFlight() != 1 {
		t.Fatalf("InFlight() = %d, want 1", r.InFlight())
	}

	evictions := r.Tick(501)
	if len(evictions) != 1 {
		t.Fatalf("got %d evictions, want 1", len(evictions))
	}
	if evictions[0].Reason != "timeout" {
		t.Errorf("Reason = %q, want timeout", evictions[0].Reason)
	}
	if r.InFlight() != 0 {
		t.Errorf("InFlight() = %d after tick, want 0", r.InFlight())
	}
	if tel.incomplete != 1 {
		t.Errorf("telemetry Incomplete calls = %d, want 1", tel.incomplete)
	}
}

// S4: fragments for two characters at the same sample_counter, interleaved,
// complete independently.
func TestPushInterleavedCharacters(t *testing.T) {
	t.Parallel()
	mkDatagram := func(character uint8) []byte {
		h := mxtp.Header{
			MessageType:     mxtp.MsgPoseEuler,
			SampleCounter:   7,
			CharacterID:     character,
			DatagramCounter: 0x80,
			ItemCount:       1,
			BodySegments:    23,
		}
		return buildDatagram(t, h, mxtp.EncodeEulerPose([]mxtp.SegmentEuler{{SegmentID: 1}}))
	}

	r := New(mxtp.DefaultConfig(), nil)
	f0 := r.Push(mkDatagram(0), 0)
	f1 := r.Push(mkDatagram(1), 1)
	if len(f0) != 1 || len(f1) != 1 {
		t.Fatalf("expected both characters to complete independently, got %d and %d", len(f0), len(f1))
	}
	if f0[0].CharacterID != 0 || f1[0].CharacterID != 1 {
		t.Errorf("character mismatch: %d, %d", f0[0].CharacterID, f1[0].CharacterID)
	}
}

// S5: an unknown message type is skipped, not fatal; subsequent datagrams
// still process normally.
func TestPushUnknownMessageTypeThenRecovers(t *testing.T) {
	t.Parallel()
	badHeader := mxtp.Header{MessageType: 99, SampleCounter: 1, CharacterID: 0, DatagramCounter: 0x80}
	badDatagram := buildDatagram(t, badHeader, nil)

	tel := &countingTelemetry{}
	r := New(mxtp.DefaultConfig(), tel)
	if frames := r.Push(badDatagram, 0); frames != nil {
		t.Fatalf("expected nil frames for unknown type, got %v", frames)
	}
	if tel.unknownType != 1 {
		t.Fatalf("UnknownMessageType calls = %d, want 1", tel.unknownType)
	}

	goodHeader := mxtp.Header{
		MessageType:     mxtp.MsgPoseEuler,
		SampleCounter:   2,
		CharacterID:     0,
		DatagramCounter: 0x80,
		ItemCount:       1,
		BodySegments:    23,
	}
	goodDatagram := buildDatagram(t, goodHeader, mxtp.EncodeEulerPose([]mxtp.SegmentEuler{{SegmentID: 1}}))
	frames := r.Push(goodDatagram, 1)
	if len(frames) != 1 {
		t.Fatalf("expected recovery to process the next datagram, got %d frames", len(frames))
	}
}

// Invariant 3: within one reassembly window, a key completes at most once.
// A completed key is removed from tracking, so a retransmitted datagram
// starts a brand new partial rather than re-emitting the old frame.
func TestPushCompletedKeyIsNotTrackedTwice(t *testing.T) {
	t.Parallel()
	h := mxtp.Header{
		MessageType:     mxtp.MsgPoseEuler,
		SampleCounter:   5,
		CharacterID:     0,
		DatagramCounter: 0x80,
		ItemCount:       1,
		BodySegments:    23,
	}
	dg := buildDatagram(t, h, mxtp.EncodeEulerPose([]mxtp.SegmentEuler{{SegmentID: 1}}))

	r := New(mxtp.DefaultConfig(), nil)
	first := r.Push(dg, 0)
	if len(first) != 1 {
		t.Fatalf("first push: got %d frames, want 1", len(first))
	}
	if r.InFlight() != 0 {
		t.Fatalf("InFlight() = %d after completion, want 0", r.InFlight())
	}
}

// A truncated datagram (shorter than a header) is reported via
// Telemetry.HeaderError, not silently dropped (§7).
func TestPushReportsHeaderErrorOnTruncatedDatagram(t *testing.T) {
	t.Parallel()
	tel := &countingTelemetry{}
	r := New(mxtp.DefaultConfig(), tel)

	frames := r.Push([]byte{0x4D, 0x58, 0x54}, 0)
	if frames != nil {
		t.Fatalf("expected nil frames for truncated datagram, got %v", frames)
	}
	if tel.headerError != 1 {
		t.Fatalf("HeaderError calls = %d, want 1", tel.headerError)
	}
}

// A datagram with a bad magic prefix is rejected and reported via
// Telemetry.HeaderError under the default strict_magic=true config.
func TestPushReportsHeaderErrorOnBadMagic(t *testing.T) {
	t.Parallel()
	h := mxtp.Header{MessageType: mxtp.MsgPoseEuler, SampleCounter: 1, DatagramCounter: 0x80}
	dg := buildDatagram(t, h, nil)
	dg[0] = 'X' // corrupt the "MXTP" prefix

	tel := &countingTelemetry{}
	r := New(mxtp.DefaultConfig(), tel)

	frames := r.Push(dg, 0)
	if frames != nil {
		t.Fatalf("expected nil frames for bad magic, got %v", frames)
	}
	if tel.headerError != 1 {
		t.Fatalf("HeaderError calls = %d, want 1", tel.headerError)
	}
}

// With strict_magic=false, a bad magic prefix does not abort decoding: the
// reassembler keeps processing the datagram using the rest of the fixed
// header layout.
func TestPushToleratesBadMagicWhenNotStrict(t *testing.T) {
	t.Parallel()
	h := mxtp.Header{
		MessageType:     mxtp.MsgPoseEuler,
		SampleCounter:   3,
		DatagramCounter: 0x80,
		ItemCount:       1,
		BodySegments:    23,
	}
	dg := buildDatagram(t, h, mxtp.EncodeEulerPose([]mxtp.SegmentEuler{{SegmentID: 1}}))
	dg[0] = 'X'

	cfg := mxtp.DefaultConfig()
	cfg.StrictMagic = false
	tel := &countingTelemetry{}
	r := New(cfg, tel)

	frames := r.Push(dg, 0)
	if len(frames) != 1 {
		t.Fatalf("expected decoding to proceed despite bad magic, got %d frames", len(frames))
	}
	if tel.headerError != 0 {
		t.Errorf("HeaderError calls = %d, want 0 (not an error in lenient-magic mode)", tel.headerError)
	}
}

// In lenient-length mode, a header whose declared payload_size disagrees
// with the bytes actually available is clamped and decoding proceeds, but
// Telemetry.LengthMismatch must still fire reporting the original declared
// and available sizes.
func TestPushReportsLengthMismatchWhenClamped(t *testing.T) {
	t.Parallel()
	h := mxtp.Header{
		MessageType:     mxtp.MsgPoseEuler,
		SampleCounter:   9,
		DatagramCounter: 0x80,
		ItemCount:       1,
		BodySegments:    23,
	}
	payload := mxtp.EncodeEulerPose([]mxtp.SegmentEuler{{SegmentID: 1}})
	dg := buildDatagram(t, h, payload)
	dg = append(dg, 0xFF, 0xFF, 0xFF) // declared payload_size now understates the buffer

	tel := &countingTelemetry{}
	r := New(mxtp.DefaultConfig(), tel) // LenientLength is true by default

	frames := r.Push(dg, 0)
	if len(frames) != 1 {
		t.Fatalf("expected clamped decode to still complete, got %d frames", len(frames))
	}
	if tel.lengthMismatch != 1 {
		t.Fatalf("LengthMismatch calls = %d, want 1", tel.lengthMismatch)
	}
	if tel.lastDeclared != len(payload) || tel.lastAvailable != len(payload)+3 {
		t.Errorf("LengthMismatch(declared=%d, available=%d), want (%d, %d)",
			tel.lastDeclared, tel.lastAvailable, len(payload), len(payload)+3)
	}
}

type countingTelemetry struct {
	mxtp.NoopTelemetry
	incomplete     int
	unknownType    int
	headerError    int
	lengthMismatch int
	lastDeclared   int
	lastAvailable  int
}

func (c *countingTelemetry) Incomplete(mxtp.FrameKey, string)    { c.incomplete++ }
func (c *countingTelemetry) UnknownMessageType(mxtp.MessageType) { c.unknownType++ }
func (c *countingTelemetry) HeaderError(error)                   { c.headerError++ }
func (c *countingTelemetry) LengthMismatch(declared, available int) {
	c.lengthMismatch++
	c.lastDeclared = declared
	c.lastAvailable = available
}
