package mxtp

import "log/slog"

// FrameKey identifies a sampling instance awaiting or having completed
// reassembly.
type FrameKey struct {
	CharacterID   uint8
	SampleCounter uint32
}

// Telemetry receives non-fatal events from decoding and reassembly. No
// Telemetry event ever aborts the receiver (§7): these calls exist purely
// for monitoring. Implementations must not block — the reassembler and
// decoders call these synchronously from the hot path.
type Telemetry interface {
	// HeaderError reports a datagram dropped before reassembly could even
	// begin: bad magic (strict mode), a message type that isn't two ASCII
	// digits, a buffer too short to hold a header, or a strict-mode
	// payload_size mismatch. Inspect err with errors.Is against ErrBadMagic,
	// ErrBadMessageType, wire.ErrTruncated, or ErrLengthMismatch.
	HeaderError(err error)
	// LengthMismatch reports a header payload_size that disagreed with the
	// bytes actually available, in lenient mode (strict mode reports
	// HeaderError and discards the datagram instead of calling this).
	LengthMismatch(declared, available int)
	// SegmentOutOfRange reports an item dropped because its segment ID fell
	// outside [1, MaxSegmentIndex+1] for the header's prop and finger counts.
	SegmentOutOfRange(key FrameKey, segmentID uint32)
	// InconsistentFragment reports a partial frame discarded because an
	// incoming fragment's header disagreed with the partial's.
	InconsistentFragment(key FrameKey)
	// Incomplete reports a partial frame evicted without ever completing.
	Incomplete(key FrameKey, reason string)
	// UnknownMessageType reports a datagram with a message type outside
	// the recognized set; the datagram is skipped, not fatal.
	UnknownMessageType(mt MessageType)
}

// NoopTelemetry discards every event. Useful in tests and as an explicit
// opt-out.
type NoopTelemetry struct{}

func (NoopTelemetry) HeaderError(err error)                            {}
func (NoopTelemetry) LengthMismatch(declared, available int)          {}
func (NoopTelemetry) SegmentOutOfRange(key FrameKey, segmentID uint32) {}
func (NoopTelemetry) InconsistentFragment(key FrameKey)               {}
func (NoopTelemetry) Incomplete(key FrameKey, reason string)          {}
func (NoopTelemetry) UnknownMessageType(mt MessageType)               {}

// SlogTelemetry reports every event to a *slog.Logger at a severity that
// matches how disruptive the event is to stream delivery: dropped items
// and unknown message types are Debug; header errors, length mismatches,
// inconsistent fragments and evictions are Warn.
type SlogTelemetry struct {
	Log *slog.Logger
}

// NewSlogTelemetry returns a SlogTelemetry writing to log. If log is nil,
// slog.Default() is used.
func NewSlogTelemetry(log *slog.Logger) SlogTelemetry {
	if log == nil {
		log = slog.Default()
	}
	return SlogTelemetry{Log: log.With("component", "mxtp")}
}

func (t SlogTelemetry) HeaderError(err error) {
	t.Log.Warn("datagram dropped before reassembly", "error", err)
}

func (t SlogTelemetry) LengthMismatch(declared, available int) {
	t.Log.Warn("payload_size mismatch, clamping", "declared", declared, "available", available)
}

func (t SlogTelemetry) SegmentOutOfRange(key FrameKey, segmentID uint32) {
	t.Log.Debug("segment id out of range, dropping item",
		"character_id", key.CharacterID, "sample_counter", key.SampleCounter, "segment_id", segmentID)
}

func (t SlogTelemetry) InconsistentFragment(key FrameKey) {
	t.Log.Warn("inconsistent fragment, discarding partial",
		"character_id", key.CharacterID, "sample_counter", key.SampleCounter)
}

func (t SlogTelemetry) Incomplete(key FrameKey, reason string) {
	t.Log.Warn("partial frame evicted incomplete",
		"character_id", key.CharacterID, "sample_counter", key.SampleCounter, "reason", reason)
}

func (t SlogTelemetry) UnknownMessageType(mt MessageType) {
	t.Log.Debug("unknown message type, skipping datagram", "message_type", mt)
}
