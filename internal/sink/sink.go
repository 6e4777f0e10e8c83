// Package sink defines the frame-delivery interface shared by every
// consumer of reassembled MXTP frames (recorders, dashboards, in-process
// subscribers), plus a generic bounded channel adapter.
package sink

import (
	"log/slog"

	"github.com/axonmocap/mxtpd/internal/mxtp"
)

// Sink receives every frame the reassembler completes. OnFrame must not
// block for long — it is called synchronously from the transport's read
// loop (§6.3: sinks cannot reject or throttle delivery).
type Sink interface {
	OnFrame(f mxtp.Frame)
}

// Multi fans a frame out to every sink in order. A panic in one sink is
// not recovered — sinks are expected to handle their own errors.
type Multi []Sink

func (m Multi) OnFrame(f mxtp.Frame) {
	for _, s := range m {
		s.OnFrame(f)
	}
}

// Channel adapts a buffered Go channel to the Sink interface for
// in-process consumers. When the channel is full, the oldest buffered
// frame is dropped and a warning logged — mirroring the bounded,
// drop-oldest backpressure policy used elsewhere in this codebase for
// consumers that cannot keep up with ingest.
type Channel struct {
	ch  chan mxtp.Frame
	log *slog.Logger
}

// NewChannel returns a Channel-backed Sink with the given buffer capacity.
// If log is nil, slog.Default() is used.
func NewChannel(capacity int, log *slog.Logger) *Channel {
	if log == nil {
		log = slog.Default()
	}
	return &Channel{
		ch:  make(chan mxtp.Frame, capacity),
		log: log.With("component", "channel-sink"),
	}
}

// Frames returns the channel frames are delivered on.
func (c *Channel) Frames() <-chan mxtp.Frame {
	return c.ch
}

func (c *Channel) OnFrame(f mxtp.Frame) {
	select {
	case c.ch <- f:
		return
	default:
	}
	select {
	case <-c.ch:
		c.log.Warn("channel sink full, dropped oldest frame",
			"character_id", f.CharacterID, "sample_counter", f.SampleCounter)
	default:
	}
	select {
	case c.ch <- f:
	default:
		c.log.Warn("channel sink still full after drop, discarding frame",
			"character_id", f.CharacterID, "sample_counter", f.SampleCounter)
	}
}
