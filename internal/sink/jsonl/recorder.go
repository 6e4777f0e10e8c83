// Package jsonl implements a sink that appends one JSON object per
// completed frame to a file, for session recording and offline replay.
package jsonl

import (
	"bufio"
	"encoding/json"
	"fmt"
	"os"
	"sync"

	"github.com/axonmocap/mxtpd/internal/mxtp"
)

// Recorder appends newline-delimited JSON frame records to a file. Safe
// for concurrent use.
type Recorder struct {
	mu  sync.Mutex
	f   *os.File
	w   *bufio.Writer
	enc *json.Encoder
}

// Open creates or truncates path and returns a Recorder writing to it.
func Open(path string) (*Recorder, error) {
	f, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("jsonl: open %s: %w", path, err)
	}
	w := bufio.NewWriter(f)
	return &Recorder{f: f, w: w, enc: json.NewEncoder(w)}, nil
}

// record is the on-disk shape of one frame. Payload is re-encoded through
// mxtp.Payload's exported fields directly; only the populated field will
// be non-null in the output.
type record struct {
	CharacterID   uint8            `json:"character_id"`
	SampleCounter uint32           `json:"sample_counter"`
	TimeCodeMs    uint32           `json:"time_code_ms"`
	MessageType   mxtp.MessageType `json:"message_type"`
	Payload       mxtp.Payload     `json:"payload"`
}

// OnFrame implements sink.Sink.
func (r *Recorder) OnFrame(f mxtp.Frame) {
	r.mu.Lock()
	defer r.mu.Unlock()
	rec := record{
		CharacterID:   f.CharacterID,
		SampleCounter: f.SampleCounter,
		TimeCodeMs:    f.TimeCodeMs,
		MessageType:   f.MessageType,
		Payload:       f.Payload,
	}
	if err := r.enc.Encode(rec); err != nil {
		return
	}
	r.w.Flush()
}

// Close flushes buffered output and closes the underlying file.
func (r *Recorder) Close() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if err := r.w.Flush(); err != nil {
		r.f.Close()
		return err
	}
	return r.f.Close()
}
