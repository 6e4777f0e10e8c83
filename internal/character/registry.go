// Package character tracks the lifecycle of characters seen on the wire:
// when each was first and last observed, and how many frames it has
// produced. It is adapted from the teacher's stream lifecycle tracker,
// repurposed here to key on MXTP character_id instead of a stream name.
package character

import (
	"log/slog"
	"sync"
	"time"

	"github.com/axonmocap/mxtpd/internal/mxtp"
)

// Session describes one character's observed activity.
type Session struct {
	CharacterID uint8 `json:"character_id"`
	FirstSeenMs int64 `json:"first_seen_ms"`
	LastSeenMs  int64 `json:"last_seen_ms"`
	FrameCount  int64 `json:"frame_count"`
}

// Registry tracks one Session per character_id observed so far. It
// implements sink.Sink so it can sit alongside the JSONL recorder and the
// debug API in a listener's sink fan-out list.
type Registry struct {
	log   *slog.Logger
	clock func() int64

	mu       sync.RWMutex
	sessions map[uint8]*Session
}

// NewRegistry returns an empty Registry. If log is nil, slog.Default() is
// used; if clock is nil, time.Now is used.
func NewRegistry(log *slog.Logger, clock func() int64) *Registry {
	if log == nil {
		log = slog.Default()
	}
	if clock == nil {
		clock = func() int64 { return time.Now().UnixMilli() }
	}
	return &Registry{
		log:      log.With("component", "character-registry"),
		clock:    clock,
		sessions: make(map[uint8]*Session),
	}
}

// Touch records an observation of characterID at the current time,
// creating a new Session the first time a given ID is seen.
func (r *Registry) Touch(characterID uint8) {
	now := r.clock()

	r.mu.Lock()
	defer r.mu.Unlock()

	s, ok := r.sessions[characterID]
	if !ok {
		s = &Session{CharacterID: characterID, FirstSeenMs: now}
		r.sessions[characterID] = s
		r.log.Info("character first seen", "character_id", characterID)
	}
	s.LastSeenMs = now
	s.FrameCount++
}

// Forget removes a character's session, e.g. after a prolonged silence.
func (r *Registry) Forget(characterID uint8) {
	r.mu.Lock()
	_, ok := r.sessions[characterID]
	delete(r.sessions, characterID)
	r.mu.Unlock()

	if ok {
		r.log.Info("character forgotten", "character_id", characterID)
	}
}

// List returns a snapshot of every tracked session, ordered by character_id.
func (r *Registry) List() []Session {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]Session, 0, len(r.sessions))
	for id := uint8(0); ; id++ {
		if s, ok := r.sessions[id]; ok {
			out = append(out, *s)
		}
		if id == 255 {
			break
		}
	}
	return out
}

// OnFrame implements sink.Sink.
func (r *Registry) OnFrame(f mxtp.Frame) {
	r.Touch(f.CharacterID)
}
