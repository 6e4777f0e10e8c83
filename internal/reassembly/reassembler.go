// Package reassembly joins UDP fragments of a single MXTP sampling instance
// into a completed, decoded frame. It is synchronous and single-threaded:
// Push and Tick never spawn goroutines and never block. Callers that share
// a Reassembler across goroutines must serialize access themselves.
package reassembly

import (
	"github.com/axonmocap/mxtpd/internal/mxtp"
)

// Eviction describes a partial frame discarded before it completed.
type Eviction struct {
	Key    mxtp.FrameKey
	Reason string
}

// partial accumulates fragments for one (character_id, sample_counter) key.
type partial struct {
	header       mxtp.Header // fragment 0's header; authoritative for counts
	fragments    map[uint8][]byte
	maxSeenIndex uint8
	lastSeen     bool
	firstSeenMs  int64
}

func newPartial(h mxtp.Header, fragmentIndex uint8, payload []byte, nowMs int64) *partial {
	p := &partial{
		header:      h,
		fragments:   make(map[uint8][]byte),
		firstSeenMs: nowMs,
	}
	p.fragments[fragmentIndex] = payload
	p.maxSeenIndex = fragmentIndex
	return p
}

func (p *partial) add(fragmentIndex uint8, isLast bool, payload []byte) {
	p.fragments[fragmentIndex] = payload
	if fragmentIndex > p.maxSeenIndex {
		p.maxSeenIndex = fragmentIndex
	}
	if isLast {
		p.lastSeen = true
	}
}

func (p *partial) complete() bool {
	if !p.lastSeen {
		return false
	}
	for i := uint8(0); i <= p.maxSeenIndex; i++ {
		if _, ok := p.fragments[i]; !ok {
			return false
		}
	}
	return true
}

func (p *partial) assemble() []byte {
	var buf []byte
	for i := uint8(0); i <= p.maxSeenIndex; i++ {
		buf = append(buf, p.fragments[i]...)
	}
	return buf
}

// itemCount sums item_count across every fragment currently buffered,
// matching invariant 2 once the partial is complete.
func (p *partial) itemCount(counts map[uint8]uint8) int {
	total := 0
	for idx := range p.fragments {
		total += int(counts[idx])
	}
	return total
}

// characterState tracks every in-flight partial for one character, plus
// insertion order for the per-character LRU capacity bound and the newest
// sample_counter seen for the stale-sample window.
type characterState struct {
	partials     map[uint32]*partial
	order        []uint32 // oldest-first insertion order
	newestSample uint32
	haveNewest   bool
}

func newCharacterState() *characterState {
	return &characterState{partials: make(map[uint32]*partial)}
}

func (cs *characterState) touch(sample uint32) {
	if !cs.haveNewest || sample > cs.newestSample {
		cs.newestSample = sample
		cs.haveNewest = true
	}
}

// Reassembler joins fragments into completed mxtp.Frame values. Not safe
// for concurrent use; wrap with a mutex at the transport layer if shared
// across goroutines (see internal/transport).
type Reassembler struct {
	cfg   mxtp.Config
	tel   mxtp.Telemetry
	chars map[uint8]*characterState
}

// New returns a Reassembler using cfg for decode leniency and reassembly
// bounds, reporting non-fatal events to tel. If tel is nil, NoopTelemetry
// is used.
func New(cfg mxtp.Config, tel mxtp.Telemetry) *Reassembler {
	if tel == nil {
		tel = mxtp.NoopTelemetry{}
	}
	return &Reassembler{
		cfg:   cfg,
		tel:   tel,
		chars: make(map[uint8]*characterState),
	}
}

// Push decodes and reassembles one datagram, returning the frame that
// completed as a result, if any (at most one per call). A datagram whose
// header fails to decode, or whose message type is not recognized, is
// dropped with a Telemetry call. A completed frame whose payload fails to
// decode (for example with ErrMisalignedPayload) is dropped without one.
// Push never returns an error.
func (r *Reassembler) Push(buf []byte, nowMs int64) []mxtp.Frame {
	h, payload, err := mxtp.DecodeHeader(buf, r.cfg.StrictMagic, !r.cfg.LenientLength)
	if err != nil {
		r.tel.HeaderError(err)
		return nil
	}
	if available := len(buf) - mxtp.HeaderSize; int(h.DeclaredPayloadSize) != available {
		r.tel.LengthMismatch(int(h.DeclaredPayloadSize), available)
	}
	if !h.MessageType.IsKnown() {
		r.tel.UnknownMessageType(h.MessageType)
		return nil
	}

	key := mxtp.FrameKey{CharacterID: h.CharacterID, SampleCounter: h.SampleCounter}
	cs, ok := r.chars[h.CharacterID]
	if !ok {
		cs = newCharacterState()
		r.chars[h.CharacterID] = cs
	}
	cs.touch(h.SampleCounter)
	r.evictStale(h.CharacterID, cs, nowMs)

	fragIdx := h.FragmentIndex()
	isLast := h.IsLast()
	payloadCopy := append([]byte(nil), payload...)

	p, exists := cs.partials[h.SampleCounter]
	if exists && !fragmentConsistent(p.header, h) {
		r.tel.InconsistentFragment(key)
		delete(cs.partials, h.SampleCounter)
		r.removeFromOrder(cs, h.SampleCounter)
		exists = false
	}

	if !exists {
		cs.partials[h.SampleCounter] = newPartial(h, fragIdx, payloadCopy, nowMs)
		cs.partials[h.SampleCounter].lastSeen = isLast
		cs.order = append(cs.order, h.SampleCounter)
		r.enforceCapacity(h.CharacterID, cs)
		p = cs.partials[h.SampleCounter]
	} else {
		p.add(fragIdx, isLast, payloadCopy)
	}

	if p == nil || !p.complete() {
		return nil
	}

	delete(cs.partials, h.SampleCounter)
	r.removeFromOrder(cs, h.SampleCounter)

	assembled := p.assemble()
	payloadDecoded, err := mxtp.DecodePayload(p.header, assembled, key, r.cfg, r.tel)
	if err != nil {
		return nil
	}

	return []mxtp.Frame{{
		CharacterID:   h.CharacterID,
		SampleCounter: h.SampleCounter,
		TimeCodeMs:    p.header.TimeCodeMs,
		MessageType:   p.header.MessageType,
		Payload:       payloadDecoded,
	}}
}

// fragmentConsistent reports whether a new fragment's header agrees with
// the stored partial's fragment-0 header on every field that must be
// shared across all fragments of one frame.
func fragmentConsistent(stored, incoming mxtp.Header) bool {
	return stored.MessageType == incoming.MessageType &&
		stored.CharacterID == incoming.CharacterID &&
		stored.BodySegments == incoming.BodySegments &&
		stored.PropCount == incoming.PropCount &&
		stored.FingerSegments == incoming.FingerSegments
}

// evictStale drops any partial for character whose sample_counter has
// fallen more than the configured window behind the newest seen sample,
// reporting Incomplete for each.
func (r *Reassembler) evictStale(character uint8, cs *characterState, nowMs int64) {
	if !cs.haveNewest || r.cfg.ReassemblyWindowSamples == 0 {
		return
	}
	var cutoff uint32
	if cs.newestSample > r.cfg.ReassemblyWindowSamples {
		cutoff = cs.newestSample - r.cfg.ReassemblyWindowSamples
	}
	remaining := cs.order[:0]
	for _, sample := range cs.order {
		if sample < cutoff {
			r.tel.Incomplete(mxtp.FrameKey{CharacterID: character, SampleCounter: sample}, "stale window")
			delete(cs.partials, sample)
			continue
		}
		remaining = append(remaining, sample)
	}
	cs.order = remaining
}

// enforceCapacity evicts the oldest in-flight partial for character when
// the per-character capacity bound is exceeded.
func (r *Reassembler) enforceCapacity(character uint8, cs *characterState) {
	if r.cfg.ReassemblyCapacityPerCharacter <= 0 {
		return
	}
	for len(cs.order) > r.cfg.ReassemblyCapacityPerCharacter {
		oldest := cs.order[0]
		cs.order = cs.order[1:]
		if _, ok := cs.partials[oldest]; ok {
			delete(cs.partials, oldest)
			r.tel.Incomplete(mxtp.FrameKey{CharacterID: character, SampleCounter: oldest}, "capacity evicted")
		}
	}
}

func (r *Reassembler) removeFromOrder(cs *characterState, sample uint32) {
	for i, s := range cs.order {
		if s == sample {
			cs.order = append(cs.order[:i], cs.order[i+1:]...)
			return
		}
	}
}

// Tick evicts every partial frame that has been incomplete for at least
// the configured timeout, returning one Eviction per dropped key. Call
// this periodically (the UDP transport does so on a fixed interval)
// independently of Push — a character that stops sending mid-frame would
// otherwise never be cleaned up.
func (r *Reassembler) Tick(nowMs int64) []Eviction {
	var evictions []Eviction
	for character, cs := range r.chars {
		remaining := cs.order[:0]
		for _, sample := range cs.order {
			p, ok := cs.partials[sample]
			if !ok {
				continue
			}
			if r.cfg.ReassemblyTimeoutMs > 0 && nowMs-p.firstSeenMs >= r.cfg.ReassemblyTimeoutMs {
				delete(cs.partials, sample)
				evictions = append(evictions, Eviction{
					Key:    mxtp.FrameKey{CharacterID: character, SampleCounter: sample},
					Reason: "timeout",
				})
				r.tel.Incomplete(mxtp.FrameKey{CharacterID: character, SampleCounter: sample}, "timeout")
				continue
			}
			remaining = append(remaining, sample)
		}
		cs.order = remaining
	}
	return evictions
}

// InFlight returns the number of partial frames currently buffered across
// all characters, for use by the debug API's stats endpoint.
func (r *Reassembler) InFlight() int {
	n := 0
	for _, cs := range r.chars {
		n += len(cs.partials)
	}
	return n
}

// Characters returns every character ID seen since the Reassembler was
// created, whether or not it still has partials in flight, in no
// particular order, for the debug API's characters endpoint.
func (r *Reassembler) Characters() []uint8 {
	out := make([]uint8, 0, len(r.chars))
	for c := range r.chars {
		out = append(out, c)
	}
	return out
}
