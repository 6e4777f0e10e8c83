package mxtp

// Config holds the tunables governing decode leniency and reassembly
// behavior (§6.4). A zero Config is not ready to use — call
// DefaultConfig and override individual fields.
type Config struct {
	// StrictMagic, when true, rejects a datagram whose id_string prefix is
	// not "MXTP". When false, the prefix is not checked and the datagram is
	// decoded as if it carried "MXTP".
	StrictMagic bool
	// LenientLength, when true, clamps a mismatched header payload_size to
	// the available bytes (reporting Telemetry.LengthMismatch) instead of
	// failing the datagram with ErrLengthMismatch.
	LenientLength bool
	// PointIDMultiplier selects how type-03 point wire IDs decompose into
	// segment ID and local point ID (§3.4, §9).
	PointIDMultiplier PointIDMultiplier

	// ReassemblyWindowSamples bounds how far sample_counter may lag the
	// newest seen value, per character, before a partial frame is
	// considered stale and evicted (§5.2).
	ReassemblyWindowSamples uint32
	// ReassemblyCapacityPerCharacter bounds how many distinct
	// sample_counter values may have partial state in flight at once, per
	// character, before the oldest is evicted (§5.2).
	ReassemblyCapacityPerCharacter int
	// ReassemblyTimeoutMs bounds how long a partial frame may sit
	// incomplete, by wall clock, before it is evicted regardless of the
	// window (§5.2).
	ReassemblyTimeoutMs int64
}

// DefaultConfig returns the configuration this package uses out of the box,
// matching the defaults named in §6.4.
func DefaultConfig() Config {
	return Config{
		StrictMagic:                    true,
		LenientLength:                  true,
		PointIDMultiplier:              PointIDMultiplier256,
		ReassemblyWindowSamples:        64,
		ReassemblyCapacityPerCharacter: 8,
		ReassemblyTimeoutMs:            500,
	}
}
