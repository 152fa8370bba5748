package modulation

// Engine capacities.
const (
	// NumEnvelopes is the number of envelope slots per voice.
	NumEnvelopes = 3

	// NumLFOs is the number of LFO slots.
	NumLFOs = 3

	// NumMacros is the number of macro controls.
	NumMacros = 8

	// MaxMatrixSlots is the engine-wide modulation slot capacity.
	MaxMatrixSlots = 64

	// MaxMacroTargets is the per-macro target capacity.
	MaxMacroTargets = 16
)

// Envelope timing constants.
const (
	// MinStageTime is the floor for attack/hold/decay/release times in
	// seconds. Keeps segment progress math free of division by zero.
	MinStageTime = 0.001

	// keyTrackingDivisor normalizes a semitone key offset for time scaling.
	keyTrackingDivisor = 127.0
)

// LFO constants.
const (
	// smoothRandomFactor is the per-sample exponential approach factor
	// toward the current smooth-random target.
	smoothRandomFactor = 0.1

	// tripletFactor shortens a division to its triplet length.
	tripletFactor = 2.0 / 3.0

	// dottedFactor lengthens a division to its dotted length.
	dottedFactor = 1.5

	secondsPerMinute = 60.0
)

// MPE constants.
const (
	// MPELowerMasterChannel is the master channel of the lower zone.
	MPELowerMasterChannel = 1

	// MPEUpperMasterChannel is the master channel of the upper zone.
	MPEUpperMasterChannel = 16

	// DefaultPitchBendRange is the default MPE pitch bend range in semitones.
	DefaultPitchBendRange = 48.0

	// pitchBendCenter is the midpoint of a 14-bit pitch bend value.
	pitchBendCenter = 8192.0
)
