package modkit

// Session defaults.
const (
	// DefaultSampleRate is the render rate used when the config leaves it 0.
	DefaultSampleRate = 44100.0

	// DefaultBlockSize is the render block length in frames.
	DefaultBlockSize = 128

	// DefaultChannels is the output channel count.
	DefaultChannels = 2

	// DefaultVoices is the playback voice pool size.
	DefaultVoices = 16

	// DefaultRingCapacity is the slot count of each inter-context ring.
	DefaultRingCapacity = 256

	// DefaultTempo is the session tempo in beats per minute.
	DefaultTempo = 120.0

	// DefaultMetricsInterval is how many blocks are rendered between
	// outbound metrics messages.
	DefaultMetricsInterval = 512
)

// Engine limits.
const (
	// maxPendingEvents bounds the preallocated scheduled-event queue.
	maxPendingEvents = 256

	// maxVoiceGain caps the per-voice gain after volume modulation.
	maxVoiceGain = 2.0

	// minRingCapacity keeps at least a handful of messages in flight even
	// under a deliberately tiny configuration.
	minRingCapacity = 8

	// keyTrackSemitones normalizes a voice's key offset into the matrix
	// key-track source range of [-1, 1].
	keyTrackSemitones = 24.0
)

// Parameter names understood by the audio context.
const (
	// ParamTempo sets the session tempo in BPM.
	ParamTempo = "tempo"

	// ParamMacroPrefix followed by a 1-based index sets a macro value, for
	// example "macro1".
	ParamMacroPrefix = "macro"
)
