package sample

// Metadata describes a loaded sample. The optional fields are zero when the
// source carries no such information.
type Metadata struct {
	ID         string
	Name       string
	SourcePath string
	SampleRate float64
	Duration   float64 // seconds
	Channels   int

	// Optional.
	LoopStart int // frames; meaningful only when LoopEnd > LoopStart
	LoopEnd   int
	RootNote  int // MIDI note, 0 when unknown
	Tempo     float64
	Tags      []string
}

// Slice marks a region of a sample, typically one detected transient.
type Slice struct {
	ID       string
	SampleID string

	// StartFrame and EndFrame are sample offsets, StartFrame inclusive and
	// EndFrame exclusive.
	StartFrame int
	EndFrame   int

	// StartTime and EndTime are the same region in seconds.
	StartTime float64
	EndTime   float64

	// PeakLevel is the largest absolute sample value inside the region.
	PeakLevel float64

	// Optional.
	Name     string
	MIDINote int
}

// LoadedSample bundles a decoded buffer with its metadata, detected slices
// and an optional display summary. Instances are immutable after load;
// processing operations return new buffers.
type LoadedSample struct {
	Metadata Metadata
	Buffer   *Buffer
	Slices   []Slice
	Waveform *Waveform
}
