// Package modkit is the real-time modulation and sample-playback core of a
// music-production engine.
//
// A session splits into two halves. The Engine is the audio context: it
// renders blocks of samples from triggered voices, applying envelope, LFO
// and matrix modulation, and never blocks, locks or allocates on the render
// path. The Controller is the control context: it loads and analyzes
// samples, edits modulation routing and schedules triggers. The two halves
// communicate exclusively through lock-free single-producer/single-consumer
// rings of worklet messages and an atomic hand-off of immutable modulation
// state.
//
//	engine, controller, err := modkit.New(modkit.DefaultConfig())
//	...
//	controller.LoadSampleFile("kick", "kick.wav")
//	controller.TriggerSample(0, worklet.TriggerPayload{SampleID: "kick", Velocity: 1}, 0)
//	engine.ProcessBlock(out) // from the audio callback
//
// The topic packages stand alone: modulation (envelopes, LFOs, matrix,
// macros, MPE), pitch (YIN detection), sample (buffers, cache, transient
// detection, time-stretch), decode (WAV/AIFF/MP3/Ogg), worklet (message
// protocol, rings, profiler, error boundary) and event (trigger timeline).
package modkit
