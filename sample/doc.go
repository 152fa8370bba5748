// Package sample provides the sample data model and the offline processing
// pipeline: a de-duplicating load cache, waveform summaries for display,
// transient detection, and buffer operations (time-stretch, pitch-shift,
// reverse, normalize, slice extraction, fades).
//
// Nothing in this package runs on the audio context. Loading and analysis
// happen at import time on the control context or a background worker and
// hand only fully-formed, immutable results to the real-time side.
package sample
