// Package modulation implements the modulation engine: AHDSR envelopes, LFOs,
// a modulation matrix with secondary "via" scaling, the macro system and MPE
// helpers.
//
// Everything in this package is a pure function over explicit state. Callers
// own EnvelopeState and LFOState values and thread them through ProcessEnvelope
// and ProcessLFO once per sample; no function here allocates, locks or keeps
// hidden state, so the package is safe to use from the real-time audio context.
package modulation
