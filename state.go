package modkit

import (
	"github.com/tonefold/modkit/modulation"
)

// modState is the modulation routing published by the control context and
// consumed by the audio context. Instances are immutable after publication;
// the controller builds a fresh copy for every edit and hands it off through
// an atomic pointer, so the engine swaps routing only at block boundaries and
// never observes a torn update.
type modState struct {
	Slots     []modulation.ModSlot
	Envelopes [modulation.NumEnvelopes]modulation.EnvelopeConfig
	LFOs      [modulation.NumLFOs]modulation.LFOParams
}

// defaultModState returns the routing a fresh session starts with: default
// envelope and LFO settings and an empty matrix.
func defaultModState() *modState {
	s := &modState{}
	for i := range s.Envelopes {
		s.Envelopes[i] = modulation.DefaultEnvelopeConfig()
	}
	for i := range s.LFOs {
		s.LFOs[i] = modulation.DefaultLFOParams()
	}
	return s
}

// clone deep-copies the state so the published snapshot and the controller's
// working copy never share the slot slice.
func (s *modState) clone() *modState {
	out := &modState{
		Slots:     make([]modulation.ModSlot, len(s.Slots)),
		Envelopes: s.Envelopes,
		LFOs:      s.LFOs,
	}
	copy(out.Slots, s.Slots)
	return out
}
