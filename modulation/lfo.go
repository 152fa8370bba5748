package modulation

import (
	"math"
)

// Waveform enumerates LFO shapes.
type Waveform uint8

const (
	WaveSine Waveform = iota
	WaveTriangle
	WaveSaw
	WaveSawDown
	WaveSquare
	WavePulse25
	WavePulse10
	WaveRandom
	WaveSampleHold
	WaveSmoothRandom
)

// String returns the configuration name of the waveform.
func (w Waveform) String() string {
	switch w {
	case WaveSine:
		return "sine"
	case WaveTriangle:
		return "triangle"
	case WaveSaw:
		return "saw"
	case WaveSawDown:
		return "sawDown"
	case WaveSquare:
		return "square"
	case WavePulse25:
		return "pulse25"
	case WavePulse10:
		return "pulse10"
	case WaveRandom:
		return "random"
	case WaveSampleHold:
		return "sampleHold"
	case WaveSmoothRandom:
		return "smoothRandom"
	default:
		return "unknown"
	}
}

// Polarity selects the LFO output range.
type Polarity uint8

const (
	// Bipolar output spans [-1, 1].
	Bipolar Polarity = iota

	// Unipolar output spans [0, 1].
	Unipolar
)

// LFOParams holds the LFO configuration.
type LFOParams struct {
	Waveform Waveform

	// RateHz is the free-running rate. Ignored when Sync is set.
	RateHz float64

	// Sync derives the rate from the host tempo using Division.
	Sync     bool
	Division SyncDivision

	Depth       float64 // 0..1
	PhaseOffset float64 // 0..1, added when evaluating the waveform
	Delay       float64 // seconds of silence before the LFO starts
	FadeIn      float64 // seconds to ramp depth from 0 to full

	// KeyTrigger restarts the LFO phase on every note trigger.
	KeyTrigger bool

	Polarity Polarity
}

// DefaultLFOParams returns a free-running 1 Hz bipolar sine at full depth.
func DefaultLFOParams() LFOParams {
	return LFOParams{Waveform: WaveSine, RateHz: 1, Depth: 1}
}

// LFOState is the mutable LFO state. Create it with NewLFOState so the
// random generator is seeded; the zero value degenerates to a constant
// stream of zeros from the random waveforms.
type LFOState struct {
	Phase          float64 // 0..1
	Value          float64 // last output, post depth/fade/polarity
	DelayRemaining float64 // seconds
	FadeProgress   float64 // 0..1
	HoldValue      float64 // current sample-and-hold value
	SmoothTarget   float64 // smooth-random approach target

	rng uint64
}

// NewLFOState returns a reset LFO state for the given params. The seed
// drives the random waveforms; equal seeds give identical streams.
func NewLFOState(params LFOParams, seed uint64) LFOState {
	if seed == 0 {
		seed = 0x9e3779b97f4a7c15
	}
	return LFOState{
		DelayRemaining: params.Delay,
		rng:            seed,
	}
}

// TriggerLFO applies a note trigger: when the params request key triggering
// the phase, delay and fade are restarted, otherwise the state passes
// through unchanged.
func TriggerLFO(state LFOState, params LFOParams) LFOState {
	if !params.KeyTrigger {
		return state
	}
	state.Phase = 0
	state.DelayRemaining = params.Delay
	state.FadeProgress = 0
	return state
}

// nextUniform draws the next value in [-1, 1) from the state's xorshift
// generator. Allocation-free.
func (s *LFOState) nextUniform() float64 {
	x := s.rng
	x ^= x << 13
	x ^= x >> 7
	x ^= x << 17
	s.rng = x
	return float64(x>>11)/float64(1<<52) - 1
}

// EffectiveRate returns the rate in Hz after tempo sync resolution.
func EffectiveRate(params LFOParams, tempo float64) float64 {
	if params.Sync && tempo > 0 {
		return (tempo / secondsPerMinute) / params.Division.Multiplier()
	}
	return params.RateHz
}

// ProcessLFO advances the LFO by one sample and returns the new state with
// Value holding the output. Pure function over the passed state.
func ProcessLFO(state LFOState, params LFOParams, sampleRate, tempo float64) LFOState {
	if sampleRate <= 0 {
		return state
	}
	dt := 1 / sampleRate

	if state.DelayRemaining > 0 {
		state.DelayRemaining -= dt
		state.Value = 0
		return state
	}

	if params.FadeIn <= 0 {
		state.FadeProgress = 1
	} else if state.FadeProgress < 1 {
		state.FadeProgress = math.Min(1, state.FadeProgress+dt/params.FadeIn)
	}

	rate := EffectiveRate(params, tempo)
	next := state.Phase + rate/sampleRate
	wrapped := next >= 1
	next = next - math.Floor(next)

	if wrapped {
		switch params.Waveform {
		case WaveSampleHold:
			state.HoldValue = state.nextUniform()
		case WaveSmoothRandom:
			state.SmoothTarget = state.nextUniform()
		}
	}
	state.Phase = next

	p := state.Phase + params.PhaseOffset
	p = p - math.Floor(p)

	var v float64
	switch params.Waveform {
	case WaveSine:
		v = math.Sin(2 * math.Pi * p)
	case WaveTriangle:
		if p < 0.5 {
			v = 4*p - 1
		} else {
			v = 3 - 4*p
		}
	case WaveSaw:
		v = 2*p - 1
	case WaveSawDown:
		v = 1 - 2*p
	case WaveSquare:
		v = squareAt(p, 0.5)
	case WavePulse25:
		v = squareAt(p, 0.25)
	case WavePulse10:
		v = squareAt(p, 0.1)
	case WaveRandom:
		v = state.nextUniform()
	case WaveSampleHold:
		v = state.HoldValue
	case WaveSmoothRandom:
		state.HoldValue += (state.SmoothTarget - state.HoldValue) * smoothRandomFactor
		v = state.HoldValue
	}

	out := v * params.Depth * state.FadeProgress
	if params.Polarity == Unipolar {
		out = (out + 1) / 2
	}
	state.Value = out
	return state
}

func squareAt(p, width float64) float64 {
	if p < width {
		return 1
	}
	return -1
}
