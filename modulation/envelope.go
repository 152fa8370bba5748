package modulation

import (
	"math"
)

// EnvelopeStage enumerates the AHDSR state machine stages.
type EnvelopeStage uint8

const (
	StageIdle EnvelopeStage = iota
	StageAttack
	StageHold
	StageDecay
	StageSustain
	StageRelease
)

// String returns the stage name.
func (s EnvelopeStage) String() string {
	switch s {
	case StageIdle:
		return "idle"
	case StageAttack:
		return "attack"
	case StageHold:
		return "hold"
	case StageDecay:
		return "decay"
	case StageSustain:
		return "sustain"
	case StageRelease:
		return "release"
	default:
		return "unknown"
	}
}

// EnvelopeConfig holds the immutable per-voice-assignment envelope settings.
// Times are in seconds and are floored at MinStageTime when the envelope runs.
type EnvelopeConfig struct {
	Attack  float64
	Hold    float64
	Decay   float64
	Sustain float64 // sustain level, 0..1
	Release float64

	AttackCurve  Curve
	DecayCurve   Curve
	ReleaseCurve Curve

	// VelocitySensitivity (0..1) controls how strongly note velocity scales
	// the attack target and effective sustain level. At 0 velocity is
	// ignored; at 1 the level tracks velocity exactly.
	VelocitySensitivity float64

	// KeyTracking is a signed multiplier applied to attack/decay/release
	// times per semitone of key offset from the reference key.
	KeyTracking float64
}

// DefaultEnvelopeConfig returns a conventional percussive envelope.
func DefaultEnvelopeConfig() EnvelopeConfig {
	return EnvelopeConfig{
		Attack:  0.01,
		Hold:    0,
		Decay:   0.2,
		Sustain: 0.7,
		Release: 0.3,
	}
}

// EnvelopeState is the mutable per-voice envelope state. The zero value is a
// valid idle state.
//
// Invariant: Stage == StageIdle implies Value == 0 and Active == false.
type EnvelopeState struct {
	Stage       EnvelopeStage
	Value       float64
	TimeInStage float64
	StartValue  float64
	TargetValue float64
	Active      bool
}

// NewEnvelopeState returns an idle envelope state.
func NewEnvelopeState() EnvelopeState {
	return EnvelopeState{}
}

// velocityAmount blends full level and velocity by sensitivity.
func velocityAmount(cfg EnvelopeConfig, velocity float64) float64 {
	return (1 - cfg.VelocitySensitivity) + cfg.VelocitySensitivity*velocity
}

// adjustedTime applies key tracking to a stage time and enforces the floor.
func adjustedTime(base, keyTracking, keyOffset float64) float64 {
	adjusted := base * (1 + keyTracking*keyOffset/keyTrackingDivisor)
	return math.Max(MinStageTime, adjusted)
}

// ProcessEnvelope advances the envelope by one sample and returns the new
// state. It is a pure function: the input state is not modified.
//
// noteOn=false while in any stage other than Idle or Release forces an
// immediate transition to Release starting from the current value, so a
// released note never jumps. noteOn=true while Idle or releasing re-triggers
// the attack from the current value.
func ProcessEnvelope(state EnvelopeState, cfg EnvelopeConfig, sampleRate float64, noteOn bool, velocity, keyOffset float64) EnvelopeState {
	if sampleRate <= 0 {
		return state
	}

	velAmount := velocityAmount(cfg, velocity)

	switch {
	case noteOn && (state.Stage == StageIdle || state.Stage == StageRelease):
		state.Stage = StageAttack
		state.StartValue = state.Value
		state.TargetValue = velAmount
		state.TimeInStage = 0
		state.Active = true
	case !noteOn && state.Stage != StageIdle && state.Stage != StageRelease:
		state.Stage = StageRelease
		state.StartValue = state.Value
		state.TimeInStage = 0
	}

	dt := 1 / sampleRate
	state.TimeInStage += dt

	switch state.Stage {
	case StageIdle:
		state.Value = 0
		state.Active = false

	case StageAttack:
		attack := adjustedTime(cfg.Attack, cfg.KeyTracking, keyOffset)
		progress := state.TimeInStage / attack
		if progress >= 1 {
			state.Value = state.TargetValue
			state.Stage = StageHold
			state.TimeInStage = 0
			state.StartValue = state.Value
		} else {
			curved := ApplyCurve(progress, cfg.AttackCurve)
			state.Value = state.StartValue + (state.TargetValue-state.StartValue)*curved
		}

	case StageHold:
		hold := math.Max(MinStageTime, cfg.Hold)
		if state.TimeInStage >= hold {
			state.Stage = StageDecay
			state.TimeInStage = 0
			state.StartValue = state.Value
			state.TargetValue = cfg.Sustain * velAmount
		}

	case StageDecay:
		decay := adjustedTime(cfg.Decay, cfg.KeyTracking, keyOffset)
		progress := state.TimeInStage / decay
		if progress >= 1 {
			state.Value = state.TargetValue
			state.Stage = StageSustain
			state.TimeInStage = 0
		} else {
			curved := ApplyCurve(progress, cfg.DecayCurve)
			state.Value = state.StartValue + (state.TargetValue-state.StartValue)*curved
		}

	case StageSustain:
		state.Value = cfg.Sustain * velAmount

	case StageRelease:
		release := adjustedTime(cfg.Release, cfg.KeyTracking, keyOffset)
		progress := state.TimeInStage / release
		if progress >= 1 {
			state.Value = 0
			state.Stage = StageIdle
			state.TimeInStage = 0
			state.Active = false
		} else {
			curved := ApplyCurve(progress, cfg.ReleaseCurve)
			state.Value = state.StartValue * (1 - curved)
		}
	}

	return state
}
