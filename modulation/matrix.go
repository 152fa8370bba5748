package modulation

import (
	"errors"
	"fmt"
)

// ModSource enumerates modulation sources. SourceNone is the zero value and
// marks an unset via source.
type ModSource uint8

const (
	SourceNone ModSource = iota

	SourceEnvelope1
	SourceEnvelope2
	SourceEnvelope3

	SourceLFO1
	SourceLFO2
	SourceLFO3

	// Performance signals.
	SourceVelocity
	SourceKeyTrack
	SourceAftertouch
	SourceModWheel
	SourcePitchBend
	SourceExpression

	// MPE per-note signals.
	SourceMPESlide
	SourceMPEPressure

	SourceMacro1
	SourceMacro2
	SourceMacro3
	SourceMacro4
	SourceMacro5
	SourceMacro6
	SourceMacro7
	SourceMacro8

	// SourceRandomNote is a uniform value drawn once per note.
	SourceRandomNote

	// SourceConstant is always 1; with it a slot's amount becomes a fixed
	// offset on the destination.
	SourceConstant
)

// ModDestination enumerates modulation destinations.
type ModDestination uint8

const (
	DestPitch ModDestination = iota
	DestVolume
	DestPan
	DestFilterCutoff
	DestFilterResonance

	DestLFO1Rate
	DestLFO2Rate
	DestLFO3Rate
	DestLFO1Depth
	DestLFO2Depth
	DestLFO3Depth

	DestEnv1Attack
	DestEnv1Decay
	DestEnv1Release
	DestEnv2Attack
	DestEnv2Decay
	DestEnv2Release
	DestEnv3Attack
	DestEnv3Decay
	DestEnv3Release

	DestEffectMix
	DestEffectParam1
	DestEffectParam2

	numDestinations
)

// ModSlot routes one source to one destination. When Via is set (not
// SourceNone), the via source scales the slot amount: ViaAmount=0 ignores the
// via entirely, ViaAmount=1 turns the via source into a full gate.
type ModSlot struct {
	Source      ModSource
	Destination ModDestination
	Amount      float64 // -1..1
	Via         ModSource
	ViaAmount   float64 // -1..1
	Enabled     bool
}

// ModContext carries the current values of every modulation source. The zero
// value is not ready to use: NewModContext applies the documented defaults
// (all sources 0, except expression which defaults to 1 so an absent breath
// or CC11 controller does not mute expression-scaled routes).
type ModContext struct {
	Envelopes [NumEnvelopes]float64
	LFOs      [NumLFOs]float64
	Macros    [NumMacros]float64

	Velocity   float64
	KeyTrack   float64 // -1..1, normalized key offset from center
	Aftertouch float64
	ModWheel   float64
	PitchBend  float64 // -1..1
	Expression float64

	MPESlide    float64
	MPEPressure float64

	RandomNote float64 // drawn once per note
}

// NewModContext returns a context with default source values.
func NewModContext() ModContext {
	return ModContext{Expression: 1}
}

// SourceValue looks up the current value of a source in the context.
// SourceNone and unknown sources read as 0; SourceConstant reads as 1.
func SourceValue(source ModSource, ctx *ModContext) float64 {
	switch source {
	case SourceEnvelope1, SourceEnvelope2, SourceEnvelope3:
		return ctx.Envelopes[source-SourceEnvelope1]
	case SourceLFO1, SourceLFO2, SourceLFO3:
		return ctx.LFOs[source-SourceLFO1]
	case SourceVelocity:
		return ctx.Velocity
	case SourceKeyTrack:
		return ctx.KeyTrack
	case SourceAftertouch:
		return ctx.Aftertouch
	case SourceModWheel:
		return ctx.ModWheel
	case SourcePitchBend:
		return ctx.PitchBend
	case SourceExpression:
		return ctx.Expression
	case SourceMPESlide:
		return ctx.MPESlide
	case SourceMPEPressure:
		return ctx.MPEPressure
	case SourceMacro1, SourceMacro2, SourceMacro3, SourceMacro4,
		SourceMacro5, SourceMacro6, SourceMacro7, SourceMacro8:
		return ctx.Macros[source-SourceMacro1]
	case SourceRandomNote:
		return ctx.RandomNote
	case SourceConstant:
		return 1
	default:
		return 0
	}
}

// CalculateModulation sums the contributions of all enabled slots routed to
// the destination. The total is intentionally unclamped; destinations apply
// their own range limits downstream.
func CalculateModulation(slots []ModSlot, destination ModDestination, ctx *ModContext) float64 {
	var total float64
	for i := range slots {
		slot := &slots[i]
		if !slot.Enabled || slot.Destination != destination {
			continue
		}

		amount := slot.Amount
		if slot.Via != SourceNone {
			viaValue := SourceValue(slot.Via, ctx)
			amount *= (1 - slot.ViaAmount) + slot.ViaAmount*viaValue
		}

		total += SourceValue(slot.Source, ctx) * amount
	}
	return total
}

// ErrMatrixFull is returned when the engine-wide slot capacity is exhausted.
var ErrMatrixFull = errors.New("modulation matrix full")

// Matrix owns the engine-wide slot table.
type Matrix struct {
	slots []ModSlot
}

// NewMatrix returns an empty matrix with capacity reserved up front so that
// slot edits on the audio context do not allocate.
func NewMatrix() *Matrix {
	return &Matrix{slots: make([]ModSlot, 0, MaxMatrixSlots)}
}

// AddSlot appends a slot. The matrix is left unchanged when full.
func (m *Matrix) AddSlot(slot ModSlot) (int, error) {
	if len(m.slots) >= MaxMatrixSlots {
		return -1, fmt.Errorf("%w: %d slots", ErrMatrixFull, MaxMatrixSlots)
	}
	m.slots = append(m.slots, slot)
	return len(m.slots) - 1, nil
}

// SetSlot replaces the slot at index.
func (m *Matrix) SetSlot(index int, slot ModSlot) error {
	if index < 0 || index >= len(m.slots) {
		return fmt.Errorf("modulation slot index %d out of range", index)
	}
	m.slots[index] = slot
	return nil
}

// RemoveSlot deletes the slot at index, preserving the order of the rest.
func (m *Matrix) RemoveSlot(index int) error {
	if index < 0 || index >= len(m.slots) {
		return fmt.Errorf("modulation slot index %d out of range", index)
	}
	m.slots = append(m.slots[:index], m.slots[index+1:]...)
	return nil
}

// Slots exposes the live slot table for processing.
func (m *Matrix) Slots() []ModSlot {
	return m.slots
}

// Modulation sums all enabled routes to the destination, as CalculateModulation.
func (m *Matrix) Modulation(destination ModDestination, ctx *ModContext) float64 {
	return CalculateModulation(m.slots, destination, ctx)
}
