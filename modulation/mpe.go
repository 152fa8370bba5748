package modulation

import (
	"fmt"
)

// MPEZone describes an MPE zone: a master channel plus a run of member
// channels. The lower zone has master channel 1 with members 2..(1+N); the
// upper zone has master channel 16 with members (16-N)..15.
type MPEZone struct {
	MasterChannel  int
	MemberChannels int
	PitchBendRange float64 // semitones
}

// NewLowerZone configures a lower MPE zone with the given member channel count.
func NewLowerZone(members int) MPEZone {
	return MPEZone{
		MasterChannel:  MPELowerMasterChannel,
		MemberChannels: members,
		PitchBendRange: DefaultPitchBendRange,
	}
}

// NewUpperZone configures an upper MPE zone with the given member channel count.
func NewUpperZone(members int) MPEZone {
	return MPEZone{
		MasterChannel:  MPEUpperMasterChannel,
		MemberChannels: members,
		PitchBendRange: DefaultPitchBendRange,
	}
}

// IsInZone reports whether a MIDI channel (1-16) is the zone's master channel
// or one of its member channels.
func (z MPEZone) IsInZone(channel int) bool {
	if channel == z.MasterChannel {
		return true
	}
	switch z.MasterChannel {
	case MPELowerMasterChannel:
		return channel >= 2 && channel <= 1+z.MemberChannels
	case MPEUpperMasterChannel:
		return channel >= MPEUpperMasterChannel-z.MemberChannels && channel <= 15
	default:
		return false
	}
}

// ProcessPitchBend converts a raw 14-bit pitch bend value (0..16383, center
// 8192) to semitones for the given bend range.
func ProcessPitchBend(raw uint16, rangeSemitones float64) float64 {
	return (float64(raw) - pitchBendCenter) / pitchBendCenter * rangeSemitones
}

// MPEVoiceState tracks per-note expression for one sounding voice. One state
// exists per voice: created on note-on, discarded when the voice is released.
type MPEVoiceState struct {
	Channel   int
	PitchBend float64 // semitones
	Slide     float64 // 0..1, CC74
	Pressure  float64 // 0..1, channel pressure
}

// NewMPEVoiceState returns the expression state for a note on the given channel.
func NewMPEVoiceState(channel int) (MPEVoiceState, error) {
	if channel < 1 || channel > 16 {
		return MPEVoiceState{}, fmt.Errorf("MIDI channel %d out of range 1..16", channel)
	}
	return MPEVoiceState{Channel: channel}, nil
}

// SetPitchBend updates the voice bend from a raw 14-bit value.
func (v *MPEVoiceState) SetPitchBend(raw uint16, zone MPEZone) {
	v.PitchBend = ProcessPitchBend(raw, zone.PitchBendRange)
}

// SetSlide updates the slide (timbre) dimension from a 7-bit CC74 value.
func (v *MPEVoiceState) SetSlide(cc uint8) {
	v.Slide = float64(cc) / 127.0
}

// SetPressure updates channel pressure from a 7-bit value.
func (v *MPEVoiceState) SetPressure(pressure uint8) {
	v.Pressure = float64(pressure) / 127.0
}

// ApplyTo writes the voice expression into a modulation context.
func (v *MPEVoiceState) ApplyTo(ctx *ModContext, zone MPEZone) {
	ctx.MPESlide = v.Slide
	ctx.MPEPressure = v.Pressure
	if zone.PitchBendRange > 0 {
		ctx.PitchBend = v.PitchBend / zone.PitchBendRange
	}
}
