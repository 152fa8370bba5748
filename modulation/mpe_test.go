package modulation

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLowerZoneMembership(t *testing.T) {
	zone := NewLowerZone(7) // master 1, members 2..8

	assert.True(t, zone.IsInZone(1), "master channel")
	assert.True(t, zone.IsInZone(2))
	assert.True(t, zone.IsInZone(8))
	assert.False(t, zone.IsInZone(9))
	assert.False(t, zone.IsInZone(16))
}

func TestUpperZoneMembership(t *testing.T) {
	zone := NewUpperZone(7) // master 16, members 9..15

	assert.True(t, zone.IsInZone(16), "master channel")
	assert.True(t, zone.IsInZone(9))
	assert.True(t, zone.IsInZone(15))
	assert.False(t, zone.IsInZone(8))
	assert.False(t, zone.IsInZone(1))
}

func TestProcessPitchBend(t *testing.T) {
	assert.Zero(t, ProcessPitchBend(8192, 48))
	assert.InDelta(t, 48.0, ProcessPitchBend(16384, 48), 1e-9)
	assert.InDelta(t, -48.0, ProcessPitchBend(0, 48), 1e-9)
	assert.InDelta(t, 1.0, ProcessPitchBend(8192+8192/48, 48), 0.01)
}

func TestMPEVoiceState(t *testing.T) {
	zone := NewLowerZone(7)

	v, err := NewMPEVoiceState(3)
	require.NoError(t, err)

	v.SetPitchBend(16384, zone)
	v.SetSlide(127)
	v.SetPressure(64)

	assert.InDelta(t, zone.PitchBendRange, v.PitchBend, 1e-9)
	assert.InDelta(t, 1.0, v.Slide, 1e-9)
	assert.InDelta(t, 64.0/127.0, v.Pressure, 1e-9)

	ctx := NewModContext()
	v.ApplyTo(&ctx, zone)
	assert.InDelta(t, 1.0, ctx.MPESlide, 1e-9)
	assert.InDelta(t, 1.0, ctx.PitchBend, 1e-9, "bend normalizes to -1..1 in the context")

	_, err = NewMPEVoiceState(0)
	assert.Error(t, err)
	_, err = NewMPEVoiceState(17)
	assert.Error(t, err)
}
