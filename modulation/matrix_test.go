package modulation

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSourceValueLookup(t *testing.T) {
	ctx := NewModContext()
	ctx.Envelopes[0] = 0.5
	ctx.LFOs[2] = -0.25
	ctx.Macros[7] = 0.9
	ctx.Velocity = 0.8
	ctx.RandomNote = 0.33

	assert.InDelta(t, 0.5, SourceValue(SourceEnvelope1, &ctx), 1e-12)
	assert.InDelta(t, -0.25, SourceValue(SourceLFO3, &ctx), 1e-12)
	assert.InDelta(t, 0.9, SourceValue(SourceMacro8, &ctx), 1e-12)
	assert.InDelta(t, 0.8, SourceValue(SourceVelocity, &ctx), 1e-12)
	assert.InDelta(t, 0.33, SourceValue(SourceRandomNote, &ctx), 1e-12)
	assert.InDelta(t, 1.0, SourceValue(SourceConstant, &ctx), 1e-12)
	assert.Zero(t, SourceValue(SourceNone, &ctx))
}

func TestModContextDefaults(t *testing.T) {
	ctx := NewModContext()

	// Unset sources read as 0, except expression which defaults to 1 so an
	// absent CC11 controller does not silence expression-scaled routes.
	assert.Zero(t, SourceValue(SourceModWheel, &ctx))
	assert.Zero(t, SourceValue(SourceAftertouch, &ctx))
	assert.InDelta(t, 1.0, SourceValue(SourceExpression, &ctx), 1e-12)
}

func TestCalculateModulationDisabledSlots(t *testing.T) {
	ctx := NewModContext()
	ctx.LFOs[0] = 1

	slots := []ModSlot{
		{Source: SourceLFO1, Destination: DestPitch, Amount: 0.5, Enabled: false},
	}
	assert.Zero(t, CalculateModulation(slots, DestPitch, &ctx))

	slots[0].Enabled = true
	assert.InDelta(t, 0.5, CalculateModulation(slots, DestPitch, &ctx), 1e-12)
}

func TestCalculateModulationViaScaling(t *testing.T) {
	ctx := NewModContext()
	ctx.LFOs[0] = 1
	ctx.Macros[0] = 0 // via source reads 0

	slot := ModSlot{
		Source:      SourceLFO1,
		Destination: DestFilterCutoff,
		Amount:      0.8,
		Via:         SourceMacro1,
		ViaAmount:   1,
		Enabled:     true,
	}

	// ViaAmount=1 with a zero via source gates the contribution to 0.
	assert.Zero(t, CalculateModulation([]ModSlot{slot}, DestFilterCutoff, &ctx))

	// ViaAmount=0 ignores the via source entirely.
	slot.ViaAmount = 0
	assert.InDelta(t, 0.8, CalculateModulation([]ModSlot{slot}, DestFilterCutoff, &ctx), 1e-12)

	// Halfway: effective amount = amount * ((1-0.5) + 0.5*via).
	slot.ViaAmount = 0.5
	ctx.Macros[0] = 0.5
	assert.InDelta(t, 0.8*0.75, CalculateModulation([]ModSlot{slot}, DestFilterCutoff, &ctx), 1e-12)
}

func TestCalculateModulationSumsSlots(t *testing.T) {
	ctx := NewModContext()
	ctx.Envelopes[0] = 0.5
	ctx.LFOs[0] = -0.5

	a := ModSlot{Source: SourceEnvelope1, Destination: DestVolume, Amount: 1, Enabled: true}
	b := ModSlot{Source: SourceLFO1, Destination: DestVolume, Amount: 0.5, Enabled: true}
	c := ModSlot{Source: SourceConstant, Destination: DestPan, Amount: 1, Enabled: true}

	sumA := CalculateModulation([]ModSlot{a}, DestVolume, &ctx)
	sumB := CalculateModulation([]ModSlot{b}, DestVolume, &ctx)
	both := CalculateModulation([]ModSlot{a, b, c}, DestVolume, &ctx)

	assert.InDelta(t, sumA+sumB, both, 1e-12, "summing slots equals the sum of contributions")
	assert.InDelta(t, 0.25, both, 1e-12)
}

func TestMatrixCapacity(t *testing.T) {
	m := NewMatrix()

	for i := 0; i < MaxMatrixSlots; i++ {
		_, err := m.AddSlot(ModSlot{Source: SourceLFO1, Destination: DestPitch, Enabled: true})
		require.NoError(t, err)
	}

	_, err := m.AddSlot(ModSlot{Source: SourceLFO1, Destination: DestPitch})
	assert.ErrorIs(t, err, ErrMatrixFull)
	assert.Len(t, m.Slots(), MaxMatrixSlots)
}

func TestMatrixSetRemoveSlot(t *testing.T) {
	m := NewMatrix()
	idx, err := m.AddSlot(ModSlot{Source: SourceLFO1, Destination: DestPitch, Amount: 0.1, Enabled: true})
	require.NoError(t, err)

	require.NoError(t, m.SetSlot(idx, ModSlot{Source: SourceLFO2, Destination: DestPan, Amount: 0.2, Enabled: true}))
	assert.Equal(t, SourceLFO2, m.Slots()[idx].Source)

	require.NoError(t, m.RemoveSlot(idx))
	assert.Empty(t, m.Slots())

	assert.Error(t, m.SetSlot(5, ModSlot{}))
	assert.Error(t, m.RemoveSlot(0))
}
