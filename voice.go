package modkit

import (
	"github.com/tonefold/modkit/internal/dsputil"
	"github.com/tonefold/modkit/modulation"
	"github.com/tonefold/modkit/sample"
)

// voice is one playing sample instance. Voices are pool-allocated at session
// construction; triggering reuses a free slot or steals the oldest active one.
type voice struct {
	active bool

	buf        *sample.Buffer
	pos        float64 // fractional read position within the slice region
	startFrame int
	endFrame   int
	baseStep   float64 // read increment at unmodulated pitch

	velocity  float64
	keyOffset float64 // semitones from the reference key, for envelope tracking
	random    float64 // per-note random source value

	// gateFrames counts down the note-on gate; negative means the gate stays
	// open until the sample runs out.
	gateFrames int64

	env modulation.EnvelopeState

	// age orders voices for oldest-first stealing.
	age uint64
}

// start configures the voice for a trigger. step carries the combined pitch
// offset and sample-rate ratio; gateFrames < 0 plays through to the end of
// the region.
func (v *voice) start(buf *sample.Buffer, startFrame, endFrame int, step, velocity, keyOffset, random float64, gateFrames int64, age uint64) {
	v.active = true
	v.buf = buf
	v.pos = 0
	v.startFrame = startFrame
	v.endFrame = endFrame
	v.baseStep = step
	v.velocity = velocity
	v.keyOffset = keyOffset
	v.random = random
	v.gateFrames = gateFrames
	v.env = modulation.NewEnvelopeState()
	v.age = age
}

// stop releases the voice back to the pool.
func (v *voice) stop() {
	v.active = false
	v.buf = nil
}

// render advances the voice by one output frame and accumulates into out at
// frame i. ctx must already carry the block's global sources; the voice
// overlays its per-note sources before evaluating the matrix.
//
// It returns false when the voice finished and was released.
func (v *voice) render(out [][]float64, i int, sampleRate float64, state *modState, ctx modulation.ModContext, pitchRatio float64) bool {
	frames := v.endFrame - v.startFrame
	if v.pos >= float64(frames-1) {
		v.stop()
		return false
	}

	noteOn := v.gateFrames != 0
	if v.gateFrames > 0 {
		v.gateFrames--
	}

	ctx.Velocity = v.velocity
	ctx.KeyTrack = dsputil.Clamp(v.keyOffset/keyTrackSemitones, -1, 1)
	ctx.RandomNote = v.random

	v.env = modulation.ProcessEnvelope(v.env, state.Envelopes[0], sampleRate, noteOn, v.velocity, v.keyOffset)
	ctx.Envelopes[0] = v.env.Value
	if !noteOn && !v.env.Active {
		v.stop()
		return false
	}

	gain := 1 + modulation.CalculateModulation(state.Slots, modulation.DestVolume, &ctx)
	gain = dsputil.Clamp(gain, 0, maxVoiceGain)
	level := v.env.Value * v.velocity * gain

	idx := int(v.pos)
	frac := v.pos - float64(idx)
	base := v.startFrame + idx

	for ch := range out {
		src := v.buf.Data[channelFor(ch, len(v.buf.Data))]
		s := src[base]*(1-frac) + src[base+1]*frac
		out[ch][i] += s * level
	}

	v.pos += v.baseStep * pitchRatio
	return true
}

// channelFor maps an output channel onto a source channel: matching channels
// play through, a mono source feeds every output.
func channelFor(outCh, srcChannels int) int {
	if outCh < srcChannels {
		return outCh
	}
	return srcChannels - 1
}
