package modkit

import (
	"errors"
	"strconv"
	"strings"
	"sync/atomic"
	"time"

	"github.com/tonefold/modkit/internal/dsputil"
	"github.com/tonefold/modkit/modulation"
	"github.com/tonefold/modkit/sample"
	"github.com/tonefold/modkit/worklet"
)

// errVoiceRender marks a failure inside per-block voice rendering.
var errVoiceRender = errors.New("voice render failed")

// Engine is the audio-context half of a session. Exactly one goroutine (the
// audio callback) may call ProcessBlock; all state the engine touches during
// rendering is owned by that goroutine or handed off immutably.
//
// ProcessBlock never blocks, locks, sleeps or allocates. Pending control
// messages are drained only at the block boundary, so a block never observes
// a torn parameter update.
type Engine struct {
	cfg Config

	cache    *sample.Cache
	inbound  *worklet.Consumer[worklet.Message]
	outbound *worklet.Producer[worklet.Message]
	pending  *atomic.Pointer[modState]

	state  *modState
	ctx    modulation.ModContext
	lfos   [modulation.NumLFOs]modulation.LFOState
	macros [modulation.NumMacros]float64

	voices  []voice
	nextAge uint64

	// events holds scheduled triggers not yet due, ordered FIFO.
	events    []worklet.ScheduledEvent
	numEvents int

	frame  int64
	tempo  float64
	bypass bool

	profiler *worklet.Profiler
	blocks   uint64

	rng uint64
}

func newEngine(cfg Config, cache *sample.Cache, inbound *worklet.Consumer[worklet.Message], outbound *worklet.Producer[worklet.Message], pending *atomic.Pointer[modState]) *Engine {
	e := &Engine{
		cfg:      cfg,
		cache:    cache,
		inbound:  inbound,
		outbound: outbound,
		pending:  pending,
		state:    pending.Load(),
		ctx:      modulation.NewModContext(),
		voices:   make([]voice, cfg.Voices),
		events:   make([]worklet.ScheduledEvent, maxPendingEvents),
		tempo:    cfg.Tempo,
		profiler: worklet.NewProfiler(cfg.ProfilerWindow),
		rng:      0x2545f4914f6cdd1d,
	}
	for i := range e.lfos {
		e.lfos[i] = modulation.NewLFOState(e.state.LFOs[i], uint64(i+1)*0x9e3779b97f4a7c15)
	}
	return e
}

// Frame returns the engine's running frame counter.
func (e *Engine) Frame() int64 {
	return e.frame
}

// ActiveVoices counts the voices currently playing.
func (e *Engine) ActiveVoices() int {
	n := 0
	for i := range e.voices {
		if e.voices[i].active {
			n++
		}
	}
	return n
}

// ProcessBlock renders the next block into out, one slice per channel, all of
// equal length at most the configured block size. The output is overwritten,
// not accumulated. A failure inside rendering degrades to silence for the
// block and an error message on the outgoing ring.
func (e *Engine) ProcessBlock(out [][]float64) {
	start := time.Now()

	e.drainMessages()
	if s := e.pending.Load(); s != e.state {
		e.state = s
	}

	zeroBlock(out)
	frames := blockFrames(out)

	if !e.bypass && frames > 0 {
		e.fireDueEvents(frames)
		ok := worklet.WithErrorBoundary("process-block", func() error {
			return e.renderVoices(out, frames)
		}, e.reportError)
		if !ok {
			zeroBlock(out)
		}
	}

	e.frame += int64(frames)
	e.blocks++
	e.profiler.Record(time.Since(start))

	if e.cfg.MetricsInterval > 0 && e.blocks%uint64(e.cfg.MetricsInterval) == 0 {
		e.outbound.Write(worklet.NewMetricsMessage(worklet.MetricsPayload{
			AverageBlockTime: e.profiler.Average(),
			MaxBlockTime:     e.profiler.Max(),
			BlockCount:       e.blocks,
			ActiveVoices:     e.ActiveVoices(),
		}))
	}
}

// renderVoices advances modulation and accumulates every active voice.
func (e *Engine) renderVoices(out [][]float64, frames int) error {
	for i := range e.macros {
		e.ctx.Macros[i] = e.macros[i]
	}

	// Pitch modulation is evaluated once per block; per-sample exponential
	// pitch would dominate the render cost.
	pitchMod := modulation.CalculateModulation(e.state.Slots, modulation.DestPitch, &e.ctx)
	pitchRatio := dsputil.SemitonesToRatio(pitchMod, 0)

	for i := 0; i < frames; i++ {
		for l := range e.lfos {
			e.lfos[l] = modulation.ProcessLFO(e.lfos[l], e.state.LFOs[l], e.cfg.SampleRate, e.tempo)
			e.ctx.LFOs[l] = e.lfos[l].Value
		}
		for v := range e.voices {
			if !e.voices[v].active {
				continue
			}
			if e.voices[v].buf == nil {
				return errVoiceRender
			}
			e.voices[v].render(out, i, e.cfg.SampleRate, e.state, e.ctx, pitchRatio)
		}
	}
	return nil
}

// drainMessages applies every queued control message. Called only at the
// block boundary.
func (e *Engine) drainMessages() {
	for {
		msg, ok := e.inbound.Read()
		if !ok {
			return
		}
		switch msg.Type {
		case worklet.MessageInit:
			if msg.Init.SampleRate > 0 {
				e.cfg.SampleRate = msg.Init.SampleRate
			}
		case worklet.MessageParam:
			e.applyParam(msg.Param)
		case worklet.MessageEvent:
			for _, ev := range msg.Event.Events {
				e.queueEvent(ev)
			}
		case worklet.MessageBypass:
			e.bypass = msg.Bypass
		}
	}
}

// applyParam routes a named parameter change.
func (e *Engine) applyParam(p worklet.ParamPayload) {
	switch {
	case p.Name == ParamTempo:
		if p.Value > 0 {
			e.tempo = p.Value
		}
	case strings.HasPrefix(p.Name, ParamMacroPrefix):
		id, err := strconv.Atoi(p.Name[len(ParamMacroPrefix):])
		if err != nil || id < 1 || id > modulation.NumMacros {
			return
		}
		e.macros[id-1] = dsputil.Clamp(p.Value, 0, 1)
	}
}

// queueEvent stages a scheduled trigger. When the queue is full the oldest
// pending event is dropped; triggers are best-effort under overload.
func (e *Engine) queueEvent(ev worklet.ScheduledEvent) {
	if e.numEvents == len(e.events) {
		copy(e.events, e.events[1:])
		e.numEvents--
	}
	e.events[e.numEvents] = ev
	e.numEvents++
}

// fireDueEvents starts voices for every event whose tick falls before the end
// of this block. Events are frame-addressed; a past tick fires immediately.
func (e *Engine) fireDueEvents(frames int) {
	blockEnd := e.frame + int64(frames)
	kept := 0
	for i := 0; i < e.numEvents; i++ {
		ev := e.events[i]
		if ev.Tick >= blockEnd {
			e.events[kept] = ev
			kept++
			continue
		}
		e.trigger(ev)
	}
	e.numEvents = kept
}

// trigger starts a voice for the event, stealing the oldest voice when the
// pool is exhausted. Unknown sample or slice ids are reported and skipped; a
// bad trigger must not kill the block.
func (e *Engine) trigger(ev worklet.ScheduledEvent) {
	loaded, ok := e.cache.Lookup(ev.Payload.SampleID)
	if !ok {
		e.reportError(worklet.ErrorPayload{Op: "trigger", Message: "unknown sample " + ev.Payload.SampleID})
		return
	}

	startFrame, endFrame := 0, loaded.Buffer.Frames()
	if ev.Payload.SliceID != "" {
		found := false
		for _, s := range loaded.Slices {
			if s.ID == ev.Payload.SliceID {
				startFrame, endFrame = s.StartFrame, s.EndFrame
				found = true
				break
			}
		}
		if !found {
			e.reportError(worklet.ErrorPayload{Op: "trigger", Message: "unknown slice " + ev.Payload.SliceID})
			return
		}
	}
	if endFrame-startFrame < 2 {
		return
	}

	v := e.allocVoice()
	step := loaded.Buffer.SampleRate / e.cfg.SampleRate * dsputil.SemitonesToRatio(ev.Payload.PitchOffset, 0)
	if ev.Payload.StretchRatio > 0 {
		step /= ev.Payload.StretchRatio
	}

	velocity := dsputil.Clamp(ev.Payload.Velocity, 0, 1)
	if velocity == 0 {
		velocity = 1
	}

	gate := ev.Duration
	if gate <= 0 {
		gate = -1
	}

	e.nextAge++
	v.start(loaded.Buffer, startFrame, endFrame, step, velocity, ev.Payload.PitchOffset, e.nextRandom(), gate, e.nextAge)

	for l := range e.lfos {
		e.lfos[l] = modulation.TriggerLFO(e.lfos[l], e.state.LFOs[l])
	}
}

// allocVoice returns a free voice, or the oldest active one when the pool is
// full.
func (e *Engine) allocVoice() *voice {
	var oldest *voice
	for i := range e.voices {
		v := &e.voices[i]
		if !v.active {
			return v
		}
		if oldest == nil || v.age < oldest.age {
			oldest = v
		}
	}
	oldest.stop()
	return oldest
}

// nextRandom draws a uniform value in [0, 1) for the per-note random source.
func (e *Engine) nextRandom() float64 {
	x := e.rng
	x ^= x << 13
	x ^= x >> 7
	x ^= x << 17
	e.rng = x
	return float64(x>>11) / float64(1<<52) / 2
}

// reportError publishes a structured error on the outgoing ring. A full ring
// drops the report; the audio context never waits for the control side.
func (e *Engine) reportError(p worklet.ErrorPayload) {
	e.outbound.Write(worklet.NewErrorMessage(p.Op, p.Message))
}

func zeroBlock(out [][]float64) {
	for ch := range out {
		for i := range out[ch] {
			out[ch][i] = 0
		}
	}
}

func blockFrames(out [][]float64) int {
	if len(out) == 0 {
		return 0
	}
	return len(out[0])
}
