package modkit

import (
	"fmt"
	"sync"
	"sync/atomic"

	"github.com/tonefold/modkit/event"
	"github.com/tonefold/modkit/modulation"
	"github.com/tonefold/modkit/sample"
	"github.com/tonefold/modkit/worklet"
)

// Controller is the control-context half of a session. It owns sample
// loading and analysis, the modulation routing, macros and the trigger
// timeline. Every mutation crosses to the audio context either as a message
// on the control ring or as an atomically published routing snapshot; the
// controller never touches engine state directly.
//
// A Controller is safe for concurrent use.
type Controller struct {
	cfg Config

	cache   *sample.Cache
	store   *event.Store
	pending *atomic.Pointer[modState]

	mu       sync.Mutex
	shadow   *modState
	outbound *worklet.Producer[worklet.Message]
	inbound  *worklet.Consumer[worklet.Message]
}

func newController(cfg Config, cache *sample.Cache, outbound *worklet.Producer[worklet.Message], inbound *worklet.Consumer[worklet.Message], pending *atomic.Pointer[modState]) *Controller {
	return &Controller{
		cfg:      cfg,
		cache:    cache,
		store:    event.NewStore(),
		pending:  pending,
		shadow:   pending.Load().clone(),
		outbound: outbound,
		inbound:  inbound,
	}
}

// Cache exposes the session's sample cache.
func (c *Controller) Cache() *sample.Cache {
	return c.cache
}

// Events exposes the session's trigger timeline.
func (c *Controller) Events() *event.Store {
	return c.store
}

// LoadSampleFile reads, decodes and caches an audio file under id.
func (c *Controller) LoadSampleFile(id, path string) (*sample.LoadedSample, error) {
	return c.cache.LoadFromFile(id, path)
}

// LoadSampleBytes decodes and caches encoded audio bytes under id.
func (c *Controller) LoadSampleBytes(id, name string, data []byte) (*sample.LoadedSample, error) {
	return c.cache.LoadFromBytes(id, name, data)
}

// send queues a message for the audio context. A full ring is a
// configuration problem (the control side outpacing the audio side), not a
// crash: the message is dropped and reported.
func (c *Controller) send(msg worklet.Message) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.outbound.Write(msg) {
		return fmt.Errorf("control ring full, dropped %s message", msg.Type)
	}
	return nil
}

// SetMacro sets the value of a macro (1-based id), clamped to [0, 1].
func (c *Controller) SetMacro(id int, value float64) error {
	if id < 1 || id > modulation.NumMacros {
		return fmt.Errorf("macro id %d out of range 1..%d", id, modulation.NumMacros)
	}
	return c.send(worklet.NewParamMessage(fmt.Sprintf("%s%d", ParamMacroPrefix, id), value, 0))
}

// SetParam sends a named parameter change.
func (c *Controller) SetParam(name string, value float64) error {
	return c.send(worklet.NewParamMessage(name, value, 0))
}

// SetTempo sets the session tempo in BPM.
func (c *Controller) SetTempo(bpm float64) error {
	if bpm <= 0 {
		return fmt.Errorf("%w: tempo %v", ErrInvalidConfig, bpm)
	}
	return c.send(worklet.NewParamMessage(ParamTempo, bpm, 0))
}

// SetBypass toggles pass-through (silent) processing.
func (c *Controller) SetBypass(bypass bool) error {
	return c.send(worklet.NewBypassMessage(bypass))
}

// publishLocked snapshots the shadow routing for the audio context. Callers
// hold c.mu.
func (c *Controller) publishLocked() {
	c.pending.Store(c.shadow.clone())
}

// SetEnvelope replaces the configuration of envelope index (0-based).
func (c *Controller) SetEnvelope(index int, cfg modulation.EnvelopeConfig) error {
	if index < 0 || index >= modulation.NumEnvelopes {
		return fmt.Errorf("envelope index %d out of range", index)
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.shadow.Envelopes[index] = cfg
	c.publishLocked()
	return nil
}

// SetLFO replaces the parameters of LFO index (0-based).
func (c *Controller) SetLFO(index int, params modulation.LFOParams) error {
	if index < 0 || index >= modulation.NumLFOs {
		return fmt.Errorf("lfo index %d out of range", index)
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.shadow.LFOs[index] = params
	c.publishLocked()
	return nil
}

// AddMatrixSlot appends a modulation routing and returns its index.
func (c *Controller) AddMatrixSlot(slot modulation.ModSlot) (int, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if len(c.shadow.Slots) >= modulation.MaxMatrixSlots {
		return -1, fmt.Errorf("%w: %d slots", modulation.ErrMatrixFull, modulation.MaxMatrixSlots)
	}
	c.shadow.Slots = append(c.shadow.Slots, slot)
	c.publishLocked()
	return len(c.shadow.Slots) - 1, nil
}

// SetMatrixSlot replaces the routing at index.
func (c *Controller) SetMatrixSlot(index int, slot modulation.ModSlot) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if index < 0 || index >= len(c.shadow.Slots) {
		return fmt.Errorf("modulation slot index %d out of range", index)
	}
	c.shadow.Slots[index] = slot
	c.publishLocked()
	return nil
}

// RemoveMatrixSlot deletes the routing at index, preserving the order of the
// remaining slots.
func (c *Controller) RemoveMatrixSlot(index int) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if index < 0 || index >= len(c.shadow.Slots) {
		return fmt.Errorf("modulation slot index %d out of range", index)
	}
	c.shadow.Slots = append(c.shadow.Slots[:index], c.shadow.Slots[index+1:]...)
	c.publishLocked()
	return nil
}

// TriggerSample records a trigger on the timeline and schedules it with the
// audio context. Tick is an absolute engine frame; a past or zero tick fires
// on the next block. It returns the timeline event id.
func (c *Controller) TriggerSample(tick int64, payload worklet.TriggerPayload, duration int64) (string, error) {
	if !c.cache.Has(payload.SampleID) {
		return "", fmt.Errorf("%w: %q", sample.ErrUnknownSample, payload.SampleID)
	}

	id := c.store.TriggerSample(tick, payload, duration)
	err := c.send(worklet.NewEventMessage(tick, []worklet.ScheduledEvent{{
		Tick:     tick,
		Duration: duration,
		Payload:  payload,
	}}))
	if err != nil {
		c.store.Remove(id)
		return "", err
	}
	return id, nil
}

// ScheduleRange re-sends every timeline event with start <= tick < end to the
// audio context, for replaying a stored sequence.
func (c *Controller) ScheduleRange(start, end int64) error {
	events := c.store.EventsInRange(start, end)
	if len(events) == 0 {
		return nil
	}
	scheduled := make([]worklet.ScheduledEvent, len(events))
	for i, ev := range events {
		scheduled[i] = worklet.ScheduledEvent{Tick: ev.Tick, Duration: ev.Duration, Payload: ev.Payload}
	}
	return c.send(worklet.NewEventMessage(start, scheduled))
}

// PollMessage returns the next message published by the audio context
// (metrics, errors, debug). The second return value is false when none is
// queued.
func (c *Controller) PollMessage() (worklet.Message, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.inbound.Read()
}
