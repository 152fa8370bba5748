package modkit

import (
	"sync/atomic"

	"github.com/tonefold/modkit/decode"
	"github.com/tonefold/modkit/sample"
	"github.com/tonefold/modkit/worklet"
)

// New creates an engine session: the audio-context Engine and its
// control-context Controller, wired through two SPSC rings and a shared
// routing pointer. The Engine must be driven from exactly one goroutine and
// the Controller from any number.
func New(cfg Config) (*Engine, *Controller, error) {
	if err := cfg.Validate(); err != nil {
		return nil, nil, err
	}

	decoder := cfg.Decoder
	if decoder == nil {
		decoder = decode.Bytes
	}
	cache := sample.NewCache(decoder)

	// control -> audio and audio -> control rings.
	toAudio, fromControl := worklet.NewSharedRingBuffer[worklet.Message](cfg.RingCapacity)
	toControl, fromAudio := worklet.NewSharedRingBuffer[worklet.Message](cfg.RingCapacity)

	pending := &atomic.Pointer[modState]{}
	pending.Store(defaultModState())

	engine := newEngine(cfg, cache, fromControl, toControl, pending)
	controller := newController(cfg, cache, toAudio, fromAudio, pending)
	return engine, controller, nil
}
