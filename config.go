package modkit

import (
	"errors"
	"fmt"

	"github.com/tonefold/modkit/sample"
)

// ErrInvalidConfig is returned when a session configuration fails validation.
var ErrInvalidConfig = errors.New("invalid config")

// Config describes an engine session. The zero value of any field selects
// its default; call Validate (or New, which validates) before use.
type Config struct {
	// SampleRate is the render rate in Hz.
	SampleRate float64

	// BlockSize is the render block length in frames. ProcessBlock accepts
	// any length up to this.
	BlockSize int

	// Channels is the output channel count.
	Channels int

	// Voices is the playback voice pool size. When every voice is busy the
	// oldest one is stolen.
	Voices int

	// RingCapacity is the slot count of each inter-context message ring.
	RingCapacity int

	// Tempo is the initial tempo in BPM, used for tempo-synced LFOs.
	Tempo float64

	// MetricsInterval is how many blocks pass between outbound metrics
	// messages. 0 selects the default; negative disables metrics.
	MetricsInterval int

	// ProfilerWindow is the rolling window of the block-time profiler.
	ProfilerWindow int

	// Decoder turns encoded bytes into buffers when the controller loads a
	// sample. Defaults to decode.Bytes.
	Decoder sample.DecodeFunc
}

// DefaultConfig returns a session configuration with all defaults resolved.
func DefaultConfig() Config {
	cfg := Config{}
	cfg.applyDefaults()
	return cfg
}

func (c *Config) applyDefaults() {
	if c.SampleRate == 0 {
		c.SampleRate = DefaultSampleRate
	}
	if c.BlockSize == 0 {
		c.BlockSize = DefaultBlockSize
	}
	if c.Channels == 0 {
		c.Channels = DefaultChannels
	}
	if c.Voices == 0 {
		c.Voices = DefaultVoices
	}
	if c.RingCapacity == 0 {
		c.RingCapacity = DefaultRingCapacity
	}
	if c.RingCapacity < minRingCapacity {
		c.RingCapacity = minRingCapacity
	}
	if c.Tempo == 0 {
		c.Tempo = DefaultTempo
	}
	if c.MetricsInterval == 0 {
		c.MetricsInterval = DefaultMetricsInterval
	}
}

// Validate resolves defaults and reports configuration errors.
func (c *Config) Validate() error {
	c.applyDefaults()

	if c.SampleRate < 0 {
		return fmt.Errorf("%w: sample rate %v", ErrInvalidConfig, c.SampleRate)
	}
	if c.BlockSize < 0 {
		return fmt.Errorf("%w: block size %d", ErrInvalidConfig, c.BlockSize)
	}
	if c.Channels < 0 {
		return fmt.Errorf("%w: channel count %d", ErrInvalidConfig, c.Channels)
	}
	if c.Voices < 0 {
		return fmt.Errorf("%w: voice count %d", ErrInvalidConfig, c.Voices)
	}
	if c.Tempo < 0 {
		return fmt.Errorf("%w: tempo %v", ErrInvalidConfig, c.Tempo)
	}
	return nil
}
