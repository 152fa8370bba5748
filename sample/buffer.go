package sample

import (
	"fmt"
)

// Buffer is a decoded multichannel sample buffer. Channels are planar: one
// slice per channel, all of equal length.
type Buffer struct {
	// Data holds one slice of samples per channel.
	Data [][]float64

	// SampleRate is the rate the samples were decoded at, in Hz.
	SampleRate float64
}

// NewBuffer allocates a silent buffer with the given shape.
func NewBuffer(channels, frames int, sampleRate float64) *Buffer {
	data := make([][]float64, channels)
	for ch := range data {
		data[ch] = make([]float64, frames)
	}
	return &Buffer{Data: data, SampleRate: sampleRate}
}

// NumChannels returns the channel count.
func (b *Buffer) NumChannels() int {
	return len(b.Data)
}

// Frames returns the per-channel sample count.
func (b *Buffer) Frames() int {
	if len(b.Data) == 0 {
		return 0
	}
	return len(b.Data[0])
}

// Duration returns the buffer length in seconds.
func (b *Buffer) Duration() float64 {
	if b.SampleRate <= 0 {
		return 0
	}
	return float64(b.Frames()) / b.SampleRate
}

// Clone returns a deep copy of the buffer.
func (b *Buffer) Clone() *Buffer {
	out := &Buffer{
		Data:       make([][]float64, len(b.Data)),
		SampleRate: b.SampleRate,
	}
	for ch, data := range b.Data {
		out.Data[ch] = make([]float64, len(data))
		copy(out.Data[ch], data)
	}
	return out
}

// Mono returns a single-channel mixdown: the mean of all channels per frame.
// A mono buffer returns its own channel without copying.
func (b *Buffer) Mono() []float64 {
	if len(b.Data) == 1 {
		return b.Data[0]
	}
	frames := b.Frames()
	out := make([]float64, frames)
	if len(b.Data) == 0 {
		return out
	}
	scale := 1 / float64(len(b.Data))
	for _, channel := range b.Data {
		for i, v := range channel {
			out[i] += v * scale
		}
	}
	return out
}

// validate reports structural problems with the buffer.
func (b *Buffer) validate() error {
	if len(b.Data) == 0 {
		return fmt.Errorf("%w: buffer has no channels", ErrInvalidBuffer)
	}
	frames := len(b.Data[0])
	for ch, data := range b.Data {
		if len(data) != frames {
			return fmt.Errorf("%w: channel %d has %d frames, channel 0 has %d",
				ErrInvalidBuffer, ch, len(data), frames)
		}
	}
	if b.SampleRate <= 0 {
		return fmt.Errorf("%w: sample rate %v", ErrInvalidBuffer, b.SampleRate)
	}
	return nil
}
