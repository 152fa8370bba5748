package decode

import (
	"bytes"
	"errors"
	"fmt"
	"io"

	"github.com/go-audio/aiff"
	goaudio "github.com/go-audio/audio"
	"github.com/go-audio/wav"

	"github.com/tonefold/modkit/sample"
)

// pcmChunkFrames is the per-read frame count for streaming PCM decoders.
const pcmChunkFrames = 4096

// decodeWAV decodes a RIFF/WAVE container.
func decodeWAV(data []byte) (*sample.Buffer, error) {
	dec := wav.NewDecoder(bytes.NewReader(data))
	if !dec.IsValidFile() {
		return nil, fmt.Errorf("%w: invalid wav header", ErrCorruptStream)
	}

	format := dec.Format()
	if format == nil || format.NumChannels <= 0 || format.SampleRate <= 0 {
		return nil, fmt.Errorf("%w: missing wav format chunk", ErrCorruptStream)
	}

	return readPCM(dec, format, int(dec.BitDepth))
}

// decodeAIFF decodes a FORM/AIFF container.
func decodeAIFF(data []byte) (*sample.Buffer, error) {
	dec := aiff.NewDecoder(bytes.NewReader(data))
	if !dec.IsValidFile() {
		return nil, fmt.Errorf("%w: invalid aiff header", ErrCorruptStream)
	}
	dec.ReadInfo()

	format := dec.Format()
	if format == nil || format.NumChannels <= 0 || format.SampleRate <= 0 {
		return nil, fmt.Errorf("%w: missing aiff common chunk", ErrCorruptStream)
	}

	return readPCM(dec, format, int(dec.BitDepth))
}

// pcmReader is the shared surface of the wav and aiff decoders.
type pcmReader interface {
	PCMBuffer(buf *goaudio.IntBuffer) (int, error)
}

// readPCM drains a streaming PCM decoder into a planar buffer, normalizing
// integer samples by the container's bit depth.
func readPCM(dec pcmReader, format *goaudio.Format, bitDepth int) (*sample.Buffer, error) {
	scale := 1 / pcmScale(bitDepth)
	channels := format.NumChannels

	chunk := &goaudio.IntBuffer{
		Data:   make([]int, pcmChunkFrames*channels),
		Format: format,
	}

	var interleaved []float64
	for {
		chunk.Data = chunk.Data[:cap(chunk.Data)]
		n, err := dec.PCMBuffer(chunk)
		for _, v := range chunk.Data[:n] {
			interleaved = append(interleaved, float64(v)*scale)
		}
		if err != nil {
			if errors.Is(err, io.EOF) {
				break
			}
			return nil, fmt.Errorf("%w: %v", ErrCorruptStream, err)
		}
		if n == 0 {
			break
		}
	}

	if len(interleaved) == 0 {
		return nil, fmt.Errorf("%w: no pcm data", ErrCorruptStream)
	}

	return &sample.Buffer{
		Data:       deinterleave(interleaved, channels),
		SampleRate: float64(format.SampleRate),
	}, nil
}
