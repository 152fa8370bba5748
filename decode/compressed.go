package decode

import (
	"bytes"
	"errors"
	"fmt"
	"io"

	gomp3 "github.com/hajimehoshi/go-mp3"
	"github.com/jfreymuth/oggvorbis"

	"github.com/tonefold/modkit/sample"
)

// mp3Channels is fixed by the decoder: go-mp3 always emits stereo 16-bit
// little-endian PCM, upmixing mono sources.
const mp3Channels = 2

// mp3ChunkBytes is the per-read byte count when draining an MP3 stream.
const mp3ChunkBytes = 16384

// decodeMP3 decodes an MPEG audio stream.
func decodeMP3(data []byte) (*sample.Buffer, error) {
	dec, err := gomp3.NewDecoder(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCorruptStream, err)
	}

	scale := 1 / pcmScale(16)
	chunk := make([]byte, mp3ChunkBytes)

	var interleaved []float64
	for {
		n, err := dec.Read(chunk)
		for i := 0; i+1 < n; i += 2 {
			v := int16(uint16(chunk[i]) | uint16(chunk[i+1])<<8)
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
		return nil, fmt.Errorf("%w: no mp3 frames", ErrCorruptStream)
	}

	return &sample.Buffer{
		Data:       deinterleave(interleaved, mp3Channels),
		SampleRate: float64(dec.SampleRate()),
	}, nil
}

// decodeOgg decodes an Ogg Vorbis stream.
func decodeOgg(data []byte) (*sample.Buffer, error) {
	interleaved, format, err := oggvorbis.ReadAll(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCorruptStream, err)
	}
	if format.Channels <= 0 || len(interleaved) == 0 {
		return nil, fmt.Errorf("%w: empty vorbis stream", ErrCorruptStream)
	}

	samples := make([]float64, len(interleaved))
	for i, v := range interleaved {
		samples[i] = float64(v)
	}

	return &sample.Buffer{
		Data:       deinterleave(samples, format.Channels),
		SampleRate: float64(format.SampleRate),
	}, nil
}
