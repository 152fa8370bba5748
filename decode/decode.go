package decode

import (
	"errors"
	"fmt"

	"github.com/tonefold/modkit/sample"
)

// Sniffing constants.
const (
	// minHeaderBytes is the shortest prefix that can identify any of the
	// supported containers.
	minHeaderBytes = 12

	// mp3SyncMask and mp3SyncWord match the 11-bit frame sync of a raw
	// MPEG audio stream without an ID3 tag.
	mp3SyncMask = 0xE0
	mp3SyncWord = 0xE0
)

// Sentinel errors returned by the decoders.
var (
	// ErrUnsupportedFormat indicates bytes that match none of the known
	// container signatures.
	ErrUnsupportedFormat = errors.New("unsupported audio format")

	// ErrCorruptStream indicates a recognized container whose payload
	// could not be decoded.
	ErrCorruptStream = errors.New("corrupt audio stream")
)

// Format identifies a supported audio container.
type Format int

const (
	FormatUnknown Format = iota
	FormatWAV
	FormatAIFF
	FormatMP3
	FormatOgg
)

// String returns the format name.
func (f Format) String() string {
	switch f {
	case FormatWAV:
		return "wav"
	case FormatAIFF:
		return "aiff"
	case FormatMP3:
		return "mp3"
	case FormatOgg:
		return "ogg"
	default:
		return "unknown"
	}
}

// DetectFormat sniffs the container format from the leading bytes.
func DetectFormat(data []byte) Format {
	if len(data) < minHeaderBytes {
		return FormatUnknown
	}

	switch {
	case string(data[0:4]) == "RIFF" && string(data[8:12]) == "WAVE":
		return FormatWAV
	case string(data[0:4]) == "FORM" && (string(data[8:12]) == "AIFF" || string(data[8:12]) == "AIFC"):
		return FormatAIFF
	case string(data[0:4]) == "OggS":
		return FormatOgg
	case string(data[0:3]) == "ID3":
		return FormatMP3
	case data[0] == 0xFF && data[1]&mp3SyncMask == mp3SyncWord:
		return FormatMP3
	default:
		return FormatUnknown
	}
}

// Bytes decodes encoded audio into a planar buffer, sniffing the container
// from the data itself. It satisfies sample.DecodeFunc.
func Bytes(data []byte) (*sample.Buffer, error) {
	switch DetectFormat(data) {
	case FormatWAV:
		return decodeWAV(data)
	case FormatAIFF:
		return decodeAIFF(data)
	case FormatMP3:
		return decodeMP3(data)
	case FormatOgg:
		return decodeOgg(data)
	default:
		return nil, fmt.Errorf("%w: unrecognized header", ErrUnsupportedFormat)
	}
}

// deinterleave splits interleaved normalized samples into planar channels.
func deinterleave(interleaved []float64, channels int) [][]float64 {
	frames := len(interleaved) / channels
	data := make([][]float64, channels)
	for ch := range data {
		data[ch] = make([]float64, frames)
	}
	for i := 0; i < frames; i++ {
		for ch := 0; ch < channels; ch++ {
			data[ch][i] = interleaved[i*channels+ch]
		}
	}
	return data
}

// pcmScale returns the normalization divisor for a PCM bit depth.
func pcmScale(bitDepth int) float64 {
	switch bitDepth {
	case 8:
		return 128
	case 16:
		return 32768
	case 24:
		return 8388608
	case 32:
		return 2147483648
	default:
		return 32768
	}
}
