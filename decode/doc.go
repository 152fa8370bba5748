// Package decode turns encoded audio bytes into planar sample buffers.
//
// The container format is sniffed from the leading bytes, so callers never
// pass a format hint. WAV, AIFF, MP3 and Ogg Vorbis are supported; Bytes
// satisfies sample.DecodeFunc and is the decoder the engine cache is built
// around.
package decode
