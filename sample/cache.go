package sample

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"sync/atomic"

	"golang.org/x/sync/singleflight"
)

// DecodeFunc turns raw encoded bytes into a decoded buffer. The cache treats
// decoding as an opaque boundary; see the decode package for the concrete
// implementation.
type DecodeFunc func(data []byte) (*Buffer, error)

// Cache loads, decodes and retains samples keyed by id. Concurrent requests
// for the same id share a single in-flight decode; a failed load is not
// cached, so a later retry may succeed.
//
// The cache is owned by the engine session that constructs it, not by the
// process. Control-context goroutines use the locked surface (Load*, Get,
// SetSlices, Remove, ...); the audio context reads through Lookup, which
// loads an atomically published immutable snapshot and never takes the lock.
// Entries are never mutated after publication: SetSlices replaces the entry
// with a copy.
type Cache struct {
	decode         DecodeFunc
	waveformPoints int

	mu      sync.RWMutex
	samples map[string]*LoadedSample
	group   singleflight.Group

	// snapshot is the lock-free read path. Rebuilt under mu on every
	// mutation; the map behind the pointer is never written again.
	snapshot atomic.Pointer[map[string]*LoadedSample]
}

// NewCache creates an empty cache around the given decoder.
func NewCache(decode DecodeFunc) *Cache {
	c := &Cache{
		decode:         decode,
		waveformPoints: DefaultWaveformPoints,
		samples:        make(map[string]*LoadedSample),
	}
	empty := make(map[string]*LoadedSample)
	c.snapshot.Store(&empty)
	return c
}

// publishLocked rebuilds the lock-free snapshot. Callers hold mu for writing.
func (c *Cache) publishLocked() {
	snap := make(map[string]*LoadedSample, len(c.samples))
	for id, s := range c.samples {
		snap[id] = s
	}
	c.snapshot.Store(&snap)
}

// LoadFromBytes decodes and caches raw encoded bytes under the given id.
// If the id is already cached the existing sample is returned without
// decoding; if a load for the id is already in flight, the call attaches to
// it instead of starting a second decode.
func (c *Cache) LoadFromBytes(id, name string, data []byte) (*LoadedSample, error) {
	return c.load(id, name, "", data)
}

// LoadFromFile reads and decodes a file, caching it under the given id.
func (c *Cache) LoadFromFile(id, path string) (*LoadedSample, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read sample %q: %w", id, err)
	}
	return c.load(id, filepath.Base(path), path, data)
}

func (c *Cache) load(id, name, sourcePath string, data []byte) (*LoadedSample, error) {
	c.mu.RLock()
	if s, ok := c.samples[id]; ok {
		c.mu.RUnlock()
		return s, nil
	}
	c.mu.RUnlock()

	v, err, _ := c.group.Do(id, func() (any, error) {
		buf, err := c.decode(data)
		if err != nil {
			return nil, fmt.Errorf("decode sample %q: %w", id, err)
		}
		if err := buf.validate(); err != nil {
			return nil, err
		}

		loaded := &LoadedSample{
			Metadata: Metadata{
				ID:         id,
				Name:       name,
				SourcePath: sourcePath,
				SampleRate: buf.SampleRate,
				Duration:   buf.Duration(),
				Channels:   buf.NumChannels(),
			},
			Buffer:   buf,
			Waveform: Summarize(buf, c.waveformPoints),
		}

		c.mu.Lock()
		c.samples[id] = loaded
		c.publishLocked()
		c.mu.Unlock()
		return loaded, nil
	})
	if err != nil {
		return nil, err
	}
	return v.(*LoadedSample), nil
}

// Put inserts an already-decoded sample under its metadata id, replacing any
// existing entry. Used when the control context processes a buffer offline
// (stretch, pitch-shift) and registers the result for playback.
func (c *Cache) Put(s *LoadedSample) error {
	if s == nil || s.Buffer == nil || s.Metadata.ID == "" {
		return fmt.Errorf("%w: sample without id", ErrInvalidBuffer)
	}
	if err := s.Buffer.validate(); err != nil {
		return err
	}
	if s.Waveform == nil {
		s.Waveform = Summarize(s.Buffer, c.waveformPoints)
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	c.samples[s.Metadata.ID] = s
	c.publishLocked()
	return nil
}

// Get returns the cached sample for id.
func (c *Cache) Get(id string) (*LoadedSample, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	s, ok := c.samples[id]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownSample, id)
	}
	return s, nil
}

// Lookup returns the cached sample for id without taking the cache lock. It
// is the audio-context read path: a wait-free load of the published snapshot,
// whose entries are immutable.
func (c *Cache) Lookup(id string) (*LoadedSample, bool) {
	snap := c.snapshot.Load()
	s, ok := (*snap)[id]
	return s, ok
}

// Has reports whether id is cached.
func (c *Cache) Has(id string) bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	_, ok := c.samples[id]
	return ok
}

// SetSlices replaces the stored slice list for a cached sample. The entry is
// replaced with a copy rather than mutated, so a *LoadedSample previously
// handed to the audio context stays valid.
func (c *Cache) SetSlices(id string, slices []Slice) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	s, ok := c.samples[id]
	if !ok {
		return fmt.Errorf("%w: %q", ErrUnknownSample, id)
	}
	updated := *s
	updated.Slices = slices
	c.samples[id] = &updated
	c.publishLocked()
	return nil
}

// Remove evicts a sample. Removing an unknown id is a no-op.
func (c *Cache) Remove(id string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.samples, id)
	c.publishLocked()
}

// Clear evicts everything.
func (c *Cache) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.samples = make(map[string]*LoadedSample)
	c.publishLocked()
}

// Len returns the number of cached samples.
func (c *Cache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.samples)
}

// IDs returns the ids of all cached samples, in no particular order.
func (c *Cache) IDs() []string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	ids := make([]string, 0, len(c.samples))
	for id := range c.samples {
		ids = append(ids, id)
	}
	return ids
}
