// Package samplebank stores decoded instrument samples keyed by frequency
// and resolves the nearest recording for a requested pitch.
package samplebank

import (
	"math"
	"strings"
	"sync"
)

// Buffer is one decoded audio recording. Buffers are shared read-only with
// playback code and never mutated after insertion into a Bank.
type Buffer struct {
	SampleRate int
	Channels   int
	Data       [][]float64 // one slice per channel, equal lengths
}

// Frames returns the per-channel sample count.
func (b *Buffer) Frames() int {
	if len(b.Data) == 0 {
		return 0
	}
	return len(b.Data[0])
}

// Duration returns the buffer length in seconds at its native rate.
func (b *Buffer) Duration() float64 {
	if b.SampleRate <= 0 {
		return 0
	}
	return float64(b.Frames()) / float64(b.SampleRate)
}

type instrumentSlot struct {
	byFreq map[float64]*Buffer
	order  []float64 // insertion order; ties in Resolve go to the earliest
}

// Bank is the two-level sample store: instrument name to frequency to
// buffer. Safe for concurrent use; playback may read while a reload
// replaces slots.
type Bank struct {
	mu    sync.RWMutex
	slots map[string]*instrumentSlot
}

func NewBank() *Bank {
	return &Bank{slots: make(map[string]*instrumentSlot)}
}

// Store inserts or replaces the buffer for (instrument, frequency). The
// instrument name is lower-cased and trimmed, the frequency rounded to two
// decimals. Last write wins on reload.
func (b *Bank) Store(instrument string, freq float64, buf *Buffer) {
	name := canonicalName(instrument)
	key := roundFreq(freq)
	b.mu.Lock()
	defer b.mu.Unlock()
	slot, ok := b.slots[name]
	if !ok {
		slot = &instrumentSlot{byFreq: make(map[float64]*Buffer)}
		b.slots[name] = slot
	}
	if _, exists := slot.byFreq[key]; !exists {
		slot.order = append(slot.order, key)
	}
	slot.byFreq[key] = buf
}

// Resolve picks the stored buffer whose frequency is closest to target and
// the playback-rate multiplier that pitch-shifts it there. An exact hit
// returns rate 1.0. ok is false when the instrument has no entries or the
// computed rate would not be a positive finite number; the caller is
// expected to fall back to synthesis.
func (b *Bank) Resolve(instrument string, target float64) (buf *Buffer, rate float64, ok bool) {
	key := roundFreq(target)
	b.mu.RLock()
	defer b.mu.RUnlock()
	slot, found := b.slots[canonicalName(instrument)]
	if !found || len(slot.order) == 0 {
		return nil, 0, false
	}
	if exact, hit := slot.byFreq[key]; hit {
		return exact, 1.0, true
	}
	nearest := slot.order[0]
	for _, f := range slot.order[1:] {
		if math.Abs(f-target) < math.Abs(nearest-target) {
			nearest = f
		}
	}
	rate = target / nearest
	if math.IsNaN(rate) || math.IsInf(rate, 0) || rate <= 0 {
		return nil, 0, false
	}
	return slot.byFreq[nearest], rate, true
}

// Count returns the number of buffers stored for an instrument.
func (b *Bank) Count(instrument string) int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	slot, ok := b.slots[canonicalName(instrument)]
	if !ok {
		return 0
	}
	return len(slot.order)
}

func canonicalName(instrument string) string {
	return strings.ToLower(strings.TrimSpace(instrument))
}

func roundFreq(f float64) float64 {
	return math.Round(f*100) / 100
}
