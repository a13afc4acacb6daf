package engine

import (
	"math"

	"github.com/google/uuid"

	"github.com/cbegin/mmlwave-go/internal/samplebank"
)

// source produces one stereo frame per call. Buffer sources run out of
// material eventually; a sine source only ends at its scheduled stop.
type source interface {
	next() (left, right float64)
	done() bool
}

// bufferSource plays a decoded sample at an adjustable rate. The rate both
// pitch-shifts and resamples: step combines the playback-rate multiplier
// with the buffer-to-engine sample rate ratio.
type bufferSource struct {
	buf  *samplebank.Buffer
	step float64
	pos  float64
}

func newBufferSource(buf *samplebank.Buffer, rate float64, engineRate int) *bufferSource {
	step := rate
	if buf.SampleRate > 0 && engineRate > 0 {
		step = rate * float64(buf.SampleRate) / float64(engineRate)
	}
	return &bufferSource{buf: buf, step: step}
}

func (s *bufferSource) next() (float64, float64) {
	frames := s.buf.Frames()
	idx := int(s.pos)
	if idx >= frames {
		return 0, 0
	}
	frac := s.pos - float64(idx)
	left := interpolate(s.buf.Data[0], idx, frac)
	right := left
	if s.buf.Channels > 1 {
		right = interpolate(s.buf.Data[1], idx, frac)
	}
	s.pos += s.step
	return left, right
}

func (s *bufferSource) done() bool {
	return int(s.pos) >= s.buf.Frames()
}

func interpolate(data []float64, idx int, frac float64) float64 {
	if idx+1 >= len(data) {
		return data[idx]
	}
	return data[idx] + (data[idx+1]-data[idx])*frac
}

// sineSource is the synthesized fallback tone.
type sineSource struct {
	phase float64
	inc   float64
}

func newSineSource(freq float64, engineRate int) *sineSource {
	return &sineSource{inc: 2 * math.Pi * freq / float64(engineRate)}
}

func (s *sineSource) next() (float64, float64) {
	v := math.Sin(s.phase)
	s.phase += s.inc
	if s.phase > 2*math.Pi {
		s.phase -= 2 * math.Pi
	}
	return v, v
}

func (s *sineSource) done() bool { return false }

// voice is one scheduled playback unit: a source plus its gain envelope.
// Voices live in the registry from scheduling until disposal.
type voice struct {
	id      uuid.UUID
	src     source
	gain    *gainParam
	startAt float64
	stopAt  float64
}
