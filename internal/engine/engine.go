// Package engine converts scheduled note activations into rendered audio.
// It is the shared core behind live playback and offline rendering: voices
// are scheduled against the engine clock with a short gain fade on both
// ends, tracked in a registry, and mixed into interleaved stereo float
// frames on demand.
package engine

import (
	"sync"

	"github.com/google/uuid"

	"github.com/cbegin/mmlwave-go/internal/samplebank"
)

const (
	// DefaultFade is the fade-in/out window applied around every voice
	// and the global stop fade.
	DefaultFade = 0.010 // seconds

	// disposePad delays voice disposal slightly past the stop fade.
	disposePad = 0.010
)

// VoiceSpec describes one voice activation. When Buffer is nil the voice
// synthesizes a sine at Freq; otherwise the buffer plays at Rate.
type VoiceSpec struct {
	StartAt  float64 // seconds on the engine clock
	Duration float64 // seconds, > 0
	Gain     float64 // linear target gain
	Buffer   *samplebank.Buffer
	Rate     float64
	Freq     float64
}

// Engine mixes scheduled voices into stereo frames. All methods are safe
// for concurrent use; Process is typically driven by the audio output (or
// called once for a whole offline render).
type Engine struct {
	mu         sync.Mutex
	sampleRate int
	fade       float64
	frame      int64
	master     *gainParam
	resetAt    float64 // when >= 0, swap in a fresh open master gain
	voices     *registry
	hadVoices  bool
	onIdle     func()
}

func New(sampleRate int, fade float64) *Engine {
	if fade <= 0 {
		fade = DefaultFade
	}
	return &Engine{
		sampleRate: sampleRate,
		fade:       fade,
		master:     newGainParam(1),
		resetAt:    -1,
		voices:     newRegistry(),
	}
}

func (e *Engine) SampleRate() int { return e.sampleRate }
func (e *Engine) Fade() float64   { return e.fade }

// Now returns the engine clock in seconds: the amount of audio rendered so
// far. It increases monotonically while the output pulls frames.
func (e *Engine) Now() float64 {
	e.mu.Lock()
	defer e.mu.Unlock()
	return float64(e.frame) / float64(e.sampleRate)
}

// OnIdle installs a callback fired (outside the engine lock) when the last
// registered voice has been disposed.
func (e *Engine) OnIdle(f func()) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.onIdle = f
}

// ScheduleVoice registers a voice and shapes its gain envelope: ramp from
// silence to the target over the fade window, hold, ramp back to silence
// ending exactly at the stop time. The fade never exceeds half the
// duration.
func (e *Engine) ScheduleVoice(spec VoiceSpec) uuid.UUID {
	e.mu.Lock()
	defer e.mu.Unlock()

	var src source
	if spec.Buffer != nil {
		src = newBufferSource(spec.Buffer, spec.Rate, e.sampleRate)
	} else {
		src = newSineSource(spec.Freq, e.sampleRate)
	}
	stop := spec.StartAt + spec.Duration
	fade := e.fade
	if half := spec.Duration / 2; fade > half {
		fade = half
	}
	gain := newGainParam(0)
	gain.setValueAt(0, spec.StartAt)
	gain.linearRampTo(spec.Gain, spec.StartAt+fade)
	gain.setValueAt(spec.Gain, stop-fade)
	gain.linearRampTo(0, stop)

	v := &voice{
		id:      uuid.New(),
		src:     src,
		gain:    gain,
		startAt: spec.StartAt,
		stopAt:  stop,
	}
	e.voices.add(v)
	e.hadVoices = true
	return v.id
}

// StopAll fades every registered voice and the master gain to silence over
// the fade window, schedules disposal shortly after, and arranges for a
// fresh fully-open master gain so later playback is unaffected. Voices
// that have not started yet are dropped immediately. Calling StopAll on an
// empty engine is a no-op.
func (e *Engine) StopAll() {
	e.mu.Lock()
	defer e.mu.Unlock()

	now := float64(e.frame) / float64(e.sampleRate)
	end := now + e.fade
	var unstarted []uuid.UUID
	e.voices.each(func(v *voice) {
		if v.startAt > now {
			unstarted = append(unstarted, v.id)
			return
		}
		v.gain.holdAt(now)
		v.gain.linearRampTo(0, end)
		v.stopAt = end + disposePad
	})
	for _, id := range unstarted {
		e.voices.remove(id)
	}
	e.master.holdAt(now)
	e.master.linearRampTo(0, end)
	e.resetAt = end
}

// Idle reports whether no voices remain registered.
func (e *Engine) Idle() bool { return e.voices.len() == 0 }

// ActiveVoices returns the number of registered voices.
func (e *Engine) ActiveVoices() int { return e.voices.len() }

// Process renders len(dst)/2 interleaved stereo frames and advances the
// engine clock. Finished voices are disposed along the way.
func (e *Engine) Process(dst []float32) {
	e.mu.Lock()
	var expired []uuid.UUID
	for i := 0; i+1 < len(dst); i += 2 {
		t := float64(e.frame) / float64(e.sampleRate)
		if e.resetAt >= 0 && t >= e.resetAt {
			e.master = newGainParam(1)
			e.resetAt = -1
		}
		var left, right float64
		e.voices.each(func(v *voice) {
			if t < v.startAt {
				return
			}
			if t >= v.stopAt || v.src.done() {
				expired = append(expired, v.id)
				return
			}
			l, r := v.src.next()
			g := v.gain.valueAt(t)
			left += l * g
			right += r * g
		})
		for _, id := range expired {
			e.voices.remove(id)
		}
		expired = expired[:0]
		m := e.master.valueAt(t)
		dst[i] = float32(left * m)
		dst[i+1] = float32(right * m)
		e.frame++
	}
	var idle func()
	if e.hadVoices && e.voices.len() == 0 {
		e.hadVoices = false
		idle = e.onIdle
	}
	e.mu.Unlock()
	if idle != nil {
		idle()
	}
}
