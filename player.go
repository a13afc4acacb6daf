// Package mmlwave plays MML scores through pre-loaded instrument samples,
// falling back to a synthesized sine tone for pitches without a recording.
package mmlwave

import (
	"errors"
	"sync"
	"time"

	"github.com/cbegin/mmlwave-go/internal/audio"
	"github.com/cbegin/mmlwave-go/internal/engine"
	"github.com/cbegin/mmlwave-go/internal/mml"
	"github.com/cbegin/mmlwave-go/internal/samplebank"
)

type PlayerOption func(*playerConfig)

type playerConfig struct {
	sampleRate int
	fade       time.Duration
	lead       time.Duration
	bank       *samplebank.Bank
}

func defaultPlayerConfig() playerConfig {
	return playerConfig{
		sampleRate: 48000,
		fade:       10 * time.Millisecond,
		lead:       50 * time.Millisecond,
	}
}

// WithSampleRate sets the output sample rate (default 48000).
func WithSampleRate(rate int) PlayerOption {
	return func(cfg *playerConfig) { cfg.sampleRate = rate }
}

// WithFade sets the envelope fade window applied around every voice and
// the global stop fade (default 10ms).
func WithFade(d time.Duration) PlayerOption {
	return func(cfg *playerConfig) { cfg.fade = d }
}

// WithScheduleLead sets how far ahead of the output clock a play call
// schedules its first note (default 50ms).
func WithScheduleLead(d time.Duration) PlayerOption {
	return func(cfg *playerConfig) { cfg.lead = d }
}

// WithBank installs a shared sample bank instead of a fresh empty one.
func WithBank(bank *samplebank.Bank) PlayerOption {
	return func(cfg *playerConfig) { cfg.bank = bank }
}

// Player schedules MML playback against the audio device. A Player owns
// its engine and voice registry; independent Players are fully isolated.
type Player struct {
	mu         sync.Mutex
	sampleRate int
	fade       time.Duration
	lead       time.Duration
	volume     float64
	bank       *samplebank.Bank
	engine     *engine.Engine
	output     *audio.Output
	done       chan struct{}
}

func NewPlayer(opts ...PlayerOption) (*Player, error) {
	cfg := defaultPlayerConfig()
	for _, opt := range opts {
		opt(&cfg)
	}
	if cfg.sampleRate <= 0 {
		return nil, errors.New("mmlwave: sample rate must be positive")
	}
	if cfg.fade <= 0 {
		return nil, errors.New("mmlwave: fade must be positive")
	}
	bank := cfg.bank
	if bank == nil {
		bank = samplebank.NewBank()
	}
	return &Player{
		sampleRate: cfg.sampleRate,
		fade:       cfg.fade,
		lead:       cfg.lead,
		volume:     1,
		bank:       bank,
	}, nil
}

// Bank exposes the player's sample bank, shared across all play calls.
func (p *Player) Bank() *samplebank.Bank { return p.bank }

// PlayMML parses a score and schedules every note against the output
// clock. All staffs share the base time snapshot taken here. Format and
// range errors abort the whole call before any voice is activated;
// missing samples never do, those notes fall back to a sine tone.
func (p *Player) PlayMML(score, instrument string) error {
	tracks, err := mml.Parse(score, instrument)
	if err != nil {
		return err
	}
	timed, _, err := scheduleTracks(tracks)
	if err != nil {
		return err
	}
	plans, err := p.resolveVoices(timed)
	if err != nil {
		return err
	}

	p.mu.Lock()
	defer p.mu.Unlock()
	if err := p.ensureOutputLocked(); err != nil {
		return err
	}
	if p.done != nil {
		close(p.done)
		p.done = nil
	}
	if len(plans) == 0 {
		return nil
	}
	done := make(chan struct{})
	p.done = done
	p.engine.OnIdle(func() { p.signalDone(done) })

	base := p.engine.Now() + p.lead.Seconds()
	for _, plan := range plans {
		spec := plan
		spec.StartAt += base
		p.engine.ScheduleVoice(spec)
	}
	return nil
}

// resolveVoices converts timed notes into voice specs, resolving each
// pitch against the bank up front so format errors surface before any
// playback side effect.
func (p *Player) resolveVoices(timed [][]timedNote) ([]engine.VoiceSpec, error) {
	var plans []engine.VoiceSpec
	p.mu.Lock()
	volume := p.volume
	p.mu.Unlock()
	for _, track := range timed {
		for _, tn := range track {
			freq, err := mml.NoteToFrequency(tn.note.Pitch)
			if err != nil {
				return nil, err
			}
			spec := engine.VoiceSpec{
				StartAt:  tn.delay,
				Duration: tn.note.DurationMS / 1000,
				Gain:     engine.VolumeToGain(tn.note.Volume) * volume,
				Freq:     freq,
			}
			if buf, rate, ok := p.bank.Resolve(tn.note.Instrument, freq); ok {
				spec.Buffer = buf
				spec.Rate = rate
			}
			plans = append(plans, spec)
		}
	}
	return plans, nil
}

func (p *Player) ensureOutputLocked() error {
	if p.engine == nil {
		p.engine = engine.New(p.sampleRate, p.fade.Seconds())
	}
	if p.output == nil {
		out, err := audio.NewOutput(p.sampleRate, p.engine)
		if err != nil {
			return err
		}
		p.output = out
		p.output.Start()
	}
	return nil
}

func (p *Player) signalDone(done chan struct{}) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.done == done {
		p.done = nil
		close(done)
	}
}

// Stop fades every active voice to silence over the fade window and
// disposes it; already-finished voices are skipped. Safe to call twice.
func (p *Player) Stop() {
	p.mu.Lock()
	eng := p.engine
	p.mu.Unlock()
	if eng != nil {
		eng.StopAll()
	}
}

// Stopped reports whether no voices remain registered.
func (p *Player) Stopped() bool {
	p.mu.Lock()
	eng := p.engine
	p.mu.Unlock()
	return eng == nil || eng.Idle()
}

// Wait blocks until the most recent PlayMML finishes (naturally or via
// Stop). Returns immediately when nothing is playing.
func (p *Player) Wait() {
	p.mu.Lock()
	done := p.done
	p.mu.Unlock()
	if done != nil {
		<-done
	}
}

// SetMasterVolume sets a volume scalar applied to subsequently scheduled
// notes. 1.0 is default; values below 0 clamp to 0.
func (p *Player) SetMasterVolume(volume float64) {
	if volume < 0 {
		volume = 0
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	p.volume = volume
}

func (p *Player) MasterVolume() float64 {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.volume
}

// Close tears down the audio output. The player cannot play afterwards.
func (p *Player) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.done != nil {
		close(p.done)
		p.done = nil
	}
	if p.output == nil {
		return nil
	}
	err := p.output.Close()
	p.output = nil
	return err
}
