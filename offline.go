package mmlwave

import (
	"math"

	"github.com/cbegin/mmlwave-go/internal/engine"
	"github.com/cbegin/mmlwave-go/internal/mml"
	"github.com/cbegin/mmlwave-go/internal/samplebank"
	"github.com/cbegin/mmlwave-go/internal/wav"
)

// renderTailPad is the silence appended after the last event so release
// fades are never cut off. An empty score still renders this much.
const renderTailPad = 0.1 // seconds

// RenderMML renders a score to a complete 16-bit PCM WAV file in memory.
// It replays the same scheduling and sample-or-sine fallback as live
// playback against an offline engine sized to the longest staff. bank may
// be nil to force synthesis throughout. channels must be 1 or 2.
func RenderMML(score, instrument string, bank *samplebank.Bank, sampleRate, channels int) ([]byte, error) {
	tracks, err := mml.Parse(score, instrument)
	if err != nil {
		return nil, err
	}
	return RenderTracks(tracks, bank, sampleRate, channels)
}

// RenderTracks renders already-parsed tracks. See RenderMML.
func RenderTracks(tracks []mml.Track, bank *samplebank.Bank, sampleRate, channels int) ([]byte, error) {
	if sampleRate <= 0 {
		return nil, &RangeError{What: "sample rate", Value: float64(sampleRate)}
	}
	if channels != 1 && channels != 2 {
		return nil, &RangeError{What: "channel count", Value: float64(channels)}
	}
	timed, longest, err := scheduleTracks(tracks)
	if err != nil {
		return nil, err
	}

	eng := engine.New(sampleRate, engine.DefaultFade)
	for _, track := range timed {
		for _, tn := range track {
			freq, err := mml.NoteToFrequency(tn.note.Pitch)
			if err != nil {
				return nil, err
			}
			spec := engine.VoiceSpec{
				StartAt:  tn.delay,
				Duration: tn.note.DurationMS / 1000,
				Gain:     engine.VolumeToGain(tn.note.Volume),
				Freq:     freq,
			}
			if bank != nil {
				if buf, rate, ok := bank.Resolve(tn.note.Instrument, freq); ok {
					spec.Buffer = buf
					spec.Rate = rate
				}
			}
			eng.ScheduleVoice(spec)
		}
	}

	frames := int(math.Ceil((longest + renderTailPad) * float64(sampleRate)))
	stereo := make([]float32, frames*2)
	eng.Process(stereo)

	samples := stereo
	if channels == 1 {
		samples = downmixMono(stereo)
	}
	return wav.EncodeInt16LE(samples, sampleRate, channels), nil
}

func downmixMono(stereo []float32) []float32 {
	mono := make([]float32, len(stereo)/2)
	for i := range mono {
		mono[i] = (stereo[i*2] + stereo[i*2+1]) / 2
	}
	return mono
}
