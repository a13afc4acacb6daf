package mmlwave

import (
	"github.com/cbegin/mmlwave-go/internal/mml"
	"github.com/cbegin/mmlwave-go/internal/samplebank"
)

// SampleRef names one recording to load: the instrument it belongs to,
// the note it was recorded at, and the WAV file holding it.
type SampleRef struct {
	Instrument string
	Note       string // e.g. "A4" or "C#3"
	Path       string
}

// LoadSample decodes one WAV file and stores it in the bank under the
// note's frequency. Returns a FormatError for a bad note name or a
// LoadError when the file cannot be read or decoded.
func (p *Player) LoadSample(ref SampleRef) error {
	freq, err := mml.NoteToFrequency(ref.Note)
	if err != nil {
		return err
	}
	buf, err := samplebank.LoadWAVFile(ref.Path)
	if err != nil {
		return err
	}
	p.bank.Store(ref.Instrument, freq, buf)
	return nil
}

// LoadSamples loads a batch, isolating failures per item: the result slice
// holds one success flag per ref, in order. A failed item leaves its slot
// empty so playback falls back to synthesis for that pitch.
func (p *Player) LoadSamples(refs []SampleRef) []bool {
	results := make([]bool, len(refs))
	for i, ref := range refs {
		results[i] = p.LoadSample(ref) == nil
	}
	return results
}
