package mml

import (
	"math"
	"strconv"
)

// Semitone offsets from C within one octave.
var pitchOffsets = map[byte]int{
	'a': 9, 'b': 11, 'c': 0, 'd': 2, 'e': 4, 'f': 5, 'g': 7,
}

const (
	concertPitch  = 440.0 // A4
	concertOffset = 9     // semitones from C4 to A4
	refOctave     = 4
)

// NoteToFrequency converts a note string like "A4", "C#3" or "Eb5" to its
// 12-tone equal temperament frequency in Hz, rounded to 2 decimal places.
// Accidentals accept '#'/'+' for sharp and 'b'/'-' for flat.
func NoteToFrequency(note string) (float64, error) {
	if len(note) < 2 {
		return 0, &FormatError{Input: note, Reason: "expected letter, optional accidental and octave"}
	}
	offset, ok := pitchOffsets[lower(note[0])]
	if !ok {
		return 0, &FormatError{Input: note, Reason: "note letter must be A-G"}
	}
	i := 1
	switch note[i] {
	case '#', '+':
		offset++
		i++
	case 'b', '-':
		// A leading '-' on the octave digits means a flat here, never a
		// negative octave; "C-1" is C flat in octave 1.
		offset--
		i++
	}
	octave, err := strconv.Atoi(note[i:])
	if err != nil {
		return 0, &FormatError{Input: note, Reason: "octave must be an integer"}
	}
	semitones := (octave-refOctave)*12 + offset - concertOffset
	freq := concertPitch * math.Pow(2, float64(semitones)/12)
	return math.Round(freq*100) / 100, nil
}

func lower(b byte) byte {
	if b >= 'A' && b <= 'Z' {
		return b + 32
	}
	return b
}
