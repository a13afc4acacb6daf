package mml

import "fmt"

// RestPitch is the sentinel pitch for rest events. Rests never produce a
// voice; their duration only advances the track's timing cursor.
const RestPitch = "REST"

// NoteEvent is one parsed note or rest. Immutable once produced.
type NoteEvent struct {
	Instrument string
	Pitch      string  // e.g. "C+4", or RestPitch
	DurationMS float64 // always > 0
	Volume     float64 // normalized 0..1
}

// Rest reports whether the event is a rest.
func (e NoteEvent) Rest() bool { return e.Pitch == RestPitch }

// Track is the ordered event sequence of one staff. Sibling tracks from
// the same score share a start time but advance independently.
type Track struct {
	Events []NoteEvent
}

// FormatError reports a malformed score or pitch string.
type FormatError struct {
	Input  string
	Reason string
}

func (e *FormatError) Error() string {
	return fmt.Sprintf("mml: invalid input %q: %s", e.Input, e.Reason)
}
