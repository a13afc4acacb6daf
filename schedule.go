package mmlwave

import (
	"fmt"
	"math"

	"github.com/cbegin/mmlwave-go/internal/mml"
)

// RangeError reports an out-of-range numeric input, surfaced before any
// playback side effect occurs.
type RangeError struct {
	What  string
	Value float64
}

func (e *RangeError) Error() string {
	return fmt.Sprintf("mmlwave: %s out of range: %v", e.What, e.Value)
}

// timedNote pairs a note with its start offset in seconds from the shared
// base time of a play call.
type timedNote struct {
	note  mml.NoteEvent
	delay float64
}

// scheduleTracks computes per-track start offsets. Each track restarts its
// cursor at the shared base time; rests advance the cursor but emit no
// timed note. Also returns the longest cumulative track duration in
// seconds. Fails fast on any non-positive or non-finite duration, before
// anything is scheduled.
func scheduleTracks(tracks []mml.Track) ([][]timedNote, float64, error) {
	for _, tr := range tracks {
		for _, ev := range tr.Events {
			d := ev.DurationMS
			if d <= 0 || math.IsInf(d, 0) || math.IsNaN(d) {
				return nil, 0, &RangeError{What: "note duration (ms)", Value: d}
			}
		}
	}
	timed := make([][]timedNote, len(tracks))
	longest := 0.0
	for i, tr := range tracks {
		cursor := 0.0
		notes := make([]timedNote, 0, len(tr.Events))
		for _, ev := range tr.Events {
			if !ev.Rest() {
				notes = append(notes, timedNote{note: ev, delay: cursor})
			}
			cursor += ev.DurationMS / 1000
		}
		timed[i] = notes
		if cursor > longest {
			longest = cursor
		}
	}
	return timed, longest, nil
}
