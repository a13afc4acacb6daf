package mmlwave

import (
	"math"
	"testing"

	"github.com/cbegin/mmlwave-go/internal/mml"
)

func TestScheduleCumulativeDelays(t *testing.T) {
	tracks, err := mml.Parse("MML@ T120 c r d e;", "piano")
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	timed, longest, err := scheduleTracks(tracks)
	if err != nil {
		t.Fatalf("schedule: %v", err)
	}
	if len(timed) != 1 {
		t.Fatalf("expected 1 track, got %d", len(timed))
	}
	notes := timed[0]
	if len(notes) != 3 {
		t.Fatalf("expected 3 timed notes (rest excluded), got %d", len(notes))
	}
	wantDelays := []float64{0, 1.0, 1.5} // the rest still advances the cursor
	for i, w := range wantDelays {
		if math.Abs(notes[i].delay-w) > 1e-9 {
			t.Fatalf("note %d delay = %v, want %v", i, notes[i].delay, w)
		}
	}
	if math.Abs(longest-2.0) > 1e-9 {
		t.Fatalf("longest = %v, want 2.0", longest)
	}
}

func TestScheduleTracksShareBaseIndependentCursors(t *testing.T) {
	tracks, err := mml.Parse("MML@ T120 c2 d, T120 c c c;", "piano")
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	timed, longest, err := scheduleTracks(tracks)
	if err != nil {
		t.Fatalf("schedule: %v", err)
	}
	if timed[0][0].delay != 0 || timed[1][0].delay != 0 {
		t.Fatal("both tracks must start at the shared base")
	}
	if timed[0][1].delay != 1.0 {
		t.Fatalf("half note should push second note to 1.0s, got %v", timed[0][1].delay)
	}
	if timed[1][2].delay != 1.0 {
		t.Fatalf("second track third note at %v, want 1.0", timed[1][2].delay)
	}
	if math.Abs(longest-1.5) > 1e-9 {
		t.Fatalf("longest = %v, want 1.5", longest)
	}
}

func TestScheduleMonotonicDelays(t *testing.T) {
	tracks, err := mml.Parse("MML@ T180 L16 cdefgab>cdefgab;", "piano")
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	timed, _, err := scheduleTracks(tracks)
	if err != nil {
		t.Fatalf("schedule: %v", err)
	}
	prev := -1.0
	for _, tn := range timed[0] {
		if tn.delay <= prev {
			t.Fatalf("delays not strictly increasing: %v after %v", tn.delay, prev)
		}
		prev = tn.delay
	}
}

func TestScheduleRejectsBadDurations(t *testing.T) {
	bad := []mml.Track{{Events: []mml.NoteEvent{
		{Instrument: "piano", Pitch: "C4", DurationMS: 500, Volume: 0.8},
		{Instrument: "piano", Pitch: "D4", DurationMS: 0, Volume: 0.8},
	}}}
	if _, _, err := scheduleTracks(bad); err == nil {
		t.Fatal("zero duration should fail")
	} else if _, ok := err.(*RangeError); !ok {
		t.Fatalf("error %T, want *RangeError", err)
	}
	bad[0].Events[1].DurationMS = math.Inf(1)
	if _, _, err := scheduleTracks(bad); err == nil {
		t.Fatal("infinite duration should fail")
	}
}

func TestResolveVoicesFallsBackToSine(t *testing.T) {
	p, err := NewPlayer()
	if err != nil {
		t.Fatalf("new player: %v", err)
	}
	tracks, err := mml.Parse("MML@ T120 V15 a;", "missing")
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	timed, _, err := scheduleTracks(tracks)
	if err != nil {
		t.Fatalf("schedule: %v", err)
	}
	plans, err := p.resolveVoices(timed)
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if len(plans) != 1 {
		t.Fatalf("expected 1 voice, got %d", len(plans))
	}
	if plans[0].Buffer != nil {
		t.Fatal("unknown instrument must fall back to synthesis, not a buffer")
	}
	if plans[0].Freq != 440 {
		t.Fatalf("fallback frequency = %v, want 440 (A4)", plans[0].Freq)
	}
	if math.Abs(plans[0].Gain-1) > 1e-12 {
		t.Fatalf("V15 gain = %v, want 1 (0 dB)", plans[0].Gain)
	}
}
