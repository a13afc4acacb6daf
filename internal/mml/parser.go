package mml

import (
	"strings"
)

const (
	scorePrefix = "MML@"
	scoreSuffix = ";"

	defaultTempo  = 120
	defaultOctave = 4
	defaultVolume = 12
	defaultLength = 4

	minTempo, maxTempo   = 40, 200
	minOctave, maxOctave = 1, 7
	minVolume, maxVolume = 0, 15
	minLength, maxLength = 1, 64
)

// Parse tokenizes an MML score into one Track per staff. The score must be
// wrapped as "MML@ ... ;" (prefix match is case-insensitive; the body is
// upper-cased before tokenizing). Staffs are comma-separated and share a
// start time; blank staffs are dropped. A whitespace-only input yields an
// empty result. Unknown characters inside a staff are skipped silently.
func Parse(score, instrument string) ([]Track, error) {
	trimmed := strings.TrimSpace(score)
	if trimmed == "" {
		return nil, nil
	}
	if len(trimmed) < len(scorePrefix) || !strings.EqualFold(trimmed[:len(scorePrefix)], scorePrefix) {
		return nil, &FormatError{Input: score, Reason: `missing "MML@" prefix`}
	}
	if !strings.HasSuffix(trimmed, scoreSuffix) {
		return nil, &FormatError{Input: score, Reason: `missing ";" suffix`}
	}
	body := strings.ToUpper(trimmed[len(scorePrefix) : len(trimmed)-len(scoreSuffix)])
	tracks := make([]Track, 0, 4)
	for _, staff := range strings.Split(body, ",") {
		if strings.TrimSpace(staff) == "" {
			continue
		}
		tracks = append(tracks, parseStaff(staff, instrument))
	}
	return tracks, nil
}

type staffState struct {
	tempo  int
	octave int
	volume int
	length int
}

func parseStaff(staff, instrument string) Track {
	st := staffState{
		tempo:  defaultTempo,
		octave: defaultOctave,
		volume: defaultVolume,
		length: defaultLength,
	}
	events := make([]NoteEvent, 0, len(staff)/2)
	i := 0
	for i < len(staff) {
		ch := staff[i]
		switch {
		case ch == 'T':
			st.tempo, i = parseDirective(staff, i+1, st.tempo, minTempo, maxTempo)
		case ch == 'O':
			st.octave, i = parseDirective(staff, i+1, st.octave, minOctave, maxOctave)
		case ch == 'V':
			st.volume, i = parseDirective(staff, i+1, st.volume, minVolume, maxVolume)
		case ch == 'L':
			st.length, i = parseDirective(staff, i+1, st.length, minLength, maxLength)
		case ch == '>':
			st.octave = clampInt(st.octave+1, minOctave, maxOctave)
			i++
		case ch == '<':
			st.octave = clampInt(st.octave-1, minOctave, maxOctave)
			i++
		case ch >= 'A' && ch <= 'G':
			var pitch strings.Builder
			pitch.WriteByte(ch)
			i++
			if i < len(staff) && (staff[i] == '+' || staff[i] == '#' || staff[i] == '-') {
				pitch.WriteByte(staff[i])
				i++
			}
			var dur float64
			dur, i = parseDuration(staff, i, st)
			pitch.WriteString(itoa(st.octave))
			events = append(events, NoteEvent{
				Instrument: instrument,
				Pitch:      pitch.String(),
				DurationMS: dur,
				Volume:     float64(st.volume) / float64(maxVolume),
			})
		case ch == 'R':
			var dur float64
			dur, i = parseDuration(staff, i+1, st)
			events = append(events, NoteEvent{
				Instrument: instrument,
				Pitch:      RestPitch,
				DurationMS: dur,
			})
		default:
			// Permissive tokenizing: anything unrecognized (whitespace,
			// unsupported shorthand, stray digits) is skipped.
			i++
		}
	}
	return Track{Events: events}
}

// parseDuration reads an optional length and dot after a note or rest and
// returns the duration in milliseconds plus the next scan position.
func parseDuration(staff string, at int, st staffState) (float64, int) {
	length, i := parseNumber(staff, at)
	if length < 0 {
		length = st.length
	} else {
		length = clampInt(length, minLength, maxLength)
	}
	dur := (60000.0 / float64(st.tempo)) * (4.0 / float64(length))
	if i < len(staff) && staff[i] == '.' {
		dur *= 1.5
		i++
	}
	return dur, i
}

// parseDirective reads the numeric argument of a state directive, keeping
// the current value when no digits follow, and clamps to [lo, hi].
func parseDirective(staff string, at, current, lo, hi int) (int, int) {
	v, i := parseNumber(staff, at)
	if v < 0 {
		return clampInt(current, lo, hi), i
	}
	return clampInt(v, lo, hi), i
}

// parseNumber scans digits starting at `at`. Returns -1 when none follow.
func parseNumber(staff string, at int) (int, int) {
	v, i := 0, at
	for i < len(staff) && staff[i] >= '0' && staff[i] <= '9' {
		v = v*10 + int(staff[i]-'0')
		i++
	}
	if i == at {
		return -1, at
	}
	return v, i
}

func itoa(v int) string {
	if v < 10 {
		return string(byte('0' + v))
	}
	return string([]byte{byte('0' + v/10), byte('0' + v%10)})
}

func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
