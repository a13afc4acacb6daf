package mmlwave

import (
	"encoding/binary"
	"math"
	"testing"

	"github.com/cbegin/mmlwave-go/internal/samplebank"
	"github.com/cbegin/mmlwave-go/internal/wav"
)

func TestRenderEmptyScoreIsMinimalSilence(t *testing.T) {
	for _, score := range []string{"", "MML@;", "MML@ r r r;"} {
		data, err := RenderMML(score, "piano", nil, 44100, 2)
		if err != nil {
			t.Fatalf("RenderMML(%q): %v", score, err)
		}
		h, err := wav.ParseHeader(data)
		if err != nil {
			t.Fatalf("header of %q render: %v", score, err)
		}
		if h.DataSize == 0 {
			t.Fatalf("render of %q has no data; want a minimal silent buffer", score)
		}
		for i := 44; i+1 < len(data); i += 2 {
			if s := int16(binary.LittleEndian.Uint16(data[i:])); s != 0 {
				t.Fatalf("render of %q has non-zero sample %d at byte %d", score, s, i)
			}
		}
	}
}

func TestRenderHeaderRoundTrip(t *testing.T) {
	data, err := RenderMML("MML@ T120 c;", "piano", nil, 22050, 1)
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	h, err := wav.ParseHeader(data)
	if err != nil {
		t.Fatalf("parse header: %v", err)
	}
	if h.SampleRate != 22050 || h.Channels != 1 || h.BitDepth != 16 {
		t.Fatalf("header = %+v, want 22050Hz mono 16-bit", h)
	}
	if h.DataSize != len(data)-44 {
		t.Fatalf("data size %d does not match payload %d", h.DataSize, len(data)-44)
	}
}

func TestRenderSineFallbackIsAudible(t *testing.T) {
	data, err := RenderMML("MML@ T120 V15 a;", "nosamples", nil, 8000, 2)
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	var peak int16
	for i := 44; i+1 < len(data); i += 2 {
		s := int16(binary.LittleEndian.Uint16(data[i:]))
		if s < 0 {
			s = -s
		}
		if s > peak {
			peak = s
		}
	}
	if peak < 16000 {
		t.Fatalf("peak %d too quiet for a full-volume sine", peak)
	}
}

func TestRenderUsesStoredSample(t *testing.T) {
	// A constant DC buffer is easy to spot in the output: a sine would
	// cross zero constantly, DC playback holds its level mid-note.
	frames := 8000
	dc := make([]float64, frames)
	for i := range dc {
		dc[i] = 0.5
	}
	bank := samplebank.NewBank()
	bank.Store("organ", 440, &samplebank.Buffer{SampleRate: 8000, Channels: 1, Data: [][]float64{dc}})

	data, err := RenderMML("MML@ T120 V15 a;", "organ", bank, 8000, 1)
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	// Mid-note: 0.25s in = frame 2000, byte offset 44 + 2000*2.
	s := int16(binary.LittleEndian.Uint16(data[44+2000*2:]))
	if s < 15000 || s > 17500 {
		t.Fatalf("mid-note sample = %d, want ~16383 (0.5 DC at unity gain)", s)
	}
}

func TestRenderParameterValidation(t *testing.T) {
	if _, err := RenderMML("MML@ c;", "piano", nil, 0, 2); err == nil {
		t.Fatal("zero sample rate should fail")
	}
	if _, err := RenderMML("MML@ c;", "piano", nil, 44100, 3); err == nil {
		t.Fatal("3 channels should fail")
	}
	if _, err := RenderMML("MML@ c;", "piano", nil, 44100, 0); err == nil {
		t.Fatal("0 channels should fail")
	} else if _, ok := err.(*RangeError); !ok {
		t.Fatalf("error %T, want *RangeError", err)
	}
	if _, err := RenderMML("no delimiters", "piano", nil, 44100, 2); err == nil {
		t.Fatal("malformed score should fail")
	}
}

func TestRenderTwoStaffsLongerThanEither(t *testing.T) {
	data, err := RenderMML("MML@ T120 c d, T120 c1;", "piano", nil, 8000, 2)
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	// The whole-note staff dominates: 2s + tail pad at 8000Hz stereo.
	wantFrames := int(math.Ceil((2.0 + 0.1) * 8000))
	gotFrames := (len(data) - 44) / 4
	if gotFrames != wantFrames {
		t.Fatalf("rendered %d frames, want %d", gotFrames, wantFrames)
	}
}
