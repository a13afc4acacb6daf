package wav

import (
	"bytes"
	"encoding/binary"
	"testing"
)

func TestEncodeHeaderLayout(t *testing.T) {
	data := EncodeInt16LE(make([]float32, 4), 48000, 2)
	if len(data) != 44+8 {
		t.Fatalf("encoded length = %d, want 52", len(data))
	}
	if !bytes.Equal(data[0:4], []byte("RIFF")) {
		t.Fatalf("missing RIFF marker: %q", data[0:4])
	}
	if got := binary.LittleEndian.Uint32(data[4:]); got != 36+8 {
		t.Fatalf("chunk size = %d, want 44", got)
	}
	if !bytes.Equal(data[8:12], []byte("WAVE")) || !bytes.Equal(data[12:16], []byte("fmt ")) {
		t.Fatal("missing WAVE/fmt markers")
	}
	if got := binary.LittleEndian.Uint32(data[16:]); got != 16 {
		t.Fatalf("fmt chunk size = %d, want 16", got)
	}
	if got := binary.LittleEndian.Uint16(data[20:]); got != 1 {
		t.Fatalf("format tag = %d, want 1 (PCM)", got)
	}
	if got := binary.LittleEndian.Uint32(data[28:]); got != 48000*2*2 {
		t.Fatalf("byte rate = %d, want 192000", got)
	}
	if got := binary.LittleEndian.Uint16(data[32:]); got != 4 {
		t.Fatalf("block align = %d, want 4", got)
	}
	if !bytes.Equal(data[36:40], []byte("data")) {
		t.Fatal("missing data marker")
	}
	if got := binary.LittleEndian.Uint32(data[40:]); got != 8 {
		t.Fatalf("data size = %d, want 8", got)
	}
}

func TestEncodeParseRoundTrip(t *testing.T) {
	data := EncodeInt16LE(make([]float32, 441), 44100, 1)
	h, err := ParseHeader(data)
	if err != nil {
		t.Fatalf("parse header: %v", err)
	}
	if h.SampleRate != 44100 || h.Channels != 1 || h.BitDepth != 16 {
		t.Fatalf("header = %+v, want 44100Hz mono 16-bit", h)
	}
	if h.ByteRate != 44100*2 || h.BlockAlign != 2 || h.DataSize != 441*2 {
		t.Fatalf("derived fields wrong: %+v", h)
	}
}

func TestEncodeClampsAndQuantizes(t *testing.T) {
	data := EncodeInt16LE([]float32{0, 1, -1, 2, -2, 0.5}, 48000, 2)
	want := []int16{0, 32767, -32767, 32767, -32767, 16383}
	for i, w := range want {
		got := int16(binary.LittleEndian.Uint16(data[44+i*2:]))
		if got != w {
			t.Fatalf("sample %d = %d, want %d", i, got, w)
		}
	}
}

func TestParseHeaderRejectsGarbage(t *testing.T) {
	if _, err := ParseHeader([]byte("short")); err == nil {
		t.Fatal("short input should fail")
	}
	junk := make([]byte, 44)
	if _, err := ParseHeader(junk); err == nil {
		t.Fatal("missing markers should fail")
	}
}
