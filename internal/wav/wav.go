// Package wav encodes rendered float samples into the canonical 16-bit
// PCM WAV container: a fixed 44-byte header followed by interleaved
// little-endian samples.
package wav

import (
	"encoding/binary"
	"fmt"
)

const headerSize = 44

// EncodeInt16LE encodes interleaved float samples into a complete WAV
// file. Each sample is clamped to [-1, 1] before quantization.
func EncodeInt16LE(samples []float32, sampleRate, channels int) []byte {
	dataSize := len(samples) * 2
	byteRate := sampleRate * channels * 2
	blockAlign := channels * 2
	out := make([]byte, headerSize+dataSize)
	copy(out[0:], []byte("RIFF"))
	binary.LittleEndian.PutUint32(out[4:], uint32(36+dataSize))
	copy(out[8:], []byte("WAVE"))
	copy(out[12:], []byte("fmt "))
	binary.LittleEndian.PutUint32(out[16:], 16)
	binary.LittleEndian.PutUint16(out[20:], 1)
	binary.LittleEndian.PutUint16(out[22:], uint16(channels))
	binary.LittleEndian.PutUint32(out[24:], uint32(sampleRate))
	binary.LittleEndian.PutUint32(out[28:], uint32(byteRate))
	binary.LittleEndian.PutUint16(out[32:], uint16(blockAlign))
	binary.LittleEndian.PutUint16(out[34:], 16)
	copy(out[36:], []byte("data"))
	binary.LittleEndian.PutUint32(out[40:], uint32(dataSize))
	for i, s := range samples {
		binary.LittleEndian.PutUint16(out[headerSize+i*2:], uint16(quantize(s)))
	}
	return out
}

func quantize(s float32) int16 {
	if s > 1 {
		s = 1
	}
	if s < -1 {
		s = -1
	}
	v := int32(s * 32767)
	return int16(v)
}

// Header holds the fields of a parsed WAV header.
type Header struct {
	Channels   int
	SampleRate int
	ByteRate   int
	BlockAlign int
	BitDepth   int
	DataSize   int
}

// ParseHeader reads back the 44-byte header written by EncodeInt16LE.
func ParseHeader(data []byte) (Header, error) {
	if len(data) < headerSize {
		return Header{}, fmt.Errorf("wav: %d bytes is too short for a header", len(data))
	}
	if string(data[0:4]) != "RIFF" || string(data[8:12]) != "WAVE" || string(data[12:16]) != "fmt " {
		return Header{}, fmt.Errorf("wav: missing RIFF/WAVE/fmt markers")
	}
	if tag := binary.LittleEndian.Uint16(data[20:]); tag != 1 {
		return Header{}, fmt.Errorf("wav: format tag %d, expected PCM (1)", tag)
	}
	return Header{
		Channels:   int(binary.LittleEndian.Uint16(data[22:])),
		SampleRate: int(binary.LittleEndian.Uint32(data[24:])),
		ByteRate:   int(binary.LittleEndian.Uint32(data[28:])),
		BlockAlign: int(binary.LittleEndian.Uint16(data[32:])),
		BitDepth:   int(binary.LittleEndian.Uint16(data[34:])),
		DataSize:   int(binary.LittleEndian.Uint32(data[40:])),
	}, nil
}
