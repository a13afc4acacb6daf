package samplebank

import (
	"fmt"
	"io"
	"os"

	"github.com/gopxl/beep/wav"
)

// LoadError reports a sample that could not be read or decoded. Playback
// treats it as a fallback trigger, never a fatal condition.
type LoadError struct {
	Path string
	Err  error
}

func (e *LoadError) Error() string {
	return fmt.Sprintf("samplebank: load %q: %v", e.Path, e.Err)
}

func (e *LoadError) Unwrap() error { return e.Err }

// LoadWAVFile decodes a WAV file into a Buffer.
func LoadWAVFile(path string) (*Buffer, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, &LoadError{Path: path, Err: err}
	}
	defer f.Close()
	buf, err := DecodeWAV(f)
	if err != nil {
		return nil, &LoadError{Path: path, Err: err}
	}
	return buf, nil
}

// DecodeWAV decodes WAV data from r into per-channel float samples.
func DecodeWAV(r io.ReadCloser) (*Buffer, error) {
	streamer, format, err := wav.Decode(r)
	if err != nil {
		return nil, err
	}
	channels := format.NumChannels
	if channels > 2 {
		channels = 2
	}
	if channels < 1 {
		channels = 1
	}
	data := make([][]float64, channels)
	frame := make([][2]float64, 512)
	for {
		n, ok := streamer.Stream(frame)
		for i := 0; i < n; i++ {
			data[0] = append(data[0], frame[i][0])
			if channels == 2 {
				data[1] = append(data[1], frame[i][1])
			}
		}
		if !ok {
			break
		}
	}
	if err := streamer.Err(); err != nil {
		return nil, err
	}
	return &Buffer{
		SampleRate: int(format.SampleRate),
		Channels:   channels,
		Data:       data,
	}, nil
}
