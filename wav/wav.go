// Package wav writes rendered signals to wav files.
package wav

import (
	"errors"
	"os"

	"github.com/go-audio/audio"
	"github.com/go-audio/wav"

	"github.com/atheler/klang"
	"github.com/atheler/klang/signal"
)

// ErrUnsupportedBitDepth is returned when unsupported bit depth is used.
var ErrUnsupportedBitDepth = errors.New("wav: only 16 and 32 bit depth is supported")

// wavAudioFormat is the PCM wav audio format tag.
const wavAudioFormat = 1

// Sink is a block that appends its input buffers to a wav file, one value
// input per channel. The file is created on the first update; Flush
// finalizes the encoder and closes the file after a run.
type Sink struct {
	klang.Base
	path       string
	sampleRate int
	bitDepth   signal.BitDepth
	channels   []*klang.Input
	file       *os.File
	encoder    *wav.Encoder
}

// NewSink creates a wav sink writing numChannels channels at sampleRate
// with the given bit depth.
func NewSink(path string, sampleRate, numChannels int, bitDepth signal.BitDepth) (*Sink, error) {
	if bitDepth != signal.BitDepth16 && bitDepth != signal.BitDepth32 {
		return nil, ErrUnsupportedBitDepth
	}
	s := &Sink{
		path:       path,
		sampleRate: sampleRate,
		bitDepth:   bitDepth,
	}
	for n := 0; n < numChannels; n++ {
		in := klang.NewInput(s, nil)
		s.channels = append(s.channels, in)
		s.AppendInput(in)
	}
	return s, nil
}

// Channel returns the input port of the given channel.
func (s *Sink) Channel(n int) *klang.Input { return s.channels[n] }

// Update encodes the current input buffers. Unconnected channels write
// silence sized to the longest connected channel.
func (s *Sink) Update() error {
	if s.encoder == nil {
		f, err := os.Create(s.path)
		if err != nil {
			return err
		}
		s.file = f
		s.encoder = wav.NewEncoder(f, s.sampleRate, int(s.bitDepth), len(s.channels), wavAudioFormat)
	}

	size := 0
	for _, in := range s.channels {
		if l := in.Value().Size(); l > size {
			size = l
		}
	}
	floats := signal.EmptyFloat64(len(s.channels), size)
	for n, in := range s.channels {
		copy(floats[n], in.Value())
	}

	return s.encoder.Write(&audio.IntBuffer{
		Format: &audio.Format{
			NumChannels: len(s.channels),
			SampleRate:  s.sampleRate,
		},
		SourceBitDepth: int(s.bitDepth),
		Data:           floats.AsInterInt(s.bitDepth),
	})
}

// Flush finalizes the wav header and closes the file.
func (s *Sink) Flush() error {
	if s.encoder == nil {
		return nil
	}
	if err := s.encoder.Close(); err != nil {
		return err
	}
	return s.file.Close()
}
