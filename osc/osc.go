// Package osc provides signal generator and amplitude shaping blocks.
package osc

import (
	"math"

	"github.com/atheler/klang"
)

// Sine is a sine oscillator. Its frequency is a value input so it can be
// modulated; unconnected it reads the scalar default given at construction.
// The phase accumulator carries over between cycles.
type Sine struct {
	klang.Base
	frequency *klang.Input
	out       *klang.Output
	dt        float64
	phase     float64
	buffer    klang.Buffer
}

// NewSine returns a sine oscillator producing bufferSize samples per cycle
// at sampleRate, with the given initial frequency in Hz.
func NewSine(frequency float64, sampleRate, bufferSize int) *Sine {
	s := &Sine{
		dt:     1 / float64(sampleRate),
		buffer: klang.Silence(bufferSize),
	}
	s.frequency = klang.NewInput(s, klang.Buffer{frequency})
	s.out = klang.NewOutput(s)
	s.AppendInput(s.frequency)
	s.AppendOutput(s.out)
	s.out.SetValue(klang.Silence(bufferSize))
	return s
}

// Frequency returns the frequency input port.
func (s *Sine) Frequency() *klang.Input { return s.frequency }

// Update produces the next buffer of sine samples. A multi-sample
// frequency buffer modulates per sample; a scalar holds for the cycle.
func (s *Sine) Update() error {
	freq := s.frequency.Value()
	f := 0.
	if len(freq) > 0 {
		f = freq[0]
	}
	for n := range s.buffer {
		if n < len(freq) {
			f = freq[n]
		}
		s.buffer[n] = math.Sin(2 * math.Pi * s.phase)
		s.phase += f * s.dt
		if s.phase >= 1 {
			s.phase -= math.Floor(s.phase)
		}
	}
	s.out.SetValue(s.buffer)
	return nil
}

// Const emits the same buffer every cycle.
type Const struct {
	klang.Base
	out   *klang.Output
	value klang.Buffer
}

// NewConst returns a generator that repeats the given buffer.
func NewConst(value klang.Buffer) *Const {
	c := &Const{value: value}
	c.out = klang.NewOutput(c)
	c.AppendOutput(c.out)
	c.out.SetValue(value)
	return c
}

// Set replaces the emitted buffer.
func (c *Const) Set(value klang.Buffer) { c.value = value }

// Update re-emits the configured buffer.
func (c *Const) Update() error {
	c.out.SetValue(c.value)
	return nil
}
