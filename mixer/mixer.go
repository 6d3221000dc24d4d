// Package mixer sums an arbitrary number of value signals into one.
package mixer

import "github.com/atheler/klang"

// Mixer sums the buffers of all connected channels elementwise. Channels
// are added on demand and start out empty; unconnected channels contribute
// silence. The output buffer is as long as the longest connected input.
type Mixer struct {
	klang.Base
	channels []*klang.Input
	out      *klang.Output
}

// New returns a mixer with no channels.
func New() *Mixer {
	m := &Mixer{}
	m.out = klang.NewOutput(m)
	m.AppendOutput(m.out)
	m.out.SetValue(klang.Buffer{})
	return m
}

// Mix returns a mixer with one channel per block, each connected to the
// block's primary output.
func Mix(blocks ...klang.Block) (*Mixer, error) {
	m := New()
	for _, b := range blocks {
		if err := m.MixIn(b); err != nil {
			return nil, err
		}
	}
	return m, nil
}

// AddChannel appends a fresh input channel and returns its index.
func (m *Mixer) AddChannel() int {
	in := klang.NewInput(m, nil)
	m.channels = append(m.channels, in)
	return m.AppendInput(in)
}

// Channel returns the input port of the given channel.
func (m *Mixer) Channel(n int) *klang.Input { return m.channels[n] }

// MixIn adds a channel and connects the block's primary output to it.
func (m *Mixer) MixIn(b klang.Block) error {
	out, err := klang.PrimaryOutput(b)
	if err != nil {
		return err
	}
	n := m.AddChannel()
	return klang.Connect(out, m.channels[n])
}

// Update sums all connected channels into the output buffer.
func (m *Mixer) Update() error {
	size := 0
	for _, in := range m.channels {
		if !in.Connected() {
			continue
		}
		if s := in.Value().Size(); s > size {
			size = s
		}
	}
	sum := klang.Silence(size)
	for _, in := range m.channels {
		if !in.Connected() {
			continue
		}
		for n, v := range in.Value() {
			sum[n] += v
		}
	}
	m.out.SetValue(sum)
	return nil
}
