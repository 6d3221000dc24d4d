package osc

import "github.com/atheler/klang"

// Amp scales a signal by a control input, e.g. an envelope. Unconnected,
// the gain defaults to unity. A scalar gain holds for the whole buffer, a
// multi-sample gain scales per sample.
type Amp struct {
	klang.Base
	in   *klang.Input
	gain *klang.Input
	out  *klang.Output
}

// NewAmp returns an amplifier with unity gain.
func NewAmp() *Amp {
	a := &Amp{}
	a.in = klang.NewInput(a, nil)
	a.gain = klang.NewInput(a, klang.Buffer{1})
	a.out = klang.NewOutput(a)
	a.AppendInput(a.in)
	a.AppendInput(a.gain)
	a.AppendOutput(a.out)
	return a
}

// Gain returns the gain input port.
func (a *Amp) Gain() *klang.Input { return a.gain }

// Update produces the scaled buffer.
func (a *Amp) Update() error {
	in := a.in.Value()
	gain := a.gain.Value()
	g := 0.
	if len(gain) > 0 {
		g = gain[0]
	}
	out := make(klang.Buffer, in.Size())
	for n, v := range in {
		if n < len(gain) {
			g = gain[n]
		}
		out[n] = v * g
	}
	a.out.SetValue(out)
	return nil
}
