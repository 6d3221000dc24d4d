package envelope

import "github.com/atheler/klang"

// ADSR wraps an Envelope as a block. It drains its gate input once per
// cycle and emits one buffer of envelope samples. Gate messages may be
// plain bools or klang.Note values, whose On state gates the envelope.
type ADSR struct {
	klang.Base
	env        *Envelope
	gate       *klang.MessageInput
	out        *klang.Output
	bufferSize int
}

// NewADSR returns an ADSR block with the given stage parameters,
// producing bufferSize envelope samples per cycle at sampleRate.
func NewADSR(attack, decay, sustain, release float64, sampleRate, bufferSize int, options ...Option) (*ADSR, error) {
	env, err := New(attack, decay, sustain, release, 1/float64(sampleRate), options...)
	if err != nil {
		return nil, err
	}
	a := &ADSR{
		env:        env,
		bufferSize: bufferSize,
	}
	a.gate = klang.NewMessageInput(a)
	a.out = klang.NewOutput(a)
	a.AppendInput(a.gate)
	a.AppendOutput(a.out)
	a.out.SetValue(klang.Silence(bufferSize))
	return a, nil
}

// Envelope returns the wrapped state machine for parameter changes.
func (a *ADSR) Envelope() *Envelope { return a.env }

// Gate returns the gate message input.
func (a *ADSR) Gate() *klang.MessageInput { return a.gate }

// Update applies pending gate messages and produces the next buffer.
func (a *ADSR) Update() error {
	for _, m := range a.gate.Receive() {
		switch v := m.(type) {
		case bool:
			a.env.Gate(v)
		case klang.Note:
			a.env.Gate(v.On())
		}
	}
	a.out.SetValue(a.env.Sample(a.bufferSize))
	return nil
}
