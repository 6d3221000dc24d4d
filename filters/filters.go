// Package filters implements the ring-buffer filter family: feed forward
// and feed backward comb filters and a feedback echo. The three differ only
// in the feedback wiring of the shared delay line; swapping forward and
// backward wiring changes stability and audible character.
//
// See https://en.wikipedia.org/wiki/Comb_filter.
package filters

import (
	"github.com/atheler/klang"
	"github.com/atheler/klang/ring"
)

// DefaultAlpha is the default gain for ring buffer filters.
const DefaultAlpha = 0.9

// base carries the shared delay line, gain and block plumbing. Each filter
// block has one value input and one value output of equal buffer length.
type base struct {
	klang.Base
	line  *ring.Buffer
	alpha float64
}

func (f *base) init(owner klang.Block, length int) error {
	line, err := ring.New(length)
	if err != nil {
		return err
	}
	f.line = line
	f.alpha = DefaultAlpha
	f.InitPorts(owner, 1, 1)
	return nil
}

// Alpha returns the current feedback gain.
func (f *base) Alpha() float64 { return f.alpha }

// SetAlpha sets the feedback gain. Values in [-1, 1] are conventional; no
// hard clamp is enforced.
func (f *base) SetAlpha(alpha float64) { f.alpha = alpha }

// Length returns the immutable delay line length in samples.
func (f *base) Length() int { return f.line.Len() }

func (f *base) inputValue() klang.Buffer {
	if in, ok := f.Input().(*klang.Input); ok {
		return in.Value()
	}
	return nil
}

func (f *base) setOutput(b klang.Buffer) {
	if out, ok := f.Output().(*klang.Output); ok {
		out.SetValue(b)
	}
}

// ForwardComb is a feed forward comb filter. The dry input feeds the delay
// line; the gain applies only to the read path:
//
//	y[i] = x[i] + alpha*peek(); append(x[i])
type ForwardComb struct {
	base
}

// NewForwardComb returns a forward comb filter with the given delay length.
func NewForwardComb(length int) (*ForwardComb, error) {
	f := &ForwardComb{}
	if err := f.init(f, length); err != nil {
		return nil, err
	}
	return f, nil
}

// Filter processes input samples, preserving delay line state across calls.
func (f *ForwardComb) Filter(x klang.Buffer) klang.Buffer {
	y := make(klang.Buffer, len(x))
	for i, sample := range x {
		y[i] = sample + f.alpha*f.line.Peek()
		f.line.Append(sample)
	}
	return y
}

// Update filters the input buffer into the output buffer.
func (f *ForwardComb) Update() error {
	f.setOutput(f.Filter(f.inputValue()))
	return nil
}

// BackwardComb is a feed backward comb filter. The filtered output feeds
// back into the delay line (true recursive feedback):
//
//	y[i] = x[i] + alpha*peek(); append(y[i])
type BackwardComb struct {
	base
}

// NewBackwardComb returns a backward comb filter with the given delay length.
func NewBackwardComb(length int) (*BackwardComb, error) {
	f := &BackwardComb{}
	if err := f.init(f, length); err != nil {
		return nil, err
	}
	return f, nil
}

// Filter processes input samples, preserving delay line state across calls.
func (f *BackwardComb) Filter(x klang.Buffer) klang.Buffer {
	y := make(klang.Buffer, len(x))
	for i, sample := range x {
		y[i] = sample + f.alpha*f.line.Peek()
		f.line.Append(y[i])
	}
	return y
}

// Update filters the input buffer into the output buffer.
func (f *BackwardComb) Update() error {
	f.setOutput(f.Filter(f.inputValue()))
	return nil
}

// Echo is a feedback delay with wet-only output. The delay line mixes new
// input with attenuated previous output:
//
//	y[i] = peek(); append(alpha*y[i] + x[i])
type Echo struct {
	base
}

// NewEcho returns an echo filter with the given delay length.
func NewEcho(length int) (*Echo, error) {
	f := &Echo{}
	if err := f.init(f, length); err != nil {
		return nil, err
	}
	return f, nil
}

// Filter processes input samples, preserving delay line state across calls.
func (f *Echo) Filter(x klang.Buffer) klang.Buffer {
	y := make(klang.Buffer, len(x))
	for i, sample := range x {
		y[i] = f.line.Peek()
		f.line.Append(f.alpha*y[i] + sample)
	}
	return y
}

// Update filters the input buffer into the output buffer.
func (f *Echo) Update() error {
	f.setOutput(f.Filter(f.inputValue()))
	return nil
}
