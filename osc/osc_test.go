package osc_test

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/atheler/klang"
	"github.com/atheler/klang/osc"
)

const (
	sampleRate = 44100
	bufferSize = 64
)

func TestConst(t *testing.T) {
	c := osc.NewConst(klang.Buffer{1, 2, 3})
	assert.Empty(t, c.Inputs())
	assert.Len(t, c.Outputs(), 1)

	out, err := klang.PrimaryOutput(c)
	require.NoError(t, err)
	for n := 0; n < 3; n++ {
		require.NoError(t, c.Update())
		assert.Equal(t, klang.Buffer{1, 2, 3}, out.(*klang.Output).Value())
	}

	c.Set(klang.Buffer{0})
	require.NoError(t, c.Update())
	assert.Equal(t, klang.Buffer{0}, out.(*klang.Output).Value())
}

func TestSine(t *testing.T) {
	s := osc.NewSine(440, sampleRate, bufferSize)
	out, err := klang.PrimaryOutput(s)
	require.NoError(t, err)

	require.NoError(t, s.Update())
	got := out.(*klang.Output).Value()
	require.Equal(t, bufferSize, got.Size())

	// phase starts at zero and matches sin(2*pi*f*n/sr) sample by sample
	for n, v := range got {
		want := math.Sin(2 * math.Pi * 440 * float64(n) / sampleRate)
		assert.InDelta(t, want, v, 1e-9)
	}

	// phase carries over to the next cycle
	require.NoError(t, s.Update())
	next := out.(*klang.Output).Value()
	want := math.Sin(2 * math.Pi * 440 * float64(bufferSize) / sampleRate)
	assert.InDelta(t, want, next[0], 1e-9)
}

func TestAmp(t *testing.T) {
	a := osc.NewAmp()
	src := osc.NewConst(klang.Buffer{1, 2, 3, 4})
	require.NoError(t, klang.Connect(src.Outputs()[0], a.Inputs()[0]))

	out, err := klang.PrimaryOutput(a)
	require.NoError(t, err)

	// unity gain by default
	require.NoError(t, a.Update())
	assert.Equal(t, klang.Buffer{1, 2, 3, 4}, out.(*klang.Output).Value())

	// scalar gain holds for the whole buffer
	ctl := osc.NewConst(klang.Buffer{0.5})
	require.NoError(t, klang.Connect(ctl.Outputs()[0], a.Gain()))
	require.NoError(t, a.Update())
	assert.Equal(t, klang.Buffer{0.5, 1, 1.5, 2}, out.(*klang.Output).Value())

	// per-sample gain scales per sample
	ctl.Set(klang.Buffer{1, 0, 1, 0})
	require.NoError(t, ctl.Update())
	require.NoError(t, a.Update())
	assert.Equal(t, klang.Buffer{1, 0, 3, 0}, out.(*klang.Output).Value())
}

func TestSineModulation(t *testing.T) {
	s := osc.NewSine(440, sampleRate, 4)

	// a connected frequency buffer overrides the default per sample
	mod := osc.NewConst(klang.Buffer{0, 0, 0, 0})
	require.NoError(t, klang.Connect(mod.Outputs()[0], s.Frequency()))
	require.NoError(t, s.Update())

	out, err := klang.PrimaryOutput(s)
	require.NoError(t, err)
	// zero frequency freezes the phase
	assert.Equal(t, klang.Buffer{0, 0, 0, 0}, out.(*klang.Output).Value())
}
