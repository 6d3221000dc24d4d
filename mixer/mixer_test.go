package mixer_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/atheler/klang"
	"github.com/atheler/klang/mixer"
	"github.com/atheler/klang/osc"
)

func TestNew(t *testing.T) {
	m := mixer.New()
	assert.Empty(t, m.Inputs())
	assert.Len(t, m.Outputs(), 1)

	// no channels mix to an empty buffer
	require.NoError(t, m.Update())
	out, err := klang.PrimaryOutput(m)
	require.NoError(t, err)
	assert.Equal(t, 0, out.(*klang.Output).Value().Size())
}

func TestAddChannel(t *testing.T) {
	m := mixer.New()
	assert.Equal(t, 0, m.AddChannel())
	assert.Equal(t, 1, m.AddChannel())
	assert.Len(t, m.Inputs(), 2)
	assert.NotNil(t, m.Channel(1))
}

func TestMix(t *testing.T) {
	a := osc.NewConst(klang.Buffer{1, 1})
	b := osc.NewConst(klang.Buffer{2, 2})
	c := osc.NewConst(klang.Buffer{-0.5, -0.5})

	m, err := mixer.Mix(a, b, c)
	require.NoError(t, err)
	require.NoError(t, a.Update())
	require.NoError(t, b.Update())
	require.NoError(t, c.Update())
	require.NoError(t, m.Update())

	out, err := klang.PrimaryOutput(m)
	require.NoError(t, err)
	assert.Equal(t, klang.Buffer{2.5, 2.5}, out.(*klang.Output).Value())
}

func TestUnconnectedChannels(t *testing.T) {
	m := mixer.New()
	m.AddChannel()
	require.NoError(t, m.MixIn(osc.NewConst(klang.Buffer{1, 2, 3})))

	require.NoError(t, m.Update())
	out, err := klang.PrimaryOutput(m)
	require.NoError(t, err)
	// the unconnected channel contributes silence
	assert.Equal(t, klang.Buffer{1, 2, 3}, out.(*klang.Output).Value())
}

func TestUnevenBufferSizes(t *testing.T) {
	m, err := mixer.Mix(
		osc.NewConst(klang.Buffer{1}),
		osc.NewConst(klang.Buffer{1, 1, 1}),
	)
	require.NoError(t, err)

	require.NoError(t, m.Update())
	out, err := klang.PrimaryOutput(m)
	require.NoError(t, err)
	assert.Equal(t, klang.Buffer{2, 1, 1}, out.(*klang.Output).Value())
}

type sink struct {
	klang.Base
}

func (s *sink) Update() error { return nil }

func TestMixInWithoutOutput(t *testing.T) {
	m := mixer.New()
	assert.ErrorIs(t, m.MixIn(&sink{}), klang.ErrNoOutput)
}
