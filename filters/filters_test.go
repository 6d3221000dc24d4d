package filters_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/atheler/klang"
	"github.com/atheler/klang/filters"
	"github.com/atheler/klang/ring"
)

func TestNew(t *testing.T) {
	t.Run("forward comb", func(t *testing.T) {
		f, err := filters.NewForwardComb(4)
		require.NoError(t, err)
		assert.Equal(t, 4, f.Length())
		assert.Equal(t, filters.DefaultAlpha, f.Alpha())
		assert.Len(t, f.Inputs(), 1)
		assert.Len(t, f.Outputs(), 1)
	})
	t.Run("invalid length", func(t *testing.T) {
		_, err := filters.NewForwardComb(0)
		assert.ErrorIs(t, err, ring.ErrLength)
		_, err = filters.NewBackwardComb(-1)
		assert.ErrorIs(t, err, ring.ErrLength)
		_, err = filters.NewEcho(ring.MaxLength + 1)
		assert.ErrorIs(t, err, ring.ErrLength)
	})
}

func TestForwardComb(t *testing.T) {
	f, err := filters.NewForwardComb(2)
	require.NoError(t, err)
	f.SetAlpha(0.5)

	// feedforward: a single impulse passes once and echoes once
	got := f.Filter(klang.Buffer{1, 0, 0, 0, 0})
	assert.Equal(t, klang.Buffer{1, 0, 0.5, 0, 0}, got)
}

func TestBackwardComb(t *testing.T) {
	f, err := filters.NewBackwardComb(2)
	require.NoError(t, err)
	f.SetAlpha(0.5)

	// feedback: the impulse keeps recirculating with decaying gain
	got := f.Filter(klang.Buffer{1, 0, 0, 0, 0, 0, 0})
	assert.Equal(t, klang.Buffer{1, 0, 0.5, 0, 0.25, 0, 0.125}, got)
}

func TestEcho(t *testing.T) {
	f, err := filters.NewEcho(2)
	require.NoError(t, err)

	// alpha 0 reduces the echo to a pure delay
	f.SetAlpha(0)
	got := f.Filter(klang.Buffer{1, 2, 3, 4})
	assert.Equal(t, klang.Buffer{0, 0, 1, 2}, got)
}

func TestEchoFeedback(t *testing.T) {
	f, err := filters.NewEcho(1)
	require.NoError(t, err)
	f.SetAlpha(0.5)

	got := f.Filter(klang.Buffer{1, 0, 0, 0})
	assert.Equal(t, klang.Buffer{0, 1, 0.5, 0.25}, got)
}

func TestUpdate(t *testing.T) {
	f, err := filters.NewBackwardComb(4)
	require.NoError(t, err)
	f.SetAlpha(0.5)

	in, err := klang.PrimaryInput(f)
	require.NoError(t, err)
	in.(*klang.Input).SetDefault(klang.Buffer{1})

	out, err := klang.PrimaryOutput(f)
	require.NoError(t, err)

	var got klang.Buffer
	for n := 0; n < 8; n++ {
		require.NoError(t, f.Update())
		got = append(got, out.(*klang.Output).Value()...)
	}
	assert.Equal(t, klang.Buffer{1, 1, 1, 1, 1.5, 1.5, 1.5, 1.5}, got)
}
