package ring_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/atheler/klang/ring"
)

func TestNew(t *testing.T) {
	t.Run("valid", func(t *testing.T) {
		b, err := ring.New(4)
		require.NoError(t, err)
		assert.Equal(t, 4, b.Len())
	})
	t.Run("zero length", func(t *testing.T) {
		_, err := ring.New(0)
		assert.ErrorIs(t, err, ring.ErrLength)
	})
	t.Run("negative length", func(t *testing.T) {
		_, err := ring.New(-1)
		assert.ErrorIs(t, err, ring.ErrLength)
	})
	t.Run("above ceiling", func(t *testing.T) {
		_, err := ring.New(ring.MaxLength + 1)
		assert.ErrorIs(t, err, ring.ErrLength)
	})
	t.Run("at ceiling", func(t *testing.T) {
		_, err := ring.New(ring.MaxLength)
		assert.NoError(t, err)
	})
}

func TestRoundTrip(t *testing.T) {
	b, err := ring.New(3)
	require.NoError(t, err)

	// fresh buffer yields silence
	assert.Equal(t, 0., b.Peek())

	b.Append(1)
	b.Append(2)
	b.Append(3)

	// values reappear after exactly Len appends
	for _, want := range []float64{1, 2, 3} {
		assert.Equal(t, want, b.Peek())
		b.Append(0)
	}
	assert.Equal(t, 0., b.Peek())
}

func TestWraparound(t *testing.T) {
	b, err := ring.New(2)
	require.NoError(t, err)

	for i := 0; i < 10; i++ {
		got := b.Peek()
		b.Append(float64(i))
		if i < 2 {
			assert.Equal(t, 0., got)
			continue
		}
		assert.Equal(t, float64(i-2), got)
	}
}
