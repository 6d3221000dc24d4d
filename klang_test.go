package klang_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/atheler/klang"
)

// generator emits the same buffer every cycle.
type generator struct {
	klang.Base
	buffer  klang.Buffer
	updates int
}

func newGenerator(buffer klang.Buffer) *generator {
	g := &generator{buffer: buffer}
	g.InitPorts(g, 0, 1)
	g.out().SetValue(buffer)
	return g
}

func (g *generator) out() *klang.Output { return g.Outputs()[0].(*klang.Output) }

func (g *generator) Update() error {
	g.updates++
	g.out().SetValue(g.buffer)
	return nil
}

// gain multiplies its input buffer by a constant factor.
type gain struct {
	klang.Base
	factor float64
}

func newGain(factor float64) *gain {
	g := &gain{factor: factor}
	g.InitPorts(g, 1, 1)
	return g
}

func (g *gain) in() *klang.Input   { return g.Inputs()[0].(*klang.Input) }
func (g *gain) out() *klang.Output { return g.Outputs()[0].(*klang.Output) }

func (g *gain) Update() error {
	in := g.in().Value()
	out := make(klang.Buffer, in.Size())
	for n, v := range in {
		out[n] = v * g.factor
	}
	g.out().SetValue(out)
	return nil
}

// recorder appends every input buffer it sees.
type recorder struct {
	klang.Base
	got klang.Buffer
}

func newRecorder() *recorder {
	r := &recorder{}
	r.InitPorts(r, 1, 0)
	return r
}

func (r *recorder) in() *klang.Input { return r.Inputs()[0].(*klang.Input) }

func (r *recorder) Update() error {
	r.got = append(r.got, r.in().Value()...)
	return nil
}

// failing fails every update.
type failing struct {
	klang.Base
	err error
}

func newFailing(err error) *failing {
	f := &failing{err: err}
	f.InitPorts(f, 1, 1)
	return f
}

func (f *failing) Update() error { return f.err }

// noteSource emits one staged note per update.
type noteSource struct {
	klang.Base
	notes *klang.MessageOutput
	next  klang.Note
}

func newNoteSource() *noteSource {
	s := &noteSource{}
	s.notes = klang.NewMessageOutput(s)
	s.AppendOutput(s.notes)
	return s
}

func (s *noteSource) Update() error {
	s.notes.Send(s.next)
	return nil
}

// noteSink drains and remembers received messages.
type noteSink struct {
	klang.Base
	in  *klang.MessageInput
	got []klang.Message
}

func newNoteSink() *noteSink {
	s := &noteSink{}
	s.in = klang.NewMessageInput(s)
	s.AppendInput(s.in)
	return s
}

func (s *noteSink) Update() error {
	s.got = append(s.got, s.in.Receive()...)
	return nil
}

func TestBasePorts(t *testing.T) {
	g := newGain(2)
	assert.Len(t, g.Inputs(), 1)
	assert.Len(t, g.Outputs(), 1)
	assert.Equal(t, g.Inputs()[0], g.Input())
	assert.Equal(t, g.Outputs()[0], g.Output())
	assert.NotEmpty(t, g.ID())

	r := newRecorder()
	assert.Nil(t, r.Output())

	in, err := klang.PrimaryInput(g)
	require.NoError(t, err)
	assert.Equal(t, klang.KindValueInput, in.Kind())
	assert.Equal(t, klang.Block(g), in.Owner())

	_, err = klang.PrimaryInput(newGenerator(nil))
	assert.ErrorIs(t, err, klang.ErrNoInput)
	_, err = klang.PrimaryOutput(newRecorder())
	assert.ErrorIs(t, err, klang.ErrNoOutput)
}

func TestName(t *testing.T) {
	g := newGain(1)
	assert.Empty(t, g.Name())
	g.SetName("gain")
	assert.Equal(t, "gain", g.Name())
}

func TestUID(t *testing.T) {
	a := newGain(1)
	b := newGain(1)
	assert.NotEqual(t, a.ID(), b.ID())
}

func TestChain(t *testing.T) {
	t.Run("wires primaries pairwise", func(t *testing.T) {
		src := newGenerator(klang.Buffer{1, 2})
		mid := newGain(2)
		dst := newRecorder()

		last, err := klang.Chain(src, mid, dst)
		require.NoError(t, err)
		assert.Equal(t, klang.Block(dst), last)

		require.NoError(t, src.Update())
		require.NoError(t, mid.Update())
		require.NoError(t, dst.Update())
		assert.Equal(t, klang.Buffer{2, 4}, dst.got)
	})
	t.Run("empty", func(t *testing.T) {
		_, err := klang.Chain()
		assert.ErrorIs(t, err, klang.ErrNoSeeds)
	})
	t.Run("missing ports", func(t *testing.T) {
		_, err := klang.Chain(newRecorder(), newGain(1))
		assert.ErrorIs(t, err, klang.ErrNoOutput)
		_, err = klang.Chain(newGain(1), newGenerator(nil))
		assert.ErrorIs(t, err, klang.ErrNoInput)
	})
	t.Run("occupied input", func(t *testing.T) {
		g := newGain(1)
		_, err := klang.Chain(newGenerator(nil), g)
		require.NoError(t, err)
		_, err = klang.Chain(newGenerator(nil), g)
		assert.ErrorIs(t, err, klang.ErrInputOccupied)
	})
}

func TestBuffer(t *testing.T) {
	assert.Equal(t, 3, klang.Buffer{1, 2, 3}.Size())
	assert.Equal(t, klang.Buffer{0, 0}, klang.Silence(2))
}

func TestExecute(t *testing.T) {
	src := newGenerator(klang.Buffer{1})
	dst := newRecorder()
	_, err := klang.Chain(src, dst)
	require.NoError(t, err)

	require.NoError(t, klang.Execute([]klang.Block{src, dst}))
	assert.Equal(t, klang.Buffer{1}, dst.got)

	errBroken := errors.New("broken")
	err = klang.Execute([]klang.Block{src, newFailing(errBroken), dst})
	assert.ErrorIs(t, err, errBroken)
	// execution stops at the failing block
	assert.Equal(t, klang.Buffer{1}, dst.got)
}
