package klang

// Buffer is a mono buffer of float64 samples. Scalar control values travel
// as single-sample buffers.
type Buffer []float64

// Size returns the number of samples in the buffer.
func (b Buffer) Size() int { return len(b) }

// Silence returns a zeroed buffer of the given size.
func Silence(size int) Buffer { return make(Buffer, size) }

// Block is a unit of per-cycle computation with typed ports. Update is
// invoked once per audio buffer cycle and produces new output values from
// the current input values. I/O blocks report failures through the returned
// error, which aborts the run.
type Block interface {
	Update() error
	Inputs() []Port
	Outputs() []Port
}

// Base carries ports bookkeeping and identity for a block. Embed it and
// register ports with AppendInput/AppendOutput, or InitPorts for plain
// value blocks. The first port of each list is the primary one.
type Base struct {
	UID
	name string
	ins  []Port
	outs []Port
}

// InitPorts assigns identity and creates nIns value inputs and nOuts value
// outputs owned by the given block.
func (b *Base) InitPorts(owner Block, nIns, nOuts int) {
	b.UID = NewUID()
	for n := 0; n < nIns; n++ {
		b.ins = append(b.ins, NewInput(owner, nil))
	}
	for n := 0; n < nOuts; n++ {
		b.outs = append(b.outs, NewOutput(owner))
	}
}

// AppendInput registers an input port and returns its index.
func (b *Base) AppendInput(p Port) int {
	if b.id == "" {
		b.UID = NewUID()
	}
	b.ins = append(b.ins, p)
	return len(b.ins) - 1
}

// AppendOutput registers an output port and returns its index.
func (b *Base) AppendOutput(p Port) int {
	if b.id == "" {
		b.UID = NewUID()
	}
	b.outs = append(b.outs, p)
	return len(b.outs) - 1
}

// Inputs returns the ordered input ports.
func (b *Base) Inputs() []Port { return b.ins }

// Outputs returns the ordered output ports.
func (b *Base) Outputs() []Port { return b.outs }

// Input returns the primary input port, or nil when the block has none.
func (b *Base) Input() Port {
	if len(b.ins) == 0 {
		return nil
	}
	return b.ins[0]
}

// Output returns the primary output port, or nil when the block has none.
func (b *Base) Output() Port {
	if len(b.outs) == 0 {
		return nil
	}
	return b.outs[0]
}

// Name returns the custom block name.
func (b *Base) Name() string { return b.name }

// SetName assigns a custom block name for logs.
func (b *Base) SetName(name string) { b.name = name }

// PrimaryInput returns the first input port of a block.
func PrimaryInput(b Block) (Port, error) {
	ins := b.Inputs()
	if len(ins) == 0 {
		return nil, ErrNoInput
	}
	return ins[0], nil
}

// PrimaryOutput returns the first output port of a block.
func PrimaryOutput(b Block) (Port, error) {
	outs := b.Outputs()
	if len(outs) == 0 {
		return nil, ErrNoOutput
	}
	return outs[0], nil
}

// Chain links blocks serially, the primary output of each to the primary
// input of the next, and returns the rightmost block for further chaining.
func Chain(blocks ...Block) (Block, error) {
	if len(blocks) == 0 {
		return nil, ErrNoSeeds
	}
	for n := 0; n < len(blocks)-1; n++ {
		out, err := PrimaryOutput(blocks[n])
		if err != nil {
			return nil, err
		}
		in, err := PrimaryInput(blocks[n+1])
		if err != nil {
			return nil, err
		}
		if err := Connect(out, in); err != nil {
			return nil, err
		}
	}
	return blocks[len(blocks)-1], nil
}

// blockName labels a block for logs.
func blockName(b Block) string {
	type named interface {
		Name() string
		ID() string
	}
	if n, ok := b.(named); ok && n.Name() != "" {
		return n.Name()
	}
	if n, ok := b.(named); ok {
		return n.ID()
	}
	return "block"
}
