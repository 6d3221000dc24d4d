package klang

import "errors"

var (
	// ErrIncompatiblePorts is returned when two port kinds can not be linked,
	// e.g. a value output into a message input.
	ErrIncompatiblePorts = errors.New("klang: incompatible port kinds")
	// ErrInputOccupied is returned when the target input is already fed by
	// another output. Fan-in goes through a mixer, not through an input.
	ErrInputOccupied = errors.New("klang: input already connected")
	// ErrNotConnected is returned when disconnecting ports that are not linked.
	ErrNotConnected = errors.New("klang: ports are not connected")
	// ErrNoInput is returned when a primary input is required but the block
	// has none.
	ErrNoInput = errors.New("klang: block has no inputs")
	// ErrNoOutput is returned when a primary output is required but the block
	// has none.
	ErrNoOutput = errors.New("klang: block has no outputs")
	// ErrNoSeeds is returned when a run is requested without any seed blocks.
	ErrNoSeeds = errors.New("klang: no blocks to run")
)
