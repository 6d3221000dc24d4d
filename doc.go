/*
Package klang implements a block-based audio synthesis engine.

Concept

Sound is composed as a network of small processing units called blocks.
Blocks own typed ports and are connected output to input:

    Value connections propagate sample buffers, read once per cycle;
    Message connections deliver discrete, queued messages.

A network is never declared as a whole. It is discovered by traversing
connections from a set of seed blocks, and an execution order is derived
from the value-dependency graph. Feedback loops are legal: a back edge is
resolved by reading the previous cycle's buffered output, the one buffer of
latency every real audio feedback path has.

Blocks

A block implements per-cycle computation:

    type Block interface {
        Update() error
        Inputs() []Port
        Outputs() []Port
    }

Embedding Base provides ports bookkeeping, a unique ID and primary-port
accessors. Blocks with an internal sub-network are composites; their outer
ports are relays bridging inside and outside.

Execution

The Engine drives repeated buffer cycles over the scheduled order:

    e, err := klang.New(klang.Cycles(512))
    err = e.Run(ctx, oscillator, filter, sink)

Within one cycle staged messages are delivered first, then every block
updates in the scheduler-fixed order. A cancelled context stops the run at
the next cycle boundary, never mid-cycle.
*/
package klang
