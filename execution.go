package klang

import "github.com/atheler/klang/graph"

// blockEdge is a directed connection between two blocks found during
// traversal. Only value edges impose execution order; message delivery is
// queued and consumed lazily.
type blockEdge struct {
	src, dst Block
	value    bool
}

// outputNeighbors yields value and message edges leaving the block.
func outputNeighbors(b Block, visit func(blockEdge)) {
	for _, p := range b.Outputs() {
		switch src := p.(type) {
		case valueSource:
			for _, sink := range src.outgoing() {
				if owner := sink.Owner(); owner != nil {
					visit(blockEdge{src: b, dst: owner, value: true})
				}
			}
		case messageSource:
			for _, sink := range src.outgoing() {
				if owner := sink.Owner(); owner != nil {
					visit(blockEdge{src: b, dst: owner})
				}
			}
		}
	}
}

// inputNeighbors yields value and message edges entering the block.
func inputNeighbors(b Block, visit func(blockEdge)) {
	for _, p := range b.Inputs() {
		switch dst := p.(type) {
		case valueSink:
			if src := dst.incoming(); src != nil && src.Owner() != nil {
				visit(blockEdge{src: src.Owner(), dst: b, value: true})
			}
		case messageSink:
			if src := dst.incoming(); src != nil && src.Owner() != nil {
				visit(blockEdge{src: src.Owner(), dst: b})
			}
		}
	}
}

// traverse walks connections in both directions from the seeds and returns
// every reachable block in first-encounter order together with all edges.
// Visited-set marking guarantees termination on cyclic graphs. Seeds stay in
// the result even when nothing is connected to them.
func traverse(seeds []Block) ([]Block, []blockEdge) {
	var (
		blocks  []Block
		edges   []blockEdge
		queue   = append([]Block(nil), seeds...)
		visited = make(map[Block]bool)
	)
	for len(queue) > 0 {
		b := queue[0]
		queue = queue[1:]
		if b == nil || visited[b] {
			continue
		}
		visited[b] = true
		blocks = append(blocks, b)
		outputNeighbors(b, func(e blockEdge) {
			edges = append(edges, e)
			queue = append(queue, e.dst)
		})
		inputNeighbors(b, func(e blockEdge) {
			edges = append(edges, e)
			queue = append(queue, e.src)
		})
	}
	return blocks, edges
}

// Discover returns the complete set of blocks reachable from the seeds,
// following every connection in both directions. The result is stable:
// re-running discovery on an unchanged graph yields the same sequence.
func Discover(seeds ...Block) []Block {
	blocks, _ := traverse(seeds)
	return blocks
}

// ExecutionOrder discovers the network around the seeds and orders it so
// that every block executes after all blocks feeding its value inputs.
// Feedback cycles are legal: a back edge is treated as already satisfied and
// the cycle member reads its predecessor's previous-cycle output. Blocks
// with no unresolved dependency keep discovery order.
func ExecutionOrder(seeds ...Block) []Block {
	blocks, edges := traverse(seeds)
	index := make(map[Block]int, len(blocks))
	for n, b := range blocks {
		index[b] = n
	}
	g := graph.New(len(blocks))
	for _, e := range edges {
		if !e.value {
			continue
		}
		g.AddEdge(index[e.src], index[e.dst])
	}
	order := g.ExecutionOrder()
	scheduled := make([]Block, len(order))
	for n, idx := range order {
		scheduled[n] = blocks[idx]
	}
	return scheduled
}

// Unravel flattens composite blocks into their internal execution orders,
// recursively. The result contains leaf blocks only.
func Unravel(order []Block) []Block {
	var flat []Block
	for _, b := range order {
		if c, ok := b.(*Composite); ok {
			flat = append(flat, Unravel(c.InternalOrder())...)
			continue
		}
		flat = append(flat, b)
	}
	return flat
}

// Execute updates all blocks in the given order, stopping at the first
// failing block.
func Execute(order []Block) error {
	for _, b := range order {
		if err := b.Update(); err != nil {
			return err
		}
	}
	return nil
}
