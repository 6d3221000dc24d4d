// Package graph implements the index-based directed graph behind block
// scheduling: deterministic adjacency, back-edge detection and a
// cycle-tolerant execution order.
//
// Nodes are plain indices 0..n-1 so callers can keep their own handle
// mapping and the graph never owns references into live structures.
package graph

// Edge is a directed edge between two node indices.
type Edge struct {
	From, To int
}

// Graph is a directed graph over nodes 0..n-1 with adjacency by index.
// Edges are deduplicated; successor and predecessor lists keep insertion
// order, which makes every derived traversal deterministic.
type Graph struct {
	succ [][]int
	pred [][]int
	seen map[Edge]struct{}
}

// New returns a graph with n nodes and no edges.
func New(n int) *Graph {
	return &Graph{
		succ: make([][]int, n),
		pred: make([][]int, n),
		seen: make(map[Edge]struct{}),
	}
}

// Len returns the number of nodes.
func (g *Graph) Len() int { return len(g.succ) }

// AddEdge inserts the directed edge from -> to. Duplicates are ignored.
func (g *Graph) AddEdge(from, to int) {
	e := Edge{From: from, To: to}
	if _, ok := g.seen[e]; ok {
		return
	}
	g.seen[e] = struct{}{}
	g.succ[from] = append(g.succ[from], to)
	g.pred[to] = append(g.pred[to], from)
}

// HasEdge reports whether the directed edge from -> to exists.
func (g *Graph) HasEdge(from, to int) bool {
	_, ok := g.seen[Edge{From: from, To: to}]
	return ok
}

// Successors returns the nodes fed by node.
func (g *Graph) Successors(node int) []int { return g.succ[node] }

// Predecessors returns the nodes feeding node.
func (g *Graph) Predecessors(node int) []int { return g.pred[node] }

// dfs colors for back-edge detection.
const (
	white = iota // undiscovered
	gray         // on the current dfs path
	black        // finished
)

// BackEdges finds the edges closing a cycle, via depth-first traversal with
// white/gray/black marking. Roots and successors are visited in index and
// insertion order, so the result is stable for a given construction order.
func (g *Graph) BackEdges() []Edge {
	color := make([]int, g.Len())
	var backEdges []Edge

	var dfs func(parent int)
	dfs = func(parent int) {
		color[parent] = gray
		for _, child := range g.succ[parent] {
			switch color[child] {
			case black:
				continue
			case gray:
				backEdges = append(backEdges, Edge{From: parent, To: child})
			default:
				dfs(child)
			}
		}
		color[parent] = black
	}

	for node := 0; node < g.Len(); node++ {
		if color[node] == white {
			dfs(node)
		}
	}
	return backEdges
}

// WithoutBackEdges returns a copy of the graph with all back edges removed,
// turning it into a DAG. A member of a broken cycle executes against its
// predecessor's previous-cycle output.
func (g *Graph) WithoutBackEdges() *Graph {
	back := make(map[Edge]struct{}, len(g.seen))
	for _, e := range g.BackEdges() {
		back[e] = struct{}{}
	}
	dag := New(g.Len())
	for from, successors := range g.succ {
		for _, to := range successors {
			if _, ok := back[Edge{From: from, To: to}]; ok {
				continue
			}
			dag.AddEdge(from, to)
		}
	}
	return dag
}

// ExecutionOrder returns a total order of all nodes such that every
// predecessor precedes its successors once cycles are resolved by dropping
// back edges. Nodes with no remaining unresolved dependency keep their
// index order, so repeated calls yield the same sequence.
func (g *Graph) ExecutionOrder() []int {
	dag := g.WithoutBackEdges()
	n := dag.Len()

	queue := make([]int, n)
	for node := 0; node < n; node++ {
		queue[node] = node
	}

	order := make([]int, 0, n)
	placed := make([]bool, n)
	ready := func(node int) bool {
		for _, p := range dag.pred[node] {
			if !placed[p] {
				return false
			}
		}
		return true
	}

	for len(queue) > 0 {
		node := queue[0]
		queue = queue[1:]
		if placed[node] {
			continue
		}
		successors := dag.succ[node]
		if ready(node) {
			placed[node] = true
			order = append(order, node)
			// Successors jump the queue, last one first.
			front := make([]int, 0, len(successors)+len(queue))
			for i := len(successors) - 1; i >= 0; i-- {
				front = append(front, successors[i])
			}
			queue = append(front, queue...)
		} else {
			queue = append(queue, successors...)
		}
	}

	if len(order) != n {
		// Unreachable on a DAG; anything else is a scheduler defect.
		panic("graph: execution order is incomplete")
	}
	return order
}
