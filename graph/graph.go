// Package graph implements the DFA intermediate representation:
// loading from a textual spec, reversal, Hopcroft minimization,
// negation and depth-indexed reachability.
package graph

import (
	"fmt"

	"github.com/katalvlaran/lvlath/bfs"
	"github.com/katalvlaran/lvlath/core"
	"github.com/rs/zerolog"

	"github.com/lfsec/homfa/herrors"
)

// Graph is a deterministic, total automaton over the binary alphabet
// {0,1}: every vertex has exactly two outgoing transitions, child0 and
// child1, selected by the current input bit. Vertices are indexed
// contiguously from 0. Immutable after construction.
//
// The index-based child0/child1 arrays are the fast path every
// evaluator reads from; the lvlath core.Graph held in idx mirrors the
// same edges and serves the BFS reachability pass minimized() runs
// before Hopcroft refinement. Dump/DumpDot walk child0/child1 directly,
// in vertex-index order.
type Graph struct {
	idx    *core.Graph
	q0     int
	final  map[int]bool
	child0 []int
	child1 []int
	log    zerolog.Logger
}

// WithLogger attaches a logger to g (mutating, returns g for chaining)
// for Debug-level events emitted by Reversed/Minimized. The zero Logger
// discards them.
func (g *Graph) WithLogger(log zerolog.Logger) *Graph {
	g.log = log
	return g
}

func vertexID(v int) string { return fmt.Sprintf("q%d", v) }

// New builds a Graph from explicit transition arrays. child0[v]/child1[v]
// must be in range [0, len(child0)) for every v.
func New(q0 int, final map[int]bool, child0, child1 []int) (*Graph, error) {
	n := len(child0)
	if n == 0 {
		return nil, herrors.New(herrors.BadSpec, "graph.New", "graph must have at least one vertex")
	}
	if len(child1) != n {
		return nil, herrors.New(herrors.BadSpec, "graph.New", "child0/child1 length mismatch")
	}
	if q0 < 0 || q0 >= n {
		return nil, herrors.New(herrors.BadSpec, "graph.New", "q0 out of range")
	}
	idx := core.NewGraph(core.WithMultiEdges(), core.WithLoops(), core.WithDirected(true))
	for v := 0; v < n; v++ {
		if err := idx.AddVertex(vertexID(v)); err != nil {
			return nil, herrors.Wrapf(herrors.BadSpec, "graph.New", "adding vertex %d: %v", v, err)
		}
	}
	for v := 0; v < n; v++ {
		if child0[v] < 0 || child0[v] >= n {
			return nil, herrors.Wrapf(herrors.BadSpec, "graph.New", "vertex %d: child0=%d out of range", v, child0[v])
		}
		if child1[v] < 0 || child1[v] >= n {
			return nil, herrors.Wrapf(herrors.BadSpec, "graph.New", "vertex %d: child1=%d out of range", v, child1[v])
		}
		if _, err := idx.AddEdge(vertexID(v), vertexID(child0[v]), 0); err != nil {
			return nil, herrors.Wrapf(herrors.BadSpec, "graph.New", "vertex %d child0 edge: %v", v, err)
		}
		if _, err := idx.AddEdge(vertexID(v), vertexID(child1[v]), 0); err != nil {
			return nil, herrors.Wrapf(herrors.BadSpec, "graph.New", "vertex %d child1 edge: %v", v, err)
		}
	}
	f := make(map[int]bool, len(final))
	for k, v := range final {
		f[k] = v
	}
	c0 := append([]int(nil), child0...)
	c1 := append([]int(nil), child1...)
	return &Graph{idx: idx, q0: q0, final: f, child0: c0, child1: c1}, nil
}

// VertexCount returns |V|.
func (g *Graph) VertexCount() int { return len(g.child0) }

// FinalCount returns |F|.
func (g *Graph) FinalCount() int { return len(g.final) }

// Start returns q0.
func (g *Graph) Start() int { return g.q0 }

// IsFinal reports whether v ∈ F.
func (g *Graph) IsFinal(v int) bool { return g.final[v] }

// Child0 returns child0(v).
func (g *Graph) Child0(v int) int { return g.child0[v] }

// Child1 returns child1(v).
func (g *Graph) Child1(v int) int { return g.child1[v] }

// Child returns the successor of v under input bit b.
func (g *Graph) Child(v int, b bool) int {
	if b {
		return g.child1[v]
	}
	return g.child0[v]
}

// Accept runs the DFA over a plaintext bit sequence w and reports
// whether the run ends in an accepting state; used by tests to compute
// plaintext ground truth.
func (g *Graph) Accept(w []bool) bool {
	v := g.q0
	for _, b := range w {
		v = g.Child(v, b)
	}
	return g.IsFinal(v)
}

// reachableFromStart returns the set of vertices reachable from q0,
// computed via lvlath/bfs.BFS — the structural pass minimized() uses to
// drop unreachable vertices before partition refinement.
func (g *Graph) reachableFromStart() (map[int]bool, error) {
	res, err := bfs.BFS(g.idx, vertexID(g.q0))
	if err != nil {
		return nil, herrors.Wrapf(herrors.Fatal, "graph.reachableFromStart", "bfs: %v", err)
	}
	reach := make(map[int]bool, len(res.Order))
	for _, id := range res.Order {
		var v int
		if _, err := fmt.Sscanf(id, "q%d", &v); err != nil {
			continue
		}
		reach[v] = true
	}
	return reach, nil
}

// Negated returns a graph with F replaced by V∖F, same structure.
func (g *Graph) Negated() (*Graph, error) {
	final := make(map[int]bool)
	for v := 0; v < g.VertexCount(); v++ {
		if !g.final[v] {
			final[v] = true
		}
	}
	return New(g.q0, final, g.child0, g.child1)
}
