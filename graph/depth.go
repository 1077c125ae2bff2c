package graph

import (
	"sort"

	"github.com/lfsec/homfa/herrors"
)

// DepthTable holds R0..RN, the sets of vertices reachable from q0 after
// exactly d input symbols.
type DepthTable struct {
	levels [][]int
}

// At returns R_d.
func (t *DepthTable) At(d int) []int { return t.levels[d] }

// Depth returns N, the table's maximum indexed depth.
func (t *DepthTable) Depth() int { return len(t.levels) - 1 }

// ReserveStatesAtDepth precomputes R0..RN via BFS over depth, bounding
// per-depth work to |V|. Used only when N is known ahead of time
// (offline evaluation).
func (g *Graph) ReserveStatesAtDepth(n int) (*DepthTable, error) {
	if n < 0 {
		return nil, herrors.New(herrors.BadConfig, "graph.ReserveStatesAtDepth", "N must be non-negative")
	}
	levels := make([][]int, n+1)
	levels[0] = []int{g.q0}
	for d := 0; d < n; d++ {
		seen := make(map[int]bool)
		for _, v := range levels[d] {
			seen[g.child0[v]] = true
			seen[g.child1[v]] = true
		}
		next := make([]int, 0, len(seen))
		for v := range seen {
			next = append(next, v)
		}
		sort.Ints(next)
		levels[d+1] = next
	}
	return &DepthTable{levels: levels}, nil
}
