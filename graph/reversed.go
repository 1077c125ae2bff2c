package graph

import (
	"sort"
	"strconv"
	"strings"
)

// Reversed yields a graph over the subset-construction vertex set of the
// edge-reversed graph: initial vertex is the (possibly synthetic) subset
// state {q : q ∈ F}, final set is every subset state containing q0.
// Implementation: reverse adjacency (predecessor lists per input bit),
// then determinize via the standard worklist subset construction.
func (g *Graph) Reversed() (*Graph, error) {
	n := g.VertexCount()
	pred0 := make([][]int, n)
	pred1 := make([][]int, n)
	for v := 0; v < n; v++ {
		pred0[g.child0[v]] = append(pred0[g.child0[v]], v)
		pred1[g.child1[v]] = append(pred1[g.child1[v]], v)
	}

	key := func(s []int) string {
		c := append([]int(nil), s...)
		sort.Ints(c)
		b := make([]string, len(c))
		for i, v := range c {
			b[i] = strconv.Itoa(v)
		}
		return strings.Join(b, ",")
	}
	union := func(vs []int, preds [][]int) []int {
		seen := make(map[int]bool)
		for _, v := range vs {
			for _, p := range preds[v] {
				seen[p] = true
			}
		}
		out := make([]int, 0, len(seen))
		for v := range seen {
			out = append(out, v)
		}
		sort.Ints(out)
		return out
	}

	start := make([]int, 0)
	for v := 0; v < n; v++ {
		if g.IsFinal(v) {
			start = append(start, v)
		}
	}
	sort.Ints(start)

	idOf := map[string]int{}
	subsets := [][]int{}
	order := []string{}

	getID := func(s []int) int {
		k := key(s)
		if id, ok := idOf[k]; ok {
			return id
		}
		id := len(subsets)
		idOf[k] = id
		subsets = append(subsets, s)
		order = append(order, k)
		return id
	}
	startID := getID(start)

	var child0, child1 []int
	for i := 0; i < len(order); i++ {
		s := subsets[i]
		c0 := union(s, pred0)
		c1 := union(s, pred1)
		id0 := getID(c0)
		id1 := getID(c1)
		child0 = append(child0, id0)
		child1 = append(child1, id1)
	}

	final := map[int]bool{}
	for i, s := range subsets {
		for _, v := range s {
			if v == g.q0 {
				final[i] = true
				break
			}
		}
	}

	g.log.Debug().Int("subset_states", len(subsets)).Msg("reversed subset construction complete")
	return New(startID, final, child0, child1)
}

