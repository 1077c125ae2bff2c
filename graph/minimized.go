package graph

// Minimized applies Hopcroft-style partition refinement over the
// initial partition (F, V∖F), splitting blocks by their (child0-block,
// child1-block) signature until the partition is stable, then returns a
// graph whose vertex indices are the stable block indices. Unreachable
// vertices are dropped first (reachableFromStart), since minimization
// only needs to preserve the language from q0.
func (g *Graph) Minimized() (*Graph, error) {
	reach, err := g.reachableFromStart()
	if err != nil {
		return nil, err
	}

	block := make([]int, g.VertexCount())
	for v := range block {
		if !reach[v] {
			block[v] = -1
			continue
		}
		if g.IsFinal(v) {
			block[v] = 1
		} else {
			block[v] = 0
		}
	}

	for {
		newBlock := make([]int, g.VertexCount())
		groupID := map[[3]int]int{}
		for v := 0; v < g.VertexCount(); v++ {
			if block[v] == -1 {
				newBlock[v] = -1
				continue
			}
			key := [3]int{block[v], block[g.child0[v]], block[g.child1[v]]}
			id, ok := groupID[key]
			if !ok {
				id = len(groupID)
				groupID[key] = id
			}
			newBlock[v] = id
		}
		if blocksEqual(block, newBlock) {
			break
		}
		block = newBlock
	}
	g.log.Debug().Int("blocks", countBlocks(block)).Msg("minimization partition stabilized")

	ids := map[int]int{}
	for v := 0; v < g.VertexCount(); v++ {
		if block[v] == -1 {
			continue
		}
		if _, ok := ids[block[v]]; !ok {
			ids[block[v]] = len(ids)
		}
	}

	n := len(ids)
	child0 := make([]int, n)
	child1 := make([]int, n)
	final := map[int]bool{}
	seen := make([]bool, n)
	for v := 0; v < g.VertexCount(); v++ {
		if block[v] == -1 {
			continue
		}
		id := ids[block[v]]
		if seen[id] {
			continue
		}
		seen[id] = true
		child0[id] = ids[block[g.child0[v]]]
		child1[id] = ids[block[g.child1[v]]]
		if g.IsFinal(v) {
			final[id] = true
		}
	}

	return New(ids[block[g.q0]], final, child0, child1)
}

// countBlocks returns the number of distinct non-dropped block ids.
func countBlocks(block []int) int {
	seen := map[int]bool{}
	for _, b := range block {
		if b != -1 {
			seen[b] = true
		}
	}
	return len(seen)
}

// blocksEqual reports whether two block-id assignments induce the same
// partition (same equivalence classes), irrespective of the numeric
// labels assigned to each class.
func blocksEqual(a, b []int) bool {
	if len(a) != len(b) {
		return false
	}
	rep := map[int]int{}
	for i := range a {
		ra, rb := a[i], b[i]
		if r, ok := rep[ra]; ok {
			if r != rb {
				return false
			}
		} else {
			rep[ra] = rb
		}
	}
	// check the reverse direction too, so distinct a-classes never map
	// to the same b-class.
	rev := map[int]int{}
	for i := range a {
		ra, rb := a[i], b[i]
		if r, ok := rev[rb]; ok {
			if r != ra {
				return false
			}
		} else {
			rev[rb] = ra
		}
	}
	return true
}
