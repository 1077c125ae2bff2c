package graph

// Equivalent reports whether g and other are structurally equal up to
// vertex renaming: both graphs are walked in BFS order from their
// respective start vertices and the renaming induced by that order must
// agree on every transition and on final-set membership. Used to test
// minimization idempotence.
func (g *Graph) Equivalent(other *Graph) bool {
	if g.VertexCount() == 0 || other.VertexCount() == 0 {
		return g.VertexCount() == other.VertexCount()
	}

	mapG := map[int]int{g.q0: 0}
	mapO := map[int]int{other.q0: 0}
	queueG := []int{g.q0}
	queueO := []int{other.q0}

	for len(queueG) > 0 {
		if len(queueO) == 0 {
			return false
		}
		vg, vo := queueG[0], queueO[0]
		queueG, queueO = queueG[1:], queueO[1:]

		if g.IsFinal(vg) != other.IsFinal(vo) {
			return false
		}

		for _, b := range []bool{false, true} {
			ng, no := g.Child(vg, b), other.Child(vo, b)
			idG, okG := mapG[ng]
			idO, okO := mapO[no]
			if okG != okO {
				return false
			}
			if okG && idG != idO {
				return false
			}
			if !okG {
				id := len(mapG)
				mapG[ng] = id
				mapO[no] = id
				queueG = append(queueG, ng)
				queueO = append(queueO, no)
			}
		}
	}
	return len(queueO) == 0 && len(mapG) == len(mapO)
}
