package graph

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// redundant5State is language-equivalent to evenParity but carries two
// distinguishable-but-equivalent non-final states (1 and 2 both go to
// a final state on 1 and to each other on 0) plus an unreachable dead
// vertex (4), so Minimized must both merge equivalent states and drop
// the unreachable one, collapsing 5 states down to 2.
func redundant5State(t *testing.T) *Graph {
	t.Helper()
	// 0: start, final. 1,2: equivalent non-final "seen odd count" states.
	// 3: unreachable duplicate of 0. 4: unreachable dead state.
	g, err := New(0,
		map[int]bool{0: true, 3: true},
		[]int{0, 2, 1, 3, 4},
		[]int{1, 0, 0, 4, 4},
	)
	require.NoError(t, err)
	return g
}

func TestMinimizedCollapsesRedundantStates(t *testing.T) {
	g := redundant5State(t)
	min, err := g.Minimized()
	require.NoError(t, err)

	assert.Equal(t, 2, min.VertexCount())

	rnd := rand.New(rand.NewSource(11))
	for i := 0; i < 100; i++ {
		n := rnd.Intn(8)
		bits := make([]bool, n)
		for j := range bits {
			bits[j] = rnd.Intn(2) == 1
		}
		assert.Equal(t, g.Accept(bits), min.Accept(bits), "bits=%v", bits)
	}
}

func TestMinimizedIdempotent(t *testing.T) {
	g := redundant5State(t)
	once, err := g.Minimized()
	require.NoError(t, err)
	twice, err := once.Minimized()
	require.NoError(t, err)
	assert.True(t, once.Equivalent(twice))
}

func TestEquivalentDetectsDifference(t *testing.T) {
	a := evenParity(t)
	b := endsInZeroOne(t)
	assert.False(t, a.Equivalent(b))
	assert.True(t, a.Equivalent(a))
}
