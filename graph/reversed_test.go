package graph

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestReversedTracksSuffixMembership checks the subset-construction
// invariant of Reversed: after feeding bits b_1..b_k into the
// reversed automaton in that order, the current subset state equals
// {p : delta(p, b_k b_{k-1} ... b_1) is final in g}.
func TestReversedTracksSuffixMembership(t *testing.T) {
	g := endsInZeroOne(t)
	rev, err := g.Reversed()
	require.NoError(t, err)

	rnd := rand.New(rand.NewSource(7))
	for trial := 0; trial < 30; trial++ {
		n := rnd.Intn(6)
		bits := make([]bool, n)
		for i := range bits {
			bits[i] = rnd.Intn(2) == 1
		}

		v := rev.Start()
		for _, b := range bits {
			v = rev.Child(v, b)
		}
		got := rev.IsFinal(v)

		reversedBits := make([]bool, n)
		for i, b := range bits {
			reversedBits[n-1-i] = b
		}
		want := g.Accept(reversedBits)

		assert.Equal(t, want, got, "bits=%v", bits)
	}
}

func TestReversedVertexCount(t *testing.T) {
	g := evenParity(t)
	rev, err := g.Reversed()
	require.NoError(t, err)
	assert.GreaterOrEqual(t, rev.VertexCount(), 1)
}
