package graph

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReserveStatesAtDepth(t *testing.T) {
	g := evenParity(t)
	table, err := g.ReserveStatesAtDepth(4)
	require.NoError(t, err)
	assert.Equal(t, 4, table.Depth())

	// Both states are reachable at every depth >= 1 for even-parity.
	assert.Equal(t, []int{0}, table.At(0))
	assert.ElementsMatch(t, []int{0, 1}, table.At(1))
	assert.ElementsMatch(t, []int{0, 1}, table.At(4))
}

func TestReserveStatesAtDepthRejectsNegative(t *testing.T) {
	g := evenParity(t)
	_, err := g.ReserveStatesAtDepth(-1)
	require.Error(t, err)
}

func TestReserveStatesAtDepthZero(t *testing.T) {
	g := endsInZeroOne(t)
	table, err := g.ReserveStatesAtDepth(0)
	require.NoError(t, err)
	assert.Equal(t, 0, table.Depth())
	assert.Equal(t, []int{g.Start()}, table.At(0))
}
