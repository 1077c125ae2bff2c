package graph

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lfsec/homfa/herrors"
)

// evenParity is the 2-state DFA accepting binary strings with an even
// number of 1-bits: q0 is both start and the only final state.
func evenParity(t *testing.T) *Graph {
	t.Helper()
	g, err := New(0, map[int]bool{0: true}, []int{0, 1}, []int{1, 0})
	require.NoError(t, err)
	return g
}

// endsInZeroOne accepts binary strings whose last two bits are 0,1.
// States track the suffix seen so far: 0 = none/other, 1 = "...0",
// 2 = "...01" (final).
func endsInZeroOne(t *testing.T) *Graph {
	t.Helper()
	g, err := New(0,
		map[int]bool{2: true},
		[]int{1, 1, 1}, // child0
		[]int{0, 2, 0}, // child1
	)
	require.NoError(t, err)
	return g
}

func TestNewValidation(t *testing.T) {
	_, err := New(0, nil, nil, nil)
	require.Error(t, err)
	assert.True(t, herrors.Is(err, herrors.BadSpec))

	_, err = New(0, nil, []int{0}, []int{0, 0})
	require.Error(t, err)
	assert.True(t, herrors.Is(err, herrors.BadSpec))

	_, err = New(5, nil, []int{0}, []int{0})
	require.Error(t, err)
	assert.True(t, herrors.Is(err, herrors.BadSpec))

	_, err = New(0, nil, []int{7}, []int{0})
	require.Error(t, err)
	assert.True(t, herrors.Is(err, herrors.BadSpec))

	_, err = New(0, nil, []int{0}, []int{7})
	require.Error(t, err)
	assert.True(t, herrors.Is(err, herrors.BadSpec))
}

func TestGraphAccessors(t *testing.T) {
	g := endsInZeroOne(t)
	assert.Equal(t, 3, g.VertexCount())
	assert.Equal(t, 1, g.FinalCount())
	assert.Equal(t, 0, g.Start())
	assert.True(t, g.IsFinal(2))
	assert.False(t, g.IsFinal(0))
	assert.Equal(t, g.Child0(0), g.Child(0, false))
	assert.Equal(t, g.Child1(0), g.Child(0, true))
}

func TestAcceptEvenParity(t *testing.T) {
	g := evenParity(t)
	cases := []struct {
		w    []bool
		want bool
	}{
		{nil, true},
		{[]bool{true}, false},
		{[]bool{true, true}, true},
		{[]bool{false, false, false}, true},
		{[]bool{true, false, true}, true},
		{[]bool{true, false, true, true}, false},
	}
	for _, c := range cases {
		assert.Equal(t, c.want, g.Accept(c.w), "input %v", c.w)
	}
}

func TestAcceptEndsInZeroOne(t *testing.T) {
	g := endsInZeroOne(t)
	assert.True(t, g.Accept([]bool{false, true}))
	assert.True(t, g.Accept([]bool{true, true, false, true}))
	assert.False(t, g.Accept([]bool{false, false}))
	assert.False(t, g.Accept(nil))
	assert.True(t, g.Accept([]bool{true, false, true}))
	assert.False(t, g.Accept([]bool{true, false, false}))
}

func TestNegated(t *testing.T) {
	g := evenParity(t)
	neg, err := g.Negated()
	require.NoError(t, err)
	assert.Equal(t, g.VertexCount(), neg.VertexCount())
	for _, w := range [][]bool{
		nil, {true}, {true, true}, {false, true, true}, {true, false, true, true},
	} {
		assert.Equal(t, !g.Accept(w), neg.Accept(w), "input %v", w)
	}
}

func TestWithLoggerReturnsReceiver(t *testing.T) {
	g := evenParity(t)
	assert.Same(t, g, g.WithLogger(g.log))
}
