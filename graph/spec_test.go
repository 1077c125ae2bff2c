package graph

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lfsec/homfa/herrors"
)

func TestParseSpecAndDumpRoundTrip(t *testing.T) {
	g := endsInZeroOne(t)
	var buf bytes.Buffer
	require.NoError(t, g.Dump(&buf))

	parsed, err := ParseSpec(&buf)
	require.NoError(t, err)
	assert.True(t, g.Equivalent(parsed))
}

func TestParseSpecRejectsMalformedInput(t *testing.T) {
	cases := []string{
		"",
		"not a header\n",
		"2 5 0\n0 1\n1 0\n",    // q0 out of range
		"2 0 1\n9\n0 1\n1 0\n", // final id out of range
		"2 0 0\n0 9 0\n1 0 1\n", // child out of range
		"2 0 0\n0 0 0\n0 0 0\n", // duplicate vertex id
		"2 0 0\n0 0 0\n",        // truncated transition table
	}
	for _, in := range cases {
		_, err := ParseSpec(strings.NewReader(in))
		require.Error(t, err, "input %q", in)
		assert.True(t, herrors.Is(err, herrors.BadSpec), "input %q", in)
	}
}

func TestParseSpecIgnoresBlankLines(t *testing.T) {
	in := "\n2 0 1\n\n0\n\n0 1 0\n1 1 0\n"
	g, err := ParseSpec(strings.NewReader(in))
	require.NoError(t, err)
	assert.Equal(t, 2, g.VertexCount())
	assert.True(t, g.IsFinal(0))
}

func TestDumpDot(t *testing.T) {
	g := evenParity(t)
	var buf bytes.Buffer
	require.NoError(t, g.DumpDot(&buf))
	out := buf.String()
	assert.Contains(t, out, "digraph DFA")
	assert.Contains(t, out, "doublecircle")
}
