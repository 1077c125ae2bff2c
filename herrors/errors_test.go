package herrors

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestKindString(t *testing.T) {
	cases := map[Kind]string{
		BadSpec:   "bad-spec",
		BadLtl:    "bad-ltl",
		BadKey:    "bad-key",
		BadInput:  "bad-input",
		BadConfig: "bad-config",
		Fatal:     "fatal",
		Kind(99):  "unknown",
	}
	for kind, want := range cases {
		assert.Equal(t, want, kind.String())
	}
}

func TestNew(t *testing.T) {
	err := New(BadSpec, "graph.New", "graph must have at least one vertex")
	require.Error(t, err)
	assert.True(t, Is(err, BadSpec))
	assert.False(t, Is(err, BadLtl))
	assert.Contains(t, err.Error(), "graph.New")
	assert.Contains(t, err.Error(), "bad-spec")
}

func TestWrapNil(t *testing.T) {
	assert.Nil(t, Wrap(Fatal, "engine.Offline.Step", nil))
}

func TestWrapUnwraps(t *testing.T) {
	cause := errors.New("boom")
	wrapped := Wrap(Fatal, "engine.Offline.Step", cause)
	require.Error(t, wrapped)
	assert.True(t, errors.Is(wrapped, cause))
	assert.True(t, Is(wrapped, Fatal))
}

func TestWrapf(t *testing.T) {
	err := Wrapf(BadInput, "stream.ReadBlob", "reading AP-Bit %d: %v", 3, errors.New("eof"))
	require.Error(t, err)
	assert.True(t, Is(err, BadInput))
	assert.Contains(t, err.Error(), "reading AP-Bit 3")
}

func TestIsAgainstUnrelatedError(t *testing.T) {
	assert.False(t, Is(errors.New("plain"), BadSpec))
}
