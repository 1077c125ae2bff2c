package ltl

import (
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lfsec/homfa/herrors"
)

// writeFakeTranslator drops an executable shell script with the given
// contents at dir/name, standing in for ltl2dfa, and returns its path.
func writeFakeTranslator(t *testing.T, dir, name, script string) string {
	t.Helper()
	if runtime.GOOS == "windows" {
		t.Skip("fake translator script requires a POSIX shell")
	}
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(script), 0o755))
	return path
}

func TestCompileWithRejectsZeroK(t *testing.T) {
	_, err := CompileWith(DefaultTranslator, "G p0", 0)
	require.Error(t, err)
	assert.True(t, herrors.Is(err, herrors.BadLtl))
}

func TestCompileWithRejectsEmptyFormula(t *testing.T) {
	_, err := CompileWith(DefaultTranslator, "", 2)
	require.Error(t, err)
	assert.True(t, herrors.Is(err, herrors.BadLtl))
}

func TestCompileWithMissingTranslator(t *testing.T) {
	_, err := CompileWith("homfa-ltl2dfa-does-not-exist", "G p0", 1)
	require.Error(t, err)
	assert.True(t, herrors.Is(err, herrors.BadLtl))
}

func TestCompileWithParsesTranslatorOutput(t *testing.T) {
	dir := t.TempDir()
	path := writeFakeTranslator(t, dir, "fake-ltl2dfa", "#!/bin/sh\ncat <<'EOF'\n2 0 1\n1\n0 0 1\n1 0 1\nEOF\n")

	g, err := CompileWith(path, "F p0", 1)
	require.NoError(t, err)
	require.Equal(t, 2, g.VertexCount())
	assert.False(t, g.Accept([]bool{false, false}))
	assert.True(t, g.Accept([]bool{false, true}))
}

func TestCompileWithTranslatorFailureExitCode(t *testing.T) {
	dir := t.TempDir()
	path := writeFakeTranslator(t, dir, "failing-ltl2dfa", "#!/bin/sh\necho 'bad formula' 1>&2\nexit 1\n")

	_, err := CompileWith(path, "garbage(((", 1)
	require.Error(t, err)
	assert.True(t, herrors.Is(err, herrors.BadLtl))
	assert.Contains(t, err.Error(), "bad formula")
}

func TestCompileWithTranslatorBadOutput(t *testing.T) {
	dir := t.TempDir()
	path := writeFakeTranslator(t, dir, "garbage-ltl2dfa", "#!/bin/sh\necho 'not a spec'\n")

	_, err := CompileWith(path, "G p0", 1)
	require.Error(t, err)
	assert.True(t, herrors.Is(err, herrors.BadLtl))
}

func TestCompileUsesDefaultTranslatorName(t *testing.T) {
	_, err := Compile("G p0", 1)
	require.Error(t, err)
	assert.True(t, herrors.Is(err, herrors.BadLtl))
}
