// Package ltl compiles a linear temporal logic formula over k atomic
// propositions into a graph.Graph by delegating to an external
// translator process. No LTL parser or translation logic lives in this
// module.
package ltl

import (
	"bytes"
	"os/exec"
	"strconv"

	"github.com/lfsec/homfa/graph"
	"github.com/lfsec/homfa/herrors"
)

// DefaultTranslator is the external binary name resolved via PATH when
// Compile is called without an explicit translator path.
const DefaultTranslator = "ltl2dfa"

// Compile translates formula into a DFA over 2^k symbols (k consecutive
// bits per symbol, least-significant bit first, matching
// stream.BitsFromBytes's extraction order) by invoking translator on
// PATH, feeding it formula on stdin and parsing its stdout as a
// from_spec-format DFA. k <= 0 is rejected.
func Compile(formula string, k int) (*graph.Graph, error) {
	return CompileWith(DefaultTranslator, formula, k)
}

// CompileWith is Compile with an explicit translator binary name or path.
func CompileWith(translator, formula string, k int) (*graph.Graph, error) {
	if k <= 0 {
		return nil, herrors.New(herrors.BadLtl, "ltl.Compile", "k (number of atomic propositions) must be positive")
	}
	if formula == "" {
		return nil, herrors.New(herrors.BadLtl, "ltl.Compile", "formula must not be empty")
	}

	path, err := exec.LookPath(translator)
	if err != nil {
		return nil, herrors.Wrapf(herrors.BadLtl, "ltl.Compile", "translator %q not found on PATH: %v", translator, err)
	}

	cmd := exec.Command(path, "-k", strconv.Itoa(k))
	cmd.Stdin = bytes.NewBufferString(formula)
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		return nil, herrors.Wrapf(herrors.BadLtl, "ltl.Compile", "translator %q failed: %v (stderr: %s)", translator, err, stderr.String())
	}

	g, err := graph.ParseSpec(&stdout)
	if err != nil {
		return nil, herrors.Wrapf(herrors.BadLtl, "ltl.Compile", "translator output is not a valid DFA spec: %v", err)
	}
	return g, nil
}
