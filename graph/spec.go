package graph

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/lfsec/homfa/herrors"
)

// FromSpec loads a textual DFA description:
//
//	|V| q0 #finals
//	f_1
//	…
//	f_{#finals}
//	v_0 c0_0 c1_0
//	…
//	v_{|V|-1} c0_{|V|-1} c1_{|V|-1}
//
// Fails with BadSpec on duplicate vertex IDs, out-of-range children,
// missing vertices, or an inconsistent header.
func FromSpec(path string) (*Graph, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, herrors.Wrapf(herrors.BadSpec, "graph.FromSpec", "opening %s: %v", path, err)
	}
	defer f.Close()
	return ParseSpec(f)
}

// ParseSpec parses the same textual format as FromSpec from an
// arbitrary reader (used directly by ltl.Compile, which reads the
// external translator's stdout rather than a file on disk).
func ParseSpec(r io.Reader) (*Graph, error) {
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), 16*1024*1024)

	line, ok := nextLine(sc)
	if !ok {
		return nil, herrors.New(herrors.BadSpec, "graph.ParseSpec", "empty input")
	}
	fields := strings.Fields(line)
	if len(fields) != 3 {
		return nil, herrors.New(herrors.BadSpec, "graph.ParseSpec", "header must have exactly 3 fields: |V| q0 #finals")
	}
	numV, err1 := strconv.Atoi(fields[0])
	q0, err2 := strconv.Atoi(fields[1])
	numFinals, err3 := strconv.Atoi(fields[2])
	if err1 != nil || err2 != nil || err3 != nil {
		return nil, herrors.New(herrors.BadSpec, "graph.ParseSpec", "header fields must be integers")
	}
	if numV < 1 {
		return nil, herrors.New(herrors.BadSpec, "graph.ParseSpec", "|V| must be at least 1")
	}
	if q0 < 0 || q0 >= numV {
		return nil, herrors.New(herrors.BadSpec, "graph.ParseSpec", "q0 out of range")
	}
	if numFinals < 0 || numFinals > numV {
		return nil, herrors.New(herrors.BadSpec, "graph.ParseSpec", "#finals out of range")
	}

	final := make(map[int]bool, numFinals)
	for i := 0; i < numFinals; i++ {
		line, ok := nextLine(sc)
		if !ok {
			return nil, herrors.New(herrors.BadSpec, "graph.ParseSpec", "truncated final-vertex list")
		}
		id, err := strconv.Atoi(strings.TrimSpace(line))
		if err != nil || id < 0 || id >= numV {
			return nil, herrors.Wrapf(herrors.BadSpec, "graph.ParseSpec", "invalid final vertex id %q", line)
		}
		if final[id] {
			return nil, herrors.Wrapf(herrors.BadSpec, "graph.ParseSpec", "duplicate final vertex id %d", id)
		}
		final[id] = true
	}

	child0 := make([]int, numV)
	child1 := make([]int, numV)
	seen := make([]bool, numV)
	for i := 0; i < numV; i++ {
		line, ok := nextLine(sc)
		if !ok {
			return nil, herrors.New(herrors.BadSpec, "graph.ParseSpec", "truncated transition table")
		}
		fields := strings.Fields(line)
		if len(fields) != 3 {
			return nil, herrors.Wrapf(herrors.BadSpec, "graph.ParseSpec", "transition line must have 3 fields: %q", line)
		}
		v, e1 := strconv.Atoi(fields[0])
		c0, e2 := strconv.Atoi(fields[1])
		c1, e3 := strconv.Atoi(fields[2])
		if e1 != nil || e2 != nil || e3 != nil {
			return nil, herrors.Wrapf(herrors.BadSpec, "graph.ParseSpec", "non-integer transition fields: %q", line)
		}
		if v < 0 || v >= numV {
			return nil, herrors.Wrapf(herrors.BadSpec, "graph.ParseSpec", "vertex id %d out of range", v)
		}
		if seen[v] {
			return nil, herrors.Wrapf(herrors.BadSpec, "graph.ParseSpec", "duplicate vertex id %d", v)
		}
		seen[v] = true
		if c0 < 0 || c0 >= numV || c1 < 0 || c1 >= numV {
			return nil, herrors.Wrapf(herrors.BadSpec, "graph.ParseSpec", "vertex %d: child out of range", v)
		}
		child0[v] = c0
		child1[v] = c1
	}
	for v := 0; v < numV; v++ {
		if !seen[v] {
			return nil, herrors.Wrapf(herrors.BadSpec, "graph.ParseSpec", "missing transition line for vertex %d", v)
		}
	}
	if err := sc.Err(); err != nil {
		return nil, herrors.Wrapf(herrors.BadSpec, "graph.ParseSpec", "reading spec: %v", err)
	}

	return New(q0, final, child0, child1)
}

func nextLine(sc *bufio.Scanner) (string, bool) {
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if line == "" {
			continue
		}
		return line, true
	}
	return "", false
}

// Dump serializes g back to the textual spec format.
func (g *Graph) Dump(w io.Writer) error {
	bw := bufio.NewWriter(w)
	fmt.Fprintf(bw, "%d %d %d\n", g.VertexCount(), g.q0, g.FinalCount())
	for v := 0; v < g.VertexCount(); v++ {
		if g.IsFinal(v) {
			fmt.Fprintf(bw, "%d\n", v)
		}
	}
	for v := 0; v < g.VertexCount(); v++ {
		fmt.Fprintf(bw, "%d %d %d\n", v, g.child0[v], g.child1[v])
	}
	return bw.Flush()
}

// DumpDot serializes g as a Graphviz DOT digraph, with dashed edges for
// the 0-labeled transition and solid edges for the 1-labeled one,
// matching the style a reader would expect from `dot -Tpng`.
func (g *Graph) DumpDot(w io.Writer) error {
	bw := bufio.NewWriter(w)
	fmt.Fprintln(bw, "digraph DFA {")
	fmt.Fprintln(bw, "  rankdir=LR;")
	for v := 0; v < g.VertexCount(); v++ {
		shape := "circle"
		if g.IsFinal(v) {
			shape = "doublecircle"
		}
		fmt.Fprintf(bw, "  q%d [shape=%s];\n", v, shape)
	}
	fmt.Fprintf(bw, "  start [shape=point];\n  start -> q%d;\n", g.q0)
	for v := 0; v < g.VertexCount(); v++ {
		fmt.Fprintf(bw, "  q%d -> q%d [style=dashed, label=\"0\"];\n", v, g.child0[v])
		fmt.Fprintf(bw, "  q%d -> q%d [style=solid, label=\"1\"];\n", v, g.child1[v])
	}
	fmt.Fprintln(bw, "}")
	return bw.Flush()
}
