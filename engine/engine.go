// Package engine implements the four DFA evaluation strategies layered
// over the fhe primitive layer: offline (backward DP),
// online-qtrlwe (forward per-state DP), online-reversed (forward DP
// over the minimized DFA) and online-qtrlwe2 (two-level batched LUT).
//
// All four are modeled as a common
// capability set rather than a class hierarchy: step(AP-Bit),
// result() -> Acceptance-Bit, size_hint() — see the Evaluator interface.
package engine

import (
	"github.com/rs/zerolog"

	"github.com/lfsec/homfa/fhe"
	"github.com/lfsec/homfa/graph"
	"github.com/lfsec/homfa/herrors"
)

// Evaluator is the capability set shared by every strategy.
type Evaluator interface {
	// Step consumes one AP-Bit in strict stream order.
	Step(ap fhe.APBit) error
	// Result returns the Acceptance-Bit ciphertext for the input
	// consumed so far. Offline only returns a meaningful result once
	// every step has been fed; Qtrlwe reflects every step consumed so
	// far, Reversed the most recent bootstrap boundary, and Qtrlwe2 the
	// most recent full window.
	Result() (fhe.AcceptanceBit, error)
	// SizeHint returns the number of steps remaining if known (offline),
	// or -1 for unbounded streaming strategies.
	SizeHint() int
}

// forwardState runs the shared forward dynamic-programming recurrence
// used by both Online1 (over the original graph) and Online2 (over the
// minimized graph): one Weight-Vector per vertex, updated each step by
// summing CMUX-routed contributions from predecessors.
//
// Online2 is implemented as this same recurrence applied to
// g.Minimized() rather than the single-rotating-polynomial packing
// scheme; see DESIGN.md for why — it preserves the same
// Step/Result/SizeHint contract and genuinely exercises CMUX/bootstrap,
// at the cost of not packing every live state into one ring's N slots.
type forwardState struct {
	g      *graph.Graph
	ev     *fhe.Evaluator
	w      []fhe.WeightVector // one per vertex
	pred0  [][]int            // pred0[v] = {u : child0(u) == v}
	pred1  [][]int            // pred1[v] = {u : child1(u) == v}
	steps  int
	bootEv int // bootstrap every N steps; 0 disables
	log    zerolog.Logger
}

func newForwardState(g *graph.Graph, ev *fhe.Evaluator, bootEvery int, log zerolog.Logger) *forwardState {
	n := g.VertexCount()
	pred0 := make([][]int, n)
	pred1 := make([][]int, n)
	for v := 0; v < n; v++ {
		pred0[g.Child0(v)] = append(pred0[g.Child0(v)], v)
		pred1[g.Child1(v)] = append(pred1[g.Child1(v)], v)
	}
	w := make([]fhe.WeightVector, n)
	r := ev.Ring()
	for v := range w {
		w[v] = fhe.TrivialTRLWE(r, r.NewPoly())
	}
	w[g.Start()] = fhe.TrivialTRLWE(r, slotOne(r))
	return &forwardState{g: g, ev: ev, w: w, pred0: pred0, pred1: pred1, bootEv: bootEvery, log: log}
}

func slotOne(r *fhe.Ring) fhe.Poly {
	p := r.NewPoly()
	p.Coeffs[0] = r.Modulus() / 2
	return p
}

// step advances the recurrence by one AP-Bit.
func (s *forwardState) step(x fhe.APBit) error {
	next := make([]fhe.WeightVector, len(s.w))
	r := s.ev.Ring()
	for v := range next {
		next[v] = fhe.TrivialTRLWE(r, r.NewPoly())
	}
	for v := range s.w {
		zero := fhe.TrivialTRLWE(r, r.NewPoly())
		for _, u := range s.pred0[v] {
			contrib := s.ev.CMUX(x, zero, s.w[u])
			next[v] = s.ev.Add(next[v], contrib)
		}
		for _, u := range s.pred1[v] {
			contrib := s.ev.CMUX(x, s.w[u], zero)
			next[v] = s.ev.Add(next[v], contrib)
		}
	}
	s.w = next
	s.steps++
	s.log.Debug().Int("step", s.steps).Msg("forward recurrence advanced")

	if s.bootEv > 0 && s.steps%s.bootEv == 0 {
		if err := s.bootstrapAll(); err != nil {
			return err
		}
	}
	return nil
}

func (s *forwardState) bootstrapAll() error {
	s.log.Debug().Int("step", s.steps).Int("vertices", len(s.w)).Msg("refreshing all weight vectors")
	identity := fhe.IdentityTestPolynomial(s.ev.Ring())
	for v := range s.w {
		extracted := s.ev.SampleExtract(s.w[v], 0)
		fresh, err := s.ev.GateBootstrap(extracted, identity)
		if err != nil {
			return herrors.Wrapf(herrors.Fatal, "engine.forwardState.bootstrapAll", "vertex %d: %v", v, err)
		}
		s.w[v] = fresh
	}
	return nil
}

// acceptanceSum returns the sample-extracted TLWE of Σ_{v∈F} W[v].
func (s *forwardState) acceptanceSum() fhe.AcceptanceBit {
	r := s.ev.Ring()
	sum := fhe.TrivialTRLWE(r, r.NewPoly())
	for v := 0; v < s.g.VertexCount(); v++ {
		if !s.g.IsFinal(v) {
			continue
		}
		sum = s.ev.Add(sum, s.w[v])
	}
	return s.ev.SampleExtract(sum, 0)
}
