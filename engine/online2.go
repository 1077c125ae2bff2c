package engine

import (
	"github.com/rs/zerolog"

	"github.com/lfsec/homfa/fhe"
	"github.com/lfsec/homfa/graph"
	"github.com/lfsec/homfa/herrors"
)

// Reversed is online evaluator 2: folds the minimized DFA forward,
// re-using the same per-vertex recurrence as Qtrlwe (see forwardState's
// doc comment). It used to run the recurrence over g.Reversed().Minimized(),
// which computes accept(reverse(G), w) == accept(G, reverse(w)) instead of
// accept(G, w) — correct only for reverse-invariant languages. Reversing
// the transition graph and then reading the live stream forward can never
// yield accept(G, w): the subset-construction reversal is only equivalent
// to the original automaton when the input itself is fed in reverse, which
// an online, left-to-right evaluator cannot do without buffering the whole
// stream. So this folds forward over g.Minimized() instead: same per-vertex
// CMUX recurrence, same periodic refresh discipline, but the Weight-Vectors
// track reachability in the original transition direction, so every
// bootstrap boundary's Acceptance-Bit is accept(G, prefix-so-far).
// Every BootstrapInterval steps it refreshes the live Weight-Vectors and
// records a fresh Acceptance-Bit as the most recent result.
type Reversed struct {
	state     *forwardState
	last      fhe.AcceptanceBit
	haveLast  bool
	bootEvery int
}

// NewReversed builds the minimized DFA from g and constructs the
// evaluator over it. log may be the zero Logger to discard progress
// events.
func NewReversed(g *graph.Graph, ev *fhe.Evaluator, bootstrapInterval int, log zerolog.Logger) (*Reversed, error) {
	if bootstrapInterval <= 0 {
		return nil, herrors.New(herrors.BadConfig, "engine.NewReversed", "bootstrap interval must be positive")
	}
	log.Debug().Msg("minimizing graph")
	min, err := g.Minimized()
	if err != nil {
		return nil, herrors.Wrap(herrors.Fatal, "engine.NewReversed", err)
	}
	return &Reversed{state: newForwardState(min, ev, bootstrapInterval, log), bootEvery: bootstrapInterval}, nil
}

func (rv *Reversed) Step(ap fhe.APBit) error {
	if err := rv.state.step(ap); err != nil {
		return err
	}
	if rv.state.steps%rv.bootEvery == 0 {
		rv.last = rv.state.acceptanceSum()
		rv.haveLast = true
	}
	return nil
}

// Result returns the acceptance of the empty input while no step has
// been taken; after that, the Acceptance-Bit recorded at the most recent
// bootstrap boundary, or an error if no step has reached one yet.
func (rv *Reversed) Result() (fhe.AcceptanceBit, error) {
	if rv.state.steps == 0 {
		return rv.state.acceptanceSum(), nil
	}
	if !rv.haveLast {
		return fhe.AcceptanceBit{}, herrors.New(herrors.BadConfig, "engine.Reversed.Result", "no bootstrap boundary reached yet")
	}
	return rv.last, nil
}

func (rv *Reversed) SizeHint() int { return -1 }
