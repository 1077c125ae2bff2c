package engine

import (
	"github.com/rs/zerolog"

	"github.com/lfsec/homfa/fhe"
	"github.com/lfsec/homfa/graph"
	"github.com/lfsec/homfa/herrors"
)

// Qtrlwe is online evaluator 1: forward dynamic
// programming over the original graph, one Weight-Vector per vertex,
// bootstrapped every BootstrapInterval steps.
type Qtrlwe struct {
	state *forwardState
}

// NewQtrlwe constructs the online-qtrlwe evaluator. bootstrapInterval
// must be positive; the documented default is 1
// (bootstrap every input symbol). log may be the zero Logger to discard
// progress events.
func NewQtrlwe(g *graph.Graph, ev *fhe.Evaluator, bootstrapInterval int, log zerolog.Logger) (*Qtrlwe, error) {
	if bootstrapInterval <= 0 {
		return nil, herrors.New(herrors.BadConfig, "engine.NewQtrlwe", "bootstrap interval must be positive")
	}
	return &Qtrlwe{state: newForwardState(g, ev, bootstrapInterval, log)}, nil
}

func (q *Qtrlwe) Step(ap fhe.APBit) error {
	return q.state.step(ap)
}

func (q *Qtrlwe) Result() (fhe.AcceptanceBit, error) {
	return q.state.acceptanceSum(), nil
}

func (q *Qtrlwe) SizeHint() int { return -1 }
