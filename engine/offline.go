package engine

import (
	"github.com/rs/zerolog"

	"github.com/lfsec/homfa/fhe"
	"github.com/lfsec/homfa/graph"
	"github.com/lfsec/homfa/herrors"
)

// Offline is the offline evaluator: backward dynamic
// programming over depth-indexed reachable-state sets, consuming the
// input stream in reverse order. N (the total input length) must be
// known up front to build the reachable-at-depth table.
type Offline struct {
	g          *graph.Graph
	ev         *fhe.Evaluator
	depths     *graph.DepthTable
	depth      int // current depth: weights is W_depth
	weights    map[int]fhe.WeightVector
	bootEvery  int
	stepsTaken int
	log        zerolog.Logger
}

// NewOffline builds the offline evaluator for an input of length n.
// bootstrapEvery is the periodic refresh interval (in CMUX-levels); pass 0 to
// disable bootstrapping (a Gate-Key is still required by GateBootstrap
// for the mandatory final refresh). log may be the zero Logger to
// discard progress events.
func NewOffline(g *graph.Graph, ev *fhe.Evaluator, n, bootstrapEvery int, log zerolog.Logger) (*Offline, error) {
	if n < 0 {
		return nil, herrors.New(herrors.BadConfig, "engine.NewOffline", "input length must be non-negative")
	}
	depths, err := g.ReserveStatesAtDepth(n)
	if err != nil {
		return nil, herrors.Wrap(herrors.BadConfig, "engine.NewOffline", err)
	}
	r := ev.Ring()
	weights := make(map[int]fhe.WeightVector)
	for _, v := range depths.At(n) {
		var m fhe.Poly
		if g.IsFinal(v) {
			m = slotOne(r)
		} else {
			m = r.NewPoly()
		}
		weights[v] = fhe.TrivialTRLWE(r, m)
	}
	return &Offline{g: g, ev: ev, depths: depths, depth: n, weights: weights, bootEvery: bootstrapEvery, log: log}, nil
}

// Step consumes the next reversed-order input bit (x_{depth-1}) and
// computes W_{depth-1} from W_depth.
func (o *Offline) Step(x fhe.APBit) error {
	if o.depth == 0 {
		return herrors.New(herrors.BadInput, "engine.Offline.Step", "no more steps expected: already at depth 0")
	}
	nextDepth := o.depth - 1
	newWeights := make(map[int]fhe.WeightVector, len(o.depths.At(nextDepth)))
	for _, v := range o.depths.At(nextDepth) {
		c0 := o.g.Child0(v)
		c1 := o.g.Child1(v)
		newWeights[v] = o.ev.CMUX(x, o.weights[c1], o.weights[c0])
	}
	o.weights = newWeights
	o.depth = nextDepth
	o.stepsTaken++
	o.log.Debug().Int("depth", o.depth).Int("live_vertices", len(o.weights)).Msg("offline step")

	if o.bootEvery > 0 && o.stepsTaken%o.bootEvery == 0 {
		if err := o.refresh(); err != nil {
			return err
		}
	}
	return nil
}

func (o *Offline) refresh() error {
	identity := fhe.IdentityTestPolynomial(o.ev.Ring())
	for v, w := range o.weights {
		extracted := o.ev.SampleExtract(w, 0)
		fresh, err := o.ev.GateBootstrap(extracted, identity)
		if err != nil {
			return herrors.Wrapf(herrors.Fatal, "engine.Offline.refresh", "vertex %d: %v", v, err)
		}
		o.weights[v] = fresh
	}
	return nil
}

// Result returns the final acceptance ciphertext W_0[q0], sample-
// extracted after a mandatory final refresh.
func (o *Offline) Result() (fhe.AcceptanceBit, error) {
	if o.depth != 0 {
		return fhe.AcceptanceBit{}, herrors.New(herrors.BadInput, "engine.Offline.Result", "input not fully consumed")
	}
	if err := o.refresh(); err != nil {
		return fhe.AcceptanceBit{}, err
	}
	w, ok := o.weights[o.g.Start()]
	if !ok {
		return fhe.AcceptanceBit{}, herrors.New(herrors.Fatal, "engine.Offline.Result", "q0 unreachable at depth 0")
	}
	return o.ev.SampleExtract(w, 0), nil
}

// SizeHint returns the number of remaining Step calls.
func (o *Offline) SizeHint() int { return o.depth }
