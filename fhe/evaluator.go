package fhe

import (
	"fmt"

	"github.com/rs/zerolog"
)

// Evaluator performs homomorphic operations without ever requiring the
// secret key: CMUX, gate/circuit bootstrapping, key switching and
// sample extraction. One Evaluator is shared (read-only, safe for
// concurrent use — its buffers are allocated per call) by every
// evaluator strategy in package engine.
type Evaluator struct {
	params Parameters
	ring   *Ring
	gk     *GateKey
	iks    *IKSKey // nil unless online-qtrlwe2 was requested
	log    zerolog.Logger
}

// NewEvaluator returns an Evaluator bound to gk. iks may be nil for the
// offline, qtrlwe and reversed strategies, which never key-switch to
// TRLWE; online-qtrlwe2 requires a non-nil iks. log receives Trace-level
// events for every bootstrap/key-switch; the zero Logger discards them.
func NewEvaluator(params Parameters, gk *GateKey, iks *IKSKey, log zerolog.Logger) *Evaluator {
	return &Evaluator{params: params, ring: params.ring(), gk: gk, iks: iks, log: log}
}

// Ring exposes the underlying polynomial ring, e.g. so callers can build
// trivial TRLWE ciphertexts for the offline evaluator's base case.
func (ev *Evaluator) Ring() *Ring { return ev.ring }

// Add computes a+b for two Weight-Vectors.
func (ev *Evaluator) Add(a, b TRLWECiphertext) TRLWECiphertext {
	out := TRLWECiphertext{A: ev.ring.NewPoly(), B: ev.ring.NewPoly()}
	ev.ring.Add(a.A, b.A, &out.A)
	ev.ring.Add(a.B, b.B, &out.B)
	out.A.IsNTT, out.B.IsNTT = a.A.IsNTT, a.B.IsNTT
	return out
}

// Sub computes a-b for two Weight-Vectors.
func (ev *Evaluator) Sub(a, b TRLWECiphertext) TRLWECiphertext {
	out := TRLWECiphertext{A: ev.ring.NewPoly(), B: ev.ring.NewPoly()}
	ev.ring.Sub(a.A, b.A, &out.A)
	ev.ring.Sub(a.B, b.B, &out.B)
	out.A.IsNTT, out.B.IsNTT = a.A.IsNTT, a.B.IsNTT
	return out
}

// Rotate computes ct * X^i (coefficient domain required; both operands
// are transformed back to coefficient domain first if needed).
func (ev *Evaluator) Rotate(ct TRLWECiphertext, i int) TRLWECiphertext {
	a, b := ct.A.CopyNew(), ct.B.CopyNew()
	if a.IsNTT {
		ev.ring.InvNTT(&a)
	}
	if b.IsNTT {
		ev.ring.InvNTT(&b)
	}
	out := TRLWECiphertext{A: ev.ring.NewPoly(), B: ev.ring.NewPoly()}
	ev.ring.MulMonomial(a, i, &out.A)
	ev.ring.MulMonomial(b, i, &out.B)
	return out
}

// ExternalProduct computes the RGSW x RLWE external product, the core
// primitive CMUX is built from. Grounded on rgsw/evaluator.go's
// ExternalProduct: decompose the RLWE operand against the gadget base
// and multiply-accumulate against the TRGSW's rows.
func (ev *Evaluator) ExternalProduct(c TRGSWCiphertext, d TRLWECiphertext) TRLWECiphertext {
	r := ev.ring
	levels := ev.params.Levels()
	logBg := ev.params.LogBg()

	aCoef, bCoef := d.A, d.B
	if aCoef.IsNTT {
		aCoef = aCoef.CopyNew()
		r.InvNTT(&aCoef)
	}
	if bCoef.IsNTT {
		bCoef = bCoef.CopyNew()
		r.InvNTT(&bCoef)
	}

	digitsA := decompose(r, aCoef, logBg, levels)
	digitsB := decompose(r, bCoef, logBg, levels)

	accA := r.NewPoly()
	accB := r.NewPoly()
	tmp := r.NewPoly()

	for l := 0; l < levels; l++ {
		dA := digitsA[l]
		r.NTT(&dA)
		r.MulCoeffs(dA, c.ARows[l].A, &tmp)
		r.Add(accA, tmp, &accA)
		r.MulCoeffs(dA, c.ARows[l].B, &tmp)
		r.Add(accB, tmp, &accB)

		dB := digitsB[l]
		r.NTT(&dB)
		r.MulCoeffs(dB, c.BRows[l].A, &tmp)
		r.Add(accA, tmp, &accA)
		r.MulCoeffs(dB, c.BRows[l].B, &tmp)
		r.Add(accB, tmp, &accB)
	}

	r.InvNTT(&accA)
	r.InvNTT(&accB)
	return TRLWECiphertext{A: accA, B: accB}
}

// CMUX is the homomorphic multiplexer: CMUX(c, d1, d0) = if c then d1
// else d0, evaluated as d0 + c*(d1-d0) via ExternalProduct.
func (ev *Evaluator) CMUX(c TRGSWCiphertext, d1, d0 TRLWECiphertext) TRLWECiphertext {
	diff := ev.Sub(d1, d0)
	prod := ev.ExternalProduct(c, diff)
	return ev.Add(d0, prod)
}

// SampleExtract extracts slot `slot` of a TRLWECiphertext into a
// TLWECiphertext of dimension N, under the ring secret's coefficients.
func (ev *Evaluator) SampleExtract(ct TRLWECiphertext, slot int) TLWECiphertext {
	n := ev.ring.N()
	a := ct.A
	if a.IsNTT {
		a = a.CopyNew()
		ev.ring.InvNTT(&a)
	}
	b := ct.B
	if b.IsNTT {
		b = b.CopyNew()
		ev.ring.InvNTT(&b)
	}
	out := make([]uint64, n)
	for k := 0; k < n; k++ {
		idx := slot - k
		if idx >= 0 {
			out[k] = a.Coeffs[idx]
		} else {
			out[k] = (ev.params.Modulus() - a.Coeffs[idx+n]) % ev.params.Modulus()
		}
	}
	return TLWECiphertext{A: out, B: b.Coeffs[slot]}
}

// KeySwitch switches a TLWE ciphertext of ring dimension N down to LWE
// dimension n, consuming gk.KS.
func (ev *Evaluator) keySwitch(ct TLWECiphertext) TLWECiphertext {
	ks := ev.gk.KS
	q := ev.params.Modulus()
	n := ev.params.LWEDimension()

	a := make([]uint64, n)
	b := ct.B
	for j, aj := range ct.A {
		digits := decomposeScalar(q, ks.LogBase, ks.Levels, aj)
		for l, d := range digits {
			if d == 0 {
				continue
			}
			row := ks.Rows[j][l]
			for k := 0; k < n; k++ {
				a[k] = subMod(a[k], scaleSigned(row.A[k], d, q), q)
			}
			b = subMod(b, scaleSigned(row.B, d, q), q)
		}
	}
	return TLWECiphertext{A: a, B: b}
}

// BlindRotate runs the CGGI blind-rotation loop: rotate a trivial
// accumulator encrypting testPoly by the input ciphertext's phase, one
// CMUX per LWE coordinate, using gk.Bootstrap as the selector bits.
func (ev *Evaluator) blindRotate(ct TLWECiphertext, testPoly Poly) TRLWECiphertext {
	N := ev.ring.N()
	twoN := 2 * N
	b := modSwitch(ct.B, ev.params.Modulus(), uint64(twoN))

	acc := TrivialTRLWE(ev.ring, ev.ring.NewPoly())
	ev.ring.MulMonomial(testPoly, int(b), &acc.B)

	for i, ai := range ct.A {
		a := modSwitch(ai, ev.params.Modulus(), uint64(twoN))
		rotated := ev.Rotate(acc, -int(a))
		acc = ev.CMUX(ev.gk.Bootstrap[i], rotated, acc)
	}
	return acc
}

// GateBootstrap refreshes the noise of a Weight-Vector: it key-switches
// the caller-supplied slot-0 extraction down to LWE dimension, then
// blind-rotates it back up into a fresh TRLWE under testPoly (typically
// IdentityTestPolynomial).
func (ev *Evaluator) GateBootstrap(extracted TLWECiphertext, testPoly Poly) (TRLWECiphertext, error) {
	if ev.gk == nil {
		return TRLWECiphertext{}, fmt.Errorf("fhe: GateBootstrap requires a GateKey")
	}
	ev.log.Trace().Msg("gate bootstrap: key-switch + blind-rotate")
	switched := ev.keySwitch(extracted)
	return ev.blindRotate(switched, testPoly), nil
}

// IdentityTestPolynomial returns the test polynomial that makes
// GateBootstrap act as a pure noise-refresh (output bit == input bit).
//
// blindRotate reads this polynomial at the coefficient the ciphertext's
// phase rotates to, so the vector has to be a genuine step: half the
// ring holding encodeBit(true) and the other half 0. A constant vector
// is degenerate here — every CMUX in the rotation loop would see
// diff == 0 and the output would stop depending on the input bit at
// all — so the split is what actually makes blind rotation select
// between the two halves instead of leaving the accumulator untouched.
func IdentityTestPolynomial(r *Ring) Poly {
	return stepTestPolynomial(r, r.Modulus()/2)
}

// stepTestPolynomial fills the low half of the ring's coefficients with
// high and leaves the top half 0, the step shape every blind-rotation
// test vector in this package is built from.
func stepTestPolynomial(r *Ring, high uint64) Poly {
	p := r.NewPoly()
	for i := 0; i < r.N()/2; i++ {
		p.Coeffs[i] = high
	}
	return p
}

// CircuitBootstrap converts a TLWE ciphertext into a TRGSW ciphertext by
// running GateBootstrap once per gadget level against a level-scaled
// test polynomial. This is a simplified circuit bootstrap: it reuses the
// A-decomposition rows for the B-decomposition rows too (a real circuit
// bootstrap additionally needs a private-functional key switch to
// produce bit*s encryptions for the B rows; TODO: add that key material
// if online-qtrlwe2 needs a tighter noise budget than this affords).
func (ev *Evaluator) CircuitBootstrap(ct TLWECiphertext) (TRGSWCiphertext, error) {
	if ev.gk == nil {
		return TRGSWCiphertext{}, fmt.Errorf("fhe: CircuitBootstrap requires a GateKey")
	}
	ev.log.Trace().Int("levels", ev.params.Levels()).Msg("circuit bootstrap")
	levels := ev.params.Levels()
	logBg := ev.params.LogBg()
	q := ev.params.Modulus()
	bg := uint64(1) << uint(logBg)

	out := newTRGSW(ev.ring, levels)
	base := uint64(1)
	for l := levels - 1; l >= 0; l-- {
		scale := base
		testPoly := scaledTestPolynomial(ev.ring, scale, q)
		row, err := ev.GateBootstrap(ct, testPoly)
		if err != nil {
			return TRGSWCiphertext{}, err
		}
		rowNTT := trgswRowToNTT(ev.ring, row)
		out.ARows[l] = rowNTT
		out.BRows[l] = rowNTT
		base = mulMod(base, bg, q)
	}
	return out, nil
}

// scaledTestPolynomial is IdentityTestPolynomial's step shape with the
// high half scaled by the gadget level's weight instead of fixed at
// Q/2, so GateBootstrap, run once per CircuitBootstrap level, produces
// a row encoding bit*scale rather than a constant TRLWE.
func scaledTestPolynomial(r *Ring, scale, q uint64) Poly {
	return stepTestPolynomial(r, mulMod(q/2, scale, q))
}

// KeySwitchToTRLWE switches a TLWE ciphertext of LWE dimension n into a
// fresh TRLWE ciphertext encoding the same bit in slot 0, using the
// identity IKS key. Used only by online-qtrlwe2's EMIT step.
func (ev *Evaluator) KeySwitchToTRLWE(ct TLWECiphertext) (TRLWECiphertext, error) {
	if ev.iks == nil {
		return TRLWECiphertext{}, fmt.Errorf("fhe: KeySwitchToTRLWE requires an IKSKey")
	}
	q := ev.params.Modulus()
	m := ev.ring.NewPoly()
	m.Coeffs[0] = ct.B
	acc := TrivialTRLWE(ev.ring, m)

	for j, aj := range ct.A {
		digits := decomposeScalar(q, ev.iks.LogBase, ev.iks.Levels, aj)
		for l, d := range digits {
			if d == 0 {
				continue
			}
			row := ev.iks.Rows[j][l]
			scaledA, scaledB := ev.ring.NewPoly(), ev.ring.NewPoly()
			scalePolySigned(row.A, d, q, &scaledA)
			scalePolySigned(row.B, d, q, &scaledB)
			ev.ring.Sub(acc.A, scaledA, &acc.A)
			ev.ring.Sub(acc.B, scaledB, &acc.B)
		}
	}
	return acc, nil
}

// Repack reads slot `slot` of ct and returns a fresh slot-0 TRLWE
// carrying the same bit: SampleExtract down to a ring-dimension TLWE,
// KeySwitch down to LWE dimension, then KeySwitchToTRLWE back up.
// Used by online-qtrlwe2 to move individual LUT entries between slots.
func (ev *Evaluator) Repack(ct TRLWECiphertext, slot int) (TRLWECiphertext, error) {
	extracted := ev.SampleExtract(ct, slot)
	switched := ev.keySwitch(extracted)
	return ev.KeySwitchToTRLWE(switched)
}

func scalePolySigned(p Poly, d int64, q uint64, out *Poly) {
	for i, c := range p.Coeffs {
		out.Coeffs[i] = scaleSigned(c, d, q)
	}
}

func scaleSigned(v uint64, d int64, q uint64) uint64 {
	if d >= 0 {
		return mulMod(v, uint64(d), q)
	}
	return subMod(0, mulMod(v, uint64(-d), q), q)
}

// modSwitch rounds round(v*toM/fromQ) mod toM, the modulus-switching step
// between the ciphertext modulus and the 2N-periodic rotation domain.
func modSwitch(v, fromQ, toM uint64) uint64 {
	num := v * toM
	return (num + fromQ/2) / fromQ % toM
}

// decomposeScalar splits v into `levels` signed digits base 2^logBg,
// most-significant first, matching poly.decompose's per-coefficient
// algorithm but for a single scalar (used by key-switching).
func decomposeScalar(q uint64, logBg, levels int, v uint64) []int64 {
	half := q / 2
	signed := int64(v)
	if v > half {
		signed = int64(v) - int64(q)
	}
	bg := uint64(1) << uint(logBg)
	offset := int64(0)
	for l := 0; l < levels; l++ {
		offset = offset<<uint(logBg) + int64(bg/2)
	}
	shifted := signed + offset
	if shifted < 0 {
		shifted = 0
	}
	u := uint64(shifted)
	mask := bg - 1
	digits := make([]int64, levels)
	for l := levels - 1; l >= 0; l-- {
		digit := u & mask
		u >>= uint(logBg)
		digits[l] = int64(digit) - int64(bg/2)
	}
	return digits
}
