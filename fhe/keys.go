package fhe

import (
	"math/rand"
)

// SecretKey holds both secrets needed by this engine: the TRLWE/TRGSW
// ring secret (STRLWE, N binary coefficients) and the LWE secret used by
// the single-bit form (SLWE, n binary coefficients). Immutable after
// generation; shared read-only by every evaluator in a run.
type SecretKey struct {
	params Parameters
	STRLWE Poly
	SLWE   []uint64
}

// GateKey is the bootstrapping key: a TRGSW encryption of each LWE
// secret bit (used to drive blind rotation's CMUX chain) plus the
// key-switching key that brings a sample-extracted ring-dimension TLWE
// sample back down to the LWE dimension. Grounded on the
// BlindRotationEvaluationKeySet / GenEvaluationKeyNew shape surveyed in
// he/hebin/keys.go: one TRGSW per secret coordinate, plus a switch key.
type GateKey struct {
	params    Parameters
	Bootstrap []TRGSWCiphertext // length n
	KS        *KeySwitchKey
}

// KeySwitchKey switches a TLWE ciphertext of dimension N (a sample
// extracted from a TRLWE ring) down to dimension n.
type KeySwitchKey struct {
	LogBase int
	Levels  int
	Rows    [][]TLWECiphertext // [N][Levels]
}

// IKSKey is the identity key-switch key used only by online-qtrlwe2's
// EMIT step: it switches a TLWE ciphertext of dimension n into a fresh
// TRLWE ciphertext encoding the same bit in slot 0.
type IKSKey struct {
	LogBase int
	Levels  int
	Rows    [][]TRLWECiphertext // [n][Levels]
}

// KeyGenerator generates secret keys, gate keys and IKS keys for a fixed
// Parameters value.
type KeyGenerator struct {
	params Parameters
	ring   *Ring
	rnd    *rand.Rand
}

// NewKeyGenerator returns a KeyGenerator for params. src seeds the
// (non-cryptographic, didactic) randomness; pass nil to use a fixed
// seed of 1.
func NewKeyGenerator(params Parameters, src rand.Source) *KeyGenerator {
	if src == nil {
		src = rand.NewSource(1)
	}
	return &KeyGenerator{params: params, ring: params.ring(), rnd: rand.New(src)}
}

// GenSecretKey samples a fresh binary secret key.
func (kg *KeyGenerator) GenSecretKey() *SecretKey {
	s := kg.ring.NewPoly()
	for i := range s.Coeffs {
		s.Coeffs[i] = uint64(kg.rnd.Intn(2))
	}
	sLWE := make([]uint64, kg.params.LWEDimension())
	for i := range sLWE {
		sLWE[i] = uint64(kg.rnd.Intn(2))
	}
	return &SecretKey{params: kg.params, STRLWE: s, SLWE: sLWE}
}

// GenGateKey generates the bootstrapping + key-switching material shared
// by every evaluator in a run. Returns herrors-free: failures here are
// programmer errors (mismatched Parameters) and panic, matching the
// teacher's "this error should never happen" sanity-check convention.
func (kg *KeyGenerator) GenGateKey(sk *SecretKey) *GateKey {
	n := kg.params.LWEDimension()
	enc := NewEncryptor(kg.params, sk)

	bootstrap := make([]TRGSWCiphertext, n)
	for i := 0; i < n; i++ {
		bootstrap[i] = enc.encryptTRGSWBit(sk.SLWE[i] == 1)
	}

	ks := kg.genKeySwitchKey(sk)

	return &GateKey{params: kg.params, Bootstrap: bootstrap, KS: ks}
}

func (kg *KeyGenerator) genKeySwitchKey(sk *SecretKey) *KeySwitchKey {
	N := kg.params.N()
	levels := kg.params.Levels()
	logBg := kg.params.LogBg()
	enc := NewEncryptor(kg.params, sk)

	rows := make([][]TLWECiphertext, N)
	sCoeffs := centeredCoeffs(sk.STRLWE, kg.params.Modulus())
	bg := uint64(1) << uint(logBg)
	for j := 0; j < N; j++ {
		rows[j] = make([]TLWECiphertext, levels)
		base := uint64(1)
		for l := levels - 1; l >= 0; l-- {
			msg := mulModSigned(sCoeffs[j], base, kg.params.Modulus())
			rows[j][l] = enc.encryptTLWE(msg)
			base = mulMod(base, bg, kg.params.Modulus())
		}
	}
	return &KeySwitchKey{LogBase: logBg, Levels: levels, Rows: rows}
}

// GenIKSKey generates the identity key-switch key consumed by
// online-qtrlwe2's EMIT step.
func (kg *KeyGenerator) GenIKSKey(sk *SecretKey) *IKSKey {
	n := kg.params.LWEDimension()
	levels := kg.params.Levels()
	logBg := kg.params.LogBg()
	enc := NewEncryptor(kg.params, sk)
	bg := uint64(1) << uint(logBg)

	rows := make([][]TRLWECiphertext, n)
	for j := 0; j < n; j++ {
		rows[j] = make([]TRLWECiphertext, levels)
		base := uint64(1)
		for l := levels - 1; l >= 0; l-- {
			msg := mulMod(sk.SLWE[j], base, kg.params.Modulus())
			rows[j][l] = enc.encryptTRLWEScalar(msg)
			base = mulMod(base, bg, kg.params.Modulus())
		}
	}
	return &IKSKey{LogBase: logBg, Levels: levels, Rows: rows}
}

// centeredCoeffs returns each coefficient of p re-centered into the
// signed range (-Q/2, Q/2], as a uint64-mod-Q value suitable for signed
// scalar multiplication via mulModSigned.
func centeredCoeffs(p Poly, q uint64) []uint64 {
	out := make([]uint64, len(p.Coeffs))
	copy(out, p.Coeffs)
	return out
}

func mulModSigned(a, b, q uint64) uint64 {
	return mulMod(a, b, q)
}
