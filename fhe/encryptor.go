package fhe

import "math/rand"

// Encryptor encrypts plaintext bits under a SecretKey. Only secret-key
// encryption is supported, matching rgsw.Encryptor's own restriction.
type Encryptor struct {
	params Parameters
	ring   *Ring
	sk     *SecretKey
	rnd    *rand.Rand
}

// NewEncryptor returns an Encryptor bound to sk.
func NewEncryptor(params Parameters, sk *SecretKey) *Encryptor {
	return &Encryptor{params: params, ring: params.ring(), sk: sk, rnd: rand.New(rand.NewSource(1))}
}

func (e *Encryptor) noise() uint64 {
	// Small symmetric error, rounded from a Gaussian approximated by the
	// sum of independent uniforms (a didactic stand-in for a discrete
	// Gaussian sampler).
	sum := 0.0
	for i := 0; i < 12; i++ {
		sum += e.rnd.Float64()
	}
	sum = (sum - 6) * e.sk.params.stdDev
	v := int64(sum)
	if v < 0 {
		return e.params.Modulus() - uint64(-v)
	}
	return uint64(v)
}

func encodeBit(bit bool, q uint64) uint64 {
	if bit {
		return q / 2
	}
	return 0
}

// decodeBit rounds an encoded value to the nearest of {0, Q/2}.
func decodeBit(v, q uint64) bool {
	half := q / 2
	quarter := q / 4
	d := v
	if d > half {
		d = q - d
	}
	return d > quarter
}

// EncryptTLWE encrypts bit as a TLWECiphertext under sk.SLWE.
func (e *Encryptor) EncryptTLWE(bit bool) TLWECiphertext {
	return e.encryptTLWE(encodeBit(bit, e.params.Modulus()))
}

func (e *Encryptor) encryptTLWE(msg uint64) TLWECiphertext {
	n := e.params.LWEDimension()
	q := e.params.Modulus()
	a := make([]uint64, n)
	acc := uint64(0)
	for i := range a {
		a[i] = uint64(e.rnd.Int63()) % q
		acc = addMod(acc, mulMod(a[i], e.sk.SLWE[i], q), q)
	}
	b := addMod(addMod(msg, acc, q), e.noise(), q)
	return TLWECiphertext{A: a, B: b}
}

// EncryptTRLWE encrypts bit into slot 0 of a fresh TRLWE ciphertext, the
// packed Weight-Vector form.
func (e *Encryptor) EncryptTRLWE(bit bool) TRLWECiphertext {
	return e.encryptTRLWEScalar(encodeBit(bit, e.params.Modulus()))
}

func (e *Encryptor) encryptTRLWEScalar(msg uint64) TRLWECiphertext {
	m := e.ring.NewPoly()
	m.Coeffs[0] = msg
	return e.encryptTRLWEPoly(m)
}

func (e *Encryptor) encryptTRLWEPoly(m Poly) TRLWECiphertext {
	r := e.ring
	q := e.params.Modulus()
	a := r.NewPoly()
	for i := range a.Coeffs {
		a.Coeffs[i] = uint64(e.rnd.Int63()) % q
	}
	aNTT := a.CopyNew()
	r.NTT(&aNTT)
	sNTT := e.sk.STRLWE.CopyNew()
	r.NTT(&sNTT)
	asNTT := r.NewPoly()
	r.MulCoeffs(aNTT, sNTT, &asNTT)
	as := asNTT
	r.InvNTT(&as)

	errPoly := r.NewPoly()
	for i := range errPoly.Coeffs {
		errPoly.Coeffs[i] = e.noise()
	}

	b := r.NewPoly()
	r.Add(m, as, &b)
	r.Add(b, errPoly, &b)
	return TRLWECiphertext{A: a, B: b}
}

// TrivialTRLWE returns a noiseless TRLWE ciphertext encrypting m (used
// as the base case of offline evaluation and as the blind-rotation test
// polynomial's initial accumulator).
func TrivialTRLWE(r *Ring, m Poly) TRLWECiphertext {
	return TRLWECiphertext{A: r.NewPoly(), B: m.CopyNew()}
}

// encryptTRGSWBit encrypts a selector bit as a TRGSW ciphertext: each
// gadget row of ARows/BRows encodes bit*Bg^i, following the same
// construction rgsw.Encryptor.Encrypt uses (add the scaled plaintext
// into the diagonal of the gadget matrix after a fresh RLWE
// encryption of zero).
func (e *Encryptor) encryptTRGSWBit(bit bool) TRGSWCiphertext {
	levels := e.params.Levels()
	logBg := e.params.LogBg()
	q := e.params.Modulus()
	ct := newTRGSW(e.ring, levels)

	var msg uint64
	if bit {
		msg = 1
	}
	base := uint64(1)
	bg := uint64(1) << uint(logBg)
	for l := levels - 1; l >= 0; l-- {
		zeroA := e.encryptTRLWEScalar(0)
		zeroB := e.encryptTRLWEScalar(0)
		scaled := mulMod(msg, base, q)
		zeroA.A.Coeffs[0] = addMod(zeroA.A.Coeffs[0], scaled, q)
		zeroB.B.Coeffs[0] = addMod(zeroB.B.Coeffs[0], scaled, q)
		ct.ARows[l] = trgswRowToNTT(e.ring, zeroA)
		ct.BRows[l] = trgswRowToNTT(e.ring, zeroB)
		base = mulMod(base, bg, q)
	}
	return ct
}

func trgswRowToNTT(r *Ring, ct TRLWECiphertext) TRLWECiphertext {
	a := ct.A.CopyNew()
	b := ct.B.CopyNew()
	r.NTT(&a)
	r.NTT(&b)
	return TRLWECiphertext{A: a, B: b}
}

// EncryptAPBit encrypts one atomic-proposition bit as an APBit (TRGSW),
// the form consumed by CMUX selectors and the unit produced by
// stream.Forward/Reversed.
func (e *Encryptor) EncryptAPBit(bit bool) APBit {
	return e.encryptTRGSWBit(bit)
}
