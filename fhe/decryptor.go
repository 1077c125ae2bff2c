package fhe

// Decryptor decrypts ciphertexts under a SecretKey. Decryption is the
// only place in this engine where plaintext bits are ever materialized;
// it must never be reachable from evaluator code, only from the CLI's
// `decrypt` operation.
type Decryptor struct {
	params Parameters
	ring   *Ring
	sk     *SecretKey
}

// NewDecryptor returns a Decryptor bound to sk.
func NewDecryptor(params Parameters, sk *SecretKey) *Decryptor {
	return &Decryptor{params: params, ring: params.ring(), sk: sk}
}

// DecryptBit decrypts a TLWECiphertext (the Acceptance-Bit form) to a
// plaintext bool. ct may be at LWE dimension n (under SLWE, the form
// produced after a key switch) or at ring dimension N (under STRLWE's
// coefficients, the form SampleExtract produces directly) — the two
// never collide in size for realistic parameters, so the secret to use
// is determined by len(ct.A).
func (d *Decryptor) DecryptBit(ct TLWECiphertext) bool {
	q := d.params.Modulus()
	var secret []uint64
	switch len(ct.A) {
	case d.params.LWEDimension():
		secret = d.sk.SLWE
	case d.params.N():
		secret = d.sk.STRLWE.Coeffs
	default:
		panic("fhe: DecryptBit received a ciphertext of unrecognized dimension")
	}
	acc := uint64(0)
	for i, a := range ct.A {
		acc = addMod(acc, mulMod(a, secret[i], q), q)
	}
	m := subMod(ct.B, acc, q)
	return decodeBit(m, q)
}

// DecryptSlot decrypts slot index i of a TRLWECiphertext (Weight-Vector)
// to a plaintext bool. Package engine never calls it; tests use it to
// read Weight-Vectors directly.
func (d *Decryptor) DecryptSlot(ct TRLWECiphertext, slot int) bool {
	r := d.ring
	q := d.params.Modulus()

	aNTT := ct.A.CopyNew()
	if !aNTT.IsNTT {
		r.NTT(&aNTT)
	}
	sNTT := d.sk.STRLWE.CopyNew()
	r.NTT(&sNTT)
	asNTT := r.NewPoly()
	r.MulCoeffs(aNTT, sNTT, &asNTT)
	as := asNTT
	r.InvNTT(&as)

	b := ct.B.CopyNew()
	if b.IsNTT {
		r.InvNTT(&b)
	}

	mPoly := r.NewPoly()
	r.Sub(b, as, &mPoly)
	return decodeBit(mPoly.Coeffs[slot], q)
}
