package fhe

// TLWECiphertext is the single-bit ciphertext: an LWE sample (A, B)
// under the LWE secret of dimension n, encrypting one bit in its
// constant term.
type TLWECiphertext struct {
	A []uint64 // length n
	B uint64
}

// AcceptanceBit is the TLWE ciphertext an evaluator produces as its
// final accept/reject result.
type AcceptanceBit = TLWECiphertext

// TRLWECiphertext is the integer-packed polynomial ciphertext: a TRLWE
// sample (A, B) of ring polynomials, packing up to N plaintext slots.
type TRLWECiphertext struct {
	A, B Poly
}

// WeightVector is the TRLWE accumulator the evaluator strategies carry:
// offline, qtrlwe and reversed keep one per vertex with its value in
// slot 0; online-qtrlwe2 also packs one LUT entry per slot.
type WeightVector = TRLWECiphertext

// CopyNew returns an independent deep copy.
func (ct TRLWECiphertext) CopyNew() TRLWECiphertext {
	return TRLWECiphertext{A: ct.A.CopyNew(), B: ct.B.CopyNew()}
}

// TRGSWCiphertext is a TRGSW ciphertext: a gadget matrix of 2*levels
// TRLWE rows held in NTT domain, encrypting one bit as the selector of a
// CMUX gate.
type TRGSWCiphertext struct {
	ARows []TRLWECiphertext // levels rows, gadget-encrypt bit*Bg^i against A
	BRows []TRLWECiphertext // levels rows, gadget-encrypt bit*Bg^i against B
}

// APBit is the FFT-domain TRGSW ciphertext consumed once per evaluation
// step, encrypting one stream symbol's atomic-proposition bit.
type APBit = TRGSWCiphertext

func newTRGSW(r *Ring, levels int) TRGSWCiphertext {
	ct := TRGSWCiphertext{
		ARows: make([]TRLWECiphertext, levels),
		BRows: make([]TRLWECiphertext, levels),
	}
	for i := 0; i < levels; i++ {
		ct.ARows[i] = TRLWECiphertext{A: r.NewPoly(), B: r.NewPoly()}
		ct.BRows[i] = TRLWECiphertext{A: r.NewPoly(), B: r.NewPoly()}
	}
	return ct
}
