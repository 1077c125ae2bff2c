package fhe

// Poly is a polynomial in Z_Q[X]/(X^N+1), either in coefficient domain
// (IsNTT == false) or NTT ("FFT") domain (IsNTT == true).
type Poly struct {
	Coeffs []uint64
	IsNTT  bool
}

// CopyNew returns an independent copy of p.
func (p Poly) CopyNew() Poly {
	c := make([]uint64, len(p.Coeffs))
	copy(c, p.Coeffs)
	return Poly{Coeffs: c, IsNTT: p.IsNTT}
}

// Zero clears every coefficient of p in place.
func (p *Poly) Zero() {
	for i := range p.Coeffs {
		p.Coeffs[i] = 0
	}
}

// decompose splits the coefficients of p into `levels` signed digits base
// Bg=2^logBg, most-significant digit first, the standard TFHE/TRGSW
// gadget decomposition used by ExternalProduct. p must be in coefficient
// domain. Each returned Poly is itself later NTT-transformed by the
// caller before being used in a pointwise product against a TRGSW row.
func decompose(r *Ring, p Poly, logBg, levels int) []Poly {
	n := r.N()
	q := r.q
	half := q / 2
	bg := uint64(1) << uint(logBg)
	mask := bg - 1
	digits := make([]Poly, levels)
	for l := range digits {
		digits[l] = r.NewPoly()
	}
	// offset = (Bg/2)(1 + Bg + ... + Bg^(levels-1)), so subtracting Bg/2
	// from every digit below cancels it exactly.
	offset := int64(0)
	for l := 0; l < levels; l++ {
		offset = offset<<uint(logBg) + int64(bg/2)
	}
	for j := 0; j < n; j++ {
		// Center the coefficient into (-Q/2, Q/2] before decomposing so
		// that the reconstructed digits are signed and small, then carry
		// between digit planes exactly as a balanced base-Bg expansion.
		v := p.Coeffs[j]
		signed := int64(v)
		if v > half {
			signed = int64(v) - int64(q)
		}
		shifted := signed + offset
		if shifted < 0 {
			shifted = 0
		}
		u := uint64(shifted)
		for l := levels - 1; l >= 0; l-- {
			digit := u & mask
			u >>= uint(logBg)
			d := int64(digit) - int64(bg/2)
			var coeff uint64
			if d < 0 {
				coeff = q - uint64(-d)
			} else {
				coeff = uint64(d)
			}
			digits[l].Coeffs[j] = coeff
		}
	}
	return digits
}
