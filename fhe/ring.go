package fhe

// Ring implements arithmetic over Z_Q[X]/(X^N+1) for a single NTT-friendly
// modulus Q. It is the didactic, single-modulus analogue of an RNS ring:
// same butterfly/negacyclic-NTT shape, but without RNS limbs or
// Montgomery reduction, since a single 32-bit prime is plenty of
// headroom for boolean-circuit bootstrapping noise budgets.
type Ring struct {
	n      int
	q      uint64
	psi    []uint64 // powers of a primitive 2N-th root of unity, bit-reversed
	psiInv []uint64
	nInv   uint64
}

func newRing(n int, q uint64) *Ring {
	g := findPrimitive2NRoot(n, q)
	psi := make([]uint64, n)
	psiInv := make([]uint64, n)
	gInv := modInverse(g, q)
	p, pInv := uint64(1), uint64(1)
	for i := 0; i < n; i++ {
		psi[bitReverse(i, log2(n))] = p
		psiInv[bitReverse(i, log2(n))] = pInv
		p = mulMod(p, g, q)
		pInv = mulMod(pInv, gInv, q)
	}
	return &Ring{
		n:      n,
		q:      q,
		psi:    psi,
		psiInv: psiInv,
		nInv:   modInverse(uint64(n), q),
	}
}

func (r *Ring) N() int        { return r.n }
func (r *Ring) Modulus() uint64 { return r.q }

// NewPoly returns the zero polynomial.
func (r *Ring) NewPoly() Poly {
	return Poly{Coeffs: make([]uint64, r.n)}
}

// NTT transforms p in place from coefficient domain to NTT ("FFT") domain.
func (r *Ring) NTT(p *Poly) {
	n := r.n
	q := r.q
	c := p.Coeffs
	t := n
	for m := 1; m < n; m <<= 1 {
		t >>= 1
		for i := 0; i < m; i++ {
			j1 := 2 * i * t
			j2 := j1 + t - 1
			w := r.psi[m+i]
			for j := j1; j <= j2; j++ {
				u := c[j]
				v := mulMod(c[j+t], w, q)
				c[j] = addMod(u, v, q)
				c[j+t] = subMod(u, v, q)
			}
		}
	}
	p.IsNTT = true
}

// InvNTT transforms p in place from NTT domain back to coefficient domain.
func (r *Ring) InvNTT(p *Poly) {
	n := r.n
	q := r.q
	c := p.Coeffs
	t := 1
	for m := n; m > 1; m >>= 1 {
		j1 := 0
		h := m >> 1
		for i := 0; i < h; i++ {
			j2 := j1 + t - 1
			w := r.psiInv[h+i]
			for j := j1; j <= j2; j++ {
				u := c[j]
				v := c[j+t]
				c[j] = addMod(u, v, q)
				c[j+t] = mulMod(subMod(u, v, q), w, q)
			}
			j1 += 2 * t
		}
		t <<= 1
	}
	for i := range c {
		c[i] = mulMod(c[i], r.nInv, q)
	}
	p.IsNTT = false
}

// MulCoeffs multiplies two NTT-domain polynomials pointwise: out = a*b.
func (r *Ring) MulCoeffs(a, b Poly, out *Poly) {
	q := r.q
	for i := range out.Coeffs {
		out.Coeffs[i] = mulMod(a.Coeffs[i], b.Coeffs[i], q)
	}
}

// Mul multiplies two coefficient-domain polynomials via NTT, leaving both
// inputs untransformed.
func (r *Ring) Mul(a, b Poly, out *Poly) {
	ta, tb := a.CopyNew(), b.CopyNew()
	r.NTT(&ta)
	r.NTT(&tb)
	r.MulCoeffs(ta, tb, out)
	r.InvNTT(out)
}

// Add computes out = a + b coefficient-wise, valid in either domain.
func (r *Ring) Add(a, b Poly, out *Poly) {
	q := r.q
	for i := range out.Coeffs {
		out.Coeffs[i] = addMod(a.Coeffs[i], b.Coeffs[i], q)
	}
}

// Sub computes out = a - b coefficient-wise, valid in either domain.
func (r *Ring) Sub(a, b Poly, out *Poly) {
	q := r.q
	for i := range out.Coeffs {
		out.Coeffs[i] = subMod(a.Coeffs[i], b.Coeffs[i], q)
	}
}

// MulScalar multiplies every coefficient of a by a scalar.
func (r *Ring) MulScalar(a Poly, scalar uint64, out *Poly) {
	q := r.q
	s := scalar % q
	for i := range out.Coeffs {
		out.Coeffs[i] = mulMod(a.Coeffs[i], s, q)
	}
}

// MonomialXi returns the monomial X^i mod (X^N+1), reduced into [0,N)
// with the implicit sign flip of the negacyclic wraparound folded into
// the coefficient value (i.e. X^{N+i} == -X^i == (Q-1)*X^i).
func (r *Ring) MonomialXi(i int) Poly {
	p := r.NewPoly()
	n := r.n
	ii := ((i % (2 * n)) + 2*n) % (2 * n)
	if ii < n {
		p.Coeffs[ii] = 1
	} else {
		p.Coeffs[ii-n] = r.q - 1
	}
	return p
}

// MulMonomial computes out = a * X^i (coefficient domain), the negacyclic
// rotation behind Evaluator.Rotate and blind rotation.
func (r *Ring) MulMonomial(a Poly, i int, out *Poly) {
	n := r.n
	twoN := 2 * n
	ii := ((i % twoN) + twoN) % twoN
	tmp := make([]uint64, n)
	for j := 0; j < n; j++ {
		dst := (j + ii) % twoN
		if dst < n {
			tmp[dst] = addMod(tmp[dst], a.Coeffs[j], r.q)
		} else {
			dst -= n
			tmp[dst] = subMod(tmp[dst], a.Coeffs[j], r.q)
		}
	}
	copy(out.Coeffs, tmp)
}

func addMod(a, b, q uint64) uint64 {
	s := a + b
	if s >= q {
		s -= q
	}
	return s
}

func subMod(a, b, q uint64) uint64 {
	if a >= b {
		return a - b
	}
	return q - (b - a)
}

func mulMod(a, b, q uint64) uint64 {
	return (a * b) % q
}

func modPow(base, exp, q uint64) uint64 {
	result := uint64(1)
	base %= q
	for exp > 0 {
		if exp&1 == 1 {
			result = mulMod(result, base, q)
		}
		base = mulMod(base, base, q)
		exp >>= 1
	}
	return result
}

func modInverse(a, q uint64) uint64 {
	return modPow(a, q-2, q)
}

func log2(n int) int {
	l := 0
	for (1 << l) < n {
		l++
	}
	return l
}

func bitReverse(x, bits int) int {
	r := 0
	for i := 0; i < bits; i++ {
		r = (r << 1) | (x & 1)
		x >>= 1
	}
	return r
}

// findPrimitive2NRoot finds a primitive 2N-th root of unity mod q, which
// must satisfy 2N | q-1 (checked by NewParameters before a Ring is ever
// built from it).
func findPrimitive2NRoot(n int, q uint64) uint64 {
	order := uint64(2 * n)
	exp := (q - 1) / order
	for g := uint64(2); g < q; g++ {
		cand := modPow(g, exp, q)
		if isPrimitive2NRoot(cand, order, q) {
			return cand
		}
	}
	panic("fhe: no primitive 2N-th root of unity found for given modulus")
}

func isPrimitive2NRoot(g, order, q uint64) bool {
	if modPow(g, order, q) != 1 {
		return false
	}
	return modPow(g, order/2, q) != 1
}
