package fhe

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNTTRoundTrip(t *testing.T) {
	r := newRing(16, 97)
	p := r.NewPoly()
	for i := range p.Coeffs {
		p.Coeffs[i] = uint64(i * 3 % 97)
	}
	original := p.CopyNew()

	r.NTT(&p)
	assert.True(t, p.IsNTT)
	r.InvNTT(&p)
	assert.False(t, p.IsNTT)
	assert.Equal(t, original.Coeffs, p.Coeffs)
}

func TestMulMatchesSchoolbookNegacyclic(t *testing.T) {
	r := newRing(8, 97)
	a := r.NewPoly()
	b := r.NewPoly()
	a.Coeffs[1] = 3
	b.Coeffs[1] = 5
	// a = 3X, b = 5X -> a*b = 15*X^2
	out := r.NewPoly()
	r.Mul(a, b, &out)
	want := r.NewPoly()
	want.Coeffs[2] = 15
	assert.Equal(t, want.Coeffs, out.Coeffs)
}

func TestMulMonomialWrapsNegacyclically(t *testing.T) {
	r := newRing(8, 97)
	a := r.NewPoly()
	a.Coeffs[7] = 1 // X^7
	out := r.NewPoly()
	r.MulMonomial(a, 1, &out) // X^7 * X = X^8 = -1 (mod X^8+1)
	want := r.NewPoly()
	want.Coeffs[0] = 96 // -1 mod 97
	assert.Equal(t, want.Coeffs, out.Coeffs)
}

func TestMonomialXiWrapSign(t *testing.T) {
	r := newRing(8, 97)
	p := r.MonomialXi(8) // X^N == -1
	assert.Equal(t, uint64(96), p.Coeffs[0])
	p = r.MonomialXi(9) // X^(N+1) == -X
	assert.Equal(t, uint64(96), p.Coeffs[1])
}

func TestAddSub(t *testing.T) {
	r := newRing(8, 97)
	a, b := r.NewPoly(), r.NewPoly()
	a.Coeffs[0], b.Coeffs[0] = 50, 60
	sum, diff := r.NewPoly(), r.NewPoly()
	r.Add(a, b, &sum)
	r.Sub(a, b, &diff)
	assert.Equal(t, uint64(13), sum.Coeffs[0]) // 50+60=110 mod 97
	assert.Equal(t, uint64(87), diff.Coeffs[0]) // 50-60 = -10 mod 97
}
