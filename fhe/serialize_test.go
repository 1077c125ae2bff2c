package fhe

import (
	"bytes"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestPolyWriteToReadFromRoundTrip(t *testing.T) {
	r := newRing(8, 97)
	p := r.NewPoly()
	for i := range p.Coeffs {
		p.Coeffs[i] = uint64(i*11 + 1)
	}
	var buf bytes.Buffer
	n, err := p.WriteTo(&buf)
	require.NoError(t, err)
	require.Equal(t, int64(p.BinarySize()), n)

	got := Poly{Coeffs: make([]uint64, 8)}
	_, err = got.ReadFrom(&buf)
	require.NoError(t, err)
	require.Equal(t, p.Coeffs, got.Coeffs)
}

func TestTLWECiphertextRoundTrip(t *testing.T) {
	kit := newTestKit(t, 0)
	ct := kit.enc.EncryptTLWE(true)
	var buf bytes.Buffer
	_, err := ct.WriteTo(&buf)
	require.NoError(t, err)

	var got TLWECiphertext
	_, err = got.ReadFrom(&buf)
	require.NoError(t, err)
	require.Equal(t, ct.A, got.A)
	require.Equal(t, ct.B, got.B)
	require.True(t, kit.dec.DecryptBit(got))
}

func TestTRLWECiphertextRoundTrip(t *testing.T) {
	kit := newTestKit(t, 0)
	ct := kit.enc.EncryptTRLWE(true)
	var buf bytes.Buffer
	_, err := ct.WriteTo(&buf)
	require.NoError(t, err)

	var got TRLWECiphertext
	_, err = got.ReadFrom(&buf, kit.ev.Ring().N())
	require.NoError(t, err)
	require.True(t, kit.dec.DecryptSlot(got, 0))
}

func TestTRGSWCiphertextRoundTrip(t *testing.T) {
	kit := newTestKit(t, 0)
	ct := kit.enc.EncryptAPBit(true)
	var buf bytes.Buffer
	_, err := ct.WriteTo(&buf)
	require.NoError(t, err)

	var got TRGSWCiphertext
	_, err = got.ReadFrom(&buf, kit.ev.Ring().N())
	require.NoError(t, err)
	require.Equal(t, len(ct.ARows), len(got.ARows))

	d0 := kit.enc.EncryptTRLWE(false)
	d1 := kit.enc.EncryptTRLWE(true)
	out := kit.ev.CMUX(got, d1, d0)
	require.True(t, kit.dec.DecryptSlot(out, 0))
}

func TestSecretKeyRoundTrip(t *testing.T) {
	params := testParams(t, 0)
	kg := NewKeyGenerator(params, rand.NewSource(1))
	sk := kg.GenSecretKey()

	var buf bytes.Buffer
	_, err := sk.WriteTo(&buf)
	require.NoError(t, err)

	got, err := ReadSecretKey(&buf, params)
	require.NoError(t, err)
	require.Equal(t, sk.SLWE, got.SLWE)
	require.Equal(t, sk.STRLWE.Coeffs, got.STRLWE.Coeffs)
}

func TestGateKeyRoundTrip(t *testing.T) {
	params := testParams(t, 0)
	kg := NewKeyGenerator(params, rand.NewSource(1))
	sk := kg.GenSecretKey()
	gk := kg.GenGateKey(sk)

	var buf bytes.Buffer
	_, err := gk.WriteTo(&buf)
	require.NoError(t, err)

	got, err := ReadGateKey(&buf, params)
	require.NoError(t, err)
	require.Equal(t, len(gk.Bootstrap), len(got.Bootstrap))
	require.Equal(t, gk.KS.LogBase, got.KS.LogBase)
	require.Equal(t, gk.KS.Levels, got.KS.Levels)
}

func TestIKSKeyRoundTrip(t *testing.T) {
	params := testParams(t, 0)
	kg := NewKeyGenerator(params, rand.NewSource(1))
	sk := kg.GenSecretKey()
	iks := kg.GenIKSKey(sk)

	var buf bytes.Buffer
	_, err := iks.WriteTo(&buf)
	require.NoError(t, err)

	got, err := ReadIKSKey(&buf, params)
	require.NoError(t, err)
	require.Equal(t, iks.LogBase, got.LogBase)
	require.Equal(t, iks.Levels, got.Levels)
	require.Equal(t, len(iks.Rows), len(got.Rows))
}
