package fhe

import (
	"math/rand"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
)

// testParams returns small-but-NTT-valid Parameters (N=8, n=8) so key
// generation and bootstrapping stay cheap while still exercising every
// code path a production run would.
func testParams(t *testing.T, stdDev float64) Parameters {
	t.Helper()
	p, err := NewParameters(3, 8, 97, 2, 3, stdDev)
	require.NoError(t, err)
	return p
}

type testKit struct {
	params Parameters
	sk     *SecretKey
	ev     *Evaluator
	enc    *Encryptor
	dec    *Decryptor
}

func newTestKit(t *testing.T, stdDev float64) *testKit {
	t.Helper()
	params := testParams(t, stdDev)
	kg := NewKeyGenerator(params, rand.NewSource(42))
	sk := kg.GenSecretKey()
	gk := kg.GenGateKey(sk)
	iks := kg.GenIKSKey(sk)
	return &testKit{
		params: params,
		sk:     sk,
		ev:     NewEvaluator(params, gk, iks, zerolog.Nop()),
		enc:    NewEncryptor(params, sk),
		dec:    NewDecryptor(params, sk),
	}
}

func TestTLWEEncryptDecryptRoundTrip(t *testing.T) {
	kit := newTestKit(t, 0)
	for _, bit := range []bool{false, true} {
		ct := kit.enc.EncryptTLWE(bit)
		require.Equal(t, bit, kit.dec.DecryptBit(ct))
	}
}

func TestTRLWEEncryptDecryptRoundTrip(t *testing.T) {
	kit := newTestKit(t, 0)
	for _, bit := range []bool{false, true} {
		ct := kit.enc.EncryptTRLWE(bit)
		require.Equal(t, bit, kit.dec.DecryptSlot(ct, 0))
	}
}

func TestTLWEDecryptToleratesSmallNoise(t *testing.T) {
	kit := newTestKit(t, 0.5)
	for i := 0; i < 20; i++ {
		bit := i%2 == 0
		ct := kit.enc.EncryptTLWE(bit)
		require.Equal(t, bit, kit.dec.DecryptBit(ct))
	}
}

func TestCMUXSelectsBranch(t *testing.T) {
	kit := newTestKit(t, 0)
	d0 := kit.enc.EncryptTRLWE(false)
	d1 := kit.enc.EncryptTRLWE(true)

	selTrue := kit.enc.EncryptAPBit(true)
	out := kit.ev.CMUX(selTrue, d1, d0)
	require.True(t, kit.dec.DecryptSlot(out, 0))

	selFalse := kit.enc.EncryptAPBit(false)
	out = kit.ev.CMUX(selFalse, d1, d0)
	require.False(t, kit.dec.DecryptSlot(out, 0))
}

func TestGateBootstrapRefreshesWithoutChangingValue(t *testing.T) {
	kit := newTestKit(t, 0)
	identity := IdentityTestPolynomial(kit.ev.Ring())
	for _, bit := range []bool{false, true} {
		ct := kit.enc.EncryptTRLWE(bit)
		extracted := kit.ev.SampleExtract(ct, 0)
		fresh, err := kit.ev.GateBootstrap(extracted, identity)
		require.NoError(t, err)
		require.Equal(t, bit, kit.dec.DecryptSlot(fresh, 0))
	}
}

func TestCircuitBootstrapProducesUsableSelector(t *testing.T) {
	kit := newTestKit(t, 0)
	d0 := kit.enc.EncryptTRLWE(false)
	d1 := kit.enc.EncryptTRLWE(true)

	for _, bit := range []bool{false, true} {
		ct := kit.enc.EncryptTLWE(bit)
		trgsw, err := kit.ev.CircuitBootstrap(ct)
		require.NoError(t, err)
		out := kit.ev.CMUX(trgsw, d1, d0)
		require.Equal(t, bit, kit.dec.DecryptSlot(out, 0))
	}
}

func TestKeySwitchToTRLWEAndRepack(t *testing.T) {
	kit := newTestKit(t, 0)
	for _, bit := range []bool{false, true} {
		ct := kit.enc.EncryptTLWE(bit)
		trlwe, err := kit.ev.KeySwitchToTRLWE(ct)
		require.NoError(t, err)
		require.Equal(t, bit, kit.dec.DecryptSlot(trlwe, 0))

		packed := kit.ev.Add(trlwe, TrivialTRLWE(kit.ev.Ring(), kit.ev.Ring().NewPoly()))
		repacked, err := kit.ev.Repack(packed, 0)
		require.NoError(t, err)
		require.Equal(t, bit, kit.dec.DecryptSlot(repacked, 0))
	}
}

func TestRotateMovesSlot(t *testing.T) {
	kit := newTestKit(t, 0)
	ct := kit.enc.EncryptTRLWE(true)
	rotated := kit.ev.Rotate(ct, 3)
	require.True(t, kit.dec.DecryptSlot(rotated, 3))
}

func TestAddSubWeightVectors(t *testing.T) {
	kit := newTestKit(t, 0)
	zero := TrivialTRLWE(kit.ev.Ring(), kit.ev.Ring().NewPoly())
	one := kit.enc.EncryptTRLWE(true)
	sum := kit.ev.Add(zero, one)
	require.True(t, kit.dec.DecryptSlot(sum, 0))

	back := kit.ev.Sub(sum, one)
	require.False(t, kit.dec.DecryptSlot(back, 0))
}
