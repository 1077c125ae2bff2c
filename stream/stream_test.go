package stream

import (
	"bytes"
	"math/rand"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lfsec/homfa/fhe"
)

type testKit struct {
	params fhe.Parameters
	enc    *fhe.Encryptor
	dec    *fhe.Decryptor
	ev     *fhe.Evaluator
}

func newTestKit(t *testing.T) *testKit {
	t.Helper()
	params, err := fhe.NewParameters(3, 8, 97, 2, 3, 0)
	require.NoError(t, err)
	kg := fhe.NewKeyGenerator(params, rand.NewSource(3))
	sk := kg.GenSecretKey()
	return &testKit{
		params: params,
		enc:    fhe.NewEncryptor(params, sk),
		dec:    fhe.NewDecryptor(params, sk),
		ev:     fhe.NewEvaluator(params, nil, nil, zerolog.Nop()),
	}
}

// decodeAPBit decrypts an AP-Bit (TRGSW) by using it to select between a
// trivial encryption of 0 and a fresh encryption of 1, the same technique CMUX itself relies
// on — there is no direct TRGSW decrypt.
func (kit *testKit) decodeAPBit(ap fhe.APBit) bool {
	zero := fhe.TrivialTRLWE(kit.ev.Ring(), kit.ev.Ring().NewPoly())
	one := kit.enc.EncryptTRLWE(true)
	out := kit.ev.CMUX(ap, one, zero)
	return kit.dec.DecryptSlot(out, 0)
}

func TestBitsFromBytesRoundTrip(t *testing.T) {
	data := []byte{0x00, 0xFF, 0x5A, 0x01}
	bits := BitsFromBytes(data)
	require.Len(t, bits, 32)
	back := BytesFromBits(bits)
	assert.Equal(t, data, back)
}

func TestBitsFromBytesOrderIsLSBFirst(t *testing.T) {
	bits := BitsFromBytes([]byte{0x01})
	require.Len(t, bits, 8)
	assert.True(t, bits[0])
	for i := 1; i < 8; i++ {
		assert.False(t, bits[i])
	}
}

func TestBytesFromBitsPadsFinalByte(t *testing.T) {
	out := BytesFromBits([]bool{true, false, true})
	require.Len(t, out, 1)
	assert.Equal(t, byte(0x05), out[0])
}

func TestEncryptBitsAndBlobRoundTrip(t *testing.T) {
	kit := newTestKit(t)
	bits := BitsFromBytes([]byte{0x3C})
	aps := EncryptBits(kit.enc, bits)
	require.Len(t, aps, 8)

	var buf bytes.Buffer
	require.NoError(t, WriteBlob(&buf, aps))

	got, err := ReadBlob(&buf, kit.ev.Ring().N())
	require.NoError(t, err)
	require.Len(t, got, len(aps))

	for i, ap := range got {
		assert.Equal(t, bits[i], kit.decodeAPBit(ap), "bit %d", i)
	}
}

func TestForwardIteratesInOrder(t *testing.T) {
	kit := newTestKit(t)
	bits := []bool{true, false, true}
	aps := EncryptBits(kit.enc, bits)
	f := NewForward(aps)
	assert.Equal(t, 3, f.Size())
	for range bits {
		_, err := f.Next()
		require.NoError(t, err)
	}
	assert.Equal(t, 0, f.Size())
	_, err := f.Next()
	assert.ErrorIs(t, err, ErrEndOfStream)
}

func TestReversedIteratesBackward(t *testing.T) {
	kit := newTestKit(t)
	bits := []bool{true, false, true, true}
	aps := EncryptBits(kit.enc, bits)
	rv := NewReversed(aps)
	assert.Equal(t, len(bits), rv.Size())

	for i := len(bits) - 1; i >= 0; i-- {
		ap, err := rv.Next()
		require.NoError(t, err)
		assert.Equal(t, bits[i], kit.decodeAPBit(ap))
	}
	_, err := rv.Next()
	assert.ErrorIs(t, err, ErrEndOfStream)
}
