package stream

import "github.com/lfsec/homfa/fhe"

// BitsFromBytes expands data into one bool per bit, LSB first within
// each byte — the canonical extraction order shared by the encrypt
// path and the plaintext test harness.
func BitsFromBytes(data []byte) []bool {
	bits := make([]bool, 0, 8*len(data))
	for _, b := range data {
		for i := 0; i < 8; i++ {
			bits = append(bits, (b>>uint(i))&1 == 1)
		}
	}
	return bits
}

// BytesFromBits packs bits (LSB first per byte) back into bytes,
// padding the final byte with zero bits if len(bits) is not a multiple
// of 8.
func BytesFromBits(bits []bool) []byte {
	out := make([]byte, (len(bits)+7)/8)
	for i, b := range bits {
		if !b {
			continue
		}
		out[i/8] |= 1 << uint(i%8)
	}
	return out
}

// EncryptBits encrypts each plaintext bit as an AP-Bit under enc, in
// order, ready to be written with WriteBlob.
func EncryptBits(enc *fhe.Encryptor, bits []bool) []fhe.APBit {
	aps := make([]fhe.APBit, len(bits))
	for i, b := range bits {
		aps[i] = enc.EncryptAPBit(b)
	}
	return aps
}
