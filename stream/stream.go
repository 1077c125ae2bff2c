// Package stream implements the forward and reversed input adapters:
// single-pass, non-restartable, not-thread-safe lazy sequences of
// FFT-domain TRGSW ciphertexts (fhe.APBit) read from a serialized blob.
//
// Bit ordering is fixed LSB-first per byte: BitsFromBytes/BytesFromBits
// and EncryptBits are the canonical encode/decode path the CLI and the
// tests share.
package stream

import (
	"encoding/binary"
	"errors"
	"io"

	"github.com/lfsec/homfa/fhe"
	"github.com/lfsec/homfa/herrors"
)

// ErrEndOfStream is the normal termination signal for next(); it is
// deliberately not an herrors.Kind.
var ErrEndOfStream = errors.New("stream: end of stream")

// Blob is the length-prefixed on-disk ciphertext archive format:
// a 4-byte little-endian count followed by that many fhe.APBit
// records.
type Blob struct {
	N     int // ring degree, needed to size each APBit on read
	Count uint32
	APs   []fhe.APBit // populated when read fully into memory
}

// WriteBlob writes aps as a length-prefixed ciphertext blob.
func WriteBlob(w io.Writer, aps []fhe.APBit) error {
	var hdr [4]byte
	binary.LittleEndian.PutUint32(hdr[:], uint32(len(aps)))
	if _, err := w.Write(hdr[:]); err != nil {
		return herrors.Wrapf(herrors.BadInput, "stream.WriteBlob", "writing header: %v", err)
	}
	for i, ap := range aps {
		if _, err := ap.WriteTo(w); err != nil {
			return herrors.Wrapf(herrors.BadInput, "stream.WriteBlob", "writing AP-Bit %d: %v", i, err)
		}
	}
	return nil
}

// ReadBlob reads a full ciphertext blob of ring degree n into memory.
// Forward/Reversed are built from the result.
func ReadBlob(r io.Reader, n int) ([]fhe.APBit, error) {
	var hdr [4]byte
	if _, err := io.ReadFull(r, hdr[:]); err != nil {
		return nil, herrors.Wrapf(herrors.BadInput, "stream.ReadBlob", "reading header: %v", err)
	}
	count := binary.LittleEndian.Uint32(hdr[:])
	aps := make([]fhe.APBit, count)
	for i := range aps {
		if _, err := aps[i].ReadFrom(r, n); err != nil {
			return nil, herrors.Wrapf(herrors.BadInput, "stream.ReadBlob", "reading AP-Bit %d: %v", i, err)
		}
	}
	return aps, nil
}

// Forward is a single-pass, start-to-end adapter over a ciphertext blob.
type Forward struct {
	aps []fhe.APBit
	pos int
}

// NewForward wraps aps for forward (left-to-right) consumption.
func NewForward(aps []fhe.APBit) *Forward { return &Forward{aps: aps} }

// Size returns the remaining number of AP-Bits.
func (f *Forward) Size() int { return len(f.aps) - f.pos }

// Next yields the next ciphertext and decreases Size() by one.
func (f *Forward) Next() (fhe.APBit, error) {
	if f.pos >= len(f.aps) {
		return fhe.APBit{}, ErrEndOfStream
	}
	ap := f.aps[f.pos]
	f.pos++
	return ap, nil
}

// Reversed enumerates the same blob from end to start.
type Reversed struct {
	aps []fhe.APBit
	pos int // next index to yield, counting down from len(aps)-1
}

// NewReversed wraps aps for backward (right-to-left) consumption.
func NewReversed(aps []fhe.APBit) *Reversed { return &Reversed{aps: aps, pos: len(aps) - 1} }

// Size returns the remaining number of AP-Bits.
func (r *Reversed) Size() int { return r.pos + 1 }

// Next yields the next ciphertext (from the tail of the blob backward)
// and decreases Size() by one.
func (r *Reversed) Next() (fhe.APBit, error) {
	if r.pos < 0 {
		return fhe.APBit{}, ErrEndOfStream
	}
	ap := r.aps[r.pos]
	r.pos--
	return ap, nil
}
