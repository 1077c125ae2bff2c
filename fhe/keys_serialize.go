package fhe

import (
	"encoding/binary"
	"io"
)

// WriteTo serializes sk: the LWE secret vector followed by the ring
// secret polynomial.
func (sk *SecretKey) WriteTo(w io.Writer) (int64, error) {
	var total int64
	if err := writeUint64Slice(w, sk.SLWE); err != nil {
		return total, err
	}
	total += int64(8 * len(sk.SLWE))
	n, err := sk.STRLWE.WriteTo(w)
	return total + n, err
}

// ReadSecretKey deserializes a SecretKey previously written by WriteTo.
func ReadSecretKey(r io.Reader, params Parameters) (*SecretKey, error) {
	sLWE, err := readUint64Slice(r, params.LWEDimension())
	if err != nil {
		return nil, err
	}
	s := Poly{Coeffs: make([]uint64, params.N())}
	if _, err := s.ReadFrom(r); err != nil {
		return nil, err
	}
	return &SecretKey{params: params, STRLWE: s, SLWE: sLWE}, nil
}

// WriteTo serializes gk: the n bootstrapping TRGSWs followed by the
// embedded key-switching key, the archive shape for a GateKey carrying
// its own IKS material.
func (gk *GateKey) WriteTo(w io.Writer) (int64, error) {
	var total int64
	var hdr [4]byte
	binary.LittleEndian.PutUint32(hdr[:], uint32(len(gk.Bootstrap)))
	if _, err := w.Write(hdr[:]); err != nil {
		return total, err
	}
	total += 4
	n := gk.params.N()
	for _, trgsw := range gk.Bootstrap {
		m, err := trgsw.WriteTo(w)
		total += m
		if err != nil {
			return total, err
		}
	}
	m, err := gk.KS.writeTo(w, n)
	return total + m, err
}

// ReadGateKey deserializes a GateKey previously written by WriteTo.
func ReadGateKey(r io.Reader, params Parameters) (*GateKey, error) {
	var hdr [4]byte
	if _, err := io.ReadFull(r, hdr[:]); err != nil {
		return nil, err
	}
	count := int(binary.LittleEndian.Uint32(hdr[:]))
	boot := make([]TRGSWCiphertext, count)
	for i := range boot {
		if _, err := boot[i].ReadFrom(r, params.N()); err != nil {
			return nil, err
		}
	}
	ks, err := readKeySwitchKey(r, params.N())
	if err != nil {
		return nil, err
	}
	return &GateKey{params: params, Bootstrap: boot, KS: ks}, nil
}

func (ks *KeySwitchKey) writeTo(w io.Writer, dim int) (int64, error) {
	var total int64
	var hdr [8]byte
	binary.LittleEndian.PutUint32(hdr[:4], uint32(ks.LogBase))
	binary.LittleEndian.PutUint32(hdr[4:], uint32(ks.Levels))
	if _, err := w.Write(hdr[:]); err != nil {
		return total, err
	}
	total += 8
	for _, row := range ks.Rows {
		for _, ct := range row {
			n, err := ct.WriteTo(w)
			total += n
			if err != nil {
				return total, err
			}
		}
	}
	return total, nil
}

func readKeySwitchKey(r io.Reader, dim int) (*KeySwitchKey, error) {
	var hdr [8]byte
	if _, err := io.ReadFull(r, hdr[:]); err != nil {
		return nil, err
	}
	logBase := int(binary.LittleEndian.Uint32(hdr[:4]))
	levels := int(binary.LittleEndian.Uint32(hdr[4:]))
	rows := make([][]TLWECiphertext, dim)
	for j := range rows {
		rows[j] = make([]TLWECiphertext, levels)
		for l := range rows[j] {
			if _, err := rows[j][l].ReadFrom(r); err != nil {
				return nil, err
			}
		}
	}
	return &KeySwitchKey{LogBase: logBase, Levels: levels, Rows: rows}, nil
}

// WriteTo serializes the identity key-switch key used only by
// online-qtrlwe2.
func (iks *IKSKey) WriteTo(w io.Writer) (int64, error) {
	var total int64
	var hdr [8]byte
	binary.LittleEndian.PutUint32(hdr[:4], uint32(iks.LogBase))
	binary.LittleEndian.PutUint32(hdr[4:], uint32(iks.Levels))
	if _, err := w.Write(hdr[:]); err != nil {
		return total, err
	}
	total += 8
	for _, row := range iks.Rows {
		for _, ct := range row {
			n, err := ct.WriteTo(w)
			total += n
			if err != nil {
				return total, err
			}
		}
	}
	return total, nil
}

// ReadIKSKey deserializes an IKSKey previously written by WriteTo.
func ReadIKSKey(r io.Reader, params Parameters) (*IKSKey, error) {
	var hdr [8]byte
	if _, err := io.ReadFull(r, hdr[:]); err != nil {
		return nil, err
	}
	logBase := int(binary.LittleEndian.Uint32(hdr[:4]))
	levels := int(binary.LittleEndian.Uint32(hdr[4:]))
	n := params.LWEDimension()
	rows := make([][]TRLWECiphertext, n)
	for j := range rows {
		rows[j] = make([]TRLWECiphertext, levels)
		for l := range rows[j] {
			if _, err := rows[j][l].ReadFrom(r, params.N()); err != nil {
				return nil, err
			}
		}
	}
	return &IKSKey{LogBase: logBase, Levels: levels, Rows: rows}, nil
}

func writeUint64Slice(w io.Writer, s []uint64) error {
	var buf [8]byte
	for _, v := range s {
		binary.LittleEndian.PutUint64(buf[:], v)
		if _, err := w.Write(buf[:]); err != nil {
			return err
		}
	}
	return nil
}

func readUint64Slice(r io.Reader, n int) ([]uint64, error) {
	out := make([]uint64, n)
	var buf [8]byte
	for i := range out {
		if _, err := io.ReadFull(r, buf[:]); err != nil {
			return nil, err
		}
		out[i] = binary.LittleEndian.Uint64(buf[:])
	}
	return out, nil
}
