package fhe

import (
	"bufio"
	"encoding/binary"
	"io"
)

// BinarySize returns the serialized size of p in bytes.
func (p Poly) BinarySize() int { return 8 * len(p.Coeffs) }

// WriteTo writes p on w. It implements io.WriterTo, following the
// same WriteTo/ReadFrom convention as rgsw.Ciphertext, simplified to
// plain encoding/binary since a dedicated low-allocation writer isn't
// available here; see DESIGN.md.
func (p Poly) WriteTo(w io.Writer) (int64, error) {
	bw := bufio.NewWriter(w)
	var buf [8]byte
	for _, c := range p.Coeffs {
		binary.LittleEndian.PutUint64(buf[:], c)
		if _, err := bw.Write(buf[:]); err != nil {
			return 0, err
		}
	}
	return int64(p.BinarySize()), bw.Flush()
}

// ReadFrom reads N coefficients (p.Coeffs must already be sized) from r.
// It implements io.ReaderFrom.
func (p *Poly) ReadFrom(r io.Reader) (int64, error) {
	var buf [8]byte
	for i := range p.Coeffs {
		if _, err := io.ReadFull(r, buf[:]); err != nil {
			return 0, err
		}
		p.Coeffs[i] = binary.LittleEndian.Uint64(buf[:])
	}
	return int64(p.BinarySize()), nil
}

// WriteTo writes ct on w.
func (ct TRLWECiphertext) WriteTo(w io.Writer) (int64, error) {
	n1, err := ct.A.WriteTo(w)
	if err != nil {
		return n1, err
	}
	n2, err := ct.B.WriteTo(w)
	return n1 + n2, err
}

// ReadFrom reads a TRLWECiphertext of ring degree N from r.
func (ct *TRLWECiphertext) ReadFrom(r io.Reader, n int) (int64, error) {
	ct.A = Poly{Coeffs: make([]uint64, n)}
	ct.B = Poly{Coeffs: make([]uint64, n)}
	n1, err := ct.A.ReadFrom(r)
	if err != nil {
		return n1, err
	}
	n2, err := ct.B.ReadFrom(r)
	return n1 + n2, err
}

// WriteTo writes ct (an APBit) on w: a 4-byte level count followed by
// 2*levels NTT-domain TRLWE rows.
func (ct TRGSWCiphertext) WriteTo(w io.Writer) (int64, error) {
	var total int64
	var lenBuf [4]byte
	binary.LittleEndian.PutUint32(lenBuf[:], uint32(len(ct.ARows)))
	if _, err := w.Write(lenBuf[:]); err != nil {
		return total, err
	}
	total += 4
	for _, row := range ct.ARows {
		n, err := row.WriteTo(w)
		total += n
		if err != nil {
			return total, err
		}
	}
	for _, row := range ct.BRows {
		n, err := row.WriteTo(w)
		total += n
		if err != nil {
			return total, err
		}
	}
	return total, nil
}

// ReadFrom reads an APBit of ring degree n from r.
func (ct *TRGSWCiphertext) ReadFrom(r io.Reader, n int) (int64, error) {
	var total int64
	var lenBuf [4]byte
	if _, err := io.ReadFull(r, lenBuf[:]); err != nil {
		return total, err
	}
	total += 4
	levels := int(binary.LittleEndian.Uint32(lenBuf[:]))
	ct.ARows = make([]TRLWECiphertext, levels)
	ct.BRows = make([]TRLWECiphertext, levels)
	for i := range ct.ARows {
		m, err := ct.ARows[i].ReadFrom(r, n)
		total += m
		if err != nil {
			return total, err
		}
		ct.ARows[i].A.IsNTT, ct.ARows[i].B.IsNTT = true, true
	}
	for i := range ct.BRows {
		m, err := ct.BRows[i].ReadFrom(r, n)
		total += m
		if err != nil {
			return total, err
		}
		ct.BRows[i].A.IsNTT, ct.BRows[i].B.IsNTT = true, true
	}
	return total, nil
}

// WriteTo writes ct (a TLWECiphertext) on w: a 4-byte dimension prefix,
// the A vector, then the scalar B.
func (ct TLWECiphertext) WriteTo(w io.Writer) (int64, error) {
	var total int64
	var hdr [4]byte
	binary.LittleEndian.PutUint32(hdr[:], uint32(len(ct.A)))
	if _, err := w.Write(hdr[:]); err != nil {
		return total, err
	}
	total += 4
	var buf [8]byte
	for _, a := range ct.A {
		binary.LittleEndian.PutUint64(buf[:], a)
		if _, err := w.Write(buf[:]); err != nil {
			return total, err
		}
		total += 8
	}
	binary.LittleEndian.PutUint64(buf[:], ct.B)
	if _, err := w.Write(buf[:]); err != nil {
		return total, err
	}
	total += 8
	return total, nil
}

// ReadFrom reads a TLWECiphertext from r.
func (ct *TLWECiphertext) ReadFrom(r io.Reader) (int64, error) {
	var total int64
	var hdr [4]byte
	if _, err := io.ReadFull(r, hdr[:]); err != nil {
		return total, err
	}
	total += 4
	dim := int(binary.LittleEndian.Uint32(hdr[:]))
	ct.A = make([]uint64, dim)
	var buf [8]byte
	for i := range ct.A {
		if _, err := io.ReadFull(r, buf[:]); err != nil {
			return total, err
		}
		ct.A[i] = binary.LittleEndian.Uint64(buf[:])
		total += 8
	}
	if _, err := io.ReadFull(r, buf[:]); err != nil {
		return total, err
	}
	ct.B = binary.LittleEndian.Uint64(buf[:])
	total += 8
	return total, nil
}
