// Copyright 2011 The Go Authors.  All rights reserved.
// Copyright 2024 Vadim Vygonets.  All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package coding

// EncodedLength returns the length of seg in bits at version v,
// including the mode indicator and the character count field.
// It returns -1 if the character count doesn't fit in its field.
func (seg *Segment) EncodedLength(v Version) int {
	n := 4 + seg.BitLen
	if seg.Mode != ECI {
		cl := seg.Mode.CountLength(v)
		if seg.NumChars >= 1<<cl {
			return -1
		}
		n += cl
	}
	return n
}

// TotalBits returns the number of bits needed to encode segs at
// version v.  It returns -1 if a character count doesn't fit in its
// field at v or if the total exceeds any QR code.
func TotalBits(segs []Segment, v Version) int {
	n := 0
	for i := range segs {
		l := segs[i].EncodedLength(v)
		if l < 0 {
			return -1
		}
		if n += l; n > MaxSegmentBits*2 {
			return -1
		}
	}
	return n
}

// SelectVersion returns the smallest version between min and max
// inclusive in which segs fit at level l.  Count field widths change
// with the version size class, so every version is checked in turn.
// If segs don't fit, the returned error is a *CapacityError.
func SelectVersion(segs []Segment, l Level, min, max Version) (Version, error) {
	if !l.IsValid() {
		return 0, ErrLevel
	}
	if !min.IsValid() || !max.IsValid() || min > max {
		return 0, ErrVersionRange
	}
	for i := range segs {
		if err := segs[i].Validate(); err != nil {
			return 0, err
		}
	}
	bits := -1
	for v := min; v <= max; v++ {
		bits = TotalBits(segs, v)
		if bits >= 0 && bits <= v.DataBits(l) {
			return v, nil
		}
	}
	return 0, &CapacityError{Bits: bits, Level: l, Version: max}
}

// Assemble returns the data codewords for segs at version v and level
// l: each segment's mode indicator, character count and data, then a
// terminator of up to 4 zero bits, zero bits to a byte boundary and
// alternating 0xec, 0x11 pad bytes, exactly v.DataBytes(l) bytes in
// all.  The returned slice has capacity for the error correction
// bytes added by AddECC.  Invalid segments are reported as a
// SegmentError.
func Assemble(segs []Segment, v Version, l Level) ([]byte, error) {
	if !v.IsValid() {
		return nil, ErrVersion
	}
	if !l.IsValid() {
		return nil, ErrLevel
	}
	for i := range segs {
		if err := segs[i].Validate(); err != nil {
			return nil, err
		}
	}
	nb := v.DataBits(l)
	if n := TotalBits(segs, v); n < 0 || n > nb {
		return nil, internalError("%d bits don't fit in %d-%s", n, v, l)
	}
	b := NewBits(v.RawBytes())
	for i := range segs {
		seg := &segs[i]
		b.Write(uint32(seg.Mode.Indicator()), 4)
		if seg.Mode != ECI {
			b.Write(uint32(seg.NumChars), seg.Mode.CountLength(v))
		}
		b.Append(seg.Data, seg.BitLen)
	}
	b.pad(4, nb)
	if b.Bits() != nb {
		return nil, internalError("assembled %d bits, want %d", b.Bits(), nb)
	}
	return b.Bytes(), nil
}
