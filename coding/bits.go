// Copyright 2011 The Go Authors.  All rights reserved.
// Copyright 2024 Vadim Vygonets.  All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package coding

// Bits is an append-only sequence of bits, packed most significant
// bit first.
type Bits struct {
	b    []byte
	nbit int
}

// NewBits returns Bits with capacity for n bytes.
func NewBits(n int) *Bits {
	return &Bits{b: make([]byte, 0, n)}
}

// Bits returns the number of bits in b.
func (b *Bits) Bits() int { return b.nbit }

// Bytes returns the bits in b.  It panics unless b holds a whole
// number of bytes.
func (b *Bits) Bytes() []byte {
	if b.nbit%8 != 0 {
		panic("qr: fractional byte")
	}
	return b.b
}

// Bit returns bit i of b as 0 or 1.
func (b *Bits) Bit(i int) byte {
	return b.b[i>>3] >> (7 &^ i) & 1
}

// Write appends the nbit low bits of v to b, most significant first.
// nbit must be between 0 and 32.
func (b *Bits) Write(v uint32, nbit int) {
	if nbit < 0 || nbit > 32 {
		panic("qr: bad bit count")
	}
	if nbit == 0 {
		return
	}
	v <<= 32 - nbit
	if rem := -b.nbit & 7; rem != 0 {
		b.b[len(b.b)-1] |= byte(v >> (32 - rem))
		if rem >= nbit {
			b.nbit += nbit
			return
		}
		b.nbit += rem
		nbit -= rem
		v <<= rem
	}
	for n := nbit; n > 0; n -= 8 {
		b.b = append(b.b, byte(v>>24))
		v <<= 8
	}
	b.nbit += nbit
}

// Append appends the first nbit bits of data to b.
func (b *Bits) Append(data []byte, nbit int) {
	if b.nbit&7 == 0 {
		n := (nbit + 7) >> 3
		b.b = append(b.b, data[:n]...)
		if nbit&7 != 0 {
			b.b[len(b.b)-1] &= 0xff << (8 - nbit&7)
		}
		b.nbit += nbit
		return
	}
	for ; nbit >= 8; nbit -= 8 {
		b.Write(uint32(data[0]), 8)
		data = data[1:]
	}
	if nbit > 0 {
		b.Write(uint32(data[0]>>(8-nbit)), nbit)
	}
}

// pad appends up to t zero terminator bits without exceeding n bits,
// zero bits up to a byte boundary, and alternating 0xec, 0x11 pad
// bytes up to n bits.  n must be a multiple of 8.
func (b *Bits) pad(t, n int) {
	b.Write(0, min(t, n-b.nbit))
	b.Write(0, -b.nbit&7)
	for pad := uint32(0xec); b.nbit < n; pad ^= 0xec ^ 0x11 {
		b.Write(pad, 8)
	}
}
