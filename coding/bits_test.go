// Copyright 2024 Vadim Vygonets.  All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package coding

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBitsWrite(t *testing.T) {
	b := NewBits(0)
	b.Write(0b0100, 4)
	b.Write(5, 8)
	assert.Equal(t, 12, b.Bits())
	b.Write(0, 0)
	b.Write(0b1111, 4)
	assert.Equal(t, []byte{0x40, 0x5f}, b.Bytes())
	b.Write(0xdeadbeef, 32)
	b.Write(1, 1)
	assert.Equal(t, 49, b.Bits())
	assert.Panics(t, func() { b.Bytes() })
	assert.Equal(t, byte(1), b.Bit(48))
	assert.Equal(t, byte(1), b.Bit(16))
	assert.Equal(t, byte(0), b.Bit(0))
	assert.Panics(t, func() { b.Write(0, 33) })
	assert.Panics(t, func() { b.Write(0, -1) })
}

func TestBitsAppend(t *testing.T) {
	src := []byte{0xab, 0xcd, 0xff}

	b := NewBits(4)
	b.Append(src, 20)
	assert.Equal(t, 20, b.Bits())
	b.Write(0, 4)
	assert.Equal(t, []byte{0xab, 0xcd, 0xf0}, b.Bytes())

	b = NewBits(4)
	b.Write(0b101, 3)
	b.Append(src, 13)
	b.Write(0, 0)
	assert.Equal(t, 16, b.Bits())
	// 101 + 10101011 11001
	assert.Equal(t, []byte{0b1011_0101, 0b0111_1001}, b.Bytes())

	b = NewBits(0)
	b.Append(nil, 0)
	assert.Zero(t, b.Bits())
}

func TestBitsPad(t *testing.T) {
	for _, tt := range []struct {
		nbit int    // bits written before padding
		n    int    // pad to
		want []byte // padded result
	}{
		{0, 32, []byte{0, 0xec, 0x11, 0xec}},
		{4, 8, []byte{0xf0}},
		{6, 8, []byte{0xfc}},
		{8, 8, []byte{0xff}},
		{12, 24, []byte{0xff, 0xf0, 0xec}},
		{13, 24, []byte{0xff, 0xf8, 0x00}},
	} {
		b := NewBits(4)
		for i := 0; i < tt.nbit; i++ {
			b.Write(1, 1)
		}
		b.pad(4, tt.n)
		assert.Equal(t, tt.n, b.Bits(), "nbit=%d n=%d", tt.nbit, tt.n)
		assert.Equal(t, tt.want, b.Bytes(), "nbit=%d n=%d", tt.nbit, tt.n)
	}
}
