// Copyright 2024 Vadim Vygonets.  All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package qr

import (
	"strings"

	"github.com/unixdj/qrencode/coding"
)

// A Code is a QR code: a square grid of dark and light modules.
// Codes are immutable.
type Code struct {
	c *coding.Code
}

// Size returns the number of modules on a side.
func (c *Code) Size() int { return c.c.Size }

// Version returns the version of c.
func (c *Code) Version() coding.Version { return c.c.Version }

// Level returns the error correction level of c, which may be higher
// than requested if Options.BoostLevel is set.
func (c *Code) Level() Level { return Level(c.c.Level) }

// Mask returns the mask pattern of c.
func (c *Code) Mask() Mask { return Mask(c.c.Mask + 1) }

// Black reports whether the module at column x, row y is dark.
// Modules outside the code are light.
func (c *Code) Black(x, y int) bool { return c.c.Black(x, y) }

// Penalty returns the penalty score of c.
func (c *Code) Penalty() int { return c.c.Penalty() }

// Border is the width in modules of the quiet zone around a QR code.
const Border = 4

// String returns c as text, two rows of modules per line, with dark
// modules drawn as block elements and a quiet zone of Border modules.
func (c *Code) String() string {
	siz := c.Size()
	var b strings.Builder
	b.Grow((siz + 2*Border) * (siz/2 + Border + 1) * 3)
	for y := -Border; y < siz+Border; y += 2 {
		for x := -Border; x < siz+Border; x++ {
			b.WriteString(halfBlocks[btoi(c.Black(x, y))|btoi(c.Black(x, y+1))<<1])
		}
		b.WriteByte('\n')
	}
	return b.String()
}

// halfBlocks holds characters for the upper module in bit 0 and the
// lower in bit 1.
var halfBlocks = [4]string{" ", "▀", "▄", "█"}

func btoi(b bool) int {
	if b {
		return 1
	}
	return 0
}

// BufferLen returns the length of the buffer Pack needs for a QR code
// of version v, or 0 if v is invalid.
func BufferLen(v coding.Version) int {
	if !v.IsValid() {
		return 0
	}
	siz := v.Size()
	return (siz*siz+7)/8 + 1
}

/*
Pack writes c into buf and returns the number of bytes written,
BufferLen(c.Version()).  If buf is shorter, Pack writes nothing and
returns ErrShortBuffer.

The first byte holds the size.  Modules follow in row-major order, one
bit each, 1 for dark, packed from the least significant bit of each
byte.  Bits past the last module are zero.
*/
func (c *Code) Pack(buf []byte) (int, error) {
	n := BufferLen(c.Version())
	if len(buf) < n {
		return 0, ErrShortBuffer
	}
	buf = buf[:n]
	clear(buf)
	siz := c.Size()
	buf[0] = byte(siz)
	i := 0
	for y := 0; y < siz; y++ {
		for x := 0; x < siz; x++ {
			if c.Black(x, y) {
				buf[1+i>>3] |= 1 << (i & 7)
			}
			i++
		}
	}
	return n, nil
}

// Unpack returns the QR code written into buf by Pack.  The version is
// taken from the size, the level and mask from the format information.
func Unpack(buf []byte) (*Code, error) {
	if len(buf) == 0 {
		return nil, ErrShortBuffer
	}
	siz := int(buf[0])
	v := coding.Version((siz - 17) / 4)
	if !v.IsValid() || v.Size() != siz {
		return nil, coding.ErrVersion
	}
	if len(buf) < BufferLen(v) {
		return nil, ErrShortBuffer
	}
	stride := (siz + 7) >> 3
	bitmap := make([]byte, stride*siz)
	i := 0
	for y := 0; y < siz; y++ {
		for x := 0; x < siz; x++ {
			if buf[1+i>>3]>>(i&7)&1 != 0 {
				bitmap[y*stride+x>>3] |= 0x80 >> (x & 7)
			}
			i++
		}
	}
	cc, err := coding.NewCode(bitmap, siz)
	if err != nil {
		return nil, err
	}
	return &Code{c: cc}, nil
}
