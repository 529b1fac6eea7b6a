// Copyright 2011 The Go Authors.  All rights reserved.
// Copyright 2024 Vadim Vygonets.  All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package coding

import "strconv"

// A Version represents a QR version.
// The version specifies the size of the QR code:
// a QR code with version v has 4v+17 modules on a side.
// Versions run from 1 to 40: the larger the version, the more
// information the code can store.
type Version int

// Version limits.
const (
	MinVersion Version = 1  // Minimum QR version
	MaxVersion Version = 40 // Maximum QR version
)

func (v Version) String() string { return strconv.Itoa(int(v)) }

// IsValid reports whether v is a QR version.
func (v Version) IsValid() bool { return MinVersion <= v && v <= MaxVersion }

// QR version size classes.  The width of the character count field
// depends on the size class.
const (
	Class0 = iota // QR versions 1 to 9
	Class1        // QR versions 10 to 26
	Class2        // QR versions 27 to 40
)

// SizeClass returns the size class of v, as documented under Class0.
func (v Version) SizeClass() int {
	if v <= 9 {
		return Class0
	}
	if v <= 26 {
		return Class1
	}
	return Class2
}

// Size returns the number of modules on a side of a code of version v.
func (v Version) Size() int { return int(v)*4 + 17 }

// RawBytes returns the number of codewords, data and error correction,
// in a code of version v.
func (v Version) RawBytes() int { return vtab[v].bytes }

// RawDataModules returns the number of modules available for data and
// error correction bits in a code of version v, including the
// remainder bits that don't fill a whole codeword.
func (v Version) RawDataModules() int {
	n := (16*int(v)+128)*int(v) + 64
	if v >= 2 {
		na := int(v)/7 + 2
		n -= (25*na-10)*na - 55
		if v >= 7 {
			n -= 36 // version information
		}
	}
	return n
}

// DataBytes returns the number of data bytes that can be
// stored in a QR code with the given version and level.
func (v Version) DataBytes(l Level) int {
	vt := &vtab[v]
	lev := vt.level[l]
	return vt.bytes - lev.nblock*lev.check
}

// DataBits returns the number of data bits that can be
// stored in a QR code with the given version and level.
func (v Version) DataBits(l Level) int { return v.DataBytes(l) * 8 }

// Blocks returns the number of error correction blocks and the number
// of error correction bytes per block for the given version and level.
func (v Version) Blocks(l Level) (nblock, check int) {
	lev := vtab[v].level[l]
	return lev.nblock, lev.check
}

// AlignPos returns the row and column coordinates of the centres of
// alignment patterns in ascending order.  Version 1 has none.
func (v Version) AlignPos() []int {
	if v < 2 {
		return nil
	}
	n := int(v)/7 + 2
	step := 26
	if v != 32 {
		step = (int(v)*4 + n*2 + 1) / (n*2 - 2) * 2
	}
	pos := make([]int, n)
	pos[0] = 6
	for i, p := n-1, v.Size()-7; i > 0; i, p = i-1, p-step {
		pos[i] = p
	}
	return pos
}

// VersionBits returns the 18 bit version information for v: 6 bits of
// version number followed by 12 bits of BCH(18,6) error correction.
// Versions below 7 carry no version information and return 0.
func (v Version) VersionBits() uint32 {
	if v < 7 {
		return 0
	}
	const versionPoly = 0x1f25
	rem := uint32(v)
	for i := 0; i < 12; i++ {
		rem = rem<<1 ^ rem>>11*versionPoly
	}
	return uint32(v)<<12 | rem
}

// A Level represents a QR error correction level.
// From least to most tolerant of errors, they are L, M, Q, H.
type Level int

const (
	L Level = iota // 7% of codewords can be restored
	M              // 15% of codewords can be restored
	Q              // 25% of codewords can be restored
	H              // 30% of codewords can be restored
)

func (l Level) String() string {
	if L <= l && l <= H {
		return "LMQH"[l : l+1]
	}
	return strconv.Itoa(int(l))
}

// IsValid reports whether l is an error correction level.
func (l Level) IsValid() bool { return L <= l && l <= H }

// FormatBits returns the 15 bit format information for level l and the
// mask: 5 bits of data followed by 10 bits of BCH(15,5) error correction,
// xored with 0x5412.
func FormatBits(l Level, mask int) uint16 {
	const (
		formatPoly = 0x537
		formatMask = 0x5412
	)
	// L=01, M=00, Q=11, H=10
	data := uint16(l^1)<<3 | uint16(mask)
	rem := data
	for i := 0; i < 10; i++ {
		rem = rem<<1 ^ rem>>9*formatPoly
	}
	return (data<<10 | rem&0x3ff) ^ formatMask
}

// A version describes metadata associated with a version.
type version struct {
	bytes int      // total number of codewords
	level [4]level // error correction for each level
}

// level describes error correction at a version and level.
type level struct {
	nblock int // number of blocks
	check  int // error correction bytes per block
}
