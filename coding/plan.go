// Copyright 2011 The Go Authors.  All rights reserved.
// Copyright 2024 Vadim Vygonets.  All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package coding

// A Plan describes the layout of a QR code of a specific version:
// the function patterns and the modules left for data.
//
// Bitmaps are stored row by row, Stride bytes per row, the leftmost
// module of each byte in its most significant bit.
type Plan struct {
	Version Version // QR code version
	Size    int     // number of modules on a side
	Stride  int     // number of bytes per row

	Map     []byte // 1 is a function module, 0 is data or checksum
	Pattern []byte // function module colours, 1 is dark
}

// NewPlan returns a Plan for a QR code of version v.  Format
// information areas are reserved and left light; the dark module and
// version information are drawn.
func NewPlan(v Version) (*Plan, error) {
	if !v.IsValid() {
		return nil, ErrVersion
	}
	siz := v.Size()
	stride := (siz + 7) >> 3
	p := &Plan{
		Version: v,
		Size:    siz,
		Stride:  stride,
		Map:     make([]byte, siz*stride),
		Pattern: make([]byte, siz*stride),
	}

	// timing patterns
	for i := 0; i < siz; i++ {
		p.set(6, i, i%2 == 0)
		p.set(i, 6, i%2 == 0)
	}

	// finder patterns with separators, overwriting timing
	p.finder(3, 3)
	p.finder(siz-4, 3)
	p.finder(3, siz-4)

	// alignment patterns, except where they would overlap finders
	pos := v.AlignPos()
	last := len(pos) - 1
	for i, y := range pos {
		for j, x := range pos {
			if i == 0 && j == 0 || i == 0 && j == last || i == last && j == 0 {
				continue
			}
			p.align(x, y)
		}
	}

	// format information: reserve both copies
	for _, c := range formatCoords(siz) {
		for _, pt := range c {
			p.set(pt.x, pt.y, false)
		}
	}
	p.set(8, siz-8, true) // dark module

	// version information
	if vb := v.VersionBits(); vb != 0 {
		for i := 0; i < 18; i++ {
			a, b := siz-11+i%3, i/3
			dark := vb>>i&1 != 0
			p.set(a, b, dark)
			p.set(b, a, dark)
		}
	}
	return p, nil
}

// set marks the module at column x, row y as a function module of the
// given colour.
func (p *Plan) set(x, y int, dark bool) {
	off, bit := y*p.Stride+x>>3, byte(0x80)>>(x&7)
	p.Map[off] |= bit
	if dark {
		p.Pattern[off] |= bit
	} else {
		p.Pattern[off] &^= bit
	}
}

// IsFunction reports whether the module at column x, row y is
// a function module.
func (p *Plan) IsFunction(x, y int) bool {
	return p.Map[y*p.Stride+x>>3]&(0x80>>(x&7)) != 0
}

// finder draws a finder pattern centred at x, y, with the separator
// around it clipped to the symbol.
func (p *Plan) finder(x, y int) {
	for dy := -4; dy <= 4; dy++ {
		for dx := -4; dx <= 4; dx++ {
			xx, yy := x+dx, y+dy
			if 0 <= xx && xx < p.Size && 0 <= yy && yy < p.Size {
				dist := max(abs(dx), abs(dy))
				p.set(xx, yy, dist != 2 && dist != 4)
			}
		}
	}
}

// align draws an alignment pattern centred at x, y.
func (p *Plan) align(x, y int) {
	for dy := -2; dy <= 2; dy++ {
		for dx := -2; dx <= 2; dx++ {
			p.set(x+dx, y+dy, max(abs(dx), abs(dy)) != 1)
		}
	}
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}

type point struct{ x, y int }

// formatCoords returns the positions of the two copies of format
// information bits, indexed by bit number, least significant first.
func formatCoords(siz int) (c [2][15]point) {
	for i := 0; i < 15; i++ {
		switch {
		case i < 6:
			c[0][i] = point{8, i}
		case i < 8:
			c[0][i] = point{8, i + 1}
		case i == 8:
			c[0][i] = point{7, 8}
		default:
			c[0][i] = point{14 - i, 8}
		}
		if i < 8 {
			c[1][i] = point{siz - 1 - i, 8}
		} else {
			c[1][i] = point{8, siz - 15 + i}
		}
	}
	return
}

// drawFormat draws format information for level l and mask into
// bitmap, which must have the layout of p.
func (p *Plan) drawFormat(bitmap []byte, l Level, mask int) {
	fb := FormatBits(l, mask)
	for _, c := range formatCoords(p.Size) {
		for i, pt := range c {
			off, bit := pt.y*p.Stride+pt.x>>3, byte(0x80)>>(pt.x&7)
			if fb>>i&1 != 0 {
				bitmap[off] |= bit
			} else {
				bitmap[off] &^= bit
			}
		}
	}
}

// zigzag calls fn with the coordinates of each data module in
// placement order: pairs of columns from right to left, skipping the
// vertical timing pattern, alternately upwards and downwards, the
// right column of each pair first.
func (p *Plan) zigzag(fn func(x, y int)) {
	siz := p.Size
	for right := siz - 1; right >= 1; right -= 2 {
		if right == 6 {
			right = 5
		}
		upward := (right+1)&2 == 0
		for vert := 0; vert < siz; vert++ {
			y := vert
			if upward {
				y = siz - 1 - vert
			}
			for x := right; x > right-2; x-- {
				if !p.IsFunction(x, y) {
					fn(x, y)
				}
			}
		}
	}
}

// Place returns a bitmap with the function patterns of p and the bits
// of codewords, which must be the v.RawBytes() interleaved codewords
// returned by AddECC, in the data modules.  Data modules past the end
// of codewords are the remainder bits and are left light.  Format
// information is not drawn.
func (p *Plan) Place(codewords []byte) ([]byte, error) {
	if len(codewords) != p.Version.RawBytes() {
		return nil, internalError("%d codewords for version %d, want %d",
			len(codewords), p.Version, p.Version.RawBytes())
	}
	bitmap := make([]byte, len(p.Pattern))
	copy(bitmap, p.Pattern)
	nbit := len(codewords) * 8
	i := 0
	p.zigzag(func(x, y int) {
		if i < nbit && codewords[i>>3]&(0x80>>(i&7)) != 0 {
			bitmap[y*p.Stride+x>>3] |= 0x80 >> (x & 7)
		}
		i++
	})
	if i < nbit {
		return nil, internalError("placed %d of %d bits", i, nbit)
	}
	return bitmap, nil
}
