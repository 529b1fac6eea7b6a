// Copyright 2011 The Go Authors.  All rights reserved.
// Copyright 2024 Vadim Vygonets.  All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package coding

// Mask limits.  AutoMask selects the mask with the lowest penalty.
const (
	AutoMask = -1
	NumMasks = 8
)

// maskFunc reports whether the data module at column x, row y is
// inverted by a mask.
var maskFunc = [NumMasks]func(x, y int) bool{
	func(x, y int) bool { return (x+y)%2 == 0 },
	func(x, y int) bool { return y%2 == 0 },
	func(x, y int) bool { return x%3 == 0 },
	func(x, y int) bool { return (x+y)%3 == 0 },
	func(x, y int) bool { return (x/3+y/2)%2 == 0 },
	func(x, y int) bool { return x*y%2+x*y%3 == 0 },
	func(x, y int) bool { return (x*y%2+x*y%3)%2 == 0 },
	func(x, y int) bool { return ((x+y)%2+x*y%3)%2 == 0 },
}

// applyMask inverts the data modules of bitmap selected by mask.
func (p *Plan) applyMask(bitmap []byte, mask int) {
	f := maskFunc[mask]
	for y := 0; y < p.Size; y++ {
		for x := 0; x < p.Size; x++ {
			if !p.IsFunction(x, y) && f(x, y) {
				bitmap[y*p.Stride+x>>3] ^= 0x80 >> (x & 7)
			}
		}
	}
}

// A Code is a finished QR code: a square grid of modules.
type Code struct {
	Bitmap []byte // 1 is dark, 0 is light
	Size   int    // number of modules on a side
	Stride int    // number of bytes per row

	Version Version // QR code version
	Level   Level   // error correction level
	Mask    int     // mask pattern, 0 to 7
}

// Black reports whether the module at column x, row y is dark.
// Modules outside the code are light.
func (c *Code) Black(x, y int) bool {
	return 0 <= x && x < c.Size && 0 <= y && y < c.Size &&
		c.Bitmap[y*c.Stride+x>>3]&(0x80>>(x&7)) != 0
}

// Penalty returns the penalty score of c, used for choosing the mask.
// The score is the sum of:
//
//   - 3 for each run of 5 same-colour modules in a row or column,
//     plus 1 for each module past 5;
//   - 3 for each 2×2 box of one colour, boxes may overlap;
//   - 40 for each 1:1:3:1:1 dark:light:dark:light:dark pattern with
//     light modules 4 units long on either side, counted once per
//     side; the area outside the code is light;
//   - 10 for each full 5% the proportion of dark modules deviates
//     from 50%.
//
// https://www.nayuki.io/page/creating-a-qr-code-step-by-step
func (c *Code) Penalty() int {
	const (
		RunPP  = 3  // run of 5
		BoxPP  = 3  // 2×2 box
		FindPP = 40 // finder-like pattern
		BalPP  = 10 // each 5% of imbalance
	)
	siz := c.Size
	p := 0
	for dir := 0; dir < 2; dir++ {
		at := c.Black
		if dir == 1 {
			at = func(x, y int) bool { return c.Black(y, x) }
		}
		for y := 0; y < siz; y++ {
			f := finderRuns{size: siz}
			dark, run := false, 0
			for x := 0; x < siz; x++ {
				if at(x, y) == dark {
					if run++; run == 5 {
						p += RunPP
					} else if run > 5 {
						p++
					}
					continue
				}
				f.add(run)
				if !dark {
					p += f.count() * FindPP
				}
				dark, run = !dark, 1
			}
			p += f.terminate(dark, run) * FindPP
		}
	}

	for y := 0; y < siz-1; y++ {
		for x := 0; x < siz-1; x++ {
			b := c.Black(x, y)
			if b == c.Black(x+1, y) && b == c.Black(x, y+1) &&
				b == c.Black(x+1, y+1) {
				p += BoxPP
			}
		}
	}

	dark := 0
	for _, b := range c.Bitmap {
		for ; b != 0; b &= b - 1 {
			dark++
		}
	}
	// Smallest k such that (45-5k)% <= dark <= (55+5k)%.
	total := siz * siz
	k := (abs(dark*20-total*10)+total-1)/total - 1
	p += k * BalPP
	return p
}

// finderRuns holds the lengths of the last 7 runs in a row or column,
// the latest first, for detecting finder-like patterns.
type finderRuns struct {
	size int
	h    [7]int
}

// add pushes a run.  The first run is extended by the light area
// before the code.
func (f *finderRuns) add(run int) {
	if f.h[0] == 0 {
		run += f.size
	}
	copy(f.h[1:], f.h[:6])
	f.h[0] = run
}

// count returns the number of finder-like patterns ending in the last
// light run: 0, 1 or 2.
func (f *finderRuns) count() int {
	h := &f.h
	n := h[1]
	core := n > 0 && h[2] == n && h[3] == n*3 && h[4] == n && h[5] == n
	c := 0
	if core && h[0] >= n*4 && h[6] >= n {
		c++
	}
	if core && h[6] >= n*4 && h[0] >= n {
		c++
	}
	return c
}

// terminate pushes the current run and the light area after the code
// and returns the number of patterns found at the end.
func (f *finderRuns) terminate(dark bool, run int) int {
	if dark {
		f.add(run)
		run = 0
	}
	f.add(run + f.size)
	return f.count()
}

// Encode encodes segs into a QR code of version v and level l.
// If mask is AutoMask, each mask is tried in turn and the one with the
// lowest penalty is used, the lowest numbered one on a tie; otherwise
// mask must be between 0 and 7.
func Encode(segs []Segment, v Version, l Level, mask int) (*Code, error) {
	if mask < AutoMask || mask >= NumMasks {
		return nil, ErrMask
	}
	data, err := Assemble(segs, v, l)
	if err != nil {
		return nil, err
	}
	cw, err := AddECC(data, v, l)
	if err != nil {
		return nil, err
	}
	p, err := NewPlan(v)
	if err != nil {
		return nil, err
	}
	unmasked, err := p.Place(cw)
	if err != nil {
		return nil, err
	}

	lo, hi := mask, mask
	if mask == AutoMask {
		lo, hi = 0, NumMasks-1
	}
	var best *Code
	pen := 0
	for m := lo; m <= hi; m++ {
		c := &Code{
			Bitmap:  make([]byte, len(unmasked)),
			Size:    p.Size,
			Stride:  p.Stride,
			Version: v,
			Level:   l,
			Mask:    m,
		}
		copy(c.Bitmap, unmasked)
		p.applyMask(c.Bitmap, m)
		p.drawFormat(c.Bitmap, l, m)
		if lo == hi {
			return c, nil
		}
		if cp := c.Penalty(); best == nil || cp < pen {
			best, pen = c, cp
		}
	}
	return best, nil
}
