// Copyright 2024 Vadim Vygonets.  All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package coding

import "errors"

var ErrFormat = errors.New("qr: bad format information")

// readFormat returns the level and mask recorded in the format
// information of c.  Both copies must be intact and equal.
func (c *Code) readFormat() (Level, int, error) {
	var fb [2]uint16
	for k, pts := range formatCoords(c.Size) {
		for i, pt := range pts {
			if c.Black(pt.x, pt.y) {
				fb[k] |= 1 << i
			}
		}
	}
	if fb[0] == fb[1] {
		for l := L; l <= H; l++ {
			for mask := 0; mask < NumMasks; mask++ {
				if FormatBits(l, mask) == fb[0] {
					return l, mask, nil
				}
			}
		}
	}
	return 0, 0, ErrFormat
}

// NewCode returns a Code for bitmap, a grid of size modules on a side
// laid out as in Code.  The version is derived from size, the level
// and mask from the format information.  The bitmap is not copied.
func NewCode(bitmap []byte, size int) (*Code, error) {
	v := Version((size - 17) / 4)
	if !v.IsValid() || v.Size() != size {
		return nil, ErrVersion
	}
	stride := (size + 7) >> 3
	if len(bitmap) != stride*size {
		return nil, ErrFormat
	}
	c := &Code{Bitmap: bitmap, Size: size, Stride: stride, Version: v}
	var err error
	if c.Level, c.Mask, err = c.readFormat(); err != nil {
		return nil, err
	}
	return c, nil
}
