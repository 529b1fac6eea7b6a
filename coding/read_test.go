// Copyright 2024 Vadim Vygonets.  All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package coding

import (
	"slices"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewCode(t *testing.T) {
	segs := must(MakeSegments("NEW CODE"))
	for _, v := range []Version{1, 7, 40} {
		for l := L; l <= H; l++ {
			c, err := Encode(segs, v, l, AutoMask)
			require.NoError(t, err)
			got, err := NewCode(slices.Clone(c.Bitmap), c.Size)
			require.NoError(t, err, "%d-%s", v, l)
			assert.Equal(t, c, got, "%d-%s", v, l)
		}
	}
}

func TestNewCodeErrors(t *testing.T) {
	_, err := NewCode(make([]byte, 63), 22)
	assert.ErrorIs(t, err, ErrVersion)
	_, err = NewCode(make([]byte, 62), 21)
	assert.ErrorIs(t, err, ErrFormat)
	_, err = NewCode(make([]byte, 63), 21)
	assert.ErrorIs(t, err, ErrFormat)

	c, err := Encode(must(MakeSegments("1")), 1, M, 2)
	require.NoError(t, err)
	// flip one module of the first format copy
	c.Bitmap[8*c.Stride] ^= 0x80
	_, err = NewCode(c.Bitmap, c.Size)
	assert.ErrorIs(t, err, ErrFormat)
}
