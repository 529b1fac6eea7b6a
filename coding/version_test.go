// Copyright 2024 Vadim Vygonets.  All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package coding

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestVersionTable(t *testing.T) {
	for v := MinVersion; v <= MaxVersion; v++ {
		assert.Equal(t, v.RawBytes(), v.RawDataModules()/8, "version %d", v)
		prev := v.RawBytes()
		for l := L; l <= H; l++ {
			nblock, check := v.Blocks(l)
			assert.Positive(t, nblock, "%d-%s", v, l)
			assert.Positive(t, check, "%d-%s", v, l)
			n := v.DataBytes(l)
			assert.Less(t, n, prev, "%d-%s", v, l)
			prev = n
			// a short block holds at least one data byte
			assert.GreaterOrEqual(t, n/nblock, 1, "%d-%s", v, l)
		}
	}
	assert.Equal(t, 19, Version(1).DataBytes(L))
	assert.Equal(t, 16, Version(1).DataBytes(M))
	assert.Equal(t, 13, Version(1).DataBytes(Q))
	assert.Equal(t, 9, Version(1).DataBytes(H))
	assert.Equal(t, 2956, MaxVersion.DataBytes(L))
	assert.Equal(t, 1276, MaxVersion.DataBytes(H))
	assert.Equal(t, 3706, MaxVersion.RawBytes())
	assert.Equal(t, 208, Version(1).RawDataModules())
	assert.Equal(t, 29648, MaxVersion.RawDataModules())
}

func TestVersion(t *testing.T) {
	assert.Equal(t, 21, Version(1).Size())
	assert.Equal(t, 177, MaxVersion.Size())
	assert.False(t, Version(0).IsValid())
	assert.False(t, Version(41).IsValid())
	assert.True(t, Version(40).IsValid())
	for v, class := range map[Version]int{
		1: Class0, 9: Class0, 10: Class1, 26: Class1, 27: Class2, 40: Class2,
	} {
		assert.Equal(t, class, v.SizeClass(), "version %d", v)
	}
	assert.Equal(t, "M", M.String())
	assert.Equal(t, "4", Level(4).String())
	assert.False(t, Level(-1).IsValid())
}

func TestAlignPos(t *testing.T) {
	assert.Empty(t, Version(1).AlignPos())
	assert.Equal(t, []int{6, 18}, Version(2).AlignPos())
	assert.Equal(t, []int{6, 22, 38}, Version(7).AlignPos())
	assert.Equal(t, []int{6, 26, 48, 70}, Version(15).AlignPos())
	assert.Equal(t, []int{6, 34, 60, 86, 112, 138}, Version(32).AlignPos())
	assert.Equal(t, []int{6, 30, 58, 86, 114, 142, 170}, Version(40).AlignPos())
	for v := Version(2); v <= MaxVersion; v++ {
		pos := v.AlignPos()
		assert.Len(t, pos, int(v)/7+2, "version %d", v)
		assert.Equal(t, v.Size()-7, pos[len(pos)-1], "version %d", v)
		for i := 2; i < len(pos); i++ {
			assert.Equal(t, pos[2]-pos[1], pos[i]-pos[i-1], "version %d", v)
		}
	}
}

func TestFormatBits(t *testing.T) {
	want := [4][8]uint16{
		L: {0x77c4, 0x72f3, 0x7daa, 0x789d, 0x662f, 0x6318, 0x6c41, 0x6976},
		M: {0x5412, 0x5125, 0x5e7c, 0x5b4b, 0x45f9, 0x40ce, 0x4f97, 0x4aa0},
		Q: {0x355f, 0x3068, 0x3f31, 0x3a06, 0x24b4, 0x2183, 0x2eda, 0x2bed},
		H: {0x1689, 0x13be, 0x1ce7, 0x19d0, 0x0762, 0x0255, 0x0d0c, 0x083b},
	}
	for l := L; l <= H; l++ {
		for mask := 0; mask < NumMasks; mask++ {
			assert.Equal(t, want[l][mask], FormatBits(l, mask), "%s mask %d", l, mask)
		}
	}
}

func TestVersionBits(t *testing.T) {
	assert.Zero(t, Version(6).VersionBits())
	assert.Equal(t, uint32(0x07c94), Version(7).VersionBits())
	assert.Equal(t, uint32(0x15683), Version(21).VersionBits())
	assert.Equal(t, uint32(0x28c69), Version(40).VersionBits())
}
