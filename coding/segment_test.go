// Copyright 2024 Vadim Vygonets.  All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package coding

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMakeSegment(t *testing.T) {
	for _, tt := range []struct {
		name string
		make func() (Segment, error)
		want Segment
	}{
		{
			"numeric",
			func() (Segment, error) { return MakeNumeric("01234567") },
			Segment{Numeric, 8, []byte{0x03, 0x15, 0x98, 0x60}, 27},
		},
		{
			"numeric one",
			func() (Segment, error) { return MakeNumeric("7") },
			Segment{Numeric, 1, []byte{0x70}, 4},
		},
		{
			"alphanumeric",
			func() (Segment, error) { return MakeAlphanumeric("AC-42") },
			Segment{Alphanumeric, 5, []byte{0x39, 0xdc, 0xe4, 0x20}, 28},
		},
		{
			"bytes",
			func() (Segment, error) { return MakeBytes([]byte("HELLO")) },
			Segment{Byte, 5, []byte("HELLO"), 40},
		},
		{
			"kanji",
			func() (Segment, error) { return MakeKanji("点茗", nil) },
			Segment{Kanji, 2, []byte{0x6c, 0xfe, 0xaa, 0x80}, 26},
		},
		{
			"eci 8",
			func() (Segment, error) { return MakeECI(26) },
			Segment{ECI, 0, []byte{26}, 8},
		},
		{
			"eci 16",
			func() (Segment, error) { return MakeECI(1000) },
			Segment{ECI, 0, []byte{0x83, 0xe8}, 16},
		},
		{
			"eci 24",
			func() (Segment, error) { return MakeECI(999999) },
			Segment{ECI, 0, []byte{0xcf, 0x42, 0x3f}, 24},
		},
	} {
		t.Run(tt.name, func(t *testing.T) {
			seg, err := tt.make()
			require.NoError(t, err)
			assert.Equal(t, tt.want.Mode, seg.Mode)
			assert.Equal(t, tt.want.NumChars, seg.NumChars)
			assert.Equal(t, tt.want.BitLen, seg.BitLen)
			assert.Equal(t, tt.want.Data, seg.Data)
			assert.NoError(t, seg.Validate())
		})
	}
}

func TestMakeEmpty(t *testing.T) {
	for _, seg := range []Segment{
		must(MakeNumeric("")),
		must(MakeAlphanumeric("")),
		must(MakeBytes(nil)),
		must(MakeKanji("", nil)),
	} {
		assert.Zero(t, seg.NumChars, "%s", seg.Mode)
		assert.Zero(t, seg.BitLen, "%s", seg.Mode)
		assert.NoError(t, seg.Validate(), "%s", seg.Mode)
	}
}

func TestMakeSegmentErrors(t *testing.T) {
	for _, tt := range []struct {
		name string
		err  error
		mode Mode
	}{
		{"numeric", second(MakeNumeric("12a4")), Numeric},
		{"alphanumeric lower", second(MakeAlphanumeric("Hello")), Alphanumeric},
		{"alphanumeric control", second(MakeAlphanumeric("A\n")), Alphanumeric},
		{"kanji ascii", second(MakeKanji("a", nil)), Kanji},
		{"kanji katakana", second(MakeKanji("ｱ", nil)), Kanji},
		{"eci negative", second(MakeECI(-1)), ECI},
		{"eci large", second(MakeECI(1000000)), ECI},
		{"bytes long", second(MakeBytes(make([]byte, 4096))), Byte},
		{"numeric long", second(MakeNumeric(strings.Repeat("1", 9831))), Numeric},
		{"alphanumeric long", second(MakeAlphanumeric(strings.Repeat("A", 5958))), Alphanumeric},
	} {
		t.Run(tt.name, func(t *testing.T) {
			require.Error(t, tt.err)
			assert.ErrorIs(t, tt.err, ErrSegment)
			var se SegmentError
			require.ErrorAs(t, tt.err, &se)
			assert.Equal(t, tt.mode, se.Mode)
		})
	}

	// longest segments that still fit
	_, err := MakeBytes(make([]byte, 4095))
	assert.NoError(t, err)
	_, err = MakeNumeric(strings.Repeat("1", 9830))
	assert.NoError(t, err)
	_, err = MakeAlphanumeric(strings.Repeat("A", 5957))
	assert.NoError(t, err)
}

func TestMakeKanjiTable(t *testing.T) {
	tab := KanjiFunc(func(r rune) (uint16, bool) {
		if r == 'x' {
			return 0x1fff, true
		}
		return 0, false
	})
	seg, err := MakeKanji("xx", tab)
	require.NoError(t, err)
	assert.Equal(t, 26, seg.BitLen)
	assert.Equal(t, []byte{0xff, 0xff, 0xff, 0xc0}, seg.Data)
	_, err = MakeKanji("xy", tab)
	assert.ErrorIs(t, err, ErrSegment)

	big := KanjiFunc(func(rune) (uint16, bool) { return 0x2000, true })
	_, err = MakeKanji("x", big)
	assert.ErrorIs(t, err, ErrSegment)
}

func TestShiftJIS(t *testing.T) {
	for _, tt := range []struct {
		r    rune
		want uint16
		ok   bool
	}{
		{'点', 0x0d9f, true},
		{'茗', 0x1aaa, true},
		{'　', 0, true}, // ideographic space, 0x8140
		{'A', 0, false},
		{'ｱ', 0, false}, // single byte in Shift JIS
		{'😀', 0, false},
	} {
		v, ok := ShiftJIS.Kanji(tt.r)
		assert.Equal(t, tt.ok, ok, "%q", tt.r)
		if tt.ok && tt.want != 0 {
			assert.Equal(t, tt.want, v, "%q", tt.r)
		}
	}

	_, ok := SJISKanji(0xa0, 0x40)
	assert.False(t, ok)
	_, ok = SJISKanji(0xeb, 0xc0)
	assert.False(t, ok)
	v, ok := SJISKanji(0xeb, 0xbf)
	assert.True(t, ok)
	assert.Equal(t, uint16(0x1fff), v)
}

func TestMakeSegments(t *testing.T) {
	for _, tt := range []struct {
		text string
		mode Mode
	}{
		{"0123456789", Numeric},
		{"HELLO WORLD", Alphanumeric},
		{"$%*+-./:", Alphanumeric},
		{"Hello, world!", Byte},
		{"点茗", Byte},
	} {
		segs, err := MakeSegments(tt.text)
		require.NoError(t, err, tt.text)
		require.Len(t, segs, 1, tt.text)
		assert.Equal(t, tt.mode, segs[0].Mode, tt.text)
	}
	segs, err := MakeSegments("")
	assert.NoError(t, err)
	assert.Empty(t, segs)

	_, err = MakeSegments(strings.Repeat("a", 4096))
	assert.ErrorIs(t, err, ErrSegment)
}

func TestIsAlphanumeric(t *testing.T) {
	const set = "0123456789ABCDEFGHIJKLMNOPQRSTUVWXYZ $%*+-./:"
	for c := 0; c < 256; c++ {
		want := strings.IndexByte(set, byte(c)) >= 0
		assert.Equal(t, want, IsAlphanumeric(string([]byte{byte(c)})), "%#x", c)
		if want {
			assert.Equal(t, byte(strings.IndexByte(set, byte(c))), alpha[c&0x3f], "%q", c)
		}
	}
	assert.True(t, IsAlphanumeric(""))
	assert.True(t, IsNumeric(""))
	assert.False(t, IsNumeric("1/"))
	assert.False(t, IsNumeric(":"))
}

func TestSegmentValidate(t *testing.T) {
	for _, tt := range []struct {
		name string
		seg  Segment
		ok   bool
	}{
		{"numeric", Segment{Numeric, 2, []byte{0}, 7}, true},
		{"numeric count", Segment{Numeric, 3, []byte{0}, 7}, false},
		{"bad mode", Segment{Mode(9), 0, nil, 0}, false},
		{"negative count", Segment{Byte, -1, nil, 0}, false},
		{"negative length", Segment{Byte, 0, nil, -8}, false},
		{"short data", Segment{Byte, 2, []byte{1}, 16}, false},
		{"too long", Segment{Byte, 4096, make([]byte, 4096), 32768}, false},
		{"eci", Segment{ECI, 0, []byte{1, 2}, 16}, true},
		{"eci count", Segment{ECI, 1, []byte{1}, 8}, false},
		{"eci length", Segment{ECI, 0, []byte{1}, 4}, false},
		{"kanji", Segment{Kanji, 1, []byte{0, 0}, 13}, true},
	} {
		err := tt.seg.Validate()
		if tt.ok {
			assert.NoError(t, err, tt.name)
		} else {
			assert.ErrorIs(t, err, ErrSegment, tt.name)
		}
	}
}

func TestSegmentError(t *testing.T) {
	_, err := MakeNumeric("12a")
	assert.EqualError(t, err, "qr: numeric segment `12a`: non-digit character")
	_, err = MakeECI(-1)
	assert.EqualError(t, err, "qr: eci segment: negative assignment number")
	assert.True(t, errors.Is(err, ErrSegment))
}

func TestModeCountLength(t *testing.T) {
	for _, tt := range []struct {
		mode Mode
		want [3]int
	}{
		{Numeric, [3]int{10, 12, 14}},
		{Alphanumeric, [3]int{9, 11, 13}},
		{Byte, [3]int{8, 16, 16}},
		{Kanji, [3]int{8, 10, 12}},
	} {
		for i, v := range []Version{1, 9, 10, 26, 27, 40} {
			assert.Equal(t, tt.want[i/2], tt.mode.CountLength(v), "%s %d", tt.mode, v)
		}
	}
	assert.Equal(t, byte(7), ECI.Indicator())
	assert.Equal(t, byte(8), Kanji.Indicator())
	assert.Equal(t, "alphanumeric", Alphanumeric.String())
	assert.Equal(t, "12", Mode(12).String())
}

func must[T any](v T, err error) T {
	if err != nil {
		panic(err)
	}
	return v
}

func second[T any](_ T, err error) error { return err }
