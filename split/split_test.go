// Copyright 2024 Vadim Vygonets.  All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package split

import (
	"errors"
	"fmt"
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/text/encoding/japanese"

	"github.com/unixdj/qrencode/coding"
)

type want struct {
	mode coding.Mode
	n    int
}

func modesOf(segs []coding.Segment) []want {
	var w []want
	for _, s := range segs {
		w = append(w, want{s.Mode, s.NumChars})
	}
	return w
}

var kanjiOpt = &Options{Kanji: coding.ShiftJIS}

func TestSplit(t *testing.T) {
	for _, tt := range []struct {
		text string
		o    *Options
		want []want
		bits int
	}{
		{"0123456789abc", nil, []want{{coding.Numeric, 10}, {coding.Byte, 3}}, 84},
		{"Tel: 0123456789", nil, []want{{coding.Byte, 5}, {coding.Numeric, 10}}, 100},
		{"a1", nil, []want{{coding.Byte, 2}}, 28},
		{"HELLO WORLD", nil, []want{{coding.Alphanumeric, 11}}, 74},
		{"点茗", nil, []want{{coding.Byte, 6}}, 60},
		{"点茗", kanjiOpt, []want{{coding.Kanji, 2}}, 38},
		{"点茗 12345", kanjiOpt, []want{{coding.Kanji, 2}, {coding.Alphanumeric, 6}}, 84},
		{"café", &Options{Latin1: true}, []want{{coding.Byte, 4}}, 44},
		{"café", nil, []want{{coding.Byte, 5}}, 52},
		{"\xff", nil, []want{{coding.Byte, 1}}, 20},
		{"HELLO", &Options{ECI: UTF8ECI}, []want{{coding.ECI, 0}, {coding.Alphanumeric, 5}}, 53},
		{"", nil, nil, 0},
	} {
		segs, v, err := Split(tt.text, coding.M, tt.o)
		require.NoError(t, err, "%q", tt.text)
		assert.Equal(t, tt.want, modesOf(segs), "%q", tt.text)
		assert.Equal(t, coding.Version(1), v, "%q", tt.text)
		assert.Equal(t, tt.bits, coding.TotalBits(segs, v), "%q", tt.text)
	}
}

func TestSplitData(t *testing.T) {
	segs, _, err := Split("café", coding.L, &Options{Latin1: true})
	require.NoError(t, err)
	require.Len(t, segs, 1)
	assert.Equal(t, []byte{0x63, 0x61, 0x66, 0xe9}, segs[0].Data)

	segs, _, err = Split("HELLO", coding.L, &Options{ECI: UTF8ECI})
	require.NoError(t, err)
	require.Len(t, segs, 2)
	assert.Equal(t, []byte{26}, segs[0].Data)

	segs, _, err = Split("x点", coding.L, &Options{Kanji: coding.ShiftJIS, Latin1: true})
	require.NoError(t, err)
	assert.Equal(t, []want{{coding.Byte, 1}, {coding.Kanji, 1}}, modesOf(segs))
}

func TestSplitErrors(t *testing.T) {
	for _, text := range []string{"€", "\xff", "ok€"} {
		_, _, err := Split(text, coding.L, &Options{Latin1: true})
		assert.ErrorIs(t, err, ErrNotEncodable, "%q", text)
	}
	_, _, err := Split("x", coding.H+1, nil)
	assert.ErrorIs(t, err, coding.ErrLevel)
	_, _, err = Split("x", coding.L, &Options{ECI: -1})
	assert.ErrorIs(t, err, coding.ErrSegment)

	_, _, err = Split(strings.Repeat("a", 3000), coding.L, nil)
	assert.ErrorIs(t, err, coding.ErrDataTooLong)
	var ce *coding.CapacityError
	require.True(t, errors.As(err, &ce))
	assert.Equal(t, 4+16+3000*8, ce.Bits)
	assert.Equal(t, coding.MaxVersion, ce.Version)

	_, err = Segments("x", 0, nil)
	assert.ErrorIs(t, err, coding.ErrVersion)
}

func TestSplitVersion(t *testing.T) {
	texts := []string{
		strings.Repeat("0123456789", 20) + "abc",
		strings.Repeat("HELLO WORLD 42 ", 30),
		strings.Repeat("mixed 12345678 CASE ", 60),
		strings.Repeat("9", 7089),
		strings.Repeat("点茗", 400),
	}
	for _, text := range texts {
		for l := coding.L; l <= coding.H; l++ {
			segs, v, err := Split(text, l, kanjiOpt)
			if errors.Is(err, coding.ErrDataTooLong) {
				continue
			}
			require.NoError(t, err, "%.20q %s", text, l)
			sv, err := coding.SelectVersion(segs, l, coding.MinVersion, coding.MaxVersion)
			require.NoError(t, err)
			assert.Equal(t, sv, v, "%.20q %s", text, l)

			// never worse than a single segment
			if simple, err := coding.MakeSegments(text); err == nil {
				if n := coding.TotalBits(simple, v); n >= 0 {
					assert.LessOrEqual(t, coding.TotalBits(segs, v), n)
				}
			}
		}
	}
}

// bruteForce returns the smallest encoded length of text at version v,
// trying every mode for every character.
func bruteForce(text string, v coding.Version) int {
	var runes []string
	var choice [][]coding.Mode
	for _, r := range text {
		s := string(r)
		var m []coding.Mode
		if coding.IsNumeric(s) {
			m = append(m, coding.Numeric)
		}
		if coding.IsAlphanumeric(s) {
			m = append(m, coding.Alphanumeric)
		}
		m = append(m, coding.Byte)
		if _, ok := coding.ShiftJIS.Kanji(r); ok && r >= utf8.RuneSelf {
			m = append(m, coding.Kanji)
		}
		runes = append(runes, s)
		choice = append(choice, m)
	}
	best := -1
	pick := make([]int, len(runes))
	for {
		n, mode, chars, bytes := 0, coding.Mode(-1), 0, 0
		flush := func() {
			if mode < 0 {
				return
			}
			c := chars
			if mode == coding.Byte {
				c = bytes
			}
			n += 4 + mode.CountLength(v) + mode.DataLength(c)
		}
		for i, s := range runes {
			m := choice[i][pick[i]]
			if m != mode {
				flush()
				mode, chars, bytes = m, 0, 0
			}
			chars++
			bytes += len(s)
		}
		flush()
		if best < 0 || n < best {
			best = n
		}
		i := 0
		for ; i < len(pick); i++ {
			if pick[i]++; pick[i] < len(choice[i]) {
				break
			}
			pick[i] = 0
		}
		if i == len(pick) {
			return best
		}
	}
}

func TestSegmentsOptimal(t *testing.T) {
	for _, text := range []string{
		"0123456789abc",
		"ID 12345678 ok",
		"A1B2C3D",
		"12AB3456",
		"x123456y",
		"点1茗23",
		"$%*+-./:",
		"aA1.bB2",
	} {
		for _, v := range []coding.Version{1, 10, 27} {
			segs, err := Segments(text, v, kanjiOpt)
			require.NoError(t, err)
			assert.Equal(t, bruteForce(text, v), coding.TotalBits(segs, v), "%q at %d", text, v)
			var sb strings.Builder
			for _, s := range segs {
				require.NoError(t, s.Validate())
				sb.WriteString(decodeText(t, s))
			}
			assert.Equal(t, text, sb.String())
		}
	}
}

// decodeText recovers the text of a numeric, alphanumeric, byte or
// Shift JIS kanji segment.
func decodeText(t *testing.T, s coding.Segment) string {
	bit := 0
	read := func(n int) int {
		v := 0
		for ; n > 0; n-- {
			v = v<<1 | int(s.Data[bit>>3]>>(7-bit&7)&1)
			bit++
		}
		return v
	}
	var sb strings.Builder
	switch s.Mode {
	case coding.Numeric:
		for n := s.NumChars; n > 0; n -= 3 {
			k := min(n, 3)
			fmt.Fprintf(&sb, "%0*d", k, read([4]int{0, 4, 7, 10}[k]))
		}
	case coding.Alphanumeric:
		const set = "0123456789ABCDEFGHIJKLMNOPQRSTUVWXYZ $%*+-./:"
		for n := s.NumChars; n > 0; n -= 2 {
			if n == 1 {
				sb.WriteByte(set[read(6)])
				break
			}
			d := read(11)
			sb.WriteByte(set[d/45])
			sb.WriteByte(set[d%45])
		}
	case coding.Byte:
		sb.Write(s.Data[:s.NumChars])
	case coding.Kanji:
		sjis := make([]byte, 0, s.NumChars*2)
		for i := 0; i < s.NumChars; i++ {
			d := read(13)
			c := d/0xc0<<8 | d%0xc0
			if c += 0x8140; c > 0x9ffc {
				c += 0xc140 - 0x8140
			}
			sjis = append(sjis, byte(c>>8), byte(c))
		}
		u, err := japanese.ShiftJIS.NewDecoder().Bytes(sjis)
		require.NoError(t, err)
		sb.Write(u)
	default:
		t.Fatalf("unexpected mode %s", s.Mode)
	}
	return sb.String()
}
