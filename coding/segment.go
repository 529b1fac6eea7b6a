// Copyright 2011 The Go Authors.  All rights reserved.
// Copyright 2024 Vadim Vygonets.  All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package coding

import (
	"fmt"
	"strconv"

	"golang.org/x/text/encoding/japanese"
)

// A Mode is a QR segment encoding mode.
type Mode int

// Encoding modes.
const (
	Numeric      Mode = iota // numeric mode, digits 0-9
	Alphanumeric             // alphanumeric mode, 45 characters
	Byte                     // byte mode, any data
	Kanji                    // kanji mode, 13 bits per character
	ECI                      // extended channel interpretation
)

var modes = [...]struct {
	name        string
	indicator   uint32  // 4 bit mode indicator
	countLength [3]byte // count field width in version size classes
}{
	Numeric:      {"numeric", 1, [3]byte{10, 12, 14}},
	Alphanumeric: {"alphanumeric", 2, [3]byte{9, 11, 13}},
	Byte:         {"byte", 4, [3]byte{8, 16, 16}},
	Kanji:        {"kanji", 8, [3]byte{8, 10, 12}},
	ECI:          {"eci", 7, [3]byte{0, 0, 0}},
}

// IsValid reports whether mode is one of the encoding modes.
func (mode Mode) IsValid() bool { return 0 <= mode && int(mode) < len(modes) }

func (mode Mode) String() string {
	if mode.IsValid() {
		return modes[mode].name
	}
	return strconv.Itoa(int(mode))
}

// Indicator returns the 4 bit mode indicator.
func (mode Mode) Indicator() byte { return byte(modes[mode].indicator) }

// CountLength returns the width in bits of the character count field
// for mode at version v.
func (mode Mode) CountLength(v Version) int {
	return int(modes[mode].countLength[v.SizeClass()])
}

// DataLength returns the encoded length in bits of n characters in
// mode, excluding the header.  It returns -1 for ECI.
func (mode Mode) DataLength(n int) int {
	switch mode {
	case Numeric:
		return n/3*10 + [3]int{0, 4, 7}[n%3]
	case Alphanumeric:
		return n/2*11 + n%2*6
	case Byte:
		return n * 8
	case Kanji:
		return n * 13
	}
	return -1
}

// A Segment is a QR code segment: a mode, a character count and the
// encoded data bits, packed most significant bit first.  Segments
// returned by the Make functions are valid and should be treated as
// immutable.
type Segment struct {
	Mode     Mode   // encoding mode
	NumChars int    // number of characters, bytes for Byte, 0 for ECI
	Data     []byte // encoded data
	BitLen   int    // length of data in bits
}

// SegmentError represents input that cannot be made into a valid
// Segment.  It matches ErrSegment.
type SegmentError struct {
	Mode   Mode   // encoding mode
	Text   string // offending input, if any
	Reason string // what is wrong
}

func (e SegmentError) Error() string {
	if e.Text != "" {
		return fmt.Sprintf("qr: %s segment %#q: %s", e.Mode, e.Text, e.Reason)
	}
	return fmt.Sprintf("qr: %s segment: %s", e.Mode, e.Reason)
}

func (e SegmentError) Unwrap() error { return ErrSegment }

// Validate reports whether seg is consistent: the mode is valid, the
// character count agrees with the mode and the bit length, and the bit
// length doesn't exceed MaxSegmentBits or the data.
func (seg *Segment) Validate() error {
	fail := func(reason string) error {
		return SegmentError{Mode: seg.Mode, Reason: reason}
	}
	switch {
	case !seg.Mode.IsValid():
		return fail("invalid mode")
	case seg.NumChars < 0:
		return fail("negative character count")
	case seg.BitLen < 0 || seg.BitLen > MaxSegmentBits:
		return fail("bit length " + strconv.Itoa(seg.BitLen) + " out of range")
	case seg.BitLen > len(seg.Data)*8:
		return fail("bit length exceeds data")
	}
	if seg.Mode == ECI {
		if seg.NumChars != 0 {
			return fail("non-zero character count")
		}
		if n := seg.BitLen; n != 8 && n != 16 && n != 24 {
			return fail("bad designator length")
		}
		return nil
	}
	if seg.Mode.DataLength(seg.NumChars) != seg.BitLen {
		return fail("character count " + strconv.Itoa(seg.NumChars) +
			" disagrees with bit length " + strconv.Itoa(seg.BitLen))
	}
	return nil
}

// newSegment returns a segment for n characters in mode with data
// in b, failing if it is too long.
func newSegment(mode Mode, n int, b *Bits) (Segment, error) {
	if b.Bits() > MaxSegmentBits {
		return Segment{}, SegmentError{Mode: mode, Reason: "too long"}
	}
	return Segment{Mode: mode, NumChars: n, Data: b.b, BitLen: b.Bits()}, nil
}

// MakeBytes returns a byte mode segment for data.
func MakeBytes(data []byte) (Segment, error) {
	if len(data) > MaxSegmentBits/8 {
		return Segment{}, SegmentError{Mode: Byte, Reason: "too long"}
	}
	b := NewBits(len(data))
	b.Append(data, len(data)*8)
	return newSegment(Byte, len(data), b)
}

// IsNumeric reports whether s is encodable in numeric mode.
func IsNumeric(s string) bool {
	for i := 0; i < len(s); i++ {
		if uint32(s[i]-'0') >= 10 {
			return false
		}
	}
	return true
}

// MakeNumeric returns a numeric mode segment for a string of digits.
func MakeNumeric(digits string) (Segment, error) {
	if !IsNumeric(digits) {
		return Segment{}, SegmentError{Numeric, digits, "non-digit character"}
	}
	if Numeric.DataLength(len(digits)) > MaxSegmentBits {
		return Segment{}, SegmentError{Mode: Numeric, Reason: "too long"}
	}
	b := NewBits((Numeric.DataLength(len(digits)) + 7) >> 3)
	s := digits
	for ; len(s) >= 3; s = s[3:] {
		b.Write(uint32(s[0]-'0')*100+uint32(s[1]-'0')*10+uint32(s[2]-'0'), 10)
	}
	switch len(s) {
	case 2:
		b.Write(uint32(s[0]-'0')*10+uint32(s[1]-'0'), 7)
	case 1:
		b.Write(uint32(s[0]-'0'), 4)
	}
	return newSegment(Numeric, len(digits), b)
}

const alphamask uint64 = 0x07fffffe_07ffec31 // SPACE $% *+ -./ [0-9] : [A-Z]

// Alphanumeric encoding table.  Used after validation.
// "0123456789ABCDEFGHIJKLMNOPQRSTUVWXYZ $%*+-./:"
var alpha = [64]byte{
	00, 10, 11, 12, 13, 14, 15, 16, 17, 18, 19, 20, 21, 22, 23, 24, // 0x40
	25, 26, 27, 28, 29, 30, 31, 32, 33, 34, 35, 00, 00, 00, 00, 00, // 0x50
	36, 00, 00, 00, 37, 38, 00, 00, 00, 00, 39, 40, 00, 41, 42, 43, // 0x20
	00, 01, 02, 03, 04, 05, 06, 07, 010, 9, 44, 00, 00, 00, 00, 00, // 0x30
}

// isAlpha reports whether c is in the alphanumeric mode character set.
func isAlpha(c byte) bool { return alphamask>>(uint32(c)-' ')&1 != 0 }

// IsAlphanumeric reports whether s is encodable in alphanumeric mode.
func IsAlphanumeric(s string) bool {
	for i := 0; i < len(s); i++ {
		if !isAlpha(s[i]) {
			return false
		}
	}
	return true
}

// MakeAlphanumeric returns an alphanumeric mode segment for text,
// which may contain only 0-9, A-Z (upper case only), space and $%*+-./:
func MakeAlphanumeric(text string) (Segment, error) {
	if !IsAlphanumeric(text) {
		return Segment{}, SegmentError{Alphanumeric, text, "character not in alphanumeric set"}
	}
	if Alphanumeric.DataLength(len(text)) > MaxSegmentBits {
		return Segment{}, SegmentError{Mode: Alphanumeric, Reason: "too long"}
	}
	b := NewBits((Alphanumeric.DataLength(len(text)) + 7) >> 3)
	s := text
	for ; len(s) >= 2; s = s[2:] {
		b.Write(uint32(alpha[s[0]&0x3f])*45+uint32(alpha[s[1]&0x3f]), 11)
	}
	if len(s) == 1 {
		b.Write(uint32(alpha[s[0]&0x3f]), 6)
	}
	return newSegment(Alphanumeric, len(text), b)
}

// A KanjiTable maps characters to 13 bit QR Kanji mode values.
type KanjiTable interface {
	// Kanji returns the Kanji mode value of r and whether r is
	// encodable in Kanji mode.
	Kanji(r rune) (uint16, bool)
}

// KanjiFunc adapts a function to the KanjiTable interface.
type KanjiFunc func(rune) (uint16, bool)

func (f KanjiFunc) Kanji(r rune) (uint16, bool) { return f(r) }

// ShiftJIS is a KanjiTable accepting characters encoded in Shift JIS
// as double byte characters from 0x8140 to 0x9ffc and from 0xe040 to
// 0xebbf, the QR Kanji mode range.
var ShiftJIS KanjiTable = KanjiFunc(shiftJISKanji)

func shiftJISKanji(r rune) (uint16, bool) {
	if r < 0x80 {
		return 0, false
	}
	s, err := japanese.ShiftJIS.NewEncoder().String(string(r))
	if err != nil || len(s) != 2 {
		return 0, false
	}
	return SJISKanji(s[0], s[1])
}

// SJISKanji returns the Kanji mode value of the Shift JIS double byte
// character b0 b1 and whether it is in the Kanji mode range.
func SJISKanji(b0, b1 byte) (uint16, bool) {
	c := uint16(b0)<<8 | uint16(b1)
	if c < 0x8140 || c > 0xebbf || 0x9ffc < c && c < 0xe040 ||
		b1 < 0x40 || b1 == 0x7f || b1 > 0xfc {
		return 0, false
	}
	return uint16(b0&^0xc0)*0xc0 + uint16(b1) - 0x100, true
}

// MakeKanji returns a Kanji mode segment for text, mapping each
// character through t.  If t is nil, ShiftJIS is used.
func MakeKanji(text string, t KanjiTable) (Segment, error) {
	if t == nil {
		t = ShiftJIS
	}
	b := NewBits(len(text))
	n := 0
	for _, r := range text {
		v, ok := t.Kanji(r)
		if !ok || v >= 1<<13 {
			return Segment{}, SegmentError{Kanji, string(r), "character not in kanji set"}
		}
		b.Write(uint32(v), 13)
		n++
	}
	return newSegment(Kanji, n, b)
}

// MakeECI returns an ECI segment setting the Extended Channel
// Interpretation assignment number.
func MakeECI(assign int) (Segment, error) {
	b := NewBits(3)
	switch {
	case assign < 0:
		return Segment{}, SegmentError{Mode: ECI, Reason: "negative assignment number"}
	case assign < 1<<7:
		b.Write(uint32(assign), 8)
	case assign < 1<<14:
		b.Write(2<<14|uint32(assign), 16)
	case assign < 1e6:
		b.Write(6<<21|uint32(assign), 24)
	default:
		return Segment{}, SegmentError{Mode: ECI,
			Reason: "assignment number " + strconv.Itoa(assign) + " out of range"}
	}
	return newSegment(ECI, 0, b)
}

// MakeSegments returns segments for text in the narrowest mode
// covering all of it: numeric, alphanumeric or byte (UTF-8).
// Empty text has no segments.
func MakeSegments(text string) ([]Segment, error) {
	var seg Segment
	var err error
	switch {
	case text == "":
		return nil, nil
	case IsNumeric(text):
		seg, err = MakeNumeric(text)
	case IsAlphanumeric(text):
		seg, err = MakeAlphanumeric(text)
	default:
		seg, err = MakeBytes([]byte(text))
	}
	if err != nil {
		return nil, err
	}
	return []Segment{seg}, nil
}
