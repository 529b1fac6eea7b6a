// Copyright 2024 Vadim Vygonets.  All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

/*
Package split splits strings into QR code segments.

Each character of a string is encodable in one or more modes: digits in
numeric, alphanumeric and byte mode, other ASCII characters in
alphanumeric and byte mode or byte mode only, and, with a KanjiTable,
Japanese characters in byte and kanji mode.  Split finds the sequence
of segments with the smallest encoded length.  Since the width of the
character count fields depends on the QR version size class, so does
the optimal split.
*/
package split // import "github.com/unixdj/qrencode/split"

import (
	"errors"
	"fmt"
	"unicode/utf8"

	"golang.org/x/text/encoding/charmap"

	"github.com/unixdj/qrencode/coding"
)

// Options controls how strings are split.  The zero value splits
// UTF-8 text into numeric, alphanumeric and byte mode segments.
type Options struct {
	// Kanji enables kanji mode for characters it accepts.
	Kanji coding.KanjiTable

	// Latin1 encodes byte mode segments as ISO 8859-1, the QR
	// default character set.  Characters above U+00FF are then
	// only encodable in kanji mode.
	Latin1 bool

	// ECI, if non-zero, is the Extended Channel Interpretation
	// assignment number of an ECI segment put before the text.
	ECI int
}

// Extended Channel Interpretation assignment numbers.
const (
	Latin1ECI   = 3   // ISO 8859-1
	ShiftJISECI = 20  // Shift JIS
	UTF8ECI     = 26  // UTF-8
	BinaryECI   = 899 // 8-bit binary data
)

var ErrNotEncodable = errors.New("qr: text not encodable in given modes")

var sizeClass = [3]struct{ min, max coding.Version }{
	{1, 9}, {10, 26}, {27, 40},
}

// mode bits, 1<<m for coding.Mode m
const (
	numMode   = 1 << coding.Numeric
	alphaMode = 1 << coding.Alphanumeric
	byteMode  = 1 << coding.Byte
	kanjiMode = 1 << coding.Kanji

	by = byteMode       // ASCII byte
	al = by | alphaMode // alphanumeric
	nu = al | numMode   // numeric
)

// chartbl holds the modes in which ASCII characters are encodable.
var chartbl = [utf8.RuneSelf]byte{
	by, by, by, by, by, by, by, by, by, by, by, by, by, by, by, by, // 0x00
	by, by, by, by, by, by, by, by, by, by, by, by, by, by, by, by, // 0x10
	al, by, by, by, al, al, by, by, by, by, al, al, by, al, al, al, // 0x20
	nu, nu, nu, nu, nu, nu, nu, nu, nu, nu, al, by, by, by, by, by, // 0x30
	by, al, al, al, al, al, al, al, al, al, al, al, al, al, al, al, // 0x40
	al, al, al, al, al, al, al, al, al, al, al, by, by, by, by, by, // 0x50
	by, by, by, by, by, by, by, by, by, by, by, by, by, by, by, by, // 0x60
	by, by, by, by, by, by, by, by, by, by, by, by, by, by, by, by, // 0x70
}

// classify returns a bit field of modes in which the first rune in s
// is encodable, and its length in bytes.
func (o *Options) classify(s string) (byte, int) {
	if c := s[0]; c < utf8.RuneSelf {
		return chartbl[c], 1
	}
	r, sz := utf8.DecodeRuneInString(s)
	var m byte
	if !o.Latin1 || sz > 1 && r <= 0xff {
		m = byteMode
	}
	if o.Kanji != nil && sz > 1 {
		if _, ok := o.Kanji.Kanji(r); ok {
			m |= kanjiMode
		}
	}
	return m, sz
}

/*
splitter and its component types.

newSplitter determines modes in which each rune in the string is
encodable and creates a slice of spans, each span describing a
substring of runes encodable in the same modes.  To avoid multiple
allocations, the span structure contains an array of segments for the
modes.

splitter.split creates a linked list of segments representing an
optimal split of the data.  A segment contains its mode, length in
bytes and runes, total encoded length in bits of the string from this
segment to the end, and a link to the next segment.

The split is calculated by walking the spans backwards.  For each span
n, for each mode m, a segment (n,m) is created representing an optimal
split for the string from span n to the end, starting with mode m.

The segment (n,m) is created thusly.  For each mode mm in which span
n+1 is encodable, a segment (n,m,mm) linking to (n+1,mm) is created.
If m=mm, the segments are merged.  The encoded length is calculated,
and the total encoded length of the next segment is added to it.  Of
these segments, the one with the smallest total encoded length is
chosen as (n,m), merged ones winning ties.

When the beginning of the span slice is reached, a segment (0,m) with
the smallest total encoded length for any m describes an optimal split
for the whole string.
*/
type (
	// segment describes a segment encoded in a certain mode.
	segment struct {
		mode    coding.Mode // encoding mode, -1 if unused
		segdata             // lengths and pointer to next
	}

	// segdata is the mutable portion of segment.
	segdata struct {
		next *segment // link to next segment in the chain
		len  int      // length of string in bytes
		rlen int      // length of string in Unicode code points
		bits int      // encoded size of all segments in the chain
	}

	// span describes a span of bytes encodable in the same modes.
	span struct {
		len  int        // length of string in bytes
		rlen int        // length of string in Unicode code points
		seg  [4]segment // segments
	}

	splitter struct {
		s      string   // string
		sp     []span   // spans
		latin1 bool     // byte mode length is rlen
		head   *segment // optimal split
	}
)

// inf is an excessive encoded length.  The largest QR code holds
// 23648 data bits.
const inf = 1 << 20

// newSplitter returns a splitter for s.  If s is not encodable, it
// returns an error matching ErrNotEncodable.
func newSplitter(s string, o *Options) (*splitter, error) {
	sp := &splitter{s: s, latin1: o.Latin1}
	var old byte
	for i := 0; i < len(s); {
		m, sz := o.classify(s[i:])
		if m == 0 {
			r, _ := utf8.DecodeRuneInString(s[i:])
			return nil, fmt.Errorf("%w: %q at offset %d", ErrNotEncodable, r, i)
		}
		if m != old {
			sp.sp = append(sp.sp, span{})
			seg := &sp.sp[len(sp.sp)-1].seg
			j := 0
			for mode := coding.Numeric; mode <= coding.Kanji; mode++ {
				if m&(1<<mode) != 0 {
					seg[j].mode = mode
					j++
				}
			}
			for ; j < len(seg); j++ {
				seg[j].mode = -1
			}
			old = m
		}
		v := &sp.sp[len(sp.sp)-1]
		v.len += sz
		v.rlen++
		i += sz
	}
	return sp, nil
}

// length returns the encoded length of a segment in mode with the
// lengths in d at the given size class, or inf if the character count
// doesn't fit in its field.
func (s *splitter) length(mode coding.Mode, d *segdata, class int) int {
	n := d.rlen
	if mode == coding.Byte && !s.latin1 {
		n = d.len
	}
	cl := mode.CountLength(sizeClass[class].min)
	if n >= 1<<cl {
		return inf
	}
	return 4 + cl + mode.DataLength(n)
}

// add adds v to the split before p, returning a pointer to the
// segment with the smallest encoded length.
func (s *splitter) add(v, p *span, class int) *segment {
	var best *segment
	for j := range v.seg {
		seg := &v.seg[j]
		if seg.mode < 0 {
			break
		}
		set := false
		// p.seg is an array, not a slice, so range works when p is nil
		for k := range p.seg {
			if k != 0 && (p == nil || p.seg[k].mode < 0) {
				break
			}
			c := segdata{len: v.len, rlen: v.rlen}
			merged := false
			if p != nil {
				next := &p.seg[k]
				if next.mode == seg.mode {
					c.len += next.len
					c.rlen += next.rlen
					c.next = next.next
					merged = true
				} else {
					c.next = next
				}
			}
			c.bits = s.length(seg.mode, &c, class)
			if c.next != nil {
				c.bits = min(c.bits+c.next.bits, inf)
			}
			if !set || c.bits < seg.bits || c.bits == seg.bits && merged {
				seg.segdata = c
				set = true
			}
		}
		if best == nil || seg.bits < best.bits {
			best = seg
		}
	}
	return best
}

// split calculates an optimal split for the given size class and
// returns its encoded length.
func (s *splitter) split(class int) int {
	// process spans in reverse order
	var head *segment
	var next *span
	for i := len(s.sp) - 1; i >= 0; i-- {
		head = s.add(&s.sp[i], next, class)
		next = &s.sp[i]
	}
	s.head = head
	if head == nil {
		return 0
	}
	return head.bits
}

// segments appends the segments of the last split to a.
func (s *splitter) segments(a []coding.Segment, o *Options) ([]coding.Segment, error) {
	text := s.s
	for seg := s.head; seg != nil; seg = seg.next {
		cs, err := makeSegment(seg.mode, text[:seg.len], o)
		if err != nil {
			return nil, err
		}
		a = append(a, cs)
		text = text[seg.len:]
	}
	return a, nil
}

func makeSegment(mode coding.Mode, text string, o *Options) (coding.Segment, error) {
	switch mode {
	case coding.Numeric:
		return coding.MakeNumeric(text)
	case coding.Alphanumeric:
		return coding.MakeAlphanumeric(text)
	case coding.Kanji:
		return coding.MakeKanji(text, o.Kanji)
	}
	if o.Latin1 {
		b, err := charmap.ISO8859_1.NewEncoder().String(text)
		if err != nil {
			return coding.Segment{}, fmt.Errorf("%w: %v", ErrNotEncodable, err)
		}
		text = b
	}
	return coding.MakeBytes([]byte(text))
}

// header returns the ECI segment requested by o, if any.
func (o *Options) header() ([]coding.Segment, int, error) {
	if o.ECI == 0 {
		return nil, 0, nil
	}
	eci, err := coding.MakeECI(o.ECI)
	if err != nil {
		return nil, 0, err
	}
	return []coding.Segment{eci}, eci.EncodedLength(coding.MinVersion), nil
}

/*
Split returns segments and minimum QR code version for text at the
given error correction level.  o may be nil.

Split starts with the smallest version size class and moves to a larger
one while the optimal split for the class doesn't fit the largest
version in it.  The version is then found by binary search within the
class.  If text doesn't fit in any version, the error is a
*coding.CapacityError.
*/
func Split(text string, level coding.Level, o *Options) ([]coding.Segment, coding.Version, error) {
	if !level.IsValid() {
		return nil, 0, coding.ErrLevel
	}
	if o == nil {
		o = &Options{}
	}
	hdr, hbits, err := o.header()
	if err != nil {
		return nil, 0, err
	}
	sp, err := newSplitter(text, o)
	if err != nil {
		return nil, 0, err
	}

	// The split and its length depend on the size class.  Move to
	// the next class while the split doesn't fit the largest version
	// of the current one.
	class, bits := 0, 0
	for ; ; class++ {
		bits = hbits + sp.split(class)
		if bits <= sizeClass[class].max.DataBits(level) {
			break
		}
		if class == len(sizeClass)-1 {
			if bits >= inf {
				bits = -1
			}
			return nil, 0, &coding.CapacityError{
				Bits: bits, Level: level, Version: coding.MaxVersion,
			}
		}
	}

	// Find version in the size class.
	v := sizeClass[class].min
	for max := sizeClass[class].max; v < max; {
		if mid := (v + max) / 2; mid.DataBits(level) < bits {
			v = mid + 1
		} else {
			max = mid
		}
	}

	segs, err := sp.segments(hdr, o)
	if err != nil {
		return nil, 0, err
	}
	return segs, v, nil
}

// Segments returns the optimal split of text for version v, with no
// regard to capacity.  o may be nil.
func Segments(text string, v coding.Version, o *Options) ([]coding.Segment, error) {
	if !v.IsValid() {
		return nil, coding.ErrVersion
	}
	if o == nil {
		o = &Options{}
	}
	hdr, _, err := o.header()
	if err != nil {
		return nil, err
	}
	sp, err := newSplitter(text, o)
	if err != nil {
		return nil, err
	}
	sp.split(v.SizeClass())
	return sp.segments(hdr, o)
}
