// Copyright 2011 The Go Authors.  All rights reserved.
// Copyright 2024 Vadim Vygonets.  All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

/*
Package qr encodes QR codes.

The Encode functions return a Code, an immutable grid of dark and
light modules.  EncodeText, EncodeBinary and EncodeDigits encode their
input in a single segment of the narrowest mode, EncodeData splits text
into segments of several modes, and EncodeSegments encodes segments
built with package coding.  Options restrict the version range, force
a mask pattern and raise the error correction level when the data
allows.

Encoding is safe for concurrent use.  Package qr does not log unless
SetLogger is called.
*/
package qr // import "github.com/unixdj/qrencode"

import (
	"context"
	"errors"
	"log/slog"

	"github.com/unixdj/qrencode/coding"
	"github.com/unixdj/qrencode/split"
)

// A Level denotes a QR error correction level.
// From least to most tolerant of errors, they are L, M, Q, H.
type Level int

const (
	L Level = iota // 7% of codewords can be restored
	M              // 15% of codewords can be restored
	Q              // 25% of codewords can be restored
	H              // 30% of codewords can be restored
)

func (l Level) String() string { return coding.Level(l).String() }

// A Mask selects the mask pattern.  The zero value, AutoMask, selects
// the pattern with the lowest penalty score.
type Mask int

const (
	AutoMask Mask = iota // lowest penalty
	Mask0                // (x+y)%2 == 0
	Mask1                // y%2 == 0
	Mask2                // x%3 == 0
	Mask3                // (x+y)%3 == 0
	Mask4                // (x/3+y/2)%2 == 0
	Mask5                // x*y%2+x*y%3 == 0
	Mask6                // (x*y%2+x*y%3)%2 == 0
	Mask7                // ((x+y)%2+x*y%3)%2 == 0
)

// pattern returns the mask pattern number for coding.Encode.
func (m Mask) pattern() int { return int(m) - 1 }

var (
	ErrDataTooLong  = coding.ErrDataTooLong
	ErrVersionRange = coding.ErrVersionRange
	ErrShortBuffer  = errors.New("qr: buffer too short")
)

// Options controls version and mask selection.  A nil *Options is
// the same as the zero value: any version, automatic mask, no level
// boost.
type Options struct {
	// MinVersion and MaxVersion limit the version.  Zero means
	// 1 and 40 respectively.
	MinVersion, MaxVersion coding.Version

	// Mask forces a mask pattern.
	Mask Mask

	// BoostLevel raises the error correction level as far as the
	// data fits in the version chosen for the requested level.
	BoostLevel bool
}

// versions returns the version range of o.
func (o *Options) versions() (min, max coding.Version, err error) {
	min, max = coding.MinVersion, coding.MaxVersion
	if o != nil {
		if o.MinVersion != 0 {
			min = o.MinVersion
		}
		if o.MaxVersion != 0 {
			max = o.MaxVersion
		}
		if o.Mask < AutoMask || o.Mask > Mask7 {
			return 0, 0, coding.ErrMask
		}
	}
	if !min.IsValid() || !max.IsValid() || min > max {
		return 0, 0, ErrVersionRange
	}
	return min, max, nil
}

func (o *Options) mask() Mask {
	if o == nil {
		return AutoMask
	}
	return o.Mask
}

// EncodeText encodes text at the given level in a single segment of
// the narrowest mode: numeric, alphanumeric or byte (UTF-8).
func EncodeText(text string, level Level) (*Code, error) {
	segs, err := coding.MakeSegments(text)
	if err != nil {
		return nil, err
	}
	return EncodeSegments(segs, level, nil)
}

// EncodeBinary encodes data at the given level in a byte mode segment.
func EncodeBinary(data []byte, level Level) (*Code, error) {
	seg, err := coding.MakeBytes(data)
	if err != nil {
		return nil, err
	}
	return EncodeSegments([]coding.Segment{seg}, level, nil)
}

// EncodeDigits encodes a string of decimal digits at the given level in
// a numeric mode segment.
func EncodeDigits(digits string, level Level) (*Code, error) {
	seg, err := coding.MakeNumeric(digits)
	if err != nil {
		return nil, err
	}
	return EncodeSegments([]coding.Segment{seg}, level, nil)
}

// EncodeSegments encodes segs in the smallest version allowed by o
// that holds them at the given level.
func EncodeSegments(segs []coding.Segment, level Level, o *Options) (*Code, error) {
	min, max, err := o.versions()
	if err != nil {
		return nil, err
	}
	v, err := coding.SelectVersion(segs, coding.Level(level), min, max)
	if err != nil {
		return nil, err
	}
	return encode(segs, v, level, o)
}

// EncodeData splits text into segments of the modes allowed by so (see
// package split) and encodes them in the smallest version allowed by o.
// so may be nil.
func EncodeData(text string, level Level, so *split.Options, o *Options) (*Code, error) {
	min, max, err := o.versions()
	if err != nil {
		return nil, err
	}
	l := coding.Level(level)
	segs, v, err := split.Split(text, l, so)
	switch {
	case err == nil && min <= v && v <= max:
		return encode(segs, v, level, o)
	case err != nil && !errors.Is(err, ErrDataTooLong):
		return nil, err
	}

	// The best split depends on the version size class.  Try the
	// classes in the allowed range in turn.
	for start := min; ; {
		end := max
		if c := classEnd[start.SizeClass()]; c < end {
			end = c
		}
		if segs, err = split.Segments(text, start, so); err != nil {
			return nil, err
		}
		v, err = coding.SelectVersion(segs, l, start, end)
		if err == nil {
			return encode(segs, v, level, o)
		}
		if end == max || !errors.Is(err, ErrDataTooLong) {
			return nil, err
		}
		start = end + 1
	}
}

// classEnd holds the largest version of each size class.
var classEnd = [3]coding.Version{9, 26, 40}

// encode encodes segs at version v, boosting the level if o says so.
func encode(segs []coding.Segment, v coding.Version, level Level, o *Options) (*Code, error) {
	l := coding.Level(level)
	if !l.IsValid() {
		return nil, coding.ErrLevel
	}
	if o != nil && o.BoostLevel {
		n := coding.TotalBits(segs, v)
		for l < coding.H && n <= v.DataBits(l+1) {
			l++
		}
	}
	cc, err := coding.Encode(segs, v, l, o.mask().pattern())
	if err != nil {
		return nil, err
	}
	if log := Logger(); log.Enabled(context.Background(), slog.LevelDebug) {
		log.Debug("qr: encoded",
			"segments", len(segs),
			"bits", coding.TotalBits(segs, v),
			"version", int(v),
			"ec_level", l.String(),
			"mask", cc.Mask,
			"penalty", cc.Penalty())
	}
	return &Code{c: cc}, nil
}
