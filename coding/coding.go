// Copyright 2011 The Go Authors.  All rights reserved.
// Copyright 2024 Vadim Vygonets.  All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package coding implements low-level QR coding details.
//
// The encoding pipeline runs left to right: segments are built from
// the payload (MakeNumeric, MakeAlphanumeric, MakeBytes, MakeKanji,
// MakeECI), a version is chosen for them (SelectVersion), the segments
// are assembled into data codewords (Assemble), error correction is
// added and the blocks are interleaved (AddECC), the codewords are
// placed on a grid built from a Plan, and finally a mask is chosen by
// penalty score.  Encode runs all of it.
//
// All state used by an encoding is owned by that call; functions in
// this package are safe for concurrent use.
package coding // import "github.com/unixdj/qrencode/coding"

//go:generate sh -c "go run gen.go | gofmt > tables.go"

import (
	"errors"
	"fmt"

	"github.com/unixdj/qrencode/gf256"
)

var (
	ErrLevel        = errors.New("qr: invalid level")
	ErrVersion      = errors.New("qr: invalid version")
	ErrVersionRange = errors.New("qr: invalid version range")
	ErrMask         = errors.New("qr: invalid mask")
	ErrSegment      = errors.New("qr: invalid segment")
	ErrDataTooLong  = errors.New("qr: data too long")
	ErrInternal     = errors.New("qr: internal error")
)

// Field is the field for QR error correction.
var Field = gf256.NewField(0x11d, 2)

// MaxSegmentBits is the maximum length in bits of a segment's data.
// The largest QR code has 31329 modules.
const MaxSegmentBits = 32767

// CapacityError reports data that doesn't fit in the allowed versions.
// It matches ErrDataTooLong.
type CapacityError struct {
	Bits    int     // data length in bits including headers, or -1
	Level   Level   // error correction level
	Version Version // largest version tried
}

func (e *CapacityError) Error() string {
	if e.Bits < 0 {
		return fmt.Sprintf("qr: data too long for version %d-%s",
			e.Version, e.Level)
	}
	return fmt.Sprintf("qr: cannot encode %d bits into version %d-%s (%d bits)",
		e.Bits, e.Version, e.Level, e.Version.DataBits(e.Level))
}

func (e *CapacityError) Unwrap() error { return ErrDataTooLong }

// internalError returns an error matching ErrInternal.
func internalError(format string, a ...any) error {
	return fmt.Errorf("%w: "+format, append([]any{ErrInternal}, a...)...)
}
