// Copyright 2011 The Go Authors.  All rights reserved.
// Copyright 2024 Vadim Vygonets.  All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package coding

import "github.com/unixdj/qrencode/gf256"

// blockLayout returns the number of blocks, the number of short
// blocks, the number of data bytes in a short block and the number of
// error correction bytes per block at version v and level l.  Long
// blocks hold one more data byte.
func blockLayout(v Version, l Level) (nblock, nshort, short, check int) {
	nblock, check = v.Blocks(l)
	raw := v.RawBytes()
	nshort = nblock - raw%nblock
	short = raw/nblock - check
	return
}

// AddECC splits data, the v.DataBytes(l) data codewords, into blocks,
// computes error correction bytes for each block and returns the
// v.RawBytes() codewords to be placed in the symbol: the data bytes
// interleaved round-robin across blocks, followed by the error
// correction bytes interleaved the same way.
func AddECC(data []byte, v Version, l Level) ([]byte, error) {
	if !v.IsValid() {
		return nil, ErrVersion
	}
	if !l.IsValid() {
		return nil, ErrLevel
	}
	if len(data) != v.DataBytes(l) {
		return nil, internalError("%d data codewords for %d-%s, want %d",
			len(data), v, l, v.DataBytes(l))
	}
	nblock, nshort, short, check := blockLayout(v, l)
	raw := v.RawBytes()
	rs := gf256.NewRSEncoder(Field, check)
	ecc := make([]byte, nblock*check)
	blocks := make([][]byte, nblock)
	for i, dat := 0, data; i < nblock; i++ {
		n := short
		if i >= nshort {
			n++
		}
		blocks[i], dat = dat[:n], dat[n:]
		rs.ECC(blocks[i], ecc[i*check:(i+1)*check])
	}

	out := make([]byte, 0, raw)
	for j := 0; j <= short; j++ {
		for _, b := range blocks {
			// short blocks have no byte at index short
			if j < len(b) {
				out = append(out, b[j])
			}
		}
	}
	for j := 0; j < check; j++ {
		for i := 0; i < nblock; i++ {
			out = append(out, ecc[i*check+j])
		}
	}
	if len(out) != raw {
		return nil, internalError("%d codewords for version %d, want %d",
			len(out), v, raw)
	}
	return out, nil
}
