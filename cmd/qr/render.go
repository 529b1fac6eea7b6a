// Copyright 2011 The Go Authors.  All rights reserved.
// Copyright 2024 Vadim Vygonets.  All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package main

import (
	"bufio"
	"fmt"
	"image"
	"image/color"
	"image/png"
	"io"
	"strconv"
	"strings"

	"golang.org/x/image/bmp"
	"golang.org/x/image/tiff"

	qr "github.com/unixdj/qrencode"
	"github.com/unixdj/qrencode/internal/config"
)

// A view is a QR code as drawn: rotated, reflected, with a quiet zone
// and possibly inverted.
type view struct {
	c      *qr.Code
	cx     int    // source X coordinate index in inc
	inc    [2]int // source X,Y coordinate increments
	border int    // quiet zone modules
	scale  int    // pixels per module
	rev    bool   // inverted
	bg, fg rgba
}

func newView(c *qr.Code, conf *config.Config) *view {
	return &view{
		c:      c,
		inc:    [2]int{1, 1},
		border: conf.Margin,
		scale:  conf.Scale,
		bg:     white,
		fg:     black,
	}
}

// dark reports whether the module at x, y is drawn dark.  The code
// occupies 0 <= x, y < Size, the quiet zone surrounds it.
func (v *view) dark(x, y int) bool {
	var coord [2]int
	siz := v.c.Size()
	coord[v.cx] = (siz-1)&v.inc[0] + x*v.inc[0]
	coord[v.cx^1] = (siz-1)&v.inc[1] + y*v.inc[1]
	return v.c.Black(coord[0], coord[1]) != v.rev
}

// modules returns the number of modules on a side including the
// quiet zone.
func (v *view) modules() int { return v.c.Size() + 2*v.border }

var renderers = map[string]func(*view, io.Writer) error{
	"png": func(v *view, w io.Writer) error {
		e := png.Encoder{CompressionLevel: png.BestCompression}
		return e.Encode(w, v.image())
	},
	"bmp": func(v *view, w io.Writer) error { return bmp.Encode(w, v.image()) },
	"tiff": func(v *view, w io.Writer) error {
		return tiff.Encode(w, v.image(),
			&tiff.Options{Compression: tiff.Deflate})
	},
	"pbm":   pbm,
	"eps":   eps,
	"utf8":  utf8Text,
	"ascii": ascii,
}

// render writes v to w in the given format.  A format name with "i"
// appended inverts the colours.
func (v *view) render(format string, w io.Writer) error {
	v.rev = false
	fn, ok := renderers[format]
	if !ok {
		base, cut := strings.CutSuffix(format, "i")
		if fn, ok = renderers[base]; !ok || !cut {
			return fmt.Errorf("%q: unknown output format", format)
		}
		v.rev = true
	}
	return fn(v, w)
}

// image returns v as a two colour image, index 1 for dark modules.
func (v *view) image() *image.Paletted {
	n := v.modules() * v.scale
	img := image.NewPaletted(image.Rect(0, 0, n, n),
		color.Palette{v.bg.color(), v.fg.color()})
	for y := 0; y < n; y++ {
		my := y/v.scale - v.border
		row := img.Pix[y*img.Stride : y*img.Stride+n]
		for x := range row {
			if v.dark(x/v.scale-v.border, my) {
				row[x] = 1
			}
		}
	}
	return img
}

// pbm writes v as a Portable Bit Map image, for use with netpbm.
// Colours are ignored.
func pbm(v *view, w io.Writer) error {
	b := bufio.NewWriter(w)
	scale, bord := v.scale, v.border
	length := scale * v.modules()
	ls := strconv.Itoa(length)
	if _, err := b.WriteString("P4\n" + ls + " " + ls + "\n"); err != nil {
		return err
	}
	row := make([]byte, (length+7)/8)
	end := v.c.Size() + bord
	for y := -bord; y < end; y++ {
		clear(row)
		for x := -bord; x < end; x++ {
			if !v.dark(x, y) {
				continue
			}
			for i := (x + bord) * scale; i < (x+bord+1)*scale; i++ {
				row[i>>3] |= 0x80 >> (i & 7)
			}
		}
		for i := 0; i < scale; i++ {
			if _, err := b.Write(row); err != nil {
				return err
			}
		}
	}
	return b.Flush()
}

// eps writes v as Encapsulated PostScript centred on a letter page,
// scale points per module.
func eps(v *view, w io.Writer) error {
	const midx, midy = 306, 396
	pix := v.modules()
	scale := v.scale
	xorig := (midx*2 - pix*scale) / 2
	yorig := (midy*2 - pix*scale) / 2
	b := bufio.NewWriter(w)
	fmt.Fprintf(b, `%%!PS-Adobe-2.0 EPSF-2.0
%%%%Creator: QR https://github.com/unixdj/qrencode
%%%%Title: QR Code
%%%%BoundingBox: %d %d %d %d
%%%%EndComments
%%%%EndProlog
<< >> begin
gsave
%g %g translate
%d dup neg scale
/row 0 def
/p { 0 rmoveto 0 rlineto } def
/r { 0 row 1 add dup /row exch def moveto } def
`,
		xorig-1, yorig-1, midx*2-xorig, midy*2-yorig,
		midx-float64(pix*scale)/2, midy+float64((pix-1)*scale)/2-1,
		scale)
	if v.bg != white {
		fmt.Fprintf(b, `gsave
newpath 0 %d moveto
%d dup neg scale
%.3g %.3g %.3g setrgbcolor
1 0 rlineto stroke
grestore
`,
			pix/2, pix,
			float64(v.bg.R)/0xff, float64(v.bg.G)/0xff,
			float64(v.bg.B)/0xff)
	}
	if v.fg != black {
		fmt.Fprintf(b, "%.3g %.3g %.3g setrgbcolor\n",
			float64(v.fg.R)/0xff, float64(v.fg.G)/0xff,
			float64(v.fg.B)/0xff)
	}
	fmt.Fprintln(b, "newpath 0 0 moveto")
	bord := v.border
	end := v.c.Size() + bord
	for y := -bord; y < end; y++ {
		for x := -bord; x < end; {
			s := x
			for x < end && !v.dark(x, y) {
				x++
			}
			if x == end {
				break
			}
			d := x
			for x < end && v.dark(x, y) {
				x++
			}
			fmt.Fprintf(b, "%d %d p ", x-d, d-s)
		}
		fmt.Fprintln(b, "r")
	}
	b.WriteString("stroke grestore\nend\n%%Trailer\n")
	return b.Flush()
}

// utf8Text writes v as text, two rows of modules per line.
func utf8Text(v *view, w io.Writer) error {
	bord := v.border
	end := v.c.Size() + bord
	var b strings.Builder
	for y := -bord; y < end; y += 2 {
		for x := -bord; x < end; x++ {
			i := 0
			if v.dark(x, y) {
				i = 1
			}
			if y+1 < end && v.dark(x, y+1) {
				i |= 2
			}
			b.WriteString(halfBlocks[i])
		}
		b.WriteByte('\n')
	}
	_, err := io.WriteString(w, b.String())
	return err
}

var halfBlocks = [4]string{" ", "▀", "▄", "█"}

// ascii writes v as text, one row of modules per line, two characters
// per module.
func ascii(v *view, w io.Writer) error {
	bord := v.border
	pix := v.modules()
	b := make([]byte, (pix*2+1)*pix)
	i := 0
	for y := -bord; y < pix-bord; y++ {
		for x := -bord; x < pix-bord; x++ {
			var p byte = ' '
			if v.dark(x, y) {
				p = '#'
			}
			_ = b[i+1]
			b[i], b[i+1] = p, p
			i += 2
		}
		b[i] = '\n'
		i++
	}
	_, err := w.Write(b)
	return err
}
