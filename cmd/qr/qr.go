// Copyright 2011 The Go Authors.  All rights reserved.
// Copyright 2024 Vadim Vygonets.  All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Qr encodes its arguments or standard input as a QR code.
package main

import (
	"bytes"
	"fmt"
	"io"
	"log"
	"log/slog"
	"os"
	"strings"

	"github.com/mattn/go-isatty"
	"github.com/pborman/getopt/v2"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/encoding/japanese"
	"golang.org/x/text/encoding/unicode"

	qr "github.com/unixdj/qrencode"
	"github.com/unixdj/qrencode/coding"
	"github.com/unixdj/qrencode/internal/config"
	"github.com/unixdj/qrencode/split"
)

var g = struct {
	conf     string // config file
	fn       string // output file
	cx       int    // randr source X coordinate index in inc
	inc      [2]int // randr source X,Y coordinate increments
	bg, fg   rgba   // colours
	eciflag  bool   // ECI flag
	sjis     bool   // Shift JIS input
	utf16    bool   // UTF-16 input
	nokanji  bool   // kanji mode disabled
	byteOnly bool   // byte mode only
	upper    bool   // uppercase
	boost    bool   // boost level
	debug    bool   // debug logging
	c        *config.Config
}{
	inc: [2]int{1, 1},
	bg:  rgba{0xff, 0xff, 0xff, 0xff},
	fg:  rgba{0x00, 0x00, 0x00, 0xff},
}

func printUsage(w io.Writer) {
	cl := getopt.CommandLine
	prog := cl.Program()
	ul := make([]string, 1, 4)
	ul[0] = cl.UsageLine() + " [string ...]"
	ml := max(70-len("Usage: ")-1-len(prog), 0)
	for i := 0; len(ul[i]) > ml; i++ {
		s := ul[i]
		n := ml - 1
		for n > 0 && (s[n] != ' ' || s[n+1] != '[') {
			n--
		}
		ul = append(ul, s[n+1:])
		ul[i] = s[:max(n, 0)]
		ml = 60
	}
	fmt.Fprint(w, "QR code generator\nUsage: ", prog, " ",
		strings.Join(ul, "\n          "), `
If no string is given, data is read from standard input and the final
newline is stripped.  Settings are read from the config file if given,
flags override them.  Defaults: UTF-8 input, kanji mode segments
enabled, no ECI segment.

`)
	var b bytes.Buffer
	cl.PrintOptions(&b)
	w.Write(b.Bytes())
}

type opt func()

func (opt) String() string                    { return "" }
func (o opt) Set(string, getopt.Option) error { o(); return nil }

func usage() {
	printUsage(os.Stderr)
	os.Exit(2)
}

func help() {
	printUsage(os.Stdout)
	os.Exit(0)
}

func version() {
	fmt.Println(`qr version 0.9.0
Copyright (c) 2011 The Go Authors
Copyright (c) 2024 Vadim Vygonets`)
	os.Exit(0)
}

func flip() {
	g.inc[0] = -g.inc[0]
}

func rotate() {
	g.cx ^= 1
	m := g.inc[0] * g.inc[1]
	g.inc[0] *= m
	g.inc[1] *= -m
}

func parseFlags() {
	getopt.SetUsage(usage)
	getopt.Flag(opt(help), 'h', "show this help").SetFlag()
	getopt.Flag(opt(version), 'V', "print version and copyright").SetFlag()
	getopt.FlagLong(&g.conf, "config", 'c', "YAML config file", "file")
	getopt.FlagLong(&g.bg, "background", 'B', `background colour; see -F`,
		"RGB[A]|name")
	getopt.FlagLong(&g.fg, "foreground", 'F', `foreground colour `+
		`as 3, 4, 6 or 8 hex digits or colour name; `+
		`only for types png[i], bmp[i], tiff[i] and eps[i]`, "RGB[A]|name")
	getopt.Flag(opt(flip), 'f', `flip code horizontally; `+
		`to flip vertically, use "-frr"`).SetFlag()
	getopt.Flag(opt(rotate), 'r', `rotate code 90° counterclockwise; `+
		`-r and -f may be given multiple times, `+
		`order matters: "-fr" = "-rfrr" = "-rrrf"`).SetFlag()
	getopt.Flag(&g.nokanji, 'K', "disable kanji mode")
	latin1 := getopt.Bool('1', "convert byte mode segments to Latin-1")
	getopt.Flag(&g.byteOnly, '8', "encode entire data in byte mode")
	getopt.Flag(&g.sjis, 'k', "Shift JIS input")
	getopt.Flag(&g.utf16, 'u', "UTF-16 input, big endian unless "+
		"a byte order mark says otherwise")
	getopt.Flag(&g.upper, 'i', `ignore case, convert input to uppercase`)
	getopt.Flag(&g.boost, 'b', "boost error correction level if data fits")
	getopt.Flag(&g.debug, 'd', "log encoding details to standard error")
	margin := getopt.Unsigned('m', qr.Border,
		&getopt.UnsignedLimit{Base: 0, Bits: 16, Min: 0, Max: 1 << 10},
		"quiet zone modules", "margin")
	fno := getopt.Flag(&g.fn, 'o', `output file, or "-" for `+
		`standard output`, "file")
	getopt.Flag(&g.eciflag, 'e', "encode ECI segment setting "+
		"character encoding according to -1 flag")
	eci := getopt.Signed('E', -1, &getopt.SignedLimit{Base: 0, Bits: 21, Min: 1, Max: 999999},
		"encode ECI segment with the given value; overrides -e", "eci")
	minv := getopt.Unsigned('v', 1, &getopt.UnsignedLimit{Base: 0, Bits: 8, Min: 1, Max: 40},
		"minimum QR code version", "ver")
	maxv := getopt.Unsigned('x', 40, &getopt.UnsignedLimit{Base: 0, Bits: 8, Min: 1, Max: 40},
		"maximum QR code version", "ver")
	mask := getopt.Enum('M',
		[]string{"auto", "0", "1", "2", "3", "4", "5", "6", "7"}, "auto",
		"mask pattern", "auto|0-7")
	lev := getopt.Enum('l',
		[]string{"l", "m", "q", "h", "L", "M", "Q", "H"}, "l",
		"error correction level, lowest to highest", "l|m|q|h")
	scale := getopt.Unsigned('s', 4,
		&(getopt.UnsignedLimit{Base: 0, Bits: 28, Min: 1, Max: 1 << 16}),
		`image pixels (type eps[i]: points) per QR module; `+
			`ignored for types utf8[i] and ascii[i]`, "scale")
	ff := getopt.Enum('t', config.Formats, "", `output format, one of: `+
		strings.Join(config.Formats, ", ")+
		`; types with "i" appended have colours inverted; `+
		`if not set here or in the config file, and no -o is given `+
		`and standard output is a TTY, default is utf8, otherwise png`,
		"type")

	getopt.Parse()

	c, err := config.Load(g.conf)
	if err != nil {
		log.Fatalln(err)
	}
	if getopt.IsSet('l') {
		l, _ := config.ParseLevel(*lev)
		c.Level = l
	}
	if getopt.IsSet('M') {
		m, _ := config.ParseMask(*mask)
		c.Mask = m
	}
	if getopt.IsSet('v') {
		c.MinVersion = int(*minv)
	}
	if getopt.IsSet('x') {
		c.MaxVersion = int(*maxv)
	}
	if getopt.IsSet('s') {
		c.Scale = int(*scale)
	}
	if getopt.IsSet('m') {
		c.Margin = int(*margin)
	}
	if getopt.IsSet('t') {
		c.Format = *ff
	}
	if getopt.IsSet('1') {
		c.Latin1 = *latin1
	}
	if g.nokanji {
		c.Kanji = false
	}
	if g.boost {
		c.Boost = true
	}
	if getopt.IsSet('E') {
		c.ECI = int(*eci)
	} else if g.eciflag {
		if c.Latin1 {
			c.ECI = split.Latin1ECI
		} else {
			c.ECI = split.UTF8ECI
		}
	}
	if c.Format == "" {
		if !fno.Seen() && isatty.IsTerminal(os.Stdout.Fd()) {
			c.Format = "utf8"
		} else {
			c.Format = "png"
		}
	}
	if err := c.Validate(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		usage()
	}
	if g.fn == "-" {
		g.fn = ""
	}
	g.c = c
}

func main() {
	log.SetFlags(0)
	parseFlags()
	if g.debug {
		qr.SetLogger(slog.New(slog.NewTextHandler(os.Stderr,
			&slog.HandlerOptions{Level: slog.LevelDebug})))
	}

	var s string
	stdin := len(getopt.Args()) == 0
	if stdin {
		var b strings.Builder
		if _, err := io.Copy(&b, os.Stdin); err != nil {
			log.Fatalln(err)
		}
		s = b.String()
	} else {
		s = strings.Join(getopt.Args(), " ")
	}
	s, err := decodeInput(s)
	if err != nil {
		log.Fatalln(err)
	}
	if stdin {
		s, _ = strings.CutSuffix(strings.ReplaceAll(s, "\r\n", "\n"), "\n")
	}
	if g.upper {
		s = strings.ToUpper(s)
	}

	c, err := encode(s, g.c)
	if err != nil {
		log.Fatalln(err)
	}
	write(c)
}

// decodeInput converts s from the input encoding to UTF-8.
func decodeInput(s string) (string, error) {
	switch {
	case g.utf16:
		return unicode.UTF16(unicode.BigEndian, unicode.UseBOM).
			NewDecoder().String(s)
	case g.sjis:
		return japanese.ShiftJIS.NewDecoder().String(s)
	}
	return s, nil
}

// encode encodes s according to c.
func encode(s string, c *config.Config) (*qr.Code, error) {
	so := c.SplitOptions()
	if !g.byteOnly {
		return qr.EncodeData(s, qr.Level(c.Level), so, c.Options())
	}
	var segs []coding.Segment
	if so.ECI != 0 {
		seg, err := coding.MakeECI(so.ECI)
		if err != nil {
			return nil, err
		}
		segs = append(segs, seg)
	}
	b := []byte(s)
	if so.Latin1 {
		var err error
		if b, err = charmap.ISO8859_1.NewEncoder().Bytes(b); err != nil {
			return nil, err
		}
	}
	seg, err := coding.MakeBytes(b)
	if err != nil {
		return nil, err
	}
	return qr.EncodeSegments(append(segs, seg), qr.Level(c.Level), c.Options())
}

func write(c *qr.Code) {
	w := os.Stdout
	if g.fn != "" {
		var err error
		if w, err = os.OpenFile(g.fn, os.O_WRONLY|os.O_CREATE|os.O_TRUNC,
			0666); err != nil {
			log.Fatalln(err)
		}
	}
	v := newView(c, g.c)
	v.cx, v.inc = g.cx, g.inc
	v.bg, v.fg = g.bg, g.fg
	err := v.render(g.c.Format, w)
	if g.fn != "" && err == nil {
		err = w.Close()
	}
	if err != nil {
		log.Fatalln(err)
	}
}
