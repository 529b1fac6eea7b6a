// Copyright 2024 Vadim Vygonets.  All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package config loads qr command settings from a YAML file.
//
// A configuration file looks like this; every key is optional:
//
//	level: q          # l, m, q or h
//	min_version: 1
//	max_version: 40
//	mask: auto        # auto or 0 to 7
//	boost: true       # raise level if data allows
//	scale: 4          # image pixels per module
//	margin: 4         # quiet zone in modules
//	format: png       # see Formats
//	kanji: true       # kanji mode segments
//	latin1: false     # Latin-1 byte mode
//	eci: 26           # ECI assignment number, 0 for none
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"slices"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"

	qr "github.com/unixdj/qrencode"
	"github.com/unixdj/qrencode/coding"
	"github.com/unixdj/qrencode/split"
)

// Formats lists the output formats.  Formats ending in "i" have
// colours inverted.  The empty format is chosen by the command.
var Formats = []string{
	"png", "pngi", "pbm", "pbmi", "bmp", "bmpi", "tiff", "tiffi",
	"eps", "epsi", "utf8", "utf8i", "ascii", "asciii",
}

// A Level is an error correction level written as l, m, q or h.
type Level qr.Level

// ParseLevel parses an error correction level, ignoring case.
func ParseLevel(s string) (Level, error) {
	if len(s) == 1 {
		if i := strings.IndexByte("lmqhLMQH", s[0]); i >= 0 {
			return Level(i & 3), nil
		}
	}
	return 0, fmt.Errorf("%q: bad error correction level", s)
}

func (l Level) String() string { return strings.ToLower(qr.Level(l).String()) }

func (l Level) MarshalYAML() (interface{}, error) { return l.String(), nil }

func (l *Level) UnmarshalYAML(value *yaml.Node) error {
	if value.Kind != yaml.ScalarNode {
		return fmt.Errorf("line %d: want scalar", value.Line)
	}
	v, err := ParseLevel(value.Value)
	if err != nil {
		return err
	}
	*l = v
	return nil
}

// A Mask is a mask pattern written as "auto" or 0 to 7.
type Mask qr.Mask

// ParseMask parses a mask pattern.
func ParseMask(s string) (Mask, error) {
	if s == "auto" {
		return Mask(qr.AutoMask), nil
	}
	n, err := strconv.Atoi(s)
	if err != nil || n < 0 || n >= coding.NumMasks {
		return 0, fmt.Errorf("%q: bad mask", s)
	}
	return Mask(qr.Mask0 + qr.Mask(n)), nil
}

func (m Mask) String() string {
	if qr.Mask(m) == qr.AutoMask {
		return "auto"
	}
	return strconv.Itoa(int(m - Mask(qr.Mask0)))
}

func (m Mask) MarshalYAML() (interface{}, error) {
	if qr.Mask(m) == qr.AutoMask {
		return "auto", nil
	}
	return int(m - Mask(qr.Mask0)), nil
}

func (m *Mask) UnmarshalYAML(value *yaml.Node) error {
	if value.Kind != yaml.ScalarNode {
		return fmt.Errorf("line %d: want scalar", value.Line)
	}
	v, err := ParseMask(value.Value)
	if err != nil {
		return err
	}
	*m = v
	return nil
}

// Config holds the settings of the qr command.
type Config struct {
	Level      Level  `yaml:"level"`
	MinVersion int    `yaml:"min_version"`
	MaxVersion int    `yaml:"max_version"`
	Mask       Mask   `yaml:"mask"`
	Boost      bool   `yaml:"boost"`
	Scale      int    `yaml:"scale"`
	Margin     int    `yaml:"margin"`
	Format     string `yaml:"format"`
	Kanji      bool   `yaml:"kanji"`
	Latin1     bool   `yaml:"latin1"`
	ECI        int    `yaml:"eci"`
}

// Default returns the built-in settings.
func Default() *Config {
	return &Config{
		Level:      Level(qr.L),
		MinVersion: int(coding.MinVersion),
		MaxVersion: int(coding.MaxVersion),
		Mask:       Mask(qr.AutoMask),
		Scale:      4,
		Margin:     qr.Border,
		Kanji:      true,
	}
}

// A FieldError reports an invalid setting.
type FieldError struct {
	Field  string // YAML key
	Reason string
}

func (e *FieldError) Error() string {
	return "config: " + e.Field + ": " + e.Reason
}

// ErrInvalid is matched by every FieldError.
var ErrInvalid = errors.New("config: invalid setting")

func (e *FieldError) Unwrap() error { return ErrInvalid }

// Validate checks that c describes a possible encoding.
func (c *Config) Validate() error {
	fail := func(field, format string, a ...any) error {
		return &FieldError{field, fmt.Sprintf(format, a...)}
	}
	switch {
	case !coding.Level(c.Level).IsValid():
		return fail("level", "bad level %d", c.Level)
	case !coding.Version(c.MinVersion).IsValid():
		return fail("min_version", "%d not between 1 and 40", c.MinVersion)
	case !coding.Version(c.MaxVersion).IsValid():
		return fail("max_version", "%d not between 1 and 40", c.MaxVersion)
	case c.MinVersion > c.MaxVersion:
		return fail("min_version", "%d above max_version %d", c.MinVersion, c.MaxVersion)
	case c.Mask < Mask(qr.AutoMask) || c.Mask > Mask(qr.Mask7):
		return fail("mask", "bad mask %d", c.Mask)
	case c.Scale < 1 || c.Scale > 1<<16:
		return fail("scale", "%d out of range", c.Scale)
	case c.Margin < 0 || c.Margin > 1<<10:
		return fail("margin", "%d out of range", c.Margin)
	case c.Format != "" && !slices.Contains(Formats, c.Format):
		return fail("format", "unknown format %q", c.Format)
	case c.ECI < 0 || c.ECI >= 1e6:
		return fail("eci", "%d out of range", c.ECI)
	}
	return nil
}

// Parse returns the settings in data on top of the defaults.
// Unknown keys are an error.
func Parse(data []byte) (*Config, error) {
	c := Default()
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(c); err != nil && err != io.EOF {
		return nil, fmt.Errorf("config: %w", err)
	}
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return c, nil
}

// Load reads the settings from the file at path.  An empty path
// means the defaults.
func Load(path string) (*Config, error) {
	if path == "" {
		return Default(), nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return Parse(data)
}

// Marshal returns c as YAML.
func (c *Config) Marshal() ([]byte, error) {
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return yaml.Marshal(c)
}

// Options returns the encoder options described by c.
func (c *Config) Options() *qr.Options {
	return &qr.Options{
		MinVersion: coding.Version(c.MinVersion),
		MaxVersion: coding.Version(c.MaxVersion),
		Mask:       qr.Mask(c.Mask),
		BoostLevel: c.Boost,
	}
}

// SplitOptions returns the segmentation options described by c.
func (c *Config) SplitOptions() *split.Options {
	o := &split.Options{Latin1: c.Latin1, ECI: c.ECI}
	if c.Kanji {
		o.Kanji = coding.ShiftJIS
	}
	return o
}
