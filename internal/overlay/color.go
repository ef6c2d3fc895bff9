package overlay

import (
	"fmt"
	"image/color"
	"strconv"
	"strings"
)

type Color color.NRGBA

var (
	Green   = Color{R: 0x00, G: 0xff, B: 0x00, A: 0xff}
	Magenta = Color{R: 0xff, G: 0x00, B: 0xff, A: 0xff}
	Blue    = Color{R: 0x00, G: 0x00, B: 0xff, A: 0xff}
	Orange  = Color{R: 0xff, G: 0x80, B: 0x00, A: 0xff}
	Yellow  = Color{R: 0xff, G: 0xff, B: 0x00, A: 0xff}
	Red     = Color{R: 0xff, G: 0x00, B: 0x00, A: 0xff}
)

var namedColors = map[string]Color{
	"green":   Green,
	"magenta": Magenta,
	"blue":    Blue,
	"orange":  Orange,
	"yellow":  Yellow,
	"red":     Red,
}

// RGBA implements color.Color.
func (c Color) RGBA() (r, g, b, a uint32) { return color.NRGBA(c).RGBA() }

// Hex formats as #rrggbb; alpha is dropped.
func (c Color) Hex() string {
	return fmt.Sprintf("#%02x%02x%02x", c.R, c.G, c.B)
}

// ParseColor accepts a palette name or #rrggbb.
func ParseColor(s string) (Color, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	if c, ok := namedColors[s]; ok {
		return c, nil
	}
	h, ok := strings.CutPrefix(s, "#")
	if !ok || len(h) != 6 {
		return Color{}, fmt.Errorf("unknown color %q", s)
	}
	v, err := strconv.ParseUint(h, 16, 32)
	if err != nil {
		return Color{}, fmt.Errorf("parse color %q: %w", s, err)
	}
	return Color{R: uint8(v >> 16), G: uint8(v >> 8), B: uint8(v), A: 0xff}, nil
}
