package vt

import (
	"fmt"

	colorful "github.com/lucasb-eyer/go-colorful"
)

// ColorMode selects which variant of Color is active.
type ColorMode uint8

const (
	// ColorDefault is the terminal's configured default fg/bg.
	ColorDefault ColorMode = iota
	// ColorNamed is one of the 16 base ANSI colors (0-15).
	ColorNamed
	// ColorIndexed is a 256-palette index (0-255).
	ColorIndexed
	// ColorRGB is a 24-bit truecolor value.
	ColorRGB
)

// Color is a tagged value: default, named (0-15), indexed (0-255) or RGB.
// The zero value is the default color.
type Color struct {
	Mode    ColorMode
	Index   uint8
	R, G, B uint8
}

func DefaultColor() Color          { return Color{} }
func NamedColor(n uint8) Color     { return Color{Mode: ColorNamed, Index: n & 0x0f} }
func IndexedColor(n uint8) Color   { return Color{Mode: ColorIndexed, Index: n} }
func RGBColor(r, g, b uint8) Color { return Color{Mode: ColorRGB, R: r, G: g, B: b} }

// RGB resolves the color against the xterm palette. Default resolves to
// white-on-black conventions only when the caller asks for it; here the
// default maps to mid grey so palette queries always have an answer.
func (c Color) RGB() (r, g, b uint8) {
	switch c.Mode {
	case ColorNamed:
		return paletteRGB(int(c.Index))
	case ColorIndexed:
		return paletteRGB(int(c.Index))
	case ColorRGB:
		return c.R, c.G, c.B
	}
	return 0xc0, 0xc0, 0xc0
}

// Style is the immutable attribute set carried by every cell. Merging is
// per-field replacement; there is no blending.
type Style struct {
	Bold          bool
	Italic        bool
	Underline     bool
	Blink         bool
	Reverse       bool
	Strikethrough bool
	Fg            Color
	Bg            Color

	// Link is the OSC 8 hyperlink target in effect when the cell was
	// written; empty for no link.
	Link string
}

// DefaultStyle returns the all-defaults pen.
func DefaultStyle() Style { return Style{} }

// ApplySGR returns a copy of st with one SGR parameter list applied.
// Unknown parameters are skipped individually; the rest of the list still
// takes effect.
func ApplySGR(st Style, params []int) Style {
	if len(params) == 0 {
		params = []int{0}
	}
	for i := 0; i < len(params); i++ {
		p := params[i]
		switch {
		case p == 0:
			link := st.Link
			st = Style{Link: link}
		case p == 1:
			st.Bold = true
		case p == 3:
			st.Italic = true
		case p == 4:
			st.Underline = true
		case p == 5:
			st.Blink = true
		case p == 7:
			st.Reverse = true
		case p == 9:
			st.Strikethrough = true
		case p == 22:
			st.Bold = false
		case p == 23:
			st.Italic = false
		case p == 24:
			st.Underline = false
		case p == 25:
			st.Blink = false
		case p == 27:
			st.Reverse = false
		case p == 29:
			st.Strikethrough = false
		case p >= 30 && p <= 37:
			st.Fg = NamedColor(uint8(p - 30))
		case p == 38:
			var c Color
			var ok bool
			c, i, ok = parseExtendedColor(params, i)
			if ok {
				st.Fg = c
			}
		case p == 39:
			st.Fg = DefaultColor()
		case p >= 40 && p <= 47:
			st.Bg = NamedColor(uint8(p - 40))
		case p == 48:
			var c Color
			var ok bool
			c, i, ok = parseExtendedColor(params, i)
			if ok {
				st.Bg = c
			}
		case p == 49:
			st.Bg = DefaultColor()
		case p >= 90 && p <= 97:
			st.Fg = NamedColor(uint8(p - 90 + 8))
		case p >= 100 && p <= 107:
			st.Bg = NamedColor(uint8(p - 100 + 8))
		default:
			// Unknown parameter: skip it, keep going.
		}
	}
	return st
}

// parseExtendedColor consumes a 38/48 sub-sequence starting at params[i].
// Returns the color, the index of the last consumed parameter and whether
// the sub-sequence was well formed.
func parseExtendedColor(params []int, i int) (Color, int, bool) {
	if i+1 >= len(params) {
		return Color{}, i, false
	}
	switch params[i+1] {
	case 5:
		if i+2 >= len(params) {
			return Color{}, i + 1, false
		}
		n := params[i+2]
		if n < 0 || n > 255 {
			return Color{}, i + 2, false
		}
		return IndexedColor(uint8(n)), i + 2, true
	case 2:
		if i+4 >= len(params) {
			return Color{}, len(params) - 1, false
		}
		r, g, b := clamp255(params[i+2]), clamp255(params[i+3]), clamp255(params[i+4])
		return RGBColor(uint8(r), uint8(g), uint8(b)), i + 4, true
	}
	return Color{}, i + 1, false
}

func clamp255(v int) int {
	if v < 0 {
		return 0
	}
	if v > 255 {
		return 255
	}
	return v
}

// ansiBase is the xterm RGB table for the 16 named colors.
var ansiBase = [16][3]uint8{
	{0x00, 0x00, 0x00}, {0xcd, 0x00, 0x00}, {0x00, 0xcd, 0x00}, {0xcd, 0xcd, 0x00},
	{0x00, 0x00, 0xee}, {0xcd, 0x00, 0xcd}, {0x00, 0xcd, 0xcd}, {0xe5, 0xe5, 0xe5},
	{0x7f, 0x7f, 0x7f}, {0xff, 0x00, 0x00}, {0x00, 0xff, 0x00}, {0xff, 0xff, 0x00},
	{0x5c, 0x5c, 0xff}, {0xff, 0x00, 0xff}, {0x00, 0xff, 0xff}, {0xff, 0xff, 0xff},
}

// paletteRGB maps a 256-palette index to RGB: 16 named entries, a 6x6x6
// cube, then the 24-step grey ramp.
func paletteRGB(n int) (r, g, b uint8) {
	switch {
	case n < 0:
		return 0, 0, 0
	case n < 16:
		e := ansiBase[n]
		return e[0], e[1], e[2]
	case n < 232:
		n -= 16
		levels := [6]uint8{0x00, 0x5f, 0x87, 0xaf, 0xd7, 0xff}
		return levels[n/36], levels[(n/6)%6], levels[n%6]
	case n < 256:
		v := uint8(8 + (n-232)*10)
		return v, v, v
	}
	return 0, 0, 0
}

// NearestPaletteIndex snaps an RGB value to the closest 256-palette entry,
// using perceptual distance rather than a plain cube walk.
func NearestPaletteIndex(r, g, b uint8) uint8 {
	target := colorful.Color{R: float64(r) / 255, G: float64(g) / 255, B: float64(b) / 255}
	best, bestDist := 0, -1.0
	for i := 0; i < 256; i++ {
		pr, pg, pb := paletteRGB(i)
		c := colorful.Color{R: float64(pr) / 255, G: float64(pg) / 255, B: float64(pb) / 255}
		d := target.DistanceLab(c)
		if bestDist < 0 || d < bestDist {
			best, bestDist = i, d
		}
	}
	return uint8(best)
}

// paletteReply formats an OSC 4 color report body ("rgb:rr/gg/bb").
func paletteReply(n int) string {
	r, g, b := paletteRGB(n)
	return fmt.Sprintf("rgb:%02x/%02x/%02x", r, g, b)
}
