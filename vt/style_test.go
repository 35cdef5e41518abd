package vt_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"vtgrid/vt"
)

func TestApplySGRAttributes(t *testing.T) {
	full := vt.Style{
		Bold: true, Italic: true, Underline: true,
		Blink: true, Reverse: true, Strikethrough: true,
	}

	tests := []struct {
		name   string
		start  vt.Style
		params []int
		want   vt.Style
	}{
		{"bold", vt.Style{}, []int{1}, vt.Style{Bold: true}},
		{"italic", vt.Style{}, []int{3}, vt.Style{Italic: true}},
		{"underline", vt.Style{}, []int{4}, vt.Style{Underline: true}},
		{"blink", vt.Style{}, []int{5}, vt.Style{Blink: true}},
		{"reverse", vt.Style{}, []int{7}, vt.Style{Reverse: true}},
		{"strike", vt.Style{}, []int{9}, vt.Style{Strikethrough: true}},
		{"clear bold only", full, []int{22}, withoutBold(full)},
		{"clear italic only", full, []int{23}, withoutItalic(full)},
		{"clear underline only", full, []int{24}, withoutUnderline(full)},
		{"clear blink only", full, []int{25}, withoutBlink(full)},
		{"clear reverse only", full, []int{27}, withoutReverse(full)},
		{"clear strike only", full, []int{29}, withoutStrike(full)},
		{"full reset", full, []int{0}, vt.Style{}},
		{"empty list means reset", full, nil, vt.Style{}},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, vt.ApplySGR(tc.start, tc.params))
		})
	}
}

func withoutBold(s vt.Style) vt.Style { s.Bold = false; return s }

func withoutItalic(s vt.Style) vt.Style { s.Italic = false; return s }

func withoutUnderline(s vt.Style) vt.Style { s.Underline = false; return s }

func withoutBlink(s vt.Style) vt.Style { s.Blink = false; return s }

func withoutReverse(s vt.Style) vt.Style { s.Reverse = false; return s }

func withoutStrike(s vt.Style) vt.Style { s.Strikethrough = false; return s }

func TestApplySGRColors(t *testing.T) {
	tests := []struct {
		name   string
		params []int
		fg     vt.Color
		bg     vt.Color
	}{
		{"named fg", []int{31}, vt.NamedColor(1), vt.DefaultColor()},
		{"named bg", []int{44}, vt.DefaultColor(), vt.NamedColor(4)},
		{"bright fg", []int{91}, vt.NamedColor(9), vt.DefaultColor()},
		{"bright bg", []int{104}, vt.DefaultColor(), vt.NamedColor(12)},
		{"indexed fg", []int{38, 5, 123}, vt.IndexedColor(123), vt.DefaultColor()},
		{"indexed bg", []int{48, 5, 200}, vt.DefaultColor(), vt.IndexedColor(200)},
		{"rgb fg", []int{38, 2, 10, 20, 30}, vt.RGBColor(10, 20, 30), vt.DefaultColor()},
		{"rgb bg", []int{48, 2, 250, 0, 9}, vt.DefaultColor(), vt.RGBColor(250, 0, 9)},
		{"default fg", []int{31, 39}, vt.DefaultColor(), vt.DefaultColor()},
		{"default bg", []int{44, 49}, vt.DefaultColor(), vt.DefaultColor()},
		{"rgb clamps", []int{38, 2, 999, -5, 0}, vt.RGBColor(255, 0, 0), vt.DefaultColor()},
		{"truncated extended ignored", []int{38, 5}, vt.DefaultColor(), vt.DefaultColor()},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			st := vt.ApplySGR(vt.Style{}, tc.params)
			assert.Equal(t, tc.fg, st.Fg)
			assert.Equal(t, tc.bg, st.Bg)
		})
	}
}

func TestApplySGRUnknownSkipped(t *testing.T) {
	// 21 and 73 are not recognized; the rest of the list still applies.
	st := vt.ApplySGR(vt.Style{}, []int{1, 21, 73, 31})
	assert.True(t, st.Bold)
	assert.Equal(t, vt.NamedColor(1), st.Fg)
}

func TestApplySGRResetKeepsHyperlink(t *testing.T) {
	st := vt.Style{Bold: true, Link: "https://example.com"}
	st = vt.ApplySGR(st, []int{0})
	assert.False(t, st.Bold)
	assert.Equal(t, "https://example.com", st.Link, "links are closed by OSC 8, not SGR 0")
}

func TestColorRGBResolution(t *testing.T) {
	r, g, b := vt.NamedColor(1).RGB()
	assert.Equal(t, [3]uint8{0xcd, 0x00, 0x00}, [3]uint8{r, g, b})

	r, g, b = vt.IndexedColor(231).RGB()
	assert.Equal(t, [3]uint8{0xff, 0xff, 0xff}, [3]uint8{r, g, b})

	r, g, b = vt.IndexedColor(232).RGB()
	assert.Equal(t, [3]uint8{0x08, 0x08, 0x08}, [3]uint8{r, g, b}, "grey ramp start")

	r, g, b = vt.IndexedColor(21).RGB()
	assert.Equal(t, [3]uint8{0x00, 0x00, 0xff}, [3]uint8{r, g, b}, "cube blue corner")

	r, g, b = vt.RGBColor(1, 2, 3).RGB()
	assert.Equal(t, [3]uint8{1, 2, 3}, [3]uint8{r, g, b})
}

func TestNearestPaletteIndex(t *testing.T) {
	assert.Equal(t, uint8(9), vt.NearestPaletteIndex(0xff, 0x00, 0x00))
	assert.Equal(t, uint8(0), vt.NearestPaletteIndex(0x00, 0x00, 0x00))
	assert.Equal(t, uint8(15), vt.NearestPaletteIndex(0xff, 0xff, 0xff))
}
