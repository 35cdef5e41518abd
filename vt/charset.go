package vt

// Charset designations for G0-G3. Only the DEC special graphics set changes
// glyphs; everything else passes through (the engine is UTF-8 native, so the
// national replacement sets degrade to ASCII).
type charsetID uint8

const (
	charsetASCII charsetID = iota
	charsetDECGraphics
	charsetUK
)

func charsetFor(code byte) (charsetID, bool) {
	switch code {
	case 'B', '1': // US ASCII
		return charsetASCII, true
	case '0', '2': // DEC special graphics
		return charsetDECGraphics, true
	case 'A': // UK
		return charsetUK, true
	}
	return charsetASCII, false
}

// decGraphics maps the 0x5f-0x7e range of the DEC special graphics set to
// the line-drawing runes terminals actually render.
var decGraphics = map[rune]rune{
	'_': ' ',
	'`': '◆',
	'a': '▒',
	'b': '␉',
	'c': '␌',
	'd': '␍',
	'e': '␊',
	'f': '°',
	'g': '±',
	'h': '␤',
	'i': '␋',
	'j': '┘',
	'k': '┐',
	'l': '┌',
	'm': '└',
	'n': '┼',
	'o': '⎺',
	'p': '⎻',
	'q': '─',
	'r': '⎼',
	's': '⎽',
	't': '├',
	'u': '┤',
	'v': '┴',
	'w': '┬',
	'x': '│',
	'y': '≤',
	'z': '≥',
	'{': 'π',
	'|': '≠',
	'}': '£',
	'~': '·',
}

// translateRune applies the active charset to one decoded rune.
func translateRune(r rune, cs charsetID) rune {
	switch cs {
	case charsetDECGraphics:
		if m, ok := decGraphics[r]; ok {
			return m
		}
	case charsetUK:
		if r == '#' {
			return '£'
		}
	}
	return r
}
