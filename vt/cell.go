package vt

import (
	runewidth "github.com/mattn/go-runewidth"
	"github.com/rivo/uniseg"
)

// Cell is one grid position: a grapheme cluster (possibly with combining
// marks), its display width and its style.
//
// A wide cluster occupies two columns; the right column holds a placeholder
// cell (Width == 0, empty grapheme). The placeholder is never written to
// independently: the owner is always the cell one column to the left.
type Cell struct {
	Grapheme string
	Width    uint8 // 0 = placeholder, 1 = normal, 2 = wide
	Style    Style
}

// BlankCell returns a space cell carrying the given style. Erase operations
// use the current pen's background, not an unstyled blank.
func BlankCell(st Style) Cell {
	return Cell{Grapheme: " ", Width: 1, Style: st}
}

func placeholderCell(st Style) Cell {
	return Cell{Width: 0, Style: st}
}

// IsPlaceholder reports whether the cell is the right half of a wide cluster.
func (c Cell) IsPlaceholder() bool { return c.Width == 0 }

// IsBlank reports whether the cell renders as an empty space.
func (c Cell) IsBlank() bool {
	return c.Width == 1 && (c.Grapheme == " " || c.Grapheme == "")
}

func (c Cell) Equal(o Cell) bool {
	return c.Grapheme == o.Grapheme && c.Width == o.Width && c.Style == o.Style
}

// graphemeWidth classifies a cluster's display width: 0 for pure combining
// marks, 2 for wide (CJK, most emoji), otherwise 1.
func graphemeWidth(g string) int {
	w := uniseg.StringWidth(g)
	if w < 0 {
		w = 0
	}
	if w > 2 {
		w = 2
	}
	return w
}

// runeDisplayWidth classifies a single decoded rune before clustering.
func runeDisplayWidth(r rune) int {
	return runewidth.RuneWidth(r)
}

// Line is one buffer row: a fixed-width slice of cells plus a flag marking
// soft-wrapped continuations (false means the row ended in a hard newline).
type Line struct {
	Cells   []Cell
	Wrapped bool
}

func newLine(width int, st Style) Line {
	l := Line{Cells: make([]Cell, width)}
	for i := range l.Cells {
		l.Cells[i] = BlankCell(st)
	}
	return l
}

func (l Line) clone() Line {
	c := Line{Cells: make([]Cell, len(l.Cells)), Wrapped: l.Wrapped}
	copy(c.Cells, l.Cells)
	return c
}

func (l Line) Equal(o Line) bool {
	if l.Wrapped != o.Wrapped || len(l.Cells) != len(o.Cells) {
		return false
	}
	for i := range l.Cells {
		if !l.Cells[i].Equal(o.Cells[i]) {
			return false
		}
	}
	return true
}

// Text renders the line as a plain string, skipping placeholders and
// trimming trailing blanks. Used by tests and scrollback consumers.
func (l Line) Text() string {
	var out []byte
	lastNonBlank := -1
	for _, c := range l.Cells {
		if c.IsPlaceholder() {
			continue
		}
		g := c.Grapheme
		if g == "" {
			g = " "
		}
		out = append(out, g...)
		if !c.IsBlank() {
			lastNonBlank = len(out)
		}
	}
	if lastNonBlank < 0 {
		return ""
	}
	return string(out[:lastNonBlank])
}
