package vt_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"vtgrid/vt"
)

// sixelTerm uses a 2x6 pixel cell so one sixel band maps to one row of
// cells and two pixel columns map to one cell.
func sixelTerm(cols, rows int) (*vt.Screen, *vt.Parser) {
	cfg := vt.DefaultConfig()
	cfg.Sixel.CellWidth = 2
	cfg.Sixel.CellHeight = 6
	screen := vt.NewScreen(cols, rows, 0)
	return screen, vt.NewParser(screen, cfg)
}

func bgOf(s *vt.Screen, row, col int) vt.Color {
	return s.Cell(row, col).Style.Bg
}

func TestSixelSolidImage(t *testing.T) {
	screen, parser := sixelTerm(10, 4)

	// Define color 1 as 100% red, select it, paint a 4x6 block.
	feed(parser, "\x1bPq#1;2;100;0;0#1!4~\x1b\\")

	assert.Equal(t, vt.RGBColor(255, 0, 0), bgOf(screen, 0, 0))
	assert.Equal(t, vt.RGBColor(255, 0, 0), bgOf(screen, 0, 1))
	assert.Equal(t, vt.DefaultColor(), bgOf(screen, 0, 2), "unpainted cells untouched")
	assert.Equal(t, 1, screen.Cursor().Y, "cursor moves below the image")
	assert.Equal(t, 0, screen.Cursor().X, "column preserved")
}

func TestSixelLineAdvance(t *testing.T) {
	screen, parser := sixelTerm(10, 4)

	// Two bands of one column each: a 1x12 pixel strip, two cells tall.
	feed(parser, "\x1bPq#1;2;0;100;0#1~-~\x1b\\")

	assert.Equal(t, vt.RGBColor(0, 255, 0), bgOf(screen, 0, 0))
	assert.Equal(t, vt.RGBColor(0, 255, 0), bgOf(screen, 1, 0))
	assert.Equal(t, 2, screen.Cursor().Y)
}

func TestSixelTransparentCellsUntouched(t *testing.T) {
	screen, parser := sixelTerm(10, 4)
	screen.WriteCell(0, 1, vt.Cell{Grapheme: "Z", Width: 1})

	// The image covers only the first cell column.
	feed(parser, "\x1bPq#1;2;100;0;0#1!2~\x1b\\")

	assert.Equal(t, vt.RGBColor(255, 0, 0), bgOf(screen, 0, 0))
	assert.Equal(t, "Z", screen.Cell(0, 1).Grapheme, "cells outside the image keep their content")
}

func TestSixelHLSColor(t *testing.T) {
	screen, parser := sixelTerm(10, 4)

	// HLS 120/50/100 is pure green.
	feed(parser, "\x1bPq#2;1;120;50;100#2~\x1b\\")

	assert.Equal(t, vt.RGBColor(0, 255, 0), bgOf(screen, 0, 0))
}

func TestSixelBlockMeanMixesColors(t *testing.T) {
	screen, parser := sixelTerm(10, 4)

	// A repainted column takes the last color ($ rewinds to column 0).
	feed(parser, "\x1bPq#1;2;0;0;0#2;2;100;100;100#1~$#2~\x1b\\")
	assert.Equal(t, vt.RGBColor(255, 255, 255), bgOf(screen, 0, 0))

	// One black and one white column inside the same 2x6 cell block:
	// the cell background is their mean.
	screen2, parser2 := sixelTerm(10, 4)
	feed(parser2, "\x1bPq#1;2;0;0;0#1~#2;2;100;100;100#2~\x1b\\")
	assert.Equal(t, vt.RGBColor(127, 127, 127), bgOf(screen2, 0, 0))
}

func TestSixelMalformedBytesSkipped(t *testing.T) {
	screen, parser := sixelTerm(10, 4)

	// Spaces and commas are not sixel syntax; the decode continues.
	feed(parser, "\x1bPq , #1;2;100;0;0 #1!2~\x1b\\")

	assert.Equal(t, vt.RGBColor(255, 0, 0), bgOf(screen, 0, 0))
}

func TestSixelClippedAtBottom(t *testing.T) {
	screen, parser := sixelTerm(10, 2)
	screen.MoveCursor(1, 0)

	// Three bands from the last row: only the first fits.
	feed(parser, "\x1bPq#1;2;100;0;0#1~-~-~\x1b\\")

	assert.Equal(t, vt.RGBColor(255, 0, 0), bgOf(screen, 1, 0))
	assert.Equal(t, 1, screen.Cursor().Y, "no scrolling below the screen")
}

func TestSixelCancelledByCAN(t *testing.T) {
	screen, parser := sixelTerm(10, 4)
	feed(parser, "\x1bPq#1;2;100;0;0#1~\x18")

	assert.Equal(t, vt.DefaultColor(), bgOf(screen, 0, 0), "cancelled image never lands")
	feed(parser, "ok")
	assert.Equal(t, "ok", rowText(screen, 0))
}

func TestNonSixelDCSIgnored(t *testing.T) {
	screen, parser := sixelTerm(10, 4)
	feed(parser, "\x1bP+q544e\x1b\\after")

	assert.Equal(t, "after", rowText(screen, 0))
}
