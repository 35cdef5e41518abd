//go:build !windows

package main

import (
	"bufio"
	"fmt"
	"io"
	"os"

	"vtgrid/vt"
)

// renderer turns diff operations back into escape sequences for the host
// terminal. Every policy decision (spans, merge, repaint) already happened
// in the differ.
type renderer struct {
	w         *bufio.Writer
	trueColor bool
}

func newRenderer(w io.Writer) *renderer {
	return &renderer{
		w:         bufio.NewWriterSize(w, 64*1024),
		trueColor: hostTrueColor(),
	}
}

// hostTrueColor reports whether the host terminal advertises 24-bit color.
func hostTrueColor() bool {
	ct := os.Getenv("COLORTERM")
	return ct == "truecolor" || ct == "24bit"
}

func (r *renderer) clear() {
	r.w.WriteString("\x1b[2J\x1b[H")
	r.w.Flush()
}

func (r *renderer) shutdown() {
	r.w.WriteString("\x1b[0m\x1b[?25h\x1b[2J\x1b[H")
	r.w.Flush()
}

func (r *renderer) apply(ops []vt.Op, snap *vt.Snapshot) {
	r.w.WriteString("\x1b[?25l")
	for _, op := range ops {
		switch op.Kind {
		case vt.OpRepaint:
			r.w.WriteString("\x1b[0m\x1b[2J\x1b[H")
		case vt.OpMoveCursor:
			fmt.Fprintf(r.w, "\x1b[%d;%dH", op.Row+1, op.Col+1)
		case vt.OpWriteRun:
			r.w.WriteString(r.sgr(op.Style))
			r.w.WriteString(op.Text)
		}
	}
	// Park the real cursor where the emulated one sits.
	fmt.Fprintf(r.w, "\x1b[0m\x1b[%d;%dH", snap.Cursor.Y+1, snap.Cursor.X+1)
	if snap.Cursor.Visible {
		r.w.WriteString("\x1b[?25h")
	}
	r.w.Flush()
}

// sgr renders a Style as one SGR sequence, always starting from reset so
// runs are order-independent.
func (r *renderer) sgr(st vt.Style) string {
	out := []byte("\x1b[0")
	if st.Bold {
		out = append(out, ";1"...)
	}
	if st.Italic {
		out = append(out, ";3"...)
	}
	if st.Underline {
		out = append(out, ";4"...)
	}
	if st.Blink {
		out = append(out, ";5"...)
	}
	if st.Reverse {
		out = append(out, ";7"...)
	}
	if st.Strikethrough {
		out = append(out, ";9"...)
	}
	out = r.appendColor(out, st.Fg, false)
	out = r.appendColor(out, st.Bg, true)
	return string(append(out, 'm'))
}

func (r *renderer) appendColor(out []byte, c vt.Color, bg bool) []byte {
	base := 30
	ext := 38
	if bg {
		base = 40
		ext = 48
	}
	switch c.Mode {
	case vt.ColorNamed:
		n := int(c.Index)
		if n < 8 {
			return fmt.Appendf(out, ";%d", base+n)
		}
		return fmt.Appendf(out, ";%d", base+60+n-8)
	case vt.ColorIndexed:
		return fmt.Appendf(out, ";%d;5;%d", ext, c.Index)
	case vt.ColorRGB:
		if !r.trueColor {
			// Sixel rasterization and SGR 38;2 both produce RGB cells;
			// snap them to the 256-color palette for hosts without
			// 24-bit support.
			return fmt.Appendf(out, ";%d;5;%d", ext, vt.NearestPaletteIndex(c.R, c.G, c.B))
		}
		return fmt.Appendf(out, ";%d;2;%d;%d;%d", ext, c.R, c.G, c.B)
	}
	return out
}
