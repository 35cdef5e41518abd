package vt

import (
	colorful "github.com/lucasb-eyer/go-colorful"
)

// sixelDecoder consumes the body of a DCS q string and accumulates a pixel
// grid of palette indexes. Malformed bytes are skipped; decode never fails.
type sixelDecoder struct {
	cfg SixelConfig

	palette map[int][3]uint8
	color   int
	repeat  int

	x, y          int
	width, height int

	// rows[y][x] is a palette index; -1 marks unpainted (transparent).
	rows [][]int16

	introducer byte
	args       []int
	cur        int
	haveCur    bool
}

func newSixelDecoder(cfg SixelConfig, params []int) *sixelDecoder {
	d := &sixelDecoder{cfg: cfg, repeat: 1, palette: make(map[int][3]uint8, 16)}
	// Default palette: the 16 base entries, so images that never define
	// colors still decode deterministically.
	for i := 0; i < 16; i++ {
		e := ansiBase[i]
		d.palette[i] = [3]uint8{e[0], e[1], e[2]}
	}
	_ = params // P2 (background select) does not change this decoder's output
	return d
}

func (d *sixelDecoder) consume(b byte) {
	if d.introducer != 0 {
		switch {
		case b >= '0' && b <= '9':
			d.haveCur = true
			if d.cur < 1<<20 {
				d.cur = d.cur*10 + int(b-'0')
			}
			return
		case b == ';':
			d.pushArg()
			return
		default:
			d.finishIntroducer()
			// Fall through to process b itself.
		}
	}
	switch {
	case b == '#' || b == '!' || b == '"':
		d.introducer = b
		d.args = d.args[:0]
		d.cur = 0
		d.haveCur = false
	case b == '$':
		d.x = 0
	case b == '-':
		d.x = 0
		d.y += 6
	case b >= 0x3f && b <= 0x7e:
		d.data(b)
	default:
		// Skipped without aborting the decode.
	}
}

func (d *sixelDecoder) pushArg() {
	d.args = append(d.args, d.cur)
	d.cur = 0
	d.haveCur = false
}

func (d *sixelDecoder) finishIntroducer() {
	if d.haveCur || len(d.args) > 0 {
		d.pushArg()
	}
	switch d.introducer {
	case '#':
		d.colorOp()
	case '!':
		if len(d.args) > 0 && d.args[0] > 0 {
			d.repeat = d.args[0]
		}
	case '"':
		// Raster attributes carry an advisory size; the grid grows on
		// demand either way.
	}
	d.introducer = 0
	d.args = d.args[:0]
}

// colorOp handles "#Pc" (select) and "#Pc;Pu;Px;Py;Pz" (define). Pu 2 is
// RGB in percent, Pu 1 is HLS.
func (d *sixelDecoder) colorOp() {
	if len(d.args) == 0 {
		return
	}
	d.color = d.args[0]
	if len(d.args) < 5 {
		return
	}
	px, py, pz := d.args[2], d.args[3], d.args[4]
	switch d.args[1] {
	case 2:
		d.palette[d.color] = [3]uint8{pct255(px), pct255(py), pct255(pz)}
	case 1:
		// Sixel HLS: Px hue 0-360, Py lightness 0-100, Pz saturation 0-100.
		c := colorful.Hsl(float64(px%360), float64(pz)/100, float64(py)/100)
		r, g, b := c.Clamped().RGB255()
		d.palette[d.color] = [3]uint8{r, g, b}
	}
}

func pct255(v int) uint8 {
	if v < 0 {
		v = 0
	}
	if v > 100 {
		v = 100
	}
	return uint8(v * 255 / 100)
}

// data paints one sixel column (six vertical pixels) repeat times.
func (d *sixelDecoder) data(b byte) {
	bits := b - 0x3f
	n := d.repeat
	d.repeat = 1
	for ; n > 0; n-- {
		if d.x >= d.cfg.MaxWidth {
			d.x++
			continue
		}
		for bit := 0; bit < 6; bit++ {
			if bits&(1<<bit) == 0 {
				continue
			}
			d.paint(d.x, d.y+bit)
		}
		d.x++
	}
}

func (d *sixelDecoder) paint(x, y int) {
	if x < 0 || y < 0 || x >= d.cfg.MaxWidth || y >= d.cfg.MaxHeight {
		return
	}
	for len(d.rows) <= y {
		d.rows = append(d.rows, nil)
	}
	row := d.rows[y]
	for len(row) <= x {
		row = append(row, -1)
	}
	row[x] = int16(d.color)
	d.rows[y] = row
	if x+1 > d.width {
		d.width = x + 1
	}
	if y+1 > d.height {
		d.height = y + 1
	}
}

// SixelImage is the decoded result: a palette-indexed pixel grid.
type SixelImage struct {
	Width, Height int
	// Pixels[y][x] is a palette index, -1 where nothing was painted. Rows
	// may be shorter than Width; absent cells are unpainted.
	Pixels  [][]int16
	Palette map[int][3]uint8
}

func (d *sixelDecoder) image() *SixelImage {
	d.finishIntroducer()
	return &SixelImage{Width: d.width, Height: d.height, Pixels: d.rows, Palette: d.palette}
}

// placeSixel rasterizes a decoded image into cells at the cursor.
//
// Each cell covers a CellWidth x CellHeight pixel block. The cell background
// becomes the arithmetic mean RGB of the block's painted pixels, a lossy
// approximation; cells whose block has no painted pixels are left
// untouched. Glyphs are blanks. The cursor moves below the image, column
// preserved, clipped at the screen bottom (no scrolling).
func (s *Screen) placeSixel(img *SixelImage, cfg SixelConfig) {
	if img == nil || img.Width == 0 || img.Height == 0 {
		return
	}
	cw, ch := cfg.CellWidth, cfg.CellHeight
	if cw < 1 {
		cw = 1
	}
	if ch < 1 {
		ch = 1
	}
	cellsW := (img.Width + cw - 1) / cw
	cellsH := (img.Height + ch - 1) / ch

	originX := clampInt(s.cursor.X, 0, s.cols-1)
	for cy := 0; cy < cellsH; cy++ {
		row := s.cursor.Y + cy
		if row >= s.rows {
			break
		}
		for cx := 0; cx < cellsW; cx++ {
			col := originX + cx
			if col >= s.cols {
				break
			}
			r, g, b, ok := img.blockMean(cx*cw, cy*ch, cw, ch)
			if !ok {
				continue
			}
			st := s.eraseStyle()
			st.Bg = RGBColor(r, g, b)
			s.WriteCell(row, col, BlankCell(st))
		}
	}
	s.cursor.Y = clampInt(s.cursor.Y+cellsH, 0, s.rows-1)
	s.cursor.X = originX
}

// blockMean averages the painted pixels inside one cell block.
func (img *SixelImage) blockMean(x0, y0, w, h int) (r, g, b uint8, ok bool) {
	var sr, sg, sb, n int
	for y := y0; y < y0+h && y < len(img.Pixels); y++ {
		row := img.Pixels[y]
		for x := x0; x < x0+w && x < len(row); x++ {
			idx := row[x]
			if idx < 0 {
				continue
			}
			c, found := img.Palette[int(idx)]
			if !found {
				continue
			}
			sr += int(c[0])
			sg += int(c[1])
			sb += int(c[2])
			n++
		}
	}
	if n == 0 {
		return 0, 0, 0, false
	}
	return uint8(sr / n), uint8(sg / n), uint8(sb / n), true
}
