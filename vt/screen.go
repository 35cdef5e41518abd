package vt

// Cursor is the insertion point plus the current pen. X may equal the buffer
// width transiently (pending wrap); every other coordinate stays in bounds.
type Cursor struct {
	X, Y    int
	Visible bool
	Style   Style
}

type savepoint struct {
	cursor   Cursor
	charsets [4]charsetID
	active   int
	origin   bool
	autoWrap bool
}

// Screen is the addressable grid of styled cells plus scrollback, cursor,
// scroll region and mode state. One Screen is owned by exactly one session;
// nothing here locks.
type Screen struct {
	cols, rows int
	lines      []Line
	history    *historyRing

	cursor   Cursor
	saved    *savepoint
	savedAlt *savepoint

	// Alternate screen. The inactive buffer is stashed here; lines always
	// refers to the live one.
	altLines []Line
	usingAlt bool

	scrollTop, scrollBottom int

	// modes holds every private mode currently set; behavioral ones are
	// mirrored into flags so the hot path never hits the map.
	modes        map[int]bool
	autoWrap     bool
	originMode   bool
	insertMode   bool
	newlineMode  bool
	reverseVideo bool

	tabStops      map[int]bool
	charsets      [4]charsetID
	activeCharset int

	title    string
	iconName string

	// Per-row dirty bits, consumed by TakeDamage once per render cycle.
	dirty    []bool
	allDirty bool
}

// NewScreen creates a blank cols x rows screen with the given scrollback
// capacity. Dimensions below 1 are clamped to 1.
func NewScreen(cols, rows, maxHistory int) *Screen {
	if cols < 1 {
		cols = 1
	}
	if rows < 1 {
		rows = 1
	}
	s := &Screen{
		cols:         cols,
		rows:         rows,
		history:      newHistoryRing(maxHistory),
		cursor:       Cursor{Visible: true},
		scrollBottom: rows - 1,
		modes:        map[int]bool{modeDECAWM: true, modeDECTCEM: true},
		autoWrap:     true,
		newlineMode:  true,
		tabStops:     defaultTabStops(cols),
		dirty:        make([]bool, rows),
	}
	s.lines = blankLines(cols, rows, Style{})
	return s
}

func blankLines(cols, rows int, st Style) []Line {
	ls := make([]Line, rows)
	for i := range ls {
		ls[i] = newLine(cols, st)
	}
	return ls
}

func defaultTabStops(cols int) map[int]bool {
	stops := make(map[int]bool)
	for i := 8; i < cols; i += 8 {
		stops[i] = true
	}
	return stops
}

func (s *Screen) Size() (cols, rows int) { return s.cols, s.rows }
func (s *Screen) Cursor() Cursor       { return s.cursor }
func (s *Screen) Title() string        { return s.title }
func (s *Screen) IconName() string     { return s.iconName }
func (s *Screen) HistoryLen() int      { return s.history.len() }
func (s *Screen) UsingAlternate() bool { return s.usingAlt }

// HistoryLine returns scrollback line i, oldest first.
func (s *Screen) HistoryLine(i int) Line {
	if i < 0 || i >= s.history.len() {
		return Line{}
	}
	return s.history.at(i).clone()
}

// Cell returns a copy of the cell at (row, col), or a default blank when out
// of range.
func (s *Screen) Cell(row, col int) Cell {
	if row < 0 || row >= s.rows || col < 0 || col >= s.cols {
		return BlankCell(Style{})
	}
	return s.lines[row].Cells[col]
}

// Mode reports whether a private mode is currently set.
func (s *Screen) Mode(n int) bool { return s.modes[n] }

func (s *Screen) markDirty(row int) {
	if row >= 0 && row < len(s.dirty) {
		s.dirty[row] = true
	}
}

func (s *Screen) markDirtyRange(top, bottom int) {
	for y := top; y <= bottom && y < len(s.dirty); y++ {
		if y >= 0 {
			s.dirty[y] = true
		}
	}
}

func (s *Screen) markAllDirty() { s.allDirty = true }

// Span is one dirty region within a row: [ColStart, ColEnd) in cell columns.
type Span struct {
	Row      int
	ColStart int
	ColEnd   int
}

// Damage is the pending change set since the last TakeDamage call. When
// Repaint is true span tracking was abandoned (resize, full clear, scroll of
// most of the screen) and the consumer should redraw everything.
type Damage struct {
	Repaint bool
	Spans   []Span
}

// TakeDamage returns the accumulated damage and clears it. Row granularity:
// a dirty row reports one span covering its full width; the snapshot differ
// computes exact column spans when two snapshots are available.
func (s *Screen) TakeDamage() Damage {
	d := Damage{}
	if s.allDirty {
		d.Repaint = true
	} else {
		for y, dirty := range s.dirty {
			if dirty {
				d.Spans = append(d.Spans, Span{Row: y, ColStart: 0, ColEnd: s.cols})
			}
		}
	}
	s.allDirty = false
	for i := range s.dirty {
		s.dirty[i] = false
	}
	return d
}

// eraseStyle is the pen used for blanks created by erase/scroll: current
// background, no other attributes.
func (s *Screen) eraseStyle() Style {
	return Style{Bg: s.cursor.Style.Bg}
}

// WriteCell places a cell at an absolute position. Out-of-range writes are
// silent no-ops. Overwriting either half of a wide cluster clears the whole
// cluster first so no dangling placeholder survives.
func (s *Screen) WriteCell(row, col int, c Cell) {
	if row < 0 || row >= s.rows || col < 0 || col >= s.cols {
		return
	}
	s.clearWideAt(row, col)
	if c.Width == 2 {
		if col+1 >= s.cols {
			// A wide cell cannot straddle the right edge.
			s.lines[row].Cells[col] = BlankCell(c.Style)
			s.markDirty(row)
			return
		}
		s.clearWideAt(row, col+1)
		s.lines[row].Cells[col] = c
		s.lines[row].Cells[col+1] = placeholderCell(c.Style)
	} else {
		s.lines[row].Cells[col] = c
	}
	s.markDirty(row)
}

// clearWideAt breaks up any wide cluster covering (row, col), replacing both
// halves with blanks. Writing into a placeholder must not leave the stale
// owner to its left.
func (s *Screen) clearWideAt(row, col int) {
	cells := s.lines[row].Cells
	c := cells[col]
	if c.IsPlaceholder() && col > 0 {
		cells[col-1] = BlankCell(cells[col-1].Style)
		cells[col] = BlankCell(c.Style)
		return
	}
	if c.Width == 2 && col+1 < s.cols {
		cells[col] = BlankCell(c.Style)
		cells[col+1] = BlankCell(cells[col+1].Style)
	}
}

// writeGrapheme is the parser's draw path: place one grapheme cluster of the
// given width at the cursor, honoring pending wrap, insert mode and wide
// cluster rules. Width 0 clusters merge into the previously written cell.
func (s *Screen) writeGrapheme(g string, width int) {
	if width == 0 {
		s.combineWithPrevious(g)
		return
	}
	if s.cursor.X+width > s.cols {
		if s.autoWrap {
			if width == 2 && s.cursor.X == s.cols-1 {
				// Abandoned last cell: blank it, never a half cluster.
				s.lines[s.cursor.Y].Cells[s.cursor.X] = BlankCell(s.eraseStyle())
				s.markDirty(s.cursor.Y)
			}
			s.lines[s.cursor.Y].Wrapped = true
			s.cursor.X = 0
			s.lineFeed(false)
		} else {
			if width == 2 && s.cols < 2 {
				return
			}
			if width == 2 && s.cursor.X >= s.cols-1 {
				// No room and no wrap: drop the cluster.
				return
			}
			s.cursor.X = s.cols - width
		}
	}
	if s.insertMode {
		s.shiftRight(s.cursor.Y, s.cursor.X, width)
	}
	s.WriteCell(s.cursor.Y, s.cursor.X, Cell{Grapheme: g, Width: uint8(width), Style: s.cursor.Style})
	s.cursor.X += width
}

// combineWithPrevious appends a combining mark to the last written cell. The
// cursor does not advance.
func (s *Screen) combineWithPrevious(mark string) {
	x, y := s.cursor.X-1, s.cursor.Y
	if x < 0 {
		if y == 0 {
			return
		}
		y--
		x = s.cols - 1
	}
	if x >= s.cols {
		x = s.cols - 1
	}
	cells := s.lines[y].Cells
	if cells[x].IsPlaceholder() && x > 0 {
		x--
	}
	c := cells[x]
	if c.IsPlaceholder() || c.Grapheme == "" {
		return
	}
	c.Grapheme += mark
	// The mark can upgrade the cluster (e.g. VS16 makes some glyphs wide),
	// but the cell keeps its allocated width; rendering handles overflow.
	cells[x] = c
	s.markDirty(y)
}

// shiftRight opens n blank columns at (row, col) for insert mode; cells
// pushed past the right margin are lost.
func (s *Screen) shiftRight(row, col, n int) {
	cells := s.lines[row].Cells
	copy(cells[col+n:], cells[col:s.cols-n])
	st := s.eraseStyle()
	for i := col; i < col+n && i < s.cols; i++ {
		cells[i] = BlankCell(st)
	}
	s.markDirty(row)
}

// SaveCursor records cursor position, pen, charset state and the origin and
// wrap flags (DECSC).
func (s *Screen) SaveCursor() {
	sp := &savepoint{
		cursor:   s.cursor,
		charsets: s.charsets,
		active:   s.activeCharset,
		origin:   s.originMode,
		autoWrap: s.autoWrap,
	}
	if s.usingAlt {
		s.savedAlt = sp
	} else {
		s.saved = sp
	}
}

// RestoreCursor restores the matching savepoint, clamped to the current
// geometry. Without a savepoint it homes the cursor (VT100 behavior).
func (s *Screen) RestoreCursor() {
	sp := s.saved
	if s.usingAlt {
		sp = s.savedAlt
	}
	if sp == nil {
		s.cursor.X, s.cursor.Y = 0, 0
		return
	}
	s.cursor = sp.cursor
	s.charsets = sp.charsets
	s.activeCharset = sp.active
	s.originMode = sp.origin
	s.autoWrap = sp.autoWrap
	if s.cursor.X > s.cols {
		s.cursor.X = s.cols
	}
	if s.cursor.Y >= s.rows {
		s.cursor.Y = s.rows - 1
	}
}

// EnterAlternate switches to the alternate buffer. The alternate screen has
// no scrollback feed and starts cleared.
func (s *Screen) EnterAlternate() {
	if s.usingAlt {
		return
	}
	main := s.lines
	if s.altLines == nil || len(s.altLines) != s.rows || len(s.altLines[0].Cells) != s.cols {
		s.altLines = blankLines(s.cols, s.rows, Style{})
	}
	s.lines = s.altLines
	s.altLines = main
	s.usingAlt = true
	s.clearAll(s.eraseStyle())
	s.cursor.X, s.cursor.Y = 0, 0
	s.markAllDirty()
}

// ExitAlternate restores the main buffer.
func (s *Screen) ExitAlternate() {
	if !s.usingAlt {
		return
	}
	alt := s.lines
	s.lines = s.altLines
	s.altLines = alt
	s.usingAlt = false
	s.markAllDirty()
}

func (s *Screen) clearAll(st Style) {
	for y := 0; y < s.rows; y++ {
		s.lines[y] = newLine(s.cols, st)
	}
	s.markAllDirty()
}

// Resize changes the grid geometry.
//
// Height shrink moves overflowed top rows into scrollback before truncating;
// growth appends blank rows. Width shrink hard-truncates rows (no rewrap);
// growth pads blanks. The cursor and scroll region are clamped into the new
// bounds.
func (s *Screen) Resize(cols, rows int) {
	if cols < 1 || rows < 1 {
		return
	}
	if cols == s.cols && rows == s.rows {
		return
	}

	s.resizeWidth(s.lines, cols)
	if s.altLines != nil {
		s.resizeWidth(s.altLines, cols)
	}

	if rows < s.rows {
		overflow := s.rows - rows
		if !s.usingAlt {
			for i := 0; i < overflow; i++ {
				s.history.push(s.lines[i].clone())
			}
		}
		s.lines = append([]Line(nil), s.lines[overflow:]...)
		if s.altLines != nil && len(s.altLines) > rows {
			s.altLines = append([]Line(nil), s.altLines[len(s.altLines)-rows:]...)
		}
		s.cursor.Y -= overflow
		if s.cursor.Y < 0 {
			s.cursor.Y = 0
		}
	} else if rows > s.rows {
		for len(s.lines) < rows {
			s.lines = append(s.lines, newLine(cols, Style{}))
		}
		if s.altLines != nil {
			for len(s.altLines) < rows {
				s.altLines = append(s.altLines, newLine(cols, Style{}))
			}
		}
	}

	s.cols = cols
	s.rows = rows

	if s.cursor.X > cols {
		s.cursor.X = cols
	}
	if s.cursor.Y >= rows {
		s.cursor.Y = rows - 1
	}

	// A custom scroll region rarely survives a geometry change intact;
	// reset to the full buffer like the hardware terminals did.
	s.scrollTop = 0
	s.scrollBottom = rows - 1

	s.tabStops = defaultTabStops(cols)
	s.dirty = make([]bool, rows)
	s.markAllDirty()
}

// resizeWidth adjusts every row in place to the new column count.
func (s *Screen) resizeWidth(lines []Line, cols int) {
	if cols == s.cols {
		return
	}
	for y := range lines {
		cells := lines[y].Cells
		if cols < len(cells) {
			cells = cells[:cols]
			// Truncation through a wide cluster leaves its owner at the new
			// right edge without a placeholder; blank it.
			if cols > 0 && cells[cols-1].Width == 2 {
				cells[cols-1] = BlankCell(cells[cols-1].Style)
			}
			lines[y].Cells = cells
		} else {
			for len(cells) < cols {
				cells = append(cells, BlankCell(Style{}))
			}
			lines[y].Cells = cells
		}
	}
}

func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
