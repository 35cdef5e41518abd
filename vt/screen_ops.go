package vt

// regionIsFullBuffer reports whether the scroll region covers the whole
// screen; only then do scrolled-off lines feed scrollback (VT100 semantics:
// lines leaving a restricted region are discarded).
func (s *Screen) regionIsFullBuffer() bool {
	return s.scrollTop == 0 && s.scrollBottom == s.rows-1
}

// ScrollUp shifts the scroll region up by n lines, filling the bottom with
// blanks in the current background. Lines leaving the top of a full-buffer
// region are pushed to scrollback (never from the alternate screen).
func (s *Screen) ScrollUp(n int) {
	if n < 1 {
		return
	}
	top, bottom := s.scrollTop, s.scrollBottom
	height := bottom - top + 1
	if n > height {
		n = height
	}
	if s.regionIsFullBuffer() && !s.usingAlt {
		for i := 0; i < n; i++ {
			s.history.push(s.lines[top+i].clone())
		}
	}
	st := s.eraseStyle()
	copy(s.lines[top:], s.lines[top+n:bottom+1])
	for y := bottom - n + 1; y <= bottom; y++ {
		s.lines[y] = newLine(s.cols, st)
	}
	s.markDirtyRange(top, bottom)
}

// ScrollDown shifts the scroll region down by n lines, filling the top with
// blanks. Lines leaving the bottom are always discarded.
func (s *Screen) ScrollDown(n int) {
	if n < 1 {
		return
	}
	top, bottom := s.scrollTop, s.scrollBottom
	height := bottom - top + 1
	if n > height {
		n = height
	}
	copy(s.lines[top+n:bottom+1], s.lines[top:bottom+1-n])
	st := s.eraseStyle()
	for y := top; y < top+n; y++ {
		s.lines[y] = newLine(s.cols, st)
	}
	s.markDirtyRange(top, bottom)
}

// SetScrollRegion sets the DECSTBM margins (0-based, inclusive), clamping
// rather than erroring. top >= bottom after clamping resets to full screen.
// The cursor homes, like the hardware did.
func (s *Screen) SetScrollRegion(top, bottom int) {
	top = clampInt(top, 0, s.rows-1)
	bottom = clampInt(bottom, 0, s.rows-1)
	if top >= bottom {
		top, bottom = 0, s.rows-1
	}
	s.scrollTop, s.scrollBottom = top, bottom
	s.MoveCursor(0, 0)
}

func (s *Screen) ScrollRegion() (top, bottom int) { return s.scrollTop, s.scrollBottom }

// MoveCursor places the cursor, clamped to bounds. With origin mode active
// the row is relative to the scroll region and confined to it.
func (s *Screen) MoveCursor(row, col int) {
	if s.originMode {
		row += s.scrollTop
		row = clampInt(row, s.scrollTop, s.scrollBottom)
	} else {
		row = clampInt(row, 0, s.rows-1)
	}
	col = clampInt(col, 0, s.cols-1)
	s.cursor.Y = row
	s.cursor.X = col
}

func (s *Screen) cursorUp(n int) {
	limit := 0
	if s.cursor.Y >= s.scrollTop {
		limit = s.scrollTop
	}
	s.cursor.Y = clampInt(s.cursor.Y-n, limit, s.rows-1)
	s.clampPendingWrap()
}

func (s *Screen) cursorDown(n int) {
	limit := s.rows - 1
	if s.cursor.Y <= s.scrollBottom {
		limit = s.scrollBottom
	}
	s.cursor.Y = clampInt(s.cursor.Y+n, 0, limit)
	s.clampPendingWrap()
}

func (s *Screen) cursorForward(n int) {
	s.cursor.X = clampInt(s.cursor.X+n, 0, s.cols-1)
}

func (s *Screen) cursorBack(n int) {
	s.clampPendingWrap()
	s.cursor.X = clampInt(s.cursor.X-n, 0, s.cols-1)
}

// clampPendingWrap resolves a pending-wrap cursor (X == cols) back into the
// addressable range before relative movement.
func (s *Screen) clampPendingWrap() {
	if s.cursor.X >= s.cols {
		s.cursor.X = s.cols - 1
	}
}

func (s *Screen) carriageReturn() { s.cursor.X = 0 }

func (s *Screen) backspace() {
	s.clampPendingWrap()
	if s.cursor.X > 0 {
		s.cursor.X--
	}
}

func (s *Screen) tab() {
	s.clampPendingWrap()
	for x := s.cursor.X + 1; x < s.cols; x++ {
		if s.tabStops[x] {
			s.cursor.X = x
			return
		}
	}
	s.cursor.X = s.cols - 1
}

func (s *Screen) backTab() {
	s.clampPendingWrap()
	for x := s.cursor.X - 1; x > 0; x-- {
		if s.tabStops[x] {
			s.cursor.X = x
			return
		}
	}
	s.cursor.X = 0
}

func (s *Screen) setTabStop() { s.tabStops[s.cursor.X] = true }

func (s *Screen) clearTabStop(how int) {
	switch how {
	case 0:
		delete(s.tabStops, s.cursor.X)
	case 3:
		s.tabStops = make(map[int]bool)
	}
}

// lineFeed moves down one row, scrolling at the region bottom. withReturn
// additionally does a carriage return (LNM or explicit NEL).
func (s *Screen) lineFeed(withReturn bool) {
	if s.cursor.Y == s.scrollBottom {
		s.ScrollUp(1)
	} else if s.cursor.Y < s.rows-1 {
		s.cursor.Y++
	}
	if withReturn || s.newlineMode {
		s.cursor.X = 0
	}
}

// index is lineFeed without the LNM column reset (ESC D).
func (s *Screen) index() {
	if s.cursor.Y == s.scrollBottom {
		s.ScrollUp(1)
	} else if s.cursor.Y < s.rows-1 {
		s.cursor.Y++
	}
}

// reverseIndex moves up one row, scrolling down at the region top (ESC M).
func (s *Screen) reverseIndex() {
	if s.cursor.Y == s.scrollTop {
		s.ScrollDown(1)
	} else if s.cursor.Y > 0 {
		s.cursor.Y--
	}
}

// EraseKind selects an erase operation for Erase.
type EraseKind int

const (
	EraseToLineEnd EraseKind = iota
	EraseToLineStart
	EraseLine
	EraseAbove
	EraseBelow
	EraseAll
	EraseScrollback
)

// Erase fills the selected extent with blanks in the current background
// style. The cursor does not move.
func (s *Screen) Erase(kind EraseKind) {
	st := s.eraseStyle()
	y := clampInt(s.cursor.Y, 0, s.rows-1)
	x := clampInt(s.cursor.X, 0, s.cols-1)
	switch kind {
	case EraseToLineEnd:
		s.eraseCols(y, x, s.cols-1, st)
	case EraseToLineStart:
		s.eraseCols(y, 0, x, st)
	case EraseLine:
		s.eraseCols(y, 0, s.cols-1, st)
	case EraseAbove:
		for row := 0; row < y; row++ {
			s.lines[row] = newLine(s.cols, st)
			s.markDirty(row)
		}
		s.eraseCols(y, 0, x, st)
	case EraseBelow:
		s.eraseCols(y, x, s.cols-1, st)
		for row := y + 1; row < s.rows; row++ {
			s.lines[row] = newLine(s.cols, st)
			s.markDirty(row)
		}
	case EraseAll:
		s.clearAll(st)
	case EraseScrollback:
		s.history.clear()
	}
}

// eraseCols blanks [from, to] on one row, expanding across wide clusters so
// no half survives.
func (s *Screen) eraseCols(row, from, to int, st Style) {
	cells := s.lines[row].Cells
	if from > 0 && cells[from].IsPlaceholder() {
		from--
	}
	if to < s.cols-1 && cells[to].Width == 2 {
		to++
	}
	for x := from; x <= to; x++ {
		cells[x] = BlankCell(st)
	}
	s.markDirty(row)
}

// InsertLines inserts n blank lines at the cursor row, shifting the rest of
// the scroll region down. No-op outside the region.
func (s *Screen) InsertLines(n int) {
	if s.cursor.Y < s.scrollTop || s.cursor.Y > s.scrollBottom || n < 1 {
		return
	}
	bottom := s.scrollBottom
	if n > bottom-s.cursor.Y+1 {
		n = bottom - s.cursor.Y + 1
	}
	copy(s.lines[s.cursor.Y+n:bottom+1], s.lines[s.cursor.Y:bottom+1-n])
	st := s.eraseStyle()
	for y := s.cursor.Y; y < s.cursor.Y+n; y++ {
		s.lines[y] = newLine(s.cols, st)
	}
	s.cursor.X = 0
	s.markDirtyRange(s.cursor.Y, bottom)
}

// DeleteLines removes n lines at the cursor row, shifting the rest of the
// scroll region up and filling the bottom with blanks.
func (s *Screen) DeleteLines(n int) {
	if s.cursor.Y < s.scrollTop || s.cursor.Y > s.scrollBottom || n < 1 {
		return
	}
	bottom := s.scrollBottom
	if n > bottom-s.cursor.Y+1 {
		n = bottom - s.cursor.Y + 1
	}
	copy(s.lines[s.cursor.Y:bottom+1-n], s.lines[s.cursor.Y+n:bottom+1])
	st := s.eraseStyle()
	for y := bottom - n + 1; y <= bottom; y++ {
		s.lines[y] = newLine(s.cols, st)
	}
	s.cursor.X = 0
	s.markDirtyRange(s.cursor.Y, bottom)
}

// InsertCharacters opens n blank columns at the cursor (ICH).
func (s *Screen) InsertCharacters(n int) {
	s.clampPendingWrap()
	if n < 1 {
		return
	}
	if n > s.cols-s.cursor.X {
		n = s.cols - s.cursor.X
	}
	s.clearWideAt(s.cursor.Y, s.cursor.X)
	s.shiftRight(s.cursor.Y, s.cursor.X, n)
}

// DeleteCharacters removes n cells at the cursor, shifting the remainder of
// the row left (DCH).
func (s *Screen) DeleteCharacters(n int) {
	s.clampPendingWrap()
	if n < 1 {
		return
	}
	if n > s.cols-s.cursor.X {
		n = s.cols - s.cursor.X
	}
	s.clearWideAt(s.cursor.Y, s.cursor.X)
	cells := s.lines[s.cursor.Y].Cells
	copy(cells[s.cursor.X:], cells[s.cursor.X+n:])
	st := s.eraseStyle()
	for x := s.cols - n; x < s.cols; x++ {
		cells[x] = BlankCell(st)
	}
	if cells[s.cursor.X].IsPlaceholder() {
		// The shift exposed a placeholder whose owner was deleted.
		cells[s.cursor.X] = BlankCell(st)
	}
	s.markDirty(s.cursor.Y)
}

// EraseCharacters blanks n cells starting at the cursor without shifting (ECH).
func (s *Screen) EraseCharacters(n int) {
	s.clampPendingWrap()
	if n < 1 {
		return
	}
	to := s.cursor.X + n - 1
	if to > s.cols-1 {
		to = s.cols - 1
	}
	s.eraseCols(s.cursor.Y, s.cursor.X, to, s.eraseStyle())
}

// SetMode applies CSI h parameters; private selects DEC (`?`) modes.
func (s *Screen) SetMode(params []int, private bool) {
	for _, m := range params {
		if private {
			s.setPrivateMode(m, true)
		} else {
			switch m {
			case modeIRM:
				s.insertMode = true
			case modeLNM:
				s.newlineMode = true
			}
		}
	}
}

// ResetMode applies CSI l parameters.
func (s *Screen) ResetMode(params []int, private bool) {
	for _, m := range params {
		if private {
			s.setPrivateMode(m, false)
		} else {
			switch m {
			case modeIRM:
				s.insertMode = false
			case modeLNM:
				s.newlineMode = false
			}
		}
	}
}

func (s *Screen) setPrivateMode(m int, on bool) {
	if on {
		s.modes[m] = true
	} else {
		delete(s.modes, m)
	}
	switch m {
	case modeDECOM:
		s.originMode = on
		// Origin transitions home the cursor.
		s.cursor.X = 0
		if on {
			s.cursor.Y = s.scrollTop
		} else {
			s.cursor.Y = 0
		}
	case modeDECAWM:
		s.autoWrap = on
	case modeDECSCNM:
		s.reverseVideo = on
		s.markAllDirty()
	case modeDECTCEM:
		s.cursor.Visible = on
	case modeAltScr, modeAltScr2:
		if on {
			s.EnterAlternate()
		} else {
			s.ExitAlternate()
		}
	case modeSaveCur:
		if on {
			s.SaveCursor()
		} else {
			s.RestoreCursor()
		}
	case modeAltFull:
		if on {
			s.SaveCursor()
			s.EnterAlternate()
		} else {
			s.ExitAlternate()
			s.RestoreCursor()
		}
	case modeDECCOLM:
		// Column-mode switches clear the screen and home the cursor but the
		// engine does not force a 132/80 resize; the host owns geometry.
		s.Erase(EraseAll)
		s.cursor.X, s.cursor.Y = 0, 0
	}
}

// Reset restores power-on state (RIS): blank grid, homes the cursor, default
// modes, default tab stops. Scrollback is kept.
func (s *Screen) Reset() {
	if s.usingAlt {
		s.ExitAlternate()
	}
	s.clearAll(Style{})
	s.cursor = Cursor{Visible: true}
	s.saved = nil
	s.savedAlt = nil
	s.scrollTop = 0
	s.scrollBottom = s.rows - 1
	s.modes = map[int]bool{modeDECAWM: true, modeDECTCEM: true}
	s.autoWrap = true
	s.originMode = false
	s.insertMode = false
	s.newlineMode = true
	s.reverseVideo = false
	s.tabStops = defaultTabStops(s.cols)
	s.charsets = [4]charsetID{}
	s.activeCharset = 0
	s.markAllDirty()
}

// AlignmentFill covers the screen with 'E' (DECALN).
func (s *Screen) AlignmentFill() {
	for y := 0; y < s.rows; y++ {
		for x := 0; x < s.cols; x++ {
			s.lines[y].Cells[x] = Cell{Grapheme: "E", Width: 1}
		}
	}
	s.scrollTop = 0
	s.scrollBottom = s.rows - 1
	s.cursor.X, s.cursor.Y = 0, 0
	s.markAllDirty()
}
