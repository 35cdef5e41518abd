package vt

import "fmt"

// dispatchCSI executes one complete control sequence. Unknown finals are
// consumed without corrupting state and reported through the diagnostic
// hook only.
func (p *Parser) dispatchCSI(final byte) {
	s := p.screen
	switch final {
	case '@': // ICH
		s.InsertCharacters(p.param(0, 1))
	case 'A': // CUU
		s.cursorUp(p.param(0, 1))
	case 'B': // CUD
		s.cursorDown(p.param(0, 1))
	case 'C': // CUF
		s.cursorForward(p.param(0, 1))
	case 'D': // CUB
		s.cursorBack(p.param(0, 1))
	case 'E': // CNL
		s.cursorDown(p.param(0, 1))
		s.carriageReturn()
	case 'F': // CPL
		s.cursorUp(p.param(0, 1))
		s.carriageReturn()
	case 'G', '`': // CHA / HPA
		s.MoveCursor(s.cursor.Y-originRow(s), p.param(0, 1)-1)
	case 'H', 'f': // CUP / HVP
		s.MoveCursor(p.param(0, 1)-1, p.param(1, 1)-1)
	case 'I': // CHT
		for i := p.param(0, 1); i > 0; i-- {
			s.tab()
		}
	case 'J': // ED
		switch p.paramRaw(0, 0) {
		case 0:
			s.Erase(EraseBelow)
		case 1:
			s.Erase(EraseAbove)
		case 2:
			s.Erase(EraseAll)
		case 3:
			s.Erase(EraseAll)
			s.Erase(EraseScrollback)
		}
	case 'K': // EL
		switch p.paramRaw(0, 0) {
		case 0:
			s.Erase(EraseToLineEnd)
		case 1:
			s.Erase(EraseToLineStart)
		case 2:
			s.Erase(EraseLine)
		}
	case 'L': // IL
		s.InsertLines(p.param(0, 1))
	case 'M': // DL
		s.DeleteLines(p.param(0, 1))
	case 'P': // DCH
		s.DeleteCharacters(p.param(0, 1))
	case 'S': // SU
		s.ScrollUp(p.param(0, 1))
	case 'T': // SD
		s.ScrollDown(p.param(0, 1))
	case 'X': // ECH
		s.EraseCharacters(p.param(0, 1))
	case 'Z': // CBT
		for i := p.param(0, 1); i > 0; i-- {
			s.backTab()
		}
	case 'a': // HPR
		s.cursorForward(p.param(0, 1))
	case 'b': // REP: repeat the preceding graphic character. Unsupported
		// without retaining it; consumed as a no-op.
		p.debugf("REP not implemented")
	case 'c': // DA
		if p.private == 0 && p.paramRaw(0, 0) == 0 {
			// Advertise a VT102.
			p.emitResponse([]byte("\x1b[?6c"))
		}
	case 'd': // VPA
		s.MoveCursor(p.param(0, 1)-1, s.cursor.X)
	case 'e': // VPR
		s.cursorDown(p.param(0, 1))
	case 'g': // TBC
		s.clearTabStop(p.paramRaw(0, 0))
	case 'h': // SM / DECSET
		s.SetMode(p.allParams(), p.private == '?')
	case 'l': // RM / DECRST
		s.ResetMode(p.allParams(), p.private == '?')
	case 'm': // SGR
		if p.private != 0 {
			return
		}
		s.cursor.Style = ApplySGR(s.cursor.Style, p.allParams())
	case 'n': // DSR
		p.deviceStatusReport()
	case 'q':
		// DECSCUSR (CSI Ps SP q) selects cursor shape; accepted, the buffer
		// model has no shape to record beyond visibility.
		if len(p.intermediates) == 0 || p.intermediates[0] != ' ' {
			p.debugf("unhandled CSI q variant")
		}
	case 'r': // DECSTBM
		if p.private != 0 {
			return
		}
		top := p.param(0, 1) - 1
		bottom := p.param(1, s.rows) - 1
		s.SetScrollRegion(top, bottom)
	case 's': // SCOSC
		s.SaveCursor()
	case 'u': // SCORC
		s.RestoreCursor()
	default:
		p.debugf(fmt.Sprintf("unhandled CSI final %q", final))
	}
}

// allParams returns the accumulated parameter list, defaulting to a single
// zero when the sequence carried none.
func (p *Parser) allParams() []int {
	if len(p.params) == 0 {
		return []int{0}
	}
	out := make([]int, len(p.params))
	copy(out, p.params)
	return out
}

// originRow is the row offset CUP-relative sequences use in origin mode.
func originRow(s *Screen) int {
	if s.originMode {
		return s.scrollTop
	}
	return 0
}

// deviceStatusReport answers DSR 5 (status) and DSR 6 (cursor position).
// CPR coordinates are 1-based and, in origin mode, relative to the scroll
// region.
func (p *Parser) deviceStatusReport() {
	s := p.screen
	switch p.paramRaw(0, 0) {
	case 5:
		p.emitResponse([]byte("\x1b[0n"))
	case 6:
		row := s.cursor.Y + 1
		if s.originMode {
			row = s.cursor.Y - s.scrollTop + 1
		}
		col := s.cursor.X + 1
		if col > s.cols {
			col = s.cols
		}
		p.emitResponse([]byte(fmt.Sprintf("\x1b[%d;%dR", row, col)))
	default:
		p.debugf("unhandled DSR")
	}
}
