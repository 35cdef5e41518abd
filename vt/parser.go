package vt

import (
	"unicode/utf8"
)

type parserState uint8

const (
	stateGround parserState = iota
	stateEscape
	stateEscapeIntermediate
	stateCsiEntry
	stateCsiParam
	stateCsiIntermediate
	stateOscString
	stateDcsEntry
	stateDcsParam
	stateDcsPassthrough
	stateSosPmApc
)

// Accumulation caps: past these the parser keeps consuming but stops
// growing, so hostile input cannot balloon memory.
const (
	maxParams    = 16
	maxParamVal  = 9999
	maxOscBytes  = 4096
	maxDcsBytes  = 1 << 20
	maxUTF8Bytes = 4
)

// Parser is the byte state machine. It owns no I/O: bytes go in through
// Feed, mutations go out through the Screen's command methods, and query
// responses go out through the respond callback.
//
// State persists across Feed calls, so sequences split over chunk
// boundaries are handled transparently.
type Parser struct {
	screen *Screen

	state         parserState
	params        []int
	curParam      int
	haveParam     bool
	private       byte
	intermediates []byte

	osc        []byte
	oscClamped bool

	dcsFinal  byte
	sixel     *sixelDecoder
	dcsBytes  int
	stringEsc bool

	// Partial UTF-8 rune split across chunk boundaries.
	pending []byte

	cfg Config

	// Host hooks; all optional.
	respond func([]byte)
	bell    func()
	onTitle func(string)
	onIcon  func(string)
	diag    func(msg string)
}

// NewParser wires a parser to the screen it mutates.
func NewParser(screen *Screen, cfg Config) *Parser {
	return &Parser{screen: screen, cfg: cfg.fillDefaults()}
}

// emitResponse sends query answers (DSR, CPR, DA, OSC color reports) back
// toward the input source.
func (p *Parser) emitResponse(b []byte) {
	if p.respond != nil {
		p.respond(b)
	}
}

func (p *Parser) debugf(msg string) {
	if p.diag != nil {
		p.diag(msg)
	}
}

// Feed consumes a chunk of input. It never fails and never blocks; work is
// bounded by the chunk length and the screen dimensions.
func (p *Parser) Feed(data []byte) {
	for i := 0; i < len(data); i++ {
		b := data[i]
		switch p.state {
		case stateGround:
			p.ground(b)
		case stateEscape:
			p.escape(b)
		case stateEscapeIntermediate:
			p.escapeIntermediate(b)
		case stateCsiEntry, stateCsiParam, stateCsiIntermediate:
			p.csiByte(b)
		case stateOscString:
			if redo := p.oscByte(b); redo {
				i--
			}
		case stateDcsEntry, stateDcsParam:
			p.dcsByte(b)
		case stateDcsPassthrough:
			if redo := p.dcsPassthrough(b); redo {
				i--
			}
		case stateSosPmApc:
			if redo := p.sosPmApcByte(b); redo {
				i--
			}
		}
	}
}

// resetSequence clears accumulated sequence state.
func (p *Parser) resetSequence() {
	p.params = p.params[:0]
	p.curParam = 0
	p.haveParam = false
	p.private = 0
	p.intermediates = p.intermediates[:0]
	p.osc = p.osc[:0]
	p.oscClamped = false
	p.dcsFinal = 0
	p.dcsBytes = 0
	p.stringEsc = false
}

func (p *Parser) toGround() {
	p.resetSequence()
	p.state = stateGround
}

// --- Ground ---

func (p *Parser) ground(b byte) {
	switch {
	case b == ESC:
		p.flushPending()
		p.resetSequence()
		p.state = stateEscape
	case b < 0x20:
		p.flushPending()
		p.executeControl(b)
	case b == DEL:
		p.flushPending()
	case b < 0x80:
		p.flushPending()
		p.drawRune(rune(b))
	default:
		p.utf8Byte(b)
	}
}

// utf8Byte accumulates multi-byte sequences; invalid bytes resolve to C1
// controls where recognized, otherwise to the replacement character.
func (p *Parser) utf8Byte(b byte) {
	if len(p.pending) == 0 {
		if b >= 0xc2 && b <= 0xf4 {
			p.pending = append(p.pending, b)
			return
		}
		// Stray: an 8-bit C1 control or garbage.
		p.c1Control(b)
		return
	}
	if b&0xc0 != 0x80 {
		// Broken sequence: bounded fallback is one replacement char, then
		// the byte is reprocessed fresh.
		p.pending = p.pending[:0]
		p.drawRune(utf8.RuneError)
		p.ground(b)
		return
	}
	p.pending = append(p.pending, b)
	if utf8.FullRune(p.pending) || len(p.pending) >= maxUTF8Bytes {
		r, _ := utf8.DecodeRune(p.pending)
		p.pending = p.pending[:0]
		p.drawRune(r)
	}
}

// flushPending resolves a dangling partial rune when a control byte cuts it
// short.
func (p *Parser) flushPending() {
	if len(p.pending) > 0 {
		p.pending = p.pending[:0]
		p.drawRune(utf8.RuneError)
	}
}

// c1Control handles 8-bit C1 bytes arriving outside a valid UTF-8 sequence.
func (p *Parser) c1Control(b byte) {
	switch b {
	case CSI:
		p.resetSequence()
		p.state = stateCsiEntry
	case OSC:
		p.resetSequence()
		p.state = stateOscString
	case DCS:
		p.resetSequence()
		p.state = stateDcsEntry
	case SOS, PM, APC:
		p.resetSequence()
		p.state = stateSosPmApc
	case IND:
		p.screen.index()
	case NEL:
		p.screen.lineFeed(true)
	case RI:
		p.screen.reverseIndex()
	case HTS:
		p.screen.setTabStop()
	case ST:
		// Stray terminator, nothing to end.
	default:
		p.drawRune(utf8.RuneError)
	}
}

func (p *Parser) executeControl(b byte) {
	switch b {
	case BEL:
		if p.bell != nil {
			p.bell()
		}
	case BS:
		p.screen.backspace()
	case HT:
		p.screen.tab()
	case LF, VT, FF:
		p.screen.lineFeed(false)
	case CR:
		p.screen.carriageReturn()
	case SO:
		p.screen.activeCharset = 1
	case SI:
		p.screen.activeCharset = 0
	}
}

// drawRune translates the active charset and writes one rune at the cursor,
// classified by display width (0 combines, 2 reserves a placeholder).
func (p *Parser) drawRune(r rune) {
	r = translateRune(r, p.screen.charsets[p.screen.activeCharset])
	w := runeDisplayWidth(r)
	if w > 2 {
		w = 2
	}
	p.screen.writeGrapheme(string(r), w)
}

// --- Escape ---

func (p *Parser) escape(b byte) {
	// C0 interrupt semantics: any control except ESC acts immediately and
	// aborts the sequence.
	if b == CAN || b == SUB {
		p.toGround()
		return
	}
	if b < 0x20 {
		p.executeControl(b)
		p.toGround()
		return
	}
	switch b {
	case '[':
		p.state = stateCsiEntry
	case ']':
		p.state = stateOscString
	case 'P':
		p.state = stateDcsEntry
	case 'X', '^', '_':
		p.state = stateSosPmApc
	case '(', ')', '*', '+', '#', '%':
		p.intermediates = append(p.intermediates, b)
		p.state = stateEscapeIntermediate
	case '7':
		p.screen.SaveCursor()
		p.toGround()
	case '8':
		p.screen.RestoreCursor()
		p.toGround()
	case 'D':
		p.screen.index()
		p.toGround()
	case 'E':
		p.screen.lineFeed(true)
		p.toGround()
	case 'M':
		p.screen.reverseIndex()
		p.toGround()
	case 'H':
		p.screen.setTabStop()
		p.toGround()
	case 'c':
		p.screen.Reset()
		p.toGround()
	case '\\':
		// ST with nothing open.
		p.toGround()
	case '=', '>':
		// Keypad modes: accepted, no buffer effect.
		p.toGround()
	default:
		if b >= 0x30 && b <= 0x7e {
			p.debugf("unhandled ESC final")
		}
		p.toGround()
	}
}

// escapeIntermediate handles two-byte escapes: charset designation
// (ESC ( X etc.), DECALN (ESC # 8) and charset-mode selection (ESC % G).
func (p *Parser) escapeIntermediate(b byte) {
	if b == CAN || b == SUB {
		p.toGround()
		return
	}
	if b < 0x20 {
		p.executeControl(b)
		p.toGround()
		return
	}
	if len(p.intermediates) == 0 {
		p.toGround()
		return
	}
	switch p.intermediates[0] {
	case '(', ')', '*', '+':
		slot := map[byte]int{'(': 0, ')': 1, '*': 2, '+': 3}[p.intermediates[0]]
		if cs, ok := charsetFor(b); ok {
			p.screen.charsets[slot] = cs
		}
	case '#':
		if b == '8' {
			p.screen.AlignmentFill()
		}
	case '%':
		// UTF-8 select/deselect: the engine is always UTF-8; accepted.
	}
	p.toGround()
}

// --- CSI ---

func (p *Parser) csiByte(b byte) {
	switch {
	case b == CAN || b == SUB:
		p.toGround()
	case b == ESC:
		p.resetSequence()
		p.state = stateEscape
	case b < 0x20:
		// Interrupt: execute and abort (CR mid-CSI kills the sequence).
		p.executeControl(b)
		p.toGround()
	case b >= '0' && b <= '9':
		if p.state == stateCsiIntermediate {
			// Parameter after intermediate: malformed, ignore sequence.
			p.toGround()
			return
		}
		p.haveParam = true
		if p.curParam < maxParamVal {
			p.curParam = p.curParam*10 + int(b-'0')
			if p.curParam > maxParamVal {
				p.curParam = maxParamVal
			}
		}
		p.state = stateCsiParam
	case b == ';' || b == ':':
		p.pushParam()
		p.state = stateCsiParam
	case b == '?' || b == '>' || b == '<' || b == '=':
		if p.state != stateCsiEntry {
			p.toGround()
			return
		}
		p.private = b
		p.state = stateCsiParam
	case b >= 0x20 && b <= 0x2f:
		if len(p.intermediates) < 2 {
			p.intermediates = append(p.intermediates, b)
		}
		p.state = stateCsiIntermediate
	case b >= 0x40 && b <= 0x7e:
		p.pushParam()
		p.dispatchCSI(b)
		p.toGround()
	default:
		// DEL or stray high byte inside a sequence: consumed and ignored.
	}
}

func (p *Parser) pushParam() {
	if len(p.params) < maxParams {
		p.params = append(p.params, p.curParam)
	}
	p.curParam = 0
	p.haveParam = false
}

// param returns parameter i with a default for omitted/zero entries.
func (p *Parser) param(i, def int) int {
	if i >= len(p.params) || p.params[i] == 0 {
		return def
	}
	return p.params[i]
}

// paramRaw returns parameter i without zero-defaulting.
func (p *Parser) paramRaw(i, def int) int {
	if i >= len(p.params) {
		return def
	}
	return p.params[i]
}

// --- OSC ---

// oscByte returns true when the byte must be reprocessed in Ground.
func (p *Parser) oscByte(b byte) bool {
	if p.stringEsc {
		p.stringEsc = false
		if b == '\\' {
			p.dispatchOSC()
			p.toGround()
			return false
		}
		// ESC followed by anything else aborts the string.
		p.toGround()
		p.state = stateEscape
		p.resetSequence()
		return b != ESC
	}
	switch {
	case b == BEL:
		p.dispatchOSC()
		p.toGround()
	case b == ST:
		p.dispatchOSC()
		p.toGround()
	case b == ESC:
		p.stringEsc = true
	case b == CAN || b == SUB:
		p.toGround()
	case b < 0x20:
		// Interrupt semantics: the control acts, the string is dropped.
		p.executeControl(b)
		p.toGround()
	default:
		if len(p.osc) < maxOscBytes {
			p.osc = append(p.osc, b)
		} else {
			p.oscClamped = true
		}
	}
	return false
}

// --- DCS ---

func (p *Parser) dcsByte(b byte) {
	switch {
	case b == CAN || b == SUB:
		p.toGround()
	case b == ESC:
		p.resetSequence()
		p.state = stateEscape
	case b < 0x20:
		p.executeControl(b)
		p.toGround()
	case b >= '0' && b <= '9':
		p.haveParam = true
		if p.curParam < maxParamVal {
			p.curParam = p.curParam*10 + int(b-'0')
			if p.curParam > maxParamVal {
				p.curParam = maxParamVal
			}
		}
		p.state = stateDcsParam
	case b == ';':
		p.pushParam()
		p.state = stateDcsParam
	case b >= 0x20 && b <= 0x2f:
		if len(p.intermediates) < 2 {
			p.intermediates = append(p.intermediates, b)
		}
	case b >= 0x40 && b <= 0x7e:
		p.pushParam()
		p.dcsFinal = b
		if b == 'q' && len(p.intermediates) == 0 {
			p.sixel = newSixelDecoder(p.cfg.Sixel, p.params)
		} else {
			// Recognized-but-unimplemented DCS payload: passthrough-ignored.
			p.sixel = nil
			p.debugf("ignored DCS payload")
		}
		p.state = stateDcsPassthrough
	default:
	}
}

// dcsPassthrough forwards body bytes to the sixel decoder (or discards them)
// until ST. Returns true when the byte must be reprocessed in Ground.
func (p *Parser) dcsPassthrough(b byte) bool {
	if p.stringEsc {
		p.stringEsc = false
		if b == '\\' {
			p.finishDCS()
			p.toGround()
			return false
		}
		p.toGround()
		p.state = stateEscape
		p.resetSequence()
		return b != ESC
	}
	switch {
	case b == ESC:
		p.stringEsc = true
	case b == ST:
		p.finishDCS()
		p.toGround()
	case b == CAN || b == SUB:
		p.sixel = nil
		p.toGround()
	case b < 0x20:
		p.executeControl(b)
		p.sixel = nil
		p.toGround()
	default:
		if p.dcsBytes < maxDcsBytes {
			p.dcsBytes++
			if p.sixel != nil {
				p.sixel.consume(b)
			}
		}
	}
	return false
}

func (p *Parser) finishDCS() {
	if p.sixel != nil {
		img := p.sixel.image()
		p.sixel = nil
		p.screen.placeSixel(img, p.cfg.Sixel)
	}
}

// --- SOS/PM/APC ---

// sosPmApcByte swallows the string body; these payloads are ignored whole.
func (p *Parser) sosPmApcByte(b byte) bool {
	if p.stringEsc {
		p.stringEsc = false
		if b == '\\' {
			p.toGround()
			return false
		}
		p.toGround()
		p.state = stateEscape
		p.resetSequence()
		return b != ESC
	}
	switch {
	case b == ESC:
		p.stringEsc = true
	case b == ST || b == CAN || b == SUB:
		p.toGround()
	case b < 0x20:
		p.executeControl(b)
		p.toGround()
	}
	return false
}
