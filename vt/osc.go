package vt

import (
	"fmt"
	"strconv"
	"strings"
)

// dispatchOSC handles a terminated OSC string: window title and icon name,
// OSC 8 hyperlinks, and OSC 4 palette queries. Anything else is consumed
// and surfaced only through the diagnostic hook.
func (p *Parser) dispatchOSC() {
	if p.oscClamped {
		// The payload was truncated at the cap; a partial title or URI is
		// worse than none.
		p.debugf("oversized OSC dropped")
		return
	}
	body := string(p.osc)
	code, rest, found := strings.Cut(body, ";")
	if !found {
		rest = ""
	}
	switch code {
	case "0":
		p.screen.title = rest
		p.screen.iconName = rest
		p.fireTitle(rest)
	case "1":
		p.screen.iconName = rest
		if p.onIcon != nil {
			p.onIcon(rest)
		}
	case "2":
		p.screen.title = rest
		p.fireTitle(rest)
	case "4":
		p.paletteOSC(rest)
	case "8":
		p.hyperlinkOSC(rest)
	default:
		p.debugf("unhandled OSC " + code)
	}
}

func (p *Parser) fireTitle(t string) {
	if p.onTitle != nil {
		p.onTitle(t)
	}
}

// hyperlinkOSC implements OSC 8 (params ; URI). The URI becomes part of the
// pen until a closing OSC 8 with an empty URI.
func (p *Parser) hyperlinkOSC(rest string) {
	_, uri, found := strings.Cut(rest, ";")
	if !found {
		uri = ""
	}
	p.screen.cursor.Style.Link = uri
}

// paletteOSC answers OSC 4 color queries ("n;?") with an rgb:rr/gg/bb
// report; set requests are accepted but the engine palette is fixed.
func (p *Parser) paletteOSC(rest string) {
	for rest != "" {
		var idxStr, spec string
		idxStr, rest, _ = strings.Cut(rest, ";")
		spec, rest, _ = strings.Cut(rest, ";")
		n, err := strconv.Atoi(idxStr)
		if err != nil || n < 0 || n > 255 {
			continue
		}
		if spec == "?" {
			reply := fmt.Sprintf("\x1b]4;%d;%s\x07", n, paletteReply(n))
			p.emitResponse([]byte(reply))
		} else {
			p.debugf("OSC 4 palette set ignored")
		}
	}
}
