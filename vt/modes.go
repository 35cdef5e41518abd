package vt

// ANSI modes (CSI Pm h / l).
const (
	modeIRM = 4  // insert/replace
	modeLNM = 20 // LF implies CR
)

// DEC private modes (CSI ? Pm h / l). Only the behavioral ones get cached
// flags on the screen; the rest are tracked in the mode set so DECRQM-style
// collaborators can still observe them.
const (
	modeDECCKM         = 1    // application cursor keys
	modeDECCOLM        = 3    // 132 column mode
	modeDECSCNM        = 5    // reverse video
	modeDECOM          = 6    // origin mode
	modeDECAWM         = 7    // autowrap
	modeDECTCEM        = 25   // cursor visible
	modeAltScr         = 47   // alternate screen (legacy)
	modeSaveCur        = 1048 // save/restore cursor
	modeAltScr2        = 1047 // alternate screen, clear on exit
	modeAltFull        = 1049 // save cursor + alternate screen + clear
	modeBracketedPaste = 2004
)
