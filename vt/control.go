package vt

// C0 control bytes.
const (
	NUL byte = 0x00
	BEL byte = 0x07
	BS  byte = 0x08
	HT  byte = 0x09
	LF  byte = 0x0a
	VT  byte = 0x0b
	FF  byte = 0x0c
	CR  byte = 0x0d
	SO  byte = 0x0e
	SI  byte = 0x0f
	CAN byte = 0x18
	SUB byte = 0x1a
	ESC byte = 0x1b
	DEL byte = 0x7f
)

// C1 control bytes (8-bit forms).
const (
	IND  byte = 0x84
	NEL  byte = 0x85
	HTS  byte = 0x88
	RI   byte = 0x8d
	SS2  byte = 0x8e
	SS3  byte = 0x8f
	DCS  byte = 0x90
	SOS  byte = 0x98
	CSI  byte = 0x9b
	ST   byte = 0x9c
	OSC  byte = 0x9d
	PM   byte = 0x9e
	APC  byte = 0x9f
)
