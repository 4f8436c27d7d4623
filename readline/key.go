package readline

import (
	"unicode/utf8"
)

// KeyKind enumerates every logical key the decoder can produce.
type KeyKind int

const (
	KindChar KeyKind = iota
	KindCtrl
	KindAlt
	KindEnter
	KindTab
	KindBackspace
	KindDelete
	KindEscape
	KindSpace
	KindArrowUp
	KindArrowDown
	KindArrowLeft
	KindArrowRight
	KindHome
	KindEnd
	KindPageUp
	KindPageDown
	KindFunction
	KindUnknown
)

// Key is one decoded keypress. Rune carries the character for KindChar,
// KindCtrl and KindAlt; Num carries the function key number for
// KindFunction; Raw carries the undecoded bytes for KindUnknown.
type Key struct {
	Kind KeyKind
	Rune rune
	Num  int
	Raw  []byte
}

func Char(r rune) Key  { return Key{Kind: KindChar, Rune: r} }
func Ctrl(r rune) Key  { return Key{Kind: KindCtrl, Rune: r} }
func Alt(r rune) Key   { return Key{Kind: KindAlt, Rune: r} }
func Fn(n int) Key     { return Key{Kind: KindFunction, Num: n} }
func Unknown(raw []byte) Key {
	return Key{Kind: KindUnknown, Raw: append([]byte(nil), raw...)}
}

// Printable reports whether the key inserts a visible character.
func (k Key) Printable() bool {
	return k.Kind == KindChar || k.Kind == KindSpace
}

// Insertable returns the rune a printable key inserts, or 0.
func (k Key) Insertable() rune {
	switch k.Kind {
	case KindChar:
		return k.Rune
	case KindSpace:
		return ' '
	}
	return 0
}

// decodeKey classifies one complete keypress. buf holds the first byte
// read plus, after an escape byte, any lookahead bytes that arrived in
// time. Unexpected input is never an error: it decodes to KindUnknown.
func decodeKey(buf []byte) Key {
	if len(buf) == 0 {
		return Unknown(buf)
	}

	switch b := buf[0]; {
	case b == CharEsc:
		return decodeEscape(buf)
	case b == CharCtrlH, b == CharBackspace:
		return Key{Kind: KindBackspace}
	case b == CharTab:
		return Key{Kind: KindTab}
	case b == CharEnter, b == CharCtrlJ:
		return Key{Kind: KindEnter}
	case b == CharSpace:
		return Key{Kind: KindSpace}
	case b >= 1 && b <= 26:
		return Ctrl(rune('a' + b - 1))
	case b > CharSpace && b < CharBackspace:
		return Char(rune(b))
	case b >= 0xc0:
		// UTF-8 lead byte; the continuation bytes were gathered by the
		// caller. An incomplete or malformed sequence stays unknown.
		if r, size := utf8.DecodeRune(buf); r != utf8.RuneError && size == len(buf) {
			return Char(r)
		}
		return Unknown(buf)
	default:
		return Unknown(buf)
	}
}

func decodeEscape(buf []byte) Key {
	if len(buf) == 1 {
		return Key{Kind: KindEscape}
	}

	seq := buf[1:]

	if len(seq) == 1 && seq[0] >= CharSpace && seq[0] < CharBackspace {
		return Alt(rune(seq[0]))
	}
	if len(seq) == 1 && (seq[0] == CharCtrlH || seq[0] == CharBackspace) {
		return Alt(rune(CharBackspace))
	}

	switch string(seq) {
	case "[A":
		return Key{Kind: KindArrowUp}
	case "[B":
		return Key{Kind: KindArrowDown}
	case "[C":
		return Key{Kind: KindArrowRight}
	case "[D":
		return Key{Kind: KindArrowLeft}
	case "OP":
		return Fn(1)
	case "OQ":
		return Fn(2)
	case "OR":
		return Fn(3)
	case "OS":
		return Fn(4)
	case "[15~":
		return Fn(5)
	case "[17~":
		return Fn(6)
	case "[18~":
		return Fn(7)
	case "[19~":
		return Fn(8)
	case "[20~":
		return Fn(9)
	case "[21~":
		return Fn(10)
	case "[23~":
		return Fn(11)
	case "[24~":
		return Fn(12)
	case "[H", "[1~":
		return Key{Kind: KindHome}
	case "[F", "[4~":
		return Key{Kind: KindEnd}
	case "[5~":
		return Key{Kind: KindPageUp}
	case "[6~":
		return Key{Kind: KindPageDown}
	case "[3~":
		return Key{Kind: KindDelete}
	}

	return Unknown(buf)
}

// escapeComplete reports whether seq (the bytes following an escape
// byte) can no longer grow into a longer recognized sequence, so the
// lookahead read may stop early.
func escapeComplete(seq []byte) bool {
	if len(seq) == 0 {
		return false
	}
	switch seq[0] {
	case CharEscapeEx: // CSI: terminated by a byte in 0x40..0x7e
		last := seq[len(seq)-1]
		return len(seq) > 1 && last >= 0x40 && last <= 0x7e
	case 'O': // SS3: exactly one byte follows
		return len(seq) == 2
	default: // alt+char
		return true
	}
}
