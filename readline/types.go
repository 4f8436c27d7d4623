package readline

import (
	"errors"
	"strconv"
)

// Control bytes as delivered by a raw-mode terminal.
const (
	CharNull      = 0
	CharLineStart = 1
	CharBackward  = 2
	CharInterrupt = 3
	CharDelete    = 4
	CharLineEnd   = 5
	CharForward   = 6
	CharBell      = 7
	CharCtrlH     = 8
	CharTab       = 9
	CharCtrlJ     = 10
	CharKill      = 11
	CharCtrlL     = 12
	CharEnter     = 13
	CharNext      = 14
	CharPrev      = 16
	CharBckSearch = 18
	CharFwdSearch = 19
	CharCtrlU     = 21
	CharCtrlW     = 23
	CharCtrlZ     = 26
	CharEsc       = 27
	CharSpace     = 32
	CharEscapeEx  = 91
	CharBackspace = 127
)

const (
	KeyUp    = 65
	KeyDown  = 66
	KeyRight = 67
	KeyLeft  = 68
)

const (
	CursorUp    = "\033[1A"
	CursorDown  = "\033[1B"
	CursorRight = "\033[1C"
	CursorLeft  = "\033[1D"

	CursorSave    = "\033[s"
	CursorRestore = "\033[u"

	CursorBOL   = "\r"
	CursorHide  = "\033[?25l"
	CursorShow  = "\033[?25h"
	CursorReset = "\033[0;0f"

	ColorGrey    = "\033[38;5;245m"
	ColorDefault = "\033[0m"

	ClearToEOL  = "\033[K"
	ClearLine   = "\r\033[K"
	ClearScreen = "\033[2J\033[0;0f"
)

func CursorUpN(n int) string {
	return "\033[" + strconv.Itoa(n) + "A"
}

func CursorDownN(n int) string {
	return "\033[" + strconv.Itoa(n) + "B"
}

func CursorRightN(n int) string {
	return "\033[" + strconv.Itoa(n) + "C"
}

func CursorLeftN(n int) string {
	return "\033[" + strconv.Itoa(n) + "D"
}

var (
	// ErrInterrupt is returned by Readline when the user presses ctrl+c.
	ErrInterrupt = errors.New("Interrupt")

	// ErrTerminalControl wraps failures to query or change the terminal
	// input mode, e.g. when stdin is not a terminal.
	ErrTerminalControl = errors.New("terminal control")
)
