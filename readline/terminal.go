package readline

import (
	"bufio"
	"io"
	"os"
	"time"

	"golang.org/x/term"
)

const maxEscapeBytes = 8

// DefaultEscTimeout bounds how long ReadKey waits for the remainder of
// an escape sequence before classifying a lone 0x1b as the Escape key.
// A terminal delivering sequence bytes later than this will be seen as
// Escape followed by ordinary characters; the window is configurable
// per Terminal.
const DefaultEscTimeout = 50 * time.Millisecond

// Terminal owns raw-mode state for stdin and turns the raw byte stream
// into decoded keys.
type Terminal struct {
	reader      *bufio.Reader
	fd          uintptr
	rawmode     bool
	termios     any
	interactive bool

	// EscTimeout is the lookahead window after an escape byte.
	EscTimeout time.Duration
}

// NewTerminal probes that raw mode can be entered and left again, so
// that Readline fails early on a non-terminal stdin rather than
// mid-edit.
func NewTerminal() (*Terminal, error) {
	fd := os.Stdin.Fd()
	interactive := term.IsTerminal(int(fd))

	if interactive {
		termios, err := SetRawMode(fd)
		if err != nil {
			return nil, err
		}
		if err := UnsetRawMode(fd, termios); err != nil {
			return nil, err
		}
	}

	return &Terminal{
		reader:      bufio.NewReader(os.Stdin),
		fd:          fd,
		interactive: interactive,
		EscTimeout:  DefaultEscTimeout,
	}, nil
}

// newTestTerminal wires the terminal to an arbitrary byte stream. Used
// by tests; never enters raw mode.
func newTestTerminal(r io.Reader) *Terminal {
	return &Terminal{
		reader:     bufio.NewReader(r),
		EscTimeout: DefaultEscTimeout,
	}
}

func (t *Terminal) enableRawMode() error {
	if !t.interactive || t.rawmode {
		return nil
	}
	termios, err := SetRawMode(t.fd)
	if err != nil {
		return err
	}
	t.termios = termios
	t.rawmode = true
	return nil
}

func (t *Terminal) disableRawMode() error {
	if !t.rawmode {
		return nil
	}
	t.rawmode = false
	return UnsetRawMode(t.fd, t.termios)
}

// ReadKey blocks for one keypress and returns exactly one decoded key.
// Only underlying I/O failures are errors; unrecognized byte sequences
// decode to a KindUnknown key.
func (t *Terminal) ReadKey() (Key, error) {
	b, err := t.reader.ReadByte()
	if err != nil {
		return Key{}, err
	}

	buf := make([]byte, 1, maxEscapeBytes+1)
	buf[0] = b

	switch {
	case b == CharEsc:
		buf = t.readEscapeSequence(buf)
	case b >= 0xc0:
		// continuation bytes of a rune arrive back to back
		for t.reader.Buffered() > 0 && len(buf) < 4 {
			nb, err := t.reader.ReadByte()
			if err != nil {
				break
			}
			buf = append(buf, nb)
			if k := decodeKey(buf); k.Kind == KindChar {
				return k, nil
			}
		}
	}

	return decodeKey(buf), nil
}

// readEscapeSequence gathers up to maxEscapeBytes bytes following an
// escape byte. Each byte is taken from the buffered reader if already
// available, otherwise waited for up to EscTimeout; a quiet line means
// the user pressed a lone Escape.
func (t *Terminal) readEscapeSequence(buf []byte) []byte {
	for len(buf) < maxEscapeBytes+1 {
		if t.reader.Buffered() == 0 && !t.waitInput(t.EscTimeout) {
			break
		}
		b, err := t.reader.ReadByte()
		if err != nil {
			break
		}
		buf = append(buf, b)
		if escapeComplete(buf[1:]) {
			break
		}
	}
	return buf
}

// waitInput reports whether at least one byte is readable on the
// terminal before the deadline. Non-interactive streams never wait:
// whatever the bufio reader has is all there is.
func (t *Terminal) waitInput(d time.Duration) bool {
	if !t.interactive {
		return false
	}
	return waitReadable(t.fd, d)
}
