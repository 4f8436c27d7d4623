//go:build !windows

package readline

import (
	"fmt"
	"time"

	"golang.org/x/sys/unix"
)

type Termios unix.Termios

// SetRawMode snapshots the current terminal attributes and switches the
// terminal to unbuffered, unechoed, byte-at-a-time delivery (VMIN=1,
// VTIME=0). The returned snapshot must be handed back to UnsetRawMode.
func SetRawMode(fd uintptr) (*Termios, error) {
	termios, err := getTermios(fd)
	if err != nil {
		return nil, err
	}

	newTermios := *termios
	newTermios.Iflag &^= unix.IGNBRK | unix.BRKINT | unix.PARMRK | unix.ISTRIP | unix.INLCR | unix.IGNCR | unix.ICRNL | unix.IXON
	newTermios.Lflag &^= unix.ECHO | unix.ECHONL | unix.ICANON | unix.ISIG | unix.IEXTEN
	newTermios.Cflag &^= unix.CSIZE | unix.PARENB
	newTermios.Cflag |= unix.CS8
	newTermios.Cc[unix.VMIN] = 1
	newTermios.Cc[unix.VTIME] = 0

	return termios, setTermios(fd, &newTermios)
}

// UnsetRawMode restores the attributes captured by SetRawMode.
func UnsetRawMode(fd uintptr, termios any) error {
	t, ok := termios.(*Termios)
	if !ok {
		return fmt.Errorf("%w: invalid terminal state snapshot", ErrTerminalControl)
	}
	return setTermios(fd, t)
}

func getTermios(fd uintptr) (*Termios, error) {
	termios, err := unix.IoctlGetTermios(int(fd), tcgets)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrTerminalControl, err)
	}
	return (*Termios)(termios), nil
}

func setTermios(fd uintptr, termios *Termios) error {
	if err := unix.IoctlSetTermios(int(fd), tcsets, (*unix.Termios)(termios)); err != nil {
		return fmt.Errorf("%w: %v", ErrTerminalControl, err)
	}
	return nil
}

// waitReadable polls the terminal for pending input, so that a lone
// escape keypress is not confused with the start of a sequence.
func waitReadable(fd uintptr, d time.Duration) bool {
	fds := []unix.PollFd{{Fd: int32(fd), Events: unix.POLLIN}}
	for {
		n, err := unix.Poll(fds, int(d.Milliseconds()))
		if err == unix.EINTR {
			continue
		}
		return err == nil && n > 0
	}
}
