//go:build darwin || freebsd || netbsd || openbsd

package readline

import "golang.org/x/sys/unix"

const (
	tcgets = unix.TIOCGETA
	tcsets = unix.TIOCSETA
)
