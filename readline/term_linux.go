//go:build linux

package readline

import "golang.org/x/sys/unix"

const (
	tcgets = unix.TCGETS
	tcsets = unix.TCSETS
)
