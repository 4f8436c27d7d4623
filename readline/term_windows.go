//go:build windows

package readline

import (
	"fmt"
	"time"

	"golang.org/x/sys/windows"
)

type State struct {
	mode uint32
}

// SetRawMode snapshots the console input mode and disables line
// buffering, echo and input processing so keys are delivered byte by
// byte, with VT escape sequences passed through.
func SetRawMode(fd uintptr) (*State, error) {
	var mode uint32
	if err := windows.GetConsoleMode(windows.Handle(fd), &mode); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrTerminalControl, err)
	}

	raw := mode &^ (windows.ENABLE_ECHO_INPUT | windows.ENABLE_LINE_INPUT | windows.ENABLE_PROCESSED_INPUT)
	raw |= windows.ENABLE_VIRTUAL_TERMINAL_INPUT

	if err := windows.SetConsoleMode(windows.Handle(fd), raw); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrTerminalControl, err)
	}
	return &State{mode: mode}, nil
}

// UnsetRawMode restores the mode captured by SetRawMode.
func UnsetRawMode(fd uintptr, state any) error {
	s, ok := state.(*State)
	if !ok {
		return fmt.Errorf("%w: invalid terminal state snapshot", ErrTerminalControl)
	}
	if err := windows.SetConsoleMode(windows.Handle(fd), s.mode); err != nil {
		return fmt.Errorf("%w: %v", ErrTerminalControl, err)
	}
	return nil
}

// waitReadable waits for pending console input before the deadline.
func waitReadable(fd uintptr, d time.Duration) bool {
	ev, err := windows.WaitForSingleObject(windows.Handle(fd), uint32(d.Milliseconds()))
	return err == nil && ev == windows.WAIT_OBJECT_0
}
