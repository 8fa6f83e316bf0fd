//go:build darwin

package main

import (
	"os"

	"golang.org/x/sys/unix"
)

// listenForKeyboard puts the terminal in raw mode and dispatches key presses
func listenForKeyboard(keys *shortcuts) {
	fd := int(os.Stdin.Fd())
	oldState, err := unix.IoctlGetTermios(fd, unix.TIOCGETA)
	if err != nil {
		// Not a terminal
		return
	}

	newState := *oldState
	newState.Lflag &^= unix.ICANON | unix.ECHO
	newState.Cc[unix.VMIN] = 1
	newState.Cc[unix.VTIME] = 0

	if err := unix.IoctlSetTermios(fd, unix.TIOCSETA, &newState); err != nil {
		return
	}
	restore := func() {
		unix.IoctlSetTermios(fd, unix.TIOCSETA, oldState)
	}
	defer restore()

	buf := make([]byte, 1)
	for {
		n, err := os.Stdin.Read(buf)
		if err != nil || n == 0 {
			continue
		}
		if keys.handle(buf[0]) {
			restore()
			keys.exit()
		}
	}
}
