//go:build windows

package main

import (
	"os"
)

// listenForKeyboard reads key presses from the console. Without raw mode
// each key needs Enter.
func listenForKeyboard(keys *shortcuts) {
	buf := make([]byte, 1)
	for {
		n, err := os.Stdin.Read(buf)
		if err != nil || n == 0 {
			continue
		}
		if keys.handle(buf[0]) {
			keys.exit()
		}
	}
}
