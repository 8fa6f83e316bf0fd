package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/abrezinsky/jeopardy/internal/browser"
	"github.com/abrezinsky/jeopardy/internal/logger"
)

// shortcuts maps single key presses to server actions
type shortcuts struct {
	gameURL  string
	log      *logger.SlogLogger
	open     func(url string) error
	shutdown func()
}

func newShortcuts(gameURL string, log *logger.SlogLogger, shutdown func()) *shortcuts {
	return &shortcuts{gameURL: gameURL, log: log, open: browser.Open, shutdown: shutdown}
}

// handle runs the action bound to key and reports whether the server
// should exit
func (s *shortcuts) handle(key byte) bool {
	switch strings.ToLower(string(key)) {
	case "o":
		fmt.Printf("%sOpening the game in browser...%s\n", cyan, reset)
		if err := s.open(s.gameURL); err != nil {
			fmt.Printf("%sError opening browser: %v%s\n", red, err, reset)
		}
	case "h":
		if s.log.IsHTTPLoggingEnabled() {
			s.log.DisableHTTPLogging()
			fmt.Printf("%sHTTP logging disabled%s\n", yellow, reset)
		} else {
			s.log.EnableHTTPLogging()
			fmt.Printf("%sHTTP logging enabled%s\n", green, reset)
		}
	case "l":
		cycleLogLevel(s.log)
	case "?":
		printKeyboardHelp()
	case "q", "\x03": // Ctrl+C
		return true
	}
	return false
}

// exit stops the server and the process. Callers restore the terminal first.
func (s *shortcuts) exit() {
	fmt.Printf("%sShutting down server...%s\n", yellow, reset)
	if s.shutdown != nil {
		s.shutdown()
	}
	os.Exit(0)
}
