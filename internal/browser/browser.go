package browser

import (
	"fmt"
	"net/url"
	"os/exec"
	"runtime"
	"strings"
)

// Commander starts external programs
type Commander interface {
	Start(name string, args ...string) error
}

// RealCommander runs commands with os/exec
type RealCommander struct{}

func (RealCommander) Start(name string, args ...string) error {
	return exec.Command(name, args...).Start()
}

var defaultCommander Commander = RealCommander{}

// GameURL returns the page address for a game on the server at base. An
// empty gameID yields the page that starts a fresh game.
func GameURL(base, gameID string) string {
	target := strings.TrimSuffix(base, "/") + "/"
	if gameID != "" {
		target += "?game=" + url.QueryEscape(gameID)
	}
	return target
}

// Open opens rawURL in the default browser
func Open(rawURL string) error {
	return OpenWithCommander(rawURL, defaultCommander, runtime.GOOS)
}

// OpenWithCommander opens rawURL with commander as if running on goos. Only
// http and https URLs are handed to the platform opener.
func OpenWithCommander(rawURL string, commander Commander, goos string) error {
	u, err := url.Parse(rawURL)
	if err != nil {
		return fmt.Errorf("invalid url %q: %w", rawURL, err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("refusing to open %q: scheme must be http or https", rawURL)
	}

	var name string
	var args []string

	switch goos {
	case "linux", "freebsd", "openbsd", "netbsd":
		name = "xdg-open"
		args = []string{rawURL}
	case "darwin":
		name = "open"
		args = []string{rawURL}
	case "windows":
		name = "rundll32"
		args = []string{"url.dll,FileProtocolHandler", rawURL}
	default:
		return fmt.Errorf("unsupported platform: %s", goos)
	}

	return commander.Start(name, args...)
}
