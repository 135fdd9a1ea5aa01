// ABOUTME: Environment-based detection of kitty graphics protocol support
// ABOUTME: Recognizes kitty itself plus Ghostty and WezTerm as protocol-compatible

package kitty

import (
	"os"
	"strings"
)

// SupportedTerminal reports whether the environment looks like a
// terminal that implements the kitty graphics protocol.
func SupportedTerminal() bool {
	if os.Getenv("KITTY_WINDOW_ID") != "" {
		return true
	}

	prog := strings.ToLower(os.Getenv("TERM_PROGRAM"))
	if prog == "kitty" || prog == "ghostty" || prog == "wezterm" {
		return true
	}

	if os.Getenv("GHOSTTY_RESOURCES_DIR") != "" || os.Getenv("WEZTERM_PANE") != "" {
		return true
	}

	return strings.Contains(os.Getenv("TERM"), "kitty")
}
