// ABOUTME: ProcessTerminal implements Terminal on os.Stdout.
// ABOUTME: Delegates the pixel-size query to platform-specific code.

package term

import (
	"fmt"
	"os"

	"golang.org/x/term"
)

// ProcessTerminal is the real terminal attached to os.Stdout.
// Writes go straight to the file descriptor, so Flush is a no-op kept
// for interface symmetry with buffered test terminals.
type ProcessTerminal struct{}

// NewProcessTerminal returns a ProcessTerminal ready for use.
func NewProcessTerminal() *ProcessTerminal {
	return &ProcessTerminal{}
}

// Size returns the terminal dimensions in cells and, where the platform
// reports them, pixels.
func (t *ProcessTerminal) Size() (Size, error) {
	return querySize(int(os.Stdout.Fd()))
}

// Write sends bytes to os.Stdout.
func (t *ProcessTerminal) Write(p []byte) (int, error) {
	n, err := os.Stdout.Write(p)
	if err != nil {
		return n, fmt.Errorf("writing to stdout: %w", err)
	}
	return n, nil
}

// Flush is a no-op; writes are unbuffered.
func (t *ProcessTerminal) Flush() error { return nil }

// IsTTY reports whether stdout is attached to a terminal.
func IsTTY() bool {
	return term.IsTerminal(int(os.Stdout.Fd()))
}
