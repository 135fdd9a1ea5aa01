// ABOUTME: Wire-level escape sequences: cursor control and the kitty graphics command
// ABOUTME: Transfers reference a shared-memory object by base64-encoded name

package kitty

import (
	"encoding/base64"
	"fmt"
	"io"
)

const (
	escGotoXY        = "\x1b[%d;%df"
	escHideCursor    = "\x1b[?25l"
	escRestoreCursor = "\x1b[?25h"
	escClearScreen   = "\x1b[2J"
)

// emitTransfer writes the cursor-positioning sequence for the 1-based
// cell (top, left) followed by the graphics command telling the terminal
// to read a width x height 32-bit RGBA image from the named
// shared-memory object (a=T transmit, f=32 RGBA, t=s shared memory).
func emitTransfer(w io.Writer, top, left, width, height int, shmName string) error {
	name := base64.StdEncoding.EncodeToString([]byte(shmName))
	if _, err := fmt.Fprintf(w, escGotoXY, top, left); err != nil {
		return fmt.Errorf("writing cursor position: %w", err)
	}
	if _, err := fmt.Fprintf(w, "\x1b_Ga=T,f=32,t=s,s=%d,v=%d;%s\x1b\\", width, height, name); err != nil {
		return fmt.Errorf("writing graphics command: %w", err)
	}
	return nil
}
