// ABOUTME: Unix TIOCGWINSZ size query including pixel dimensions.
// ABOUTME: The kernel winsize struct carries ws_xpixel/ws_ypixel alongside rows and cols.

//go:build unix

package term

import (
	"fmt"

	"golang.org/x/sys/unix"
)

func querySize(fd int) (Size, error) {
	ws, err := unix.IoctlGetWinsize(fd, unix.TIOCGWINSZ)
	if err != nil {
		return Size{}, fmt.Errorf("querying terminal size: %w", err)
	}
	return Size{
		Rows:   int(ws.Row),
		Cols:   int(ws.Col),
		XPixel: int(ws.Xpixel),
		YPixel: int(ws.Ypixel),
	}, nil
}
